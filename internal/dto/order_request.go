package dto

type PlaceOrderRequest struct {
	CustomerName    *string            `json:"customerName"`
	CustomerEmail   *string            `json:"customerEmail"`
	CustomerPhone   *string            `json:"customerPhone"`
	DeliverySlot    string             `json:"deliverySlot"`
	LogisticsMode   string             `json:"logisticsMode"`
	DeliveryPointID *string            `json:"deliveryPointId"`
	Notes           *string            `json:"notes"`
	Items           []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason"`
}
