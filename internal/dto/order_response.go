package dto

import (
	"time"

	"agrolink/internal/domain"
)

type OrderResponse struct {
	ID                 string              `json:"id"`
	UserID             *string             `json:"userId"`
	CustomerName       *string             `json:"customerName"`
	CustomerEmail      *string             `json:"customerEmail"`
	CustomerPhone      *string             `json:"customerPhone"`
	DeliverySlot       string              `json:"deliverySlot"`
	LogisticsMode      string              `json:"logisticsMode"`
	DeliveryPointID    *string             `json:"deliveryPointId"`
	Notes              *string             `json:"notes"`
	Status             string              `json:"status"`
	CancellationReason *string             `json:"cancellationReason"`
	CancellationViewed bool                `json:"cancellationViewed"`
	TotalItems         int                 `json:"totalItems"`
	Items              []OrderLineResponse `json:"items"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

type OrderLineResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	FarmerID    string `json:"farmerId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
}

type CountResponse struct {
	Count int `json:"count"`
}

func FromOrder(o domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:                 o.ID,
		UserID:             o.UserID,
		CustomerName:       o.Customer.Name,
		CustomerEmail:      o.Customer.Email,
		CustomerPhone:      o.Customer.Phone,
		DeliverySlot:       string(o.DeliverySlot),
		LogisticsMode:      string(o.Logistics.Mode()),
		Notes:              o.Notes,
		Status:             string(o.Status),
		CancellationReason: o.CancellationReason,
		CancellationViewed: o.CancellationViewed,
		TotalItems:         o.TotalItems,
		Items:              make([]OrderLineResponse, 0, len(o.Lines)),
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
	if id, ok := o.Logistics.MeetingPointID(); ok {
		resp.DeliveryPointID = &id
	}
	for _, line := range o.Lines {
		resp.Items = append(resp.Items, OrderLineResponse{
			ID:          line.ID,
			ProductID:   line.ProductID,
			FarmerID:    line.FarmerID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
		})
	}
	return resp
}

func FromOrders(orders []domain.Order) []OrderResponse {
	resp := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, FromOrder(o))
	}
	return resp
}

type DeletedResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
