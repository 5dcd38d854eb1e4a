package dto

import "agrolink/internal/domain"

// CartItem is one requested product in a cart. Several items may name the
// same product; placement merges them.
type CartItem struct {
	ProductID string
	Quantity  int
}

type PlaceOrderInput struct {
	UserID       *string
	Customer     domain.Customer
	DeliverySlot domain.DeliverySlot
	Logistics    domain.Logistics
	Notes        *string
	Items        []CartItem
}

type TransitionInput struct {
	OrderID string
	Status  domain.OrderStatus
	Reason  *string
}
