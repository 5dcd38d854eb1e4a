package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var nextStatus = map[OrderStatus]OrderStatus{
	OrderStatusPending:   OrderStatusConfirmed,
	OrderStatusConfirmed: OrderStatusPreparing,
	OrderStatusPreparing: OrderStatusReady,
	OrderStatusReady:     OrderStatusDelivered,
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Next returns the single forward status reachable from s.
func (s OrderStatus) Next() (OrderStatus, bool) {
	n, ok := nextStatus[s]
	return n, ok
}

// CanTransition reports whether an order in status from may move to to:
// either one step forward, or to cancelled from any non-terminal status.
func CanTransition(from, to OrderStatus) bool {
	if from.Terminal() {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	next, ok := from.Next()
	return ok && next == to
}

type DeliverySlot string

const (
	SlotTuesdayMorning   DeliverySlot = "tue-am"
	SlotTuesdayAfternoon DeliverySlot = "tue-pm"
	SlotFridayMorning    DeliverySlot = "fri-am"
	SlotFridayAfternoon  DeliverySlot = "fri-pm"
)

func (d DeliverySlot) Valid() bool {
	switch d {
	case SlotTuesdayMorning, SlotTuesdayAfternoon, SlotFridayMorning, SlotFridayAfternoon:
		return true
	}
	return false
}

type Customer struct {
	Name  *string
	Email *string
	Phone *string
}

// HasEmail reports whether the customer can be reached by email.
func (c Customer) HasEmail() bool {
	return c.Email != nil && *c.Email != ""
}

type Order struct {
	ID                 string
	UserID             *string
	Customer           Customer
	DeliverySlot       DeliverySlot
	Logistics          Logistics
	Notes              *string
	Status             OrderStatus
	CancellationReason *string
	CancellationViewed bool
	TotalItems         int
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Lines              []OrderLine
}

type OrderLine struct {
	ID          string
	OrderID     string
	ProductID   string
	FarmerID    string
	ProductName string
	Quantity    int
	CreatedAt   time.Time
}

func (o Order) PlacedBy(userID string) bool {
	return o.UserID != nil && userID != "" && *o.UserID == userID
}

// LinesByFarmer groups the order's lines by the farmer that owns each product,
// keeping line order within each group.
func (o Order) LinesByFarmer() map[string][]OrderLine {
	grouped := make(map[string][]OrderLine)
	for _, line := range o.Lines {
		if line.FarmerID == "" {
			continue
		}
		grouped[line.FarmerID] = append(grouped[line.FarmerID], line)
	}
	return grouped
}

// ShortID is the id prefix shown to humans in notifications.
func (o Order) ShortID() string {
	if len(o.ID) <= 8 {
		return o.ID
	}
	return o.ID[:8]
}

// TotalQuantity sums line quantities.
func TotalQuantity(lines []OrderLine) int {
	total := 0
	for _, line := range lines {
		total += line.Quantity
	}
	return total
}
