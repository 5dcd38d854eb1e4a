package domain

import "time"

type Product struct {
	ID            string
	FarmerID      string
	Name          string
	Category      string
	PriceRange    string
	HarvestWindow string
	Location      string
	ImageURL      *string
	Stock         int
	Availability  Availability
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SetStock writes stock and the derived availability together.
func (p *Product) SetStock(stock int) {
	p.Stock = stock
	p.Availability = AvailabilityFor(stock)
}

func (p Product) OwnedBy(farmerID string) bool {
	return farmerID != "" && p.FarmerID == farmerID
}

// StockAdjustment is a signed change to a product's stock: negative to
// reserve, positive to restore.
type StockAdjustment struct {
	ProductID string
	Delta     int
}

type ProductFilter struct {
	FarmerID   string
	OnlyActive bool
}
