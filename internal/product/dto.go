package product

import "time"

// Requester is the caller acting on a product.
type Requester struct {
	ID    string
	Admin bool
}

type CreateInput struct {
	FarmerID      string
	Name          string
	Category      string
	PriceRange    string
	HarvestWindow string
	Location      string
	ImageURL      *string
	Stock         int
	IsActive      *bool
}

// Patch carries the fields to change; nil fields are left alone. Stock is an
// absolute value. Availability is an administrative override honoured only
// when Stock is nil.
type Patch struct {
	Name          *string
	Category      *string
	PriceRange    *string
	HarvestWindow *string
	Location      *string
	ImageURL      *string
	Stock         *int
	IsActive      *bool
	Availability  *string
}

type CreateProductRequest struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	PriceRange    string  `json:"priceRange"`
	HarvestWindow string  `json:"harvestWindow"`
	Location      string  `json:"location"`
	ImageURL      *string `json:"imageUrl"`
	Stock         int     `json:"stock"`
	IsActive      *bool   `json:"isActive"`
}

type UpdateProductRequest struct {
	Name          *string `json:"name"`
	Category      *string `json:"category"`
	PriceRange    *string `json:"priceRange"`
	HarvestWindow *string `json:"harvestWindow"`
	Location      *string `json:"location"`
	ImageURL      *string `json:"imageUrl"`
	Stock         *int    `json:"stock"`
	IsActive      *bool   `json:"isActive"`
	Availability  *string `json:"availability"`
}

type AdjustStockRequest struct {
	Delta int `json:"delta"`
}

type ProductDTO struct {
	ID            string    `json:"id"`
	FarmerID      string    `json:"farmerId"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	PriceRange    string    `json:"priceRange"`
	HarvestWindow string    `json:"harvestWindow"`
	Location      string    `json:"location"`
	ImageURL      *string   `json:"imageUrl"`
	Stock         int       `json:"stock"`
	Availability  string    `json:"availability"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
