package deliverypoint

import "time"

type CreateInput struct {
	FarmerID  string
	Name      string
	Address   string
	Zone      string
	Latitude  *float64
	Longitude *float64
	IsActive  *bool
}

// Patch carries the fields a farmer may change; nil fields are left alone.
type Patch struct {
	Name      *string
	Address   *string
	Zone      *string
	Latitude  *float64
	Longitude *float64
	IsActive  *bool
}

type CreateRequest struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Zone      string   `json:"zone"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	IsActive  *bool    `json:"isActive"`
}

type UpdateRequest struct {
	Name      *string  `json:"name"`
	Address   *string  `json:"address"`
	Zone      *string  `json:"zone"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	IsActive  *bool    `json:"isActive"`
}

type DeliveryPointDTO struct {
	ID        string    `json:"id"`
	FarmerID  string    `json:"farmerId"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Zone      string    `json:"zone"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
