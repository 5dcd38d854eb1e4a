package domain

import "time"

type DeliveryPoint struct {
	ID        string
	FarmerID  string
	Name      string
	Address   string
	Zone      string
	Latitude  *float64
	Longitude *float64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type DeliveryPointFilter struct {
	FarmerID   string
	Zone       string
	ActiveOnly bool
}
