package domain

import "time"

// FarmerContact is the notification address of a product owner.
type FarmerContact struct {
	FarmerID string
	Name     string
	Email    string
}

// FarmerProfile is the public profile a farmer maintains. Its name and email
// double as the farmer's notification contact.
type FarmerProfile struct {
	FarmerID  string
	Name      string
	Email     string
	Phone     *string
	Location  string
	Bio       *string
	Website   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p FarmerProfile) Contact() FarmerContact {
	return FarmerContact{FarmerID: p.FarmerID, Name: p.Name, Email: p.Email}
}
