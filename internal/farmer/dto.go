package farmer

import "time"

type UpsertInput struct {
	FarmerID string
	Name     string
	Email    string
	Phone    *string
	Location string
	Bio      *string
	Website  *string
}

type UpsertRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
	Location string  `json:"location"`
	Bio      *string `json:"bio"`
	Website  *string `json:"website"`
}

type ProfileDTO struct {
	FarmerID  string    `json:"farmerId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Location  string    `json:"location"`
	Bio       *string   `json:"bio"`
	Website   *string   `json:"website"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
