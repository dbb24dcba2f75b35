package models

import "time"

// Reservation is a booking record from the reservations API. Listing is the
// nested apartment, when the backend joins it in.
type Reservation struct {
	ID         int64     `json:"id"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	TotalPrice float64   `json:"totalPrice"`
	CreatedAt  time.Time `json:"createdAt"`
	Listing    *Listing  `json:"appartement,omitempty"`
}
