package entities

import "time"

// ReservationResponse is the wire form of a reservation row.
type ReservationResponse struct {
	ID              int       `json:"id"`
	UserID          int       `json:"user_id"`
	ReservationDate time.Time `json:"reservation_date"`
	NumberOfGuests  int       `json:"number_of_guests"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	UserEmail       string    `json:"email,omitempty"`
}
