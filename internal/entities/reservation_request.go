package entities

// CreateReservationRequest is the body of POST /api/reservations. The date is
// an RFC3339 timestamp; guests must be between 1 and 8.
type CreateReservationRequest struct {
	ReservationDate string `json:"reservation_date"`
	NumberOfGuests  int    `json:"number_of_guests"`
}

// UpdateReservationRequest carries a partial update: fields left empty keep
// their stored value.
type UpdateReservationRequest struct {
	ReservationDate string `json:"reservation_date,omitempty"`
	NumberOfGuests  *int   `json:"number_of_guests,omitempty"`
}
