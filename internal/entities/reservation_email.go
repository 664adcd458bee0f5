package entities

// ReservationEmailData feeds the HTML email template.
type ReservationEmailData struct {
	UserName       string
	ReservationID  int
	NumberOfGuests int
	DateFormatted  string
	Status         string
	CurrentYear    int
}
