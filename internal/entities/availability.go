package entities

// Slot is one bookable start time produced by the slot generator.
type Slot struct {
	Time     string `json:"time"`
	Datetime string `json:"datetime"`
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}

type SlotsResponse struct {
	Slots []Slot `json:"slots"`
}
