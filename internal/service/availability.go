package service

import (
	"fmt"
	"time"

	"pizzeria/internal/entities"
)

const (
	// VenueCapacity is the maximum number of guests seated at any instant
	// (8 tables of 2).
	VenueCapacity = 16

	// SeatingDuration is how long a party occupies its tables.
	SeatingDuration = 90 * time.Minute

	slotStep = 30 * time.Minute
)

type openPeriod struct {
	openHour, openMinute   int
	closeHour, closeMinute int
}

// weeklySchedule maps a weekday to its opening periods (lunch and dinner
// services where split). Sunday and Saturday run continuous service.
var weeklySchedule = map[time.Weekday][]openPeriod{
	time.Sunday:    {{11, 30, 22, 0}},
	time.Monday:    {{11, 30, 14, 30}, {18, 30, 22, 30}},
	time.Tuesday:   {{11, 30, 14, 30}, {18, 30, 22, 30}},
	time.Wednesday: {{11, 30, 14, 30}, {18, 30, 22, 30}},
	time.Thursday:  {{11, 30, 14, 30}, {18, 30, 22, 30}},
	time.Friday:    {{11, 30, 14, 30}, {18, 30, 23, 0}},
	time.Saturday:  {{11, 30, 23, 0}},
}

// IsAvailable reports whether a party of the given size fits in the
// 90-minute window starting at start, given every pending or confirmed
// reservation whose own window overlaps it. Read-only.
func (s *ReservationService) IsAvailable(start time.Time, guests int) (bool, error) {
	end := start.Add(SeatingDuration)
	total, err := s.Store.SumOverlappingGuests(start, end)
	if err != nil {
		return false, fmt.Errorf("error checking availability: %w", err)
	}
	return total+guests <= VenueCapacity, nil
}

// AvailableSlots enumerates every bookable start time on the given day for a
// party of the given size. Candidates advance in 30-minute steps from each
// period's opening; a candidate is kept only when its full seating fits
// before closing and the capacity check passes.
func (s *ReservationService) AvailableSlots(date time.Time, guests int) ([]entities.Slot, error) {
	// date names a calendar day; its zone and time of day are ignored so a
	// UTC-parsed "2006-01-02" lands on the right local weekday even when the
	// venue is west of UTC.
	year, month, day := date.Date()
	periods := weeklySchedule[time.Date(year, month, day, 0, 0, 0, 0, s.loc).Weekday()]

	slots := []entities.Slot{}
	for _, period := range periods {
		candidate := time.Date(year, month, day, period.openHour, period.openMinute, 0, 0, s.loc)
		closing := time.Date(year, month, day, period.closeHour, period.closeMinute, 0, 0, s.loc)

		for !candidate.Add(SeatingDuration).After(closing) {
			available, err := s.IsAvailable(candidate, guests)
			if err != nil {
				return nil, err
			}
			if available {
				slots = append(slots, entities.Slot{
					Time:     candidate.Format("15:04"),
					Datetime: candidate.UTC().Format(time.RFC3339),
				})
			}
			candidate = candidate.Add(slotStep)
		}
	}
	return slots, nil
}
