package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(store *fakeStore) *ReservationService {
	return NewReservationService(store, nil, time.UTC)
}

func TestIsAvailableEmptyVenue(t *testing.T) {
	svc := newTestService(newFakeStore())
	start := time.Date(2024, 2, 5, 19, 0, 0, 0, time.UTC)

	for guests := 1; guests <= 8; guests++ {
		ok, err := svc.IsAvailable(start, guests)
		require.NoError(t, err)
		assert.True(t, ok, "party of %d should fit an empty venue", guests)
	}
}

func TestIsAvailableAtCapacityBoundary(t *testing.T) {
	store := newFakeStore()
	start := time.Date(2024, 2, 5, 19, 0, 0, 0, time.UTC)
	store.seed(1, start, 8, StatusConfirmed)
	store.seed(2, start.Add(30*time.Minute), 4, StatusPending)
	svc := newTestService(store)

	// 12 guests already overlap 19:30; 4 more is exactly 16, 5 is over.
	ok, err := svc.IsAvailable(start.Add(30*time.Minute), 4)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsAvailable(start.Add(30*time.Minute), 5)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsAvailableIgnoresCancelled(t *testing.T) {
	store := newFakeStore()
	start := time.Date(2024, 2, 5, 19, 0, 0, 0, time.UTC)
	store.seed(1, start, 8, StatusCancelled)
	store.seed(2, start, 8, StatusConfirmed)
	svc := newTestService(store)

	ok, err := svc.IsAvailable(start, 8)
	require.NoError(t, err)
	assert.True(t, ok, "cancelled reservations must not count against capacity")
}

func TestIsAvailableWindowEdges(t *testing.T) {
	store := newFakeStore()
	booked := time.Date(2024, 2, 5, 19, 0, 0, 0, time.UTC)
	store.seed(1, booked, 16, StatusConfirmed)
	svc := newTestService(store)

	cases := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{"ends exactly at booked start", booked.Add(-SeatingDuration), true},
		{"one step before booked", booked.Add(-30 * time.Minute), false},
		{"same instant", booked, false},
		{"last overlapping step", booked.Add(60 * time.Minute), false},
		{"starts exactly at booked end", booked.Add(SeatingDuration), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := svc.IsAvailable(tc.start, 1)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestIsAvailableMonotonicInPartySize(t *testing.T) {
	store := newFakeStore()
	start := time.Date(2024, 2, 5, 19, 0, 0, 0, time.UTC)
	store.seed(1, start, 7, StatusConfirmed)
	store.seed(2, start.Add(-60*time.Minute), 4, StatusPending)
	svc := newTestService(store)

	prev := true
	for guests := 1; guests <= 8; guests++ {
		ok, err := svc.IsAvailable(start, guests)
		require.NoError(t, err)
		if !prev {
			assert.False(t, ok, "availability must not come back once lost (guests=%d)", guests)
		}
		prev = ok
	}
}

func TestAvailableSlotsSplitService(t *testing.T) {
	svc := newTestService(newFakeStore())
	monday := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)

	slots, err := svc.AvailableSlots(monday, 2)
	require.NoError(t, err)

	times := make([]string, 0, len(slots))
	for _, s := range slots {
		times = append(times, s.Time)
	}
	assert.Equal(t, []string{
		"11:30", "12:00", "12:30", "13:00",
		"18:30", "19:00", "19:30", "20:00", "20:30", "21:00",
	}, times)
}

func TestAvailableSlotsLastStartFitsBeforeClosing(t *testing.T) {
	svc := newTestService(newFakeStore())

	// Friday dinner closes at 23:00, so 21:30 is the last bookable start.
	friday := time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC)
	slots, err := svc.AvailableSlots(friday, 2)
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, "21:30", slots[len(slots)-1].Time)

	// Sunday closes at 22:00; 20:30 + 90m lands exactly on closing, 21:00
	// would run past it.
	sunday := time.Date(2024, 2, 11, 0, 0, 0, 0, time.UTC)
	slots, err = svc.AvailableSlots(sunday, 2)
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, "11:30", slots[0].Time)
	assert.Equal(t, "20:30", slots[len(slots)-1].Time)
}

func TestAvailableSlotsContinuousSaturday(t *testing.T) {
	svc := newTestService(newFakeStore())
	saturday := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

	slots, err := svc.AvailableSlots(saturday, 2)
	require.NoError(t, err)
	assert.Len(t, slots, 21) // 11:30 through 21:30, every 30 minutes
	for _, s := range slots {
		parsed, err := time.Parse(time.RFC3339, s.Datetime)
		require.NoError(t, err)
		assert.Equal(t, s.Time, parsed.In(time.UTC).Format("15:04"))
	}
}

func TestAvailableSlotsUsesVenueCalendarDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	svc := NewReservationService(newFakeStore(), nil, loc)

	// A date-only parse yields UTC midnight, which is still the previous
	// evening in New York. The schedule must follow the named day, not the
	// shifted local instant.
	monday, err := time.Parse("2006-01-02", "2024-02-05")
	require.NoError(t, err)

	slots, err := svc.AvailableSlots(monday, 2)
	require.NoError(t, err)
	require.Len(t, slots, 10)
	assert.Equal(t, "11:30", slots[0].Time)
	assert.Equal(t, "21:00", slots[len(slots)-1].Time)
	for _, s := range slots {
		assert.NotEqual(t, "15:00", s.Time, "split service keeps the afternoon closed")
	}
	// 11:30 EST is 16:30 UTC.
	assert.Equal(t, "2024-02-05T16:30:00Z", slots[0].Datetime)
}

func TestAvailableSlotsSkipsFullWindows(t *testing.T) {
	store := newFakeStore()
	monday := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	store.seed(1, monday.Add(19*time.Hour), 16, StatusConfirmed)
	svc := newTestService(store)

	slots, err := svc.AvailableSlots(monday, 1)
	require.NoError(t, err)

	times := make([]string, 0, len(slots))
	for _, s := range slots {
		times = append(times, s.Time)
	}
	// Every start whose window overlaps 19:00-20:30 drops out.
	assert.Equal(t, []string{
		"11:30", "12:00", "12:30", "13:00",
		"20:30", "21:00",
	}, times)
}

func TestAvailableSlotsLargerPartySubset(t *testing.T) {
	store := newFakeStore()
	monday := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	store.seed(1, monday.Add(19*time.Hour), 12, StatusConfirmed)
	svc := newTestService(store)

	small, err := svc.AvailableSlots(monday, 2)
	require.NoError(t, err)
	large, err := svc.AvailableSlots(monday, 8)
	require.NoError(t, err)

	set := make(map[string]bool, len(small))
	for _, s := range small {
		set[s.Time] = true
	}
	for _, s := range large {
		assert.True(t, set[s.Time], "slot %s open to 8 guests must be open to 2", s.Time)
	}
	assert.Less(t, len(large), len(small))
}
