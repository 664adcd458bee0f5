package service

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzeria/internal/auth"
	"pizzeria/internal/entities"
	apperrors "pizzeria/internal/errors"
)

var testUser = &auth.Claims{UserID: 1, Name: "Marco", Email: "marco@example.com", Role: "client"}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func requireHTTPError(t *testing.T, err error, code int, message string) {
	t.Helper()
	var httpErr *apperrors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, code, httpErr.Code)
	assert.Equal(t, message, httpErr.Message)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newFakeStore())

	cases := []struct {
		name    string
		req     entities.CreateReservationRequest
		message string
	}{
		{"missing date", entities.CreateReservationRequest{NumberOfGuests: 2}, "Missing required fields"},
		{"missing guests", entities.CreateReservationRequest{ReservationDate: "2024-02-05T19:00:00Z"}, "Missing required fields"},
		{"guests too many", entities.CreateReservationRequest{ReservationDate: "2024-02-05T19:00:00Z", NumberOfGuests: 9}, "Number of guests must be between 1 and 8"},
		{"guests negative", entities.CreateReservationRequest{ReservationDate: "2024-02-05T19:00:00Z", NumberOfGuests: -1}, "Number of guests must be between 1 and 8"},
		{"bad date format", entities.CreateReservationRequest{ReservationDate: "next tuesday", NumberOfGuests: 2}, "Invalid reservation date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(testUser, tc.req)
			requireHTTPError(t, err, http.StatusBadRequest, tc.message)
		})
	}
}

func TestCreateSuccess(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	res, err := svc.Create(testUser, entities.CreateReservationRequest{
		ReservationDate: "2024-02-05T19:00:00Z",
		NumberOfGuests:  4,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, res.Status)
	assert.Equal(t, testUser.UserID, res.UserID)
	assert.Equal(t, 4, res.NumberOfGuests)
	assert.Equal(t, time.Date(2024, 2, 5, 19, 0, 0, 0, time.UTC), res.ReservationDate)
	assert.NotZero(t, res.ID)
	assert.Len(t, store.reservations, 1)
}

func TestCreateRejectsOverlappingOverflow(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.Create(testUser, entities.CreateReservationRequest{
		ReservationDate: "2024-02-01T19:00:00Z",
		NumberOfGuests:  4,
	})
	require.NoError(t, err)

	// 19:30 overlaps the first party's window; 4 + 13 would exceed 16.
	other := &auth.Claims{UserID: 2, Role: "client"}
	for i := 0; i < 2; i++ {
		_, err = svc.Create(other, entities.CreateReservationRequest{
			ReservationDate: "2024-02-01T19:30:00Z",
			NumberOfGuests:  6,
		})
		if i == 0 {
			require.NoError(t, err)
			continue
		}
		requireHTTPError(t, err, http.StatusBadRequest, "Time slot not available")
	}
	assert.Len(t, store.reservations, 2)
}

func TestCreateNeverExceedsCapacity(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	date := "2024-02-05T19:00:00Z"
	booked := 0
	for i := 0; i < 10; i++ {
		user := &auth.Claims{UserID: i + 1, Role: "client"}
		_, err := svc.Create(user, entities.CreateReservationRequest{
			ReservationDate: date,
			NumberOfGuests:  5,
		})
		if err == nil {
			booked += 5
		}
	}
	assert.Equal(t, 15, booked, "three parties of 5 fit, the fourth must be refused")

	total, err := store.SumOverlappingGuests(
		time.Date(2024, 2, 5, 19, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 5, 20, 30, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.LessOrEqual(t, total, VenueCapacity)
}

func TestUpdateCutoff(t *testing.T) {
	start := time.Date(2024, 2, 5, 19, 0, 0, 0, time.UTC)
	guests := 3

	t.Run("exactly two hours before is allowed", func(t *testing.T) {
		store := newFakeStore()
		store.seed(testUser.UserID, start, 2, StatusPending)
		svc := newTestService(store)
		svc.now = fixedNow(start.Add(-2 * time.Hour))

		updated, err := svc.Update(testUser, 1, entities.UpdateReservationRequest{NumberOfGuests: &guests})
		require.NoError(t, err)
		assert.Equal(t, 3, updated.NumberOfGuests)
	})

	t.Run("inside two hours is blocked", func(t *testing.T) {
		store := newFakeStore()
		store.seed(testUser.UserID, start, 2, StatusPending)
		svc := newTestService(store)
		svc.now = fixedNow(start.Add(-2*time.Hour + time.Minute))

		_, err := svc.Update(testUser, 1, entities.UpdateReservationRequest{NumberOfGuests: &guests})
		requireHTTPError(t, err, http.StatusBadRequest, "Cannot modify reservation less than 2 hours before")
	})
}

func TestUpdatePartial(t *testing.T) {
	start := time.Date(2024, 2, 5, 19, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.seed(testUser.UserID, start, 2, StatusPending)
	svc := newTestService(store)
	svc.now = fixedNow(start.Add(-24 * time.Hour))

	guests := 5
	updated, err := svc.Update(testUser, 1, entities.UpdateReservationRequest{NumberOfGuests: &guests})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.NumberOfGuests)
	assert.Equal(t, start, updated.ReservationDate, "omitted date must be preserved")

	updated, err = svc.Update(testUser, 1, entities.UpdateReservationRequest{ReservationDate: "2024-02-05T20:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.NumberOfGuests, "omitted party size must be preserved")
	assert.Equal(t, start.Add(time.Hour), updated.ReservationDate)
}

func TestUpdateRescheduleChecksNewWindow(t *testing.T) {
	start := time.Date(2024, 2, 5, 12, 0, 0, 0, time.UTC)
	target := time.Date(2024, 2, 5, 19, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.seed(testUser.UserID, start, 4, StatusPending)
	store.seed(2, target, 14, StatusConfirmed)
	svc := newTestService(store)
	svc.now = fixedNow(start.Add(-24 * time.Hour))

	_, err := svc.Update(testUser, 1, entities.UpdateReservationRequest{ReservationDate: "2024-02-05T19:00:00Z"})
	requireHTTPError(t, err, http.StatusBadRequest, "Time slot not available")

	// The stored reservation is untouched after the refusal.
	current, err := store.GetByIDForUser(1, testUser.UserID)
	require.NoError(t, err)
	assert.Equal(t, start, current.ReservationDate)
}

func TestUpdateGuestsValidated(t *testing.T) {
	start := time.Date(2024, 2, 5, 19, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.seed(testUser.UserID, start, 2, StatusPending)
	svc := newTestService(store)
	svc.now = fixedNow(start.Add(-24 * time.Hour))

	guests := 9
	_, err := svc.Update(testUser, 1, entities.UpdateReservationRequest{NumberOfGuests: &guests})
	requireHTTPError(t, err, http.StatusBadRequest, "Number of guests must be between 1 and 8")
}

func TestUpdateNotFound(t *testing.T) {
	svc := newTestService(newFakeStore())
	guests := 2
	_, err := svc.Update(testUser, 42, entities.UpdateReservationRequest{NumberOfGuests: &guests})
	requireHTTPError(t, err, http.StatusNotFound, "Reservation not found")
}

func TestUpdateOtherUsersReservation(t *testing.T) {
	start := time.Date(2024, 2, 5, 19, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.seed(99, start, 2, StatusPending)
	svc := newTestService(store)
	svc.now = fixedNow(start.Add(-24 * time.Hour))

	guests := 3
	_, err := svc.Update(testUser, 1, entities.UpdateReservationRequest{NumberOfGuests: &guests})
	requireHTTPError(t, err, http.StatusNotFound, "Reservation not found")
}

func TestCancel(t *testing.T) {
	start := time.Date(2024, 2, 5, 19, 0, 0, 0, time.UTC)

	t.Run("marks cancelled and frees the window", func(t *testing.T) {
		store := newFakeStore()
		store.seed(testUser.UserID, start, 16, StatusConfirmed)
		svc := newTestService(store)
		svc.now = fixedNow(start.Add(-24 * time.Hour))

		cancelled, err := svc.Cancel(testUser, 1)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, cancelled.Status)

		ok, err := svc.IsAvailable(start, 8)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("blocked inside the cutoff", func(t *testing.T) {
		store := newFakeStore()
		store.seed(testUser.UserID, start, 2, StatusPending)
		svc := newTestService(store)
		svc.now = fixedNow(start.Add(-30 * time.Minute))

		_, err := svc.Cancel(testUser, 1)
		requireHTTPError(t, err, http.StatusBadRequest, "Cannot cancel reservation less than 2 hours before")
	})

	t.Run("unknown id", func(t *testing.T) {
		svc := newTestService(newFakeStore())
		_, err := svc.Cancel(testUser, 7)
		requireHTTPError(t, err, http.StatusNotFound, "Reservation not found")
	})
}

func TestGetByIDOwnership(t *testing.T) {
	start := time.Date(2024, 2, 5, 19, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.seed(2, start, 4, StatusPending)
	svc := newTestService(store)

	_, err := svc.GetByID(testUser, 1)
	requireHTTPError(t, err, http.StatusForbidden, "Access denied")

	admin := &auth.Claims{UserID: 10, Role: "admin"}
	res, err := svc.GetByID(admin, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, res.UserID)

	owner := &auth.Claims{UserID: 2, Role: "client"}
	res, err = svc.GetByID(owner, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ID)
}

func TestStoreFailureIsInternal(t *testing.T) {
	store := newFakeStore()
	store.failWith = errors.New("connection reset")
	svc := newTestService(store)

	_, err := svc.Create(testUser, entities.CreateReservationRequest{
		ReservationDate: "2024-02-05T19:00:00Z",
		NumberOfGuests:  2,
	})
	requireHTTPError(t, err, http.StatusInternalServerError, "Failed to create reservation")
}
