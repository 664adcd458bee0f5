package service

import (
	"database/sql"
	"time"

	"pizzeria/internal/db"
	"pizzeria/internal/entities"
	"pizzeria/internal/repository"
)

// fakeStore is an in-memory ReservationStore with the same overlap and
// capacity semantics as the Postgres repository.
type fakeStore struct {
	reservations []db.Reservation
	nextID       int
	failWith     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

func (f *fakeStore) seed(userID int, date time.Time, guests int, status string) *db.Reservation {
	res := db.Reservation{
		ID:              f.nextID,
		UserID:          userID,
		ReservationDate: date,
		NumberOfGuests:  guests,
		Status:          status,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	f.nextID++
	f.reservations = append(f.reservations, res)
	return &res
}

func (f *fakeStore) SumOverlappingGuests(start, end time.Time) (int, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	total := 0
	for _, r := range f.reservations {
		if r.Status != StatusPending && r.Status != StatusConfirmed {
			continue
		}
		resEnd := r.ReservationDate.Add(SeatingDuration)
		if r.ReservationDate.Before(end) && resEnd.After(start) {
			total += r.NumberOfGuests
		}
	}
	return total, nil
}

func (f *fakeStore) CreateReservation(res *db.Reservation, capacity int) error {
	if f.failWith != nil {
		return f.failWith
	}
	end := res.ReservationDate.Add(SeatingDuration)
	total, _ := f.SumOverlappingGuests(res.ReservationDate, end)
	if total+res.NumberOfGuests > capacity {
		return repository.ErrCapacityExceeded
	}
	res.ID = f.nextID
	f.nextID++
	res.CreatedAt = time.Now().UTC()
	res.UpdatedAt = res.CreatedAt
	f.reservations = append(f.reservations, *res)
	return nil
}

func (f *fakeStore) find(id, userID int) int {
	for i, r := range f.reservations {
		if r.ID == id && r.UserID == userID {
			return i
		}
	}
	return -1
}

func (f *fakeStore) GetByIDForUser(id, userID int) (*db.Reservation, error) {
	if i := f.find(id, userID); i >= 0 {
		res := f.reservations[i]
		return &res, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStore) GetByID(id int) (*entities.ReservationResponse, error) {
	for _, r := range f.reservations {
		if r.ID == id {
			return &entities.ReservationResponse{
				ID:              r.ID,
				UserID:          r.UserID,
				ReservationDate: r.ReservationDate,
				NumberOfGuests:  r.NumberOfGuests,
				Status:          r.Status,
				CreatedAt:       r.CreatedAt,
				UpdatedAt:       r.UpdatedAt,
			}, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStore) ListByUser(userID int) ([]entities.ReservationResponse, error) {
	var out []entities.ReservationResponse
	for _, r := range f.reservations {
		if r.UserID != userID {
			continue
		}
		res, _ := f.GetByID(r.ID)
		out = append(out, *res)
	}
	return out, nil
}

func (f *fakeStore) ListAll() ([]entities.ReservationResponse, error) {
	var out []entities.ReservationResponse
	for _, r := range f.reservations {
		res, _ := f.GetByID(r.ID)
		out = append(out, *res)
	}
	return out, nil
}

func (f *fakeStore) UpdateReservation(id, userID int, newDate *time.Time, newGuests *int, capacity int, checkCapacity bool) (*db.Reservation, error) {
	i := f.find(id, userID)
	if i < 0 {
		return nil, sql.ErrNoRows
	}
	if checkCapacity {
		guests := f.reservations[i].NumberOfGuests
		if newGuests != nil {
			guests = *newGuests
		}
		end := newDate.Add(SeatingDuration)
		total, _ := f.SumOverlappingGuests(*newDate, end)
		if total+guests > capacity {
			return nil, repository.ErrCapacityExceeded
		}
	}
	if newDate != nil {
		f.reservations[i].ReservationDate = *newDate
	}
	if newGuests != nil {
		f.reservations[i].NumberOfGuests = *newGuests
	}
	f.reservations[i].UpdatedAt = time.Now().UTC()
	res := f.reservations[i]
	return &res, nil
}

func (f *fakeStore) CancelReservation(id, userID int) (*db.Reservation, error) {
	i := f.find(id, userID)
	if i < 0 {
		return nil, sql.ErrNoRows
	}
	f.reservations[i].Status = StatusCancelled
	f.reservations[i].UpdatedAt = time.Now().UTC()
	res := f.reservations[i]
	return &res, nil
}
