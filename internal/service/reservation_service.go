package service

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"pizzeria/internal/auth"
	"pizzeria/internal/db"
	"pizzeria/internal/entities"
	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/repository"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

const modificationCutoff = 2 * time.Hour

// ReservationStore is the persistence surface the reservation service needs.
// Implemented by repository.ReservationRepository; faked in tests.
type ReservationStore interface {
	SumOverlappingGuests(start, end time.Time) (int, error)
	CreateReservation(res *db.Reservation, capacity int) error
	GetByIDForUser(id, userID int) (*db.Reservation, error)
	GetByID(id int) (*entities.ReservationResponse, error)
	ListByUser(userID int) ([]entities.ReservationResponse, error)
	ListAll() ([]entities.ReservationResponse, error)
	UpdateReservation(id, userID int, newDate *time.Time, newGuests *int, capacity int, checkCapacity bool) (*db.Reservation, error)
	CancelReservation(id, userID int) (*db.Reservation, error)
}

type ReservationService struct {
	Store  ReservationStore
	sender *SenderService
	loc    *time.Location
	now    func() time.Time
}

// NewReservationService builds the reservation lifecycle manager. sender may
// be nil to disable notifications. loc is the venue timezone used for slot
// generation.
func NewReservationService(store ReservationStore, sender *SenderService, loc *time.Location) *ReservationService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReservationService{
		Store:  store,
		sender: sender,
		loc:    loc,
		now:    time.Now,
	}
}

// Create validates and books a new pending reservation for the caller.
func (s *ReservationService) Create(user *auth.Claims, req entities.CreateReservationRequest) (*db.Reservation, error) {
	if req.ReservationDate == "" || req.NumberOfGuests == 0 {
		return nil, apperrors.Validation("Missing required fields")
	}
	if req.NumberOfGuests < 1 || req.NumberOfGuests > 8 {
		return nil, apperrors.Validation("Number of guests must be between 1 and 8")
	}
	date, err := time.Parse(time.RFC3339, req.ReservationDate)
	if err != nil {
		return nil, apperrors.Validation("Invalid reservation date")
	}

	available, err := s.IsAvailable(date, req.NumberOfGuests)
	if err != nil {
		log.Printf("Error checking availability: %v", err)
		return nil, apperrors.Internal("Failed to create reservation")
	}
	if !available {
		return nil, apperrors.SlotUnavailable()
	}

	res := &db.Reservation{
		UserID:          user.UserID,
		ReservationDate: date.UTC(),
		NumberOfGuests:  req.NumberOfGuests,
		Status:          StatusPending,
	}
	if err := s.Store.CreateReservation(res, VenueCapacity); err != nil {
		if errors.Is(err, repository.ErrCapacityExceeded) {
			return nil, apperrors.SlotUnavailable()
		}
		log.Printf("Error creating reservation: %v", err)
		return nil, apperrors.Internal("Failed to create reservation")
	}

	if s.sender != nil {
		s.sender.SendReservationEmail(user.Email, user.Name, res, StatusPending)
	}
	return res, nil
}

// Update applies a partial date/party-size change. Blocked inside the 2-hour
// cutoff; a date change re-runs the capacity check for the new window.
func (s *ReservationService) Update(user *auth.Claims, id int, req entities.UpdateReservationRequest) (*db.Reservation, error) {
	current, err := s.Store.GetByIDForUser(id, user.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("Reservation not found")
		}
		log.Printf("Error fetching reservation %d: %v", id, err)
		return nil, apperrors.Internal("Failed to update reservation")
	}

	if current.ReservationDate.Sub(s.now()) < modificationCutoff {
		return nil, apperrors.TooLateToModify("modify")
	}

	if req.NumberOfGuests != nil && (*req.NumberOfGuests < 1 || *req.NumberOfGuests > 8) {
		return nil, apperrors.Validation("Number of guests must be between 1 and 8")
	}

	var newDate *time.Time
	if req.ReservationDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.ReservationDate)
		if err != nil {
			return nil, apperrors.Validation("Invalid reservation date")
		}
		utc := parsed.UTC()
		newDate = &utc
	}

	checkCapacity := newDate != nil && !newDate.Equal(current.ReservationDate)
	if checkCapacity {
		guests := current.NumberOfGuests
		if req.NumberOfGuests != nil {
			guests = *req.NumberOfGuests
		}
		available, err := s.IsAvailable(*newDate, guests)
		if err != nil {
			log.Printf("Error checking availability: %v", err)
			return nil, apperrors.Internal("Failed to update reservation")
		}
		if !available {
			return nil, apperrors.SlotUnavailable()
		}
	}

	updated, err := s.Store.UpdateReservation(id, user.UserID, newDate, req.NumberOfGuests, VenueCapacity, checkCapacity)
	if err != nil {
		if errors.Is(err, repository.ErrCapacityExceeded) {
			return nil, apperrors.SlotUnavailable()
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("Reservation not found")
		}
		log.Printf("Error updating reservation %d: %v", id, err)
		return nil, apperrors.Internal("Failed to update reservation")
	}
	return updated, nil
}

// Cancel marks the caller's reservation cancelled. The row is kept; there is
// no transition back out of cancelled.
func (s *ReservationService) Cancel(user *auth.Claims, id int) (*db.Reservation, error) {
	current, err := s.Store.GetByIDForUser(id, user.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("Reservation not found")
		}
		log.Printf("Error fetching reservation %d: %v", id, err)
		return nil, apperrors.Internal("Failed to cancel reservation")
	}

	if current.ReservationDate.Sub(s.now()) < modificationCutoff {
		return nil, apperrors.TooLateToModify("cancel")
	}

	cancelled, err := s.Store.CancelReservation(id, user.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("Reservation not found")
		}
		log.Printf("Error cancelling reservation %d: %v", id, err)
		return nil, apperrors.Internal("Failed to cancel reservation")
	}

	if s.sender != nil {
		s.sender.SendReservationEmail(user.Email, user.Name, cancelled, StatusCancelled)
	}
	return cancelled, nil
}

// GetByID returns a single reservation. Admins may read any; everyone else
// only their own.
func (s *ReservationService) GetByID(user *auth.Claims, id int) (*entities.ReservationResponse, error) {
	res, err := s.Store.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("Reservation not found")
		}
		log.Printf("Error fetching reservation %d: %v", id, err)
		return nil, apperrors.Internal("Failed to fetch reservation")
	}
	if user.Role != "admin" && res.UserID != user.UserID {
		return nil, apperrors.AccessDenied()
	}
	return res, nil
}

func (s *ReservationService) ListMine(user *auth.Claims) ([]entities.ReservationResponse, error) {
	reservations, err := s.Store.ListByUser(user.UserID)
	if err != nil {
		log.Printf("Error listing reservations for user %d: %v", user.UserID, err)
		return nil, apperrors.Internal("Failed to fetch user reservations")
	}
	return reservations, nil
}

func (s *ReservationService) ListAll() ([]entities.ReservationResponse, error) {
	reservations, err := s.Store.ListAll()
	if err != nil {
		log.Printf("Error listing reservations: %v", err)
		return nil, apperrors.Internal("Failed to fetch reservations")
	}
	return reservations, nil
}
