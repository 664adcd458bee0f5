package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pizzeria/internal/db"
	"pizzeria/internal/entities"
)

// ErrCapacityExceeded is returned when a write would push the overlapping
// guest total past the dining room capacity.
var ErrCapacityExceeded = errors.New("capacity exceeded for requested time slot")

// reservationsLockKey is the pg_advisory_xact_lock key serializing capacity
// checks against inserts and reschedules.
const reservationsLockKey = 421901

// overlappingGuestsQuery sums the party sizes of every active reservation
// whose 90-minute occupancy window intersects [$1, $2).
const overlappingGuestsQuery = `
	SELECT COALESCE(SUM(number_of_guests), 0) AS total_guests
	FROM reservations
	WHERE status IN ('pending', 'confirmed')
	AND (
		(reservation_date <= $1 AND reservation_date + INTERVAL '90 minutes' > $1)
		OR
		(reservation_date < $2 AND reservation_date + INTERVAL '90 minutes' >= $2)
		OR
		(reservation_date >= $1 AND reservation_date < $2)
	)`

type ReservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(db *sql.DB) *ReservationRepository {
	return &ReservationRepository{DB: db}
}

// SumOverlappingGuests is the read-only capacity probe used by the
// availability endpoints and the slot generator.
func (r *ReservationRepository) SumOverlappingGuests(start, end time.Time) (int, error) {
	var total int
	if err := r.DB.QueryRow(overlappingGuestsQuery, start, end).Scan(&total); err != nil {
		return 0, fmt.Errorf("error summing overlapping guests: %w", err)
	}
	return total, nil
}

// CreateReservation inserts a pending reservation. The capacity check and the
// insert run in one transaction under an advisory lock, so two concurrent
// creates cannot both observe a free window and overbook it.
func (r *ReservationRepository) CreateReservation(res *db.Reservation, capacity int) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting reservation transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`SELECT pg_advisory_xact_lock($1)`, reservationsLockKey); err != nil {
		return fmt.Errorf("error acquiring reservations lock: %w", err)
	}

	end := res.ReservationDate.Add(90 * time.Minute)
	var total int
	if err := tx.QueryRow(overlappingGuestsQuery, res.ReservationDate, end).Scan(&total); err != nil {
		return fmt.Errorf("error re-checking capacity: %w", err)
	}
	if total+res.NumberOfGuests > capacity {
		return ErrCapacityExceeded
	}

	query := `
		INSERT INTO reservations (user_id, reservation_date, number_of_guests, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(query, res.UserID, res.ReservationDate, res.NumberOfGuests, res.Status).
		Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return fmt.Errorf("error inserting reservation: %w", err)
	}

	return tx.Commit()
}

// GetByIDForUser fetches a reservation scoped to its owner.
func (r *ReservationRepository) GetByIDForUser(id, userID int) (*db.Reservation, error) {
	var res db.Reservation
	query := `
		SELECT id, user_id, reservation_date, number_of_guests, status, created_at, updated_at
		FROM reservations WHERE id = $1 AND user_id = $2`
	err := r.DB.QueryRow(query, id, userID).Scan(
		&res.ID, &res.UserID, &res.ReservationDate, &res.NumberOfGuests,
		&res.Status, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("error querying reservation %d: %w", id, err)
	}
	return &res, nil
}

// GetByID fetches any reservation joined with its owner's email.
func (r *ReservationRepository) GetByID(id int) (*entities.ReservationResponse, error) {
	var res entities.ReservationResponse
	query := `
		SELECT r.id, r.user_id, r.reservation_date, r.number_of_guests, r.status,
		       r.created_at, r.updated_at, COALESCE(u.email, '')
		FROM reservations r
		LEFT JOIN users u ON r.user_id = u.id
		WHERE r.id = $1`
	err := r.DB.QueryRow(query, id).Scan(
		&res.ID, &res.UserID, &res.ReservationDate, &res.NumberOfGuests,
		&res.Status, &res.CreatedAt, &res.UpdatedAt, &res.UserEmail,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("error querying reservation %d: %w", id, err)
	}
	return &res, nil
}

func (r *ReservationRepository) ListByUser(userID int) ([]entities.ReservationResponse, error) {
	query := `
		SELECT id, user_id, reservation_date, number_of_guests, status, created_at, updated_at
		FROM reservations
		WHERE user_id = $1
		ORDER BY reservation_date DESC`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing reservations for user %d: %w", userID, err)
	}
	defer rows.Close()

	var reservations []entities.ReservationResponse
	for rows.Next() {
		var res entities.ReservationResponse
		if err := rows.Scan(&res.ID, &res.UserID, &res.ReservationDate, &res.NumberOfGuests,
			&res.Status, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning reservation row: %w", err)
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

// ListAll returns every reservation joined with the owner's email, newest
// booking first. Admin surface.
func (r *ReservationRepository) ListAll() ([]entities.ReservationResponse, error) {
	query := `
		SELECT r.id, r.user_id, r.reservation_date, r.number_of_guests, r.status,
		       r.created_at, r.updated_at, COALESCE(u.email, '')
		FROM reservations r
		LEFT JOIN users u ON r.user_id = u.id
		ORDER BY r.reservation_date DESC`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error listing reservations: %w", err)
	}
	defer rows.Close()

	var reservations []entities.ReservationResponse
	for rows.Next() {
		var res entities.ReservationResponse
		if err := rows.Scan(&res.ID, &res.UserID, &res.ReservationDate, &res.NumberOfGuests,
			&res.Status, &res.CreatedAt, &res.UpdatedAt, &res.UserEmail); err != nil {
			return nil, fmt.Errorf("error scanning reservation row: %w", err)
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

// UpdateReservation applies a partial update scoped to the owner. When
// checkCapacity is set (the date changed), the overlap sum for the new window
// is re-evaluated inside the same locked transaction as the write.
func (r *ReservationRepository) UpdateReservation(id, userID int, newDate *time.Time, newGuests *int, capacity int, checkCapacity bool) (*db.Reservation, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting update transaction: %w", err)
	}
	defer tx.Rollback()

	if checkCapacity {
		if _, err := tx.Exec(`SELECT pg_advisory_xact_lock($1)`, reservationsLockKey); err != nil {
			return nil, fmt.Errorf("error acquiring reservations lock: %w", err)
		}
		guests := 0
		if newGuests != nil {
			guests = *newGuests
		} else {
			if err := tx.QueryRow(`SELECT number_of_guests FROM reservations WHERE id = $1 AND user_id = $2`, id, userID).Scan(&guests); err != nil {
				return nil, fmt.Errorf("error reading current party size: %w", err)
			}
		}
		end := newDate.Add(90 * time.Minute)
		var total int
		if err := tx.QueryRow(overlappingGuestsQuery, *newDate, end).Scan(&total); err != nil {
			return nil, fmt.Errorf("error re-checking capacity: %w", err)
		}
		if total+guests > capacity {
			return nil, ErrCapacityExceeded
		}
	}

	var res db.Reservation
	query := `
		UPDATE reservations
		SET reservation_date = COALESCE($1, reservation_date),
		    number_of_guests = COALESCE($2, number_of_guests),
		    updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING id, user_id, reservation_date, number_of_guests, status, created_at, updated_at`
	var dateArg interface{}
	if newDate != nil {
		dateArg = *newDate
	}
	var guestsArg interface{}
	if newGuests != nil {
		guestsArg = *newGuests
	}
	err = tx.QueryRow(query, dateArg, guestsArg, id, userID).Scan(
		&res.ID, &res.UserID, &res.ReservationDate, &res.NumberOfGuests,
		&res.Status, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("error updating reservation %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing update: %w", err)
	}
	return &res, nil
}

// CancelReservation marks an owner's reservation cancelled. The row is kept.
func (r *ReservationRepository) CancelReservation(id, userID int) (*db.Reservation, error) {
	var res db.Reservation
	query := `
		UPDATE reservations
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, reservation_date, number_of_guests, status, created_at, updated_at`
	err := r.DB.QueryRow(query, id, userID).Scan(
		&res.ID, &res.UserID, &res.ReservationDate, &res.NumberOfGuests,
		&res.Status, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("error cancelling reservation %d: %w", id, err)
	}
	return &res, nil
}
