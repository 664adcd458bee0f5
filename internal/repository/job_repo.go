package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"pizzeria/internal/db"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// ReminderTarget pairs an upcoming reservation with its owner's contact
// details.
type ReminderTarget struct {
	Reservation db.Reservation
	UserName    string
	UserEmail   string
	UserPhone   string
}

// GetUpcomingForReminder finds active reservations starting inside [from, to)
// that have not been reminded yet.
func (r *JobRepository) GetUpcomingForReminder(from, to time.Time) ([]ReminderTarget, error) {
	query := `
		SELECT r.id, r.user_id, r.reservation_date, r.number_of_guests, r.status,
		       u.name, u.email, COALESCE(u.phone, '')
		FROM reservations r
		JOIN users u ON r.user_id = u.id
		WHERE r.status IN ('pending', 'confirmed')
		AND r.reservation_date >= $1 AND r.reservation_date < $2
		AND r.reminder_sent_at IS NULL
		ORDER BY r.reservation_date`
	rows, err := r.DB.Query(query, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying reservations for reminders: %w", err)
	}
	defer rows.Close()

	var targets []ReminderTarget
	for rows.Next() {
		var t ReminderTarget
		if err := rows.Scan(&t.Reservation.ID, &t.Reservation.UserID, &t.Reservation.ReservationDate,
			&t.Reservation.NumberOfGuests, &t.Reservation.Status,
			&t.UserName, &t.UserEmail, &t.UserPhone); err != nil {
			return nil, fmt.Errorf("error scanning reminder target: %w", err)
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// MarkRemindersSent stamps reminder_sent_at on the given reservations.
func (r *JobRepository) MarkRemindersSent(ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.DB.Exec(`UPDATE reservations SET reminder_sent_at = NOW() WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error marking reminders sent: %w", err)
	}
	return nil
}
