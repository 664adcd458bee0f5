package service

import (
	"fmt"
	"log"
	"time"

	"pizzeria/internal/repository"
)

// JobService runs the cron-driven maintenance tasks: reservation reminders
// and stale order cleanup.
type JobService struct {
	Repo      *repository.JobRepository
	OrderRepo *repository.OrderRepository
	Sender    *SenderService
}

func NewJobService(repo *repository.JobRepository, orderRepo *repository.OrderRepository, sender *SenderService) *JobService {
	return &JobService{Repo: repo, OrderRepo: orderRepo, Sender: sender}
}

// SendUpcomingReminders emails and texts guests whose reservation starts
// within the next 24 hours and hasn't been reminded yet.
func (s *JobService) SendUpcomingReminders() error {
	now := time.Now().UTC()
	targets, err := s.Repo.GetUpcomingForReminder(now, now.Add(24*time.Hour))
	if err != nil {
		return fmt.Errorf("cron job: failed to get reservations for reminders: %w", err)
	}
	if len(targets) == 0 {
		return nil
	}

	log.Printf("Cron Job: sending %d reservation reminders", len(targets))

	ids := make([]int, 0, len(targets))
	for _, target := range targets {
		res := target.Reservation
		if s.Sender != nil {
			s.Sender.SendReservationEmail(target.UserEmail, target.UserName, &res, res.Status)
			s.Sender.SendReservationReminderSMS(target.UserPhone, &res)
		}
		ids = append(ids, res.ID)
	}

	if err := s.Repo.MarkRemindersSent(ids); err != nil {
		return fmt.Errorf("cron job: failed to mark reminders sent: %w", err)
	}
	return nil
}

// CancelStaleOrders cancels pending unpaid orders older than 24 hours.
func (s *JobService) CancelStaleOrders() error {
	count, err := s.OrderRepo.CancelStalePending(time.Now().UTC().Add(-24 * time.Hour))
	if err != nil {
		return fmt.Errorf("cron job: failed to cancel stale orders: %w", err)
	}
	if count > 0 {
		log.Printf("Cron Job: cancelled %d stale pending orders", count)
	}
	return nil
}
