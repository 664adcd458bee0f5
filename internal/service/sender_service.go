package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"path/filepath"
	"time"

	"pizzeria/internal/db"
	"pizzeria/internal/entities"
)

// SenderService composes and dispatches reservation and order notifications.
// Sends run in goroutines; failures are logged and never fail the request.
type SenderService struct {
	loc *time.Location
}

func NewSenderService(loc *time.Location) *SenderService {
	if loc == nil {
		loc = time.UTC
	}
	return &SenderService{loc: loc}
}

func (s *SenderService) SendReservationEmail(toEmail, toName string, res *db.Reservation, status string) {
	if toEmail == "" {
		return
	}

	emailData := entities.ReservationEmailData{
		UserName:       toName,
		ReservationID:  res.ID,
		NumberOfGuests: res.NumberOfGuests,
		DateFormatted:  res.ReservationDate.In(s.loc).Format("02 Jan 2006 15:04"),
		Status:         status,
		CurrentYear:    time.Now().In(s.loc).Year(),
	}

	emailSubject := fmt.Sprintf("Your table reservation is %s - #%d", status, res.ID)
	plainTextBody := fmt.Sprintf(
		"Hello %s,\n\nYour table reservation at La Pizzeria is %s.\n\n"+
			"Reservation details:\n"+
			"Reservation number: %d\n"+
			"Date: %s\n"+
			"Guests: %d\n\n"+
			"Thank you for choosing La Pizzeria.",
		toName, status, res.ID, emailData.DateFormatted, res.NumberOfGuests,
	)

	var htmlBody string
	tmplPath := filepath.Join("internal", "templates", "reservation_email.html")
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		log.Printf("Error parsing reservation email template (%s): %v", tmplPath, err)
	} else {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, emailData); err != nil {
			log.Printf("Error executing reservation email template for #%d: %v", res.ID, err)
		}
		htmlBody = buf.String()
	}

	go func() {
		if err := sendEmail(toEmail, toName, emailSubject, plainTextBody, htmlBody); err != nil {
			log.Printf("Failed to send reservation email for #%d: %v", res.ID, err)
		}
	}()
}

func (s *SenderService) SendReservationReminderSMS(phone string, res *db.Reservation) {
	if phone == "" {
		return
	}
	message := fmt.Sprintf("La Pizzeria: reminder for your table of %d on %s. See you soon!",
		res.NumberOfGuests,
		res.ReservationDate.In(s.loc).Format("02/01 15:04"),
	)
	if err := sendSMS(phone, message); err != nil {
		log.Printf("Failed to send reminder SMS for reservation #%d to %s: %v", res.ID, phone, err)
	}
}

func (s *SenderService) SendOrderPaidEmail(toEmail, toName string, order *db.Order) {
	if toEmail == "" {
		return
	}

	subject := fmt.Sprintf("Your order CMD-%03d is confirmed", order.ID)
	plainTextBody := fmt.Sprintf(
		"Hello %s,\n\nWe received your payment of %.2f EUR.\n"+
			"Order CMD-%03d is confirmed and being prepared.\n\n"+
			"Thank you for choosing La Pizzeria.",
		toName, order.TotalPrice, order.ID,
	)

	go func() {
		if err := sendEmail(toEmail, toName, subject, plainTextBody, ""); err != nil {
			log.Printf("Failed to send order confirmation email for CMD-%03d: %v", order.ID, err)
		}
	}()
}
