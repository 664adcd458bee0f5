package db

import "time"

type User struct {
	ID           int
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Role         string
	CreatedAt    time.Time
}

type Product struct {
	ID          int
	Name        string
	Description string
	Price       float64
	Type        string
	Image       string
	Available   bool
	Vegetarian  bool
	CreatedAt   time.Time
}

type Reservation struct {
	ID              int
	UserID          int
	ReservationDate time.Time
	NumberOfGuests  int
	Status          string
	ReminderSentAt  *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Order struct {
	ID              int
	UserID          int
	TotalPrice      float64
	Status          string
	PaymentStatus   string
	StripeSessionID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderItem struct {
	ID        int
	OrderID   int
	ProductID int
	Quantity  int
	BasePrice float64
	UnitPrice float64
	CreatedAt time.Time
}

type WishlistItem struct {
	ID        int
	UserID    int
	ProductID int
	CreatedAt time.Time
}
