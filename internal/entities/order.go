package entities

import "time"

// CreateOrderRequest is the body of POST /api/orders. Items reference catalog
// products; prices are re-read from the catalog server-side.
type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	PickupDate    string             `json:"pickup_date,omitempty"`
	PickupTime    string             `json:"pickup_time,omitempty"`
	Notes         string             `json:"notes,omitempty"`
}

type OrderItemRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type OrderItemResponse struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

type OrderResponse struct {
	ID            int                 `json:"id"`
	OrderNumber   string              `json:"order_number"`
	UserID        int                 `json:"user_id"`
	TotalPrice    float64             `json:"total_price"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	UserEmail     string              `json:"email,omitempty"`
	Items         []OrderItemResponse `json:"items,omitempty"`
}
