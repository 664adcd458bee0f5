package service

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"pizzeria/internal/auth"
	"pizzeria/internal/db"
	"pizzeria/internal/entities"
	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/repository"
)

// OrderStore is the persistence surface the order service needs. Implemented
// by repository.OrderRepository; faked in tests.
type OrderStore interface {
	CreateOrder(userID int, items []entities.OrderItemRequest) (*db.Order, []entities.OrderItemResponse, error)
	GetByID(id int) (*db.Order, error)
	GetItems(orderID int) ([]entities.OrderItemResponse, error)
	ListByUser(userID int) ([]entities.OrderResponse, error)
	ListAll() ([]entities.OrderResponse, error)
	UpdateStatus(id int, status, paymentStatus string) error
	SetStripeSession(orderID int, sessionID string) error
	GetByStripeSessionID(sessionID string) (*db.Order, error)
	UpdateStatusBySessionID(sessionID, status, paymentStatus string) error
}

// Refunder returns money for a checkout session. Implemented by
// StripeService.
type Refunder interface {
	RefundPaymentBySessionID(sessionID string) error
}

type OrderService struct {
	Repo     OrderStore
	refunder Refunder
}

func NewOrderService(repo OrderStore, refunder Refunder) *OrderService {
	return &OrderService{Repo: repo, refunder: refunder}
}

func (s *OrderService) Create(user *auth.Claims, req entities.CreateOrderRequest) (*entities.OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.Validation("No items provided")
	}
	if req.CustomerName == "" || req.CustomerPhone == "" {
		return nil, apperrors.Validation("Name and phone required")
	}
	for _, item := range req.Items {
		if item.ProductID == 0 {
			return nil, apperrors.Validation("Each item must contain product_id")
		}
	}

	order, items, err := s.Repo.CreateOrder(user.UserID, req.Items)
	if err != nil {
		if errors.Is(err, repository.ErrUnknownProduct) {
			return nil, apperrors.Validation(err.Error())
		}
		log.Printf("Error creating order: %v", err)
		return nil, apperrors.Internal("Failed to create order")
	}

	return &entities.OrderResponse{
		ID:            order.ID,
		OrderNumber:   fmt.Sprintf("CMD-%03d", order.ID),
		UserID:        order.UserID,
		TotalPrice:    order.TotalPrice,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
		Items:         items,
	}, nil
}

func (s *OrderService) GetByID(user *auth.Claims, id int) (*entities.OrderResponse, error) {
	order, err := s.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("Order not found")
		}
		log.Printf("Error fetching order %d: %v", id, err)
		return nil, apperrors.Internal("Failed to fetch order")
	}
	if user.Role != "admin" && order.UserID != user.UserID {
		return nil, apperrors.AccessDenied()
	}

	items, err := s.Repo.GetItems(id)
	if err != nil {
		log.Printf("Error fetching items for order %d: %v", id, err)
		return nil, apperrors.Internal("Failed to fetch order")
	}
	return &entities.OrderResponse{
		ID:            order.ID,
		OrderNumber:   fmt.Sprintf("CMD-%03d", order.ID),
		UserID:        order.UserID,
		TotalPrice:    order.TotalPrice,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
		Items:         items,
	}, nil
}

func (s *OrderService) ListMine(user *auth.Claims) ([]entities.OrderResponse, error) {
	orders, err := s.Repo.ListByUser(user.UserID)
	if err != nil {
		log.Printf("Error listing orders for user %d: %v", user.UserID, err)
		return nil, apperrors.Internal("Failed to fetch user orders")
	}
	return orders, nil
}

func (s *OrderService) ListAll() ([]entities.OrderResponse, error) {
	orders, err := s.Repo.ListAll()
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return nil, apperrors.Internal("Failed to fetch orders")
	}
	return orders, nil
}

// Cancel voids an order. A paid order is refunded through Stripe before the
// status flips; the cancellation is aborted if the refund fails. Admin
// surface.
func (s *OrderService) Cancel(id int) error {
	order, err := s.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("Order not found")
		}
		log.Printf("Error fetching order %d: %v", id, err)
		return apperrors.Internal("Failed to cancel order")
	}
	if order.Status == "cancelled" {
		return apperrors.Validation("Order already cancelled")
	}

	paymentStatus := order.PaymentStatus
	if order.PaymentStatus == "paid" && order.StripeSessionID != "" {
		if s.refunder == nil {
			log.Printf("No refunder configured, cannot refund order %d", id)
			return apperrors.Internal("Refund failed")
		}
		if err := s.refunder.RefundPaymentBySessionID(order.StripeSessionID); err != nil {
			log.Printf("Error refunding order %d: %v", id, err)
			return apperrors.Internal("Refund failed")
		}
		paymentStatus = "refunded"
	}

	if err := s.Repo.UpdateStatus(id, "cancelled", paymentStatus); err != nil {
		log.Printf("Error cancelling order %d: %v", id, err)
		return apperrors.Internal("Failed to cancel order")
	}
	return nil
}
