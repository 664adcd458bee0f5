package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"pizzeria/internal/auth"
	"pizzeria/internal/entities"
	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/service"
)

type OrderHandler struct {
	Service *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{Service: svc}
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.AccessDenied())
		return
	}
	var req entities.CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, apperrors.Validation("Invalid request body"))
		return
	}
	order, err := h.Service.Create(user, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Order created",
		"order":   order,
	})
}

func (h *OrderHandler) GetUserOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.AccessDenied())
		return
	}
	orders, err := h.Service.ListMine(user)
	if err != nil {
		writeError(w, err)
		return
	}
	if orders == nil {
		orders = []entities.OrderResponse{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// GetAllOrders lists every order with the buyer's email. Admin route.
func (h *OrderHandler) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Service.ListAll()
	if err != nil {
		writeError(w, err)
		return
	}
	if orders == nil {
		orders = []entities.OrderResponse{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// CancelOrder voids an order, refunding it through Stripe when it was paid.
// Admin route.
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.Validation("Invalid order ID"))
		return
	}
	if err := h.Service.Cancel(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Order cancelled"})
}

func (h *OrderHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.AccessDenied())
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.Validation("Invalid order ID"))
		return
	}
	order, err := h.Service.GetByID(user, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
