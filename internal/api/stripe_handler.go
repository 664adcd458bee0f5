package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"pizzeria/internal/auth"
	"pizzeria/internal/entities"
	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/repository"
	"pizzeria/internal/service"
)

const (
	orderConfirmed  = "confirmed"
	orderCancelled  = "cancelled"
	paymentPaid     = "paid"
	paymentRefunded = "refunded"
)

type StripeHandler struct {
	WebhookSecret string
	orderService  *service.OrderService
	stripeService *service.StripeService
	senderService *service.SenderService
	userRepo      repository.UserRepository
}

func NewStripeHandler(webhookSecret string, orderService *service.OrderService, stripeService *service.StripeService, senderService *service.SenderService, userRepo repository.UserRepository) *StripeHandler {
	return &StripeHandler{
		WebhookSecret: webhookSecret,
		orderService:  orderService,
		stripeService: stripeService,
		senderService: senderService,
		userRepo:      userRepo,
	}
}

// CreateCheckoutSession opens a Stripe Checkout session for one of the
// caller's orders and stores the session id on the order row.
func (h *StripeHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.AccessDenied())
		return
	}
	var req entities.CheckoutSessionRequest
	if err := decodeJSON(r, &req); err != nil || req.OrderID == 0 {
		writeError(w, apperrors.Validation("Missing 'order_id' in request body"))
		return
	}

	order, err := h.orderService.GetByID(user, req.OrderID)
	if err != nil {
		writeError(w, err)
		return
	}

	url, sessionID, err := h.stripeService.CreateCheckoutSession(
		fmt.Sprintf("CMD-%03d", order.ID), user.Email, order.Items)
	if err != nil {
		log.Printf("Stripe session creation failed for order %d: %v", order.ID, err)
		writeError(w, apperrors.Internal("Stripe session creation failed"))
		return
	}
	if err := h.orderService.Repo.SetStripeSession(order.ID, sessionID); err != nil {
		log.Printf("Error saving stripe session for order %d: %v", order.ID, err)
		writeError(w, apperrors.Internal("Stripe session creation failed"))
		return
	}

	writeJSON(w, http.StatusOK, entities.CheckoutSessionResponse{SessionID: sessionID, URL: url})
}

// HandleWebhook processes Stripe events. Completed checkouts confirm the
// order and notify the buyer; refunded charges cancel it.
func (h *StripeHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const maxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Error reading webhook body: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sigHeader, h.WebhookSecret)
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil || sess.ID == "" {
			log.Printf("Error parsing checkout.session: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := h.orderService.Repo.UpdateStatusBySessionID(sess.ID, orderConfirmed, paymentPaid); err != nil {
			log.Printf("DB error confirming order for session %s: %v", sess.ID, err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		h.notifyOrderPaid(sess.ID)

	case "charge.refunded":
		var charge stripe.Charge
		json.Unmarshal(event.Data.Raw, &charge)
		if charge.PaymentIntent != nil && charge.PaymentIntent.ID != "" {
			sessionID, err := h.stripeService.GetSessionIDByPaymentIntentID(charge.PaymentIntent.ID)
			if err != nil {
				log.Printf("No session found for PaymentIntent %s: %v", charge.PaymentIntent.ID, err)
				break
			}
			if err := h.orderService.Repo.UpdateStatusBySessionID(sessionID, orderCancelled, paymentRefunded); err != nil {
				log.Printf("DB error refunding order for session %s: %v", sessionID, err)
			}
		}

	default:
		log.Printf("Unhandled event type: %s", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}

func (h *StripeHandler) notifyOrderPaid(sessionID string) {
	order, err := h.orderService.Repo.GetByStripeSessionID(sessionID)
	if err != nil {
		log.Printf("Error loading order for session %s: %v", sessionID, err)
		return
	}
	buyer, err := h.userRepo.GetByID(order.UserID)
	if err != nil || buyer == nil {
		log.Printf("Error loading buyer for order %d: %v", order.ID, err)
		return
	}
	if h.senderService != nil {
		h.senderService.SendOrderPaidEmail(buyer.Email, buyer.Name, order)
	}
}
