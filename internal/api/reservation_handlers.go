package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"pizzeria/internal/auth"
	"pizzeria/internal/entities"
	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/service"
)

type ReservationHandler struct {
	Service *service.ReservationService
}

func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{Service: svc}
}

func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.AccessDenied())
		return
	}
	var req entities.CreateReservationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, apperrors.Validation("Invalid request body"))
		return
	}
	res, err := h.Service.Create(user, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Reservation created",
		"reservation": toReservationResponse(res),
	})
}

func (h *ReservationHandler) GetUserReservations(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.AccessDenied())
		return
	}
	reservations, err := h.Service.ListMine(user)
	if err != nil {
		writeError(w, err)
		return
	}
	if reservations == nil {
		reservations = []entities.ReservationResponse{}
	}
	writeJSON(w, http.StatusOK, reservations)
}

// GetAllReservations lists every reservation with the owner's email. Admin
// route.
func (h *ReservationHandler) GetAllReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.Service.ListAll()
	if err != nil {
		writeError(w, err)
		return
	}
	if reservations == nil {
		reservations = []entities.ReservationResponse{}
	}
	writeJSON(w, http.StatusOK, reservations)
}

func (h *ReservationHandler) GetReservationByID(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.AccessDenied())
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.Validation("Invalid reservation ID"))
		return
	}
	res, err := h.Service.GetByID(user, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.AccessDenied())
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.Validation("Invalid reservation ID"))
		return
	}
	var req entities.UpdateReservationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, apperrors.Validation("Invalid request body"))
		return
	}
	res, err := h.Service.Update(user, id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Reservation updated",
		"reservation": toReservationResponse(res),
	})
}

func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.AccessDenied())
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.Validation("Invalid reservation ID"))
		return
	}
	res, err := h.Service.Cancel(user, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Reservation cancelled",
		"reservation": toReservationResponse(res),
	})
}

// CheckAvailability answers GET /reservations/check/availability?date=&guests=.
func (h *ReservationHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	guestsStr := r.URL.Query().Get("guests")
	if dateStr == "" || guestsStr == "" {
		writeError(w, apperrors.Validation("Date and guests required"))
		return
	}
	guests, err := strconv.Atoi(guestsStr)
	if err != nil {
		writeError(w, apperrors.Validation("Date and guests required"))
		return
	}
	date, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		writeError(w, apperrors.Validation("Invalid reservation date"))
		return
	}
	available, err := h.Service.IsAvailable(date, guests)
	if err != nil {
		writeError(w, apperrors.Internal("Failed to check availability"))
		return
	}
	writeJSON(w, http.StatusOK, entities.AvailabilityResponse{Available: available})
}

// GetAvailableSlots answers GET /reservations/slots/available?date=&guests=.
// date is a calendar day (2006-01-02) in the venue timezone.
func (h *ReservationHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	guestsStr := r.URL.Query().Get("guests")
	if dateStr == "" || guestsStr == "" {
		writeError(w, apperrors.Validation("Date and guests required"))
		return
	}
	guests, err := strconv.Atoi(guestsStr)
	if err != nil {
		writeError(w, apperrors.Validation("Date and guests required"))
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeError(w, apperrors.Validation("Invalid date"))
		return
	}
	slots, err := h.Service.AvailableSlots(date, guests)
	if err != nil {
		writeError(w, apperrors.Internal("Failed to get available slots"))
		return
	}
	writeJSON(w, http.StatusOK, entities.SlotsResponse{Slots: slots})
}
