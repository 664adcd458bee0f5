package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"pizzeria/internal/db"
	"pizzeria/internal/entities"
	apperrors "pizzeria/internal/errors"
)

func decodeJSON(r *http.Request, dest interface{}) error {
	return json.NewDecoder(r.Body).Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps service errors onto their HTTP status and a JSON error
// body. Anything outside the taxonomy becomes a 500.
func writeError(w http.ResponseWriter, err error) {
	var httpErr *apperrors.HTTPError
	if errors.As(err, &httpErr) {
		writeJSON(w, httpErr.Code, map[string]string{"error": httpErr.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}

func toReservationResponse(res *db.Reservation) entities.ReservationResponse {
	return entities.ReservationResponse{
		ID:              res.ID,
		UserID:          res.UserID,
		ReservationDate: res.ReservationDate,
		NumberOfGuests:  res.NumberOfGuests,
		Status:          res.Status,
		CreatedAt:       res.CreatedAt,
		UpdatedAt:       res.UpdatedAt,
	}
}
