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

type WishlistHandler struct {
	Service *service.WishlistService
}

func NewWishlistHandler(svc *service.WishlistService) *WishlistHandler {
	return &WishlistHandler{Service: svc}
}

func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.AccessDenied())
		return
	}
	wishlist, err := h.Service.List(user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wishlist)
}

func (h *WishlistHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.AccessDenied())
		return
	}
	var req entities.AddWishlistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, apperrors.Validation("Invalid request body"))
		return
	}
	id, err := h.Service.Add(user, req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"message":        "Product added to wishlist",
		"wishlistItemId": id,
	})
}

func (h *WishlistHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.AccessDenied())
		return
	}
	productID, err := strconv.Atoi(mux.Vars(r)["productId"])
	if err != nil {
		writeError(w, apperrors.Validation("Invalid product ID"))
		return
	}
	if err := h.Service.Remove(user, productID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Product removed from wishlist",
	})
}
