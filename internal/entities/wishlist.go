package entities

import "time"

type AddWishlistRequest struct {
	ProductID int `json:"product_id"`
}

type WishlistItemResponse struct {
	WishlistID  int       `json:"wishlist_id"`
	ProductID   int       `json:"product_id"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Type        string    `json:"type"`
	Image       string    `json:"image"`
	Available   bool      `json:"available"`
	Vegetarian  bool      `json:"vegetarian"`
}

type WishlistResponse struct {
	Success bool                   `json:"success"`
	Items   []WishlistItemResponse `json:"items"`
	Count   int                    `json:"count"`
}
