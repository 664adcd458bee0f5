package service

import (
	"database/sql"
	"errors"
	"log"

	"pizzeria/internal/auth"
	"pizzeria/internal/entities"
	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/repository"
)

type WishlistService struct {
	Repo *repository.WishlistRepository
}

func NewWishlistService(repo *repository.WishlistRepository) *WishlistService {
	return &WishlistService{Repo: repo}
}

func (s *WishlistService) List(user *auth.Claims) (*entities.WishlistResponse, error) {
	items, err := s.Repo.ListByUser(user.UserID)
	if err != nil {
		log.Printf("Error fetching wishlist for user %d: %v", user.UserID, err)
		return nil, apperrors.Internal("Failed to fetch wishlist")
	}
	if items == nil {
		items = []entities.WishlistItemResponse{}
	}
	return &entities.WishlistResponse{Success: true, Items: items, Count: len(items)}, nil
}

func (s *WishlistService) Add(user *auth.Claims, productID int) (int, error) {
	if productID <= 0 {
		return 0, apperrors.Validation("Invalid product ID")
	}
	id, err := s.Repo.Add(user.UserID, productID)
	if err != nil {
		log.Printf("Error adding product %d to wishlist: %v", productID, err)
		return 0, apperrors.Internal("Failed to add product to wishlist")
	}
	return id, nil
}

func (s *WishlistService) Remove(user *auth.Claims, productID int) error {
	if err := s.Repo.Remove(user.UserID, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("Product not in wishlist")
		}
		log.Printf("Error removing product %d from wishlist: %v", productID, err)
		return apperrors.Internal("Failed to remove product from wishlist")
	}
	return nil
}
