package repository

import (
	"database/sql"
	"fmt"

	"pizzeria/internal/entities"
)

type WishlistRepository struct {
	DB *sql.DB
}

func NewWishlistRepository(database *sql.DB) *WishlistRepository {
	return &WishlistRepository{DB: database}
}

// ListByUser returns the user's wishlist joined with the product rows.
func (r *WishlistRepository) ListByUser(userID int) ([]entities.WishlistItemResponse, error) {
	query := `
		SELECT w.id, w.product_id, w.created_at,
		       p.name, p.description, p.price, p.type, p.image, p.available, p.vegetarian
		FROM wishlists w
		JOIN products p ON w.product_id = p.id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying wishlist for user %d: %w", userID, err)
	}
	defer rows.Close()

	var items []entities.WishlistItemResponse
	for rows.Next() {
		var item entities.WishlistItemResponse
		if err := rows.Scan(&item.WishlistID, &item.ProductID, &item.CreatedAt,
			&item.Name, &item.Description, &item.Price, &item.Type,
			&item.Image, &item.Available, &item.Vegetarian); err != nil {
			return nil, fmt.Errorf("error scanning wishlist item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *WishlistRepository) Add(userID, productID int) (int, error) {
	var id int
	err := r.DB.QueryRow(`
		INSERT INTO wishlists (user_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id`,
		userID, productID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error adding product %d to wishlist: %w", productID, err)
	}
	return id, nil
}

func (r *WishlistRepository) Remove(userID, productID int) error {
	result, err := r.DB.Exec(`DELETE FROM wishlists WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return fmt.Errorf("error removing product %d from wishlist: %w", productID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
