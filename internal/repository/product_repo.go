package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"pizzeria/internal/db"
)

type ProductRepository struct {
	DB *sql.DB
}

func NewProductRepository(database *sql.DB) *ProductRepository {
	return &ProductRepository{DB: database}
}

const productColumns = `id, name, description, price, type, image, available, vegetarian, created_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (*db.Product, error) {
	var p db.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Type, &p.Image,
		&p.Available, &p.Vegetarian, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) List() ([]db.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	return r.queryProducts(query)
}

func (r *ProductRepository) ListByType(productType string) ([]db.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE type = $1 ORDER BY created_at DESC`
	return r.queryProducts(query, productType)
}

func (r *ProductRepository) queryProducts(query string, args ...interface{}) ([]db.Product, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying products: %w", err)
	}
	defer rows.Close()

	var products []db.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) GetByID(id int) (*db.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("error querying product %d: %w", id, err)
	}
	return p, nil
}

func (r *ProductRepository) Create(p *db.Product) error {
	query := `
		INSERT INTO products (name, description, price, type, image, available, vegetarian)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	return r.DB.QueryRow(query, p.Name, p.Description, p.Price, p.Type, p.Image, p.Available, p.Vegetarian).
		Scan(&p.ID, &p.CreatedAt)
}

func (r *ProductRepository) Update(p *db.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, type = $4, image = $5, available = $6, vegetarian = $7
		WHERE id = $8
		RETURNING id`
	err := r.DB.QueryRow(query, p.Name, p.Description, p.Price, p.Type, p.Image,
		p.Available, p.Vegetarian, p.ID).Scan(&p.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("error updating product %d: %w", p.ID, err)
	}
	return nil
}

func (r *ProductRepository) Delete(id int) error {
	result, err := r.DB.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting product %d: %w", id, err)
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
