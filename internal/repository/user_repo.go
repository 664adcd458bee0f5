package repository

import (
	"database/sql"
	"errors"

	"pizzeria/internal/db"
)

type UserRepository interface {
	GetByEmail(email string) (*db.User, error)
	GetByID(id int) (*db.User, error)
	Create(name, email, passwordHash, phone, role string) (*db.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(database *sql.DB) UserRepository {
	return &userRepository{db: database}
}

func (r *userRepository) GetByEmail(email string) (*db.User, error) {
	var user db.User
	query := `SELECT id, name, email, password_hash, COALESCE(phone, ''), role FROM users WHERE email = $1`
	err := r.db.QueryRow(query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Phone, &user.Role,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByID(id int) (*db.User, error) {
	var user db.User
	query := `SELECT id, name, email, password_hash, COALESCE(phone, ''), role FROM users WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Phone, &user.Role,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(name, email, passwordHash, phone, role string) (*db.User, error) {
	var user db.User
	query := `
		INSERT INTO users (name, email, password_hash, phone, role)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		RETURNING id, name, email, COALESCE(phone, ''), role`
	err := r.db.QueryRow(query, name, email, passwordHash, phone, role).Scan(
		&user.ID, &user.Name, &user.Email, &user.Phone, &user.Role,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
