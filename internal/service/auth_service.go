package service

import (
	"log"

	"golang.org/x/crypto/bcrypt"

	"pizzeria/internal/auth"
	"pizzeria/internal/db"
	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/repository"
)

type AuthService interface {
	Register(name, email, password, phone, role string) (*db.User, error)
	Login(email, password string) (string, error)
}

type authService struct {
	repo repository.UserRepository
}

func NewAuthService(repo repository.UserRepository) AuthService {
	return &authService{repo: repo}
}

func (s *authService) Register(name, email, password, phone, role string) (*db.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, apperrors.Validation("Missing required fields")
	}

	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		log.Printf("Error checking existing user: %v", err)
		return nil, apperrors.Internal("Registration failed")
	}
	if existing != nil {
		return nil, apperrors.Validation("Email already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Registration failed")
	}

	if role == "" {
		role = "client"
	}
	user, err := s.repo.Create(name, email, string(hash), phone, role)
	if err != nil {
		log.Printf("Error creating user: %v", err)
		return nil, apperrors.Internal("Registration failed")
	}
	return user, nil
}

func (s *authService) Login(email, password string) (string, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		log.Printf("Error fetching user by email: %v", err)
		return "", apperrors.Internal("Login failed")
	}
	if user == nil {
		return "", apperrors.Validation("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperrors.Validation("Invalid credentials")
	}
	return auth.GenerateToken(user.ID, user.Name, user.Email, user.Role)
}
