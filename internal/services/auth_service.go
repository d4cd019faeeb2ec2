package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lalastore/internal/models"
	"lalastore/internal/repositories"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// AuthService registers users and checks their credentials. No session or
// token is issued.
type AuthService struct {
	userRepo repositories.UserRepository
	validate *validator.Validate
	cost     int
}

// NewAuthService creates a new AuthService using bcrypt's default cost.
func NewAuthService(userRepo repositories.UserRepository) *AuthService {
	return NewAuthServiceWithCost(userRepo, bcrypt.DefaultCost)
}

// NewAuthServiceWithCost creates an AuthService with an explicit bcrypt cost.
func NewAuthServiceWithCost(userRepo repositories.UserRepository, cost int) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		validate: validator.New(),
		cost:     cost,
	}
}

// RegisterUser validates the input, hashes the password and stores the user.
func (s *AuthService) RegisterUser(ctx context.Context, email, password, name string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return nil, &ValidationError{Message: "Missing email, password, or name"}
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, &ValidationError{Message: "Invalid email format"}
	}
	if len(password) < minPasswordLength {
		return nil, &ValidationError{Message: fmt.Sprintf("Password must be at least %d characters", minPasswordLength)}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{Email: email, Name: name, PasswordHash: string(hashedPassword)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, &PersistenceError{Op: "register user", Err: err}
	}
	return user, nil
}

// LoginUser returns the user when email and password match.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, &ValidationError{Message: "Missing email or password"}
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, &PersistenceError{Op: "login", Err: err}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
