package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"lalastore/internal/models"
	"lalastore/internal/repositories"
	"lalastore/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthServiceWithCost(mockRepo, bcrypt.MinCost)

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = 1
	}).Return(nil).Once()

	user, err := authService.RegisterUser(context.Background(), " Alice@Example.com ", "password123", "Alice")

	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash, "password must be stored hashed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_Validation(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthServiceWithCost(mockRepo, bcrypt.MinCost)

	cases := []struct {
		email, password, name, message string
	}{
		{"", "password123", "Alice", "Missing email, password, or name"},
		{"not-an-email", "password123", "Alice", "Invalid email format"},
		{"alice@example.com", "12345", "Alice", "Password must be at least 6 characters"},
	}
	for _, tc := range cases {
		_, err := authService.RegisterUser(context.Background(), tc.email, tc.password, tc.name)
		var validationErr *services.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, tc.message, validationErr.Message)
	}
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_RegisterUser_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthServiceWithCost(mockRepo, bcrypt.MinCost)

	mockRepo.On("Create", mock.Anything, mock.Anything).
		Return(fmt.Errorf("user with email alice@example.com: %w", repositories.ErrDuplicate)).Once()

	_, err := authService.RegisterUser(context.Background(), "alice@example.com", "password123", "Alice")

	assert.ErrorIs(t, err, services.ErrEmailTaken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthServiceWithCost(mockRepo, bcrypt.MinCost)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &models.User{ID: 1, Email: "alice@example.com", Name: "Alice", PasswordHash: string(hashedPassword)}

	// Test successful login
	mockRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(stored, nil).Twice()
	user, err := authService.LoginUser(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, user.ID)

	// Test wrong password
	_, err = authService.LoginUser(context.Background(), "alice@example.com", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Test unknown email
	mockRepo.On("GetByEmail", mock.Anything, "bob@example.com").
		Return(nil, fmt.Errorf("user with email bob@example.com: %w", repositories.ErrNotFound)).Once()
	_, err = authService.LoginUser(context.Background(), "bob@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Test storage failure
	mockRepo.On("GetByEmail", mock.Anything, "carol@example.com").Return(nil, errors.New("timeout")).Once()
	_, err = authService.LoginUser(context.Background(), "carol@example.com", "password123")
	var persistenceErr *services.PersistenceError
	assert.ErrorAs(t, err, &persistenceErr)

	mockRepo.AssertExpectations(t)
}
