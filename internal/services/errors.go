package services

import (
	"errors"
	"fmt"

	"lalastore/internal/repositories"
)

var (
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError reports a missing or malformed input. Nothing was persisted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ProductNotFoundError reports a referenced product ID that does not exist.
// ProductID is signed so a negative ID from the client is reported as sent.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("Product not found: %d", e.ProductID)
}

// InsufficientStockError reports a requested quantity above the product's stock.
type InsufficientStockError struct {
	ProductID int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for product %d", e.ProductID)
}

// PersistenceError wraps a storage failure. The operation was rolled back and
// may be retried by the caller.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Retryable reports whether the failure was a transaction conflict.
func (e *PersistenceError) Retryable() bool {
	return repositories.IsRetryable(e.Err)
}

// isDomainError reports whether err is one of the typed errors a caller can act on.
func isDomainError(err error) bool {
	var (
		validationErr *ValidationError
		notFoundErr   *ProductNotFoundError
		stockErr      *InsufficientStockError
	)
	return errors.As(err, &validationErr) || errors.As(err, &notFoundErr) || errors.As(err, &stockErr)
}
