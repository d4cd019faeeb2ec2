package repositories

import "context"

// Repositories bundles the typed repositories that share one storage scope.
// Inside WithinTransaction every repository operates on the same transaction.
type Repositories struct {
	Products ProductRepository
	Carts    CartRepository
	Orders   OrderRepository
	Users    UserRepository
}

// Store is the storage handle injected into services.
type Store interface {
	// Repositories returns repositories that run each call in its own implicit transaction.
	Repositories() Repositories
	// WithinTransaction runs fn in a single transaction. The transaction commits
	// when fn returns nil and rolls back every effect otherwise.
	WithinTransaction(ctx context.Context, fn func(repos Repositories) error) error
	// Ping checks that the underlying storage is reachable.
	Ping(ctx context.Context) error
}
