package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// GORMStore is the Store backed by a relational database through GORM.
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore creates a Store over an open GORM connection pool.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

func newGORMRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Products: NewGORMProductRepository(db),
		Carts:    NewGORMCartRepository(db),
		Orders:   NewGORMOrderRepository(db),
		Users:    NewGORMUserRepository(db),
	}
}

func (s *GORMStore) Repositories() Repositories {
	return newGORMRepositories(s.db)
}

func (s *GORMStore) WithinTransaction(ctx context.Context, fn func(repos Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newGORMRepositories(tx))
	})
}

func (s *GORMStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
