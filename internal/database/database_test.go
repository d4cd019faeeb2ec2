package database_test

import (
	"context"
	"fmt"
	"testing"

	"lalastore/internal/database"
	"lalastore/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.Options{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := database.Open(database.Options{Driver: "mysql", DSN: "x"})
	assert.Error(t, err)
}

func TestSeed_IsIdempotent(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, database.Migrate(db))
	ctx := context.Background()

	require.NoError(t, database.Seed(ctx, db))
	require.NoError(t, database.Seed(ctx, db))

	var products, categories int64
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	require.NoError(t, db.Model(&models.Category{}).Count(&categories).Error)
	assert.EqualValues(t, 6, products)
	assert.EqualValues(t, 2, categories)

	var p models.Product
	require.NoError(t, db.Preload("Category").Where("name = ?", "Canvas Tote Bag").First(&p).Error)
	assert.Equal(t, "24.99", p.Price.StringFixed(2))
	require.NotNil(t, p.Category)
	assert.Equal(t, "Women", p.Category.Name)
}

func TestMigrate_EnforcesStockConstraint(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, database.Migrate(db))

	err := db.Create(&models.Product{Name: "Broken", Stock: -1}).Error
	assert.Error(t, err)
}
