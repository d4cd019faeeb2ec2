package database

import (
	"context"
	"fmt"
	"log"

	"lalastore/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Options selects the database driver and pool size.
type Options struct {
	Driver       string
	DSN          string
	MaxOpenConns int
}

// Open connects to the configured database and sizes its connection pool.
func Open(opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case "postgres":
		dialector = postgres.Open(opts.DSN)
	case "sqlite":
		dialector = sqlite.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	maxOpen := opts.MaxOpenConns
	if opts.Driver == "sqlite" {
		// SQLite allows a single writer; one connection keeps in-memory databases shared.
		maxOpen = 1
	}
	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	return db, nil
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.User{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

type seedProduct struct {
	category    string
	name        string
	description string
	price       string
	imageURL    string
	stock       int
}

var seedProducts = []seedProduct{
	{"Men", "Classic Oxford Shirt", "Long-sleeve cotton oxford shirt", "39.90", "/images/men-oxford.jpg", 25},
	{"Men", "Slim Chino Pants", "Stretch cotton chinos in khaki", "49.00", "/images/men-chino.jpg", 30},
	{"Men", "Leather Sneakers", "White low-top leather sneakers", "89.50", "/images/men-sneakers.jpg", 12},
	{"Women", "Linen Summer Dress", "Lightweight midi dress in natural linen", "59.90", "/images/women-dress.jpg", 18},
	{"Women", "Knit Cardigan", "Soft wool-blend button cardigan", "45.00", "/images/women-cardigan.jpg", 20},
	{"Women", "Canvas Tote Bag", "Everyday tote with inner pocket", "24.99", "/images/women-tote.jpg", 40},
}

// Seed inserts the demo catalog when the products table is empty.
func Seed(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	validate := validator.New()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories := make(map[string]uint)
		for _, sp := range seedProducts {
			if _, ok := categories[sp.category]; ok {
				continue
			}
			c := models.Category{Name: sp.category}
			if err := tx.Where(models.Category{Name: sp.category}).FirstOrCreate(&c).Error; err != nil {
				return fmt.Errorf("failed to seed category %s: %w", sp.category, err)
			}
			categories[sp.category] = c.ID
		}
		for _, sp := range seedProducts {
			categoryID := categories[sp.category]
			p := models.Product{
				CategoryID:  &categoryID,
				Name:        sp.name,
				Description: sp.description,
				Price:       decimal.RequireFromString(sp.price),
				ImageURL:    sp.imageURL,
				Stock:       sp.stock,
			}
			if err := validate.Struct(p); err != nil {
				return fmt.Errorf("invalid seed product %s: %w", sp.name, err)
			}
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("failed to seed product %s: %w", sp.name, err)
			}
			log.Printf("Seeded product: %s (ID: %d)", p.Name, p.ID)
		}
		return nil
	})
}
