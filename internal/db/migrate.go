package db

import (
	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table in dependency order
func Models() []interface{} {
	return []interface{}{
		&model.Image{},
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.ProductImage{},
		&model.ProductCategory{},
		&model.Order{},
		&model.OrderItem{},
		&model.Delivery{},
		&model.Review{},
		&model.ReviewImage{},
		&model.Chat{},
		&model.Message{},
	}
}

// Migrate runs database migrations and seeds the default categories
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := SeedCategories(DB); err != nil {
		logger.Error("Failed to seed categories during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", logger.Fields{
		"models_count": len(models),
	})
	return nil
}

var defaultCategories = []string{
	"Vegetables",
	"Fruits",
	"Dairy",
	"Bakery",
	"Meat & Fish",
	"Drinks",
}

// SeedCategories creates the default categories when the table is empty
func SeedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Categories already seeded, skipping...", logger.Fields{
			"existing_count": count,
		})
		return nil
	}

	categories := make([]model.Category, 0, len(defaultCategories))
	for _, name := range defaultCategories {
		categories = append(categories, model.Category{Name: name})
	}
	if err := db.Create(&categories).Error; err != nil {
		return err
	}

	logger.Info("Categories seeded successfully", logger.Fields{
		"total_categories": len(categories),
	})
	return nil
}
