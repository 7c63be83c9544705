package repository

import (
	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/pkg/logger"
	"gorm.io/gorm"
)

type ImageRepository interface {
	Create(image *model.Image) error
	WithTx(tx *gorm.DB) ImageRepository
}

type imageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) WithTx(tx *gorm.DB) ImageRepository {
	return &imageRepository{db: tx}
}

func (r *imageRepository) Create(image *model.Image) error {
	if err := r.db.Create(image).Error; err != nil {
		logger.Error("Failed to create image in database", err, map[string]interface{}{
			"url": image.URL,
		})
		return err
	}

	logger.Debug("Image created in database", map[string]interface{}{
		"image_id": image.ID,
	})
	return nil
}
