package repository

import (
	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingSummary is the aggregate of a product's reviews
type RatingSummary struct {
	Average decimal.Decimal
	Count   int64
}

type ReviewRepository interface {
	Create(review *model.Review) error
	AddImage(reviewID, imageID uuid.UUID) error
	FindByID(id uuid.UUID) (*model.Review, error)
	FindByProductID(productID uuid.UUID) ([]model.Review, error)
	ExistsForAuthor(authorID, productID uuid.UUID) (bool, error)
	Summary(productID uuid.UUID) (RatingSummary, error)
	WithTx(tx *gorm.DB) ReviewRepository
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) WithTx(tx *gorm.DB) ReviewRepository {
	return &reviewRepository{db: tx}
}

func (r *reviewRepository) Create(review *model.Review) error {
	logger.Debug("Creating review in database", map[string]interface{}{
		"product_id": review.ProductID,
		"author_id":  review.AuthorID,
		"rating":     review.Rating.String(),
	})

	if err := r.db.Omit(clause.Associations).Create(review).Error; err != nil {
		logger.Error("Failed to create review in database", err, map[string]interface{}{
			"product_id": review.ProductID,
			"author_id":  review.AuthorID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) AddImage(reviewID, imageID uuid.UUID) error {
	link := &model.ReviewImage{ReviewID: reviewID, ImageID: imageID}
	if err := r.db.Omit(clause.Associations).Create(link).Error; err != nil {
		logger.Error("Failed to link image to review", err, map[string]interface{}{
			"review_id": reviewID,
			"image_id":  imageID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) FindByID(id uuid.UUID) (*model.Review, error) {
	var review model.Review
	if err := r.db.Preload("Images.Image").Where("id = ?", id).First(&review).Error; err != nil {
		logLookupError("Failed to find review by ID", err, map[string]interface{}{
			"review_id": id,
		})
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByProductID(productID uuid.UUID) ([]model.Review, error) {
	reviews := []model.Review{}
	err := r.db.Preload("Images.Image").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to find reviews by product ID", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	logger.Debug("Reviews found by product ID", map[string]interface{}{
		"product_id": productID,
		"count":      len(reviews),
	})
	return reviews, nil
}

func (r *reviewRepository) ExistsForAuthor(authorID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.Review{}).
		Where("author_id = ? AND product_id = ?", authorID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Summary averages ratings rounded to one decimal
func (r *reviewRepository) Summary(productID uuid.UUID) (RatingSummary, error) {
	var row struct {
		Average float64
		Count   int64
	}
	err := r.db.Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		logger.Error("Failed to summarize reviews", err, map[string]interface{}{
			"product_id": productID,
		})
		return RatingSummary{}, err
	}

	return RatingSummary{
		Average: decimal.NewFromFloat(row.Average).Round(1),
		Count:   row.Count,
	}, nil
}
