package service

import (
	"errors"
	"strings"

	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/internal/app/repository"
	"github.com/ecofoods/ecofoods-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrReviewAlreadyExists = errors.New("product already reviewed by this user")
	ErrInvalidRating       = errors.New("rating must be between 0 and 5 with one decimal place")
)

type CreateReviewInput struct {
	ProductID  uuid.UUID
	Rating     decimal.Decimal
	ReviewText string
	ImageURLs  []string
}

// ProductReviews is a product's reviews, newest first, with their aggregate
type ProductReviews struct {
	Reviews       []model.Review
	AverageRating decimal.Decimal
	Count         int64
}

type ReviewService interface {
	CreateReview(authorID uuid.UUID, input CreateReviewInput) (*model.Review, error)
	ListReviews(productID uuid.UUID) (*ProductReviews, error)
}

type reviewService struct {
	db          *gorm.DB
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	imageRepo   repository.ImageRepository
}

func NewReviewService(
	db *gorm.DB,
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	imageRepo repository.ImageRepository,
) ReviewService {
	return &reviewService{
		db:          db,
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		imageRepo:   imageRepo,
	}
}

func validRating(r decimal.Decimal) bool {
	if r.IsNegative() || r.GreaterThan(model.MaxRating) {
		return false
	}
	return r.Round(1).Equal(r)
}

func (s *reviewService) CreateReview(authorID uuid.UUID, input CreateReviewInput) (*model.Review, error) {
	logger.Info("Creating review", map[string]interface{}{
		"author_id":  authorID,
		"product_id": input.ProductID,
		"rating":     input.Rating.String(),
	})

	if !validRating(input.Rating) {
		return nil, ErrInvalidRating
	}

	review := &model.Review{
		ProductID:  input.ProductID,
		AuthorID:   authorID,
		Rating:     input.Rating,
		ReviewText: strings.TrimSpace(input.ReviewText),
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.WithTx(tx).FindByID(input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		review.MerchantID = product.MerchantID

		reviews := s.reviewRepo.WithTx(tx)
		exists, err := reviews.ExistsForAuthor(authorID, input.ProductID)
		if err != nil {
			return err
		}
		if exists {
			return ErrReviewAlreadyExists
		}
		if err := reviews.Create(review); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrReviewAlreadyExists
			}
			return err
		}

		images := s.imageRepo.WithTx(tx)
		for _, url := range input.ImageURLs {
			image := &model.Image{URL: url}
			if err := images.Create(image); err != nil {
				return err
			}
			if err := reviews.AddImage(review.ID, image.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Warn("Review creation rolled back", map[string]interface{}{
			"author_id":  authorID,
			"product_id": input.ProductID,
			"error":      err.Error(),
		})
		return nil, err
	}

	logger.Info("Review created", map[string]interface{}{
		"review_id":  review.ID,
		"product_id": review.ProductID,
	})
	return s.reviewRepo.FindByID(review.ID)
}

func (s *reviewService) ListReviews(productID uuid.UUID) (*ProductReviews, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	reviews, err := s.reviewRepo.FindByProductID(productID)
	if err != nil {
		return nil, err
	}
	summary, err := s.reviewRepo.Summary(productID)
	if err != nil {
		return nil, err
	}

	return &ProductReviews{
		Reviews:       reviews,
		AverageRating: summary.Average,
		Count:         summary.Count,
	}, nil
}
