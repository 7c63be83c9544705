package service

import (
	"errors"
	"strings"

	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/internal/app/repository"
	"github.com/ecofoods/ecofoods-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category already exists")
)

type CategoryService interface {
	List() ([]model.Category, error)
	Create(name, imageURL string) (*model.Category, error)
	LinkProduct(merchantID, productID, categoryID uuid.UUID) error
	ListProducts(categoryID uuid.UUID) ([]model.Product, error)
}

type categoryService struct {
	db           *gorm.DB
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	imageRepo    repository.ImageRepository
}

func NewCategoryService(
	db *gorm.DB,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	imageRepo repository.ImageRepository,
) CategoryService {
	return &categoryService{
		db:           db,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		imageRepo:    imageRepo,
	}
}

func (s *categoryService) List() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *categoryService) Create(name, imageURL string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	category := &model.Category{Name: name}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if imageURL != "" {
			image := &model.Image{URL: imageURL}
			if err := s.imageRepo.WithTx(tx).Create(image); err != nil {
				return err
			}
			category.ImageID = &image.ID
			category.Image = image
		}
		return s.categoryRepo.WithTx(tx).Create(category)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryAlreadyExists
		}
		logger.Error("Failed to create category", err, map[string]interface{}{
			"name": name,
		})
		return nil, err
	}

	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        name,
	})
	return category, nil
}

// LinkProduct attaches one of the merchant's products to a category
func (s *categoryService) LinkProduct(merchantID, productID, categoryID uuid.UUID) error {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	if product.MerchantID != merchantID {
		logger.Warn("Merchant tried to link a foreign product", map[string]interface{}{
			"merchant_id": merchantID,
			"product_id":  productID,
		})
		return ErrProductNotFound
	}

	if _, err := s.categoryRepo.FindByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	return s.productRepo.LinkCategory(productID, categoryID)
}

func (s *categoryService) ListProducts(categoryID uuid.UUID) ([]model.Product, error) {
	if _, err := s.categoryRepo.FindByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return s.productRepo.FindWithFilter(repository.ProductFilter{
		CategoryID:    &categoryID,
		IncludeImages: true,
	})
}
