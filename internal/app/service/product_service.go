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

const importBatchSize = 100

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNotMerchant     = errors.New("only merchants can perform this action")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrEmptyName       = errors.New("name must not be empty")
)

// ProductInput describes a product a merchant puts on sale
type ProductInput struct {
	Name        string
	Price       decimal.Decimal
	Units       string
	Description string
	IsFeatured  bool
	ImageURL    string
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrEmptyName
	}
	if in.Price.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

// HomeFeed is every product plus the featured subset
type HomeFeed struct {
	Announcements []model.Product
	Advertisings  []model.Product
}

type ProductService interface {
	AddProduct(merchantID uuid.UUID, input ProductInput) (*model.Product, error)
	ImportProducts(merchantID uuid.UUID, inputs []ProductInput) (int, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)
	GetHomeFeed() (*HomeFeed, error)
	ListMerchantProducts(merchantID uuid.UUID) ([]model.Product, error)
	Search(query string) ([]model.Product, error)
}

type productService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	imageRepo   repository.ImageRepository
	userRepo    repository.UserRepository
}

func NewProductService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	imageRepo repository.ImageRepository,
	userRepo repository.UserRepository,
) ProductService {
	return &productService{
		db:          db,
		productRepo: productRepo,
		imageRepo:   imageRepo,
		userRepo:    userRepo,
	}
}

func (s *productService) requireMerchant(userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !user.IsMerchant {
		return ErrNotMerchant
	}
	return nil
}

// createWithImage stores product, its image and the link between them
func (s *productService) createWithImage(tx *gorm.DB, product *model.Product, imageURL string) error {
	if err := s.productRepo.WithTx(tx).Create(product); err != nil {
		return err
	}
	if imageURL == "" {
		return nil
	}

	image := &model.Image{URL: imageURL}
	if err := s.imageRepo.WithTx(tx).Create(image); err != nil {
		return err
	}
	return s.productRepo.WithTx(tx).AddImage(product.ID, image.ID)
}

func newProduct(merchantID uuid.UUID, in ProductInput) *model.Product {
	return &model.Product{
		Name:        strings.TrimSpace(in.Name),
		MerchantID:  merchantID,
		Price:       in.Price.Round(2),
		Units:       in.Units,
		Description: in.Description,
		IsFeatured:  in.IsFeatured,
	}
}

func (s *productService) AddProduct(merchantID uuid.UUID, input ProductInput) (*model.Product, error) {
	logger.Info("Adding product", map[string]interface{}{
		"merchant_id": merchantID,
		"name":        input.Name,
	})

	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := s.requireMerchant(merchantID); err != nil {
		logger.Warn("Add product rejected", map[string]interface{}{
			"merchant_id": merchantID,
			"error":       err.Error(),
		})
		return nil, err
	}

	product := newProduct(merchantID, input)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.createWithImage(tx, product, input.ImageURL)
	})
	if err != nil {
		logger.Error("Failed to add product", err, map[string]interface{}{
			"merchant_id": merchantID,
		})
		return nil, err
	}

	logger.Info("Product added", map[string]interface{}{
		"product_id":  product.ID,
		"merchant_id": merchantID,
	})
	return product, nil
}

// ImportProducts creates every input for merchantID in one transaction.
// Products without an image go in batches; the rest need their link rows.
func (s *productService) ImportProducts(merchantID uuid.UUID, inputs []ProductInput) (int, error) {
	if err := s.requireMerchant(merchantID); err != nil {
		return 0, err
	}
	for i, in := range inputs {
		if err := in.validate(); err != nil {
			logger.Warn("Import rejected invalid row", map[string]interface{}{
				"row":   i + 1,
				"error": err.Error(),
			})
			return 0, err
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var plain []model.Product
		for _, in := range inputs {
			if in.ImageURL == "" {
				plain = append(plain, *newProduct(merchantID, in))
				continue
			}
			if err := s.createWithImage(tx, newProduct(merchantID, in), in.ImageURL); err != nil {
				return err
			}
		}
		return s.productRepo.WithTx(tx).CreateBatch(plain, importBatchSize)
	})
	if err != nil {
		logger.Error("Failed to import products", err, map[string]interface{}{
			"merchant_id": merchantID,
			"count":       len(inputs),
		})
		return 0, err
	}

	logger.Info("Products imported", map[string]interface{}{
		"merchant_id": merchantID,
		"count":       len(inputs),
	})
	return len(inputs), nil
}

func (s *productService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) GetHomeFeed() (*HomeFeed, error) {
	all, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	featured := make([]model.Product, 0)
	for _, p := range all {
		if p.IsFeatured {
			featured = append(featured, p)
		}
	}

	return &HomeFeed{Announcements: all, Advertisings: featured}, nil
}

func (s *productService) ListMerchantProducts(merchantID uuid.UUID) ([]model.Product, error) {
	return s.productRepo.FindWithFilter(repository.ProductFilter{
		MerchantID:    &merchantID,
		IncludeImages: true,
	})
}

// Search matches a case-insensitive substring of the name; blank returns everything
func (s *productService) Search(query string) ([]model.Product, error) {
	logger.Debug("Searching products", map[string]interface{}{
		"query": query,
	})
	return s.productRepo.FindWithFilter(repository.ProductFilter{
		Search:        query,
		IncludeImages: true,
	})
}
