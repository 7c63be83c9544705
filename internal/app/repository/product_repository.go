package repository

import (
	"strings"

	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter narrows product listings. Zero value lists every product.
type ProductFilter struct {
	Search        string // case-insensitive substring of the name
	MerchantID    *uuid.UUID
	CategoryID    *uuid.UUID
	FeaturedOnly  bool
	IncludeImages bool
}

type ProductRepository interface {
	Create(product *model.Product) error
	CreateBatch(products []model.Product, batchSize int) error
	AddImage(productID, imageID uuid.UUID) error
	LinkCategory(productID, categoryID uuid.UUID) error
	FindAll() ([]model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	WithTx(tx *gorm.DB) ProductRepository
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":        product.Name,
		"merchant_id": product.MerchantID,
	})

	if err := r.db.Omit(clause.Associations).Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name":        product.Name,
			"merchant_id": product.MerchantID,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id":  product.ID,
		"merchant_id": product.MerchantID,
	})
	return nil
}

// CreateBatch inserts products in chunks of batchSize
func (r *productRepository) CreateBatch(products []model.Product, batchSize int) error {
	if len(products) == 0 {
		return nil
	}

	if err := r.db.Omit(clause.Associations).CreateInBatches(&products, batchSize).Error; err != nil {
		logger.Error("Failed to create products in batch", err, map[string]interface{}{
			"count": len(products),
		})
		return err
	}

	logger.Debug("Products created in batch", map[string]interface{}{
		"count": len(products),
	})
	return nil
}

func (r *productRepository) AddImage(productID, imageID uuid.UUID) error {
	link := &model.ProductImage{ProductID: productID, ImageID: imageID}
	if err := r.db.Omit(clause.Associations).Create(link).Error; err != nil {
		logger.Error("Failed to link image to product", err, map[string]interface{}{
			"product_id": productID,
			"image_id":   imageID,
		})
		return err
	}
	return nil
}

// LinkCategory is idempotent: linking twice keeps a single row
func (r *productRepository) LinkCategory(productID, categoryID uuid.UUID) error {
	logger.Debug("Linking product to category", map[string]interface{}{
		"product_id":  productID,
		"category_id": categoryID,
	})

	link := &model.ProductCategory{ProductID: productID, CategoryID: categoryID}
	err := r.db.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(link).Error
	if err != nil {
		logger.Error("Failed to link product to category", err, map[string]interface{}{
			"product_id":  productID,
			"category_id": categoryID,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	return r.FindWithFilter(ProductFilter{})
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"search":        filter.Search,
		"merchant_id":   filter.MerchantID,
		"category_id":   filter.CategoryID,
		"featured_only": filter.FeaturedOnly,
	})

	query := r.db.Model(&model.Product{}).Preload("Merchant")
	if filter.IncludeImages {
		query = query.Preload("Images.Image")
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("products.name_search LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(search))+"%")
	}
	if filter.MerchantID != nil {
		query = query.Where("products.merchant_id = ?", *filter.MerchantID)
	}
	if filter.CategoryID != nil {
		query = query.Joins("JOIN product_categories ON product_categories.product_id = products.id").
			Where("product_categories.category_id = ?", *filter.CategoryID)
	}
	if filter.FeaturedOnly {
		query = query.Where("products.is_featured = ?", true)
	}

	var products []model.Product
	if err := query.Order("products.created_at DESC").Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByID(id uuid.UUID) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	err := r.db.Preload("Merchant").
		Preload("Images.Image").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		logLookupError("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return &product, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
