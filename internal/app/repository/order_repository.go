package repository

import (
	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	Create(order *model.Order) error
	CreateItem(item *model.OrderItem) error
	FindByID(id uuid.UUID) (*model.Order, error)
	FindByUserID(userID uuid.UUID) ([]model.Order, error)
	FindByMerchantID(merchantID uuid.UUID) ([]model.Order, error)
	IsVisibleTo(orderID, userID uuid.UUID) (bool, error)
	UpdateStatus(id uuid.UUID, status model.OrderStatus) error
	WithTx(tx *gorm.DB) OrderRepository
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) WithTx(tx *gorm.DB) OrderRepository {
	return &orderRepository{db: tx}
}

// preloadOrder loads items in insertion order with product and merchant
func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.created_at ASC")
	}).Preload("Items.Product.Merchant").Preload("Delivery")
}

// merchantOrderIDs selects ids of orders holding at least one product of merchantID
func (r *orderRepository) merchantOrderIDs(merchantID uuid.UUID) *gorm.DB {
	return r.db.Model(&model.OrderItem{}).
		Select("order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.merchant_id = ?", merchantID)
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id": order.UserID,
	})

	if err := r.db.Omit(clause.Associations).Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id": order.UserID,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   order.Status,
	})
	return nil
}

func (r *orderRepository) CreateItem(item *model.OrderItem) error {
	logger.Debug("Creating order item in database", map[string]interface{}{
		"order_id":   item.OrderID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})

	if err := r.db.Omit(clause.Associations).Create(item).Error; err != nil {
		logger.Error("Failed to create order item in database", err, map[string]interface{}{
			"order_id":   item.OrderID,
			"product_id": item.ProductID,
		})
		return err
	}
	return nil
}

func (r *orderRepository) FindByID(id uuid.UUID) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.preloadOrder().Where("id = ?", id).First(&order).Error; err != nil {
		logLookupError("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	logger.Debug("Order found by ID in database", map[string]interface{}{
		"order_id":    order.ID,
		"user_id":     order.UserID,
		"status":      order.Status,
		"items_count": len(order.Items),
	})
	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uuid.UUID) ([]model.Order, error) {
	logger.Debug("Finding orders by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var orders []model.Order
	if err := r.preloadOrder().Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Orders found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

// FindByMerchantID returns each order containing the merchant's products once,
// with the customer preloaded
func (r *orderRepository) FindByMerchantID(merchantID uuid.UUID) ([]model.Order, error) {
	logger.Debug("Finding orders by merchant ID in database", map[string]interface{}{
		"merchant_id": merchantID,
	})

	var orders []model.Order
	if err := r.preloadOrder().Preload("User").
		Where("id IN (?)", r.merchantOrderIDs(merchantID)).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by merchant ID in database", err, map[string]interface{}{
			"merchant_id": merchantID,
		})
		return nil, err
	}

	logger.Debug("Orders found by merchant ID in database", map[string]interface{}{
		"merchant_id": merchantID,
		"count":       len(orders),
	})
	return orders, nil
}

// IsVisibleTo reports whether userID owns the order or sells one of its products
func (r *orderRepository) IsVisibleTo(orderID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.Order{}).
		Where("id = ?", orderID).
		Where(r.db.Where("user_id = ?", userID).Or("id IN (?)", r.merchantOrderIDs(userID))).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to check order visibility", err, map[string]interface{}{
			"order_id": orderID,
			"user_id":  userID,
		})
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus touches only status and updated_at
func (r *orderRepository) UpdateStatus(id uuid.UUID, status model.OrderStatus) error {
	logger.Debug("Updating order status in database", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	result := r.db.Model(&model.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		logger.Error("Failed to update order status in database", result.Error, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Order status updated in database", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})
	return nil
}
