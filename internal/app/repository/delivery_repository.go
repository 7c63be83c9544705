package repository

import (
	"time"

	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeliveryRepository interface {
	Create(delivery *model.Delivery) error
	FindByID(id uuid.UUID) (*model.Delivery, error)
	FindByOrderID(orderID uuid.UUID) ([]model.Delivery, error)
	Update(delivery *model.Delivery) error
	FindDueForReminder(from, to time.Time) ([]model.Delivery, error)
	MarkReminderSent(id uuid.UUID, at time.Time) error
	WithTx(tx *gorm.DB) DeliveryRepository
}

type deliveryRepository struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) WithTx(tx *gorm.DB) DeliveryRepository {
	return &deliveryRepository{db: tx}
}

func (r *deliveryRepository) Create(delivery *model.Delivery) error {
	logger.Debug("Creating delivery in database", map[string]interface{}{
		"order_id":      delivery.OrderID,
		"delivery_type": delivery.DeliveryType,
	})

	if err := r.db.Create(delivery).Error; err != nil {
		logger.Error("Failed to create delivery in database", err, map[string]interface{}{
			"order_id": delivery.OrderID,
		})
		return err
	}

	logger.Debug("Delivery created in database", map[string]interface{}{
		"delivery_id": delivery.ID,
		"order_id":    delivery.OrderID,
	})
	return nil
}

func (r *deliveryRepository) FindByID(id uuid.UUID) (*model.Delivery, error) {
	var delivery model.Delivery
	if err := r.db.Where("id = ?", id).First(&delivery).Error; err != nil {
		logLookupError("Failed to find delivery by ID in database", err, map[string]interface{}{
			"delivery_id": id,
		})
		return nil, err
	}
	return &delivery, nil
}

func (r *deliveryRepository) FindByOrderID(orderID uuid.UUID) ([]model.Delivery, error) {
	logger.Debug("Finding deliveries by order ID in database", map[string]interface{}{
		"order_id": orderID,
	})

	deliveries := []model.Delivery{}
	if err := r.db.Where("order_id = ?", orderID).Find(&deliveries).Error; err != nil {
		logger.Error("Failed to find deliveries by order ID in database", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}
	return deliveries, nil
}

// Update saves the full row so cleared fields (district, reminder_sent_at) persist
func (r *deliveryRepository) Update(delivery *model.Delivery) error {
	logger.Debug("Updating delivery in database", map[string]interface{}{
		"delivery_id": delivery.ID,
	})

	if err := r.db.Save(delivery).Error; err != nil {
		logger.Error("Failed to update delivery in database", err, map[string]interface{}{
			"delivery_id": delivery.ID,
		})
		return err
	}
	return nil
}

// FindDueForReminder returns deliveries starting in (from, to] that were not reminded yet
func (r *deliveryRepository) FindDueForReminder(from, to time.Time) ([]model.Delivery, error) {
	var deliveries []model.Delivery
	err := r.db.Where("reminder_sent_at IS NULL").
		Where("time_start > ? AND time_start <= ?", from, to).
		Order("time_start ASC").
		Find(&deliveries).Error
	if err != nil {
		logger.Error("Failed to find deliveries due for reminder", err, map[string]interface{}{
			"from": from,
			"to":   to,
		})
		return nil, err
	}

	logger.Debug("Deliveries due for reminder", map[string]interface{}{
		"count": len(deliveries),
	})
	return deliveries, nil
}

func (r *deliveryRepository) MarkReminderSent(id uuid.UUID, at time.Time) error {
	err := r.db.Model(&model.Delivery{}).
		Where("id = ?", id).
		UpdateColumn("reminder_sent_at", at).Error
	if err != nil {
		logger.Error("Failed to mark delivery reminder as sent", err, map[string]interface{}{
			"delivery_id": id,
		})
		return err
	}
	return nil
}
