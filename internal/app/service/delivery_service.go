package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/internal/app/repository"
	"github.com/ecofoods/ecofoods-backend/internal/events"
	"github.com/ecofoods/ecofoods-backend/pkg/logger"
	"github.com/ecofoods/ecofoods-backend/pkg/patch"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrDeliveryNotFound      = errors.New("delivery not found")
	ErrDeliveryAlreadyExists = errors.New("order already has a delivery")
	ErrInvalidDeliveryType   = errors.New("invalid delivery type")
	ErrInvalidDeliveryWindow = errors.New("time_end must be after time_start")
)

type CreateDeliveryInput struct {
	OrderID      uuid.UUID
	TimeStart    *time.Time // defaults to now
	TimeEnd      *time.Time // defaults to TimeStart + 4h
	District     string
	DeliveryType model.DeliveryType
}

// UpdateDeliveryInput is a partial update. A null time_end resets the
// window to its default length, a null district clears it; time_start and
// delivery_type cannot be null.
type UpdateDeliveryInput struct {
	TimeStart    patch.Field[time.Time]
	TimeEnd      patch.Field[time.Time]
	District     patch.Field[string]
	DeliveryType patch.Field[model.DeliveryType]
}

type DeliveryService interface {
	CreateDelivery(ctx context.Context, userID uuid.UUID, input CreateDeliveryInput) (*model.Delivery, error)
	ListByOrder(userID, orderID uuid.UUID) ([]model.Delivery, error)
	UpdateDelivery(ctx context.Context, userID, deliveryID uuid.UUID, input UpdateDeliveryInput) (*model.Delivery, error)
}

type deliveryService struct {
	deliveryRepo repository.DeliveryRepository
	orderRepo    repository.OrderRepository
	publisher    events.Publisher
	now          func() time.Time
}

func NewDeliveryService(
	deliveryRepo repository.DeliveryRepository,
	orderRepo repository.OrderRepository,
	publisher events.Publisher,
) DeliveryService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &deliveryService{
		deliveryRepo: deliveryRepo,
		orderRepo:    orderRepo,
		publisher:    publisher,
		now:          time.Now,
	}
}

func (s *deliveryService) requireVisibleOrder(orderID, userID uuid.UUID) error {
	visible, err := s.orderRepo.IsVisibleTo(orderID, userID)
	if err != nil {
		return err
	}
	if !visible {
		return ErrOrderNotFound
	}
	return nil
}

func (s *deliveryService) publish(ctx context.Context, eventType string, userID uuid.UUID, d *model.Delivery) {
	ctx, cancel := events.Detach(ctx)
	defer cancel()

	err := s.publisher.Publish(ctx, events.Event{
		Type:    eventType,
		OrderID: d.OrderID,
		UserID:  userID,
		Data: map[string]interface{}{
			"delivery_id":   d.ID,
			"time_start":    d.TimeStart,
			"time_end":      d.TimeEnd,
			"delivery_type": d.DeliveryType,
		},
	})
	if err != nil {
		logger.Warn("Failed to publish delivery event", map[string]interface{}{
			"type":        eventType,
			"delivery_id": d.ID,
			"error":       err.Error(),
		})
	}
}

func (s *deliveryService) CreateDelivery(ctx context.Context, userID uuid.UUID, input CreateDeliveryInput) (*model.Delivery, error) {
	logger.Info("Creating delivery", map[string]interface{}{
		"user_id":       userID,
		"order_id":      input.OrderID,
		"delivery_type": input.DeliveryType,
	})

	if !input.DeliveryType.IsValid() {
		return nil, ErrInvalidDeliveryType
	}

	start := s.now().UTC()
	if input.TimeStart != nil {
		start = input.TimeStart.UTC()
	}
	end := start.Add(model.DefaultDeliveryWindow)
	if input.TimeEnd != nil {
		end = input.TimeEnd.UTC()
	}
	if !end.After(start) {
		return nil, ErrInvalidDeliveryWindow
	}

	if err := s.requireVisibleOrder(input.OrderID, userID); err != nil {
		return nil, err
	}

	delivery := &model.Delivery{
		OrderID:      input.OrderID,
		TimeStart:    start,
		TimeEnd:      end,
		District:     strings.TrimSpace(input.District),
		DeliveryType: input.DeliveryType,
	}
	if err := s.deliveryRepo.Create(delivery); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Warn("Delivery already exists for order", map[string]interface{}{
				"order_id": input.OrderID,
			})
			return nil, ErrDeliveryAlreadyExists
		}
		return nil, err
	}

	logger.Info("Delivery created", map[string]interface{}{
		"delivery_id": delivery.ID,
		"order_id":    delivery.OrderID,
	})
	s.publish(ctx, events.DeliveryCreated, userID, delivery)
	return delivery, nil
}

func (s *deliveryService) ListByOrder(userID, orderID uuid.UUID) ([]model.Delivery, error) {
	if err := s.requireVisibleOrder(orderID, userID); err != nil {
		return nil, err
	}
	return s.deliveryRepo.FindByOrderID(orderID)
}

func (s *deliveryService) UpdateDelivery(ctx context.Context, userID, deliveryID uuid.UUID, input UpdateDeliveryInput) (*model.Delivery, error) {
	logger.Info("Updating delivery", map[string]interface{}{
		"user_id":     userID,
		"delivery_id": deliveryID,
	})

	if input.TimeStart.Set && input.TimeStart.Null {
		return nil, ErrFieldNotNullable
	}
	if input.DeliveryType.Set && input.DeliveryType.Null {
		return nil, ErrFieldNotNullable
	}
	if input.DeliveryType.HasValue() && !input.DeliveryType.Value.IsValid() {
		return nil, ErrInvalidDeliveryType
	}

	delivery, err := s.deliveryRepo.FindByID(deliveryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeliveryNotFound
		}
		return nil, err
	}
	if err := s.requireVisibleOrder(delivery.OrderID, userID); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrDeliveryNotFound
		}
		return nil, err
	}

	if input.TimeStart.HasValue() {
		start := input.TimeStart.Value.UTC()
		if !start.Equal(delivery.TimeStart) {
			// a moved window gets a fresh reminder
			delivery.ReminderSentAt = nil
		}
		delivery.TimeStart = start
	}
	switch {
	case input.TimeEnd.HasValue():
		delivery.TimeEnd = input.TimeEnd.Value.UTC()
	case input.TimeEnd.Set:
		delivery.TimeEnd = delivery.TimeStart.Add(model.DefaultDeliveryWindow)
	}
	if input.District.Set {
		delivery.District = strings.TrimSpace(input.District.Value)
	}
	input.DeliveryType.Apply(&delivery.DeliveryType)

	if !delivery.TimeEnd.After(delivery.TimeStart) {
		return nil, ErrInvalidDeliveryWindow
	}

	if err := s.deliveryRepo.Update(delivery); err != nil {
		return nil, err
	}

	s.publish(ctx, events.DeliveryUpdated, userID, delivery)
	return delivery, nil
}
