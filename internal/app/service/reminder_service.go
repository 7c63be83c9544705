package service

import (
	"context"
	"errors"
	"time"

	"github.com/ecofoods/ecofoods-backend/internal/app/repository"
	"github.com/ecofoods/ecofoods-backend/internal/events"
	"github.com/ecofoods/ecofoods-backend/internal/websocket"
	"github.com/ecofoods/ecofoods-backend/pkg/logger"
)

// DeliveryReminder is the payload pushed to the order owner
type DeliveryReminder struct {
	DeliveryID   string    `json:"delivery_uuid"`
	OrderID      string    `json:"order_uuid"`
	TimeStart    time.Time `json:"time_start"`
	TimeEnd      time.Time `json:"time_end"`
	District     string    `json:"district"`
	DeliveryType string    `json:"delivery_type"`
}

type ReminderService interface {
	// SendDueReminders notifies owners of deliveries starting within lead
	// and returns how many reminders went out.
	SendDueReminders(ctx context.Context, lead time.Duration) (int, error)
}

type reminderService struct {
	deliveryRepo repository.DeliveryRepository
	orderRepo    repository.OrderRepository
	notifier     Notifier
	publisher    events.Publisher
	now          func() time.Time
}

func NewReminderService(
	deliveryRepo repository.DeliveryRepository,
	orderRepo repository.OrderRepository,
	notifier Notifier,
	publisher events.Publisher,
) ReminderService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &reminderService{
		deliveryRepo: deliveryRepo,
		orderRepo:    orderRepo,
		notifier:     notifier,
		publisher:    publisher,
		now:          time.Now,
	}
}

func (s *reminderService) SendDueReminders(ctx context.Context, lead time.Duration) (int, error) {
	now := s.now().UTC()
	due, err := s.deliveryRepo.FindDueForReminder(now, now.Add(lead))
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, d := range due {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		order, err := s.orderRepo.FindByID(d.OrderID)
		if err != nil {
			logger.Error("Failed to load order for delivery reminder", err, map[string]interface{}{
				"delivery_id": d.ID,
				"order_id":    d.OrderID,
			})
			continue
		}

		reminder := DeliveryReminder{
			DeliveryID:   d.ID.String(),
			OrderID:      d.OrderID.String(),
			TimeStart:    d.TimeStart,
			TimeEnd:      d.TimeEnd,
			District:     d.District,
			DeliveryType: string(d.DeliveryType),
		}
		if s.notifier != nil {
			// unsent reminders stay unmarked and are retried by the next sweep
			err := s.notifier.SendToUser(order.UserID, websocket.EventDeliveryReminder, reminder)
			if errors.Is(err, websocket.ErrUserOffline) {
				logger.Debug("Customer offline, reminder deferred", map[string]interface{}{
					"delivery_id": d.ID,
					"user_id":     order.UserID,
				})
				continue
			}
			if err != nil {
				logger.Warn("Failed to push delivery reminder", map[string]interface{}{
					"delivery_id": d.ID,
					"error":       err.Error(),
				})
				continue
			}
		}

		if err := s.deliveryRepo.MarkReminderSent(d.ID, now); err != nil {
			continue
		}
		sent++

		if err := s.publisher.Publish(ctx, events.Event{
			Type:    events.DeliveryReminderSent,
			OrderID: d.OrderID,
			UserID:  order.UserID,
			Data:    map[string]interface{}{"delivery_id": d.ID},
		}); err != nil {
			logger.Warn("Failed to publish reminder event", map[string]interface{}{
				"delivery_id": d.ID,
				"error":       err.Error(),
			})
		}
	}

	if sent > 0 {
		logger.Info("Delivery reminders sent", map[string]interface{}{
			"count": sent,
		})
	}
	return sent, nil
}
