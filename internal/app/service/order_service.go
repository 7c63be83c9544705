package service

import (
	"context"
	"errors"

	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/internal/app/repository"
	"github.com/ecofoods/ecofoods-backend/internal/events"
	"github.com/ecofoods/ecofoods-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidQuantity    = errors.New("quantity must be a non-negative integer")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

type OrderService interface {
	CreateOrder(ctx context.Context, userID, productID uuid.UUID, quantity int) (*model.Order, error)
	ListOrders(userID uuid.UUID) ([]model.Order, error)
	AddProductToOrder(ctx context.Context, userID, orderID, productID uuid.UUID, quantity int) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, userID, orderID uuid.UUID, status model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	publisher   events.Publisher
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	publisher events.Publisher,
) OrderService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &orderService{
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		publisher:   publisher,
	}
}

// publish never fails the request: the write is already committed
func (s *orderService) publish(ctx context.Context, event events.Event) {
	ctx, cancel := events.Detach(ctx)
	defer cancel()

	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish order event", map[string]interface{}{
			"type":     event.Type,
			"order_id": event.OrderID,
			"error":    err.Error(),
		})
	}
}

// CreateOrder opens an order for userID holding a single line
func (s *orderService) CreateOrder(ctx context.Context, userID, productID uuid.UUID, quantity int) (*model.Order, error) {
	logger.Info("Creating order", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	order := &model.Order{UserID: userID, Status: model.OrderStatusOpened}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.WithTx(tx).FindByID(productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		orders := s.orderRepo.WithTx(tx)
		if err := orders.Create(order); err != nil {
			return err
		}
		return orders.CreateItem(&model.OrderItem{
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  quantity,
			Units:     product.Units,
		})
	})
	if err != nil {
		logger.Warn("Order creation rolled back", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"error":      err.Error(),
		})
		return nil, err
	}

	logger.Info("Order created", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  userID,
	})
	s.publish(ctx, events.Event{
		Type:    events.OrderCreated,
		OrderID: order.ID,
		UserID:  userID,
		Data: map[string]interface{}{
			"product_id": productID,
			"quantity":   quantity,
		},
	})
	return order, nil
}

// ListOrders returns the orders a merchant sells into, or the caller's own orders
func (s *orderService) ListOrders(userID uuid.UUID) ([]model.Order, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.IsMerchant {
		return s.orderRepo.FindByMerchantID(userID)
	}
	return s.orderRepo.FindByUserID(userID)
}

// AddProductToOrder appends a new line; lines for the same product are never merged
func (s *orderService) AddProductToOrder(ctx context.Context, userID, orderID, productID uuid.UUID, quantity int) (*model.Order, error) {
	logger.Info("Adding product to order", map[string]interface{}{
		"user_id":    userID,
		"order_id":   orderID,
		"product_id": productID,
	})

	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		orders := s.orderRepo.WithTx(tx)
		order, err := orders.FindByID(orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.UserID != userID {
			logger.Warn("User tried to extend a foreign order", map[string]interface{}{
				"user_id":  userID,
				"order_id": orderID,
			})
			return ErrOrderNotFound
		}

		product, err := s.productRepo.WithTx(tx).FindByID(productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		return orders.CreateItem(&model.OrderItem{
			OrderID:   orderID,
			ProductID: product.ID,
			Quantity:  quantity,
			Units:     product.Units,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.OrderItemAdded,
		OrderID: orderID,
		UserID:  userID,
		Data: map[string]interface{}{
			"product_id": productID,
			"quantity":   quantity,
		},
	})
	return s.orderRepo.FindByID(orderID)
}

// UpdateOrderStatus changes only the status of an order visible to userID
func (s *orderService) UpdateOrderStatus(ctx context.Context, userID, orderID uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	logger.Info("Updating order status", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
		"status":   status,
	})

	if !status.IsValid() {
		return nil, ErrInvalidOrderStatus
	}

	visible, err := s.orderRepo.IsVisibleTo(orderID, userID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrOrderNotFound
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.OrderStatusUpdated,
		OrderID: orderID,
		UserID:  userID,
		Data:    map[string]interface{}{"status": status},
	})
	return s.orderRepo.FindByID(orderID)
}
