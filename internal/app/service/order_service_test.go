package service

import (
	"context"
	"testing"

	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/internal/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderService_CreateOrder(t *testing.T) {
	env := setupServiceTest(t)
	orderService := env.orderService()
	merchant := env.createUser(t, "farm@example.com", true)
	customer := env.createUser(t, "buyer@example.com", false)
	product := env.createProduct(t, merchant, "Carrots", "2.50")

	order, err := orderService.CreateOrder(context.Background(), customer.ID, product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusOpened, order.Status)
	assert.False(t, order.CreatedAt.IsZero())

	orders, err := orderService.ListOrders(customer.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, 3, orders[0].Items[0].Quantity)
	assert.Equal(t, "kg", orders[0].Items[0].Units)
	assert.Equal(t, "Carrots", orders[0].Items[0].Product.Name)

	assert.Equal(t, []string{events.OrderCreated}, env.publisher.Types())
}

func TestOrderService_CreateOrder_Invalid(t *testing.T) {
	env := setupServiceTest(t)
	orderService := env.orderService()
	merchant := env.createUser(t, "farm@example.com", true)
	customer := env.createUser(t, "buyer@example.com", false)
	product := env.createProduct(t, merchant, "Carrots", "2.50")

	tests := []struct {
		name      string
		productID uuid.UUID
		quantity  int
		wantErr   error
	}{
		{name: "Unknown product", productID: uuid.New(), quantity: 1, wantErr: ErrProductNotFound},
		{name: "Negative quantity", productID: product.ID, quantity: -1, wantErr: ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := orderService.CreateOrder(context.Background(), customer.ID, tt.productID, tt.quantity)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, order)
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&model.Order{}).Count(&count).Error)
	assert.Zero(t, count, "no order row may be left behind")
	assert.Empty(t, env.publisher.Events())
}

func TestOrderService_ListOrders_MerchantSeesOwnProductsOnly(t *testing.T) {
	env := setupServiceTest(t)
	orderService := env.orderService()
	farm := env.createUser(t, "farm@example.com", true)
	bakery := env.createUser(t, "bakery@example.com", true)
	customer := env.createUser(t, "buyer@example.com", false)
	carrots := env.createProduct(t, farm, "Carrots", "2.50")
	bread := env.createProduct(t, bakery, "Bread", "3.00")

	first := env.createOrder(t, customer, carrots)
	_, err := orderService.AddProductToOrder(context.Background(), customer.ID, first.ID, bread.ID, 1)
	require.NoError(t, err)
	env.createOrder(t, customer, bread)

	farmOrders, err := orderService.ListOrders(farm.ID)
	require.NoError(t, err)
	require.Len(t, farmOrders, 1)
	assert.Equal(t, first.ID, farmOrders[0].ID)

	bakeryOrders, err := orderService.ListOrders(bakery.ID)
	require.NoError(t, err)
	assert.Len(t, bakeryOrders, 2)

	customerOrders, err := orderService.ListOrders(customer.ID)
	require.NoError(t, err)
	assert.Len(t, customerOrders, 2)

	_, err = orderService.ListOrders(uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestOrderService_AddProductToOrder(t *testing.T) {
	env := setupServiceTest(t)
	orderService := env.orderService()
	merchant := env.createUser(t, "farm@example.com", true)
	customer := env.createUser(t, "buyer@example.com", false)
	stranger := env.createUser(t, "stranger@example.com", false)
	carrots := env.createProduct(t, merchant, "Carrots", "2.50")
	onions := env.createProduct(t, merchant, "Onions", "1.00")

	order, err := orderService.CreateOrder(context.Background(), customer.ID, carrots.ID, 2)
	require.NoError(t, err)

	updated, err := orderService.AddProductToOrder(context.Background(), customer.ID, order.ID, onions.ID, 5)
	require.NoError(t, err)
	require.Len(t, updated.Items, 2)
	assert.Equal(t, carrots.ID, updated.Items[0].ProductID)
	assert.Equal(t, 2, updated.Items[0].Quantity)
	assert.Equal(t, onions.ID, updated.Items[1].ProductID)
	assert.Equal(t, 5, updated.Items[1].Quantity)

	t.Run("Same product adds a new line", func(t *testing.T) {
		updated, err := orderService.AddProductToOrder(context.Background(), customer.ID, order.ID, carrots.ID, 1)
		require.NoError(t, err)
		assert.Len(t, updated.Items, 3)
	})

	t.Run("Foreign order", func(t *testing.T) {
		_, err := orderService.AddProductToOrder(context.Background(), stranger.ID, order.ID, onions.ID, 1)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("Unknown product", func(t *testing.T) {
		_, err := orderService.AddProductToOrder(context.Background(), customer.ID, order.ID, uuid.New(), 1)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("Unknown order", func(t *testing.T) {
		_, err := orderService.AddProductToOrder(context.Background(), customer.ID, uuid.New(), onions.ID, 1)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	assert.Equal(t, []string{events.OrderCreated, events.OrderItemAdded, events.OrderItemAdded}, env.publisher.Types())
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	env := setupServiceTest(t)
	orderService := env.orderService()
	merchant := env.createUser(t, "farm@example.com", true)
	otherMerchant := env.createUser(t, "other@example.com", true)
	customer := env.createUser(t, "buyer@example.com", false)
	product := env.createProduct(t, merchant, "Carrots", "2.50")
	order := env.createOrder(t, customer, product)

	updated, err := orderService.UpdateOrderStatus(context.Background(), merchant.ID, order.ID, model.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, updated.Status)
	assert.True(t, order.CreatedAt.Equal(updated.CreatedAt), "created_at must not change")
	assert.Len(t, updated.Items, 1)

	tests := []struct {
		name    string
		userID  uuid.UUID
		orderID uuid.UUID
		status  model.OrderStatus
		wantErr error
	}{
		{name: "Owner may cancel", userID: customer.ID, orderID: order.ID, status: model.OrderStatusCancelled},
		{name: "Unknown status", userID: customer.ID, orderID: order.ID, status: "shipped", wantErr: ErrInvalidOrderStatus},
		{name: "Unrelated merchant", userID: otherMerchant.ID, orderID: order.ID, status: model.OrderStatusDelivered, wantErr: ErrOrderNotFound},
		{name: "Unknown order", userID: customer.ID, orderID: uuid.New(), status: model.OrderStatusDelivered, wantErr: ErrOrderNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := orderService.UpdateOrderStatus(context.Background(), tt.userID, tt.orderID, tt.status)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, updated.Status)
		})
	}
}

func TestOrderService_PublishOutlivesRequest(t *testing.T) {
	env := setupServiceTest(t)
	publisher := &ctxPublisher{}
	orderService := NewOrderService(env.db, env.orders, env.products, env.users, publisher)
	merchant := env.createUser(t, "farm@example.com", true)
	customer := env.createUser(t, "buyer@example.com", false)
	product := env.createProduct(t, merchant, "Carrots", "2.50")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	order, err := orderService.CreateOrder(ctx, customer.ID, product.ID, 1)
	require.NoError(t, err)
	_, err = orderService.UpdateOrderStatus(ctx, customer.ID, order.ID, model.OrderStatusConfirmed)
	require.NoError(t, err)

	assert.Equal(t, []string{events.OrderCreated, events.OrderStatusUpdated}, publisher.Types())
	assert.Equal(t, []error{nil, nil}, publisher.ctxErrs)
	assert.Equal(t, []bool{true, true}, publisher.deadlines)
}
