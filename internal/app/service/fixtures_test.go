package service

import (
	"context"
	"testing"
	"time"

	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/internal/app/repository"
	"github.com/ecofoods/ecofoods-backend/internal/db"
	"github.com/ecofoods/ecofoods-backend/internal/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testJWTSecret   = "test-jwt-secret"
	testTokenExpiry = 30 * 24 * time.Hour
)

type testEnv struct {
	db        *gorm.DB
	users     repository.UserRepository
	images    repository.ImageRepository
	products  repository.ProductRepository
	orders    repository.OrderRepository
	delivery  repository.DeliveryRepository
	reviews   repository.ReviewRepository
	chats     repository.ChatRepository
	category  repository.CategoryRepository
	publisher *events.Recorder
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return &testEnv{
		db:        testDB,
		users:     repository.NewUserRepository(testDB),
		images:    repository.NewImageRepository(testDB),
		products:  repository.NewProductRepository(testDB),
		orders:    repository.NewOrderRepository(testDB),
		delivery:  repository.NewDeliveryRepository(testDB),
		reviews:   repository.NewReviewRepository(testDB),
		chats:     repository.NewChatRepository(testDB),
		category:  repository.NewCategoryRepository(testDB),
		publisher: &events.Recorder{},
	}
}

func (e *testEnv) authService() AuthService {
	return NewAuthService(e.db, e.users, e.images, testJWTSecret, testTokenExpiry)
}

func (e *testEnv) productService() ProductService {
	return NewProductService(e.db, e.products, e.images, e.users)
}

func (e *testEnv) orderService() OrderService {
	return NewOrderService(e.db, e.orders, e.products, e.users, e.publisher)
}

func (e *testEnv) createUser(t *testing.T, email string, merchant bool) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "hash",
		IsMerchant:   merchant,
		IsActive:     true,
		Address:      email + " street 1",
	}
	require.NoError(t, e.users.Create(user))
	return user
}

func (e *testEnv) createProduct(t *testing.T, merchant *model.User, name, price string) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:       name,
		MerchantID: merchant.ID,
		Price:      decimal.RequireFromString(price),
		Units:      "kg",
	}
	require.NoError(t, e.products.Create(product))
	return product
}

func (e *testEnv) createOrder(t *testing.T, user *model.User, product *model.Product) *model.Order {
	t.Helper()
	order := &model.Order{UserID: user.ID, Status: model.OrderStatusOpened}
	require.NoError(t, e.orders.Create(order))
	require.NoError(t, e.orders.CreateItem(&model.OrderItem{
		OrderID:   order.ID,
		ProductID: product.ID,
		Quantity:  1,
		Units:     product.Units,
	}))
	return order
}

type sentEvent struct {
	userID    uuid.UUID
	eventType string
	data      interface{}
}

// fakeNotifier records pushes instead of writing to sockets
type fakeNotifier struct {
	sent []sentEvent
	err  error
}

func (n *fakeNotifier) SendToUser(userID uuid.UUID, eventType string, data interface{}) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentEvent{userID: userID, eventType: eventType, data: data})
	return nil
}

// ctxPublisher records the state of the context each event is published with
type ctxPublisher struct {
	events.Recorder
	ctxErrs   []error
	deadlines []bool
}

func (p *ctxPublisher) Publish(ctx context.Context, event events.Event) error {
	p.ctxErrs = append(p.ctxErrs, ctx.Err())
	_, ok := ctx.Deadline()
	p.deadlines = append(p.deadlines, ok)
	return p.Recorder.Publish(ctx, event)
}
