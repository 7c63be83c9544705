package controller

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ecofoods/ecofoods-backend/config"
	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/internal/app/repository"
	"github.com/ecofoods/ecofoods-backend/internal/app/service"
	"github.com/ecofoods/ecofoods-backend/internal/db"
	"github.com/ecofoods/ecofoods-backend/internal/events"
	"github.com/ecofoods/ecofoods-backend/internal/middleware"
	"github.com/ecofoods/ecofoods-backend/internal/storage"
	"github.com/ecofoods/ecofoods-backend/internal/websocket"
	"github.com/ecofoods/ecofoods-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

var testS3Config = config.S3Config{
	Region:          "eu-central-1",
	Bucket:          "ecofoods-test",
	AccessKeyID:     "AKIDTEST",
	SecretAccessKey: "secret",
	BaseURL:         "https://cdn.example.com/",
}

type controllerEnv struct {
	db        *gorm.DB
	router    *gin.Engine
	publisher *events.Recorder
	hub       *websocket.Hub
}

// setupControllerTest mounts every controller on the same paths the
// production router uses, behind the real auth middleware
func setupControllerTest(t *testing.T) *controllerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	imageRepo := repository.NewImageRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	deliveryRepo := repository.NewDeliveryRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)
	chatRepo := repository.NewChatRepository(testDB)
	publisher := &events.Recorder{}

	hub := websocket.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	authCtrl := NewAuthController(service.NewAuthService(testDB, userRepo, imageRepo, testSecret, time.Hour))
	productCtrl := NewProductController(service.NewProductService(testDB, productRepo, imageRepo, userRepo))
	categoryCtrl := NewCategoryController(service.NewCategoryService(testDB, categoryRepo, productRepo, imageRepo))
	orderCtrl := NewOrderController(service.NewOrderService(testDB, orderRepo, productRepo, userRepo, publisher))
	deliveryCtrl := NewDeliveryController(service.NewDeliveryService(deliveryRepo, orderRepo, publisher))
	reviewCtrl := NewReviewController(service.NewReviewService(testDB, reviewRepo, productRepo, imageRepo))
	chatCtrl := NewChatController(service.NewChatService(chatRepo, userRepo, hub), hub, websocket.NewUpgrader(nil))
	uploadCtrl := NewUploadController(storage.NewS3Storage(testS3Config))
	auth := middleware.NewAuthMiddleware(testSecret, userRepo)

	router := gin.New()
	api := router.Group("/api")
	api.POST("/registration", authCtrl.Register)
	api.POST("/login", authCtrl.Login)

	authed := api.Group("", auth.Authenticate())
	authed.POST("/logout", authCtrl.Logout)
	authed.GET("/get_user_info", authCtrl.GetUserInfo)
	authed.PATCH("/update_user_info", authCtrl.UpdateUserInfo)
	authed.GET("/home", productCtrl.Home)
	authed.GET("/search_product", productCtrl.SearchProducts)
	authed.POST("/search_product", productCtrl.SearchProducts)
	authed.GET("/categories", categoryCtrl.List)
	authed.GET("/categories/:uuid/products", categoryCtrl.ListProducts)
	authed.POST("/create_order", orderCtrl.CreateOrder)
	authed.GET("/get_orders", orderCtrl.GetOrders)
	authed.PATCH("/add_product_to_order", orderCtrl.AddProductToOrder)
	authed.PATCH("/update_order_status", orderCtrl.UpdateOrderStatus)
	authed.POST("/create_delivery", deliveryCtrl.CreateDelivery)
	authed.GET("/get_delivery", deliveryCtrl.GetDelivery)
	authed.PATCH("/update_delivery", deliveryCtrl.UpdateDelivery)
	authed.POST("/create_review", reviewCtrl.CreateReview)
	authed.GET("/get_reviews", reviewCtrl.GetReviews)
	authed.POST("/create_chat", chatCtrl.CreateChat)
	authed.GET("/get_chats", chatCtrl.GetChats)
	authed.POST("/send_message", chatCtrl.SendMessage)
	authed.GET("/get_messages", chatCtrl.GetMessages)
	authed.GET("/ws", chatCtrl.ServeWS)
	authed.POST("/upload/presigned_url", uploadCtrl.GeneratePresignedURL)

	merchant := authed.Group("/merchant", auth.RequireMerchant())
	merchant.POST("/add_product", productCtrl.AddProduct)
	merchant.GET("/get_products", productCtrl.GetMerchantProducts)
	merchant.GET("/export_orders", orderCtrl.ExportOrders)
	merchant.POST("/add_category", categoryCtrl.Create)
	merchant.PATCH("/link_category", categoryCtrl.LinkProduct)

	return &controllerEnv{db: testDB, router: router, publisher: publisher, hub: hub}
}

// createUser stores a user and returns it with a valid token
func (e *controllerEnv) createUser(t *testing.T, email string, merchant bool) (*model.User, string) {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "hash",
		IsMerchant:   merchant,
		IsActive:     true,
		Address:      email + " street 1",
	}
	require.NoError(t, e.db.Create(user).Error)

	token, err := util.GenerateToken(user.ID, testSecret, time.Hour)
	require.NoError(t, err)
	return user, token
}

func (e *controllerEnv) createProduct(t *testing.T, merchant *model.User, name, price string, featured bool) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:       name,
		MerchantID: merchant.ID,
		Price:      decimal.RequireFromString(price),
		Units:      "kg",
		IsFeatured: featured,
	}
	require.NoError(t, repository.NewProductRepository(e.db).Create(product))
	return product
}

// do sends body (marshalled unless nil) and returns the recorder
func (e *controllerEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]interface{}](t, w)["error"].(string)
}

func (e *controllerEnv) createOrder(t *testing.T, user *model.User, product *model.Product) *model.Order {
	t.Helper()
	orders := repository.NewOrderRepository(e.db)
	order := &model.Order{UserID: user.ID, Status: model.OrderStatusOpened}
	require.NoError(t, orders.Create(order))
	require.NoError(t, orders.CreateItem(&model.OrderItem{
		OrderID:   order.ID,
		ProductID: product.ID,
		Quantity:  1,
		Units:     product.Units,
	}))
	return order
}
