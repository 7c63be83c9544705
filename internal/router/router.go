package router

import (
	"net/http"
	"time"

	"github.com/ecofoods/ecofoods-backend/config"
	"github.com/ecofoods/ecofoods-backend/internal/app/controller"
	"github.com/ecofoods/ecofoods-backend/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController     *controller.AuthController
	productController  *controller.ProductController
	categoryController *controller.CategoryController
	orderController    *controller.OrderController
	deliveryController *controller.DeliveryController
	reviewController   *controller.ReviewController
	chatController     *controller.ChatController
	uploadController   *controller.UploadController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	categoryController *controller.CategoryController,
	orderController *controller.OrderController,
	deliveryController *controller.DeliveryController,
	reviewController *controller.ReviewController,
	chatController *controller.ChatController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		productController:  productController,
		categoryController: categoryController,
		orderController:    orderController,
		deliveryController: deliveryController,
		reviewController:   reviewController,
		chatController:     chatController,
		uploadController:   uploadController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "EcoFoods API is running",
		})
	})

	api := router.Group("/api")
	{
		api.POST("/registration", r.authController.Register)
		api.POST("/login", r.authController.Login)
	}

	authed := api.Group("")
	authed.Use(r.authMiddleware.Authenticate())
	{
		authed.POST("/logout", r.authController.Logout)
		authed.GET("/get_user_info", r.authController.GetUserInfo)
		authed.PATCH("/update_user_info", r.authController.UpdateUserInfo)

		authed.GET("/home", r.productController.Home)
		authed.GET("/search_product", r.productController.SearchProducts)
		authed.POST("/search_product", r.productController.SearchProducts)

		authed.GET("/categories", r.categoryController.List)
		authed.GET("/categories/:uuid/products", r.categoryController.ListProducts)

		authed.POST("/create_order", r.orderController.CreateOrder)
		authed.GET("/get_orders", r.orderController.GetOrders)
		authed.PATCH("/add_product_to_order", r.orderController.AddProductToOrder)
		authed.PATCH("/update_order_status", r.orderController.UpdateOrderStatus)

		authed.POST("/create_delivery", r.deliveryController.CreateDelivery)
		authed.GET("/get_delivery", r.deliveryController.GetDelivery)
		authed.PATCH("/update_delivery", r.deliveryController.UpdateDelivery)

		authed.POST("/create_review", r.reviewController.CreateReview)
		authed.GET("/get_reviews", r.reviewController.GetReviews)

		authed.POST("/create_chat", r.chatController.CreateChat)
		authed.GET("/get_chats", r.chatController.GetChats)
		authed.POST("/send_message", r.chatController.SendMessage)
		authed.GET("/get_messages", r.chatController.GetMessages)
		authed.GET("/ws", r.chatController.ServeWS)

		authed.POST("/upload/presigned_url", r.uploadController.GeneratePresignedURL)
	}

	merchant := authed.Group("/merchant")
	merchant.Use(r.authMiddleware.RequireMerchant())
	{
		merchant.POST("/add_product", r.productController.AddProduct)
		merchant.GET("/get_products", r.productController.GetMerchantProducts)
		merchant.GET("/export_orders", r.orderController.ExportOrders)
		merchant.POST("/add_category", r.categoryController.Create)
		merchant.PATCH("/link_category", r.categoryController.LinkProduct)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Encoding",
			"Authorization", "Cache-Control", "X-Requested-With", "X-Request-ID",
		},
		ExposeHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range allowedOrigins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
	}
	if len(allowedOrigins) == 0 {
		// same-origin only
		cfg.AllowOriginFunc = func(string) bool { return false }
		return cors.New(cfg)
	}
	cfg.AllowOrigins = allowedOrigins
	cfg.AllowCredentials = true
	return cors.New(cfg)
}
