package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/internal/app/service"
	apperrors "github.com/ecofoods/ecofoods-backend/internal/errors"
	"github.com/ecofoods/ecofoods-backend/internal/middleware"
	"github.com/ecofoods/ecofoods-backend/internal/spreadsheet"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type CreateOrderRequest struct {
	ProductUUID string `json:"product_uuid" binding:"required,uuid"`
	Quantity    *int   `json:"quantity" binding:"required,min=0"`
}

type AddProductToOrderRequest struct {
	OrderUUID   string `json:"order_uuid" binding:"required,uuid"`
	ProductUUID string `json:"product_uuid" binding:"required,uuid"`
	Quantity    *int   `json:"quantity" binding:"required,min=0"`
}

type UpdateOrderStatusRequest struct {
	UUID   string            `json:"uuid" binding:"required,uuid"`
	Status model.OrderStatus `json:"status" binding:"required"`
}

// CreateOrder opens an order with one line
// POST /api/create_order
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create order request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.RespondWithBindingError(c, err)
		return
	}
	productID, ok := parseUUID(c, req.ProductUUID, "product_uuid")
	if !ok {
		return
	}

	order, err := ctrl.orderService.CreateOrder(c.Request.Context(), userID, productID, *req.Quantity)
	if err != nil {
		respondServiceError(c, err, "create order")
		return
	}

	log.Info("Order created", map[string]interface{}{
		"user_id":  userID,
		"order_id": order.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"uuid":       order.ID,
		"created_at": order.CreatedAt,
	})
}

// GetOrders lists the caller's orders, or a merchant's incoming orders
// GET /api/get_orders
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.ListOrders(userID)
	if err != nil {
		respondServiceError(c, err, "fetch orders")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Orders fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// AddProductToOrder appends a line to one of the caller's orders
// PATCH /api/add_product_to_order
func (ctrl *OrderController) AddProductToOrder(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req AddProductToOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}
	orderID, ok := parseUUID(c, req.OrderUUID, "order_uuid")
	if !ok {
		return
	}
	productID, ok := parseUUID(c, req.ProductUUID, "product_uuid")
	if !ok {
		return
	}

	order, err := ctrl.orderService.AddProductToOrder(c.Request.Context(), userID, orderID, productID, *req.Quantity)
	if err != nil {
		respondServiceError(c, err, "update order")
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// UpdateOrderStatus changes the status of a visible order
// PATCH /api/update_order_status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}
	orderID, ok := parseUUID(c, req.UUID, "uuid")
	if !ok {
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(c.Request.Context(), userID, orderID, req.Status)
	if err != nil {
		respondServiceError(c, err, "update order")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"uuid":   order.ID,
		"status": order.Status,
	})
}

// ExportOrders downloads the merchant's order lines as XLSX
// GET /api/merchant/export_orders
func (ctrl *OrderController) ExportOrders(c *gin.Context) {
	merchantID, ok := requireUserID(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.ListOrders(merchantID)
	if err != nil {
		respondServiceError(c, err, "fetch orders")
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteMerchantOrders(&buf, merchantID, orders); err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to render order export", err, map[string]interface{}{
			"merchant_id": merchantID,
		})
		apperrors.InternalError(c, "Failed to export orders")
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, spreadsheet.ContentType, buf.Bytes())
}
