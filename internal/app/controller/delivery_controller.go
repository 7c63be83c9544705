package controller

import (
	"net/http"
	"time"

	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/internal/app/service"
	apperrors "github.com/ecofoods/ecofoods-backend/internal/errors"
	"github.com/ecofoods/ecofoods-backend/pkg/patch"
	"github.com/gin-gonic/gin"
)

type DeliveryController struct {
	deliveryService service.DeliveryService
}

func NewDeliveryController(deliveryService service.DeliveryService) *DeliveryController {
	return &DeliveryController{deliveryService: deliveryService}
}

type CreateDeliveryRequest struct {
	Order        string             `json:"order" binding:"required,uuid"`
	TimeStart    *time.Time         `json:"time_start"`
	TimeEnd      *time.Time         `json:"time_end"`
	District     string             `json:"district" binding:"max=255"`
	DeliveryType model.DeliveryType `json:"delivery_type" binding:"required"`
}

type UpdateDeliveryRequest struct {
	UUID         string                          `json:"uuid" binding:"required,uuid"`
	TimeStart    patch.Field[time.Time]          `json:"time_start"`
	TimeEnd      patch.Field[time.Time]          `json:"time_end"`
	District     patch.Field[string]             `json:"district"`
	DeliveryType patch.Field[model.DeliveryType] `json:"delivery_type"`
}

// POST /api/create_delivery
func (ctrl *DeliveryController) CreateDelivery(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}
	orderID, ok := parseUUID(c, req.Order, "order")
	if !ok {
		return
	}

	delivery, err := ctrl.deliveryService.CreateDelivery(c.Request.Context(), userID, service.CreateDeliveryInput{
		OrderID:      orderID,
		TimeStart:    req.TimeStart,
		TimeEnd:      req.TimeEnd,
		District:     req.District,
		DeliveryType: req.DeliveryType,
	})
	if err != nil {
		respondServiceError(c, err, "create delivery")
		return
	}
	c.JSON(http.StatusCreated, toDeliveryResponse(delivery))
}

// GET /api/get_delivery?order_uuid=
func (ctrl *DeliveryController) GetDelivery(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	orderID, ok := parseUUID(c, c.Query("order_uuid"), "order_uuid")
	if !ok {
		return
	}

	deliveries, err := ctrl.deliveryService.ListByOrder(userID, orderID)
	if err != nil {
		respondServiceError(c, err, "fetch delivery")
		return
	}

	resp := make([]DeliveryResponse, 0, len(deliveries))
	for i := range deliveries {
		resp = append(resp, toDeliveryResponse(&deliveries[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// PATCH /api/update_delivery
func (ctrl *DeliveryController) UpdateDelivery(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}
	deliveryID, ok := parseUUID(c, req.UUID, "uuid")
	if !ok {
		return
	}

	delivery, err := ctrl.deliveryService.UpdateDelivery(c.Request.Context(), userID, deliveryID, service.UpdateDeliveryInput{
		TimeStart:    req.TimeStart,
		TimeEnd:      req.TimeEnd,
		District:     req.District,
		DeliveryType: req.DeliveryType,
	})
	if err != nil {
		respondServiceError(c, err, "update delivery")
		return
	}
	c.JSON(http.StatusOK, toDeliveryResponse(delivery))
}
