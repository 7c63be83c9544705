package controller

import (
	"errors"
	"net/http"

	"github.com/ecofoods/ecofoods-backend/internal/app/service"
	apperrors "github.com/ecofoods/ecofoods-backend/internal/errors"
	"github.com/ecofoods/ecofoods-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type serviceError struct {
	status int
	code   string
}

var serviceErrors = map[error]serviceError{
	service.ErrEmailAlreadyExists:    {http.StatusBadRequest, apperrors.AuthEmailAlreadyExists},
	service.ErrInvalidCredentials:    {http.StatusBadRequest, apperrors.AuthInvalidCredentials},
	service.ErrAccountDisabled:       {http.StatusBadRequest, apperrors.AuthAccountDisabled},
	service.ErrFieldNotNullable:      {http.StatusBadRequest, apperrors.ValidationInvalidInput},
	service.ErrPasswordTooLong:       {http.StatusBadRequest, apperrors.ValidationInvalidRange},
	service.ErrUserNotFound:          {http.StatusNotFound, apperrors.ResourceNotFound},
	service.ErrNotMerchant:           {http.StatusForbidden, apperrors.AuthzMerchantOnly},
	service.ErrInvalidPrice:          {http.StatusBadRequest, apperrors.ValidationInvalidRange},
	service.ErrEmptyName:             {http.StatusBadRequest, apperrors.ValidationInvalidInput},
	service.ErrProductNotFound:       {http.StatusNotFound, apperrors.ProductNotFound},
	service.ErrCategoryNotFound:      {http.StatusNotFound, apperrors.CategoryNotFound},
	service.ErrCategoryAlreadyExists: {http.StatusConflict, apperrors.ResourceAlreadyExists},
	service.ErrOrderNotFound:         {http.StatusNotFound, apperrors.OrderNotFound},
	service.ErrInvalidQuantity:       {http.StatusBadRequest, apperrors.ValidationInvalidRange},
	service.ErrInvalidOrderStatus:    {http.StatusBadRequest, apperrors.OrderInvalidStatus},
	service.ErrDeliveryNotFound:      {http.StatusNotFound, apperrors.DeliveryNotFound},
	service.ErrDeliveryAlreadyExists: {http.StatusConflict, apperrors.DeliveryAlreadyExists},
	service.ErrInvalidDeliveryType:   {http.StatusBadRequest, apperrors.DeliveryInvalidType},
	service.ErrInvalidDeliveryWindow: {http.StatusBadRequest, apperrors.DeliveryInvalidWindow},
	service.ErrReviewAlreadyExists:   {http.StatusConflict, apperrors.ReviewAlreadyExists},
	service.ErrInvalidRating:         {http.StatusBadRequest, apperrors.ReviewInvalidRating},
	service.ErrChatNotFound:          {http.StatusNotFound, apperrors.ChatNotFound},
	service.ErrMerchantNotFound:      {http.StatusNotFound, apperrors.ChatMerchantRequired},
	service.ErrChatWithSelf:          {http.StatusBadRequest, apperrors.ChatSelfForbidden},
	service.ErrEmptyMessage:          {http.StatusBadRequest, apperrors.ValidationInvalidInput},
}

// respondServiceError writes the response for an error returned by a
// service. Unknown errors are logged and parsed as database errors.
func respondServiceError(c *gin.Context, err error, context string) {
	for sentinel, mapped := range serviceErrors {
		if errors.Is(err, sentinel) {
			apperrors.RespondWithError(c, mapped.status, mapped.code, sentinel.Error())
			return
		}
	}

	middleware.GetLoggerFromContext(c).Error("Request failed", err, map[string]interface{}{
		"context": context,
	})
	apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
}

// requireUserID returns the authenticated user or writes 401
func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return uuid.Nil, false
	}
	return userID, true
}

// parseUUID parses a value already checked by the `uuid` binding tag
func parseUUID(c *gin.Context, value, field string) (uuid.UUID, bool) {
	id, err := uuid.Parse(value)
	if err != nil {
		apperrors.RespondWithValidationError(c, map[string]string{field: "Must be a valid UUID."})
		return uuid.Nil, false
	}
	return id, true
}
