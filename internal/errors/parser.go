package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a parsed error ready to be sent to the client
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts a database error into a client-safe code and message.
// context names the operation ("create order", "update delivery") and is
// used to pick the wording.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Internal server error",
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// postgres reports "duplicate key value violates unique constraint",
	// sqlite reports "UNIQUE constraint failed: table.column"
	errStr := err.Error()
	errLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(errLower, "duplicate key") ||
		strings.Contains(errLower, "unique constraint") {
		return parseDuplicateKeyError(errLower)
	}

	if errors.Is(err, gorm.ErrForeignKeyViolated) || strings.Contains(errLower, "foreign key constraint") {
		return parseForeignKeyError(errLower)
	}

	if strings.Contains(errLower, "not-null constraint") || strings.Contains(errLower, "not null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	if errors.Is(err, gorm.ErrCheckConstraintViolated) || strings.Contains(errLower, "check constraint") {
		return parseCheckConstraintError(errLower)
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A backing service is unavailable, please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "User with this email already exists"}
	case strings.Contains(errLower, "deliveries"):
		return ErrorInfo{Code: DeliveryAlreadyExists, Message: "A delivery already exists for this order"}
	case strings.Contains(errLower, "reviews"):
		return ErrorInfo{Code: ReviewAlreadyExists, Message: "You have already reviewed this product"}
	case strings.Contains(errLower, "categories"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Category with this name already exists"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "Resource already exists"}
}

func parseForeignKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "still referenced") {
		return ErrorInfo{Code: ResourceConflict, Message: "Resource is still referenced and cannot be deleted"}
	}
	switch {
	case strings.Contains(errLower, "product"):
		return ErrorInfo{Code: ProductNotFound, Message: "Product not found"}
	case strings.Contains(errLower, "order"):
		return ErrorInfo{Code: OrderNotFound, Message: "Order not found"}
	case strings.Contains(errLower, "user"):
		return ErrorInfo{Code: ResourceNotFound, Message: "User not found"}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "Referenced resource not found"}
}

func parseCheckConstraintError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "rating"):
		return ErrorInfo{Code: ReviewInvalidRating, Message: "Rating must be between 0 and 5"}
	case strings.Contains(errLower, "price"), strings.Contains(errLower, "quantity"):
		return ErrorInfo{Code: ValidationInvalidRange, Message: "Value must not be negative"}
	case strings.Contains(errLower, "time_end"):
		return ErrorInfo{Code: DeliveryInvalidWindow, Message: "time_end must be after time_start"}
	}
	return ErrorInfo{Code: ValidationInvalidInput, Message: "Invalid input"}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "delivery"):
		return "Delivery not found"
	case strings.Contains(contextLower, "order"):
		return "Order not found"
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "category"):
		return "Category not found"
	case strings.Contains(contextLower, "review"):
		return "Review not found"
	case strings.Contains(contextLower, "chat"), strings.Contains(contextLower, "message"):
		return "Chat not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	}
	return "Not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Failed to create the resource, please try again later"
	case strings.Contains(contextLower, "update"):
		return "Failed to update the resource, please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete the resource, please try again later"
	}
	return "Internal server error, please try again later"
}

// ParseAndRespond parses err and writes it with the code's natural status;
// statusCode is used when the error is not recognized.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusForCode(errorInfo.Code, statusCode), ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

func statusForCode(code string, fallback int) int {
	switch code {
	case ResourceNotFound, ProductNotFound, OrderNotFound:
		return 404
	case ResourceAlreadyExists, DeliveryAlreadyExists, ReviewAlreadyExists, ResourceConflict:
		return 409
	case AuthEmailAlreadyExists, ValidationRequired, ValidationInvalidRange, ValidationInvalidInput,
		ReviewInvalidRating, DeliveryInvalidWindow:
		return 400
	}
	return fallback
}
