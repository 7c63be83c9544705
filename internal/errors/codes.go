package errors

// Error codes returned in the "error" field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to localized text.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthAccountDisabled    = "AUTH_ACCOUNT_DISABLED"    // is_active = false
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED" // logged out
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzMerchantOnly = "AUTHZ_MERCHANT_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog ====================
	ProductNotFound  = "PRODUCT_NOT_FOUND"
	CategoryNotFound = "CATEGORY_NOT_FOUND"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound      = "ORDER_NOT_FOUND"
	OrderInvalidStatus = "ORDER_INVALID_STATUS"

	// ==================== Deliveries (DELIVERY_) ====================
	DeliveryNotFound      = "DELIVERY_NOT_FOUND"
	DeliveryAlreadyExists = "DELIVERY_ALREADY_EXISTS"
	DeliveryInvalidType   = "DELIVERY_INVALID_TYPE"
	DeliveryInvalidWindow = "DELIVERY_INVALID_WINDOW"

	// ==================== Reviews (REVIEW_) ====================
	ReviewInvalidRating = "REVIEW_INVALID_RATING"
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS"

	// ==================== Chat (CHAT_) ====================
	ChatNotFound          = "CHAT_NOT_FOUND"
	ChatSelfForbidden     = "CHAT_SELF_FORBIDDEN"
	ChatMerchantRequired  = "CHAT_MERCHANT_REQUIRED"
	ChatCannotSendMessage = "CHAT_CANNOT_SEND"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
