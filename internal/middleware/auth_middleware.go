package middleware

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/internal/errors"
	"github.com/ecofoods/ecofoods-backend/pkg/redis"
	"github.com/ecofoods/ecofoods-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys for user information
const (
	UserIDKey     = "user_id"
	TokenKey      = "auth_token"
	ClaimsKey     = "auth_claims"
	IsMerchantKey = "is_merchant"
)

// UserFinder loads the caller for permission checks
type UserFinder interface {
	FindByID(id uuid.UUID) (*model.User, error)
}

type AuthMiddleware struct {
	jwtSecret string
	users     UserFinder
}

func NewAuthMiddleware(jwtSecret string, users UserFinder) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		users:     users,
	}
}

// Authenticate validates the bearer token (required) and rejects tokens whose
// user is gone or disabled. The websocket endpoint cannot set headers from
// browsers, so ?token= is accepted too.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		var token string
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
				log.Warn("Invalid authorization header format", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Authorization header must be 'Bearer <token>'")
				c.Abort()
				return
			}
			token = strings.TrimSpace(parts[1])
		} else {
			token = c.Query("token")
			if token == "" {
				log.Warn("Missing authorization header", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.Unauthorized(c, "Authentication credentials were not provided")
				c.Abort()
				return
			}
			log.Debug("Using token from query parameter", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
		}

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			if stderrors.Is(err, util.ErrExpiredToken) {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Token has expired")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid token")
			}
			c.Abort()
			return
		}

		revoked, err := redis.IsTokenRevoked(c.Request.Context(), token)
		if err != nil {
			// redis outage must not lock every user out
			log.Warn("Token revocation check failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		if revoked {
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "Token has been revoked")
			c.Abort()
			return
		}

		user, err := m.users.FindByID(claims.UserID)
		if err != nil {
			log.Warn("Token subject not found", map[string]interface{}{
				"user_id": claims.UserID,
				"error":   err.Error(),
			})
			errors.Unauthorized(c, "User not found")
			c.Abort()
			return
		}
		if !user.IsActive {
			log.Warn("Disabled account rejected", map[string]interface{}{
				"user_id": claims.UserID,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthAccountDisabled, "User account is disabled")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(TokenKey, token)
		c.Set(ClaimsKey, claims)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": claims.UserID,
		})

		c.Next()
	}
}

// RequireMerchant lets only users flagged is_merchant through.
// Must run after Authenticate.
func (m *AuthMiddleware) RequireMerchant() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		userID, ok := GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "Authentication credentials were not provided")
			c.Abort()
			return
		}

		user, err := m.users.FindByID(userID)
		if err != nil {
			log.Warn("Failed to load user for merchant check", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
			errors.Unauthorized(c, "User not found")
			c.Abort()
			return
		}

		if !user.IsMerchant {
			log.Warn("Merchant-only route rejected", map[string]interface{}{
				"user_id": userID,
				"path":    c.Request.URL.Path,
			})
			errors.Forbidden(c, errors.AuthzMerchantOnly, "Only merchants can perform this action")
			c.Abort()
			return
		}

		c.Set(IsMerchantKey, true)
		c.Next()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetToken returns the raw bearer token of the request
func GetToken(c *gin.Context) (string, bool) {
	token, exists := c.Get(TokenKey)
	if !exists {
		return "", false
	}
	s, ok := token.(string)
	return s, ok
}

func GetClaims(c *gin.Context) (*util.Claims, bool) {
	claims, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	cl, ok := claims.(*util.Claims)
	return cl, ok
}
