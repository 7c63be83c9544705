package controller

import (
	"net/http"

	"github.com/ecofoods/ecofoods-backend/internal/app/service"
	apperrors "github.com/ecofoods/ecofoods-backend/internal/errors"
	"github.com/ecofoods/ecofoods-backend/internal/middleware"
	"github.com/ecofoods/ecofoods-backend/pkg/patch"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// UpdateUserInfoRequest: absent members stay unchanged, null clears them
type UpdateUserInfoRequest struct {
	IsMerchant  patch.Field[bool]   `json:"is_merchant"`
	FirstName   patch.Field[string] `json:"first_name"`
	LastName    patch.Field[string] `json:"last_name"`
	Address     patch.Field[string] `json:"address"`
	PhoneNumber patch.Field[string] `json:"phone_number"`
	AvatarURL   patch.Field[string] `json:"avatar_url"`
}

// Register creates an account and returns its token
// POST /api/registration
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithBindingError(c, err)
		return
	}

	user, token, err := ctrl.authService.Register(req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, "register user")
		return
	}

	log.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
	})
	c.JSON(http.StatusCreated, TokenResponse{Token: token})
}

// Login exchanges credentials for a token
// POST /api/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithBindingError(c, err)
		return
	}

	_, token, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, "login")
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// Logout revokes the presented token
// POST /api/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	token, _ := middleware.GetToken(c)
	claims, _ := middleware.GetClaims(c)

	if err := ctrl.authService.Logout(c.Request.Context(), token, claims); err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to revoke token", err)
		apperrors.InternalError(c, "Failed to log out")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetUserInfo returns the caller's profile
// GET /api/get_user_info
func (ctrl *AuthController) GetUserInfo(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		respondServiceError(c, err, "get user")
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateUserInfo partially updates the caller's profile
// PATCH /api/update_user_info
func (ctrl *AuthController) UpdateUserInfo(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateUserInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid profile update request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.RespondWithBindingError(c, err)
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, service.UpdateProfileInput{
		IsMerchant:  req.IsMerchant,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		respondServiceError(c, err, "update user")
		return
	}

	log.Info("User profile updated", map[string]interface{}{
		"user_id": userID,
	})
	c.JSON(http.StatusOK, toUserResponse(user))
}
