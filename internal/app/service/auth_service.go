package service

import (
	"context"
	"errors"
	"time"

	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/internal/app/repository"
	"github.com/ecofoods/ecofoods-backend/pkg/logger"
	"github.com/ecofoods/ecofoods-backend/pkg/patch"
	"github.com/ecofoods/ecofoods-backend/pkg/redis"
	"github.com/ecofoods/ecofoods-backend/pkg/util"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("user account is disabled")
	ErrUserNotFound       = errors.New("user not found")
	ErrFieldNotNullable   = errors.New("field cannot be null")
	ErrPasswordTooLong    = errors.New("password must not exceed 72 bytes")
)

// UpdateProfileInput is a partial update of the caller's profile
type UpdateProfileInput struct {
	IsMerchant  patch.Field[bool]
	FirstName   patch.Field[string]
	LastName    patch.Field[string]
	Address     patch.Field[string]
	PhoneNumber patch.Field[string]
	AvatarURL   patch.Field[string]
}

type AuthService interface {
	Register(email, password string) (*model.User, string, error)
	Login(email, password string) (*model.User, string, error)
	Logout(ctx context.Context, token string, claims *util.Claims) error
	GetUserByID(id uuid.UUID) (*model.User, error)
	UpdateProfile(userID uuid.UUID, input UpdateProfileInput) (*model.User, error)
}

type authService struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	imageRepo   repository.ImageRepository
	jwtSecret   string
	tokenExpiry time.Duration
}

func NewAuthService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	imageRepo repository.ImageRepository,
	jwtSecret string,
	tokenExpiry time.Duration,
) AuthService {
	return &authService{
		db:          db,
		userRepo:    userRepo,
		imageRepo:   imageRepo,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
	}
}

func (s *authService) Register(email, password string) (*model.User, string, error) {
	email = model.NormalizeEmail(email)
	logger.Info("Attempting user registration", map[string]interface{}{
		"email": email,
	})

	existingUser, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, "", err
	}
	if existingUser != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, "", ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(password)
	if errors.Is(err, util.ErrPasswordTooLong) {
		return nil, "", ErrPasswordTooLong
	}
	if err != nil {
		logger.Error("Failed to hash password", err)
		return nil, "", err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrEmailAlreadyExists
		}
		return nil, "", err
	}

	token, err := util.GenerateToken(user.ID, s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, token, nil
}

func (s *authService) Login(email, password string) (*model.User, string, error) {
	email = model.NormalizeEmail(email)
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", ErrInvalidCredentials
	}

	if !user.IsActive {
		logger.Warn("Login failed: account disabled", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", ErrAccountDisabled
	}

	token, err := util.GenerateToken(user.ID, s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, token, nil
}

// Logout revokes token for the rest of its lifetime
func (s *authService) Logout(ctx context.Context, token string, claims *util.Claims) error {
	var ttl time.Duration
	if claims != nil {
		ttl = claims.RemainingValidity()
	}
	if err := redis.RevokeToken(ctx, token, ttl); err != nil {
		return err
	}

	if claims != nil {
		logger.Info("User logged out", map[string]interface{}{
			"user_id": claims.UserID,
		})
	}
	return nil
}

func (s *authService) GetUserByID(id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uuid.UUID, input UpdateProfileInput) (*model.User, error) {
	logger.Info("Updating user profile", map[string]interface{}{
		"user_id": userID,
	})

	if input.IsMerchant.Set && input.IsMerchant.Null {
		return nil, ErrFieldNotNullable
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		user, err := users.FindByID(userID)
		if err != nil {
			return err
		}

		input.IsMerchant.Apply(&user.IsMerchant)
		applyString(input.FirstName, &user.FirstName)
		applyString(input.LastName, &user.LastName)
		applyString(input.Address, &user.Address)
		applyString(input.PhoneNumber, &user.PhoneNumber)

		if input.AvatarURL.Set {
			if input.AvatarURL.Null || input.AvatarURL.Value == "" {
				user.AvatarID = nil
			} else {
				image := &model.Image{URL: input.AvatarURL.Value}
				if err := s.imageRepo.WithTx(tx).Create(image); err != nil {
					return err
				}
				user.AvatarID = &image.ID
			}
		}

		return users.Update(user)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to update user profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return s.GetUserByID(userID)
}

// applyString treats null as the empty string
func applyString(f patch.Field[string], dst *string) {
	if !f.Set {
		return
	}
	if f.Null {
		*dst = ""
		return
	}
	*dst = f.Value
}
