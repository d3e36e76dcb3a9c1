// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sitewise/siteqa-backend/internal/apperr"
	"github.com/sitewise/siteqa-backend/internal/config"
	"github.com/sitewise/siteqa-backend/internal/models"
	"github.com/sitewise/siteqa-backend/internal/store"
	"github.com/sitewise/siteqa-backend/internal/utils"
)

type AuthService struct {
	store store.Store
	jwt   config.JWTConfig
}

func NewAuthService(store store.Store, jwt config.JWTConfig) *AuthService {
	return &AuthService{store: store, jwt: jwt}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strong_password"`
	Role     string `json:"role" validate:"omitempty,oneof=admin supervisor inspector viewer"`
	Company  string `json:"company" validate:"omitempty,max=100"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,strong_password"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := validateReq(req); err != nil {
		return nil, err
	}

	role := models.UserRole(req.Role)
	if req.Role == "" {
		role = models.UserRoleInspector
	}
	if !role.Valid() {
		return nil, apperr.Validation("invalid role", nil)
	}

	user := &models.User{
		Name:    req.Name,
		Email:   req.Email,
		Role:    role,
		Status:  models.UserStatusActive,
		Company: req.Company,
		Phone:   req.Phone,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperr.Persistence(err)
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Integrity("a user with this email already exists")
		}
		return nil, storeErr(err, "user")
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("User registered")

	return s.issueTokens(user)
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := validateReq(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Unauthorized("invalid email or password")
		}
		return nil, storeErr(err, "user")
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, apperr.Unauthorized("invalid email or password")
	}
	if user.Status != models.UserStatusActive {
		return nil, apperr.Forbidden("account is suspended")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.store.UpdateUser(ctx, user); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Failed to record last login")
	}

	return s.issueTokens(user)
}

// RefreshToken exchanges a valid refresh token for a new token pair.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	subject, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("invalid refresh token")
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, apperr.Unauthorized("invalid refresh token")
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Unauthorized("invalid refresh token")
		}
		return nil, storeErr(err, "user")
	}
	if user.Status != models.UserStatusActive {
		return nil, apperr.Forbidden("account is suspended")
	}

	return s.issueTokens(user)
}

func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	return user, nil
}

// ForgotPassword issues a reset token for the account. The token is stored
// hashed; the plain token is returned for delivery to the user. A missing
// account is not an error, to avoid leaking which emails exist.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil
		}
		return "", storeErr(err, "user")
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		return "", apperr.Persistence(err)
	}

	hashed := utils.HashString(token)
	expires := time.Now().Add(1 * time.Hour)
	user.ResetToken = &hashed
	user.ResetTokenExpires = &expires

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return "", storeErr(err, "user")
	}

	return token, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	if err := validateReq(req); err != nil {
		return err
	}

	user, err := s.store.GetUserByResetToken(ctx, utils.HashString(req.Token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.Validation("invalid or expired reset token", nil)
		}
		return storeErr(err, "user")
	}
	if user.ResetTokenExpires == nil || user.ResetTokenExpires.Before(time.Now()) {
		return apperr.Validation("invalid or expired reset token", nil)
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return apperr.Persistence(err)
	}
	user.ResetToken = nil
	user.ResetTokenExpires = nil

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return storeErr(err, "user")
	}

	logrus.WithField("user_id", user.ID).Info("Password reset completed")
	return nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(user.ID, user.Name, string(user.Role), s.jwt.AccessTokenTTL)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.jwt.RefreshTokenTTL)
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	return &AuthResponse{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
