package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/learnsphere/internal/app/models"
	"github.com/yigit/learnsphere/internal/app/models/dto"
	"github.com/yigit/learnsphere/internal/pkg/apperrors"
	"github.com/yigit/learnsphere/internal/pkg/auth"
	"github.com/yigit/learnsphere/internal/pkg/validation"
)

// AuthService handles registration, login and session inspection
type AuthService struct {
	userRepo   UserStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo UserStore, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// validateCredentials checks the email format and password length
func (s *AuthService) validateCredentials(email, password string) error {
	if !validation.IsValidEmail(email) {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, "invalid email format")
	}
	if !validation.IsValidPassword(password) {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed,
			fmt.Sprintf("password must be at least %d characters long", validation.PasswordMinLength))
	}
	return nil
}

// Signup registers a user. Unknown or missing user types become students; admins are only seeded.
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validateCredentials(email, req.Password); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if !validation.IsValidName(name) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("name must be between %d and %d characters long",
			validation.NameMinLength, validation.NameMaxLength))
	}
	role := models.ParseRole(req.UserType)
	if role == models.RoleAdmin {
		return nil, apperrors.NewForbiddenError("admin accounts cannot be self-registered")
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hashed,
		Name:         name,
		Role:         role,
		Interests:    req.Interests,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return &dto.SignupResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.NewUserResponse(user),
	}, nil
}

// Login authenticates a user. Unknown email and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn().Str("email", email).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     token,
		Role:      user.Role,
		ExpiresAt: expiresAt,
	}, nil
}

// Session describes the session carried by already-validated claims
func (s *AuthService) Session(claims *auth.Claims) *dto.SessionResponse {
	return &dto.SessionResponse{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      models.ParseRole(claims.Role),
		ExpiresAt: claims.ExpiresAtTime(),
	}
}
