package usecase

import (
	"context"
	"errors"
	"time"

	"ehousing-booking/internal/data/entity"
	"ehousing-booking/internal/data/repository"
	"ehousing-booking/internal/dto/request"
	"ehousing-booking/internal/dto/response"
	"ehousing-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	repo   *repository.Repository // userRepo & sessionRepo
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(repo *repository.Repository, config *utils.Config, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	// 1. Validasi input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.NewValidationError("Validation failed", errs)
	}

	// 2. Cek email sudah terdaftar
	existingUser, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, utils.NewInternalError("Failed to check email", err)
	}
	if existingUser != nil {
		return nil, utils.NewConflictError("Email already registered")
	}

	// 3. Cek username sudah dipakai
	existingUser, err = s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, utils.NewInternalError("Failed to check username", err)
	}
	if existingUser != nil {
		return nil, utils.NewConflictError("Username already taken")
	}

	// 4. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, utils.NewInternalError("Failed to process password", err)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Phone:        req.Phone,
		IsActive:     true,
	}

	// 5. Save user, race antara dua register ditangkap unique index
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, utils.NewConflictError("Email or username already registered")
		}
		return nil, utils.NewInternalError("Failed to create account", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	resp := response.AuthToResponse(user, nil)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.NewValidationError("Validation failed", errs)
	}

	// Coba cari by email, lalu by username
	user, err := s.repo.User.FindByEmail(ctx, req.Username)
	if err != nil {
		return nil, utils.NewInternalError("Failed to find user", err)
	}
	if user == nil {
		user, err = s.repo.User.FindByUsername(ctx, req.Username)
		if err != nil {
			return nil, utils.NewInternalError("Failed to find user", err)
		}
	}

	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid login attempt", zap.String("identifier", req.Username))
		return nil, utils.NewUnauthorizedError("Invalid credentials")
	}

	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, utils.NewUnauthorizedError("Account is deactivated")
	}

	session, err := s.createSession(ctx, user.ID, req.UserAgent, req.IPAddress)
	if err != nil {
		return nil, utils.NewInternalError("Failed to create session", err)
	}

	device := utils.ParseDevice(req.UserAgent)
	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("browser", device.Browser),
		zap.String("os", device.OS),
		zap.Bool("mobile", device.Mobile))

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		return utils.NewValidationError("Invalid token format", nil)
	}

	if err := s.repo.Session.Revoke(ctx, tokenUUID.String()); err != nil {
		return utils.NewInternalError("Failed to logout", err)
	}

	return nil
}

// ==================== HELPER METHODS ====================

func (s *authService) createSession(ctx context.Context, userID uuid.UUID, userAgent, ip string) (*entity.Session, error) {
	expiry := 24 * time.Hour
	if s.config != nil && s.config.Session.ExpiryHours > 0 {
		expiry = time.Duration(s.config.Session.ExpiryHours) * time.Hour
	}

	now := time.Now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Token:     uuid.New(),
		UserAgent: optional(userAgent),
		IPAddress: optional(ip),
		ExpiresAt: now.Add(expiry),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
