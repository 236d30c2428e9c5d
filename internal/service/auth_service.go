package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"github.com/chatfusion/chatfusion-backend/internal/repository"
	"github.com/chatfusion/chatfusion-backend/pkg/auth"
	"github.com/chatfusion/chatfusion-backend/pkg/cache"
	"github.com/chatfusion/chatfusion-backend/pkg/jwt"
	"github.com/rs/zerolog"
)

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// UpdateProfileRequest nil fields are left unchanged
type UpdateProfileRequest struct {
	StatusMessage *string `json:"status_message" validate:"omitempty,max=255"`
	Avatar        *string `json:"avatar" validate:"omitempty,max=500"`
	Phone         *string `json:"phone" validate:"omitempty,max=32"`
}

// LoginResponse login response
type LoginResponse struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// AuthService identity and session business logic
type AuthService interface {
	CreateUser(req *RegisterRequest) (*domain.User, error)
	Authenticate(username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResponse, error)
	Logout(ctx context.Context, userID string) error
	VerifySession(token string) (*jwt.Claims, bool)
	GetUser(userID string) (*domain.User, error)
	GetProfile(ctx context.Context, userID string) (*domain.PublicUser, error)
	UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*domain.User, error)
	SetOnlineStatus(ctx context.Context, userID string, status domain.OnlineStatus) error
}

type authService struct {
	users      repository.UserRepository
	hasher     *auth.Hasher
	jwtManager *jwt.Manager
	presence   PresenceService
	cache      cache.Service
	logger     zerolog.Logger
	now        Clock
}

// NewAuthService creates a new AuthService. presence and profileCache may be nil.
func NewAuthService(
	users repository.UserRepository,
	hasher *auth.Hasher,
	jwtManager *jwt.Manager,
	presence PresenceService,
	profileCache cache.Service,
	logger zerolog.Logger,
) AuthService {
	return newAuthService(users, hasher, jwtManager, presence, profileCache, logger)
}

func newAuthService(
	users repository.UserRepository,
	hasher *auth.Hasher,
	jwtManager *jwt.Manager,
	presence PresenceService,
	profileCache cache.Service,
	logger zerolog.Logger,
) *authService {
	if profileCache == nil {
		profileCache = cache.NewService(nil)
	}
	return &authService{
		users:      users,
		hasher:     hasher,
		jwtManager: jwtManager,
		presence:   presence,
		cache:      profileCache,
		logger:     logger,
		now:        systemClock,
	}
}

// CreateUser registers a new account. Username and email collisions return
// common.ErrDuplicate and never touch the existing row.
func (s *authService) CreateUser(req *RegisterRequest) (*domain.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		Username:      req.Username,
		Email:         req.Email,
		PasswordHash:  hash,
		StatusMessage: domain.DefaultStatusMessage,
		OnlineStatus:  domain.StatusOffline,
		LastSeen:      now,
		CreatedAt:     now,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies credentials and marks the user online
func (s *authService) Authenticate(username, password string) (*domain.User, error) {
	user, err := s.users.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	fields := map[string]interface{}{
		"online_status": domain.StatusOnline,
		"last_seen":     s.now(),
	}
	// 레거시 bcrypt 해시는 로그인 시 argon2id로 교체
	if s.hasher.NeedsRehash(user.PasswordHash) {
		if hash, err := s.hasher.Hash(password); err == nil {
			fields["password_hash"] = hash
			user.PasswordHash = hash
		} else {
			s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("password rehash failed")
		}
	}
	if err := s.users.UpdateFields(user.ID, fields); err != nil {
		return nil, err
	}
	user.OnlineStatus = domain.StatusOnline
	user.LastSeen = fields["last_seen"].(time.Time)
	s.invalidateProfile(context.Background(), user.ID)
	return user, nil
}

// Login authenticates and issues a session token
func (s *authService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	user, err := s.Authenticate(username, password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.jwtManager.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	if s.presence != nil {
		if err := s.presence.Touch(ctx, user.ID); err != nil {
			s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("presence touch failed on login")
		}
	}

	return &LoginResponse{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Logout marks the user offline. The token itself stays valid until it expires.
func (s *authService) Logout(ctx context.Context, userID string) error {
	err := s.users.UpdateFields(userID, map[string]interface{}{
		"online_status": domain.StatusOffline,
		"last_seen":     s.now(),
	})
	if err != nil {
		return err
	}
	s.invalidateProfile(ctx, userID)
	if s.presence != nil {
		return s.presence.Forget(ctx, userID)
	}
	return nil
}

// VerifySession any failure (expired, malformed, bad signature) reads as absent
func (s *authService) VerifySession(token string) (*jwt.Claims, bool) {
	claims, err := s.jwtManager.VerifyToken(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func (s *authService) GetUser(userID string) (*domain.User, error) {
	return s.users.FindByID(userID)
}

// GetProfile public profile, served from cache when possible
func (s *authService) GetProfile(ctx context.Context, userID string) (*domain.PublicUser, error) {
	var cached domain.PublicUser
	if err := s.cache.GetProfile(ctx, userID, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Debug().Err(err).Msg("profile cache read failed")
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	profile := user.Public()
	if err := s.cache.SetProfile(ctx, userID, profile); err != nil {
		s.logger.Debug().Err(err).Msg("profile cache write failed")
	}
	return &profile, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*domain.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	fields := make(map[string]interface{})
	if req.StatusMessage != nil {
		fields["status_message"] = *req.StatusMessage
	}
	if req.Avatar != nil {
		fields["avatar"] = *req.Avatar
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}

	if _, err := s.users.FindByID(userID); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := s.users.UpdateFields(userID, fields); err != nil {
			return nil, err
		}
		s.invalidateProfile(ctx, userID)
	}
	return s.users.FindByID(userID)
}

func (s *authService) SetOnlineStatus(ctx context.Context, userID string, status domain.OnlineStatus) error {
	if !status.Valid() {
		return common.Invalid("unknown online status")
	}
	if _, err := s.users.FindByID(userID); err != nil {
		return err
	}
	err := s.users.UpdateFields(userID, map[string]interface{}{
		"online_status": status,
		"last_seen":     s.now(),
	})
	if err != nil {
		return err
	}
	s.invalidateProfile(ctx, userID)
	if s.presence != nil {
		return s.presence.SetStatus(ctx, userID, status)
	}
	return nil
}

func (s *authService) invalidateProfile(ctx context.Context, userID string) {
	if err := s.cache.InvalidateProfile(ctx, userID); err != nil {
		s.logger.Debug().Err(err).Str("user_id", userID).Msg("profile cache invalidate failed")
	}
}
