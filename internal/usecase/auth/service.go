package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nettrack/nettrack-backend/internal/domain"
)

var (
	// ErrInvalidCredentials is returned when login email/password do not match
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering with an email already in use
	ErrEmailTaken = errors.New("email already registered")

	// ErrUsernameTaken is returned when registering with a username already in use
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidToken is returned for malformed, expired or revoked tokens
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrUserInactive is returned when the authenticated user is disabled
	ErrUserInactive = errors.New("user account is disabled")
)

// Config holds token signing settings for the auth service
type Config struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// Service handles registration, login and token lifecycle operations
type Service struct {
	UserRepo  domain.UserRepository
	TokenRepo domain.RefreshTokenRepository

	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new auth Service instance
func NewService(userRepo domain.UserRepository, tokenRepo domain.RefreshTokenRepository, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.AccessTokenTTL == 0 {
		cfg.AccessTokenTTL = 30 * time.Minute
	}
	if cfg.RefreshTokenTTL == 0 {
		cfg.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	return &Service{
		UserRepo:  userRepo,
		TokenRepo: tokenRepo,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Register creates a new active user with a bcrypt password hash
func (s *Service) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if password == "" {
		return nil, errors.New("password cannot be empty")
	}

	if existing, err := s.UserRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if existing, err := s.UserRepo.GetByUsername(ctx, username); err == nil && existing != nil {
		return nil, ErrUsernameTaken
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("registered user", zap.String("username", username))
	return user, nil
}

// Login verifies credentials and issues an access JWT plus a persisted
// opaque refresh token. Updates the user's last login time.
func (s *Service) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error) {
	user, err := s.UserRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", "", ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", "", ErrUserInactive
	}

	accessToken, err = s.signAccessToken(user.ID)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = randomToken()
	if err != nil {
		return "", "", err
	}

	record := &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: s.now().Add(s.cfg.RefreshTokenTTL),
	}
	if err := s.TokenRepo.Create(ctx, record); err != nil {
		return "", "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	login := s.now()
	user.LastLogin = &login
	if err := s.UserRepo.Update(ctx, user); err != nil {
		// last-login bookkeeping must not fail the login
		s.logger.Warn("failed to update last login", zap.Error(err))
	}

	return accessToken, refreshToken, nil
}

// Refresh exchanges a valid refresh token for a new access JWT
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	record, err := s.TokenRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if record.Expired(s.now()) {
		return "", ErrInvalidToken
	}

	return s.signAccessToken(record.UserID)
}

// Logout revokes a refresh token. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if err := s.TokenRepo.Delete(ctx, refreshToken); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// UserFromToken validates an access JWT and loads the active user it names
func (s *Service) UserFromToken(ctx context.Context, tokenString string) (*domain.User, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.UserRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return user, nil
}

// signAccessToken issues an HS256 JWT with the user ID as subject
func (s *Service) signAccessToken(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// randomToken generates an opaque 256-bit refresh token
func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
