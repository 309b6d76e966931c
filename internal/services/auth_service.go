package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pharmpal/internal/common"
	"pharmpal/internal/models"
	"pharmpal/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultTokenTTL = 60 * time.Minute
	tokenIssuer     = "pharmpal-auth"

	minPasswordLength = 8
	minUsernameLength = 3
	maxUsernameLength = 50
)

// AuthService registers users and issues access tokens.
type AuthService interface {
	Signup(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.TokenResponse, error)
	GenerateToken(user *models.User) (*models.TokenResponse, error)
}

// TokenClaims are the claims carried by an access token. Subject is the user id.
type TokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type authService struct {
	users     repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(users repositories.UserRepository, jwtSecret string, tokenTTL time.Duration) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &authService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return nil, common.Validationf("username must be between %d and %d characters", minUsernameLength, maxUsernameLength)
	}
	if len(password) < minPasswordLength {
		return nil, common.Validationf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, common.Validation("password is too long")
		}
		return nil, common.Internal("Failed to hash password", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateUsername) {
			return nil, common.Conflict("Username already registered", err)
		}
		log.Errorf("failed to create user: %v", err)
		return nil, common.Internal("Failed to create user", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.TokenResponse, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.Unauthorized("Incorrect username or password")
		}
		return nil, common.Internal("Failed to load user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.Unauthorized("Incorrect username or password")
	}
	if !user.IsActive {
		return nil, common.Validation("Inactive user")
	}
	return s.GenerateToken(user)
}

func (s *authService) GenerateToken(user *models.User) (*models.TokenResponse, error) {
	now := s.now()
	claims := TokenClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, common.Internal("Failed to sign token", fmt.Errorf("sign jwt: %w", err))
	}

	return &models.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokenTTL.Seconds()),
		UserID:      user.ID.String(),
		IssuedAt:    now,
	}, nil
}
