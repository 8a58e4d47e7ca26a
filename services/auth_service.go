package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hotel-booking/apperrors"
	"hotel-booking/logger"
	"hotel-booking/models"
	"hotel-booking/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Invalid username or password"

type AuthConfig struct {
	Secret           []byte
	TokenTTL         time.Duration
	BcryptCost       int
	AllowAdminSignup bool
}

// Claims is the JWT payload issued on login.
type Claims struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users repository.UserRepository
	cfg   AuthConfig
	log   *logger.Logger
	now   func() time.Time
}

func NewAuthService(users repository.UserRepository, cfg AuthConfig, log *logger.Logger) *AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = time.Hour
	}
	return &AuthService{users: users, cfg: cfg, log: log, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, username, password, role string) (*models.User, error) {
	username = strings.TrimSpace(username)
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		role = models.RoleUser
	}

	if username == "" || password == "" {
		return nil, apperrors.InvalidInput("Username and password are required")
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, apperrors.Validation("Invalid role", map[string]any{"role": role})
	}
	if role == models.RoleAdmin && !s.cfg.AllowAdminSignup {
		return nil, apperrors.Forbidden("Admin accounts cannot be self-registered")
	}

	user, err := s.createUser(ctx, username, password, role)
	if err != nil {
		return nil, err
	}

	s.log.Info("User registered", "id", user.ID, "username", user.Username, "role", user.Role)
	return user, nil
}

func (s *AuthService) createUser(ctx context.Context, username, password, role string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperrors.InvalidInput("Password must be at most 72 bytes")
		}
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &models.User{Username: username, Password: string(hash), Role: role}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.New(apperrors.CodeConflict, "User already exists", http.StatusBadRequest)
		}
		return nil, storageFailure("Failed to register user", err)
	}
	return user, nil
}

// Login verifies the credentials and issues a signed token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, apperrors.Unauthorized(invalidCredentials)
		}
		return "", nil, storageFailure("Failed to log in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.Info("Login rejected", "username", user.Username)
		return "", nil, apperrors.Unauthorized(invalidCredentials)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", apperrors.Internal("Failed to sign token", err)
	}
	return signed, nil
}

// ParseToken verifies an HS256 token and returns its principal.
func (s *AuthService) ParseToken(token string) (*models.Principal, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.cfg.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, apperrors.Forbidden("Invalid token").WithDetails(map[string]any{"reason": err.Error()})
	}
	if claims.UserID == 0 || (claims.Role != models.RoleUser && claims.Role != models.RoleAdmin) {
		return nil, apperrors.Forbidden("Invalid token")
	}

	return &models.Principal{ID: claims.UserID, Username: claims.Username, Role: claims.Role}, nil
}

// EnsureAdmin creates the bootstrap admin account unless the username is taken.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil
	}

	existing, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.Role != models.RoleAdmin {
			s.log.Warn("Bootstrap admin username belongs to a non-admin user", "username", username)
		}
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("look up admin %q: %w", username, err)
	}

	user, err := s.createUser(ctx, username, password, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("seed admin %q: %w", username, err)
	}

	s.log.Info("Admin account seeded", "id", user.ID, "username", user.Username)
	return nil
}
