package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/askhat-b/partforge/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials rejects logins with a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotConfigured signals that no admin credential is set.
	ErrNotConfigured = errors.New("admin access not configured")
	// ErrInvalidToken rejects expired or malformed bearer tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

const maxPasswordLength = 72 // bcrypt limit

// Service issues and validates admin bearer tokens. There is no user store:
// the single admin credential is a bcrypt hash from the environment.
type Service struct {
	cfg     config.AuthConfig
	nowFunc func() time.Time
}

// NewService creates a Service with dependencies.
func NewService(cfg config.AuthConfig) *Service {
	return &Service{
		cfg:     cfg,
		nowFunc: time.Now,
	}
}

// Token is an issued admin session token.
type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Login verifies the admin password and issues a signed token.
func (s *Service) Login(password string) (Token, error) {
	if s.cfg.AdminPasswordHash == "" {
		return Token{}, ErrNotConfigured
	}
	if len(password) == 0 || len(password) > maxPasswordLength {
		return Token{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)); err != nil {
		return Token{}, ErrInvalidCredentials
	}

	now := s.nowFunc()
	expiresAt := now.Add(s.cfg.TokenTTL)

	claims := jwt.RegisteredClaims{
		Issuer:    "partforge",
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.TokenSecret))
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}

	return Token{AccessToken: signed, ExpiresAt: expiresAt}, nil
}

// ValidateToken checks a bearer token and returns its claims.
func (s *Service) ValidateToken(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.TokenSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(s.nowFunc),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject != "admin" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
