package auth

import (
	"fmt"
	"time"

	errs "github.com/Darkelvar/transaction-processor/internal/domain/error"
	coreport "github.com/Darkelvar/transaction-processor/internal/domain/port/core"
	"github.com/golang-jwt/jwt/v5"
)

// Config carries the credential pair and signing settings. All values come
// from external configuration; there are no embedded defaults.
type Config struct {
	Username  string
	Password  string
	SecretKey string
	TokenTTL  time.Duration
}

// TokenService issues and verifies HS256 bearer tokens for the single
// configured credential pair
type TokenService struct {
	config       Config
	timeProvider coreport.TimeProvider
}

// NewTokenService creates a new token service
func NewTokenService(config Config, timeProvider coreport.TimeProvider) *TokenService {
	return &TokenService{
		config:       config,
		timeProvider: timeProvider,
	}
}

// Authenticate checks the credential pair and issues a signed token
func (s *TokenService) Authenticate(username, password string) (string, error) {
	if username != s.config.Username || password != s.config.Password {
		return "", errs.ErrInvalidCredentials
	}
	return s.issueToken(username)
}

// issueToken creates an HS256 token with subject and expiry claims
func (s *TokenService) issueToken(subject string) (string, error) {
	now := s.timeProvider.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a bearer token and returns its subject
func (s *TokenService) Verify(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(s.config.SecretKey), nil
		},
		jwt.WithTimeFunc(s.timeProvider.Now),
	)
	if err != nil || !parsed.Valid {
		return "", errs.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errs.ErrInvalidToken
	}

	return claims.Subject, nil
}
