package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/resumify/backend/cache"
	"github.com/resumify/backend/config"
	"github.com/resumify/backend/models"
)

// ErrRevoked is returned for tokens that were signed out
var ErrRevoked = errors.New("token has been revoked")

const revokedPrefix = "revoked:"

// JWTService handles JWT token operations
type JWTService struct {
	secretKey      []byte
	expiry         time.Duration
	rememberExpiry time.Duration
	revoked        cache.Cache
	now            func() time.Time
}

// Claims represents JWT claims
type Claims struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Remember    bool   `json:"remember"`
	jwt.RegisteredClaims
}

// NewJWTService creates a new JWT service; revoked holds signed-out token ids
func NewJWTService(cfg *config.Config, revoked cache.Cache) *JWTService {
	return &JWTService{
		secretKey:      []byte(cfg.JWTSecret),
		expiry:         time.Duration(cfg.JWTExpiryHours) * time.Hour,
		rememberExpiry: time.Duration(cfg.JWTRememberHours) * time.Hour,
		revoked:        revoked,
		now:            time.Now,
	}
}

// GenerateToken generates a JWT token for a user. remember selects the
// durable lifetime instead of the session one.
func (s *JWTService) GenerateToken(user *models.User, remember bool) (string, time.Time, error) {
	token, claims, err := s.issue(user, remember)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, claims.ExpiresAt.Time, nil
}

func (s *JWTService) issue(user *models.User, remember bool) (string, *Claims, error) {
	now := s.now()
	lifetime := s.expiry
	if remember {
		lifetime = s.rememberExpiry
	}

	claims := &Claims{
		UID:         user.UID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Remember:    remember,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.UID,
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "resumify",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", nil, err
	}

	return tokenString, claims, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *JWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if s.revoked != nil && claims.ID != "" {
		_, err := s.revoked.Get(ctx, revokedPrefix+claims.ID)
		if err == nil {
			return nil, ErrRevoked
		}
		if !errors.Is(err, cache.ErrMiss) {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
	}

	return claims, nil
}

// Revoke marks a token as signed out until it would have expired anyway
func (s *JWTService) Revoke(ctx context.Context, claims *Claims) error {
	if s.revoked == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if remaining := claims.ExpiresAt.Time.Sub(s.now()); remaining > 0 {
			ttl = remaining
		}
	}
	return s.revoked.Set(ctx, revokedPrefix+claims.ID, claims.UID, ttl)
}
