package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevokedToken = errors.New("token has been revoked")
)

// Claims carried by every access token.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type Config struct {
	Secret   string
	Issuer   string
	Audience string
	Expiry   time.Duration
}

// TokenService issues and validates HS256 access tokens.
type TokenService struct {
	cfg     Config
	clock   clock.Clock
	revoked RevocationStore
}

func NewTokenService(cfg Config, clk clock.Clock, revoked RevocationStore) *TokenService {
	if clk == nil {
		clk = clock.New()
	}
	return &TokenService{cfg: cfg, clock: clk, revoked: revoked}
}

// Issue signs a token for the given user and returns it with its expiry.
func (s *TokenService) Issue(userID int64, username, role string) (string, time.Time, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.cfg.Expiry)

	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprintf("%d", userID),
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate parses the token, checks signature, expiry, issuer and audience,
// and rejects revoked token ids.
func (s *TokenService) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if s.revoked != nil && claims.ID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if revoked {
			return nil, ErrRevokedToken
		}
	}

	return claims, nil
}

// Revoke blocks the token id until the token would have expired anyway.
func (s *TokenService) Revoke(ctx context.Context, claims *Claims) error {
	if s.revoked == nil {
		return errors.New("token revocation is not configured")
	}
	if claims == nil || claims.ID == "" {
		return ErrInvalidToken
	}
	var until time.Time
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	ttl := until.Sub(s.clock.Now())
	if ttl <= 0 {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, ttl)
}
