package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/repository"
	"github.com/jwalitptl/medtrack-api/pkg/auth"
	apperrors "github.com/jwalitptl/medtrack-api/pkg/errors"
	"github.com/jwalitptl/medtrack-api/pkg/metrics"
	"github.com/jwalitptl/medtrack-api/pkg/security"
)

const (
	invalidCredentials = "invalid username or password"
	usernameTaken      = "username taken"

	// compared against for unknown usernames so both failure paths pay
	// for one bcrypt comparison
	dummyPassword = "medtrack-dummy-password"
)

type Service struct {
	users     repository.UserRepository
	hasher    security.PasswordHasher
	tokens    *auth.TokenService
	clock     clock.Clock
	metrics   *metrics.Metrics
	dummyHash string
}

func NewService(
	users repository.UserRepository,
	hasher security.PasswordHasher,
	tokens *auth.TokenService,
	clk clock.Clock,
	m *metrics.Metrics,
) (*Service, error) {
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	return &Service{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		clock:     clk,
		metrics:   m,
		dummyHash: dummyHash,
	}, nil
}

// Register creates the user and its role row together.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.RegisterResponse, error) {
	profile, err := req.Profile()
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), nil)
	}

	if existing, err := s.users.GetByUsername(ctx, req.Username); err == nil && existing != nil {
		return nil, apperrors.Conflict(usernameTaken, nil)
	} else if err != nil && !apperrors.Is(err, apperrors.KindNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		switch {
		case errors.Is(err, security.ErrPasswordTooShort):
			return nil, apperrors.BadRequest(fmt.Sprintf("password must be at least %d characters", security.MinPasswordLen), err)
		case errors.Is(err, security.ErrPasswordTooLong):
			return nil, apperrors.BadRequest(fmt.Sprintf("password must be at most %d characters", security.MaxPasswordLen), err)
		}
		return nil, apperrors.Internal(err)
	}

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		fullName = req.Username
	}

	user := &model.User{
		FullName:     fullName,
		Username:     req.Username,
		PasswordHash: hash,
		Role:         profile.Role(),
	}
	user.CreatedAt = s.clock.Now()

	if err := s.users.Create(ctx, user, profile); err != nil {
		// lost a race with a concurrent registration
		if apperrors.Is(err, apperrors.KindConflict) {
			return nil, apperrors.Conflict(usernameTaken, err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Int64("user_id", user.ID).Str("role", user.Role.String()).Msg("user registered")
	return &model.RegisterResponse{ID: user.ID, Role: user.Role}, nil
}

// Login checks the credentials and issues an access token. Unknown users
// and wrong passwords fail with the same error.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if !apperrors.Is(err, apperrors.KindNotFound) {
			return nil, err
		}
		_ = s.hasher.Compare(s.dummyHash, req.Password)
		s.metrics.Login("failure")
		return nil, apperrors.UnauthorizedMsg(invalidCredentials, nil)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.metrics.Login("failure")
		return nil, apperrors.UnauthorizedMsg(invalidCredentials, nil)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username, user.Role.String())
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	s.metrics.Login("success")

	return &model.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		ID:        user.ID,
		FullName:  user.FullName,
		Role:      user.Role,
	}, nil
}

func (s *Service) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrRevokedToken) {
			return nil, apperrors.Unauthorized(err)
		}
		return nil, apperrors.Internal(err)
	}
	return claims, nil
}

// Logout revokes the token until it expires.
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return apperrors.Unauthorized(err)
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}
