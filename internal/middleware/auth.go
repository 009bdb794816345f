package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medtrack-api/pkg/auth"
	apperrors "github.com/jwalitptl/medtrack-api/pkg/errors"
	"github.com/jwalitptl/medtrack-api/pkg/httputil"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"
	ContextClaims   = "claims"
)

// TokenValidator resolves a bearer token into its claims.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	tokens TokenValidator
}

func NewAuthMiddleware(tokens TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate verifies the bearer token and stores the caller in the context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httputil.RespondWithError(c, apperrors.UnauthorizedMsg("missing authorization header", nil))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			httputil.RespondWithError(c, apperrors.UnauthorizedMsg("invalid authorization format", nil))
			return
		}

		claims, err := m.tokens.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		httputil.RespondWithError(c, apperrors.Forbidden("permission denied"))
	}
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

func UserIDFromContext(c *gin.Context) int64 {
	return c.GetInt64(ContextUserID)
}
