package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/jwalitptl/medtrack-api/pkg/errors"
	"github.com/jwalitptl/medtrack-api/pkg/httputil"
)

// Recovery turns a panic into a 500 envelope and logs the stack
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("panic", r).
					Str("stack", string(debug.Stack())).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("request_id", c.GetString(ContextRequestID)).
					Msg("request panic recovered")

				httputil.RespondWithError(c, apperrors.Internal(fmt.Errorf("panic: %v", r)))
			}
		}()
		c.Next()
	}
}
