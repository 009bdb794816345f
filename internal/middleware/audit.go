package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AccessLog writes an audit line for every request that touches the given
// kind of patient data. It runs after the handler so the outcome is known.
func AccessLog(entityType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		action := "read"
		switch c.Request.Method {
		case http.MethodPost:
			action = "create"
		case http.MethodPut, http.MethodPatch:
			action = "update"
		case http.MethodDelete:
			action = "delete"
		}

		event := log.Info().
			Str("audit", entityType).
			Str("action", action).
			Int64("user_id", c.GetInt64(ContextUserID)).
			Str("role", c.GetString(ContextRole)).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Str("request_id", c.GetString(ContextRequestID))
		for _, p := range c.Params {
			event.Str("param_"+p.Key, p.Value)
		}
		event.Msg("patient data access")
	}
}
