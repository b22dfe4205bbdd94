package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-live-inventory/internal/domain/entity"
	"github.com/oksasatya/go-live-inventory/pkg/response"
)

const CtxUserIDKey = "userID"

// SessionSource reports the resolved session, if any.
type SessionSource interface {
	Session() (entity.Session, bool)
}

// RequireSession answers 503 until the identity has been resolved and sets
// userID in the Gin context afterwards.
func RequireSession(src SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := src.Session()
		if !ok {
			c.Header("Retry-After", "1")
			response.Error[any](c, http.StatusServiceUnavailable, "session not ready", nil)
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, sess.UserID)
		c.Next()
	}
}
