package middleware

import (
	"net/http"

	"penpost/backend/internal/session"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthRequired.
const (
	CtxPrincipal = "principal"
	CtxToken     = "session_token"
)

// AuthRequired resolves the bearer token through the session store and
// injects the principal into the request context. Requests without a live
// session are rejected with 401.
func AuthRequired(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := session.ExtractBearer(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"code": "NOT_AUTHENTICATED", "message": "Authorization token missing."})
			return
		}
		principal, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				gin.H{"code": "SERVICE_ERROR", "message": "Session lookup failed."})
			return
		}
		if principal == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"code": "SESSION_EXPIRED", "message": "Session expired or revoked."})
			return
		}
		c.Set(CtxPrincipal, *principal)
		c.Set(CtxToken, token)
		c.Next()
	}
}

// Principal returns the principal stored by AuthRequired.
func Principal(c *gin.Context) session.Principal {
	return c.MustGet(CtxPrincipal).(session.Principal)
}

// Token returns the raw session token stored by AuthRequired.
func Token(c *gin.Context) string {
	return c.MustGet(CtxToken).(string)
}
