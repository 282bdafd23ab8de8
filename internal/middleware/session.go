package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"supply_chain/internal/auth"
)

// RequireRole ensures the request carries a valid session holding at least
// one of roles. The session is put on the request context.
func RequireRole(sessions *auth.SessionManager, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := authenticate(c, sessions)
		if s == nil {
			return
		}
		if !s.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}

// authenticate aborts with 401 and returns nil when the request has no valid session.
func authenticate(c *gin.Context, sessions *auth.SessionManager) *auth.Session {
	s, err := sessions.FromRequest(c.Request)
	if err != nil {
		if !errors.Is(err, auth.ErrNoSession) {
			logrus.WithError(err).Debug("rejected session")
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return nil
	}
	c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), s))
	return s
}

// InterceptLogout handles the logout paths before any route handler runs:
// the session is revoked, the cookie cleared and the client redirected to
// the path's target.
func InterceptLogout(sessions *auth.SessionManager, targets map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		target, ok := targets[c.Request.URL.Path]
		if !ok {
			c.Next()
			return
		}
		s, _ := sessions.FromRequest(c.Request)
		if err := sessions.Destroy(c.Request.Context(), c.Writer, s); err != nil {
			logrus.WithError(err).Error("logout: could not revoke session")
		}
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}
