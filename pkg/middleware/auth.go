package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/sessions"
)

// SessionCookie is the browser cookie holding the opaque session token.
const SessionCookie = "catalog_session"

const sessionKey = "session"

// SessionStore is the minimal interface the middleware depends on
type SessionStore interface {
	Get(ctx context.Context, token string) (*sessions.Session, error)
}

// LoadSession resolves the session cookie and attaches the session to the
// request context. Requests without a valid session pass through anonymous.
func LoadSession(store SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err == nil && token != "" {
			if s, err := store.Get(c.Request.Context(), token); err == nil && s != nil {
				c.Set(sessionKey, s)
			}
		}
		c.Next()
	}
}

// CurrentSession returns the session attached by LoadSession, or nil.
func CurrentSession(c *gin.Context) *sessions.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok2 := v.(*sessions.Session); ok2 {
			return s
		}
	}
	return nil
}

// RequireLogin guards write routes. Anonymous actors are sent back to the
// landing page with a notice; a session whose provider token has expired is
// sent back through the OAuth handshake. The expiry check runs on every
// gated action, not only at login.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := CurrentSession(c)
		if s == nil {
			SetFlash(c, "Please log in to manage items.")
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		if !s.TokenExpiry.IsZero() && time.Now().After(s.TokenExpiry) {
			c.Redirect(http.StatusFound, "/goauth2redirect")
			c.Abort()
			return
		}
		c.Next()
	}
}
