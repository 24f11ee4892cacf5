package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/config"
	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/oauth"
	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/sessions"
	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/users"
	"github.com/animeshelf/animeshelf/backend/catalog-service/pkg/logger"
	"github.com/animeshelf/animeshelf/backend/catalog-service/pkg/metrics"
	"github.com/animeshelf/animeshelf/backend/catalog-service/pkg/middleware"
)

// stateTTL bounds how long a started handshake stays valid.
const stateTTL = 10 * time.Minute

// AuthHandler holds dependencies for the identity lifecycle routes.
type AuthHandler struct {
	cfg         *config.Config
	provider    oauth.Provider
	usersSvc    *users.Service
	sessionsSvc *sessions.Service
}

func NewAuthHandler(cfg *config.Config, p oauth.Provider, u *users.Service, s *sessions.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, provider: p, usersSvc: u, sessionsSvc: s}
}

func (h *AuthHandler) Register(r *gin.Engine) {
	r.GET("/glogin", h.Login)
	r.GET("/goauth2redirect", h.Callback)
	r.GET("/logout", h.Logout)
	r.GET("/disconnect", h.Disconnect)
}

// Login is the entry point. An actor with a live session goes straight back
// to the catalog; everyone else (including sessions whose provider token has
// expired) is sent into the handshake.
func (h *AuthHandler) Login(c *gin.Context) {
	s := middleware.CurrentSession(c)
	if s == nil || (!s.TokenExpiry.IsZero() && time.Now().After(s.TokenExpiry)) {
		c.Redirect(http.StatusFound, "/goauth2redirect")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Callback drives both halves of the handshake. Without a code it redirects
// to the provider's authorization endpoint carrying a signed state token;
// with a code it verifies the state, exchanges the code for credentials,
// fetches the profile, resolves the local user and populates the session.
func (h *AuthHandler) Callback(c *gin.Context) {
	ctx := c.Request.Context()
	code := c.Query("code")
	if code == "" {
		state, err := oauth.SignState(h.cfg.Session.Secret, stateTTL)
		if err != nil {
			logger.Errorf("sign state: %v", err)
			errorPage(c, http.StatusInternalServerError)
			return
		}
		c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
		return
	}

	if err := oauth.VerifyState(h.cfg.Session.Secret, c.Query("state")); err != nil {
		logger.Warnf("oauth callback: %v", err)
		middleware.SetFlash(c, "Login failed, please try again.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	tok, err := h.provider.Exchange(ctx, code)
	if err != nil {
		logger.Errorf("auth-code token exchange error: %v", err)
		errorPage(c, http.StatusBadGateway)
		return
	}
	profile, err := h.provider.UserInfo(ctx, tok)
	if err != nil {
		logger.Errorf("userinfo error: %v", err)
		errorPage(c, http.StatusBadGateway)
		return
	}

	u, err := h.usersSvc.ResolveOrCreate(ctx, profile.Email, profile.Name, profile.Picture)
	if err != nil {
		logger.Errorf("user resolve error: %v", err)
		errorPage(c, http.StatusInternalServerError)
		return
	}

	// credentials live only in the session, never in the database
	tokJSON, err := json.Marshal(tok)
	if err != nil {
		logger.Errorf("marshal token: %v", err)
		errorPage(c, http.StatusInternalServerError)
		return
	}
	sess := &sessions.Session{
		UserID:      u.ID,
		Name:        profile.Name,
		Email:       profile.Email,
		Picture:     profile.Picture,
		OAuthToken:  string(tokJSON),
		TokenExpiry: tok.Expiry,
	}
	token, err := h.sessionsSvc.Create(ctx, sess, h.cfg.Session.TTL)
	if err != nil {
		logger.Errorf("failed to create session: %v", err)
		errorPage(c, http.StatusInternalServerError)
		return
	}
	c.SetCookie(middleware.SessionCookie, token, int(h.cfg.Session.TTL.Seconds()), "/", "", false, true)
	metrics.Logins.Inc()
	c.Redirect(http.StatusFound, "/")
}

// Logout clears the local session only; provider credentials stay valid.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(middleware.SessionCookie); err == nil && token != "" {
		if err := h.sessionsSvc.Delete(c.Request.Context(), token); err != nil {
			logger.Warnf("failed to remove session: %v", err)
		}
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// Disconnect revokes the provider token, then behaves like Logout.
func (h *AuthHandler) Disconnect(c *gin.Context) {
	if s := middleware.CurrentSession(c); s != nil && s.OAuthToken != "" {
		var tok oauth2.Token
		if err := json.Unmarshal([]byte(s.OAuthToken), &tok); err == nil {
			if err := h.provider.Revoke(c.Request.Context(), &tok); err != nil {
				logger.Warnf("token revoke failed: %v", err)
			}
		}
	}
	h.Logout(c)
}
