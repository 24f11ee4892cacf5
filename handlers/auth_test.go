package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/oauth"
	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/sessions"
	"github.com/animeshelf/animeshelf/backend/catalog-service/pkg/middleware"
)

func TestLoginRedirectsAnonymousToHandshake(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/glogin", "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/goauth2redirect", w.Header().Get("Location"))
}

func TestLoginRedirectsAuthenticatedHome(t *testing.T) {
	env := newTestEnv(t)
	token := env.loginAs(t, 1)

	w := env.get("/glogin", token)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestCallbackStartsHandshakeWithSignedState(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/goauth2redirect", "")

	require.Equal(t, http.StatusFound, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.example.com", loc.Host)

	state := loc.Query().Get("state")
	require.NotEmpty(t, state)
	assert.NoError(t, oauth.VerifyState(testSecret, state))
}

func TestCallbackCompletesLogin(t *testing.T) {
	env := newTestEnv(t)
	state, err := oauth.SignState(testSecret, time.Minute)
	require.NoError(t, err)

	w := env.get("/goauth2redirect?code=authcode&state="+url.QueryEscape(state), "")

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	token := cookieValue(w, middleware.SessionCookie)
	require.NotEmpty(t, token)

	sess, err := env.sessions.Get(t.Context(), token)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "test123@gmail.com", sess.Email)
	assert.NotZero(t, sess.UserID)
	assert.Contains(t, sess.OAuthToken, "access-authcode")

	u, err := env.users.GetByEmail(t.Context(), "test123@gmail.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, sess.UserID, u.ID)
}

func TestCallbackSameEmailResolvesSameUser(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 2; i++ {
		state, err := oauth.SignState(testSecret, time.Minute)
		require.NoError(t, err)
		w := env.get("/goauth2redirect?code=authcode&state="+url.QueryEscape(state), "")
		require.Equal(t, http.StatusFound, w.Code)
	}

	u, err := env.users.GetByEmail(t.Context(), "test123@gmail.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, uint(1), u.ID)
}

func TestCallbackRejectsForgedState(t *testing.T) {
	env := newTestEnv(t)
	forged, err := oauth.SignState("some-other-secret", time.Minute)
	require.NoError(t, err)

	w := env.get("/goauth2redirect?code=authcode&state="+url.QueryEscape(forged), "")

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Empty(t, cookieValue(w, middleware.SessionCookie))
}

func TestCallbackUpstreamFailureIsBadGateway(t *testing.T) {
	env := newTestEnv(t)
	env.provider.exchangeErr = errors.New("token endpoint unreachable")
	state, err := oauth.SignState(testSecret, time.Minute)
	require.NoError(t, err)

	w := env.get("/goauth2redirect?code=authcode&state="+url.QueryEscape(state), "")

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t)
	token := env.loginAs(t, 1)

	w := env.get("/logout", token)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	sess, err := env.sessions.Get(t.Context(), token)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestDisconnectRevokesProviderToken(t *testing.T) {
	env := newTestEnv(t)
	tokJSON, err := json.Marshal(map[string]any{"access_token": "tok-123"})
	require.NoError(t, err)
	token, err := env.sessions.Create(t.Context(), &sessions.Session{
		UserID:      1,
		Email:       "test123@gmail.com",
		OAuthToken:  string(tokJSON),
		TokenExpiry: time.Now().Add(time.Hour),
	}, time.Hour)
	require.NoError(t, err)

	w := env.get("/disconnect", token)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, []string{"tok-123"}, env.provider.revoked)

	sess, err := env.sessions.Get(t.Context(), token)
	require.NoError(t, err)
	assert.Nil(t, sess)
}
