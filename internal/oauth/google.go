package oauth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Profile is the subset of the provider's userinfo claims the catalog keeps.
type Profile struct {
	Subject string
	Name    string
	Email   string
	Picture string
}

// Provider is the identity-provider contract the handlers depend on.
// Satisfied by *Google and by test fakes.
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	UserInfo(ctx context.Context, t *oauth2.Token) (*Profile, error)
	Revoke(ctx context.Context, t *oauth2.Token) error
}

const revokeURL = "https://oauth2.googleapis.com/revoke"

// Google implements Provider against Google's OAuth2/OIDC endpoints.
type Google struct {
	cfg      *oauth2.Config
	provider *oidc.Provider
}

// NewGoogle discovers the issuer's endpoints and builds the code-flow config.
// Scopes mirror the userinfo.profile + userinfo.email grant.
func NewGoogle(ctx context.Context, issuer, clientID, clientSecret, redirectURL string) (*Google, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}
	return &Google{cfg: cfg, provider: provider}, nil
}

// AuthCodeURL returns the provider's authorization endpoint URL for step one
// of the handshake.
func (g *Google) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

// Exchange upgrades an authorization code into credentials.
func (g *Google) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return g.cfg.Exchange(ctx, code)
}

// UserInfo calls the provider's userinfo endpoint with the given credentials.
func (g *Google) UserInfo(ctx context.Context, t *oauth2.Token) (*Profile, error) {
	ui, err := g.provider.UserInfo(ctx, oauth2.StaticTokenSource(t))
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	var claims struct {
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := ui.Claims(&claims); err != nil {
		return nil, err
	}
	return &Profile{Subject: ui.Subject, Name: claims.Name, Email: ui.Email, Picture: claims.Picture}, nil
}

// Revoke invalidates the access token with the provider.
func (g *Google) Revoke(ctx context.Context, t *oauth2.Token) error {
	form := url.Values{}
	form.Set("token", t.AccessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("revoke endpoint returned %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
