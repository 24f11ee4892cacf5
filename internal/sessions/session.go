package sessions

import "time"

// Session is the server-side per-browser state: the authenticated identity
// plus the provider credentials. The OAuth token lives only here, never in
// the database.
type Session struct {
	Token       string    `json:"token"`
	UserID      uint      `json:"userId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Picture     string    `json:"picture,omitempty"`
	OAuthToken  string    `json:"oauthToken,omitempty"` // provider token JSON
	TokenExpiry time.Time `json:"tokenExpiry"`          // access token expiry at the provider
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
