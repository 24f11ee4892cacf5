package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/catalog"
	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/config"
	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/models"
	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/oauth"
	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/sessions"
	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/users"
	"github.com/animeshelf/animeshelf/backend/catalog-service/pkg/middleware"
)

const testSecret = "handler-test-secret"

// fakeProvider satisfies oauth.Provider without network calls.
type fakeProvider struct {
	mu          sync.Mutex
	profile     oauth.Profile
	exchangeErr error
	userInfoErr error
	tokenExpiry time.Time
	revoked     []string
}

func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/o/oauth2/auth?state=" + url.QueryEscape(state)
}

func (f *fakeProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	expiry := f.tokenExpiry
	if expiry.IsZero() {
		expiry = time.Now().Add(time.Hour)
	}
	return &oauth2.Token{AccessToken: "access-" + code, Expiry: expiry}, nil
}

func (f *fakeProvider) UserInfo(ctx context.Context, t *oauth2.Token) (*oauth.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userInfoErr != nil {
		return nil, f.userInfoErr
	}
	p := f.profile
	return &p, nil
}

func (f *fakeProvider) Revoke(ctx context.Context, t *oauth2.Token) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = append(f.revoked, t.AccessToken)
	return nil
}

// memoryUserRepo is an in-memory users.Repository for handler tests.
type memoryUserRepo struct {
	mu     sync.Mutex
	users  []models.User
	nextID uint
}

func (m *memoryUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			uu := u
			return &uu, nil
		}
	}
	return nil, nil
}

func (m *memoryUserRepo) Create(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return nil
		}
	}
	m.nextID++
	u.ID = m.nextID
	m.users = append(m.users, *u)
	return nil
}

type testEnv struct {
	router   *gin.Engine
	catalog  *catalog.Service
	users    *users.Service
	sessions *sessions.Service
	provider *fakeProvider
	repo     *catalog.MemoryRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := catalog.NewMemoryRepository()
	catalogSvc := catalog.NewService(repo)
	userSvc := users.NewService(&memoryUserRepo{})
	sessSvc := sessions.NewService(sessions.NewMemoryRepository())
	provider := &fakeProvider{profile: oauth.Profile{
		Subject: "google-sub-1",
		Name:    "Test User",
		Email:   "test123@gmail.com",
		Picture: "https://example.com/p.jpg",
	}}
	cfg := &config.Config{Session: config.SessionConfig{Secret: testSecret, TTL: time.Hour}}

	r := gin.New()
	LoadTemplates(r)
	r.Use(middleware.LoadSession(sessSvc))
	NewCatalogHandler(catalogSvc).Register(r)
	NewAPIHandler(catalogSvc).Register(r)
	NewAuthHandler(cfg, provider, userSvc, sessSvc).Register(r)

	return &testEnv{router: r, catalog: catalogSvc, users: userSvc, sessions: sessSvc, provider: provider, repo: repo}
}

func (e *testEnv) addCategory(t *testing.T, name string) uint {
	t.Helper()
	c := &models.Category{Name: name}
	if err := e.repo.CreateCategory(t.Context(), c); err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c.ID
}

func (e *testEnv) addItem(t *testing.T, ownerID, categoryID uint, name, desc string) *models.Item {
	t.Helper()
	item, err := e.catalog.CreateItem(t.Context(), ownerID, categoryID, name, desc)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item
}

// loginAs creates a session directly in the store and returns its token.
func (e *testEnv) loginAs(t *testing.T, userID uint) string {
	t.Helper()
	token, err := e.sessions.Create(t.Context(), &sessions.Session{
		UserID:      userID,
		Name:        "Test User",
		Email:       "test123@gmail.com",
		TokenExpiry: time.Now().Add(time.Hour),
	}, time.Hour)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return token
}

func (e *testEnv) get(path, sessionToken string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sessionToken})
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postForm(path, sessionToken string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sessionToken})
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// cookieValue returns the decoded value of a response cookie. Values are
// query-escaped on the wire by gin's SetCookie.
func cookieValue(w *httptest.ResponseRecorder, name string) string {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			if v, err := url.QueryUnescape(c.Value); err == nil {
				return v
			}
			return c.Value
		}
	}
	return ""
}
