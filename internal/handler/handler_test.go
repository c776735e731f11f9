package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/DonDurkheim/prism-web-app-sub001/internal/account"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/credentials"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/handler"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/identity"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/identity/provider"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/middleware"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/resolve"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/session"
)

type fakeProvider struct {
	principals map[string]*identity.Principal
	consumed   map[string]bool
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) AuthCodeURL(state, codeChallenge string) string {
	return "https://idp.example/authorize?state=" + state
}

func (f *fakeProvider) ExchangeCode(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*identity.Principal, error) {
	if f.consumed[code] {
		return nil, errors.New("authorization code already consumed")
	}
	p, ok := f.principals[code]
	if !ok {
		return nil, errors.New("invalid authorization code")
	}
	f.consumed[code] = true
	return p, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeProvider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := &fakeProvider{
		principals: make(map[string]*identity.Principal),
		consumed:   make(map[string]bool),
	}
	registry := provider.NewRegistry(fake)

	accounts := account.NewMemoryStore()
	creds := credentials.NewService(credentials.NewMemoryStore())
	resolver := resolve.NewResolver(registry, creds, accounts)
	sessions := session.NewMemoryStore()

	h := handler.NewHandler(registry, sessions, resolver)

	router := gin.New()
	h.RegisterRoutes(router)

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(middleware.NewAuthMiddleware(sessions)))
	h.RegisterProtectedRoutes(api)

	return router, fake
}

func doJSON(router *gin.Engine, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func TestRegisterEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/auth/register", `{
		"email": "jane@example.com",
		"password": "correct horse",
		"first_name": "Jane",
		"last_name": "Smith",
		"role": "hirer"
	}`)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), `"redirect_path":"/onboarding/hirer"`)
	require.NotNil(t, sessionCookie(t, w))
}

func TestRegisterEndpoint_Duplicate(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{
		"email": "jane@example.com",
		"password": "correct horse",
		"first_name": "Jane",
		"role": "applicant"
	}`

	require.Equal(t, http.StatusCreated,
		doJSON(router, http.MethodPost, "/auth/register", body).Code)
	require.Equal(t, http.StatusConflict,
		doJSON(router, http.MethodPost, "/auth/register", body).Code)
}

func TestRegisterEndpoint_RejectsBadRole(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/auth/register", `{
		"email": "jane@example.com",
		"password": "correct horse",
		"first_name": "Jane",
		"role": "admin"
	}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	doJSON(router, http.MethodPost, "/auth/register", `{
		"email": "jane@example.com",
		"password": "correct horse",
		"first_name": "Jane",
		"role": "applicant"
	}`)

	w := doJSON(router, http.MethodPost, "/auth/login", `{
		"email": "jane@example.com",
		"password": "correct horse"
	}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"redirect_path":"/onboarding/applicant"`)

	wrong := doJSON(router, http.MethodPost, "/auth/login", `{
		"email": "jane@example.com",
		"password": "wrong horse"
	}`)
	require.Equal(t, http.StatusUnauthorized, wrong.Code)
}

func TestProtectedRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	reg := doJSON(router, http.MethodPost, "/auth/register", `{
		"email": "jane@example.com",
		"password": "correct horse",
		"first_name": "Jane",
		"role": "applicant"
	}`)
	cookie := sessionCookie(t, reg)

	// without session
	require.Equal(t, http.StatusUnauthorized,
		doJSON(router, http.MethodGet, "/api/me", "").Code)

	// with session
	me := doJSON(router, http.MethodGet, "/api/me", "", cookie)
	require.Equal(t, http.StatusOK, me.Code)
	require.Contains(t, me.Body.String(), `"email":"jane@example.com"`)
	require.Contains(t, me.Body.String(), `"profile_completed":false`)

	done := doJSON(router, http.MethodPost, "/api/onboarding/complete", "", cookie)
	require.Equal(t, http.StatusOK, done.Code)
	require.Contains(t, done.Body.String(), `"redirect_path":"/dashboard/applicant"`)
}

func TestLogoutEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	reg := doJSON(router, http.MethodPost, "/auth/register", `{
		"email": "jane@example.com",
		"password": "correct horse",
		"first_name": "Jane",
		"role": "applicant"
	}`)
	cookie := sessionCookie(t, reg)

	require.Equal(t, http.StatusNoContent,
		doJSON(router, http.MethodPost, "/auth/logout", "", cookie).Code)

	// session gone
	require.Equal(t, http.StatusUnauthorized,
		doJSON(router, http.MethodGet, "/api/me", "", cookie).Code)
}

func TestOAuthLogin_RedirectsToProvider(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/oauth/login/fake?role=hirer", "")
	require.Equal(t, http.StatusFound, w.Code)
	require.Contains(t, w.Header().Get("Location"), "https://idp.example/authorize")

	names := map[string]bool{}
	for _, c := range w.Result().Cookies() {
		names[c.Name] = true
	}
	require.True(t, names["__oauth_state"])
	require.True(t, names["__oauth_pkce"])
	require.True(t, names["__oauth_role"])
}

func TestOAuthLogin_UnknownProvider(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/oauth/login/nope", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOAuthCallback_InvalidState(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/oauth/callback/fake?state=forged&code=x", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOAuthCallback_FullFlow(t *testing.T) {
	router, fake := newTestRouter(t)
	fake.principals["code-1"] = &identity.Principal{
		ID:          "idp-user-1",
		Email:       "jane@example.com",
		DisplayName: "Jane Smith",
	}

	state := &http.Cookie{Name: "__oauth_state", Value: "s-1"}
	pkce := &http.Cookie{Name: "__oauth_pkce", Value: "v-1"}
	role := &http.Cookie{Name: "__oauth_role", Value: "hirer"}

	w := doJSON(router, http.MethodGet,
		"/oauth/callback/fake?state=s-1&code=code-1", "", state, pkce, role)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/onboarding/hirer", w.Header().Get("Location"))
	require.NotNil(t, sessionCookie(t, w))
}

func TestOAuthCallback_ProviderError(t *testing.T) {
	router, _ := newTestRouter(t)

	state := &http.Cookie{Name: "__oauth_state", Value: "s-1"}
	w := doJSON(router, http.MethodGet,
		"/oauth/callback/fake?state=s-1&error=access_denied", "", state)

	// failed resolution always lands on the safe page
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))
}
