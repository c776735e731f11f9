package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DonDurkheim/prism-web-app-sub001/internal/identity/provider"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/logger"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/middleware"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/resolve"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/session"
)

const sessionTTL = 24 * time.Hour

// loginPath is the safe page every failed resolution lands on.
// No partial redirect is ever issued.
const loginPath = "/login"

// Handler adapts HTTP input to the resolution flow. It holds no
// branching logic of its own beyond translating results to responses.
type Handler struct {
	providers    *provider.Registry
	sessionStore session.Store
	resolver     *resolve.Resolver
	credLimiter  *middleware.RateLimiter
}

func NewHandler(
	registry *provider.Registry,
	sessionStore session.Store,
	resolver *resolve.Resolver,
) *Handler {
	return &Handler{
		providers:    registry,
		sessionStore: sessionStore,
		resolver:     resolver,
		credLimiter:  middleware.NewRateLimiter(1, 5),
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/oauth/login/:provider", h.oauthLogin)
	r.GET("/oauth/callback/:provider", h.oauthCallback)

	creds := r.Group("/auth")
	creds.Use(h.credLimiter.GinThrottle())
	creds.POST("/login", h.Login)
	creds.POST("/register", h.Register)

	r.POST("/auth/logout", h.Logout)

	for _, route := range r.Routes() {
		logger.Info("route registered", map[string]any{
			"method": route.Method,
			"path":   route.Path,
		})
	}
}

// issueSession persists a session for the account and sets the cookie.
func (h *Handler) issueSession(c *gin.Context, accountID string) error {
	sessionID, err := session.GenerateID()
	if err != nil {
		return err
	}

	now := time.Now()
	expiresAt := now.Add(sessionTTL)

	sess := session.Session{
		SessionID: sessionID,
		AccountID: accountID,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}

	if err := h.sessionStore.Create(c.Request.Context(), sess); err != nil {
		return err
	}

	session.SetCookie(c.Writer, sessionID, expiresAt, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// respondError maps a resolution failure to a JSON error response.
func respondError(c *gin.Context, err error) {
	switch resolve.KindOf(err) {
	case resolve.KindInvalidCredentials:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case resolve.KindExchangeFailed:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
	case resolve.KindAlreadyExists:
		c.JSON(http.StatusConflict, gin.H{"error": "account already exists"})
	case resolve.KindAccountConflict:
		c.JSON(http.StatusConflict, gin.H{"error": "concurrent sign-in, retry"})
	case resolve.KindUpstreamTimeout:
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "upstream timeout"})
	case resolve.KindProfileCreationFailed, resolve.KindInvariantViolation:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "account resolution failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) Logout(c *gin.Context) {
	// 1. Read session cookie (same pattern as auth middleware)
	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		// 2. Delete session from store (best-effort)
		_ = h.sessionStore.Delete(c.Request.Context(), cookie.Value)
		logger.Info("logout", map[string]any{
			"session_id": cookie.Value,
			"ip":         c.ClientIP(),
		})
	}

	// 3. Clear cookie (must pass options)
	session.ClearCookie(c.Writer, session.CookieOptions{
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	// 4. Idempotent response
	c.Status(http.StatusNoContent)
}
