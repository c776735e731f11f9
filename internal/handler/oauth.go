package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DonDurkheim/prism-web-app-sub001/internal/account"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/logger"
)

func (h *Handler) oauthLogin(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	role := account.Role(c.Query("role"))
	if !role.Valid() {
		role = account.RoleApplicant
	}
	setIntendedRole(c, role)

	state := generateState(c)
	_, codeChallenge := generatePKCE(c)

	authURL := p.AuthCodeURL(state, codeChallenge)
	c.Redirect(http.StatusFound, authURL)
}

func (h *Handler) oauthCallback(c *gin.Context) {
	providerName := c.Param("provider")

	if _, err := h.providers.Get(providerName); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	if !validateState(c) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "invalid state",
		})
		return
	}

	errParam := c.Query("error")
	errDesc := c.Query("error_description")

	// CASE 1: OAuth error (very common during registration)
	if errParam != "" {
		logger.Warn("oauth callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     errDesc,
		})

		// The user never authenticated; start a fresh flow.
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	// CASE 2: Normal OAuth callback
	code := c.Query("code")
	if code == "" {
		logger.Error("oauth callback missing code and error", nil)
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	codeVerifier := getPKCEVerifier(c)
	if codeVerifier == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "missing pkce verifier",
		})
		return
	}

	res, err := h.resolver.ResolveViaCode(
		c.Request.Context(),
		providerName,
		code,
		codeVerifier,
		getIntendedRole(c),
	)
	if err != nil {
		logger.Warn("code resolution failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		// Resolution did not complete; land on the safe page.
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	if err := h.issueSession(c, res.Account.ID); err != nil {
		logger.Error("failed to persist session", map[string]any{
			"error": err.Error(),
		})
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	logger.Info("login success", map[string]any{
		"account_id": res.Account.ID,
		"created":    res.Created,
		"ip":         c.ClientIP(),
	})

	c.Redirect(http.StatusFound, res.RedirectPath)
}
