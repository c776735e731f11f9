package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DonDurkheim/prism-web-app-sub001/internal/middleware"
)

// RegisterProtectedRoutes attaches routes that require a session.
func (h *Handler) RegisterProtectedRoutes(api *gin.RouterGroup) {
	api.GET("/me", h.Me)
	api.POST("/onboarding/complete", h.CompleteOnboarding)
}

func (h *Handler) Me(c *gin.Context) {
	accountID, ok := middleware.AccountIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	acct, err := h.resolver.Account(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account_id":        acct.ID,
		"email":             acct.Email,
		"first_name":        acct.FirstName,
		"last_name":         acct.LastName,
		"role":              string(acct.Role),
		"profile_completed": acct.ProfileCompleted,
	})
}

func (h *Handler) CompleteOnboarding(c *gin.Context) {
	accountID, ok := middleware.AccountIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	res, err := h.resolver.CompleteOnboarding(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "profile_completed",
		"redirect_path": res.RedirectPath,
	})
}
