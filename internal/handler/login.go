package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	res, err := h.resolver.ResolveViaPassword(
		c.Request.Context(),
		req.Email,
		req.Password,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.issueSession(c, res.Account.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "logged_in",
		"redirect_path": res.RedirectPath,
	})
}
