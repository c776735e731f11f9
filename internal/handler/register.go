package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DonDurkheim/prism-web-app-sub001/internal/account"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/resolve"
)

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Role      string `json:"role" binding:"required,oneof=applicant hirer"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	res, err := h.resolver.Register(c.Request.Context(), resolve.RegisterParams{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      account.Role(req.Role),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.issueSession(c, res.Account.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":        "registered",
		"account_id":    res.Account.ID,
		"redirect_path": res.RedirectPath,
	})
}
