package handler

import (
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DonDurkheim/prism-web-app-sub001/internal/account"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/utils"
)

// Short-lived cookies carrying OAuth round-trip state. The intended
// role rides along the same way because the IdP callback cannot carry
// application parameters.
const (
	stateCookieName = "__oauth_state"
	pkceCookieName  = "__oauth_pkce"
	roleCookieName  = "__oauth_role"

	oauthCookieTTL = 5 * time.Minute
)

func setOAuthCookie(c *gin.Context, name, value string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(oauthCookieTTL.Seconds()),
	})
}

func oauthCookie(c *gin.Context, name string) string {
	cookie, err := c.Request.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func generateState(c *gin.Context) string {
	state, err := utils.RandomString(32)
	if err != nil {
		return ""
	}
	setOAuthCookie(c, stateCookieName, state)
	return state
}

func validateState(c *gin.Context) bool {
	stateQuery := c.Query("state")
	if stateQuery == "" {
		return false
	}
	return oauthCookie(c, stateCookieName) == stateQuery
}

func generatePKCE(c *gin.Context) (verifier string, challenge string) {
	verifier, err := utils.RandomString(32)
	if err != nil {
		return "", ""
	}

	hash := sha256.Sum256([]byte(verifier))
	challenge = base64.RawURLEncoding.EncodeToString(hash[:])

	setOAuthCookie(c, pkceCookieName, verifier)
	return verifier, challenge
}

func getPKCEVerifier(c *gin.Context) string {
	return oauthCookie(c, pkceCookieName)
}

// setIntendedRole stores the caller-declared role for the duration of
// the OAuth round trip. It is only consulted when no account exists.
func setIntendedRole(c *gin.Context, role account.Role) {
	setOAuthCookie(c, roleCookieName, string(role))
}

func getIntendedRole(c *gin.Context) account.Role {
	role := account.Role(oauthCookie(c, roleCookieName))
	if !role.Valid() {
		return account.RoleApplicant
	}
	return role
}
