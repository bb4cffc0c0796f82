package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/solobids/solobids-be/internal/api/dto"
	"github.com/solobids/solobids-be/internal/auth"
)

// AuthHandler handles session token issuance and logout
type AuthHandler struct {
	logger      *slog.Logger
	issuer      *auth.Issuer
	environment string
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(deps *Dependencies) *AuthHandler {
	return &AuthHandler{
		logger:      deps.Logger,
		issuer:      deps.Issuer,
		environment: deps.Environment,
	}
}

// IssueToken handles POST /jwt
// Mints a session token for the posted identity claim and delivers it via
// an HTTP-only cookie.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req dto.IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request body",
		})
		return
	}

	token, err := h.issuer.Issue(req.Email)
	if err != nil {
		h.logger.Error("Failed to issue token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "service error",
		})
		return
	}

	h.setSessionCookie(c, token, int(h.issuer.TTL().Seconds()))

	h.logger.Info("Session token issued",
		slog.String("email", req.Email),
	)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout handles GET /logout
// Clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// setSessionCookie writes the session cookie with attributes depending on
// the deployment mode: cross-site secure cookies in production, lax
// same-site cookies elsewhere.
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	secure := h.environment == "production"
	if secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(auth.CookieName, token, maxAge, "/", "", secure, true)
}
