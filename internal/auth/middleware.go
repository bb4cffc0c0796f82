package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "token"

// contextEmailKey is the gin context key the guard stores the verified
// identity under.
const contextEmailKey = "auth_email"

// RequireAuth returns a gin middleware that verifies the session cookie
// before a protected handler runs. Every rejection path aborts the handler
// chain; an invalid token never proceeds.
func RequireAuth(issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "unauthorized",
			})
			return
		}

		claims, err := issuer.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "unauthorized",
			})
			return
		}

		c.Set(contextEmailKey, claims.Email)
		c.Next()
	}
}

// EmailFromContext returns the verified identity set by RequireAuth, or an
// empty string when the request was not guarded.
func EmailFromContext(c *gin.Context) string {
	v, _ := c.Get(contextEmailKey)
	if email, ok := v.(string); ok {
		return email
	}
	return ""
}

// RequireIdentity rejects the request with 401 unless the authenticated
// identity matches the requested one. A valid session for user A must not
// read user B's resources.
func RequireIdentity(c *gin.Context, requested string) bool {
	if EmailFromContext(c) != requested {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"message": "unauthorized",
		})
		return false
	}
	return true
}
