package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/edital360/portal/internal/models"
	"github.com/edital360/portal/internal/observability"
)

const claimsContextKey = "claims"

// AuthMiddleware extracts the session token from the Authorization header or
// the token cookie and validates its expiry. Signature validation stays with
// the backend that issued the token.
func AuthMiddleware(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token, _ = c.Cookie(cookieName)
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication token is required"})
			c.Abort()
			return
		}

		claims, err := models.ParseToken(token)
		if err != nil {
			observability.Logger().Error("failed to extract claims from token", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		if !claims.Valid(time.Now()) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			c.Abort()
			return
		}

		c.Set(claimsContextKey, claims)
		c.Set("token", token)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// RequireAdmin checks if the user has the admin role
func RequireAdmin(adminRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ClaimsFromContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Claims not found"})
			c.Abort()
			return
		}

		if !claims.HasRole(adminRole) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin privileges required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// ClaimsFromContext returns the token claims stored by AuthMiddleware
func ClaimsFromContext(c *gin.Context) (*models.TokenClaims, error) {
	value, exists := c.Get(claimsContextKey)
	if !exists {
		return nil, fmt.Errorf("claims not found")
	}

	claims, ok := value.(*models.TokenClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims type")
	}

	return claims, nil
}

// CPFFromContext extracts the authenticated user's CPF
func CPFFromContext(c *gin.Context) (string, error) {
	claims, err := ClaimsFromContext(c)
	if err != nil {
		return "", err
	}
	return claims.CPF, nil
}

// TokenFromContext returns the raw session token stored by AuthMiddleware
func TokenFromContext(c *gin.Context) string {
	return c.GetString("token")
}
