package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// EmailKey is the gin context key holding the authenticated user's email.
const EmailKey = "email"

// TokenValidator resolves a bearer token to the email it was issued for.
type TokenValidator interface {
	ValidateToken(tokenString string) (string, error)
}

// RoleChecker reports whether an account has administrator rights.
type RoleChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// AuthMiddleware creates a gin.HandlerFunc that acts as our "security guard".
// A valid token puts the user's email into the context.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Get Authorization Header ---
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format (must be Bearer)"})
			c.Abort()
			return
		}

		// 2. --- Validate Token ---
		email, err := tokens.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// 3. --- Success ---
		c.Set(EmailKey, email)
		c.Next()
	}
}

// CurrentEmail returns the email stored by AuthMiddleware.
func CurrentEmail(c *gin.Context) (string, bool) {
	email := c.GetString(EmailKey)
	return email, email != ""
}
