package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// --- Role-Based Middleware ---
//
// These run AFTER AuthMiddleware(). They read the email from the context
// and look up the account's roles.
//

// AdminMiddleware lets only ADMIN accounts through.
func AdminMiddleware(roles RoleChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := CurrentEmail(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Email not found in context (AuthMiddleware must run first)"})
			c.Abort()
			return
		}

		isAdmin, err := roles.IsAdmin(c.Request.Context(), email)
		if err != nil {
			log.Printf("role check failed for %s: %v", email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking role"})
			c.Abort()
			return
		}
		if !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: Admin role required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// SelfOrAdminMiddleware guards routes addressed by an email path parameter:
// the caller must own that email or be an ADMIN.
func SelfOrAdminMiddleware(param string, roles RoleChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := CurrentEmail(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Email not found in context (AuthMiddleware must run first)"})
			c.Abort()
			return
		}
		if c.Param(param) == email {
			c.Next()
			return
		}

		isAdmin, err := roles.IsAdmin(c.Request.Context(), email)
		if err != nil {
			log.Printf("role check failed for %s: %v", email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking role"})
			c.Abort()
			return
		}
		if !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: not your account"})
			c.Abort()
			return
		}

		c.Next()
	}
}
