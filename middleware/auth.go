package middleware

import (
	"net/http"
	"strings"

	"retailhub-backend/models"
	"retailhub-backend/utils"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		if claims.FranchiseID != nil {
			c.Set("franchise_id", *claims.FranchiseID)
		}
		c.Next()
	}
}

// AdminMiddleware requires the authenticated user to be an admin.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists || role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminOrManagerMiddleware requires an admin or an orderManager. Franchise
// ownership checks against the :id parameter happen in the handlers.
func AdminOrManagerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Access denied"})
			c.Abort()
			return
		}

		if role != models.RoleAdmin && role != models.RoleOrderManager {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Admin or manager access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
