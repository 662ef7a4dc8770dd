package middleware

import (
	"net/http"

	"github.com/vilanovax/karbarg/internal/db"
	"github.com/vilanovax/karbarg/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// LoadUser retrieves the session user and sets it on the context.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID != nil {
			var user models.User
			result := db.DB.First(&user, userID)
			if result.Error == nil {
				c.Set(CheckUserKey, &user)
			}
		}
		c.Next()
	}
}

// AuthRequired rejects callers without a session user.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "unauthenticated", "message": "ورود به حساب کاربری لازم است"},
			})
			return
		}
		c.Next()
	}
}

// AdminRequired distinguishes "not authenticated" from "not permitted".
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, exists := c.Get(CheckUserKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "unauthenticated", "message": "ورود به حساب کاربری لازم است"},
			})
			return
		}
		if !u.(*models.User).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"code": "forbidden", "message": "دسترسی مدیر لازم است"},
			})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the loaded session user, or nil.
func CurrentUser(c *gin.Context) *models.User {
	u, exists := c.Get(CheckUserKey)
	if !exists {
		return nil
	}
	return u.(*models.User)
}
