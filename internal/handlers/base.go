package handlers

import (
	"github.com/gin-gonic/gin"
)

// Fail writes the structured error envelope: a machine code plus a short
// human-readable message, never a stack trace.
func Fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{"code": code, "message": message},
	})
}
