package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoStore marks responses as private to the client. Pages depend on the
// client's session, so no shared cache may keep them.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Vary", "Cookie")
		c.Next()
	}
}
