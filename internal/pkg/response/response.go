package response

import "github.com/gin-gonic/gin"

// Error writes a flat error body. Clients (and the web frontend) rely on the
// exact {"error": "..."} shape, so there is no envelope here.
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error": message,
	})
}

// ErrorWithDetails additionally carries diagnostic detail (provider error
// bodies, wrapped error chains). Favors debuggability over prettiness.
func ErrorWithDetails(c *gin.Context, statusCode int, message string, details any) {
	c.JSON(statusCode, gin.H{
		"error":   message,
		"details": details,
	})
}
