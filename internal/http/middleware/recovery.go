package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/roguepikachu/quizbank/pkg"
	"github.com/roguepikachu/quizbank/pkg/logger"
)

// Recovery turns a panic into the standard 500 error envelope and logs the stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.With(c.Request.Context(), map[string]any{"panic": r, "stack": string(debug.Stack())}).Error("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					pkg.NewErrorResponse(http.StatusInternalServerError, "An unexpected error occurred", c.Request.URL.Path, time.Now()))
			}
		}()
		c.Next()
	}
}
