// backend/internal/middleware/recovery.go
package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/royboker/portfolio-backend/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Recovery converts panics into a generic error payload so one bad request
// can never take the process down. The stack trace goes to the logs only.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithFields(logrus.Fields{
					"panic": r,
					"path":  c.Request.URL.Path,
					"stack": string(debug.Stack()),
				}).Error("Recovered from panic in handler")

				utils.ErrorResponse(c, http.StatusOK, "Something went wrong. Please try again later.")
				c.Abort()
			}
		}()
		c.Next()
	}
}
