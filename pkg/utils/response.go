package utils

import (
	"github.com/gin-gonic/gin"
)

// Every endpoint answers with a status discriminator in the body. Upstream
// failure detail stays in the logs; clients only ever see Message.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func StatusResponse(c *gin.Context, code int, status, message string) {
	c.JSON(code, APIResponse{
		Status:  status,
		Message: message,
	})
}

func SuccessResponse(c *gin.Context, code int, message string) {
	StatusResponse(c, code, "success", message)
}

func ErrorResponse(c *gin.Context, code int, message string) {
	StatusResponse(c, code, "error", message)
}
