package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// Success writes a 200 success envelope.
func Success(c *gin.Context, message string, data interface{}) {
	RespondJSON(c, "success", http.StatusOK, message, data, nil)
}

// Error writes an error envelope with the given HTTP status.
func Error(c *gin.Context, code int, message string) {
	RespondJSON(c, "error", code, message, nil, nil)
}
