package utils

import (
	"net/http"

	"hotel-booking/apperrors"
	"hotel-booking/logger"

	"github.com/gin-gonic/gin"
)

func JSONError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// JSONAppError renders err as {"error", "code", "details"}. Server-side
// failures are logged with their cause, which is never sent to the client.
func JSONAppError(c *gin.Context, log *logger.Logger, err error) {
	appErr := apperrors.AsAppError(err)

	status := appErr.StatusCode()
	if status == 0 {
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		log.Error("Request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"code", appErr.Code,
			"request_id", c.GetString(RequestIDKey),
			"error", err,
		)
	}

	body := gin.H{"error": appErr.Message, "code": appErr.Code}
	if len(appErr.Details) > 0 && status < http.StatusInternalServerError {
		body["details"] = appErr.Details
	}
	c.AbortWithStatusJSON(status, body)
}

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"
