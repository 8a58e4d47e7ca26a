package middleware

import (
	"net/http"
	"runtime/debug"

	"hotel-booking/logger"
	"hotel-booking/utils"

	"github.com/gin-gonic/gin"
)

func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		log.Error("Panic recovered",
			"request_id", c.GetString(utils.RequestIDKey),
			"error", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"stack", string(debug.Stack()),
		)
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error")
	})
}
