package controllers

import (
	"strconv"
	"time"

	"hotel-booking/apperrors"
	"hotel-booking/models"
	"hotel-booking/validation"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes the body into req, reporting field errors on failure.
func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		if fields, ok := validation.Translate(err); ok {
			return apperrors.Validation("Invalid request payload", map[string]any{"fields": fields})
		}
		return apperrors.InvalidInput("Invalid request payload")
	}
	return nil
}

func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.InvalidInput("Invalid " + name)
	}
	return uint(id), nil
}

func parseStay(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := models.ParseDate(checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Validation("Invalid check-in date", map[string]any{
			"fields": validation.FieldErrors{{Field: "checkInDate", Message: err.Error()}},
		})
	}
	out, err := models.ParseDate(checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Validation("Invalid check-out date", map[string]any{
			"fields": validation.FieldErrors{{Field: "checkOutDate", Message: err.Error()}},
		})
	}
	return in, out, nil
}
