package controllers

import (
	"net/http"

	"hotel-booking/apperrors"
	"hotel-booking/logger"
	"hotel-booking/middleware"
	"hotel-booking/services"
	"hotel-booking/utils"

	"github.com/gin-gonic/gin"
)

type createBookingRequest struct {
	UserID       uint   `json:"userId"`
	RoomID       uint   `json:"roomId" binding:"required"`
	CheckInDate  string `json:"checkInDate" binding:"required,isodate"`
	CheckOutDate string `json:"checkOutDate" binding:"required,isodate"`
}

type updateBookingRequest struct {
	UserID       uint   `json:"userId" binding:"required"`
	RoomID       uint   `json:"roomId" binding:"required"`
	CheckInDate  string `json:"checkInDate" binding:"required,isodate"`
	CheckOutDate string `json:"checkOutDate" binding:"required,isodate"`
}

type BookingController struct {
	BookingSvc *services.BookingService
	Log        *logger.Logger
}

func NewBookingController(svc *services.BookingService, log *logger.Logger) *BookingController {
	return &BookingController{BookingSvc: svc, Log: log}
}

// POST /api/bookings
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := bindJSON(c, &req); err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}

	principal, _ := middleware.CurrentPrincipal(c)
	userID := req.UserID
	if userID == 0 {
		userID = principal.ID
	}
	if userID != principal.ID && !principal.IsAdmin() {
		utils.JSONAppError(c, ctrl.Log, apperrors.Forbidden("You can only book rooms for yourself"))
		return
	}

	checkIn, checkOut, err := parseStay(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}

	booking, err := ctrl.BookingSvc.CreateBooking(c.Request.Context(), userID, req.RoomID, checkIn, checkOut)
	if err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Booking created successfully", "booking": booking})
}

// GET /api/bookings
func (ctrl *BookingController) GetBookings(c *gin.Context) {
	bookings, err := ctrl.BookingSvc.ListAllBookings(c.Request.Context())
	if err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GET /api/bookings/:userId
func (ctrl *BookingController) GetUserBookings(c *gin.Context) {
	userID, err := paramID(c, "userId")
	if err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}

	principal, _ := middleware.CurrentPrincipal(c)
	if principal.ID != userID && !principal.IsAdmin() {
		utils.JSONAppError(c, ctrl.Log, apperrors.Forbidden("You can only view your own bookings"))
		return
	}

	bookings, err := ctrl.BookingSvc.ListUserBookings(c.Request.Context(), userID)
	if err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// PUT /api/bookings/:id replaces the booking without an availability check.
func (ctrl *BookingController) UpdateBooking(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}

	var req updateBookingRequest
	if err := bindJSON(c, &req); err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}

	checkIn, checkOut, err := parseStay(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}

	updated, err := ctrl.BookingSvc.UpdateBooking(c.Request.Context(), id, req.UserID, req.RoomID, checkIn, checkOut)
	if err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}
	if !updated {
		utils.JSONAppError(c, ctrl.Log, apperrors.NotFoundWithID("Booking", id))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking updated successfully"})
}

// DELETE /api/bookings/:id
func (ctrl *BookingController) DeleteBooking(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}

	deleted, err := ctrl.BookingSvc.DeleteBooking(c.Request.Context(), id)
	if err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}
	if !deleted {
		utils.JSONAppError(c, ctrl.Log, apperrors.NotFoundWithID("Booking", id))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted successfully"})
}
