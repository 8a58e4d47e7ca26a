package controllers

import (
	"net/http"
	"strings"

	"hotel-booking/apperrors"
	"hotel-booking/logger"
	"hotel-booking/middleware"
	"hotel-booking/models"
	"hotel-booking/services"
	"hotel-booking/utils"

	"github.com/gin-gonic/gin"
)

type createRoomRequest struct {
	Type        string   `json:"type" binding:"required,max=100"`
	Number      string   `json:"number" binding:"required,max=50"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Description string   `json:"description"`
	ImageURL    *string  `json:"imageUrl" binding:"omitempty,url,max=512"`
}

type RoomController struct {
	RoomSvc    *services.RoomService
	BookingSvc *services.BookingService
	Log        *logger.Logger
}

func NewRoomController(rooms *services.RoomService, bookings *services.BookingService, log *logger.Logger) *RoomController {
	return &RoomController{RoomSvc: rooms, BookingSvc: bookings, Log: log}
}

// GET /api/rooms
// Admins always get every room. Other callers get the rooms free for
// check_in_date..check_out_date when both are given, every room otherwise.
func (ctrl *RoomController) GetRooms(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	checkIn := strings.TrimSpace(c.Query("check_in_date"))
	checkOut := strings.TrimSpace(c.Query("check_out_date"))

	if principal.IsAdmin() || (checkIn == "" && checkOut == "") {
		rooms, err := ctrl.RoomSvc.List(c.Request.Context())
		if err != nil {
			utils.JSONAppError(c, ctrl.Log, err)
			return
		}
		c.JSON(http.StatusOK, rooms)
		return
	}

	if checkIn == "" || checkOut == "" {
		utils.JSONAppError(c, ctrl.Log, apperrors.InvalidInput("check_in_date and check_out_date must be provided together"))
		return
	}

	in, out, err := parseStay(checkIn, checkOut)
	if err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}
	if !in.Before(out) {
		utils.JSONAppError(c, ctrl.Log, apperrors.InvalidInput("check_out_date must be after check_in_date"))
		return
	}

	rooms, err := ctrl.BookingSvc.GetAvailableRooms(c.Request.Context(), in, out)
	if err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// POST /api/rooms
func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := bindJSON(c, &req); err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}

	room := &models.Room{
		Type:        req.Type,
		Number:      req.Number,
		Price:       *req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if err := ctrl.RoomSvc.Create(c.Request.Context(), room); err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Room created successfully", "room": room})
}

// PUT /api/rooms/:id
func (ctrl *RoomController) UpdateRoom(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}

	var changes map[string]any
	if err := c.ShouldBindJSON(&changes); err != nil {
		utils.JSONAppError(c, ctrl.Log, apperrors.InvalidInput("Invalid request payload"))
		return
	}

	room, err := ctrl.RoomSvc.Update(c.Request.Context(), id, changes)
	if err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Room updated successfully", "room": room})
}

// DELETE /api/rooms/:id
func (ctrl *RoomController) DeleteRoom(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}

	if err := ctrl.RoomSvc.Delete(c.Request.Context(), id); err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
}

// GET /api/rooms/:id/bookings
func (ctrl *RoomController) GetRoomBookings(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}

	bookings, err := ctrl.BookingSvc.ListRoomBookings(c.Request.Context(), id)
	if err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}
