package controllers

import (
	"net/http"

	"hotel-booking/logger"
	"hotel-booking/services"
	"hotel-booking/utils"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Password string `json:"password" binding:"required,max=72"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	AuthSvc *services.AuthService
	Log     *logger.Logger
}

func NewAuthController(svc *services.AuthService, log *logger.Logger) *AuthController {
	return &AuthController{AuthSvc: svc, Log: log}
}

// POST /api/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}

	user, err := ctrl.AuthSvc.Register(c.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "userId": user.ID})
}

// POST /api/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}

	token, _, err := ctrl.AuthSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		utils.JSONAppError(c, ctrl.Log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token})
}
