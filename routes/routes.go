package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-booking/controllers"
	"hotel-booking/logger"
	"hotel-booking/middleware"
	"hotel-booking/validation"
)

func corsConfig(origins []string) cors.Config {
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}
}

// SetupRouter wires the controllers onto a gin engine under /api.
func SetupRouter(
	ac *controllers.AuthController,
	rc *controllers.RoomController,
	bc *controllers.BookingController,
	tokens middleware.TokenParser,
	corsOrigins []string,
	log *logger.Logger,
) (*gin.Engine, error) {
	if err := validation.RegisterGin(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.Logger(log), middleware.Recovery(log))
	r.Use(cors.New(corsConfig(corsOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authenticated := middleware.Authenticate(tokens, log)
	adminOnly := middleware.RequireAdmin(log)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", ac.Register)
			auth.POST("/login", ac.Login)
		}

		rooms := api.Group("/rooms", authenticated)
		{
			rooms.GET("", rc.GetRooms)
			rooms.POST("", adminOnly, rc.CreateRoom)
			rooms.PUT("/:id", adminOnly, rc.UpdateRoom)
			rooms.DELETE("/:id", adminOnly, rc.DeleteRoom)
			rooms.GET("/:id/bookings", adminOnly, rc.GetRoomBookings)
		}

		bookings := api.Group("/bookings", authenticated)
		{
			bookings.POST("", bc.CreateBooking)
			bookings.GET("", adminOnly, bc.GetBookings)
			bookings.GET("/:userId", bc.GetUserBookings)
			bookings.PUT("/:id", adminOnly, bc.UpdateBooking)
			bookings.DELETE("/:id", adminOnly, bc.DeleteBooking)
		}
	}

	return r, nil
}
