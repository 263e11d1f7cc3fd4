package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hostel-backend/controllers"
	"hostel-backend/middleware"
	"hostel-backend/utils"
)

type Controllers struct {
	Guests       *controllers.GuestController
	RoomTypes    *controllers.RoomTypeController
	Rooms        *controllers.RoomController
	Reservations *controllers.ReservationController
}

// SetupRouter wires middleware and every /api/v1 route.
func SetupRouter(ctl Controllers, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(utils.Logger), middleware.Logger(utils.Logger))

	allowCredentials := true
	for _, origin := range corsOrigins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		guests := api.Group("/guests")
		{
			guests.GET("", ctl.Guests.GetGuests)
			guests.POST("", ctl.Guests.CreateGuest)
			guests.GET("/:id", ctl.Guests.GetGuest)
			guests.PUT("/:id", ctl.Guests.UpdateGuest)
			guests.PUT("/:id/note", ctl.Guests.SetGuestNote)
			guests.DELETE("/:id", ctl.Guests.DeleteGuest)
		}

		roomTypes := api.Group("/room-types")
		{
			roomTypes.GET("", ctl.RoomTypes.GetRoomTypes)
			roomTypes.POST("", ctl.RoomTypes.CreateRoomType)
			roomTypes.GET("/:id", ctl.RoomTypes.GetRoomType)
			roomTypes.PUT("/:id", ctl.RoomTypes.UpdateRoomType)
			roomTypes.DELETE("/:id", ctl.RoomTypes.DeleteRoomType)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", ctl.Rooms.GetRooms)
			rooms.POST("", ctl.Rooms.CreateRoom)
			// must stay ahead of /:id
			rooms.GET("/available", ctl.Rooms.GetAvailableRooms)
			rooms.GET("/:id", ctl.Rooms.GetRoom)
			rooms.PUT("/:id", ctl.Rooms.UpdateRoom)
			rooms.PATCH("/:id/status", ctl.Rooms.UpdateRoomStatus)
			rooms.POST("/:id/beds", ctl.Rooms.AddBed)
			rooms.DELETE("/:id/beds/:number", ctl.Rooms.RemoveBed)
			rooms.POST("/:id/amenities", ctl.Rooms.AddAmenity)
			rooms.DELETE("/:id/amenities/:amenity", ctl.Rooms.RemoveAmenity)
			rooms.DELETE("/:id", ctl.Rooms.DeleteRoom)
		}

		reservations := api.Group("/reservations")
		{
			reservations.GET("", ctl.Reservations.GetReservations)
			reservations.POST("", ctl.Reservations.CreateReservation)
			reservations.GET("/code/:code", ctl.Reservations.GetReservationByCode)
			reservations.GET("/:id", ctl.Reservations.GetReservation)
			reservations.PATCH("/:id", ctl.Reservations.AmendReservation)
			reservations.DELETE("/:id", ctl.Reservations.DeleteReservation)
			reservations.POST("/:id/check-in", ctl.Reservations.CheckIn)
			reservations.POST("/:id/check-out", ctl.Reservations.CheckOut)
			reservations.POST("/:id/cancel", ctl.Reservations.Cancel)
			reservations.POST("/:id/no-show", ctl.Reservations.NoShow)
			reservations.POST("/:id/confirm", ctl.Reservations.Confirm)
			reservations.POST("/:id/guests", ctl.Reservations.AddGuest)
			reservations.DELETE("/:id/guests/:guestId", ctl.Reservations.RemoveGuest)
		}
	}

	return r
}
