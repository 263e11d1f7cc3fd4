package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hostel-backend/models"
	"hostel-backend/services"
	"hostel-backend/utils"
)

type RoomController struct {
	RoomSvc        *services.RoomService
	RoomTypeSvc    *services.RoomTypeService
	ReservationSvc *services.ReservationService
}

func NewRoomController(rooms *services.RoomService, roomTypes *services.RoomTypeService, reservations *services.ReservationService) *RoomController {
	return &RoomController{RoomSvc: rooms, RoomTypeSvc: roomTypes, ReservationSvc: reservations}
}

type CreateRoomRequest struct {
	RoomNumber   int      `json:"roomNumber" binding:"required,gt=0"`
	RoomTypeID   string   `json:"roomTypeId" binding:"required"`
	Amenities    []string `json:"amenities"`
	NumberOfBeds int      `json:"numberOfBeds" binding:"gte=0"`
}

type UpdateRoomRequest struct {
	RoomTypeID string `json:"roomTypeId" binding:"required"`
}

type BedRequest struct {
	BedNumber int `json:"bedNumber" binding:"required,gt=0"`
}

type AmenityRequest struct {
	Amenity string `json:"amenity" binding:"required"`
}

type RoomStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (ctrl *RoomController) respondRooms(c *gin.Context, status int, rooms ...*models.Room) {
	idx, err := roomTypeIndex(c, ctrl.RoomTypeSvc)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	out := make([]RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, toRoomResponse(r, idx[r.RoomTypeID()]))
	}
	utils.JSONSuccess(c, status, out)
}

func (ctrl *RoomController) respondRoom(c *gin.Context, status int, room *models.Room) {
	rt, err := ctrl.RoomTypeSvc.Get(c.Request.Context(), room.RoomTypeID())
	if err != nil && !models.IsNotFound(err) {
		utils.HandleError(c, err)
		return
	}
	utils.JSONSuccess(c, status, toRoomResponse(room, rt))
}

func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	amenities := make([]models.Amenity, 0, len(req.Amenities))
	for _, raw := range req.Amenities {
		a, err := models.ParseAmenity(raw)
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		amenities = append(amenities, a)
	}
	room, err := ctrl.RoomSvc.Create(c.Request.Context(), services.CreateRoomInput{
		RoomNumber:   req.RoomNumber,
		RoomTypeID:   req.RoomTypeID,
		Amenities:    amenities,
		NumberOfBeds: req.NumberOfBeds,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ctrl.respondRoom(c, http.StatusCreated, room)
}

// GetRooms lists rooms, optionally filtered with ?status=.
func (ctrl *RoomController) GetRooms(c *gin.Context) {
	var status models.RoomStatus
	if raw := c.Query("status"); raw != "" {
		var err error
		if status, err = models.ParseRoomStatus(raw); err != nil {
			utils.HandleError(c, err)
			return
		}
	}
	rooms, err := ctrl.RoomSvc.List(c.Request.Context(), status)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ctrl.respondRooms(c, http.StatusOK, rooms...)
}

func (ctrl *RoomController) GetRoom(c *gin.Context) {
	room, err := ctrl.RoomSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ctrl.respondRoom(c, http.StatusOK, room)
}

// GetAvailableRooms serves ?checkIn&checkOut&minCapacity.
func (ctrl *RoomController) GetAvailableRooms(c *gin.Context) {
	checkIn, err := queryDate(c, "checkIn")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	checkOut, err := queryDate(c, "checkOut")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	minCapacity, err := queryInt(c, "minCapacity")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	rooms, err := ctrl.ReservationSvc.FindAvailableRooms(c.Request.Context(), checkIn, checkOut, minCapacity)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ctrl.respondRooms(c, http.StatusOK, rooms...)
}

func (ctrl *RoomController) UpdateRoom(c *gin.Context) {
	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	room, err := ctrl.RoomSvc.ChangeRoomType(c.Request.Context(), c.Param("id"), req.RoomTypeID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ctrl.respondRoom(c, http.StatusOK, room)
}

func (ctrl *RoomController) AddBed(c *gin.Context) {
	var req BedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	room, err := ctrl.RoomSvc.AddBed(c.Request.Context(), c.Param("id"), req.BedNumber)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ctrl.respondRoom(c, http.StatusCreated, room)
}

func (ctrl *RoomController) RemoveBed(c *gin.Context) {
	number, err := pathInt(c, "number")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	room, err := ctrl.RoomSvc.RemoveBed(c.Request.Context(), c.Param("id"), number)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ctrl.respondRoom(c, http.StatusOK, room)
}

func (ctrl *RoomController) AddAmenity(c *gin.Context) {
	var req AmenityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	a, err := models.ParseAmenity(req.Amenity)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	room, err := ctrl.RoomSvc.AddAmenity(c.Request.Context(), c.Param("id"), a)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ctrl.respondRoom(c, http.StatusOK, room)
}

func (ctrl *RoomController) RemoveAmenity(c *gin.Context) {
	a, err := models.ParseAmenity(c.Param("amenity"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	room, err := ctrl.RoomSvc.RemoveAmenity(c.Request.Context(), c.Param("id"), a)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ctrl.respondRoom(c, http.StatusOK, room)
}

func (ctrl *RoomController) UpdateRoomStatus(c *gin.Context) {
	var req RoomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	status, err := models.ParseRoomStatus(req.Status)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	room, err := ctrl.RoomSvc.SetStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ctrl.respondRoom(c, http.StatusOK, room)
}

func (ctrl *RoomController) DeleteRoom(c *gin.Context) {
	if err := ctrl.RoomSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
