package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hostel-backend/models"
	"hostel-backend/services"
	"hostel-backend/utils"
)

type RoomTypeController struct {
	RoomTypeSvc *services.RoomTypeService
}

func NewRoomTypeController(svc *services.RoomTypeService) *RoomTypeController {
	return &RoomTypeController{RoomTypeSvc: svc}
}

type RoomTypeRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	MaxOccupancy int     `json:"maxOccupancy" binding:"required,gt=0"`
	BasePrice    float64 `json:"basePrice" binding:"required,gt=0"`
}

func (r RoomTypeRequest) input() services.RoomTypeInput {
	return services.RoomTypeInput{
		Name:         r.Name,
		Description:  r.Description,
		MaxOccupancy: r.MaxOccupancy,
		BasePrice:    r.BasePrice,
	}
}

func (ctrl *RoomTypeController) CreateRoomType(c *gin.Context) {
	var req RoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	rt, err := ctrl.RoomTypeSvc.Create(c.Request.Context(), req.input())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, toRoomTypeResponse(rt))
}

func (ctrl *RoomTypeController) GetRoomTypes(c *gin.Context) {
	types, err := ctrl.RoomTypeSvc.List(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	out := make([]RoomTypeResponse, 0, len(types))
	for _, rt := range types {
		out = append(out, toRoomTypeResponse(rt))
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

func (ctrl *RoomTypeController) GetRoomType(c *gin.Context) {
	rt, err := ctrl.RoomTypeSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, toRoomTypeResponse(rt))
}

func (ctrl *RoomTypeController) UpdateRoomType(c *gin.Context) {
	var req RoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	rt, err := ctrl.RoomTypeSvc.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, toRoomTypeResponse(rt))
}

func (ctrl *RoomTypeController) DeleteRoomType(c *gin.Context) {
	if err := ctrl.RoomTypeSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// roomTypeIndex loads every room type keyed by id, for embedding in room responses.
func roomTypeIndex(c *gin.Context, svc *services.RoomTypeService) (map[string]*models.RoomType, error) {
	types, err := svc.List(c.Request.Context())
	if err != nil {
		return nil, err
	}
	idx := make(map[string]*models.RoomType, len(types))
	for _, rt := range types {
		idx[rt.ID()] = rt
	}
	return idx, nil
}
