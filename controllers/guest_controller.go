package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hostel-backend/models"
	"hostel-backend/services"
	"hostel-backend/utils"
)

type GuestController struct {
	GuestSvc *services.GuestService
}

func NewGuestController(svc *services.GuestService) *GuestController {
	return &GuestController{GuestSvc: svc}
}

type CreateGuestRequest struct {
	FirstName      string `json:"firstName" binding:"required"`
	LastName       string `json:"lastName" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone"`
	DateOfBirth    string `json:"dateOfBirth"`
	Nationality    string `json:"nationality" binding:"required"`
	DocumentNumber string `json:"documentNumber" binding:"required"`
	DocumentType   string `json:"documentType" binding:"required"`
}

// UpdateGuestRequest is a partial update; absent fields keep their value.
type UpdateGuestRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"dateOfBirth"`
}

type GuestNoteRequest struct {
	Text  string `json:"text" binding:"required"`
	Level string `json:"level"`
}

func (ctrl *GuestController) CreateGuest(c *gin.Context) {
	var req CreateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	dob, err := optionalDate(req.DateOfBirth)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	nationality, err := models.ParseNationality(req.Nationality)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	docType, err := models.ParseDocumentType(req.DocumentType)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	guest, err := ctrl.GuestSvc.Create(c.Request.Context(), models.NewGuestParams{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		DateOfBirth:    dob,
		Nationality:    nationality,
		DocumentNumber: req.DocumentNumber,
		DocumentType:   docType,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, toGuestResponse(guest))
}

// GetGuests lists every guest, or searches by name with ?search=.
func (ctrl *GuestController) GetGuests(c *gin.Context) {
	guests, err := ctrl.GuestSvc.Search(c.Request.Context(), c.Query("search"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, toGuestResponses(guests))
}

func (ctrl *GuestController) GetGuest(c *gin.Context) {
	guest, err := ctrl.GuestSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, toGuestResponse(guest))
}

func (ctrl *GuestController) UpdateGuest(c *gin.Context) {
	var req UpdateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}

	update := services.GuestUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	if req.DateOfBirth != nil {
		dob, err := optionalDate(*req.DateOfBirth)
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		update.DateOfBirth, update.DateOfBirthSet = dob, true
	}

	guest, err := ctrl.GuestSvc.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, toGuestResponse(guest))
}

func (ctrl *GuestController) SetGuestNote(c *gin.Context) {
	var req GuestNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	level := models.NoteInfo
	if req.Level != "" {
		var err error
		if level, err = models.ParseNoteLevel(req.Level); err != nil {
			utils.HandleError(c, err)
			return
		}
	}
	guest, err := ctrl.GuestSvc.SetNote(c.Request.Context(), c.Param("id"), req.Text, level)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, toGuestResponse(guest))
}

func (ctrl *GuestController) DeleteGuest(c *gin.Context) {
	if err := ctrl.GuestSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
