package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"hostel-backend/models"
	"hostel-backend/services"
	"hostel-backend/utils"
)

type ReservationController struct {
	ReservationSvc *services.ReservationService
}

func NewReservationController(svc *services.ReservationService) *ReservationController {
	return &ReservationController{ReservationSvc: svc}
}

type CreateReservationRequest struct {
	CheckIn            string   `json:"checkIn" binding:"required"`
	CheckOut           string   `json:"checkOut" binding:"required"`
	QuotedAmount       float64  `json:"quotedAmount" binding:"gte=0"`
	Source             string   `json:"source" binding:"required"`
	GuestPrincipalID   string   `json:"guestPrincipalId" binding:"required"`
	RoomID             string   `json:"roomId" binding:"required"`
	AdditionalGuestIDs []string `json:"additionalGuestIds"`
}

type AmendReservationRequest struct {
	CheckIn      *string  `json:"checkIn"`
	CheckOut     *string  `json:"checkOut"`
	QuotedAmount *float64 `json:"quotedAmount" binding:"omitempty,gte=0"`
}

// TransitionRequest carries the optional date (check-in/out) or the
// reason/note (cancel, no-show, confirm).
type TransitionRequest struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
	Note   string `json:"note"`
}

type ReservationGuestRequest struct {
	GuestID string `json:"guestId" binding:"required"`
}

func (ctrl *ReservationController) CreateReservation(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	checkIn, err := models.ParseDate(req.CheckIn)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	checkOut, err := models.ParseDate(req.CheckOut)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	source, err := models.ParseSource(req.Source)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	res, err := ctrl.ReservationSvc.Create(c.Request.Context(), services.CreateReservationInput{
		CheckIn:            checkIn,
		CheckOut:           checkOut,
		QuotedAmount:       req.QuotedAmount,
		Source:             source,
		PrincipalGuestID:   req.GuestPrincipalID,
		RoomID:             req.RoomID,
		AdditionalGuestIDs: req.AdditionalGuestIDs,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, toReservationResponse(res))
}

// GetReservations supports ?filter=active, ?startDate&endDate, ?checkInDate,
// ?checkOutDate, ?status, ?guestId and ?roomId.
func (ctrl *ReservationController) GetReservations(c *gin.Context) {
	f := services.ReservationFilter{
		ActiveOnly: strings.EqualFold(c.Query("filter"), "active"),
		GuestID:    c.Query("guestId"),
		RoomID:     c.Query("roomId"),
	}
	var err error
	for key, dst := range map[string]**time.Time{
		"startDate":    &f.Start,
		"endDate":      &f.End,
		"checkInDate":  &f.CheckInDate,
		"checkOutDate": &f.CheckOutDate,
	} {
		if *dst, err = queryDate(c, key); err != nil {
			utils.HandleError(c, err)
			return
		}
	}
	if raw := c.Query("status"); raw != "" {
		if f.Status, err = models.ParseStatusType(raw); err != nil {
			utils.HandleError(c, err)
			return
		}
	}

	list, err := ctrl.ReservationSvc.List(c.Request.Context(), f)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, toReservationResponses(list))
}

func (ctrl *ReservationController) GetReservation(c *gin.Context) {
	res, err := ctrl.ReservationSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, toReservationResponse(res))
}

func (ctrl *ReservationController) GetReservationByCode(c *gin.Context) {
	res, err := ctrl.ReservationSvc.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, toReservationResponse(res))
}

func (ctrl *ReservationController) AmendReservation(c *gin.Context) {
	var req AmendReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	in := services.AmendReservationInput{QuotedAmount: req.QuotedAmount}
	var err error
	if req.CheckIn != nil {
		if in.CheckIn, err = optionalDate(*req.CheckIn); err != nil {
			utils.HandleError(c, err)
			return
		}
	}
	if req.CheckOut != nil {
		if in.CheckOut, err = optionalDate(*req.CheckOut); err != nil {
			utils.HandleError(c, err)
			return
		}
	}
	res, err := ctrl.ReservationSvc.Amend(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, toReservationResponse(res))
}

// bindTransition tolerates an empty body: every field is optional.
func bindTransition(c *gin.Context) (TransitionRequest, bool) {
	var req TransitionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BindError(c, err)
			return req, false
		}
	}
	return req, true
}

func (ctrl *ReservationController) transition(c *gin.Context, apply func(req TransitionRequest) (*models.Reservation, error)) {
	req, ok := bindTransition(c)
	if !ok {
		return
	}
	res, err := apply(req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, toReservationResponse(res))
}

func (ctrl *ReservationController) CheckIn(c *gin.Context) {
	ctrl.transition(c, func(req TransitionRequest) (*models.Reservation, error) {
		date, err := optionalDate(req.Date)
		if err != nil {
			return nil, err
		}
		return ctrl.ReservationSvc.CheckIn(c.Request.Context(), c.Param("id"), date)
	})
}

func (ctrl *ReservationController) CheckOut(c *gin.Context) {
	ctrl.transition(c, func(req TransitionRequest) (*models.Reservation, error) {
		date, err := optionalDate(req.Date)
		if err != nil {
			return nil, err
		}
		return ctrl.ReservationSvc.CheckOut(c.Request.Context(), c.Param("id"), date)
	})
}

func (ctrl *ReservationController) Cancel(c *gin.Context) {
	ctrl.transition(c, func(req TransitionRequest) (*models.Reservation, error) {
		return ctrl.ReservationSvc.Cancel(c.Request.Context(), c.Param("id"), firstNonEmpty(req.Reason, req.Note, "Cancelled"))
	})
}

func (ctrl *ReservationController) NoShow(c *gin.Context) {
	ctrl.transition(c, func(req TransitionRequest) (*models.Reservation, error) {
		return ctrl.ReservationSvc.MarkAsNoShow(c.Request.Context(), c.Param("id"), firstNonEmpty(req.Reason, req.Note, "Guest did not arrive"))
	})
}

func (ctrl *ReservationController) Confirm(c *gin.Context) {
	ctrl.transition(c, func(req TransitionRequest) (*models.Reservation, error) {
		return ctrl.ReservationSvc.Confirm(c.Request.Context(), c.Param("id"), firstNonEmpty(req.Note, req.Reason, "Reservation confirmed"))
	})
}

func (ctrl *ReservationController) AddGuest(c *gin.Context) {
	var req ReservationGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	res, err := ctrl.ReservationSvc.AddGuest(c.Request.Context(), c.Param("id"), req.GuestID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, toReservationResponse(res))
}

func (ctrl *ReservationController) RemoveGuest(c *gin.Context) {
	res, err := ctrl.ReservationSvc.RemoveGuest(c.Request.Context(), c.Param("id"), c.Param("guestId"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, toReservationResponse(res))
}

func (ctrl *ReservationController) DeleteReservation(c *gin.Context) {
	if err := ctrl.ReservationSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
