package controllers

import (
	"time"

	"hostel-backend/models"
)

type NoteResponse struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level string `json:"level"`
}

type GuestResponse struct {
	ID             string        `json:"id"`
	FirstName      string        `json:"firstName"`
	LastName       string        `json:"lastName"`
	FullName       string        `json:"fullName"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone,omitempty"`
	DateOfBirth    *string       `json:"dateOfBirth,omitempty"`
	Nationality    string        `json:"nationality"`
	DocumentNumber string        `json:"documentNumber"`
	DocumentType   string        `json:"documentType"`
	Note           *NoteResponse `json:"note,omitempty"`
	CreatedAt      string        `json:"createdAt"`
}

type RoomTypeResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	MaxOccupancy int     `json:"maxOccupancy"`
	BasePrice    float64 `json:"basePrice"`
}

type BedResponse struct {
	ID     string `json:"id"`
	Number int    `json:"bedNumber"`
}

type RoomResponse struct {
	ID           string            `json:"id"`
	RoomNumber   int               `json:"roomNumber"`
	RoomTypeID   string            `json:"roomTypeId"`
	RoomType     *RoomTypeResponse `json:"roomType,omitempty"`
	Status       string            `json:"status"`
	Amenities    []string          `json:"amenities"`
	Beds         []BedResponse     `json:"beds"`
	NumberOfBeds int               `json:"numberOfBeds"`
	CreatedAt    string            `json:"createdAt"`
}

type StatusResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	DisplayName string `json:"displayName"`
	Note        string `json:"note,omitempty"`
}

type StayResponse struct {
	ID       string  `json:"id"`
	CheckIn  string  `json:"checkIn"`
	CheckOut *string `json:"checkOut,omitempty"`
	Active   bool    `json:"active"`
	Nights   int     `json:"nights"`
}

type ReservationResponse struct {
	ID               string         `json:"id"`
	ReservationCode  string         `json:"reservationCode"`
	CheckIn          string         `json:"checkIn"`
	CheckOut         string         `json:"checkOut"`
	Nights           int            `json:"nights"`
	Status           StatusResponse `json:"status"`
	QuotedAmount     float64        `json:"quotedAmount"`
	Source           string         `json:"source"`
	CreatedAt        string         `json:"createdAt"`
	PrincipalGuestID string         `json:"guestPrincipalId"`
	GuestIDs         []string       `json:"guestIds"`
	GuestCount       int            `json:"guestCount"`
	RoomID           string         `json:"roomId"`
	Active           bool           `json:"active"`
	Stay             *StayResponse  `json:"stay,omitempty"`
}

func formatDate(t time.Time) string { return t.Format(models.DateLayout) }

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

func toGuestResponse(g *models.Guest) GuestResponse {
	out := GuestResponse{
		ID:             g.ID(),
		FirstName:      g.FirstName(),
		LastName:       g.LastName(),
		FullName:       g.FullName(),
		Email:          g.Email(),
		Phone:          g.Phone(),
		DateOfBirth:    formatDatePtr(g.DateOfBirth()),
		Nationality:    string(g.Nationality()),
		DocumentNumber: g.DocumentNumber(),
		DocumentType:   string(g.DocumentType()),
		CreatedAt:      formatDate(g.CreatedAt()),
	}
	if n := g.Note(); n != nil {
		out.Note = &NoteResponse{ID: n.ID, Text: n.Text, Level: string(n.Level)}
	}
	return out
}

func toGuestResponses(gs []*models.Guest) []GuestResponse {
	out := make([]GuestResponse, 0, len(gs))
	for _, g := range gs {
		out = append(out, toGuestResponse(g))
	}
	return out
}

func toRoomTypeResponse(rt *models.RoomType) RoomTypeResponse {
	return RoomTypeResponse{
		ID:           rt.ID(),
		Name:         rt.Name(),
		Description:  rt.Description(),
		MaxOccupancy: rt.MaxOccupancy(),
		BasePrice:    rt.BasePrice(),
	}
}

// toRoomResponse embeds the room type when it is known.
func toRoomResponse(r *models.Room, rt *models.RoomType) RoomResponse {
	out := RoomResponse{
		ID:           r.ID(),
		RoomNumber:   r.RoomNumber(),
		RoomTypeID:   r.RoomTypeID(),
		Status:       string(r.Status()),
		Amenities:    make([]string, 0),
		Beds:         make([]BedResponse, 0),
		NumberOfBeds: r.BedCount(),
		CreatedAt:    formatDate(r.CreatedAt()),
	}
	if rt != nil {
		rtr := toRoomTypeResponse(rt)
		out.RoomType = &rtr
	}
	for _, a := range r.Amenities() {
		out.Amenities = append(out.Amenities, string(a))
	}
	for _, b := range r.Beds() {
		out.Beds = append(out.Beds, BedResponse{ID: b.ID, Number: b.Number})
	}
	return out
}

func toReservationResponse(r *models.Reservation) ReservationResponse {
	st := r.Status()
	out := ReservationResponse{
		ID:              r.ID(),
		ReservationCode: r.Code(),
		CheckIn:         formatDate(r.CheckInDate()),
		CheckOut:        formatDate(r.CheckOutDate()),
		Nights:          r.NightCount(),
		Status: StatusResponse{
			ID:          st.ID,
			Type:        string(st.Type),
			DisplayName: st.Type.DisplayName(),
			Note:        st.Note,
		},
		QuotedAmount:     r.QuotedAmount(),
		Source:           string(r.Source()),
		CreatedAt:        formatDate(r.CreatedAt()),
		PrincipalGuestID: r.PrincipalGuestID(),
		GuestIDs:         r.GuestIDs(),
		GuestCount:       r.GuestCount(),
		RoomID:           r.RoomID(),
		Active:           r.IsActive(),
	}
	if s := r.Stay(); s != nil {
		out.Stay = &StayResponse{
			ID:       s.ID,
			CheckIn:  formatDate(s.CheckIn),
			CheckOut: formatDatePtr(s.CheckOut),
			Active:   s.IsActive(),
			Nights:   s.NightCount(models.Today()),
		}
	}
	return out
}

func toReservationResponses(rs []*models.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, toReservationResponse(r))
	}
	return out
}
