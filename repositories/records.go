package repositories

import (
	"encoding/json"
	"sort"
	"time"

	"gorm.io/datatypes"

	"hostel-backend/models"
)

// Row types for the gorm store. Domain aggregates never carry gorm tags.

type GuestRecord struct {
	ID             string          `gorm:"primaryKey;type:varchar(36)"`
	FirstName      string          `gorm:"column:first_name;size:100;not null;index"`
	LastName       string          `gorm:"column:last_name;size:100;not null;index"`
	Email          string          `gorm:"column:email;size:255;not null;uniqueIndex"`
	Phone          string          `gorm:"column:phone;size:50"`
	DateOfBirth    *datatypes.Date `gorm:"column:date_of_birth"`
	Nationality    string          `gorm:"column:nationality;size:50;not null"`
	DocumentNumber string          `gorm:"column:document_number;size:100;not null;index"`
	DocumentType   string          `gorm:"column:document_type;size:50;not null"`
	NoteID         *string         `gorm:"column:note_id;size:36"`
	NoteText       *string         `gorm:"column:note_text;type:text"`
	NoteLevel      *string         `gorm:"column:note_level;size:20"`
	CreatedAt      datatypes.Date  `gorm:"column:created_at;not null"`
}

func (GuestRecord) TableName() string { return "guests" }

type RoomTypeRecord struct {
	ID           string  `gorm:"primaryKey;type:varchar(36)"`
	Name         string  `gorm:"column:name;size:100;not null;uniqueIndex"`
	Description  string  `gorm:"column:description;type:text"`
	MaxOccupancy int     `gorm:"column:max_occupancy;not null"`
	BasePrice    float64 `gorm:"column:base_price;not null"`
}

func (RoomTypeRecord) TableName() string { return "room_types" }

type RoomRecord struct {
	ID         string         `gorm:"primaryKey;type:varchar(36)"`
	RoomNumber int            `gorm:"column:room_number;not null;uniqueIndex"`
	RoomTypeID string         `gorm:"column:room_type_id;type:varchar(36);not null;index"`
	Status     string         `gorm:"column:status;size:20;not null;index"`
	Amenities  datatypes.JSON `gorm:"column:amenities"`
	CreatedAt  datatypes.Date `gorm:"column:created_at;not null"`

	RoomType RoomTypeRecord `gorm:"foreignKey:RoomTypeID;references:ID"`
	Beds     []BedRecord    `gorm:"foreignKey:RoomID;references:ID;constraint:OnDelete:CASCADE"`
}

func (RoomRecord) TableName() string { return "rooms" }

type BedRecord struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	RoomID    string `gorm:"column:room_id;type:varchar(36);not null;uniqueIndex:idx_room_bed"`
	BedNumber int    `gorm:"column:bed_number;not null;uniqueIndex:idx_room_bed"`
}

func (BedRecord) TableName() string { return "beds" }

type ReservationRecord struct {
	ID               string          `gorm:"primaryKey;type:varchar(36)"`
	ReservationCode  string          `gorm:"column:reservation_code;size:20;not null;uniqueIndex"`
	CheckIn          datatypes.Date  `gorm:"column:check_in;not null;index"`
	CheckOut         datatypes.Date  `gorm:"column:check_out;not null;index"`
	StatusID         string          `gorm:"column:status_id;size:36;not null"`
	StatusType       string          `gorm:"column:status_type;size:20;not null;index"`
	StatusNote       string          `gorm:"column:status_note;type:text"`
	QuotedAmount     float64         `gorm:"column:quoted_amount;not null"`
	Source           string          `gorm:"column:source;size:20;not null"`
	CreatedAt        datatypes.Date  `gorm:"column:created_at;not null"`
	GuestPrincipalID string          `gorm:"column:guest_principal_id;type:varchar(36);not null;index"`
	RoomID           string          `gorm:"column:room_id;type:varchar(36);not null;index"`
	StayID           *string         `gorm:"column:stay_id;size:36"`
	StayCheckIn      *datatypes.Date `gorm:"column:stay_check_in"`
	StayCheckOut     *datatypes.Date `gorm:"column:stay_check_out"`

	Guests []ReservationGuestRecord `gorm:"foreignKey:ReservationID;references:ID;constraint:OnDelete:CASCADE"`
}

func (ReservationRecord) TableName() string { return "reservations" }

// ReservationGuestRecord is the membership table; Position keeps the principal first.
type ReservationGuestRecord struct {
	ReservationID string `gorm:"primaryKey;type:varchar(36)"`
	GuestID       string `gorm:"primaryKey;type:varchar(36);index"`
	Position      int    `gorm:"column:position;not null"`
}

func (ReservationGuestRecord) TableName() string { return "reservation_guests" }

// AllRecords lists every table in migration order.
func AllRecords() []any {
	return []any{
		&GuestRecord{},
		&RoomTypeRecord{},
		&RoomRecord{},
		&BedRecord{},
		&ReservationRecord{},
		&ReservationGuestRecord{},
	}
}

func toDate(t time.Time) datatypes.Date {
	return datatypes.Date(models.DateOnly(t))
}

func toDatePtr(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := toDate(*t)
	return &d
}

func fromDate(d datatypes.Date) time.Time {
	return models.DateOnly(time.Time(d))
}

func fromDatePtr(d *datatypes.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := fromDate(*d)
	return &t
}

func guestToRecord(g *models.Guest) GuestRecord {
	s := g.Snapshot()
	rec := GuestRecord{
		ID:             s.ID,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		Email:          s.Email,
		Phone:          s.Phone,
		DateOfBirth:    toDatePtr(s.DateOfBirth),
		Nationality:    string(s.Nationality),
		DocumentNumber: s.DocumentNumber,
		DocumentType:   string(s.DocumentType),
		CreatedAt:      toDate(s.CreatedAt),
	}
	if s.Note != nil {
		level := string(s.Note.Level)
		rec.NoteID, rec.NoteText, rec.NoteLevel = &s.Note.ID, &s.Note.Text, &level
	}
	return rec
}

func guestFromRecord(rec GuestRecord) *models.Guest {
	s := models.GuestSnapshot{
		ID:             rec.ID,
		FirstName:      rec.FirstName,
		LastName:       rec.LastName,
		Email:          rec.Email,
		Phone:          rec.Phone,
		DateOfBirth:    fromDatePtr(rec.DateOfBirth),
		Nationality:    models.Nationality(rec.Nationality),
		DocumentNumber: rec.DocumentNumber,
		DocumentType:   models.DocumentType(rec.DocumentType),
		CreatedAt:      fromDate(rec.CreatedAt),
	}
	if rec.NoteID != nil && rec.NoteText != nil && rec.NoteLevel != nil {
		s.Note = &models.Note{ID: *rec.NoteID, Text: *rec.NoteText, Level: models.NoteLevel(*rec.NoteLevel)}
	}
	return models.HydrateGuest(s)
}

func roomTypeToRecord(rt *models.RoomType) RoomTypeRecord {
	return RoomTypeRecord{
		ID:           rt.ID(),
		Name:         rt.Name(),
		Description:  rt.Description(),
		MaxOccupancy: rt.MaxOccupancy(),
		BasePrice:    rt.BasePrice(),
	}
}

func roomTypeFromRecord(rec RoomTypeRecord) *models.RoomType {
	return models.HydrateRoomType(rec.ID, rec.Name, rec.Description, rec.MaxOccupancy, rec.BasePrice)
}

func roomToRecord(r *models.Room) (RoomRecord, error) {
	s := r.Snapshot()
	amenities, err := json.Marshal(s.Amenities)
	if err != nil {
		return RoomRecord{}, err
	}
	rec := RoomRecord{
		ID:         s.ID,
		RoomNumber: s.RoomNumber,
		RoomTypeID: s.RoomTypeID,
		Status:     string(s.Status),
		Amenities:  datatypes.JSON(amenities),
		CreatedAt:  toDate(s.CreatedAt),
	}
	for _, b := range s.Beds {
		rec.Beds = append(rec.Beds, BedRecord{ID: b.ID, RoomID: s.ID, BedNumber: b.Number})
	}
	return rec, nil
}

func roomFromRecord(rec RoomRecord) (*models.Room, error) {
	var amenities []models.Amenity
	if len(rec.Amenities) > 0 {
		if err := json.Unmarshal(rec.Amenities, &amenities); err != nil {
			return nil, err
		}
	}
	beds := make([]models.Bed, 0, len(rec.Beds))
	for _, b := range rec.Beds {
		beds = append(beds, models.Bed{ID: b.ID, Number: b.BedNumber})
	}
	return models.HydrateRoom(models.RoomSnapshot{
		ID:         rec.ID,
		RoomNumber: rec.RoomNumber,
		RoomTypeID: rec.RoomTypeID,
		Status:     models.RoomStatus(rec.Status),
		Amenities:  amenities,
		Beds:       beds,
		CreatedAt:  fromDate(rec.CreatedAt),
	}), nil
}

func reservationToRecord(r *models.Reservation) ReservationRecord {
	s := r.Snapshot()
	rec := ReservationRecord{
		ID:               s.ID,
		ReservationCode:  s.Code,
		CheckIn:          toDate(s.CheckIn),
		CheckOut:         toDate(s.CheckOut),
		StatusID:         s.Status.ID,
		StatusType:       string(s.Status.Type),
		StatusNote:       s.Status.Note,
		QuotedAmount:     s.QuotedAmount,
		Source:           string(s.Source),
		CreatedAt:        toDate(s.CreatedAt),
		GuestPrincipalID: s.PrincipalGuestID,
		RoomID:           s.RoomID,
	}
	if s.Stay != nil {
		id := s.Stay.ID
		rec.StayID = &id
		rec.StayCheckIn = toDatePtr(&s.Stay.CheckIn)
		rec.StayCheckOut = toDatePtr(s.Stay.CheckOut)
	}
	for i, gid := range s.GuestIDs {
		rec.Guests = append(rec.Guests, ReservationGuestRecord{ReservationID: s.ID, GuestID: gid, Position: i})
	}
	return rec
}

func reservationFromRecord(rec ReservationRecord) *models.Reservation {
	s := models.ReservationSnapshot{
		ID:       rec.ID,
		Code:     rec.ReservationCode,
		CheckIn:  fromDate(rec.CheckIn),
		CheckOut: fromDate(rec.CheckOut),
		Status: models.ReservationStatus{
			ID:   rec.StatusID,
			Type: models.StatusType(rec.StatusType),
			Note: rec.StatusNote,
		},
		QuotedAmount:     rec.QuotedAmount,
		Source:           models.Source(rec.Source),
		CreatedAt:        fromDate(rec.CreatedAt),
		PrincipalGuestID: rec.GuestPrincipalID,
		RoomID:           rec.RoomID,
	}
	if rec.StayID != nil && rec.StayCheckIn != nil {
		s.Stay = &models.Stay{ID: *rec.StayID, CheckIn: fromDate(*rec.StayCheckIn), CheckOut: fromDatePtr(rec.StayCheckOut)}
	}
	guests := append([]ReservationGuestRecord(nil), rec.Guests...)
	sortByPosition(guests)
	for _, g := range guests {
		s.GuestIDs = append(s.GuestIDs, g.GuestID)
	}
	return models.HydrateReservation(s)
}

func sortByPosition(gs []ReservationGuestRecord) {
	sort.SliceStable(gs, func(i, j int) bool { return gs[i].Position < gs[j].Position })
}
