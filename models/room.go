package models

import (
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Bed lives and dies with its room.
type Bed struct {
	ID     string
	Number int
}

// Room aggregate root. The room type is referenced by id only.
type Room struct {
	id         string
	roomNumber int
	roomTypeID string
	status     RoomStatus
	amenities  []Amenity
	beds       []Bed
	createdAt  time.Time
}

func NewRoom(roomNumber int, roomTypeID string, amenities []Amenity) (*Room, error) {
	if roomNumber <= 0 {
		return nil, Validation("room number must be positive")
	}
	if roomTypeID == "" {
		return nil, Validation("room type id is required")
	}
	r := &Room{
		id:         uuid.NewString(),
		roomNumber: roomNumber,
		roomTypeID: roomTypeID,
		status:     RoomAvailable,
		createdAt:  Today(),
	}
	for _, a := range amenities {
		if err := r.AddAmenity(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

type RoomSnapshot struct {
	ID         string
	RoomNumber int
	RoomTypeID string
	Status     RoomStatus
	Amenities  []Amenity
	Beds       []Bed
	CreatedAt  time.Time
}

func HydrateRoom(s RoomSnapshot) *Room {
	return &Room{
		id:         s.ID,
		roomNumber: s.RoomNumber,
		roomTypeID: s.RoomTypeID,
		status:     s.Status,
		amenities:  append([]Amenity(nil), s.Amenities...),
		beds:       append([]Bed(nil), s.Beds...),
		createdAt:  s.CreatedAt,
	}
}

func (r *Room) Snapshot() RoomSnapshot {
	return RoomSnapshot{
		ID:         r.id,
		RoomNumber: r.roomNumber,
		RoomTypeID: r.roomTypeID,
		Status:     r.status,
		Amenities:  r.Amenities(),
		Beds:       r.Beds(),
		CreatedAt:  r.createdAt,
	}
}

func (r *Room) AddBed(number int) error {
	if number <= 0 {
		return Validation("bed number must be positive")
	}
	for _, b := range r.beds {
		if b.Number == number {
			return AlreadyExists("Bed", strconv.Itoa(number))
		}
	}
	r.beds = append(r.beds, Bed{ID: uuid.NewString(), Number: number})
	sort.Slice(r.beds, func(i, j int) bool { return r.beds[i].Number < r.beds[j].Number })
	return nil
}

func (r *Room) RemoveBed(number int) error {
	for i, b := range r.beds {
		if b.Number == number {
			r.beds = append(r.beds[:i], r.beds[i+1:]...)
			return nil
		}
	}
	return NotFound("Bed", strconv.Itoa(number))
}

func (r *Room) AddAmenity(a Amenity) error {
	if !a.Valid() {
		return Validation("invalid amenity: %s", a)
	}
	for _, existing := range r.amenities {
		if existing == a {
			return nil
		}
	}
	r.amenities = append(r.amenities, a)
	return nil
}

func (r *Room) RemoveAmenity(a Amenity) {
	for i, existing := range r.amenities {
		if existing == a {
			r.amenities = append(r.amenities[:i], r.amenities[i+1:]...)
			return
		}
	}
}

func (r *Room) UpdateRoomType(roomTypeID string) error {
	if roomTypeID == "" {
		return Validation("room type id is required")
	}
	r.roomTypeID = roomTypeID
	return nil
}

func (r *Room) MarkAsAvailable() {
	r.status = RoomAvailable
}

func (r *Room) MarkAsOccupied() error {
	if r.status == RoomOutOfService {
		return IllegalState("room %d is out of service and cannot be occupied", r.roomNumber)
	}
	r.status = RoomOccupied
	return nil
}

func (r *Room) MarkAsOutOfService() {
	r.status = RoomOutOfService
}

// SetStatus applies an administrative status change through the guarded setters.
func (r *Room) SetStatus(s RoomStatus) error {
	switch s {
	case RoomAvailable:
		r.MarkAsAvailable()
	case RoomOccupied:
		return r.MarkAsOccupied()
	case RoomOutOfService:
		r.MarkAsOutOfService()
	default:
		return Validation("invalid room status: %s", s)
	}
	return nil
}

func (r *Room) IsAvailable() bool { return r.status == RoomAvailable }

// CanAccommodate checks guests against the given room type's capacity.
func (r *Room) CanAccommodate(rt *RoomType, guests int) bool {
	return rt != nil && rt.MaxOccupancy() >= guests
}

func (r *Room) ID() string           { return r.id }
func (r *Room) RoomNumber() int      { return r.roomNumber }
func (r *Room) RoomTypeID() string   { return r.roomTypeID }
func (r *Room) Status() RoomStatus   { return r.status }
func (r *Room) CreatedAt() time.Time { return r.createdAt }
func (r *Room) BedCount() int        { return len(r.beds) }

func (r *Room) Amenities() []Amenity {
	return append([]Amenity(nil), r.amenities...)
}

func (r *Room) Beds() []Bed {
	return append([]Bed(nil), r.beds...)
}
