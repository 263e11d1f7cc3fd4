package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewReservationCode produces codes like RES-1A2B3C4D.
var NewReservationCode = func() string {
	return "RES-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// Stay records the actual arrival and, once known, departure.
type Stay struct {
	ID       string
	CheckIn  time.Time
	CheckOut *time.Time
}

func (s Stay) IsActive() bool { return s.CheckOut == nil }

// NightCount counts nights up to departure, or up to now while the stay is open.
func (s Stay) NightCount(now time.Time) int {
	if s.CheckOut == nil {
		return daysBetween(s.CheckIn, now)
	}
	return daysBetween(s.CheckIn, *s.CheckOut)
}

// Reservation aggregate root. Guests and room are referenced by id.
type Reservation struct {
	id               string
	code             string
	checkIn          time.Time
	checkOut         time.Time
	status           ReservationStatus
	quotedAmount     float64
	source           Source
	createdAt        time.Time
	principalGuestID string
	guestIDs         []string
	roomID           string
	stay             *Stay
}

type NewReservationParams struct {
	CheckIn          time.Time
	CheckOut         time.Time
	QuotedAmount     float64
	Source           Source
	PrincipalGuestID string
	RoomID           string
}

func NewReservation(p NewReservationParams) (*Reservation, error) {
	if p.CheckIn.IsZero() || p.CheckOut.IsZero() {
		return nil, Validation("check-in and check-out dates are required")
	}
	in, out := DateOnly(p.CheckIn), DateOnly(p.CheckOut)
	if err := validateDates(in, out); err != nil {
		return nil, err
	}
	if p.QuotedAmount < 0 {
		return nil, Validation("quoted amount cannot be negative")
	}
	if !p.Source.Valid() {
		return nil, Validation("invalid source: %s", p.Source)
	}
	if p.PrincipalGuestID == "" {
		return nil, Validation("principal guest id is required")
	}
	if p.RoomID == "" {
		return nil, Validation("room id is required")
	}
	return &Reservation{
		id:               uuid.NewString(),
		code:             NewReservationCode(),
		checkIn:          in,
		checkOut:         out,
		status:           NewReservationStatus(StatusConfirmed, "Reservation created"),
		quotedAmount:     p.QuotedAmount,
		source:           p.Source,
		createdAt:        Today(),
		principalGuestID: p.PrincipalGuestID,
		guestIDs:         []string{p.PrincipalGuestID},
		roomID:           p.RoomID,
	}, nil
}

type ReservationSnapshot struct {
	ID               string
	Code             string
	CheckIn          time.Time
	CheckOut         time.Time
	Status           ReservationStatus
	QuotedAmount     float64
	Source           Source
	CreatedAt        time.Time
	PrincipalGuestID string
	GuestIDs         []string
	RoomID           string
	Stay             *Stay
}

// HydrateReservation rebuilds a reservation from storage without re-validation.
func HydrateReservation(s ReservationSnapshot) *Reservation {
	r := &Reservation{
		id:               s.ID,
		code:             s.Code,
		checkIn:          s.CheckIn,
		checkOut:         s.CheckOut,
		status:           s.Status,
		quotedAmount:     s.QuotedAmount,
		source:           s.Source,
		createdAt:        s.CreatedAt,
		principalGuestID: s.PrincipalGuestID,
		guestIDs:         append([]string(nil), s.GuestIDs...),
		roomID:           s.RoomID,
		stay:             s.Stay,
	}
	if !r.HasGuest(s.PrincipalGuestID) {
		r.guestIDs = append([]string{s.PrincipalGuestID}, r.guestIDs...)
	}
	return r
}

func (r *Reservation) Snapshot() ReservationSnapshot {
	return ReservationSnapshot{
		ID:               r.id,
		Code:             r.code,
		CheckIn:          r.checkIn,
		CheckOut:         r.checkOut,
		Status:           r.status,
		QuotedAmount:     r.quotedAmount,
		Source:           r.source,
		CreatedAt:        r.createdAt,
		PrincipalGuestID: r.principalGuestID,
		GuestIDs:         r.GuestIDs(),
		RoomID:           r.roomID,
		Stay:             r.stay,
	}
}

// RenewCode replaces the reservation code, used when the generated one collides.
func (r *Reservation) RenewCode() {
	r.code = NewReservationCode()
}

// CheckIn opens the stay and occupies the room.
func (r *Reservation) CheckIn(arrival time.Time, room *Room) error {
	next, err := NextStatus(r.status.Type, EventCheckIn)
	if err != nil {
		return err
	}
	if room != nil {
		if err := room.MarkAsOccupied(); err != nil {
			return err
		}
	}
	r.status = NewReservationStatus(next, "Guest checked in")
	r.stay = &Stay{ID: uuid.NewString(), CheckIn: DateOnly(arrival)}
	return nil
}

// CheckOut closes the open stay and frees the room.
func (r *Reservation) CheckOut(departure time.Time, room *Room) error {
	next, err := NextStatus(r.status.Type, EventCheckOut)
	if err != nil {
		return err
	}
	departure = DateOnly(departure)
	if r.stay != nil && departure.Before(r.stay.CheckIn) {
		return Validation("check-out date %s is before arrival %s",
			departure.Format(DateLayout), r.stay.CheckIn.Format(DateLayout))
	}
	if room != nil {
		room.MarkAsAvailable()
	}
	r.status = NewReservationStatus(next, "Guest checked out")
	if r.stay != nil {
		r.stay = &Stay{ID: r.stay.ID, CheckIn: r.stay.CheckIn, CheckOut: &departure}
	}
	return nil
}

// Cancel moves to CANCELLED. room is released when given. An open stay is
// closed today, or on its check-in day if that is later.
func (r *Reservation) Cancel(reason string, room *Room) error {
	next, err := NextStatus(r.status.Type, EventCancel)
	if err != nil {
		return err
	}
	if room != nil {
		room.MarkAsAvailable()
	}
	r.status = NewReservationStatus(next, reason)
	if r.stay != nil && r.stay.IsActive() {
		departure := Today()
		if departure.Before(r.stay.CheckIn) {
			departure = r.stay.CheckIn
		}
		r.stay = &Stay{ID: r.stay.ID, CheckIn: r.stay.CheckIn, CheckOut: &departure}
	}
	return nil
}

func (r *Reservation) MarkAsNoShow(reason string, room *Room) error {
	next, err := NextStatus(r.status.Type, EventNoShow)
	if err != nil {
		return err
	}
	if room != nil {
		room.MarkAsAvailable()
	}
	r.status = NewReservationStatus(next, reason)
	return nil
}

// Confirm re-asserts CONFIRMED with a new note.
func (r *Reservation) Confirm(note string) error {
	next, err := NextStatus(r.status.Type, EventConfirm)
	if err != nil {
		return err
	}
	r.status = NewReservationStatus(next, note)
	return nil
}

// AddGuest is a no-op when the guest is already a member.
func (r *Reservation) AddGuest(guestID string) error {
	if guestID == "" {
		return Validation("guest id is required")
	}
	if !r.HasGuest(guestID) {
		r.guestIDs = append(r.guestIDs, guestID)
	}
	return nil
}

func (r *Reservation) RemoveGuest(guestID string) error {
	if guestID == r.principalGuestID {
		return BusinessRule("cannot remove principal guest")
	}
	for i, id := range r.guestIDs {
		if id == guestID {
			r.guestIDs = append(r.guestIDs[:i], r.guestIDs[i+1:]...)
			return nil
		}
	}
	return NotFound("Guest", guestID)
}

// UpdateDates is only allowed before check-in.
func (r *Reservation) UpdateDates(checkIn, checkOut time.Time) error {
	if r.status.Type != StatusConfirmed {
		return IllegalState("can only change dates of confirmed reservations")
	}
	in, out := DateOnly(checkIn), DateOnly(checkOut)
	if err := validateDates(in, out); err != nil {
		return err
	}
	r.checkIn, r.checkOut = in, out
	return nil
}

func (r *Reservation) UpdateQuotedAmount(amount float64) error {
	if amount < 0 {
		return Validation("quoted amount cannot be negative")
	}
	r.quotedAmount = amount
	return nil
}

func (r *Reservation) HasGuest(guestID string) bool {
	for _, id := range r.guestIDs {
		if id == guestID {
			return true
		}
	}
	return false
}

func (r *Reservation) OverlapsWith(checkIn, checkOut time.Time) bool {
	return Overlaps(r.checkIn, r.checkOut, DateOnly(checkIn), DateOnly(checkOut))
}

func (r *Reservation) NightCount() int { return daysBetween(r.checkIn, r.checkOut) }
func (r *Reservation) IsActive() bool  { return r.status.Type.Active() }
func (r *Reservation) GuestCount() int { return len(r.guestIDs) }

func (r *Reservation) ID() string                { return r.id }
func (r *Reservation) Code() string              { return r.code }
func (r *Reservation) CheckInDate() time.Time    { return r.checkIn }
func (r *Reservation) CheckOutDate() time.Time   { return r.checkOut }
func (r *Reservation) Status() ReservationStatus { return r.status }
func (r *Reservation) QuotedAmount() float64     { return r.quotedAmount }
func (r *Reservation) Source() Source            { return r.source }
func (r *Reservation) CreatedAt() time.Time      { return r.createdAt }
func (r *Reservation) PrincipalGuestID() string  { return r.principalGuestID }
func (r *Reservation) RoomID() string            { return r.roomID }
func (r *Reservation) Stay() *Stay               { return r.stay }

func (r *Reservation) GuestIDs() []string {
	return append([]string(nil), r.guestIDs...)
}

func validateDates(checkIn, checkOut time.Time) error {
	if !checkOut.After(checkIn) {
		return Validation("check-out date must be after check-in date")
	}
	return nil
}
