package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"hostel-backend/locks"
	"hostel-backend/models"
	"hostel-backend/repositories"
)

const maxCodeAttempts = 5

var errCodeExhausted = errors.New("could not generate a unique reservation code")

type ReservationService struct {
	store  repositories.Store
	locker locks.RoomLocker
	log    logrus.FieldLogger
}

func NewReservationService(store repositories.Store, locker locks.RoomLocker, log logrus.FieldLogger) *ReservationService {
	return &ReservationService{store: store, locker: locker, log: log.WithField("component", "reservations")}
}

type CreateReservationInput struct {
	CheckIn            time.Time
	CheckOut           time.Time
	QuotedAmount       float64
	Source             models.Source
	PrincipalGuestID   string
	RoomID             string
	AdditionalGuestIDs []string
}

// Create books a room. The room lock is held from the availability checks
// until the reservation is persisted.
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (*models.Reservation, error) {
	res, err := models.NewReservation(models.NewReservationParams{
		CheckIn:          in.CheckIn,
		CheckOut:         in.CheckOut,
		QuotedAmount:     in.QuotedAmount,
		Source:           in.Source,
		PrincipalGuestID: in.PrincipalGuestID,
		RoomID:           in.RoomID,
	})
	if err != nil {
		return nil, err
	}
	additional := dedupeGuests(in.PrincipalGuestID, in.AdditionalGuestIDs)

	release, err := s.locker.Lock(ctx, in.RoomID)
	if err != nil {
		return nil, fmt.Errorf("lock room %s: %w", in.RoomID, err)
	}
	defer release()

	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.Guests().FindByID(ctx, in.PrincipalGuestID); err != nil {
			return lookupErr(err, "Guest", in.PrincipalGuestID)
		}
		if err := tx.LockRoom(ctx, in.RoomID); err != nil {
			return lookupErr(err, "Room", in.RoomID)
		}
		room, err := tx.Rooms().FindByID(ctx, in.RoomID)
		if err != nil {
			return lookupErr(err, "Room", in.RoomID)
		}
		if !room.IsAvailable() {
			return models.BusinessRule("room %d is not available", room.RoomNumber())
		}
		if err := s.checkOverlap(ctx, tx, room, res.ID(), res.CheckInDate(), res.CheckOutDate()); err != nil {
			return err
		}
		if err := s.checkCapacity(ctx, tx, room, 1+len(additional)); err != nil {
			return err
		}
		for _, gid := range additional {
			if _, err := tx.Guests().FindByID(ctx, gid); err != nil {
				return lookupErr(err, "Guest", gid)
			}
			if err := res.AddGuest(gid); err != nil {
				return err
			}
		}
		if err := s.ensureUniqueCode(ctx, tx, res); err != nil {
			return err
		}
		return persist(tx.Reservations().Save(ctx, res), "reservation")
	})
	if err != nil {
		s.log.WithError(err).WithField("room_id", in.RoomID).Info("reservation rejected")
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"reservation_id": res.ID(),
		"code":           res.Code(),
		"room_id":        res.RoomID(),
	}).Info("reservation created")
	return res, nil
}

func dedupeGuests(principal string, ids []string) []string {
	seen := map[string]bool{principal: true}
	var out []string
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// checkOverlap rejects when another active reservation on the room overlaps [in, out).
func (s *ReservationService) checkOverlap(ctx context.Context, tx repositories.Store, room *models.Room, selfID string, in, out time.Time) error {
	existing, err := tx.Reservations().FindOverlappingReservations(ctx, room.ID(), in, out)
	if err != nil {
		return fmt.Errorf("check overlapping reservations: %w", err)
	}
	for _, r := range existing {
		if r.ID() != selfID && r.IsActive() && r.OverlapsWith(in, out) {
			return models.BusinessRule("room %d is already reserved for the selected dates", room.RoomNumber())
		}
	}
	return nil
}

func (s *ReservationService) checkCapacity(ctx context.Context, tx repositories.Store, room *models.Room, guests int) error {
	rt, err := tx.RoomTypes().FindByID(ctx, room.RoomTypeID())
	if err != nil {
		return lookupErr(err, "RoomType", room.RoomTypeID())
	}
	if !room.CanAccommodate(rt, guests) {
		return models.BusinessRule("capacity exceeded: room %d allows %d guests, got %d",
			room.RoomNumber(), rt.MaxOccupancy(), guests)
	}
	return nil
}

func (s *ReservationService) ensureUniqueCode(ctx context.Context, tx repositories.Store, res *models.Reservation) error {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		_, err := tx.Reservations().FindByReservationCode(ctx, res.Code())
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("check reservation code: %w", err)
		}
		s.log.WithField("attempt", attempt+1).Debug("reservation code collision, retrying")
		res.RenewCode()
	}
	return errCodeExhausted
}

func (s *ReservationService) Get(ctx context.Context, id string) (*models.Reservation, error) {
	r, err := s.store.Reservations().FindByID(ctx, id)
	return found(r, err, "Reservation", id)
}

func (s *ReservationService) GetByCode(ctx context.Context, code string) (*models.Reservation, error) {
	r, err := s.store.Reservations().FindByReservationCode(ctx, code)
	return found(r, err, "Reservation", code)
}

// ReservationFilter selects one listing; the first non-empty criterion wins
// in field order.
type ReservationFilter struct {
	ActiveOnly   bool
	Start, End   *time.Time
	CheckInDate  *time.Time
	CheckOutDate *time.Time
	Status       models.StatusType
	GuestID      string
	RoomID       string
}

func (s *ReservationService) List(ctx context.Context, f ReservationFilter) ([]*models.Reservation, error) {
	repo := s.store.Reservations()
	switch {
	case f.ActiveOnly:
		return repo.FindActiveReservations(ctx)
	case f.Start != nil || f.End != nil:
		if f.Start == nil || f.End == nil {
			return nil, models.Validation("both startDate and endDate are required")
		}
		if f.End.Before(*f.Start) {
			return nil, models.Validation("endDate must not be before startDate")
		}
		return repo.FindByDateRange(ctx, *f.Start, *f.End)
	case f.CheckInDate != nil:
		return repo.FindCheckInsForDate(ctx, *f.CheckInDate)
	case f.CheckOutDate != nil:
		return repo.FindCheckOutsForDate(ctx, *f.CheckOutDate)
	case f.Status != "":
		if !f.Status.Valid() {
			return nil, models.Validation("invalid status: %s", f.Status)
		}
		return repo.FindByStatus(ctx, f.Status)
	case f.GuestID != "":
		return repo.FindByGuest(ctx, f.GuestID)
	case f.RoomID != "":
		return repo.FindByRoom(ctx, f.RoomID)
	}
	return repo.FindAll(ctx)
}

// mutate reloads the reservation under its room lock, applies fn and saves
// the reservation. fn saves the room itself when it changed it.
func (s *ReservationService) mutate(ctx context.Context, id string, fn func(tx repositories.Store, res *models.Reservation) error) (*models.Reservation, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	roomID := current.RoomID()

	release, err := s.locker.Lock(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("lock room %s: %w", roomID, err)
	}
	defer release()

	var out *models.Reservation
	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		if err := tx.LockRoom(ctx, roomID); err != nil {
			return lookupErr(err, "Room", roomID)
		}
		res, err := tx.Reservations().FindByID(ctx, id)
		if err != nil {
			return lookupErr(err, "Reservation", id)
		}
		if err := fn(tx, res); err != nil {
			return err
		}
		out = res
		return persist(tx.Reservations().Save(ctx, res), "reservation")
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ReservationService) loadRoom(ctx context.Context, tx repositories.Store, id string) (*models.Room, error) {
	r, err := tx.Rooms().FindByID(ctx, id)
	return found(r, err, "Room", id)
}

// releasable returns the room when ending res should free it: not out of
// service and not occupied by another checked-in reservation.
func (s *ReservationService) releasable(ctx context.Context, tx repositories.Store, res *models.Reservation, room *models.Room) (*models.Room, error) {
	if room.Status() == models.RoomOutOfService {
		return nil, nil
	}
	others, err := tx.Reservations().FindByRoom(ctx, room.ID())
	if err != nil {
		return nil, fmt.Errorf("load room reservations: %w", err)
	}
	for _, o := range others {
		if o.ID() != res.ID() && o.Status().Type == models.StatusCheckedIn {
			return nil, nil
		}
	}
	return room, nil
}

// withRoom loads the reservation's room, runs fn and saves the room if fn succeeded.
func (s *ReservationService) withRoom(ctx context.Context, tx repositories.Store, res *models.Reservation, fn func(room *models.Room) error) error {
	room, err := s.loadRoom(ctx, tx, res.RoomID())
	if err != nil {
		return err
	}
	before := room.Status()
	if err := fn(room); err != nil {
		return err
	}
	if room.Status() == before {
		return nil
	}
	return persist(tx.Rooms().Save(ctx, room), "room")
}

func dateOrToday(d *time.Time) time.Time {
	if d == nil || d.IsZero() {
		return models.Today()
	}
	return models.DateOnly(*d)
}

// CheckIn opens the stay and marks the room occupied. A nil date means today.
func (s *ReservationService) CheckIn(ctx context.Context, id string, date *time.Time) (*models.Reservation, error) {
	arrival := dateOrToday(date)
	res, err := s.mutate(ctx, id, func(tx repositories.Store, res *models.Reservation) error {
		return s.withRoom(ctx, tx, res, func(room *models.Room) error {
			return res.CheckIn(arrival, room)
		})
	})
	if err != nil {
		return nil, err
	}
	s.logTransition(res)
	return res, nil
}

// CheckOut closes the stay and frees the room. A nil date means today.
func (s *ReservationService) CheckOut(ctx context.Context, id string, date *time.Time) (*models.Reservation, error) {
	departure := dateOrToday(date)
	res, err := s.mutate(ctx, id, func(tx repositories.Store, res *models.Reservation) error {
		return s.withRoom(ctx, tx, res, func(room *models.Room) error {
			free, err := s.releasable(ctx, tx, res, room)
			if err != nil {
				return err
			}
			return res.CheckOut(departure, free)
		})
	})
	if err != nil {
		return nil, err
	}
	s.logTransition(res)
	return res, nil
}

func (s *ReservationService) Cancel(ctx context.Context, id, reason string) (*models.Reservation, error) {
	res, err := s.mutate(ctx, id, func(tx repositories.Store, res *models.Reservation) error {
		return s.withRoom(ctx, tx, res, func(room *models.Room) error {
			free, err := s.releasable(ctx, tx, res, room)
			if err != nil {
				return err
			}
			return res.Cancel(reason, free)
		})
	})
	if err != nil {
		return nil, err
	}
	s.logTransition(res)
	return res, nil
}

func (s *ReservationService) MarkAsNoShow(ctx context.Context, id, reason string) (*models.Reservation, error) {
	res, err := s.mutate(ctx, id, func(tx repositories.Store, res *models.Reservation) error {
		return s.withRoom(ctx, tx, res, func(room *models.Room) error {
			free, err := s.releasable(ctx, tx, res, room)
			if err != nil {
				return err
			}
			return res.MarkAsNoShow(reason, free)
		})
	})
	if err != nil {
		return nil, err
	}
	s.logTransition(res)
	return res, nil
}

func (s *ReservationService) Confirm(ctx context.Context, id, note string) (*models.Reservation, error) {
	return s.mutate(ctx, id, func(_ repositories.Store, res *models.Reservation) error {
		return res.Confirm(note)
	})
}

func (s *ReservationService) logTransition(res *models.Reservation) {
	s.log.WithFields(logrus.Fields{
		"reservation_id": res.ID(),
		"room_id":        res.RoomID(),
		"status":         res.Status().Type,
	}).Info("reservation status changed")
}

// AddGuest adds a member, keeping the total within the room type's capacity.
func (s *ReservationService) AddGuest(ctx context.Context, id, guestID string) (*models.Reservation, error) {
	return s.mutate(ctx, id, func(tx repositories.Store, res *models.Reservation) error {
		if res.Status().Type.Terminal() {
			return models.IllegalState("cannot change guests of a %s reservation", res.Status().Type.DisplayName())
		}
		if _, err := tx.Guests().FindByID(ctx, guestID); err != nil {
			return lookupErr(err, "Guest", guestID)
		}
		if res.HasGuest(guestID) {
			return nil
		}
		room, err := s.loadRoom(ctx, tx, res.RoomID())
		if err != nil {
			return err
		}
		if err := s.checkCapacity(ctx, tx, room, res.GuestCount()+1); err != nil {
			return err
		}
		return res.AddGuest(guestID)
	})
}

func (s *ReservationService) RemoveGuest(ctx context.Context, id, guestID string) (*models.Reservation, error) {
	return s.mutate(ctx, id, func(_ repositories.Store, res *models.Reservation) error {
		if res.Status().Type.Terminal() {
			return models.IllegalState("cannot change guests of a %s reservation", res.Status().Type.DisplayName())
		}
		return res.RemoveGuest(guestID)
	})
}

type AmendReservationInput struct {
	CheckIn      *time.Time
	CheckOut     *time.Time
	QuotedAmount *float64
}

// Amend changes dates and/or quoted amount. New dates are re-checked for
// overlap with the room's other active reservations.
func (s *ReservationService) Amend(ctx context.Context, id string, in AmendReservationInput) (*models.Reservation, error) {
	if in.CheckIn == nil && in.CheckOut == nil && in.QuotedAmount == nil {
		return nil, models.Validation("nothing to update")
	}
	return s.mutate(ctx, id, func(tx repositories.Store, res *models.Reservation) error {
		if in.CheckIn != nil || in.CheckOut != nil {
			checkIn, checkOut := res.CheckInDate(), res.CheckOutDate()
			if in.CheckIn != nil {
				checkIn = *in.CheckIn
			}
			if in.CheckOut != nil {
				checkOut = *in.CheckOut
			}
			if err := res.UpdateDates(checkIn, checkOut); err != nil {
				return err
			}
			room, err := s.loadRoom(ctx, tx, res.RoomID())
			if err != nil {
				return err
			}
			if err := s.checkOverlap(ctx, tx, room, res.ID(), res.CheckInDate(), res.CheckOutDate()); err != nil {
				return err
			}
		}
		if in.QuotedAmount != nil {
			return res.UpdateQuotedAmount(*in.QuotedAmount)
		}
		return nil
	})
}

// Delete removes a reservation that no longer holds its room.
func (s *ReservationService) Delete(ctx context.Context, id string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	release, err := s.locker.Lock(ctx, current.RoomID())
	if err != nil {
		return fmt.Errorf("lock room %s: %w", current.RoomID(), err)
	}
	defer release()

	return s.store.Transaction(ctx, func(tx repositories.Store) error {
		res, err := tx.Reservations().FindByID(ctx, id)
		if err != nil {
			return lookupErr(err, "Reservation", id)
		}
		if res.IsActive() {
			return models.BusinessRule("reservation %s is still %s", res.Code(), res.Status().Type.DisplayName())
		}
		if err := tx.Reservations().Delete(ctx, id); err != nil {
			return lookupErr(err, "Reservation", id)
		}
		s.log.WithField("reservation_id", id).Info("reservation deleted")
		return nil
	})
}

// FindAvailableRooms without dates lists rooms currently AVAILABLE. With
// dates it also drops rooms holding an overlapping active reservation.
// minCapacity <= 0 disables the capacity filter.
func (s *ReservationService) FindAvailableRooms(ctx context.Context, checkIn, checkOut *time.Time, minCapacity int) ([]*models.Room, error) {
	if (checkIn == nil) != (checkOut == nil) {
		return nil, models.Validation("checkIn and checkOut must be given together")
	}
	rooms := s.store.Rooms()
	if checkIn != nil {
		if !models.DateOnly(*checkOut).After(models.DateOnly(*checkIn)) {
			return nil, models.Validation("check-out date must be after check-in date")
		}
		if minCapacity > 0 {
			return rooms.FindAvailableByCapacity(ctx, minCapacity, *checkIn, *checkOut)
		}
		return rooms.FindAvailableRooms(ctx, *checkIn, *checkOut)
	}

	available, err := rooms.FindByStatus(ctx, models.RoomAvailable)
	if err != nil || minCapacity <= 0 {
		return available, err
	}
	types, err := s.store.RoomTypes().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	capacity := make(map[string]int, len(types))
	for _, rt := range types {
		capacity[rt.ID()] = rt.MaxOccupancy()
	}
	out := available[:0]
	for _, r := range available {
		if capacity[r.RoomTypeID()] >= minCapacity {
			out = append(out, r)
		}
	}
	return out, nil
}
