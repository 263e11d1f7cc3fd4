package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"hostel-backend/locks"
	"hostel-backend/models"
	"hostel-backend/repositories"
)

type RoomService struct {
	store  repositories.Store
	locker locks.RoomLocker
	log    logrus.FieldLogger
}

func NewRoomService(store repositories.Store, locker locks.RoomLocker, log logrus.FieldLogger) *RoomService {
	return &RoomService{store: store, locker: locker, log: log.WithField("component", "rooms")}
}

type CreateRoomInput struct {
	RoomNumber   int
	RoomTypeID   string
	Amenities    []models.Amenity
	NumberOfBeds int
}

// Create adds a room with beds numbered 1..NumberOfBeds.
func (s *RoomService) Create(ctx context.Context, in CreateRoomInput) (*models.Room, error) {
	if in.NumberOfBeds < 0 {
		return nil, models.Validation("number of beds cannot be negative")
	}
	room, err := models.NewRoom(in.RoomNumber, in.RoomTypeID, in.Amenities)
	if err != nil {
		return nil, err
	}
	for n := 1; n <= in.NumberOfBeds; n++ {
		if err := room.AddBed(n); err != nil {
			return nil, err
		}
	}

	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.RoomTypes().FindByID(ctx, in.RoomTypeID); err != nil {
			return lookupErr(err, "RoomType", in.RoomTypeID)
		}
		exists, err := tx.Rooms().ExistsByRoomNumber(ctx, in.RoomNumber)
		if err != nil {
			return fmt.Errorf("check room number: %w", err)
		}
		if exists {
			return models.AlreadyExists("Room", fmt.Sprint(in.RoomNumber))
		}
		return persist(tx.Rooms().Save(ctx, room), "room")
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"room_id": room.ID(), "room_number": room.RoomNumber()}).Info("room created")
	return room, nil
}

func (s *RoomService) Get(ctx context.Context, id string) (*models.Room, error) {
	r, err := s.store.Rooms().FindByID(ctx, id)
	return found(r, err, "Room", id)
}

func (s *RoomService) GetByNumber(ctx context.Context, number int) (*models.Room, error) {
	r, err := s.store.Rooms().FindByRoomNumber(ctx, number)
	return found(r, err, "Room", fmt.Sprint(number))
}

// List returns every room, or only those in status when it is non-empty.
func (s *RoomService) List(ctx context.Context, status models.RoomStatus) ([]*models.Room, error) {
	if status == "" {
		return s.store.Rooms().FindAll(ctx)
	}
	if !status.Valid() {
		return nil, models.Validation("invalid room status: %s", status)
	}
	return s.store.Rooms().FindByStatus(ctx, status)
}

// modify runs fn on a freshly loaded room under the room lock and saves it.
func (s *RoomService) modify(ctx context.Context, id string, fn func(tx repositories.Store, room *models.Room) error) (*models.Room, error) {
	release, err := s.locker.Lock(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lock room %s: %w", id, err)
	}
	defer release()

	var room *models.Room
	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		if err := tx.LockRoom(ctx, id); err != nil {
			return lookupErr(err, "Room", id)
		}
		r, err := tx.Rooms().FindByID(ctx, id)
		if err != nil {
			return lookupErr(err, "Room", id)
		}
		if err := fn(tx, r); err != nil {
			return err
		}
		room = r
		return persist(tx.Rooms().Save(ctx, r), "room")
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *RoomService) AddBed(ctx context.Context, id string, number int) (*models.Room, error) {
	return s.modify(ctx, id, func(_ repositories.Store, r *models.Room) error { return r.AddBed(number) })
}

func (s *RoomService) RemoveBed(ctx context.Context, id string, number int) (*models.Room, error) {
	return s.modify(ctx, id, func(_ repositories.Store, r *models.Room) error { return r.RemoveBed(number) })
}

func (s *RoomService) AddAmenity(ctx context.Context, id string, a models.Amenity) (*models.Room, error) {
	return s.modify(ctx, id, func(_ repositories.Store, r *models.Room) error { return r.AddAmenity(a) })
}

func (s *RoomService) RemoveAmenity(ctx context.Context, id string, a models.Amenity) (*models.Room, error) {
	return s.modify(ctx, id, func(_ repositories.Store, r *models.Room) error {
		r.RemoveAmenity(a)
		return nil
	})
}

// ChangeRoomType refuses a type too small for an active reservation.
func (s *RoomService) ChangeRoomType(ctx context.Context, id, roomTypeID string) (*models.Room, error) {
	return s.modify(ctx, id, func(tx repositories.Store, r *models.Room) error {
		rt, err := tx.RoomTypes().FindByID(ctx, roomTypeID)
		if err != nil {
			return lookupErr(err, "RoomType", roomTypeID)
		}
		if err := checkOccupancy(ctx, tx, r, rt.MaxOccupancy()); err != nil {
			return err
		}
		return r.UpdateRoomType(roomTypeID)
	})
}

// SetStatus is the administrative status change. OCCUPIED is still refused
// for rooms out of service.
func (s *RoomService) SetStatus(ctx context.Context, id string, status models.RoomStatus) (*models.Room, error) {
	room, err := s.modify(ctx, id, func(_ repositories.Store, r *models.Room) error { return r.SetStatus(status) })
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"room_id": id, "status": status}).Info("room status changed")
	return room, nil
}

// Delete refuses while the room holds an active reservation.
func (s *RoomService) Delete(ctx context.Context, id string) error {
	release, err := s.locker.Lock(ctx, id)
	if err != nil {
		return fmt.Errorf("lock room %s: %w", id, err)
	}
	defer release()

	return s.store.Transaction(ctx, func(tx repositories.Store) error {
		if err := tx.LockRoom(ctx, id); err != nil {
			return lookupErr(err, "Room", id)
		}
		reservations, err := tx.Reservations().FindByRoom(ctx, id)
		if err != nil {
			return fmt.Errorf("load room reservations: %w", err)
		}
		for _, r := range reservations {
			if r.IsActive() {
				return models.BusinessRule("room has active reservation %s", r.Code())
			}
		}
		if err := tx.Rooms().Delete(ctx, id); err != nil {
			return lookupErr(err, "Room", id)
		}
		s.log.WithField("room_id", id).Info("room deleted")
		return nil
	})
}
