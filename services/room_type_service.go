package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"hostel-backend/models"
	"hostel-backend/repositories"
)

type RoomTypeService struct {
	store repositories.Store
	log   logrus.FieldLogger
}

func NewRoomTypeService(store repositories.Store, log logrus.FieldLogger) *RoomTypeService {
	return &RoomTypeService{store: store, log: log.WithField("component", "room_types")}
}

type RoomTypeInput struct {
	Name         string
	Description  string
	MaxOccupancy int
	BasePrice    float64
}

func (s *RoomTypeService) Create(ctx context.Context, in RoomTypeInput) (*models.RoomType, error) {
	rt, err := models.NewRoomType(in.Name, in.Description, in.MaxOccupancy, in.BasePrice)
	if err != nil {
		return nil, err
	}
	exists, err := s.store.RoomTypes().ExistsByName(ctx, rt.Name())
	if err != nil {
		return nil, fmt.Errorf("check room type name: %w", err)
	}
	if exists {
		return nil, models.AlreadyExists("RoomType", rt.Name())
	}
	if err := s.store.RoomTypes().Save(ctx, rt); err != nil {
		return nil, persist(err, "room type")
	}
	s.log.WithField("room_type", rt.Name()).Info("room type created")
	return rt, nil
}

func (s *RoomTypeService) Get(ctx context.Context, id string) (*models.RoomType, error) {
	rt, err := s.store.RoomTypes().FindByID(ctx, id)
	return found(rt, err, "RoomType", id)
}

func (s *RoomTypeService) List(ctx context.Context) ([]*models.RoomType, error) {
	return s.store.RoomTypes().FindAll(ctx)
}

// Update applies details and pricing together; the name stays unique. A
// lower max occupancy is refused while any room of the type holds an active
// reservation with more guests.
func (s *RoomTypeService) Update(ctx context.Context, id string, in RoomTypeInput) (*models.RoomType, error) {
	var rt *models.RoomType
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		current, err := tx.RoomTypes().FindByID(ctx, id)
		if err != nil {
			return lookupErr(err, "RoomType", id)
		}
		if !strings.EqualFold(strings.TrimSpace(in.Name), current.Name()) {
			other, err := tx.RoomTypes().FindByName(ctx, in.Name)
			switch {
			case err == nil && other.ID() != current.ID():
				return models.AlreadyExists("RoomType", in.Name)
			case err != nil && !errors.Is(err, repositories.ErrNotFound):
				return fmt.Errorf("check room type name: %w", err)
			}
		}
		if err := current.UpdateDetails(in.Name, in.Description, in.MaxOccupancy); err != nil {
			return err
		}
		if err := current.UpdatePricing(in.BasePrice); err != nil {
			return err
		}
		if err := s.checkRooms(ctx, tx, current); err != nil {
			return err
		}
		rt = current
		return persist(tx.RoomTypes().Save(ctx, current), "room type")
	})
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// checkRooms locks every room of the type and checks its active
// reservations against the type's occupancy.
func (s *RoomTypeService) checkRooms(ctx context.Context, tx repositories.Store, rt *models.RoomType) error {
	rooms, err := tx.Rooms().FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load rooms: %w", err)
	}
	for _, r := range rooms {
		if r.RoomTypeID() != rt.ID() {
			continue
		}
		if err := tx.LockRoom(ctx, r.ID()); err != nil {
			return lookupErr(err, "Room", r.ID())
		}
		if err := checkOccupancy(ctx, tx, r, rt.MaxOccupancy()); err != nil {
			return err
		}
	}
	return nil
}

// Delete refuses while any room still uses the type.
func (s *RoomTypeService) Delete(ctx context.Context, id string) error {
	return s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.RoomTypes().FindByID(ctx, id); err != nil {
			return lookupErr(err, "RoomType", id)
		}
		rooms, err := tx.Rooms().FindAll(ctx)
		if err != nil {
			return fmt.Errorf("load rooms: %w", err)
		}
		for _, r := range rooms {
			if r.RoomTypeID() == id {
				return models.BusinessRule("room type is used by room %d", r.RoomNumber())
			}
		}
		return persist(tx.RoomTypes().Delete(ctx, id), "room type")
	})
}

// DefaultRoomTypes is the catalog seeded on an empty database.
var DefaultRoomTypes = []RoomTypeInput{
	{Name: "Standard", Description: "Private room for two", MaxOccupancy: 2, BasePrice: 45},
	{Name: "Superior", Description: "Private room for three", MaxOccupancy: 3, BasePrice: 60},
	{Name: "Deluxe", Description: "Private room for four with bathroom", MaxOccupancy: 4, BasePrice: 80},
	{Name: "Dormitory", Description: "Shared dormitory, eight beds", MaxOccupancy: 8, BasePrice: 18},
}

// SeedDefaults creates every default room type that does not exist yet.
func (s *RoomTypeService) SeedDefaults(ctx context.Context) error {
	for _, in := range DefaultRoomTypes {
		exists, err := s.store.RoomTypes().ExistsByName(ctx, in.Name)
		if err != nil {
			return fmt.Errorf("seed room types: %w", err)
		}
		if exists {
			continue
		}
		if _, err := s.Create(ctx, in); err != nil {
			return fmt.Errorf("seed room type %s: %w", in.Name, err)
		}
	}
	return nil
}
