package repositories

import (
	"context"
	"errors"
	"time"

	"hostel-backend/models"
)

// ErrNotFound is returned by Find* lookups that match nothing.
var ErrNotFound = errors.New("record not found")

type GuestRepository interface {
	Save(ctx context.Context, g *models.Guest) error
	FindByID(ctx context.Context, id string) (*models.Guest, error)
	FindByEmail(ctx context.Context, email string) (*models.Guest, error)
	FindByDocumentNumber(ctx context.Context, documentNumber string) (*models.Guest, error)
	FindAll(ctx context.Context) ([]*models.Guest, error)
	SearchByName(ctx context.Context, name string) ([]*models.Guest, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type RoomTypeRepository interface {
	Save(ctx context.Context, rt *models.RoomType) error
	FindByID(ctx context.Context, id string) (*models.RoomType, error)
	FindByName(ctx context.Context, name string) (*models.RoomType, error)
	FindAll(ctx context.Context) ([]*models.RoomType, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type RoomRepository interface {
	Save(ctx context.Context, r *models.Room) error
	FindByID(ctx context.Context, id string) (*models.Room, error)
	FindByRoomNumber(ctx context.Context, number int) (*models.Room, error)
	FindAll(ctx context.Context) ([]*models.Room, error)
	FindByStatus(ctx context.Context, status models.RoomStatus) ([]*models.Room, error)
	// FindAvailableRooms returns AVAILABLE rooms with no active reservation overlapping [checkIn, checkOut).
	FindAvailableRooms(ctx context.Context, checkIn, checkOut time.Time) ([]*models.Room, error)
	FindAvailableByCapacity(ctx context.Context, minCapacity int, checkIn, checkOut time.Time) ([]*models.Room, error)
	ExistsByRoomNumber(ctx context.Context, number int) (bool, error)
	Delete(ctx context.Context, id string) error
}

type ReservationRepository interface {
	Save(ctx context.Context, r *models.Reservation) error
	FindByID(ctx context.Context, id string) (*models.Reservation, error)
	FindByReservationCode(ctx context.Context, code string) (*models.Reservation, error)
	FindAll(ctx context.Context) ([]*models.Reservation, error)
	FindByGuest(ctx context.Context, guestID string) ([]*models.Reservation, error)
	FindByRoom(ctx context.Context, roomID string) ([]*models.Reservation, error)
	FindByStatus(ctx context.Context, status models.StatusType) ([]*models.Reservation, error)
	// FindByDateRange matches reservations with checkIn <= end and checkOut >= start.
	FindByDateRange(ctx context.Context, start, end time.Time) ([]*models.Reservation, error)
	FindActiveReservations(ctx context.Context) ([]*models.Reservation, error)
	FindCheckInsForDate(ctx context.Context, date time.Time) ([]*models.Reservation, error)
	FindCheckOutsForDate(ctx context.Context, date time.Time) ([]*models.Reservation, error)
	FindOverlappingReservations(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*models.Reservation, error)
	Delete(ctx context.Context, id string) error
}

// Store groups the repositories behind one unit of work.
//
// Implementations must make Transaction atomic: either every write done
// through the tx Store is committed or none is. LockRoom must hold an
// exclusive per-room lock until the surrounding transaction ends, so that
// an overlap check followed by an insert cannot interleave with another
// one for the same room.
type Store interface {
	Guests() GuestRepository
	RoomTypes() RoomTypeRepository
	Rooms() RoomRepository
	Reservations() ReservationRepository

	Transaction(ctx context.Context, fn func(tx Store) error) error
	LockRoom(ctx context.Context, roomID string) error
}
