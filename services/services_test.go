package services

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"hostel-backend/locks"
	"hostel-backend/models"
	"hostel-backend/repositories"
)

type fixture struct {
	ctx          context.Context
	store        *repositories.MemoryStore
	guests       *GuestService
	roomTypes    *RoomTypeService
	rooms        *RoomService
	reservations *ReservationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	store := repositories.NewMemoryStore()
	locker := locks.NewLocalLocker()
	return &fixture{
		ctx:          context.Background(),
		store:        store,
		guests:       NewGuestService(store, log),
		roomTypes:    NewRoomTypeService(store, log),
		rooms:        NewRoomService(store, locker, log),
		reservations: NewReservationService(store, locker, log),
	}
}

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

func (f *fixture) guest(t *testing.T, first string) *models.Guest {
	t.Helper()
	g, err := f.guests.Create(f.ctx, models.NewGuestParams{
		FirstName:      first,
		LastName:       "Tester",
		Email:          first + "@example.com",
		Nationality:    "SPAIN",
		DocumentNumber: "DOC-" + first,
		DocumentType:   models.DocumentPassport,
	})
	require.NoError(t, err)
	return g
}

func (f *fixture) room(t *testing.T, number, capacity int) *models.Room {
	t.Helper()
	rt, err := f.roomTypes.Create(f.ctx, RoomTypeInput{
		Name: fmt.Sprintf("Type %d", number), MaxOccupancy: capacity, BasePrice: 40,
	})
	require.NoError(t, err)
	r, err := f.rooms.Create(f.ctx, CreateRoomInput{RoomNumber: number, RoomTypeID: rt.ID(), NumberOfBeds: capacity})
	require.NoError(t, err)
	return r
}

func (f *fixture) reserve(guestID, roomID, in, out string, extra ...string) (*models.Reservation, error) {
	return f.reservations.Create(f.ctx, CreateReservationInput{
		CheckIn:            day(in),
		CheckOut:           day(out),
		QuotedAmount:       100,
		Source:             models.SourceDirect,
		PrincipalGuestID:   guestID,
		RoomID:             roomID,
		AdditionalGuestIDs: extra,
	})
}

func (f *fixture) roomStatus(t *testing.T, id string) models.RoomStatus {
	t.Helper()
	r, err := f.rooms.Get(f.ctx, id)
	require.NoError(t, err)
	return r.Status()
}
