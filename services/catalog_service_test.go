package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostel-backend/models"
	"hostel-backend/repositories"
)

func TestGuestService(t *testing.T) {
	f := newFixture(t)
	ana := f.guest(t, "ana")
	f.guest(t, "bob")

	_, err := f.guests.Create(f.ctx, models.NewGuestParams{
		FirstName: "Other", LastName: "Person", Email: "ANA@example.com",
		Nationality: "OTHER", DocumentNumber: "X1", DocumentType: models.DocumentPassport,
	})
	assert.True(t, models.IsAlreadyExists(err))

	found, err := f.guests.Search(f.ctx, "AN")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, ana.ID(), found[0].ID())

	all, err := f.guests.Search(f.ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.guests.UpdateContactInfo(f.ctx, ana.ID(), "bob@example.com", "1")
	assert.True(t, models.IsAlreadyExists(err))
	_, err = f.guests.UpdateContactInfo(f.ctx, ana.ID(), "broken", "1")
	assert.True(t, models.IsValidation(err))

	updated, err := f.guests.UpdateContactInfo(f.ctx, ana.ID(), "ana.new@example.com", "555")
	require.NoError(t, err)
	assert.Equal(t, "ana.new@example.com", updated.Email())

	updated, err = f.guests.UpdatePersonalInfo(f.ctx, ana.ID(), "Ana", "Lopez", nil)
	require.NoError(t, err)
	assert.Equal(t, "Ana Lopez", updated.FullName())

	updated, err = f.guests.SetNote(f.ctx, ana.ID(), "late arrival", models.NoteInfo)
	require.NoError(t, err)
	updated, err = f.guests.SetNote(f.ctx, ana.ID(), "allergies", models.NoteCritical)
	require.NoError(t, err)
	assert.Equal(t, "allergies", updated.Note().Text)

	_, err = f.guests.Get(f.ctx, "missing")
	assert.True(t, models.IsNotFound(err))
}

func TestGuestService_DeleteWithActiveReservation(t *testing.T) {
	f := newFixture(t)
	g := f.guest(t, "g1")
	room := f.room(t, 101, 2)
	res, err := f.reserve(g.ID(), room.ID(), "2024-01-01", "2024-01-02")
	require.NoError(t, err)

	assert.True(t, models.IsBusinessRule(f.guests.Delete(f.ctx, g.ID())))

	_, err = f.reservations.Cancel(f.ctx, res.ID(), "x")
	require.NoError(t, err)
	require.NoError(t, f.guests.Delete(f.ctx, g.ID()))
	assert.True(t, models.IsNotFound(f.guests.Delete(f.ctx, g.ID())))
}

func TestRoomTypeService(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.roomTypes.SeedDefaults(f.ctx))
	require.NoError(t, f.roomTypes.SeedDefaults(f.ctx))

	types, err := f.roomTypes.List(f.ctx)
	require.NoError(t, err)
	assert.Len(t, types, len(DefaultRoomTypes))

	_, err = f.roomTypes.Create(f.ctx, RoomTypeInput{Name: "standard", MaxOccupancy: 2, BasePrice: 10})
	assert.True(t, models.IsAlreadyExists(err))

	superior := types[len(types)-1]
	_, err = f.roomTypes.Update(f.ctx, superior.ID(), RoomTypeInput{Name: "Deluxe", MaxOccupancy: 2, BasePrice: 10})
	assert.True(t, models.IsAlreadyExists(err))

	updated, err := f.roomTypes.Update(f.ctx, superior.ID(), RoomTypeInput{Name: superior.Name(), Description: "renovated", MaxOccupancy: 2, BasePrice: 55})
	require.NoError(t, err)
	assert.Equal(t, 55.0, updated.BasePrice())
	assert.Equal(t, "renovated", updated.Description())

	room, err := f.rooms.Create(f.ctx, CreateRoomInput{RoomNumber: 1, RoomTypeID: superior.ID()})
	require.NoError(t, err)
	assert.True(t, models.IsBusinessRule(f.roomTypes.Delete(f.ctx, superior.ID())))
	require.NoError(t, f.rooms.Delete(f.ctx, room.ID()))
	require.NoError(t, f.roomTypes.Delete(f.ctx, superior.ID()))
}

func TestRoomService(t *testing.T) {
	f := newFixture(t)
	rt, err := f.roomTypes.Create(f.ctx, RoomTypeInput{Name: "Dorm", MaxOccupancy: 6, BasePrice: 15})
	require.NoError(t, err)

	_, err = f.rooms.Create(f.ctx, CreateRoomInput{RoomNumber: 1, RoomTypeID: "missing"})
	assert.True(t, models.IsNotFound(err))

	room, err := f.rooms.Create(f.ctx, CreateRoomInput{
		RoomNumber: 7, RoomTypeID: rt.ID(), NumberOfBeds: 3,
		Amenities: []models.Amenity{models.AmenityWifi},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, room.BedCount())

	_, err = f.rooms.Create(f.ctx, CreateRoomInput{RoomNumber: 7, RoomTypeID: rt.ID()})
	assert.True(t, models.IsAlreadyExists(err))

	_, err = f.rooms.AddBed(f.ctx, room.ID(), 2)
	assert.True(t, models.IsAlreadyExists(err))
	room, err = f.rooms.AddBed(f.ctx, room.ID(), 4)
	require.NoError(t, err)
	assert.Equal(t, 4, room.BedCount())
	_, err = f.rooms.RemoveBed(f.ctx, room.ID(), 9)
	assert.True(t, models.IsNotFound(err))

	room, err = f.rooms.AddAmenity(f.ctx, room.ID(), models.AmenityDesk)
	require.NoError(t, err)
	room, err = f.rooms.RemoveAmenity(f.ctx, room.ID(), models.AmenityWifi)
	require.NoError(t, err)
	assert.Equal(t, []models.Amenity{models.AmenityDesk}, room.Amenities())

	_, err = f.rooms.SetStatus(f.ctx, room.ID(), models.RoomOutOfService)
	require.NoError(t, err)
	_, err = f.rooms.SetStatus(f.ctx, room.ID(), models.RoomOccupied)
	assert.True(t, models.IsBusinessRule(err))

	oos, err := f.rooms.List(f.ctx, models.RoomOutOfService)
	require.NoError(t, err)
	assert.Len(t, oos, 1)
	_, err = f.rooms.List(f.ctx, "BROKEN")
	assert.True(t, models.IsValidation(err))

	_, err = f.rooms.ChangeRoomType(f.ctx, room.ID(), "missing")
	assert.True(t, models.IsNotFound(err))

	byNumber, err := f.rooms.GetByNumber(f.ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, room.ID(), byNumber.ID())
}

func TestRoomService_ChangeRoomTypeKeepsActiveGuestsSeated(t *testing.T) {
	f := newFixture(t)
	g1 := f.guest(t, "g1")
	g2 := f.guest(t, "g2")
	room := f.room(t, 101, 2)
	single, err := f.roomTypes.Create(f.ctx, RoomTypeInput{Name: "Single", MaxOccupancy: 1, BasePrice: 30})
	require.NoError(t, err)

	res, err := f.reserve(g1.ID(), room.ID(), "2024-01-01", "2024-01-05", g2.ID())
	require.NoError(t, err)

	_, err = f.rooms.ChangeRoomType(f.ctx, room.ID(), single.ID())
	require.Error(t, err)
	assert.True(t, models.IsBusinessRule(err))
	assert.Contains(t, err.Error(), "capacity exceeded")

	unchanged, err := f.rooms.Get(f.ctx, room.ID())
	require.NoError(t, err)
	assert.Equal(t, room.RoomTypeID(), unchanged.RoomTypeID())

	_, err = f.reservations.Cancel(f.ctx, res.ID(), "plans changed")
	require.NoError(t, err)
	changed, err := f.rooms.ChangeRoomType(f.ctx, room.ID(), single.ID())
	require.NoError(t, err)
	assert.Equal(t, single.ID(), changed.RoomTypeID())
}

func TestRoomTypeService_UpdateKeepsActiveGuestsSeated(t *testing.T) {
	f := newFixture(t)
	g1 := f.guest(t, "g1")
	g2 := f.guest(t, "g2")
	room := f.room(t, 101, 2)

	_, err := f.reserve(g1.ID(), room.ID(), "2024-01-01", "2024-01-05", g2.ID())
	require.NoError(t, err)

	_, err = f.roomTypes.Update(f.ctx, room.RoomTypeID(), RoomTypeInput{Name: "Type 101", MaxOccupancy: 1, BasePrice: 40})
	require.Error(t, err)
	assert.True(t, models.IsBusinessRule(err))
	assert.Contains(t, err.Error(), "room 101")

	rt, err := f.roomTypes.Get(f.ctx, room.RoomTypeID())
	require.NoError(t, err)
	assert.Equal(t, 2, rt.MaxOccupancy())

	rt, err = f.roomTypes.Update(f.ctx, room.RoomTypeID(), RoomTypeInput{Name: "Type 101", MaxOccupancy: 3, BasePrice: 42})
	require.NoError(t, err)
	assert.Equal(t, 3, rt.MaxOccupancy())
}

func TestGuestService_UpdateIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	ana := f.guest(t, "ana")

	_, err := f.guests.Update(f.ctx, ana.ID(), GuestUpdate{
		Email:     ptr("ana.changed@example.com"),
		FirstName: ptr("   "),
	})
	assert.True(t, models.IsValidation(err))

	stored, err := f.guests.Get(f.ctx, ana.ID())
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", stored.Email())
	assert.Equal(t, "ana", stored.FirstName())

	dob := day("1990-06-01")
	updated, err := f.guests.Update(f.ctx, ana.ID(), GuestUpdate{
		Email:          ptr("ana.changed@example.com"),
		LastName:       ptr("Lopez"),
		DateOfBirth:    &dob,
		DateOfBirthSet: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "ana.changed@example.com", updated.Email())
	assert.Equal(t, "ana Lopez", updated.FullName())
	require.NotNil(t, updated.DateOfBirth())

	updated, err = f.guests.Update(f.ctx, ana.ID(), GuestUpdate{DateOfBirthSet: true})
	require.NoError(t, err)
	assert.Nil(t, updated.DateOfBirth())
	assert.Equal(t, "ana.changed@example.com", updated.Email())
}

// failingLookups fails name and email lookups with err; everything else goes
// to the wrapped store.
type failingLookups struct {
	repositories.Store
	err error
}

type failingGuests struct {
	repositories.GuestRepository
	err error
}

func (r failingGuests) FindByEmail(context.Context, string) (*models.Guest, error) { return nil, r.err }

type failingRoomTypes struct {
	repositories.RoomTypeRepository
	err error
}

func (r failingRoomTypes) FindByName(context.Context, string) (*models.RoomType, error) {
	return nil, r.err
}

func (s failingLookups) Guests() repositories.GuestRepository {
	return failingGuests{s.Store.Guests(), s.err}
}

func (s failingLookups) RoomTypes() repositories.RoomTypeRepository {
	return failingRoomTypes{s.Store.RoomTypes(), s.err}
}

func (s failingLookups) Transaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	return s.Store.Transaction(ctx, func(tx repositories.Store) error {
		return fn(failingLookups{tx, s.err})
	})
}

func TestUniquenessLookupFailuresAreNotIgnored(t *testing.T) {
	f := newFixture(t)
	ana := f.guest(t, "ana")
	room := f.room(t, 101, 2)

	log := logrus.New()
	log.SetOutput(io.Discard)
	broken := failingLookups{Store: f.store, err: errors.New("connection reset")}
	guests := NewGuestService(broken, log)
	roomTypes := NewRoomTypeService(broken, log)

	_, err := guests.Update(f.ctx, ana.ID(), GuestUpdate{Email: ptr("other@example.com")})
	require.Error(t, err)
	assert.Zero(t, models.KindOf(err))
	assert.Contains(t, err.Error(), "connection reset")

	_, err = roomTypes.Update(f.ctx, room.RoomTypeID(), RoomTypeInput{Name: "Renamed", MaxOccupancy: 2, BasePrice: 40})
	require.Error(t, err)
	assert.Zero(t, models.KindOf(err))
	assert.Contains(t, err.Error(), "connection reset")

	stored, err := f.guests.Get(f.ctx, ana.ID())
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", stored.Email())
}
