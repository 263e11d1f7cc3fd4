package repositories

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hostel-backend/models"
)

func newSQLiteStore(t *testing.T) *GormStore {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "hostel.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	store := NewGormStore(db)
	require.NoError(t, store.Migrate())
	return store
}

func TestGormStore_RoomRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)
	room := seedRoom(t, store, 101, 4)

	require.NoError(t, room.AddBed(1))
	require.NoError(t, room.AddBed(2))
	require.NoError(t, room.AddAmenity(models.AmenityWifi))
	require.NoError(t, store.Rooms().Save(ctx, room))

	loaded, err := store.Rooms().FindByRoomNumber(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, room.ID(), loaded.ID())
	assert.Equal(t, 2, loaded.BedCount())
	assert.Equal(t, []models.Amenity{models.AmenityWifi}, loaded.Amenities())

	require.NoError(t, loaded.RemoveBed(1))
	require.NoError(t, store.Rooms().Save(ctx, loaded))
	loaded, err = store.Rooms().FindByID(ctx, room.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.BedCount())

	exists, err := store.Rooms().ExistsByRoomNumber(ctx, 101)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Rooms().Delete(ctx, room.ID()))
	assert.ErrorIs(t, store.Rooms().Delete(ctx, room.ID()), ErrNotFound)
}

func TestGormStore_RoomTypeNameIgnoresCase(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	rt, err := models.NewRoomType("Dormitory", "", 8, 18)
	require.NoError(t, err)
	require.NoError(t, store.RoomTypes().Save(ctx, rt))

	clash, err := models.NewRoomType("DORMITORY", "", 6, 15)
	require.NoError(t, err)
	assert.True(t, models.IsAlreadyExists(store.RoomTypes().Save(ctx, clash)))

	require.NoError(t, rt.UpdatePricing(20))
	require.NoError(t, store.RoomTypes().Save(ctx, rt))

	found, err := store.RoomTypes().FindByName(ctx, "dormitory")
	require.NoError(t, err)
	assert.Equal(t, 20.0, found.BasePrice())
}

func TestGormStore_StayRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)
	room := seedRoom(t, store, 101, 2)
	res := seedReservation(t, store, room.ID(), "2024-01-01", "2024-01-05")

	require.NoError(t, res.CheckIn(day("2024-01-01"), nil))
	require.NoError(t, store.Reservations().Save(ctx, res))

	checkOuts, err := store.Reservations().FindCheckOutsForDate(ctx, day("2024-01-05"))
	require.NoError(t, err)
	require.Len(t, checkOuts, 1)
	require.NotNil(t, checkOuts[0].Stay())
	assert.True(t, checkOuts[0].Stay().IsActive())
	assert.Equal(t, day("2024-01-01"), checkOuts[0].Stay().CheckIn)

	require.NoError(t, res.CheckOut(day("2024-01-04"), nil))
	require.NoError(t, store.Reservations().Save(ctx, res))
	loaded, err := store.Reservations().FindByID(ctx, res.ID())
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckedOut, loaded.Status().Type)
	require.NotNil(t, loaded.Stay().CheckOut)
	assert.Equal(t, day("2024-01-04"), *loaded.Stay().CheckOut)

	active, err := store.Reservations().FindActiveReservations(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}
