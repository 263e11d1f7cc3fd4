package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostel-backend/models"
)

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func seedRoom(t *testing.T, store Store, number, capacity int) *models.Room {
	t.Helper()
	ctx := context.Background()
	rt, err := models.NewRoomType(fmt.Sprintf("type-%d", number), "", capacity, 50)
	require.NoError(t, err)
	require.NoError(t, store.RoomTypes().Save(ctx, rt))
	room, err := models.NewRoom(number, rt.ID(), nil)
	require.NoError(t, err)
	require.NoError(t, store.Rooms().Save(ctx, room))
	return room
}

func seedReservation(t *testing.T, store Store, roomID, in, out string) *models.Reservation {
	t.Helper()
	res, err := models.NewReservation(models.NewReservationParams{
		CheckIn: day(in), CheckOut: day(out),
		Source: models.SourceDirect, PrincipalGuestID: "g1", RoomID: roomID,
	})
	require.NoError(t, err)
	require.NoError(t, store.Reservations().Save(context.Background(), res))
	return res
}

// eachStore runs fn against the in-memory store and against the gorm store
// on a throwaway SQLite database.
func eachStore(t *testing.T, fn func(t *testing.T, store Store)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryStore()) })
	t.Run("gorm", func(t *testing.T) { fn(t, newSQLiteStore(t)) })
}

func TestStore_GuestUniqueEmail(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()

		p := models.NewGuestParams{
			FirstName: "Ana", LastName: "Gomez", Email: "ana@example.com",
			Nationality: "COLOMBIA", DocumentNumber: "1", DocumentType: models.DocumentPassport,
		}
		g1, err := models.NewGuest(p)
		require.NoError(t, err)
		require.NoError(t, store.Guests().Save(ctx, g1))

		p.Email = "ANA@example.com"
		g2, err := models.NewGuest(p)
		require.NoError(t, err)
		assert.True(t, models.IsAlreadyExists(store.Guests().Save(ctx, g2)))

		exists, err := store.Guests().ExistsByEmail(ctx, "Ana@Example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		found, err := store.Guests().SearchByName(ctx, "GOM")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, g1.ID(), found[0].ID())

		_, err = store.Guests().FindByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_ReturnsCopies(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		room := seedRoom(t, store, 101, 2)

		loaded, err := store.Rooms().FindByID(ctx, room.ID())
		require.NoError(t, err)
		require.NoError(t, loaded.MarkAsOccupied())

		again, err := store.Rooms().FindByID(ctx, room.ID())
		require.NoError(t, err)
		assert.Equal(t, models.RoomAvailable, again.Status())
	})
}

func TestStore_TransactionRollback(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		room := seedRoom(t, store, 101, 2)

		boom := errors.New("boom")
		err := store.Transaction(ctx, func(tx Store) error {
			r, err := tx.Rooms().FindByID(ctx, room.ID())
			if err != nil {
				return err
			}
			r.MarkAsOutOfService()
			if err := tx.Rooms().Save(ctx, r); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		r, err := store.Rooms().FindByID(ctx, room.ID())
		require.NoError(t, err)
		assert.Equal(t, models.RoomAvailable, r.Status())
	})
}

func TestStore_TransactionCommit(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		room := seedRoom(t, store, 101, 2)

		err := store.Transaction(ctx, func(tx Store) error {
			require.NoError(t, tx.LockRoom(ctx, room.ID()))
			r, err := tx.Rooms().FindByID(ctx, room.ID())
			require.NoError(t, err)
			r.MarkAsOutOfService()
			return tx.Rooms().Save(ctx, r)
		})
		require.NoError(t, err)

		r, err := store.Rooms().FindByID(ctx, room.ID())
		require.NoError(t, err)
		assert.Equal(t, models.RoomOutOfService, r.Status())

		assert.ErrorIs(t, store.LockRoom(ctx, "missing"), ErrNotFound)
	})
}

func TestStore_Overlapping(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		room := seedRoom(t, store, 101, 2)
		existing := seedReservation(t, store, room.ID(), "2024-01-01", "2024-01-05")

		found, err := store.Reservations().FindOverlappingReservations(ctx, room.ID(), day("2024-01-04"), day("2024-01-06"))
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, existing.ID(), found[0].ID())

		found, err = store.Reservations().FindOverlappingReservations(ctx, room.ID(), day("2024-01-05"), day("2024-01-07"))
		require.NoError(t, err)
		assert.Empty(t, found)

		require.NoError(t, existing.Cancel("changed plans", nil))
		require.NoError(t, store.Reservations().Save(ctx, existing))
		found, err = store.Reservations().FindOverlappingReservations(ctx, room.ID(), day("2024-01-02"), day("2024-01-03"))
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestStore_AvailableByCapacity(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		small := seedRoom(t, store, 101, 2)
		big := seedRoom(t, store, 201, 6)
		booked := seedRoom(t, store, 301, 6)
		seedReservation(t, store, booked.ID(), "2024-03-01", "2024-03-10")

		closed := seedRoom(t, store, 401, 6)
		closed.MarkAsOutOfService()
		require.NoError(t, store.Rooms().Save(ctx, closed))

		rooms, err := store.Rooms().FindAvailableByCapacity(ctx, 4, day("2024-03-05"), day("2024-03-07"))
		require.NoError(t, err)
		require.Len(t, rooms, 1)
		assert.Equal(t, big.ID(), rooms[0].ID())

		rooms, err = store.Rooms().FindAvailableRooms(ctx, day("2024-03-10"), day("2024-03-12"))
		require.NoError(t, err)
		ids := []string{}
		for _, r := range rooms {
			ids = append(ids, r.ID())
		}
		assert.Equal(t, []string{small.ID(), big.ID(), booked.ID()}, ids)
	})
}

func TestStore_ReservationListings(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		room := seedRoom(t, store, 101, 2)
		a := seedReservation(t, store, room.ID(), "2024-01-01", "2024-01-03")
		b := seedReservation(t, store, room.ID(), "2024-01-03", "2024-01-06")
		require.NoError(t, b.AddGuest("g2"))
		require.NoError(t, store.Reservations().Save(ctx, b))

		inRange, err := store.Reservations().FindByDateRange(ctx, day("2024-01-03"), day("2024-01-03"))
		require.NoError(t, err)
		assert.Len(t, inRange, 2)

		checkIns, err := store.Reservations().FindCheckInsForDate(ctx, day("2024-01-03"))
		require.NoError(t, err)
		require.Len(t, checkIns, 1)
		assert.Equal(t, b.ID(), checkIns[0].ID())

		byGuest, err := store.Reservations().FindByGuest(ctx, "g2")
		require.NoError(t, err)
		require.Len(t, byGuest, 1)
		assert.Equal(t, []string{"g1", "g2"}, byGuest[0].GuestIDs())

		byCode, err := store.Reservations().FindByReservationCode(ctx, a.Code())
		require.NoError(t, err)
		assert.Equal(t, a.ID(), byCode.ID())

		dup := models.HydrateReservation(models.ReservationSnapshot{
			ID: "other", Code: a.Code(), CheckIn: day("2025-01-01"), CheckOut: day("2025-01-02"),
			Status: models.NewReservationStatus(models.StatusConfirmed, ""), PrincipalGuestID: "g1", RoomID: room.ID(),
		})
		assert.True(t, models.IsAlreadyExists(store.Reservations().Save(ctx, dup)))
	})
}
