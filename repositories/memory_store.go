package repositories

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"hostel-backend/models"
)

// memoryData holds snapshots, never live aggregates, so callers cannot
// mutate stored state without going through Save.
type memoryData struct {
	guests       map[string]models.GuestSnapshot
	roomTypes    map[string]*models.RoomType
	rooms        map[string]models.RoomSnapshot
	reservations map[string]models.ReservationSnapshot
}

func newMemoryData() *memoryData {
	return &memoryData{
		guests:       map[string]models.GuestSnapshot{},
		roomTypes:    map[string]*models.RoomType{},
		rooms:        map[string]models.RoomSnapshot{},
		reservations: map[string]models.ReservationSnapshot{},
	}
}

func (d *memoryData) clone() *memoryData {
	c := newMemoryData()
	for k, v := range d.guests {
		c.guests[k] = v
	}
	for k, v := range d.roomTypes {
		c.roomTypes[k] = v
	}
	for k, v := range d.rooms {
		c.rooms[k] = v
	}
	for k, v := range d.reservations {
		c.reservations[k] = v
	}
	return c
}

type memoryRoot struct {
	mu   sync.Mutex
	data *memoryData
}

// MemoryStore is the in-process Store used when no database is configured
// and by tests. Transactions are serialized by one mutex and run against a
// copy that replaces the live data only when fn succeeds.
type MemoryStore struct {
	root *memoryRoot
	tx   *memoryData
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{root: &memoryRoot{data: newMemoryData()}}
}

func (s *MemoryStore) Guests() GuestRepository             { return memoryGuests{s} }
func (s *MemoryStore) RoomTypes() RoomTypeRepository       { return memoryRoomTypes{s} }
func (s *MemoryStore) Rooms() RoomRepository               { return memoryRooms{s} }
func (s *MemoryStore) Reservations() ReservationRepository { return memoryReservations{s} }

func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.root.mu.Lock()
	defer s.root.mu.Unlock()

	staged := s.root.data.clone()
	if err := fn(&MemoryStore{root: s.root, tx: staged}); err != nil {
		return err
	}
	s.root.data = staged
	return nil
}

// LockRoom only checks existence: a transaction already owns the whole store.
func (s *MemoryStore) LockRoom(ctx context.Context, roomID string) error {
	return s.with(func(d *memoryData) error {
		if _, ok := d.rooms[roomID]; !ok {
			return ErrNotFound
		}
		return nil
	})
}

// with runs fn against the transaction copy, or the live data under the mutex.
func (s *MemoryStore) with(fn func(d *memoryData) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.root.mu.Lock()
	defer s.root.mu.Unlock()
	return fn(s.root.data)
}

type memoryGuests struct{ s *MemoryStore }

func (r memoryGuests) Save(_ context.Context, g *models.Guest) error {
	snap := g.Snapshot()
	return r.s.with(func(d *memoryData) error {
		for id, other := range d.guests {
			if id != snap.ID && strings.EqualFold(other.Email, snap.Email) {
				return models.AlreadyExists("Guest", snap.Email)
			}
		}
		d.guests[snap.ID] = snap
		return nil
	})
}

func (r memoryGuests) findFirst(match func(models.GuestSnapshot) bool) (*models.Guest, error) {
	var out *models.Guest
	err := r.s.with(func(d *memoryData) error {
		for _, g := range d.guests {
			if match(g) {
				out = models.HydrateGuest(g)
				return nil
			}
		}
		return ErrNotFound
	})
	return out, err
}

func (r memoryGuests) FindByID(_ context.Context, id string) (*models.Guest, error) {
	return r.findFirst(func(g models.GuestSnapshot) bool { return g.ID == id })
}

func (r memoryGuests) FindByEmail(_ context.Context, email string) (*models.Guest, error) {
	email = strings.TrimSpace(email)
	return r.findFirst(func(g models.GuestSnapshot) bool { return strings.EqualFold(g.Email, email) })
}

func (r memoryGuests) FindByDocumentNumber(_ context.Context, documentNumber string) (*models.Guest, error) {
	documentNumber = strings.TrimSpace(documentNumber)
	return r.findFirst(func(g models.GuestSnapshot) bool { return g.DocumentNumber == documentNumber })
}

func (r memoryGuests) filter(match func(models.GuestSnapshot) bool) ([]*models.Guest, error) {
	var snaps []models.GuestSnapshot
	_ = r.s.with(func(d *memoryData) error {
		for _, g := range d.guests {
			if match(g) {
				snaps = append(snaps, g)
			}
		}
		return nil
	})
	sort.Slice(snaps, func(i, j int) bool {
		if snaps[i].LastName != snaps[j].LastName {
			return snaps[i].LastName < snaps[j].LastName
		}
		return snaps[i].FirstName < snaps[j].FirstName
	})
	out := make([]*models.Guest, 0, len(snaps))
	for _, g := range snaps {
		out = append(out, models.HydrateGuest(g))
	}
	return out, nil
}

func (r memoryGuests) FindAll(_ context.Context) ([]*models.Guest, error) {
	return r.filter(func(models.GuestSnapshot) bool { return true })
}

func (r memoryGuests) SearchByName(_ context.Context, name string) ([]*models.Guest, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	return r.filter(func(g models.GuestSnapshot) bool {
		full := strings.ToLower(g.FirstName + " " + g.LastName)
		return strings.Contains(full, needle)
	})
}

func (r memoryGuests) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return existence(err)
}

func (r memoryGuests) Delete(_ context.Context, id string) error {
	return r.s.with(func(d *memoryData) error {
		if _, ok := d.guests[id]; !ok {
			return ErrNotFound
		}
		delete(d.guests, id)
		return nil
	})
}

type memoryRoomTypes struct{ s *MemoryStore }

func (r memoryRoomTypes) Save(_ context.Context, rt *models.RoomType) error {
	cp := copyRoomType(rt)
	return r.s.with(func(d *memoryData) error {
		for id, other := range d.roomTypes {
			if id != cp.ID() && strings.EqualFold(other.Name(), cp.Name()) {
				return models.AlreadyExists("RoomType", cp.Name())
			}
		}
		d.roomTypes[cp.ID()] = cp
		return nil
	})
}

func copyRoomType(rt *models.RoomType) *models.RoomType {
	return models.HydrateRoomType(rt.ID(), rt.Name(), rt.Description(), rt.MaxOccupancy(), rt.BasePrice())
}

func (r memoryRoomTypes) FindByID(_ context.Context, id string) (*models.RoomType, error) {
	var out *models.RoomType
	err := r.s.with(func(d *memoryData) error {
		rt, ok := d.roomTypes[id]
		if !ok {
			return ErrNotFound
		}
		out = copyRoomType(rt)
		return nil
	})
	return out, err
}

func (r memoryRoomTypes) FindByName(_ context.Context, name string) (*models.RoomType, error) {
	name = strings.TrimSpace(name)
	var out *models.RoomType
	err := r.s.with(func(d *memoryData) error {
		for _, rt := range d.roomTypes {
			if strings.EqualFold(rt.Name(), name) {
				out = copyRoomType(rt)
				return nil
			}
		}
		return ErrNotFound
	})
	return out, err
}

func (r memoryRoomTypes) FindAll(_ context.Context) ([]*models.RoomType, error) {
	var out []*models.RoomType
	_ = r.s.with(func(d *memoryData) error {
		for _, rt := range d.roomTypes {
			out = append(out, copyRoomType(rt))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (r memoryRoomTypes) ExistsByName(ctx context.Context, name string) (bool, error) {
	_, err := r.FindByName(ctx, name)
	return existence(err)
}

func (r memoryRoomTypes) Delete(_ context.Context, id string) error {
	return r.s.with(func(d *memoryData) error {
		if _, ok := d.roomTypes[id]; !ok {
			return ErrNotFound
		}
		delete(d.roomTypes, id)
		return nil
	})
}

type memoryRooms struct{ s *MemoryStore }

func (r memoryRooms) Save(_ context.Context, room *models.Room) error {
	snap := room.Snapshot()
	return r.s.with(func(d *memoryData) error {
		for id, other := range d.rooms {
			if id != snap.ID && other.RoomNumber == snap.RoomNumber {
				return models.AlreadyExists("Room", strconv.Itoa(snap.RoomNumber))
			}
		}
		d.rooms[snap.ID] = snap
		return nil
	})
}

func (r memoryRooms) FindByID(_ context.Context, id string) (*models.Room, error) {
	var out *models.Room
	err := r.s.with(func(d *memoryData) error {
		snap, ok := d.rooms[id]
		if !ok {
			return ErrNotFound
		}
		out = models.HydrateRoom(snap)
		return nil
	})
	return out, err
}

func (r memoryRooms) FindByRoomNumber(_ context.Context, number int) (*models.Room, error) {
	rooms, _ := r.filter(func(_ *memoryData, s models.RoomSnapshot) bool { return s.RoomNumber == number })
	if len(rooms) == 0 {
		return nil, ErrNotFound
	}
	return rooms[0], nil
}

func (r memoryRooms) filter(match func(d *memoryData, s models.RoomSnapshot) bool) ([]*models.Room, error) {
	var snaps []models.RoomSnapshot
	_ = r.s.with(func(d *memoryData) error {
		for _, s := range d.rooms {
			if match(d, s) {
				snaps = append(snaps, s)
			}
		}
		return nil
	})
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].RoomNumber < snaps[j].RoomNumber })
	out := make([]*models.Room, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, models.HydrateRoom(s))
	}
	return out, nil
}

func (r memoryRooms) FindAll(_ context.Context) ([]*models.Room, error) {
	return r.filter(func(*memoryData, models.RoomSnapshot) bool { return true })
}

func (r memoryRooms) FindByStatus(_ context.Context, status models.RoomStatus) ([]*models.Room, error) {
	return r.filter(func(_ *memoryData, s models.RoomSnapshot) bool { return s.Status == status })
}

func (r memoryRooms) FindAvailableRooms(ctx context.Context, checkIn, checkOut time.Time) ([]*models.Room, error) {
	return r.FindAvailableByCapacity(ctx, 0, checkIn, checkOut)
}

func (r memoryRooms) FindAvailableByCapacity(_ context.Context, minCapacity int, checkIn, checkOut time.Time) ([]*models.Room, error) {
	in, out := models.DateOnly(checkIn), models.DateOnly(checkOut)
	return r.filter(func(d *memoryData, s models.RoomSnapshot) bool {
		if s.Status != models.RoomAvailable {
			return false
		}
		if minCapacity > 0 {
			rt, ok := d.roomTypes[s.RoomTypeID]
			if !ok || rt.MaxOccupancy() < minCapacity {
				return false
			}
		}
		for _, res := range d.reservations {
			if res.RoomID == s.ID && res.Status.Type.Active() && models.Overlaps(res.CheckIn, res.CheckOut, in, out) {
				return false
			}
		}
		return true
	})
}

func (r memoryRooms) ExistsByRoomNumber(ctx context.Context, number int) (bool, error) {
	_, err := r.FindByRoomNumber(ctx, number)
	return existence(err)
}

func (r memoryRooms) Delete(_ context.Context, id string) error {
	return r.s.with(func(d *memoryData) error {
		if _, ok := d.rooms[id]; !ok {
			return ErrNotFound
		}
		delete(d.rooms, id)
		return nil
	})
}

type memoryReservations struct{ s *MemoryStore }

func (r memoryReservations) Save(_ context.Context, res *models.Reservation) error {
	snap := res.Snapshot()
	return r.s.with(func(d *memoryData) error {
		for id, other := range d.reservations {
			if id != snap.ID && other.Code == snap.Code {
				return models.AlreadyExists("Reservation", snap.Code)
			}
		}
		d.reservations[snap.ID] = snap
		return nil
	})
}

func (r memoryReservations) FindByID(_ context.Context, id string) (*models.Reservation, error) {
	var out *models.Reservation
	err := r.s.with(func(d *memoryData) error {
		snap, ok := d.reservations[id]
		if !ok {
			return ErrNotFound
		}
		out = models.HydrateReservation(snap)
		return nil
	})
	return out, err
}

func (r memoryReservations) FindByReservationCode(_ context.Context, code string) (*models.Reservation, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	found, _ := r.filter(func(s models.ReservationSnapshot) bool { return s.Code == code })
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return found[0], nil
}

func (r memoryReservations) filter(match func(models.ReservationSnapshot) bool) ([]*models.Reservation, error) {
	var snaps []models.ReservationSnapshot
	_ = r.s.with(func(d *memoryData) error {
		for _, s := range d.reservations {
			if match(s) {
				snaps = append(snaps, s)
			}
		}
		return nil
	})
	sort.Slice(snaps, func(i, j int) bool {
		if !snaps[i].CheckIn.Equal(snaps[j].CheckIn) {
			return snaps[i].CheckIn.Before(snaps[j].CheckIn)
		}
		return snaps[i].Code < snaps[j].Code
	})
	out := make([]*models.Reservation, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, models.HydrateReservation(s))
	}
	return out, nil
}

func (r memoryReservations) FindAll(_ context.Context) ([]*models.Reservation, error) {
	return r.filter(func(models.ReservationSnapshot) bool { return true })
}

func (r memoryReservations) FindByGuest(_ context.Context, guestID string) ([]*models.Reservation, error) {
	return r.filter(func(s models.ReservationSnapshot) bool {
		if s.PrincipalGuestID == guestID {
			return true
		}
		for _, id := range s.GuestIDs {
			if id == guestID {
				return true
			}
		}
		return false
	})
}

func (r memoryReservations) FindByRoom(_ context.Context, roomID string) ([]*models.Reservation, error) {
	return r.filter(func(s models.ReservationSnapshot) bool { return s.RoomID == roomID })
}

func (r memoryReservations) FindByStatus(_ context.Context, status models.StatusType) ([]*models.Reservation, error) {
	return r.filter(func(s models.ReservationSnapshot) bool { return s.Status.Type == status })
}

func (r memoryReservations) FindByDateRange(_ context.Context, start, end time.Time) ([]*models.Reservation, error) {
	start, end = models.DateOnly(start), models.DateOnly(end)
	return r.filter(func(s models.ReservationSnapshot) bool {
		return !s.CheckIn.After(end) && !s.CheckOut.Before(start)
	})
}

func (r memoryReservations) FindActiveReservations(_ context.Context) ([]*models.Reservation, error) {
	return r.filter(func(s models.ReservationSnapshot) bool { return s.Status.Type.Active() })
}

func (r memoryReservations) FindCheckInsForDate(_ context.Context, date time.Time) ([]*models.Reservation, error) {
	date = models.DateOnly(date)
	return r.filter(func(s models.ReservationSnapshot) bool {
		return s.CheckIn.Equal(date) && s.Status.Type == models.StatusConfirmed
	})
}

func (r memoryReservations) FindCheckOutsForDate(_ context.Context, date time.Time) ([]*models.Reservation, error) {
	date = models.DateOnly(date)
	return r.filter(func(s models.ReservationSnapshot) bool {
		return s.CheckOut.Equal(date) && s.Status.Type == models.StatusCheckedIn
	})
}

func (r memoryReservations) FindOverlappingReservations(_ context.Context, roomID string, checkIn, checkOut time.Time) ([]*models.Reservation, error) {
	in, out := models.DateOnly(checkIn), models.DateOnly(checkOut)
	return r.filter(func(s models.ReservationSnapshot) bool {
		return s.RoomID == roomID && s.Status.Type.Active() && models.Overlaps(s.CheckIn, s.CheckOut, in, out)
	})
}

func (r memoryReservations) Delete(_ context.Context, id string) error {
	return r.s.with(func(d *memoryData) error {
		if _, ok := d.reservations[id]; !ok {
			return ErrNotFound
		}
		delete(d.reservations, id)
		return nil
	})
}

func existence(err error) (bool, error) {
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}
