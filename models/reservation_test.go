package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestReservation(t *testing.T) *Reservation {
	t.Helper()
	r, err := NewReservation(NewReservationParams{
		CheckIn:          day("2024-01-01"),
		CheckOut:         day("2024-01-05"),
		QuotedAmount:     200,
		Source:           SourceDirect,
		PrincipalGuestID: "g1",
		RoomID:           "r1",
	})
	require.NoError(t, err)
	return r
}

func newTestRoom(t *testing.T) *Room {
	t.Helper()
	room, err := NewRoom(101, "rt1", nil)
	require.NoError(t, err)
	return room
}

func TestNewReservation_Defaults(t *testing.T) {
	r := newTestReservation(t)

	assert.Equal(t, StatusConfirmed, r.Status().Type)
	assert.Equal(t, []string{"g1"}, r.GuestIDs())
	assert.Regexp(t, `^RES-[0-9A-F]{8}$`, r.Code())
	assert.Equal(t, 4, r.NightCount())
	assert.True(t, r.IsActive())
	assert.Nil(t, r.Stay())
}

func TestNewReservation_Validation(t *testing.T) {
	base := NewReservationParams{
		CheckIn:          day("2024-01-01"),
		CheckOut:         day("2024-01-05"),
		QuotedAmount:     10,
		Source:           SourceBooking,
		PrincipalGuestID: "g1",
		RoomID:           "r1",
	}
	tests := []struct {
		name   string
		mutate func(p *NewReservationParams)
	}{
		{"same day", func(p *NewReservationParams) { p.CheckOut = p.CheckIn }},
		{"check-out before check-in", func(p *NewReservationParams) { p.CheckOut = day("2023-12-31") }},
		{"negative amount", func(p *NewReservationParams) { p.QuotedAmount = -1 }},
		{"unknown source", func(p *NewReservationParams) { p.Source = "FAX" }},
		{"missing guest", func(p *NewReservationParams) { p.PrincipalGuestID = "" }},
		{"missing room", func(p *NewReservationParams) { p.RoomID = "" }},
		{"missing dates", func(p *NewReservationParams) { p.CheckIn = time.Time{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			_, err := NewReservation(p)
			assert.True(t, IsValidation(err), "got %v", err)
		})
	}
}

func TestNewReservation_ZeroAmountAllowed(t *testing.T) {
	_, err := NewReservation(NewReservationParams{
		CheckIn: day("2024-01-01"), CheckOut: day("2024-01-02"),
		Source: SourceWalkIn, PrincipalGuestID: "g1", RoomID: "r1",
	})
	assert.NoError(t, err)
}

func TestNextStatus_Table(t *testing.T) {
	all := []StatusType{StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled, StatusNoShow}
	events := []Event{EventCheckIn, EventCheckOut, EventCancel, EventNoShow, EventConfirm}
	allowed := map[StatusType]map[Event]StatusType{
		StatusConfirmed: {
			EventCheckIn: StatusCheckedIn, EventCancel: StatusCancelled,
			EventNoShow: StatusNoShow, EventConfirm: StatusConfirmed,
		},
		StatusCheckedIn: {EventCheckOut: StatusCheckedOut, EventCancel: StatusCancelled},
	}

	for _, from := range all {
		for _, ev := range events {
			next, err := NextStatus(from, ev)
			want, ok := allowed[from][ev]
			if ok {
				assert.NoError(t, err, "%s --%s-->", from, ev)
				assert.Equal(t, want, next, "%s --%s-->", from, ev)
			} else {
				assert.True(t, IsBusinessRule(err), "%s --%s--> should be illegal, got %v", from, ev, err)
			}
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusCheckedOut.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusNoShow.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.False(t, StatusCheckedIn.Terminal())
}

func TestReservation_CheckInCheckOut(t *testing.T) {
	r := newTestReservation(t)
	room := newTestRoom(t)
	firstStatusID := r.Status().ID

	require.NoError(t, r.CheckIn(day("2024-01-01"), room))
	assert.Equal(t, StatusCheckedIn, r.Status().Type)
	assert.NotEqual(t, firstStatusID, r.Status().ID)
	assert.Equal(t, RoomOccupied, room.Status())
	require.NotNil(t, r.Stay())
	assert.True(t, r.Stay().IsActive())
	assert.Equal(t, day("2024-01-01"), r.Stay().CheckIn)

	require.NoError(t, r.CheckOut(day("2024-01-04"), room))
	assert.Equal(t, StatusCheckedOut, r.Status().Type)
	assert.Equal(t, RoomAvailable, room.Status())
	require.NotNil(t, r.Stay().CheckOut)
	assert.Equal(t, day("2024-01-04"), *r.Stay().CheckOut)
	assert.Equal(t, 3, r.Stay().NightCount(day("2030-01-01")))

	err := r.Cancel("too late", room)
	assert.True(t, IsBusinessRule(err))
	assert.Equal(t, StatusCheckedOut, r.Status().Type)
}

func TestReservation_CheckInOutOfServiceRoomLeavesStateUntouched(t *testing.T) {
	r := newTestReservation(t)
	room := newTestRoom(t)
	room.MarkAsOutOfService()

	err := r.CheckIn(day("2024-01-01"), room)
	assert.True(t, IsBusinessRule(err))
	assert.Equal(t, StatusConfirmed, r.Status().Type)
	assert.Equal(t, RoomOutOfService, room.Status())
	assert.Nil(t, r.Stay())
}

func TestReservation_IllegalTransitionsDoNotTouchRoom(t *testing.T) {
	r := newTestReservation(t)
	room := newTestRoom(t)
	require.NoError(t, room.MarkAsOccupied())

	assert.Error(t, r.CheckOut(day("2024-01-02"), room))
	assert.Equal(t, RoomOccupied, room.Status())

	require.NoError(t, r.MarkAsNoShow("did not arrive", room))
	assert.Equal(t, StatusNoShow, r.Status().Type)
	assert.Equal(t, "did not arrive", r.Status().Note)
	assert.Equal(t, RoomAvailable, room.Status())

	require.NoError(t, room.MarkAsOccupied())
	assert.Error(t, r.Cancel("x", room))
	assert.Error(t, r.CheckIn(day("2024-01-02"), room))
	assert.Error(t, r.Confirm("again"))
	assert.Equal(t, RoomOccupied, room.Status())
}

func TestReservation_CheckOutBeforeArrivalRejected(t *testing.T) {
	r := newTestReservation(t)
	require.NoError(t, r.CheckIn(day("2024-01-02"), nil))

	err := r.CheckOut(day("2024-01-01"), nil)
	assert.True(t, IsValidation(err))
	assert.Equal(t, StatusCheckedIn, r.Status().Type)
}

func TestReservation_NoShowAfterCheckInRejected(t *testing.T) {
	r := newTestReservation(t)
	require.NoError(t, r.CheckIn(day("2024-01-01"), nil))
	assert.True(t, IsBusinessRule(r.MarkAsNoShow("late", nil)))
}

func TestReservation_CancelCheckedIn(t *testing.T) {
	r := newTestReservation(t)
	room := newTestRoom(t)
	require.NoError(t, r.CheckIn(day("2024-01-01"), room))

	restore := Today
	Today = func() time.Time { return day("2024-01-03") }
	defer func() { Today = restore }()

	require.NoError(t, r.Cancel("early departure", room))
	assert.Equal(t, StatusCancelled, r.Status().Type)
	assert.Equal(t, RoomAvailable, room.Status())
	assert.False(t, r.IsActive())
	require.NotNil(t, r.Stay())
	assert.False(t, r.Stay().IsActive())
	assert.Equal(t, day("2024-01-03"), *r.Stay().CheckOut)
}

func TestReservation_CancelBeforeStayStartClosesOnCheckIn(t *testing.T) {
	r := newTestReservation(t)
	room := newTestRoom(t)
	require.NoError(t, r.CheckIn(day("2024-01-05"), room))

	restore := Today
	Today = func() time.Time { return day("2024-01-02") }
	defer func() { Today = restore }()

	require.NoError(t, r.Cancel("booking error", room))
	require.NotNil(t, r.Stay().CheckOut)
	assert.Equal(t, day("2024-01-05"), *r.Stay().CheckOut)
}

func TestReservation_Confirm(t *testing.T) {
	r := newTestReservation(t)
	before := r.Status().ID
	require.NoError(t, r.Confirm("late arrival expected"))
	assert.Equal(t, StatusConfirmed, r.Status().Type)
	assert.Equal(t, "late arrival expected", r.Status().Note)
	assert.NotEqual(t, before, r.Status().ID)
}

func TestReservation_Guests(t *testing.T) {
	r := newTestReservation(t)

	require.NoError(t, r.AddGuest("g2"))
	require.NoError(t, r.AddGuest("g2"))
	assert.Equal(t, []string{"g1", "g2"}, r.GuestIDs())
	assert.Equal(t, 2, r.GuestCount())

	assert.True(t, IsBusinessRule(r.RemoveGuest("g1")))
	assert.True(t, IsNotFound(r.RemoveGuest("g9")))
	require.NoError(t, r.RemoveGuest("g2"))
	assert.Equal(t, []string{"g1"}, r.GuestIDs())
}

func TestReservation_UpdateDates(t *testing.T) {
	r := newTestReservation(t)
	require.NoError(t, r.UpdateDates(day("2024-02-01"), day("2024-02-03")))
	assert.Equal(t, 2, r.NightCount())

	assert.True(t, IsValidation(r.UpdateDates(day("2024-02-03"), day("2024-02-03"))))

	require.NoError(t, r.CheckIn(day("2024-02-01"), nil))
	assert.True(t, IsBusinessRule(r.UpdateDates(day("2024-02-01"), day("2024-02-05"))))
}

func TestHydrateReservation_KeepsPrincipalMember(t *testing.T) {
	r := HydrateReservation(ReservationSnapshot{
		ID: "res1", Code: "RES-00000000", CheckIn: day("2024-01-01"), CheckOut: day("2024-01-02"),
		Status:           ReservationStatus{ID: "s1", Type: StatusCheckedIn},
		PrincipalGuestID: "g1", GuestIDs: []string{"g2"}, RoomID: "r1",
	})
	assert.Equal(t, []string{"g1", "g2"}, r.GuestIDs())
	assert.Equal(t, StatusCheckedIn, r.Status().Type)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                   string
		exIn, exOut, nIn, nOut string
		want                   bool
	}{
		{"identical", "2024-01-01", "2024-01-05", "2024-01-01", "2024-01-05", true},
		{"partial tail", "2024-01-01", "2024-01-05", "2024-01-03", "2024-01-07", true},
		{"contained", "2024-01-01", "2024-01-10", "2024-01-03", "2024-01-04", true},
		{"back to back after", "2024-01-01", "2024-01-05", "2024-01-05", "2024-01-07", false},
		{"back to back before", "2024-01-05", "2024-01-07", "2024-01-01", "2024-01-05", false},
		{"disjoint", "2024-01-01", "2024-01-05", "2024-02-01", "2024-02-03", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(day(tt.exIn), day(tt.exOut), day(tt.nIn), day(tt.nOut)))
		})
	}
}
