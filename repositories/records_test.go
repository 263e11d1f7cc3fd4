package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReservationFromRecord_OrdersGuestsByPosition(t *testing.T) {
	rec := ReservationRecord{
		ID:               "r1",
		ReservationCode:  "ABC123",
		StatusType:       "CONFIRMED",
		GuestPrincipalID: "g1",
		RoomID:           "room",
		Guests: []ReservationGuestRecord{
			{ReservationID: "r1", GuestID: "g3", Position: 2},
			{ReservationID: "r1", GuestID: "g1", Position: 0},
			{ReservationID: "r1", GuestID: "g4", Position: 3},
			{ReservationID: "r1", GuestID: "g2", Position: 1},
		},
	}
	res := reservationFromRecord(rec)
	assert.Equal(t, []string{"g1", "g2", "g3", "g4"}, res.GuestIDs())
	assert.Equal(t, "g3", rec.Guests[0].GuestID)
}
