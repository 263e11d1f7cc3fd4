package models

import (
	"strings"

	"github.com/google/uuid"
)

type StatusType string

const (
	StatusConfirmed  StatusType = "CONFIRMED"
	StatusCheckedIn  StatusType = "CHECKED_IN"
	StatusCheckedOut StatusType = "CHECKED_OUT"
	StatusCancelled  StatusType = "CANCELLED"
	StatusNoShow     StatusType = "NO_SHOW"
)

var statusNames = map[StatusType]string{
	StatusConfirmed:  "Confirmed",
	StatusCheckedIn:  "Checked In",
	StatusCheckedOut: "Checked Out",
	StatusCancelled:  "Cancelled",
	StatusNoShow:     "No Show",
}

func (s StatusType) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s StatusType) DisplayName() string { return statusNames[s] }

// Active statuses count against room availability.
func (s StatusType) Active() bool {
	return s == StatusConfirmed || s == StatusCheckedIn
}

func (s StatusType) Terminal() bool {
	return len(transitions[s]) == 0
}

func ParseStatusType(s string) (StatusType, error) {
	v := StatusType(normalizeEnum(s))
	if !v.Valid() {
		return "", Validation("invalid reservation status: %s", s)
	}
	return v, nil
}

// ActiveStatuses lists the statuses that hold a room for their date range.
var ActiveStatuses = []StatusType{StatusConfirmed, StatusCheckedIn}

// Event is a lifecycle command applied to a reservation.
type Event string

const (
	EventCheckIn  Event = "check_in"
	EventCheckOut Event = "check_out"
	EventCancel   Event = "cancel"
	EventNoShow   Event = "no_show"
	EventConfirm  Event = "confirm"
)

// transitions maps current status and event to the next status.
// Statuses without an entry are terminal.
var transitions = map[StatusType]map[Event]StatusType{
	StatusConfirmed: {
		EventCheckIn: StatusCheckedIn,
		EventCancel:  StatusCancelled,
		EventNoShow:  StatusNoShow,
		EventConfirm: StatusConfirmed,
	},
	StatusCheckedIn: {
		EventCheckOut: StatusCheckedOut,
		EventCancel:   StatusCancelled,
	},
}

var transitionErrors = map[Event]string{
	EventCheckIn:  "can only check-in confirmed reservations",
	EventCheckOut: "can only check-out checked-in reservations",
	EventCancel:   "cannot cancel a %s reservation",
	EventNoShow:   "cannot mark a %s reservation as no-show",
	EventConfirm:  "cannot confirm a %s reservation",
}

// NextStatus looks up the transition table. It never mutates anything.
func NextStatus(current StatusType, ev Event) (StatusType, error) {
	if next, ok := transitions[current][ev]; ok {
		return next, nil
	}
	msg, ok := transitionErrors[ev]
	if !ok {
		return "", Validation("unknown reservation event: %s", ev)
	}
	if ev == EventCheckIn || ev == EventCheckOut {
		return "", IllegalState("%s (current status: %s)", msg, current)
	}
	return "", IllegalState(msg, strings.ToLower(statusNames[current]))
}

// ReservationStatus is the current status record. A new one is created on every transition.
type ReservationStatus struct {
	ID   string
	Type StatusType
	Note string
}

func NewReservationStatus(t StatusType, note string) ReservationStatus {
	return ReservationStatus{ID: uuid.NewString(), Type: t, Note: note}
}
