package reservation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusWaitList   Status = "WaitList"
	StatusConfirmed  Status = "Confirmed"
	StatusCheckedIn  Status = "CheckedIn"
	StatusCheckedOut Status = "CheckedOut"
	StatusExpired    Status = "Expired"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusWaitList, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusExpired:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown reservation status: %s", s)
	}
}

var allowedTransitions = map[Status]map[Status]bool{
	StatusWaitList:   {StatusConfirmed: true, StatusExpired: true},
	StatusConfirmed:  {StatusCheckedIn: true, StatusExpired: true},
	StatusCheckedIn:  {StatusCheckedOut: true},
	StatusCheckedOut: {},
	StatusExpired:    {},
}

func CanTransition(from, to Status) bool {
	m, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}

// Reservation is one booking record. The meaning of CheckIn/CheckOut depends
// on Status: desired times while waitlisted, committed times once confirmed,
// actual check-in and expected check-out while checked in, and both actual
// once checked out. Expired records keep only the check-in that was missed.
type Reservation struct {
	Code         uuid.UUID
	Status       Status
	Adults       int
	Children     int
	GuestContact string
	RoomNumber   string
	CheckIn      time.Time
	CheckOut     time.Time
}

func validateBooking(checkIn, checkOut time.Time, adults, children int) error {
	if adults < 0 || children < 0 {
		return ErrNegativeCount
	}
	if !checkIn.Before(checkOut) {
		return ErrInvalidInterval
	}
	return nil
}

// NewConfirmed creates a reservation with a committed room and date range.
func NewConfirmed(contact string, checkIn, checkOut time.Time, adults, children int, roomNumber string) (Reservation, error) {
	if err := validateBooking(checkIn, checkOut, adults, children); err != nil {
		return Reservation{}, err
	}
	return Reservation{
		Code:         uuid.New(),
		Status:       StatusConfirmed,
		Adults:       adults,
		Children:     children,
		GuestContact: contact,
		RoomNumber:   roomNumber,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
	}, nil
}

// NewWaitList creates a candidate request with no room guarantee. Waitlisting
// is always allowed; there is no availability precondition.
func NewWaitList(contact string, checkIn, checkOut time.Time, adults, children int, roomNumber string) (Reservation, error) {
	if err := validateBooking(checkIn, checkOut, adults, children); err != nil {
		return Reservation{}, err
	}
	return Reservation{
		Code:         uuid.New(),
		Status:       StatusWaitList,
		Adults:       adults,
		Children:     children,
		GuestContact: contact,
		RoomNumber:   roomNumber,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
	}, nil
}

// NewWalkIn creates a reservation that starts checked in: the guest is at the
// desk, so CheckIn is the actual arrival time.
func NewWalkIn(contact string, checkIn, expectedCheckOut time.Time, adults, children int, roomNumber string) (Reservation, error) {
	if err := validateBooking(checkIn, expectedCheckOut, adults, children); err != nil {
		return Reservation{}, err
	}
	return Reservation{
		Code:         uuid.New(),
		Status:       StatusCheckedIn,
		Adults:       adults,
		Children:     children,
		GuestContact: contact,
		RoomNumber:   roomNumber,
		CheckIn:      checkIn,
		CheckOut:     expectedCheckOut,
	}, nil
}

// Confirm promotes a waitlisted reservation onto the given room.
//
// The promoted record gets a freshly minted code. This mirrors the observed
// system behavior: waitlist promotion regenerates identity, while check-in
// and check-out preserve it.
func (r Reservation) Confirm(roomNumber string) (Reservation, error) {
	if !CanTransition(r.Status, StatusConfirmed) {
		return Reservation{}, ErrInvalidStatusChange
	}
	out := r
	out.Code = uuid.New()
	out.Status = StatusConfirmed
	out.RoomNumber = roomNumber
	return out, nil
}

// CheckInAt moves a confirmed reservation to checked in. The actual arrival
// replaces the confirmed check-in; the expected check-out is kept. The
// 24-hour grace rule is enforced by the booking service, not here.
func (r Reservation) CheckInAt(actual time.Time) (Reservation, error) {
	if !CanTransition(r.Status, StatusCheckedIn) {
		return Reservation{}, ErrInvalidStatusChange
	}
	out := r
	out.Status = StatusCheckedIn
	out.CheckIn = actual
	return out, nil
}

// CheckOutAt terminates a checked-in reservation, preserving its code and
// the actual check-in time.
func (r Reservation) CheckOutAt(actual time.Time) (Reservation, error) {
	if !CanTransition(r.Status, StatusCheckedOut) {
		return Reservation{}, ErrInvalidStatusChange
	}
	if actual.Before(r.CheckIn) {
		return Reservation{}, ErrInvalidCheckOutTime
	}
	out := r
	out.Status = StatusCheckedOut
	out.CheckOut = actual
	return out, nil
}

// Cancel expires a waitlisted or confirmed reservation. The expired record
// carries the check-in time that was missed, for the notice message.
func (r Reservation) Cancel() (Reservation, error) {
	if !CanTransition(r.Status, StatusExpired) {
		return Reservation{}, ErrInvalidStatusChange
	}
	out := r
	out.Status = StatusExpired
	out.CheckOut = time.Time{}
	return out, nil
}

func (r *Reservation) editable() bool {
	return r.Status == StatusWaitList || r.Status == StatusConfirmed
}

// SetCheckIn edits the desired/confirmed check-in in place.
func (r *Reservation) SetCheckIn(t time.Time) error {
	if !r.editable() {
		return ErrIllegalChangeOfDate
	}
	if !t.Before(r.CheckOut) {
		return ErrInvalidInterval
	}
	r.CheckIn = t
	return nil
}

// SetCheckOut edits the desired/confirmed check-out in place. A checked-in
// guest may also extend the expected check-out; only the terminal states
// reject the edit.
func (r *Reservation) SetCheckOut(t time.Time) error {
	if !r.editable() && r.Status != StatusCheckedIn {
		return ErrIllegalChangeOfDate
	}
	if !r.CheckIn.Before(t) {
		return ErrInvalidInterval
	}
	r.CheckOut = t
	return nil
}

func (r *Reservation) SetGuestCount(adults, children int) error {
	if !r.editable() {
		return ErrIllegalChangeOfDate
	}
	if adults < 0 || children < 0 {
		return ErrNegativeCount
	}
	r.Adults = adults
	r.Children = children
	return nil
}

func (r *Reservation) SetContact(contact string) error {
	if !r.editable() {
		return ErrIllegalChangeOfDate
	}
	r.GuestContact = contact
	return nil
}
