package booking

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hotelservice/internal/billing"
	"hotelservice/internal/reservation"
	"hotelservice/internal/room"
)

// Grace is how long after the confirmed check-in time a late arrival is
// still honored. Arrivals past the cutoff expire the reservation, and the
// cutoff itself is the reference time for the room release that follows.
const Grace = 24 * time.Hour

var (
	ErrRoomUnavailable = reservation.Error{Code: "ROOM_UNAVAILABLE", Message: "room is not free for the requested stay"}
	ErrRoomNotVacant   = reservation.Error{Code: "ROOM_NOT_VACANT", Message: "room status does not allow this operation"}
)

// OrderTotals is the room-service collaborator. The core only reads the
// accrued total for billing and clears it once the stay is settled.
type OrderTotals interface {
	AccruedTotal(ctx context.Context, roomNumber string) (decimal.Decimal, error)
	Clear(ctx context.Context, roomNumber string) error
}

// Service owns the in-memory room and reservation collections and applies
// every lifecycle operation against them. All mutating operations run under
// one exclusive lock held across the read-check-write sequence and the
// snapshot flush: the collections are shared and replaced whole, so the
// availability check, the mutation it justifies, and the flush must not
// interleave with another writer. A failed flush rolls the in-memory state
// back so the mutation is not observable as applied.
type Service struct {
	snaps  Snapshots
	orders OrderTotals

	mu       sync.RWMutex
	rooms    []*room.Room
	active   []reservation.Reservation
	waitlist []reservation.Reservation
}

func New(snaps Snapshots, orders OrderTotals) *Service {
	return &Service{snaps: snaps, orders: orders}
}

// Load reads all three collections. Called once at startup.
func (s *Service) Load(ctx context.Context) error {
	rooms, err := s.snaps.Rooms.LoadAll(ctx)
	if err != nil {
		return err
	}
	active, err := s.snaps.Reservations.LoadAll(ctx)
	if err != nil {
		return err
	}
	waitlist, err := s.snaps.WaitList.LoadAll(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.rooms, s.active, s.waitlist = rooms, active, waitlist
	s.mu.Unlock()
	return nil
}

// backup captures the current state and returns a closure restoring it.
// Mutating operations call it before touching anything so a failed flush
// leaves no trace.
func (s *Service) backup() func() {
	roomVals := make([]room.Room, len(s.rooms))
	for i, rm := range s.rooms {
		roomVals[i] = *rm
	}
	active := append([]reservation.Reservation(nil), s.active...)
	waitlist := append([]reservation.Reservation(nil), s.waitlist...)
	return func() {
		for i, v := range roomVals {
			*s.rooms[i] = v
		}
		s.active = active
		s.waitlist = waitlist
	}
}

type dirty struct {
	rooms    bool
	active   bool
	waitlist bool
}

// flush durably replaces the collections touched by the current operation.
// On failure the undo closure reverts the in-memory mutation and the error
// is surfaced unchanged; the caller decides whether to retry the operation.
func (s *Service) flush(ctx context.Context, d dirty, undo func()) error {
	if d.rooms {
		if err := s.snaps.Rooms.ReplaceAll(ctx, s.rooms); err != nil {
			undo()
			return err
		}
	}
	if d.active {
		if err := s.snaps.Reservations.ReplaceAll(ctx, s.active); err != nil {
			undo()
			return err
		}
	}
	if d.waitlist {
		if err := s.snaps.WaitList.ReplaceAll(ctx, s.waitlist); err != nil {
			undo()
			return err
		}
	}
	return nil
}

func (s *Service) findRoom(number string) (*room.Room, error) {
	for _, rm := range s.rooms {
		if rm.Number == number {
			return rm, nil
		}
	}
	return nil, reservation.ErrRoomNotFound
}

func (s *Service) findActive(code uuid.UUID) (int, bool) {
	for i := range s.active {
		if s.active[i].Code == code {
			return i, true
		}
	}
	return 0, false
}

func (s *Service) findWaitList(code uuid.UUID) (int, bool) {
	for i := range s.waitlist {
		if s.waitlist[i].Code == code {
			return i, true
		}
	}
	return 0, false
}

func (s *Service) confirmedByRoom(number string) []reservation.Reservation {
	var out []reservation.Reservation
	for _, r := range s.active {
		if r.Status == reservation.StatusConfirmed && r.RoomNumber == number {
			out = append(out, r)
		}
	}
	return out
}

func (s *Service) checkedInByRoom(number string) (reservation.Reservation, bool) {
	for _, r := range s.active {
		if r.Status == reservation.StatusCheckedIn && r.RoomNumber == number {
			return r, true
		}
	}
	return reservation.Reservation{}, false
}

func (s *Service) waitListByRoom(number string) []reservation.Reservation {
	var out []reservation.Reservation
	for _, r := range s.waitlist {
		if r.RoomNumber == number {
			out = append(out, r)
		}
	}
	return out
}

// stayMaps builds the confirmed-interval and occupant-checkout lookups the
// overlap checker consumes. exclude drops one reservation code from the
// confirmed set, used when re-testing a reservation's own room during edits.
func (s *Service) stayMaps(exclude uuid.UUID) (map[string][]room.Stay, map[string]time.Time) {
	confirmed := make(map[string][]room.Stay)
	occupied := make(map[string]time.Time)
	for _, r := range s.active {
		switch r.Status {
		case reservation.StatusConfirmed:
			if r.Code == exclude {
				continue
			}
			confirmed[r.RoomNumber] = append(confirmed[r.RoomNumber], room.Stay{Start: r.CheckIn, End: r.CheckOut})
		case reservation.StatusCheckedIn:
			occupied[r.RoomNumber] = r.CheckOut
		}
	}
	return confirmed, occupied
}

// CheckAvailability lists the rooms of the requested kind free for
// [start, end). Maintenance rooms are excluded before the overlap check.
// The result holds copies: it outlives the read lock, so it must not alias
// the live pool.
func (s *Service) CheckAvailability(t room.Type, b room.BedType, f room.Facing, start, end time.Time) ([]room.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates []*room.Room
	for _, rm := range s.rooms {
		if rm.Matches(t, b, f) && rm.Status != room.StatusMaintenance {
			candidates = append(candidates, rm)
		}
	}
	confirmed, occupied := s.stayMaps(uuid.Nil)
	free, err := room.FilterAvailable(candidates, start, end, confirmed, occupied)
	if err != nil {
		return nil, err
	}
	out := make([]room.Room, len(free))
	for i, rm := range free {
		out[i] = *rm
	}
	return out, nil
}

// roomAvailable re-runs the overlap check for a single room inside the write
// lock, so a booking can never rely on a stale availability answer.
func (s *Service) roomAvailable(rm *room.Room, start, end time.Time, exclude uuid.UUID) (bool, error) {
	if rm.Status == room.StatusMaintenance {
		return false, nil
	}
	confirmed, occupied := s.stayMaps(exclude)
	free, err := room.FilterAvailable([]*room.Room{rm}, start, end, confirmed, occupied)
	if err != nil {
		return false, err
	}
	return len(free) == 1, nil
}

// BookConfirmed books a room for a committed stay. The availability check
// and the booking run under the same lock, so two callers cannot both
// observe the room as free.
func (s *Service) BookConfirmed(ctx context.Context, contact string, checkIn, checkOut time.Time, adults, children int, roomNumber string) (reservation.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rm, err := s.findRoom(roomNumber)
	if err != nil {
		return reservation.Reservation{}, err
	}
	free, err := s.roomAvailable(rm, checkIn, checkOut, uuid.Nil)
	if err != nil {
		return reservation.Reservation{}, err
	}
	if !free {
		return reservation.Reservation{}, ErrRoomUnavailable
	}

	rec, err := reservation.NewConfirmed(contact, checkIn, checkOut, adults, children, roomNumber)
	if err != nil {
		return reservation.Reservation{}, err
	}

	undo := s.backup()
	s.active = append(s.active, rec)
	if rm.Status == room.StatusVacant {
		rm.Status = room.StatusReserved
	}
	if err := s.flush(ctx, dirty{rooms: true, active: true}, undo); err != nil {
		return reservation.Reservation{}, err
	}
	return rec, nil
}

// BookWaitList records a candidate request. No availability precondition:
// waitlisting is always allowed and the room keeps its status.
func (s *Service) BookWaitList(ctx context.Context, contact string, checkIn, checkOut time.Time, adults, children int, roomNumber string) (reservation.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.findRoom(roomNumber); err != nil {
		return reservation.Reservation{}, err
	}
	rec, err := reservation.NewWaitList(contact, checkIn, checkOut, adults, children, roomNumber)
	if err != nil {
		return reservation.Reservation{}, err
	}

	undo := s.backup()
	s.waitlist = append(s.waitlist, rec)
	if err := s.flush(ctx, dirty{waitlist: true}, undo); err != nil {
		return reservation.Reservation{}, err
	}
	return rec, nil
}

// BookWalkIn checks a guest in directly: the stay starts now.
func (s *Service) BookWalkIn(ctx context.Context, contact string, now, expectedCheckOut time.Time, adults, children int, roomNumber string) (reservation.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rm, err := s.findRoom(roomNumber)
	if err != nil {
		return reservation.Reservation{}, err
	}
	free, err := s.roomAvailable(rm, now, expectedCheckOut, uuid.Nil)
	if err != nil {
		return reservation.Reservation{}, err
	}
	if !free {
		return reservation.Reservation{}, ErrRoomUnavailable
	}

	rec, err := reservation.NewWalkIn(contact, now, expectedCheckOut, adults, children, roomNumber)
	if err != nil {
		return reservation.Reservation{}, err
	}

	undo := s.backup()
	s.active = append(s.active, rec)
	rm.Status = room.StatusOccupied
	rm.OccupantContact = contact
	if err := s.flush(ctx, dirty{rooms: true, active: true}, undo); err != nil {
		return reservation.Reservation{}, err
	}
	return rec, nil
}

// ConfirmWaitlisted promotes a waitlisted reservation onto a room of the
// operator's choosing, subject to availability. The promoted record carries
// a newly minted code.
func (s *Service) ConfirmWaitlisted(ctx context.Context, code uuid.UUID, roomNumber string) (reservation.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.findWaitList(code)
	if !ok {
		return reservation.Reservation{}, reservation.ErrReservationNotFound
	}
	rm, err := s.findRoom(roomNumber)
	if err != nil {
		return reservation.Reservation{}, err
	}
	entry := s.waitlist[i]
	free, err := s.roomAvailable(rm, entry.CheckIn, entry.CheckOut, uuid.Nil)
	if err != nil {
		return reservation.Reservation{}, err
	}
	if !free {
		return reservation.Reservation{}, ErrRoomUnavailable
	}

	confirmed, err := entry.Confirm(roomNumber)
	if err != nil {
		return reservation.Reservation{}, err
	}

	undo := s.backup()
	s.waitlist = append(s.waitlist[:i], s.waitlist[i+1:]...)
	s.active = append(s.active, confirmed)
	if rm.Status == room.StatusVacant {
		rm.Status = room.StatusReserved
	}
	if err := s.flush(ctx, dirty{rooms: true, active: true, waitlist: true}, undo); err != nil {
		return reservation.Reservation{}, err
	}
	return confirmed, nil
}

// CheckIn admits the guest of a confirmed reservation.
//
// An arrival more than Grace past the confirmed check-in expires the
// reservation instead, and the room release that follows is evaluated at the
// grace cutoff (confirmed check-in + Grace), not at the arrival time.
func (s *Service) CheckIn(ctx context.Context, code uuid.UUID, actual time.Time) (reservation.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.findActive(code)
	if !ok {
		return reservation.Reservation{}, reservation.ErrReservationNotFound
	}
	rec := s.active[i]
	rm, err := s.findRoom(rec.RoomNumber)
	if err != nil {
		return reservation.Reservation{}, err
	}

	if actual.After(rec.CheckIn.Add(Grace)) {
		expired, err := rec.Cancel()
		if err != nil {
			return reservation.Reservation{}, err
		}
		undo := s.backup()
		s.active = append(s.active[:i], s.active[i+1:]...)
		s.releaseLocked(rm, rec.CheckIn.Add(Grace))
		if err := s.flush(ctx, dirty{rooms: true, active: true, waitlist: true}, undo); err != nil {
			return reservation.Reservation{}, err
		}
		return expired, nil
	}

	checkedIn, err := rec.CheckInAt(actual)
	if err != nil {
		return reservation.Reservation{}, err
	}
	undo := s.backup()
	s.active[i] = checkedIn
	rm.Status = room.StatusOccupied
	rm.OccupantContact = checkedIn.GuestContact
	if err := s.flush(ctx, dirty{rooms: true, active: true}, undo); err != nil {
		return reservation.Reservation{}, err
	}
	return checkedIn, nil
}

// CheckOut settles the stay occupying a room: it terminates the checked-in
// reservation, computes the bill from the room rate and the accrued
// room-service total, clears the service tab, and runs the release cascade
// in the same lock scope so no concurrent booking can observe the room
// transiently vacant.
func (s *Service) CheckOut(ctx context.Context, roomNumber string, actual time.Time, hasPromotion bool) (billing.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rm, err := s.findRoom(roomNumber)
	if err != nil {
		return billing.Bill{}, err
	}
	rec, ok := s.checkedInByRoom(roomNumber)
	if !ok {
		return billing.Bill{}, reservation.ErrReservationNotFound
	}
	checkedOut, err := rec.CheckOutAt(actual)
	if err != nil {
		return billing.Bill{}, err
	}

	serviceTotal, err := s.orders.AccruedTotal(ctx, roomNumber)
	if err != nil {
		return billing.Bill{}, err
	}
	bill, err := billing.Calculate(checkedOut, rm.Rate, serviceTotal, hasPromotion)
	if err != nil {
		return billing.Bill{}, err
	}

	undo := s.backup()
	i, _ := s.findActive(rec.Code)
	s.active = append(s.active[:i], s.active[i+1:]...)
	rm.OccupantContact = ""
	s.releaseLocked(rm, actual)
	if err := s.flush(ctx, dirty{rooms: true, active: true, waitlist: true}, undo); err != nil {
		return billing.Bill{}, err
	}
	// The checkout is durably applied at this point. A tab row left behind
	// is recoverable; a settled stay reported as failed is not.
	if err := s.orders.Clear(ctx, roomNumber); err != nil {
		log.Printf("room %s: clearing service tab: %v", roomNumber, err)
	}
	return bill, nil
}

// Cancel expires a waitlisted or confirmed reservation. Cancelling a
// confirmed reservation releases its held room claim.
func (s *Service) Cancel(ctx context.Context, code uuid.UUID) (reservation.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.findWaitList(code); ok {
		expired, err := s.waitlist[i].Cancel()
		if err != nil {
			return reservation.Reservation{}, err
		}
		undo := s.backup()
		s.waitlist = append(s.waitlist[:i], s.waitlist[i+1:]...)
		if err := s.flush(ctx, dirty{waitlist: true}, undo); err != nil {
			return reservation.Reservation{}, err
		}
		return expired, nil
	}

	i, ok := s.findActive(code)
	if !ok {
		return reservation.Reservation{}, reservation.ErrReservationNotFound
	}
	rec := s.active[i]
	expired, err := rec.Cancel()
	if err != nil {
		return reservation.Reservation{}, err
	}
	rm, err := s.findRoom(rec.RoomNumber)
	if err != nil {
		return reservation.Reservation{}, err
	}

	undo := s.backup()
	s.active = append(s.active[:i], s.active[i+1:]...)
	if rm.Status == room.StatusReserved {
		s.releaseLocked(rm, rec.CheckIn)
	}
	if err := s.flush(ctx, dirty{rooms: true, active: true, waitlist: true}, undo); err != nil {
		return reservation.Reservation{}, err
	}
	return expired, nil
}

// Find returns the reservation with the given code from either collection.
func (s *Service) Find(code uuid.UUID) (reservation.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i, ok := s.findActive(code); ok {
		return s.active[i], nil
	}
	if i, ok := s.findWaitList(code); ok {
		return s.waitlist[i], nil
	}
	return reservation.Reservation{}, reservation.ErrReservationNotFound
}

// FindByContact lists reservations made under a guest contact.
func (s *Service) FindByContact(contact string) []reservation.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []reservation.Reservation
	for _, r := range s.active {
		if r.GuestContact == contact {
			out = append(out, r)
		}
	}
	for _, r := range s.waitlist {
		if r.GuestContact == contact {
			out = append(out, r)
		}
	}
	return out
}
