package booking

import (
	"context"
	"time"

	"hotelservice/internal/reservation"
	"hotelservice/internal/room"
)

// ReleaseRoom runs the release/reassignment cascade for a room that has
// stopped being occupied, offering it to the next eligible confirmed or
// waitlisted claimant before marking it vacant. It reports whether the room
// ended vacant (true) or reserved (false).
func (s *Service) ReleaseRoom(ctx context.Context, roomNumber string, referenceTime time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rm, err := s.findRoom(roomNumber)
	if err != nil {
		return false, err
	}
	undo := s.backup()
	vacant := s.releaseLocked(rm, referenceTime)
	if err := s.flush(ctx, dirty{rooms: true, active: true, waitlist: true}, undo); err != nil {
		return false, err
	}
	return vacant, nil
}

// releaseLocked is the cascade itself; the caller holds the write lock and
// flushes afterwards.
//
// Candidate selection is first-fit over insertion-ordered collections: the
// confirmed scan keeps the last future reservation encountered, not the
// earliest. That matches the system this replaces; iteration order is the
// order records were booked.
func (s *Service) releaseLocked(rm *room.Room, referenceTime time.Time) bool {
	vacant := true
	reserved := false
	var next reservation.Reservation

	for _, c := range s.confirmedByRoom(rm.Number) {
		if c.CheckIn.After(referenceTime) {
			rm.Status = room.StatusReserved
			vacant = false
			reserved = true
			next = c
		}
	}

	for _, w := range s.waitListByRoom(rm.Number) {
		if reserved {
			// A promoted stay must fit the gap before the next confirmed
			// check-in and start after the reference time.
			if !w.CheckOut.After(next.CheckIn) && w.CheckIn.After(referenceTime) {
				promoted, ok := s.promote(w)
				if !ok {
					continue
				}
				rm.Status = room.StatusReserved
				next = promoted
				vacant = false
			}
		} else if w.CheckIn.After(referenceTime) {
			if _, ok := s.promote(w); ok {
				rm.Status = room.StatusReserved
				vacant = false
			}
		}
	}

	if vacant {
		rm.Status = room.StatusVacant
	}
	return vacant
}

// promote moves a waitlist entry into the active collection as a confirmed
// reservation on its own requested room.
func (s *Service) promote(w reservation.Reservation) (reservation.Reservation, bool) {
	confirmed, err := w.Confirm(w.RoomNumber)
	if err != nil {
		return reservation.Reservation{}, false
	}
	i, ok := s.findWaitList(w.Code)
	if !ok {
		return reservation.Reservation{}, false
	}
	s.waitlist = append(s.waitlist[:i], s.waitlist[i+1:]...)
	s.active = append(s.active, confirmed)
	return confirmed, true
}
