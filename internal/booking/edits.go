package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hotelservice/internal/reservation"
	"hotelservice/internal/room"
)

// EditCheckIn changes the desired/confirmed check-in time. For a confirmed
// reservation whose current room no longer fits the new interval, the stay
// is reassigned to the first available room of the same type, bed type and
// facing; if none fits, the edit is rejected and the reservation is left
// unchanged.
func (s *Service) EditCheckIn(ctx context.Context, code uuid.UUID, newCheckIn time.Time) (reservation.Reservation, error) {
	return s.editDates(ctx, code, func(r *reservation.Reservation) error {
		return r.SetCheckIn(newCheckIn)
	}, func(r reservation.Reservation) (time.Time, time.Time) {
		return newCheckIn, r.CheckOut
	})
}

// EditCheckOut changes the desired/confirmed check-out time, with the same
// reassignment behavior as EditCheckIn.
func (s *Service) EditCheckOut(ctx context.Context, code uuid.UUID, newCheckOut time.Time) (reservation.Reservation, error) {
	return s.editDates(ctx, code, func(r *reservation.Reservation) error {
		return r.SetCheckOut(newCheckOut)
	}, func(r reservation.Reservation) (time.Time, time.Time) {
		return r.CheckIn, newCheckOut
	})
}

func (s *Service) editDates(ctx context.Context, code uuid.UUID, apply func(*reservation.Reservation) error, interval func(reservation.Reservation) (time.Time, time.Time)) (reservation.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Waitlist entries carry no room claim; edit in place.
	if i, ok := s.findWaitList(code); ok {
		undo := s.backup()
		if err := apply(&s.waitlist[i]); err != nil {
			return reservation.Reservation{}, err
		}
		if err := s.flush(ctx, dirty{waitlist: true}, undo); err != nil {
			return reservation.Reservation{}, err
		}
		return s.waitlist[i], nil
	}

	i, ok := s.findActive(code)
	if !ok {
		return reservation.Reservation{}, reservation.ErrReservationNotFound
	}
	rec := s.active[i]
	if rec.Status != reservation.StatusConfirmed {
		// Checked-in stays can extend their expected check-out in place;
		// anything else the record rejects with the right failure kind.
		undo := s.backup()
		if err := apply(&s.active[i]); err != nil {
			return reservation.Reservation{}, err
		}
		if err := s.flush(ctx, dirty{active: true}, undo); err != nil {
			return reservation.Reservation{}, err
		}
		return s.active[i], nil
	}

	current, err := s.findRoom(rec.RoomNumber)
	if err != nil {
		return reservation.Reservation{}, err
	}
	start, end := interval(rec)
	if !start.Before(end) {
		return reservation.Reservation{}, reservation.ErrInvalidInterval
	}

	// The reservation's own booking is excluded from the conflict set, so a
	// pure shrink or shift within the current room's free time stays put.
	var candidates []*room.Room
	for _, rm := range s.rooms {
		if rm.Matches(current.Type, current.BedType, current.Facing) && rm.Status != room.StatusMaintenance {
			candidates = append(candidates, rm)
		}
	}
	confirmed, occupied := s.stayMaps(rec.Code)
	valid, err := room.FilterAvailable(candidates, start, end, confirmed, occupied)
	if err != nil {
		return reservation.Reservation{}, err
	}
	if len(valid) == 0 {
		return reservation.Reservation{}, ErrRoomUnavailable
	}

	undo := s.backup()
	if err := apply(&s.active[i]); err != nil {
		undo()
		return reservation.Reservation{}, err
	}
	keep := false
	for _, rm := range valid {
		if rm.Number == current.Number {
			keep = true
			break
		}
	}
	if !keep {
		next := valid[0]
		s.active[i].RoomNumber = next.Number
		if next.Status == room.StatusVacant {
			next.Status = room.StatusReserved
		}
	}
	if err := s.flush(ctx, dirty{rooms: true, active: true}, undo); err != nil {
		return reservation.Reservation{}, err
	}
	return s.active[i], nil
}

// EditGuestCount updates the registered adult and child counts.
func (s *Service) EditGuestCount(ctx context.Context, code uuid.UUID, adults, children int) (reservation.Reservation, error) {
	return s.editInPlace(ctx, code, func(r *reservation.Reservation) error {
		return r.SetGuestCount(adults, children)
	})
}

// EditContact updates the guest contact on the reservation.
func (s *Service) EditContact(ctx context.Context, code uuid.UUID, contact string) (reservation.Reservation, error) {
	return s.editInPlace(ctx, code, func(r *reservation.Reservation) error {
		return r.SetContact(contact)
	})
}

func (s *Service) editInPlace(ctx context.Context, code uuid.UUID, apply func(*reservation.Reservation) error) (reservation.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.findWaitList(code); ok {
		undo := s.backup()
		if err := apply(&s.waitlist[i]); err != nil {
			return reservation.Reservation{}, err
		}
		if err := s.flush(ctx, dirty{waitlist: true}, undo); err != nil {
			return reservation.Reservation{}, err
		}
		return s.waitlist[i], nil
	}
	i, ok := s.findActive(code)
	if !ok {
		return reservation.Reservation{}, reservation.ErrReservationNotFound
	}
	undo := s.backup()
	if err := apply(&s.active[i]); err != nil {
		return reservation.Reservation{}, err
	}
	if err := s.flush(ctx, dirty{active: true}, undo); err != nil {
		return reservation.Reservation{}, err
	}
	return s.active[i], nil
}
