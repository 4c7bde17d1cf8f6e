package room

import (
	"time"

	"hotelservice/internal/reservation"
)

// Stay is a booked interval on a room.
type Stay struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the requested [start, end) interval conflicts
// with the stay. The comparison is closed on both ends: touching endpoints
// count as a conflict. Two consecutive stays on the same room therefore need
// a gap, not just distinct boundaries.
func (s Stay) Overlaps(start, end time.Time) bool {
	return !(start.After(s.End) || end.Before(s.Start))
}

// FilterAvailable returns the subset of rooms free for [start, end).
//
// Vacant rooms qualify outright. Reserved and occupied rooms qualify only if
// no confirmed stay overlaps the request; occupied rooms additionally require
// the requested start to be strictly after the current occupant's expected
// check-out. Maintenance rooms never qualify. An empty result is valid: the
// caller decides whether to waitlist.
func FilterAvailable(rooms []*Room, start, end time.Time, confirmed map[string][]Stay, occupiedUntil map[string]time.Time) ([]*Room, error) {
	if !start.Before(end) {
		return nil, reservation.ErrInvalidInterval
	}
	var out []*Room
	for _, rm := range rooms {
		switch rm.Status {
		case StatusVacant:
			out = append(out, rm)
		case StatusReserved, StatusOccupied:
			free := true
			for _, stay := range confirmed[rm.Number] {
				if stay.Overlaps(start, end) {
					free = false
				}
			}
			if rm.Status == StatusOccupied {
				until, ok := occupiedUntil[rm.Number]
				if !ok || !start.After(until) {
					free = false
				}
			}
			if free {
				out = append(out, rm)
			}
		}
	}
	return out, nil
}
