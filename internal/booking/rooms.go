package booking

import (
	"context"

	"hotelservice/internal/reservation"
	"hotelservice/internal/room"
)

// Rooms returns a copy of the room pool.
func (s *Service) Rooms() []room.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]room.Room, len(s.rooms))
	for i, rm := range s.rooms {
		out[i] = *rm
	}
	return out
}

// Room returns a copy of one room.
func (s *Service) Room(number string) (room.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rm, err := s.findRoom(number)
	if err != nil {
		return room.Room{}, err
	}
	return *rm, nil
}

// MarkMaintenance takes a room out of service. Only a vacant room can enter
// maintenance; maintenance excludes all booking operations until it ends.
func (s *Service) MarkMaintenance(ctx context.Context, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rm, err := s.findRoom(number)
	if err != nil {
		return err
	}
	if rm.Status != room.StatusVacant {
		return ErrRoomNotVacant
	}
	undo := s.backup()
	rm.Status = room.StatusMaintenance
	return s.flush(ctx, dirty{rooms: true}, undo)
}

// EndMaintenance returns a maintained room to the vacant pool.
func (s *Service) EndMaintenance(ctx context.Context, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rm, err := s.findRoom(number)
	if err != nil {
		return err
	}
	if rm.Status != room.StatusMaintenance {
		return ErrRoomNotVacant
	}
	undo := s.backup()
	rm.Status = room.StatusVacant
	return s.flush(ctx, dirty{rooms: true}, undo)
}

// OccupancyByType is one row of the occupancy report.
type OccupancyByType struct {
	Type        room.Type `json:"type"`
	Total       int       `json:"total"`
	Vacant      int       `json:"vacant"`
	VacantRooms []string  `json:"vacant_rooms"`
}

// OccupancyReport summarizes vacancy per room type.
func (s *Service) OccupancyReport() []OccupancyByType {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []OccupancyByType
	for _, t := range room.Types() {
		row := OccupancyByType{Type: t, VacantRooms: []string{}}
		for _, rm := range s.rooms {
			if rm.Type != t {
				continue
			}
			row.Total++
			if rm.Status == room.StatusVacant {
				row.Vacant++
				row.VacantRooms = append(row.VacantRooms, rm.Number)
			}
		}
		out = append(out, row)
	}
	return out
}

// WaitList returns a copy of the waitlist, in insertion order.
func (s *Service) WaitList() []reservation.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]reservation.Reservation(nil), s.waitlist...)
}
