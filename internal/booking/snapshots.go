package booking

import (
	"context"

	"hotelservice/internal/reservation"
	"hotelservice/internal/room"
)

// RoomSnapshot loads and durably replaces the whole room pool. The service
// assumes nothing about atomicity or partial writes from the implementation.
type RoomSnapshot interface {
	LoadAll(ctx context.Context) ([]*room.Room, error)
	ReplaceAll(ctx context.Context, rooms []*room.Room) error
}

// ReservationSnapshot loads and durably replaces one reservation collection,
// preserving insertion order across the round trip.
type ReservationSnapshot interface {
	LoadAll(ctx context.Context) ([]reservation.Reservation, error)
	ReplaceAll(ctx context.Context, records []reservation.Reservation) error
}

// Snapshots bundles the three collections the service owns: the room pool,
// the active (confirmed/checked-in) reservations, and the waitlist.
type Snapshots struct {
	Rooms        RoomSnapshot
	Reservations ReservationSnapshot
	WaitList     ReservationSnapshot
}
