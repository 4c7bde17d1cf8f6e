package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"hotelservice/internal/reservation"
	"hotelservice/internal/room"
)

type memRooms struct {
	rooms   []*room.Room
	failNow bool
	writes  int
}

func (m *memRooms) LoadAll(ctx context.Context) ([]*room.Room, error) {
	return m.rooms, nil
}

func (m *memRooms) ReplaceAll(ctx context.Context, rooms []*room.Room) error {
	if m.failNow {
		return errors.New("snapshot write refused")
	}
	m.rooms = rooms
	m.writes++
	return nil
}

type memReservations struct {
	records []reservation.Reservation
	failNow bool
}

func (m *memReservations) LoadAll(ctx context.Context) ([]reservation.Reservation, error) {
	return m.records, nil
}

func (m *memReservations) ReplaceAll(ctx context.Context, records []reservation.Reservation) error {
	if m.failNow {
		return errors.New("snapshot write refused")
	}
	m.records = append([]reservation.Reservation(nil), records...)
	return nil
}

type memOrders struct {
	totals   map[string]decimal.Decimal
	cleared  []string
	clearErr error
}

func (m *memOrders) AccruedTotal(ctx context.Context, roomNumber string) (decimal.Decimal, error) {
	if t, ok := m.totals[roomNumber]; ok {
		return t, nil
	}
	return decimal.Zero, nil
}

func (m *memOrders) Clear(ctx context.Context, roomNumber string) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared = append(m.cleared, roomNumber)
	return nil
}

func singleRoom(number string) *room.Room {
	return &room.Room{
		Number:  number,
		Type:    room.TypeSingle,
		BedType: room.BedSingle,
		Facing:  room.FacingNorth,
		Status:  room.StatusVacant,
		Rate:    decimal.RequireFromString("100"),
	}
}

type fixture struct {
	svc    *Service
	rooms  *memRooms
	active *memReservations
	wait   *memReservations
	orders *memOrders
}

func newFixture(t *testing.T, rooms ...*room.Room) *fixture {
	t.Helper()
	f := &fixture{
		rooms:  &memRooms{rooms: rooms},
		active: &memReservations{},
		wait:   &memReservations{},
		orders: &memOrders{totals: map[string]decimal.Decimal{}},
	}
	f.svc = New(Snapshots{Rooms: f.rooms, Reservations: f.active, WaitList: f.wait}, f.orders)
	if err := f.svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return f
}

func (f *fixture) room(t *testing.T, number string) room.Room {
	t.Helper()
	rm, err := f.svc.Room(number)
	if err != nil {
		t.Fatalf("room %s: %v", number, err)
	}
	return rm
}

func day(d, hour int) time.Time {
	return time.Date(2024, 3, d, hour, 0, 0, 0, time.UTC)
}

func TestBookConfirmed_ReservesRoom(t *testing.T) {
	f := newFixture(t, singleRoom("01-01"))
	ctx := context.Background()

	rec, err := f.svc.BookConfirmed(ctx, "91234567", day(1, 14), day(4, 10), 2, 0, "01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Status != reservation.StatusConfirmed {
		t.Fatalf("expected Confirmed, got %s", rec.Status)
	}
	if got := f.room(t, "01-01").Status; got != room.StatusReserved {
		t.Fatalf("expected room Reserved, got %s", got)
	}
	if len(f.active.records) != 1 {
		t.Fatalf("expected 1 flushed reservation, got %d", len(f.active.records))
	}
}

func TestBookConfirmed_TouchingIntervalsRejected(t *testing.T) {
	f := newFixture(t, singleRoom("01-01"))
	ctx := context.Background()

	if _, err := f.svc.BookConfirmed(ctx, "91234567", day(10, 10), day(10, 12), 1, 0, "01-01"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A second stay starting exactly at the first's check-out must be refused.
	if _, err := f.svc.BookConfirmed(ctx, "98765432", day(10, 12), day(10, 14), 1, 0, "01-01"); !errors.Is(err, ErrRoomUnavailable) {
		t.Fatalf("expected ErrRoomUnavailable, got %v", err)
	}
	// A stay with a real gap goes through.
	if _, err := f.svc.BookConfirmed(ctx, "98765432", day(10, 13), day(10, 15), 1, 0, "01-01"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBookConfirmed_UnknownRoom(t *testing.T) {
	f := newFixture(t, singleRoom("01-01"))
	if _, err := f.svc.BookConfirmed(context.Background(), "91234567", day(1, 14), day(2, 10), 1, 0, "09-09"); !errors.Is(err, reservation.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestBookWalkIn_OccupiesRoom(t *testing.T) {
	f := newFixture(t, singleRoom("01-01"))
	ctx := context.Background()

	rec, err := f.svc.BookWalkIn(ctx, "91234567", day(1, 15), day(3, 10), 1, 0, "01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Status != reservation.StatusCheckedIn {
		t.Fatalf("expected CheckedIn, got %s", rec.Status)
	}
	rm := f.room(t, "01-01")
	if rm.Status != room.StatusOccupied || rm.OccupantContact != "91234567" {
		t.Fatalf("expected occupied by 91234567, got %s/%q", rm.Status, rm.OccupantContact)
	}
}

func TestCheckIn_WithinGrace(t *testing.T) {
	f := newFixture(t, singleRoom("01-01"))
	ctx := context.Background()

	rec, err := f.svc.BookConfirmed(ctx, "91234567", day(1, 14), day(4, 10), 2, 0, "01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in, err := f.svc.CheckIn(ctx, rec.Code, day(1, 20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Status != reservation.StatusCheckedIn {
		t.Fatalf("expected CheckedIn, got %s", in.Status)
	}
	if in.Code != rec.Code {
		t.Fatalf("check-in must preserve the code")
	}
	if !in.CheckIn.Equal(day(1, 20)) {
		t.Fatalf("expected actual arrival recorded, got %v", in.CheckIn)
	}
	if got := f.room(t, "01-01").Status; got != room.StatusOccupied {
		t.Fatalf("expected Occupied, got %s", got)
	}
}

func TestCheckIn_PastGraceExpiresAndReleasesAtCutoff(t *testing.T) {
	f := newFixture(t, singleRoom("01-01"))
	ctx := context.Background()

	// Confirmed check-in 2024-03-01 14:00; grace cutoff 2024-03-02 14:00.
	rec, err := f.svc.BookConfirmed(ctx, "91234567", day(1, 14), day(4, 10), 2, 0, "01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A waitlisted stay starting 14:30 on the cutoff day. It begins after
	// the cutoff but before the late arrival, so it distinguishes the two
	// candidate reference times for the release cascade.
	w, err := f.svc.BookWaitList(ctx, "98765432", day(2, 14).Add(30*time.Minute), day(5, 10), 1, 0, "01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expired, err := f.svc.CheckIn(ctx, rec.Code, day(2, 15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expired.Status != reservation.StatusExpired {
		t.Fatalf("expected Expired, got %s", expired.Status)
	}
	if _, err := f.svc.Find(rec.Code); !errors.Is(err, reservation.ErrReservationNotFound) {
		t.Fatalf("expired reservation must leave the collections, got %v", err)
	}
	// Release is evaluated at the cutoff (14:00), so the 14:30 waitlist
	// entry is promoted and keeps the room reserved. Evaluating at the
	// 15:00 arrival would free the room instead.
	if got := f.room(t, "01-01").Status; got != room.StatusReserved {
		t.Fatalf("expected Reserved after cutoff release, got %s", got)
	}
	if got := len(f.svc.WaitList()); got != 0 {
		t.Fatalf("expected the waitlist entry promoted, got %d entries", got)
	}
	promoted := f.svc.FindByContact("98765432")
	if len(promoted) != 1 || promoted[0].Status != reservation.StatusConfirmed {
		t.Fatalf("expected one confirmed promotion, got %+v", promoted)
	}
	if promoted[0].Code == w.Code {
		t.Fatalf("promotion must mint a new code")
	}
}

func TestCheckOut_BillsAndReleases(t *testing.T) {
	f := newFixture(t, singleRoom("01-01"))
	ctx := context.Background()
	f.orders.totals["01-01"] = decimal.RequireFromString("50")

	// Monday 10:00 arrival, two weekday nights.
	rec, err := f.svc.BookConfirmed(ctx, "91234567", day(4, 10), day(6, 10), 2, 0, "01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.CheckIn(ctx, rec.Code, day(4, 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bill, err := f.svc.CheckOut(ctx, "01-01", day(6, 10), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bill.Total.Equal(decimal.RequireFromString("240.75")) {
		t.Fatalf("expected total 240.75, got %s", bill.Total)
	}
	rm := f.room(t, "01-01")
	if rm.Status != room.StatusVacant || rm.OccupantContact != "" {
		t.Fatalf("expected vacant with no occupant, got %s/%q", rm.Status, rm.OccupantContact)
	}
	if _, err := f.svc.Find(rec.Code); !errors.Is(err, reservation.ErrReservationNotFound) {
		t.Fatalf("settled reservation must leave the collections, got %v", err)
	}
	if len(f.orders.cleared) != 1 || f.orders.cleared[0] != "01-01" {
		t.Fatalf("expected the service tab cleared, got %v", f.orders.cleared)
	}
}

func TestCheckOut_NoOccupant(t *testing.T) {
	f := newFixture(t, singleRoom("01-01"))
	if _, err := f.svc.CheckOut(context.Background(), "01-01", day(6, 10), false); !errors.Is(err, reservation.ErrReservationNotFound) {
		t.Fatalf("expected ErrReservationNotFound, got %v", err)
	}
}

func TestCancel_ConfirmedReleasesRoom(t *testing.T) {
	f := newFixture(t, singleRoom("01-01"))
	ctx := context.Background()

	rec, err := f.svc.BookConfirmed(ctx, "91234567", day(1, 14), day(4, 10), 2, 0, "01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expired, err := f.svc.Cancel(ctx, rec.Code)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expired.Status != reservation.StatusExpired {
		t.Fatalf("expected Expired, got %s", expired.Status)
	}
	if got := f.room(t, "01-01").Status; got != room.StatusVacant {
		t.Fatalf("expected Vacant after cancel, got %s", got)
	}
}

func TestCancel_WaitlistEntry(t *testing.T) {
	f := newFixture(t, singleRoom("01-01"))
	ctx := context.Background()

	w, err := f.svc.BookWaitList(ctx, "91234567", day(1, 14), day(4, 10), 1, 0, "01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.Cancel(ctx, w.Code); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(f.svc.WaitList()); got != 0 {
		t.Fatalf("expected empty waitlist, got %d entries", got)
	}
}

func TestFlushFailure_RollsBack(t *testing.T) {
	f := newFixture(t, singleRoom("01-01"))
	ctx := context.Background()

	f.active.failNow = true
	if _, err := f.svc.BookConfirmed(ctx, "91234567", day(1, 14), day(4, 10), 2, 0, "01-01"); err == nil {
		t.Fatalf("expected flush error")
	}
	// The failed booking must leave no trace: room back to vacant, no record.
	if got := f.room(t, "01-01").Status; got != room.StatusVacant {
		t.Fatalf("expected Vacant after rollback, got %s", got)
	}
	if got := len(f.svc.FindByContact("91234567")); got != 0 {
		t.Fatalf("expected no reservations after rollback, got %d", got)
	}

	// A later attempt succeeds once the store recovers.
	f.active.failNow = false
	if _, err := f.svc.BookConfirmed(ctx, "91234567", day(1, 14), day(4, 10), 2, 0, "01-01"); err != nil {
		t.Fatalf("unexpected error after recovery: %v", err)
	}
}

func TestConfirmWaitlisted_MintsNewCode(t *testing.T) {
	f := newFixture(t, singleRoom("01-01"))
	ctx := context.Background()

	w, err := f.svc.BookWaitList(ctx, "91234567", day(1, 14), day(4, 10), 1, 0, "01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, err := f.svc.ConfirmWaitlisted(ctx, w.Code, "01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Code == w.Code {
		t.Fatalf("promotion must mint a new code")
	}
	if got := f.room(t, "01-01").Status; got != room.StatusReserved {
		t.Fatalf("expected Reserved, got %s", got)
	}
	if got := len(f.svc.WaitList()); got != 0 {
		t.Fatalf("expected empty waitlist, got %d entries", got)
	}
}

func TestMaintenance(t *testing.T) {
	f := newFixture(t, singleRoom("01-01"))
	ctx := context.Background()

	if err := f.svc.MarkMaintenance(ctx, "01-01"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.BookConfirmed(ctx, "91234567", day(1, 14), day(4, 10), 1, 0, "01-01"); !errors.Is(err, ErrRoomUnavailable) {
		t.Fatalf("expected ErrRoomUnavailable for a maintained room, got %v", err)
	}
	if err := f.svc.MarkMaintenance(ctx, "01-01"); !errors.Is(err, ErrRoomNotVacant) {
		t.Fatalf("expected ErrRoomNotVacant, got %v", err)
	}
	if err := f.svc.EndMaintenance(ctx, "01-01"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.BookConfirmed(ctx, "91234567", day(1, 14), day(4, 10), 1, 0, "01-01"); err != nil {
		t.Fatalf("unexpected error after maintenance ends: %v", err)
	}
}

func TestCheckAvailability_FiltersByKind(t *testing.T) {
	double := singleRoom("02-01")
	double.Type = room.TypeDouble
	double.BedType = room.BedDouble
	f := newFixture(t, singleRoom("01-01"), double)

	got, err := f.svc.CheckAvailability(room.TypeSingle, room.BedSingle, room.FacingNorth, day(1, 14), day(4, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Number != "01-01" {
		t.Fatalf("expected only 01-01, got %d rooms", len(got))
	}
}

func TestCheckAvailability_ResultsDoNotAliasThePool(t *testing.T) {
	f := newFixture(t, singleRoom("01-01"))
	ctx := context.Background()

	got, err := f.svc.CheckAvailability(room.TypeSingle, room.BedSingle, room.FacingNorth, day(1, 14), day(4, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Status != room.StatusVacant {
		t.Fatalf("expected one vacant room, got %+v", got)
	}

	// A booking after the query mutates the pool; the earlier result is a
	// snapshot and must not observe it.
	if _, err := f.svc.BookConfirmed(ctx, "91234567", day(1, 14), day(4, 10), 1, 0, "01-01"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Status != room.StatusVacant {
		t.Fatalf("availability result aliases the live pool: %s", got[0].Status)
	}
	if rm := f.room(t, "01-01"); rm.Status != room.StatusReserved {
		t.Fatalf("expected the pool room Reserved, got %s", rm.Status)
	}

	// Writes through the result must not reach the pool either.
	got[0].Status = room.StatusMaintenance
	if rm := f.room(t, "01-01"); rm.Status != room.StatusReserved {
		t.Fatalf("mutating the result leaked into the pool: %s", rm.Status)
	}
}

func TestCheckOut_ClearFailureDoesNotFailSettledStay(t *testing.T) {
	f := newFixture(t, singleRoom("01-01"))
	ctx := context.Background()
	f.orders.clearErr = errors.New("tab delete refused")

	rec, err := f.svc.BookConfirmed(ctx, "91234567", day(4, 10), day(6, 10), 1, 0, "01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.CheckIn(ctx, rec.Code, day(4, 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bill, err := f.svc.CheckOut(ctx, "01-01", day(6, 10), false)
	if err != nil {
		t.Fatalf("a settled stay must not report failure, got %v", err)
	}
	if !bill.Total.Equal(decimal.RequireFromString("214")) {
		t.Fatalf("expected total 214, got %s", bill.Total)
	}
	if got := f.room(t, "01-01").Status; got != room.StatusVacant {
		t.Fatalf("expected Vacant after checkout, got %s", got)
	}
	if _, err := f.svc.Find(rec.Code); !errors.Is(err, reservation.ErrReservationNotFound) {
		t.Fatalf("settled reservation must leave the collections, got %v", err)
	}
}

func TestOccupancyReport(t *testing.T) {
	double := singleRoom("02-01")
	double.Type = room.TypeDouble
	double.BedType = room.BedDouble
	f := newFixture(t, singleRoom("01-01"), singleRoom("01-02"), double)
	ctx := context.Background()

	if _, err := f.svc.BookWalkIn(ctx, "91234567", day(1, 15), day(3, 10), 1, 0, "01-01"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report := f.svc.OccupancyReport()
	byType := map[room.Type]OccupancyByType{}
	for _, row := range report {
		byType[row.Type] = row
	}
	if row := byType[room.TypeSingle]; row.Total != 2 || row.Vacant != 1 || len(row.VacantRooms) != 1 || row.VacantRooms[0] != "01-02" {
		t.Fatalf("unexpected single-room row: %+v", row)
	}
	if row := byType[room.TypeDouble]; row.Total != 1 || row.Vacant != 1 {
		t.Fatalf("unexpected double-room row: %+v", row)
	}
}
