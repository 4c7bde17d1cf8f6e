package reservation

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hotelservice/pkg/db"
)

// Repository is a snapshot store for one reservation collection. The core
// loads the whole collection once at startup and durably replaces it after
// every mutating operation; rows carry a sequence column so that load order
// matches insertion order.
type Repository struct {
	db    *pgxpool.Pool
	table string
}

// NewActiveRepository stores confirmed and checked-in reservations.
func NewActiveRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db, table: "reservations"}
}

// NewWaitListRepository stores waitlisted reservations.
func NewWaitListRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db, table: "waitlist_reservations"}
}

func (r *Repository) LoadAll(ctx context.Context) ([]Reservation, error) {
	q := fmt.Sprintf(`
SELECT code, status, adults, children, guest_contact, room_number, check_in, check_out
FROM %s
ORDER BY seq
`, r.table)
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reservation
	for rows.Next() {
		var rec Reservation
		var status string
		if err := rows.Scan(
			&rec.Code, &status, &rec.Adults, &rec.Children,
			&rec.GuestContact, &rec.RoomNumber, &rec.CheckIn, &rec.CheckOut,
		); err != nil {
			return nil, err
		}
		rec.Status, err = ParseStatus(status)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ReplaceAll rewrites the collection. The rewrite happens inside one
// transaction, but callers must not depend on that: the contract is only
// "durably replace".
func (r *Repository) ReplaceAll(ctx context.Context, records []Reservation) error {
	ins := fmt.Sprintf(`
INSERT INTO %s (code, status, adults, children, guest_contact, room_number, check_in, check_out)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, r.table)
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, r.table)); err != nil {
			return err
		}
		for _, rec := range records {
			if _, err := tx.Exec(ctx, ins,
				rec.Code, string(rec.Status), rec.Adults, rec.Children,
				rec.GuestContact, rec.RoomNumber, rec.CheckIn, rec.CheckOut,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
