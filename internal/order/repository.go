package order

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository tracks room-service orders per room. The booking core consumes
// only the accrued total at check-out; the ordering flow itself lives
// outside the core.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Add records one ordered item against a room's tab.
func (r *Repository) Add(ctx context.Context, roomNumber, item string, quantity int, unitPrice decimal.Decimal) error {
	const q = `
INSERT INTO room_service_orders (room_number, item, quantity, unit_price)
VALUES ($1, $2, $3, $4)
`
	_, err := r.db.Exec(ctx, q, roomNumber, item, quantity, unitPrice)
	return err
}

// AccruedTotal returns the room's current room-service total, zero when the
// tab is empty.
func (r *Repository) AccruedTotal(ctx context.Context, roomNumber string) (decimal.Decimal, error) {
	const q = `
SELECT COALESCE(SUM(quantity * unit_price), 0)::text
FROM room_service_orders
WHERE room_number = $1
`
	var total string
	if err := r.db.QueryRow(ctx, q, roomNumber).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(total)
}

// Clear empties the room's tab after the stay is settled.
func (r *Repository) Clear(ctx context.Context, roomNumber string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM room_service_orders WHERE room_number = $1`, roomNumber)
	return err
}
