package room

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"hotelservice/pkg/db"
)

// Repository is the snapshot store for the fixed room pool.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) LoadAll(ctx context.Context) ([]*Room, error) {
	const q = `
SELECT number, room_type, bed_type, facing, status, has_wifi, smoking_free, rate::text, occupant_contact
FROM rooms
ORDER BY number
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Room
	for rows.Next() {
		rm := &Room{}
		var roomType, bedType, facing, status, rate string
		if err := rows.Scan(
			&rm.Number, &roomType, &bedType, &facing, &status,
			&rm.HasWiFi, &rm.SmokingFree, &rate, &rm.OccupantContact,
		); err != nil {
			return nil, err
		}
		if rm.Type, err = ParseType(roomType); err != nil {
			return nil, err
		}
		if rm.BedType, err = ParseBedType(bedType); err != nil {
			return nil, err
		}
		if rm.Facing, err = ParseFacing(facing); err != nil {
			return nil, err
		}
		if rm.Status, err = ParseStatus(status); err != nil {
			return nil, err
		}
		if rm.Rate, err = decimal.NewFromString(rate); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (r *Repository) ReplaceAll(ctx context.Context, rooms []*Room) error {
	const ins = `
INSERT INTO rooms (number, room_type, bed_type, facing, status, has_wifi, smoking_free, rate, occupant_contact)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM rooms`); err != nil {
			return err
		}
		for _, rm := range rooms {
			if _, err := tx.Exec(ctx, ins,
				rm.Number, string(rm.Type), string(rm.BedType), string(rm.Facing), string(rm.Status),
				rm.HasWiFi, rm.SmokingFree, rm.Rate, rm.OccupantContact,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
