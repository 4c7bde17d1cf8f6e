package guest

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// FindByContact returns the guest registered under a contact number, or
// (nil, nil) when no such guest exists.
func (r *Repository) FindByContact(ctx context.Context, contact string) (*Guest, error) {
	const q = `
SELECT contact, name, COALESCE(identification,''), COALESCE(nationality,'')
FROM guests
WHERE contact = $1
`
	g := &Guest{}
	if err := r.db.QueryRow(ctx, q, contact).Scan(
		&g.Contact, &g.Name, &g.Identification, &g.Nationality,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return g, nil
}

func (r *Repository) Upsert(ctx context.Context, g Guest) (*Guest, error) {
	const q = `
INSERT INTO guests (contact, name, identification, nationality)
VALUES ($1, $2, $3, $4)
ON CONFLICT (contact) DO UPDATE SET
  name = EXCLUDED.name,
  identification = EXCLUDED.identification,
  nationality = EXCLUDED.nationality
RETURNING contact, name, COALESCE(identification,''), COALESCE(nationality,'')
`
	out := &Guest{}
	if err := r.db.QueryRow(ctx, q, g.Contact, g.Name, g.Identification, g.Nationality).Scan(
		&out.Contact, &out.Name, &out.Identification, &out.Nationality,
	); err != nil {
		return nil, err
	}
	return out, nil
}
