package party

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a party does not exist.
var ErrNotFound = errors.New("party: not found")

const partyColumns = `id, type, name, phone, address, balance::text, created_at, updated_at`

// Repo persists parties in Postgres.
type Repo struct {
	Pool *pgxpool.Pool
}

func scanParty(row pgx.Row) (Party, error) {
	var (
		p              Party
		typ, balance   string
		phone, address *string
	)
	err := row.Scan(&p.ID, &typ, &p.Name, &phone, &address, &balance, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Party{}, ErrNotFound
		}
		return Party{}, err
	}
	p.Type = Type(typ)
	if phone != nil {
		p.Phone = *phone
	}
	if address != nil {
		p.Address = *address
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(balance)); err == nil {
		p.Balance = d
	}
	return p, nil
}

// InsertParty stores a new party.
func (r *Repo) InsertParty(ctx context.Context, p Party) (Party, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	row := r.Pool.QueryRow(ctx, `
		INSERT INTO parties (id, type, name, phone, address, balance, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,0,$6,$6)
		RETURNING `+partyColumns,
		p.ID, string(p.Type), p.Name, nullable(p.Phone), nullable(p.Address), now,
	)
	saved, err := scanParty(row)
	if err != nil {
		return Party{}, fmt.Errorf("insert party: %w", err)
	}
	return saved, nil
}

// UpdateParty updates an existing party's contact fields.
func (r *Repo) UpdateParty(ctx context.Context, p Party) (Party, error) {
	row := r.Pool.QueryRow(ctx, `
		UPDATE parties SET type = $2, name = $3, phone = $4, address = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+partyColumns,
		p.ID, string(p.Type), p.Name, nullable(p.Phone), nullable(p.Address),
	)
	saved, err := scanParty(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Party{}, ErrNotFound
		}
		return Party{}, fmt.Errorf("update party: %w", err)
	}
	return saved, nil
}

// DeleteParty removes a party by id.
func (r *Repo) DeleteParty(ctx context.Context, id uuid.UUID) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM parties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete party: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetParty fetches a party by id.
func (r *Repo) GetParty(ctx context.Context, id uuid.UUID) (Party, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+partyColumns+` FROM parties WHERE id = $1`, id)
	return scanParty(row)
}

// ListParties returns a page of parties filtered by type and name.
func (r *Repo) ListParties(ctx context.Context, typ, query string, limit, offset int) ([]Party, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+partyColumns+` FROM parties
		WHERE ($1 = '' OR type = $1)
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		ORDER BY name
		LIMIT $3 OFFSET $4`,
		strings.TrimSpace(typ), strings.TrimSpace(query), limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	defer rows.Close()
	var parties []Party
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan party: %w", err)
		}
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

// CountParties returns the number of parties matching the filters.
func (r *Repo) CountParties(ctx context.Context, typ, query string) (int64, error) {
	var total int64
	err := r.Pool.QueryRow(ctx, `
		SELECT count(*) FROM parties
		WHERE ($1 = '' OR type = $1)
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%')`,
		strings.TrimSpace(typ), strings.TrimSpace(query),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count parties: %w", err)
	}
	return total, nil
}

// RefreshBalance recomputes a party's outstanding balance from its documents.
// Purchase orders carry no payment and are excluded.
func (r *Repo) RefreshBalance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	var balance string
	err := r.Pool.QueryRow(ctx, `
		UPDATE parties SET
			balance = COALESCE((
				SELECT sum(d.grand_total - d.paid_amount)
				FROM documents d
				WHERE d.party_id = parties.id AND d.type <> 'purchase_order'
			), 0),
			updated_at = now()
		WHERE id = $1
		RETURNING balance::text`,
		id,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("refresh balance: %w", err)
	}
	d, derr := decimal.NewFromString(strings.TrimSpace(balance))
	if derr != nil {
		return decimal.Zero, fmt.Errorf("refresh balance: parse %q: %w", balance, derr)
	}
	return d, nil
}

func nullable(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
