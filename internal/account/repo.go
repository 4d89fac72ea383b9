package account

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

// ErrNotFound is returned when an account does not exist.
var ErrNotFound = errors.New("account: not found")

const accountColumns = `id, name, kind, balance::text, created_at, updated_at`

// Repo persists accounts and their entries in Postgres.
type Repo struct {
	Pool *pgxpool.Pool
}

func scanAccount(row pgx.Row) (Account, error) {
	var (
		a             Account
		kind, balance string
	)
	err := row.Scan(&a.ID, &a.Name, &kind, &balance, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	a.Kind = Kind(kind)
	if d, derr := decimal.NewFromString(strings.TrimSpace(balance)); derr == nil {
		a.Balance = d
	}
	return a, nil
}

// InsertAccount stores a new account with a zero balance.
func (r *Repo) InsertAccount(ctx context.Context, a Account) (Account, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now().UTC()
	row := r.Pool.QueryRow(ctx, `
		INSERT INTO accounts (id, name, kind, balance, created_at, updated_at)
		VALUES ($1,$2,$3,0,$4,$4)
		RETURNING `+accountColumns,
		a.ID, a.Name, string(a.Kind), now,
	)
	saved, err := scanAccount(row)
	if err != nil {
		return Account{}, fmt.Errorf("insert account: %w", err)
	}
	return saved, nil
}

// UpdateAccount renames an account or changes its kind.
func (r *Repo) UpdateAccount(ctx context.Context, a Account) (Account, error) {
	row := r.Pool.QueryRow(ctx, `
		UPDATE accounts SET name = $2, kind = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+accountColumns,
		a.ID, a.Name, string(a.Kind),
	)
	saved, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Account{}, ErrNotFound
		}
		return Account{}, fmt.Errorf("update account: %w", err)
	}
	return saved, nil
}

// DeleteAccount removes an account.
func (r *Repo) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetAccount fetches an account by id.
func (r *Repo) GetAccount(ctx context.Context, id uuid.UUID) (Account, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

// ListAccounts returns all accounts ordered by name.
func (r *Repo) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	var accounts []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// InsertEntry books a money movement and adjusts the account balance in one
// transaction.
func (r *Repo) InsertEntry(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("begin entry tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	delta := e.Amount
	if e.Direction == DirOut {
		delta = delta.Neg()
	}
	tag, err := tx.Exec(ctx, `
		UPDATE accounts SET balance = balance + $2, updated_at = now() WHERE id = $1`,
		e.AccountID, delta.String(),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("adjust balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Entry{}, ErrNotFound
	}
	now := time.Now().UTC()
	_, err = tx.Exec(ctx, `
		INSERT INTO account_entries (id, account_id, document_id, direction, amount, note, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.ID, e.AccountID, e.DocumentID, string(e.Direction), e.Amount.String(), nullable(e.Note), now,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert entry: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Entry{}, fmt.Errorf("commit entry tx: %w", err)
	}
	e.CreatedAt = now
	return e, nil
}

// ListEntries returns entries for an account, newest first.
func (r *Repo) ListEntries(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]Entry, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT id, account_id, document_id, direction, amount::text, note, created_at
		FROM account_entries
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		accountID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var (
			e                 Entry
			direction, amount string
			note              *string
		)
		if err := rows.Scan(&e.ID, &e.AccountID, &e.DocumentID, &direction, &amount, &note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Direction = Direction(direction)
		if d, derr := decimal.NewFromString(strings.TrimSpace(amount)); derr == nil {
			e.Amount = d
		}
		if note != nil {
			e.Note = *note
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullable(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
