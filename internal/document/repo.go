package document

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

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document: not found")

const documentColumns = `id, type, number, party_id, discount_kind, discount_value::text,
	tax_kind, tax_value::text, sub_total::text, item_discount_total::text, global_discount::text,
	total_discount::text, tax_amount::text, grand_total::text, paid_amount::text, credit::text,
	account_id, note, created_at`

// Repo persists documents and their lines in Postgres.
type Repo struct {
	Pool *pgxpool.Pool
}

func scanDocument(row pgx.Row) (Document, error) {
	var (
		d                               Document
		typ                             string
		discountKind, taxKind, note     *string
		discountValue, taxValue         string
		subTotal, itemDiscount, global  string
		totalDiscount, taxAmount, grand string
		paid, credit                    string
	)
	err := row.Scan(
		&d.ID, &typ, &d.Number, &d.PartyID, &discountKind, &discountValue,
		&taxKind, &taxValue, &subTotal, &itemDiscount, &global,
		&totalDiscount, &taxAmount, &grand, &paid, &credit,
		&d.AccountID, &note, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	d.Type = Type(typ)
	if discountKind != nil {
		d.DiscountKind = *discountKind
	}
	if taxKind != nil {
		d.TaxKind = *taxKind
	}
	if note != nil {
		d.Note = *note
	}
	d.DiscountValue = parseDec(discountValue)
	d.TaxValue = parseDec(taxValue)
	d.SubTotal = parseDec(subTotal)
	d.ItemDiscountTotal = parseDec(itemDiscount)
	d.GlobalDiscount = parseDec(global)
	d.TotalDiscount = parseDec(totalDiscount)
	d.TaxAmount = parseDec(taxAmount)
	d.GrandTotal = parseDec(grand)
	d.PaidAmount = parseDec(paid)
	d.Credit = parseDec(credit)
	return d, nil
}

func parseDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// InsertDocument stores a document and its lines in one transaction.
func (r *Repo) InsertDocument(ctx context.Context, d Document) (Document, error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	now := time.Now().UTC()
	d.CreatedAt = now

	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("begin document tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO documents (
			id, type, number, party_id, discount_kind, discount_value,
			tax_kind, tax_value, sub_total, item_discount_total, global_discount,
			total_discount, tax_amount, grand_total, paid_amount, credit,
			account_id, note, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
		d.ID, string(d.Type), d.Number, d.PartyID, nullable(d.DiscountKind), d.DiscountValue.String(),
		nullable(d.TaxKind), d.TaxValue.String(), d.SubTotal.String(), d.ItemDiscountTotal.String(), d.GlobalDiscount.String(),
		d.TotalDiscount.String(), d.TaxAmount.String(), d.GrandTotal.String(), d.PaidAmount.String(), d.Credit.String(),
		d.AccountID, nullable(d.Note), now,
	)
	if err != nil {
		return Document{}, fmt.Errorf("insert document: %w", err)
	}
	for i, line := range d.Lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO document_lines (
				id, document_id, position, item_name, quantity, unit,
				unit_price, discount_percent, discount_amount, amount
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			uuid.New(), d.ID, i, line.ItemName, line.Quantity.String(), nullable(line.Unit),
			line.UnitPrice.String(), decPtr(line.DiscountPercent), decPtr(line.DiscountAmount), line.Amount.String(),
		)
		if err != nil {
			return Document{}, fmt.Errorf("insert document line %d: %w", i, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Document{}, fmt.Errorf("commit document tx: %w", err)
	}
	return d, nil
}

// GetDocument fetches a document with its lines.
func (r *Repo) GetDocument(ctx context.Context, id uuid.UUID) (Document, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	d, err := scanDocument(row)
	if err != nil {
		return Document{}, err
	}
	rows, err := r.Pool.Query(ctx, `
		SELECT item_name, quantity::text, unit, unit_price::text,
			discount_percent::text, discount_amount::text, amount::text
		FROM document_lines
		WHERE document_id = $1
		ORDER BY position`,
		id,
	)
	if err != nil {
		return Document{}, fmt.Errorf("list document lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			line                    Line
			quantity, price, amount string
			unit, percent, discount *string
		)
		if err := rows.Scan(&line.ItemName, &quantity, &unit, &price, &percent, &discount, &amount); err != nil {
			return Document{}, fmt.Errorf("scan document line: %w", err)
		}
		line.Quantity = parseDec(quantity)
		line.UnitPrice = parseDec(price)
		line.Amount = parseDec(amount)
		if unit != nil {
			line.Unit = *unit
		}
		if percent != nil {
			p := parseDec(*percent)
			line.DiscountPercent = &p
		}
		if discount != nil {
			a := parseDec(*discount)
			line.DiscountAmount = &a
		}
		d.Lines = append(d.Lines, line)
	}
	return d, rows.Err()
}

// ListDocuments returns a page of documents of one type, newest first.
func (r *Repo) ListDocuments(ctx context.Context, typ Type, partyID *uuid.UUID, limit, offset int) ([]Document, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE type = $1 AND ($2::uuid IS NULL OR party_id = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		string(typ), partyID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var docs []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// CountDocuments returns the number of documents of one type.
func (r *Repo) CountDocuments(ctx context.Context, typ Type, partyID *uuid.UUID) (int64, error) {
	var total int64
	err := r.Pool.QueryRow(ctx, `
		SELECT count(*) FROM documents
		WHERE type = $1 AND ($2::uuid IS NULL OR party_id = $2)`,
		string(typ), partyID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return total, nil
}

func nullable(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func decPtr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
