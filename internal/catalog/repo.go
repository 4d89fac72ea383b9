package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bizbook/internal/pricing"
)

// ErrDuplicateName is returned when an item name is already taken.
var ErrDuplicateName = errors.New("catalog: item name already exists")

// ErrNotFound is returned when an item does not exist.
var ErrNotFound = errors.New("catalog: item not found")

const itemColumns = `id, name, sku, unit_kind, base_unit, secondary_unit, unit_factor::text,
	unit_label, purchase_price::text, purchase_price_unit, sale_price::text, sale_price_unit,
	wholesale_price::text, wholesale_price_unit, min_wholesale_qty::text, created_at, updated_at`

// Repo persists catalog items in Postgres.
type Repo struct {
	Pool *pgxpool.Pool
}

func (r *Repo) scanItem(row pgx.Row) (Item, error) {
	var (
		item                                            Item
		unitKind, purchaseUnit, saleUnit, wholesaleUnit string
		factor, purchase, sale, wholesale, minQty       string
		sku, baseUnit, secondaryUnit, unitLabel         *string
	)
	err := row.Scan(
		&item.ID, &item.Name, &sku, &unitKind, &baseUnit, &secondaryUnit, &factor,
		&unitLabel, &purchase, &purchaseUnit, &sale, &saleUnit,
		&wholesale, &wholesaleUnit, &minQty, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	item.UnitKind = pricing.UnitKind(unitKind)
	if sku != nil {
		item.Sku = *sku
	}
	if baseUnit != nil {
		item.BaseUnit = *baseUnit
	}
	if secondaryUnit != nil {
		item.SecondaryUnit = *secondaryUnit
	}
	if unitLabel != nil {
		item.UnitLabel = *unitLabel
	}
	item.UnitFactor = mustDecimal(factor)
	item.PurchasePrice = mustDecimal(purchase)
	item.PurchasePriceUnit = pricing.PriceUnitKind(purchaseUnit)
	item.SalePrice = mustDecimal(sale)
	item.SalePriceUnit = pricing.PriceUnitKind(saleUnit)
	item.WholesalePrice = mustDecimal(wholesale)
	item.WholesalePriceUnit = pricing.PriceUnitKind(wholesaleUnit)
	item.MinWholesaleQty = mustDecimal(minQty)
	return item, nil
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// InsertItem stores a new item and returns the persisted row.
func (r *Repo) InsertItem(ctx context.Context, item Item) (Item, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	now := time.Now().UTC()
	row := r.Pool.QueryRow(ctx, `
		INSERT INTO items (
			id, name, sku, unit_kind, base_unit, secondary_unit, unit_factor, unit_label,
			purchase_price, purchase_price_unit, sale_price, sale_price_unit,
			wholesale_price, wholesale_price_unit, min_wholesale_qty, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$16)
		RETURNING `+itemColumns,
		item.ID, item.Name, nullable(item.Sku), string(item.UnitKind), nullable(item.BaseUnit), nullable(item.SecondaryUnit),
		item.UnitFactor.String(), nullable(item.UnitLabel),
		item.PurchasePrice.String(), string(item.PurchasePriceUnit),
		item.SalePrice.String(), string(item.SalePriceUnit),
		item.WholesalePrice.String(), string(item.WholesalePriceUnit),
		item.MinWholesaleQty.String(), now,
	)
	saved, err := r.scanItem(row)
	if err != nil {
		return Item{}, wrapWriteErr("insert item", err)
	}
	return saved, nil
}

// UpdateItem updates an existing item and returns the persisted row.
func (r *Repo) UpdateItem(ctx context.Context, item Item) (Item, error) {
	row := r.Pool.QueryRow(ctx, `
		UPDATE items SET
			name = $2, sku = $3, unit_kind = $4, base_unit = $5, secondary_unit = $6,
			unit_factor = $7, unit_label = $8,
			purchase_price = $9, purchase_price_unit = $10,
			sale_price = $11, sale_price_unit = $12,
			wholesale_price = $13, wholesale_price_unit = $14,
			min_wholesale_qty = $15, updated_at = now()
		WHERE id = $1
		RETURNING `+itemColumns,
		item.ID, item.Name, nullable(item.Sku), string(item.UnitKind), nullable(item.BaseUnit), nullable(item.SecondaryUnit),
		item.UnitFactor.String(), nullable(item.UnitLabel),
		item.PurchasePrice.String(), string(item.PurchasePriceUnit),
		item.SalePrice.String(), string(item.SalePriceUnit),
		item.WholesalePrice.String(), string(item.WholesalePriceUnit),
		item.MinWholesaleQty.String(),
	)
	saved, err := r.scanItem(row)
	if err != nil {
		return Item{}, wrapWriteErr("update item", err)
	}
	return saved, nil
}

// DeleteItem removes an item by id.
func (r *Repo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetItem fetches an item by id.
func (r *Repo) GetItem(ctx context.Context, id uuid.UUID) (Item, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
	return r.scanItem(row)
}

// GetItemByName fetches an item by its case-insensitive name.
func (r *Repo) GetItemByName(ctx context.Context, name string) (Item, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE lower(name) = lower($1)`, strings.TrimSpace(name))
	return r.scanItem(row)
}

// ListItems returns a page of items matching the optional name filter.
func (r *Repo) ListItems(ctx context.Context, query string, limit, offset int) ([]Item, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR sku ILIKE '%' || $1 || '%')
		ORDER BY name
		LIMIT $2 OFFSET $3`,
		strings.TrimSpace(query), limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		item, err := r.scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CountItems returns the number of items matching the optional name filter.
func (r *Repo) CountItems(ctx context.Context, query string) (int64, error) {
	var total int64
	err := r.Pool.QueryRow(ctx, `
		SELECT count(*) FROM items
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR sku ILIKE '%' || $1 || '%')`,
		strings.TrimSpace(query),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
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

func wrapWriteErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateName
	}
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
