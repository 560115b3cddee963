package repository

import (
	"context"
	"errors"
	"fmt"

	"chanitec_backend/platform/apperr"
	"chanitec_backend/platform/db"
	"chanitec_backend/platform/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	quoteNotFoundMsg      = "Quote not found"
	supplyItemNotFoundMsg = "Supply item not found"
	laborItemNotFoundMsg  = "Labor item not found"
)

const quoteColumns = `
	id, client_name, site_name, object, date::text,
	supply_description, labor_description,
	supply_exchange_rate::text, supply_margin_rate::text,
	labor_exchange_rate::text, labor_margin_rate::text,
	total_supplies_ht::text, total_labor_ht::text, total_ht::text,
	tva::text, total_ttc::text, remise::text,
	parent_id, split_id, confirmed, number_chanitec, reminder_date::text,
	created_at, updated_at`

const supplyItemColumns = `
	id, quote_id, description, quantity::text, price_euro::text,
	price_dollar::text, unit_price_dollar::text, total_price_dollar::text,
	seq, created_at, updated_at`

const laborItemColumns = `
	id, quote_id, description, nb_technicians, nb_hours::text,
	weekend_multiplier::text, price_euro::text,
	price_dollar::text, unit_price_dollar::text, total_price_dollar::text,
	seq, created_at, updated_at`

const findDuplicateQuery = `
	SELECT id FROM quotes
	WHERE client_name = $1 AND site_name = $2 AND object = $3 AND date = $4
	  AND supply_description = $5 AND labor_description = $6
	  AND supply_exchange_rate = $7 AND supply_margin_rate = $8
	  AND labor_exchange_rate = $9 AND labor_margin_rate = $10
	  AND total_supplies_ht = $11 AND total_labor_ht = $12 AND total_ht = $13
	  AND tva = $14 AND total_ttc = $15
	  AND parent_id IS NOT DISTINCT FROM $16
	ORDER BY created_at
	LIMIT 1`

const insertQuoteQuery = `
	INSERT INTO quotes (
		id, client_name, site_name, object, date,
		supply_description, labor_description,
		supply_exchange_rate, supply_margin_rate,
		labor_exchange_rate, labor_margin_rate,
		total_supplies_ht, total_labor_ht, total_ht,
		tva, total_ttc, remise, parent_id, split_id
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

const insertSupplyItemQuery = `
	INSERT INTO supply_items (
		id, quote_id, description, quantity, price_euro,
		price_dollar, unit_price_dollar, total_price_dollar
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const insertLaborItemQuery = `
	INSERT INTO labor_items (
		id, quote_id, description, nb_technicians, nb_hours,
		weekend_multiplier, price_euro,
		price_dollar, unit_price_dollar, total_price_dollar
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const updateHeaderQuery = `
	UPDATE quotes SET
		client_name = $2, site_name = $3, object = $4, date = $5,
		supply_description = $6, labor_description = $7,
		supply_exchange_rate = $8, supply_margin_rate = $9,
		labor_exchange_rate = $10, labor_margin_rate = $11,
		total_supplies_ht = $12, total_labor_ht = $13, total_ht = $14,
		tva = $15, total_ttc = $16,
		remise = COALESCE($17, remise),
		parent_id = COALESCE($18, parent_id),
		split_id = COALESCE($19, split_id),
		updated_at = now()
	WHERE id = $1`

const updateSupplyItemQuery = `
	UPDATE supply_items SET
		description = $2, quantity = $3, price_euro = $4,
		price_dollar = $5, unit_price_dollar = $6, total_price_dollar = $7,
		updated_at = now()
	WHERE id = $1`

const updateLaborItemQuery = `
	UPDATE labor_items SET
		description = $2, nb_technicians = $3, nb_hours = $4,
		weekend_multiplier = $5, price_euro = $6,
		price_dollar = $7, unit_price_dollar = $8, total_price_dollar = $9,
		updated_at = now()
	WHERE id = $1`

const listQuotesQuery = `SELECT ` + quoteColumns + ` FROM quotes ORDER BY date DESC, created_at DESC`

// Lines written by one transaction share created_at, so seq carries the order.
const listSupplyItemsQuery = `SELECT ` + supplyItemColumns + ` FROM supply_items WHERE quote_id = $1 ORDER BY seq`

const listLaborItemsQuery = `SELECT ` + laborItemColumns + ` FROM labor_items WHERE quote_id = $1 ORDER BY seq`

// Repo is the Postgres Store. The zero-transaction Repo runs each statement
// on its own pooled connection; WithTx hands fn a Repo bound to one pgx.Tx.
type Repo struct {
	db   db.Querier
	pool *pgxpool.Pool
	log  *logger.Logger
}

// New creates a new quotes repository
func New(pool *pgxpool.Pool, log *logger.Logger) *Repo {
	return &Repo{db: pool, pool: pool, log: log}
}

// WithTx runs fn inside one transaction.
func (r *Repo) WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return db.WithTx(ctx, r.pool, r.log, func(tx pgx.Tx) error {
		return fn(ctx, &Repo{db: tx, pool: r.pool, log: r.log})
	})
}

// FindDuplicate matches every business field plus parent_id. An absent
// parent matches an absent parent.
func (r *Repo) FindDuplicate(ctx context.Context, q Quote) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, findDuplicateQuery,
		q.ClientName, q.SiteName, q.Object, q.Date,
		q.SupplyDescription, q.LaborDescription,
		q.SupplyExchangeRate, q.SupplyMarginRate,
		q.LaborExchangeRate, q.LaborMarginRate,
		q.TotalSuppliesHT, q.TotalLaborHT, q.TotalHT,
		q.TVA, q.TotalTTC, q.ParentID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find duplicate quote: %w", err)
	}
	return id, nil
}

// InsertQuote writes a quote header. Timestamps come from the column defaults.
func (r *Repo) InsertQuote(ctx context.Context, q Quote) error {
	if _, err := r.db.Exec(ctx, insertQuoteQuery,
		q.ID, q.ClientName, q.SiteName, q.Object, q.Date,
		q.SupplyDescription, q.LaborDescription,
		q.SupplyExchangeRate, q.SupplyMarginRate,
		q.LaborExchangeRate, q.LaborMarginRate,
		q.TotalSuppliesHT, q.TotalLaborHT, q.TotalHT,
		q.TVA, q.TotalTTC, q.Remise, q.ParentID, q.SplitID,
	); err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// InsertSupplyItem writes one supply line.
func (r *Repo) InsertSupplyItem(ctx context.Context, item SupplyItem) error {
	if _, err := r.db.Exec(ctx, insertSupplyItemQuery,
		item.ID, item.QuoteID, item.Description, item.Quantity, item.PriceEuro,
		item.PriceDollar, item.UnitPriceDollar, item.TotalPriceDollar,
	); err != nil {
		return fmt.Errorf("insert supply item: %w", err)
	}
	return nil
}

// InsertLaborItem writes one labor line.
func (r *Repo) InsertLaborItem(ctx context.Context, item LaborItem) error {
	if _, err := r.db.Exec(ctx, insertLaborItemQuery,
		item.ID, item.QuoteID, item.Description, item.NbTechnicians, item.NbHours,
		item.WeekendMultiplier, item.PriceEuro,
		item.PriceDollar, item.UnitPriceDollar, item.TotalPriceDollar,
	); err != nil {
		return fmt.Errorf("insert labor item: %w", err)
	}
	return nil
}

// GetByID retrieves a quote header by ID
func (r *Repo) GetByID(ctx context.Context, id string) (Quote, error) {
	row := r.db.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id)
	q, err := scanQuote(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Quote{}, apperr.NotFound(quoteNotFoundMsg)
	}
	if err != nil {
		return Quote{}, fmt.Errorf("get quote: %w", err)
	}
	return q, nil
}

// Exists reports whether a quote row exists.
func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM quotes WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check quote exists: %w", err)
	}
	return exists, nil
}

// List returns every quote header, newest date first.
func (r *Repo) List(ctx context.Context) ([]Quote, error) {
	rows, err := r.db.Query(ctx, listQuotesQuery)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]Quote, 0)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}
	return quotes, nil
}

// UpdateHeader rewrites the business fields of one quote. remise, parent_id
// and split_id keep their stored value when q leaves them unset.
func (r *Repo) UpdateHeader(ctx context.Context, q Quote) error {
	var remise *string
	if q.Remise != "" {
		remise = &q.Remise
	}

	tag, err := r.db.Exec(ctx, updateHeaderQuery,
		q.ID, q.ClientName, q.SiteName, q.Object, q.Date,
		q.SupplyDescription, q.LaborDescription,
		q.SupplyExchangeRate, q.SupplyMarginRate,
		q.LaborExchangeRate, q.LaborMarginRate,
		q.TotalSuppliesHT, q.TotalLaborHT, q.TotalHT,
		q.TVA, q.TotalTTC, remise, q.ParentID, q.SplitID,
	)
	if err != nil {
		return fmt.Errorf("update quote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMsg)
	}
	return nil
}

// SetReminderDate stores the reminder day for a quote.
func (r *Repo) SetReminderDate(ctx context.Context, id, date string) error {
	tag, err := r.db.Exec(ctx, `UPDATE quotes SET reminder_date = $2, updated_at = now() WHERE id = $1`, id, date)
	if err != nil {
		return fmt.Errorf("set reminder date: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMsg)
	}
	return nil
}

// Confirm stores the confirmation flag and the external reference.
func (r *Repo) Confirm(ctx context.Context, id string, confirmed bool, numberChanitec string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE quotes SET confirmed = $2, number_chanitec = $3, updated_at = now() WHERE id = $1`,
		id, confirmed, numberChanitec)
	if err != nil {
		return fmt.Errorf("confirm quote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMsg)
	}
	return nil
}

// Delete removes the quote header only. Child rows are left in place.
func (r *Repo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMsg)
	}
	return nil
}

// ListSupplyItems returns the supply lines of one quote in insertion order.
func (r *Repo) ListSupplyItems(ctx context.Context, quoteID string) ([]SupplyItem, error) {
	rows, err := r.db.Query(ctx, listSupplyItemsQuery, quoteID)
	if err != nil {
		return nil, fmt.Errorf("list supply items: %w", err)
	}
	defer rows.Close()

	items := make([]SupplyItem, 0)
	for rows.Next() {
		item, err := scanSupplyItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supply item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate supply items: %w", err)
	}
	return items, nil
}

// GetSupplyItem retrieves one supply line by its own id.
func (r *Repo) GetSupplyItem(ctx context.Context, id string) (SupplyItem, error) {
	item, err := scanSupplyItem(r.db.QueryRow(ctx, `SELECT `+supplyItemColumns+` FROM supply_items WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return SupplyItem{}, apperr.NotFound(supplyItemNotFoundMsg)
	}
	if err != nil {
		return SupplyItem{}, fmt.Errorf("get supply item: %w", err)
	}
	return item, nil
}

// UpdateSupplyItem rewrites one supply line.
func (r *Repo) UpdateSupplyItem(ctx context.Context, item SupplyItem) error {
	tag, err := r.db.Exec(ctx, updateSupplyItemQuery,
		item.ID, item.Description, item.Quantity, item.PriceEuro,
		item.PriceDollar, item.UnitPriceDollar, item.TotalPriceDollar,
	)
	if err != nil {
		return fmt.Errorf("update supply item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(supplyItemNotFoundMsg)
	}
	return nil
}

// DeleteSupplyItem removes one supply line.
func (r *Repo) DeleteSupplyItem(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM supply_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete supply item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(supplyItemNotFoundMsg)
	}
	return nil
}

// ListLaborItems returns the labor lines of one quote in insertion order.
func (r *Repo) ListLaborItems(ctx context.Context, quoteID string) ([]LaborItem, error) {
	rows, err := r.db.Query(ctx, listLaborItemsQuery, quoteID)
	if err != nil {
		return nil, fmt.Errorf("list labor items: %w", err)
	}
	defer rows.Close()

	items := make([]LaborItem, 0)
	for rows.Next() {
		item, err := scanLaborItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan labor item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate labor items: %w", err)
	}
	return items, nil
}

// GetLaborItem retrieves one labor line by its own id.
func (r *Repo) GetLaborItem(ctx context.Context, id string) (LaborItem, error) {
	item, err := scanLaborItem(r.db.QueryRow(ctx, `SELECT `+laborItemColumns+` FROM labor_items WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return LaborItem{}, apperr.NotFound(laborItemNotFoundMsg)
	}
	if err != nil {
		return LaborItem{}, fmt.Errorf("get labor item: %w", err)
	}
	return item, nil
}

// UpdateLaborItem rewrites one labor line.
func (r *Repo) UpdateLaborItem(ctx context.Context, item LaborItem) error {
	tag, err := r.db.Exec(ctx, updateLaborItemQuery,
		item.ID, item.Description, item.NbTechnicians, item.NbHours,
		item.WeekendMultiplier, item.PriceEuro,
		item.PriceDollar, item.UnitPriceDollar, item.TotalPriceDollar,
	)
	if err != nil {
		return fmt.Errorf("update labor item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(laborItemNotFoundMsg)
	}
	return nil
}

// DeleteLaborItem removes one labor line.
func (r *Repo) DeleteLaborItem(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM labor_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete labor item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(laborItemNotFoundMsg)
	}
	return nil
}

func scanQuote(row pgx.Row) (Quote, error) {
	var q Quote
	err := row.Scan(
		&q.ID, &q.ClientName, &q.SiteName, &q.Object, &q.Date,
		&q.SupplyDescription, &q.LaborDescription,
		&q.SupplyExchangeRate, &q.SupplyMarginRate,
		&q.LaborExchangeRate, &q.LaborMarginRate,
		&q.TotalSuppliesHT, &q.TotalLaborHT, &q.TotalHT,
		&q.TVA, &q.TotalTTC, &q.Remise,
		&q.ParentID, &q.SplitID, &q.Confirmed, &q.NumberChanitec, &q.ReminderDate,
		&q.CreatedAt, &q.UpdatedAt,
	)
	return q, err
}

func scanSupplyItem(row pgx.Row) (SupplyItem, error) {
	var item SupplyItem
	err := row.Scan(
		&item.ID, &item.QuoteID, &item.Description, &item.Quantity, &item.PriceEuro,
		&item.PriceDollar, &item.UnitPriceDollar, &item.TotalPriceDollar,
		&item.Seq, &item.CreatedAt, &item.UpdatedAt,
	)
	return item, err
}

func scanLaborItem(row pgx.Row) (LaborItem, error) {
	var item LaborItem
	err := row.Scan(
		&item.ID, &item.QuoteID, &item.Description, &item.NbTechnicians, &item.NbHours,
		&item.WeekendMultiplier, &item.PriceEuro,
		&item.PriceDollar, &item.UnitPriceDollar, &item.TotalPriceDollar,
		&item.Seq, &item.CreatedAt, &item.UpdatedAt,
	)
	return item, err
}

var _ Repository = (*Repo)(nil)
