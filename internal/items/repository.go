package items

import (
	"context"
	"errors"
	"time"

	"chanitec_backend/platform/apperr"
	"chanitec_backend/platform/db"
	"chanitec_backend/platform/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	msgNotFound     = "Item not found"
	msgFetchFailed  = "Error fetching items"
	msgGetFailed    = "Error fetching item"
	msgCreateFailed = "Error creating item"
	msgUpdateFailed = "Error updating item"
	msgDeleteFailed = "Error deleting item"
	msgClearFailed  = "Error clearing items"
	msgImportFailed = "Error importing items"
)

// Item is a catalogue entry priced in euros.
type Item struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Quantity    *int32    `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store is the item persistence surface.
type Store interface {
	List(ctx context.Context) ([]Item, error)
	GetByID(ctx context.Context, id string) (Item, error)
	Create(ctx context.Context, item Item) (Item, error)
	Update(ctx context.Context, item Item) (Item, error)
	Delete(ctx context.Context, id string) error
	// Clear removes every item and returns how many rows were deleted.
	Clear(ctx context.Context) (int64, error)
	// InsertBatch writes all items in one transaction.
	InsertBatch(ctx context.Context, items []Item) error
}

// Repository provides data access for items.
type Repository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewRepository creates an item repository.
func NewRepository(pool *pgxpool.Pool, log *logger.Logger) *Repository {
	return &Repository{pool: pool, log: log}
}

const itemColumns = `id, description, price::float8, quantity, created_at, updated_at`

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.Description, &it.Price, &it.Quantity, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

func (r *Repository) List(ctx context.Context) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY description, id`)
	if err != nil {
		return nil, apperr.Storage(msgFetchFailed, err)
	}
	defer rows.Close()

	list := make([]Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, apperr.Storage(msgFetchFailed, err)
		}
		list = append(list, it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(msgFetchFailed, err)
	}
	return list, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (Item, error) {
	it, err := scanItem(r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return Item{}, apperr.Storage(msgGetFailed, err)
	}
	return it, nil
}

func (r *Repository) Create(ctx context.Context, item Item) (Item, error) {
	created, err := scanItem(r.pool.QueryRow(ctx, `
		INSERT INTO items (id, description, price, quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING `+itemColumns,
		item.ID, item.Description, item.Price, item.Quantity,
	))
	if err != nil {
		return Item{}, apperr.Storage(msgCreateFailed, err)
	}
	return created, nil
}

func (r *Repository) Update(ctx context.Context, item Item) (Item, error) {
	updated, err := scanItem(r.pool.QueryRow(ctx, `
		UPDATE items SET description = $2, price = $3, quantity = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+itemColumns,
		item.ID, item.Description, item.Price, item.Quantity,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return Item{}, apperr.Storage(msgUpdateFailed, err)
	}
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return apperr.Storage(msgDeleteFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(msgNotFound)
	}
	return nil
}

func (r *Repository) Clear(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items`)
	if err != nil {
		return 0, apperr.Storage(msgClearFailed, err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) InsertBatch(ctx context.Context, items []Item) error {
	err := db.WithTx(ctx, r.pool, r.log, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, it := range items {
			batch.Queue(`INSERT INTO items (id, description, price, quantity) VALUES ($1, $2, $3, $4)`,
				it.ID, it.Description, it.Price, it.Quantity)
		}
		results := tx.SendBatch(ctx, batch)
		for range items {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return err
			}
		}
		return results.Close()
	})
	if err != nil {
		return apperr.Storage(msgImportFailed, err).WithOp("items.InsertBatch")
	}
	return nil
}

var _ Store = (*Repository)(nil)
