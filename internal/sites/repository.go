package sites

import (
	"context"
	"errors"
	"time"

	"chanitec_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	msgNotFound          = "Site not found"
	msgFetchFailed       = "Error fetching sites"
	msgGetFailed         = "Error fetching site"
	msgByClientFailed    = "Error fetching sites by client"
	msgCreateFailed      = "Error creating site"
	msgUpdateFailed      = "Error updating site"
	msgDeleteFailed      = "Error deleting site"
	msgClientCheckFailed = "Error checking client"
)

// Site is an installation address belonging to a client.
type Site struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address"`
	ClientID  string    `json:"client_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the site persistence surface used by the handler.
type Store interface {
	List(ctx context.Context) ([]Site, error)
	GetByID(ctx context.Context, id string) (Site, error)
	ListByClient(ctx context.Context, clientID string) ([]Site, error)
	ClientExists(ctx context.Context, clientID string) (bool, error)
	Create(ctx context.Context, s Site) (Site, error)
	Update(ctx context.Context, s Site) (Site, error)
	Delete(ctx context.Context, id string) error
}

// Repository provides data access for sites.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a site repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const siteColumns = `id, name, address, client_id, created_at, updated_at`

func scanSite(row pgx.Row) (Site, error) {
	var s Site
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.ClientID, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *Repository) query(ctx context.Context, msg, sql string, args ...any) ([]Site, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperr.Storage(msg, err)
	}
	defer rows.Close()

	sites := make([]Site, 0)
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, apperr.Storage(msg, err)
		}
		sites = append(sites, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(msg, err)
	}
	return sites, nil
}

// List returns every site.
func (r *Repository) List(ctx context.Context) ([]Site, error) {
	return r.query(ctx, msgFetchFailed, `SELECT `+siteColumns+` FROM sites ORDER BY name, id`)
}

// ListByClient returns the sites of one client.
func (r *Repository) ListByClient(ctx context.Context, clientID string) ([]Site, error) {
	return r.query(ctx, msgByClientFailed, `SELECT `+siteColumns+` FROM sites WHERE client_id = $1 ORDER BY name, id`, clientID)
}

// ClientExists reports whether a client row exists.
func (r *Repository) ClientExists(ctx context.Context, clientID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1)`, clientID).Scan(&exists)
	if err != nil {
		return false, apperr.Storage(msgClientCheckFailed, err)
	}
	return exists, nil
}

// GetByID returns one site.
func (r *Repository) GetByID(ctx context.Context, id string) (Site, error) {
	s, err := scanSite(r.pool.QueryRow(ctx, `SELECT `+siteColumns+` FROM sites WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Site{}, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return Site{}, apperr.Storage(msgGetFailed, err)
	}
	return s, nil
}

// Create inserts a site and returns the stored row.
func (r *Repository) Create(ctx context.Context, s Site) (Site, error) {
	created, err := scanSite(r.pool.QueryRow(ctx, `
		INSERT INTO sites (id, name, address, client_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+siteColumns,
		s.ID, s.Name, s.Address, s.ClientID))
	if err != nil {
		return Site{}, apperr.Storage(msgCreateFailed, err)
	}
	return created, nil
}

// Update renames a site and rewrites its address. The owning client is fixed.
func (r *Repository) Update(ctx context.Context, s Site) (Site, error) {
	updated, err := scanSite(r.pool.QueryRow(ctx, `
		UPDATE sites SET name = $2, address = COALESCE($3, address), updated_at = now()
		WHERE id = $1
		RETURNING `+siteColumns,
		s.ID, s.Name, s.Address))
	if errors.Is(err, pgx.ErrNoRows) {
		return Site{}, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return Site{}, apperr.Storage(msgUpdateFailed, err)
	}
	return updated, nil
}

// Delete removes a site.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sites WHERE id = $1`, id)
	if err != nil {
		return apperr.Storage(msgDeleteFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(msgNotFound)
	}
	return nil
}

var _ Store = (*Repository)(nil)
