package splits

import (
	"context"
	"errors"
	"time"

	"chanitec_backend/internal/sites"
	"chanitec_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	msgNotFound     = "Split not found"
	msgSiteNotFound = "Site not found for split"
	msgCodeTaken    = "A split with this code already exists"
	msgFetchFailed  = "Error fetching splits"
	msgGetFailed    = "Error fetching split"
	msgBySiteFailed = "Error fetching splits for site"
	msgSiteFailed   = "Error fetching site for split"
	msgCreateFailed = "Error creating split"
	msgUpdateFailed = "Error updating split"
	msgDeleteFailed = "Error deleting split"
	uniqueViolation = "23505"
)

// Split is an air-conditioning unit installed on a site, keyed by its code.
type Split struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Puissance   *float64  `json:"puissance"`
	SiteID      string    `json:"site_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store is the split persistence surface used by the handler.
type Store interface {
	List(ctx context.Context) ([]Split, error)
	GetByCode(ctx context.Context, code string) (Split, error)
	ListBySite(ctx context.Context, siteID string) ([]Split, error)
	SiteOf(ctx context.Context, code string) (sites.Site, error)
	Create(ctx context.Context, s Split) (Split, error)
	Update(ctx context.Context, s Split) (Split, error)
	Delete(ctx context.Context, code string) error
}

// Repository provides data access for splits.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a split repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const splitColumns = `code, name, description, puissance::float8, site_id, created_at, updated_at`

func scanSplit(row pgx.Row) (Split, error) {
	var s Split
	err := row.Scan(&s.Code, &s.Name, &s.Description, &s.Puissance, &s.SiteID, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *Repository) query(ctx context.Context, msg, sql string, args ...any) ([]Split, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperr.Storage(msg, err)
	}
	defer rows.Close()

	splits := make([]Split, 0)
	for rows.Next() {
		s, err := scanSplit(rows)
		if err != nil {
			return nil, apperr.Storage(msg, err)
		}
		splits = append(splits, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(msg, err)
	}
	return splits, nil
}

// List returns every split.
func (r *Repository) List(ctx context.Context) ([]Split, error) {
	return r.query(ctx, msgFetchFailed, `SELECT `+splitColumns+` FROM split ORDER BY code`)
}

// ListBySite returns the splits installed on one site.
func (r *Repository) ListBySite(ctx context.Context, siteID string) ([]Split, error) {
	return r.query(ctx, msgBySiteFailed, `SELECT `+splitColumns+` FROM split WHERE site_id = $1 ORDER BY code`, siteID)
}

// GetByCode returns one split.
func (r *Repository) GetByCode(ctx context.Context, code string) (Split, error) {
	s, err := scanSplit(r.pool.QueryRow(ctx, `SELECT `+splitColumns+` FROM split WHERE code = $1`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return Split{}, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return Split{}, apperr.Storage(msgGetFailed, err)
	}
	return s, nil
}

// SiteOf returns the site a split is installed on.
func (r *Repository) SiteOf(ctx context.Context, code string) (sites.Site, error) {
	var s sites.Site
	err := r.pool.QueryRow(ctx, `
		SELECT st.id, st.name, st.address, st.client_id, st.created_at, st.updated_at
		FROM split sp
		JOIN sites st ON st.id = sp.site_id
		WHERE sp.code = $1`, code).
		Scan(&s.ID, &s.Name, &s.Address, &s.ClientID, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return sites.Site{}, apperr.NotFound(msgSiteNotFound)
	}
	if err != nil {
		return sites.Site{}, apperr.Storage(msgSiteFailed, err)
	}
	return s, nil
}

// Create inserts a split. A reused code is a conflict.
func (r *Repository) Create(ctx context.Context, s Split) (Split, error) {
	created, err := scanSplit(r.pool.QueryRow(ctx, `
		INSERT INTO split (code, name, description, puissance, site_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+splitColumns,
		s.Code, s.Name, s.Description, s.Puissance, s.SiteID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Split{}, apperr.Conflict(msgCodeTaken)
		}
		return Split{}, apperr.Storage(msgCreateFailed, err)
	}
	return created, nil
}

// Update rewrites the fields that were sent. Absent fields keep their value.
func (r *Repository) Update(ctx context.Context, s Split) (Split, error) {
	updated, err := scanSplit(r.pool.QueryRow(ctx, `
		UPDATE split SET
			name = COALESCE(NULLIF($2, ''), name),
			description = COALESCE($3, description),
			puissance = COALESCE($4, puissance),
			site_id = COALESCE(NULLIF($5, ''), site_id),
			updated_at = now()
		WHERE code = $1
		RETURNING `+splitColumns,
		s.Code, s.Name, s.Description, s.Puissance, s.SiteID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Split{}, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return Split{}, apperr.Storage(msgUpdateFailed, err)
	}
	return updated, nil
}

// Delete removes a split.
func (r *Repository) Delete(ctx context.Context, code string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM split WHERE code = $1`, code)
	if err != nil {
		return apperr.Storage(msgDeleteFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(msgNotFound)
	}
	return nil
}

var _ Store = (*Repository)(nil)
