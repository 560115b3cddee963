package departments

import (
	"context"
	"errors"

	"chanitec_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const msgNotFound = "Department not found"

// Department is a named organisational unit.
type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Store is the department persistence surface used by the handler.
type Store interface {
	List(ctx context.Context) ([]Department, error)
	GetByID(ctx context.Context, id int64) (Department, error)
	Create(ctx context.Context, name string) (Department, error)
	Rename(ctx context.Context, id int64, name string) (Department, error)
	Delete(ctx context.Context, id int64) error
}

// Repository provides data access for departments.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a department repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) List(ctx context.Context) ([]Department, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM department ORDER BY name`)
	if err != nil {
		return nil, apperr.Storage("Error fetching departments", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Department])
	if err != nil {
		return nil, apperr.Storage("Error fetching departments", err)
	}
	return list, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (Department, error) {
	var d Department
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM department WHERE id = $1`, id).Scan(&d.ID, &d.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Department{}, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return Department{}, apperr.Storage("Error fetching department", err)
	}
	return d, nil
}

func (r *Repository) Create(ctx context.Context, name string) (Department, error) {
	d := Department{Name: name}
	if err := r.pool.QueryRow(ctx, `INSERT INTO department (name) VALUES ($1) RETURNING id`, name).Scan(&d.ID); err != nil {
		return Department{}, apperr.Storage("Error creating department", err)
	}
	return d, nil
}

func (r *Repository) Rename(ctx context.Context, id int64, name string) (Department, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE department SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return Department{}, apperr.Storage("Error updating department", err)
	}
	if tag.RowsAffected() == 0 {
		return Department{}, apperr.NotFound(msgNotFound)
	}
	return Department{ID: id, Name: name}, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM department WHERE id = $1`, id)
	if err != nil {
		return apperr.Storage("Error deleting department", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(msgNotFound)
	}
	return nil
}

var _ Store = (*Repository)(nil)
