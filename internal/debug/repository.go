package debug

import (
	"context"
	"errors"

	"chanitec_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TableInfo is a user table with the planner's row estimate.
type TableInfo struct {
	Name       string `json:"table_name"`
	ApproxRows int64  `json:"table_rows"`
}

// Column describes one column of a user table.
type Column struct {
	Table      string  `json:"-"`
	Name       string  `json:"column_name"`
	Type       string  `json:"column_type"`
	IsNullable string  `json:"is_nullable"`
	Default    *string `json:"column_default"`
}

// Relationship is a foreign key between two tables.
type Relationship struct {
	Table            string `json:"table_name"`
	Column           string `json:"column_name"`
	ReferencedTable  string `json:"referenced_table_name"`
	ReferencedColumn string `json:"referenced_column_name"`
}

// SiteSample is a compact site row used by the site lookup check.
type SiteSample struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ClientID string `json:"client_id"`
}

// Store is the read-only catalogue access the debug endpoints need.
type Store interface {
	Tables(ctx context.Context) ([]TableInfo, error)
	Columns(ctx context.Context) ([]Column, error)
	Relationships(ctx context.Context) ([]Relationship, error)
	ClientName(ctx context.Context, clientID string) (string, error)
	Sites(ctx context.Context) ([]SiteSample, error)
}

// Repository queries the Postgres system catalogue.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a debug repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Tables(ctx context.Context) ([]TableInfo, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT relname::text, n_live_tup
		FROM pg_stat_user_tables
		WHERE schemaname = current_schema()
		ORDER BY relname`)
	if err != nil {
		return nil, apperr.Storage("Error getting debug info", err)
	}
	tables, err := pgx.CollectRows(rows, pgx.RowToStructByPos[TableInfo])
	if err != nil {
		return nil, apperr.Storage("Error getting debug info", err)
	}
	return tables, nil
}

func (r *Repository) Columns(ctx context.Context) ([]Column, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT table_name::text, column_name::text, data_type::text, is_nullable::text, column_default::text
		FROM information_schema.columns
		WHERE table_schema = current_schema()
		ORDER BY table_name, ordinal_position`)
	if err != nil {
		return nil, apperr.Storage("Error getting database structure", err)
	}
	cols, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Column])
	if err != nil {
		return nil, apperr.Storage("Error getting database structure", err)
	}
	return cols, nil
}

func (r *Repository) Relationships(ctx context.Context) ([]Relationship, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT kcu.table_name::text, kcu.column_name::text, ccu.table_name::text, ccu.column_name::text
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON kcu.constraint_name = tc.constraint_name AND kcu.table_schema = tc.table_schema
		JOIN information_schema.constraint_column_usage ccu
			ON ccu.constraint_name = tc.constraint_name AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY' AND tc.table_schema = current_schema()
		ORDER BY kcu.table_name, kcu.column_name`)
	if err != nil {
		return nil, apperr.Storage("Error getting database structure", err)
	}
	rels, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Relationship])
	if err != nil {
		return nil, apperr.Storage("Error getting database structure", err)
	}
	return rels, nil
}

func (r *Repository) ClientName(ctx context.Context, clientID string) (string, error) {
	var name string
	err := r.pool.QueryRow(ctx, `SELECT name FROM clients WHERE id = $1`, clientID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.NotFound("Client not found")
	}
	if err != nil {
		return "", apperr.Storage("Error testing site lookup", err)
	}
	return name, nil
}

func (r *Repository) Sites(ctx context.Context) ([]SiteSample, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, client_id FROM sites ORDER BY created_at`)
	if err != nil {
		return nil, apperr.Storage("Error testing site lookup", err)
	}
	sites, err := pgx.CollectRows(rows, pgx.RowToStructByPos[SiteSample])
	if err != nil {
		return nil, apperr.Storage("Error testing site lookup", err)
	}
	return sites, nil
}

var _ Store = (*Repository)(nil)
