package clients

import (
	"context"
	"errors"
	"time"

	"chanitec_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	msgNotFound     = "Client not found"
	msgFetchFailed  = "Error fetching clients"
	msgGetFailed    = "Error fetching client"
	msgCreateFailed = "Error creating client"
	msgUpdateFailed = "Error updating client"
	msgDeleteFailed = "Error deleting client"
)

// Client is a customer that owns sites and is named on quotes.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the client persistence surface used by the handler.
type Store interface {
	List(ctx context.Context) ([]Client, error)
	GetByID(ctx context.Context, id string) (Client, error)
	Create(ctx context.Context, c Client) (Client, error)
	Update(ctx context.Context, c Client) (Client, error)
	Delete(ctx context.Context, id string) error
}

// Repository provides data access for clients.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a client repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const clientColumns = `id, name, email, phone, address, created_at, updated_at`

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// List returns every client ordered by name.
func (r *Repository) List(ctx context.Context) ([]Client, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY name, id`)
	if err != nil {
		return nil, apperr.Storage(msgFetchFailed, err)
	}
	defer rows.Close()

	clients := make([]Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, apperr.Storage(msgFetchFailed, err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(msgFetchFailed, err)
	}
	return clients, nil
}

// GetByID returns one client.
func (r *Repository) GetByID(ctx context.Context, id string) (Client, error) {
	c, err := scanClient(r.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Client{}, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return Client{}, apperr.Storage(msgGetFailed, err)
	}
	return c, nil
}

// Create inserts a client and returns the stored row.
func (r *Repository) Create(ctx context.Context, c Client) (Client, error) {
	created, err := scanClient(r.pool.QueryRow(ctx, `
		INSERT INTO clients (id, name, email, phone, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+clientColumns,
		c.ID, c.Name, c.Email, c.Phone, c.Address))
	if err != nil {
		return Client{}, apperr.Storage(msgCreateFailed, err)
	}
	return created, nil
}

// Update rewrites a client and returns the stored row.
func (r *Repository) Update(ctx context.Context, c Client) (Client, error) {
	updated, err := scanClient(r.pool.QueryRow(ctx, `
		UPDATE clients
		SET name = $2, email = $3, phone = $4, address = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+clientColumns,
		c.ID, c.Name, c.Email, c.Phone, c.Address))
	if errors.Is(err, pgx.ErrNoRows) {
		return Client{}, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return Client{}, apperr.Storage(msgUpdateFailed, err)
	}
	return updated, nil
}

// Delete removes a client. Sites and quotes naming it are left alone.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return apperr.Storage(msgDeleteFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(msgNotFound)
	}
	return nil
}

var _ Store = (*Repository)(nil)
