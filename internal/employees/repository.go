package employees

import (
	"context"
	"errors"
	"time"

	"chanitec_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	msgNotFound     = "Employee not found"
	msgFetchFailed  = "Error fetching employees"
	msgGetFailed    = "Error fetching employee"
	msgCreateFailed = "Error creating employee"
	msgUpdateFailed = "Error updating employee"
	msgDeleteFailed = "Error deleting employee"
)

// Employee is a staff record. Dates are calendar days in YYYY-MM-DD form.
type Employee struct {
	ID              int64     `json:"id"`
	FullName        string    `json:"full_name"`
	CivilStatus     string    `json:"civil_status"`
	BirthDate       string    `json:"birth_date"`
	EntryDate       string    `json:"entry_date"`
	Seniority       string    `json:"seniority"`
	ContractType    string    `json:"contract_type"`
	JobTitle        string    `json:"job_title"`
	Fonction        string    `json:"fonction"`
	SubTypeID       *int32    `json:"sub_type_id"`
	TypeDescription *string   `json:"type_description"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Store is the employee persistence surface used by the handler.
type Store interface {
	List(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id int64) (Employee, error)
	Create(ctx context.Context, e Employee) (Employee, error)
	Update(ctx context.Context, e Employee) (Employee, error)
	Delete(ctx context.Context, id int64) error
}

// Repository provides data access for employees.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an employee repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const employeeColumns = `id, full_name, civil_status, birth_date::text, entry_date::text, seniority,
	contract_type, job_title, fonction, sub_type_id, type_description, created_at, updated_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(
		&e.ID, &e.FullName, &e.CivilStatus, &e.BirthDate, &e.EntryDate, &e.Seniority,
		&e.ContractType, &e.JobTitle, &e.Fonction, &e.SubTypeID, &e.TypeDescription,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// List returns every employee ordered by name.
func (r *Repository) List(ctx context.Context) ([]Employee, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+employeeColumns+` FROM employee ORDER BY full_name, id`)
	if err != nil {
		return nil, apperr.Storage(msgFetchFailed, err)
	}
	defer rows.Close()

	employees := make([]Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, apperr.Storage(msgFetchFailed, err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(msgFetchFailed, err)
	}
	return employees, nil
}

// GetByID returns one employee.
func (r *Repository) GetByID(ctx context.Context, id int64) (Employee, error) {
	e, err := scanEmployee(r.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employee WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return Employee{}, apperr.Storage(msgGetFailed, err)
	}
	return e, nil
}

// Create inserts an employee and returns it with its generated id.
func (r *Repository) Create(ctx context.Context, e Employee) (Employee, error) {
	created, err := scanEmployee(r.pool.QueryRow(ctx, `
		INSERT INTO employee (full_name, civil_status, birth_date, entry_date, seniority,
			contract_type, job_title, fonction, sub_type_id, type_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+employeeColumns,
		e.FullName, e.CivilStatus, e.BirthDate, e.EntryDate, e.Seniority,
		e.ContractType, e.JobTitle, e.Fonction, e.SubTypeID, e.TypeDescription,
	))
	if err != nil {
		return Employee{}, apperr.Storage(msgCreateFailed, err)
	}
	return created, nil
}

// Update replaces every column of an employee.
func (r *Repository) Update(ctx context.Context, e Employee) (Employee, error) {
	updated, err := scanEmployee(r.pool.QueryRow(ctx, `
		UPDATE employee
		SET full_name = $2, civil_status = $3, birth_date = $4, entry_date = $5, seniority = $6,
			contract_type = $7, job_title = $8, fonction = $9, sub_type_id = $10,
			type_description = $11, updated_at = now()
		WHERE id = $1
		RETURNING `+employeeColumns,
		e.ID, e.FullName, e.CivilStatus, e.BirthDate, e.EntryDate, e.Seniority,
		e.ContractType, e.JobTitle, e.Fonction, e.SubTypeID, e.TypeDescription,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return Employee{}, apperr.Storage(msgUpdateFailed, err)
	}
	return updated, nil
}

// Delete removes an employee.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM employee WHERE id = $1`, id)
	if err != nil {
		return apperr.Storage(msgDeleteFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(msgNotFound)
	}
	return nil
}

var _ Store = (*Repository)(nil)
