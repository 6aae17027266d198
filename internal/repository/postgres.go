package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/UnknownOlympus/mnemosyne/internal/config"
	"github.com/UnknownOlympus/mnemosyne/internal/metrics"
	"github.com/UnknownOlympus/mnemosyne/internal/models"
)

var ErrPartialInsert = errors.New("not all employees were inserted")

const (
	countEmployeesQuery = `SELECT COUNT(*) FROM employee`
	listEmployeesQuery  = `SELECT id, name, email, mobile FROM employee ORDER BY id`
)

// PostgresRepository stores employee records in the `employee` table.
type PostgresRepository struct {
	db      Database
	metrics *metrics.Metrics
}

func NewPostgresRepository(db Database, appMetrics *metrics.Metrics) *PostgresRepository {
	return &PostgresRepository{db: db, metrics: appMetrics}
}

// CountEmployees returns the number of rows in the employee table.
func (r *PostgresRepository) CountEmployees(ctx context.Context) (int64, error) {
	defer observeQuery(r.metrics, "count_employees")()

	var count int64
	if err := r.db.QueryRow(ctx, countEmployeesQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}

	return count, nil
}

// InsertEmployees inserts all employees in a single COPY batch.
func (r *PostgresRepository) InsertEmployees(ctx context.Context, employees []models.Employee) error {
	defer observeQuery(r.metrics, "insert_employees")()

	rows := make([][]any, 0, len(employees))
	for _, employee := range employees {
		rows = append(rows, []any{employee.Name, employee.Email, employee.Mobile})
	}

	copied, err := r.db.CopyFrom(
		ctx,
		pgx.Identifier{EmployeeCollection},
		[]string{"name", "email", "mobile"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to insert employees: %w", err)
	}
	if copied != int64(len(employees)) {
		return fmt.Errorf("%w: %d of %d", ErrPartialInsert, copied, len(employees))
	}

	return nil
}

// ListEmployees returns every employee ordered by id.
func (r *PostgresRepository) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	defer observeQuery(r.metrics, "list_employees")()

	rows, err := r.db.Query(ctx, listEmployeesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]models.Employee, 0)
	for rows.Next() {
		var (
			identifier int64
			employee   models.Employee
		)
		if err = rows.Scan(&identifier, &employee.Name, &employee.Email, &employee.Mobile); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employee.ID = strconv.FormatInt(identifier, 10)
		employees = append(employees, employee)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// PostgresStorage binds a PostgresRepository to the pool it queries.
type PostgresStorage struct {
	*PostgresRepository
	pool *pgxpool.Pool
}

// NewPostgresStorage connects to PostgreSQL and returns the employee storage.
func NewPostgresStorage(
	ctx context.Context, cfg config.DatabaseConfig, appMetrics *metrics.Metrics,
) (*PostgresStorage, error) {
	pool, err := NewPostgresPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &PostgresStorage{PostgresRepository: NewPostgresRepository(pool, appMetrics), pool: pool}, nil
}

func (s *PostgresStorage) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL DB: %w", err)
	}

	return nil
}

func (s *PostgresStorage) Close(_ context.Context) error {
	s.pool.Close()

	return nil
}

// Pool exposes the underlying pool for migrations.
func (s *PostgresStorage) Pool() *pgxpool.Pool {
	return s.pool
}
