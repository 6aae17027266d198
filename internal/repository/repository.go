package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/UnknownOlympus/mnemosyne/internal/config"
	"github.com/UnknownOlympus/mnemosyne/internal/metrics"
	"github.com/UnknownOlympus/mnemosyne/internal/models"
)

// EmployeeCollection is the collection (or table) holding employee records.
const EmployeeCollection = "employee"

var (
	ErrEmptyURI          = errors.New("database uri is empty")
	ErrUnsupportedScheme = errors.New("unsupported database uri scheme")
)

// EmployeeRepoIface represents the interface for interacting with employee data in the repository.
type EmployeeRepoIface interface {
	CountEmployees(ctx context.Context) (int64, error)
	InsertEmployees(ctx context.Context, employees []models.Employee) error
	ListEmployees(ctx context.Context) ([]models.Employee, error)
}

// Storage is an employee repository bound to a live connection pool.
type Storage interface {
	EmployeeRepoIface
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Backend names the storage implementation selected by a connection string.
type Backend string

const (
	BackendMongo    Backend = "mongodb"
	BackendPostgres Backend = "postgres"
)

// BackendFor resolves the storage backend from the scheme of uri.
func BackendFor(uri string) (Backend, error) {
	if uri == "" {
		return "", ErrEmptyURI
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("failed to parse database uri: %w", err)
	}

	switch parsed.Scheme {
	case "mongodb", "mongodb+srv":
		return BackendMongo, nil
	case "postgres", "postgresql":
		return BackendPostgres, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, parsed.Scheme)
	}
}

// NewStorage opens a pooled connection to the database named by cfg and returns the storage
// for its employee collection. The connection is verified with a ping before returning.
func NewStorage(ctx context.Context, cfg config.DatabaseConfig, appMetrics *metrics.Metrics) (Storage, error) {
	backend, err := BackendFor(cfg.URI)
	if err != nil {
		return nil, err
	}

	var storage Storage
	switch backend {
	case BackendMongo:
		mongoStorage, mongoErr := NewMongoStorage(ctx, cfg, appMetrics)
		if mongoErr != nil {
			return nil, mongoErr
		}
		storage = mongoStorage
	case BackendPostgres:
		pgStorage, pgErr := NewPostgresStorage(ctx, cfg, appMetrics)
		if pgErr != nil {
			return nil, pgErr
		}
		storage = pgStorage
	}

	return storage, nil
}
