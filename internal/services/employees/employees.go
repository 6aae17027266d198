package employees

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/mnemosyne/internal/lib/logger/sl"
	"github.com/UnknownOlympus/mnemosyne/internal/metrics"
	"github.com/UnknownOlympus/mnemosyne/internal/models"
	"github.com/UnknownOlympus/mnemosyne/internal/repository"
)

// SeedEmployees returns the fixed records inserted into an empty collection.
func SeedEmployees() []models.Employee {
	return []models.Employee{
		{Name: "Tom", Email: "tom@gmail.com", Mobile: "123456789"},
		{Name: "Dick", Email: "dick@gmail.com", Mobile: "234567891"},
		{Name: "Harry", Email: "harry@gmail.com", Mobile: "345678912"},
		{Name: "Alisha", Email: "alisha@gmail.com", Mobile: "456789123"},
		{Name: "Melina", Email: "melina@gmail.com", Mobile: "567891234"},
	}
}

type Staff struct {
	log     *slog.Logger
	repo    repository.EmployeeRepoIface
	metrics *metrics.Metrics
}

func NewStaff(log *slog.Logger, repo repository.EmployeeRepoIface, metrics *metrics.Metrics) *Staff {
	return &Staff{log: log, repo: repo, metrics: metrics}
}

func (s *Staff) initLogger(opn string) *slog.Logger {
	return s.log.With(
		sl.Op(opn),
		slog.String("division", "employee"),
	)
}

// Seed inserts the seed records in a single batch if the employee collection is empty and
// reports whether anything was inserted. A non-empty collection is left untouched.
func (s *Staff) Seed(ctx context.Context) (bool, error) {
	const opn = "Employee.Seed"
	log := s.initLogger(opn)

	count, err := s.repo.CountEmployees(ctx)
	if err != nil {
		s.metrics.SeedRuns.WithLabelValues("failure").Inc()
		return false, fmt.Errorf("failed to count employees: %w", err)
	}

	if count != 0 {
		log.InfoContext(ctx, "Data is retained in database, no need to insert", "count", count)
		s.metrics.SeedRuns.WithLabelValues("skipped").Inc()
		return false, nil
	}

	seed := SeedEmployees()

	log.InfoContext(ctx, "Adding records to database...", "count", len(seed))
	if err = s.repo.InsertEmployees(ctx, seed); err != nil {
		s.metrics.SeedRuns.WithLabelValues("failure").Inc()
		return false, fmt.Errorf("failed to insert seed employees: %w", err)
	}

	s.metrics.SeedRuns.WithLabelValues("inserted").Inc()
	s.metrics.SeededRecords.Add(float64(len(seed)))
	log.InfoContext(ctx, "Records added successfully")

	return true, nil
}
