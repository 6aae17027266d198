package server_test

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/UnknownOlympus/mnemosyne/internal/models"
)

type MockEmployeeStore struct {
	Employees  []models.Employee
	ListErr    error
	ShouldFail bool
	Deadline   bool
	Panic      bool
}

func (m *MockEmployeeStore) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	_, m.Deadline = ctx.Deadline()
	if m.Panic {
		panic("storage driver panic")
	}
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Employees, nil
}

func (m *MockEmployeeStore) Ping(_ context.Context) error {
	if m.ShouldFail {
		return errors.New("mock db error")
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
