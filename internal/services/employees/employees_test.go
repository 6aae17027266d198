package employees_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/UnknownOlympus/mnemosyne/internal/metrics"
	"github.com/UnknownOlympus/mnemosyne/internal/models"
	"github.com/UnknownOlympus/mnemosyne/internal/services/employees"
	mocks "github.com/UnknownOlympus/mnemosyne/mock"
)

func newStaff(t *testing.T) (*employees.Staff, *mocks.EmployeeRepoIface, *metrics.Metrics) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	mockRepo := mocks.NewEmployeeRepoIface(t)
	testMetrics := metrics.NewMetrics(prometheus.NewRegistry())

	return employees.NewStaff(logger, mockRepo, testMetrics), mockRepo, testMetrics
}

func TestNewStaff(t *testing.T) {
	t.Parallel()

	s, _, _ := newStaff(t)

	assert.NotNil(t, s)
}

func TestSeedEmployees(t *testing.T) {
	t.Parallel()

	seed := employees.SeedEmployees()

	require.Len(t, seed, 5)
	assert.Equal(t, []models.Employee{
		{Name: "Tom", Email: "tom@gmail.com", Mobile: "123456789"},
		{Name: "Dick", Email: "dick@gmail.com", Mobile: "234567891"},
		{Name: "Harry", Email: "harry@gmail.com", Mobile: "345678912"},
		{Name: "Alisha", Email: "alisha@gmail.com", Mobile: "456789123"},
		{Name: "Melina", Email: "melina@gmail.com", Mobile: "567891234"},
	}, seed)

	seed[0].Name = "changed"
	assert.Equal(t, "Tom", employees.SeedEmployees()[0].Name, "seed set must not be shared")
}

func TestSeed(t *testing.T) {
	t.Parallel()

	t.Run("should insert seed records into empty collection", func(t *testing.T) {
		t.Parallel()

		staff, mockRepo, testMetrics := newStaff(t)
		mockRepo.On("CountEmployees", mock.Anything).Return(int64(0), nil).Once()
		mockRepo.On("InsertEmployees", mock.Anything, employees.SeedEmployees()).Return(nil).Once()

		inserted, err := staff.Seed(context.Background())

		require.NoError(t, err)
		assert.True(t, inserted)
		assert.InDelta(t, 1, testutil.ToFloat64(testMetrics.SeedRuns.WithLabelValues("inserted")), 0)
		assert.InDelta(t, 5, testutil.ToFloat64(testMetrics.SeededRecords), 0)
	})

	t.Run("should do nothing when collection is not empty", func(t *testing.T) {
		t.Parallel()

		staff, mockRepo, testMetrics := newStaff(t)
		mockRepo.On("CountEmployees", mock.Anything).Return(int64(3), nil).Once()

		inserted, err := staff.Seed(context.Background())

		require.NoError(t, err)
		assert.False(t, inserted)
		mockRepo.AssertNotCalled(t, "InsertEmployees", mock.Anything, mock.Anything)
		assert.InDelta(t, 1, testutil.ToFloat64(testMetrics.SeedRuns.WithLabelValues("skipped")), 0)
	})

	t.Run("should return error when count fails", func(t *testing.T) {
		t.Parallel()

		staff, mockRepo, testMetrics := newStaff(t)
		mockRepo.On("CountEmployees", mock.Anything).Return(int64(0), assert.AnError).Once()

		inserted, err := staff.Seed(context.Background())

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to count employees")
		assert.False(t, inserted)
		mockRepo.AssertNotCalled(t, "InsertEmployees", mock.Anything, mock.Anything)
		assert.InDelta(t, 1, testutil.ToFloat64(testMetrics.SeedRuns.WithLabelValues("failure")), 0)
	})

	t.Run("should return error when insert fails", func(t *testing.T) {
		t.Parallel()

		staff, mockRepo, testMetrics := newStaff(t)
		mockRepo.On("CountEmployees", mock.Anything).Return(int64(0), nil).Once()
		mockRepo.On("InsertEmployees", mock.Anything, mock.Anything).Return(assert.AnError).Once()

		inserted, err := staff.Seed(context.Background())

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to insert seed employees")
		assert.False(t, inserted)
		assert.InDelta(t, 1, testutil.ToFloat64(testMetrics.SeedRuns.WithLabelValues("failure")), 0)
		assert.Zero(t, testutil.ToFloat64(testMetrics.SeededRecords))
	})
}
