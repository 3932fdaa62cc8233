package repositories

import (
	"context"
	"time"

	"github.com/vistamar/estate_ledger_app/internal/core/domain"
)

// PeriodReader defines read operations for fiscal periods.
type PeriodReader interface {
	// FindPeriodByID retrieves a specific period by its unique identifier.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)

	// FindPeriodByDate retrieves the period containing the given date, if any.
	FindPeriodByDate(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error)

	// ListPeriods retrieves all periods ordered by start date.
	ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error)

	// CountPeriods returns the total number of periods.
	CountPeriods(ctx context.Context) (int, error)
}

// PeriodWriter defines write operations for fiscal periods.
type PeriodWriter interface {
	// SavePeriod persists a new period.
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error

	// UpdatePeriod updates an existing period (lock flag, name).
	UpdatePeriod(ctx context.Context, period domain.FiscalPeriod) error
}

// PeriodRepositoryFacade combines all period-related repository interfaces.
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}
