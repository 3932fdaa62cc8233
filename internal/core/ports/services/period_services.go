package services

import (
	"context"
	"time"

	"github.com/vistamar/estate_ledger_app/internal/core/domain"
	"github.com/vistamar/estate_ledger_app/internal/dto"
)

// PeriodSvcFacade defines the fiscal period guard operations.
type PeriodSvcFacade interface {
	// EnsureDefaultPeriods lazily creates calendar-year periods if none
	// exist. Idempotent; called before any posting attempt.
	EnsureDefaultPeriods(ctx context.Context, actorID string) (int, error)

	// IsLocked reports whether the date falls inside a locked period.
	IsLocked(ctx context.Context, date time.Time) (bool, error)

	// CreatePeriod persists a new period.
	CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest, actorID string) (*domain.FiscalPeriod, error)

	// LockPeriod locks a period. Locking is monotonic: locking an already
	// locked period is a no-op, and no unlock operation exists.
	LockPeriod(ctx context.Context, periodID string, actorID string) (*domain.FiscalPeriod, error)

	// ListPeriods retrieves all periods ordered by start date.
	ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error)
}
