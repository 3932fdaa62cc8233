package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vistamar/estate_ledger_app/internal/apperrors"
	"github.com/vistamar/estate_ledger_app/internal/core/domain"
	portsrepo "github.com/vistamar/estate_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/vistamar/estate_ledger_app/internal/core/ports/services"
	"github.com/vistamar/estate_ledger_app/internal/dto"
)

// periodService guards postings against locked fiscal periods.
type periodService struct {
	BaseService
	periodRepo portsrepo.PeriodRepositoryFacade
	auditSvc   portssvc.AuditSvcFacade
}

// NewPeriodService creates a new fiscal period service.
func NewPeriodService(periodRepo portsrepo.PeriodRepositoryFacade, auditSvc portssvc.AuditSvcFacade) portssvc.PeriodSvcFacade {
	return &periodService{periodRepo: periodRepo, auditSvc: auditSvc}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// EnsureDefaultPeriods creates calendar-year periods for the previous and
// current year when no periods exist at all. Idempotent.
func (s *periodService) EnsureDefaultPeriods(ctx context.Context, actorID string) (int, error) {
	count, err := s.periodRepo.CountPeriods(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	currentYear := time.Now().UTC().Year()
	created := 0
	for _, year := range []int{currentYear - 1, currentYear} {
		period := domain.FiscalPeriod{
			PeriodID:  uuid.NewString(),
			Name:      fmt.Sprintf("FY %d", year),
			StartDate: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC),
			IsLocked:  false,
			AuditFields: domain.AuditFields{
				CreatedAt:     time.Now().UTC(),
				CreatedBy:     actorID,
				LastUpdatedAt: time.Now().UTC(),
				LastUpdatedBy: actorID,
			},
		}
		if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
			return created, err
		}
		s.auditSvc.Record(ctx, domain.AuditCreate, "fiscal_period", period.PeriodID, nil, period, "default period creation", actorID)
		created++
	}
	s.LogInfo(ctx, "created default fiscal periods", "count", created)
	return created, nil
}

// IsLocked reports whether the date falls inside a locked period. Dates
// covered by no period at all are open.
func (s *periodService) IsLocked(ctx context.Context, date time.Time) (bool, error) {
	period, err := s.periodRepo.FindPeriodByDate(ctx, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return period.IsLocked, nil
}

// CreatePeriod persists a new period after checking for overlaps.
func (s *periodService) CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest, actorID string) (*domain.FiscalPeriod, error) {
	existing, err := s.periodRepo.ListPeriods(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range existing {
		if !req.EndDate.Before(p.StartDate) && !req.StartDate.After(p.EndDate) {
			return nil, apperrors.ErrConflict
		}
	}

	now := time.Now().UTC()
	period := domain.FiscalPeriod{
		PeriodID:  uuid.NewString(),
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsLocked:  false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		return nil, err
	}
	s.auditSvc.Record(ctx, domain.AuditCreate, "fiscal_period", period.PeriodID, nil, period, "", actorID)
	return &period, nil
}

// LockPeriod locks a period. Re-locking an already locked period is a no-op;
// there is no unlock path.
func (s *periodService) LockPeriod(ctx context.Context, periodID string, actorID string) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.IsLocked {
		return period, nil
	}
	previous := *period

	period.IsLocked = true
	period.LastUpdatedAt = time.Now().UTC()
	period.LastUpdatedBy = actorID
	if err := s.periodRepo.UpdatePeriod(ctx, *period); err != nil {
		return nil, err
	}
	s.auditSvc.Record(ctx, domain.AuditLock, "fiscal_period", period.PeriodID, previous, period, "period locked", actorID)
	return period, nil
}

// ListPeriods retrieves all periods ordered by start date.
func (s *periodService) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	return s.periodRepo.ListPeriods(ctx)
}
