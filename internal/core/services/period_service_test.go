package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vistamar/estate_ledger_app/internal/apperrors"
	"github.com/vistamar/estate_ledger_app/internal/core/domain"
	portssvc "github.com/vistamar/estate_ledger_app/internal/core/ports/services"
	"github.com/vistamar/estate_ledger_app/internal/core/services"
	"github.com/vistamar/estate_ledger_app/internal/dto"
)

type PeriodServiceTestSuite struct {
	suite.Suite
	periodRepo *MockPeriodRepository
	auditRepo  *MockAuditRepository
	service    portssvc.PeriodSvcFacade

	ctx     context.Context
	actorID string
}

func (s *PeriodServiceTestSuite) SetupTest() {
	s.periodRepo = new(MockPeriodRepository)
	s.auditRepo = new(MockAuditRepository)
	s.service = services.NewPeriodService(s.periodRepo, services.NewAuditService(s.auditRepo))

	s.ctx = context.Background()
	s.actorID = "user-1"

	s.auditRepo.On("AppendAuditLog", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (s *PeriodServiceTestSuite) fiscalYear(year int, locked bool) *domain.FiscalPeriod {
	return &domain.FiscalPeriod{
		PeriodID:  fmt.Sprintf("period-%d", year),
		Name:      fmt.Sprintf("FY %d", year),
		StartDate: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC),
		IsLocked:  locked,
	}
}

func (s *PeriodServiceTestSuite) TestEnsureDefaultPeriods_CreatesPreviousAndCurrentYear() {
	s.periodRepo.On("CountPeriods", mock.Anything).Return(0, nil)
	var saved []domain.FiscalPeriod
	s.periodRepo.On("SavePeriod", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = append(saved, args.Get(1).(domain.FiscalPeriod))
	}).Return(nil)

	created, err := s.service.EnsureDefaultPeriods(s.ctx, s.actorID)

	s.Require().NoError(err)
	s.Equal(2, created)
	s.Require().Len(saved, 2)
	currentYear := time.Now().UTC().Year()
	s.Equal(fmt.Sprintf("FY %d", currentYear-1), saved[0].Name)
	s.Equal(fmt.Sprintf("FY %d", currentYear), saved[1].Name)
	for _, p := range saved {
		s.False(p.IsLocked, "default periods start open")
		s.True(p.EndDate.After(p.StartDate))
		s.Equal(s.actorID, p.CreatedBy)
	}
}

func (s *PeriodServiceTestSuite) TestEnsureDefaultPeriods_NoopWhenAnyPeriodExists() {
	s.periodRepo.On("CountPeriods", mock.Anything).Return(3, nil)

	created, err := s.service.EnsureDefaultPeriods(s.ctx, s.actorID)

	s.Require().NoError(err)
	s.Equal(0, created)
	s.periodRepo.AssertNotCalled(s.T(), "SavePeriod", mock.Anything, mock.Anything)
}

func (s *PeriodServiceTestSuite) TestIsLocked() {
	uncovered := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	open := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	locked := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	s.periodRepo.On("FindPeriodByDate", mock.Anything, uncovered).Return(nil, apperrors.ErrNotFound)
	s.periodRepo.On("FindPeriodByDate", mock.Anything, open).Return(s.fiscalYear(2025, false), nil)
	s.periodRepo.On("FindPeriodByDate", mock.Anything, locked).Return(s.fiscalYear(2024, true), nil)

	isLocked, err := s.service.IsLocked(s.ctx, uncovered)
	s.Require().NoError(err)
	s.False(isLocked, "dates covered by no period are open")

	isLocked, err = s.service.IsLocked(s.ctx, open)
	s.Require().NoError(err)
	s.False(isLocked)

	isLocked, err = s.service.IsLocked(s.ctx, locked)
	s.Require().NoError(err)
	s.True(isLocked)
}

func (s *PeriodServiceTestSuite) TestCreatePeriod_Success() {
	s.periodRepo.On("ListPeriods", mock.Anything).Return([]domain.FiscalPeriod{*s.fiscalYear(2024, true)}, nil)
	s.periodRepo.On("SavePeriod", mock.Anything, mock.Anything).Return(nil)

	period, err := s.service.CreatePeriod(s.ctx, dto.CreatePeriodRequest{
		Name:      "FY 2025",
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
	}, s.actorID)

	s.Require().NoError(err)
	s.NotEmpty(period.PeriodID)
	s.Equal("FY 2025", period.Name)
	s.False(period.IsLocked)
	s.periodRepo.AssertExpectations(s.T())
}

func (s *PeriodServiceTestSuite) TestCreatePeriod_OverlapIsConflict() {
	s.periodRepo.On("ListPeriods", mock.Anything).Return([]domain.FiscalPeriod{*s.fiscalYear(2025, false)}, nil)

	_, err := s.service.CreatePeriod(s.ctx, dto.CreatePeriodRequest{
		Name:      "H2 2025",
		StartDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
	}, s.actorID)

	s.ErrorIs(err, apperrors.ErrConflict)
	s.periodRepo.AssertNotCalled(s.T(), "SavePeriod", mock.Anything, mock.Anything)
}

func (s *PeriodServiceTestSuite) TestLockPeriod_Success() {
	s.periodRepo.On("FindPeriodByID", mock.Anything, "period-2024").Return(s.fiscalYear(2024, false), nil)
	var updated domain.FiscalPeriod
	s.periodRepo.On("UpdatePeriod", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		updated = args.Get(1).(domain.FiscalPeriod)
	}).Return(nil)

	period, err := s.service.LockPeriod(s.ctx, "period-2024", s.actorID)

	s.Require().NoError(err)
	s.True(period.IsLocked)
	s.True(updated.IsLocked)
	s.Equal(s.actorID, updated.LastUpdatedBy)
}

func (s *PeriodServiceTestSuite) TestLockPeriod_AlreadyLockedIsNoop() {
	s.periodRepo.On("FindPeriodByID", mock.Anything, "period-2024").Return(s.fiscalYear(2024, true), nil)

	period, err := s.service.LockPeriod(s.ctx, "period-2024", s.actorID)

	s.Require().NoError(err)
	s.True(period.IsLocked)
	s.periodRepo.AssertNotCalled(s.T(), "UpdatePeriod", mock.Anything, mock.Anything)
}

func (s *PeriodServiceTestSuite) TestLockPeriod_NotFound() {
	s.periodRepo.On("FindPeriodByID", mock.Anything, "nope").Return(nil, apperrors.ErrNotFound)

	_, err := s.service.LockPeriod(s.ctx, "nope", s.actorID)

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func TestPeriodService(t *testing.T) {
	suite.Run(t, new(PeriodServiceTestSuite))
}
