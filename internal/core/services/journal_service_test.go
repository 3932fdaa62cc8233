package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vistamar/estate_ledger_app/internal/apperrors"
	"github.com/vistamar/estate_ledger_app/internal/core/domain"
	portssvc "github.com/vistamar/estate_ledger_app/internal/core/ports/services"
	"github.com/vistamar/estate_ledger_app/internal/core/services"
	"github.com/vistamar/estate_ledger_app/internal/dto"
)

type JournalServiceTestSuite struct {
	suite.Suite
	journalRepo *MockJournalRepository
	accountRepo *MockAccountRepository
	serialRepo  *MockSerialRepository
	periodRepo  *MockPeriodRepository
	auditRepo   *MockAuditRepository
	service     portssvc.JournalSvcFacade

	ctx       context.Context
	actorID   string
	entryDate time.Time
}

func (s *JournalServiceTestSuite) SetupTest() {
	s.journalRepo = new(MockJournalRepository)
	s.accountRepo = new(MockAccountRepository)
	s.serialRepo = new(MockSerialRepository)
	s.periodRepo = new(MockPeriodRepository)
	s.auditRepo = new(MockAuditRepository)

	auditSvc := services.NewAuditService(s.auditRepo)
	periodSvc := services.NewPeriodService(s.periodRepo, auditSvc)
	s.service = services.NewJournalService(s.journalRepo, s.accountRepo, s.serialRepo, periodSvc, auditSvc)

	s.ctx = context.Background()
	s.actorID = "user-1"
	s.entryDate = time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	// Audit appends happen on every mutation; they are not the behavior
	// under test here.
	s.auditRepo.On("AppendAuditLog", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (s *JournalServiceTestSuite) openPeriod() {
	s.periodRepo.On("FindPeriodByDate", mock.Anything, mock.Anything).Return(nil, apperrors.ErrNotFound).Maybe()
}

func (s *JournalServiceTestSuite) activeAccounts(ids ...string) {
	accounts := make(map[string]domain.Account, len(ids))
	for _, id := range ids {
		accounts[id] = domain.Account{AccountID: id, Code: "1000", AccountType: domain.Asset, IsActive: true}
	}
	s.accountRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).Return(accounts, nil).Maybe()
}

func (s *JournalServiceTestSuite) balancedRequest() dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		EntryDate:   s.entryDate,
		Description: "March rent",
		Lines: []dto.EntryLineRequest{
			{AccountID: "acc-bank", Debit: decimal.NewFromInt(500)},
			{AccountID: "acc-rent", Credit: decimal.NewFromInt(500)},
		},
	}
}

func (s *JournalServiceTestSuite) TestCreateEntry_Success() {
	s.openPeriod()
	s.activeAccounts("acc-bank", "acc-rent")
	s.journalRepo.On("Begin", mock.Anything).Return(nil, nil)
	s.serialRepo.On("NextSerialTx", mock.Anything, mock.Anything, "JRN", 2025).Return(7, nil)
	s.journalRepo.On("SaveEntryTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.journalRepo.On("Commit", mock.Anything, mock.Anything).Return(nil)

	entry, err := s.service.CreateEntry(s.ctx, s.balancedRequest(), s.actorID)

	s.Require().NoError(err)
	s.Equal("JRN-2025-0007", entry.Serial)
	s.Equal(1, entry.Revision)
	s.Equal(domain.EntryApproved, entry.Status)
	s.True(entry.TotalDebit.Equal(decimal.NewFromInt(500)))
	s.True(entry.TotalCredit.Equal(decimal.NewFromInt(500)))
	s.Len(entry.Lines, 2)
	s.NotEmpty(entry.Lines[0].LineID)
	s.Equal(entry.EntryID, entry.Lines[0].EntryID)
	s.Equal(s.actorID, entry.CreatedBy)
	s.journalRepo.AssertExpectations(s.T())
	s.serialRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestCreateEntry_Unbalanced() {
	s.openPeriod()
	s.activeAccounts("acc-bank", "acc-rent")
	s.journalRepo.On("Begin", mock.Anything).Return(nil, nil)
	s.journalRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil)

	req := s.balancedRequest()
	req.Lines[1].Credit = decimal.NewFromInt(400)

	_, err := s.service.CreateEntry(s.ctx, req, s.actorID)

	s.ErrorIs(err, apperrors.ErrUnbalanced)
	s.journalRepo.AssertNotCalled(s.T(), "SaveEntryTx", mock.Anything, mock.Anything, mock.Anything)
	s.journalRepo.AssertCalled(s.T(), "Rollback", mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestCreateEntry_WithinTolerance() {
	s.openPeriod()
	s.activeAccounts("acc-bank", "acc-rent")
	s.journalRepo.On("Begin", mock.Anything).Return(nil, nil)
	s.serialRepo.On("NextSerialTx", mock.Anything, mock.Anything, "JRN", 2025).Return(1, nil)
	s.journalRepo.On("SaveEntryTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.journalRepo.On("Commit", mock.Anything, mock.Anything).Return(nil)

	req := s.balancedRequest()
	req.Lines[1].Credit = decimal.RequireFromString("499.99")

	_, err := s.service.CreateEntry(s.ctx, req, s.actorID)

	s.NoError(err, "a one-cent difference is accepted")
}

func (s *JournalServiceTestSuite) TestCreateEntry_LockedPeriod() {
	s.periodRepo.On("FindPeriodByDate", mock.Anything, mock.Anything).
		Return(&domain.FiscalPeriod{PeriodID: "p1", IsLocked: true}, nil)
	s.journalRepo.On("Begin", mock.Anything).Return(nil, nil)
	s.journalRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil)

	_, err := s.service.CreateEntry(s.ctx, s.balancedRequest(), s.actorID)

	s.ErrorIs(err, apperrors.ErrPeriodLocked)
	s.journalRepo.AssertNotCalled(s.T(), "SaveEntryTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestCreateEntry_LineWithBothSides() {
	s.openPeriod()
	s.journalRepo.On("Begin", mock.Anything).Return(nil, nil)
	s.journalRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil)

	req := s.balancedRequest()
	req.Lines[0].Credit = decimal.NewFromInt(500)

	_, err := s.service.CreateEntry(s.ctx, req, s.actorID)

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *JournalServiceTestSuite) TestCreateEntry_TooFewEffectiveLines() {
	s.openPeriod()
	s.journalRepo.On("Begin", mock.Anything).Return(nil, nil)
	s.journalRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil)

	// The second line is zero/zero and normalizes away.
	req := s.balancedRequest()
	req.Lines[1] = dto.EntryLineRequest{AccountID: "acc-rent"}

	_, err := s.service.CreateEntry(s.ctx, req, s.actorID)

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *JournalServiceTestSuite) TestCreateEntry_DeactivatedAccount() {
	s.openPeriod()
	s.accountRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).Return(map[string]domain.Account{
		"acc-bank": {AccountID: "acc-bank", Code: "1100", IsActive: true},
		"acc-rent": {AccountID: "acc-rent", Code: "4000", IsActive: false},
	}, nil)
	s.journalRepo.On("Begin", mock.Anything).Return(nil, nil)
	s.journalRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil)

	_, err := s.service.CreateEntry(s.ctx, s.balancedRequest(), s.actorID)

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *JournalServiceTestSuite) TestCreateEntry_UnknownAccount() {
	s.openPeriod()
	s.accountRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).Return(map[string]domain.Account{
		"acc-bank": {AccountID: "acc-bank", Code: "1100", IsActive: true},
	}, nil)
	s.journalRepo.On("Begin", mock.Anything).Return(nil, nil)
	s.journalRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil)

	_, err := s.service.CreateEntry(s.ctx, s.balancedRequest(), s.actorID)

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *JournalServiceTestSuite) existingEntry(status domain.EntryStatus) *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:     "entry-1",
		Revision:    1,
		Serial:      "JRN-2025-0001",
		EntryDate:   s.entryDate,
		Status:      status,
		TotalDebit:  decimal.NewFromInt(500),
		TotalCredit: decimal.NewFromInt(500),
	}
}

func (s *JournalServiceTestSuite) TestUpdateEntry_BumpsRevision() {
	s.openPeriod()
	s.journalRepo.On("FindEntryByID", mock.Anything, "entry-1").Return(s.existingEntry(domain.EntryApproved), nil)
	s.journalRepo.On("UpdateEntry", mock.Anything, mock.Anything).Return(nil)

	desc := "corrected memo"
	entry, err := s.service.UpdateEntry(s.ctx, "entry-1", dto.UpdateEntryRequest{Description: &desc}, s.actorID)

	s.Require().NoError(err)
	s.Equal(2, entry.Revision)
	s.Equal("corrected memo", entry.Description)
}

func (s *JournalServiceTestSuite) TestUpdateEntry_CancelledIsConflict() {
	s.journalRepo.On("FindEntryByID", mock.Anything, "entry-1").Return(s.existingEntry(domain.EntryCancelled), nil)

	_, err := s.service.UpdateEntry(s.ctx, "entry-1", dto.UpdateEntryRequest{}, s.actorID)

	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *JournalServiceTestSuite) TestCancelEntry_Success() {
	s.openPeriod()
	s.journalRepo.On("FindEntryByID", mock.Anything, "entry-1").Return(s.existingEntry(domain.EntryApproved), nil)
	s.journalRepo.On("UpdateEntryStatus", mock.Anything, "entry-1", domain.EntryCancelled, s.actorID, mock.Anything).Return(nil)

	err := s.service.CancelEntry(s.ctx, "entry-1", "duplicate", s.actorID)

	s.NoError(err)
	s.journalRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestCancelEntry_AlreadyCancelled() {
	s.journalRepo.On("FindEntryByID", mock.Anything, "entry-1").Return(s.existingEntry(domain.EntryCancelled), nil)

	err := s.service.CancelEntry(s.ctx, "entry-1", "", s.actorID)

	s.ErrorIs(err, apperrors.ErrConflict)
	s.journalRepo.AssertNotCalled(s.T(), "UpdateEntryStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestSupersedeEntry_Success() {
	s.journalRepo.On("FindEntryByID", mock.Anything, "entry-1").Return(s.existingEntry(domain.EntryApproved), nil)
	s.journalRepo.On("FindEntryByID", mock.Anything, "entry-2").Return(s.existingEntry(domain.EntryApproved), nil)
	s.journalRepo.On("SetSupersededBy", mock.Anything, "entry-1", "entry-2", s.actorID, mock.Anything).Return(nil)

	err := s.service.SupersedeEntry(s.ctx, "entry-1", "entry-2", s.actorID)

	s.NoError(err)
	s.journalRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestSupersedeEntry_AlreadySuperseded() {
	replaced := s.existingEntry(domain.EntryApproved)
	other := "entry-9"
	replaced.SupersededBy = &other
	s.journalRepo.On("FindEntryByID", mock.Anything, "entry-1").Return(replaced, nil)

	err := s.service.SupersedeEntry(s.ctx, "entry-1", "entry-2", s.actorID)

	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *JournalServiceTestSuite) TestSupersedeEntry_UnknownReplacement() {
	s.journalRepo.On("FindEntryByID", mock.Anything, "entry-1").Return(s.existingEntry(domain.EntryApproved), nil)
	s.journalRepo.On("FindEntryByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound)

	err := s.service.SupersedeEntry(s.ctx, "entry-1", "missing", s.actorID)

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
