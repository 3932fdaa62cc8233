package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vistamar/estate_ledger_app/internal/apperrors"
	"github.com/vistamar/estate_ledger_app/internal/core/domain"
	portssvc "github.com/vistamar/estate_ledger_app/internal/core/ports/services"
	"github.com/vistamar/estate_ledger_app/internal/core/services"
	"github.com/vistamar/estate_ledger_app/internal/dto"
)

// MockJournalService stubs the journal facade so document tests exercise the
// poster without re-testing entry validation.
type MockJournalService struct {
	mock.Mock
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

func (m *MockJournalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ListActive(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

func (m *MockJournalService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) CreateEntryTx(ctx context.Context, tx pgx.Tx, input portssvc.EntryInput, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tx, input, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) CancelEntry(ctx context.Context, entryID string, reason string, actorID string) error {
	args := m.Called(ctx, entryID, reason, actorID)
	return args.Error(0)
}

func (m *MockJournalService) SupersedeEntry(ctx context.Context, entryID string, replacementID string, actorID string) error {
	args := m.Called(ctx, entryID, replacementID, actorID)
	return args.Error(0)
}

type DocumentServiceTestSuite struct {
	suite.Suite
	documentRepo  *MockDocumentRepository
	journalRepo   *MockJournalRepository
	accountRepo   *MockAccountRepository
	serialRepo    *MockSerialRepository
	periodRepo    *MockPeriodRepository
	reportingRepo *MockReportingRepository
	auditRepo     *MockAuditRepository
	journalSvc    *MockJournalService
	service       portssvc.DocumentSvcFacade

	ctx          context.Context
	actorID      string
	documentDate time.Time
}

func (s *DocumentServiceTestSuite) SetupTest() {
	s.documentRepo = new(MockDocumentRepository)
	s.journalRepo = new(MockJournalRepository)
	s.accountRepo = new(MockAccountRepository)
	s.serialRepo = new(MockSerialRepository)
	s.periodRepo = new(MockPeriodRepository)
	s.reportingRepo = new(MockReportingRepository)
	s.auditRepo = new(MockAuditRepository)
	s.journalSvc = new(MockJournalService)

	auditSvc := services.NewAuditService(s.auditRepo)
	accountSvc := services.NewAccountService(s.accountRepo, s.reportingRepo, auditSvc)
	periodSvc := services.NewPeriodService(s.periodRepo, auditSvc)
	s.service = services.NewDocumentService(
		s.documentRepo, s.journalRepo, s.accountRepo, s.serialRepo,
		accountSvc, s.journalSvc, periodSvc, auditSvc)

	s.ctx = context.Background()
	s.actorID = "user-1"
	s.documentDate = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	s.auditRepo.On("AppendAuditLog", mock.Anything, mock.Anything).Return(nil).Maybe()
}

// postingChart satisfies every lookup the posting path makes: periods already
// exist and the active chart covers the receipt rule's accounts.
func (s *DocumentServiceTestSuite) postingChart() {
	s.periodRepo.On("CountPeriods", mock.Anything).Return(2, nil).Maybe()
	s.accountRepo.On("ListAccounts", mock.Anything, true).Return([]domain.Account{
		{AccountID: "acc-1000", Code: "1000", AccountType: domain.Asset, IsActive: true},
		{AccountID: "acc-1100", Code: "1100", AccountType: domain.Asset, IsActive: true},
		{AccountID: "acc-2200", Code: "2200", AccountType: domain.Liability, IsActive: true},
		{AccountID: "acc-4000", Code: "4000", AccountType: domain.Revenue, IsActive: true},
	}, nil).Maybe()
}

func (s *DocumentServiceTestSuite) receiptRequest(status domain.DocumentStatus) dto.CreateDocumentRequest {
	return dto.CreateDocumentRequest{
		DocumentType: domain.DocReceipt,
		Status:       status,
		DocumentDate: s.documentDate,
		Amount:       decimal.RequireFromString("100.00"),
		TotalAmount:  decimal.RequireFromString("100.00"),
		CurrencyCode: "EUR",
	}
}

func (s *DocumentServiceTestSuite) TestCreateDocument_DraftIsNotPosted() {
	s.serialRepo.On("NextSerial", mock.Anything, "RCT", 2025).Return(12, nil)
	s.documentRepo.On("SaveDocument", mock.Anything, mock.Anything).Return(nil)

	doc, err := s.service.CreateDocument(s.ctx, s.receiptRequest(domain.DocDraft), s.actorID)

	s.Require().NoError(err)
	s.Equal("RCT-2025-0012", doc.Serial)
	s.Equal(domain.DocDraft, doc.Status)
	s.Nil(doc.JournalEntryID)
	s.journalSvc.AssertNotCalled(s.T(), "CreateEntryTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *DocumentServiceTestSuite) TestCreateDocument_ApprovedPostsSynchronously() {
	s.serialRepo.On("NextSerial", mock.Anything, "RCT", 2025).Return(1, nil)
	s.documentRepo.On("SaveDocument", mock.Anything, mock.Anything).Return(nil)
	s.postingChart()
	s.documentRepo.On("Begin", mock.Anything).Return(nil, nil)
	s.journalSvc.On("CreateEntryTx", mock.Anything, mock.Anything, mock.Anything, s.actorID).
		Return(&domain.JournalEntry{EntryID: "entry-1", Serial: "JRN-2025-0001"}, nil)
	s.documentRepo.On("LinkJournalEntryTx", mock.Anything, mock.Anything, mock.Anything, "entry-1", s.actorID, mock.Anything).Return(nil)
	s.documentRepo.On("Commit", mock.Anything, mock.Anything).Return(nil)

	doc, err := s.service.CreateDocument(s.ctx, s.receiptRequest(domain.DocApproved), s.actorID)

	s.Require().NoError(err)
	s.Require().NotNil(doc.JournalEntryID)
	s.Equal("entry-1", *doc.JournalEntryID)

	// The poster hands the generated lines to the journal engine.
	call := s.journalSvc.Calls[0]
	input := call.Arguments.Get(2).(portssvc.EntryInput)
	s.Len(input.Lines, 2)
	s.Equal(string(domain.DocReceipt), input.DocumentType)
	s.Require().NotNil(input.DocumentID)
	s.Equal(doc.DocumentID, *input.DocumentID)
}

func (s *DocumentServiceTestSuite) TestCreateDocument_PostingFailureKeepsDocument() {
	s.serialRepo.On("NextSerial", mock.Anything, "RCT", 2025).Return(2, nil)
	s.documentRepo.On("SaveDocument", mock.Anything, mock.Anything).Return(nil)
	s.postingChart()
	s.documentRepo.On("Begin", mock.Anything).Return(nil, nil)
	s.journalSvc.On("CreateEntryTx", mock.Anything, mock.Anything, mock.Anything, s.actorID).
		Return(nil, apperrors.ErrPeriodLocked)
	s.documentRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil)

	doc, err := s.service.CreateDocument(s.ctx, s.receiptRequest(domain.DocApproved), s.actorID)

	s.Require().NoError(err, "a posting failure must not fail the create")
	s.Nil(doc.JournalEntryID, "the document stays unlinked for the reconciler")
	s.documentRepo.AssertCalled(s.T(), "Rollback", mock.Anything, mock.Anything)
	s.auditRepo.AssertCalled(s.T(), "AppendAuditLog", mock.Anything,
		mock.MatchedBy(func(e domain.AuditLogEntry) bool { return e.Action == domain.AuditPostFailed }))
}

func (s *DocumentServiceTestSuite) TestCreateDocument_NonFinancialTypeAuditsTheSkip() {
	s.serialRepo.On("NextSerial", mock.Anything, "QUO", 2025).Return(5, nil)
	s.documentRepo.On("SaveDocument", mock.Anything, mock.Anything).Return(nil)
	s.postingChart()

	req := s.receiptRequest(domain.DocApproved)
	req.DocumentType = domain.DocQuote

	doc, err := s.service.CreateDocument(s.ctx, req, s.actorID)

	s.Require().NoError(err)
	s.Equal("QUO-2025-0005", doc.Serial)
	s.Nil(doc.JournalEntryID)
	s.documentRepo.AssertNotCalled(s.T(), "Begin", mock.Anything)

	// No rule is not a failure, but the skip must be discoverable in the trail.
	s.auditRepo.AssertCalled(s.T(), "AppendAuditLog", mock.Anything,
		mock.MatchedBy(func(e domain.AuditLogEntry) bool {
			return e.Action == domain.AuditPostSkipped && e.EntityID == doc.DocumentID
		}))
	s.auditRepo.AssertNotCalled(s.T(), "AppendAuditLog", mock.Anything,
		mock.MatchedBy(func(e domain.AuditLogEntry) bool { return e.Action == domain.AuditPostFailed }))
}

func (s *DocumentServiceTestSuite) TestCreateDocument_NegativeAmount() {
	req := s.receiptRequest(domain.DocDraft)
	req.Amount = decimal.RequireFromString("-10.00")

	_, err := s.service.CreateDocument(s.ctx, req, s.actorID)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.documentRepo.AssertNotCalled(s.T(), "SaveDocument", mock.Anything, mock.Anything)
}

func (s *DocumentServiceTestSuite) TestCreateDocument_DerivesTotalFromNetAndVAT() {
	s.serialRepo.On("NextSerial", mock.Anything, "INV", 2025).Return(1, nil)
	s.documentRepo.On("SaveDocument", mock.Anything, mock.Anything).Return(nil)

	req := dto.CreateDocumentRequest{
		DocumentType: domain.DocInvoice,
		Status:       domain.DocDraft,
		DocumentDate: s.documentDate,
		Amount:       decimal.RequireFromString("100.00"),
		VATAmount:    decimal.RequireFromString("21.00"),
	}
	doc, err := s.service.CreateDocument(s.ctx, req, s.actorID)

	s.Require().NoError(err)
	s.True(doc.TotalAmount.Equal(decimal.RequireFromString("121.00")))
}

func (s *DocumentServiceTestSuite) existingDocument(status domain.DocumentStatus, entryID *string) *domain.AccountingDocument {
	return &domain.AccountingDocument{
		DocumentID:     "doc-1",
		Serial:         "RCT-2025-0001",
		DocumentType:   domain.DocReceipt,
		Status:         status,
		DocumentDate:   s.documentDate,
		Amount:         decimal.RequireFromString("100.00"),
		TotalAmount:    decimal.RequireFromString("100.00"),
		JournalEntryID: entryID,
	}
}

func (s *DocumentServiceTestSuite) TestUpdateDocumentStatus_CancelledIsTerminal() {
	s.documentRepo.On("FindDocumentByID", mock.Anything, "doc-1").
		Return(s.existingDocument(domain.DocCancelled, nil), nil)

	_, err := s.service.UpdateDocumentStatus(s.ctx, "doc-1",
		dto.UpdateDocumentStatusRequest{Status: domain.DocApproved}, s.actorID)

	s.ErrorIs(err, apperrors.ErrConflict)
	s.documentRepo.AssertNotCalled(s.T(), "UpdateDocument", mock.Anything, mock.Anything)
}

func (s *DocumentServiceTestSuite) TestUpdateDocumentStatus_PostedCannotReturnToDraft() {
	entryID := "entry-1"
	s.documentRepo.On("FindDocumentByID", mock.Anything, "doc-1").
		Return(s.existingDocument(domain.DocApproved, &entryID), nil)

	_, err := s.service.UpdateDocumentStatus(s.ctx, "doc-1",
		dto.UpdateDocumentStatusRequest{Status: domain.DocDraft}, s.actorID)

	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *DocumentServiceTestSuite) TestUpdateDocumentStatus_CancelCancelsLinkedEntry() {
	entryID := "entry-1"
	s.documentRepo.On("FindDocumentByID", mock.Anything, "doc-1").
		Return(s.existingDocument(domain.DocApproved, &entryID), nil)
	s.journalSvc.On("CancelEntry", mock.Anything, "entry-1", "duplicate receipt", s.actorID).Return(nil)
	s.documentRepo.On("UpdateDocument", mock.Anything, mock.Anything).Return(nil)

	doc, err := s.service.UpdateDocumentStatus(s.ctx, "doc-1",
		dto.UpdateDocumentStatusRequest{Status: domain.DocCancelled, Reason: "duplicate receipt"}, s.actorID)

	s.Require().NoError(err)
	s.Equal(domain.DocCancelled, doc.Status)
	s.journalSvc.AssertExpectations(s.T())
}

func (s *DocumentServiceTestSuite) TestUpdateDocumentStatus_ApprovalTriggersPosting() {
	s.documentRepo.On("FindDocumentByID", mock.Anything, "doc-1").
		Return(s.existingDocument(domain.DocPending, nil), nil)
	s.documentRepo.On("UpdateDocument", mock.Anything, mock.Anything).Return(nil)
	s.postingChart()
	s.documentRepo.On("Begin", mock.Anything).Return(nil, nil)
	s.journalSvc.On("CreateEntryTx", mock.Anything, mock.Anything, mock.Anything, s.actorID).
		Return(&domain.JournalEntry{EntryID: "entry-7"}, nil)
	s.documentRepo.On("LinkJournalEntryTx", mock.Anything, mock.Anything, "doc-1", "entry-7", s.actorID, mock.Anything).Return(nil)
	s.documentRepo.On("Commit", mock.Anything, mock.Anything).Return(nil)

	doc, err := s.service.UpdateDocumentStatus(s.ctx, "doc-1",
		dto.UpdateDocumentStatusRequest{Status: domain.DocApproved}, s.actorID)

	s.Require().NoError(err)
	s.Require().NotNil(doc.JournalEntryID)
	s.Equal("entry-7", *doc.JournalEntryID)
}

func (s *DocumentServiceTestSuite) TestReconcileUnposted_SweepCounts() {
	// One entry is broken by a removed account; its document re-enters the
	// backlog after repair.
	s.journalRepo.On("ListReferencedAccountIDs", mock.Anything).Return([]string{"acc-1100", "acc-gone"}, nil)
	s.accountRepo.On("ListMissingAccountIDs", mock.Anything, []string{"acc-1100", "acc-gone"}).
		Return([]string{"acc-gone"}, nil)
	s.journalRepo.On("ListEntryIDsReferencingAccounts", mock.Anything, []string{"acc-gone"}).
		Return([]string{"entry-9"}, nil)
	linked := s.existingDocument(domain.DocApproved, nil)
	s.documentRepo.On("FindDocumentsByEntryIDs", mock.Anything, []string{"entry-9"}).
		Return(map[string]domain.AccountingDocument{"entry-9": *linked}, nil)
	s.journalRepo.On("FindEntryByID", mock.Anything, "entry-9").
		Return(&domain.JournalEntry{EntryID: "entry-9"}, nil)
	s.journalRepo.On("DeleteEntry", mock.Anything, "entry-9").Return(nil)
	s.documentRepo.On("ClearJournalLink", mock.Anything, "doc-1", s.actorID, mock.Anything).Return(nil)

	// Backlog: one postable receipt, one quote, one receipt that fails.
	good := *s.existingDocument(domain.DocApproved, nil)
	quote := *s.existingDocument(domain.DocApproved, nil)
	quote.DocumentID = "doc-2"
	quote.Serial = "QUO-2025-0001"
	quote.DocumentType = domain.DocQuote
	bad := *s.existingDocument(domain.DocApproved, nil)
	bad.DocumentID = "doc-3"
	bad.Serial = "RCT-2025-0002"
	s.documentRepo.On("ListUnpostedPostable", mock.Anything).
		Return([]domain.AccountingDocument{good, quote, bad}, nil)

	s.postingChart()
	s.documentRepo.On("Begin", mock.Anything).Return(nil, nil)
	matchDoc := func(id string) interface{} {
		return mock.MatchedBy(func(input portssvc.EntryInput) bool {
			return input.DocumentID != nil && *input.DocumentID == id
		})
	}
	s.journalSvc.On("CreateEntryTx", mock.Anything, mock.Anything, matchDoc("doc-1"), s.actorID).
		Return(&domain.JournalEntry{EntryID: "entry-10"}, nil)
	s.journalSvc.On("CreateEntryTx", mock.Anything, mock.Anything, matchDoc("doc-3"), s.actorID).
		Return(nil, fmt.Errorf("%w: account 4000", apperrors.ErrMissingAccount))
	s.documentRepo.On("LinkJournalEntryTx", mock.Anything, mock.Anything, "doc-1", "entry-10", s.actorID, mock.Anything).Return(nil)
	s.documentRepo.On("Commit", mock.Anything, mock.Anything).Return(nil)
	s.documentRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil)

	summary, err := s.service.ReconcileUnposted(s.ctx, s.actorID)

	s.Require().NoError(err)
	s.Equal(1, summary.Repaired)
	s.Equal(1, summary.Posted)
	s.Equal(1, summary.Failed, "quotes are skipped, not failed")
	s.Require().Len(summary.Errors, 1)
	s.Contains(summary.Errors[0], "RCT-2025-0002")

	// The sweep stays quiet for perpetually rule-less types; only the initial
	// posting attempt records the skip.
	s.auditRepo.AssertNotCalled(s.T(), "AppendAuditLog", mock.Anything,
		mock.MatchedBy(func(e domain.AuditLogEntry) bool { return e.Action == domain.AuditPostSkipped }))
}

func (s *DocumentServiceTestSuite) TestReconcileUnposted_CleanLedgerIsAllZero() {
	s.journalRepo.On("ListReferencedAccountIDs", mock.Anything).Return([]string{}, nil)
	s.documentRepo.On("ListUnpostedPostable", mock.Anything).Return([]domain.AccountingDocument{}, nil)

	summary, err := s.service.ReconcileUnposted(s.ctx, s.actorID)

	s.Require().NoError(err)
	s.Equal(0, summary.Posted)
	s.Equal(0, summary.Repaired)
	s.Equal(0, summary.Failed)
	s.Empty(summary.Errors)
}

func TestDocumentService(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}
