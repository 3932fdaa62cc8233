package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/vistamar/estate_ledger_app/internal/core/domain"
	portsrepo "github.com/vistamar/estate_ledger_app/internal/core/ports/repositories"
)

// Hand-written repository mocks shared by the service test suites.

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, onlyActive bool) ([]domain.Account, error) {
	args := m.Called(ctx, onlyActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) CountAccounts(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountRepository) MaxSortOrder(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountRepository) ListMissingAccountIDs(ctx context.Context, accountIDs []string) ([]string, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	args := m.Called(ctx, accounts)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryWithTx = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockJournalRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockJournalRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListActiveEntries(ctx context.Context, filter portsrepo.EntryFilter) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var nextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		nextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), nextToken, args.Error(2)
}

func (m *MockJournalRepository) ListReferencedAccountIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockJournalRepository) ListEntryIDsReferencingAccounts(ctx context.Context, accountIDs []string) ([]string, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) SaveEntryTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, entryID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) SetSupersededBy(ctx context.Context, entryID string, supersededBy string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, entryID, supersededBy, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteEntry(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

// --- Mock DocumentRepository ---

type MockDocumentRepository struct {
	mock.Mock
}

var _ portsrepo.DocumentRepositoryWithTx = (*MockDocumentRepository)(nil)

func (m *MockDocumentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockDocumentRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockDocumentRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.AccountingDocument, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingDocument), args.Error(1)
}

func (m *MockDocumentRepository) ListDocuments(ctx context.Context, filter portsrepo.DocumentFilter) ([]domain.AccountingDocument, *string, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var nextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		nextToken = &tokenVal
	}
	return args.Get(0).([]domain.AccountingDocument), nextToken, args.Error(2)
}

func (m *MockDocumentRepository) ListUnpostedPostable(ctx context.Context) ([]domain.AccountingDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingDocument), args.Error(1)
}

func (m *MockDocumentRepository) FindDocumentsByEntryIDs(ctx context.Context, entryIDs []string) (map[string]domain.AccountingDocument, error) {
	args := m.Called(ctx, entryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.AccountingDocument), args.Error(1)
}

func (m *MockDocumentRepository) SaveDocument(ctx context.Context, doc domain.AccountingDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateDocument(ctx context.Context, doc domain.AccountingDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) LinkJournalEntryTx(ctx context.Context, tx pgx.Tx, documentID string, entryID string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, documentID, entryID, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockDocumentRepository) ClearJournalLink(ctx context.Context, documentID string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, documentID, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock PeriodRepository ---

type MockPeriodRepository struct {
	mock.Mock
}

var _ portsrepo.PeriodRepositoryFacade = (*MockPeriodRepository)(nil)

func (m *MockPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindPeriodByDate(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodRepository) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodRepository) CountPeriods(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockPeriodRepository) UpdatePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

// --- Mock AuditRepository ---

type MockAuditRepository struct {
	mock.Mock
}

var _ portsrepo.AuditRepositoryFacade = (*MockAuditRepository)(nil)

func (m *MockAuditRepository) AppendAuditLog(ctx context.Context, entry domain.AuditLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) QueryAuditLog(ctx context.Context, entityType *string, entityID *string, limit int) ([]domain.AuditLogEntry, error) {
	args := m.Called(ctx, entityType, entityID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLogEntry), args.Error(1)
}

// --- Mock SerialRepository ---

type MockSerialRepository struct {
	mock.Mock
}

var _ portsrepo.SerialRepository = (*MockSerialRepository)(nil)

func (m *MockSerialRepository) NextSerial(ctx context.Context, scope string, year int) (int, error) {
	args := m.Called(ctx, scope, year)
	return args.Int(0), args.Error(1)
}

func (m *MockSerialRepository) NextSerialTx(ctx context.Context, tx pgx.Tx, scope string, year int) (int, error) {
	args := m.Called(ctx, tx, scope, year)
	return args.Int(0), args.Error(1)
}

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetAccountActivity(ctx context.Context, from, to *time.Time) ([]portsrepo.RawAccountActivity, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.RawAccountActivity), args.Error(1)
}

func (m *MockReportingRepository) GetSingleAccountActivity(ctx context.Context, accountID string, asOf *time.Time) (*portsrepo.RawAccountActivity, error) {
	args := m.Called(ctx, accountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsrepo.RawAccountActivity), args.Error(1)
}

func (m *MockReportingRepository) GetLedgerLines(ctx context.Context, accountID string, from, to *time.Time) ([]domain.LedgerLine, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerLine), args.Error(1)
}

func (m *MockReportingRepository) GetBankCashLines(ctx context.Context, bankAccountID *string, from, to *time.Time) ([]domain.LedgerLine, error) {
	args := m.Called(ctx, bankAccountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerLine), args.Error(1)
}

// activity builds one raw activity row for reporting tests.
func activity(code, name string, accountType domain.AccountType, debit, credit string) portsrepo.RawAccountActivity {
	return portsrepo.RawAccountActivity{
		AccountID:   "acc-" + code,
		AccountCode: code,
		AccountName: name,
		AccountType: accountType,
		TotalDebit:  decimal.RequireFromString(debit),
		TotalCredit: decimal.RequireFromString(credit),
	}
}
