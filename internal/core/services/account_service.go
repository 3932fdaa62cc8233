package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vistamar/estate_ledger_app/internal/apperrors"
	"github.com/vistamar/estate_ledger_app/internal/core/domain"
	portsrepo "github.com/vistamar/estate_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/vistamar/estate_ledger_app/internal/core/ports/services"
	"github.com/vistamar/estate_ledger_app/internal/dto"
	"github.com/vistamar/estate_ledger_app/internal/utils/accounting"
)

// seedAccount is one row of the canonical chart of accounts installed by
// EnsureSeeded.
type seedAccount struct {
	Code        string
	Name        string
	AccountType domain.AccountType
}

// defaultChart is the canonical chart for a real-estate back office. Seeding
// matches by code, so renamed accounts are never re-inserted.
var defaultChart = []seedAccount{
	{"1000", "Cash", domain.Asset},
	{"1100", "Bank", domain.Asset},
	{"1200", "Accounts Receivable", domain.Asset},
	{"1300", "Tenant Deposits Held", domain.Asset},
	{"1400", "Prepaid Expenses", domain.Asset},
	{"1500", "Property & Equipment", domain.Asset},
	{"1600", "Accumulated Depreciation", domain.Asset},
	{"2000", "Accounts Payable", domain.Liability},
	{"2100", "Tenant Deposit Liability", domain.Liability},
	{"2200", "VAT Payable", domain.Liability},
	{"2300", "Accrued Expenses", domain.Liability},
	{"3000", "Owner Capital", domain.Equity},
	{"3100", "Retained Earnings", domain.Equity},
	{"4000", "Rent Revenue", domain.Revenue},
	{"4100", "Sales Revenue", domain.Revenue},
	{"4200", "Service Fee Revenue", domain.Revenue},
	{"4300", "Commission Revenue", domain.Revenue},
	{"4400", "Other Revenue", domain.Revenue},
	{"5000", "Operating Expenses", domain.Expense},
	{"5100", "Repairs & Maintenance", domain.Expense},
	{"5200", "Utilities", domain.Expense},
	{"5300", "Marketing & Advertising", domain.Expense},
	{"5400", "Insurance", domain.Expense},
	{"5500", "Professional Fees", domain.Expense},
}

// accountService manages the chart of accounts and balance queries.
type accountService struct {
	BaseService
	accountRepo   portsrepo.AccountRepositoryFacade
	reportingRepo portsrepo.ReportingRepository
	auditSvc      portssvc.AuditSvcFacade
}

// NewAccountService creates a new account registry service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, reportingRepo portsrepo.ReportingRepository, auditSvc portssvc.AuditSvcFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:   accountRepo,
		reportingRepo: reportingRepo,
		auditSvc:      auditSvc,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// EnsureSeeded installs the canonical chart of accounts. On a non-empty
// registry only accounts missing by code are filled in, so the call is safe
// to repeat on every startup.
func (s *accountService) EnsureSeeded(ctx context.Context, actorID string) (int, error) {
	existing, err := s.accountRepo.ListAccounts(ctx, false)
	if err != nil {
		return 0, err
	}
	byCode := make(map[string]struct{}, len(existing))
	for _, acc := range existing {
		byCode[acc.Code] = struct{}{}
	}

	sortOrder, err := s.accountRepo.MaxSortOrder(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	var missing []domain.Account
	for _, seed := range defaultChart {
		if _, ok := byCode[seed.Code]; ok {
			continue
		}
		sortOrder += 10
		missing = append(missing, domain.Account{
			AccountID:   uuid.NewString(),
			Code:        seed.Code,
			Name:        seed.Name,
			AccountType: seed.AccountType,
			IsActive:    true,
			SortOrder:   sortOrder,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		})
	}
	if len(missing) == 0 {
		return 0, nil
	}

	if err := s.accountRepo.SaveAccounts(ctx, missing); err != nil {
		return 0, err
	}
	s.LogInfo(ctx, "seeded chart of accounts", "inserted", len(missing))
	for _, acc := range missing {
		s.auditSvc.Record(ctx, domain.AuditSeed, "account", acc.AccountID, nil, acc, "chart of accounts seeding", actorID)
	}
	return len(missing), nil
}

// CreateAccount persists a new account with a caller-assigned code.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actorID string) (*domain.Account, error) {
	existing, err := s.accountRepo.FindAccountByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrDuplicate
	}

	if req.ParentAccountID != nil {
		if _, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID); err != nil {
			return nil, err
		}
	}

	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	} else {
		maxOrder, err := s.accountRepo.MaxSortOrder(ctx)
		if err != nil {
			return nil, err
		}
		sortOrder = maxOrder + 10
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        req.Code,
		Name:        req.Name,
		AccountType: req.AccountType,
		IsActive:    true,
		SortOrder:   sortOrder,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if req.ParentAccountID != nil {
		account.ParentAccountID = *req.ParentAccountID
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	s.auditSvc.Record(ctx, domain.AuditCreate, "account", account.AccountID, nil, account, "", actorID)
	return &account, nil
}

// UpdateAccount updates an existing account's mutable details. Deactivation
// goes through here; accounts are never physically deleted.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	previous := *account

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.ParentAccountID != nil {
		if *req.ParentAccountID == accountID {
			return nil, apperrors.ErrValidation
		}
		account.ParentAccountID = *req.ParentAccountID
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		account.SortOrder = *req.SortOrder
	}
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = actorID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		return nil, err
	}
	s.auditSvc.Record(ctx, domain.AuditUpdate, "account", account.AccountID, previous, account, "", actorID)
	return account, nil
}

// GetAccountByID retrieves a specific account.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// GetAccountByCode retrieves an account by its human code.
func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, code)
}

// GetAccountsByCode retrieves active accounts keyed by code, the lookup
// table the posting rules resolve against.
func (s *accountService) GetAccountsByCode(ctx context.Context) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, true)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		byCode[acc.Code] = acc
	}
	return byCode, nil
}

// ListAccounts retrieves accounts ordered by code.
func (s *accountService) ListAccounts(ctx context.Context, onlyActive bool) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, onlyActive)
}

// GetBalance recomputes an account's balance from active journal lines up to
// an optional date, netted to the account's normal side.
func (s *accountService) GetBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	activity, err := s.reportingRepo.GetSingleAccountActivity(ctx, accountID, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	if activity == nil {
		return decimal.Zero, nil
	}
	return accounting.NetBalance(account.AccountType, activity.TotalDebit, activity.TotalCredit), nil
}
