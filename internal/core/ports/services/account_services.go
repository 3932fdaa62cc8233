package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vistamar/estate_ledger_app/internal/core/domain"
	"github.com/vistamar/estate_ledger_app/internal/dto"
)

// AccountReaderSvc defines read operations for chart-of-accounts data.
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its human code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// GetAccountsByCode retrieves all accounts keyed by code, active only.
	// This is the lookup table posting rules resolve against.
	GetAccountsByCode(ctx context.Context) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts ordered by code.
	ListAccounts(ctx context.Context, onlyActive bool) ([]domain.Account, error)

	// GetBalance sums debit/credit across active journal lines for the
	// account up to an optional date, netted to the account's normal side.
	GetBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error)
}

// AccountWriterSvc defines write operations for chart-of-accounts data.
type AccountWriterSvc interface {
	// EnsureSeeded idempotently installs the canonical chart of accounts.
	// On an empty registry the full default set is inserted; on a non-empty
	// registry only required accounts missing by code are filled in. Returns
	// the number of accounts inserted.
	EnsureSeeded(ctx context.Context, actorID string) (int, error)

	// CreateAccount persists a new account with a caller-assigned code.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actorID string) (*domain.Account, error)

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
