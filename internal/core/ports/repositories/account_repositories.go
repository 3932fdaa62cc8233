package repositories

import (
	"context"

	"github.com/vistamar/estate_ledger_app/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its human code (e.g. "1000").
	// Codes are unique across active and inactive accounts.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves all accounts ordered by code. When onlyActive is
	// set, deactivated accounts are omitted.
	ListAccounts(ctx context.Context, onlyActive bool) ([]domain.Account, error)

	// CountAccounts returns the total number of accounts, active or not.
	CountAccounts(ctx context.Context) (int, error)

	// MaxSortOrder returns the highest sort order currently assigned.
	MaxSortOrder(ctx context.Context) (int, error)

	// ListMissingAccountIDs returns the subset of the given IDs that no longer
	// resolve to any account row. Used by the reconciliation sweep.
	ListMissingAccountIDs(ctx context.Context, accountIDs []string) ([]string, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// SaveAccounts persists a batch of accounts in one transaction. Used by
	// the idempotent seeding path.
	SaveAccounts(ctx context.Context, accounts []domain.Account) error

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
