package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vistamar/estate_ledger_app/internal/core/domain"
)

// EntryFilter narrows ListActiveEntries. Nil/zero fields are ignored.
type EntryFilter struct {
	DateFrom      *time.Time
	DateTo        *time.Time
	ContactID     *string
	BankAccountID *string
	PropertyID    *string
	ProjectID     *string
	BookingID     *string
	ContractID    *string
	DocumentType  *string
	DocumentID    *string
	Search        string // Free text over serial + description
	Limit         int
	NextToken     *string
}

// EntryReader defines read operations for journal entries and their lines.
type EntryReader interface {
	// FindEntryByID retrieves a specific entry with its lines populated.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListActiveEntries retrieves active entries (approved, not superseded)
	// matching the filter, newest first, with token pagination.
	ListActiveEntries(ctx context.Context, filter EntryFilter) ([]domain.JournalEntry, *string, error)

	// ListReferencedAccountIDs returns the distinct account IDs referenced by
	// the lines of non-cancelled entries.
	ListReferencedAccountIDs(ctx context.Context) ([]string, error)

	// ListEntryIDsReferencingAccounts returns the IDs of entries with at least
	// one line pointing at any of the given accounts.
	ListEntryIDsReferencingAccounts(ctx context.Context, accountIDs []string) ([]string, error)
}

// EntryWriter defines write operations for journal entries.
type EntryWriter interface {
	// SaveEntry persists an entry and its lines atomically.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// SaveEntryTx persists an entry and its lines within a caller-owned
	// transaction, so document posting can link atomically.
	SaveEntryTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error

	// UpdateEntry replaces an entry's mutable fields and rewrites its lines.
	UpdateEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateEntryStatus transitions an entry's status (cancellation).
	UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error

	// SetSupersededBy points an entry at its replacement.
	SetSupersededBy(ctx context.Context, entryID string, supersededBy string, updatedBy string, updatedAt time.Time) error

	// DeleteEntry physically removes an entry and its lines. Reserved for the
	// reconciliation sweep's broken-reference repair; every other correction
	// path cancels or supersedes instead.
	DeleteEntry(ctx context.Context, entryID string) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	EntryReader
	EntryWriter
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction
// capabilities.
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
