package services

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/vistamar/estate_ledger_app/internal/core/domain"
	"github.com/vistamar/estate_ledger_app/internal/dto"
)

// EntryInput is the internal creation payload used by the document poster,
// carrying fields callers never set directly (document refs, prepared lines).
type EntryInput struct {
	Request      dto.CreateEntryRequest
	Lines        []domain.JournalLine // When set, used instead of Request.Lines
	DocumentType string
	DocumentID   *string
}

// JournalReaderSvc defines read operations for journal entries.
type JournalReaderSvc interface {
	// GetEntryByID retrieves a specific entry with its lines.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListActive retrieves active entries matching the filters, newest first.
	ListActive(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// JournalWriterSvc defines write operations for journal entries.
type JournalWriterSvc interface {
	// CreateEntry validates (balance, period lock), assigns a serial and
	// persists a new entry, appending a CREATE audit event.
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest, actorID string) (*domain.JournalEntry, error)

	// CreateEntryTx is CreateEntry within a caller-owned transaction, so a
	// document and its entry can commit atomically.
	CreateEntryTx(ctx context.Context, tx pgx.Tx, input EntryInput, actorID string) (*domain.JournalEntry, error)

	// UpdateEntry patches an active entry, re-validating balance and period
	// lock for the possibly new date, and bumps the revision counter.
	UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, actorID string) (*domain.JournalEntry, error)

	// CancelEntry marks an entry CANCELLED. Lines are retained; the entry is
	// excluded from every aggregation from this point on.
	CancelEntry(ctx context.Context, entryID string, reason string, actorID string) error

	// SupersedeEntry points an entry at its replacement, removing it from
	// aggregations without cancelling it.
	SupersedeEntry(ctx context.Context, entryID string, replacementID string, actorID string) error
}

// JournalSvcFacade combines all journal-related service interfaces.
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
