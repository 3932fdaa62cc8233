package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vistamar/estate_ledger_app/internal/core/domain"
)

// DocumentFilter narrows ListDocuments. Nil/zero fields are ignored.
type DocumentFilter struct {
	DocumentType *string
	Status       *string
	DateFrom     *time.Time
	DateTo       *time.Time
	ContactID    *string
	PropertyID   *string
	BookingID    *string
	Search       string // Free text over serial + notes
	Limit        int
	NextToken    *string
}

// DocumentReader defines read operations for accounting documents.
type DocumentReader interface {
	// FindDocumentByID retrieves a specific document by its unique identifier.
	FindDocumentByID(ctx context.Context, documentID string) (*domain.AccountingDocument, error)

	// ListDocuments retrieves documents matching the filter, newest first,
	// with token pagination.
	ListDocuments(ctx context.Context, filter DocumentFilter) ([]domain.AccountingDocument, *string, error)

	// ListUnpostedPostable retrieves APPROVED/PAID documents without a journal
	// link, oldest first. This is the reconciliation backlog.
	ListUnpostedPostable(ctx context.Context) ([]domain.AccountingDocument, error)

	// FindDocumentsByEntryIDs retrieves documents keyed by their linked entry ID.
	FindDocumentsByEntryIDs(ctx context.Context, entryIDs []string) (map[string]domain.AccountingDocument, error)
}

// DocumentWriter defines write operations for accounting documents.
type DocumentWriter interface {
	// SaveDocument persists a new document.
	SaveDocument(ctx context.Context, doc domain.AccountingDocument) error

	// UpdateDocument updates an existing document's details.
	UpdateDocument(ctx context.Context, doc domain.AccountingDocument) error

	// LinkJournalEntryTx sets the document's journal link within a caller-owned
	// transaction, so the link and the entry commit together.
	LinkJournalEntryTx(ctx context.Context, tx pgx.Tx, documentID string, entryID string, updatedBy string, updatedAt time.Time) error

	// ClearJournalLink removes a document's journal link. Used by the
	// reconciliation sweep when the linked entry is repaired away.
	ClearJournalLink(ctx context.Context, documentID string, updatedBy string, updatedAt time.Time) error
}

// DocumentRepositoryFacade combines all document-related repository interfaces.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}

// DocumentRepositoryWithTx extends DocumentRepositoryFacade with transaction
// capabilities.
type DocumentRepositoryWithTx interface {
	DocumentRepositoryFacade
	TransactionManager
}
