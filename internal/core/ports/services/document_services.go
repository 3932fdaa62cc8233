package services

import (
	"context"

	"github.com/vistamar/estate_ledger_app/internal/core/domain"
	"github.com/vistamar/estate_ledger_app/internal/dto"
)

// DocumentReaderSvc defines read operations for accounting documents.
type DocumentReaderSvc interface {
	// GetDocumentByID retrieves a specific document.
	GetDocumentByID(ctx context.Context, documentID string) (*domain.AccountingDocument, error)

	// ListDocuments retrieves documents matching the filters, newest first.
	ListDocuments(ctx context.Context, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error)
}

// DocumentWriterSvc defines write and repair operations for documents.
type DocumentWriterSvc interface {
	// CreateDocument persists a document; APPROVED/PAID documents are posted
	// synchronously. A posting failure leaves the document unlinked and is
	// recorded as a POST_FAILED audit event, not surfaced as an error.
	CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, actorID string) (*domain.AccountingDocument, error)

	// UpdateDocumentStatus transitions a document's lifecycle status,
	// triggering posting or cancellation where applicable.
	UpdateDocumentStatus(ctx context.Context, documentID string, req dto.UpdateDocumentStatusRequest, actorID string) (*domain.AccountingDocument, error)

	// ReconcileUnposted repairs entries whose lines reference removed
	// accounts and retries posting for the APPROVED/PAID backlog. Safe to
	// run repeatedly; a clear backlog yields a zero summary.
	ReconcileUnposted(ctx context.Context, actorID string) (*domain.ReconcileSummary, error)
}

// DocumentSvcFacade combines all document-related service interfaces.
type DocumentSvcFacade interface {
	DocumentReaderSvc
	DocumentWriterSvc
}
