package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vistamar/estate_ledger_app/internal/apperrors"
	"github.com/vistamar/estate_ledger_app/internal/core/domain"
	"github.com/vistamar/estate_ledger_app/internal/core/posting"
	portsrepo "github.com/vistamar/estate_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/vistamar/estate_ledger_app/internal/core/ports/services"
	"github.com/vistamar/estate_ledger_app/internal/dto"
)

// serialPrefixes maps each document type to its serial scope. Serials are
// unique per (scope, calendar year).
var serialPrefixes = map[domain.DocumentType]string{
	domain.DocReceipt:         "RCT",
	domain.DocInvoice:         "INV",
	domain.DocPurchaseInvoice: "PINV",
	domain.DocPayment:         "PAY",
	domain.DocDeposit:         "DEP",
	domain.DocCreditNote:      "CRN",
	domain.DocDebitNote:       "DBN",
	domain.DocJournal:         "JNL",
	domain.DocQuote:           "QUO",
	domain.DocPurchaseOrder:   "PO",
	domain.DocOther:           "DOC",
}

// documentService records business documents and keeps them reconciled with
// the journal.
type documentService struct {
	BaseService
	documentRepo portsrepo.DocumentRepositoryWithTx
	journalRepo  portsrepo.JournalRepositoryWithTx
	accountRepo  portsrepo.AccountRepositoryFacade
	serialRepo   portsrepo.SerialRepository
	accountSvc   portssvc.AccountSvcFacade
	journalSvc   portssvc.JournalSvcFacade
	periodSvc    portssvc.PeriodSvcFacade
	auditSvc     portssvc.AuditSvcFacade
}

// NewDocumentService creates a new document poster and reconciler service.
func NewDocumentService(
	documentRepo portsrepo.DocumentRepositoryWithTx,
	journalRepo portsrepo.JournalRepositoryWithTx,
	accountRepo portsrepo.AccountRepositoryFacade,
	serialRepo portsrepo.SerialRepository,
	accountSvc portssvc.AccountSvcFacade,
	journalSvc portssvc.JournalSvcFacade,
	periodSvc portssvc.PeriodSvcFacade,
	auditSvc portssvc.AuditSvcFacade,
) portssvc.DocumentSvcFacade {
	return &documentService{
		documentRepo: documentRepo,
		journalRepo:  journalRepo,
		accountRepo:  accountRepo,
		serialRepo:   serialRepo,
		accountSvc:   accountSvc,
		journalSvc:   journalSvc,
		periodSvc:    periodSvc,
		auditSvc:     auditSvc,
	}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// CreateDocument persists a document and, for APPROVED/PAID statuses, posts
// it synchronously. A posting failure never fails the create: the document is
// saved unlinked and the failure lands in the audit trail for the reconciler.
func (s *documentService) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, actorID string) (*domain.AccountingDocument, error) {
	if req.Amount.IsNegative() || req.VATAmount.IsNegative() || req.TotalAmount.IsNegative() {
		return nil, fmt.Errorf("%w: document amounts must not be negative", apperrors.ErrValidation)
	}
	totalAmount := req.TotalAmount
	if totalAmount.IsZero() {
		totalAmount = req.Amount.Add(req.VATAmount)
	}

	year := req.DocumentDate.Year()
	serialNum, err := s.serialRepo.NextSerial(ctx, serialPrefixes[req.DocumentType], year)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	lineItems := make([]domain.DocumentLineItem, len(req.LineItems))
	for i, li := range req.LineItems {
		lineItems[i] = domain.DocumentLineItem{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			Amount:      li.Amount,
			AccountID:   li.AccountID,
		}
	}
	doc := domain.AccountingDocument{
		DocumentID:    uuid.NewString(),
		Serial:        fmt.Sprintf("%s-%d-%04d", serialPrefixes[req.DocumentType], year, serialNum),
		DocumentType:  req.DocumentType,
		Status:        req.Status,
		DocumentDate:  req.DocumentDate,
		DueDate:       req.DueDate,
		Amount:        req.Amount,
		CurrencyCode:  req.CurrencyCode,
		VATRate:       req.VATRate,
		VATAmount:     req.VATAmount,
		TotalAmount:   totalAmount,
		LineItems:     lineItems,
		PaymentMethod: req.PaymentMethod,
		PaymentRef:    req.PaymentRef,
		Notes:         req.Notes,
		CrossRefs:     req.Refs.ToCrossRefs(),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.documentRepo.SaveDocument(ctx, doc); err != nil {
		return nil, err
	}
	s.auditSvc.Record(ctx, domain.AuditCreate, "document", doc.DocumentID, nil, doc, "", actorID)

	if doc.IsPostable() {
		s.tryPost(ctx, &doc, actorID)
	}
	return &doc, nil
}

// UpdateDocumentStatus transitions a document's lifecycle status. Moving into
// APPROVED/PAID triggers posting; CANCELLED cancels the linked entry too.
func (s *documentService) UpdateDocumentStatus(ctx context.Context, documentID string, req dto.UpdateDocumentStatusRequest, actorID string) (*domain.AccountingDocument, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status == domain.DocCancelled {
		return nil, fmt.Errorf("%w: document is cancelled", apperrors.ErrConflict)
	}
	if doc.Status == req.Status {
		return doc, nil
	}
	if doc.JournalEntryID != nil && (req.Status == domain.DocDraft || req.Status == domain.DocPending) {
		return nil, fmt.Errorf("%w: a posted document cannot return to %s", apperrors.ErrConflict, req.Status)
	}
	previous := *doc

	if req.Status == domain.DocCancelled && doc.JournalEntryID != nil {
		reason := req.Reason
		if reason == "" {
			reason = "source document cancelled"
		}
		if err := s.journalSvc.CancelEntry(ctx, *doc.JournalEntryID, reason, actorID); err != nil {
			return nil, err
		}
	}

	doc.Status = req.Status
	doc.LastUpdatedAt = time.Now().UTC()
	doc.LastUpdatedBy = actorID
	if err := s.documentRepo.UpdateDocument(ctx, *doc); err != nil {
		return nil, err
	}
	s.auditSvc.Record(ctx, domain.AuditStatusChange, "document", doc.DocumentID, previous, doc, req.Reason, actorID)

	if doc.IsPostable() && doc.JournalEntryID == nil {
		s.tryPost(ctx, doc, actorID)
	}
	return doc, nil
}

// tryPost attempts synchronous posting and downgrades any failure to an audit
// event plus a log line. A type with no posting rule is not a failure, but the
// skip still lands in the trail so unlinked documents stay explainable.
func (s *documentService) tryPost(ctx context.Context, doc *domain.AccountingDocument, actorID string) {
	err := s.postDocument(ctx, doc, actorID)
	if err == nil {
		return
	}
	if errors.Is(err, apperrors.ErrNoPostingRule) {
		s.auditSvc.Record(ctx, domain.AuditPostSkipped, "document", doc.DocumentID, nil, doc, err.Error(), actorID)
		return
	}
	s.LogError(ctx, err, "document posting failed", "document_id", doc.DocumentID, "serial", doc.Serial)
	s.auditSvc.Record(ctx, domain.AuditPostFailed, "document", doc.DocumentID, nil, doc, err.Error(), actorID)
}

// postDocument runs the posting rules and commits the journal entry, its
// serial and the document link in a single transaction. ErrNoPostingRule
// means the document has no financial effect and is not an error condition.
func (s *documentService) postDocument(ctx context.Context, doc *domain.AccountingDocument, actorID string) error {
	if _, err := s.periodSvc.EnsureDefaultPeriods(ctx, actorID); err != nil {
		return err
	}
	accountsByCode, err := s.accountSvc.GetAccountsByCode(ctx)
	if err != nil {
		return err
	}
	lines, err := posting.GenerateLines(*doc, accountsByCode)
	if err != nil {
		return err
	}

	tx, err := s.documentRepo.Begin(ctx)
	if err != nil {
		return err
	}
	docID := doc.DocumentID
	entry, err := s.journalSvc.CreateEntryTx(ctx, tx, portssvc.EntryInput{
		Request: dto.CreateEntryRequest{
			EntryDate:   doc.DocumentDate,
			Description: fmt.Sprintf("%s %s", doc.DocumentType, doc.Serial),
			Refs:        dto.ToCrossRefsRequest(doc.CrossRefs),
		},
		Lines:        lines,
		DocumentType: string(doc.DocumentType),
		DocumentID:   &docID,
	}, actorID)
	if err != nil {
		_ = s.documentRepo.Rollback(ctx, tx)
		return err
	}

	now := time.Now().UTC()
	if err := s.documentRepo.LinkJournalEntryTx(ctx, tx, doc.DocumentID, entry.EntryID, actorID, now); err != nil {
		_ = s.documentRepo.Rollback(ctx, tx)
		return err
	}
	if err := s.documentRepo.Commit(ctx, tx); err != nil {
		return err
	}

	doc.JournalEntryID = &entry.EntryID
	doc.LastUpdatedAt = now
	doc.LastUpdatedBy = actorID
	s.LogInfo(ctx, "document posted", "document_id", doc.DocumentID, "entry_id", entry.EntryID)
	return nil
}

// ReconcileUnposted is the idempotent repair sweep. It first removes entries
// whose lines point at accounts that no longer exist (clearing the document
// links so those documents re-enter the backlog), then retries posting for
// every APPROVED/PAID document without a journal link. A clean ledger yields
// an all-zero summary.
func (s *documentService) ReconcileUnposted(ctx context.Context, actorID string) (*domain.ReconcileSummary, error) {
	summary := &domain.ReconcileSummary{}

	if err := s.repairBrokenEntries(ctx, summary, actorID); err != nil {
		return nil, err
	}

	backlog, err := s.documentRepo.ListUnpostedPostable(ctx)
	if err != nil {
		return nil, err
	}
	for i := range backlog {
		doc := backlog[i]
		err := s.postDocument(ctx, &doc, actorID)
		switch {
		case err == nil:
			summary.Posted++
			s.auditSvc.Record(ctx, domain.AuditReconPost, "document", doc.DocumentID, nil, doc, "posted by reconciliation sweep", actorID)
		case errors.Is(err, apperrors.ErrNoPostingRule):
			// Non-financial document types sit in the backlog legitimately.
		default:
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", doc.Serial, err))
			s.auditSvc.Record(ctx, domain.AuditPostFailed, "document", doc.DocumentID, nil, doc, err.Error(), actorID)
		}
	}

	s.LogInfo(ctx, "reconciliation sweep finished",
		"posted", summary.Posted, "repaired", summary.Repaired, "failed", summary.Failed)
	return summary, nil
}

// repairBrokenEntries deletes journal entries whose lines reference removed
// accounts. This is the only path that physically deletes an entry; it exists
// to heal ledgers damaged by out-of-band account removal.
func (s *documentService) repairBrokenEntries(ctx context.Context, summary *domain.ReconcileSummary, actorID string) error {
	referenced, err := s.journalRepo.ListReferencedAccountIDs(ctx)
	if err != nil {
		return err
	}
	if len(referenced) == 0 {
		return nil
	}
	missing, err := s.accountRepo.ListMissingAccountIDs(ctx, referenced)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		return nil
	}

	brokenIDs, err := s.journalRepo.ListEntryIDsReferencingAccounts(ctx, missing)
	if err != nil {
		return err
	}
	linkedDocs, err := s.documentRepo.FindDocumentsByEntryIDs(ctx, brokenIDs)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, entryID := range brokenIDs {
		entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if err := s.journalRepo.DeleteEntry(ctx, entryID); err != nil {
			return err
		}
		if doc, ok := linkedDocs[entryID]; ok {
			if err := s.documentRepo.ClearJournalLink(ctx, doc.DocumentID, actorID, now); err != nil {
				return err
			}
		}
		summary.Repaired++
		s.auditSvc.Record(ctx, domain.AuditReconRepair, "journal_entry", entryID, entry, nil, "entry referenced removed accounts", actorID)
	}
	return nil
}

// GetDocumentByID retrieves a specific document.
func (s *documentService) GetDocumentByID(ctx context.Context, documentID string) (*domain.AccountingDocument, error) {
	return s.documentRepo.FindDocumentByID(ctx, documentID)
}

// ListDocuments retrieves documents matching the filters, newest first.
func (s *documentService) ListDocuments(ctx context.Context, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error) {
	filter := portsrepo.DocumentFilter{
		DocumentType: params.DocumentType,
		Status:       params.Status,
		DateFrom:     params.From,
		DateTo:       params.To,
		ContactID:    params.ContactID,
		PropertyID:   params.PropertyID,
		BookingID:    params.BookingID,
		Search:       params.Search,
		Limit:        params.Limit,
		NextToken:    params.NextToken,
	}
	docs, nextToken, err := s.documentRepo.ListDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}
	res := dto.ToListDocumentsResponse(docs, nextToken)
	return &res, nil
}
