package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vistamar/estate_ledger_app/internal/apperrors"
	"github.com/vistamar/estate_ledger_app/internal/core/domain"
	portsrepo "github.com/vistamar/estate_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/vistamar/estate_ledger_app/internal/core/ports/services"
	"github.com/vistamar/estate_ledger_app/internal/dto"
	"github.com/vistamar/estate_ledger_app/internal/utils/accounting"
)

// journalSerialScope keys the serial counter for manually authored and
// document-generated journal entries alike.
const journalSerialScope = "JRN"

// journalService provides the core double-entry journal operations.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryWithTx
	accountRepo portsrepo.AccountRepositoryFacade
	serialRepo  portsrepo.SerialRepository
	periodSvc   portssvc.PeriodSvcFacade
	auditSvc    portssvc.AuditSvcFacade
}

// NewJournalService creates a new journal engine service.
func NewJournalService(
	journalRepo portsrepo.JournalRepositoryWithTx,
	accountRepo portsrepo.AccountRepositoryFacade,
	serialRepo portsrepo.SerialRepository,
	periodSvc portssvc.PeriodSvcFacade,
	auditSvc portssvc.AuditSvcFacade,
) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		serialRepo:  serialRepo,
		periodSvc:   periodSvc,
		auditSvc:    auditSvc,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildLines converts request lines to domain lines and validates each line
// in isolation. Balance is checked separately after normalization.
func (s *journalService) buildLines(reqLines []dto.EntryLineRequest) ([]domain.JournalLine, error) {
	lines := make([]domain.JournalLine, 0, len(reqLines))
	for _, rl := range reqLines {
		if rl.Debit.IsNegative() || rl.Credit.IsNegative() {
			return nil, fmt.Errorf("%w: line amounts must not be negative", apperrors.ErrValidation)
		}
		if !rl.Debit.IsZero() && !rl.Credit.IsZero() {
			return nil, fmt.Errorf("%w: a line must not carry both a debit and a credit", apperrors.ErrValidation)
		}
		lines = append(lines, domain.JournalLine{
			AccountID:   rl.AccountID,
			Debit:       rl.Debit,
			Credit:      rl.Credit,
			Description: rl.Description,
		})
	}
	return lines, nil
}

// validateLines runs the shared invariants for a candidate line set: at least
// two normalized lines, all accounts present and active, debits equal credits.
func (s *journalService) validateLines(ctx context.Context, lines []domain.JournalLine) ([]domain.JournalLine, error) {
	lines = accounting.NormalizeLines(lines)
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: an entry needs at least two non-zero lines", apperrors.ErrValidation)
	}

	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; ok {
			continue
		}
		seen[line.AccountID] = struct{}{}
		accountIDs = append(accountIDs, line.AccountID)
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range accountIDs {
		account, ok := accounts[id]
		if !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s is deactivated", apperrors.ErrValidation, account.Code)
		}
	}

	if !accounting.IsBalanced(lines) {
		totalDebit, totalCredit := accounting.SumLines(lines)
		return nil, fmt.Errorf("%w: debits %s vs credits %s", apperrors.ErrUnbalanced, totalDebit, totalCredit)
	}
	return lines, nil
}

// guardPeriod rejects dates inside a locked fiscal period.
func (s *journalService) guardPeriod(ctx context.Context, date time.Time) error {
	locked, err := s.periodSvc.IsLocked(ctx, date)
	if err != nil {
		return err
	}
	if locked {
		return fmt.Errorf("%w: %s", apperrors.ErrPeriodLocked, date.Format("2006-01-02"))
	}
	return nil
}

// CreateEntry validates and persists a manually authored journal entry inside
// its own transaction.
func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, actorID string) (*domain.JournalEntry, error) {
	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	entry, err := s.CreateEntryTx(ctx, tx, portssvc.EntryInput{Request: req}, actorID)
	if err != nil {
		_ = s.journalRepo.Rollback(ctx, tx)
		return nil, err
	}
	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return entry, nil
}

// CreateEntryTx validates and persists an entry within a caller-owned
// transaction. The document poster uses this to commit a document, its entry
// and the journal link atomically.
func (s *journalService) CreateEntryTx(ctx context.Context, tx pgx.Tx, input portssvc.EntryInput, actorID string) (*domain.JournalEntry, error) {
	req := input.Request
	if err := s.guardPeriod(ctx, req.EntryDate); err != nil {
		return nil, err
	}

	lines := input.Lines
	if lines == nil {
		built, err := s.buildLines(req.Lines)
		if err != nil {
			return nil, err
		}
		lines = built
	}
	lines, err := s.validateLines(ctx, lines)
	if err != nil {
		return nil, err
	}

	year := req.EntryDate.Year()
	serialNum, err := s.serialRepo.NextSerialTx(ctx, tx, journalSerialScope, year)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	for i := range lines {
		lines[i].LineID = uuid.NewString()
		lines[i].EntryID = entryID
	}
	totalDebit, totalCredit := accounting.SumLines(lines)

	entry := domain.JournalEntry{
		EntryID:      entryID,
		Revision:     1,
		Serial:       fmt.Sprintf("%s-%d-%04d", journalSerialScope, year, serialNum),
		EntryDate:    req.EntryDate,
		Lines:        lines,
		TotalDebit:   totalDebit,
		TotalCredit:  totalCredit,
		Description:  req.Description,
		Status:       domain.EntryApproved,
		DocumentType: input.DocumentType,
		DocumentID:   input.DocumentID,
		CrossRefs:    req.Refs.ToCrossRefs(),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := s.journalRepo.SaveEntryTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, domain.AuditCreate, "journal_entry", entry.EntryID, nil, entry, "", actorID)
	s.LogInfo(ctx, "journal entry created", "entry_id", entry.EntryID, "serial", entry.Serial)
	return &entry, nil
}

// UpdateEntry patches an active entry in place, bumping its revision. Both
// the current and the requested entry date must be in open periods.
func (s *journalService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, actorID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !entry.IsActive() {
		return nil, fmt.Errorf("%w: only active entries can be updated", apperrors.ErrConflict)
	}
	if err := s.guardPeriod(ctx, entry.EntryDate); err != nil {
		return nil, err
	}
	previous := *entry

	if req.EntryDate != nil {
		if err := s.guardPeriod(ctx, *req.EntryDate); err != nil {
			return nil, err
		}
		entry.EntryDate = *req.EntryDate
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.Lines != nil {
		lines, err := s.buildLines(*req.Lines)
		if err != nil {
			return nil, err
		}
		lines, err = s.validateLines(ctx, lines)
		if err != nil {
			return nil, err
		}
		for i := range lines {
			lines[i].LineID = uuid.NewString()
			lines[i].EntryID = entry.EntryID
		}
		entry.Lines = lines
		entry.TotalDebit, entry.TotalCredit = accounting.SumLines(lines)
	}

	entry.Revision++
	entry.LastUpdatedAt = time.Now().UTC()
	entry.LastUpdatedBy = actorID
	if err := s.journalRepo.UpdateEntry(ctx, *entry); err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, domain.AuditUpdate, "journal_entry", entry.EntryID, previous, entry, "", actorID)
	return entry, nil
}

// CancelEntry marks an entry CANCELLED. The lines stay on record; only the
// aggregations stop seeing them.
func (s *journalService) CancelEntry(ctx context.Context, entryID string, reason string, actorID string) error {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.Status == domain.EntryCancelled {
		return fmt.Errorf("%w: entry is already cancelled", apperrors.ErrConflict)
	}
	if err := s.guardPeriod(ctx, entry.EntryDate); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.journalRepo.UpdateEntryStatus(ctx, entryID, domain.EntryCancelled, actorID, now); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, domain.AuditCancel, "journal_entry", entryID, entry, nil, reason, actorID)
	s.LogInfo(ctx, "journal entry cancelled", "entry_id", entryID, "reason", reason)
	return nil
}

// SupersedeEntry points an entry at its replacement. The entry stays
// APPROVED but drops out of every aggregation.
func (s *journalService) SupersedeEntry(ctx context.Context, entryID string, replacementID string, actorID string) error {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	if !entry.IsActive() {
		return fmt.Errorf("%w: only active entries can be superseded", apperrors.ErrConflict)
	}
	if _, err := s.journalRepo.FindEntryByID(ctx, replacementID); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.journalRepo.SetSupersededBy(ctx, entryID, replacementID, actorID, now); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, domain.AuditSupersede, "journal_entry", entryID, entry, nil, "superseded by "+replacementID, actorID)
	return nil
}

// GetEntryByID retrieves a specific entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return s.journalRepo.FindEntryByID(ctx, entryID)
}

// ListActive retrieves active entries matching the filters, newest first.
func (s *journalService) ListActive(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	filter := portsrepo.EntryFilter{
		DateFrom:      params.From,
		DateTo:        params.To,
		ContactID:     params.ContactID,
		BankAccountID: params.BankAccountID,
		PropertyID:    params.PropertyID,
		ProjectID:     params.ProjectID,
		BookingID:     params.BookingID,
		ContractID:    params.ContractID,
		DocumentType:  params.DocumentType,
		DocumentID:    params.DocumentID,
		Search:        params.Search,
		Limit:         params.Limit,
		NextToken:     params.NextToken,
	}
	entries, nextToken, err := s.journalRepo.ListActiveEntries(ctx, filter)
	if err != nil {
		return nil, err
	}

	res := make([]dto.EntryResponse, len(entries))
	for i := range entries {
		res[i] = dto.ToEntryResponse(&entries[i])
	}
	return &dto.ListEntriesResponse{Entries: res, NextToken: nextToken}, nil
}
