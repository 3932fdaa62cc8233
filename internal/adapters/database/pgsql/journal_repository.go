package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vistamar/estate_ledger_app/internal/apperrors"
	"github.com/vistamar/estate_ledger_app/internal/core/domain"
	portsrepo "github.com/vistamar/estate_ledger_app/internal/core/ports/repositories"
	"github.com/vistamar/estate_ledger_app/internal/models"
	"github.com/vistamar/estate_ledger_app/internal/utils/pagination"
)

// activeEntryPredicate selects entries that participate in aggregations.
const activeEntryPredicate = `e.status = 'APPROVED' AND e.superseded_by IS NULL`

const entryColumns = `e.entry_id, e.revision, e.serial, e.entry_date, e.total_debit, e.total_credit, e.description, e.status, e.superseded_by, e.document_type, e.document_id, e.contact_id, e.bank_account_id, e.property_id, e.project_id, e.booking_id, e.contract_id, e.created_at, e.created_by, e.last_updated_at, e.last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

func toDomainEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:      m.EntryID,
		Revision:     m.Revision,
		Serial:       m.Serial,
		EntryDate:    m.EntryDate,
		TotalDebit:   m.TotalDebit,
		TotalCredit:  m.TotalCredit,
		Description:  m.Description,
		Status:       domain.EntryStatus(m.Status),
		SupersededBy: m.SupersededBy,
		DocumentType: m.DocumentType,
		DocumentID:   m.DocumentID,
		CrossRefs: domain.CrossRefs{
			ContactID:     m.ContactID,
			BankAccountID: m.BankAccountID,
			PropertyID:    m.PropertyID,
			ProjectID:     m.ProjectID,
			BookingID:     m.BookingID,
			ContractID:    m.ContractID,
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.Revision,
		&m.Serial,
		&m.EntryDate,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.Description,
		&m.Status,
		&m.SupersededBy,
		&m.DocumentType,
		&m.DocumentID,
		&m.ContactID,
		&m.BankAccountID,
		&m.PropertyID,
		&m.ProjectID,
		&m.BookingID,
		&m.ContractID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindEntryByID retrieves an entry with its lines populated.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM journal_entries e WHERE e.entry_id = $1;`, entryColumns)

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", entryID, err)
	}

	entry := toDomainEntry(m)
	lines, err := r.findLinesByEntryIDs(ctx, []string{entryID})
	if err != nil {
		return nil, err
	}
	entry.Lines = lines[entryID]
	return &entry, nil
}

func (r *PgxJournalRepository) findLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.JournalLine{}, nil
	}

	query := `
		SELECT line_id, entry_id, account_id, debit, credit, description
		FROM journal_lines
		WHERE entry_id = ANY($1)
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal lines: %w", err)
	}
	defer rows.Close()

	linesByEntry := make(map[string][]domain.JournalLine)
	for rows.Next() {
		var m models.JournalLine
		if err := rows.Scan(&m.LineID, &m.EntryID, &m.AccountID, &m.Debit, &m.Credit, &m.Description); err != nil {
			return nil, fmt.Errorf("failed to scan journal line: %w", err)
		}
		linesByEntry[m.EntryID] = append(linesByEntry[m.EntryID], domain.JournalLine{
			LineID:      m.LineID,
			EntryID:     m.EntryID,
			AccountID:   m.AccountID,
			Debit:       m.Debit,
			Credit:      m.Credit,
			Description: m.Description,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal line rows: %w", err)
	}
	return linesByEntry, nil
}

// ListActiveEntries retrieves active entries matching the filter, newest
// first, using token-based pagination over (entry_date, created_at).
func (r *PgxJournalRepository) ListActiveEntries(ctx context.Context, filter portsrepo.EntryFilter) ([]domain.JournalEntry, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`SELECT %s FROM journal_entries e WHERE %s`, entryColumns, activeEntryPredicate)
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.DateFrom != nil {
		query += fmt.Sprintf(" AND e.entry_date >= %s", arg(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		query += fmt.Sprintf(" AND e.entry_date <= %s", arg(*filter.DateTo))
	}
	if filter.ContactID != nil {
		query += fmt.Sprintf(" AND e.contact_id = %s", arg(*filter.ContactID))
	}
	if filter.BankAccountID != nil {
		query += fmt.Sprintf(" AND e.bank_account_id = %s", arg(*filter.BankAccountID))
	}
	if filter.PropertyID != nil {
		query += fmt.Sprintf(" AND e.property_id = %s", arg(*filter.PropertyID))
	}
	if filter.ProjectID != nil {
		query += fmt.Sprintf(" AND e.project_id = %s", arg(*filter.ProjectID))
	}
	if filter.BookingID != nil {
		query += fmt.Sprintf(" AND e.booking_id = %s", arg(*filter.BookingID))
	}
	if filter.ContractID != nil {
		query += fmt.Sprintf(" AND e.contract_id = %s", arg(*filter.ContractID))
	}
	if filter.DocumentType != nil {
		query += fmt.Sprintf(" AND e.document_type = %s", arg(*filter.DocumentType))
	}
	if filter.DocumentID != nil {
		query += fmt.Sprintf(" AND e.document_id = %s", arg(*filter.DocumentID))
	}
	if filter.Search != "" {
		placeholder := arg("%" + filter.Search + "%")
		query += fmt.Sprintf(" AND (e.serial ILIKE %s OR e.description ILIKE %s)", placeholder, placeholder)
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*filter.NextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		query += fmt.Sprintf(" AND (e.entry_date, e.created_at) < (%s, %s)", arg(lastDate), arg(lastCreatedAt))
	}

	// Fetch one extra row to detect whether a next page exists.
	query += fmt.Sprintf(" ORDER BY e.entry_date DESC, e.created_at DESC LIMIT %s;", arg(limit+1))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query active entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, toDomainEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	var nextToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextToken = &token
	}

	entryIDs := make([]string, len(entries))
	for i, e := range entries {
		entryIDs[i] = e.EntryID
	}
	linesByEntry, err := r.findLinesByEntryIDs(ctx, entryIDs)
	if err != nil {
		return nil, nil, err
	}
	for i := range entries {
		entries[i].Lines = linesByEntry[entries[i].EntryID]
	}
	return entries, nextToken, nil
}

// ListReferencedAccountIDs returns the distinct account IDs referenced by
// lines of non-cancelled entries.
func (r *PgxJournalRepository) ListReferencedAccountIDs(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT l.account_id
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.status != 'CANCELLED';
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query referenced account IDs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan referenced account ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating referenced account IDs: %w", err)
	}
	return ids, nil
}

// ListEntryIDsReferencingAccounts returns IDs of entries with at least one
// line pointing at any of the given accounts.
func (r *PgxJournalRepository) ListEntryIDsReferencingAccounts(ctx context.Context, accountIDs []string) ([]string, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT DISTINCT entry_id
		FROM journal_lines
		WHERE account_id = ANY($1);
	`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries referencing accounts: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan entry ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry IDs: %w", err)
	}
	return ids, nil
}

// SaveEntry persists an entry and its lines in a dedicated transaction.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin entry insert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := r.SaveEntryTx(ctx, tx, entry); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// SaveEntryTx persists an entry and its lines within a caller-owned
// transaction.
func (r *PgxJournalRepository) SaveEntryTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	entryQuery := `
		INSERT INTO journal_entries (entry_id, revision, serial, entry_date, total_debit, total_credit, description, status, superseded_by, document_type, document_id, contact_id, bank_account_id, property_id, project_id, booking_id, contract_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	_, err := tx.Exec(ctx, entryQuery,
		entry.EntryID,
		entry.Revision,
		entry.Serial,
		entry.EntryDate,
		entry.TotalDebit,
		entry.TotalCredit,
		entry.Description,
		string(entry.Status),
		entry.SupersededBy,
		entry.DocumentType,
		entry.DocumentID,
		entry.ContactID,
		entry.BankAccountID,
		entry.PropertyID,
		entry.ProjectID,
		entry.BookingID,
		entry.ContractID,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry %s: %w", entry.EntryID, err)
	}
	return r.insertLinesTx(ctx, tx, entry.Lines)
}

func (r *PgxJournalRepository) insertLinesTx(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	lineQuery := `
		INSERT INTO journal_lines (line_id, entry_id, account_id, debit, credit, description)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(lineQuery, line.LineID, line.EntryID, line.AccountID, line.Debit, line.Credit, line.Description)
	}
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to insert journal line: %w", err)
		}
	}
	return br.Close()
}

// UpdateEntry replaces an entry's mutable fields and rewrites its lines.
func (r *PgxJournalRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin entry update: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		UPDATE journal_entries
		SET revision = $2, entry_date = $3, total_debit = $4, total_credit = $5, description = $6, last_updated_at = $7, last_updated_by = $8
		WHERE entry_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		entry.EntryID,
		entry.Revision,
		entry.EntryDate,
		entry.TotalDebit,
		entry.TotalCredit,
		entry.Description,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update entry %s: %w", entry.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entry.EntryID); err != nil {
		return fmt.Errorf("failed to clear lines for entry %s: %w", entry.EntryID, err)
	}
	if err := r.insertLinesTx(ctx, tx, entry.Lines); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// UpdateEntryStatus transitions an entry's status.
func (r *PgxJournalRepository) UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, entryID, string(status), updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update status of entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetSupersededBy points an entry at its replacement.
func (r *PgxJournalRepository) SetSupersededBy(ctx context.Context, entryID string, supersededBy string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET superseded_by = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, entryID, supersededBy, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to supersede entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteEntry physically removes an entry and its lines. Only the
// reconciliation sweep calls this.
func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, entryID string) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin entry delete: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entryID); err != nil {
		return fmt.Errorf("failed to delete lines of entry %s: %w", entryID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID); err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}
	return tx.Commit(ctx)
}
