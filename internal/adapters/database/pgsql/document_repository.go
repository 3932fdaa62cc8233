package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vistamar/estate_ledger_app/internal/apperrors"
	"github.com/vistamar/estate_ledger_app/internal/core/domain"
	portsrepo "github.com/vistamar/estate_ledger_app/internal/core/ports/repositories"
	"github.com/vistamar/estate_ledger_app/internal/models"
	"github.com/vistamar/estate_ledger_app/internal/utils/pagination"
)

const documentColumns = `d.document_id, d.serial, d.document_type, d.status, d.document_date, d.due_date, d.amount, d.currency_code, d.vat_rate, d.vat_amount, d.total_amount, d.line_items, d.journal_entry_id, d.payment_method, d.payment_ref, d.notes, d.contact_id, d.bank_account_id, d.property_id, d.project_id, d.booking_id, d.contract_id, d.created_at, d.created_by, d.last_updated_at, d.last_updated_by`

type PgxDocumentRepository struct {
	BaseRepository
}

// newPgxDocumentRepository creates a new repository for document data.
func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryWithTx {
	return &PgxDocumentRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.DocumentRepositoryWithTx = (*PgxDocumentRepository)(nil)

func toModelDocument(d domain.AccountingDocument) (models.AccountingDocument, error) {
	var lineItems json.RawMessage
	if len(d.LineItems) > 0 {
		raw, err := json.Marshal(d.LineItems)
		if err != nil {
			return models.AccountingDocument{}, fmt.Errorf("failed to marshal line items of %s: %w", d.DocumentID, err)
		}
		lineItems = raw
	}
	return models.AccountingDocument{
		DocumentID:     d.DocumentID,
		Serial:         d.Serial,
		DocumentType:   string(d.DocumentType),
		Status:         string(d.Status),
		DocumentDate:   d.DocumentDate,
		DueDate:        d.DueDate,
		Amount:         d.Amount,
		CurrencyCode:   d.CurrencyCode,
		VATRate:        d.VATRate,
		VATAmount:      d.VATAmount,
		TotalAmount:    d.TotalAmount,
		LineItems:      lineItems,
		JournalEntryID: d.JournalEntryID,
		PaymentMethod:  string(d.PaymentMethod),
		PaymentRef:     d.PaymentRef,
		Notes:          d.Notes,
		CrossRefs: models.CrossRefs{
			ContactID:     d.ContactID,
			BankAccountID: d.BankAccountID,
			PropertyID:    d.PropertyID,
			ProjectID:     d.ProjectID,
			BookingID:     d.BookingID,
			ContractID:    d.ContractID,
		},
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}, nil
}

func toDomainDocument(m models.AccountingDocument) (domain.AccountingDocument, error) {
	var lineItems []domain.DocumentLineItem
	if len(m.LineItems) > 0 {
		if err := json.Unmarshal(m.LineItems, &lineItems); err != nil {
			return domain.AccountingDocument{}, fmt.Errorf("failed to unmarshal line items of %s: %w", m.DocumentID, err)
		}
	}
	return domain.AccountingDocument{
		DocumentID:     m.DocumentID,
		Serial:         m.Serial,
		DocumentType:   domain.DocumentType(m.DocumentType),
		Status:         domain.DocumentStatus(m.Status),
		DocumentDate:   m.DocumentDate,
		DueDate:        m.DueDate,
		Amount:         m.Amount,
		CurrencyCode:   m.CurrencyCode,
		VATRate:        m.VATRate,
		VATAmount:      m.VATAmount,
		TotalAmount:    m.TotalAmount,
		LineItems:      lineItems,
		JournalEntryID: m.JournalEntryID,
		PaymentMethod:  domain.PaymentMethod(m.PaymentMethod),
		PaymentRef:     m.PaymentRef,
		Notes:          m.Notes,
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
	}, nil
}

func scanDocument(row pgx.Row) (models.AccountingDocument, error) {
	var m models.AccountingDocument
	err := row.Scan(
		&m.DocumentID,
		&m.Serial,
		&m.DocumentType,
		&m.Status,
		&m.DocumentDate,
		&m.DueDate,
		&m.Amount,
		&m.CurrencyCode,
		&m.VATRate,
		&m.VATAmount,
		&m.TotalAmount,
		&m.LineItems,
		&m.JournalEntryID,
		&m.PaymentMethod,
		&m.PaymentRef,
		&m.Notes,
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

// SaveDocument inserts a new document.
func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, doc domain.AccountingDocument) error {
	m, err := toModelDocument(doc)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO documents (document_id, serial, document_type, status, document_date, due_date, amount, currency_code, vat_rate, vat_amount, total_amount, line_items, journal_entry_id, payment_method, payment_ref, notes, contact_id, bank_account_id, property_id, project_id, booking_id, contract_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.DocumentID, m.Serial, m.DocumentType, m.Status, m.DocumentDate, m.DueDate,
		m.Amount, m.CurrencyCode, m.VATRate, m.VATAmount, m.TotalAmount, m.LineItems,
		m.JournalEntryID, m.PaymentMethod, m.PaymentRef, m.Notes,
		m.ContactID, m.BankAccountID, m.PropertyID, m.ProjectID, m.BookingID, m.ContractID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: document serial %s already exists", apperrors.ErrDuplicate, m.Serial)
		}
		return fmt.Errorf("failed to save document %s: %w", m.DocumentID, err)
	}
	return nil
}

// FindDocumentByID retrieves a document by its ID.
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.AccountingDocument, error) {
	query := fmt.Sprintf(`SELECT %s FROM documents d WHERE d.document_id = $1;`, documentColumns)

	m, err := scanDocument(r.Pool.QueryRow(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find document by ID %s: %w", documentID, err)
	}
	doc, err := toDomainDocument(m)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocuments retrieves documents matching the filter, newest first, using
// token-based pagination over (document_date, created_at).
func (r *PgxDocumentRepository) ListDocuments(ctx context.Context, filter portsrepo.DocumentFilter) ([]domain.AccountingDocument, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`SELECT %s FROM documents d WHERE TRUE`, documentColumns)
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.DocumentType != nil {
		query += fmt.Sprintf(" AND d.document_type = %s", arg(*filter.DocumentType))
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND d.status = %s", arg(*filter.Status))
	}
	if filter.DateFrom != nil {
		query += fmt.Sprintf(" AND d.document_date >= %s", arg(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		query += fmt.Sprintf(" AND d.document_date <= %s", arg(*filter.DateTo))
	}
	if filter.ContactID != nil {
		query += fmt.Sprintf(" AND d.contact_id = %s", arg(*filter.ContactID))
	}
	if filter.PropertyID != nil {
		query += fmt.Sprintf(" AND d.property_id = %s", arg(*filter.PropertyID))
	}
	if filter.BookingID != nil {
		query += fmt.Sprintf(" AND d.booking_id = %s", arg(*filter.BookingID))
	}
	if filter.Search != "" {
		placeholder := arg("%" + filter.Search + "%")
		query += fmt.Sprintf(" AND (d.serial ILIKE %s OR d.notes ILIKE %s)", placeholder, placeholder)
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*filter.NextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		query += fmt.Sprintf(" AND (d.document_date, d.created_at) < (%s, %s)", arg(lastDate), arg(lastCreatedAt))
	}

	query += fmt.Sprintf(" ORDER BY d.document_date DESC, d.created_at DESC LIMIT %s;", arg(limit+1))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	docs := []domain.AccountingDocument{}
	for rows.Next() {
		m, err := scanDocument(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		doc, err := toDomainDocument(m)
		if err != nil {
			return nil, nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating document rows: %w", err)
	}

	var nextToken *string
	if len(docs) > limit {
		docs = docs[:limit]
		last := docs[len(docs)-1]
		token := pagination.EncodeToken(last.DocumentDate, last.CreatedAt)
		nextToken = &token
	}
	return docs, nextToken, nil
}

// ListUnpostedPostable retrieves APPROVED/PAID documents without a journal
// link, oldest first. This is the reconciliation backlog.
func (r *PgxDocumentRepository) ListUnpostedPostable(ctx context.Context) ([]domain.AccountingDocument, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM documents d
		WHERE d.status IN ('APPROVED', 'PAID') AND d.journal_entry_id IS NULL
		ORDER BY d.document_date, d.created_at;
	`, documentColumns)

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query unposted documents: %w", err)
	}
	defer rows.Close()

	docs := []domain.AccountingDocument{}
	for rows.Next() {
		m, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unposted document row: %w", err)
		}
		doc, err := toDomainDocument(m)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unposted document rows: %w", err)
	}
	return docs, nil
}

// FindDocumentsByEntryIDs retrieves documents keyed by their linked entry ID.
func (r *PgxDocumentRepository) FindDocumentsByEntryIDs(ctx context.Context, entryIDs []string) (map[string]domain.AccountingDocument, error) {
	if len(entryIDs) == 0 {
		return map[string]domain.AccountingDocument{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM documents d WHERE d.journal_entry_id = ANY($1);`, documentColumns)
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents by entry IDs: %w", err)
	}
	defer rows.Close()

	docsByEntry := make(map[string]domain.AccountingDocument)
	for rows.Next() {
		m, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document row by entry ID: %w", err)
		}
		doc, err := toDomainDocument(m)
		if err != nil {
			return nil, err
		}
		if doc.JournalEntryID != nil {
			docsByEntry[*doc.JournalEntryID] = doc
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents by entry ID: %w", err)
	}
	return docsByEntry, nil
}

// UpdateDocument updates a document's mutable fields.
func (r *PgxDocumentRepository) UpdateDocument(ctx context.Context, doc domain.AccountingDocument) error {
	m, err := toModelDocument(doc)
	if err != nil {
		return err
	}

	query := `
		UPDATE documents
		SET status = $2, due_date = $3, notes = $4, payment_method = $5, payment_ref = $6, last_updated_at = $7, last_updated_by = $8
		WHERE document_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.DocumentID, m.Status, m.DueDate, m.Notes, m.PaymentMethod, m.PaymentRef,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update document %s: %w", m.DocumentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// LinkJournalEntryTx sets the document's journal link within a caller-owned
// transaction.
func (r *PgxDocumentRepository) LinkJournalEntryTx(ctx context.Context, tx pgx.Tx, documentID string, entryID string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE documents
		SET journal_entry_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE document_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, documentID, entryID, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to link entry %s to document %s: %w", entryID, documentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ClearJournalLink removes a document's journal link.
func (r *PgxDocumentRepository) ClearJournalLink(ctx context.Context, documentID string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE documents
		SET journal_entry_id = NULL, last_updated_at = $2, last_updated_by = $3
		WHERE document_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, documentID, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to clear journal link of document %s: %w", documentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
