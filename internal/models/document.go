package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// AccountingDocument is the persisted form of a business document. Line
// items are stored as a JSONB blob; they are advisory itemization, never
// queried relationally.
type AccountingDocument struct {
	DocumentID     string          `db:"document_id"`
	Serial         string          `db:"serial"`
	DocumentType   string          `db:"document_type"`
	Status         string          `db:"status"`
	DocumentDate   time.Time       `db:"document_date"`
	DueDate        *time.Time      `db:"due_date"` // Nullable
	Amount         decimal.Decimal `db:"amount"`
	CurrencyCode   string          `db:"currency_code"`
	VATRate        decimal.Decimal `db:"vat_rate"`
	VATAmount      decimal.Decimal `db:"vat_amount"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	LineItems      json.RawMessage `db:"line_items"`       // JSONB, nullable
	JournalEntryID *string         `db:"journal_entry_id"` // Nullable, set on successful posting
	PaymentMethod  string          `db:"payment_method"`
	PaymentRef     string          `db:"payment_ref"`
	Notes          string          `db:"notes"`
	CrossRefs
	AuditFields
}
