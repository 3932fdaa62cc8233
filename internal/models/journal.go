package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the persisted form of an entry header.
type JournalEntry struct {
	EntryID      string          `db:"entry_id"`
	Revision     int             `db:"revision"`
	Serial       string          `db:"serial"`
	EntryDate    time.Time       `db:"entry_date"`
	TotalDebit   decimal.Decimal `db:"total_debit"`
	TotalCredit  decimal.Decimal `db:"total_credit"`
	Description  string          `db:"description"`
	Status       string          `db:"status"`
	SupersededBy *string         `db:"superseded_by"` // Nullable
	DocumentType string          `db:"document_type"` // Empty for manual entries
	DocumentID   *string         `db:"document_id"`   // Nullable
	CrossRefs
	AuditFields
}

// JournalLine is the persisted form of one debit/credit line.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	AccountID   string          `db:"account_id"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Description string          `db:"description"`
}

// CrossRefs holds the nullable business cross-reference columns shared by
// entries and documents.
type CrossRefs struct {
	ContactID     *string `db:"contact_id"`
	BankAccountID *string `db:"bank_account_id"`
	PropertyID    *string `db:"property_id"`
	ProjectID     *string `db:"project_id"`
	BookingID     *string `db:"booking_id"`
	ContractID    *string `db:"contract_id"`
}
