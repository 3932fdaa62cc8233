package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	EntryApproved  EntryStatus = "APPROVED"
	EntryCancelled EntryStatus = "CANCELLED"
)

// JournalLine represents a single debit or credit against one account.
// At most one of Debit/Credit is non-zero; lines with both zero are dropped
// before validation.
type JournalLine struct {
	LineID      string          `json:"lineID"`  // Primary Key (UUID)
	EntryID     string          `json:"entryID"` // FK -> JournalEntry.EntryID
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"` // Nullable
}

// CrossRefs carries optional cross-references back to the business objects
// that produced an entry or document.
type CrossRefs struct {
	ContactID     *string `json:"contactID"`
	BankAccountID *string `json:"bankAccountID"` // Absent means the cash control account
	PropertyID    *string `json:"propertyID"`
	ProjectID     *string `json:"projectID"`
	BookingID     *string `json:"bookingID"`
	ContractID    *string `json:"contractID"`
}

// JournalEntry is the atomic unit of the ledger: a dated, balanced set of
// debit/credit lines. Entries are never physically removed; corrections
// happen by cancellation or supersession.
type JournalEntry struct {
	EntryID      string          `json:"entryID"`  // Primary Key (UUID)
	Revision     int             `json:"revision"` // Incremented on every update
	Serial       string          `json:"serial"`   // e.g. "JRN-2025-0007", unique per calendar year
	EntryDate    time.Time       `json:"entryDate"`
	Lines        []JournalLine   `json:"lines,omitempty"`
	TotalDebit   decimal.Decimal `json:"totalDebit"`
	TotalCredit  decimal.Decimal `json:"totalCredit"`
	Description  string          `json:"description"`
	Status       EntryStatus     `json:"status"`
	SupersededBy *string         `json:"supersededBy"` // Points at the replacing entry, if any
	DocumentType string          `json:"documentType"` // Type of the source document, if posted from one
	DocumentID   *string         `json:"documentID"`   // Source document, if posted from one
	CrossRefs
	AuditFields
}

// IsActive reports whether the entry participates in aggregations.
// Cancelled and superseded entries are excluded from every report.
func (e *JournalEntry) IsActive() bool {
	return e.Status == EntryApproved && e.SupersededBy == nil
}
