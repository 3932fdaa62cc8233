package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType classifies a business document for posting purposes.
type DocumentType string

const (
	DocReceipt         DocumentType = "RECEIPT"
	DocInvoice         DocumentType = "INVOICE"
	DocPurchaseInvoice DocumentType = "PURCHASE_INVOICE"
	DocPayment         DocumentType = "PAYMENT"
	DocDeposit         DocumentType = "DEPOSIT"
	DocCreditNote      DocumentType = "CREDIT_NOTE"
	DocDebitNote       DocumentType = "DEBIT_NOTE"
	DocJournal         DocumentType = "JOURNAL"
	DocQuote           DocumentType = "QUOTE"
	DocPurchaseOrder   DocumentType = "PURCHASE_ORDER"
	DocOther           DocumentType = "OTHER"
)

// DocumentStatus tracks a document through its lifecycle.
type DocumentStatus string

const (
	DocDraft     DocumentStatus = "DRAFT"
	DocPending   DocumentStatus = "PENDING"
	DocApproved  DocumentStatus = "APPROVED"
	DocPaid      DocumentStatus = "PAID"
	DocCancelled DocumentStatus = "CANCELLED"
)

// PaymentMethod distinguishes cash handling from bank transfers when
// resolving posting rules.
type PaymentMethod string

const (
	PayCash PaymentMethod = "CASH"
	PayBank PaymentMethod = "BANK"
)

// DocumentLineItem is an optional itemization row on a document.
type DocumentLineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
	AccountID   *string         `json:"accountID"` // Optional explicit target account
}

// AccountingDocument is a business document (receipt, invoice, payment, ...)
// produced by external workflows and consumed by the posting engine.
// A document has at most one active journal entry; JournalEntryID is set
// only once posting succeeds.
type AccountingDocument struct {
	DocumentID     string             `json:"documentID"` // Primary Key (UUID)
	Serial         string             `json:"serial"`     // e.g. "INV-2025-0003", unique per type per year
	DocumentType   DocumentType       `json:"documentType"`
	Status         DocumentStatus     `json:"status"`
	DocumentDate   time.Time          `json:"documentDate"`
	DueDate        *time.Time         `json:"dueDate"`
	Amount         decimal.Decimal    `json:"amount"` // Net amount, excluding VAT
	CurrencyCode   string             `json:"currencyCode"`
	VATRate        decimal.Decimal    `json:"vatRate"`
	VATAmount      decimal.Decimal    `json:"vatAmount"`
	TotalAmount    decimal.Decimal    `json:"totalAmount"` // Amount + VATAmount
	LineItems      []DocumentLineItem `json:"lineItems,omitempty"`
	JournalEntryID *string            `json:"journalEntryID"`
	PaymentMethod  PaymentMethod      `json:"paymentMethod"`
	PaymentRef     string             `json:"paymentRef"`
	Notes          string             `json:"notes"`
	CrossRefs
	AuditFields
}

// IsPostable reports whether the document's status makes it eligible for
// posting to the journal.
func (d *AccountingDocument) IsPostable() bool {
	return d.Status == DocApproved || d.Status == DocPaid
}

// ReconcileSummary is the result of one reconciliation sweep.
type ReconcileSummary struct {
	Posted   int      `json:"posted"`   // Documents posted during the sweep
	Repaired int      `json:"repaired"` // Broken entries removed and links cleared
	Failed   int      `json:"failed"`   // Documents that still cannot post
	Errors   []string `json:"errors,omitempty"`
}
