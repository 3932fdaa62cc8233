package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vistamar/estate_ledger_app/internal/core/domain"
)

// DocumentLineItemRequest is one optional itemization row of a document.
type DocumentLineItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
	AccountID   *string         `json:"accountID"`
}

// CreateDocumentRequest defines the data needed to record a business document.
// Documents with status APPROVED or PAID are posted synchronously on create.
type CreateDocumentRequest struct {
	DocumentType  domain.DocumentType       `json:"documentType" binding:"required,oneof=RECEIPT INVOICE PURCHASE_INVOICE PAYMENT DEPOSIT CREDIT_NOTE DEBIT_NOTE JOURNAL QUOTE PURCHASE_ORDER OTHER"`
	Status        domain.DocumentStatus     `json:"status" binding:"required,oneof=DRAFT PENDING APPROVED PAID"`
	DocumentDate  time.Time                 `json:"documentDate" binding:"required"`
	DueDate       *time.Time                `json:"dueDate"`
	Amount        decimal.Decimal           `json:"amount"`
	CurrencyCode  string                    `json:"currencyCode"`
	VATRate       decimal.Decimal           `json:"vatRate"`
	VATAmount     decimal.Decimal           `json:"vatAmount"`
	TotalAmount   decimal.Decimal           `json:"totalAmount"`
	LineItems     []DocumentLineItemRequest `json:"lineItems" binding:"omitempty,dive"`
	PaymentMethod domain.PaymentMethod      `json:"paymentMethod" binding:"omitempty,oneof=CASH BANK"`
	PaymentRef    string                    `json:"paymentRef"`
	Notes         string                    `json:"notes"`
	Refs          CrossRefsRequest          `json:"refs"`
}

// UpdateDocumentStatusRequest transitions a document through its lifecycle.
type UpdateDocumentStatusRequest struct {
	Status domain.DocumentStatus `json:"status" binding:"required,oneof=DRAFT PENDING APPROVED PAID CANCELLED"`
	Reason string                `json:"reason"`
}

// ListDocumentsParams defines query parameters for listing documents.
type ListDocumentsParams struct {
	DocumentType *string    `form:"documentType"`
	Status       *string    `form:"status"`
	From         *time.Time `form:"from" time_format:"2006-01-02"`
	To           *time.Time `form:"to" time_format:"2006-01-02"`
	ContactID    *string    `form:"contactID"`
	PropertyID   *string    `form:"propertyID"`
	BookingID    *string    `form:"bookingID"`
	Search       string     `form:"q"`
	Limit        int        `form:"limit,default=20"`
	NextToken    *string    `form:"nextToken"`
}

// DocumentResponse defines the data returned for a document.
type DocumentResponse struct {
	DocumentID     string                `json:"documentID"`
	Serial         string                `json:"serial"`
	DocumentType   domain.DocumentType   `json:"documentType"`
	Status         domain.DocumentStatus `json:"status"`
	DocumentDate   time.Time             `json:"documentDate"`
	DueDate        *time.Time            `json:"dueDate,omitempty"`
	Amount         decimal.Decimal       `json:"amount"`
	CurrencyCode   string                `json:"currencyCode"`
	VATRate        decimal.Decimal       `json:"vatRate"`
	VATAmount      decimal.Decimal       `json:"vatAmount"`
	TotalAmount    decimal.Decimal       `json:"totalAmount"`
	JournalEntryID *string               `json:"journalEntryID,omitempty"`
	PaymentMethod  domain.PaymentMethod  `json:"paymentMethod"`
	PaymentRef     string                `json:"paymentRef"`
	Notes          string                `json:"notes"`
	Refs           CrossRefsRequest      `json:"refs"`
	CreatedAt      time.Time             `json:"createdAt"`
	CreatedBy      string                `json:"createdBy"`
}

// ListDocumentsResponse wraps a page of documents.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToDocumentResponse converts a domain.AccountingDocument to its DTO.
func ToDocumentResponse(d *domain.AccountingDocument) DocumentResponse {
	return DocumentResponse{
		DocumentID:     d.DocumentID,
		Serial:         d.Serial,
		DocumentType:   d.DocumentType,
		Status:         d.Status,
		DocumentDate:   d.DocumentDate,
		DueDate:        d.DueDate,
		Amount:         d.Amount,
		CurrencyCode:   d.CurrencyCode,
		VATRate:        d.VATRate,
		VATAmount:      d.VATAmount,
		TotalAmount:    d.TotalAmount,
		JournalEntryID: d.JournalEntryID,
		PaymentMethod:  d.PaymentMethod,
		PaymentRef:     d.PaymentRef,
		Notes:          d.Notes,
		Refs:           ToCrossRefsRequest(d.CrossRefs),
		CreatedAt:      d.CreatedAt,
		CreatedBy:      d.CreatedBy,
	}
}

// ToListDocumentsResponse converts a page of documents plus its token.
func ToListDocumentsResponse(docs []domain.AccountingDocument, nextToken *string) ListDocumentsResponse {
	res := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		res[i] = ToDocumentResponse(&d)
	}
	return ListDocumentsResponse{Documents: res, NextToken: nextToken}
}
