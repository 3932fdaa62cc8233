package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vistamar/estate_ledger_app/internal/core/domain"
)

// EntryLineRequest is one debit or credit line of an entry being created.
// At most one of Debit/Credit may be non-zero.
type EntryLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// CrossRefsRequest carries the optional cross-references of an entry or
// document. Document type/id refs are set by the posting engine, never by
// callers.
type CrossRefsRequest struct {
	ContactID     *string `json:"contactID"`
	BankAccountID *string `json:"bankAccountID"`
	PropertyID    *string `json:"propertyID"`
	ProjectID     *string `json:"projectID"`
	BookingID     *string `json:"bookingID"`
	ContractID    *string `json:"contractID"`
}

// CreateEntryRequest defines the data needed to create a journal entry.
type CreateEntryRequest struct {
	EntryDate   time.Time          `json:"entryDate" binding:"required"`
	Description string             `json:"description" binding:"required"`
	Lines       []EntryLineRequest `json:"lines" binding:"required,min=2,dive"`
	Refs        CrossRefsRequest   `json:"refs"`
}

// UpdateEntryRequest defines the data allowed for updating an active entry.
// Nil fields are left untouched; providing Lines replaces the full line set.
type UpdateEntryRequest struct {
	EntryDate   *time.Time          `json:"entryDate"`
	Description *string             `json:"description"`
	Lines       *[]EntryLineRequest `json:"lines"`
}

// CancelEntryRequest carries the optional reason for a cancellation.
type CancelEntryRequest struct {
	Reason string `json:"reason"`
}

// SupersedeEntryRequest points an entry at its replacement.
type SupersedeEntryRequest struct {
	ReplacementID string `json:"replacementID" binding:"required"`
}

// ListEntriesParams defines query parameters for listing active entries.
type ListEntriesParams struct {
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
	ContactID     *string    `form:"contactID"`
	BankAccountID *string    `form:"bankAccountID"`
	PropertyID    *string    `form:"propertyID"`
	ProjectID     *string    `form:"projectID"`
	BookingID     *string    `form:"bookingID"`
	ContractID    *string    `form:"contractID"`
	DocumentType  *string    `form:"documentType"`
	DocumentID    *string    `form:"documentID"`
	Search        string     `form:"q"`
	Limit         int        `form:"limit,default=20"`
	NextToken     *string    `form:"nextToken"`
}

// LineResponse defines the data returned for one journal line.
type LineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID      string           `json:"entryID"`
	Revision     int              `json:"revision"`
	Serial       string           `json:"serial"`
	EntryDate    time.Time        `json:"entryDate"`
	Description  string           `json:"description"`
	Status       string           `json:"status"`
	SupersededBy *string          `json:"supersededBy,omitempty"`
	TotalDebit   decimal.Decimal  `json:"totalDebit"`
	TotalCredit  decimal.Decimal  `json:"totalCredit"`
	Lines        []LineResponse   `json:"lines,omitempty"`
	DocumentType string           `json:"documentType,omitempty"`
	DocumentID   *string          `json:"documentID,omitempty"`
	Refs         CrossRefsRequest `json:"refs"`
	CreatedAt    time.Time        `json:"createdAt"`
	CreatedBy    string           `json:"createdBy"`
}

// ListEntriesResponse wraps a page of entries.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryResponse converts a domain.JournalEntry to EntryResponse DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	lines := make([]LineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = LineResponse{
			LineID:      l.LineID,
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		}
	}
	return EntryResponse{
		EntryID:      e.EntryID,
		Revision:     e.Revision,
		Serial:       e.Serial,
		EntryDate:    e.EntryDate,
		Description:  e.Description,
		Status:       string(e.Status),
		SupersededBy: e.SupersededBy,
		TotalDebit:   e.TotalDebit,
		TotalCredit:  e.TotalCredit,
		Lines:        lines,
		DocumentType: e.DocumentType,
		DocumentID:   e.DocumentID,
		Refs:         ToCrossRefsRequest(e.CrossRefs),
		CreatedAt:    e.CreatedAt,
		CreatedBy:    e.CreatedBy,
	}
}

// ToCrossRefs converts the request refs to the domain representation.
func (r CrossRefsRequest) ToCrossRefs() domain.CrossRefs {
	return domain.CrossRefs{
		ContactID:     r.ContactID,
		BankAccountID: r.BankAccountID,
		PropertyID:    r.PropertyID,
		ProjectID:     r.ProjectID,
		BookingID:     r.BookingID,
		ContractID:    r.ContractID,
	}
}

// ToCrossRefsRequest converts domain cross-references to the DTO shape.
func ToCrossRefsRequest(refs domain.CrossRefs) CrossRefsRequest {
	return CrossRefsRequest{
		ContactID:     refs.ContactID,
		BankAccountID: refs.BankAccountID,
		PropertyID:    refs.PropertyID,
		ProjectID:     refs.ProjectID,
		BookingID:     refs.BookingID,
		ContractID:    refs.ContractID,
	}
}
