package dto

import "time"

// ReportRangeParams defines the date range of period-scoped reports.
type ReportRangeParams struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// AsOfParams defines the cut-off date of point-in-time reports.
type AsOfParams struct {
	AsOf *time.Time `form:"asOf" time_format:"2006-01-02"`
}

// BankLedgerParams selects the money-side scope of the bank/cash ledger.
// An absent bankAccountID denotes the cash control account.
type BankLedgerParams struct {
	BankAccountID *string    `form:"bankAccountID"`
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
}

// SuggestParams feeds the advisory account classifier.
type SuggestParams struct {
	Description string `form:"description" binding:"required"`
}

// SuggestLinesParams feeds the advisory line drafter.
type SuggestLinesParams struct {
	Description string `form:"description" binding:"required"`
	Amount      string `form:"amount" binding:"required"`
}
