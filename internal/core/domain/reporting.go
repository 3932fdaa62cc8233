package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single account row in a trial balance report.
// Exactly one of Debit/Credit is non-zero after normal-balance netting.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport lists per-account net activity over a period. The sum of
// the debit column always equals the sum of the credit column.
type TrialBalanceReport struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// LedgerLine is one chronological movement on an account, with the running
// balance after the movement.
type LedgerLine struct {
	EntryID     string          `json:"entryID"`
	Serial      string          `json:"serial"`
	EntryDate   time.Time       `json:"entryDate"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// AccountLedger is the chronological line list for a single account.
type AccountLedger struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Lines       []LedgerLine    `json:"lines"`
	Balance     decimal.Decimal `json:"balance"` // Closing balance, normal-balance netted
}

// AccountAmount represents an account with its net amount for a report section.
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// IncomeStatementReport nets REVENUE and EXPENSE accounts over a period.
type IncomeStatementReport struct {
	Revenue      []AccountAmount `json:"revenue"`
	Expenses     []AccountAmount `json:"expenses"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetIncome    decimal.Decimal `json:"netIncome"` // TotalRevenue - TotalExpense
}

// BalanceSheetReport nets ASSET/LIABILITY/EQUITY accounts as of a date.
// NetIncomeToDate is the current fiscal year's computed net income, folded
// into equity as an implicit retained-earnings adjustment; it is never
// persisted. TotalAssets == TotalLiabilities + TotalEquity must hold, where
// TotalEquity already includes NetIncomeToDate.
type BalanceSheetReport struct {
	AsOf             time.Time       `json:"asOf"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	NetIncomeToDate  decimal.Decimal `json:"netIncomeToDate"`
}

// CashFlowReport is a deliberately simplified indirect-method approximation:
// operating cash flow equals net income, investing and financing are fixed at
// zero. Completing the derivation is a product decision, not a bug fix.
type CashFlowReport struct {
	NetIncome    decimal.Decimal `json:"netIncome"`
	Operating    decimal.Decimal `json:"operating"`
	Investing    decimal.Decimal `json:"investing"`
	Financing    decimal.Decimal `json:"financing"`
	NetCashFlow  decimal.Decimal `json:"netCashFlow"`
	Simplified   bool            `json:"simplified"` // Always true for this method
}

// AccountSuggestion is an advisory classifier result; it is never applied
// automatically.
type AccountSuggestion struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Confidence  decimal.Decimal `json:"confidence"`
	Matched     string          `json:"matched"` // Keyword that produced the match
}

// Anomaly flags a ledger condition worth a human look.
type Anomaly struct {
	Kind        string `json:"kind"` // e.g. "ABNORMAL_BALANCE", "UNPOSTED_DOCUMENT"
	EntityType  string `json:"entityType"`
	EntityID    string `json:"entityID"`
	Description string `json:"description"`
}
