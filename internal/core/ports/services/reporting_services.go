package services

import (
	"context"
	"time"

	"github.com/vistamar/estate_ledger_app/internal/core/domain"
)

// ReportingSvcFacade defines the financial report derivations. Every report
// recomputes from the full active-entry log on each call; nothing is cached.
type ReportingSvcFacade interface {
	// TrialBalance reports per-account net debit/credit over a range,
	// normal-balance aware, omitting zero-activity accounts, sorted by code.
	TrialBalance(ctx context.Context, from, to *time.Time) (*domain.TrialBalanceReport, error)

	// AccountLedger reports one account's chronological movements with a
	// running balance.
	AccountLedger(ctx context.Context, accountID string, from, to *time.Time) (*domain.AccountLedger, error)

	// BankOrCashLedger reports money-side movements for one bank account, or
	// for the cash control account when bankAccountID is nil.
	BankOrCashLedger(ctx context.Context, bankAccountID *string, from, to *time.Time) (*domain.AccountLedger, error)

	// IncomeStatement nets REVENUE and EXPENSE accounts over a range.
	IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatementReport, error)

	// BalanceSheet nets ASSET/LIABILITY/EQUITY accounts as of a date, folding
	// the fiscal year's net income into equity.
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error)

	// CashFlow derives the simplified indirect-method cash flow statement.
	CashFlow(ctx context.Context, from, to time.Time) (*domain.CashFlowReport, error)
}

// AdvisorSvcFacade groups the advisory heuristic classifiers. Advisory only:
// results are never applied automatically, and posting never depends on them.
type AdvisorSvcFacade interface {
	// SuggestAccount proposes accounts for a free-text description.
	SuggestAccount(ctx context.Context, description string) ([]domain.AccountSuggestion, error)

	// SuggestLines proposes a balanced line pair for a description + amount.
	SuggestLines(ctx context.Context, description string, amount string) ([]domain.JournalLine, error)

	// DetectAnomalies flags accounts with abnormal balances and documents
	// stuck before posting.
	DetectAnomalies(ctx context.Context) ([]domain.Anomaly, error)
}
