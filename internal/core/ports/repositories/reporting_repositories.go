package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vistamar/estate_ledger_app/internal/core/domain"
)

// RawAccountActivity is an account's gross debit/credit totals before
// normal-balance netting.
type RawAccountActivity struct {
	AccountID   string
	AccountCode string
	AccountName string
	AccountType domain.AccountType
	SortOrder   int
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// ReportingRepository defines the aggregation queries behind financial
// reports. Every query reads only active entries (approved, not superseded)
// and recomputes from the full log: no materialized balances exist anywhere.
type ReportingRepository interface {
	// GetAccountActivity aggregates gross debit/credit per account over a
	// date range. Zero-activity accounts are not returned.
	GetAccountActivity(ctx context.Context, from, to *time.Time) ([]RawAccountActivity, error)

	// GetSingleAccountActivity aggregates one account's gross totals up to an
	// optional cut-off date.
	GetSingleAccountActivity(ctx context.Context, accountID string, asOf *time.Time) (*RawAccountActivity, error)

	// GetLedgerLines retrieves one account's movements chronologically
	// ascending within a date range, without running balances.
	GetLedgerLines(ctx context.Context, accountID string, from, to *time.Time) ([]domain.LedgerLine, error)

	// GetBankCashLines retrieves money-side movements keyed by the entries'
	// bank-account cross-reference. A nil bankAccountID selects entries with
	// no bank reference, which denotes the cash control account.
	GetBankCashLines(ctx context.Context, bankAccountID *string, from, to *time.Time) ([]domain.LedgerLine, error)
}
