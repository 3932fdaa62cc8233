package accounting

import (
	"github.com/shopspring/decimal"

	"github.com/vistamar/estate_ledger_app/internal/core/domain"
)

// BalanceTolerance is the maximum permitted difference between total debits
// and total credits of an accepted journal entry.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// SumLines returns the total debit and total credit across a set of lines.
func SumLines(lines []domain.JournalLine) (decimal.Decimal, decimal.Decimal) {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range lines {
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}
	return totalDebit, totalCredit
}

// IsBalanced reports whether total debits equal total credits within tolerance.
func IsBalanced(lines []domain.JournalLine) bool {
	totalDebit, totalCredit := SumLines(lines)
	return totalDebit.Sub(totalCredit).Abs().LessThanOrEqual(BalanceTolerance)
}

// NormalizeLines drops lines where both debit and credit are zero. Such lines
// carry no accounting meaning and are omitted before validation.
func NormalizeLines(lines []domain.JournalLine) []domain.JournalLine {
	normalized := make([]domain.JournalLine, 0, len(lines))
	for _, line := range lines {
		if line.Debit.IsZero() && line.Credit.IsZero() {
			continue
		}
		normalized = append(normalized, line)
	}
	return normalized
}

// NetBalance nets raw debit/credit totals according to the account's normal
// balance side: debit-normal accounts report debits minus credits,
// credit-normal accounts the reverse.
func NetBalance(accountType domain.AccountType, totalDebit, totalCredit decimal.Decimal) decimal.Decimal {
	if accountType.IsDebitNormal() {
		return totalDebit.Sub(totalCredit)
	}
	return totalCredit.Sub(totalDebit)
}
