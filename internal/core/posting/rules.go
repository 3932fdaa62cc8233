// Package posting converts business documents into balanced journal lines.
// It is a pure transform: no storage access, no side effects. Callers resolve
// canonical accounts by code and pass them in.
package posting

import (
	"github.com/shopspring/decimal"

	"github.com/vistamar/estate_ledger_app/internal/apperrors"
	"github.com/vistamar/estate_ledger_app/internal/core/domain"
)

// Canonical account codes the rules resolve against. These match the seeded
// chart of accounts.
const (
	CodeCash             = "1000"
	CodeBank             = "1100"
	CodeReceivables      = "1200"
	CodePayables         = "2000"
	CodeDepositLiability = "2100"
	CodeVATPayable       = "2200"
	CodeCapital          = "3000"
	CodeRetainedEarnings = "3100"
	CodeRentRevenue      = "4000"
	CodeSalesRevenue     = "4100"
	CodeOperatingExpense = "5000"
)

// GenerateLines deterministically resolves a balanced set of journal lines for
// a document, or reports why it cannot. It never returns a partially balanced
// set: on ErrNoPostingRule or ErrMissingAccount the line slice is nil and the
// caller should treat the document as "cannot post yet".
func GenerateLines(doc domain.AccountingDocument, accountsByCode map[string]domain.Account) ([]domain.JournalLine, error) {
	b := &lineBuilder{accounts: accountsByCode, memo: doc.Serial}

	total := doc.TotalAmount
	vat := doc.VATAmount
	net := total.Sub(vat)

	switch doc.DocumentType {
	case domain.DocReceipt:
		b.debit(b.moneyCode(doc), total)
		b.credit(CodeRentRevenue, net)
		b.credit(CodeVATPayable, vat)
	case domain.DocInvoice:
		b.debit(CodeReceivables, total)
		b.credit(CodeSalesRevenue, net)
		b.credit(CodeVATPayable, vat)
	case domain.DocPurchaseInvoice:
		b.debit(CodeOperatingExpense, net)
		b.debit(CodeVATPayable, vat)
		b.credit(CodePayables, total)
	case domain.DocPayment:
		b.debit(CodePayables, total)
		b.credit(b.moneyCode(doc), total)
	case domain.DocDeposit:
		b.debit(b.moneyCode(doc), total)
		b.credit(CodeDepositLiability, total)
	case domain.DocCreditNote:
		b.debit(CodeSalesRevenue, net)
		b.debit(CodeVATPayable, vat)
		b.credit(CodeReceivables, total)
	case domain.DocDebitNote:
		b.debit(CodeReceivables, total)
		b.credit(CodeSalesRevenue, net)
		b.credit(CodeVATPayable, vat)
	default:
		// JOURNAL entries are authored manually; QUOTE, PURCHASE_ORDER and
		// OTHER documents have no financial effect until converted.
		return nil, apperrors.ErrNoPostingRule
	}

	if b.err != nil {
		return nil, b.err
	}
	return b.lines, nil
}

// moneyCode picks the money-side account for a document based on its payment
// method. Anything that is not explicitly cash goes through the bank account.
func (b *lineBuilder) moneyCode(doc domain.AccountingDocument) string {
	if doc.PaymentMethod == domain.PayCash {
		return CodeCash
	}
	return CodeBank
}

type lineBuilder struct {
	accounts map[string]domain.Account
	memo     string
	lines    []domain.JournalLine
	err      error
}

func (b *lineBuilder) debit(code string, amount decimal.Decimal) {
	b.add(code, amount, decimal.Zero)
}

func (b *lineBuilder) credit(code string, amount decimal.Decimal) {
	b.add(code, decimal.Zero, amount)
}

func (b *lineBuilder) add(code string, debit, credit decimal.Decimal) {
	if b.err != nil {
		return
	}
	// Zero-amount lines (e.g. the VAT split of a VAT-free document) are
	// omitted rather than posted.
	if debit.IsZero() && credit.IsZero() {
		return
	}
	account, ok := b.accounts[code]
	if !ok || !account.IsActive {
		b.err = apperrors.ErrMissingAccount
		b.lines = nil
		return
	}
	b.lines = append(b.lines, domain.JournalLine{
		AccountID:   account.AccountID,
		Debit:       debit,
		Credit:      credit,
		Description: b.memo,
	})
}
