package posting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistamar/estate_ledger_app/internal/apperrors"
	"github.com/vistamar/estate_ledger_app/internal/core/domain"
	"github.com/vistamar/estate_ledger_app/internal/core/posting"
	"github.com/vistamar/estate_ledger_app/internal/utils/accounting"
)

func chartFixture() map[string]domain.Account {
	codes := map[string]domain.AccountType{
		posting.CodeCash:             domain.Asset,
		posting.CodeBank:             domain.Asset,
		posting.CodeReceivables:      domain.Asset,
		posting.CodePayables:         domain.Liability,
		posting.CodeDepositLiability: domain.Liability,
		posting.CodeVATPayable:       domain.Liability,
		posting.CodeRentRevenue:      domain.Revenue,
		posting.CodeSalesRevenue:     domain.Revenue,
		posting.CodeOperatingExpense: domain.Expense,
	}
	accounts := make(map[string]domain.Account, len(codes))
	for code, accountType := range codes {
		accounts[code] = domain.Account{
			AccountID:   "acc-" + code,
			Code:        code,
			AccountType: accountType,
			IsActive:    true,
		}
	}
	return accounts
}

func docFixture(docType domain.DocumentType, total, vat string) domain.AccountingDocument {
	return domain.AccountingDocument{
		DocumentID:   "doc-1",
		Serial:       "TST-2025-0001",
		DocumentType: docType,
		Status:       domain.DocApproved,
		TotalAmount:  decimal.RequireFromString(total),
		VATAmount:    decimal.RequireFromString(vat),
	}
}

func TestGenerateLines_RulesBalance(t *testing.T) {
	accounts := chartFixture()

	testCases := []struct {
		name      string
		docType   domain.DocumentType
		total     string
		vat       string
		wantLines int
	}{
		{"receipt with VAT", domain.DocReceipt, "121.00", "21.00", 3},
		{"receipt without VAT omits the VAT line", domain.DocReceipt, "100.00", "0", 2},
		{"invoice", domain.DocInvoice, "121.00", "21.00", 3},
		{"purchase invoice", domain.DocPurchaseInvoice, "121.00", "21.00", 3},
		{"payment", domain.DocPayment, "50.00", "0", 2},
		{"deposit", domain.DocDeposit, "500.00", "0", 2},
		{"credit note", domain.DocCreditNote, "121.00", "21.00", 3},
		{"debit note", domain.DocDebitNote, "121.00", "21.00", 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := docFixture(tc.docType, tc.total, tc.vat)
			lines, err := posting.GenerateLines(doc, accounts)
			require.NoError(t, err)
			assert.Len(t, lines, tc.wantLines)
			assert.True(t, accounting.IsBalanced(lines), "generated lines must balance")

			totalDebit, _ := accounting.SumLines(lines)
			assert.True(t, totalDebit.Equal(decimal.RequireFromString(tc.total)),
				"each side must sum to the document total, got %s", totalDebit)
			for _, l := range lines {
				assert.Equal(t, doc.Serial, l.Description, "lines carry the document serial as memo")
			}
		})
	}
}

func TestGenerateLines_MoneySide(t *testing.T) {
	accounts := chartFixture()

	t.Run("cash receipt debits the cash account", func(t *testing.T) {
		doc := docFixture(domain.DocReceipt, "100.00", "0")
		doc.PaymentMethod = domain.PayCash
		lines, err := posting.GenerateLines(doc, accounts)
		require.NoError(t, err)
		assert.Equal(t, "acc-"+posting.CodeCash, lines[0].AccountID)
	})

	t.Run("bank receipt debits the bank account", func(t *testing.T) {
		doc := docFixture(domain.DocReceipt, "100.00", "0")
		doc.PaymentMethod = domain.PayBank
		lines, err := posting.GenerateLines(doc, accounts)
		require.NoError(t, err)
		assert.Equal(t, "acc-"+posting.CodeBank, lines[0].AccountID)
	})

	t.Run("unspecified method defaults to bank", func(t *testing.T) {
		doc := docFixture(domain.DocDeposit, "500.00", "0")
		lines, err := posting.GenerateLines(doc, accounts)
		require.NoError(t, err)
		assert.Equal(t, "acc-"+posting.CodeBank, lines[0].AccountID)
	})
}

func TestGenerateLines_NonFinancialDocuments(t *testing.T) {
	accounts := chartFixture()
	for _, docType := range []domain.DocumentType{domain.DocJournal, domain.DocQuote, domain.DocPurchaseOrder, domain.DocOther} {
		doc := docFixture(docType, "100.00", "0")
		lines, err := posting.GenerateLines(doc, accounts)
		assert.ErrorIs(t, err, apperrors.ErrNoPostingRule, "%s has no posting rule", docType)
		assert.Nil(t, lines)
	}
}

func TestGenerateLines_MissingAccount(t *testing.T) {
	t.Run("absent account", func(t *testing.T) {
		accounts := chartFixture()
		delete(accounts, posting.CodeRentRevenue)
		doc := docFixture(domain.DocReceipt, "100.00", "0")
		lines, err := posting.GenerateLines(doc, accounts)
		assert.ErrorIs(t, err, apperrors.ErrMissingAccount)
		assert.Nil(t, lines, "no partial line set on failure")
	})

	t.Run("deactivated account", func(t *testing.T) {
		accounts := chartFixture()
		acc := accounts[posting.CodePayables]
		acc.IsActive = false
		accounts[posting.CodePayables] = acc
		doc := docFixture(domain.DocPayment, "50.00", "0")
		lines, err := posting.GenerateLines(doc, accounts)
		assert.ErrorIs(t, err, apperrors.ErrMissingAccount)
		assert.Nil(t, lines)
	})
}
