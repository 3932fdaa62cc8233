package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vistamar/estate_ledger_app/internal/apperrors"
	"github.com/vistamar/estate_ledger_app/internal/core/domain"
	"github.com/vistamar/estate_ledger_app/internal/core/posting"
	portsrepo "github.com/vistamar/estate_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/vistamar/estate_ledger_app/internal/core/ports/services"
	"github.com/vistamar/estate_ledger_app/internal/utils/accounting"
)

// reportingService derives financial reports. Every call recomputes from the
// full active-entry log; no balances are materialized anywhere.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountRepositoryFacade
}

// NewReportingService creates a new reporting engine service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, accountRepo portsrepo.AccountRepositoryFacade) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo, accountRepo: accountRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// TrialBalance nets each account's activity to its normal side. An account
// whose net lands on the abnormal side shows in the opposite column, so the
// two column totals always match.
func (s *reportingService) TrialBalance(ctx context.Context, from, to *time.Time) (*domain.TrialBalanceReport, error) {
	activity, err := s.reportingRepo.GetAccountActivity(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &domain.TrialBalanceReport{
		Rows:        make([]domain.TrialBalanceRow, 0, len(activity)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, act := range activity {
		net := accounting.NetBalance(act.AccountType, act.TotalDebit, act.TotalCredit)
		row := domain.TrialBalanceRow{
			AccountID:   act.AccountID,
			AccountCode: act.AccountCode,
			AccountName: act.AccountName,
			AccountType: act.AccountType,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		debitSide := act.AccountType.IsDebitNormal()
		if net.IsNegative() {
			net = net.Neg()
			debitSide = !debitSide
		}
		if debitSide {
			row.Debit = net
		} else {
			row.Credit = net
		}
		report.Rows = append(report.Rows, row)
		report.TotalDebit = report.TotalDebit.Add(row.Debit)
		report.TotalCredit = report.TotalCredit.Add(row.Credit)
	}
	return report, nil
}

// AccountLedger lists one account's movements chronologically with a running
// balance. The opening balance carries all activity before the range.
func (s *reportingService) AccountLedger(ctx context.Context, accountID string, from, to *time.Time) (*domain.AccountLedger, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	lines, err := s.reportingRepo.GetLedgerLines(ctx, accountID, from, to)
	if err != nil {
		return nil, err
	}

	opening, err := s.openingBalance(ctx, account, from)
	if err != nil {
		return nil, err
	}
	balance := s.runBalance(lines, account.AccountType, opening)

	return &domain.AccountLedger{
		AccountID:   account.AccountID,
		AccountCode: account.Code,
		AccountName: account.Name,
		Lines:       lines,
		Balance:     balance,
	}, nil
}

// BankOrCashLedger lists money-side movements for one bank account, keyed by
// the entries' bank cross-reference. A nil bankAccountID selects entries with
// no bank reference, which flow through the cash control account.
func (s *reportingService) BankOrCashLedger(ctx context.Context, bankAccountID *string, from, to *time.Time) (*domain.AccountLedger, error) {
	code := posting.CodeBank
	if bankAccountID == nil {
		code = posting.CodeCash
	}
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	lines, err := s.reportingRepo.GetBankCashLines(ctx, bankAccountID, from, to)
	if err != nil {
		return nil, err
	}
	balance := s.runBalance(lines, account.AccountType, decimal.Zero)

	return &domain.AccountLedger{
		AccountID:   account.AccountID,
		AccountCode: account.Code,
		AccountName: account.Name,
		Lines:       lines,
		Balance:     balance,
	}, nil
}

// IncomeStatement nets REVENUE and EXPENSE activity over the range.
func (s *reportingService) IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatementReport, error) {
	activity, err := s.reportingRepo.GetAccountActivity(ctx, &from, &to)
	if err != nil {
		return nil, err
	}

	report := &domain.IncomeStatementReport{
		Revenue:      []domain.AccountAmount{},
		Expenses:     []domain.AccountAmount{},
		TotalRevenue: decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, act := range activity {
		net := accounting.NetBalance(act.AccountType, act.TotalDebit, act.TotalCredit)
		amount := domain.AccountAmount{
			AccountID: act.AccountID,
			Code:      act.AccountCode,
			Name:      act.AccountName,
			NetAmount: net,
		}
		switch act.AccountType {
		case domain.Revenue:
			report.Revenue = append(report.Revenue, amount)
			report.TotalRevenue = report.TotalRevenue.Add(net)
		case domain.Expense:
			report.Expenses = append(report.Expenses, amount)
			report.TotalExpense = report.TotalExpense.Add(net)
		}
	}
	report.NetIncome = report.TotalRevenue.Sub(report.TotalExpense)
	return report, nil
}

// BalanceSheet nets ASSET/LIABILITY/EQUITY balances as of a date, folding the
// fiscal year's computed net income into equity so both sides reconcile. The
// fold is derived on every call and never persisted.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	activity, err := s.reportingRepo.GetAccountActivity(ctx, nil, &asOf)
	if err != nil {
		return nil, err
	}

	report := &domain.BalanceSheetReport{
		AsOf:             asOf,
		Assets:           []domain.AccountAmount{},
		Liabilities:      []domain.AccountAmount{},
		Equity:           []domain.AccountAmount{},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	for _, act := range activity {
		net := accounting.NetBalance(act.AccountType, act.TotalDebit, act.TotalCredit)
		amount := domain.AccountAmount{
			AccountID: act.AccountID,
			Code:      act.AccountCode,
			Name:      act.AccountName,
			NetAmount: net,
		}
		switch act.AccountType {
		case domain.Asset:
			report.Assets = append(report.Assets, amount)
			report.TotalAssets = report.TotalAssets.Add(net)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, amount)
			report.TotalLiabilities = report.TotalLiabilities.Add(net)
		case domain.Equity:
			report.Equity = append(report.Equity, amount)
			report.TotalEquity = report.TotalEquity.Add(net)
		}
	}

	yearStart := time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, asOf.Location())
	income, err := s.IncomeStatement(ctx, yearStart, asOf)
	if err != nil {
		return nil, err
	}
	report.NetIncomeToDate = income.NetIncome
	report.TotalEquity = report.TotalEquity.Add(income.NetIncome)
	return report, nil
}

// CashFlow derives the deliberately simplified indirect-method statement:
// operating equals net income, investing and financing are zero.
func (s *reportingService) CashFlow(ctx context.Context, from, to time.Time) (*domain.CashFlowReport, error) {
	income, err := s.IncomeStatement(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &domain.CashFlowReport{
		NetIncome:   income.NetIncome,
		Operating:   income.NetIncome,
		Investing:   decimal.Zero,
		Financing:   decimal.Zero,
		NetCashFlow: income.NetIncome,
		Simplified:  true,
	}, nil
}

// openingBalance nets all activity strictly before the range start.
func (s *reportingService) openingBalance(ctx context.Context, account *domain.Account, from *time.Time) (decimal.Decimal, error) {
	if from == nil {
		return decimal.Zero, nil
	}
	cutoff := from.Add(-time.Nanosecond)
	activity, err := s.reportingRepo.GetSingleAccountActivity(ctx, account.AccountID, &cutoff)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	if activity == nil {
		return decimal.Zero, nil
	}
	return accounting.NetBalance(account.AccountType, activity.TotalDebit, activity.TotalCredit), nil
}

// runBalance fills each line's running balance in place and returns the
// closing balance, normal-balance netted.
func (s *reportingService) runBalance(lines []domain.LedgerLine, accountType domain.AccountType, opening decimal.Decimal) decimal.Decimal {
	balance := opening
	for i := range lines {
		if accountType.IsDebitNormal() {
			balance = balance.Add(lines[i].Debit).Sub(lines[i].Credit)
		} else {
			balance = balance.Add(lines[i].Credit).Sub(lines[i].Debit)
		}
		lines[i].Balance = balance
	}
	return balance
}
