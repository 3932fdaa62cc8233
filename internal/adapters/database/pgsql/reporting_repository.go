package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vistamar/estate_ledger_app/internal/apperrors"
	"github.com/vistamar/estate_ledger_app/internal/core/domain"
	portsrepo "github.com/vistamar/estate_ledger_app/internal/core/ports/repositories"
	"github.com/vistamar/estate_ledger_app/internal/core/posting"
)

// PgxReportingRepository runs the aggregation queries behind financial
// reports. Every query folds over active entries only and recomputes from
// the full log on each call.
type PgxReportingRepository struct {
	pool *pgxpool.Pool
}

func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{pool: pool}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetAccountActivity aggregates gross debit/credit per account over a date
// range. Accounts without activity in the range are not returned.
func (r *PgxReportingRepository) GetAccountActivity(ctx context.Context, from, to *time.Time) ([]portsrepo.RawAccountActivity, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type, a.sort_order,
		       COALESCE(SUM(l.debit), 0) AS total_debit,
		       COALESCE(SUM(l.credit), 0) AS total_credit
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE ` + activeEntryPredicate
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if from != nil {
		query += fmt.Sprintf(" AND e.entry_date >= %s", arg(*from))
	}
	if to != nil {
		query += fmt.Sprintf(" AND e.entry_date <= %s", arg(*to))
	}
	query += `
		GROUP BY a.account_id, a.code, a.name, a.account_type, a.sort_order
		ORDER BY a.code;
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query account activity: %w", err)
	}
	defer rows.Close()

	activity := []portsrepo.RawAccountActivity{}
	for rows.Next() {
		var act portsrepo.RawAccountActivity
		var accountType string
		if err := rows.Scan(&act.AccountID, &act.AccountCode, &act.AccountName, &accountType,
			&act.SortOrder, &act.TotalDebit, &act.TotalCredit); err != nil {
			return nil, fmt.Errorf("failed to scan account activity row: %w", err)
		}
		act.AccountType = domain.AccountType(accountType)
		activity = append(activity, act)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account activity rows: %w", err)
	}
	return activity, nil
}

// GetSingleAccountActivity aggregates one account's gross totals up to an
// optional cut-off date.
func (r *PgxReportingRepository) GetSingleAccountActivity(ctx context.Context, accountID string, asOf *time.Time) (*portsrepo.RawAccountActivity, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type, a.sort_order,
		       COALESCE(SUM(l.debit), 0) AS total_debit,
		       COALESCE(SUM(l.credit), 0) AS total_credit
		FROM accounts a
		LEFT JOIN journal_lines l ON l.account_id = a.account_id
		LEFT JOIN journal_entries e ON e.entry_id = l.entry_id AND ` + activeEntryPredicate
	args := []any{accountID}
	if asOf != nil {
		args = append(args, *asOf)
		query += fmt.Sprintf(" AND e.entry_date <= $%d", len(args))
	}
	// The entry filter lives in the join condition so the account row
	// survives with zero totals when nothing matches.
	query += `
		WHERE a.account_id = $1 AND (e.entry_id IS NOT NULL OR l.line_id IS NULL)
		GROUP BY a.account_id, a.code, a.name, a.account_type, a.sort_order;
	`

	var act portsrepo.RawAccountActivity
	var accountType string
	err := r.pool.QueryRow(ctx, query, args...).Scan(&act.AccountID, &act.AccountCode, &act.AccountName,
		&accountType, &act.SortOrder, &act.TotalDebit, &act.TotalCredit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query activity of account %s: %w", accountID, err)
	}
	act.AccountType = domain.AccountType(accountType)
	return &act, nil
}

// GetLedgerLines retrieves one account's movements chronologically ascending
// within a date range. Running balances are computed by the caller.
func (r *PgxReportingRepository) GetLedgerLines(ctx context.Context, accountID string, from, to *time.Time) ([]domain.LedgerLine, error) {
	query := `
		SELECT e.entry_id, e.serial, e.entry_date,
		       COALESCE(NULLIF(l.description, ''), e.description) AS description,
		       l.debit, l.credit
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1 AND ` + activeEntryPredicate
	args := []any{accountID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND e.entry_date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND e.entry_date <= $%d", len(args))
	}
	query += " ORDER BY e.entry_date, e.created_at, l.line_id;"

	return r.queryLedgerLines(ctx, query, args)
}

// GetBankCashLines retrieves money-side movements. Entries carrying a bank
// cross-reference hit the bank control account; entries without one hit the
// cash control account.
func (r *PgxReportingRepository) GetBankCashLines(ctx context.Context, bankAccountID *string, from, to *time.Time) ([]domain.LedgerLine, error) {
	query := `
		SELECT e.entry_id, e.serial, e.entry_date,
		       COALESCE(NULLIF(l.description, ''), e.description) AS description,
		       l.debit, l.credit
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE ` + activeEntryPredicate
	args := []any{}
	if bankAccountID != nil {
		args = append(args, posting.CodeBank)
		query += fmt.Sprintf(" AND a.code = $%d", len(args))
		args = append(args, *bankAccountID)
		query += fmt.Sprintf(" AND e.bank_account_id = $%d", len(args))
	} else {
		args = append(args, posting.CodeCash)
		query += fmt.Sprintf(" AND a.code = $%d AND e.bank_account_id IS NULL", len(args))
	}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND e.entry_date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND e.entry_date <= $%d", len(args))
	}
	query += " ORDER BY e.entry_date, e.created_at, l.line_id;"

	return r.queryLedgerLines(ctx, query, args)
}

func (r *PgxReportingRepository) queryLedgerLines(ctx context.Context, query string, args []any) ([]domain.LedgerLine, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger lines: %w", err)
	}
	defer rows.Close()

	lines := []domain.LedgerLine{}
	for rows.Next() {
		var line domain.LedgerLine
		if err := rows.Scan(&line.EntryID, &line.Serial, &line.EntryDate, &line.Description,
			&line.Debit, &line.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan ledger line row: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger line rows: %w", err)
	}
	return lines, nil
}
