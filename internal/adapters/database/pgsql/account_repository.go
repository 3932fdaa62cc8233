package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vistamar/estate_ledger_app/internal/apperrors"
	"github.com/vistamar/estate_ledger_app/internal/core/domain"
	portsrepo "github.com/vistamar/estate_ledger_app/internal/core/ports/repositories"
	"github.com/vistamar/estate_ledger_app/internal/models"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{pool: pool}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, code, name, account_type, parent_account_id, is_active, sort_order, created_at, created_by, last_updated_at, last_updated_by`

// Helper to convert domain.Account to models.Account for DB storage
func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		Code:            d.Code,
		Name:            d.Name,
		AccountType:     string(d.AccountType),
		ParentAccountID: d.ParentAccountID,
		IsActive:        d.IsActive,
		SortOrder:       d.SortOrder,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// Helper to convert models.Account from DB to domain.Account
func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		Code:            m.Code,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		ParentAccountID: m.ParentAccountID,
		IsActive:        m.IsActive,
		SortOrder:       m.SortOrder,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	var parentID sql.NullString
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&parentID,
		&m.IsActive,
		&m.SortOrder,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}
	if parentID.Valid {
		m.ParentAccountID = parentID.String
	}
	return m, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	modelAcc := toModelAccount(account)

	query := `
		INSERT INTO accounts (account_id, code, name, account_type, parent_account_id, is_active, sort_order, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	var parentID sql.NullString
	if modelAcc.ParentAccountID != "" {
		parentID = sql.NullString{String: modelAcc.ParentAccountID, Valid: true}
	}

	_, err := r.pool.Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.Code,
		modelAcc.Name,
		modelAcc.AccountType,
		parentID,
		modelAcc.IsActive,
		modelAcc.SortOrder,
		modelAcc.CreatedAt,
		modelAcc.CreatedBy,
		modelAcc.LastUpdatedAt,
		modelAcc.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, modelAcc.Code)
		}
		return fmt.Errorf("failed to save account %s: %w", modelAcc.AccountID, err)
	}
	return nil
}

// SaveAccounts inserts a batch of accounts inside one transaction. Used by
// the chart seeding path.
func (r *PgxAccountRepository) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	if len(accounts) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin account batch insert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO accounts (account_id, code, name, account_type, parent_account_id, is_active, sort_order, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, account := range accounts {
		m := toModelAccount(account)
		var parentID sql.NullString
		if m.ParentAccountID != "" {
			parentID = sql.NullString{String: m.ParentAccountID, Valid: true}
		}
		batch.Queue(query, m.AccountID, m.Code, m.Name, m.AccountType, parentID, m.IsActive, m.SortOrder,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to insert account %s: %w", accounts[i].Code, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close account batch: %w", err)
	}
	return tx.Commit(ctx)
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE account_id = $1;`, accountColumns)

	m, err := scanAccount(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	domainAcc := toDomainAccount(m)
	return &domainAcc, nil
}

// FindAccountByCode retrieves an account by its human code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE code = $1;`, accountColumns)

	m, err := scanAccount(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	domainAcc := toDomainAccount(m)
	return &domainAcc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE account_id = ANY($1);`, accountColumns)
	rows, err := r.pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account)
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row during batch fetch: %w", err)
		}
		accountsMap[m.AccountID] = toDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows during batch fetch: %w", err)
	}

	// It's possible not all requested IDs were found; the caller checks.
	return accountsMap, nil
}

// ListAccounts retrieves all accounts ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, onlyActive bool) ([]domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts ORDER BY code;`, accountColumns)
	if onlyActive {
		query = fmt.Sprintf(`SELECT %s FROM accounts WHERE is_active = TRUE ORDER BY code;`, accountColumns)
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, toDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// CountAccounts returns the total number of accounts, active or not.
func (r *PgxAccountRepository) CountAccounts(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

// MaxSortOrder returns the highest sort order currently assigned.
func (r *PgxAccountRepository) MaxSortOrder(ctx context.Context) (int, error) {
	var max int
	if err := r.pool.QueryRow(ctx, `SELECT COALESCE(MAX(sort_order), 0) FROM accounts;`).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to query max sort order: %w", err)
	}
	return max, nil
}

// ListMissingAccountIDs returns the subset of IDs without an account row.
func (r *PgxAccountRepository) ListMissingAccountIDs(ctx context.Context, accountIDs []string) ([]string, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT candidate.id
		FROM unnest($1::text[]) AS candidate(id)
		LEFT JOIN accounts a ON a.account_id = candidate.id
		WHERE a.account_id IS NULL;
	`
	rows, err := r.pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query missing account IDs: %w", err)
	}
	defer rows.Close()

	var missing []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan missing account ID: %w", err)
		}
		missing = append(missing, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating missing account IDs: %w", err)
	}
	return missing, nil
}

// UpdateAccount updates an existing account in the database.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	modelAcc := toModelAccount(account)

	query := `
		UPDATE accounts
		SET name = $2, parent_account_id = $3, is_active = $4, sort_order = $5, last_updated_at = $6, last_updated_by = $7
		WHERE account_id = $1;
	`
	// Note: code and account_type are immutable after creation.
	var parentID sql.NullString
	if modelAcc.ParentAccountID != "" {
		parentID = sql.NullString{String: modelAcc.ParentAccountID, Valid: true}
	}

	cmdTag, err := r.pool.Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.Name,
		parentID,
		modelAcc.IsActive,
		modelAcc.SortOrder,
		modelAcc.LastUpdatedAt,
		modelAcc.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update account %s: %w", modelAcc.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
