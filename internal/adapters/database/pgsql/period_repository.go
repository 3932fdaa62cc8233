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
	"github.com/vistamar/estate_ledger_app/internal/models"
)

const periodColumns = `period_id, name, start_date, end_date, is_locked, created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	pool *pgxpool.Pool
}

// newPgxPeriodRepository creates a new repository for fiscal period data.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{pool: pool}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

func toDomainPeriod(m models.FiscalPeriod) domain.FiscalPeriod {
	return domain.FiscalPeriod{
		PeriodID:  m.PeriodID,
		Name:      m.Name,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		IsLocked:  m.IsLocked,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanPeriod(row pgx.Row) (models.FiscalPeriod, error) {
	var m models.FiscalPeriod
	err := row.Scan(
		&m.PeriodID,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.IsLocked,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SavePeriod inserts a new fiscal period.
func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	query := `
		INSERT INTO fiscal_periods (period_id, name, start_date, end_date, is_locked, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		period.PeriodID,
		period.Name,
		period.StartDate,
		period.EndDate,
		period.IsLocked,
		period.CreatedAt,
		period.CreatedBy,
		period.LastUpdatedAt,
		period.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save period %s: %w", period.PeriodID, err)
	}
	return nil
}

// FindPeriodByID retrieves a period by its ID.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	query := fmt.Sprintf(`SELECT %s FROM fiscal_periods WHERE period_id = $1;`, periodColumns)

	m, err := scanPeriod(r.pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period by ID %s: %w", periodID, err)
	}
	period := toDomainPeriod(m)
	return &period, nil
}

// FindPeriodByDate retrieves the period containing the given date, if any.
func (r *PgxPeriodRepository) FindPeriodByDate(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM fiscal_periods
		WHERE start_date <= $1 AND end_date >= $1
		ORDER BY start_date
		LIMIT 1;
	`, periodColumns)

	m, err := scanPeriod(r.pool.QueryRow(ctx, query, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period for date %s: %w", date.Format("2006-01-02"), err)
	}
	period := toDomainPeriod(m)
	return &period, nil
}

// ListPeriods retrieves all periods ordered by start date.
func (r *PgxPeriodRepository) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	query := fmt.Sprintf(`SELECT %s FROM fiscal_periods ORDER BY start_date;`, periodColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query periods: %w", err)
	}
	defer rows.Close()

	periods := []domain.FiscalPeriod{}
	for rows.Next() {
		m, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period row: %w", err)
		}
		periods = append(periods, toDomainPeriod(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period rows: %w", err)
	}
	return periods, nil
}

// CountPeriods returns the total number of periods.
func (r *PgxPeriodRepository) CountPeriods(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM fiscal_periods;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count periods: %w", err)
	}
	return count, nil
}

// UpdatePeriod updates a period's name and lock flag.
func (r *PgxPeriodRepository) UpdatePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	query := `
		UPDATE fiscal_periods
		SET name = $2, is_locked = $3, last_updated_at = $4, last_updated_by = $5
		WHERE period_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		period.PeriodID,
		period.Name,
		period.IsLocked,
		period.LastUpdatedAt,
		period.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update period %s: %w", period.PeriodID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
