package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/vistamar/estate_ledger_app/internal/core/ports/repositories"
)

// PgxSerialRepository hands out serial numbers from the serial_counters
// table. The atomic upsert keeps serials unique under concurrent writers and
// survives entry deletion, unlike counting rows.
type PgxSerialRepository struct {
	pool *pgxpool.Pool
}

func newPgxSerialRepository(pool *pgxpool.Pool) portsrepo.SerialRepository {
	return &PgxSerialRepository{pool: pool}
}

var _ portsrepo.SerialRepository = (*PgxSerialRepository)(nil)

const nextSerialQuery = `
	INSERT INTO serial_counters (scope, year, value)
	VALUES ($1, $2, 1)
	ON CONFLICT (scope, year)
	DO UPDATE SET value = serial_counters.value + 1
	RETURNING value;
`

// NextSerial returns the next counter value for a scope within a year.
func (r *PgxSerialRepository) NextSerial(ctx context.Context, scope string, year int) (int, error) {
	var value int
	if err := r.pool.QueryRow(ctx, nextSerialQuery, scope, year).Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to advance serial counter %s/%d: %w", scope, year, err)
	}
	return value, nil
}

// NextSerialTx is NextSerial within a caller-owned transaction.
func (r *PgxSerialRepository) NextSerialTx(ctx context.Context, tx pgx.Tx, scope string, year int) (int, error) {
	var value int
	if err := tx.QueryRow(ctx, nextSerialQuery, scope, year).Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to advance serial counter %s/%d: %w", scope, year, err)
	}
	return value, nil
}
