package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// SerialRepository hands out serial numbers from a durable counter keyed by
// (scope, year). The counter increments atomically, so serials stay unique
// even under concurrent writers.
type SerialRepository interface {
	// NextSerial returns the next counter value for a scope (e.g. "JRN",
	// "INV") within a calendar year.
	NextSerial(ctx context.Context, scope string, year int) (int, error)

	// NextSerialTx is NextSerial within a caller-owned transaction.
	NextSerialTx(ctx context.Context, tx pgx.Tx, scope string, year int) (int, error)
}
