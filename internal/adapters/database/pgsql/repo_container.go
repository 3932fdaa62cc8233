package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/vistamar/estate_ledger_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   newPgxAccountRepository(dbPool),
		JournalRepo:   newPgxJournalRepository(dbPool),
		DocumentRepo:  newPgxDocumentRepository(dbPool),
		PeriodRepo:    newPgxPeriodRepository(dbPool),
		AuditRepo:     newPgxAuditRepository(dbPool),
		SerialRepo:    newPgxSerialRepository(dbPool),
		ReportingRepo: newPgxReportingRepository(dbPool),
	}
}
