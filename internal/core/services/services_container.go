package services

import (
	portsrepo "github.com/vistamar/estate_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/vistamar/estate_ledger_app/internal/core/ports/services"
)

// NewServiceContainer wires all application services over the repository
// provider, in dependency order.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	auditSvc := NewAuditService(repos.AuditRepo)
	accountSvc := NewAccountService(repos.AccountRepo, repos.ReportingRepo, auditSvc)
	periodSvc := NewPeriodService(repos.PeriodRepo, auditSvc)
	journalSvc := NewJournalService(repos.JournalRepo, repos.AccountRepo, repos.SerialRepo, periodSvc, auditSvc)
	documentSvc := NewDocumentService(repos.DocumentRepo, repos.JournalRepo, repos.AccountRepo, repos.SerialRepo, accountSvc, journalSvc, periodSvc, auditSvc)
	reportingSvc := NewReportingService(repos.ReportingRepo, repos.AccountRepo)
	advisorSvc := NewAdvisorService(repos.AccountRepo, repos.ReportingRepo, repos.DocumentRepo)

	return &portssvc.ServiceContainer{
		Account:   accountSvc,
		Period:    periodSvc,
		Audit:     auditSvc,
		Journal:   journalSvc,
		Document:  documentSvc,
		Reporting: reportingSvc,
		Advisor:   advisorSvc,
	}
}
