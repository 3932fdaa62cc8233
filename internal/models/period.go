package models

import "time"

// FiscalPeriod is the persisted form of a lockable date range.
type FiscalPeriod struct {
	PeriodID  string    `db:"period_id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	IsLocked  bool      `db:"is_locked"`
	AuditFields
}
