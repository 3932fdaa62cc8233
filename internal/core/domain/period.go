package domain

import "time"

// FiscalPeriod is a date range (typically a calendar year) that can be locked
// to forbid further postings inside it. Locking is monotonic: there is no
// unlock operation.
type FiscalPeriod struct {
	PeriodID  string    `json:"periodID"` // Primary Key (UUID)
	Name      string    `json:"name"`     // e.g. "FY 2025"
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsLocked  bool      `json:"isLocked"`
	AuditFields
}

// Contains reports whether the given date falls inside the period boundaries
// (inclusive on both ends).
func (p *FiscalPeriod) Contains(date time.Time) bool {
	return !date.Before(p.StartDate) && !date.After(p.EndDate)
}
