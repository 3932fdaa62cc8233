package models

// Account is the persisted form of a chart-of-accounts row.
// Note: ParentAccountID uses string for nullable foreign key; DB handling may vary.
type Account struct {
	AccountID       string `db:"account_id"`
	Code            string `db:"code"`
	Name            string `db:"name"`
	AccountType     string `db:"account_type"`
	ParentAccountID string `db:"parent_account_id"` // Nullable
	IsActive        bool   `db:"is_active"`
	SortOrder       int    `db:"sort_order"`
	AuditFields
}
