package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsDebitNormal reports whether accounts of this type grow on the debit side.
// ASSET and EXPENSE accounts are debit-normal; LIABILITY, EQUITY and REVENUE
// accounts are credit-normal. Every balance computation must honor this.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Account represents a single account in the chart of accounts.
type Account struct {
	AccountID       string      `json:"accountID"`       // Primary Key (UUID)
	Code            string      `json:"code"`            // Human code, e.g. "1000"; unique and sortable
	Name            string      `json:"name"`            // Display name
	AccountType     AccountType `json:"accountType"`     // ASSET, LIABILITY, etc.
	ParentAccountID string      `json:"parentAccountID"` // Nullable self-reference; advisory hierarchy only
	IsActive        bool        `json:"isActive"`        // Deactivation replaces deletion
	SortOrder       int         `json:"sortOrder"`       // Display ordering within reports
	AuditFields
}
