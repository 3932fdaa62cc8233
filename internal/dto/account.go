package dto

import (
	"regexp"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/vistamar/estate_ledger_app/internal/core/domain"
)

var accountCodePattern = regexp.MustCompile(`^[0-9]{4}$`)

func init() {
	// Account codes are four digits, e.g. "1000"; register once so binding
	// tags can use it.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("accountcode", func(fl validator.FieldLevel) bool {
			return accountCodePattern.MatchString(fl.Field().String())
		})
	}
}

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code            string             `json:"code" binding:"required,accountcode"`
	Name            string             `json:"name" binding:"required"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID *string            `json:"parentAccountID"` // Optional, use pointer for nullability
	SortOrder       *int               `json:"sortOrder"`       // Optional; auto-assigned from the current maximum if unset
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name            *string `json:"name"`
	ParentAccountID *string `json:"parentAccountID"`
	IsActive        *bool   `json:"isActive"` // Deactivation replaces deletion
	SortOrder       *int    `json:"sortOrder"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	ParentAccountID string             `json:"parentAccountID"`
	IsActive        bool               `json:"isActive"`
	SortOrder       int                `json:"sortOrder"`
	CreatedAt       time.Time          `json:"createdAt"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
}

// AccountBalanceResponse defines the data returned for a balance query.
// The balance is netted to the account's normal side.
type AccountBalanceResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	AsOf      *time.Time      `json:"asOf,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
}

// SeedResponse reports what EnsureSeeded did.
type SeedResponse struct {
	Inserted int `json:"inserted"`
	Total    int `json:"total"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		ParentAccountID: acc.ParentAccountID,
		IsActive:        acc.IsActive,
		SortOrder:       acc.SortOrder,
		CreatedAt:       acc.CreatedAt,
		LastUpdatedAt:   acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to response DTOs.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}
