package dto

import (
	"time"

	"github.com/vistamar/estate_ledger_app/internal/core/domain"
)

// CreatePeriodRequest defines the data needed to create a fiscal period.
type CreatePeriodRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required,gtfield=StartDate"`
}

// PeriodResponse defines the data returned for a fiscal period.
type PeriodResponse struct {
	PeriodID  string    `json:"periodID"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsLocked  bool      `json:"isLocked"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToPeriodResponse converts a domain.FiscalPeriod to its DTO.
func ToPeriodResponse(p *domain.FiscalPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:  p.PeriodID,
		Name:      p.Name,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		IsLocked:  p.IsLocked,
		CreatedAt: p.CreatedAt,
	}
}

// ToListPeriodResponse converts a slice of periods to response DTOs.
func ToListPeriodResponse(periods []domain.FiscalPeriod) []PeriodResponse {
	res := make([]PeriodResponse, len(periods))
	for i, p := range periods {
		res[i] = ToPeriodResponse(&p)
	}
	return res
}
