package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vistamar/estate_ledger_app/internal/apperrors"
	portssvc "github.com/vistamar/estate_ledger_app/internal/core/ports/services"
	"github.com/vistamar/estate_ledger_app/internal/dto"
	"github.com/vistamar/estate_ledger_app/internal/middleware"
)

// reportingHandler handles HTTP requests for financial reports and the
// advisory classifiers.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
	advisorService   portssvc.AdvisorSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade, as portssvc.AdvisorSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		advisorService:   as,
	}
}

// registerReportingRoutes registers routes related to reports.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade, advisorService portssvc.AdvisorSvcFacade) {
	h := newReportingHandler(reportingService, advisorService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/accounts/:id/ledger", h.accountLedger)
		reports.GET("/bank-ledger", h.bankLedger)
		reports.GET("/income-statement", h.incomeStatement)
		reports.GET("/balance-sheet", h.balanceSheet)
		reports.GET("/cash-flow", h.cashFlow)
		reports.GET("/suggest-account", h.suggestAccount)
		reports.GET("/suggest-lines", h.suggestLines)
		reports.GET("/anomalies", h.anomalies)
	}
}

// defaultRange fills an open-ended range with the current calendar year.
func defaultRange(from, to *time.Time) (time.Time, time.Time) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	end := now
	if from != nil {
		start = *from
	}
	if to != nil {
		end = *to
	}
	return start, end
}

// trialBalance godoc
// @Summary Trial balance
// @Description Per-account net debit/credit over a range; accounts without activity are omitted and totals must match
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.TrialBalanceReport
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build trial balance"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ReportRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), params.From, params.To)
	if err != nil {
		logger.Error("Failed to build trial balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build trial balance"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// accountLedger godoc
// @Summary Account ledger
// @Description One account's chronological movements with running balance; the opening balance covers everything before the range
// @Tags reports
// @Produce json
// @Param id path string true "Account ID"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.AccountLedger
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to build ledger"
// @Security BearerAuth
// @Router /reports/accounts/{id}/ledger [get]
func (h *reportingHandler) accountLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var params dto.ReportRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	ledger, err := h.reportingService.AccountLedger(c.Request.Context(), accountID, params.From, params.To)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			logger.Error("Failed to build account ledger", slog.String("account_id", accountID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build ledger"})
		}
		return
	}

	c.JSON(http.StatusOK, ledger)
}

// bankLedger godoc
// @Summary Bank or cash ledger
// @Description Money-side movements for one bank account, or the cash control account when no bankAccountID is given
// @Tags reports
// @Produce json
// @Param bankAccountID query string false "Bank account cross-reference; omit for cash"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.AccountLedger
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build ledger"
// @Security BearerAuth
// @Router /reports/bank-ledger [get]
func (h *reportingHandler) bankLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.BankLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	ledger, err := h.reportingService.BankOrCashLedger(c.Request.Context(), params.BankAccountID, params.From, params.To)
	if err != nil {
		logger.Error("Failed to build bank/cash ledger", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build ledger"})
		return
	}

	c.JSON(http.StatusOK, ledger)
}

// incomeStatement godoc
// @Summary Income statement
// @Description Revenue and expense nets over a range; defaults to the current calendar year
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.IncomeStatementReport
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build income statement"
// @Security BearerAuth
// @Router /reports/income-statement [get]
func (h *reportingHandler) incomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ReportRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	from, to := defaultRange(params.From, params.To)
	report, err := h.reportingService.IncomeStatement(c.Request.Context(), from, to)
	if err != nil {
		logger.Error("Failed to build income statement", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build income statement"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// balanceSheet godoc
// @Summary Balance sheet
// @Description Asset, liability and equity positions as of a date with the year's net income folded into equity; defaults to today
// @Tags reports
// @Produce json
// @Param asOf query string false "Cut-off date (YYYY-MM-DD)"
// @Success 200 {object} domain.BalanceSheetReport
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build balance sheet"
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) balanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	asOf := time.Now().UTC()
	if params.AsOf != nil {
		asOf = *params.AsOf
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		logger.Error("Failed to build balance sheet", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build balance sheet"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// cashFlow godoc
// @Summary Cash flow statement
// @Description Simplified indirect-method cash flow derived from the income statement; defaults to the current calendar year
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.CashFlowReport
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build cash flow statement"
// @Security BearerAuth
// @Router /reports/cash-flow [get]
func (h *reportingHandler) cashFlow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ReportRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	from, to := defaultRange(params.From, params.To)
	report, err := h.reportingService.CashFlow(c.Request.Context(), from, to)
	if err != nil {
		logger.Error("Failed to build cash flow statement", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build cash flow statement"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// suggestAccount godoc
// @Summary Suggest accounts for a description
// @Description Advisory keyword classifier; suggestions are never applied automatically
// @Tags reports
// @Produce json
// @Param description query string true "Free-text description"
// @Success 200 {array} domain.AccountSuggestion
// @Failure 400 {object} map[string]string "Missing description"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to suggest accounts"
// @Security BearerAuth
// @Router /reports/suggest-account [get]
func (h *reportingHandler) suggestAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.SuggestParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	suggestions, err := h.advisorService.SuggestAccount(c.Request.Context(), params.Description)
	if err != nil {
		logger.Error("Failed to suggest accounts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to suggest accounts"})
		return
	}

	c.JSON(http.StatusOK, suggestions)
}

// suggestLines godoc
// @Summary Draft a balanced line pair
// @Description Advisory drafter returning a balanced debit/credit pair for a description and amount
// @Tags reports
// @Produce json
// @Param description query string true "Free-text description"
// @Param amount query string true "Positive decimal amount"
// @Success 200 {array} domain.JournalLine
// @Failure 400 {object} map[string]string "Missing parameters or non-positive amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to draft lines"
// @Security BearerAuth
// @Router /reports/suggest-lines [get]
func (h *reportingHandler) suggestLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.SuggestLinesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	lines, err := h.advisorService.SuggestLines(c.Request.Context(), params.Description, params.Amount)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to draft lines", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to draft lines"})
		return
	}

	c.JSON(http.StatusOK, lines)
}

// anomalies godoc
// @Summary Detect bookkeeping anomalies
// @Description Flags accounts with abnormal balances and documents stuck before posting; advisory only
// @Tags reports
// @Produce json
// @Success 200 {array} domain.Anomaly
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to scan for anomalies"
// @Security BearerAuth
// @Router /reports/anomalies [get]
func (h *reportingHandler) anomalies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	anomalies, err := h.advisorService.DetectAnomalies(c.Request.Context())
	if err != nil {
		logger.Error("Failed to scan for anomalies", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan for anomalies"})
		return
	}

	c.JSON(http.StatusOK, anomalies)
}
