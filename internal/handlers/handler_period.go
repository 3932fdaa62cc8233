package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vistamar/estate_ledger_app/internal/apperrors"
	portssvc "github.com/vistamar/estate_ledger_app/internal/core/ports/services"
	"github.com/vistamar/estate_ledger_app/internal/dto"
	"github.com/vistamar/estate_ledger_app/internal/middleware"
)

// periodHandler handles HTTP requests related to fiscal periods.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

func newPeriodHandler(ps portssvc.PeriodSvcFacade) *periodHandler {
	return &periodHandler{
		periodService: ps,
	}
}

// registerPeriodRoutes registers routes related to fiscal periods.
func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := newPeriodHandler(periodService)

	periods := rg.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.POST("/:id/lock", h.lockPeriod)
	}
}

// createPeriod godoc
// @Summary Create a fiscal period
// @Description Creates a new fiscal period; overlapping ranges are rejected
// @Tags periods
// @Accept json
// @Produce json
// @Param period body dto.CreatePeriodRequest true "Period details"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Period overlaps an existing one"
// @Failure 500 {object} map[string]string "Failed to create period"
// @Security BearerAuth
// @Router /periods [post]
func (h *periodHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create period", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create period"})
		}
		return
	}

	logger.Info("Fiscal period created", slog.String("period_id", period.PeriodID), slog.String("name", period.Name))
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// listPeriods godoc
// @Summary List fiscal periods
// @Description Retrieves all fiscal periods ordered by start date
// @Tags periods
// @Produce json
// @Success 200 {array} dto.PeriodResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list periods"
// @Security BearerAuth
// @Router /periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	periods, err := h.periodService.ListPeriods(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list periods", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list periods"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListPeriodResponse(periods))
}

// lockPeriod godoc
// @Summary Lock a fiscal period
// @Description Locks a period against further postings; locking is permanent and re-locking is a no-op
// @Tags periods
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 500 {object} map[string]string "Failed to lock period"
// @Security BearerAuth
// @Router /periods/{id}/lock [post]
func (h *periodHandler) lockPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("id")

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	period, err := h.periodService.LockPeriod(c.Request.Context(), periodID, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Period not found"})
		} else {
			logger.Error("Failed to lock period", slog.String("period_id", periodID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to lock period"})
		}
		return
	}

	logger.Info("Fiscal period locked", slog.String("period_id", periodID))
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}
