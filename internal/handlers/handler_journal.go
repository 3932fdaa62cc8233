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

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: js,
	}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.createEntry)
		journals.GET("", h.listEntries)
		journals.GET("/:id", h.getEntry)
		journals.PUT("/:id", h.updateEntry)
		journals.POST("/:id/cancel", h.cancelEntry)
		journals.POST("/:id/supersede", h.supersedeEntry)
	}
}

// writeJournalError maps journal service errors onto HTTP statuses.
func writeJournalError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrUnbalanced):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrPeriodLocked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Journal operation failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// createEntry godoc
// @Summary Create a journal entry
// @Description Creates a balanced journal entry; debits must equal credits within tolerance and the entry date must fall in an open period
// @Tags journals
// @Accept json
// @Produce json
// @Param entry body dto.CreateEntryRequest true "Entry details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input, unknown account or unbalanced lines"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Entry date falls in a locked period"
// @Failure 500 {object} map[string]string "Failed to create entry"
// @Security BearerAuth
// @Router /journals [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), req, actorID)
	if err != nil {
		writeJournalError(c, logger, err, "create entry")
		return
	}

	logger.Info("Journal entry created", slog.String("entry_id", entry.EntryID), slog.String("serial", entry.Serial))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// listEntries godoc
// @Summary List active journal entries
// @Description Retrieves active entries newest first, filterable by date range, cross-references and free text
// @Tags journals
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param contactID query string false "Contact cross-reference"
// @Param bankAccountID query string false "Bank account cross-reference"
// @Param propertyID query string false "Property cross-reference"
// @Param documentType query string false "Source document type"
// @Param documentID query string false "Source document ID"
// @Param q query string false "Search in serial and description"
// @Param limit query int false "Page size (default 20)"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list entries"
// @Security BearerAuth
// @Router /journals [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListActive(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list journal entries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list entries"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get a journal entry by ID
// @Description Retrieves one entry with its lines, regardless of status
// @Tags journals
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve entry"
// @Security BearerAuth
// @Router /journals/{id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		} else {
			logger.Error("Failed to get journal entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entry"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// updateEntry godoc
// @Summary Update an active journal entry
// @Description Patches an active entry; replacing lines re-validates balance, and date changes re-check the period lock on both dates
// @Tags journals
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param entry body dto.UpdateEntryRequest true "Fields to update"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input, unknown account or unbalanced lines"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry is not active or a period is locked"
// @Failure 500 {object} map[string]string "Failed to update entry"
// @Security BearerAuth
// @Router /journals/{id} [put]
func (h *journalHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.UpdateEntry(c.Request.Context(), entryID, req, actorID)
	if err != nil {
		writeJournalError(c, logger, err, "update entry")
		return
	}

	logger.Info("Journal entry updated", slog.String("entry_id", entryID), slog.Int("revision", entry.Revision))
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// cancelEntry godoc
// @Summary Cancel a journal entry
// @Description Marks an entry CANCELLED; its lines are kept but excluded from every report
// @Tags journals
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param cancellation body dto.CancelEntryRequest false "Cancellation reason"
// @Success 204 "Entry cancelled"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry already cancelled or its period is locked"
// @Failure 500 {object} map[string]string "Failed to cancel entry"
// @Security BearerAuth
// @Router /journals/{id}/cancel [post]
func (h *journalHandler) cancelEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	// Body is optional for cancellations.
	var req dto.CancelEntryRequest
	_ = c.ShouldBindJSON(&req)

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.journalService.CancelEntry(c.Request.Context(), entryID, req.Reason, actorID); err != nil {
		writeJournalError(c, logger, err, "cancel entry")
		return
	}

	logger.Info("Journal entry cancelled", slog.String("entry_id", entryID))
	c.Status(http.StatusNoContent)
}

// supersedeEntry godoc
// @Summary Supersede a journal entry
// @Description Points an active entry at its replacement, removing it from aggregations without cancelling it
// @Tags journals
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param supersession body dto.SupersedeEntryRequest true "Replacement entry"
// @Success 204 "Entry superseded"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry or replacement not found"
// @Failure 409 {object} map[string]string "Entry is not active"
// @Failure 500 {object} map[string]string "Failed to supersede entry"
// @Security BearerAuth
// @Router /journals/{id}/supersede [post]
func (h *journalHandler) supersedeEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	var req dto.SupersedeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SupersedeEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.journalService.SupersedeEntry(c.Request.Context(), entryID, req.ReplacementID, actorID); err != nil {
		writeJournalError(c, logger, err, "supersede entry")
		return
	}

	logger.Info("Journal entry superseded", slog.String("entry_id", entryID), slog.String("replacement_id", req.ReplacementID))
	c.Status(http.StatusNoContent)
}
