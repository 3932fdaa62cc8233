package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/vistamar/estate_ledger_app/internal/core/ports/services"
	"github.com/vistamar/estate_ledger_app/internal/dto"
	"github.com/vistamar/estate_ledger_app/internal/middleware"
)

// auditHandler handles HTTP requests for the audit trail.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

func newAuditHandler(as portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{
		auditService: as,
	}
}

// registerAuditRoutes registers routes related to the audit trail.
func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	audit := rg.Group("/audit")
	{
		h := newAuditHandler(auditService)
		audit.GET("", h.queryAuditLog)
	}
}

// queryAuditLog godoc
// @Summary Query the audit trail
// @Description Retrieves audit events chronologically, optionally scoped to one entity's full change history
// @Tags audit
// @Produce json
// @Param entityType query string false "Entity type (account, journal_entry, document, fiscal_period)"
// @Param entityID query string false "Entity ID"
// @Param limit query int false "Maximum events to return (default 100)"
// @Success 200 {array} dto.AuditLogResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to query audit trail"
// @Security BearerAuth
// @Router /audit [get]
func (h *auditHandler) queryAuditLog(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.AuditQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	entries, err := h.auditService.Query(c.Request.Context(), params.EntityType, params.EntityID, params.Limit)
	if err != nil {
		logger.Error("Failed to query audit trail", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query audit trail"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAuditLogResponses(entries))
}
