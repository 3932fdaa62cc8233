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

// documentHandler handles HTTP requests related to accounting documents.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
}

func newDocumentHandler(ds portssvc.DocumentSvcFacade) *documentHandler {
	return &documentHandler{
		documentService: ds,
	}
}

// registerDocumentRoutes registers routes related to accounting documents.
func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade) {
	h := newDocumentHandler(documentService)

	documents := rg.Group("/documents")
	{
		documents.POST("", h.createDocument)
		documents.GET("", h.listDocuments)
		documents.GET("/:id", h.getDocument)
		documents.PUT("/:id/status", h.updateDocumentStatus)
		documents.POST("/reconcile", h.reconcile)
	}
}

// createDocument godoc
// @Summary Record a business document
// @Description Records a document with an assigned serial; APPROVED and PAID documents are posted to the journal synchronously
// @Tags documents
// @Accept json
// @Produce json
// @Param document body dto.CreateDocumentRequest true "Document details"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create document"
// @Security BearerAuth
// @Router /documents [post]
func (h *documentHandler) createDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentService.CreateDocument(c.Request.Context(), req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create document", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create document"})
		}
		return
	}

	logger.Info("Document created", slog.String("document_id", doc.DocumentID), slog.String("serial", doc.Serial))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// listDocuments godoc
// @Summary List documents
// @Description Retrieves documents newest first, filterable by type, status, date range and cross-references
// @Tags documents
// @Produce json
// @Param documentType query string false "Document type"
// @Param status query string false "Lifecycle status"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param contactID query string false "Contact cross-reference"
// @Param propertyID query string false "Property cross-reference"
// @Param q query string false "Search in serial and notes"
// @Param limit query int false "Page size (default 20)"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListDocumentsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list documents"
// @Security BearerAuth
// @Router /documents [get]
func (h *documentHandler) listDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListDocumentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.documentService.ListDocuments(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list documents", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getDocument godoc
// @Summary Get a document by ID
// @Description Retrieves one document including its journal link, if posted
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 500 {object} map[string]string "Failed to retrieve document"
// @Security BearerAuth
// @Router /documents/{id} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("id")

	doc, err := h.documentService.GetDocumentByID(c.Request.Context(), documentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		} else {
			logger.Error("Failed to get document", slog.String("document_id", documentID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve document"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// updateDocumentStatus godoc
// @Summary Transition a document's status
// @Description Moves a document through its lifecycle; approving or paying triggers posting, cancelling reverses the linked entry
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param transition body dto.UpdateDocumentStatusRequest true "Target status"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Illegal status transition or locked period"
// @Failure 500 {object} map[string]string "Failed to update document status"
// @Security BearerAuth
// @Router /documents/{id}/status [put]
func (h *documentHandler) updateDocumentStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("id")

	var req dto.UpdateDocumentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateDocumentStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentService.UpdateDocumentStatus(c.Request.Context(), documentID, req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrPeriodLocked):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update document status", slog.String("document_id", documentID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update document status"})
		}
		return
	}

	logger.Info("Document status updated", slog.String("document_id", documentID), slog.String("status", string(doc.Status)))
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// reconcile godoc
// @Summary Reconcile unposted documents
// @Description Repairs entries referencing removed accounts, then retries posting for the APPROVED/PAID backlog; idempotent
// @Tags documents
// @Produce json
// @Success 200 {object} domain.ReconcileSummary
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Reconciliation failed"
// @Security BearerAuth
// @Router /documents/reconcile [post]
func (h *documentHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	summary, err := h.documentService.ReconcileUnposted(c.Request.Context(), actorID)
	if err != nil {
		logger.Error("Reconciliation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reconciliation failed"})
		return
	}

	logger.Info("Reconciliation completed",
		slog.Int("posted", summary.Posted),
		slog.Int("repaired", summary.Repaired),
		slog.Int("failed", summary.Failed))
	c.JSON(http.StatusOK, summary)
}
