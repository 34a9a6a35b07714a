package handler

import (
	"github.com/gin-gonic/gin"

	billingapp "github.com/oms/backend/internal/application/billing"
	reportapp "github.com/oms/backend/internal/application/report"
)

// CreditNoteHandler handles credit note-related API endpoints
type CreditNoteHandler struct {
	BaseHandler
	creditNoteService *billingapp.CreditNoteService
	reportService     *reportapp.ReconciliationService
}

// NewCreditNoteHandler creates a new CreditNoteHandler
func NewCreditNoteHandler(creditNoteService *billingapp.CreditNoteService, reportService *reportapp.ReconciliationService) *CreditNoteHandler {
	return &CreditNoteHandler{
		creditNoteService: creditNoteService,
		reportService:     reportService,
	}
}

// RegisterRoutes registers credit note routes
func (h *CreditNoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	notes := rg.Group("/credit-notes")
	{
		notes.POST("", h.Create)
		notes.GET("", h.List)
		notes.GET("/:id", h.Get)
		notes.PATCH("/:id/status", h.UpdateStatus)
		notes.DELETE("/:id", h.Delete)
	}
}

// Create issues a credit note against an order
func (h *CreditNoteHandler) Create(c *gin.Context) {
	var req billingapp.CreateCreditNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.creditNoteService.CreateCreditNote(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns a credit note with totals reconciled from its refund lines
func (h *CreditNoteHandler) Get(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid credit note id")
		return
	}

	resp, err := h.reportService.GetReconciledCreditNote(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns credit notes matching the query filters
func (h *CreditNoteHandler) List(c *gin.Context) {
	var query billingapp.CreditNoteListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.creditNoteService.ListCreditNotes(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus applies a status transition to a credit note
func (h *CreditNoteHandler) UpdateStatus(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid credit note id")
		return
	}

	var req billingapp.UpdateCreditNoteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.creditNoteService.UpdateCreditNoteStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a credit note and its refund lines
func (h *CreditNoteHandler) Delete(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid credit note id")
		return
	}

	if err := h.creditNoteService.DeleteCreditNote(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
