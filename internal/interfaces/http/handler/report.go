package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	reportapp "github.com/oms/backend/internal/application/report"
)

// ReportHandler handles statistics and export API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReconciliationService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReconciliationService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/statistics", h.GetStatistics)
	rg.GET("/export/:year", h.GetYearExport)
}

// GetStatistics returns net revenue for the filtered period
func (h *ReportHandler) GetStatistics(c *gin.Context) {
	var query reportapp.StatisticsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.reportService.GetStatistics(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetYearExport returns the denormalized year-end export
func (h *ReportHandler) GetYearExport(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		h.BadRequest(c, "invalid export year")
		return
	}

	resp, err := h.reportService.GetYearExportData(c.Request.Context(), year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
