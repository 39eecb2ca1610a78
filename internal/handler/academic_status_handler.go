package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/federicowoodward/siaade-api/internal/service"
	"github.com/federicowoodward/siaade-api/pkg/response"
)

// AcademicStatusHandler serves the aggregated academic status view.
type AcademicStatusHandler struct {
	status  *service.AcademicStatusService
	exports *service.ExportService
}

// NewAcademicStatusHandler constructs AcademicStatusHandler.
func NewAcademicStatusHandler(status *service.AcademicStatusService, exports *service.ExportService) *AcademicStatusHandler {
	return &AcademicStatusHandler{status: status, exports: exports}
}

// Get godoc
// @Summary Student academic status
// @Description Subject conditions grouped by academic year
// @Tags AcademicStatus
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{studentId}/academic-status [get]
func (h *AcademicStatusHandler) Get(c *gin.Context) {
	report, err := h.status.GetStudentAcademicStatus(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Export godoc
// @Summary Export academic status
// @Description Download the academic status report as CSV or PDF
// @Tags AcademicStatus
// @Produce text/csv
// @Produce application/pdf
// @Param studentId path string true "Student ID"
// @Param format query string false "Export format (csv or pdf)" default(csv)
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{studentId}/academic-status/export [get]
func (h *AcademicStatusHandler) Export(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	result, err := h.exports.Export(c.Request.Context(), c.Param("studentId"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
