package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/federicowoodward/siaade-api/internal/models"
	"github.com/federicowoodward/siaade-api/internal/service"
	appErrors "github.com/federicowoodward/siaade-api/pkg/errors"
	"github.com/federicowoodward/siaade-api/pkg/response"
)

// RegistrationHandler exposes enrollment and toggle endpoints.
type RegistrationHandler struct {
	registrations *service.RegistrationService
	inscriptions  *service.InscriptionService
	audits        *service.AuditService
}

// NewRegistrationHandler constructs RegistrationHandler.
func NewRegistrationHandler(registrations *service.RegistrationService, inscriptions *service.InscriptionService, audits *service.AuditService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations, inscriptions: inscriptions, audits: audits}
}

// Enroll godoc
// @Summary Enroll into a stage
// @Description Register a student into a subject commission within an active stage
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.EnrollRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /registration/enrollments [post]
func (h *RegistrationHandler) Enroll(c *gin.Context) {
	var req service.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enrollment, err := h.registrations.Enroll(c.Request.Context(), req, actorFromContext(c), metaFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Unenroll godoc
// @Summary Remove a stage enrollment
// @Tags Enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /registration/enrollments/{id} [delete]
func (h *RegistrationHandler) Unenroll(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid enrollment id"))
		return
	}
	result, err := h.registrations.Unenroll(c.Request.Context(), id, actorFromContext(c), metaFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Toggle godoc
// @Summary Toggle an inscription
// @Description Enroll or unenroll a student for a subject commission or final exam call
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.ToggleRequest true "Toggle payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /registration/toggle [post]
func (h *RegistrationHandler) Toggle(c *gin.Context) {
	var req service.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.inscriptions.Toggle(c.Request.Context(), req, actorFromContext(c), metaFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Audits godoc
// @Summary List enrollment audit trail
// @Tags Enrollments
// @Produce json
// @Param studentId query string false "Filter by student"
// @Param outcome query string false "Filter by outcome"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /registration/audits [get]
func (h *RegistrationHandler) Audits(c *gin.Context) {
	var filter models.AuditFilter
	filter.StudentID = c.Query("studentId")
	filter.Outcome = c.Query("outcome")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	audits, pagination, err := h.audits.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, audits, pagination)
}
