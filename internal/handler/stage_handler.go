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

// StageHandler exposes registration stage management endpoints.
type StageHandler struct {
	stages *service.StageService
}

// NewStageHandler constructs StageHandler.
func NewStageHandler(stages *service.StageService) *StageHandler {
	return &StageHandler{stages: stages}
}

// List godoc
// @Summary List registration stages
// @Tags RegistrationStages
// @Produce json
// @Param careerId query int false "Filter by career"
// @Param active query bool false "Only stages active right now"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /registration/stages [get]
func (h *StageHandler) List(c *gin.Context) {
	var filter models.StageFilter
	if careerID, err := strconv.ParseInt(c.Query("careerId"), 10, 64); err == nil {
		filter.CareerID = careerID
	}
	filter.ActiveOnly = c.Query("active") == "true"
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	stages, pagination, err := h.stages.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stages, pagination)
}

// Create godoc
// @Summary Create registration stage
// @Tags RegistrationStages
// @Accept json
// @Produce json
// @Param payload body service.CreateStageRequest true "Stage payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /registration/stages [post]
func (h *StageHandler) Create(c *gin.Context) {
	var req service.CreateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	stage, err := h.stages.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, stage)
}

// Edit godoc
// @Summary Edit registration stage
// @Tags RegistrationStages
// @Accept json
// @Produce json
// @Param id path int true "Stage ID"
// @Param payload body service.EditStageRequest true "Stage changes"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /registration/stages/{id} [patch]
func (h *StageHandler) Edit(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid stage id"))
		return
	}
	var req service.EditStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	stage, err := h.stages.Edit(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stage, nil)
}

// Close godoc
// @Summary Close registration stage
// @Description Ends the stage window immediately; closing a closed stage is a no-op
// @Tags RegistrationStages
// @Produce json
// @Param id path int true "Stage ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /registration/stages/{id}/close [post]
func (h *StageHandler) Close(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid stage id"))
		return
	}
	stage, err := h.stages.Close(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stage, nil)
}
