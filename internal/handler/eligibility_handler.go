package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/federicowoodward/siaade-api/internal/service"
	appErrors "github.com/federicowoodward/siaade-api/pkg/errors"
	"github.com/federicowoodward/siaade-api/pkg/response"
)

// EligibilityHandler exposes the prerequisite resolver.
type EligibilityHandler struct {
	eligibility *service.EligibilityService
}

// NewEligibilityHandler constructs EligibilityHandler.
func NewEligibilityHandler(eligibility *service.EligibilityService) *EligibilityHandler {
	return &EligibilityHandler{eligibility: eligibility}
}

// Check godoc
// @Summary Check enrollment eligibility
// @Description Resolve direct correlatives for a target subject order number
// @Tags Eligibility
// @Produce json
// @Param careerId path int true "Career ID"
// @Param studentId query string true "Student ID"
// @Param targetOrderNo query int true "Target subject order number"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /careers/{careerId}/eligibility [get]
func (h *EligibilityHandler) Check(c *gin.Context) {
	careerID, err := strconv.ParseInt(c.Param("careerId"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid career id"))
		return
	}
	studentID := c.Query("studentId")
	if studentID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "studentId is required"))
		return
	}
	targetOrderNo, err := strconv.Atoi(c.Query("targetOrderNo"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid targetOrderNo"))
		return
	}

	result, err := h.eligibility.ValidateEnrollment(c.Request.Context(), careerID, studentID, targetOrderNo)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
