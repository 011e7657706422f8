package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/visitly/availability-api/internal/models"
	"github.com/visitly/availability-api/internal/service"
	appErrors "github.com/visitly/availability-api/pkg/errors"
	"github.com/visitly/availability-api/pkg/response"
)

type availabilityService interface {
	GetWeekly(ctx context.Context, hostID string) (*models.WeeklyGrid, error)
	SaveWeekly(ctx context.Context, hostID string, req service.SaveWeeklyRequest) (*models.WeeklyGrid, error)
	ClearWeekly(ctx context.Context, hostID string) error
	ExportWeekly(ctx context.Context, hostID, format string) ([]byte, string, error)
}

// AvailabilityHandler manages the weekly recurring-availability endpoints.
type AvailabilityHandler struct {
	service availabilityService
}

// NewAvailabilityHandler constructs the handler.
func NewAvailabilityHandler(svc availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// GetWeekly godoc
// @Summary Get a host's weekly availability
// @Description Returns stored ranges plus the expanded slot grid
// @Tags Availability
// @Produce json
// @Param id path string true "Host ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hosts/{id}/availability [get]
func (h *AvailabilityHandler) GetWeekly(c *gin.Context) {
	grid, err := h.service.GetWeekly(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// SaveWeekly godoc
// @Summary Replace a host's weekly availability selection
// @Description Reconciles stored ranges against the desired slot set
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Host ID"
// @Param payload body service.SaveWeeklyRequest true "Desired slots"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hosts/{id}/availability [put]
func (h *AvailabilityHandler) SaveWeekly(c *gin.Context) {
	var req service.SaveWeeklyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	grid, err := h.service.SaveWeekly(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// ClearWeekly godoc
// @Summary Clear a host's recurring availability
// @Tags Availability
// @Produce json
// @Param id path string true "Host ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hosts/{id}/availability [delete]
func (h *AvailabilityHandler) ClearWeekly(c *gin.Context) {
	if err := h.service.ClearWeekly(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export a host's weekly availability
// @Tags Availability
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Host ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} byte
// @Failure 400 {object} response.Envelope
// @Router /hosts/{id}/availability/export [get]
func (h *AvailabilityHandler) Export(c *gin.Context) {
	hostID := c.Param("id")
	format := c.DefaultQuery("format", "csv")

	payload, contentType, err := h.service.ExportWeekly(c.Request.Context(), hostID, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("availability-%s.%s", hostID, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
