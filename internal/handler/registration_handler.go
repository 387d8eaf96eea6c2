package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lpk-cms-api/internal/models"
	"github.com/noah-isme/lpk-cms-api/internal/service"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
	"github.com/noah-isme/lpk-cms-api/pkg/response"
)

type registrationService interface {
	List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, *response.Pagination, error)
	Get(ctx context.Context, id int64) (*models.Registration, error)
	Lookup(ctx context.Context, number string) (*models.RegistrationStatusView, error)
	Create(ctx context.Context, req service.CreateRegistrationRequest) (*models.Registration, error)
	Update(ctx context.Context, id int64, req service.UpdateRegistrationRequest) (*models.Registration, error)
	Delete(ctx context.Context, id int64) (*models.Registration, error)
	Export(ctx context.Context, filter models.RegistrationFilter, format string) (*service.ExportFile, error)
}

// RegistrationHandler serves program applications.
type RegistrationHandler struct {
	service registrationService
}

// NewRegistrationHandler constructs a registration handler.
func NewRegistrationHandler(svc registrationService) *RegistrationHandler {
	return &RegistrationHandler{service: svc}
}

func registrationFilter(c *gin.Context) models.RegistrationFilter {
	filter := models.RegistrationFilter{
		ListParams: listParams(c),
		Search:     strings.TrimSpace(c.Query("search")),
		Status:     models.RegistrationStatus(strings.TrimSpace(c.Query("status"))),
	}
	if programID, err := strconv.ParseInt(c.Query("program_id"), 10, 64); err == nil {
		filter.ProgramID = &programID
	}
	return filter
}

// Create godoc
// @Summary Submit a registration
// @Description Public endpoint. Allocates the next REG-<year>-<NNN> number; status always starts as pending.
// @Tags Registrations
// @Accept json
// @Produce json
// @Param payload body service.CreateRegistrationRequest true "Applicant details"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /registrations [post]
func (h *RegistrationHandler) Create(c *gin.Context) {
	var req service.CreateRegistrationRequest
	if !bindJSON(c, &req) {
		return
	}
	registration, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, registration)
}

// Lookup godoc
// @Summary Check registration status
// @Tags Registrations
// @Produce json
// @Param registration_number query string true "Registration number"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /registrations/lookup [get]
func (h *RegistrationHandler) Lookup(c *gin.Context) {
	number := strings.TrimSpace(c.Query("registration_number"))
	if number == "" {
		response.Error(c, appErrors.Validation("MISSING_REGISTRATION_NUMBER", "registration_number is required"))
		return
	}
	view, err := h.service.Lookup(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// List godoc
// @Summary List registrations
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search name, email, phone and number"
// @Param status query string false "pending, reviewed, accepted or rejected"
// @Param program_id query int false "Filter by program"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /registrations [get]
func (h *RegistrationHandler) List(c *gin.Context) {
	registrations, pagination, err := h.service.List(c.Request.Context(), registrationFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, registrations, pagination)
}

// Get godoc
// @Summary Get registration
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Success 200 {object} response.Envelope
// @Router /registrations/{id} [get]
func (h *RegistrationHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	registration, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, registration, nil)
}

// Update godoc
// @Summary Update registration
// @Description Any status may be set from any other status.
// @Tags Registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Param payload body service.UpdateRegistrationRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /registrations/{id} [put]
func (h *RegistrationHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.UpdateRegistrationRequest
	if !bindJSON(c, &req) {
		return
	}
	registration, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, registration, nil)
}

// Delete godoc
// @Summary Delete registration
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Success 200 {object} response.Envelope
// @Router /registrations/{id} [delete]
func (h *RegistrationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	registration, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	deleted(c, "Registration", "registration", registration)
}

// Export godoc
// @Summary Export registrations
// @Tags Registrations
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv (default) or pdf"
// @Param search query string false "Search filter"
// @Param status query string false "Status filter"
// @Param program_id query int false "Program filter"
// @Success 200 {file} file
// @Router /registrations/export [get]
func (h *RegistrationHandler) Export(c *gin.Context) {
	file, err := h.service.Export(c.Request.Context(), registrationFilter(c), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
