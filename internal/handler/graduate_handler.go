package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lpk-cms-api/internal/models"
	"github.com/noah-isme/lpk-cms-api/internal/service"
	"github.com/noah-isme/lpk-cms-api/pkg/response"
)

// GraduateHandler serves alumni testimonials.
type GraduateHandler struct {
	service *service.GraduateService
}

// NewGraduateHandler constructs a graduate handler.
func NewGraduateHandler(svc *service.GraduateService) *GraduateHandler {
	return &GraduateHandler{service: svc}
}

// List godoc
// @Summary List graduates
// @Tags Graduates
// @Produce json
// @Param search query string false "Search name, company and position"
// @Param year query int false "Graduation year"
// @Param country query string false "Placement country"
// @Param sort query string false "Sort column (year, name, created_at)"
// @Param order query string false "asc or desc"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /graduates [get]
func (h *GraduateHandler) List(c *gin.Context) {
	filter := models.GraduateFilter{
		ListParams: listParams(c),
		Search:     strings.TrimSpace(c.Query("search")),
		Country:    strings.TrimSpace(c.Query("country")),
		SortBy:     c.DefaultQuery("sort", "year"),
		SortOrder:  c.DefaultQuery("order", "desc"),
	}
	if year, err := strconv.Atoi(c.Query("year")); err == nil {
		filter.Year = &year
	}
	graduates, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, graduates, pagination)
}

// Get godoc
// @Summary Get graduate by id
// @Tags Graduates
// @Produce json
// @Param id path int true "Graduate ID"
// @Success 200 {object} response.Envelope
// @Router /graduates/{id} [get]
func (h *GraduateHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	graduate, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, graduate, nil)
}

// Create godoc
// @Summary Create graduate
// @Tags Graduates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateGraduateRequest true "Graduate payload"
// @Success 201 {object} response.Envelope
// @Router /graduates [post]
func (h *GraduateHandler) Create(c *gin.Context) {
	var req service.CreateGraduateRequest
	if !bindJSON(c, &req) {
		return
	}
	graduate, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, graduate)
}

// Update godoc
// @Summary Update graduate
// @Tags Graduates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Graduate ID"
// @Param payload body service.UpdateGraduateRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /graduates/{id} [put]
func (h *GraduateHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.UpdateGraduateRequest
	if !bindJSON(c, &req) {
		return
	}
	graduate, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, graduate, nil)
}

// Delete godoc
// @Summary Delete graduate
// @Tags Graduates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Graduate ID"
// @Success 200 {object} response.Envelope
// @Router /graduates/{id} [delete]
func (h *GraduateHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	graduate, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	deleted(c, "Graduate", "graduate", graduate)
}
