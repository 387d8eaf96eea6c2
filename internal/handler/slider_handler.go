package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lpk-cms-api/internal/models"
	"github.com/noah-isme/lpk-cms-api/internal/service"
	"github.com/noah-isme/lpk-cms-api/pkg/response"
)

// SliderHandler serves home page banners.
type SliderHandler struct {
	service *service.SliderService
}

func NewSliderHandler(svc *service.SliderService) *SliderHandler {
	return &SliderHandler{service: svc}
}

// List godoc
// @Summary List sliders
// @Description Sliders are ordered by their order column.
// @Tags Sliders
// @Produce json
// @Param search query string false "Search title and subtitle"
// @Param is_active query bool false "Filter by active flag"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /sliders [get]
func (h *SliderHandler) List(c *gin.Context) {
	filter := models.SliderFilter{
		ListParams: listParams(c),
		Search:     strings.TrimSpace(c.Query("search")),
		IsActive:   boolQuery(c, "is_active"),
	}
	sliders, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sliders, pagination)
}

// Get godoc
// @Summary Get slider
// @Tags Sliders
// @Produce json
// @Param id path int true "Slider ID"
// @Success 200 {object} response.Envelope
// @Router /sliders/{id} [get]
func (h *SliderHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	slider, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slider, nil)
}

// Create godoc
// @Summary Create slider
// @Tags Sliders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateSliderRequest true "Slider payload"
// @Success 201 {object} response.Envelope
// @Router /sliders [post]
func (h *SliderHandler) Create(c *gin.Context) {
	var req service.CreateSliderRequest
	if !bindJSON(c, &req) {
		return
	}
	slider, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slider)
}

// Update godoc
// @Summary Update slider
// @Tags Sliders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slider ID"
// @Param payload body service.UpdateSliderRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /sliders/{id} [put]
func (h *SliderHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.UpdateSliderRequest
	if !bindJSON(c, &req) {
		return
	}
	slider, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slider, nil)
}

// Delete godoc
// @Summary Delete slider
// @Tags Sliders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slider ID"
// @Success 200 {object} response.Envelope
// @Router /sliders/{id} [delete]
func (h *SliderHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	slider, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	deleted(c, "Slider", "slider", slider)
}
