package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lpk-cms-api/internal/models"
	"github.com/noah-isme/lpk-cms-api/internal/service"
	"github.com/noah-isme/lpk-cms-api/pkg/response"
)

// GalleryHandler serves photo gallery items.
type GalleryHandler struct {
	service *service.GalleryService
}

func NewGalleryHandler(svc *service.GalleryService) *GalleryHandler {
	return &GalleryHandler{service: svc}
}

// List godoc
// @Summary List gallery items
// @Tags Gallery
// @Produce json
// @Param search query string false "Search title and description"
// @Param category query string false "Filter by category"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /gallery [get]
func (h *GalleryHandler) List(c *gin.Context) {
	filter := models.GalleryFilter{
		ListParams: listParams(c),
		Search:     strings.TrimSpace(c.Query("search")),
		Category:   strings.TrimSpace(c.Query("category")),
	}
	items, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get gallery item
// @Tags Gallery
// @Produce json
// @Param id path int true "Gallery item ID"
// @Success 200 {object} response.Envelope
// @Router /gallery/{id} [get]
func (h *GalleryHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create gallery item
// @Tags Gallery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateGalleryItemRequest true "Gallery payload"
// @Success 201 {object} response.Envelope
// @Router /gallery [post]
func (h *GalleryHandler) Create(c *gin.Context) {
	var req service.CreateGalleryItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update gallery item
// @Tags Gallery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Gallery item ID"
// @Param payload body service.UpdateGalleryItemRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /gallery/{id} [put]
func (h *GalleryHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.UpdateGalleryItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete gallery item
// @Tags Gallery
// @Produce json
// @Security BearerAuth
// @Param id path int true "Gallery item ID"
// @Success 200 {object} response.Envelope
// @Router /gallery/{id} [delete]
func (h *GalleryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	deleted(c, "Gallery item", "item", item)
}
