package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lpk-cms-api/internal/service"
	"github.com/noah-isme/lpk-cms-api/pkg/response"
)

// ProfileSectionHandler serves the institute profile blocks (vision, mission, history).
type ProfileSectionHandler struct {
	service *service.ProfileSectionService
}

func NewProfileSectionHandler(svc *service.ProfileSectionService) *ProfileSectionHandler {
	return &ProfileSectionHandler{service: svc}
}

// List godoc
// @Summary List profile sections
// @Tags ProfileSections
// @Produce json
// @Param section query string false "Return only the named section"
// @Success 200 {object} response.Envelope
// @Router /profile-sections [get]
func (h *ProfileSectionHandler) List(c *gin.Context) {
	if key := c.Query("section"); key != "" {
		section, err := h.service.GetBySection(c.Request.Context(), key)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, section, nil)
		return
	}
	sections, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sections, nil)
}

// Get godoc
// @Summary Get profile section
// @Tags ProfileSections
// @Produce json
// @Param id path int true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /profile-sections/{id} [get]
func (h *ProfileSectionHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	section, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, section, nil)
}

// Create godoc
// @Summary Create profile section
// @Tags ProfileSections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateProfileSectionRequest true "Section payload"
// @Success 201 {object} response.Envelope
// @Router /profile-sections [post]
func (h *ProfileSectionHandler) Create(c *gin.Context) {
	var req service.CreateProfileSectionRequest
	if !bindJSON(c, &req) {
		return
	}
	section, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, section)
}

// Update godoc
// @Summary Update profile section
// @Tags ProfileSections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Section ID"
// @Param payload body service.UpdateProfileSectionRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /profile-sections/{id} [put]
func (h *ProfileSectionHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.UpdateProfileSectionRequest
	if !bindJSON(c, &req) {
		return
	}
	section, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, section, nil)
}

// Delete godoc
// @Summary Delete profile section
// @Tags ProfileSections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /profile-sections/{id} [delete]
func (h *ProfileSectionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	section, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	deleted(c, "Profile section", "section", section)
}
