package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lpk-cms-api/internal/service"
	"github.com/noah-isme/lpk-cms-api/pkg/response"
)

// SiteSettingHandler exposes key/value site configuration.
type SiteSettingHandler struct {
	service *service.SiteSettingService
}

func NewSiteSettingHandler(svc *service.SiteSettingService) *SiteSettingHandler {
	return &SiteSettingHandler{service: svc}
}

// settingRef resolves /site-settings/:ref. Numeric refs address the id, anything else the key.
func settingRef(c *gin.Context) service.SettingRef {
	raw := c.Param("ref")
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
		return service.SettingRef{ID: &id}
	}
	return service.SettingRef{Key: raw}
}

// List godoc
// @Summary List site settings
// @Tags SiteSettings
// @Produce json
// @Param key query string false "Return only the setting with this key"
// @Success 200 {object} response.Envelope
// @Router /site-settings [get]
func (h *SiteSettingHandler) List(c *gin.Context) {
	if key := c.Query("key"); key != "" {
		setting, err := h.service.Get(c.Request.Context(), service.SettingRef{Key: key})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, setting, nil)
		return
	}
	settings, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// Get godoc
// @Summary Get site setting by id or key
// @Tags SiteSettings
// @Produce json
// @Param ref path string true "Setting ID or key"
// @Success 200 {object} response.Envelope
// @Router /site-settings/{ref} [get]
func (h *SiteSettingHandler) Get(c *gin.Context) {
	setting, err := h.service.Get(c.Request.Context(), settingRef(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, setting, nil)
}

// Create godoc
// @Summary Create site setting
// @Tags SiteSettings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateSiteSettingRequest true "Setting payload"
// @Success 201 {object} response.Envelope
// @Router /site-settings [post]
func (h *SiteSettingHandler) Create(c *gin.Context) {
	var req service.CreateSiteSettingRequest
	if !bindJSON(c, &req) {
		return
	}
	setting, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, setting)
}

// Update godoc
// @Summary Update site setting
// @Tags SiteSettings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ref path string true "Setting ID or key"
// @Param payload body service.UpdateSiteSettingRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /site-settings/{ref} [put]
func (h *SiteSettingHandler) Update(c *gin.Context) {
	var req service.UpdateSiteSettingRequest
	if !bindJSON(c, &req) {
		return
	}
	setting, err := h.service.Update(c.Request.Context(), settingRef(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, setting, nil)
}

// Delete godoc
// @Summary Delete site setting
// @Tags SiteSettings
// @Produce json
// @Security BearerAuth
// @Param ref path string true "Setting ID or key"
// @Success 200 {object} response.Envelope
// @Router /site-settings/{ref} [delete]
func (h *SiteSettingHandler) Delete(c *gin.Context) {
	setting, err := h.service.Delete(c.Request.Context(), settingRef(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	deleted(c, "Site setting", "setting", setting)
}
