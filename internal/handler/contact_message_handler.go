package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lpk-cms-api/internal/models"
	"github.com/noah-isme/lpk-cms-api/internal/service"
	"github.com/noah-isme/lpk-cms-api/pkg/response"
)

// ContactMessageHandler accepts public enquiries and lets admins triage them.
type ContactMessageHandler struct {
	service *service.ContactMessageService
}

func NewContactMessageHandler(svc *service.ContactMessageService) *ContactMessageHandler {
	return &ContactMessageHandler{service: svc}
}

// List godoc
// @Summary List contact messages
// @Tags ContactMessages
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search name, email, subject and message"
// @Param status query string false "new, read or replied"
// @Param order query string false "asc or desc by created_at"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /contact-messages [get]
func (h *ContactMessageHandler) List(c *gin.Context) {
	filter := models.ContactMessageFilter{
		ListParams: listParams(c),
		Search:     strings.TrimSpace(c.Query("search")),
		Status:     strings.TrimSpace(c.Query("status")),
		SortOrder:  c.DefaultQuery("order", "desc"),
	}
	messages, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, messages, pagination)
}

// Get godoc
// @Summary Get contact message
// @Tags ContactMessages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} response.Envelope
// @Router /contact-messages/{id} [get]
func (h *ContactMessageHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	message, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, message, nil)
}

// Create godoc
// @Summary Submit contact message
// @Description Public endpoint. New messages always start with status new.
// @Tags ContactMessages
// @Accept json
// @Produce json
// @Param payload body service.CreateContactMessageRequest true "Message payload"
// @Success 201 {object} response.Envelope
// @Router /contact-messages [post]
func (h *ContactMessageHandler) Create(c *gin.Context) {
	var req service.CreateContactMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	message, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, message)
}

// Update godoc
// @Summary Update contact message
// @Tags ContactMessages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Param payload body service.UpdateContactMessageRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /contact-messages/{id} [put]
func (h *ContactMessageHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.UpdateContactMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	message, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, message, nil)
}

// Delete godoc
// @Summary Delete contact message
// @Tags ContactMessages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} response.Envelope
// @Router /contact-messages/{id} [delete]
func (h *ContactMessageHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	message, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	deleted(c, "Contact message", "contactMessage", message)
}
