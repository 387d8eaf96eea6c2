package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lpk-cms-api/internal/dto"
	"github.com/noah-isme/lpk-cms-api/internal/models"
	"github.com/noah-isme/lpk-cms-api/internal/service"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
	"github.com/noah-isme/lpk-cms-api/pkg/response"
)

type organizationService interface {
	List(ctx context.Context, filter models.OrganizationMemberFilter) ([]models.OrganizationMember, error)
	Tree(ctx context.Context) ([]*dto.OrganizationNode, error)
	Get(ctx context.Context, id int64) (*models.OrganizationMember, error)
	Create(ctx context.Context, req service.CreateOrganizationMemberRequest) (*models.OrganizationMember, error)
	Update(ctx context.Context, id int64, req service.UpdateOrganizationMemberRequest) (*models.OrganizationMember, error)
	Delete(ctx context.Context, id int64) (*models.OrganizationMember, error)
}

// OrganizationHandler serves the organization chart.
type OrganizationHandler struct {
	service organizationService
}

// NewOrganizationHandler constructs an organization handler.
func NewOrganizationHandler(svc organizationService) *OrganizationHandler {
	return &OrganizationHandler{service: svc}
}

// List godoc
// @Summary List organization members
// @Tags Organization
// @Produce json
// @Param parent_id query string false "Parent member id, or null for top-level members"
// @Param level query int false "Hierarchy level (0-2)"
// @Success 200 {object} response.Envelope
// @Router /organization-members [get]
func (h *OrganizationHandler) List(c *gin.Context) {
	var filter models.OrganizationMemberFilter
	switch raw := strings.TrimSpace(c.Query("parent_id")); raw {
	case "":
	case "null":
		filter.RootsOnly = true
	default:
		parentID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, appErrors.Validation("INVALID_PARENT_ID", "parent_id must be a number or null"))
			return
		}
		filter.ParentID = &parentID
	}
	if raw := strings.TrimSpace(c.Query("level")); raw != "" {
		level, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Validation("INVALID_LEVEL", "level must be a number"))
			return
		}
		filter.Level = &level
	}
	members, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, members, nil)
}

// Tree godoc
// @Summary Organization chart
// @Description Members nested under their parents. Members whose parent no longer exists are left out.
// @Tags Organization
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /organization-members/tree [get]
func (h *OrganizationHandler) Tree(c *gin.Context) {
	tree, err := h.service.Tree(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tree, nil)
}

// Get godoc
// @Summary Get organization member
// @Tags Organization
// @Produce json
// @Param id path int true "Member ID"
// @Success 200 {object} response.Envelope
// @Router /organization-members/{id} [get]
func (h *OrganizationHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	member, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}

// Create godoc
// @Summary Create organization member
// @Tags Organization
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateOrganizationMemberRequest true "Member payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /organization-members [post]
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req service.CreateOrganizationMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	member, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, member)
}

// Update godoc
// @Summary Update organization member
// @Description parentId null moves the member to the top level. Moving a member under its own descendant is rejected.
// @Tags Organization
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Param payload body service.UpdateOrganizationMemberRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /organization-members/{id} [put]
func (h *OrganizationHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.UpdateOrganizationMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	member, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}

// Delete godoc
// @Summary Delete organization member
// @Description Members that still have subordinates cannot be deleted.
// @Tags Organization
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /organization-members/{id} [delete]
func (h *OrganizationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	member, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	deleted(c, "Organization member", "member", member)
}
