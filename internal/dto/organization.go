package dto

import "github.com/noah-isme/lpk-cms-api/internal/models"

// OrganizationNode is a member with its direct reports nested beneath it.
type OrganizationNode struct {
	models.OrganizationMember
	Children []*OrganizationNode `json:"children"`
}
