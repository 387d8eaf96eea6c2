package service

import (
	"github.com/noah-isme/lpk-cms-api/internal/dto"
	"github.com/noah-isme/lpk-cms-api/internal/models"
)

// BuildOrganizationTree turns a flat member list into a forest. Siblings keep input order.
// Members whose parent is not in the list are dropped.
func BuildOrganizationTree(members []models.OrganizationMember) []*dto.OrganizationNode {
	nodes := make(map[int64]*dto.OrganizationNode, len(members))
	for _, m := range members {
		nodes[m.ID] = &dto.OrganizationNode{OrganizationMember: m, Children: []*dto.OrganizationNode{}}
	}

	roots := make([]*dto.OrganizationNode, 0)
	for _, m := range members {
		node := nodes[m.ID]
		if m.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*m.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		}
	}
	return roots
}

// danglingMembers lists ids whose parent is missing from members.
func danglingMembers(members []models.OrganizationMember) []int64 {
	ids := make(map[int64]struct{}, len(members))
	for _, m := range members {
		ids[m.ID] = struct{}{}
	}
	var dangling []int64
	for _, m := range members {
		if m.ParentID == nil {
			continue
		}
		if _, ok := ids[*m.ParentID]; !ok {
			dangling = append(dangling, m.ID)
		}
	}
	return dangling
}
