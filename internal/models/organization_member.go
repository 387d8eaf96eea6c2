package models

import "time"

const (
	MinOrganizationLevel = 0
	MaxOrganizationLevel = 2
)

// OrganizationMember is one node of the reporting hierarchy. Level is an editorial tier, not tree depth.
type OrganizationMember struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Position  string    `db:"position" json:"position"`
	PhotoURL  *string   `db:"photo_url" json:"photoUrl"`
	ParentID  *int64    `db:"parent_id" json:"parentId"`
	Order     int       `db:"order" json:"order"`
	Level     int       `db:"level" json:"level"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// OrganizationMemberFilter narrows member listings. RootsOnly selects members without a parent.
type OrganizationMemberFilter struct {
	ParentID  *int64
	RootsOnly bool
	Level     *int
}
