package models

import "time"

// Program is a training or placement program offered by the institute.
type Program struct {
	ID           int64     `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	Duration     string    `db:"duration" json:"duration"`
	Requirements string    `db:"requirements" json:"requirements"`
	Benefits     string    `db:"benefits" json:"benefits"`
	ImageURL     *string   `db:"image_url" json:"imageUrl"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// ProgramFilter narrows program listings.
type ProgramFilter struct {
	ListParams
	Search   string
	IsActive *bool
}
