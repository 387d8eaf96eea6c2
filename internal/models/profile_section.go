package models

import "time"

// ProfileSection is a named block of the institute profile page.
type ProfileSection struct {
	ID        int64     `db:"id" json:"id"`
	Section   string    `db:"section" json:"section"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	ImageURL  *string   `db:"image_url" json:"imageUrl"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
