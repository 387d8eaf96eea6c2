package models

import "time"

// GalleryItem is a photo shown in the gallery.
type GalleryItem struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	ImageURL    string    `db:"image_url" json:"imageUrl"`
	Description *string   `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// GalleryFilter narrows gallery listings.
type GalleryFilter struct {
	ListParams
	Search   string
	Category string
}
