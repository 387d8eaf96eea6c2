package models

import "time"

// News is an announcement published on the site.
type News struct {
	ID          int64      `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Slug        string     `db:"slug" json:"slug"`
	Content     string     `db:"content" json:"content"`
	Excerpt     string     `db:"excerpt" json:"excerpt"`
	ImageURL    *string    `db:"image_url" json:"imageUrl"`
	Category    string     `db:"category" json:"category"`
	PublishedAt *time.Time `db:"published_at" json:"publishedAt"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// NewsFilter narrows news listings. Published restricts to items with a publish date in the past.
type NewsFilter struct {
	ListParams
	Search    string
	Category  string
	Published bool
}
