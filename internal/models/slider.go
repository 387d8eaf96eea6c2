package models

import "time"

// Slider is a hero banner on the home page.
type Slider struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Subtitle    string    `db:"subtitle" json:"subtitle"`
	ImageURL    string    `db:"image_url" json:"imageUrl"`
	ButtonText  *string   `db:"button_text" json:"buttonText"`
	ButtonLink  *string   `db:"button_link" json:"buttonLink"`
	Description *string   `db:"description" json:"description"`
	Image2URL   *string   `db:"image2_url" json:"image2Url"`
	Order       int       `db:"order" json:"order"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// SliderFilter narrows slider listings.
type SliderFilter struct {
	ListParams
	Search   string
	IsActive *bool
}
