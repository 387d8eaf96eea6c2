package models

import "time"

// DefaultGraduateCountry is stored when a graduate is created without a country.
const DefaultGraduateCountry = "Japan"

// Graduate is an alumni success story.
type Graduate struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	PhotoURL    *string   `db:"photo_url" json:"photoUrl"`
	Company     string    `db:"company" json:"company"`
	Position    string    `db:"position" json:"position"`
	Year        int       `db:"year" json:"year"`
	Testimonial string    `db:"testimonial" json:"testimonial"`
	Country     string    `db:"country" json:"country"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// GraduateFilter narrows graduate listings.
type GraduateFilter struct {
	ListParams
	Search    string
	Year      *int
	Country   string
	SortBy    string
	SortOrder string
}
