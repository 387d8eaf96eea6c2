package models

import "time"

// ContactMessageStatusNew is assigned to freshly submitted messages.
const ContactMessageStatusNew = "new"

// ContactMessage is an inquiry submitted through the public contact form.
type ContactMessage struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone"`
	Subject   string    `db:"subject" json:"subject"`
	Message   string    `db:"message" json:"message"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// ContactMessageFilter narrows contact message listings.
type ContactMessageFilter struct {
	ListParams
	Search    string
	Status    string
	SortOrder string
}
