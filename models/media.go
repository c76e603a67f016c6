package models

import "time"

// Media is an image in the event gallery.
type Media struct {
	ID          int       `json:"id" db:"id"`
	ObjectKey   string    `json:"-" db:"object_key"`
	URL         string    `json:"url" db:"url"`
	Title       string    `json:"title" db:"title"`
	ContentType string    `json:"content_type" db:"content_type"`
	SportID     *int      `json:"sport_id,omitempty" db:"sport_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
