package models

// Sport is a discipline of the meet.
type Sport struct {
	ID       int            `json:"id" db:"id"`
	Name     string         `json:"name" db:"name"`
	Category ResultCategory `json:"category" db:"category"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}
