package models

import "time"

// FacultyPoints holds a faculty's accumulated points in both divisions.
type FacultyPoints struct {
	FacultyID    int       `json:"faculty_id" db:"faculty_id"`
	MensPoints   int       `json:"mens_points" db:"mens_points"`
	WomensPoints int       `json:"womens_points" db:"womens_points"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (p FacultyPoints) Total() int {
	return p.MensPoints + p.WomensPoints
}

// PointsDelta is a change to the two division counters of one faculty.
type PointsDelta struct {
	Mens   int `json:"mens"`
	Womens int `json:"womens"`
}

func (d PointsDelta) IsZero() bool {
	return d.Mens == 0 && d.Womens == 0
}

func (d PointsDelta) Add(o PointsDelta) PointsDelta {
	return PointsDelta{Mens: d.Mens + o.Mens, Womens: d.Womens + o.Womens}
}

// FacultyDelta is the share of an allocation that goes to one faculty.
type FacultyDelta struct {
	FacultyID int         `json:"faculty_id"`
	Delta     PointsDelta `json:"delta"`
}

// PointsAllocation describes the points one result contributes, sorted by faculty id.
type PointsAllocation struct {
	ResultID int            `json:"result_id"`
	Gender   Gender         `json:"gender"`
	Policy   PointsPolicy   `json:"policy"`
	Deltas   []FacultyDelta `json:"deltas"`
}

func (a *PointsAllocation) Empty() bool {
	return a == nil || len(a.Deltas) == 0
}

// Division selects which counter the standings are ranked by.
type Division string

const (
	DivisionMen     Division = "men"
	DivisionWomen   Division = "women"
	DivisionOverall Division = "overall"
)

func (d Division) Valid() bool {
	return d == DivisionMen || d == DivisionWomen || d == DivisionOverall
}

// Standing is one ranked row of the leaderboard.
type Standing struct {
	Rank         int     `json:"rank"`
	FacultyID    int     `json:"faculty_id"`
	Name         string  `json:"name"`
	ShortName    string  `json:"short_name,omitempty"`
	LogoURL      *string `json:"logo_url,omitempty"`
	MensPoints   int     `json:"mens_points"`
	WomensPoints int     `json:"womens_points"`
	Points       int     `json:"points"`
}
