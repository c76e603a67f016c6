package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ResultCategory matches the results.category column.
type ResultCategory string

const (
	CategoryTeam       ResultCategory = "team"
	CategoryIndividual ResultCategory = "individual"
	CategoryAthletics  ResultCategory = "athletics"
	CategorySwimming   ResultCategory = "swimming"
)

func (c ResultCategory) Valid() bool {
	switch c {
	case CategoryTeam, CategoryIndividual, CategoryAthletics, CategorySwimming:
		return true
	}
	return false
}

// Gender is the competitive division of a result. GenderMixed covers results
// that are not division specific.
type Gender string

const (
	GenderMen   Gender = "men"
	GenderWomen Gender = "women"
	GenderMixed Gender = "mixed"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMen, GenderWomen, GenderMixed:
		return true
	}
	return false
}

// PointsMode decides which results contribute to the faculty totals.
type PointsMode string

const (
	// PointsModeOverallOnly allocates points only for overall results (empty event label).
	PointsModeOverallOnly PointsMode = "overall-only"
	// PointsModeAlways allocates points for every result.
	PointsModeAlways PointsMode = "always"
)

func (m PointsMode) Valid() bool {
	return m == PointsModeOverallOnly || m == PointsModeAlways
}

// CustomPoints overrides the default place → points table for a single result.
// Stored as JSONB, e.g. {"1": 10, "2": 6}.
type CustomPoints map[int]int

func (c CustomPoints) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal custom points: %w", err)
	}
	// lib/pq sends []byte as bytea, jsonb needs text.
	return string(b), nil
}

func (c *CustomPoints) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*c = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for custom points", src)
	}
	if len(raw) == 0 {
		*c = nil
		return nil
	}
	parsed := make(CustomPoints)
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("unmarshal custom points: %w", err)
	}
	*c = parsed
	return nil
}

// Validate rejects non-positive places and negative point values.
func (c CustomPoints) Validate() error {
	for place, pts := range c {
		if place <= 0 {
			return fmt.Errorf("custom points: place must be positive, got %d", place)
		}
		if pts < 0 {
			return fmt.Errorf("custom points: points for place %d must not be negative, got %d", place, pts)
		}
	}
	return nil
}

// PointsPolicy is the pair (custom table, mode) used to allocate a result's points.
type PointsPolicy struct {
	CustomPoints CustomPoints `json:"custom_points,omitempty"`
	Mode         PointsMode   `json:"mode"`
}

// Result is one judged event, or the overall record of a sport when Event is empty.
type Result struct {
	ID           int            `json:"id" db:"id"`
	Event        *string        `json:"event,omitempty" db:"event"`
	SportID      int            `json:"sport_id" db:"sport_id"`
	Category     ResultCategory `json:"category" db:"category"`
	Gender       Gender         `json:"gender" db:"gender"`
	EventDate    time.Time      `json:"event_date" db:"event_date"`
	EventTime    *string        `json:"event_time,omitempty" db:"event_time"` // HH:MM
	CustomPoints CustomPoints   `json:"custom_points,omitempty" db:"custom_points"`
	PointsMode   PointsMode     `json:"points_mode" db:"points_mode"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`

	// PointsApplied is set while the faculty counters hold this result's
	// allocation under its stored policy.
	PointsApplied bool `json:"points_applied" db:"points_applied"`

	Sport        *Sport        `json:"sport,omitempty" db:"-"`
	Placements   []Placement   `json:"placements,omitempty" db:"-"`
	Participants []Participant `json:"participants,omitempty" db:"-"`
}

// IsOverall reports whether the result is the aggregate record of its sport.
func (r *Result) IsOverall() bool {
	return r.Event == nil || strings.TrimSpace(*r.Event) == ""
}

func (r *Result) Policy() PointsPolicy {
	return PointsPolicy{CustomPoints: r.CustomPoints, Mode: r.PointsMode}
}

type ResultFilter struct {
	SportID     *int
	Category    *ResultCategory
	Gender      *Gender
	EventDate   *time.Time
	OverallOnly bool
	Limit       int
	Offset      int
}

// Placement records that a faculty finished in Place (1 = first) for a result.
type Placement struct {
	ResultID    int    `json:"result_id" db:"result_id"`
	Place       int    `json:"place" db:"place"`
	FacultyID   int    `json:"faculty_id" db:"faculty_id"`
	FacultyName string `json:"faculty_name,omitempty" db:"-"`
}

// Participant is a faculty credited with a flat point value without a ranked place.
type Participant struct {
	ResultID    int    `json:"result_id" db:"result_id"`
	FacultyID   int    `json:"faculty_id" db:"faculty_id"`
	Points      int    `json:"points" db:"points"`
	FacultyName string `json:"faculty_name,omitempty" db:"-"`
}
