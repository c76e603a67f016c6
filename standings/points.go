// Package standings holds the pure scoring rules of the sports meet: how many
// points a place is worth, how a result's placements turn into per-faculty
// counter deltas, and how faculty totals are ranked.
package standings

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Dosada05/sportsmeet/models"
)

// DefaultParticipationPoints is credited to a non-placed participant when no override is given.
const DefaultParticipationPoints = 1

// fallbackPlacePoints applies to every place not present in the default table.
const fallbackPlacePoints = 1

var defaultPlacePoints = map[int]int{
	1: 7,
	2: 5,
	3: 3,
	4: 2,
}

var (
	ErrInvalidPlace             = errors.New("place must be a positive integer")
	ErrInvalidParticipantPoints = errors.New("participant points must not be negative")
)

// ScoreForPlace returns custom[place] when the custom table defines it,
// otherwise the default table: 7, 5, 3, 2 for places 1-4 and 1 beyond.
func ScoreForPlace(place int, custom models.CustomPoints) (int, error) {
	if place <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidPlace, place)
	}
	if pts, ok := custom[place]; ok {
		return pts, nil
	}
	if pts, ok := defaultPlacePoints[place]; ok {
		return pts, nil
	}
	return fallbackPlacePoints, nil
}

// Eligible reports whether a result takes part in the totals under mode.
func Eligible(result *models.Result, mode models.PointsMode) bool {
	if result == nil {
		return false
	}
	if mode == models.PointsModeAlways {
		return true
	}
	return result.IsOverall()
}

// DeltaFor routes points to a division counter. Mixed results count towards
// the men's counter.
func DeltaFor(gender models.Gender, points int) models.PointsDelta {
	if gender == models.GenderWomen {
		return models.PointsDelta{Womens: points}
	}
	return models.PointsDelta{Mens: points}
}

// PlacementTotals sums place scores per faculty. Tied faculties each get the
// full score of the shared place.
func PlacementTotals(placements []models.Placement, custom models.CustomPoints) (map[int]int, error) {
	totals := make(map[int]int, len(placements))
	for _, p := range placements {
		pts, err := ScoreForPlace(p.Place, custom)
		if err != nil {
			return nil, fmt.Errorf("faculty %d: %w", p.FacultyID, err)
		}
		totals[p.FacultyID] += pts
	}
	return totals, nil
}

// EligibleParticipants drops participants whose faculty already holds a
// placement, and keeps only the first entry per faculty.
func EligibleParticipants(participants []models.Participant, placements []models.Placement) []models.Participant {
	placed := make(map[int]struct{}, len(placements))
	for _, p := range placements {
		placed[p.FacultyID] = struct{}{}
	}
	out := make([]models.Participant, 0, len(participants))
	for _, p := range participants {
		if _, ok := placed[p.FacultyID]; ok {
			continue
		}
		placed[p.FacultyID] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Allocate computes the counter deltas a result contributes under policy.
// It returns nil when the result is not eligible or nothing would change.
func Allocate(result *models.Result, placements []models.Placement, participants []models.Participant, policy models.PointsPolicy) (*models.PointsAllocation, error) {
	if !Eligible(result, policy.Mode) {
		return nil, nil
	}

	totals, err := PlacementTotals(placements, policy.CustomPoints)
	if err != nil {
		return nil, err
	}
	for _, p := range EligibleParticipants(participants, placements) {
		if p.Points < 0 {
			return nil, fmt.Errorf("faculty %d: %w", p.FacultyID, ErrInvalidParticipantPoints)
		}
		totals[p.FacultyID] += p.Points
	}

	alloc := &models.PointsAllocation{
		ResultID: result.ID,
		Gender:   result.Gender,
		Policy:   policy,
		Deltas:   make([]models.FacultyDelta, 0, len(totals)),
	}
	for facultyID, pts := range totals {
		delta := DeltaFor(result.Gender, pts)
		if delta.IsZero() {
			continue
		}
		alloc.Deltas = append(alloc.Deltas, models.FacultyDelta{FacultyID: facultyID, Delta: delta})
	}
	if len(alloc.Deltas) == 0 {
		return nil, nil
	}
	// Stable lock order for the counter rows.
	sort.Slice(alloc.Deltas, func(i, j int) bool {
		return alloc.Deltas[i].FacultyID < alloc.Deltas[j].FacultyID
	})
	return alloc, nil
}

// ApplyDelta adds d to p, or subtracts it when negate is set, never letting a
// counter drop below zero.
func ApplyDelta(p models.FacultyPoints, d models.PointsDelta, negate bool) models.FacultyPoints {
	if negate {
		p.MensPoints = max(p.MensPoints-d.Mens, 0)
		p.WomensPoints = max(p.WomensPoints-d.Womens, 0)
		return p
	}
	p.MensPoints += d.Mens
	p.WomensPoints += d.Womens
	return p
}
