package standings

import (
	"sort"

	"github.com/Dosada05/sportsmeet/models"
)

// PointsFor returns the total of p that counts for division.
func PointsFor(p models.FacultyPoints, division models.Division) int {
	switch division {
	case models.DivisionMen:
		return p.MensPoints
	case models.DivisionWomen:
		return p.WomensPoints
	default:
		return p.Total()
	}
}

// Rank orders entries by points (desc) then name (asc) and assigns
// competition ranks: tied entries share a rank and the next distinct total
// gets the 1-based position of its first entry (500, 500, 480 → 1, 1, 3).
func Rank(entries []models.Standing) []models.Standing {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].Name < entries[j].Name
	})
	for i := range entries {
		if i > 0 && entries[i].Points == entries[i-1].Points {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
	return entries
}
