package standings_test

import (
	"errors"
	"testing"

	"github.com/Dosada05/sportsmeet/models"
	"github.com/Dosada05/sportsmeet/standings"
	. "github.com/smartystreets/goconvey/convey"
)

func strPtr(s string) *string { return &s }

func TestScoreForPlace(t *testing.T) {
	Convey("Given the default points table", t, func() {
		Convey("Places 1-4 are worth 7, 5, 3 and 2", func() {
			for place, want := range map[int]int{1: 7, 2: 5, 3: 3, 4: 2} {
				got, err := standings.ScoreForPlace(place, nil)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
		})

		Convey("Every place from 5 on is worth 1", func() {
			for _, place := range []int{5, 6, 12, 100} {
				got, err := standings.ScoreForPlace(place, nil)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 1)
			}
		})

		Convey("Non-positive places fail fast", func() {
			for _, place := range []int{0, -1} {
				_, err := standings.ScoreForPlace(place, nil)
				So(errors.Is(err, standings.ErrInvalidPlace), ShouldBeTrue)
			}
		})
	})

	Convey("Given a custom table", t, func() {
		custom := models.CustomPoints{1: 10, 5: 4}

		Convey("Defined places use the custom value", func() {
			got, err := standings.ScoreForPlace(1, custom)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, 10)

			got, err = standings.ScoreForPlace(5, custom)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, 4)
		})

		Convey("Undefined places fall back to the default table", func() {
			got, err := standings.ScoreForPlace(2, custom)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, 5)

			got, err = standings.ScoreForPlace(6, custom)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, 1)
		})
	})
}

func TestAllocate(t *testing.T) {
	overallPolicy := models.PointsPolicy{Mode: models.PointsModeOverallOnly}

	Convey("Given an overall men's result", t, func() {
		result := &models.Result{ID: 1, Gender: models.GenderMen}

		Convey("When two faculties tie for first", func() {
			placements := []models.Placement{
				{Place: 1, FacultyID: 10},
				{Place: 1, FacultyID: 20},
				{Place: 3, FacultyID: 30},
			}
			alloc, err := standings.Allocate(result, placements, nil, overallPolicy)

			Convey("Then both receive the full first-place score", func() {
				So(err, ShouldBeNil)
				So(alloc.Deltas, ShouldResemble, []models.FacultyDelta{
					{FacultyID: 10, Delta: models.PointsDelta{Mens: 7}},
					{FacultyID: 20, Delta: models.PointsDelta{Mens: 7}},
					{FacultyID: 30, Delta: models.PointsDelta{Mens: 3}},
				})
			})
		})

		Convey("When a participant is also placed", func() {
			placements := []models.Placement{{Place: 2, FacultyID: 10}}
			participants := []models.Participant{
				{FacultyID: 10, Points: 1},
				{FacultyID: 40, Points: 1},
				{FacultyID: 40, Points: 3},
			}
			alloc, err := standings.Allocate(result, placements, participants, overallPolicy)

			Convey("Then the placed faculty gets only its placement score", func() {
				So(err, ShouldBeNil)
				So(alloc.Deltas, ShouldResemble, []models.FacultyDelta{
					{FacultyID: 10, Delta: models.PointsDelta{Mens: 5}},
					{FacultyID: 40, Delta: models.PointsDelta{Mens: 1}},
				})
			})
		})

		Convey("When a placement has an invalid place", func() {
			_, err := standings.Allocate(result, []models.Placement{{Place: 0, FacultyID: 1}}, nil, overallPolicy)
			So(errors.Is(err, standings.ErrInvalidPlace), ShouldBeTrue)
		})

		Convey("When there is nothing to allocate", func() {
			alloc, err := standings.Allocate(result, nil, nil, overallPolicy)
			So(err, ShouldBeNil)
			So(alloc, ShouldBeNil)
		})
	})

	Convey("Given results of each division", t, func() {
		placements := []models.Placement{{Place: 1, FacultyID: 1}}

		Convey("Women's results add to the women's counter only", func() {
			alloc, err := standings.Allocate(&models.Result{Gender: models.GenderWomen}, placements, nil, overallPolicy)
			So(err, ShouldBeNil)
			So(alloc.Deltas[0].Delta, ShouldResemble, models.PointsDelta{Womens: 7})
		})

		Convey("Men's results add to the men's counter only", func() {
			alloc, err := standings.Allocate(&models.Result{Gender: models.GenderMen}, placements, nil, overallPolicy)
			So(err, ShouldBeNil)
			So(alloc.Deltas[0].Delta, ShouldResemble, models.PointsDelta{Mens: 7})
		})

		Convey("Mixed results add to the men's counter", func() {
			alloc, err := standings.Allocate(&models.Result{Gender: models.GenderMixed}, placements, nil, overallPolicy)
			So(err, ShouldBeNil)
			So(alloc.Deltas[0].Delta, ShouldResemble, models.PointsDelta{Mens: 7})
		})
	})

	Convey("Given a labelled heat", t, func() {
		heat := &models.Result{ID: 2, Event: strPtr("Relay Heat 3"), Gender: models.GenderMen}
		placements := []models.Placement{{Place: 1, FacultyID: 1}}

		Convey("overall-only skips it", func() {
			alloc, err := standings.Allocate(heat, placements, nil, overallPolicy)
			So(err, ShouldBeNil)
			So(alloc, ShouldBeNil)
		})

		Convey("always allocates it", func() {
			alloc, err := standings.Allocate(heat, placements, nil, models.PointsPolicy{Mode: models.PointsModeAlways})
			So(err, ShouldBeNil)
			So(alloc.Deltas, ShouldHaveLength, 1)
		})

		Convey("A blank label still counts as overall", func() {
			So(standings.Eligible(&models.Result{Event: strPtr("  ")}, models.PointsModeOverallOnly), ShouldBeTrue)
		})
	})
}

func TestApplyDelta(t *testing.T) {
	Convey("Given a faculty with points in both divisions", t, func() {
		start := models.FacultyPoints{FacultyID: 1, MensPoints: 5, WomensPoints: 2}

		Convey("Adding then subtracting the same delta restores it", func() {
			d := models.PointsDelta{Mens: 7, Womens: 3}
			got := standings.ApplyDelta(standings.ApplyDelta(start, d, false), d, true)
			So(got, ShouldResemble, start)
		})

		Convey("Subtracting more than held floors at zero", func() {
			got := standings.ApplyDelta(start, models.PointsDelta{Mens: 9, Womens: 9}, true)
			So(got.MensPoints, ShouldEqual, 0)
			So(got.WomensPoints, ShouldEqual, 0)
		})
	})
}
