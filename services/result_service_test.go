package services_test

import (
	"errors"
	"testing"

	"github.com/Dosada05/sportsmeet/models"
	"github.com/Dosada05/sportsmeet/services"
	. "github.com/smartystreets/goconvey/convey"
)

func createInput() services.CreateResultInput {
	return services.CreateResultInput{
		SportID:   football,
		Category:  models.CategoryTeam,
		Gender:    models.GenderMen,
		EventDate: "2025-04-12",
		EventTime: strPtr("14:30"),
		Placements: []services.PlacementInput{
			{Place: 1, FacultyID: engineering},
			{Place: 2, FacultyID: science},
		},
		Participants: []services.ParticipantInput{{FacultyID: law}},
	}
}

func TestCreateResult(t *testing.T) {
	Convey("Given the results service", t, func() {
		env := newTestEnv()

		Convey("Creating an overall result stores it and awards its points", func() {
			result, err := env.results.CreateResult(env.ctx, createInput())
			So(err, ShouldBeNil)
			So(result.ID, ShouldBeGreaterThan, 0)
			So(result.PointsMode, ShouldEqual, models.PointsModeOverallOnly)
			So(*result.EventTime, ShouldEqual, "14:30")
			So(len(result.Placements), ShouldEqual, 2)
			So(len(result.Participants), ShouldEqual, 1)

			So(mens(env.store, engineering), ShouldEqual, 7)
			So(mens(env.store, science), ShouldEqual, 5)
			So(mens(env.store, law), ShouldEqual, 1)
			So(env.observer.operations[services.OpCreateResult], ShouldEqual, 1)
		})

		Convey("A blank event label makes the result overall", func() {
			input := createInput()
			input.Event = strPtr("   ")
			result, err := env.results.CreateResult(env.ctx, input)
			So(err, ShouldBeNil)
			So(result.Event, ShouldBeNil)
			So(mens(env.store, engineering), ShouldEqual, 7)
		})

		Convey("A heat result is stored without points", func() {
			input := createInput()
			input.Event = strPtr("Semi-final")
			result, err := env.results.CreateResult(env.ctx, input)
			So(err, ShouldBeNil)
			So(*result.Event, ShouldEqual, "Semi-final")
			_, ok := env.store.points[engineering]
			So(ok, ShouldBeFalse)
		})

		Convey("An unknown sport is reported and nothing is stored", func() {
			input := createInput()
			input.SportID = 77
			_, err := env.results.CreateResult(env.ctx, input)
			So(errors.Is(err, services.ErrSportNotFound), ShouldBeTrue)
			So(env.store.results, ShouldBeEmpty)
		})

		Convey("An unknown faculty rolls back the created result", func() {
			input := createInput()
			input.Placements = append(input.Placements, services.PlacementInput{Place: 3, FacultyID: 99})
			_, err := env.results.CreateResult(env.ctx, input)
			So(errors.Is(err, services.ErrResultFacultyInvalid), ShouldBeTrue)
			So(env.store.results, ShouldBeEmpty)
			So(env.store.points, ShouldBeEmpty)
		})

		Convey("Invalid attributes fail validation", func() {
			cases := []func(in *services.CreateResultInput){
				func(in *services.CreateResultInput) { in.Gender = "open" },
				func(in *services.CreateResultInput) { in.Category = "esports" },
				func(in *services.CreateResultInput) { in.EventDate = "12.04.2025" },
				func(in *services.CreateResultInput) { in.EventTime = strPtr("25:99") },
				func(in *services.CreateResultInput) { in.SportID = 0 },
			}
			for _, mutate := range cases {
				input := createInput()
				mutate(&input)
				_, err := env.results.CreateResult(env.ctx, input)
				So(errors.Is(err, services.ErrValidationFailed), ShouldBeTrue)
			}
			So(env.store.results, ShouldBeEmpty)
		})

		Convey("An unknown points mode and a bad custom table are rejected", func() {
			input := createInput()
			input.PointsMode = "never"
			_, err := env.results.CreateResult(env.ctx, input)
			So(errors.Is(err, services.ErrInvalidPointsMode), ShouldBeTrue)

			input = createInput()
			input.CustomPoints = models.CustomPoints{1: -3}
			_, err = env.results.CreateResult(env.ctx, input)
			So(errors.Is(err, services.ErrInvalidCustomPoints), ShouldBeTrue)
		})

		Convey("A faculty placed twice is rejected", func() {
			input := createInput()
			input.Placements = append(input.Placements, services.PlacementInput{Place: 3, FacultyID: engineering})
			_, err := env.results.CreateResult(env.ctx, input)
			So(errors.Is(err, services.ErrDuplicatePlacementFaculty), ShouldBeTrue)
		})
	})
}

func TestUpdateResult(t *testing.T) {
	Convey("Given a created overall men's result", t, func() {
		env := newTestEnv()
		input := createInput()
		input.Participants = nil
		created, err := env.results.CreateResult(env.ctx, input)
		So(err, ShouldBeNil)
		So(mens(env.store, engineering), ShouldEqual, 7)

		Convey("Labelling it as a heat removes its points", func() {
			updated, err := env.results.UpdateResult(env.ctx, created.ID, services.UpdateResultInput{Event: strPtr("Heat 1")})
			So(err, ShouldBeNil)
			So(updated.IsOverall(), ShouldBeFalse)
			So(mens(env.store, engineering), ShouldEqual, 0)
			So(mens(env.store, science), ShouldEqual, 0)
			So(env.store.results[created.ID].PointsApplied, ShouldBeFalse)

			Convey("Clearing the label awards them again", func() {
				_, err := env.results.UpdateResult(env.ctx, created.ID, services.UpdateResultInput{Event: strPtr("")})
				So(err, ShouldBeNil)
				So(mens(env.store, engineering), ShouldEqual, 7)
			})
		})

		Convey("Changing the gender moves points between divisions", func() {
			women := models.GenderWomen
			_, err := env.results.UpdateResult(env.ctx, created.ID, services.UpdateResultInput{Gender: &women})
			So(err, ShouldBeNil)
			So(mens(env.store, engineering), ShouldEqual, 0)
			So(womens(env.store, engineering), ShouldEqual, 7)
			So(womens(env.store, science), ShouldEqual, 5)
		})

		Convey("Changing the custom table re-scores the placements", func() {
			_, err := env.results.UpdateResult(env.ctx, created.ID, services.UpdateResultInput{
				CustomPoints: models.CustomPoints{1: 15, 2: 9},
			})
			So(err, ShouldBeNil)
			So(mens(env.store, engineering), ShouldEqual, 15)
			So(mens(env.store, science), ShouldEqual, 9)
		})

		Convey("A failed update changes nothing", func() {
			_, err := env.results.UpdateResult(env.ctx, created.ID, services.UpdateResultInput{
				Event:   strPtr("Heat 1"),
				SportID: intPtr(77),
			})
			So(errors.Is(err, services.ErrSportNotFound), ShouldBeTrue)
			So(mens(env.store, engineering), ShouldEqual, 7)
			stored := env.store.results[created.ID]
			So(stored.IsOverall(), ShouldBeTrue)
		})

		Convey("Updating a missing result is reported", func() {
			_, err := env.results.UpdateResult(env.ctx, 4242, services.UpdateResultInput{})
			So(errors.Is(err, services.ErrResultNotFound), ShouldBeTrue)
		})
	})
}

func TestGetAndListResults(t *testing.T) {
	Convey("Given stored results", t, func() {
		env := newTestEnv()
		overall, err := env.results.CreateResult(env.ctx, createInput())
		So(err, ShouldBeNil)
		heatInput := createInput()
		heatInput.Event = strPtr("Heat 3")
		_, err = env.results.CreateResult(env.ctx, heatInput)
		So(err, ShouldBeNil)

		Convey("GetResult includes the sport and the entries", func() {
			result, err := env.results.GetResult(env.ctx, overall.ID)
			So(err, ShouldBeNil)
			So(result.Sport, ShouldNotBeNil)
			So(result.Sport.Name, ShouldEqual, "Football")
			So(result.Placements[0].FacultyName, ShouldEqual, "Engineering")
		})

		Convey("GetResult reports a missing result", func() {
			_, err := env.results.GetResult(env.ctx, 4242)
			So(errors.Is(err, services.ErrResultNotFound), ShouldBeTrue)
		})

		Convey("ListResults filters overall results", func() {
			all, err := env.results.ListResults(env.ctx, models.ResultFilter{})
			So(err, ShouldBeNil)
			So(len(all), ShouldEqual, 2)

			onlyOverall, err := env.results.ListResults(env.ctx, models.ResultFilter{OverallOnly: true})
			So(err, ShouldBeNil)
			So(len(onlyOverall), ShouldEqual, 1)
			So(onlyOverall[0].ID, ShouldEqual, overall.ID)
		})

		Convey("ListResults rejects an unknown gender filter", func() {
			gender := models.Gender("open")
			_, err := env.results.ListResults(env.ctx, models.ResultFilter{Gender: &gender})
			So(errors.Is(err, services.ErrValidationFailed), ShouldBeTrue)
		})
	})
}
