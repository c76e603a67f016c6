package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Dosada05/sportsmeet/models"
	"github.com/Dosada05/sportsmeet/services"
	. "github.com/smartystreets/goconvey/convey"
)

func pngFile(body string) services.FileInput {
	return services.FileInput{Reader: strings.NewReader(body), ContentType: "image/png", Size: int64(len(body))}
}

func TestFacultyService(t *testing.T) {
	Convey("Given the faculty service with an uploader", t, func() {
		ctx := context.Background()
		store := newMemStore()
		uploader := newFakeUploader()
		svc := services.NewFacultyService(&fakeFacultyRepo{store}, uploader, discardLogger())

		Convey("Faculties are created with trimmed names", func() {
			f, err := svc.CreateFaculty(ctx, services.FacultyInput{Name: "  Engineering ", ShortName: "ENG"})
			So(err, ShouldBeNil)
			So(f.Name, ShouldEqual, "Engineering")

			_, err = svc.CreateFaculty(ctx, services.FacultyInput{Name: "Engineering"})
			So(errors.Is(err, services.ErrFacultyNameConflict), ShouldBeTrue)

			_, err = svc.CreateFaculty(ctx, services.FacultyInput{Name: "   "})
			So(errors.Is(err, services.ErrFacultyNameRequired), ShouldBeTrue)
		})

		Convey("A faculty with placements cannot be deleted", func() {
			f, err := svc.CreateFaculty(ctx, services.FacultyInput{Name: "Science"})
			So(err, ShouldBeNil)
			store.seedResult(overallResult(models.GenderMen), []models.Placement{{Place: 1, FacultyID: f.ID}}, nil)

			err = svc.DeleteFaculty(ctx, f.ID)
			So(errors.Is(err, services.ErrFacultyInUse), ShouldBeTrue)

			err = svc.DeleteFaculty(ctx, 4242)
			So(errors.Is(err, services.ErrFacultyNotFound), ShouldBeTrue)
		})

		Convey("Uploading a logo replaces the previous object", func() {
			f, err := svc.CreateFaculty(ctx, services.FacultyInput{Name: "Arts"})
			So(err, ShouldBeNil)

			first, err := svc.UploadFacultyLogo(ctx, f.ID, pngFile("first"))
			So(err, ShouldBeNil)
			So(first.LogoURL, ShouldNotBeNil)
			So(*first.LogoURL, ShouldStartWith, "https://cdn.example.com/logos/faculties/")
			firstKey := *first.LogoKey

			second, err := svc.UploadFacultyLogo(ctx, f.ID, pngFile("second"))
			So(err, ShouldBeNil)
			So(*second.LogoKey, ShouldNotEqual, firstKey)
			So(uploader.deleted, ShouldResemble, []string{firstKey})
			So(uploader.objects, ShouldContainKey, *second.LogoKey)
		})

		Convey("Non-image logos are rejected", func() {
			f, err := svc.CreateFaculty(ctx, services.FacultyInput{Name: "Law"})
			So(err, ShouldBeNil)

			_, err = svc.UploadFacultyLogo(ctx, f.ID, services.FileInput{
				Reader: strings.NewReader("%PDF"), ContentType: "application/pdf", Size: 4,
			})
			So(errors.Is(err, services.ErrUnsupportedMediaType), ShouldBeTrue)
			So(uploader.objects, ShouldBeEmpty)
		})
	})

	Convey("Given the faculty service without an uploader", t, func() {
		store := newMemStore()
		store.addFaculty(1, "Engineering")
		svc := services.NewFacultyService(&fakeFacultyRepo{store}, nil, discardLogger())

		_, err := svc.UploadFacultyLogo(context.Background(), 1, pngFile("logo"))
		So(errors.Is(err, services.ErrUploadsDisabled), ShouldBeTrue)
	})
}

func TestSportService(t *testing.T) {
	Convey("Given the sport service", t, func() {
		ctx := context.Background()
		store := newMemStore()
		svc := services.NewSportService(&fakeSportRepo{store}, nil, discardLogger())

		Convey("The category defaults to team", func() {
			sport, err := svc.CreateSport(ctx, services.CreateSportInput{Name: "Volleyball"})
			So(err, ShouldBeNil)
			So(sport.Category, ShouldEqual, models.CategoryTeam)
		})

		Convey("Unknown categories are rejected", func() {
			_, err := svc.CreateSport(ctx, services.CreateSportInput{Name: "Chess", Category: "board"})
			So(errors.Is(err, services.ErrSportInvalidCategory), ShouldBeTrue)
		})

		Convey("A sport with results cannot be deleted", func() {
			sport, err := svc.CreateSport(ctx, services.CreateSportInput{Name: "Swimming", Category: models.CategorySwimming})
			So(err, ShouldBeNil)
			r := overallResult(models.GenderWomen)
			r.SportID = sport.ID
			store.seedResult(r, nil, nil)

			err = svc.DeleteSport(ctx, sport.ID)
			So(errors.Is(err, services.ErrSportInUse), ShouldBeTrue)
		})
	})
}
