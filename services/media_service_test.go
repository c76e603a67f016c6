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

func TestMediaService(t *testing.T) {
	Convey("Given the media service with an uploader", t, func() {
		ctx := context.Background()
		store := newMemStore()
		store.addSport(football, "Football", models.CategoryTeam)
		uploader := newFakeUploader()
		svc := services.NewMediaService(&fakeMediaRepo{store}, uploader, discardLogger())

		Convey("An image is stored and listed", func() {
			media, err := svc.UploadMedia(ctx, services.UploadMediaInput{
				Title:   " Final whistle ",
				SportID: intPtr(football),
				File:    services.FileInput{Reader: strings.NewReader("jpeg"), ContentType: "image/jpeg", Size: 4},
			})
			So(err, ShouldBeNil)
			So(media.Title, ShouldEqual, "Final whistle")
			So(media.ObjectKey, ShouldStartWith, "media/")
			So(media.ObjectKey, ShouldEndWith, ".jpg")
			So(media.URL, ShouldEqual, "https://cdn.example.com/"+media.ObjectKey)

			items, err := svc.ListMedia(ctx, intPtr(football))
			So(err, ShouldBeNil)
			So(len(items), ShouldEqual, 1)

			items, err = svc.ListMedia(ctx, intPtr(99))
			So(err, ShouldBeNil)
			So(items, ShouldBeEmpty)
		})

		Convey("Deleting removes the object and the row", func() {
			media, err := svc.UploadMedia(ctx, services.UploadMediaInput{File: pngFile("png")})
			So(err, ShouldBeNil)

			So(svc.DeleteMedia(ctx, media.ID), ShouldBeNil)
			So(uploader.objects, ShouldBeEmpty)
			So(store.media, ShouldBeEmpty)

			err = svc.DeleteMedia(ctx, media.ID)
			So(errors.Is(err, services.ErrMediaNotFound), ShouldBeTrue)
		})

		Convey("An unknown sport discards the uploaded object", func() {
			_, err := svc.UploadMedia(ctx, services.UploadMediaInput{SportID: intPtr(99), File: pngFile("png")})
			So(errors.Is(err, services.ErrSportNotFound), ShouldBeTrue)
			So(uploader.objects, ShouldBeEmpty)
			So(len(uploader.deleted), ShouldEqual, 1)
		})

		Convey("Oversized files are rejected", func() {
			file := pngFile("png")
			file.Size = 11 << 20
			_, err := svc.UploadMedia(ctx, services.UploadMediaInput{File: file})
			So(errors.Is(err, services.ErrFileTooLarge), ShouldBeTrue)
		})
	})

	Convey("Given the media service without an uploader", t, func() {
		store := newMemStore()
		svc := services.NewMediaService(&fakeMediaRepo{store}, nil, discardLogger())

		_, err := svc.UploadMedia(context.Background(), services.UploadMediaInput{File: pngFile("png")})
		So(errors.Is(err, services.ErrUploadsDisabled), ShouldBeTrue)
		So(store.media, ShouldBeEmpty)
	})
}
