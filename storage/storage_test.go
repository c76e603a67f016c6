package storage_test

import (
	"context"
	"strings"
	"testing"

	"github.com/Dosada05/sportsmeet/storage"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPublicURL(t *testing.T) {
	Convey("Given a public bucket URL", t, func() {
		Convey("A bare host gets the key as its path", func() {
			So(storage.PublicURL("https://cdn.example.com", "media/a.jpg"), ShouldEqual, "https://cdn.example.com/media/a.jpg")
		})

		Convey("A base path is kept", func() {
			So(storage.PublicURL("https://cdn.example.com/assets", "media/a.jpg"), ShouldEqual, "https://cdn.example.com/assets/media/a.jpg")
			So(storage.PublicURL("https://cdn.example.com/assets/", "/media/a.jpg"), ShouldEqual, "https://cdn.example.com/assets/media/a.jpg")
		})

		Convey("Missing parts yield an empty URL", func() {
			So(storage.PublicURL("", "media/a.jpg"), ShouldBeEmpty)
			So(storage.PublicURL("https://cdn.example.com", ""), ShouldBeEmpty)
		})
	})
}

func TestNewObjectKey(t *testing.T) {
	Convey("Given a prefix and an extension", t, func() {
		first := storage.NewObjectKey("/media/", ".png")
		second := storage.NewObjectKey("media", ".png")

		So(strings.HasPrefix(first, "media/"), ShouldBeTrue)
		So(strings.HasSuffix(first, ".png"), ShouldBeTrue)
		So(first, ShouldNotEqual, second)
		So(len(first), ShouldEqual, len("media/")+36+len(".png"))
	})

	Convey("An empty prefix yields a bare name", t, func() {
		So(strings.Contains(storage.NewObjectKey("", ".jpg"), "/"), ShouldBeFalse)
	})
}

func TestCloudflareR2UploaderConfig(t *testing.T) {
	Convey("Given R2 settings", t, func() {
		Convey("An empty config is disabled", func() {
			So(storage.CloudflareR2UploaderConfig{}.Enabled(), ShouldBeFalse)
		})

		Convey("A partial config is enabled but rejected", func() {
			cfg := storage.CloudflareR2UploaderConfig{BucketName: "meet"}
			So(cfg.Enabled(), ShouldBeTrue)
			_, err := storage.NewCloudflareR2Uploader(context.Background(), cfg)
			So(err, ShouldNotBeNil)
		})
	})
}
