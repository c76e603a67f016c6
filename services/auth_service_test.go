package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/sportsmeet/models"
	"github.com/Dosada05/sportsmeet/services"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAuthService(t *testing.T) {
	Convey("Given an admin account", t, func() {
		ctx := context.Background()
		store := newMemStore()
		svc := services.NewAuthService(&fakeUserRepo{store})

		admin, err := svc.EnsureAdmin(ctx, services.AdminInput{Email: " Admin@Example.com ", Password: "correct-horse"})
		So(err, ShouldBeNil)
		So(admin.Email, ShouldEqual, "admin@example.com")
		So(admin.Role, ShouldEqual, models.RoleAdmin)
		So(admin.PasswordHash, ShouldBeEmpty)

		Convey("Login succeeds with the right password in any email case", func() {
			user, err := svc.Login(ctx, services.LoginInput{Email: "ADMIN@example.com", Password: "correct-horse"})
			So(err, ShouldBeNil)
			So(user.ID, ShouldEqual, admin.ID)
			So(user.PasswordHash, ShouldBeEmpty)
		})

		Convey("Login fails with a wrong password or unknown email", func() {
			_, err := svc.Login(ctx, services.LoginInput{Email: "admin@example.com", Password: "battery-staple"})
			So(errors.Is(err, services.ErrInvalidCredentials), ShouldBeTrue)

			_, err = svc.Login(ctx, services.LoginInput{Email: "nobody@example.com", Password: "correct-horse"})
			So(errors.Is(err, services.ErrInvalidCredentials), ShouldBeTrue)
		})

		Convey("EnsureAdmin resets the password of an existing account", func() {
			again, err := svc.EnsureAdmin(ctx, services.AdminInput{Email: "admin@example.com", Password: "new-password"})
			So(err, ShouldBeNil)
			So(again.ID, ShouldEqual, admin.ID)

			_, err = svc.Login(ctx, services.LoginInput{Email: "admin@example.com", Password: "correct-horse"})
			So(errors.Is(err, services.ErrInvalidCredentials), ShouldBeTrue)
			_, err = svc.Login(ctx, services.LoginInput{Email: "admin@example.com", Password: "new-password"})
			So(err, ShouldBeNil)
		})

		Convey("Short passwords and bad emails are rejected", func() {
			_, err := svc.EnsureAdmin(ctx, services.AdminInput{Email: "x@example.com", Password: "short"})
			So(errors.Is(err, services.ErrPasswordTooShort), ShouldBeTrue)

			_, err = svc.EnsureAdmin(ctx, services.AdminInput{Email: "not-an-email", Password: "long-enough"})
			So(errors.Is(err, services.ErrValidationFailed), ShouldBeTrue)
		})
	})
}
