package routes

import (
	"testing"

	"home-rental-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/httptest"
)

// mockAuth injects verified claims the way the jwt verifier would, so the
// role gate can be exercised without signing real tokens.
func mockAuth(claims *utils.AccessToken) iris.Handler {
	return func(ctx iris.Context) {
		ctx.Values().Set("iris.jwt.claims", claims)
		ctx.Next()
	}
}

func newAdminGateApp(role string) *iris.Application {
	app := iris.New()
	claims := &utils.AccessToken{ID: 1, Role: role, Name: "Test", Email: "test@example.com"}
	admin := app.Party("/api/admin")
	admin.Use(mockAuth(claims), utils.AdminOnlyMiddleware)
	admin.Get("/ping", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"ok": true})
	})
	return app
}

func TestAdminGateAllowsAdmin(t *testing.T) {
	e := httptest.New(t, newAdminGateApp("admin"))
	e.GET("/api/admin/ping").Expect().
		Status(httptest.StatusOK).
		JSON().Object().HasValue("ok", true)
}

func TestAdminGateRejectsUser(t *testing.T) {
	e := httptest.New(t, newAdminGateApp("user"))
	e.GET("/api/admin/ping").Expect().
		Status(httptest.StatusForbidden).
		JSON().Object().HasValue("error", "forbidden")
}

func TestAdminGateRejectsOwner(t *testing.T) {
	e := httptest.New(t, newAdminGateApp("owner"))
	e.GET("/api/admin/ping").Expect().
		Status(httptest.StatusForbidden)
}
