package utils

import (
	"testing"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/httptest"
)

func TestJSONPageMeta(t *testing.T) {
	app := iris.New()
	app.Get("/", func(ctx iris.Context) {
		JSONPage(ctx, []string{"a", "b"}, 2, 10, 25)
	})

	e := httptest.New(t, app)
	meta := e.GET("/").Expect().
		Status(httptest.StatusOK).
		JSON().Object().
		Value("meta").Object()

	meta.HasValue("page", 2)
	meta.HasValue("per_page", 10)
	meta.HasValue("total", 25)
	// 25 rows at 10 per page round up to 3 pages.
	meta.HasValue("total_pages", 3)
}

func TestJSONError(t *testing.T) {
	app := iris.New()
	app.Get("/", func(ctx iris.Context) {
		JSONError(ctx, iris.StatusBadRequest, "invalid_query", "latitude is required")
	})

	e := httptest.New(t, app)
	e.GET("/").Expect().
		Status(httptest.StatusBadRequest).
		JSON().Object().
		HasValue("error", "invalid_query")
}
