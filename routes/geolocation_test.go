package routes

import (
	"testing"

	"home-rental-server/models"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/httptest"
)

func newDistanceApp() *iris.Application {
	app := iris.New()
	app.Validator = validator.New()
	app.Post("/api/geolocation/calculate-distance", CalculateDistance)
	return app
}

func TestCalculateDistanceEndpointZero(t *testing.T) {
	e := httptest.New(t, newDistanceApp())

	obj := e.POST("/api/geolocation/calculate-distance").
		WithJSON(map[string]float64{
			"lat1": 13.0827, "lon1": 80.2707,
			"lat2": 13.0827, "lon2": 80.2707,
		}).
		Expect().
		Status(httptest.StatusOK).
		JSON().Object()

	obj.HasValue("success", true)
	data := obj.Value("data").Object()
	data.HasValue("distance", 0)
	data.HasValue("distanceKm", "0.00")
	data.HasValue("distanceMiles", "0.00")
}

func TestCalculateDistanceEndpointMissingFields(t *testing.T) {
	e := httptest.New(t, newDistanceApp())

	e.POST("/api/geolocation/calculate-distance").
		WithJSON(map[string]float64{"lat1": 13.0827, "lon1": 80.2707}).
		Expect().
		Status(httptest.StatusBadRequest)
}

func TestFindPropertiesNearbyWithinRadius(t *testing.T) {
	db := openTestDB(t)

	seed := []models.Listing{
		{Title: "Next Door", Lat: 13.0830, Lng: 80.2710, OwnerEmail: "a@example.com"},
		{Title: "Across Town", Lat: 13.1100, Lng: 80.2900, OwnerEmail: "b@example.com"},
		{Title: "Bangalore", Lat: 12.9716, Lng: 77.5946, OwnerEmail: "c@example.com"},
		{Title: "Unlocated", Lat: 0, Lng: 0, OwnerEmail: "d@example.com"},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed listing: %v", err)
		}
	}

	app := iris.New()
	app.Get("/api/geolocation/nearby-properties", FindPropertiesNearby)
	e := httptest.New(t, app)

	obj := e.GET("/api/geolocation/nearby-properties").
		WithQuery("latitude", 13.0827).
		WithQuery("longitude", 80.2707).
		WithQuery("radius", 5).
		Expect().
		Status(httptest.StatusOK).
		JSON().Object()

	data := obj.Value("data").Object()
	data.HasValue("count", 2)

	properties := data.Value("properties").Array()
	properties.Length().IsEqual(2)

	// Every result is within the requested radius, ordered nearest first.
	first := properties.Value(0).Object()
	second := properties.Value(1).Object()
	first.HasValue("title", "Next Door")
	second.HasValue("title", "Across Town")
	firstDistance := first.Value("distance").Number().Le(5).Raw()
	second.Value("distance").Number().Le(5).Gt(firstDistance)
}

func TestCalculateDistanceEndpointAcceptsZeroCoordinates(t *testing.T) {
	// Zero is a valid coordinate; pointer fields keep required from
	// rejecting it.
	e := httptest.New(t, newDistanceApp())

	e.POST("/api/geolocation/calculate-distance").
		WithJSON(map[string]float64{
			"lat1": 0, "lon1": 0,
			"lat2": 0, "lon2": 0,
		}).
		Expect().
		Status(httptest.StatusOK)
}
