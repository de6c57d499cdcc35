package services

import (
	"testing"

	"home-rental-server/models"
)

func TestGetListingsNearLandmark(t *testing.T) {
	listings := []models.Listing{
		{Title: "Near Central", Lat: 13.0830, Lng: 80.2710},
		{Title: "Near Airport", Lat: 12.9950, Lng: 80.1720},
		{Title: "No Coordinates", Lat: 0, Lng: 0},
	}

	nearby := GetListingsNearLandmark(listings, "center")
	if len(nearby) != 1 {
		t.Fatalf("expected one listing near center, got %d", len(nearby))
	}
	if nearby[0].Title != "Near Central" {
		t.Fatalf("unexpected listing: %s", nearby[0].Title)
	}
}

func TestGetListingsNearLandmarkUnknownKey(t *testing.T) {
	listings := []models.Listing{{Title: "A", Lat: 13.0827, Lng: 80.2707}}
	nearby := GetListingsNearLandmark(listings, "atlantis")
	if len(nearby) != 0 {
		t.Fatalf("expected no listings for unknown landmark, got %d", len(nearby))
	}
}

func TestGetListingsNearLandmarkSkipsZeroCoordinates(t *testing.T) {
	// A [0, 0] listing is ~9600 km from Chennai, but the guard matters
	// if a landmark were ever defined near the null island.
	listings := []models.Listing{{Title: "Unlocated"}}
	nearby := GetListingsNearLandmark(listings, "center")
	if len(nearby) != 0 {
		t.Fatalf("expected unlocated listings to be skipped, got %d", len(nearby))
	}
}

func TestGetLandmarkKeysByPriority(t *testing.T) {
	keys := GetLandmarkKeysByPriority()
	if len(keys) != len(ChennaiLandmarks) {
		t.Fatalf("expected %d keys, got %d", len(ChennaiLandmarks), len(keys))
	}
	if keys[0] != "center" {
		t.Fatalf("expected center first by priority, got %s", keys[0])
	}
	if keys[1] != "airport" {
		t.Fatalf("expected airport second, got %s", keys[1])
	}
}

func TestGetLandmarkInfo(t *testing.T) {
	landmark, ok := GetLandmarkInfo("beach")
	if !ok {
		t.Fatal("expected beach landmark to exist")
	}
	if landmark.Name != "Marina Beach" {
		t.Fatalf("unexpected name: %s", landmark.Name)
	}

	if _, ok := GetLandmarkInfo("nowhere"); ok {
		t.Fatal("expected missing landmark to report not found")
	}
}
