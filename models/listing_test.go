package models

import (
	"encoding/json"
	"testing"

	"gorm.io/datatypes"
)

func TestListingMarshalJSONLocation(t *testing.T) {
	listing := Listing{
		Title: "2BHK near Marina",
		Lat:   13.05,
		Lng:   80.28,
	}

	raw, err := json.Marshal(&listing)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var out struct {
		Location struct {
			Type        string     `json:"type"`
			Coordinates [2]float64 `json:"coordinates"`
		} `json:"location"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if out.Location.Type != "Point" {
		t.Fatalf("expected GeoJSON Point, got %q", out.Location.Type)
	}
	// GeoJSON order is [lng, lat].
	if out.Location.Coordinates[0] != 80.28 || out.Location.Coordinates[1] != 13.05 {
		t.Fatalf("coordinates out of order: %v", out.Location.Coordinates)
	}
}

func TestListingMarshalJSONEmptyArrays(t *testing.T) {
	listing := Listing{Title: "Bare"}

	raw, err := json.Marshal(&listing)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var out map[string]json.RawMessage
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if string(out["amenities"]) != "[]" {
		t.Fatalf("expected empty amenities array, got %s", out["amenities"])
	}
	if string(out["images"]) != "[]" {
		t.Fatalf("expected empty images array, got %s", out["images"])
	}
	if _, present := out["owner"]; present {
		t.Fatal("owner must be omitted when not loaded")
	}
}

func TestListingMarshalJSONUnpacksColumns(t *testing.T) {
	listing := Listing{
		Amenities: datatypes.JSON(`["parking","gym"]`),
		Images:    datatypes.JSON(`["/uploads/a.jpg"]`),
	}

	raw, err := json.Marshal(&listing)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var out struct {
		Amenities []string `json:"amenities"`
		Images    []string `json:"images"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if len(out.Amenities) != 2 || out.Amenities[0] != "parking" {
		t.Fatalf("unexpected amenities: %v", out.Amenities)
	}
	if len(out.Images) != 1 || out.Images[0] != "/uploads/a.jpg" {
		t.Fatalf("unexpected images: %v", out.Images)
	}
}

func TestHasCoordinates(t *testing.T) {
	if (&Listing{}).HasCoordinates() {
		t.Fatal("zero coordinates must read as unlocated")
	}
	if !(&Listing{Lat: 13.0827, Lng: 80.2707}).HasCoordinates() {
		t.Fatal("expected located listing")
	}
	if !(&Listing{Lat: 13.0827}).HasCoordinates() {
		t.Fatal("a single non-zero axis still counts")
	}
}
