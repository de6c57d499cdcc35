package routes

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"home-rental-server/models"

	"gorm.io/gorm"
)

func TestWriteListingsCSV(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	rows := []models.Listing{
		{
			Model:        gorm.Model{ID: 1, CreatedAt: created},
			Title:        "2BHK near Marina",
			Price:        25000,
			PropertyType: "Apartment",
			Status:       "available",
			Verified:     true,
			Lat:          13.05,
			Lng:          80.28,
			OwnerEmail:   "owner@example.com",
		},
	}

	var buf strings.Builder
	if err := writeListingsCSV(&buf, rows); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus one row, got %d records", len(records))
	}
	if records[0][0] != "id" || records[0][1] != "title" {
		t.Fatalf("unexpected header: %v", records[0])
	}

	row := records[1]
	if row[0] != "1" || row[1] != "2BHK near Marina" {
		t.Fatalf("unexpected row: %v", row)
	}
	if row[2] != "25000.00" {
		t.Fatalf("unexpected price formatting: %s", row[2])
	}
	if row[5] != "true" {
		t.Fatalf("unexpected verified flag: %s", row[5])
	}
	if row[9] != "2024-05-01 10:30:00" {
		t.Fatalf("unexpected timestamp: %s", row[9])
	}
}

func TestWriteUsersCSVEscapesCommas(t *testing.T) {
	rows := []models.User{
		{
			Model: gorm.Model{ID: 3, CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
			Name:  "Kumar, Sanjay",
			Email: "sanjay@example.com",
			Role:  "owner",
		},
	}

	var buf strings.Builder
	if err := writeUsersCSV(&buf, rows); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if records[1][1] != "Kumar, Sanjay" {
		t.Fatalf("comma in name not preserved: %q", records[1][1])
	}
}

func TestWritePropertyRequestsCSV(t *testing.T) {
	rows := []models.PropertyRequest{
		{
			ID:        9,
			UserID:    2,
			ListingID: 5,
			Status:    models.RequestStatusApproved,
			Message:   "Interested in viewing",
			Response:  "Come by Saturday",
			CreatedAt: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
		},
	}

	var buf strings.Builder
	if err := writePropertyRequestsCSV(&buf, rows); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	row := records[1]
	if row[0] != "9" || row[3] != "approved" || row[5] != "Come by Saturday" {
		t.Fatalf("unexpected row: %v", row)
	}
}
