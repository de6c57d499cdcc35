package services

import (
	"home-rental-server/models"
)

// Key landmarks in Chennai with their coordinates
var ChennaiLandmarks = map[string]Landmark{
	"center": {
		Name:     "Chennai Central",
		Lat:      13.0827,
		Lng:      80.2707,
		Radius:   5.0, // 5km radius
		Type:     "city_center",
		Priority: 1,
	},
	"airport": {
		Name:     "Chennai International Airport",
		Lat:      12.9941,
		Lng:      80.1709,
		Radius:   4.0,
		Type:     "transport",
		Priority: 2,
	},
	"itcorridor": {
		Name:     "OMR IT Corridor",
		Lat:      12.9165,
		Lng:      80.2284,
		Radius:   6.0,
		Type:     "business",
		Priority: 3,
	},
	"beach": {
		Name:     "Marina Beach",
		Lat:      13.0500,
		Lng:      80.2824,
		Radius:   3.0,
		Type:     "leisure",
		Priority: 4,
	},
	"university": {
		Name:     "Anna University",
		Lat:      13.0110,
		Lng:      80.2354,
		Radius:   3.0,
		Type:     "education",
		Priority: 5,
	},
	"market": {
		Name:     "T. Nagar Market",
		Lat:      13.0418,
		Lng:      80.2341,
		Radius:   2.0,
		Type:     "commercial",
		Priority: 6,
	},
}

type Landmark struct {
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Radius   float64 `json:"radius"` // in kilometers
	Type     string  `json:"type"`
	Priority int     `json:"priority"`
}

// Check if a listing is within radius of a landmark
func IsListingNearLandmark(listing *models.Listing, landmark Landmark) bool {
	distance := CalculateDistance(listing.Lat, listing.Lng, landmark.Lat, landmark.Lng)
	return distance <= landmark.Radius
}

// Get listings near a specific landmark
func GetListingsNearLandmark(listings []models.Listing, landmarkKey string) []models.Listing {
	landmark, exists := ChennaiLandmarks[landmarkKey]
	if !exists {
		return []models.Listing{}
	}

	var nearby []models.Listing
	for _, listing := range listings {
		if !listing.HasCoordinates() {
			continue
		}
		if IsListingNearLandmark(&listing, landmark) {
			nearby = append(nearby, listing)
		}
	}

	return nearby
}

// Get all landmark keys sorted by priority
func GetLandmarkKeysByPriority() []string {
	var keys []string
	priorityMap := make(map[int]string)

	for key, landmark := range ChennaiLandmarks {
		priorityMap[landmark.Priority] = key
	}

	for i := 1; i <= len(ChennaiLandmarks); i++ {
		if key, exists := priorityMap[i]; exists {
			keys = append(keys, key)
		}
	}

	return keys
}

// Get landmark info by key
func GetLandmarkInfo(landmarkKey string) (Landmark, bool) {
	landmark, exists := ChennaiLandmarks[landmarkKey]
	return landmark, exists
}
