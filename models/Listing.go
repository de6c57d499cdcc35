package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Listing struct {
	gorm.Model
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	LocationText string  `json:"locationText"` // human-readable address
	Lat          float64 `json:"-"`
	Lng          float64 `json:"-"`
	PropertyType string  `json:"propertyType"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    int     `json:"bathrooms"`
	Area         float64 `json:"area"`
	Furnished    string  `json:"furnished"`
	Furnishing   string  `json:"furnishing"` // Furnished, Semi-furnished, Unfurnished

	Amenities datatypes.JSON `json:"amenities"` // JSON array of strings
	Images    datatypes.JSON `json:"images"`    // JSON array of URLs, ordered

	OwnerID    *uint  `json:"ownerID" gorm:"index"`
	Owner      *User  `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	OwnerEmail string `json:"ownerEmail" gorm:"index;not null"`

	Verified       bool    `json:"verified" gorm:"default:false"`
	Status         string  `json:"status" gorm:"type:varchar(20);default:'available';index"` // available, rented, sold
	DepositAmount  float64 `json:"depositAmount"`
	AvailableFor   string  `json:"availableFor"` // Family, Bachelors, Any
	AvailableUnits int     `json:"availableUnits" gorm:"default:1"`
}

// GeoPoint is the GeoJSON view of a listing's coordinates.
// Coordinates are always [lng, lat].
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// Custom JSON marshaling: expose lat/lng as a GeoJSON Point and unpack the
// JSON columns into arrays so clients never see raw strings.
func (l *Listing) MarshalJSON() ([]byte, error) {
	type Alias Listing
	aux := &struct {
		Location  GeoPoint `json:"location"`
		Amenities []string `json:"amenities"`
		Images    []string `json:"images"`
		Owner     *User    `json:"owner,omitempty"`
		*Alias
	}{
		Location:  GeoPoint{Type: "Point", Coordinates: [2]float64{l.Lng, l.Lat}},
		Amenities: []string{},
		Images:    []string{},
		Alias:     (*Alias)(l),
	}

	if len(l.Amenities) > 0 {
		var amenities []string
		if err := json.Unmarshal(l.Amenities, &amenities); err == nil {
			aux.Amenities = amenities
		}
	}

	if len(l.Images) > 0 {
		var images []string
		if err := json.Unmarshal(l.Images, &images); err == nil {
			aux.Images = images
		}
	}

	// Only include owner if it is loaded; drop its listings to avoid a
	// circular reference.
	if l.Owner != nil && l.Owner.ID > 0 {
		ownerCopy := *l.Owner
		ownerCopy.Listings = nil
		aux.Owner = &ownerCopy
	}

	return json.Marshal(aux)
}

// HasCoordinates reports whether the listing is locatable. Listings created
// without coordinates default to [0, 0].
func (l *Listing) HasCoordinates() bool {
	return l.Lat != 0 || l.Lng != 0
}
