package models

import "gorm.io/gorm"

// Image is a listing photo persisted independently of Listing.Images so it
// can carry ordering and a primary flag. At most one image per listing may
// be primary; the set-primary path enforces that inside a transaction.
type Image struct {
	gorm.Model
	ListingID uint   `json:"listingID" gorm:"not null;index"`
	URL       string `json:"url" gorm:"not null"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	IsPrimary bool   `json:"isPrimary" gorm:"default:false;index"`
	SortOrder int    `json:"sortOrder" gorm:"default:0"`
}
