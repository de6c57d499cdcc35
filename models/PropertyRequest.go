package models

import "time"

// PropertyRequest links a prospective tenant to a listing and carries the
// approval workflow: pending -> approved | rejected, terminal afterwards.
type PropertyRequest struct {
	ID uint `json:"id" gorm:"primaryKey"`

	UserID uint `json:"userID" gorm:"not null;index"`
	User   User `json:"user" gorm:"foreignKey:UserID"`

	ListingID uint    `json:"listingID" gorm:"not null;index"`
	Listing   Listing `json:"listing" gorm:"foreignKey:ListingID"`

	Status   string `json:"status" gorm:"size:16;default:pending;index"` // pending, approved, rejected
	Message  string `json:"message" gorm:"size:1000"`
	Response string `json:"response" gorm:"size:1000"` // optional owner response

	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	RespondedAt *time.Time `json:"respondedAt"`
}

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)
