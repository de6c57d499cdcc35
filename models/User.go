package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"uniqueIndex"`
	PasswordHash string `json:"-"`
	Role         string `json:"role" gorm:"type:varchar(20);default:user;index"` // user, owner, admin

	Listings []Listing `json:"listings,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
}
