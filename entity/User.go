package entity

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Password    string `json:"-"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	Role        string `gorm:"not null;default:customer" json:"role"`

	// password reset; token is single use
	ResetToken       string     `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`

	// Relations; preload only when needed
	RestaurantsOwned []Restaurant `gorm:"foreignKey:OwnerID" json:"-"`
	Orders           []Order      `json:"-"`
	Reviews          []Review     `json:"-"`
	ReviewVotes      []ReviewVote `json:"-"`
}
