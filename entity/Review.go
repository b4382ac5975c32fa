package entity

import (
	"time"

	"gorm.io/gorm"
)

type Review struct {
	gorm.Model
	Rating     int       `json:"rating"`
	Content    string    `json:"content"`
	ReviewDate time.Time `json:"reviewDate"`

	HelpfulCount int `json:"helpfulCount"`

	UserID       uint       `json:"userId"`
	User         User       `json:"-"`
	RestaurantID uint       `json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	Votes []ReviewVote `json:"-"`

	// caller's own vote, filled per request, never stored
	VotedByMe bool `gorm:"-" json:"votedByMe"`
}
