package entity

import (
	"gorm.io/gorm"
)

// ReviewVote marks a review helpful; one per user per review.
type ReviewVote struct {
	gorm.Model
	ReviewID uint `gorm:"uniqueIndex:idx_review_user" json:"reviewId"`
	UserID   uint `gorm:"uniqueIndex:idx_review_user" json:"userId"`
}
