package repository

import (
	"errors"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

func (r *ReviewRepository) ListByRestaurant(restID uint) ([]entity.Review, error) {
	var reviews []entity.Review
	err := r.DB.Where("restaurant_id = ?", restID).
		Order("review_date DESC").
		Find(&reviews).Error
	return reviews, err
}

// FindByUserAndRestaurant returns the caller's existing review, nil when
// they have not reviewed the restaurant yet.
func (r *ReviewRepository) FindByUserAndRestaurant(userID, restID uint) (*entity.Review, error) {
	var rev entity.Review
	err := r.DB.Where("user_id = ? AND restaurant_id = ?", userID, restID).
		Order("review_date DESC").First(&rev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *ReviewRepository) Create(rev *entity.Review) error {
	return r.DB.Create(rev).Error
}

func (r *ReviewRepository) Save(rev *entity.Review) error {
	return r.DB.Save(rev).Error
}

func (r *ReviewRepository) Get(id uint) (*entity.Review, error) {
	var rev entity.Review
	if err := r.DB.First(&rev, id).Error; err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *ReviewRepository) Delete(userID, reviewID uint) error {
	return r.DB.Where("id = ? AND user_id = ?", reviewID, userID).
		Delete(&entity.Review{}).Error
}

// ---------------- Helpful votes ----------------

func (r *ReviewRepository) HasVote(userID, reviewID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&entity.ReviewVote{}).
		Where("user_id = ? AND review_id = ?", userID, reviewID).
		Count(&count).Error
	return count > 0, err
}

func (r *ReviewRepository) AddVote(tx *gorm.DB, userID, reviewID uint) error {
	if err := tx.Create(&entity.ReviewVote{UserID: userID, ReviewID: reviewID}).Error; err != nil {
		return err
	}
	return tx.Model(&entity.Review{}).Where("id = ?", reviewID).
		Update("helpful_count", gorm.Expr("helpful_count + 1")).Error
}

func (r *ReviewRepository) RemoveVote(tx *gorm.DB, userID, reviewID uint) error {
	res := tx.Where("user_id = ? AND review_id = ?", userID, reviewID).
		Delete(&entity.ReviewVote{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}
	return tx.Model(&entity.Review{}).Where("id = ? AND helpful_count > 0", reviewID).
		Update("helpful_count", gorm.Expr("helpful_count - 1")).Error
}

// VotedReviewIDs filters the given review ids down to those the user voted on.
func (r *ReviewRepository) VotedReviewIDs(userID uint, reviewIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool)
	if len(reviewIDs) == 0 {
		return out, nil
	}
	var votes []entity.ReviewVote
	err := r.DB.Where("user_id = ? AND review_id IN ?", userID, reviewIDs).
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	for _, v := range votes {
		out[v.ReviewID] = true
	}
	return out, nil
}
