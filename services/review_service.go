package services

import (
	"errors"
	"time"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/Pirategrand/savory-cart-portal/repository"
	"gorm.io/gorm"
)

type ReviewService struct {
	DB       *gorm.DB
	Repo     *repository.ReviewRepository
	RestRepo *repository.RestaurantRepository
}

func NewReviewService(db *gorm.DB, repo *repository.ReviewRepository, restRepo *repository.RestaurantRepository) *ReviewService {
	return &ReviewService{DB: db, Repo: repo, RestRepo: restRepo}
}

type ReviewIn struct {
	RestaurantID uint   `json:"restaurantId" binding:"required"`
	Rating       int    `json:"rating" binding:"required,min=1,max=5"`
	Content      string `json:"content"`
}

// CreateOrUpdate upserts the caller's review for a restaurant. One
// review per user per restaurant is a soft convention: a second submit
// replaces the first instead of erroring.
func (s *ReviewService) CreateOrUpdate(userID uint, in *ReviewIn) (*entity.Review, bool, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, false, errors.New("rating must be between 1 and 5")
	}
	if _, err := s.RestRepo.FindByID(in.RestaurantID); err != nil {
		return nil, false, errors.New("restaurant not found")
	}

	exist, err := s.Repo.FindByUserAndRestaurant(userID, in.RestaurantID)
	if err != nil {
		return nil, false, err
	}

	if exist != nil {
		exist.Rating = in.Rating
		exist.Content = in.Content
		exist.ReviewDate = time.Now()
		if err := s.Repo.Save(exist); err != nil {
			return nil, false, err
		}
		if err := s.refreshAggregate(in.RestaurantID); err != nil {
			return nil, false, err
		}
		return exist, false, nil
	}

	rev := &entity.Review{
		Rating:       in.Rating,
		Content:      in.Content,
		ReviewDate:   time.Now(),
		UserID:       userID,
		RestaurantID: in.RestaurantID,
	}
	if err := s.Repo.Create(rev); err != nil {
		return nil, false, err
	}
	if err := s.refreshAggregate(in.RestaurantID); err != nil {
		return nil, false, err
	}
	return rev, true, nil
}

// ListForRestaurant returns reviews newest first, with the caller's own
// votes marked when a caller is known.
func (s *ReviewService) ListForRestaurant(restID, callerID uint) ([]entity.Review, error) {
	reviews, err := s.Repo.ListByRestaurant(restID)
	if err != nil {
		return nil, err
	}
	if callerID == 0 || len(reviews) == 0 {
		return reviews, nil
	}

	ids := make([]uint, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.ID)
	}
	voted, err := s.Repo.VotedReviewIDs(callerID, ids)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		reviews[i].VotedByMe = voted[reviews[i].ID]
	}
	return reviews, nil
}

func (s *ReviewService) Delete(userID, reviewID uint) error {
	rev, err := s.Repo.Get(reviewID)
	if err != nil {
		return err
	}
	if rev.UserID != userID {
		return ErrForbidden
	}
	if err := s.Repo.Delete(userID, reviewID); err != nil {
		return err
	}
	return s.refreshAggregate(rev.RestaurantID)
}

// ToggleVote flips the caller's helpful vote and returns the new state.
func (s *ReviewService) ToggleVote(userID, reviewID uint) (bool, error) {
	if _, err := s.Repo.Get(reviewID); err != nil {
		return false, err
	}
	has, err := s.Repo.HasVote(userID, reviewID)
	if err != nil {
		return false, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if has {
			return s.Repo.RemoveVote(tx, userID, reviewID)
		}
		return s.Repo.AddVote(tx, userID, reviewID)
	})
	if err != nil {
		return has, err
	}
	return !has, nil
}

// refreshAggregate recomputes a restaurant's rating and review count.
func (s *ReviewService) refreshAggregate(restID uint) error {
	var out struct {
		Avg   float64
		Count int64
	}
	err := s.DB.Model(&entity.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("restaurant_id = ?", restID).
		Scan(&out).Error
	if err != nil {
		return err
	}
	return s.DB.Model(&entity.Restaurant{}).Where("id = ?", restID).
		Updates(map[string]any{"rating": out.Avg, "review_count": out.Count}).Error
}
