package services

import (
	"context"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/Pirategrand/savory-cart-portal/repository"
	"gorm.io/gorm"
)

// ProfileService adapts user lookups to the checkout ProfileFetcher.
type ProfileService struct {
	Users *repository.UserRepository
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{Users: repository.NewUserRepository(db)}
}

func (p *ProfileService) FetchProfile(ctx context.Context, userID uint) (*entity.User, error) {
	return p.Users.FindByIDContext(ctx, userID)
}
