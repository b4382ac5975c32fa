package repository

import (
	"context"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByEmail(email string) (*entity.User, error) {
	var u entity.User
	if err := r.DB.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByID(id uint) (*entity.User, error) {
	var u entity.User
	if err := r.DB.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByIDContext is the lookup used on checkout paths, which run
// under caller deadlines.
func (r *UserRepository) FindByIDContext(ctx context.Context, id uint) (*entity.User, error) {
	var u entity.User
	if err := r.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(u *entity.User) error {
	return r.DB.Create(u).Error
}

func (r *UserRepository) Save(u *entity.User) error {
	return r.DB.Save(u).Error
}

func (r *UserRepository) FindByResetToken(token string) (*entity.User, error) {
	var u entity.User
	if err := r.DB.Where("reset_token = ?", token).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
