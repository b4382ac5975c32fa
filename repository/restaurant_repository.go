package repository

import (
	"github.com/Pirategrand/savory-cart-portal/entity"
	"gorm.io/gorm"
)

type RestaurantRepository struct {
	DB *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{DB: db}
}

func (r *RestaurantRepository) FindAll() ([]entity.Restaurant, error) {
	var rests []entity.Restaurant
	err := r.DB.Order("name ASC").Find(&rests).Error
	return rests, err
}

func (r *RestaurantRepository) FindByID(id uint) (*entity.Restaurant, error) {
	var rest entity.Restaurant
	if err := r.DB.First(&rest, id).Error; err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *RestaurantRepository) Update(rest *entity.Restaurant) error {
	return r.DB.Save(rest).Error
}

func (r *RestaurantRepository) IsOwnedBy(restID, userID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&entity.Restaurant{}).
		Where("id = ? AND owner_id = ?", restID, userID).
		Count(&count).Error
	return count > 0, err
}

// ---------------- Food items ----------------

func (r *RestaurantRepository) ListFoodItems(restID uint) ([]entity.FoodItem, error) {
	var items []entity.FoodItem
	err := r.DB.Where("restaurant_id = ?", restID).
		Preload("Nutrition").
		Preload("CustomizationGroups.Choices").
		Order("category ASC, name ASC").
		Find(&items).Error
	return items, err
}

func (r *RestaurantRepository) GetFoodItem(id uint) (*entity.FoodItem, error) {
	var item entity.FoodItem
	err := r.DB.
		Preload("Nutrition").
		Preload("CustomizationGroups.Choices").
		First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *RestaurantRepository) CreateFoodItem(item *entity.FoodItem) error {
	return r.DB.Create(item).Error
}

func (r *RestaurantRepository) UpdateFoodItem(item *entity.FoodItem) error {
	return r.DB.Save(item).Error
}

func (r *RestaurantRepository) DeleteFoodItem(restID, itemID uint) error {
	return r.DB.Where("id = ? AND restaurant_id = ?", itemID, restID).
		Delete(&entity.FoodItem{}).Error
}
