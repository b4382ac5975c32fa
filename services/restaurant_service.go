package services

import (
	"strings"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/Pirategrand/savory-cart-portal/repository"
)

type RestaurantService struct {
	Repo *repository.RestaurantRepository
}

func NewRestaurantService(repo *repository.RestaurantRepository) *RestaurantService {
	return &RestaurantService{Repo: repo}
}

func (s *RestaurantService) List() ([]entity.Restaurant, error) {
	return s.Repo.FindAll()
}

func (s *RestaurantService) Detail(id uint) (*entity.Restaurant, []entity.FoodItem, error) {
	rest, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.Repo.ListFoodItems(id)
	if err != nil {
		return nil, nil, err
	}
	return rest, items, nil
}

// Menu lists a restaurant's food items with the user's dietary
// preferences applied.
func (s *RestaurantService) Menu(restID uint, prefs entity.DietaryPreferences) ([]entity.FoodItem, error) {
	items, err := s.Repo.ListFoodItems(restID)
	if err != nil {
		return nil, err
	}
	return FilterFoodItems(items, prefs), nil
}

// FilterFoodItems applies dietary preference filter state. Pure.
func FilterFoodItems(items []entity.FoodItem, prefs entity.DietaryPreferences) []entity.FoodItem {
	out := make([]entity.FoodItem, 0, len(items))
	for _, item := range items {
		if !modeAllows(prefs.Mode, item.DietaryType) {
			continue
		}
		if !calorieAllows(prefs.CalorieRange, item.Nutrition) {
			continue
		}
		if restricted(prefs.Restrictions, item) {
			continue
		}
		if prefs.HealthyOnly && !isHealthy(item.Nutrition) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func modeAllows(mode entity.DietaryMode, dt entity.DietaryType) bool {
	switch mode {
	case "", entity.ModeAll:
		return true
	case entity.ModeVegan:
		return dt == entity.DietaryVegan
	case entity.ModeVegetarian:
		// vegan dishes are vegetarian too
		return dt == entity.DietaryVegetarian || dt == entity.DietaryVegan
	case entity.ModeNonVegetarian:
		return dt == entity.DietaryNonVegetarian
	case entity.ModeSeafood:
		return dt == entity.DietarySeafood
	default:
		return true
	}
}

// calorieAllows checks the range; items without nutrition facts pass
// only while the range is the unbounded default.
func calorieAllows(r [2]int, n *entity.NutritionalInfo) bool {
	unbounded := r[0] <= 0 && r[1] >= 2000
	if n == nil {
		return unbounded
	}
	if unbounded {
		return true
	}
	return n.Calories >= r[0] && n.Calories <= r[1]
}

func restricted(tags []string, item entity.FoodItem) bool {
	if len(tags) == 0 {
		return false
	}
	haystack := strings.ToLower(item.Name + " " + item.Description + " " + item.Category)
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" && strings.Contains(haystack, tag) {
			return true
		}
	}
	return false
}

func isHealthy(n *entity.NutritionalInfo) bool {
	return n != nil && n.Calories > 0 && n.Calories <= 600
}
