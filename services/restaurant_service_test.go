package services

import (
	"testing"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dish(name string, dt entity.DietaryType, calories int) entity.FoodItem {
	item := entity.FoodItem{
		Name:        name,
		Price:       decimal.RequireFromString("9.50"),
		DietaryType: dt,
	}
	if calories > 0 {
		item.Nutrition = &entity.NutritionalInfo{Calories: calories}
	}
	return item
}

func names(items []entity.FoodItem) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.Name)
	}
	return out
}

func sampleMenu() []entity.FoodItem {
	return []entity.FoodItem{
		dish("Margherita Pizza", entity.DietaryVegetarian, 820),
		dish("Garden Salad", entity.DietaryVegan, 320),
		dish("Chicken Burger", entity.DietaryNonVegetarian, 950),
		dish("Grilled Salmon", entity.DietarySeafood, 540),
		dish("Mystery Special", entity.DietaryNonVegetarian, 0), // no nutrition facts
	}
}

func TestFilterDefaultPassesEverything(t *testing.T) {
	got := FilterFoodItems(sampleMenu(), entity.DefaultDietaryPreferences())
	assert.Len(t, got, 5)
}

func TestFilterVegetarianIncludesVegan(t *testing.T) {
	prefs := entity.DefaultDietaryPreferences()
	prefs.Mode = entity.ModeVegetarian
	got := FilterFoodItems(sampleMenu(), prefs)
	assert.ElementsMatch(t, []string{"Margherita Pizza", "Garden Salad"}, names(got))
}

func TestFilterVeganExcludesVegetarian(t *testing.T) {
	prefs := entity.DefaultDietaryPreferences()
	prefs.Mode = entity.ModeVegan
	got := FilterFoodItems(sampleMenu(), prefs)
	assert.Equal(t, []string{"Garden Salad"}, names(got))
}

func TestFilterCalorieRange(t *testing.T) {
	prefs := entity.DefaultDietaryPreferences()
	prefs.CalorieRange = [2]int{300, 600}
	got := FilterFoodItems(sampleMenu(), prefs)
	// the item without nutrition facts fails a bounded range
	assert.ElementsMatch(t, []string{"Garden Salad", "Grilled Salmon"}, names(got))
}

func TestFilterUnboundedRangeKeepsUnknownNutrition(t *testing.T) {
	got := FilterFoodItems(sampleMenu(), entity.DefaultDietaryPreferences())
	assert.Contains(t, names(got), "Mystery Special")
}

func TestFilterRestrictions(t *testing.T) {
	prefs := entity.DefaultDietaryPreferences()
	prefs.Restrictions = []string{"chicken", " SALMON "}
	got := FilterFoodItems(sampleMenu(), prefs)
	assert.NotContains(t, names(got), "Chicken Burger")
	assert.NotContains(t, names(got), "Grilled Salmon")
	assert.Contains(t, names(got), "Margherita Pizza")
}

func TestFilterHealthyOnly(t *testing.T) {
	prefs := entity.DefaultDietaryPreferences()
	prefs.HealthyOnly = true
	got := FilterFoodItems(sampleMenu(), prefs)
	assert.ElementsMatch(t, []string{"Garden Salad", "Grilled Salmon"}, names(got))
}

func TestFilterCombined(t *testing.T) {
	prefs := entity.DietaryPreferences{
		Mode:         entity.ModeVegetarian,
		CalorieRange: [2]int{0, 500},
		HealthyOnly:  true,
	}
	got := FilterFoodItems(sampleMenu(), prefs)
	assert.Equal(t, []string{"Garden Salad"}, names(got))
}
