package entity

import (
	"gorm.io/gorm"
)

type NutritionalInfo struct {
	gorm.Model
	FoodItemID uint `json:"-"`

	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}
