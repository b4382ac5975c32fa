package configs

import (
	"github.com/Pirategrand/savory-cart-portal/entity"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

func DB() *gorm.DB {
	return db
}

func ConnectionDB(source string) {
	database, err := gorm.Open(sqlite.Open(source), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db = database
}

func SetupDatabase() {
	db.AutoMigrate(
		&entity.User{},
		&entity.Restaurant{},
		&entity.FoodItem{}, &entity.NutritionalInfo{},
		&entity.CustomizationGroup{}, &entity.CustomizationChoice{},
		&entity.Order{}, &entity.OrderItem{}, &entity.TrackingUpdate{},
		&entity.DeliveryPartner{},
		&entity.Review{}, &entity.ReviewVote{},
		&entity.PaymentIntent{},
	)
}
