package configs

import (
	"log"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin creates the first admin account from env, once.
func SeedAdmin() error {
	db := DB()
	email := getEnv("ADMIN_EMAIL", "")
	pass := getEnv("ADMIN_PASSWORD", "")
	if email == "" || pass == "" {
		log.Println("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	db.Model(&entity.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		log.Println("admin already exists:", email)
		return nil
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	admin := entity.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Admin",
		LastName:  "Seed",
		Role:      "admin",
	}
	return db.Create(&admin).Error
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// SeedDemoData loads a browsable storefront: restaurants, menus with
// nutrition and customizations, and a pool of delivery partners.
func SeedDemoData() error {
	db := DB()

	var count int64
	db.Model(&entity.Restaurant{}).Count(&count)
	if count > 0 {
		return nil
	}

	partners := []entity.DeliveryPartner{
		{Name: "Marco Reyes", PhoneNumber: "555-0182", Vehicle: "Scooter"},
		{Name: "Dana Kim", PhoneNumber: "555-0144", Vehicle: "Bicycle"},
		{Name: "Leo Tran", PhoneNumber: "555-0169", Vehicle: "Car"},
	}
	for i := range partners {
		if err := db.Create(&partners[i]).Error; err != nil {
			return err
		}
	}

	bella := entity.Restaurant{
		Name: "Bella Cucina", Description: "Hand-made pasta and wood-fired pizza",
		Address: "12 Via Roma", Cuisine: "Italian",
		DeliveryFee: dec("3.99"), IsOpen: true,
	}
	if err := db.Create(&bella).Error; err != nil {
		return err
	}

	sakura := entity.Restaurant{
		Name: "Sakura Bowl", Description: "Sushi, poke and ramen",
		Address: "88 Cherry St", Cuisine: "Japanese",
		DeliveryFee: dec("4.49"), IsOpen: true,
	}
	if err := db.Create(&sakura).Error; err != nil {
		return err
	}

	items := []entity.FoodItem{
		{
			Name: "Margherita Pizza", Description: "Tomato, mozzarella, basil",
			Price: dec("8.99"), Category: "Pizza", Popular: true,
			DietaryType: entity.DietaryVegetarian, RestaurantID: bella.ID,
			Nutrition: &entity.NutritionalInfo{Calories: 720, Protein: 28, Carbs: 88, Fat: 26, Fiber: 5},
			CustomizationGroups: []entity.CustomizationGroup{
				{Name: "Size", Choices: []entity.CustomizationChoice{
					{Label: "Regular", PriceDelta: dec("0")},
					{Label: "Large", PriceDelta: dec("2.50")},
				}},
				{Name: "Extras", Choices: []entity.CustomizationChoice{
					{Label: "Extra Cheese", PriceDelta: dec("1.25")},
					{Label: "Olives", PriceDelta: dec("0.75")},
				}},
			},
		},
		{
			Name: "Spaghetti Carbonara", Description: "Guanciale, pecorino, egg",
			Price: dec("11.50"), Category: "Pasta",
			DietaryType: entity.DietaryNonVegetarian, RestaurantID: bella.ID,
			Nutrition: &entity.NutritionalInfo{Calories: 860, Protein: 32, Carbs: 92, Fat: 38, Fiber: 3},
		},
		{
			Name: "Salmon Poke Bowl", Description: "Rice, salmon, edamame, avocado",
			Price: dec("12.25"), Category: "Bowls", Popular: true,
			DietaryType: entity.DietarySeafood, RestaurantID: sakura.ID,
			Nutrition: &entity.NutritionalInfo{Calories: 540, Protein: 34, Carbs: 58, Fat: 18, Fiber: 7},
		},
		{
			Name: "Avocado Maki", Description: "Eight pieces",
			Price: dec("5.75"), Category: "Sushi",
			DietaryType: entity.DietaryVegan, RestaurantID: sakura.ID,
			Nutrition: &entity.NutritionalInfo{Calories: 280, Protein: 5, Carbs: 48, Fat: 9, Fiber: 6},
		},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			return err
		}
	}

	log.Println("demo data seeded")
	return nil
}
