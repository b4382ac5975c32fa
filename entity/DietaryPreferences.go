package entity

// DietaryMode widens DietaryType with the "show everything" default.
type DietaryMode string

const (
	ModeAll           DietaryMode = "all"
	ModeVegetarian    DietaryMode = "vegetarian"
	ModeVegan         DietaryMode = "vegan"
	ModeNonVegetarian DietaryMode = "non-vegetarian"
	ModeSeafood       DietaryMode = "seafood"
)

// DietaryPreferences is pure client filter state, persisted per user in
// the key/value store.
type DietaryPreferences struct {
	Mode         DietaryMode `json:"mode"`
	CalorieRange [2]int      `json:"calorieRange"`
	Restrictions []string    `json:"restrictions"`
	HealthyOnly  bool        `json:"healthyOnly"`
}

// DefaultDietaryPreferences filters nothing.
func DefaultDietaryPreferences() DietaryPreferences {
	return DietaryPreferences{Mode: ModeAll, CalorieRange: [2]int{0, 2000}}
}
