package model

import "time"

type MealType string

const (
	MealTypeMeal   MealType = "meal"
	MealTypeRecipe MealType = "recipe"
)

type MealSource string

const (
	SourceHome    MealSource = "home"
	SourceOrdered MealSource = "ordered"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// NutritionInfo holds per-item or per-meal nutrition. Fiber and sugar are
// optional on detections; a nil value counts as zero.
type NutritionInfo struct {
	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"`
	Fat      float64  `json:"fat"`
	Carbs    float64  `json:"carbs"`
	Fiber    *float64 `json:"fiber,omitempty"`
	Sugar    *float64 `json:"sugar,omitempty"`
}

func (n NutritionInfo) FiberValue() float64 {
	if n.Fiber == nil {
		return 0
	}
	return *n.Fiber
}

func (n NutritionInfo) SugarValue() float64 {
	if n.Sugar == nil {
		return 0
	}
	return *n.Sugar
}

type FoodItem struct {
	NutritionInfo
	Name       string  `json:"name"`
	Quantity   string  `json:"quantity"`
	Confidence float64 `json:"confidence"`
}

type MealLog struct {
	ID             string        `json:"id"`
	UserID         string        `json:"userId"`
	Date           time.Time     `json:"date"`
	Type           MealType      `json:"type"`
	Foods          []FoodItem    `json:"foods"`
	Totals         NutritionInfo `json:"totals"`
	Confidence     float64       `json:"confidence"`
	ImageURL       string        `json:"imageUrl,omitempty"`
	Source         MealSource    `json:"source,omitempty"`
	RestaurantName string        `json:"restaurantName,omitempty"`
	DrinkPairings  []string      `json:"drinkPairings,omitempty"`
	Notes          string        `json:"notes,omitempty"`
}

type RecipeStep struct {
	Instruction          string   `json:"instruction"`
	NutritionalHighlight string   `json:"nutritionalHighlight,omitempty"`
	StepCalories         *float64 `json:"stepCalories,omitempty"`
}

type Recipe struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Description         string       `json:"description"`
	CookingTime         string       `json:"cookingTime"`
	Difficulty          Difficulty   `json:"difficulty"`
	Ingredients         []FoodItem   `json:"ingredients"`
	Instructions        []RecipeStep `json:"instructions"`
	OptionalIngredients []string     `json:"optionalIngredients"`
	ImageURL            string       `json:"imageUrl"`
	DrinkPairings       []string     `json:"drinkPairings"`
}

type MacroDistribution struct {
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carbs   float64 `json:"carbs"`
}

type SourceDistribution struct {
	Home    int `json:"home"`
	Ordered int `json:"ordered"`
}

type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

type Trend struct {
	Label     string         `json:"label"`
	Value     float64        `json:"value"`
	Direction TrendDirection `json:"direction"`
}

type MonthlyReport struct {
	Month              string             `json:"month,omitempty"`
	BehaviorSummary    string             `json:"behaviorSummary"`
	Patterns           []string           `json:"patterns"`
	ActionPlan         string             `json:"actionPlan"`
	MacroDistribution  MacroDistribution  `json:"macroDistribution"`
	SourceDistribution SourceDistribution `json:"sourceDistribution"`
	Trends             []Trend            `json:"trends"`
	ConsistencyScore   float64            `json:"consistencyScore"`
	Insights           []string           `json:"insights,omitempty"`
}

type Profile struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName,omitempty"`
	LastName       string    `json:"lastName,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	CountryRegion  string    `json:"countryRegion,omitempty"`
	DietPreference string    `json:"dietPreference"`
	Allergens      []string  `json:"allergens"`
	DateOfBirth    string    `json:"dateOfBirth,omitempty"`
	UpdatedAt      time.Time `json:"-"`
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
