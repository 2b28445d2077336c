package analysis

import "time"

// Ingredient is the per-ingredient entry of a health assessment.
type Ingredient struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	SafetyRating float64  `json:"safetyRating"`
	Concerns     []string `json:"concerns"`
}

// Result is the normalized structured health assessment. Ratings are on a
// 1-10 scale, 10 being safest.
type Result struct {
	ID                   int64        `json:"id,omitempty"`
	OverallRating        float64      `json:"overallRating"`
	SkinIrritationRating float64      `json:"skinIrritationRating"`
	AllergenRating       float64      `json:"allergenRating"`
	EnvironmentalRating  float64      `json:"environmentalRating"`
	Summary              string       `json:"summary"`
	KeyFindings          []string     `json:"keyFindings"`
	Recommendation       string       `json:"recommendation"`
	Ingredients          []Ingredient `json:"ingredients"`
}

// StoredAnalysis is a persisted analysis row, linked to the user who ran it.
type StoredAnalysis struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"userId"`
	Ingredients     string    `json:"ingredients"`
	Analysis        Result    `json:"analysis"`
	OverallRating   float64   `json:"overallRating"`
	IngredientCount int       `json:"ingredientCount"`
	CreatedAt       time.Time `json:"createdAt"`
}

// RecentAnalysis is the denormalized view the admin dashboard lists.
type RecentAnalysis struct {
	ID            int64     `json:"id"`
	Ingredients   string    `json:"ingredients"`
	OverallRating float64   `json:"overallRating"`
	UserEmail     *string   `json:"userEmail"`
	CreatedAt     time.Time `json:"createdAt"`
}
