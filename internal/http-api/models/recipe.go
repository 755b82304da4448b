package models

import "time"

const (
	MaxRecipeNameLength = 256
	MinCookingTime      = 1
	MaxCookingTime      = 32000
	MinAmount           = 1
	MaxAmount           = 32000
)

type Recipe struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AuthorID    int64     `gorm:"not null;index" json:"author_id"`
	Name        string    `gorm:"size:256;not null" json:"name"`
	Image       string    `gorm:"size:255;not null" json:"image"` // storage key
	Text        string    `gorm:"type:text;not null" json:"text"`
	CookingTime int       `gorm:"not null;check:chk_recipes_cooking_time,cooking_time >= 1" json:"cooking_time"`
	PubDate     time.Time `gorm:"autoCreateTime;index" json:"pub_date"`

	// associations
	Author            *User              `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;" json:"author,omitempty"`
	Tags              []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE;" json:"tags,omitempty"`
	RecipeIngredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE;" json:"ingredients,omitempty"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeTag is the explicit join row behind Recipe.Tags.
type RecipeTag struct {
	RecipeID int64 `gorm:"primaryKey" json:"recipe_id"`
	TagID    int64 `gorm:"primaryKey;index" json:"tag_id"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

// RecipeIngredient carries the amount of one ingredient in one recipe.
type RecipeIngredient struct {
	ID           int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipeID     int64       `gorm:"not null;uniqueIndex:idx_recipe_ingredients_pair" json:"recipe_id"`
	IngredientID int64       `gorm:"not null;uniqueIndex:idx_recipe_ingredients_pair;index" json:"ingredient_id"`
	Amount       int         `gorm:"not null;check:chk_recipe_ingredients_amount,amount >= 1" json:"amount"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE;" json:"ingredient,omitempty"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
