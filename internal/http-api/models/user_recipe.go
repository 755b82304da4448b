package models

import "time"

// Favorite and ShoppingCart share a shape; each is unique per (user, recipe).
// They are declared separately so that index names stay unique per schema.

type Favorite struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_favorites_user_recipe"`
	RecipeID  int64     `gorm:"not null;uniqueIndex:idx_favorites_user_recipe;index"`
	CreatedAt time.Time
	User      *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Recipe    *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE;"`
}

func (Favorite) TableName() string {
	return "favorites"
}

type ShoppingCart struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_shopping_carts_user_recipe"`
	RecipeID  int64     `gorm:"not null;uniqueIndex:idx_shopping_carts_user_recipe;index"`
	CreatedAt time.Time
	User      *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Recipe    *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE;"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}

// UserRecipe is the read/write row used against either relation table.
// It is never migrated on its own.
type UserRecipe struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	RecipeID  int64     `json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Recipe    *Recipe   `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
}
