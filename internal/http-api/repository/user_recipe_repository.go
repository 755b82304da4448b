package repository

import (
	"context"
	"fmt"

	"foodgram/internal/http-api/models"

	"gorm.io/gorm"
)

// UserRecipeRepository manages a per-user set of saved recipes
// (favorites or shopping cart). Each (user, recipe) pair is stored once.
type UserRecipeRepository interface {
	Add(ctx context.Context, userID, recipeID int64) error
	Remove(ctx context.Context, userID, recipeID int64) error
	Exists(ctx context.Context, userID, recipeID int64) (bool, error)
	Marked(ctx context.Context, userID int64, recipeIDs []int64) (map[int64]bool, error)
	CountByRecipes(ctx context.Context, recipeIDs []int64) (map[int64]int64, error)
	List(ctx context.Context, page Page) ([]models.UserRecipe, int64, error)
	DeleteByID(ctx context.Context, id int64) error
}

// ShoppingListItem is one aggregated line of a shopping list.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int64  `json:"amount"`
}

type ShoppingCartRepository interface {
	UserRecipeRepository
	ShoppingList(ctx context.Context, userID int64) ([]ShoppingListItem, error)
}

type userRecipeRepository struct {
	db    *gorm.DB
	table string
}

func NewFavoriteRepository(db *gorm.DB) UserRecipeRepository {
	return &userRecipeRepository{db: db, table: models.Favorite{}.TableName()}
}

func NewShoppingCartRepository(db *gorm.DB) ShoppingCartRepository {
	return &shoppingCartRepository{
		userRecipeRepository: &userRecipeRepository{db: db, table: models.ShoppingCart{}.TableName()},
	}
}

func (r *userRecipeRepository) rows(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.table)
}

// Add fails with ErrDuplicate when the pair is already stored.
func (r *userRecipeRepository) Add(ctx context.Context, userID, recipeID int64) error {
	row := models.UserRecipe{UserID: userID, RecipeID: recipeID}
	if err := r.rows(ctx).Omit("User", "Recipe").Create(&row).Error; err != nil {
		return fmt.Errorf("add to %s: %w", r.table, translateError(err))
	}
	return nil
}

// Remove fails with ErrNotFound when there was nothing to delete.
func (r *userRecipeRepository) Remove(ctx context.Context, userID, recipeID int64) error {
	result := r.rows(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.UserRecipe{})
	if result.Error != nil {
		return fmt.Errorf("remove from %s: %w", r.table, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRecipeRepository) Exists(ctx context.Context, userID, recipeID int64) (bool, error) {
	var count int64
	if err := r.rows(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Marked reports which of recipeIDs the user has stored.
func (r *userRecipeRepository) Marked(ctx context.Context, userID int64, recipeIDs []int64) (map[int64]bool, error) {
	marked := make(map[int64]bool, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return marked, nil
	}

	var ids []int64
	if err := r.rows(ctx).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("query %s: %w", r.table, err)
	}
	for _, id := range ids {
		marked[id] = true
	}
	return marked, nil
}

func (r *userRecipeRepository) CountByRecipes(ctx context.Context, recipeIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		RecipeID int64
		Total    int64
	}
	if err := r.rows(ctx).
		Select("recipe_id, COUNT(*) AS total").
		Where("recipe_id IN ?", recipeIDs).
		Group("recipe_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count %s: %w", r.table, err)
	}
	for _, row := range rows {
		counts[row.RecipeID] = row.Total
	}
	return counts, nil
}

func (r *userRecipeRepository) List(ctx context.Context, page Page) ([]models.UserRecipe, int64, error) {
	var total int64
	if err := r.rows(ctx).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.table, err)
	}

	var list []models.UserRecipe
	if err := r.rows(ctx).
		Preload("User").
		Preload("Recipe").
		Order("user_id, id").
		Limit(page.Limit()).
		Offset(page.Offset()).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", r.table, err)
	}
	return list, total, nil
}

func (r *userRecipeRepository) DeleteByID(ctx context.Context, id int64) error {
	result := r.rows(ctx).Where("id = ?", id).Delete(&models.UserRecipe{})
	if result.Error != nil {
		return fmt.Errorf("delete from %s: %w", r.table, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type shoppingCartRepository struct {
	*userRecipeRepository
}

// ShoppingList sums ingredient amounts over every recipe in the user's cart,
// grouped by (name, measurement unit) and ordered by name.
func (r *shoppingCartRepository) ShoppingList(ctx context.Context, userID int64) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	if err := r.db.WithContext(ctx).
		Table("recipe_ingredients AS ri").
		Select("i.name AS name, i.measurement_unit AS measurement_unit, SUM(ri.amount) AS amount").
		Joins("JOIN ingredients AS i ON i.id = ri.ingredient_id").
		Joins("JOIN shopping_carts AS sc ON sc.recipe_id = ri.recipe_id").
		Where("sc.user_id = ?", userID).
		Group("i.name, i.measurement_unit").
		Order("i.name, i.measurement_unit").
		Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("aggregate shopping list: %w", err)
	}
	return items, nil
}
