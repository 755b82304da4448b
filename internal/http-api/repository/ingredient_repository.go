package repository

import (
	"context"
	"fmt"
	"strings"

	"foodgram/internal/http-api/models"

	"gorm.io/gorm"
)

// IngredientFilter narrows ingredient listings.
// NamePrefix is a case-insensitive prefix match, Search a substring match.
type IngredientFilter struct {
	NamePrefix string
	Search     string
}

type IngredientRepository interface {
	List(ctx context.Context, f IngredientFilter) ([]models.Ingredient, error)
	GetByID(ctx context.Context, id int64) (*models.Ingredient, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Ingredient, error)
	Create(ctx context.Context, ingredient *models.Ingredient) error
	Update(ctx context.Context, ingredient *models.Ingredient) error
	Delete(ctx context.Context, id int64) error
}

type ingredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) List(ctx context.Context, f IngredientFilter) ([]models.Ingredient, error) {
	q := r.db.WithContext(ctx).Model(&models.Ingredient{})
	if p := strings.TrimSpace(f.NamePrefix); p != "" {
		q = q.Where("name ILIKE ?", escapeLike(p)+"%")
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("name ILIKE ?", "%"+escapeLike(s)+"%")
	}

	var list []models.Ingredient
	if err := q.Order("name").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return list, nil
}

func (r *ingredientRepository) GetByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &ingredient, nil
}

func (r *ingredientRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Ingredient, error) {
	var list []models.Ingredient
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find ingredients: %w", err)
	}
	return list, nil
}

func (r *ingredientRepository) Create(ctx context.Context, ingredient *models.Ingredient) error {
	if err := r.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		return fmt.Errorf("create ingredient: %w", translateError(err))
	}
	return nil
}

func (r *ingredientRepository) Update(ctx context.Context, ingredient *models.Ingredient) error {
	if err := r.db.WithContext(ctx).Save(ingredient).Error; err != nil {
		return fmt.Errorf("update ingredient: %w", translateError(err))
	}
	return nil
}

// Delete cascades to the recipe_ingredients rows that reference it.
func (r *ingredientRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Ingredient{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete ingredient: %w", translateError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
