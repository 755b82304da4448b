package repository

import (
	"context"
	"fmt"
	"strings"

	"foodgram/internal/http-api/models"

	"gorm.io/gorm"
)

// RecipeFilter is the WHERE clause of a recipe listing.
// Tags match any of the given slugs. Zero values are ignored.
type RecipeFilter struct {
	Tags        []string
	AuthorID    int64
	FavoritedBy int64
	InCartOf    int64
	Search      string
}

type RecipeRepository interface {
	List(ctx context.Context, f RecipeFilter, page Page) ([]models.Recipe, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Recipe, error)
	Create(ctx context.Context, recipe *models.Recipe) error
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id int64) error
	ListByAuthor(ctx context.Context, authorID int64, limit int) ([]models.Recipe, error)
	CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// applyFilter builds the WHERE clause. Relation filters use IN subqueries
// so a recipe matching several tags is returned once.
func (r *recipeRepository) applyFilter(q *gorm.DB, f RecipeFilter) *gorm.DB {
	if len(f.Tags) > 0 {
		tagged := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.Tags)
		q = q.Where("recipes.id IN (?)", tagged)
	}
	if f.AuthorID > 0 {
		q = q.Where("recipes.author_id = ?", f.AuthorID)
	}
	if f.FavoritedBy > 0 {
		q = q.Where("recipes.id IN (?)",
			r.db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", f.FavoritedBy))
	}
	if f.InCartOf > 0 {
		q = q.Where("recipes.id IN (?)",
			r.db.Model(&models.ShoppingCart{}).Select("recipe_id").Where("user_id = ?", f.InCartOf))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("recipes.name ILIKE ?", "%"+escapeLike(s)+"%")
	}
	return q
}

func (r *recipeRepository) withDetails(q *gorm.DB) *gorm.DB {
	return q.Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("RecipeIngredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("RecipeIngredients.Ingredient")
}

func (r *recipeRepository) List(ctx context.Context, f RecipeFilter, page Page) ([]models.Recipe, int64, error) {
	query := func() *gorm.DB {
		return r.applyFilter(r.db.WithContext(ctx).Model(&models.Recipe{}), f)
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	var list []models.Recipe
	if err := r.withDetails(query()).
		Order("recipes.pub_date DESC, recipes.id DESC").
		Limit(page.Limit()).
		Offset(page.Offset()).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}
	return list, total, nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.withDetails(r.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &recipe, nil
}

// Create inserts the recipe, its tag links and ingredient amounts in one transaction.
// recipe.Tags only needs IDs set.
func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Tags", "RecipeIngredients").Create(recipe).Error; err != nil {
			return fmt.Errorf("create recipe: %w", translateError(err))
		}
		return r.replaceRelations(tx, recipe)
	})
}

// Update saves the scalar fields and replaces tag links and ingredient amounts.
func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Recipe{ID: recipe.ID}).
			Select("name", "text", "cooking_time", "image").
			Updates(recipe)
		if result.Error != nil {
			return fmt.Errorf("update recipe: %w", translateError(result.Error))
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeTag{}).Error; err != nil {
			return fmt.Errorf("clear recipe tags: %w", err)
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("clear recipe ingredients: %w", err)
		}
		return r.replaceRelations(tx, recipe)
	})
}

func (r *recipeRepository) replaceRelations(tx *gorm.DB, recipe *models.Recipe) error {
	if len(recipe.Tags) > 0 {
		links := make([]models.RecipeTag, 0, len(recipe.Tags))
		for _, t := range recipe.Tags {
			links = append(links, models.RecipeTag{RecipeID: recipe.ID, TagID: t.ID})
		}
		if err := tx.Create(&links).Error; err != nil {
			return fmt.Errorf("link recipe tags: %w", translateError(err))
		}
	}

	if len(recipe.RecipeIngredients) > 0 {
		items := make([]models.RecipeIngredient, 0, len(recipe.RecipeIngredients))
		for _, ri := range recipe.RecipeIngredients {
			items = append(items, models.RecipeIngredient{
				RecipeID:     recipe.ID,
				IngredientID: ri.IngredientID,
				Amount:       ri.Amount,
			})
		}
		if err := tx.Omit("Ingredient").Create(&items).Error; err != nil {
			return fmt.Errorf("add recipe ingredients: %w", translateError(err))
		}
	}
	return nil
}

// Delete removes the recipe together with every row that references it.
func (r *recipeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []any{
			&models.RecipeTag{},
			&models.RecipeIngredient{},
			&models.Favorite{},
			&models.ShoppingCart{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(dependent).Error; err != nil {
				return fmt.Errorf("delete recipe dependents: %w", err)
			}
		}

		result := tx.Delete(&models.Recipe{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete recipe: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ListByAuthor returns the author's newest recipes without associations.
// limit <= 0 returns all of them.
func (r *recipeRepository) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]models.Recipe, error) {
	q := r.db.WithContext(ctx).
		Select("id", "author_id", "name", "image", "cooking_time", "pub_date").
		Where("author_id = ?", authorID).
		Order("pub_date DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var list []models.Recipe
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list author recipes: %w", err)
	}
	return list, nil
}

func (r *recipeRepository) CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID int64
		Total    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count author recipes: %w", err)
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}
