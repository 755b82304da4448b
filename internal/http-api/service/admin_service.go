package service

import (
	"context"

	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/repository"
)

// AdminRecipe is a recipe row on the admin list.
type AdminRecipe struct {
	Recipe         models.Recipe
	FavoritesCount int64
}

// AdminService backs the admin-only endpoints that have no user-facing counterpart.
type AdminService interface {
	Recipes(ctx context.Context, tagSlug, search string, page repository.Page) ([]AdminRecipe, int64, error)
	UpdateRecipe(ctx context.Context, id int64, in RecipeInput) (*AdminRecipe, error)
	DeleteRecipe(ctx context.Context, id int64) error

	Favorites(ctx context.Context, page repository.Page) ([]models.UserRecipe, int64, error)
	ShoppingCarts(ctx context.Context, page repository.Page) ([]models.UserRecipe, int64, error)
	DeleteFavorite(ctx context.Context, id int64) error
	DeleteCartItem(ctx context.Context, id int64) error
	DeleteSubscription(ctx context.Context, id int64) error
}

type AdminDeps struct {
	Recipes       repository.RecipeRepository
	Editor        RecipeService
	Favorites     repository.UserRecipeRepository
	Carts         repository.ShoppingCartRepository
	Subscriptions repository.SubscriptionRepository
}

type adminService struct {
	recipeRepo   repository.RecipeRepository
	editor       RecipeService
	favoriteRepo repository.UserRecipeRepository
	cartRepo     repository.ShoppingCartRepository
	subRepo      repository.SubscriptionRepository
}

func NewAdminService(deps AdminDeps) AdminService {
	return &adminService{
		recipeRepo:   deps.Recipes,
		editor:       deps.Editor,
		favoriteRepo: deps.Favorites,
		cartRepo:     deps.Carts,
		subRepo:      deps.Subscriptions,
	}
}

func (s *adminService) Recipes(ctx context.Context, tagSlug, search string, page repository.Page) ([]AdminRecipe, int64, error) {
	f := repository.RecipeFilter{Search: search}
	if tagSlug != "" {
		f.Tags = []string{tagSlug}
	}

	recipes, total, err := s.recipeRepo.List(ctx, f, page)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.withCounts(ctx, recipes)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *adminService) UpdateRecipe(ctx context.Context, id int64, in RecipeInput) (*AdminRecipe, error) {
	recipe, err := s.editor.AdminUpdate(ctx, id, in)
	if err != nil {
		return nil, err
	}
	rows, err := s.withCounts(ctx, []models.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func (s *adminService) DeleteRecipe(ctx context.Context, id int64) error {
	return s.editor.AdminDelete(ctx, id)
}

func (s *adminService) withCounts(ctx context.Context, recipes []models.Recipe) ([]AdminRecipe, error) {
	ids := make([]int64, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}
	counts, err := s.favoriteRepo.CountByRecipes(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]AdminRecipe, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, AdminRecipe{Recipe: r, FavoritesCount: counts[r.ID]})
	}
	return out, nil
}

func (s *adminService) Favorites(ctx context.Context, page repository.Page) ([]models.UserRecipe, int64, error) {
	return s.favoriteRepo.List(ctx, page)
}

func (s *adminService) ShoppingCarts(ctx context.Context, page repository.Page) ([]models.UserRecipe, int64, error) {
	return s.cartRepo.List(ctx, page)
}

func (s *adminService) DeleteFavorite(ctx context.Context, id int64) error {
	return s.favoriteRepo.DeleteByID(ctx, id)
}

func (s *adminService) DeleteCartItem(ctx context.Context, id int64) error {
	return s.cartRepo.DeleteByID(ctx, id)
}

func (s *adminService) DeleteSubscription(ctx context.Context, id int64) error {
	return s.subRepo.DeleteByID(ctx, id)
}
