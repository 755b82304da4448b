package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"foodgram/internal/events"
	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/repository"
	"foodgram/internal/logging"
	"foodgram/internal/metrics"
	"foodgram/internal/storage"
)

const recipeImagePrefix = "recipes/images"

type IngredientAmount struct {
	IngredientID int64
	Amount       int
}

// RecipeInput is a create or partial-update request. Image is a data URI;
// nil keeps the current image on update.
type RecipeInput struct {
	Name        string
	Text        string
	CookingTime int
	Image       *string
	Tags        []int64
	Ingredients []IngredientAmount
}

// RecipeQuery holds listing filters. Favorited and InCart apply only to a known viewer.
type RecipeQuery struct {
	Tags      []string
	AuthorID  int64
	Favorited bool
	InCart    bool
	Search    string
}

// Marks tells, per recipe id, whether the viewer favorited it or has it in the cart.
type Marks struct {
	Favorited map[int64]bool
	InCart    map[int64]bool
}

type RecipeService interface {
	List(ctx context.Context, viewerID int64, q RecipeQuery, page repository.Page) ([]models.Recipe, int64, error)
	Get(ctx context.Context, id int64) (*models.Recipe, error)
	Create(ctx context.Context, authorID int64, in RecipeInput) (*models.Recipe, error)
	Update(ctx context.Context, userID, recipeID int64, in RecipeInput) (*models.Recipe, error)
	Delete(ctx context.Context, userID, recipeID int64) error
	AdminUpdate(ctx context.Context, recipeID int64, in RecipeInput) (*models.Recipe, error)
	AdminDelete(ctx context.Context, recipeID int64) error
	Marks(ctx context.Context, viewerID int64, recipeIDs []int64) (Marks, error)

	AddFavorite(ctx context.Context, userID, recipeID int64) (*models.Recipe, error)
	RemoveFavorite(ctx context.Context, userID, recipeID int64) error
	AddToCart(ctx context.Context, userID, recipeID int64) (*models.Recipe, error)
	RemoveFromCart(ctx context.Context, userID, recipeID int64) error
	ShoppingList(ctx context.Context, userID int64) ([]repository.ShoppingListItem, error)

	ShortCode(ctx context.Context, recipeID int64) (string, error)
	ResolveShortCode(ctx context.Context, code string) (int64, error)
}

type recipeService struct {
	recipeRepo     repository.RecipeRepository
	tagRepo        repository.TagRepository
	ingredientRepo repository.IngredientRepository
	favoriteRepo   repository.UserRecipeRepository
	cartRepo       repository.ShoppingCartRepository
	store          storage.Store
	publisher      events.Publisher
	maxUploadBytes int64
}

type RecipeDeps struct {
	Recipes        repository.RecipeRepository
	Tags           repository.TagRepository
	Ingredients    repository.IngredientRepository
	Favorites      repository.UserRecipeRepository
	Carts          repository.ShoppingCartRepository
	Store          storage.Store
	Publisher      events.Publisher
	MaxUploadBytes int64
}

func NewRecipeService(deps RecipeDeps) RecipeService {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &recipeService{
		recipeRepo:     deps.Recipes,
		tagRepo:        deps.Tags,
		ingredientRepo: deps.Ingredients,
		favoriteRepo:   deps.Favorites,
		cartRepo:       deps.Carts,
		store:          deps.Store,
		publisher:      publisher,
		maxUploadBytes: deps.MaxUploadBytes,
	}
}

func (s *recipeService) List(ctx context.Context, viewerID int64, q RecipeQuery, page repository.Page) ([]models.Recipe, int64, error) {
	f := repository.RecipeFilter{
		Tags:     q.Tags,
		AuthorID: q.AuthorID,
		Search:   q.Search,
	}
	if viewerID > 0 {
		if q.Favorited {
			f.FavoritedBy = viewerID
		}
		if q.InCart {
			f.InCartOf = viewerID
		}
	}
	return s.recipeRepo.List(ctx, f, page)
}

func (s *recipeService) Get(ctx context.Context, id int64) (*models.Recipe, error) {
	return s.recipeRepo.GetByID(ctx, id)
}

func (s *recipeService) Create(ctx context.Context, authorID int64, in RecipeInput) (*models.Recipe, error) {
	recipe, err := s.validate(ctx, in, true)
	if err != nil {
		return nil, err
	}

	key, err := s.saveImage(ctx, *in.Image)
	if err != nil {
		return nil, err
	}
	recipe.AuthorID = authorID
	recipe.Image = key

	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		s.discard(ctx, key)
		return nil, err
	}

	metrics.RecipesPublished.Inc()
	s.publish(ctx, events.RecipeCreated, recipe)
	return s.recipeRepo.GetByID(ctx, recipe.ID)
}

func (s *recipeService) Update(ctx context.Context, userID, recipeID int64, in RecipeInput) (*models.Recipe, error) {
	current, err := s.owned(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, current, in)
}

func (s *recipeService) Delete(ctx context.Context, userID, recipeID int64) error {
	recipe, err := s.owned(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	return s.delete(ctx, recipe)
}

// AdminUpdate edits any recipe regardless of its author.
func (s *recipeService) AdminUpdate(ctx context.Context, recipeID int64, in RecipeInput) (*models.Recipe, error) {
	current, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, current, in)
}

func (s *recipeService) AdminDelete(ctx context.Context, recipeID int64) error {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		return err
	}
	return s.delete(ctx, recipe)
}

// owned loads the recipe and fails with ErrForbidden unless userID wrote it.
func (s *recipeService) owned(ctx context.Context, userID, recipeID int64) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, ErrForbidden
	}
	return recipe, nil
}

func (s *recipeService) update(ctx context.Context, current *models.Recipe, in RecipeInput) (*models.Recipe, error) {
	recipe, err := s.validate(ctx, in, false)
	if err != nil {
		return nil, err
	}
	recipe.ID = current.ID
	recipe.AuthorID = current.AuthorID
	recipe.Image = current.Image

	var newKey string
	if in.Image != nil {
		if newKey, err = s.saveImage(ctx, *in.Image); err != nil {
			return nil, err
		}
		recipe.Image = newKey
	}

	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		if newKey != "" {
			s.discard(ctx, newKey)
		}
		return nil, err
	}
	if newKey != "" && current.Image != "" {
		s.discard(ctx, current.Image)
	}

	s.publish(ctx, events.RecipeUpdated, recipe)
	return s.recipeRepo.GetByID(ctx, current.ID)
}

func (s *recipeService) delete(ctx context.Context, recipe *models.Recipe) error {
	if err := s.recipeRepo.Delete(ctx, recipe.ID); err != nil {
		return err
	}
	if recipe.Image != "" {
		s.discard(ctx, recipe.Image)
	}
	s.publish(ctx, events.RecipeDeleted, recipe)
	return nil
}

// validate checks in and resolves tag and ingredient ids. Image is required only on create.
func (s *recipeService) validate(ctx context.Context, in RecipeInput, create bool) (*models.Recipe, error) {
	v := &ValidationError{}

	name := strings.TrimSpace(in.Name)
	if name == "" || utf8.RuneCountInString(name) > models.MaxRecipeNameLength {
		v.Add("name", "Name must be 1 to 256 characters long.")
	}
	if strings.TrimSpace(in.Text) == "" {
		v.Add("text", "This field is required.")
	}
	if in.CookingTime < models.MinCookingTime || in.CookingTime > models.MaxCookingTime {
		v.Add("cooking_time", fmt.Sprintf("Cooking time must be between %d and %d.", models.MinCookingTime, models.MaxCookingTime))
	}
	if in.Image == nil {
		if create {
			v.Add("image", "This field is required.")
		}
	} else if strings.TrimSpace(*in.Image) == "" {
		v.Add("image", "This field may not be empty.")
	}

	tagIDs := s.checkTags(v, in.Tags)
	ingredientIDs := s.checkIngredients(v, in.Ingredients)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	tags, err := s.tagRepo.FindByIDs(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(tagIDs) {
		v.Add("tags", "One or more tags do not exist.")
	}

	found, err := s.ingredientRepo.FindByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ingredientIDs) {
		v.Add("ingredients", "One or more ingredients do not exist.")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	items := make([]models.RecipeIngredient, 0, len(in.Ingredients))
	for _, ia := range in.Ingredients {
		items = append(items, models.RecipeIngredient{IngredientID: ia.IngredientID, Amount: ia.Amount})
	}

	return &models.Recipe{
		Name:              name,
		Text:              in.Text,
		CookingTime:       in.CookingTime,
		Tags:              tags,
		RecipeIngredients: items,
	}, nil
}

func (s *recipeService) checkTags(v *ValidationError, ids []int64) []int64 {
	if len(ids) == 0 {
		v.Add("tags", "At least one tag is required.")
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			v.Add("tags", "Tags must not repeat.")
			return nil
		}
		seen[id] = struct{}{}
	}
	return ids
}

func (s *recipeService) checkIngredients(v *ValidationError, items []IngredientAmount) []int64 {
	if len(items) == 0 {
		v.Add("ingredients", "At least one ingredient is required.")
		return nil
	}
	ids := make([]int64, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.IngredientID]; dup {
			v.Add("ingredients", "Ingredients must not repeat.")
			return nil
		}
		if item.Amount < models.MinAmount || item.Amount > models.MaxAmount {
			v.Add("ingredients", fmt.Sprintf("Amount must be between %d and %d.", models.MinAmount, models.MaxAmount))
			return nil
		}
		seen[item.IngredientID] = struct{}{}
		ids = append(ids, item.IngredientID)
	}
	return ids
}

func (s *recipeService) saveImage(ctx context.Context, dataURI string) (string, error) {
	key, err := storage.SaveDataURI(ctx, s.store, recipeImagePrefix, dataURI, s.maxUploadBytes)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImage) || errors.Is(err, storage.ErrImageTooLarge) {
			return "", fieldError("image", err.Error())
		}
		return "", err
	}
	return key, nil
}

func (s *recipeService) discard(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Failed to delete stored image")
	}
}

func (s *recipeService) publish(ctx context.Context, eventType string, recipe *models.Recipe) {
	err := s.publisher.PublishRecipe(ctx, events.RecipeEvent{
		Type:     eventType,
		RecipeID: recipe.ID,
		AuthorID: recipe.AuthorID,
		Name:     recipe.Name,
	})
	if err != nil {
		logging.Warn().Err(err).Int64("recipe_id", recipe.ID).Str("type", eventType).Msg("Failed to publish recipe event")
	}
}

func (s *recipeService) Marks(ctx context.Context, viewerID int64, recipeIDs []int64) (Marks, error) {
	favorited, err := s.favoriteRepo.Marked(ctx, viewerID, recipeIDs)
	if err != nil {
		return Marks{}, err
	}
	inCart, err := s.cartRepo.Marked(ctx, viewerID, recipeIDs)
	if err != nil {
		return Marks{}, err
	}
	return Marks{Favorited: favorited, InCart: inCart}, nil
}

func (s *recipeService) AddFavorite(ctx context.Context, userID, recipeID int64) (*models.Recipe, error) {
	return s.addTo(ctx, s.favoriteRepo, userID, recipeID)
}

func (s *recipeService) RemoveFavorite(ctx context.Context, userID, recipeID int64) error {
	return s.removeFrom(ctx, s.favoriteRepo, userID, recipeID)
}

func (s *recipeService) AddToCart(ctx context.Context, userID, recipeID int64) (*models.Recipe, error) {
	return s.addTo(ctx, s.cartRepo, userID, recipeID)
}

func (s *recipeService) RemoveFromCart(ctx context.Context, userID, recipeID int64) error {
	return s.removeFrom(ctx, s.cartRepo, userID, recipeID)
}

func (s *recipeService) addTo(ctx context.Context, list repository.UserRecipeRepository, userID, recipeID int64) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := list.Add(ctx, userID, recipeID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyInList
		}
		return nil, err
	}
	return recipe, nil
}

func (s *recipeService) removeFrom(ctx context.Context, list repository.UserRecipeRepository, userID, recipeID int64) error {
	if _, err := s.recipeRepo.GetByID(ctx, recipeID); err != nil {
		return err
	}
	if err := list.Remove(ctx, userID, recipeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotInList
		}
		return err
	}
	return nil
}

func (s *recipeService) ShoppingList(ctx context.Context, userID int64) ([]repository.ShoppingListItem, error) {
	items, err := s.cartRepo.ShoppingList(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		metrics.ShoppingListDownloads.Inc()
	}
	return items, nil
}

// RenderShoppingList formats items as numbered "name - amount (unit)" lines.
func RenderShoppingList(items []repository.ShoppingListItem) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s - %d (%s)", i+1, item.Name, item.Amount, item.MeasurementUnit)
	}
	return b.String()
}

// EncodeShortCode renders a recipe id in base 36.
func EncodeShortCode(id int64) string {
	return strconv.FormatInt(id, 36)
}

// DecodeShortCode parses a base-36 short code. Codes that do not name a positive id are ErrNotFound.
func DecodeShortCode(code string) (int64, error) {
	id, err := strconv.ParseInt(strings.ToLower(code), 36, 64)
	if err != nil || id <= 0 {
		return 0, ErrNotFound
	}
	return id, nil
}

func (s *recipeService) ShortCode(ctx context.Context, recipeID int64) (string, error) {
	if _, err := s.recipeRepo.GetByID(ctx, recipeID); err != nil {
		return "", err
	}
	return EncodeShortCode(recipeID), nil
}

func (s *recipeService) ResolveShortCode(ctx context.Context, code string) (int64, error) {
	id, err := DecodeShortCode(code)
	if err != nil {
		return 0, err
	}
	if _, err := s.recipeRepo.GetByID(ctx, id); err != nil {
		return 0, err
	}
	return id, nil
}
