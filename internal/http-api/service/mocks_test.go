package service

import (
	"context"
	"sync"
	"time"

	"foodgram/internal/events"
	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/repository"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, search string, page repository.Page) ([]models.User, int64, error) {
	args := m.Called(ctx, search, page)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateAvatar(ctx context.Context, id int64, avatar *string) error {
	args := m.Called(ctx, id, avatar)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id int64, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) ([]string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockTokenRepository mocks the TokenRepository interface
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Create(ctx context.Context, token *models.AuthToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) FindByID(ctx context.Context, id string) (*models.AuthToken, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthToken), args.Error(1)
}

func (m *MockTokenRepository) Revoke(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockTokenCache mocks the TokenCache interface
type MockTokenCache struct {
	mock.Mock
}

func (m *MockTokenCache) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	args := m.Called(ctx, tokenID, expiresAt)
	return args.Error(0)
}

func (m *MockTokenCache) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// MockTagRepository mocks the TagRepository interface
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) List(ctx context.Context) ([]models.Tag, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockTagRepository) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockTagRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Tag, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockTagRepository) Update(ctx context.Context, tag *models.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockTagRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockIngredientRepository mocks the IngredientRepository interface
type MockIngredientRepository struct {
	mock.Mock
}

func (m *MockIngredientRepository) List(ctx context.Context, f repository.IngredientFilter) ([]models.Ingredient, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) GetByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Ingredient, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) Create(ctx context.Context, ingredient *models.Ingredient) error {
	args := m.Called(ctx, ingredient)
	return args.Error(0)
}

func (m *MockIngredientRepository) Update(ctx context.Context, ingredient *models.Ingredient) error {
	args := m.Called(ctx, ingredient)
	return args.Error(0)
}

func (m *MockIngredientRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRecipeRepository mocks the RecipeRepository interface
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) List(ctx context.Context, f repository.RecipeFilter, page repository.Page) ([]models.Recipe, int64, error) {
	args := m.Called(ctx, f, page)
	return args.Get(0).([]models.Recipe), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeRepository) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockRecipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecipeRepository) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]models.Recipe, error) {
	args := m.Called(ctx, authorID, limit)
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error) {
	args := m.Called(ctx, authorIDs)
	return args.Get(0).(map[int64]int64), args.Error(1)
}

// MockUserRecipeRepository mocks both UserRecipeRepository and ShoppingCartRepository
type MockUserRecipeRepository struct {
	mock.Mock
}

func (m *MockUserRecipeRepository) Add(ctx context.Context, userID, recipeID int64) error {
	args := m.Called(ctx, userID, recipeID)
	return args.Error(0)
}

func (m *MockUserRecipeRepository) Remove(ctx context.Context, userID, recipeID int64) error {
	args := m.Called(ctx, userID, recipeID)
	return args.Error(0)
}

func (m *MockUserRecipeRepository) Exists(ctx context.Context, userID, recipeID int64) (bool, error) {
	args := m.Called(ctx, userID, recipeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRecipeRepository) Marked(ctx context.Context, userID int64, recipeIDs []int64) (map[int64]bool, error) {
	args := m.Called(ctx, userID, recipeIDs)
	return args.Get(0).(map[int64]bool), args.Error(1)
}

func (m *MockUserRecipeRepository) CountByRecipes(ctx context.Context, recipeIDs []int64) (map[int64]int64, error) {
	args := m.Called(ctx, recipeIDs)
	return args.Get(0).(map[int64]int64), args.Error(1)
}

func (m *MockUserRecipeRepository) List(ctx context.Context, page repository.Page) ([]models.UserRecipe, int64, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]models.UserRecipe), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRecipeRepository) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRecipeRepository) ShoppingList(ctx context.Context, userID int64) ([]repository.ShoppingListItem, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]repository.ShoppingListItem), args.Error(1)
}

// MockSubscriptionRepository mocks the SubscriptionRepository interface
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Add(ctx context.Context, subscriberID, subscribingID int64) error {
	args := m.Called(ctx, subscriberID, subscribingID)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) Remove(ctx context.Context, subscriberID, subscribingID int64) error {
	args := m.Called(ctx, subscriberID, subscribingID)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) Exists(ctx context.Context, subscriberID, subscribingID int64) (bool, error) {
	args := m.Called(ctx, subscriberID, subscribingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionRepository) Subscribed(ctx context.Context, subscriberID int64, userIDs []int64) (map[int64]bool, error) {
	args := m.Called(ctx, subscriberID, userIDs)
	return args.Get(0).(map[int64]bool), args.Error(1)
}

func (m *MockSubscriptionRepository) ListSubscribing(ctx context.Context, subscriberID int64, page repository.Page) ([]models.User, int64, error) {
	args := m.Called(ctx, subscriberID, page)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockSubscriptionRepository) List(ctx context.Context, page repository.Page) ([]models.Subscription, int64, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]models.Subscription), args.Get(1).(int64), args.Error(2)
}

func (m *MockSubscriptionRepository) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// memStore is an in-memory storage.Store.
type memStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{files: make(map[string][]byte)}
}

func (s *memStore) Save(_ context.Context, key string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = data
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, key)
	return nil
}

func (s *memStore) URL(key string) string {
	return "/media/" + key
}

func (s *memStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[key]
	return ok
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// recordingPublisher keeps published events.
type recordingPublisher struct {
	events []events.RecipeEvent
}

func (p *recordingPublisher) PublishRecipe(_ context.Context, e events.RecipeEvent) error {
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() {}
