package dto

import (
	"math"
	"net/url"
	"testing"

	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/repository"
	"foodgram/internal/http-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prefixMedia string

func (p prefixMedia) URL(key string) string { return string(p) + key }

func TestNewPaginated_Links(t *testing.T) {
	u, err := url.Parse("http://localhost/api/recipes/?limit=2&page=2&tags=lunch")
	require.NoError(t, err)

	p := NewPaginated([]int{3, 4}, 5, repository.NewPage(2, 2), u)
	assert.EqualValues(t, 5, p.Count)
	require.NotNil(t, p.Next)
	require.NotNil(t, p.Previous)
	assert.Equal(t, "http://localhost/api/recipes/?limit=2&page=3&tags=lunch", *p.Next)
	assert.Equal(t, "http://localhost/api/recipes/?limit=2&tags=lunch", *p.Previous)
}

func TestNewPaginated_LastPage(t *testing.T) {
	u, _ := url.Parse("http://localhost/api/users/")
	p := NewPaginated[int](nil, 3, repository.NewPage(1, 6), u)
	assert.Nil(t, p.Next)
	assert.Nil(t, p.Previous)
	assert.NotNil(t, p.Results)
	assert.Empty(t, p.Results)
}

func TestNewPaginated_PageBeyondEnd(t *testing.T) {
	u, _ := url.Parse("http://localhost/api/recipes/")
	p := NewPaginated[int](nil, 5, repository.NewPage(math.MaxInt, repository.MaxPageSize), u)
	assert.Nil(t, p.Next)
	require.NotNil(t, p.Previous)
	assert.Contains(t, *p.Previous, "page=")
}

func TestFromModelToRecipeResponse(t *testing.T) {
	avatar := "users/a.png"
	recipe := &models.Recipe{
		ID:          5,
		AuthorID:    2,
		Name:        "Soup",
		Image:       "recipes/images/s.png",
		Text:        "Boil.",
		CookingTime: 30,
		Author:      &models.User{ID: 2, Username: "chef", Avatar: &avatar},
		Tags:        []models.Tag{{ID: 1, Name: "Lunch", Slug: "lunch"}},
		RecipeIngredients: []models.RecipeIngredient{
			{IngredientID: 9, Amount: 500, Ingredient: &models.Ingredient{ID: 9, Name: "вода", MeasurementUnit: "мл"}},
		},
	}
	view := RecipeView{
		Marks:      service.Marks{Favorited: map[int64]bool{5: true}},
		Subscribed: map[int64]bool{2: true},
		Media:      prefixMedia("/media/"),
	}

	resp := FromModelToRecipeResponse(recipe, view)
	assert.True(t, resp.IsFavorited)
	assert.False(t, resp.IsInShoppingCart)
	assert.Equal(t, "/media/recipes/images/s.png", resp.Image)
	assert.True(t, resp.Author.IsSubscribed)
	require.NotNil(t, resp.Author.Avatar)
	assert.Equal(t, "/media/users/a.png", *resp.Author.Avatar)
	require.Len(t, resp.Ingredients, 1)
	assert.Equal(t, RecipeIngredientResponse{ID: 9, Name: "вода", MeasurementUnit: "мл", Amount: 500}, resp.Ingredients[0])
}

func TestFromModelToUserResponse_NoAvatar(t *testing.T) {
	resp := FromModelToUserResponse(&models.User{ID: 1}, false, prefixMedia("/media/"))
	assert.Nil(t, resp.Avatar)
}

func TestIngredientSummary(t *testing.T) {
	items := []models.RecipeIngredient{
		{Amount: 2, Ingredient: &models.Ingredient{Name: "яйца", MeasurementUnit: "шт."}},
		{Amount: 100, Ingredient: &models.Ingredient{Name: "молоко", MeasurementUnit: "мл"}},
	}
	assert.Equal(t, "яйца - 2 (шт.), молоко - 100 (мл)", IngredientSummary(items))
}

func TestRecipeWriteRequest_ToInput(t *testing.T) {
	img := "data:image/png;base64,AA=="
	req := RecipeWriteRequest{
		Ingredients: []IngredientAmountRequest{{ID: 1, Amount: 10}},
		Tags:        []int64{2},
		Image:       &img,
		Name:        "Tea",
		Text:        "Steep.",
		CookingTime: 5,
	}
	in := req.ToInput()
	assert.Equal(t, []service.IngredientAmount{{IngredientID: 1, Amount: 10}}, in.Ingredients)
	assert.Equal(t, &img, in.Image)
}
