package dto

import (
	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/service"
)

type IngredientAmountRequest struct {
	ID     int64 `json:"id" binding:"required,gt=0"`
	Amount int   `json:"amount" binding:"required,min=1,max=32000"`
}

// RecipeWriteRequest: create and partial-update payload. Image is a base64 data URI.
type RecipeWriteRequest struct {
	Ingredients []IngredientAmountRequest `json:"ingredients" binding:"required,min=1,dive"`
	Tags        []int64                   `json:"tags" binding:"required,min=1,dive,gt=0"`
	Image       *string                   `json:"image"`
	Name        string                    `json:"name" binding:"required,max=256"`
	Text        string                    `json:"text" binding:"required"`
	CookingTime int                       `json:"cooking_time" binding:"required,min=1,max=32000"`
}

func (r *RecipeWriteRequest) ToInput() service.RecipeInput {
	items := make([]service.IngredientAmount, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		items = append(items, service.IngredientAmount{IngredientID: ing.ID, Amount: ing.Amount})
	}
	return service.RecipeInput{
		Name:        r.Name,
		Text:        r.Text,
		CookingTime: r.CookingTime,
		Image:       r.Image,
		Tags:        r.Tags,
		Ingredients: items,
	}
}

type RecipeIngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the full read shape.
type RecipeResponse struct {
	ID               int64                      `json:"id"`
	Tags             []TagResponse              `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// RecipeShortResponse is used in subscriptions and favorite/cart responses.
type RecipeShortResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type ShortLinkResponse struct {
	ShortLink string `json:"short-link"`
}

// RecipeView carries the viewer-dependent state of a recipe response.
type RecipeView struct {
	Marks      service.Marks
	Subscribed map[int64]bool
	Media      MediaURLs
}

func FromModelToRecipeResponse(r *models.Recipe, view RecipeView) RecipeResponse {
	resp := RecipeResponse{
		ID:               r.ID,
		Tags:             FromModelsToTagResponses(r.Tags),
		Ingredients:      make([]RecipeIngredientResponse, 0, len(r.RecipeIngredients)),
		IsFavorited:      view.Marks.Favorited[r.ID],
		IsInShoppingCart: view.Marks.InCart[r.ID],
		Name:             r.Name,
		Image:            mediaURL(view.Media, r.Image),
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
	if r.Author != nil {
		resp.Author = FromModelToUserResponse(r.Author, view.Subscribed[r.AuthorID], view.Media)
	}
	for _, ri := range r.RecipeIngredients {
		item := RecipeIngredientResponse{ID: ri.IngredientID, Amount: ri.Amount}
		if ri.Ingredient != nil {
			item.Name = ri.Ingredient.Name
			item.MeasurementUnit = ri.Ingredient.MeasurementUnit
		}
		resp.Ingredients = append(resp.Ingredients, item)
	}
	return resp
}

func FromModelsToRecipeResponses(recipes []models.Recipe, view RecipeView) []RecipeResponse {
	out := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, FromModelToRecipeResponse(&recipes[i], view))
	}
	return out
}

func FromModelToRecipeShortResponse(r *models.Recipe, media MediaURLs) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       mediaURL(media, r.Image),
		CookingTime: r.CookingTime,
	}
}

func FromModelsToRecipeShortResponses(recipes []models.Recipe, media MediaURLs) []RecipeShortResponse {
	out := make([]RecipeShortResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, FromModelToRecipeShortResponse(&recipes[i], media))
	}
	return out
}

// FromAuthorFeed renders a followed author. IsSubscribed is always true here.
func FromAuthorFeed(feed *service.AuthorFeed, media MediaURLs) SubscribedUserResponse {
	return SubscribedUserResponse{
		UserResponse: FromModelToUserResponse(&feed.Author, true, media),
		Recipes:      FromModelsToRecipeShortResponses(feed.Recipes, media),
		RecipesCount: feed.RecipesCount,
	}
}

func FromAuthorFeeds(feeds []service.AuthorFeed, media MediaURLs) []SubscribedUserResponse {
	out := make([]SubscribedUserResponse, 0, len(feeds))
	for i := range feeds {
		out = append(out, FromAuthorFeed(&feeds[i], media))
	}
	return out
}
