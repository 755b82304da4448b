package dto

import (
	"fmt"
	"strings"
	"time"

	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/service"
)

// AdminUserResponse is a user row on the admin user list.
type AdminUserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminUserUpdateRequest: admin partial update of a user, nil fields are left unchanged
type AdminUserUpdateRequest struct {
	Email     *string `json:"email" binding:"omitempty,email,max=254"`
	Username  *string `json:"username" binding:"omitempty,max=150,username"`
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
	Role      *string `json:"role" binding:"omitempty,oneof=user admin"`
}

func (r *AdminUserUpdateRequest) ToUpdate() service.UserUpdate {
	return service.UserUpdate{
		Email:     r.Email,
		Username:  r.Username,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Role:      r.Role,
	}
}

type AdminRecipeResponse struct {
	ID             int64         `json:"id"`
	Name           string        `json:"name"`
	Author         string        `json:"author"`
	Tags           []TagResponse `json:"tags"`
	FavoritesCount int64         `json:"favorites_count"`
	Ingredients    string        `json:"ingredients"`
	PubDate        time.Time     `json:"pub_date"`
}

// AdminRelationResponse is a (user, recipe) row of favorites or shopping carts.
type AdminRelationResponse struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	User     string `json:"user"`
	RecipeID int64  `json:"recipe_id"`
	Recipe   string `json:"recipe"`
}

type AdminSubscriptionResponse struct {
	ID            int64  `json:"id"`
	SubscriberID  int64  `json:"subscriber_id"`
	Subscriber    string `json:"subscriber"`
	SubscribingID int64  `json:"subscribing_id"`
	Subscribing   string `json:"subscribing"`
}

func FromModelToAdminUserResponse(u *models.User) AdminUserResponse {
	return AdminUserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func FromModelsToAdminUserResponses(users []models.User) []AdminUserResponse {
	out := make([]AdminUserResponse, 0, len(users))
	for i := range users {
		out = append(out, FromModelToAdminUserResponse(&users[i]))
	}
	return out
}

// IngredientSummary joins recipe ingredients as "name - amount (unit)".
func IngredientSummary(items []models.RecipeIngredient) string {
	parts := make([]string, 0, len(items))
	for _, ri := range items {
		if ri.Ingredient == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s - %d (%s)", ri.Ingredient.Name, ri.Amount, ri.Ingredient.MeasurementUnit))
	}
	return strings.Join(parts, ", ")
}

func FromAdminRecipe(row service.AdminRecipe) AdminRecipeResponse {
	r := row.Recipe
	resp := AdminRecipeResponse{
		ID:             r.ID,
		Name:           r.Name,
		Tags:           FromModelsToTagResponses(r.Tags),
		FavoritesCount: row.FavoritesCount,
		Ingredients:    IngredientSummary(r.RecipeIngredients),
		PubDate:        r.PubDate,
	}
	if r.Author != nil {
		resp.Author = r.Author.Username
	}
	return resp
}

func FromAdminRecipes(rows []service.AdminRecipe) []AdminRecipeResponse {
	out := make([]AdminRecipeResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromAdminRecipe(row))
	}
	return out
}

func FromUserRecipes(rows []models.UserRecipe) []AdminRelationResponse {
	out := make([]AdminRelationResponse, 0, len(rows))
	for _, row := range rows {
		resp := AdminRelationResponse{ID: row.ID, UserID: row.UserID, RecipeID: row.RecipeID}
		if row.User != nil {
			resp.User = row.User.Username
		}
		if row.Recipe != nil {
			resp.Recipe = row.Recipe.Name
		}
		out = append(out, resp)
	}
	return out
}

func FromSubscriptions(rows []models.Subscription) []AdminSubscriptionResponse {
	out := make([]AdminSubscriptionResponse, 0, len(rows))
	for _, row := range rows {
		resp := AdminSubscriptionResponse{
			ID:            row.ID,
			SubscriberID:  row.SubscriberID,
			SubscribingID: row.SubscribingID,
		}
		if row.Subscriber != nil {
			resp.Subscriber = row.Subscriber.Username
		}
		if row.Subscribing != nil {
			resp.Subscribing = row.Subscribing.Username
		}
		out = append(out, resp)
	}
	return out
}
