package dto

import (
	"foodgram/internal/http-api/models"
)

// RegisterRequest: payload for user registration
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required"`
}

// RegisterResponse: created user, without subscription state or avatar
type RegisterResponse struct {
	Email     string `json:"email"`
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

type AvatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}

type AvatarResponse struct {
	Avatar string `json:"avatar"`
}

// UserResponse is the public user shape.
type UserResponse struct {
	Email        string  `json:"email"`
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

// SubscribedUserResponse is a followed author with a recipe preview.
type SubscribedUserResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

func FromModelToRegisterResponse(u *models.User) RegisterResponse {
	return RegisterResponse{
		Email:     u.Email,
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func FromModelToUserResponse(u *models.User, subscribed bool, media MediaURLs) UserResponse {
	resp := UserResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
	if u.Avatar != nil && *u.Avatar != "" {
		url := mediaURL(media, *u.Avatar)
		resp.Avatar = &url
	}
	return resp
}

// FromModelsToUserResponses marks each user using the subscribed set (nil for anonymous callers).
func FromModelsToUserResponses(users []models.User, subscribed map[int64]bool, media MediaURLs) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, FromModelToUserResponse(&users[i], subscribed[users[i].ID], media))
	}
	return out
}
