package dto

import "foodgram/internal/http-api/models"

type TagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CreateTagRequest: admin payload for a new tag
type CreateTagRequest struct {
	Name string `json:"name" binding:"required,max=32"`
	Slug string `json:"slug" binding:"required,max=32,slug"`
}

// UpdateTagRequest: admin partial update, nil fields are left unchanged
type UpdateTagRequest struct {
	Name *string `json:"name" binding:"omitempty,max=32"`
	Slug *string `json:"slug" binding:"omitempty,max=32,slug"`
}

func FromModelToTagResponse(t *models.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

func FromModelsToTagResponses(tags []models.Tag) []TagResponse {
	out := make([]TagResponse, 0, len(tags))
	for i := range tags {
		out = append(out, FromModelToTagResponse(&tags[i]))
	}
	return out
}
