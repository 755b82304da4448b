package dto

import "foodgram/internal/http-api/models"

type IngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type CreateIngredientRequest struct {
	Name            string `json:"name" binding:"required,max=128"`
	MeasurementUnit string `json:"measurement_unit" binding:"required,max=64"`
}

type UpdateIngredientRequest struct {
	Name            *string `json:"name" binding:"omitempty,max=128"`
	MeasurementUnit *string `json:"measurement_unit" binding:"omitempty,max=64"`
}

func FromModelToIngredientResponse(i *models.Ingredient) IngredientResponse {
	return IngredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func FromModelsToIngredientResponses(list []models.Ingredient) []IngredientResponse {
	out := make([]IngredientResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModelToIngredientResponse(&list[i]))
	}
	return out
}
