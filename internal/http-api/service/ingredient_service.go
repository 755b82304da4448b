package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/repository"
)

type IngredientService interface {
	List(ctx context.Context, f repository.IngredientFilter) ([]models.Ingredient, error)
	Get(ctx context.Context, id int64) (*models.Ingredient, error)
	Create(ctx context.Context, name, unit string) (*models.Ingredient, error)
	Update(ctx context.Context, id int64, name, unit *string) (*models.Ingredient, error)
	Delete(ctx context.Context, id int64) error
}

type ingredientService struct {
	ingredientRepo repository.IngredientRepository
}

func NewIngredientService(ingredientRepo repository.IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepo: ingredientRepo}
}

func (s *ingredientService) List(ctx context.Context, f repository.IngredientFilter) ([]models.Ingredient, error) {
	return s.ingredientRepo.List(ctx, f)
}

func (s *ingredientService) Get(ctx context.Context, id int64) (*models.Ingredient, error) {
	return s.ingredientRepo.GetByID(ctx, id)
}

func validateIngredient(ing *models.Ingredient) error {
	v := &ValidationError{}
	if ing.Name == "" || utf8.RuneCountInString(ing.Name) > models.MaxIngredientNameLength {
		v.Add("name", "Name must be 1 to 128 characters long.")
	}
	if ing.MeasurementUnit == "" || utf8.RuneCountInString(ing.MeasurementUnit) > models.MaxMeasurementUnitLength {
		v.Add("measurement_unit", "Measurement unit must be 1 to 64 characters long.")
	}
	return v.OrNil()
}

func (s *ingredientService) Create(ctx context.Context, name, unit string) (*models.Ingredient, error) {
	ing := &models.Ingredient{Name: strings.TrimSpace(name), MeasurementUnit: strings.TrimSpace(unit)}
	if err := validateIngredient(ing); err != nil {
		return nil, err
	}
	if err := s.ingredientRepo.Create(ctx, ing); err != nil {
		return nil, err
	}
	return ing, nil
}

func (s *ingredientService) Update(ctx context.Context, id int64, name, unit *string) (*models.Ingredient, error) {
	ing, err := s.ingredientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		ing.Name = strings.TrimSpace(*name)
	}
	if unit != nil {
		ing.MeasurementUnit = strings.TrimSpace(*unit)
	}
	if err := validateIngredient(ing); err != nil {
		return nil, err
	}
	if err := s.ingredientRepo.Update(ctx, ing); err != nil {
		return nil, err
	}
	return ing, nil
}

func (s *ingredientService) Delete(ctx context.Context, id int64) error {
	return s.ingredientRepo.Delete(ctx, id)
}
