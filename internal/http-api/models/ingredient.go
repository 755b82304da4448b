package models

const (
	MaxIngredientNameLength  = 128
	MaxMeasurementUnitLength = 64
)

// Ingredient is unique per (name, measurement_unit).
type Ingredient struct {
	ID              int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string `gorm:"size:128;not null;uniqueIndex:idx_ingredients_name_unit;index" json:"name"`
	MeasurementUnit string `gorm:"size:64;not null;uniqueIndex:idx_ingredients_name_unit" json:"measurement_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
