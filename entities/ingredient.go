package entities

import (
	"github.com/google/uuid"
)

// Ingredient is a catalog entry. Identity is the (name, measurement_unit)
// pair; the same name may legitimately appear with several units.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name            string    `gorm:"type:varchar(200);uniqueIndex:idx_ingredient_name_unit;index" json:"name"`
	MeasurementUnit string    `gorm:"type:varchar(200);uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit"`
}
