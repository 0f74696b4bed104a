package model

import (
	"time"

	"github.com/google/uuid"
)

// Species is static reference data (dog, cat, bird, reptile, ...).
type Species struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description string
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides GORM's default pluralization (species → specieses).
func (Species) TableName() string { return "species" }

// Breed belongs to exactly one species; the name is unique within it.
type Breed struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SpeciesID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_breed_species_name"`
	Name        string    `gorm:"not null;uniqueIndex:idx_breed_species_name"`
	Description string
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Species *Species `gorm:"foreignKey:SpeciesID"`
}
