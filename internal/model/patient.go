package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Patient sex values.
const (
	SexMale    = "male"
	SexFemale  = "female"
	SexUnknown = "unknown"
)

// Patient is an animal under the care of a guardian user.
// A deceased patient is always inactive as well.
type Patient struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GuardianID uuid.UUID  `gorm:"type:uuid;not null;index:idx_patients_guardian_active"`
	Name       string     `gorm:"index;not null"`
	SpeciesID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	BreedID    *uuid.UUID `gorm:"type:uuid"`
	Sex        string     `gorm:"type:varchar(10);not null;default:'unknown'"`
	BirthDate  *time.Time `gorm:"type:date"`
	Color      string
	// CurrentWeight in kilograms
	CurrentWeight     *decimal.Decimal `gorm:"type:decimal(6,2)"`
	Microchip         *string          `gorm:"uniqueIndex"`
	PhotoPath         string
	Neutered          bool `gorm:"not null;default:false"`
	Allergies         string
	ChronicConditions string
	Notes             string
	Active            bool       `gorm:"not null;default:true;index:idx_patients_guardian_active"`
	Deceased          bool       `gorm:"not null;default:false"`
	DeceasedAt        *time.Time `gorm:"type:date"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Guardian *User    `gorm:"foreignKey:GuardianID"`
	Species  *Species `gorm:"foreignKey:SpeciesID"`
	Breed    *Breed   `gorm:"foreignKey:BreedID"`
}

// AgeYears returns the approximate age in whole years, or nil when the birth
// date is unknown.
func (p *Patient) AgeYears(now time.Time) *int {
	if p.BirthDate == nil {
		return nil
	}
	years := now.Year() - p.BirthDate.Year()
	if now.Month() < p.BirthDate.Month() ||
		(now.Month() == p.BirthDate.Month() && now.Day() < p.BirthDate.Day()) {
		years--
	}
	return &years
}
