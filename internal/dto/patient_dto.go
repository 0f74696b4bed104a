package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreatePatientRequest struct {
	Name              string           `json:"name"               validate:"required,min=1,max=100"`
	GuardianID        string           `json:"guardian_id"        validate:"required,uuid"`
	SpeciesID         string           `json:"species_id"         validate:"required,uuid"`
	BreedID           *string          `json:"breed_id"           validate:"omitempty,uuid"`
	Sex               string           `json:"sex"                validate:"omitempty,oneof=male female unknown"`
	BirthDate         *time.Time       `json:"birth_date"`
	Color             string           `json:"color"              validate:"omitempty,max=60"`
	CurrentWeight     *decimal.Decimal `json:"current_weight"`
	Microchip         *string          `json:"microchip"          validate:"omitempty,max=30"`
	Neutered          bool             `json:"neutered"`
	Allergies         string           `json:"allergies"`
	ChronicConditions string           `json:"chronic_conditions"`
	Notes             string           `json:"notes"`
}

type UpdatePatientRequest struct {
	Name              *string          `json:"name"               validate:"omitempty,min=1,max=100"`
	GuardianID        *string          `json:"guardian_id"        validate:"omitempty,uuid"`
	BreedID           *string          `json:"breed_id"           validate:"omitempty,uuid"`
	Sex               *string          `json:"sex"                validate:"omitempty,oneof=male female unknown"`
	BirthDate         *time.Time       `json:"birth_date"`
	Color             *string          `json:"color"              validate:"omitempty,max=60"`
	CurrentWeight     *decimal.Decimal `json:"current_weight"`
	Microchip         *string          `json:"microchip"          validate:"omitempty,max=30"`
	Neutered          *bool            `json:"neutered"`
	Allergies         *string          `json:"allergies"`
	ChronicConditions *string          `json:"chronic_conditions"`
	Notes             *string          `json:"notes"`
}

type MarkDeceasedRequest struct {
	DeceasedAt *time.Time `json:"deceased_at"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type PatientFilter struct {
	GuardianID string `form:"guardian_id" validate:"omitempty,uuid"`
	SpeciesID  string `form:"species_id"  validate:"omitempty,uuid"`
	Search     string `form:"search"`
	Active     *bool  `form:"active"`
	Deceased   *bool  `form:"deceased"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PatientResponse struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	GuardianID        string           `json:"guardian_id"`
	GuardianName      string           `json:"guardian_name,omitempty"`
	SpeciesID         string           `json:"species_id"`
	SpeciesName       string           `json:"species_name,omitempty"`
	BreedID           *string          `json:"breed_id"`
	BreedName         string           `json:"breed_name,omitempty"`
	Sex               string           `json:"sex"`
	BirthDate         *time.Time       `json:"birth_date"`
	AgeYears          *int             `json:"age_years"`
	Color             string           `json:"color"`
	CurrentWeight     *decimal.Decimal `json:"current_weight"`
	Microchip         *string          `json:"microchip"`
	Neutered          bool             `json:"neutered"`
	Allergies         string           `json:"allergies"`
	ChronicConditions string           `json:"chronic_conditions"`
	Notes             string           `json:"notes"`
	PhotoPath         string           `json:"photo_path,omitempty"`
	Active            bool             `json:"active"`
	Deceased          bool             `json:"deceased"`
	DeceasedAt        *time.Time       `json:"deceased_at"`
}

type PatientListResponse struct {
	Data       []PatientResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}
