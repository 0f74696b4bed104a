package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateSpeciesRequest struct {
	Name        string `json:"name"        validate:"required,min=2,max=80"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

type CreateBreedRequest struct {
	SpeciesID   string `json:"species_id"  validate:"required,uuid"`
	Name        string `json:"name"        validate:"required,min=2,max=80"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SpeciesResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

type BreedResponse struct {
	ID          string `json:"id"`
	SpeciesID   string `json:"species_id"`
	SpeciesName string `json:"species_name,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}
