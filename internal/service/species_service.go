package service

import (
	"context"

	"rambopet/internal/dto"
	"rambopet/internal/model"
	"rambopet/internal/repository"

	"github.com/google/uuid"
)

// SpeciesService manages the species and breed catalogs. Both are reference
// data: rows are created and deactivated, never deleted.
type SpeciesService interface {
	CreateSpecies(ctx context.Context, req dto.CreateSpeciesRequest) (*dto.SpeciesResponse, error)
	ListSpecies(ctx context.Context) ([]dto.SpeciesResponse, error)
	DeactivateSpecies(ctx context.Context, id uuid.UUID) error

	CreateBreed(ctx context.Context, req dto.CreateBreedRequest) (*dto.BreedResponse, error)
	ListBreeds(ctx context.Context, speciesID *uuid.UUID) ([]dto.BreedResponse, error)
	DeactivateBreed(ctx context.Context, id uuid.UUID) error
}

type speciesService struct {
	repo repository.SpeciesRepository
}

func NewSpeciesService(repo repository.SpeciesRepository) SpeciesService {
	return &speciesService{repo: repo}
}

func (s *speciesService) CreateSpecies(ctx context.Context, req dto.CreateSpeciesRequest) (*dto.SpeciesResponse, error) {
	sp := &model.Species{
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}
	if err := s.repo.Create(ctx, sp); err != nil {
		return nil, err
	}
	return speciesToResponse(sp), nil
}

func (s *speciesService) ListSpecies(ctx context.Context) ([]dto.SpeciesResponse, error) {
	species, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SpeciesResponse, 0, len(species))
	for i := range species {
		out = append(out, *speciesToResponse(&species[i]))
	}
	return out, nil
}

func (s *speciesService) DeactivateSpecies(ctx context.Context, id uuid.UUID) error {
	sp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFound("species not found")
	}
	sp.Active = false
	return s.repo.Update(ctx, sp)
}

func (s *speciesService) CreateBreed(ctx context.Context, req dto.CreateBreedRequest) (*dto.BreedResponse, error) {
	speciesID, err := uuid.Parse(req.SpeciesID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, speciesID); err != nil {
		return nil, notFound("species not found")
	}

	b := &model.Breed{
		SpeciesID:   speciesID,
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}
	if err := s.repo.CreateBreed(ctx, b); err != nil {
		return nil, err
	}
	return breedToResponse(b), nil
}

func (s *speciesService) ListBreeds(ctx context.Context, speciesID *uuid.UUID) ([]dto.BreedResponse, error) {
	breeds, err := s.repo.ListBreeds(ctx, speciesID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BreedResponse, 0, len(breeds))
	for i := range breeds {
		out = append(out, *breedToResponse(&breeds[i]))
	}
	return out, nil
}

func (s *speciesService) DeactivateBreed(ctx context.Context, id uuid.UUID) error {
	b, err := s.repo.FindBreedByID(ctx, id)
	if err != nil {
		return notFound("breed not found")
	}
	b.Active = false
	return s.repo.UpdateBreed(ctx, b)
}

func speciesToResponse(sp *model.Species) *dto.SpeciesResponse {
	return &dto.SpeciesResponse{
		ID:          sp.ID.String(),
		Name:        sp.Name,
		Description: sp.Description,
		Active:      sp.Active,
	}
}

func breedToResponse(b *model.Breed) *dto.BreedResponse {
	resp := &dto.BreedResponse{
		ID:          b.ID.String(),
		SpeciesID:   b.SpeciesID.String(),
		Name:        b.Name,
		Description: b.Description,
		Active:      b.Active,
	}
	if b.Species != nil {
		resp.SpeciesName = b.Species.Name
	}
	return resp
}
