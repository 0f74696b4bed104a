package repository

import (
	"context"

	"rambopet/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SpeciesRepository interface {
	Create(ctx context.Context, s *model.Species) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Species, error)
	List(ctx context.Context) ([]model.Species, error)
	Update(ctx context.Context, s *model.Species) error

	CreateBreed(ctx context.Context, b *model.Breed) error
	FindBreedByID(ctx context.Context, id uuid.UUID) (*model.Breed, error)
	ListBreeds(ctx context.Context, speciesID *uuid.UUID) ([]model.Breed, error)
	UpdateBreed(ctx context.Context, b *model.Breed) error
}

type speciesRepo struct{ db *gorm.DB }

func NewSpeciesRepository(db *gorm.DB) SpeciesRepository { return &speciesRepo{db: db} }

func (r *speciesRepo) Create(ctx context.Context, s *model.Species) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *speciesRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Species, error) {
	var s model.Species
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *speciesRepo) List(ctx context.Context) ([]model.Species, error) {
	var species []model.Species
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&species).Error
	return species, err
}

func (r *speciesRepo) Update(ctx context.Context, s *model.Species) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *speciesRepo) CreateBreed(ctx context.Context, b *model.Breed) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *speciesRepo) FindBreedByID(ctx context.Context, id uuid.UUID) (*model.Breed, error) {
	var b model.Breed
	err := r.db.WithContext(ctx).Preload("Species").First(&b, id).Error
	return &b, err
}

func (r *speciesRepo) ListBreeds(ctx context.Context, speciesID *uuid.UUID) ([]model.Breed, error) {
	q := r.db.WithContext(ctx).Preload("Species").Where("active = true")
	if speciesID != nil {
		q = q.Where("species_id = ?", *speciesID)
	}
	var breeds []model.Breed
	err := q.Order("name ASC").Find(&breeds).Error
	return breeds, err
}

func (r *speciesRepo) UpdateBreed(ctx context.Context, b *model.Breed) error {
	return r.db.WithContext(ctx).Save(b).Error
}
