package repository

import (
	"context"

	"rambopet/internal/dto"
	"rambopet/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(ctx context.Context, p *model.Patient) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	FindByMicrochip(ctx context.Context, microchip string) (*model.Patient, error)
	List(ctx context.Context, filter dto.PatientFilter) ([]model.Patient, int64, error)
	Update(ctx context.Context, p *model.Patient) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type patientRepo struct{ db *gorm.DB }

func NewPatientRepository(db *gorm.DB) PatientRepository { return &patientRepo{db: db} }

func (r *patientRepo) Create(ctx context.Context, p *model.Patient) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *patientRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	var p model.Patient
	err := r.db.WithContext(ctx).
		Preload("Guardian").Preload("Species").Preload("Breed").
		First(&p, id).Error
	return &p, err
}

func (r *patientRepo) FindByMicrochip(ctx context.Context, microchip string) (*model.Patient, error) {
	var p model.Patient
	err := r.db.WithContext(ctx).Where("microchip = ?", microchip).First(&p).Error
	return &p, err
}

func (r *patientRepo) List(ctx context.Context, filter dto.PatientFilter) ([]model.Patient, int64, error) {
	var patients []model.Patient
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Patient{}).
		Preload("Guardian").Preload("Species").Preload("Breed")

	if filter.GuardianID != "" {
		q = q.Where("guardian_id = ?", filter.GuardianID)
	}
	if filter.SpeciesID != "" {
		q = q.Where("species_id = ?", filter.SpeciesID)
	}
	if filter.Active != nil {
		q = q.Where("active = ?", *filter.Active)
	}
	if filter.Deceased != nil {
		q = q.Where("deceased = ?", *filter.Deceased)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR microchip ILIKE ?", like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&patients).Error
	return patients, total, err
}

func (r *patientRepo) Update(ctx context.Context, p *model.Patient) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *patientRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Patient{}).Where("id = ?", id).Update("active", false).Error
}
