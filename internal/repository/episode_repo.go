package repository

import (
	"context"

	"rambopet/internal/dto"
	"rambopet/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EpisodeRepository interface {
	Create(ctx context.Context, e *model.ClinicalEpisode) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ClinicalEpisode, error)
	FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*model.ClinicalEpisode, error)
	List(ctx context.Context, filter dto.EpisodeFilter) ([]model.ClinicalEpisode, int64, error)
	Update(ctx context.Context, e *model.ClinicalEpisode) error

	CreateVitals(ctx context.Context, v *model.VitalSigns) error
	ListVitals(ctx context.Context, episodeID uuid.UUID) ([]model.VitalSigns, error)

	CreateAttachment(ctx context.Context, a *model.Attachment) error
	FindAttachmentByID(ctx context.Context, id uuid.UUID) (*model.Attachment, error)
	ListAttachments(ctx context.Context, episodeID uuid.UUID) ([]model.Attachment, error)
	DeleteAttachment(ctx context.Context, id uuid.UUID) error
}

type episodeRepo struct{ db *gorm.DB }

func NewEpisodeRepository(db *gorm.DB) EpisodeRepository { return &episodeRepo{db: db} }

func (r *episodeRepo) Create(ctx context.Context, e *model.ClinicalEpisode) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *episodeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ClinicalEpisode, error) {
	var e model.ClinicalEpisode
	err := r.db.WithContext(ctx).
		Preload("Patient").Preload("Patient.Guardian").Preload("Vet").
		First(&e, id).Error
	return &e, err
}

func (r *episodeRepo) FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*model.ClinicalEpisode, error) {
	var e model.ClinicalEpisode
	err := r.db.WithContext(ctx).Where("appointment_id = ?", appointmentID).First(&e).Error
	return &e, err
}

func (r *episodeRepo) List(ctx context.Context, filter dto.EpisodeFilter) ([]model.ClinicalEpisode, int64, error) {
	var episodes []model.ClinicalEpisode
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ClinicalEpisode{}).
		Preload("Patient").Preload("Vet")

	if filter.PatientID != "" {
		q = q.Where("patient_id = ?", filter.PatientID)
	}
	if filter.VetID != "" {
		q = q.Where("vet_id = ?", filter.VetID)
	}
	if filter.Closed != nil {
		q = q.Where("closed = ?", *filter.Closed)
	}
	if filter.DateFrom != nil {
		q = q.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("created_at < ?", filter.DateTo.AddDate(0, 0, 1))
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&episodes).Error
	return episodes, total, err
}

func (r *episodeRepo) Update(ctx context.Context, e *model.ClinicalEpisode) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *episodeRepo) CreateVitals(ctx context.Context, v *model.VitalSigns) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *episodeRepo) ListVitals(ctx context.Context, episodeID uuid.UUID) ([]model.VitalSigns, error) {
	var vitals []model.VitalSigns
	err := r.db.WithContext(ctx).
		Where("episode_id = ?", episodeID).
		Order("created_at ASC").Find(&vitals).Error
	return vitals, err
}

func (r *episodeRepo) CreateAttachment(ctx context.Context, a *model.Attachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *episodeRepo) FindAttachmentByID(ctx context.Context, id uuid.UUID) (*model.Attachment, error) {
	var a model.Attachment
	err := r.db.WithContext(ctx).First(&a, id).Error
	return &a, err
}

func (r *episodeRepo) ListAttachments(ctx context.Context, episodeID uuid.UUID) ([]model.Attachment, error) {
	var attachments []model.Attachment
	err := r.db.WithContext(ctx).
		Where("episode_id = ?", episodeID).
		Order("created_at ASC").Find(&attachments).Error
	return attachments, err
}

func (r *episodeRepo) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Attachment{}, id).Error
}
