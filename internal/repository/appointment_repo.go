package repository

import (
	"context"
	"time"

	"rambopet/internal/dto"
	"rambopet/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *model.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	List(ctx context.Context, filter dto.AppointmentFilter) ([]model.Appointment, int64, error)
	Update(ctx context.Context, a *model.Appointment) error

	// FindOverlapping returns active appointments for the vet whose time window
	// intersects [start, end). Excludes cancelled and no_show rows, and the
	// appointment identified by excludeID when rescheduling.
	FindOverlapping(ctx context.Context, vetID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]model.Appointment, error)

	// FindPendingReminders returns booked or confirmed appointments scheduled
	// inside [from, to) that have not been reminded yet.
	FindPendingReminders(ctx context.Context, from, to time.Time) ([]model.Appointment, error)

	// FindOverdue returns booked or confirmed appointments whose scheduled
	// time is more than the grace period in the past.
	FindOverdue(ctx context.Context, before time.Time) ([]model.Appointment, error)

	// FindByVetAndDay returns the vet's non-terminal appointments for one day,
	// ordered by start time. Feeds the daily schedule email.
	FindByVetAndDay(ctx context.Context, vetID uuid.UUID, day time.Time) ([]model.Appointment, error)

	// FindUpcoming returns appointments starting inside [from, to), excluding
	// cancelled and no_show rows, ordered by start time.
	FindUpcoming(ctx context.Context, from, to time.Time) ([]model.Appointment, error)
}

type appointmentRepo struct{ db *gorm.DB }

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository { return &appointmentRepo{db: db} }

func (r *appointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *appointmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var a model.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").Preload("Patient.Guardian").Preload("Vet").
		First(&a, id).Error
	return &a, err
}

func (r *appointmentRepo) List(ctx context.Context, filter dto.AppointmentFilter) ([]model.Appointment, int64, error) {
	var appointments []model.Appointment
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Appointment{}).
		Preload("Patient").Preload("Vet")

	if filter.PatientID != "" {
		q = q.Where("patient_id = ?", filter.PatientID)
	}
	if filter.VetID != "" {
		q = q.Where("vet_id = ?", filter.VetID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.DateFrom != nil {
		q = q.Where("scheduled_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("scheduled_at < ?", filter.DateTo.AddDate(0, 0, 1))
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("scheduled_at DESC").Limit(filter.Limit).Offset(offset).Find(&appointments).Error
	return appointments, total, err
}

func (r *appointmentRepo) Update(ctx context.Context, a *model.Appointment) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *appointmentRepo) FindOverlapping(ctx context.Context, vetID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]model.Appointment, error) {
	q := r.db.WithContext(ctx).
		Where("vet_id = ?", vetID).
		Where("status NOT IN ?", []string{model.AppointmentCancelled, model.AppointmentNoShow}).
		Where("scheduled_at < ? AND scheduled_at + (duration_minutes * interval '1 minute') > ?", end, start)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var appointments []model.Appointment
	err := q.Find(&appointments).Error
	return appointments, err
}

func (r *appointmentRepo) FindPendingReminders(ctx context.Context, from, to time.Time) ([]model.Appointment, error) {
	var appointments []model.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").Preload("Patient.Guardian").Preload("Vet").
		Where("status IN ?", []string{model.AppointmentBooked, model.AppointmentConfirmed}).
		Where("reminder_sent = false").
		Where("scheduled_at >= ? AND scheduled_at < ?", from, to).
		Order("scheduled_at ASC").
		Find(&appointments).Error
	return appointments, err
}

func (r *appointmentRepo) FindOverdue(ctx context.Context, before time.Time) ([]model.Appointment, error) {
	var appointments []model.Appointment
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{model.AppointmentBooked, model.AppointmentConfirmed}).
		Where("scheduled_at < ?", before).
		Find(&appointments).Error
	return appointments, err
}

func (r *appointmentRepo) FindUpcoming(ctx context.Context, from, to time.Time) ([]model.Appointment, error) {
	var appointments []model.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").Preload("Vet").
		Where("status NOT IN ?", []string{model.AppointmentCancelled, model.AppointmentNoShow}).
		Where("scheduled_at >= ? AND scheduled_at < ?", from, to).
		Order("scheduled_at ASC").
		Find(&appointments).Error
	return appointments, err
}

func (r *appointmentRepo) FindByVetAndDay(ctx context.Context, vetID uuid.UUID, day time.Time) ([]model.Appointment, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var appointments []model.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").Preload("Patient.Guardian").
		Where("vet_id = ?", vetID).
		Where("status IN ?", []string{model.AppointmentBooked, model.AppointmentConfirmed, model.AppointmentInProgress}).
		Where("scheduled_at >= ? AND scheduled_at < ?", start, end).
		Order("scheduled_at ASC").
		Find(&appointments).Error
	return appointments, err
}
