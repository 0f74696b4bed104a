package service

import (
	"context"
	"errors"
	"time"

	"rambopet/internal/dto"
	"rambopet/internal/model"
	"rambopet/internal/repository"

	"github.com/google/uuid"
)

// NoShowGraceMinutes is how long past the scheduled time an appointment may
// remain booked or confirmed before the hourly sweep marks it no_show.
const NoShowGraceMinutes = 60

type AppointmentService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*dto.AppointmentResponse, error)
	List(ctx context.Context, actor Actor, filter dto.AppointmentFilter) (*dto.AppointmentListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	Upcoming(ctx context.Context, actor Actor, days int) ([]dto.AppointmentResponse, error)
	VetSchedule(ctx context.Context, vetID uuid.UUID, day time.Time) ([]dto.AppointmentResponse, error)

	// Lifecycle transitions. Each one is only legal from specific states.
	Confirm(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	Start(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	Complete(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, id uuid.UUID, req dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error)
	MarkNoShow(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
}

type appointmentService struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
	userRepo    repository.UserRepository
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	userRepo repository.UserRepository,
) AppointmentService {
	return &appointmentService{repo: repo, patientRepo: patientRepo, userRepo: userRepo}
}

func (s *appointmentService) Create(ctx context.Context, actor Actor, req dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, err
	}
	patient, err := s.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		return nil, notFound("patient not found")
	}
	if patient.Deceased || !patient.Active {
		return nil, conflict("appointments cannot be booked for inactive or deceased patients")
	}

	// Guardians may only book for their own animals.
	if actor.IsGuardian() && patient.GuardianID != actor.UserID {
		return nil, forbidden("patients of other guardians are not visible")
	}

	if !req.ScheduledAt.After(time.Now()) {
		return nil, errors.New("scheduled_at must be in the future")
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = 30
	}

	var vetID *uuid.UUID
	if req.VetID != nil {
		vid, err := uuid.Parse(*req.VetID)
		if err != nil {
			return nil, err
		}
		vet, err := s.userRepo.FindByID(ctx, vid)
		if err != nil {
			return nil, notFound("vet not found")
		}
		if !vet.IsVet() || !vet.Active {
			return nil, errors.New("vet_id must reference an active vet")
		}

		end := req.ScheduledAt.Add(time.Duration(duration) * time.Minute)
		overlapping, err := s.repo.FindOverlapping(ctx, vid, req.ScheduledAt, end, nil)
		if err != nil {
			return nil, err
		}
		if len(overlapping) > 0 {
			return nil, conflict("the vet already has an appointment in that time slot")
		}
		vetID = &vid
	}

	apptType := req.Type
	if apptType == "" {
		apptType = model.AppointmentTypeGeneral
	}

	a := &model.Appointment{
		PatientID:       patientID,
		GuardianID:      patient.GuardianID,
		VetID:           vetID,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: duration,
		Type:            apptType,
		Status:          model.AppointmentBooked,
		Reason:          req.Reason,
		Notes:           req.Notes,
		CreatedByID:     &actor.UserID,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, a.ID)
	if err != nil {
		return appointmentToResponse(a, actor), nil
	}
	return appointmentToResponse(created, actor), nil
}

func (s *appointmentService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*dto.AppointmentResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("appointment not found")
	}
	if actor.IsGuardian() && a.GuardianID != actor.UserID {
		return nil, forbidden("appointments of other guardians are not visible")
	}
	return appointmentToResponse(a, actor), nil
}

func (s *appointmentService) List(ctx context.Context, actor Actor, filter dto.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	appointments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		a := &appointments[i]
		// Guardians only ever see their own bookings; vets see their own
		// slots plus anything still unassigned.
		if actor.IsGuardian() && a.GuardianID != actor.UserID {
			continue
		}
		if actor.Role == model.RoleVet && a.VetID != nil && *a.VetID != actor.UserID {
			continue
		}
		out = append(out, *appointmentToResponse(a, actor))
	}
	return &dto.AppointmentListResponse{
		Data:       out,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// Upcoming returns non-cancelled appointments within the next N days,
// scoped like List: guardians get their own, vets their own plus the
// unassigned ones.
func (s *appointmentService) Upcoming(ctx context.Context, actor Actor, days int) ([]dto.AppointmentResponse, error) {
	if days <= 0 {
		days = 7
	}
	now := time.Now()
	appointments, err := s.repo.FindUpcoming(ctx, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		a := &appointments[i]
		if actor.IsGuardian() && a.GuardianID != actor.UserID {
			continue
		}
		if actor.Role == model.RoleVet && a.VetID != nil && *a.VetID != actor.UserID {
			continue
		}
		out = append(out, *appointmentToResponse(a, actor))
	}
	return out, nil
}

// VetSchedule lists a vet's non-terminal appointments for a single day.
func (s *appointmentService) VetSchedule(ctx context.Context, vetID uuid.UUID, day time.Time) ([]dto.AppointmentResponse, error) {
	vet, err := s.userRepo.FindByID(ctx, vetID)
	if err != nil {
		return nil, notFound("vet not found")
	}
	if !vet.IsVet() {
		return nil, errors.New("vet_id must reference a vet")
	}

	appointments, err := s.repo.FindByVetAndDay(ctx, vetID, day)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		out = append(out, *appointmentToResponse(&appointments[i], Actor{Role: model.RoleAdmin}))
	}
	return out, nil
}

func (s *appointmentService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("appointment not found")
	}
	if a.IsTerminal() {
		return nil, conflict("finished appointments cannot be modified")
	}

	if req.VetID != nil {
		vid, err := uuid.Parse(*req.VetID)
		if err != nil {
			return nil, err
		}
		vet, err := s.userRepo.FindByID(ctx, vid)
		if err != nil {
			return nil, notFound("vet not found")
		}
		if !vet.IsVet() || !vet.Active {
			return nil, errors.New("vet_id must reference an active vet")
		}
		a.VetID = &vid
	}
	if req.ScheduledAt != nil {
		if !req.ScheduledAt.After(time.Now()) {
			return nil, errors.New("scheduled_at must be in the future")
		}
		a.ScheduledAt = *req.ScheduledAt
		// Rescheduling resets the reminder so the new slot gets its own one.
		a.ReminderSent = false
		a.ReminderSentAt = nil
	}
	if req.DurationMinutes != nil {
		a.DurationMinutes = *req.DurationMinutes
	}
	if req.Type != nil {
		a.Type = *req.Type
	}
	if req.Reason != nil {
		a.Reason = *req.Reason
	}
	if req.Notes != nil {
		a.Notes = *req.Notes
	}
	if req.InternalNotes != nil {
		a.InternalNotes = *req.InternalNotes
	}

	if a.VetID != nil && (req.ScheduledAt != nil || req.DurationMinutes != nil || req.VetID != nil) {
		overlapping, err := s.repo.FindOverlapping(ctx, *a.VetID, a.ScheduledAt, a.EndsAt(), &a.ID)
		if err != nil {
			return nil, err
		}
		if len(overlapping) > 0 {
			return nil, conflict("the vet already has an appointment in that time slot")
		}
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return appointmentToResponse(a, Actor{Role: model.RoleAdmin}), nil
}

func (s *appointmentService) Confirm(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return s.transition(ctx, id, func(a *model.Appointment) error {
		if a.Status != model.AppointmentBooked {
			return conflict("only booked appointments can be confirmed")
		}
		now := time.Now()
		a.Status = model.AppointmentConfirmed
		a.ConfirmedAt = &now
		return nil
	})
}

func (s *appointmentService) Start(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return s.transition(ctx, id, func(a *model.Appointment) error {
		if a.Status != model.AppointmentConfirmed {
			return conflict("only confirmed appointments can be started")
		}
		if a.VetID == nil {
			return conflict("an appointment needs an assigned vet before it starts")
		}
		a.Status = model.AppointmentInProgress
		return nil
	})
}

func (s *appointmentService) Complete(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return s.transition(ctx, id, func(a *model.Appointment) error {
		if a.Status != model.AppointmentInProgress {
			return conflict("only in-progress appointments can be completed")
		}
		now := time.Now()
		a.Status = model.AppointmentCompleted
		a.CompletedAt = &now
		return nil
	})
}

func (s *appointmentService) Cancel(ctx context.Context, id uuid.UUID, req dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error) {
	return s.transition(ctx, id, func(a *model.Appointment) error {
		if !a.CanCancel() {
			return conflict("only booked or confirmed appointments can be cancelled")
		}
		now := time.Now()
		a.Status = model.AppointmentCancelled
		a.CancelledAt = &now
		a.CancelReason = req.Reason
		return nil
	})
}

func (s *appointmentService) MarkNoShow(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return s.transition(ctx, id, func(a *model.Appointment) error {
		if a.Status != model.AppointmentBooked && a.Status != model.AppointmentConfirmed {
			return conflict("only booked or confirmed appointments can be marked no-show")
		}
		a.Status = model.AppointmentNoShow
		return nil
	})
}

func (s *appointmentService) transition(ctx context.Context, id uuid.UUID, apply func(*model.Appointment) error) (*dto.AppointmentResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("appointment not found")
	}
	if err := apply(a); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return appointmentToResponse(a, Actor{Role: model.RoleAdmin}), nil
}

func appointmentToResponse(a *model.Appointment, actor Actor) *dto.AppointmentResponse {
	resp := &dto.AppointmentResponse{
		ID:              a.ID.String(),
		PatientID:       a.PatientID.String(),
		GuardianID:      a.GuardianID.String(),
		ScheduledAt:     a.ScheduledAt,
		DurationMinutes: a.DurationMinutes,
		Type:            a.Type,
		Status:          a.Status,
		Reason:          a.Reason,
		Notes:           a.Notes,
		ReminderSent:    a.ReminderSent,
		ConfirmedAt:     a.ConfirmedAt,
		CompletedAt:     a.CompletedAt,
		CancelledAt:     a.CancelledAt,
		CancelReason:    a.CancelReason,
		CreatedAt:       a.CreatedAt,
	}
	// Staff-only field
	if actor.IsStaff() {
		resp.InternalNotes = a.InternalNotes
	}
	if a.VetID != nil {
		id := a.VetID.String()
		resp.VetID = &id
	}
	if a.Patient != nil {
		resp.PatientName = a.Patient.Name
	}
	if a.Vet != nil {
		resp.VetName = a.Vet.FullName()
	}
	return resp
}
