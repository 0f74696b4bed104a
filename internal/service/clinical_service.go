package service

import (
	"context"
	"errors"
	"io"

	"rambopet/internal/dto"
	"rambopet/internal/infra"
	"rambopet/internal/model"
	"rambopet/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Plausible physiological bounds for measurements the validator cannot check
// because they are decimals.
var (
	tempMin = decimal.NewFromInt(30)
	tempMax = decimal.NewFromInt(45)
	crtMin  = decimal.NewFromFloat(0.1)
	crtMax  = decimal.NewFromInt(10)
)

type ClinicalService interface {
	CreateEpisode(ctx context.Context, actor Actor, req dto.CreateEpisodeRequest) (*dto.EpisodeResponse, error)
	GetEpisode(ctx context.Context, actor Actor, id uuid.UUID) (*dto.EpisodeResponse, error)
	ListEpisodes(ctx context.Context, actor Actor, filter dto.EpisodeFilter) (*dto.EpisodeListResponse, error)
	UpdateEpisode(ctx context.Context, id uuid.UUID, req dto.UpdateEpisodeRequest) (*dto.EpisodeResponse, error)
	CloseEpisode(ctx context.Context, id uuid.UUID) (*dto.EpisodeResponse, error)
	ReopenEpisode(ctx context.Context, id uuid.UUID) (*dto.EpisodeResponse, error)

	RecordVitals(ctx context.Context, actor Actor, episodeID uuid.UUID, req dto.RecordVitalsRequest) (*dto.VitalSignsResponse, error)
	AddAttachment(ctx context.Context, actor Actor, episodeID uuid.UUID, attachmentType, title, description, fileName string, file io.Reader) (*dto.AttachmentResponse, error)

	// OpenAttachment streams a stored file. The caller must close the reader.
	OpenAttachment(ctx context.Context, actor Actor, attachmentID uuid.UUID) (*dto.AttachmentResponse, io.ReadCloser, error)
	DeleteAttachment(ctx context.Context, attachmentID uuid.UUID) error
}

type clinicalService struct {
	repo        repository.EpisodeRepository
	apptRepo    repository.AppointmentRepository
	patientRepo repository.PatientRepository
	storage     *infra.FileStorage
}

func NewClinicalService(
	repo repository.EpisodeRepository,
	apptRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	storage *infra.FileStorage,
) ClinicalService {
	return &clinicalService{repo: repo, apptRepo: apptRepo, patientRepo: patientRepo, storage: storage}
}

func (s *clinicalService) CreateEpisode(ctx context.Context, actor Actor, req dto.CreateEpisodeRequest) (*dto.EpisodeResponse, error) {
	appointmentID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		return nil, err
	}
	appt, err := s.apptRepo.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, notFound("appointment not found")
	}
	if appt.Status != model.AppointmentInProgress {
		return nil, conflict("episodes can only be opened for in-progress appointments")
	}
	if appt.VetID == nil {
		return nil, conflict("the appointment has no assigned vet")
	}

	if _, err := s.repo.FindByAppointmentID(ctx, appointmentID); err == nil {
		return nil, conflict("the appointment already has a clinical episode")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Patient, vet and motive are inherited from the appointment, never
	// supplied by the client.
	e := &model.ClinicalEpisode{
		AppointmentID: appointmentID,
		PatientID:     appt.PatientID,
		VetID:         *appt.VetID,
		Motive:        appt.Reason,
		Prognosis:     model.PrognosisGood,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, e.ID)
	if err != nil {
		return s.episodeToResponse(ctx, e), nil
	}
	return s.episodeToResponse(ctx, created), nil
}

func (s *clinicalService) GetEpisode(ctx context.Context, actor Actor, id uuid.UUID) (*dto.EpisodeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("episode not found")
	}
	if actor.IsGuardian() {
		if e.Patient == nil || e.Patient.GuardianID != actor.UserID {
			return nil, forbidden("episodes of other guardians' patients are not visible")
		}
	}
	return s.episodeToResponse(ctx, e), nil
}

func (s *clinicalService) ListEpisodes(ctx context.Context, actor Actor, filter dto.EpisodeFilter) (*dto.EpisodeListResponse, error) {
	episodes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EpisodeResponse, 0, len(episodes))
	for i := range episodes {
		e := &episodes[i]
		if actor.IsGuardian() && (e.Patient == nil || e.Patient.GuardianID != actor.UserID) {
			continue
		}
		out = append(out, *episodeSummary(e))
	}
	return &dto.EpisodeListResponse{
		Data:       out,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *clinicalService) UpdateEpisode(ctx context.Context, id uuid.UUID, req dto.UpdateEpisodeRequest) (*dto.EpisodeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("episode not found")
	}
	if e.Closed {
		return nil, conflict("closed episodes cannot be modified")
	}

	if req.Anamnesis != nil {
		e.Anamnesis = *req.Anamnesis
	}
	if req.PhysicalExam != nil {
		e.PhysicalExam = *req.PhysicalExam
	}
	if req.PresumptiveDiagnosis != nil {
		e.PresumptiveDiagnosis = *req.PresumptiveDiagnosis
	}
	if req.DefinitiveDiagnosis != nil {
		e.DefinitiveDiagnosis = *req.DefinitiveDiagnosis
	}
	if req.TreatmentPlan != nil {
		e.TreatmentPlan = *req.TreatmentPlan
	}
	if req.Medications != nil {
		e.Medications = *req.Medications
	}
	if req.Procedures != nil {
		e.Procedures = *req.Procedures
	}
	if req.Prognosis != nil {
		e.Prognosis = *req.Prognosis
	}
	if req.Instructions != nil {
		e.Instructions = *req.Instructions
	}
	if req.NextReviewAt != nil {
		e.NextReviewAt = req.NextReviewAt
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return s.episodeToResponse(ctx, e), nil
}

func (s *clinicalService) CloseEpisode(ctx context.Context, id uuid.UUID) (*dto.EpisodeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("episode not found")
	}
	if e.Closed {
		return nil, conflict("episode is already closed")
	}
	e.Closed = true
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return s.episodeToResponse(ctx, e), nil
}

// ReopenEpisode undoes a close, for the occasional record closed too early.
func (s *clinicalService) ReopenEpisode(ctx context.Context, id uuid.UUID) (*dto.EpisodeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("episode not found")
	}
	if !e.Closed {
		return nil, conflict("episode is not closed")
	}
	e.Closed = false
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return s.episodeToResponse(ctx, e), nil
}

func (s *clinicalService) RecordVitals(ctx context.Context, actor Actor, episodeID uuid.UUID, req dto.RecordVitalsRequest) (*dto.VitalSignsResponse, error) {
	e, err := s.repo.FindByID(ctx, episodeID)
	if err != nil {
		return nil, notFound("episode not found")
	}
	if e.Closed {
		return nil, conflict("vitals cannot be added to a closed episode")
	}

	if req.Weight.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("weight must be positive")
	}
	if req.Temperature != nil && (req.Temperature.LessThan(tempMin) || req.Temperature.GreaterThan(tempMax)) {
		return nil, errors.New("temperature outside the plausible range 30.0-45.0")
	}
	if req.CapillaryRefill != nil && (req.CapillaryRefill.LessThan(crtMin) || req.CapillaryRefill.GreaterThan(crtMax)) {
		return nil, errors.New("capillary refill outside the plausible range 0.1-10.0")
	}

	v := &model.VitalSigns{
		EpisodeID:          episodeID,
		Weight:             req.Weight,
		Temperature:        req.Temperature,
		HeartRate:          req.HeartRate,
		RespiratoryRate:    req.RespiratoryRate,
		SystolicBP:         req.SystolicBP,
		DiastolicBP:        req.DiastolicBP,
		CapillaryRefill:    req.CapillaryRefill,
		BodyConditionScore: req.BodyConditionScore,
		Notes:              req.Notes,
		RecordedByID:       &actor.UserID,
	}
	if err := s.repo.CreateVitals(ctx, v); err != nil {
		return nil, err
	}

	// The patient's current weight tracks the latest measurement.
	if patient, err := s.patientRepo.FindByID(ctx, e.PatientID); err == nil {
		w := req.Weight
		patient.CurrentWeight = &w
		_ = s.patientRepo.Update(ctx, patient)
	}

	return vitalsToResponse(v), nil
}

func (s *clinicalService) AddAttachment(ctx context.Context, actor Actor, episodeID uuid.UUID, attachmentType, title, description, fileName string, file io.Reader) (*dto.AttachmentResponse, error) {
	e, err := s.repo.FindByID(ctx, episodeID)
	if err != nil {
		return nil, notFound("episode not found")
	}
	if e.Closed {
		return nil, conflict("attachments cannot be added to a closed episode")
	}
	if title == "" {
		return nil, errors.New("title is required")
	}
	if attachmentType == "" {
		attachmentType = model.AttachmentDocument
	}

	path, err := s.storage.Save(episodeID, fileName, file)
	if err != nil {
		return nil, err
	}

	a := &model.Attachment{
		EpisodeID:    episodeID,
		Type:         attachmentType,
		Title:        title,
		Description:  description,
		FilePath:     path,
		UploadedByID: &actor.UserID,
	}
	if err := s.repo.CreateAttachment(ctx, a); err != nil {
		return nil, err
	}
	return attachmentToResponse(a), nil
}

func (s *clinicalService) OpenAttachment(ctx context.Context, actor Actor, attachmentID uuid.UUID) (*dto.AttachmentResponse, io.ReadCloser, error) {
	a, err := s.repo.FindAttachmentByID(ctx, attachmentID)
	if err != nil {
		return nil, nil, notFound("attachment not found")
	}
	if actor.IsGuardian() {
		e, err := s.repo.FindByID(ctx, a.EpisodeID)
		if err != nil || e.Patient == nil || e.Patient.GuardianID != actor.UserID {
			return nil, nil, forbidden("attachments of other guardians' patients are not visible")
		}
	}
	f, err := s.storage.Open(a.FilePath)
	if err != nil {
		return nil, nil, notFound("stored file is missing")
	}
	return attachmentToResponse(a), f, nil
}

func (s *clinicalService) DeleteAttachment(ctx context.Context, attachmentID uuid.UUID) error {
	a, err := s.repo.FindAttachmentByID(ctx, attachmentID)
	if err != nil {
		return notFound("attachment not found")
	}
	e, err := s.repo.FindByID(ctx, a.EpisodeID)
	if err != nil {
		return notFound("episode not found")
	}
	if e.Closed {
		return conflict("attachments cannot be removed from a closed episode")
	}
	if err := s.repo.DeleteAttachment(ctx, attachmentID); err != nil {
		return err
	}
	return s.storage.Remove(a.FilePath)
}

func (s *clinicalService) episodeToResponse(ctx context.Context, e *model.ClinicalEpisode) *dto.EpisodeResponse {
	resp := episodeSummary(e)

	if vitals, err := s.repo.ListVitals(ctx, e.ID); err == nil {
		for i := range vitals {
			resp.Vitals = append(resp.Vitals, *vitalsToResponse(&vitals[i]))
		}
	}
	if attachments, err := s.repo.ListAttachments(ctx, e.ID); err == nil {
		for i := range attachments {
			resp.Attachments = append(resp.Attachments, *attachmentToResponse(&attachments[i]))
		}
	}
	return resp
}

func episodeSummary(e *model.ClinicalEpisode) *dto.EpisodeResponse {
	resp := &dto.EpisodeResponse{
		ID:                   e.ID.String(),
		AppointmentID:        e.AppointmentID.String(),
		PatientID:            e.PatientID.String(),
		VetID:                e.VetID.String(),
		Motive:               e.Motive,
		Anamnesis:            e.Anamnesis,
		PhysicalExam:         e.PhysicalExam,
		PresumptiveDiagnosis: e.PresumptiveDiagnosis,
		DefinitiveDiagnosis:  e.DefinitiveDiagnosis,
		TreatmentPlan:        e.TreatmentPlan,
		Medications:          e.Medications,
		Procedures:           e.Procedures,
		Prognosis:            e.Prognosis,
		Instructions:         e.Instructions,
		NextReviewAt:         e.NextReviewAt,
		Closed:               e.Closed,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
	if e.Patient != nil {
		resp.PatientName = e.Patient.Name
	}
	if e.Vet != nil {
		resp.VetName = e.Vet.FullName()
	}
	return resp
}

func vitalsToResponse(v *model.VitalSigns) *dto.VitalSignsResponse {
	resp := &dto.VitalSignsResponse{
		ID:                 v.ID.String(),
		EpisodeID:          v.EpisodeID.String(),
		Weight:             v.Weight,
		Temperature:        v.Temperature,
		HeartRate:          v.HeartRate,
		RespiratoryRate:    v.RespiratoryRate,
		SystolicBP:         v.SystolicBP,
		DiastolicBP:        v.DiastolicBP,
		CapillaryRefill:    v.CapillaryRefill,
		BodyConditionScore: v.BodyConditionScore,
		Notes:              v.Notes,
		RecordedAt:         v.CreatedAt,
	}
	if v.RecordedByID != nil {
		id := v.RecordedByID.String()
		resp.RecordedByID = &id
	}
	return resp
}

func attachmentToResponse(a *model.Attachment) *dto.AttachmentResponse {
	resp := &dto.AttachmentResponse{
		ID:          a.ID.String(),
		EpisodeID:   a.EpisodeID.String(),
		Type:        a.Type,
		Title:       a.Title,
		Description: a.Description,
		FilePath:    a.FilePath,
		CreatedAt:   a.CreatedAt,
	}
	if a.UploadedByID != nil {
		id := a.UploadedByID.String()
		resp.UploadedByID = &id
	}
	return resp
}
