package service_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"rambopet/internal/dto"
	"rambopet/internal/infra"
	"rambopet/internal/model"
	"rambopet/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clinicalFixture struct {
	svc         service.ClinicalService
	repo        *stubEpisodeRepo
	apptRepo    *stubAppointmentRepo
	patientRepo *stubPatientRepo

	guardian    *model.User
	vet         *model.User
	patient     *model.Patient
	appointment *model.Appointment
	actor       service.Actor
}

func newClinicalFixture(t *testing.T) *clinicalFixture {
	t.Helper()
	repo := newStubEpisodeRepo()
	apptRepo := newStubAppointmentRepo()
	patientRepo := newStubPatientRepo()
	storage := infra.NewFileStorage(t.TempDir())

	guardian := &model.User{ID: uuid.New(), Username: "ana", Role: model.RoleGuardian, Active: true}
	license := "VET-1001"
	vet := &model.User{
		ID: uuid.New(), Username: "drgarcia", FirstName: "Julia", LastName: "Garcia",
		Role: model.RoleVet, LicenseNumber: &license, Active: true,
	}

	patient := &model.Patient{
		ID: uuid.New(), GuardianID: guardian.ID, Name: "Rambo",
		SpeciesID: uuid.New(), Sex: model.SexMale, Active: true,
		Guardian: guardian,
	}
	patientRepo.patients[patient.ID] = patient

	vetID := vet.ID
	appointment := &model.Appointment{
		ID:          uuid.New(),
		PatientID:   patient.ID,
		VetID:       &vetID,
		ScheduledAt: time.Now().Add(-10 * time.Minute),
		DurationMinutes: 30,
		Type:        model.AppointmentTypeGeneral,
		Status:      model.AppointmentInProgress,
		Reason:      "limping on the left hind leg",
		Patient:     patient,
		Vet:         vet,
	}
	apptRepo.appointments[appointment.ID] = appointment

	return &clinicalFixture{
		svc:         service.NewClinicalService(repo, apptRepo, patientRepo, storage),
		repo:        repo,
		apptRepo:    apptRepo,
		patientRepo: patientRepo,
		guardian:    guardian,
		vet:         vet,
		patient:     patient,
		appointment: appointment,
		actor:       service.Actor{UserID: vet.ID, Role: model.RoleVet},
	}
}

func (f *clinicalFixture) openEpisode(t *testing.T) uuid.UUID {
	t.Helper()
	resp, err := f.svc.CreateEpisode(context.Background(), f.actor, dto.CreateEpisodeRequest{
		AppointmentID: f.appointment.ID.String(),
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

func TestCreateEpisode(t *testing.T) {
	f := newClinicalFixture(t)

	resp, err := f.svc.CreateEpisode(context.Background(), f.actor, dto.CreateEpisodeRequest{
		AppointmentID: f.appointment.ID.String(),
	})
	require.NoError(t, err)

	assert.Equal(t, f.patient.ID.String(), resp.PatientID)
	assert.Equal(t, f.vet.ID.String(), resp.VetID)
	assert.Equal(t, f.appointment.Reason, resp.Motive, "motive comes from the appointment")
	assert.Equal(t, model.PrognosisGood, resp.Prognosis)
	assert.False(t, resp.Closed)
}

func TestCreateEpisodeBeforeStart(t *testing.T) {
	f := newClinicalFixture(t)
	f.appointment.Status = model.AppointmentConfirmed

	_, err := f.svc.CreateEpisode(context.Background(), f.actor, dto.CreateEpisodeRequest{
		AppointmentID: f.appointment.ID.String(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestCreateEpisodeWithoutVet(t *testing.T) {
	f := newClinicalFixture(t)
	f.appointment.VetID = nil

	_, err := f.svc.CreateEpisode(context.Background(), f.actor, dto.CreateEpisodeRequest{
		AppointmentID: f.appointment.ID.String(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestOneEpisodePerAppointment(t *testing.T) {
	f := newClinicalFixture(t)
	f.openEpisode(t)

	_, err := f.svc.CreateEpisode(context.Background(), f.actor, dto.CreateEpisodeRequest{
		AppointmentID: f.appointment.ID.String(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestUpdateClosedEpisode(t *testing.T) {
	f := newClinicalFixture(t)
	id := f.openEpisode(t)

	_, err := f.svc.CloseEpisode(context.Background(), id)
	require.NoError(t, err)

	diag := "patellar luxation grade II"
	_, err = f.svc.UpdateEpisode(context.Background(), id, dto.UpdateEpisodeRequest{DefinitiveDiagnosis: &diag})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrConflict)

	// Closing twice is a conflict too.
	_, err = f.svc.CloseEpisode(context.Background(), id)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestRecordVitals(t *testing.T) {
	f := newClinicalFixture(t)
	id := f.openEpisode(t)

	temp := decimal.NewFromFloat(38.5)
	resp, err := f.svc.RecordVitals(context.Background(), f.actor, id, dto.RecordVitalsRequest{
		Weight:      decimal.NewFromFloat(24.3),
		Temperature: &temp,
	})
	require.NoError(t, err)

	assert.Equal(t, "24.3", resp.Weight.String())
	require.NotNil(t, resp.RecordedByID)
	assert.Equal(t, f.vet.ID.String(), *resp.RecordedByID)

	// The latest weight measurement propagates to the patient record.
	require.NotNil(t, f.patient.CurrentWeight)
	assert.Equal(t, "24.3", f.patient.CurrentWeight.String())
}

func TestRecordVitalsBounds(t *testing.T) {
	f := newClinicalFixture(t)
	id := f.openEpisode(t)

	_, err := f.svc.RecordVitals(context.Background(), f.actor, id, dto.RecordVitalsRequest{
		Weight: decimal.Zero,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weight")

	coldTemp := decimal.NewFromFloat(25.0)
	_, err = f.svc.RecordVitals(context.Background(), f.actor, id, dto.RecordVitalsRequest{
		Weight:      decimal.NewFromFloat(24.3),
		Temperature: &coldTemp,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "temperature")

	slowCRT := decimal.NewFromInt(15)
	_, err = f.svc.RecordVitals(context.Background(), f.actor, id, dto.RecordVitalsRequest{
		Weight:          decimal.NewFromFloat(24.3),
		CapillaryRefill: &slowCRT,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capillary refill")
}

func TestRecordVitalsOnClosedEpisode(t *testing.T) {
	f := newClinicalFixture(t)
	id := f.openEpisode(t)

	_, err := f.svc.CloseEpisode(context.Background(), id)
	require.NoError(t, err)

	_, err = f.svc.RecordVitals(context.Background(), f.actor, id, dto.RecordVitalsRequest{
		Weight: decimal.NewFromFloat(24.3),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestAttachmentRoundTrip(t *testing.T) {
	f := newClinicalFixture(t)
	id := f.openEpisode(t)

	created, err := f.svc.AddAttachment(context.Background(), f.actor, id,
		model.AttachmentXRay, "Left hind leg X-ray", "lateral view",
		"leg.png", strings.NewReader("not-really-a-png"))
	require.NoError(t, err)
	assert.Equal(t, model.AttachmentXRay, created.Type)

	meta, rc, err := f.svc.OpenAttachment(context.Background(), f.actor, uuid.MustParse(created.ID))
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "not-really-a-png", string(body))
	assert.Equal(t, created.FilePath, meta.FilePath)
}

func TestAttachmentRequiresTitle(t *testing.T) {
	f := newClinicalFixture(t)
	id := f.openEpisode(t)

	_, err := f.svc.AddAttachment(context.Background(), f.actor, id,
		model.AttachmentPhoto, "", "", "p.jpg", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
}

func TestGuardianAttachmentVisibility(t *testing.T) {
	f := newClinicalFixture(t)
	id := f.openEpisode(t)

	created, err := f.svc.AddAttachment(context.Background(), f.actor, id,
		"", "Discharge summary", "", "summary.pdf", strings.NewReader("pdf"))
	require.NoError(t, err)
	assert.Equal(t, model.AttachmentDocument, created.Type, "untyped uploads default to document")

	f.repo.episodes[id].Patient = f.patient

	owner := service.Actor{UserID: f.guardian.ID, Role: model.RoleGuardian}
	_, rc, err := f.svc.OpenAttachment(context.Background(), owner, uuid.MustParse(created.ID))
	require.NoError(t, err)
	rc.Close()

	stranger := service.Actor{UserID: uuid.New(), Role: model.RoleGuardian}
	_, _, err = f.svc.OpenAttachment(context.Background(), stranger, uuid.MustParse(created.ID))
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestGuardianEpisodeVisibility(t *testing.T) {
	f := newClinicalFixture(t)
	id := f.openEpisode(t)

	// The stub returns the stored episode; wire the patient in so the
	// guardian check has something to look at.
	f.repo.episodes[id].Patient = f.patient

	owner := service.Actor{UserID: f.guardian.ID, Role: model.RoleGuardian}
	_, err := f.svc.GetEpisode(context.Background(), owner, id)
	assert.NoError(t, err)

	stranger := service.Actor{UserID: uuid.New(), Role: model.RoleGuardian}
	_, err = f.svc.GetEpisode(context.Background(), stranger, id)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestReopenEpisode(t *testing.T) {
	f := newClinicalFixture(t)
	id := f.openEpisode(t)

	_, err := f.svc.ReopenEpisode(context.Background(), id)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrConflict, "an open episode cannot be reopened")

	_, err = f.svc.CloseEpisode(context.Background(), id)
	require.NoError(t, err)

	resp, err := f.svc.ReopenEpisode(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, resp.Closed)

	// Writes work again after the reopen.
	diag := "cruciate ligament rupture"
	_, err = f.svc.UpdateEpisode(context.Background(), id, dto.UpdateEpisodeRequest{DefinitiveDiagnosis: &diag})
	assert.NoError(t, err)
}

func TestDeleteAttachment(t *testing.T) {
	f := newClinicalFixture(t)
	id := f.openEpisode(t)

	att, err := f.svc.AddAttachment(
		context.Background(), f.actor, id,
		model.AttachmentXRay, "left hind x-ray", "", "xray.png",
		strings.NewReader("png-bytes"),
	)
	require.NoError(t, err)
	attID := uuid.MustParse(att.ID)

	require.NoError(t, f.svc.DeleteAttachment(context.Background(), attID))

	_, _, err = f.svc.OpenAttachment(context.Background(), f.actor, attID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	err = f.svc.DeleteAttachment(context.Background(), attID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteAttachmentOnClosedEpisode(t *testing.T) {
	f := newClinicalFixture(t)
	id := f.openEpisode(t)

	att, err := f.svc.AddAttachment(
		context.Background(), f.actor, id,
		model.AttachmentXRay, "left hind x-ray", "", "xray.png",
		strings.NewReader("png-bytes"),
	)
	require.NoError(t, err)

	_, err = f.svc.CloseEpisode(context.Background(), id)
	require.NoError(t, err)

	err = f.svc.DeleteAttachment(context.Background(), uuid.MustParse(att.ID))
	assert.ErrorIs(t, err, service.ErrConflict)
}
