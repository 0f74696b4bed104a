package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"rambopet/internal/dto"
	"rambopet/internal/infra"
	"rambopet/internal/model"
	"rambopet/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patientFixture struct {
	svc         service.PatientService
	repo        *stubPatientRepo
	userRepo    *stubUserRepo
	speciesRepo *stubSpeciesRepo

	guardian *model.User
	species  *model.Species
	breed    *model.Breed
}

func newPatientFixture(t *testing.T) *patientFixture {
	t.Helper()
	repo := newStubPatientRepo()
	userRepo := newStubUserRepo()
	speciesRepo := newStubSpeciesRepo()

	guardian := &model.User{
		ID:        uuid.New(),
		Username:  "ana",
		Email:     "ana@rambopet.test",
		FirstName: "Ana",
		LastName:  "Torres",
		Role:      model.RoleGuardian,
		Active:    true,
	}
	userRepo.users[guardian.ID] = guardian

	species := &model.Species{ID: uuid.New(), Name: "Dog", Active: true}
	speciesRepo.species[species.ID] = species

	breed := &model.Breed{ID: uuid.New(), SpeciesID: species.ID, Name: "Labrador", Active: true}
	speciesRepo.breeds[breed.ID] = breed

	return &patientFixture{
		svc:         service.NewPatientService(repo, userRepo, speciesRepo, infra.NewFileStorage(t.TempDir())),
		repo:        repo,
		userRepo:    userRepo,
		speciesRepo: speciesRepo,
		guardian:    guardian,
		species:     species,
		breed:       breed,
	}
}

func (f *patientFixture) createRequest() dto.CreatePatientRequest {
	breedID := f.breed.ID.String()
	return dto.CreatePatientRequest{
		Name:       "Rambo",
		GuardianID: f.guardian.ID.String(),
		SpeciesID:  f.species.ID.String(),
		BreedID:    &breedID,
		Sex:        model.SexMale,
	}
}

func TestCreatePatient(t *testing.T) {
	f := newPatientFixture(t)

	resp, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)

	assert.Equal(t, "Rambo", resp.Name)
	assert.Equal(t, f.guardian.ID.String(), resp.GuardianID)
	assert.True(t, resp.Active)
	assert.False(t, resp.Deceased)
}

func TestCreatePatientDefaultSex(t *testing.T) {
	f := newPatientFixture(t)
	req := f.createRequest()
	req.Sex = ""

	resp, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.SexUnknown, resp.Sex)
}

func TestCreatePatientNonGuardianOwner(t *testing.T) {
	f := newPatientFixture(t)
	vet := &model.User{ID: uuid.New(), Username: "drv", Role: model.RoleVet, Active: true}
	f.userRepo.users[vet.ID] = vet

	req := f.createRequest()
	req.GuardianID = vet.ID.String()

	_, err := f.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "guardian")
}

func TestCreatePatientBreedSpeciesMismatch(t *testing.T) {
	f := newPatientFixture(t)
	cat := &model.Species{ID: uuid.New(), Name: "Cat", Active: true}
	f.speciesRepo.species[cat.ID] = cat

	req := f.createRequest()
	req.SpeciesID = cat.ID.String()

	_, err := f.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "species")
}

func TestCreatePatientDuplicateMicrochip(t *testing.T) {
	f := newPatientFixture(t)
	chip := "981098100000001"

	req := f.createRequest()
	req.Microchip = &chip
	_, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	other := f.createRequest()
	other.Name = "Blanca"
	other.Microchip = &chip
	_, err = f.svc.Create(context.Background(), other)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestCreatePatientFutureBirthDate(t *testing.T) {
	f := newPatientFixture(t)
	future := time.Now().AddDate(0, 1, 0)

	req := f.createRequest()
	req.BirthDate = &future

	_, err := f.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "future")
}

func TestUpdateDeceasedPatient(t *testing.T) {
	f := newPatientFixture(t)

	created, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	_, err = f.svc.MarkDeceased(context.Background(), id, dto.MarkDeceasedRequest{})
	require.NoError(t, err)

	name := "New Name"
	_, err = f.svc.Update(context.Background(), id, dto.UpdatePatientRequest{Name: &name})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestMarkDeceased(t *testing.T) {
	f := newPatientFixture(t)

	created, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	resp, err := f.svc.MarkDeceased(context.Background(), id, dto.MarkDeceasedRequest{})
	require.NoError(t, err)

	assert.True(t, resp.Deceased)
	require.NotNil(t, resp.DeceasedAt)
	assert.False(t, resp.Active, "deceased patients are deactivated too")

	// Marking twice is a conflict.
	_, err = f.svc.MarkDeceased(context.Background(), id, dto.MarkDeceasedRequest{})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestGuardianCannotSeeOthersPatient(t *testing.T) {
	f := newPatientFixture(t)

	created, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	owner := service.Actor{UserID: f.guardian.ID, Role: model.RoleGuardian}
	stranger := service.Actor{UserID: uuid.New(), Role: model.RoleGuardian}
	staff := service.Actor{UserID: uuid.New(), Role: model.RoleReceptionist}

	_, err = f.svc.Get(context.Background(), owner, id)
	assert.NoError(t, err)

	_, err = f.svc.Get(context.Background(), stranger, id)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = f.svc.Get(context.Background(), staff, id)
	assert.NoError(t, err)
}

func TestGuardianListIsScoped(t *testing.T) {
	f := newPatientFixture(t)

	_, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)

	stranger := service.Actor{UserID: uuid.New(), Role: model.RoleGuardian}
	list, err := f.svc.List(context.Background(), stranger, dto.PatientFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, list.Data)

	owner := service.Actor{UserID: f.guardian.ID, Role: model.RoleGuardian}
	list, err = f.svc.List(context.Background(), owner, dto.PatientFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, list.Data, 1)
}

func TestPatientPhotoUpload(t *testing.T) {
	f := newPatientFixture(t)

	created, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	resp, err := f.svc.UpdatePhoto(context.Background(), id, "rambo.jpg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.PhotoPath)

	_, err = f.svc.MarkDeceased(context.Background(), id, dto.MarkDeceasedRequest{})
	require.NoError(t, err)

	_, err = f.svc.UpdatePhoto(context.Background(), id, "rambo2.jpg", strings.NewReader("jpeg-bytes"))
	assert.ErrorIs(t, err, service.ErrConflict)
}
