package service

import (
	"context"
	"errors"
	"io"
	"time"

	"rambopet/internal/dto"
	"rambopet/internal/infra"
	"rambopet/internal/model"
	"rambopet/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor identifies who is performing an operation so services can apply
// role-based visibility rules.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func (a Actor) IsGuardian() bool { return a.Role == model.RoleGuardian }
func (a Actor) IsStaff() bool {
	return a.Role == model.RoleVet || a.Role == model.RoleReceptionist || a.Role == model.RoleAdmin
}

type PatientService interface {
	Create(ctx context.Context, req dto.CreatePatientRequest) (*dto.PatientResponse, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*dto.PatientResponse, error)
	List(ctx context.Context, actor Actor, filter dto.PatientFilter) (*dto.PatientListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	MarkDeceased(ctx context.Context, id uuid.UUID, req dto.MarkDeceasedRequest) (*dto.PatientResponse, error)
	UpdatePhoto(ctx context.Context, id uuid.UUID, fileName string, r io.Reader) (*dto.PatientResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type patientService struct {
	repo        repository.PatientRepository
	userRepo    repository.UserRepository
	speciesRepo repository.SpeciesRepository
	storage     *infra.FileStorage
}

func NewPatientService(
	repo repository.PatientRepository,
	userRepo repository.UserRepository,
	speciesRepo repository.SpeciesRepository,
	storage *infra.FileStorage,
) PatientService {
	return &patientService{repo: repo, userRepo: userRepo, speciesRepo: speciesRepo, storage: storage}
}

func (s *patientService) Create(ctx context.Context, req dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	guardianID, err := uuid.Parse(req.GuardianID)
	if err != nil {
		return nil, err
	}
	guardian, err := s.userRepo.FindByID(ctx, guardianID)
	if err != nil {
		return nil, notFound("guardian not found")
	}
	if !guardian.IsGuardian() {
		return nil, errors.New("guardian_id must reference a guardian user")
	}

	speciesID, err := uuid.Parse(req.SpeciesID)
	if err != nil {
		return nil, err
	}
	if _, err := s.speciesRepo.FindByID(ctx, speciesID); err != nil {
		return nil, notFound("species not found")
	}

	var breedID *uuid.UUID
	if req.BreedID != nil {
		bid, err := uuid.Parse(*req.BreedID)
		if err != nil {
			return nil, err
		}
		breed, err := s.speciesRepo.FindBreedByID(ctx, bid)
		if err != nil {
			return nil, notFound("breed not found")
		}
		if breed.SpeciesID != speciesID {
			return nil, errors.New("breed does not belong to the given species")
		}
		breedID = &bid
	}

	if req.Microchip != nil && *req.Microchip != "" {
		if _, err := s.repo.FindByMicrochip(ctx, *req.Microchip); err == nil {
			return nil, conflict("microchip already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if req.BirthDate != nil && req.BirthDate.After(time.Now()) {
		return nil, errors.New("birth date cannot be in the future")
	}

	sex := req.Sex
	if sex == "" {
		sex = model.SexUnknown
	}

	p := &model.Patient{
		GuardianID:        guardianID,
		Name:              req.Name,
		SpeciesID:         speciesID,
		BreedID:           breedID,
		Sex:               sex,
		BirthDate:         req.BirthDate,
		Color:             req.Color,
		CurrentWeight:     req.CurrentWeight,
		Microchip:         req.Microchip,
		Neutered:          req.Neutered,
		Allergies:         req.Allergies,
		ChronicConditions: req.ChronicConditions,
		Notes:             req.Notes,
		Active:            true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, p.ID)
	if err != nil {
		return patientToResponse(p), nil
	}
	return patientToResponse(created), nil
}

func (s *patientService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*dto.PatientResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("patient not found")
	}
	if actor.IsGuardian() && p.GuardianID != actor.UserID {
		return nil, forbidden("patients of other guardians are not visible")
	}
	return patientToResponse(p), nil
}

func (s *patientService) List(ctx context.Context, actor Actor, filter dto.PatientFilter) (*dto.PatientListResponse, error) {
	// Guardians only ever see their own animals.
	if actor.IsGuardian() {
		filter.GuardianID = actor.UserID.String()
	}

	patients, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PatientResponse, 0, len(patients))
	for i := range patients {
		out = append(out, *patientToResponse(&patients[i]))
	}
	return &dto.PatientListResponse{
		Data:       out,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *patientService) Update(ctx context.Context, id uuid.UUID, req dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("patient not found")
	}
	if p.Deceased {
		return nil, conflict("deceased patients cannot be modified")
	}

	if req.GuardianID != nil {
		gid, err := uuid.Parse(*req.GuardianID)
		if err != nil {
			return nil, err
		}
		guardian, err := s.userRepo.FindByID(ctx, gid)
		if err != nil {
			return nil, notFound("guardian not found")
		}
		if !guardian.IsGuardian() {
			return nil, errors.New("guardian_id must reference a guardian user")
		}
		p.GuardianID = gid
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.BreedID != nil {
		bid, err := uuid.Parse(*req.BreedID)
		if err != nil {
			return nil, err
		}
		breed, err := s.speciesRepo.FindBreedByID(ctx, bid)
		if err != nil {
			return nil, notFound("breed not found")
		}
		if breed.SpeciesID != p.SpeciesID {
			return nil, errors.New("breed does not belong to the patient's species")
		}
		p.BreedID = &bid
	}
	if req.Sex != nil {
		p.Sex = *req.Sex
	}
	if req.BirthDate != nil {
		if req.BirthDate.After(time.Now()) {
			return nil, errors.New("birth date cannot be in the future")
		}
		p.BirthDate = req.BirthDate
	}
	if req.Color != nil {
		p.Color = *req.Color
	}
	if req.CurrentWeight != nil {
		p.CurrentWeight = req.CurrentWeight
	}
	if req.Microchip != nil && (p.Microchip == nil || *req.Microchip != *p.Microchip) {
		if *req.Microchip != "" {
			if existing, err := s.repo.FindByMicrochip(ctx, *req.Microchip); err == nil && existing.ID != p.ID {
				return nil, conflict("microchip already registered")
			}
		}
		p.Microchip = req.Microchip
	}
	if req.Neutered != nil {
		p.Neutered = *req.Neutered
	}
	if req.Allergies != nil {
		p.Allergies = *req.Allergies
	}
	if req.ChronicConditions != nil {
		p.ChronicConditions = *req.ChronicConditions
	}
	if req.Notes != nil {
		p.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return patientToResponse(p), nil
}

func (s *patientService) MarkDeceased(ctx context.Context, id uuid.UUID, req dto.MarkDeceasedRequest) (*dto.PatientResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("patient not found")
	}
	if p.Deceased {
		return nil, conflict("patient is already marked deceased")
	}

	when := time.Now()
	if req.DeceasedAt != nil {
		if req.DeceasedAt.After(time.Now()) {
			return nil, errors.New("deceased date cannot be in the future")
		}
		when = *req.DeceasedAt
	}

	// A deceased patient always becomes inactive too.
	p.Deceased = true
	p.DeceasedAt = &when
	p.Active = false

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return patientToResponse(p), nil
}

func (s *patientService) UpdatePhoto(ctx context.Context, id uuid.UUID, fileName string, r io.Reader) (*dto.PatientResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("patient not found")
	}
	if p.Deceased {
		return nil, conflict("deceased patients cannot be modified")
	}

	stored, err := s.storage.Save(id, fileName, r)
	if err != nil {
		return nil, err
	}
	if p.PhotoPath != "" {
		_ = s.storage.Remove(p.PhotoPath)
	}
	p.PhotoPath = stored

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return patientToResponse(p), nil
}

func (s *patientService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound("patient not found")
	}
	return s.repo.SoftDelete(ctx, id)
}

func patientToResponse(p *model.Patient) *dto.PatientResponse {
	resp := &dto.PatientResponse{
		ID:                p.ID.String(),
		Name:              p.Name,
		GuardianID:        p.GuardianID.String(),
		SpeciesID:         p.SpeciesID.String(),
		Sex:               p.Sex,
		BirthDate:         p.BirthDate,
		AgeYears:          p.AgeYears(time.Now()),
		Color:             p.Color,
		CurrentWeight:     p.CurrentWeight,
		Microchip:         p.Microchip,
		Neutered:          p.Neutered,
		Allergies:         p.Allergies,
		ChronicConditions: p.ChronicConditions,
		Notes:             p.Notes,
		PhotoPath:         p.PhotoPath,
		Active:            p.Active,
		Deceased:          p.Deceased,
		DeceasedAt:        p.DeceasedAt,
	}
	if p.BreedID != nil {
		id := p.BreedID.String()
		resp.BreedID = &id
	}
	if p.Guardian != nil {
		resp.GuardianName = p.Guardian.FullName()
	}
	if p.Species != nil {
		resp.SpeciesName = p.Species.Name
	}
	if p.Breed != nil {
		resp.BreedName = p.Breed.Name
	}
	return resp
}
