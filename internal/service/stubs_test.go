package service_test

import (
	"context"
	"time"

	"rambopet/internal/dto"
	"rambopet/internal/model"
	"rambopet/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository stubs shared by the service tests. Not-found lookups
// return gorm.ErrRecordNotFound so the services' errors.Is checks behave the
// same as against a real database.

// ── UserRepository ───────────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context, _ dto.UserFilter) ([]model.User, int64, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) ListActiveByRole(_ context.Context, role string) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.Role == role && u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Active = false
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Active = true
	return nil
}

// ── SpeciesRepository ────────────────────────────────────────────────────────

type stubSpeciesRepo struct {
	species map[uuid.UUID]*model.Species
	breeds  map[uuid.UUID]*model.Breed
}

var _ repository.SpeciesRepository = (*stubSpeciesRepo)(nil)

func newStubSpeciesRepo() *stubSpeciesRepo {
	return &stubSpeciesRepo{
		species: make(map[uuid.UUID]*model.Species),
		breeds:  make(map[uuid.UUID]*model.Breed),
	}
}

func (r *stubSpeciesRepo) Create(_ context.Context, s *model.Species) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.species[s.ID] = s
	return nil
}

func (r *stubSpeciesRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Species, error) {
	s, ok := r.species[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSpeciesRepo) List(_ context.Context) ([]model.Species, error) {
	var out []model.Species
	for _, s := range r.species {
		if s.Active {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSpeciesRepo) Update(_ context.Context, s *model.Species) error {
	r.species[s.ID] = s
	return nil
}

func (r *stubSpeciesRepo) CreateBreed(_ context.Context, b *model.Breed) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.breeds[b.ID] = b
	return nil
}

func (r *stubSpeciesRepo) FindBreedByID(_ context.Context, id uuid.UUID) (*model.Breed, error) {
	b, ok := r.breeds[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *stubSpeciesRepo) ListBreeds(_ context.Context, speciesID *uuid.UUID) ([]model.Breed, error) {
	var out []model.Breed
	for _, b := range r.breeds {
		if speciesID != nil && b.SpeciesID != *speciesID {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *stubSpeciesRepo) UpdateBreed(_ context.Context, b *model.Breed) error {
	r.breeds[b.ID] = b
	return nil
}

// ── PatientRepository ────────────────────────────────────────────────────────

type stubPatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

var _ repository.PatientRepository = (*stubPatientRepo)(nil)

func newStubPatientRepo() *stubPatientRepo {
	return &stubPatientRepo{patients: make(map[uuid.UUID]*model.Patient)}
}

func (r *stubPatientRepo) Create(_ context.Context, p *model.Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.patients[p.ID] = p
	return nil
}

func (r *stubPatientRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	p, ok := r.patients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPatientRepo) FindByMicrochip(_ context.Context, microchip string) (*model.Patient, error) {
	for _, p := range r.patients {
		if p.Microchip != nil && *p.Microchip == microchip {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPatientRepo) List(_ context.Context, filter dto.PatientFilter) ([]model.Patient, int64, error) {
	var out []model.Patient
	for _, p := range r.patients {
		if filter.GuardianID != "" && p.GuardianID.String() != filter.GuardianID {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPatientRepo) Update(_ context.Context, p *model.Patient) error {
	r.patients[p.ID] = p
	return nil
}

func (r *stubPatientRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.patients[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Active = false
	return nil
}

// ── AppointmentRepository ────────────────────────────────────────────────────

type stubAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
}

var _ repository.AppointmentRepository = (*stubAppointmentRepo)(nil)

func newStubAppointmentRepo() *stubAppointmentRepo {
	return &stubAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (r *stubAppointmentRepo) Create(_ context.Context, a *model.Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.appointments[a.ID] = a
	return nil
}

func (r *stubAppointmentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	a, ok := r.appointments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *stubAppointmentRepo) List(_ context.Context, _ dto.AppointmentFilter) ([]model.Appointment, int64, error) {
	var out []model.Appointment
	for _, a := range r.appointments {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (r *stubAppointmentRepo) Update(_ context.Context, a *model.Appointment) error {
	r.appointments[a.ID] = a
	return nil
}

func (r *stubAppointmentRepo) FindOverlapping(_ context.Context, vetID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]model.Appointment, error) {
	var out []model.Appointment
	for _, a := range r.appointments {
		if a.VetID == nil || *a.VetID != vetID {
			continue
		}
		if a.Status == model.AppointmentCancelled || a.Status == model.AppointmentNoShow {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if a.ScheduledAt.Before(end) && a.EndsAt().After(start) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAppointmentRepo) FindPendingReminders(_ context.Context, from, to time.Time) ([]model.Appointment, error) {
	var out []model.Appointment
	for _, a := range r.appointments {
		if a.ReminderSent {
			continue
		}
		if a.Status != model.AppointmentBooked && a.Status != model.AppointmentConfirmed {
			continue
		}
		if !a.ScheduledAt.Before(from) && a.ScheduledAt.Before(to) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAppointmentRepo) FindOverdue(_ context.Context, before time.Time) ([]model.Appointment, error) {
	var out []model.Appointment
	for _, a := range r.appointments {
		if a.Status != model.AppointmentBooked && a.Status != model.AppointmentConfirmed {
			continue
		}
		if a.ScheduledAt.Before(before) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAppointmentRepo) FindByVetAndDay(_ context.Context, vetID uuid.UUID, day time.Time) ([]model.Appointment, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	var out []model.Appointment
	for _, a := range r.appointments {
		if a.VetID == nil || *a.VetID != vetID || a.IsTerminal() {
			continue
		}
		if !a.ScheduledAt.Before(start) && a.ScheduledAt.Before(end) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAppointmentRepo) FindUpcoming(_ context.Context, from, to time.Time) ([]model.Appointment, error) {
	var out []model.Appointment
	for _, a := range r.appointments {
		if a.Status == model.AppointmentCancelled || a.Status == model.AppointmentNoShow {
			continue
		}
		if !a.ScheduledAt.Before(from) && a.ScheduledAt.Before(to) {
			out = append(out, *a)
		}
	}
	return out, nil
}

// ── EpisodeRepository ────────────────────────────────────────────────────────

type stubEpisodeRepo struct {
	episodes    map[uuid.UUID]*model.ClinicalEpisode
	vitals      map[uuid.UUID][]model.VitalSigns
	attachments map[uuid.UUID][]model.Attachment
}

var _ repository.EpisodeRepository = (*stubEpisodeRepo)(nil)

func newStubEpisodeRepo() *stubEpisodeRepo {
	return &stubEpisodeRepo{
		episodes:    make(map[uuid.UUID]*model.ClinicalEpisode),
		vitals:      make(map[uuid.UUID][]model.VitalSigns),
		attachments: make(map[uuid.UUID][]model.Attachment),
	}
}

func (r *stubEpisodeRepo) Create(_ context.Context, e *model.ClinicalEpisode) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.episodes[e.ID] = e
	return nil
}

func (r *stubEpisodeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ClinicalEpisode, error) {
	e, ok := r.episodes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *stubEpisodeRepo) FindByAppointmentID(_ context.Context, appointmentID uuid.UUID) (*model.ClinicalEpisode, error) {
	for _, e := range r.episodes {
		if e.AppointmentID == appointmentID {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubEpisodeRepo) List(_ context.Context, _ dto.EpisodeFilter) ([]model.ClinicalEpisode, int64, error) {
	var out []model.ClinicalEpisode
	for _, e := range r.episodes {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (r *stubEpisodeRepo) Update(_ context.Context, e *model.ClinicalEpisode) error {
	r.episodes[e.ID] = e
	return nil
}

func (r *stubEpisodeRepo) CreateVitals(_ context.Context, v *model.VitalSigns) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.vitals[v.EpisodeID] = append(r.vitals[v.EpisodeID], *v)
	return nil
}

func (r *stubEpisodeRepo) ListVitals(_ context.Context, episodeID uuid.UUID) ([]model.VitalSigns, error) {
	return r.vitals[episodeID], nil
}

func (r *stubEpisodeRepo) CreateAttachment(_ context.Context, a *model.Attachment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.attachments[a.EpisodeID] = append(r.attachments[a.EpisodeID], *a)
	return nil
}

func (r *stubEpisodeRepo) FindAttachmentByID(_ context.Context, id uuid.UUID) (*model.Attachment, error) {
	for _, list := range r.attachments {
		for i := range list {
			if list[i].ID == id {
				return &list[i], nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubEpisodeRepo) ListAttachments(_ context.Context, episodeID uuid.UUID) ([]model.Attachment, error) {
	return r.attachments[episodeID], nil
}

func (r *stubEpisodeRepo) DeleteAttachment(_ context.Context, id uuid.UUID) error {
	for episodeID, list := range r.attachments {
		for i := range list {
			if list[i].ID == id {
				r.attachments[episodeID] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

// ── ProductRepository ────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
	stocks   map[uuid.UUID]int
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products: make(map[uuid.UUID]*model.Product),
		stocks:   make(map[uuid.UUID]int),
	}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByCode(_ context.Context, code string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]repository.ProductWithStock, int64, error) {
	var out []repository.ProductWithStock
	for _, p := range r.products {
		if !p.Active {
			continue
		}
		out = append(out, repository.ProductWithStock{Product: *p, TotalStock: r.stocks[p.ID]})
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Active = false
	return nil
}

func (r *stubProductRepo) TotalStock(_ context.Context, id uuid.UUID) (int, error) {
	return r.stocks[id], nil
}

func (r *stubProductRepo) ListOutsideThresholds(_ context.Context) ([]repository.ProductWithStock, error) {
	var out []repository.ProductWithStock
	for _, p := range r.products {
		if !p.Active {
			continue
		}
		total := r.stocks[p.ID]
		if total <= p.MinStock || (p.MaxStock > 0 && total > p.MaxStock) {
			out = append(out, repository.ProductWithStock{Product: *p, TotalStock: total})
		}
	}
	return out, nil
}

// ── LotRepository ────────────────────────────────────────────────────────────

type stubLotRepo struct {
	lots map[uuid.UUID]*model.Lot
}

var _ repository.LotRepository = (*stubLotRepo)(nil)

func newStubLotRepo() *stubLotRepo {
	return &stubLotRepo{lots: make(map[uuid.UUID]*model.Lot)}
}

func (r *stubLotRepo) Create(_ context.Context, l *model.Lot) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.lots[l.ID] = l
	return nil
}

func (r *stubLotRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Lot, error) {
	l, ok := r.lots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (r *stubLotRepo) List(_ context.Context, _ dto.LotFilter) ([]model.Lot, int64, error) {
	var out []model.Lot
	for _, l := range r.lots {
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

func (r *stubLotRepo) Update(_ context.Context, l *model.Lot) error {
	r.lots[l.ID] = l
	return nil
}

func (r *stubLotRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Lot, error) {
	l, ok := r.lots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (r *stubLotRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, newStock int) error {
	l, ok := r.lots[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	l.CurrentStock = newStock
	return nil
}

func (r *stubLotRepo) ListExpiringBefore(_ context.Context, cutoff time.Time) ([]model.Lot, error) {
	var out []model.Lot
	for _, l := range r.lots {
		if l.Active && l.CurrentStock > 0 && l.ExpiresAt.Before(cutoff) {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *stubLotRepo) ListActiveWithStock(_ context.Context) ([]model.Lot, error) {
	var out []model.Lot
	for _, l := range r.lots {
		if l.Active && l.CurrentStock > 0 {
			out = append(out, *l)
		}
	}
	return out, nil
}

// DB returns nil so the service's transaction helper runs the callback
// directly, without a database.
func (r *stubLotRepo) DB() *gorm.DB { return nil }

// ── MovementRepository ───────────────────────────────────────────────────────

type stubMovementRepo struct {
	movements []model.StockMovement
}

var _ repository.MovementRepository = (*stubMovementRepo)(nil)

func newStubMovementRepo() *stubMovementRepo { return &stubMovementRepo{} }

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) FindByID(_ context.Context, id uuid.UUID) (*model.StockMovement, error) {
	for i := range r.movements {
		if r.movements[i].ID == id {
			return &r.movements[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMovementRepo) List(_ context.Context, _ dto.MovementFilter) ([]model.StockMovement, int64, error) {
	return r.movements, int64(len(r.movements)), nil
}
