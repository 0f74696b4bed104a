package jobs

import (
	"time"

	"rambopet/internal/config"
	"rambopet/internal/infra"
	"rambopet/internal/repository"
	"rambopet/internal/worker"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

// Scheduler owns every recurring clinic job. All times are local clinic time.
//
//	08:00 daily    — stock threshold scan, alert email to staff
//	09:00 daily    — guardian reminders for tomorrow's appointments
//	07:30 daily    — per-vet agenda email for the day
//	hourly         — overdue booked/confirmed appointments swept to no_show
//	10:00 Mondays  — lot expiry scan, alert email to staff
//	06:00 on the 1st — monthly inventory valuation report job
type Scheduler struct {
	apptRepo    repository.AppointmentRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	lotRepo     repository.LotRepository

	mailer     *infra.Mailer
	dispatcher *worker.Dispatcher
	cfg        *config.Config
}

func NewScheduler(
	apptRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	lotRepo repository.LotRepository,
	mailer *infra.Mailer,
	dispatcher *worker.Dispatcher,
	cfg *config.Config,
) *Scheduler {
	return &Scheduler{
		apptRepo:    apptRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		lotRepo:     lotRepo,
		mailer:      mailer,
		dispatcher:  dispatcher,
		cfg:         cfg,
	}
}

// Start registers all jobs and runs the scheduler asynchronously.
// The returned scheduler can be stopped on shutdown.
func (s *Scheduler) Start() *gocron.Scheduler {
	scheduler := gocron.NewScheduler(time.Local)

	if _, err := scheduler.Every(1).Day().At("08:00").Do(s.runStockScan); err != nil {
		log.Error().Err(err).Msg("scheduler: failed to register stock scan")
	}
	if _, err := scheduler.Every(1).Day().At("09:00").Do(s.runReminders); err != nil {
		log.Error().Err(err).Msg("scheduler: failed to register reminders")
	}
	if _, err := scheduler.Every(1).Day().At("07:30").Do(s.runVetSchedules); err != nil {
		log.Error().Err(err).Msg("scheduler: failed to register vet schedules")
	}
	if _, err := scheduler.Every(1).Hour().Do(s.runNoShowSweep); err != nil {
		log.Error().Err(err).Msg("scheduler: failed to register no-show sweep")
	}
	if _, err := scheduler.Every(1).Monday().At("10:00").Do(s.runExpiryScan); err != nil {
		log.Error().Err(err).Msg("scheduler: failed to register expiry scan")
	}
	if _, err := scheduler.Cron("0 6 1 * *").Do(s.runMonthlyValuation); err != nil {
		log.Error().Err(err).Msg("scheduler: failed to register monthly valuation")
	}

	scheduler.StartAsync()
	log.Info().Msg("job scheduler started")
	return scheduler
}
