package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rambopet/internal/config"
	"rambopet/internal/infra"
	"rambopet/internal/jobs"
	"rambopet/internal/repository"
	"rambopet/internal/router"
	"rambopet/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Start goroutine worker pool for async tasks (notification email,
	// inventory report PDF). Worker handlers are wired here (composition
	// root) so that the pool has full access to all infrastructure
	// dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	userRepo := repository.NewUserRepository(db)
	lotRepo := repository.NewLotRepository(db)

	pool := worker.NewPool(rdb)
	pool.Register(worker.QueueEmail, worker.NewEmailWorker(mailer))
	pool.Register(worker.QueueReport, worker.NewReportWorker(lotRepo, userRepo, dispatcher, cfg.ClinicName, cfg.ReportStoragePath))
	pool.Start(ctx, cfg.WorkerPoolSize)

	// Recurring clinic jobs: reminders, no-show sweep, stock and expiry
	// scans, monthly valuation.
	apptRepo := repository.NewAppointmentRepository(db)
	productRepo := repository.NewProductRepository(db)
	scheduler := jobs.NewScheduler(apptRepo, userRepo, productRepo, lotRepo, mailer, dispatcher, cfg)
	cron := scheduler.Start()
	defer cron.Stop()

	r := router.New(cfg, db, rdb, mailer)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("rambopet backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
