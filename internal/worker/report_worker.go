package worker

// report_worker.go
// Processes inventory report jobs from QueueReport. Each job renders the
// valuation PDF for every active lot holding stock and enqueues an email to
// the clinic admins with the file attached.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rambopet/internal/infra"
	"rambopet/internal/model"
	"rambopet/internal/repository"

	"github.com/rs/zerolog/log"
)

// ReportJobPayload is the job envelope sent to QueueReport.
type ReportJobPayload struct {
	AsOf time.Time `json:"as_of"`
}

type ReportWorker struct {
	lotRepo     repository.LotRepository
	userRepo    repository.UserRepository
	dispatcher  *Dispatcher
	clinicName  string
	storagePath string
}

func NewReportWorker(
	lotRepo repository.LotRepository,
	userRepo repository.UserRepository,
	dispatcher *Dispatcher,
	clinicName, storagePath string,
) *ReportWorker {
	return &ReportWorker{
		lotRepo:     lotRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
		clinicName:  clinicName,
		storagePath: storagePath,
	}
}

// Process generates the valuation PDF and queues the delivery email.
func (w *ReportWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReportJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("report_worker: invalid payload")
		return nil
	}
	if payload.AsOf.IsZero() {
		payload.AsOf = time.Now()
	}

	lots, err := w.lotRepo.ListActiveWithStock(ctx)
	if err != nil {
		return fmt.Errorf("report_worker: list lots: %w", err)
	}

	path, err := infra.GenerateInventoryReportPDF(lots, w.clinicName, w.storagePath, payload.AsOf)
	if err != nil {
		return fmt.Errorf("report_worker: render pdf: %w", err)
	}

	admins, err := w.userRepo.ListActiveByRole(ctx, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("report_worker: list admins: %w", err)
	}
	var to []string
	for _, a := range admins {
		if a.Email != "" {
			to = append(to, a.Email)
		}
	}
	if len(to) == 0 {
		log.Warn().Msg("report_worker: no admin recipients, report kept on disk only")
		return nil
	}

	email := EmailJobPayload{
		To:          to,
		Subject:     fmt.Sprintf("Inventory valuation report %s", payload.AsOf.Format("January 2006")),
		Body:        "Attached is the monthly inventory valuation report.",
		Attachments: []string{path},
	}
	if err := w.dispatcher.EnqueueEmail(ctx, email); err != nil {
		return fmt.Errorf("report_worker: enqueue email: %w", err)
	}

	log.Info().Str("path", path).Int("lots", len(lots)).Msg("report_worker: report generated")
	return nil
}
