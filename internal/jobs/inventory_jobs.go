package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rambopet/internal/model"
	"rambopet/internal/worker"

	"github.com/rs/zerolog/log"
)

// runStockScan queues a single alert email to staff listing every active
// product whose total stock sits outside its configured thresholds.
func (s *Scheduler) runStockScan() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	flagged, err := s.productRepo.ListOutsideThresholds(ctx)
	if err != nil {
		log.Error().Err(err).Msg("stock scan: query failed")
		return
	}
	if len(flagged) == 0 {
		log.Info().Msg("stock scan: all products within thresholds")
		return
	}

	to, err := s.staffEmails(ctx)
	if err != nil {
		log.Error().Err(err).Msg("stock scan: list staff failed")
		return
	}
	if len(to) == 0 {
		log.Warn().Msg("stock scan: no staff with email, skipping alert")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Stock alert — %d product(s) outside thresholds:\n\n", len(flagged))
	for _, f := range flagged {
		state := f.Product.StockState(f.TotalStock)
		fmt.Fprintf(&b, "  [%-12s] %s (%s): %d %s on hand, min %d",
			state, f.Product.Name, f.Product.Code, f.TotalStock, f.Product.Unit, f.Product.MinStock)
		if f.Product.MaxStock > 0 {
			fmt.Fprintf(&b, ", max %d", f.Product.MaxStock)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n%s", s.cfg.ClinicName)

	if err := s.dispatcher.EnqueueEmail(ctx, worker.EmailJobPayload{
		To:      to,
		Subject: fmt.Sprintf("Stock alert: %d product(s) need attention", len(flagged)),
		Body:    b.String(),
	}); err != nil {
		log.Error().Err(err).Msg("stock scan: enqueue failed")
		return
	}
	log.Info().Int("flagged", len(flagged)).Msg("stock scan: alert queued")
}

// runExpiryScan queues an alert email to staff listing active lots that are
// already expired or expire within the warning window.
func (s *Scheduler) runExpiryScan() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	now := time.Now()
	cutoff := now.AddDate(0, 0, model.ExpiryWindowDays)
	lots, err := s.lotRepo.ListExpiringBefore(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("expiry scan: query failed")
		return
	}
	if len(lots) == 0 {
		log.Info().Msg("expiry scan: no expiring lots")
		return
	}

	to, err := s.staffEmails(ctx)
	if err != nil {
		log.Error().Err(err).Msg("expiry scan: list staff failed")
		return
	}
	if len(to) == 0 {
		log.Warn().Msg("expiry scan: no staff with email, skipping alert")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Expiry alert — %d lot(s) expired or expiring within %d days:\n\n", len(lots), model.ExpiryWindowDays)
	for i := range lots {
		lot := &lots[i]
		productName := "unknown product"
		if lot.Product != nil {
			productName = fmt.Sprintf("%s (%s)", lot.Product.Name, lot.Product.Code)
		}
		days := lot.DaysToExpiry(now)
		status := fmt.Sprintf("expires in %d day(s)", days)
		if days < 0 {
			status = fmt.Sprintf("EXPIRED %d day(s) ago", -days)
		}
		fmt.Fprintf(&b, "  %s lot %s: %d unit(s), %s (%s)\n",
			productName, lot.LotNumber, lot.CurrentStock, status, lot.ExpiresAt.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "\n%s", s.cfg.ClinicName)

	if err := s.dispatcher.EnqueueEmail(ctx, worker.EmailJobPayload{
		To:      to,
		Subject: fmt.Sprintf("Expiry alert: %d lot(s) expiring soon", len(lots)),
		Body:    b.String(),
	}); err != nil {
		log.Error().Err(err).Msg("expiry scan: enqueue failed")
		return
	}
	log.Info().Int("lots", len(lots)).Msg("expiry scan: alert queued")
}

// runMonthlyValuation queues the inventory valuation report job. The report
// worker renders the PDF and mails it to the admins.
func (s *Scheduler) runMonthlyValuation() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.dispatcher.EnqueueReport(ctx, worker.ReportJobPayload{AsOf: time.Now()}); err != nil {
		log.Error().Err(err).Msg("monthly valuation: enqueue failed")
		return
	}
	log.Info().Msg("monthly valuation: report job queued")
}

// staffEmails collects admin and receptionist addresses for inventory alerts.
func (s *Scheduler) staffEmails(ctx context.Context) ([]string, error) {
	var to []string
	for _, role := range []string{model.RoleAdmin, model.RoleReceptionist} {
		users, err := s.userRepo.ListActiveByRole(ctx, role)
		if err != nil {
			return nil, err
		}
		for i := range users {
			if users[i].Email != "" {
				to = append(to, users[i].Email)
			}
		}
	}
	return to, nil
}
