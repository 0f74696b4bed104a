package worker

// email_worker.go
// Processes notification email jobs from QueueEmail: staff stock alerts,
// expiry warnings and vet daily schedules. Guardian-facing reminder emails
// are NOT queued here; those are sent synchronously by the reminder job so
// the reminder flag is only set after a confirmed delivery.

import (
	"context"
	"encoding/json"
	"errors"

	"rambopet/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	To          []string `json:"to"`
	Subject     string   `json:"subject"`
	Body        string   `json:"body"`
	Attachments []string `json:"attachments,omitempty"`
}

// EmailWorker processes email jobs from QueueEmail.
type EmailWorker struct {
	mailer *infra.Mailer
}

func NewEmailWorker(mailer *infra.Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

// Process sends one notification email, with attachments when present.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil // malformed payloads are not retryable
	}
	if len(payload.To) == 0 {
		log.Warn().Msg("email_worker: no recipients — skipping")
		return nil
	}

	if err := w.mailer.Send(payload.To, payload.Subject, payload.Body, payload.Attachments...); err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			log.Warn().Str("subject", payload.Subject).Msg("email_worker: mail relay breaker open")
		} else {
			log.Error().Err(err).Str("subject", payload.Subject).Msg("email_worker: failed to send")
		}
		return err
	}
	log.Info().Strs("to", payload.To).Str("subject", payload.Subject).Msg("email_worker: sent")
	return nil
}
