package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rambopet/internal/model"
	"rambopet/internal/service"
	"rambopet/internal/worker"

	"github.com/rs/zerolog/log"
)

const jobTimeout = 2 * time.Minute

// runReminders emails every guardian whose patient has a booked or confirmed
// appointment tomorrow and has not been reminded yet. Sends are synchronous
// and per-recipient: the reminder flag is only persisted after the relay
// accepted the message, so a failed send is retried on the next run.
func (s *Scheduler) runReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, 1)

	appointments, err := s.apptRepo.FindPendingReminders(ctx, from, to)
	if err != nil {
		log.Error().Err(err).Msg("reminders: query failed")
		return
	}

	sent, failed := 0, 0
	for i := range appointments {
		a := &appointments[i]
		if a.Patient == nil || a.Patient.Guardian == nil || a.Patient.Guardian.Email == "" {
			continue
		}

		vetName := "our veterinary team"
		if a.Vet != nil {
			vetName = a.Vet.FullName()
		}
		body := fmt.Sprintf(
			"Hello %s,\n\nThis is a reminder that %s has an appointment tomorrow, %s at %s, with %s.\n\nReason: %s\n\nIf you need to reschedule, please contact the clinic.\n\n%s",
			a.Patient.Guardian.FullName(),
			a.Patient.Name,
			a.ScheduledAt.Format("Monday 02 January"),
			a.ScheduledAt.Format("15:04"),
			vetName,
			a.Reason,
			s.cfg.ClinicName,
		)
		subject := fmt.Sprintf("Appointment reminder for %s", a.Patient.Name)

		if err := s.mailer.Send([]string{a.Patient.Guardian.Email}, subject, body); err != nil {
			failed++
			log.Error().Err(err).Str("appointment_id", a.ID.String()).Msg("reminders: send failed")
			continue
		}

		when := time.Now()
		a.ReminderSent = true
		a.ReminderSentAt = &when
		if err := s.apptRepo.Update(ctx, a); err != nil {
			log.Error().Err(err).Str("appointment_id", a.ID.String()).Msg("reminders: flag update failed")
			continue
		}
		sent++
	}

	log.Info().Int("sent", sent).Int("failed", failed).Msg("reminders: run finished")
}

// runNoShowSweep marks booked or confirmed appointments as no_show once they
// are more than the grace period past their scheduled time.
func (s *Scheduler) runNoShowSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	cutoff := time.Now().Add(-time.Duration(service.NoShowGraceMinutes) * time.Minute)
	overdue, err := s.apptRepo.FindOverdue(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("no-show sweep: query failed")
		return
	}

	swept := 0
	for i := range overdue {
		a := &overdue[i]
		a.Status = model.AppointmentNoShow
		if err := s.apptRepo.Update(ctx, a); err != nil {
			log.Error().Err(err).Str("appointment_id", a.ID.String()).Msg("no-show sweep: update failed")
			continue
		}
		swept++
	}

	if swept > 0 {
		log.Info().Int("swept", swept).Msg("no-show sweep: appointments marked")
	}
}

// runVetSchedules queues one agenda email per active vet listing the vet's
// appointments for today. Vets with an empty day get no email.
func (s *Scheduler) runVetSchedules() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	vets, err := s.userRepo.ListActiveByRole(ctx, model.RoleVet)
	if err != nil {
		log.Error().Err(err).Msg("vet schedules: query failed")
		return
	}

	today := time.Now()
	queued := 0
	for i := range vets {
		vet := &vets[i]
		if vet.Email == "" {
			continue
		}

		appointments, err := s.apptRepo.FindByVetAndDay(ctx, vet.ID, today)
		if err != nil {
			log.Error().Err(err).Str("vet_id", vet.ID.String()).Msg("vet schedules: query failed")
			continue
		}
		if len(appointments) == 0 {
			continue
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Good morning %s,\n\nYour schedule for %s:\n\n", vet.FullName(), today.Format("Monday 02 January"))
		for j := range appointments {
			a := &appointments[j]
			patientName := "unknown patient"
			if a.Patient != nil {
				patientName = a.Patient.Name
			}
			fmt.Fprintf(&b, "  %s  %-12s %s (%s)\n", a.ScheduledAt.Format("15:04"), a.Type, patientName, a.Reason)
		}
		fmt.Fprintf(&b, "\n%s", s.cfg.ClinicName)

		if err := s.dispatcher.EnqueueEmail(ctx, worker.EmailJobPayload{
			To:      []string{vet.Email},
			Subject: fmt.Sprintf("Your schedule for %s", today.Format("02 Jan")),
			Body:    b.String(),
		}); err != nil {
			log.Error().Err(err).Str("vet_id", vet.ID.String()).Msg("vet schedules: enqueue failed")
			continue
		}
		queued++
	}

	log.Info().Int("queued", queued).Msg("vet schedules: run finished")
}
