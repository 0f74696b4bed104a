package model

import (
	"time"

	"github.com/google/uuid"
)

// Appointment lifecycle states. Completed, cancelled and no_show are terminal.
const (
	AppointmentBooked     = "booked"
	AppointmentConfirmed  = "confirmed"
	AppointmentInProgress = "in_progress"
	AppointmentCompleted  = "completed"
	AppointmentCancelled  = "cancelled"
	AppointmentNoShow     = "no_show"
)

// Appointment types.
const (
	AppointmentTypeGeneral     = "general"
	AppointmentTypeVaccination = "vaccination"
	AppointmentTypeSurgery     = "surgery"
	AppointmentTypeEmergency   = "emergency"
	AppointmentTypeCheckup     = "checkup"
	AppointmentTypeDeworming   = "deworming"
	AppointmentTypeOther       = "other"
)

// Appointment references a patient, its guardian and optionally an attending
// vet. The guardian must always equal the patient's guardian, and VetID may
// only reference a user with the vet role. Appointments are never hard-deleted.
type Appointment struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PatientID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_appointments_patient_status"`
	GuardianID uuid.UUID  `gorm:"type:uuid;not null;index"`
	VetID      *uuid.UUID `gorm:"type:uuid;index:idx_appointments_vet_time"`
	// ScheduledAt must be in the future at creation time only.
	ScheduledAt     time.Time `gorm:"not null;index:idx_appointments_vet_time;index:idx_appointments_time_status"`
	DurationMinutes int       `gorm:"not null;default:30"`
	Type            string    `gorm:"type:varchar(30);not null;default:'general'"`
	Status          string    `gorm:"type:varchar(15);not null;default:'booked';index:idx_appointments_patient_status;index:idx_appointments_time_status"`
	Reason          string    `gorm:"not null"`
	Notes           string
	// InternalNotes are visible to staff only.
	InternalNotes string

	ReminderSent   bool `gorm:"not null;default:false"`
	ReminderSentAt *time.Time
	ConfirmedAt    *time.Time
	CompletedAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string

	CreatedByID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Patient   *Patient `gorm:"foreignKey:PatientID"`
	Guardian  *User    `gorm:"foreignKey:GuardianID"`
	Vet       *User    `gorm:"foreignKey:VetID"`
	CreatedBy *User    `gorm:"foreignKey:CreatedByID"`
}

// EndsAt is the estimated end of the appointment.
func (a *Appointment) EndsAt() time.Time {
	return a.ScheduledAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// IsTerminal reports whether the appointment reached a final state.
func (a *Appointment) IsTerminal() bool {
	switch a.Status {
	case AppointmentCompleted, AppointmentCancelled, AppointmentNoShow:
		return true
	}
	return false
}

// CanCancel reports whether a cancellation is allowed from the current state.
func (a *Appointment) CanCancel() bool {
	return a.Status == AppointmentBooked || a.Status == AppointmentConfirmed
}
