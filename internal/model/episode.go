package model

import (
	"time"

	"github.com/google/uuid"
)

// Prognosis values for a clinical episode.
const (
	PrognosisExcellent = "excellent"
	PrognosisGood      = "good"
	PrognosisGuarded   = "guarded"
	PrognosisGrave     = "grave"
)

// ClinicalEpisode documents the medical attention given during one
// appointment: exam findings, diagnoses, treatment and follow-up. There is at
// most one episode per appointment.
type ClinicalEpisode struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AppointmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	PatientID     uuid.UUID `gorm:"type:uuid;not null;index"`
	VetID         uuid.UUID `gorm:"type:uuid;not null;index"`

	Motive               string `gorm:"not null"`
	Anamnesis            string
	PhysicalExam         string
	PresumptiveDiagnosis string
	DefinitiveDiagnosis  string
	TreatmentPlan        string
	Medications          string
	Procedures           string
	Prognosis            string `gorm:"type:varchar(20);not null;default:'good'"`
	// Instructions for home care, addressed to the guardian.
	Instructions string
	NextReviewAt *time.Time `gorm:"type:date"`

	Closed    bool `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Appointment *Appointment `gorm:"foreignKey:AppointmentID"`
	Patient     *Patient     `gorm:"foreignKey:PatientID"`
	Vet         *User        `gorm:"foreignKey:VetID"`
}
