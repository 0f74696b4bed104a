package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VitalSigns is an immutable point-in-time measurement recorded during a
// clinical episode. Rows are only ever created, never updated or deleted.
type VitalSigns struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EpisodeID uuid.UUID `gorm:"type:uuid;not null;index"`

	// Weight in kg — the only mandatory measurement.
	Weight decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	// Temperature in °C, plausible range 30.0–45.0
	Temperature *decimal.Decimal `gorm:"type:decimal(4,1)"`
	// HeartRate in beats per minute, 10–300
	HeartRate *int
	// RespiratoryRate in breaths per minute, 5–100
	RespiratoryRate *int
	SystolicBP      *int
	DiastolicBP     *int
	// CapillaryRefill in seconds, 0.1–10.0
	CapillaryRefill *decimal.Decimal `gorm:"type:decimal(3,1)"`
	// BodyConditionScore on the 1–9 scale (5 is ideal)
	BodyConditionScore *int
	Notes              string

	RecordedByID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time

	Episode    *ClinicalEpisode `gorm:"foreignKey:EpisodeID"`
	RecordedBy *User            `gorm:"foreignKey:RecordedByID"`
}

// TableName overrides GORM's default pluralization (vital_signs → vital_signs).
func (VitalSigns) TableName() string { return "vital_signs" }
