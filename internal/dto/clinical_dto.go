package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateEpisodeRequest struct {
	AppointmentID string `json:"appointment_id" validate:"required,uuid"`
}

type UpdateEpisodeRequest struct {
	Anamnesis            *string    `json:"anamnesis"`
	PhysicalExam         *string    `json:"physical_exam"`
	PresumptiveDiagnosis *string    `json:"presumptive_diagnosis"`
	DefinitiveDiagnosis  *string    `json:"definitive_diagnosis"`
	TreatmentPlan        *string    `json:"treatment_plan"`
	Medications          *string    `json:"medications"`
	Procedures           *string    `json:"procedures"`
	Prognosis            *string    `json:"prognosis" validate:"omitempty,oneof=excellent good guarded grave"`
	Instructions         *string    `json:"instructions"`
	NextReviewAt         *time.Time `json:"next_review_at"`
}

type RecordVitalsRequest struct {
	Weight             decimal.Decimal  `json:"weight"               validate:"required"`
	Temperature        *decimal.Decimal `json:"temperature"`
	HeartRate          *int             `json:"heart_rate"           validate:"omitempty,min=10,max=300"`
	RespiratoryRate    *int             `json:"respiratory_rate"     validate:"omitempty,min=5,max=100"`
	SystolicBP         *int             `json:"systolic_bp"          validate:"omitempty,min=20,max=400"`
	DiastolicBP        *int             `json:"diastolic_bp"         validate:"omitempty,min=10,max=300"`
	CapillaryRefill    *decimal.Decimal `json:"capillary_refill"`
	BodyConditionScore *int             `json:"body_condition_score" validate:"omitempty,min=1,max=9"`
	Notes              string           `json:"notes"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type EpisodeFilter struct {
	PatientID string     `form:"patient_id" validate:"omitempty,uuid"`
	VetID     string     `form:"vet_id"     validate:"omitempty,uuid"`
	Closed    *bool      `form:"closed"`
	DateFrom  *time.Time `form:"date_from"  time_format:"2006-01-02"`
	DateTo    *time.Time `form:"date_to"    time_format:"2006-01-02"`
	Page      int        `form:"page,default=1"   validate:"min=1"`
	Limit     int        `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EpisodeResponse struct {
	ID                   string               `json:"id"`
	AppointmentID        string               `json:"appointment_id"`
	PatientID            string               `json:"patient_id"`
	PatientName          string               `json:"patient_name,omitempty"`
	VetID                string               `json:"vet_id"`
	VetName              string               `json:"vet_name,omitempty"`
	Motive               string               `json:"motive"`
	Anamnesis            string               `json:"anamnesis"`
	PhysicalExam         string               `json:"physical_exam"`
	PresumptiveDiagnosis string               `json:"presumptive_diagnosis"`
	DefinitiveDiagnosis  string               `json:"definitive_diagnosis"`
	TreatmentPlan        string               `json:"treatment_plan"`
	Medications          string               `json:"medications"`
	Procedures           string               `json:"procedures"`
	Prognosis            string               `json:"prognosis"`
	Instructions         string               `json:"instructions"`
	NextReviewAt         *time.Time           `json:"next_review_at"`
	Closed               bool                 `json:"closed"`
	Vitals               []VitalSignsResponse `json:"vitals,omitempty"`
	Attachments          []AttachmentResponse `json:"attachments,omitempty"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

type VitalSignsResponse struct {
	ID                 string           `json:"id"`
	EpisodeID          string           `json:"episode_id"`
	Weight             decimal.Decimal  `json:"weight"`
	Temperature        *decimal.Decimal `json:"temperature"`
	HeartRate          *int             `json:"heart_rate"`
	RespiratoryRate    *int             `json:"respiratory_rate"`
	SystolicBP         *int             `json:"systolic_bp"`
	DiastolicBP        *int             `json:"diastolic_bp"`
	CapillaryRefill    *decimal.Decimal `json:"capillary_refill"`
	BodyConditionScore *int             `json:"body_condition_score"`
	Notes              string           `json:"notes"`
	RecordedByID       *string          `json:"recorded_by_id"`
	RecordedAt         time.Time        `json:"recorded_at"`
}

type AttachmentResponse struct {
	ID           string    `json:"id"`
	EpisodeID    string    `json:"episode_id"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	FilePath     string    `json:"file_path"`
	UploadedByID *string   `json:"uploaded_by_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type EpisodeListResponse struct {
	Data       []EpisodeResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}
