package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateAppointmentRequest struct {
	PatientID       string  `json:"patient_id"       validate:"required,uuid"`
	VetID           *string `json:"vet_id"           validate:"omitempty,uuid"`
	ScheduledAt     time.Time `json:"scheduled_at"   validate:"required"`
	DurationMinutes int     `json:"duration_minutes" validate:"omitempty,min=5,max=240"`
	Type            string  `json:"type"             validate:"omitempty,oneof=general vaccination surgery emergency checkup deworming other"`
	Reason          string  `json:"reason"           validate:"required,min=3,max=500"`
	Notes           string  `json:"notes"`
}

type UpdateAppointmentRequest struct {
	VetID           *string    `json:"vet_id"           validate:"omitempty,uuid"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	DurationMinutes *int       `json:"duration_minutes" validate:"omitempty,min=5,max=240"`
	Type            *string    `json:"type"             validate:"omitempty,oneof=general vaccination surgery emergency checkup deworming other"`
	Reason          *string    `json:"reason"           validate:"omitempty,min=3,max=500"`
	Notes           *string    `json:"notes"`
	InternalNotes   *string    `json:"internal_notes"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type AppointmentFilter struct {
	PatientID string     `form:"patient_id" validate:"omitempty,uuid"`
	VetID     string     `form:"vet_id"     validate:"omitempty,uuid"`
	Status    string     `form:"status"     validate:"omitempty,oneof=booked confirmed in_progress completed cancelled no_show"`
	Type      string     `form:"type"`
	DateFrom  *time.Time `form:"date_from"  time_format:"2006-01-02"`
	DateTo    *time.Time `form:"date_to"    time_format:"2006-01-02"`
	Page      int        `form:"page,default=1"   validate:"min=1"`
	Limit     int        `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AppointmentResponse struct {
	ID              string     `json:"id"`
	PatientID       string     `json:"patient_id"`
	PatientName     string     `json:"patient_name,omitempty"`
	GuardianID      string     `json:"guardian_id"`
	VetID           *string    `json:"vet_id"`
	VetName         string     `json:"vet_name,omitempty"`
	ScheduledAt     time.Time  `json:"scheduled_at"`
	DurationMinutes int        `json:"duration_minutes"`
	Type            string     `json:"type"`
	Status          string     `json:"status"`
	Reason          string     `json:"reason"`
	Notes           string     `json:"notes"`
	InternalNotes   string     `json:"internal_notes,omitempty"`
	ReminderSent    bool       `json:"reminder_sent"`
	ConfirmedAt     *time.Time `json:"confirmed_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	CancelledAt     *time.Time `json:"cancelled_at"`
	CancelReason    string     `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type AppointmentListResponse struct {
	Data       []AppointmentResponse `json:"data"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"total_pages"`
}
