package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateUserRequest struct {
	Username      string     `json:"username"       validate:"required,min=1,max=150"`
	Password      string     `json:"password"       validate:"required,min=8"`
	Email         string     `json:"email"          validate:"required,email"`
	FirstName     string     `json:"first_name"     validate:"required,min=1,max=100"`
	LastName      string     `json:"last_name"      validate:"omitempty,max=100"`
	Role          string     `json:"role"           validate:"required,oneof=guardian vet receptionist admin"`
	Phone         string     `json:"phone"          validate:"omitempty,max=30"`
	Address       string     `json:"address"        validate:"omitempty,max=255"`
	BirthDate     *time.Time `json:"birth_date"`
	LicenseNumber *string    `json:"license_number" validate:"omitempty,max=50"`
	Specialty     string     `json:"specialty"      validate:"omitempty,max=100"`
}

type UpdateUserRequest struct {
	Email         *string    `json:"email"          validate:"omitempty,email"`
	FirstName     *string    `json:"first_name"     validate:"omitempty,min=1,max=100"`
	LastName      *string    `json:"last_name"      validate:"omitempty,max=100"`
	Role          *string    `json:"role"           validate:"omitempty,oneof=guardian vet receptionist admin"`
	Phone         *string    `json:"phone"          validate:"omitempty,max=30"`
	Address       *string    `json:"address"        validate:"omitempty,max=255"`
	BirthDate     *time.Time `json:"birth_date"`
	LicenseNumber *string    `json:"license_number" validate:"omitempty,max=50"`
	Specialty     *string    `json:"specialty"      validate:"omitempty,max=100"`
	Password      *string    `json:"password"       validate:"omitempty,min=8"`
}

// UpdateProfileRequest is what a user may change about themselves. Role and
// license fields stay admin-only.
type UpdateProfileRequest struct {
	Email     *string    `json:"email"      validate:"omitempty,email"`
	FirstName *string    `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string    `json:"last_name"  validate:"omitempty,max=100"`
	Phone     *string    `json:"phone"      validate:"omitempty,max=30"`
	Address   *string    `json:"address"    validate:"omitempty,max=255"`
	BirthDate *time.Time `json:"birth_date"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type UserFilter struct {
	Role   string `form:"role"   validate:"omitempty,oneof=guardian vet receptionist admin"`
	Search string `form:"search"`
	Active *bool  `form:"active"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	FullName      string     `json:"full_name"`
	Role          string     `json:"role"`
	Phone         string     `json:"phone"`
	Address       string     `json:"address"`
	BirthDate     *time.Time `json:"birth_date"`
	LicenseNumber *string    `json:"license_number"`
	Specialty     string     `json:"specialty"`
	PhotoPath     string     `json:"photo_path,omitempty"`
	Active        bool       `json:"active"`
}

type UserListResponse struct {
	Data       []UserResponse `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}
