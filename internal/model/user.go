package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles recognized by the system. Guardians own patients; vets attend
// appointments; receptionists and admins are clinic staff.
const (
	RoleGuardian     = "guardian"
	RoleVet          = "vet"
	RoleReceptionist = "receptionist"
	RoleAdmin        = "admin"
)

// StaffRoles lists every non-guardian role.
var StaffRoles = []string{RoleVet, RoleReceptionist, RoleAdmin}

// User stores system users with role-based access.
// Rol: "guardian" | "vet" | "receptionist" | "admin"
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Email        string    `gorm:"index;not null"`
	PasswordHash string    `gorm:"not null"`
	FirstName    string    `gorm:"not null"`
	LastName     string
	Role         string `gorm:"type:varchar(20);not null;index:idx_users_role_active"`
	Phone        string
	Address      string
	BirthDate    *time.Time `gorm:"type:date"`
	// LicenseNumber and Specialty are only meaningful for vets; they are
	// cleared on save for any other role.
	LicenseNumber *string `gorm:"uniqueIndex"`
	Specialty     string
	PhotoPath     string
	Active        bool `gorm:"not null;default:true;index:idx_users_role_active"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullName joins first and last name, falling back to the username.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}

func (u *User) IsVet() bool      { return u.Role == RoleVet }
func (u *User) IsGuardian() bool { return u.Role == RoleGuardian }

// IsStaff reports whether the user is clinic personnel (vet, receptionist or admin).
func (u *User) IsStaff() bool {
	return u.Role == RoleVet || u.Role == RoleReceptionist || u.Role == RoleAdmin
}

// NormalizeLicense blanks the professional fields for non-vets.
func (u *User) NormalizeLicense() {
	if u.Role != RoleVet {
		u.LicenseNumber = nil
		u.Specialty = ""
	}
}
