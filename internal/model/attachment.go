package model

import (
	"time"

	"github.com/google/uuid"
)

// Attachment types.
const (
	AttachmentXRay       = "xray"
	AttachmentUltrasound = "ultrasound"
	AttachmentLab        = "lab"
	AttachmentPhoto      = "photo"
	AttachmentDocument   = "document"
	AttachmentOther      = "other"
)

// Attachment is a file (radiography, lab result, photo, ...) linked to a
// clinical episode. The file itself lives on disk under the upload storage
// path; FilePath is relative to it.
type Attachment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EpisodeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type      string    `gorm:"type:varchar(20);not null;default:'document'"`
	Title     string    `gorm:"not null"`
	Description string
	FilePath  string `gorm:"not null"`

	UploadedByID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time

	Episode    *ClinicalEpisode `gorm:"foreignKey:EpisodeID"`
	UploadedBy *User            `gorm:"foreignKey:UploadedByID"`
}
