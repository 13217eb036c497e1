package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is a binary attachment belonging to exactly one claim. The
// row is written in the same database transaction as the claim mutation
// that produced it, so every persisted row corresponds to exactly one
// stored blob.
type Document struct {
	// ID is the opaque unique identifier of the document (UUID).
	ID string `gorm:"primaryKey" json:"id"`
	// ClaimID is the owning claim.
	ClaimID string `gorm:"type:text;not null;index" json:"claim_id"`
	// UploadedByUserID is the claimant or reviewer who uploaded the file.
	UploadedByUserID string `gorm:"type:text;not null" json:"uploaded_by_user_id"`
	// OriginalFilename is the client-supplied name, kept for display.
	OriginalFilename string `gorm:"size:255;not null" json:"original_filename"`
	// StoredFilename is the generated, collision-resistant name on disk.
	StoredFilename string `gorm:"size:255;not null;uniqueIndex" json:"stored_filename"`
	// FilePath is the directory of the blob relative to the upload root.
	FilePath string `gorm:"size:255;not null" json:"file_path"`
	// FileSize is the blob size in bytes.
	FileSize int64 `gorm:"not null" json:"file_size"`
	// MimeType is the detected content type of the upload.
	MimeType string `gorm:"size:100" json:"mime_type"`
	// IsReviewDocument distinguishes reviewer-submitted artifacts from
	// the claimant's initial supporting documents.
	IsReviewDocument bool `gorm:"not null;default:false;index" json:"is_review_document"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate is a GORM hook that assigns a new UUID if the ID is not
// already set.
func (d *Document) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return
}
