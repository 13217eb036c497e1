package config

import "time"

const (
	// Uploads
	MaxFileSize      = 5 << 20 // 5 MiB per file
	MinClaimantFiles = 1
	MaxReviewerFiles = 3

	// Free-text limits
	MaxDescriptionLength = 5000
	MaxNotesLength       = 5000
	MaxTags              = 10

	// Storage layout under the upload root. Claimant and reviewer
	// uploads land in separate date-scoped directories.
	ClaimantUploadPrefix = "claims"
	ReviewerUploadPrefix = "reviewer_docs"
	UploadDateLayout     = "2006/01"

	// Reference-data cache
	ClaimTypeCacheTTL = 10 * time.Minute
)

// AllowedExtensions is the upload extension allow-list (lowercase,
// without the leading dot).
var AllowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"pdf":  true,
	"doc":  true,
	"docx": true,
}
