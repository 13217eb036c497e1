package claims

import (
	"fmt"
	"path/filepath"
	"strings"

	"claimflow/backend/internal/config"
)

// validateFiles re-checks the upload constraints the handlers already
// enforce: per-file size cap, extension allow-list, and batch bounds.
// minFiles is 1 on the claimant path, 0 on the reviewer path.
func validateFiles(field string, files []Upload, minFiles, maxFiles int) map[string]string {
	fields := map[string]string{}
	if len(files) < minFiles {
		fields[field] = "at least one supporting document is required"
		return fields
	}
	if maxFiles > 0 && len(files) > maxFiles {
		fields[field] = fmt.Sprintf("no more than %d files may be uploaded", maxFiles)
		return fields
	}
	for _, f := range files {
		if f.Filename == "" {
			fields[field] = "uploaded file has no name"
			return fields
		}
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Filename)), ".")
		if !config.AllowedExtensions[ext] {
			fields[field] = fmt.Sprintf("file %q has a disallowed extension", f.Filename)
			return fields
		}
		if f.Size > config.MaxFileSize {
			fields[field] = fmt.Sprintf("file %q exceeds the %d byte limit", f.Filename, int64(config.MaxFileSize))
			return fields
		}
	}
	return fields
}

func (in *CreateClaimInput) validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(in.ClaimType) == "" {
		fields["claimType"] = "claim type is required"
	}
	if in.IncidentDate.IsZero() {
		fields["incident_date"] = "incident date is required"
	}
	if strings.TrimSpace(in.Description) == "" {
		fields["description"] = "description is required"
	} else if len(in.Description) > config.MaxDescriptionLength {
		fields["description"] = fmt.Sprintf("description exceeds %d characters", config.MaxDescriptionLength)
	}
	if len(in.Tags) > config.MaxTags {
		fields["tags"] = fmt.Sprintf("no more than %d tags are allowed", config.MaxTags)
	}
	for k, v := range validateFiles("documents", in.Files, config.MinClaimantFiles, 0) {
		fields[k] = v
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (in *SubmitForApprovalInput) validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Notes) == "" {
		fields["reviewer_notes"] = "reviewer notes are required"
	} else if len(in.Notes) > config.MaxNotesLength {
		fields["reviewer_notes"] = fmt.Sprintf("notes exceed %d characters", config.MaxNotesLength)
	}
	for k, v := range validateFiles("reviewer_documents", in.Files, 0, config.MaxReviewerFiles) {
		fields[k] = v
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
