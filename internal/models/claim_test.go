package models_test

import (
	"testing"
	"time"

	"claimflow/backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

// TestClaimBeforeCreate_GeneratesUUID verifies that the BeforeCreate hook generates a valid UUID.
func TestClaimBeforeCreate_GeneratesUUID(t *testing.T) {
	// Arrange
	claim := &models.Claim{
		ClaimantUserID: uuid.New().String(),
		ClaimTypeID:    uuid.New().String(),
		IncidentDate:   time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Description:    "burst pipe above the kitchen ceiling",
		Status:         models.StatusPending,
		Tags:           pq.StringArray{"water-damage", "kitchen"},
	}

	assert.Empty(t, claim.ID, "Claim ID should be empty before BeforeCreate")

	// Act - Call the hook directly (GORM would call this automatically)
	err := claim.BeforeCreate(nil) // nil *gorm.DB is acceptable for this hook

	// Assert
	assert.NoError(t, err, "BeforeCreate should not return an error")
	assert.NotEmpty(t, claim.ID, "Claim ID must be populated after BeforeCreate")

	parsedUUID, parseErr := uuid.Parse(claim.ID)
	assert.NoError(t, parseErr, "Claim ID must be a valid UUID string")
	assert.NotEqual(t, uuid.Nil, parsedUUID, "Generated UUID should not be nil UUID")
}

// TestClaimBeforeCreate_PreservesExistingID verifies that the hook doesn't overwrite an existing ID.
func TestClaimBeforeCreate_PreservesExistingID(t *testing.T) {
	// Arrange
	existingID := uuid.New().String()
	claim := &models.Claim{
		ID:             existingID,
		ClaimantUserID: uuid.New().String(),
		ClaimTypeID:    uuid.New().String(),
		Status:         models.StatusPending,
	}

	// Act
	err := claim.BeforeCreate(nil)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, existingID, claim.ID, "BeforeCreate should preserve existing ID")
}

// TestDocumentBeforeCreate_GeneratesUUID verifies the document hook.
func TestDocumentBeforeCreate_GeneratesUUID(t *testing.T) {
	// Arrange
	doc := &models.Document{
		ClaimID:          uuid.New().String(),
		UploadedByUserID: uuid.New().String(),
		OriginalFilename: "receipt.pdf",
		StoredFilename:   uuid.New().String() + ".pdf",
		FilePath:         "claims/2026/03",
		FileSize:         2048,
		MimeType:         "application/pdf",
	}

	// Act
	err := doc.BeforeCreate(nil)

	// Assert
	assert.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	_, parseErr := uuid.Parse(doc.ID)
	assert.NoError(t, parseErr, "Document ID must be a valid UUID string")
}

// TestClaimStatus_Valid verifies the closed set of workflow states.
func TestClaimStatus_Valid(t *testing.T) {
	valid := []models.ClaimStatus{
		models.StatusPending,
		models.StatusUnderReview,
		models.StatusPendingApproval,
		models.StatusApproved,
		models.StatusDenied,
	}
	for _, s := range valid {
		assert.True(t, s.Valid(), "%q should be a valid status", s)
	}

	assert.False(t, models.ClaimStatus("Reopened").Valid())
	assert.False(t, models.ClaimStatus("").Valid())
	assert.False(t, models.ClaimStatus("pending").Valid(), "status values are case sensitive")
}

// TestClaimStatus_Terminal verifies only the two decision states are terminal.
func TestClaimStatus_Terminal(t *testing.T) {
	assert.True(t, models.StatusApproved.Terminal())
	assert.True(t, models.StatusDenied.Terminal())
	assert.False(t, models.StatusPending.Terminal())
	assert.False(t, models.StatusUnderReview.Terminal())
	assert.False(t, models.StatusPendingApproval.Terminal())
}

// TestRole_Valid verifies the closed set of workflow roles.
func TestRole_Valid(t *testing.T) {
	assert.True(t, models.RoleClaimant.Valid())
	assert.True(t, models.RoleReviewer.Valid())
	assert.True(t, models.RoleChecker.Valid())
	assert.False(t, models.Role("admin").Valid())
	assert.False(t, models.Role("").Valid())
}
