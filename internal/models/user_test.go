package models_test

import (
	"testing"

	"claimflow/backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUserBeforeCreate_GeneratesUUID verifies that the BeforeCreate hook generates a valid UUID.
func TestUserBeforeCreate_GeneratesUUID(t *testing.T) {
	// Arrange
	user := &models.User{
		Username: "r.kowalski",
		Role:     models.RoleReviewer,
	}

	assert.Empty(t, user.ID, "User ID should be empty before BeforeCreate")

	// Act
	err := user.BeforeCreate(nil)

	// Assert
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID, "User ID must be populated after BeforeCreate")
	_, parseErr := uuid.Parse(user.ID)
	assert.NoError(t, parseErr, "User ID must be a valid UUID string")
}

// TestUserPassword_RoundTrip verifies hashing and verification.
func TestUserPassword_RoundTrip(t *testing.T) {
	// Arrange
	user := &models.User{Username: "a.claimant", Role: models.RoleClaimant}

	// Act
	err := user.SetPassword("correct horse battery staple")

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotContains(t, user.PasswordHash, "correct horse", "hash must not embed the plaintext")
	assert.True(t, user.CheckPassword("correct horse battery staple"))
	assert.False(t, user.CheckPassword("wrong password"))
	assert.False(t, user.CheckPassword(""))
}
