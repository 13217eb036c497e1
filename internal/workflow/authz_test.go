package workflow_test

import (
	"testing"

	"claimflow/backend/internal/models"
	"claimflow/backend/internal/workflow"

	"github.com/stretchr/testify/assert"
)

func assignedClaim(claimantID, reviewerID string) *models.Claim {
	return &models.Claim{
		ID:                 "claim-1",
		ClaimantUserID:     claimantID,
		AssignedReviewerID: &reviewerID,
		Status:             models.StatusUnderReview,
	}
}

// TestAllow_RoleGating verifies which role may request which action.
func TestAllow_RoleGating(t *testing.T) {
	claim := assignedClaim("claimant-1", "reviewer-7")
	claimant := workflow.Actor{ID: "claimant-1", Role: models.RoleClaimant}
	reviewer := workflow.Actor{ID: "reviewer-7", Role: models.RoleReviewer}
	checker := workflow.Actor{ID: "checker-3", Role: models.RoleChecker}

	cases := []struct {
		name   string
		actor  workflow.Actor
		action workflow.Action
		want   bool
	}{
		{"claimant creates", claimant, workflow.ActionCreate, true},
		{"reviewer cannot create", reviewer, workflow.ActionCreate, false},
		{"checker cannot create", checker, workflow.ActionCreate, false},

		{"checker assigns", checker, workflow.ActionAssign, true},
		{"reviewer cannot assign", reviewer, workflow.ActionAssign, false},
		{"claimant cannot assign", claimant, workflow.ActionAssign, false},

		{"assigned reviewer submits", reviewer, workflow.ActionSubmitForApproval, true},
		{"checker cannot submit", checker, workflow.ActionSubmitForApproval, false},
		{"claimant cannot submit", claimant, workflow.ActionSubmitForApproval, false},

		{"checker approves", checker, workflow.ActionApprove, true},
		{"reviewer cannot approve", reviewer, workflow.ActionApprove, false},
		{"checker denies", checker, workflow.ActionDeny, true},
		{"claimant cannot deny", claimant, workflow.ActionDeny, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, workflow.Allow(tc.actor, claim, tc.action))
		})
	}
}

// TestAllow_SubmitScopedToAssignedReviewer verifies that a reviewer who
// is not the claim's assignee may not submit it, even with the right role.
func TestAllow_SubmitScopedToAssignedReviewer(t *testing.T) {
	claim := assignedClaim("claimant-1", "reviewer-7")
	other := workflow.Actor{ID: "reviewer-9", Role: models.RoleReviewer}

	assert.False(t, workflow.Allow(other, claim, workflow.ActionSubmitForApproval))
}

// TestAllow_SubmitUnassignedClaim verifies no reviewer may submit a
// claim that has no assignee yet.
func TestAllow_SubmitUnassignedClaim(t *testing.T) {
	claim := &models.Claim{ID: "claim-1", ClaimantUserID: "claimant-1", Status: models.StatusPending}
	reviewer := workflow.Actor{ID: "reviewer-7", Role: models.RoleReviewer}

	assert.False(t, workflow.Allow(reviewer, claim, workflow.ActionSubmitForApproval))
}

// TestCanRead verifies read visibility per role.
func TestCanRead(t *testing.T) {
	claim := assignedClaim("claimant-1", "reviewer-7")

	cases := []struct {
		name  string
		actor workflow.Actor
		want  bool
	}{
		{"owning claimant", workflow.Actor{ID: "claimant-1", Role: models.RoleClaimant}, true},
		{"other claimant", workflow.Actor{ID: "claimant-2", Role: models.RoleClaimant}, false},
		{"assigned reviewer", workflow.Actor{ID: "reviewer-7", Role: models.RoleReviewer}, true},
		{"unassigned reviewer", workflow.Actor{ID: "reviewer-9", Role: models.RoleReviewer}, false},
		{"any checker", workflow.Actor{ID: "checker-3", Role: models.RoleChecker}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, workflow.CanRead(tc.actor, claim))
		})
	}
}

// TestCanRead_NilClaim verifies a missing claim is never readable.
func TestCanRead_NilClaim(t *testing.T) {
	checker := workflow.Actor{ID: "checker-3", Role: models.RoleChecker}

	assert.False(t, workflow.CanRead(checker, nil))
}
