package workflow

import "claimflow/backend/internal/models"

// Actor is the authenticated caller of a workflow operation. It is
// always passed in explicitly; the service never reads identity from
// ambient state.
type Actor struct {
	ID   string
	Role models.Role
}

// Allow is the authorization gate: it reports whether the actor may
// request the given action on the given claim. For ActionCreate the
// claim is not yet persisted and may be nil.
//
// Checkers act on any claim in the right state; reviewers are scoped to
// the claim they are assigned to. A scoping mismatch is reported to the
// caller as "not found" rather than "forbidden" so that claim existence
// does not leak to unassigned reviewers.
func Allow(actor Actor, claim *models.Claim, action Action) bool {
	switch action {
	case ActionCreate:
		return actor.Role == models.RoleClaimant
	case ActionAssign, ActionApprove, ActionDeny:
		return actor.Role == models.RoleChecker
	case ActionSubmitForApproval:
		return actor.Role == models.RoleReviewer && assignedTo(claim, actor.ID)
	}
	return false
}

// CanRead reports whether the actor may see the claim at all. Claimants
// see their own claims, reviewers the ones assigned to them, checkers
// everything.
func CanRead(actor Actor, claim *models.Claim) bool {
	if claim == nil {
		return false
	}
	switch actor.Role {
	case models.RoleClaimant:
		return claim.ClaimantUserID == actor.ID
	case models.RoleReviewer:
		return assignedTo(claim, actor.ID)
	case models.RoleChecker:
		return true
	}
	return false
}

func assignedTo(claim *models.Claim, reviewerID string) bool {
	return claim != nil && claim.AssignedReviewerID != nil && *claim.AssignedReviewerID == reviewerID
}
