// Package workflow implements the claim state machine and the
// role/assignment authorization gate. Everything here is pure: the
// functions map (current record, requested action, parameters) to
// either the field mutations to persist or an error, and perform no
// I/O, which keeps them unit-testable in isolation.
package workflow

import (
	"fmt"
	"time"

	"claimflow/backend/internal/models"
)

// Action names a defined workflow transition.
type Action string

const (
	ActionCreate            Action = "create"
	ActionAssign            Action = "assign"
	ActionSubmitForApproval Action = "submit-for-approval"
	ActionApprove           Action = "approve"
	ActionDeny              Action = "deny"
)

// requiredStatus is the transition table's precondition column: the
// status a claim must currently hold for the action to be legal.
// ActionCreate is absent because it starts from no record at all.
var requiredStatus = map[Action]models.ClaimStatus{
	ActionAssign:            models.StatusPending,
	ActionSubmitForApproval: models.StatusUnderReview,
	ActionApprove:           models.StatusPendingApproval,
	ActionDeny:              models.StatusPendingApproval,
}

// InvalidTransitionError reports a request whose precondition on the
// claim's current status does not hold. Calling a terminal action twice
// fails the same way both times: nothing is double-applied.
type InvalidTransitionError struct {
	Action   Action
	Required models.ClaimStatus
	Actual   models.ClaimStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("claim must be %q to %s, current status: %q", e.Required, e.Action, e.Actual)
}

// Request carries the parameters of a requested transition.
type Request struct {
	Action  Action
	ActorID string

	// ReviewerID is the assignment target (ActionAssign only).
	ReviewerID string
	// Notes are the reviewer's notes (ActionSubmitForApproval only).
	Notes string
	// DenialReason is the checker's optional reason (ActionDeny only).
	DenialReason *string
}

// Update holds the claim field mutations a legal transition produces.
// A zero pointer means "leave the column alone" except where a clear
// flag says otherwise.
type Update struct {
	Status                 models.ClaimStatus
	AssignedReviewerID     *string
	ReviewerNotes          *string
	SubmittedForApprovalAt *time.Time
	FinalActionUserID      *string
	FinalActionAt          *time.Time
	DenialReason           *string
	// ClearDenialReason forces denial_reason to NULL (ActionApprove).
	ClearDenialReason bool
}

// Changes renders the update as a column map for the repository layer.
func (u *Update) Changes() map[string]interface{} {
	changes := map[string]interface{}{"status": u.Status}
	if u.AssignedReviewerID != nil {
		changes["assigned_reviewer_id"] = *u.AssignedReviewerID
	}
	if u.ReviewerNotes != nil {
		changes["reviewer_notes"] = *u.ReviewerNotes
	}
	if u.SubmittedForApprovalAt != nil {
		changes["submitted_for_approval_at"] = *u.SubmittedForApprovalAt
	}
	if u.FinalActionUserID != nil {
		changes["final_action_user_id"] = *u.FinalActionUserID
	}
	if u.FinalActionAt != nil {
		changes["final_action_at"] = *u.FinalActionAt
	}
	if u.DenialReason != nil {
		changes["denial_reason"] = *u.DenialReason
	} else if u.ClearDenialReason {
		changes["denial_reason"] = nil
	}
	return changes
}

// Apply validates that the requested action is legal from the claim's
// current status and computes the resulting field mutations. The claim
// itself is not modified. now is injected so callers control the clock.
func Apply(claim *models.Claim, req Request, now time.Time) (*Update, error) {
	required, ok := requiredStatus[req.Action]
	if !ok {
		return nil, fmt.Errorf("unknown workflow action %q", req.Action)
	}
	if claim.Status != required {
		return nil, &InvalidTransitionError{Action: req.Action, Required: required, Actual: claim.Status}
	}

	switch req.Action {
	case ActionAssign:
		return &Update{
			Status:             models.StatusUnderReview,
			AssignedReviewerID: &req.ReviewerID,
		}, nil

	case ActionSubmitForApproval:
		return &Update{
			Status:                 models.StatusPendingApproval,
			ReviewerNotes:          &req.Notes,
			SubmittedForApprovalAt: &now,
		}, nil

	case ActionApprove:
		return &Update{
			Status:            models.StatusApproved,
			FinalActionUserID: &req.ActorID,
			FinalActionAt:     &now,
			ClearDenialReason: true,
		}, nil

	case ActionDeny:
		return &Update{
			Status:            models.StatusDenied,
			FinalActionUserID: &req.ActorID,
			FinalActionAt:     &now,
			DenialReason:      req.DenialReason,
		}, nil
	}
	return nil, fmt.Errorf("unknown workflow action %q", req.Action)
}
