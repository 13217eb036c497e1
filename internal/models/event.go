package models

import "time"

// ClaimEvent is the message broadcast to live feed subscribers after a
// workflow transition commits. It is published to Redis so every server
// instance can fan it out to its own websocket clients.
type ClaimEvent struct {
	ClaimID string      `json:"claim_id"`
	Action  string      `json:"action"`
	Status  ClaimStatus `json:"status"`
	ActorID string      `json:"actor_id"`
	// ClaimantUserID and AssignedReviewerID let the hub scope delivery:
	// checkers see every event, claimants and reviewers only events for
	// their own claims.
	ClaimantUserID     string    `json:"claimant_user_id"`
	AssignedReviewerID string    `json:"assigned_reviewer_id,omitempty"`
	OccurredAt         time.Time `json:"occurred_at"`
}

// ClaimFilter narrows ListClaims queries. Zero-value fields are not
// applied.
type ClaimFilter struct {
	// Statuses restricts results to the given workflow states.
	Statuses []ClaimStatus
	// ClaimantUserID restricts results to one claimant's claims.
	ClaimantUserID string
	// AssignedReviewerID restricts results to one reviewer's claims.
	AssignedReviewerID string
}
