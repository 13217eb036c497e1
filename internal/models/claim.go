package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // Needed for pq.StringArray
	"gorm.io/gorm"
)

// ClaimStatus is the closed set of workflow states a claim can be in.
// Invalid values are unrepresentable in code paths that go through the
// workflow package; the type keeps raw strings out of the model.
type ClaimStatus string

const (
	StatusPending         ClaimStatus = "Pending"
	StatusUnderReview     ClaimStatus = "Under Review"
	StatusPendingApproval ClaimStatus = "Pending Approval"
	StatusApproved        ClaimStatus = "Approved"
	StatusDenied          ClaimStatus = "Denied"
)

// Valid reports whether s is one of the five defined workflow states.
func (s ClaimStatus) Valid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusPendingApproval, StatusApproved, StatusDenied:
		return true
	}
	return false
}

// Terminal reports whether no further transition is defined from s.
func (s ClaimStatus) Terminal() bool {
	return s == StatusApproved || s == StatusDenied
}

// Claim is the central entity tracked through the review workflow.
// Claims are never hard-deleted; DeletedAt keeps the audit history.
type Claim struct {
	// ID is the opaque unique identifier of the claim (UUID).
	ID string `gorm:"primaryKey" json:"id"`
	// ClaimantUserID is the user who submitted the claim.
	ClaimantUserID string `gorm:"type:text;not null;index" json:"claimant_user_id"`
	// ClaimTypeID references the claim_types table.
	ClaimTypeID string `gorm:"type:text;not null;index" json:"claim_type_id"`
	// IncidentDate is the date the claimed incident occurred.
	IncidentDate time.Time `gorm:"type:date;not null" json:"incident_date"`
	// Description is the claimant's free-text account of the incident.
	Description string `gorm:"type:text;not null" json:"description"`
	// Status is the claim's current workflow state.
	Status ClaimStatus `gorm:"type:varchar(50);not null;default:'Pending';index" json:"status"`
	// Tags are optional claimant-supplied labels for the claim.
	Tags pq.StringArray `gorm:"type:text[]" json:"tags,omitempty"`

	// AssignedReviewerID is nil until a checker assigns the claim.
	AssignedReviewerID *string `gorm:"index" json:"assigned_reviewer_id,omitempty"`
	// SubmittedForApprovalAt is set when the reviewer hands the claim on.
	SubmittedForApprovalAt *time.Time `json:"submitted_for_approval_at,omitempty"`
	// ReviewerNotes are written by the assigned reviewer on submission.
	ReviewerNotes *string `gorm:"type:text" json:"reviewer_notes,omitempty"`

	// FinalActionUserID is the checker who approved or denied the claim.
	FinalActionUserID *string `gorm:"index" json:"final_action_user_id,omitempty"`
	// FinalActionAt is when the terminal decision was recorded.
	FinalActionAt *time.Time `json:"final_action_at,omitempty"`
	// DenialReason is set only when the claim is denied.
	DenialReason *string `gorm:"type:text" json:"denial_reason,omitempty"`

	// SettlementAmount and SettlementDate are recorded post-approval.
	SettlementAmount *float64   `gorm:"type:decimal(10,2)" json:"settlement_amount,omitempty"`
	SettlementDate   *time.Time `gorm:"type:date" json:"settlement_date,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// ClaimType is the joined reference record, loaded on reads.
	ClaimType *ClaimType `gorm:"foreignKey:ClaimTypeID" json:"claim_type,omitempty"`
	// Documents are the attachments owned by this claim. They are kept
	// even if the claim itself is soft-deleted.
	Documents []Document `gorm:"foreignKey:ClaimID" json:"documents,omitempty"`
}

// BeforeCreate is a GORM hook that assigns a new UUID if the ID is not
// already set.
func (c *Claim) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
