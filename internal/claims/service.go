// Package claims implements the claim workflow service: one operation
// per use case, each composing the authorization gate, the state
// machine, and the document attachment coordinator inside a single
// database unit of work. Claims are only ever mutated through the named
// transitions; there is no generic update or delete.
package claims

import (
	"context"
	"errors"
	"time"

	"claimflow/backend/internal/blobstore"
	"claimflow/backend/internal/models"
	"claimflow/backend/internal/storage"
	"claimflow/backend/internal/workflow"

	"go.uber.org/zap"
)

// CreateClaimInput carries the claimant's validated request fields.
type CreateClaimInput struct {
	ClaimType    string
	IncidentDate time.Time
	Description  string
	Tags         []string
	Files        []Upload
}

// SubmitForApprovalInput carries the reviewer's notes and optional
// additional documents.
type SubmitForApprovalInput struct {
	Notes string
	Files []Upload
}

// Service is the claim workflow facade.
type Service struct {
	storage storage.Storage
	blobs   blobstore.BlobStore
	logger  *zap.Logger

	// now is injected so tests control timestamps.
	now func() time.Time
}

// NewService creates the workflow service.
func NewService(st storage.Storage, blobs blobstore.BlobStore, logger *zap.Logger) *Service {
	return &Service{
		storage: st,
		blobs:   blobs,
		logger:  logger.With(zap.String("service", "claims")),
		now:     time.Now,
	}
}

// CreateClaim inserts a new Pending claim together with its required
// supporting documents. On any failure no partial state survives: the
// claim row, the document rows, and the stored blobs all disappear.
func (s *Service) CreateClaim(ctx context.Context, actor workflow.Actor, in CreateClaimInput) (*models.Claim, error) {
	if !workflow.Allow(actor, nil, workflow.ActionCreate) {
		return nil, ErrForbidden
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	claimType, err := s.storage.FindClaimTypeByName(ctx, in.ClaimType)
	if err != nil {
		return nil, &TransactionError{Err: err}
	}
	if claimType == nil {
		return nil, &ValidationError{Fields: map[string]string{"claimType": "invalid claim type selected"}}
	}

	journal := newBlobJournal(s.blobs, s.logger)
	claim := &models.Claim{
		ClaimantUserID: actor.ID,
		ClaimTypeID:    claimType.ID,
		IncidentDate:   in.IncidentDate,
		Description:    in.Description,
		Status:         models.StatusPending,
		Tags:           in.Tags,
	}

	err = s.storage.InTransaction(ctx, func(tx storage.Storage) error {
		if err := tx.CreateClaim(ctx, claim); err != nil {
			return err
		}
		docs, err := s.attachDocuments(ctx, tx, journal, claim, actor.ID, in.Files, false)
		if err != nil {
			return err
		}
		claim.Documents = docs
		return nil
	})
	if err != nil {
		journal.discard()
		return nil, wrapServiceErr(err)
	}
	journal.release()

	claim.ClaimType = claimType
	s.publishEvent(ctx, claim, workflow.ActionCreate, actor)
	s.logger.Info("claim created",
		zap.String("claim_id", claim.ID),
		zap.String("claimant_id", actor.ID),
		zap.Int("documents", len(claim.Documents)))
	return claim, nil
}

// AssignClaim moves a Pending claim to Under Review and records the
// assigned reviewer. The target must exist and hold the reviewer role.
func (s *Service) AssignClaim(ctx context.Context, actor workflow.Actor, claimID, reviewerID string) (*models.Claim, error) {
	if !workflow.Allow(actor, nil, workflow.ActionAssign) {
		return nil, ErrForbidden
	}

	reviewer, err := s.storage.FindUser(ctx, reviewerID)
	if err != nil {
		return nil, &TransactionError{Err: err}
	}
	if reviewer == nil || reviewer.Role != models.RoleReviewer {
		return nil, &InvalidAssigneeError{ReviewerID: reviewerID}
	}

	req := workflow.Request{Action: workflow.ActionAssign, ActorID: actor.ID, ReviewerID: reviewerID}
	claim, err := s.applyTransition(ctx, actor, claimID, req, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info("claim assigned",
		zap.String("claim_id", claimID),
		zap.String("reviewer_id", reviewerID),
		zap.String("checker_id", actor.ID))
	return claim, nil
}

// SubmitForApproval moves an Under Review claim to Pending Approval,
// recording the reviewer's notes and any additional review documents.
// Only the assigned reviewer may call this.
func (s *Service) SubmitForApproval(ctx context.Context, actor workflow.Actor, claimID string, in SubmitForApprovalInput) (*models.Claim, error) {
	if actor.Role != models.RoleReviewer {
		return nil, ErrForbidden
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	req := workflow.Request{Action: workflow.ActionSubmitForApproval, ActorID: actor.ID, Notes: in.Notes}
	claim, err := s.applyTransition(ctx, actor, claimID, req,
		func(tx storage.Storage, claim *models.Claim, journal *blobJournal) error {
			_, err := s.attachDocuments(ctx, tx, journal, claim, actor.ID, in.Files, true)
			return err
		})
	if err != nil {
		return nil, err
	}
	s.logger.Info("claim submitted for approval",
		zap.String("claim_id", claimID),
		zap.String("reviewer_id", actor.ID),
		zap.Int("documents", len(in.Files)))
	return claim, nil
}

// ApproveClaim moves a Pending Approval claim to the terminal Approved
// state.
func (s *Service) ApproveClaim(ctx context.Context, actor workflow.Actor, claimID string) (*models.Claim, error) {
	if !workflow.Allow(actor, nil, workflow.ActionApprove) {
		return nil, ErrForbidden
	}
	req := workflow.Request{Action: workflow.ActionApprove, ActorID: actor.ID}
	claim, err := s.applyTransition(ctx, actor, claimID, req, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info("claim approved", zap.String("claim_id", claimID), zap.String("checker_id", actor.ID))
	return claim, nil
}

// DenyClaim moves a Pending Approval claim to the terminal Denied
// state, storing the checker's reason verbatim when one is given.
func (s *Service) DenyClaim(ctx context.Context, actor workflow.Actor, claimID string, denialReason *string) (*models.Claim, error) {
	if !workflow.Allow(actor, nil, workflow.ActionDeny) {
		return nil, ErrForbidden
	}
	req := workflow.Request{Action: workflow.ActionDeny, ActorID: actor.ID, DenialReason: denialReason}
	claim, err := s.applyTransition(ctx, actor, claimID, req, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info("claim denied", zap.String("claim_id", claimID), zap.String("checker_id", actor.ID))
	return claim, nil
}

// ListClaims returns the claims visible to the actor: claimants see
// their own, reviewers the ones assigned to them, checkers everything
// (optionally narrowed by status).
func (s *Service) ListClaims(ctx context.Context, actor workflow.Actor, filter models.ClaimFilter) ([]models.Claim, error) {
	switch actor.Role {
	case models.RoleClaimant:
		filter.ClaimantUserID = actor.ID
		filter.AssignedReviewerID = ""
	case models.RoleReviewer:
		filter.AssignedReviewerID = actor.ID
		filter.ClaimantUserID = ""
	case models.RoleChecker:
		// unrestricted
	default:
		return nil, ErrForbidden
	}
	claims, err := s.storage.ListClaims(ctx, filter)
	if err != nil {
		return nil, &TransactionError{Err: err}
	}
	return claims, nil
}

// GetClaim returns one claim with its documents, or ErrNotFound when
// the claim is absent or outside the actor's scope.
func (s *Service) GetClaim(ctx context.Context, actor workflow.Actor, claimID string) (*models.Claim, error) {
	claim, err := s.storage.FindClaim(ctx, claimID)
	if err != nil {
		return nil, &TransactionError{Err: err}
	}
	if claim == nil || !workflow.CanRead(actor, claim) {
		return nil, ErrNotFound
	}
	return claim, nil
}

// applyTransition is the shared core of the four transition operations:
// lock the claim row, gate the actor, let the state machine compute the
// mutations, persist them, and run the optional attach step, all inside
// one unit of work. Blobs stored by the attach step are compensated if
// the transaction does not commit.
func (s *Service) applyTransition(
	ctx context.Context,
	actor workflow.Actor,
	claimID string,
	req workflow.Request,
	attach func(tx storage.Storage, claim *models.Claim, journal *blobJournal) error,
) (*models.Claim, error) {
	journal := newBlobJournal(s.blobs, s.logger)

	err := s.storage.InTransaction(ctx, func(tx storage.Storage) error {
		claim, err := tx.FindClaimForUpdate(ctx, claimID)
		if err != nil {
			return err
		}
		if claim == nil {
			return ErrNotFound
		}
		if !workflow.Allow(actor, claim, req.Action) {
			return ErrNotFound
		}

		update, err := workflow.Apply(claim, req, s.now())
		if err != nil {
			return err
		}
		if err := tx.UpdateClaim(ctx, claimID, update.Changes()); err != nil {
			return err
		}
		if attach != nil {
			if err := attach(tx, claim, journal); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		journal.discard()
		return nil, wrapServiceErr(err)
	}
	journal.release()

	claim, err := s.storage.FindClaim(ctx, claimID)
	if err != nil {
		return nil, &TransactionError{Err: err}
	}
	if claim == nil {
		return nil, ErrNotFound
	}
	s.publishEvent(ctx, claim, req.Action, actor)
	return claim, nil
}

// publishEvent announces a committed transition on the live feed.
// Publish failures are logged, never escalated: the transition itself
// has already committed.
func (s *Service) publishEvent(ctx context.Context, claim *models.Claim, action workflow.Action, actor workflow.Actor) {
	event := models.ClaimEvent{
		ClaimID:        claim.ID,
		Action:         string(action),
		Status:         claim.Status,
		ActorID:        actor.ID,
		ClaimantUserID: claim.ClaimantUserID,
		OccurredAt:     s.now(),
	}
	if claim.AssignedReviewerID != nil {
		event.AssignedReviewerID = *claim.AssignedReviewerID
	}
	if err := s.storage.PublishClaimEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish claim event",
			zap.String("claim_id", claim.ID),
			zap.Error(err))
	}
}

// wrapServiceErr passes domain errors through untouched and reports
// anything else as a transaction failure.
func wrapServiceErr(err error) error {
	if err == nil {
		return nil
	}
	var (
		ve *ValidationError
		de *DocumentError
		ia *InvalidAssigneeError
		it *workflow.InvalidTransitionError
	)
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) ||
		errors.As(err, &ve) || errors.As(err, &de) ||
		errors.As(err, &ia) || errors.As(err, &it) {
		return err
	}
	return &TransactionError{Err: err}
}
