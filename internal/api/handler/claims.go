package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"claimflow/backend/internal/claims"
	"claimflow/backend/internal/models"
	"claimflow/backend/internal/workflow"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const incidentDateLayout = "2006-01-02"

// CreateClaim accepts a multipart form with the claim fields and the
// required supporting documents.
// POST /api/claimant/claims
func (h *Handler) CreateClaim(c *gin.Context) {
	actor := mustActor(c)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form data required"})
		return
	}

	incidentDate, err := time.Parse(incidentDateLayout, c.PostForm("incident_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"incident_date": "a valid incident date (YYYY-MM-DD) is required"}})
		return
	}

	uploads, closeAll, err := uploadsFromHeaders(form.File["documents"])
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded files"})
		return
	}
	defer closeAll()

	claim, err := h.Claims.CreateClaim(c.Request.Context(), actor, claims.CreateClaimInput{
		ClaimType:    c.PostForm("claimType"),
		IncidentDate: incidentDate,
		Description:  c.PostForm("description"),
		Tags:         form.Value["tags"],
		Files:        uploads,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "claim submitted successfully", "data": claim})
}

// ListClaims returns the claims visible to the caller. Checkers may
// narrow by status: ?status=Pending,Under%20Review
// GET /api/{claimant,reviewer,checker}/claims
func (h *Handler) ListClaims(c *gin.Context) {
	actor := mustActor(c)

	var filter models.ClaimFilter
	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status := models.ClaimStatus(strings.TrimSpace(part))
			if !status.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status filter: " + string(status)})
				return
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	list, err := h.Claims.ListClaims(c.Request.Context(), actor, filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "claims retrieved successfully", "data": list})
}

// GetClaim returns one claim with its documents.
// GET /api/{claimant,reviewer,checker}/claims/:id
func (h *Handler) GetClaim(c *gin.Context) {
	actor := mustActor(c)

	claim, err := h.Claims.GetClaim(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "claim details retrieved", "data": claim})
}

type assignRequest struct {
	ReviewerID string `json:"reviewer_id" binding:"required"`
}

// AssignClaim assigns a Pending claim to a reviewer.
// PATCH /api/checker/claims/:id/assign
func (h *Handler) AssignClaim(c *gin.Context) {
	actor := mustActor(c)

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"reviewer_id": "a valid reviewer ID is required"}})
		return
	}

	claim, err := h.Claims.AssignClaim(c.Request.Context(), actor, c.Param("id"), req.ReviewerID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "claim assigned", "data": claim})
}

// SubmitForApproval records reviewer notes and optional review
// documents and hands the claim to the checkers.
// PATCH /api/reviewer/claims/:id/submit-for-approval
func (h *Handler) SubmitForApproval(c *gin.Context) {
	actor := mustActor(c)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form data required"})
		return
	}

	uploads, closeAll, err := uploadsFromHeaders(form.File["reviewer_documents"])
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded files"})
		return
	}
	defer closeAll()

	claim, err := h.Claims.SubmitForApproval(c.Request.Context(), actor, c.Param("id"), claims.SubmitForApprovalInput{
		Notes: c.PostForm("reviewer_notes"),
		Files: uploads,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "claim submitted for final approval", "data": claim})
}

// ApproveClaim approves a Pending Approval claim.
// PATCH /api/checker/claims/:id/approve
func (h *Handler) ApproveClaim(c *gin.Context) {
	actor := mustActor(c)

	claim, err := h.Claims.ApproveClaim(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "claim approved", "data": claim})
}

type denyRequest struct {
	DenialReason *string `json:"denial_reason"`
}

// DenyClaim denies a Pending Approval claim with an optional reason.
// PATCH /api/checker/claims/:id/deny
func (h *Handler) DenyClaim(c *gin.Context) {
	actor := mustActor(c)

	var req denyRequest
	// The body is optional; an empty or absent body means no reason.
	_ = c.ShouldBindJSON(&req)
	if req.DenialReason != nil {
		trimmed := strings.TrimSpace(*req.DenialReason)
		if trimmed == "" {
			req.DenialReason = nil
		} else {
			req.DenialReason = &trimmed
		}
	}

	claim, err := h.Claims.DenyClaim(c.Request.Context(), actor, c.Param("id"), req.DenialReason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "claim denied", "data": claim})
}

// uploadsFromHeaders opens every part of a multipart upload. The
// returned closer must run after the service call so the readers stay
// valid while the coordinator streams them to the blob store.
func uploadsFromHeaders(headers []*multipart.FileHeader) ([]claims.Upload, func(), error) {
	var uploads []claims.Upload
	var closers []io.Closer
	closeAll := func() {
		for _, cl := range closers {
			cl.Close()
		}
	}

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		closers = append(closers, f)
		uploads = append(uploads, claims.Upload{
			Filename:    fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     f,
		})
	}
	return uploads, closeAll, nil
}

// respondError maps the claims service's typed errors onto HTTP status
// codes.
func (h *Handler) respondError(c *gin.Context, err error) {
	var (
		ve *claims.ValidationError
		ia *claims.InvalidAssigneeError
		it *workflow.InvalidTransitionError
		de *claims.DocumentError
		te *claims.TransactionError
	)
	switch {
	case errors.Is(err, claims.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "claim not found or access denied"})
	case errors.Is(err, claims.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "operation not permitted"})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"errors": ve.Fields})
	case errors.As(err, &ia):
		c.JSON(http.StatusBadRequest, gin.H{"error": ia.Error()})
	case errors.As(err, &it):
		c.JSON(http.StatusConflict, gin.H{"error": it.Error()})
	case errors.As(err, &de):
		h.Logger.Error("document persistence failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": de.Error()})
	case errors.As(err, &te):
		h.Logger.Error("claim transaction failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "claim operation failed due to a processing error"})
	default:
		h.Logger.Error("unexpected error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "an unexpected error occurred"})
	}
}
