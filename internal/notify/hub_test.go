package notify

import (
	"context"
	"testing"
	"time"

	"claimflow/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestHub() *Hub {
	return NewHub(nil, nil, zap.NewNop())
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := newTestHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := newMockClient("reviewer-7", models.RoleReviewer)

	hub.RegisterCh <- client
	time.Sleep(100 * time.Millisecond)
	assert.Contains(t, hub.Clients, "reviewer-7")

	hub.UnregisterCh <- client
	time.Sleep(100 * time.Millisecond)
	assert.NotContains(t, hub.Clients, "reviewer-7")
	assert.True(t, client.closed)
}

// TestHub_DeliverScoping verifies event fan-out follows claim read
// scoping: checkers get everything, reviewers and claimants only events
// for their own claims.
func TestHub_DeliverScoping(t *testing.T) {
	hub := newTestHub()

	owner := newMockClient("claimant-1", models.RoleClaimant)
	otherClaimant := newMockClient("claimant-2", models.RoleClaimant)
	assignee := newMockClient("reviewer-7", models.RoleReviewer)
	otherReviewer := newMockClient("reviewer-9", models.RoleReviewer)
	checker := newMockClient("checker-3", models.RoleChecker)
	for _, c := range []*MockClient{owner, otherClaimant, assignee, otherReviewer, checker} {
		hub.Clients[c.userID] = c
	}

	hub.deliver(models.ClaimEvent{
		ClaimID:            "claim-1",
		Action:             "assign",
		Status:             models.StatusUnderReview,
		ActorID:            "checker-3",
		ClaimantUserID:     "claimant-1",
		AssignedReviewerID: "reviewer-7",
		OccurredAt:         time.Now(),
	})

	assert.Len(t, owner.RecvChannel, 1)
	assert.Len(t, assignee.RecvChannel, 1)
	assert.Len(t, checker.RecvChannel, 1)
	assert.Len(t, otherClaimant.RecvChannel, 0)
	assert.Len(t, otherReviewer.RecvChannel, 0)
}

// TestHub_SlowConsumerDropped verifies a client whose send buffer is
// full gets disconnected instead of blocking delivery to everyone else.
func TestHub_SlowConsumerDropped(t *testing.T) {
	hub := newTestHub()

	slow := newMockClient("checker-3", models.RoleChecker)
	slow.RecvChannel = make(chan models.ClaimEvent) // no buffer, nobody reading
	healthy := newMockClient("checker-4", models.RoleChecker)
	hub.Clients[slow.userID] = slow
	hub.Clients[healthy.userID] = healthy

	hub.deliver(models.ClaimEvent{
		ClaimID:        "claim-1",
		Action:         "approve",
		Status:         models.StatusApproved,
		ClaimantUserID: "claimant-1",
	})

	assert.NotContains(t, hub.Clients, "checker-3")
	assert.True(t, slow.closed)
	assert.Contains(t, hub.Clients, "checker-4")
	assert.Len(t, healthy.RecvChannel, 1)
}

func TestShouldReceive(t *testing.T) {
	event := models.ClaimEvent{
		ClaimID:            "claim-1",
		ClaimantUserID:     "claimant-1",
		AssignedReviewerID: "reviewer-7",
	}

	assert.True(t, shouldReceive(newMockClient("checker-3", models.RoleChecker), event))
	assert.True(t, shouldReceive(newMockClient("claimant-1", models.RoleClaimant), event))
	assert.True(t, shouldReceive(newMockClient("reviewer-7", models.RoleReviewer), event))
	assert.False(t, shouldReceive(newMockClient("claimant-2", models.RoleClaimant), event))
	assert.False(t, shouldReceive(newMockClient("reviewer-9", models.RoleReviewer), event))
	assert.False(t, shouldReceive(newMockClient("x", models.Role("admin")), event))
}
