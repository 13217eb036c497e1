package notify

import "claimflow/backend/internal/models"

type MockClient struct {
	userID      string
	role        models.Role
	closed      bool
	RecvChannel chan models.ClaimEvent
}

func newMockClient(userID string, role models.Role) *MockClient {
	return &MockClient{
		userID:      userID,
		role:        role,
		RecvChannel: make(chan models.ClaimEvent, 10),
	}
}

func (c *MockClient) GetUserID() string {
	return c.userID
}

func (c *MockClient) GetRole() models.Role {
	return c.role
}

func (c *MockClient) GetSendChannel() chan<- models.ClaimEvent {
	return c.RecvChannel
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.closed = true
}
