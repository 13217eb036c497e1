package claims

import (
	"context"

	"claimflow/backend/internal/models"
	"claimflow/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a mock implementation of the storage.Storage interface.
// InTransaction invokes fn with the mock itself, so expectations set on
// it cover both transactional and non-transactional calls.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) InTransaction(ctx context.Context, fn func(tx storage.Storage) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}

func (m *MockStorage) CreateClaim(ctx context.Context, claim *models.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *MockStorage) FindClaim(ctx context.Context, id string) (*models.Claim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Claim), args.Error(1)
}

func (m *MockStorage) FindClaimForUpdate(ctx context.Context, id string) (*models.Claim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Claim), args.Error(1)
}

func (m *MockStorage) UpdateClaim(ctx context.Context, id string, changes map[string]interface{}) error {
	args := m.Called(ctx, id, changes)
	return args.Error(0)
}

func (m *MockStorage) ListClaims(ctx context.Context, filter models.ClaimFilter) ([]models.Claim, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Claim), args.Error(1)
}

func (m *MockStorage) CreateDocument(ctx context.Context, doc *models.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockStorage) FindDocumentsByClaim(ctx context.Context, claimID string) ([]models.Document, error) {
	args := m.Called(ctx, claimID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Document), args.Error(1)
}

func (m *MockStorage) FindClaimTypeByName(ctx context.Context, name string) (*models.ClaimType, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClaimType), args.Error(1)
}

func (m *MockStorage) FindUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) PublishClaimEvent(ctx context.Context, event models.ClaimEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
