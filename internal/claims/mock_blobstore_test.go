package claims

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockBlobStore is a mock implementation of the blobstore.BlobStore
// interface.
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Store(ctx context.Context, dir, name string, r io.Reader) (int64, error) {
	args := m.Called(ctx, dir, name, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBlobStore) Delete(dir, name string) error {
	args := m.Called(dir, name)
	return args.Error(0)
}

func (m *MockBlobStore) Open(dir, name string) (io.ReadCloser, error) {
	args := m.Called(dir, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}
