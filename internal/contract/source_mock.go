package contract

import (
	"context"

	"github.com/endora-app/endoscope/schema"
	"github.com/stretchr/testify/mock"
)

// MockRecordSource is a testify mock for RecordSource.
type MockRecordSource struct {
	mock.Mock
}

var _ RecordSource = &MockRecordSource{} // Compile-time check

// FetchUsers mocks fetching all users.
func (m *MockRecordSource) FetchUsers(ctx context.Context) ([]schema.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]schema.User)
	return users, args.Error(1)
}

// FetchUsersCreatedBetween mocks fetching users by signup window.
func (m *MockRecordSource) FetchUsersCreatedBetween(ctx context.Context, startKey, endKey string) ([]schema.User, error) {
	args := m.Called(ctx, startKey, endKey)
	users, _ := args.Get(0).([]schema.User)
	return users, args.Error(1)
}

// FetchSessions mocks fetching sessions by window.
func (m *MockRecordSource) FetchSessions(ctx context.Context, startKey, endKey string) ([]schema.Session, error) {
	args := m.Called(ctx, startKey, endKey)
	sessions, _ := args.Get(0).([]schema.Session)
	return sessions, args.Error(1)
}

// FetchAppEvents mocks fetching app events by window.
func (m *MockRecordSource) FetchAppEvents(ctx context.Context, startKey, endKey string) ([]schema.AppEvent, error) {
	args := m.Called(ctx, startKey, endKey)
	events, _ := args.Get(0).([]schema.AppEvent)
	return events, args.Error(1)
}

// FetchBubbleEvents mocks fetching bubble events by window.
func (m *MockRecordSource) FetchBubbleEvents(ctx context.Context, startKey, endKey string) ([]schema.BubbleEvent, error) {
	args := m.Called(ctx, startKey, endKey)
	events, _ := args.Get(0).([]schema.BubbleEvent)
	return events, args.Error(1)
}

// GetStatus mocks the status call.
func (m *MockRecordSource) GetStatus(ctx context.Context) (schema.SnapshotStatus, error) {
	args := m.Called(ctx)
	status, _ := args.Get(0).(schema.SnapshotStatus)
	return status, args.Error(1)
}

// Close mocks closing the source.
func (m *MockRecordSource) Close() error {
	args := m.Called()
	return args.Error(0)
}
