// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/endora-app/endoscope/schema"
)

// RecordSource defines the fetch boundary between the analytics core and
// whatever holds the raw records. The core never issues a fetch itself; it
// receives already-resolved collections. Day-key arguments are inclusive
// bounds in the reference timezone.
type RecordSource interface {
	// FetchUsers returns every user with signup time, for returning-user
	// and activity computations.
	FetchUsers(ctx context.Context) ([]schema.User, error)

	// FetchUsersCreatedBetween returns users whose signup day falls inside
	// the window. Used for cohort membership.
	FetchUsersCreatedBetween(ctx context.Context, startKey, endKey string) ([]schema.User, error)

	// FetchSessions returns tracking sessions started inside the window.
	FetchSessions(ctx context.Context, startKey, endKey string) ([]schema.Session, error)

	// FetchAppEvents returns app events created inside the window.
	FetchAppEvents(ctx context.Context, startKey, endKey string) ([]schema.AppEvent, error)

	// FetchBubbleEvents returns bubble events created inside the window.
	FetchBubbleEvents(ctx context.Context, startKey, endKey string) ([]schema.BubbleEvent, error)

	// GetStatus reports what the source currently holds.
	GetStatus(ctx context.Context) (schema.SnapshotStatus, error)

	// Close releases the underlying connection.
	Close() error
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetResultStore() CacheStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}
