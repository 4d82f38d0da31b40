package schema

import "time"

// CacheStatus contains status information about the result cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"totalEntries"`
	LastEntryTime   time.Time `json:"lastEntryTime,omitempty"`
	OldestEntryTime time.Time `json:"oldestEntryTime,omitempty"`
	TableSizeBytes  int64     `json:"tableSizeBytes,omitempty"`
}

// SnapshotStatus describes what the snapshot store currently holds.
type SnapshotStatus struct {
	Backend         string    `json:"backend"`
	Users           int64     `json:"users"`
	Sessions        int64     `json:"sessions"`
	AppEvents       int64     `json:"appEvents"`
	BubbleEvents    int64     `json:"bubbleEvents"`
	FirstSessionDay string    `json:"firstSessionDay,omitempty"`
	LastSessionDay  string    `json:"lastSessionDay,omitempty"`
	ImportedAt      time.Time `json:"importedAt,omitempty"`
}
