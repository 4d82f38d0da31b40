// Package schema defines shared value types for records and derived aggregates.
package schema

import "time"

// User is the minimal signup-time projection of an Endora account,
// used for cohort membership and returning-user checks.
type User struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session represents one tracking session. Records arrive as immutable
// snapshots from the record source and are never mutated here.
type Session struct {
	UserID     string    `json:"userId"`
	StartedAt  time.Time `json:"startedAt"`
	DurationMs int64     `json:"durationMs"`
	Platform   string    `json:"platform,omitempty"`
	AppVersion string    `json:"appVersion,omitempty"`
}

// AppEvent is a named product event emitted by the mobile app.
type AppEvent struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Platform  string    `json:"platform,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// BubbleEvent is an interaction with the in-app bubble companion.
type BubbleEvent struct {
	UserID    string    `json:"userId"`
	Event     string    `json:"event"`
	Screen    string    `json:"screen,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
