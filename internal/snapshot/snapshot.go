// Package snapshot reads and writes the SQL copy of the product's raw
// records. The store is append-free: imports replace whole tables, queries
// only ever read, so every fetch is reproducible until the next import.
package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"  // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib"  // PostgreSQL driver
	_ "modernc.org/sqlite"              // SQLite driver

	"github.com/endora-app/endoscope/core/bucket"
	"github.com/endora-app/endoscope/internal/contract"
	"github.com/endora-app/endoscope/schema"
)

// Snapshot table names.
const (
	usersTable        = "endora_users"
	sessionsTable     = "endora_sessions"
	appEventsTable    = "endora_app_events"
	bubbleEventsTable = "endora_bubble_events"
	metaTable         = "snapshot_meta"
)

// metaImportedAtKey holds the unix-millisecond time of the last import.
const metaImportedAtKey = "imported_at"

// Store is the SQL-backed record source.
type Store struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.RecordSource = &Store{} // Compile-time check

// NewStore opens the snapshot database for the backend, verifies the
// connection and brings the schema up to date.
func NewStore(backend schema.DatabaseBackend, connStr string) (*Store, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetSnapshotDBFilePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite snapshot at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL snapshot: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL snapshot: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, fmt.Errorf("unsupported snapshot backend: %s. Must be sqlite, mysql, postgresql", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	if err := migrateUp(db, backend); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, backend: backend, connStr: connStr}, nil
}

// Close closes the underlying DB connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders to the backend's parameter syntax.
func (s *Store) rebind(query string) string {
	if s.backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$")
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// dayRangeMillis converts an inclusive day-key window into a half-open
// unix-millisecond interval in the reference timezone.
func dayRangeMillis(startKey, endKey string) (int64, int64, error) {
	start, err := bucket.ParseDayKey(startKey)
	if err != nil {
		return 0, 0, err
	}
	end, err := bucket.ParseDayKey(endKey)
	if err != nil {
		return 0, 0, err
	}
	return start.UnixMilli(), end.AddDate(0, 0, 1).UnixMilli(), nil
}

// FetchUsers returns every user in the snapshot.
func (s *Store) FetchUsers(ctx context.Context) ([]schema.User, error) {
	query := fmt.Sprintf("SELECT id, created_at FROM %s", usersTable)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanUsers(rows)
}

// FetchUsersCreatedBetween returns users whose signup instant falls inside
// the day-key window.
func (s *Store) FetchUsersCreatedBetween(ctx context.Context, startKey, endKey string) ([]schema.User, error) {
	startMs, endMs, err := dayRangeMillis(startKey, endKey)
	if err != nil {
		return nil, err
	}

	query := s.rebind(fmt.Sprintf("SELECT id, created_at FROM %s WHERE created_at >= ? AND created_at < ?", usersTable))
	rows, err := s.db.QueryContext(ctx, query, startMs, endMs)
	if err != nil {
		return nil, fmt.Errorf("query users by signup window: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanUsers(rows)
}

// FetchSessions returns sessions started inside the day-key window, oldest
// first.
func (s *Store) FetchSessions(ctx context.Context, startKey, endKey string) ([]schema.Session, error) {
	startMs, endMs, err := dayRangeMillis(startKey, endKey)
	if err != nil {
		return nil, err
	}

	query := s.rebind(fmt.Sprintf(
		"SELECT user_id, started_at, duration_ms, platform, app_version FROM %s WHERE started_at >= ? AND started_at < ? ORDER BY started_at",
		sessionsTable))
	rows, err := s.db.QueryContext(ctx, query, startMs, endMs)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.Session
	for rows.Next() {
		var rec schema.Session
		var startedMs int64
		var platform, appVersion sql.NullString
		if err := rows.Scan(&rec.UserID, &startedMs, &rec.DurationMs, &platform, &appVersion); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		rec.StartedAt = time.UnixMilli(startedMs)
		rec.Platform = platform.String
		rec.AppVersion = appVersion.String
		out = append(out, rec)
	}
	return out, rows.Err()
}

// FetchAppEvents returns app events created inside the day-key window.
func (s *Store) FetchAppEvents(ctx context.Context, startKey, endKey string) ([]schema.AppEvent, error) {
	startMs, endMs, err := dayRangeMillis(startKey, endKey)
	if err != nil {
		return nil, err
	}

	query := s.rebind(fmt.Sprintf(
		"SELECT user_id, event_name, platform, created_at FROM %s WHERE created_at >= ? AND created_at < ?",
		appEventsTable))
	rows, err := s.db.QueryContext(ctx, query, startMs, endMs)
	if err != nil {
		return nil, fmt.Errorf("query app events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.AppEvent
	for rows.Next() {
		var rec schema.AppEvent
		var createdMs int64
		var platform sql.NullString
		if err := rows.Scan(&rec.UserID, &rec.Name, &platform, &createdMs); err != nil {
			return nil, fmt.Errorf("scan app event: %w", err)
		}
		rec.Platform = platform.String
		rec.CreatedAt = time.UnixMilli(createdMs)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// FetchBubbleEvents returns bubble events created inside the day-key window.
func (s *Store) FetchBubbleEvents(ctx context.Context, startKey, endKey string) ([]schema.BubbleEvent, error) {
	startMs, endMs, err := dayRangeMillis(startKey, endKey)
	if err != nil {
		return nil, err
	}

	query := s.rebind(fmt.Sprintf(
		"SELECT user_id, event_name, screen, created_at FROM %s WHERE created_at >= ? AND created_at < ?",
		bubbleEventsTable))
	rows, err := s.db.QueryContext(ctx, query, startMs, endMs)
	if err != nil {
		return nil, fmt.Errorf("query bubble events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.BubbleEvent
	for rows.Next() {
		var rec schema.BubbleEvent
		var createdMs int64
		var screen sql.NullString
		if err := rows.Scan(&rec.UserID, &rec.Event, &screen, &createdMs); err != nil {
			return nil, fmt.Errorf("scan bubble event: %w", err)
		}
		rec.Screen = screen.String
		rec.CreatedAt = time.UnixMilli(createdMs)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetStatus reports table counts, the session day span and the time of the
// last import.
func (s *Store) GetStatus(ctx context.Context) (schema.SnapshotStatus, error) {
	status := schema.SnapshotStatus{Backend: string(s.backend)}

	counts := []struct {
		table string
		dest  *int64
	}{
		{usersTable, &status.Users},
		{sessionsTable, &status.Sessions},
		{appEventsTable, &status.AppEvents},
		{bubbleEventsTable, &status.BubbleEvents},
	}
	for _, c := range counts {
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", c.table)
		if err := s.db.QueryRowContext(ctx, query).Scan(c.dest); err != nil {
			return status, fmt.Errorf("count %s: %w", c.table, err)
		}
	}

	if status.Sessions > 0 {
		var firstMs, lastMs int64
		query := fmt.Sprintf("SELECT MIN(started_at), MAX(started_at) FROM %s", sessionsTable)
		if err := s.db.QueryRowContext(ctx, query).Scan(&firstMs, &lastMs); err != nil {
			return status, fmt.Errorf("session span: %w", err)
		}
		status.FirstSessionDay = bucket.DayKey(time.UnixMilli(firstMs))
		status.LastSessionDay = bucket.DayKey(time.UnixMilli(lastMs))
	}

	var importedAt string
	query := s.rebind(fmt.Sprintf("SELECT meta_value FROM %s WHERE meta_key = ?", metaTable))
	err := s.db.QueryRowContext(ctx, query, metaImportedAtKey).Scan(&importedAt)
	switch {
	case err == sql.ErrNoRows:
		// Never imported; leave the zero time.
	case err != nil:
		return status, fmt.Errorf("read import time: %w", err)
	default:
		if ms, parseErr := strconv.ParseInt(importedAt, 10, 64); parseErr == nil {
			status.ImportedAt = time.UnixMilli(ms)
		}
	}

	return status, nil
}
