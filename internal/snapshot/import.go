package snapshot

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/endora-app/endoscope/internal/contract"
	"github.com/endora-app/endoscope/schema"
)

// File names expected in an export directory. Events files are optional;
// an export without them simply has no event analytics.
const (
	usersFile        = "users.jsonl"
	sessionsFile     = "sessions.jsonl"
	appEventsFile    = "app_events.jsonl"
	bubbleEventsFile = "bubble_events.jsonl"
)

// maxLineBytes bounds a single JSONL record.
const maxLineBytes = 1 << 20

// ImportResult summarizes what an import loaded.
type ImportResult struct {
	Users        int
	Sessions     int
	AppEvents    int
	BubbleEvents int
}

// ImportDir replaces the snapshot contents with the JSONL export found in
// dir. Each present file replaces its table wholesale inside a single
// transaction, so a failed import never leaves a half-loaded snapshot.
func (s *Store) ImportDir(ctx context.Context, dir string) (*ImportResult, error) {
	users, err := readJSONLines[schema.User](filepath.Join(dir, usersFile))
	if err != nil {
		return nil, err
	}
	sessions, err := readJSONLines[schema.Session](filepath.Join(dir, sessionsFile))
	if err != nil {
		return nil, err
	}

	appEvents, err := readOptionalJSONLines[schema.AppEvent](filepath.Join(dir, appEventsFile))
	if err != nil {
		return nil, err
	}
	bubbleEvents, err := readOptionalJSONLines[schema.BubbleEvent](filepath.Join(dir, bubbleEventsFile))
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.replaceRows(ctx, tx, usersTable,
		[]string{"id", "created_at"},
		len(users), func(i int) []any {
			u := users[i]
			return []any{u.ID, u.CreatedAt.UnixMilli()}
		}); err != nil {
		return nil, err
	}

	if err := s.replaceRows(ctx, tx, sessionsTable,
		[]string{"user_id", "started_at", "duration_ms", "platform", "app_version"},
		len(sessions), func(i int) []any {
			r := sessions[i]
			return []any{r.UserID, r.StartedAt.UnixMilli(), r.DurationMs, r.Platform, r.AppVersion}
		}); err != nil {
		return nil, err
	}

	if err := s.replaceRows(ctx, tx, appEventsTable,
		[]string{"user_id", "event_name", "platform", "created_at"},
		len(appEvents), func(i int) []any {
			r := appEvents[i]
			return []any{r.UserID, r.Name, r.Platform, r.CreatedAt.UnixMilli()}
		}); err != nil {
		return nil, err
	}

	if err := s.replaceRows(ctx, tx, bubbleEventsTable,
		[]string{"user_id", "event_name", "screen", "created_at"},
		len(bubbleEvents), func(i int) []any {
			r := bubbleEvents[i]
			return []any{r.UserID, r.Event, r.Screen, r.CreatedAt.UnixMilli()}
		}); err != nil {
		return nil, err
	}

	if err := s.setMeta(ctx, tx, metaImportedAtKey, strconv.FormatInt(time.Now().UnixMilli(), 10)); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{
		Users:        len(users),
		Sessions:     len(sessions),
		AppEvents:    len(appEvents),
		BubbleEvents: len(bubbleEvents),
	}, nil
}

// replaceRows clears a table and refills it row by row, with a progress bar
// keyed to the table name.
func (s *Store) replaceRows(ctx context.Context, tx *sql.Tx, table string, columns []string, count int, rowAt func(int) []any) error {
	deleteQuery := fmt.Sprintf("DELETE FROM %s", table)
	if _, err := tx.ExecContext(ctx, deleteQuery); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	if count == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	insertQuery := s.rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders))

	stmt, err := tx.PrepareContext(ctx, insertQuery)
	if err != nil {
		return fmt.Errorf("prepare insert for %s: %w", table, err)
	}
	defer func() { _ = stmt.Close() }()

	bar := progressbar.Default(int64(count), table)
	for i := range count {
		if _, err := stmt.ExecContext(ctx, rowAt(i)...); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	return nil
}

// setMeta upserts a snapshot_meta entry inside the import transaction.
func (s *Store) setMeta(ctx context.Context, tx *sql.Tx, key, value string) error {
	var query string
	switch s.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (meta_key, meta_value) VALUES (?, ?) AS new
			ON DUPLICATE KEY UPDATE meta_value = new.meta_value`, metaTable)
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (meta_key, meta_value) VALUES ($1, $2)
			ON CONFLICT (meta_key) DO UPDATE SET meta_value = EXCLUDED.meta_value`, metaTable)
	default: // SQLite
		query = fmt.Sprintf(`INSERT OR REPLACE INTO %s (meta_key, meta_value) VALUES (?, ?)`, metaTable)
	}

	if _, err := tx.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("record import time: %w", err)
	}
	return nil
}

// readJSONLines loads a whole JSONL file, one record per non-empty line.
func readJSONLines[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var out []T
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec T
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filepath.Base(path), line, err)
		}
		out = append(out, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return out, nil
}

// readOptionalJSONLines is readJSONLines for files an export may omit.
func readOptionalJSONLines[T any](path string) ([]T, error) {
	records, err := readJSONLines[T](path)
	if errors.Is(err, os.ErrNotExist) {
		contract.LogWarn(fmt.Sprintf("Skipping %s", filepath.Base(path)), err)
		return nil, nil
	}
	return records, err
}
