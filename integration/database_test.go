//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// writeDatabaseExportDir seeds a minimal JSONL export directory.
func writeDatabaseExportDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string][]string{
		"users.jsonl": {
			`{"id":"u1","createdAt":"2026-08-02T09:00:00+02:00"}`,
			`{"id":"u2","createdAt":"2026-08-03T10:00:00+02:00"}`,
		},
		"sessions.jsonl": {
			`{"userId":"u1","startedAt":"2026-08-02T09:05:00+02:00","durationMs":60000,"platform":"ios"}`,
			`{"userId":"u2","startedAt":"2026-08-03T11:00:00+02:00","durationMs":90000,"platform":"android"}`,
		},
	}
	for name, lines := range files {
		content := strings.Join(lines, "\n") + "\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

// TestEndoscopeWithMySQL runs the endoscope CLI against a MySQL backend for
// both the snapshot store and the result cache.
func TestEndoscopeWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "endoscope",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/endoscope?parseTime=true", host, port.Port())
	env := []string{
		"ENDOSCOPE_SNAPSHOT_BACKEND=mysql",
		"ENDOSCOPE_SNAPSHOT_CONNECT=" + connStr,
		"ENDOSCOPE_CACHE_BACKEND=mysql",
		"ENDOSCOPE_CACHE_CONNECT=" + connStr,
	}

	runDatabaseFlow(t, env)
}

// TestEndoscopeWithPostgres runs the endoscope CLI against a PostgreSQL
// backend for both the snapshot store and the result cache.
func TestEndoscopeWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	env := []string{
		"ENDOSCOPE_SNAPSHOT_BACKEND=postgresql",
		"ENDOSCOPE_SNAPSHOT_CONNECT=" + connStr,
		"ENDOSCOPE_CACHE_BACKEND=postgresql",
		"ENDOSCOPE_CACHE_CONNECT=" + connStr,
	}

	runDatabaseFlow(t, env)
}

// runDatabaseFlow imports a fixture and exercises the query and cache
// commands against the configured backend.
func runDatabaseFlow(t *testing.T, env []string) {
	t.Helper()
	exportDir := writeDatabaseExportDir(t)

	// Clear any previous cache state
	_, err := runEndoscope(t, env, "cache", "clear")
	require.NoError(t, err)

	// Import the fixture
	output, err := runEndoscope(t, env, "snapshot", "import", "--dir", exportDir)
	require.NoError(t, err)
	assert.Contains(t, output, "Imported 2 users")

	// Run a query twice; the second run should be served from cache
	for range 2 {
		output, err = runEndoscope(t, env, "overview", "--from", "2026-08-01", "--to", "2026-08-31")
		require.NoError(t, err)
		assert.Contains(t, output, "Total sessions")
	}

	// Cache status reports entries
	output, err = runEndoscope(t, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, output, "Connected: true")
	assert.Contains(t, output, "Total Entries: 1")

	// Snapshot status reports the import
	output, err = runEndoscope(t, env, "snapshot", "status")
	require.NoError(t, err)
	assert.Contains(t, output, "Users: 2")
}
