package analytics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	rec, err := Open(path, nil)
	require.NoError(t, err)
	defer rec.Close()

	rec.Record("snapshot", true, 120*time.Millisecond)
	rec.Record("snapshot", false, 40*time.Millisecond)
	rec.Record("click", true, 5*time.Millisecond)

	n, err := rec.Count("snapshot")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	total, err := rec.Count("")
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestClientIDPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.db")

	rec, err := Open(path, nil)
	require.NoError(t, err)
	first := rec.clientID
	require.NoError(t, rec.Close())
	assert.NotEmpty(t, first)

	rec, err = Open(path, nil)
	require.NoError(t, err)
	defer rec.Close()
	assert.Equal(t, first, rec.clientID)

	// The id lives next to the database.
	b, err := os.ReadFile(filepath.Join(dir, "client_id"))
	require.NoError(t, err)
	assert.Equal(t, first, strings.TrimSpace(string(b)))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.Record("snapshot", true, time.Second)
	n, err := rec.Count("")
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, rec.Close())
}

func TestOpenCreatesMissingDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "events.db")
	rec, err := Open(path, nil)
	require.NoError(t, err)
	defer rec.Close()
	rec.Record("keys", true, time.Millisecond)

	n, err := rec.Count("keys")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
