// Package analytics keeps a local, opt-out-able log of tool invocations in
// a SQLite database, keyed by a persistent anonymous client identifier.
// Nothing leaves the machine.
package analytics

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	client_id  TEXT NOT NULL,
	tool       TEXT NOT NULL,
	ok         INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	created_at TEXT NOT NULL
);
`

// Recorder writes tool-call events. The zero value is a disabled recorder.
type Recorder struct {
	db       *sql.DB
	clientID string
	log      *slog.Logger
}

// Open creates or opens the event store at path. An empty path places the
// database next to the client-id file under the user config directory.
func Open(path string, log *slog.Logger) (*Recorder, error) {
	if log == nil {
		log = slog.Default()
	}
	var dir string
	if path == "" {
		var err error
		dir, err = stateDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "events.db")
	} else {
		dir = filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create analytics dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init analytics schema: %w", err)
	}

	id, err := clientID(dir)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Recorder{db: db, clientID: id, log: log}, nil
}

// Record stores one tool invocation. Failures are logged, never surfaced:
// analytics must not break tool calls.
func (r *Recorder) Record(tool string, ok bool, took time.Duration) {
	if r == nil || r.db == nil {
		return
	}
	okInt := 0
	if ok {
		okInt = 1
	}
	_, err := r.db.Exec(
		`INSERT INTO events (client_id, tool, ok, duration_ms, created_at) VALUES (?, ?, ?, ?, ?)`,
		r.clientID, tool, okInt, took.Milliseconds(), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		r.log.Debug("analytics insert failed", "tool", tool, "error", err)
	}
}

// Count returns the number of recorded events, optionally filtered by tool.
func (r *Recorder) Count(tool string) (int, error) {
	if r == nil || r.db == nil {
		return 0, nil
	}
	var n int
	var err error
	if tool == "" {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n)
	} else {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM events WHERE tool = ?`, tool).Scan(&n)
	}
	return n, err
}

// Close releases the database handle.
func (r *Recorder) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// clientID loads or creates the persistent anonymous identifier.
func clientID(dir string) (string, error) {
	path := filepath.Join(dir, "client_id")
	if b, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(b)); id != "" {
			return id, nil
		}
	}
	id := uuid.NewString()
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("persist client id: %w", err)
	}
	return id, nil
}

func stateDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	dir := filepath.Join(base, "winmcp")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create state dir: %w", err)
	}
	return dir, nil
}
