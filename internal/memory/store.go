package memory

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// keepInteractions bounds the long-term interaction log.
const keepInteractions = 100

// Store is the SQLite-backed long-term memory: user facts and a capped log
// of past interactions.
type Store struct {
	conn *sql.DB
	path string
	mu   sync.Mutex
}

// Interaction is one remembered exchange.
type Interaction struct {
	User      string
	Assistant string
	Tools     []string
	At        time.Time
}

// DefaultPath returns the standard memory database location.
func DefaultPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "glow", "memory.db")
}

// Open opens (and migrates) the memory database at path, creating parent
// directories as needed. WAL mode is enabled for concurrent reads.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	s := &Store{conn: conn, path: path}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) migrate() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var current int
	if err := s.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&current); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1},
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := s.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration v%d: %w", m.version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration v%d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", m.version, err)
		}
	}
	return nil
}

const migrationV1 = `
	CREATE TABLE IF NOT EXISTS facts (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS interactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_input TEXT NOT NULL,
		assistant_response TEXT NOT NULL,
		tools TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_interactions_created ON interactions(created_at);
`

// RememberFact stores or replaces a fact about the user.
func (s *Store) RememberFact(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.conn.Exec(`
		INSERT INTO facts (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("remember fact: %w", err)
	}
	return nil
}

// AllFacts returns every stored fact keyed by name.
func (s *Store) AllFacts() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.conn.Query("SELECT key, value FROM facts")
	if err != nil {
		return nil, fmt.Errorf("list facts: %w", err)
	}
	defer rows.Close()

	facts := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan fact: %w", err)
		}
		facts[key] = value
	}
	return facts, rows.Err()
}

// RecallFact returns a stored fact, or "" when unknown.
func (s *Store) RecallFact(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var value string
	err := s.conn.QueryRow("SELECT value FROM facts WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("recall fact: %w", err)
	}
	return value, nil
}

// StoreInteraction logs one exchange and prunes the log to its cap.
func (s *Store) StoreInteraction(userInput, assistantResponse string, tools []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.conn.Exec(
		"INSERT INTO interactions (user_input, assistant_response, tools) VALUES (?, ?, ?)",
		userInput, assistantResponse, strings.Join(tools, ","),
	)
	if err != nil {
		return fmt.Errorf("store interaction: %w", err)
	}
	_, err = s.conn.Exec(`
		DELETE FROM interactions WHERE id NOT IN (
			SELECT id FROM interactions ORDER BY id DESC LIMIT ?
		)
	`, keepInteractions)
	if err != nil {
		return fmt.Errorf("prune interactions: %w", err)
	}
	return nil
}

// SearchInteractions returns past interactions whose text matches the
// query, newest first.
func (s *Store) SearchInteractions(query string, limit int) ([]Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = 5
	}
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := s.conn.Query(`
		SELECT user_input, assistant_response, tools, created_at
		FROM interactions
		WHERE LOWER(user_input) LIKE ? OR LOWER(assistant_response) LIKE ?
		ORDER BY id DESC LIMIT ?
	`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search interactions: %w", err)
	}
	defer rows.Close()
	return scanInteractions(rows)
}

// RecentInteractions returns the latest interactions, newest first.
func (s *Store) RecentInteractions(limit int) ([]Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.conn.Query(`
		SELECT user_input, assistant_response, tools, created_at
		FROM interactions ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent interactions: %w", err)
	}
	defer rows.Close()
	return scanInteractions(rows)
}

func scanInteractions(rows *sql.Rows) ([]Interaction, error) {
	var out []Interaction
	for rows.Next() {
		var it Interaction
		var tools string
		if err := rows.Scan(&it.User, &it.Assistant, &tools, &it.At); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		if tools != "" {
			it.Tools = strings.Split(tools, ",")
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
