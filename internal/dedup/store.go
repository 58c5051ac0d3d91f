package dedup

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed Deduper. The per-room last-dispatched id
// survives restarts, so a bot coming back up does not re-answer the
// message it already replied to.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	logger *slog.Logger
}

func NewStore(dbPath string, logger *slog.Logger) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create database directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	// Single connection: SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS dedup_state (
		room_id     TEXT PRIMARY KEY,
		message_id  TEXT NOT NULL,
		updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Accept implements domain.Deduper. The lock covers the read-then-write so
// concurrent webhook handlers cannot both accept the same id.
func (s *Store) Accept(roomID, messageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var last string
	err := s.db.QueryRow(`SELECT message_id FROM dedup_state WHERE room_id = ?`, roomID).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		// Treat a broken store as "not seen": replying twice beats going mute.
		s.logger.Error("dedup read failed", "room", roomID, "error", err)
	}
	if err == nil && last == messageID {
		return false
	}

	_, err = s.db.Exec(`
		INSERT INTO dedup_state (room_id, message_id, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(room_id) DO UPDATE SET
			message_id = excluded.message_id,
			updated_at = CURRENT_TIMESTAMP`,
		roomID, messageID)
	if err != nil {
		s.logger.Error("dedup write failed", "room", roomID, "error", err)
	}
	return true
}

// Last returns the recorded id for a room, if any.
func (s *Store) Last(roomID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var last string
	err := s.db.QueryRow(`SELECT message_id FROM dedup_state WHERE room_id = ?`, roomID).Scan(&last)
	if err != nil {
		return "", false
	}
	return last, true
}

func (s *Store) Close() error { return s.db.Close() }
