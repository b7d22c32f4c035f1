package store

import (
	"database/sql"
	"sync"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when the requested chat does not exist.
	ErrNotFound = errors.New("chat not found")
	// ErrStorageUnavailable is returned when the database file cannot be
	// opened, read or written.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Store implements a SQLite store for chats and their messages. All writes go
// through a single mutex so that a streaming session's save never interleaves
// with a delete or another save for the same chat.
type Store struct {
	db *sql.DB

	// mu serializes writes.
	mu sync.Mutex
}

// New opens (or creates) the database file and ensures the schema exists.
func New(dbPath string) (*Store, error) {
	// The pragma goes in the DSN so every pooled connection enforces
	// foreign keys, not just the one that ran the statement.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, storageUnavailable(err, "opening database")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS chats (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			creation_timestamp INTEGER NOT NULL,
			update_timestamp INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS messages (
			chat_id INTEGER NOT NULL,
			sequence INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			PRIMARY KEY (chat_id, sequence),
			FOREIGN KEY (chat_id) REFERENCES chats(id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_chats_update_timestamp ON chats(update_timestamp);
	`)
	if err != nil {
		return nil, storageUnavailable(err, "creating schema")
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func storageUnavailable(err error, message string) error {
	return errors.Wrapf(ErrStorageUnavailable, "%s: %v", message, err)
}
