package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the database handle and provides access to repositories.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequenceCounter
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and runs auto-migration.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", withConnPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		drv.Close()
		return nil, err
	}

	return &Store{db: db, drv: drv, seq: seq}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// Deck returns the repository scoped to the named deck.
func (s *Store) Deck(name string) DeckRepo {
	return &deckRepo{db: s.db, seq: s.seq, deck: name}
}

// DeckCatalog returns the repository listing and removing decks.
func (s *Store) DeckCatalog() DeckCatalog {
	return &catalogRepo{db: s.db}
}

// ETA returns the repository holding the ETA tracker.
func (s *Store) ETA() ETARepo {
	return &etaRepo{kv: kvStore{db: s.db, deck: globalScope}}
}

// withConnPragmas adds per-connection pragmas to the DSN so that every
// pooled connection enforces foreign keys and waits on locks.
func withConnPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. FLASHCARDS_DB environment variable
// 2. $XDG_DATA_HOME/flashcards/flashcards.db
// 3. ~/.local/share/flashcards/flashcards.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("FLASHCARDS_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome, err := DataDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dataHome, "flashcards.db")
	return p, EnsureDir(p)
}

// DataDir returns the directory holding the database and log file.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "flashcards"), nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
