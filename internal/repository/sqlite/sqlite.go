package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"gatekeeper-bot/internal/repository"

	_ "modernc.org/sqlite"
)

// Open opens (creating if needed) the sqlite database file at path.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// A single writer keeps conflicting writes serialized.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the members table if it does not exist yet. Safe to run on
// every start.
func Migrate(db *sql.DB) error {
	query := `CREATE TABLE IF NOT EXISTS members (
		user_id INTEGER PRIMARY KEY,
		username TEXT,
		full_name TEXT NOT NULL,
		status TEXT NOT NULL,
		subscription_end_date TEXT,
		last_application_date TEXT NOT NULL
	)`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("create members table: %w", err)
	}
	return nil
}

type Store struct {
	db *sql.DB
	repository.MemberRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:               db,
		MemberRepository: NewMemberRepository(db),
	}
}
