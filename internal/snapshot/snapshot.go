package snapshot

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/shelf/internal/book"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - No schema
// 1 - books table
const currentSchemaVersion = 1

// Snapshot is an open SQLite snapshot file.
type Snapshot struct {
	db *sql.DB
}

// Open creates or opens a snapshot at the given path.
// Applies required pragmas and the schema automatically.
//
// Opening a file that is not a SQLite database fails here or on the first
// query, never silently.
func Open(path string) (*Snapshot, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to snapshot: %w", err)
	}

	// One connection: the snapshot is written once and read once.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Snapshot{db: db}, nil
}

// OpenReadOnly opens an existing snapshot without modifying it.
// Fails if the file does not exist or was not written by this package.
func OpenReadOnly(path string) (*Snapshot, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}

	db, err := sql.Open("sqlite3", readOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	db.SetMaxOpenConns(1)

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read snapshot version: %w", err)
	}
	if version != currentSchemaVersion {
		db.Close()
		return nil, fmt.Errorf("not a book snapshot: schema version %d, expected %d", version, currentSchemaVersion)
	}

	return &Snapshot{db: db}, nil
}

// readOnlyDSN builds a SQLite URI filename opening path read-only.
func readOnlyDSN(path string) string {
	escaped := strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23").Replace(filepath.ToSlash(path))
	return "file:" + escaped + "?mode=ro"
}

// Close closes the database connection.
func (s *Snapshot) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// WriteBooks replaces the snapshot contents with books, preserving order.
func (s *Snapshot) WriteBooks(ctx context.Context, books []book.Book) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write books: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `DELETE FROM books`); err != nil {
		return fmt.Errorf("write books: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO books (position, title, author, genre, year)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write books: prepare: %w", err)
	}
	defer stmt.Close()

	for i, b := range books {
		if _, err := stmt.ExecContext(ctx, i, b.Title, b.Author, b.Genre, b.Year); err != nil {
			return fmt.Errorf("write books: insert %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write books: commit: %w", err)
	}

	return nil
}

// ReadBooks returns all books ordered by position.
// Returns an empty slice (not nil) for an empty snapshot.
func (s *Snapshot) ReadBooks(ctx context.Context) ([]book.Book, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT title, author, genre, year
		FROM books
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	books := []book.Book{}
	for rows.Next() {
		var b book.Book
		if err := rows.Scan(&b.Title, &b.Author, &b.Genre, &b.Year); err != nil {
			return nil, fmt.Errorf("scan book %d: %w", len(books), err)
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}

	return books, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = DELETE",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and records the version.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("snapshot schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Snapshot) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
