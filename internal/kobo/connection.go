package kobo

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DatabasePath returns the location of KoboReader.sqlite under a device root,
// e.g. /Volumes/KOBOeReader/.kobo/KoboReader.sqlite.
func DatabasePath(deviceRoot string) string {
	return filepath.Join(deviceRoot, koboDirName, databaseFileName)
}

var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// FileURI returns path as a SQLite file: URI. go-sqlite3 cuts a DSN at the
// first '?', so characters with a meaning in URIs are percent-encoded.
func FileURI(path string) string {
	return "file:" + uriEscaper.Replace(path)
}

// readOnlyDSN builds a SQLite URI that can never write to the device file.
func readOnlyDSN(path string) string {
	return FileURI(path) + "?mode=ro&_query_only=true"
}

// openDatabase opens a read-only handle on the device database. The returned
// handle uses a single connection so every read of one call sees the same
// database state.
func openDatabase(ctx context.Context, deviceRoot string) (*sql.DB, error) {
	if strings.TrimSpace(deviceRoot) == "" {
		return nil, fmt.Errorf("%w: empty device root", ErrPathInvalid)
	}
	info, err := os.Stat(deviceRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrPathInvalid, deviceRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrPathInvalid, deviceRoot)
	}

	path := DatabasePath(deviceRoot)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDatabaseOpen, path, err)
	}

	db, err := sql.Open("sqlite3", readOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDatabaseOpen, path, err)
	}
	db.SetMaxOpenConns(1)

	// sqlite3_open does not read the file, so a corrupt or non-database file
	// only shows up on the first statement.
	var schemaVersion int
	if err := db.QueryRowContext(ctx, "PRAGMA schema_version").Scan(&schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrDatabaseOpen, path, err)
	}

	return db, nil
}

// withConnection opens the device database, runs fn and closes the handle on
// every exit path.
func withConnection(ctx context.Context, deviceRoot string, fn func(db *sql.DB) error) error {
	db, err := openDatabase(ctx, deviceRoot)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(db)
}
