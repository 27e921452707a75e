package kobofake

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mrlokans/koboreader/internal/kobo"
)

// schema is the subset of the firmware schema the reader touches. Column
// types follow the device, which stores dates and the Hidden flag as text.
var schema = []string{
	`CREATE TABLE content (
		ContentID TEXT NOT NULL,
		ContentType TEXT,
		MimeType TEXT,
		BookID TEXT,
		BookTitle TEXT,
		Title TEXT,
		Attribution TEXT,
		Description TEXT,
		Publisher TEXT,
		Language TEXT,
		ISBN TEXT,
		DateLastRead TEXT,
		ReadStatus INTEGER,
		___PercentRead INTEGER,
		TimeSpentReading INTEGER,
		___UserID TEXT,
		PRIMARY KEY (ContentID)
	)`,
	`CREATE TABLE Event (
		Id INTEGER PRIMARY KEY,
		ContentID TEXT,
		Type INTEGER,
		Count INTEGER,
		LastOccurrence TEXT,
		ExtraData BLOB
	)`,
	`CREATE TABLE Bookmark (
		BookmarkID TEXT NOT NULL,
		VolumeID TEXT,
		ContentID TEXT,
		StartContainerPath TEXT,
		StartContainerChildIndex INTEGER,
		StartOffset INTEGER,
		EndContainerPath TEXT,
		EndContainerChildIndex INTEGER,
		EndOffset INTEGER,
		Text TEXT,
		Annotation TEXT,
		ExtraAnnotationData BLOB,
		DateCreated TEXT,
		ChapterProgress REAL DEFAULT 0,
		Hidden TEXT DEFAULT 'false',
		Version TEXT,
		DateModified TEXT,
		Creator TEXT,
		UUID TEXT,
		UserID TEXT,
		SyncTime TEXT,
		Published TEXT DEFAULT 'false',
		ContextString TEXT,
		Type TEXT,
		PRIMARY KEY (BookmarkID)
	)`,
	`CREATE TABLE WordList (
		Text TEXT NOT NULL,
		VolumeId TEXT,
		DictSuffix TEXT,
		DateCreated TEXT,
		PRIMARY KEY (Text)
	)`,
}

// CreateSchema creates the device tables on db.
func CreateSchema(db *sql.DB) error {
	for _, statement := range schema {
		if _, err := db.Exec(statement); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Create makes deviceRoot look like a mounted Kobo with an empty library and
// returns a writable handle on its database. The caller must close it.
func Create(deviceRoot string) (*sql.DB, error) {
	path := kobo.DatabasePath(deviceRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create device directory: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite3", kobo.FileURI(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
