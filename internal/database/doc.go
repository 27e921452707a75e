// Package database is the local gorm store that Kobo imports are written to.
//
// A Database wraps a SQLite file opened through gorm. Opening it migrates
// the schema and seeds the known sources:
//
//	db, err := database.NewDatabase("./highlights.db")
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
// Books are upserted with SaveBook. Re-importing the same device updates
// the existing rows instead of duplicating them: books are matched by their
// Kobo volume ID and highlights by their bookmark ID. Dictionary lookups are
// stored with SaveWord.
package database
