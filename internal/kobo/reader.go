// Package kobo reads the library state of a Kobo e-reader from the
// KoboReader.sqlite database found on the device.
//
// Every call opens its own read-only connection and closes it before
// returning. Nothing is cached between calls and the device file is never
// written. Calls block on device I/O, which is slow on USB mass storage;
// use the context to bound them.
package kobo

import (
	"context"
	"database/sql"
	"log"
)

// Reader reads the library of the Kobo mounted at a device root.
type Reader struct {
	deviceRoot string
}

// NewReader returns a Reader for the device mounted at deviceRoot. It does
// not touch the filesystem.
func NewReader(deviceRoot string) *Reader {
	return &Reader{deviceRoot: deviceRoot}
}

func (r *Reader) DeviceRoot() string {
	return r.deviceRoot
}

// DatabasePath is where the device keeps KoboReader.sqlite.
func (r *Reader) DatabasePath() string {
	return DatabasePath(r.deviceRoot)
}

// GetBooks returns books and book parts, most recently read first.
func (r *Reader) GetBooks(ctx context.Context) ([]Book, error) {
	return readOne(ctx, r.deviceRoot, tableContent, queryBooks)
}

// GetEvents returns the most recent MaxEvents reading events.
func (r *Reader) GetEvents(ctx context.Context) ([]ReadingEvent, error) {
	return readOne(ctx, r.deviceRoot, tableEvent, queryEvents)
}

// GetBookmarks returns visible bookmarks, newest first.
func (r *Reader) GetBookmarks(ctx context.Context) ([]Bookmark, error) {
	return readOne(ctx, r.deviceRoot, tableBookmark, queryBookmarks)
}

// GetVocabulary returns the most recent MaxVocabularyWords looked-up words.
func (r *Reader) GetVocabulary(ctx context.Context) ([]VocabularyEntry, error) {
	return readOne(ctx, r.deviceRoot, tableWordList, queryVocabulary)
}

func readOne[T any](ctx context.Context, deviceRoot, table string, read func(context.Context, querier) (readResult[T], error)) ([]T, error) {
	var result readResult[T]
	err := withConnection(ctx, deviceRoot, func(db *sql.DB) error {
		var err error
		result, err = read(ctx, db)
		return err
	})
	if err != nil {
		return nil, err
	}

	logDropped(table, result.Dropped)
	return result.Items, nil
}

func logDropped(table string, dropped int) {
	if dropped > 0 {
		log.Printf("Kobo reader: dropped %d unreadable rows from %s", dropped, table)
	}
}

// GetBooks is a shorthand for NewReader(deviceRoot).GetBooks.
func GetBooks(ctx context.Context, deviceRoot string) ([]Book, error) {
	return NewReader(deviceRoot).GetBooks(ctx)
}

// GetEvents is a shorthand for NewReader(deviceRoot).GetEvents.
func GetEvents(ctx context.Context, deviceRoot string) ([]ReadingEvent, error) {
	return NewReader(deviceRoot).GetEvents(ctx)
}

// GetBookmarks is a shorthand for NewReader(deviceRoot).GetBookmarks.
func GetBookmarks(ctx context.Context, deviceRoot string) ([]Bookmark, error) {
	return NewReader(deviceRoot).GetBookmarks(ctx)
}

// GetVocabulary is a shorthand for NewReader(deviceRoot).GetVocabulary.
func GetVocabulary(ctx context.Context, deviceRoot string) ([]VocabularyEntry, error) {
	return NewReader(deviceRoot).GetVocabulary(ctx)
}

// GetLibrarySnapshot is a shorthand for NewReader(deviceRoot).LibrarySnapshot.
func GetLibrarySnapshot(ctx context.Context, deviceRoot string) (*LibrarySnapshot, error) {
	return NewReader(deviceRoot).LibrarySnapshot(ctx)
}

// FindBook is a shorthand for NewReader(deviceRoot).FindBook.
func FindBook(ctx context.Context, deviceRoot string, query BookQuery) (*Book, error) {
	return NewReader(deviceRoot).FindBook(ctx, query)
}
