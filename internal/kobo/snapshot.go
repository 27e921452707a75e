package kobo

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// LibrarySnapshot is one consistent read of the four device collections.
// LastSync is the host clock when the read finished; the device clock is
// never trusted.
type LibrarySnapshot struct {
	Books      []Book            `json:"books"`
	Events     []ReadingEvent    `json:"events"`
	Bookmarks  []Bookmark        `json:"bookmarks"`
	Vocabulary []VocabularyEntry `json:"vocabulary"`
	LastSync   time.Time         `json:"last_sync"`
	Dropped    DroppedRows       `json:"dropped"`
}

// DroppedRows counts rows per collection that were skipped during mapping.
type DroppedRows struct {
	Books      int `json:"books"`
	Events     int `json:"events"`
	Bookmarks  int `json:"bookmarks"`
	Vocabulary int `json:"vocabulary"`
}

func (d DroppedRows) Total() int {
	return d.Books + d.Events + d.Bookmarks + d.Vocabulary
}

// LibrarySnapshot reads all four collections on one connection inside a
// single read transaction. If any read fails the partial results are
// discarded and one error naming the failed collection is returned.
func (r *Reader) LibrarySnapshot(ctx context.Context) (*LibrarySnapshot, error) {
	var snapshot *LibrarySnapshot
	err := withConnection(ctx, r.deviceRoot, func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("%w: %w: %w", ErrSnapshot, ErrQuery, err)
		}
		// Nothing is written, so the transaction is only ever rolled back.
		defer tx.Rollback()

		snapshot, err = readSnapshot(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	logDropped(tableContent, snapshot.Dropped.Books)
	logDropped(tableEvent, snapshot.Dropped.Events)
	logDropped(tableBookmark, snapshot.Dropped.Bookmarks)
	logDropped(tableWordList, snapshot.Dropped.Vocabulary)

	return snapshot, nil
}

func readSnapshot(ctx context.Context, q querier) (*LibrarySnapshot, error) {
	books, err := queryBooks(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: books: %w", ErrSnapshot, err)
	}

	events, err := queryEvents(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: events: %w", ErrSnapshot, err)
	}

	bookmarks, err := queryBookmarks(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: bookmarks: %w", ErrSnapshot, err)
	}

	vocabulary, err := queryVocabulary(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: vocabulary: %w", ErrSnapshot, err)
	}

	return &LibrarySnapshot{
		Books:      books.Items,
		Events:     events.Items,
		Bookmarks:  bookmarks.Items,
		Vocabulary: vocabulary.Items,
		LastSync:   time.Now().UTC(),
		Dropped: DroppedRows{
			Books:      books.Dropped,
			Events:     events.Dropped,
			Bookmarks:  bookmarks.Dropped,
			Vocabulary: vocabulary.Dropped,
		},
	}, nil
}

// SyncStats summarises a snapshot for display.
type SyncStats struct {
	BooksFound    int `json:"books_found"`
	BooksUnread   int `json:"books_unread"`
	BooksReading  int `json:"books_reading"`
	BooksFinished int `json:"books_finished"`
	Events        int `json:"events"`
	Bookmarks     int `json:"bookmarks"`
	Annotations   int `json:"annotations"`
	Vocabulary    int `json:"vocabulary"`
	DroppedRows   int `json:"dropped_rows"`
}

func (s *LibrarySnapshot) Stats() SyncStats {
	stats := SyncStats{
		BooksFound:  len(s.Books),
		Events:      len(s.Events),
		Bookmarks:   len(s.Bookmarks),
		Vocabulary:  len(s.Vocabulary),
		DroppedRows: s.Dropped.Total(),
	}

	for _, book := range s.Books {
		switch book.ReadStatus {
		case ReadStatusReading:
			stats.BooksReading++
		case ReadStatusFinished:
			stats.BooksFinished++
		default:
			stats.BooksUnread++
		}
	}

	for _, bookmark := range s.Bookmarks {
		if bookmark.Annotation.OrElse("") != "" {
			stats.Annotations++
		}
	}

	return stats
}
