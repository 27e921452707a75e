// Package kobofake builds fake Kobo device trees with a synthetic
// KoboReader.sqlite, for tests and local development.
package kobofake

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/koboreader/internal/kobo"
)

const timeLayout = "2006-01-02T15:04:05.000"

type sampleBook struct {
	title       string
	author      string
	isbn        string
	description string
	publisher   string
}

var sampleBooks = []sampleBook{
	{"The Great Gatsby", "F. Scott Fitzgerald", "9780743273565", "A classic novel of the Jazz Age", "Scribner"},
	{"1984", "George Orwell", "9780451524935", "A dystopian social science fiction novel", "Signet Classic"},
	{"Pride and Prejudice", "Jane Austen", "9780141439518", "A romantic novel of manners", "Penguin Classics"},
	{"To Kill a Mockingbird", "Harper Lee", "9780061120084", "A story of racial injustice and childhood innocence", "Harper Perennial"},
	{"The Hobbit", "J.R.R. Tolkien", "9780547928227", "A fantasy adventure of a hobbit's journey", "Houghton Mifflin Harcourt"},
	{"Dune", "Frank Herbert", "9780441013593", "A science fiction masterpiece", "Ace"},
	{"The Catcher in the Rye", "J.D. Salinger", "9780316769488", "A story of teenage rebellion and alienation", "Little, Brown and Company"},
}

var sampleHighlights = []string{
	"It was the best of times, it was the worst of times.",
	"All animals are equal, but some animals are more equal than others.",
	"It is a truth universally acknowledged, that a single man in possession of a good fortune, must be in want of a wife.",
	"You never really understand a person until you consider things from his point of view.",
	"In a hole in the ground there lived a hobbit.",
	"The beginning is the most important part of the work.",
	"If you want to keep a secret, you must also hide it from yourself.",
}

var sampleWords = []string{
	"serendipity", "ephemeral", "melancholy", "nostalgia", "ubiquitous",
	"paradigm", "eloquent", "lucid", "pristine", "enigmatic",
}

// Options controls Generate. Zero values pick sensible defaults.
type Options struct {
	Seed int64
	// Now anchors generated dates; defaults to time.Now.
	Now time.Time
	// Books limits how many sample books are written.
	Books int
	// SerialNumber is written to .kobo/version.
	SerialNumber string
}

// Summary reports what Generate wrote.
type Summary struct {
	DatabasePath string
	Books        int
	Events       int
	Bookmarks    int
	Words        int
}

type generator struct {
	rng *rand.Rand
	now time.Time
	db  *sql.DB
}

// Generate creates deviceRoot/.kobo/KoboReader.sqlite filled with sample
// books, reading events, highlights and vocabulary. Output is deterministic
// for a given Seed and Now.
func Generate(deviceRoot string, opts Options) (*Summary, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Books <= 0 || opts.Books > len(sampleBooks) {
		opts.Books = len(sampleBooks)
	}
	if opts.SerialNumber == "" {
		opts.SerialNumber = "N000000000000"
	}

	db, err := Create(deviceRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	g := &generator{
		rng: rand.New(rand.NewSource(opts.Seed)),
		now: opts.Now.UTC(),
		db:  db,
	}

	summary := &Summary{DatabasePath: kobo.DatabasePath(deviceRoot)}
	eventID := 1
	for i, sample := range sampleBooks[:opts.Books] {
		status := kobo.ReadStatus(i % 3)
		contentID, err := g.insertBook(sample, status)
		if err != nil {
			return nil, err
		}
		summary.Books++

		events, err := g.insertEvents(contentID, status, eventID)
		if err != nil {
			return nil, err
		}
		eventID += events
		summary.Events += events

		if status == kobo.ReadStatusUnread {
			continue
		}
		bookmarks, err := g.insertBookmarks(contentID, i)
		if err != nil {
			return nil, err
		}
		summary.Bookmarks += bookmarks

		words, err := g.insertWords(contentID, i)
		if err != nil {
			return nil, err
		}
		summary.Words += words
	}

	version := opts.SerialNumber + ",4.1.15,4.38.21908,4.1.15,4.1.15,00000000-0000-0000-0000-000000000387\n"
	versionPath := filepath.Join(filepath.Dir(summary.DatabasePath), "version")
	if err := os.WriteFile(versionPath, []byte(version), 0644); err != nil {
		return nil, fmt.Errorf("failed to write version file: %w", err)
	}

	return summary, nil
}

func (g *generator) daysAgo(max int) string {
	offset := time.Duration(g.rng.Intn(max*24*60)) * time.Minute
	return g.now.Add(-offset).Format(timeLayout)
}

func (g *generator) newID() string {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (g *generator) insertBook(sample sampleBook, status kobo.ReadStatus) (string, error) {
	contentID := fmt.Sprintf("file:///mnt/onboard/%s.kepub.epub", strings.ReplaceAll(sample.title, " ", "_"))

	var percent float64
	switch status {
	case kobo.ReadStatusFinished:
		percent = 100
	case kobo.ReadStatusReading:
		percent = float64(5 + g.rng.Intn(90))
	}

	var dateLastRead any
	if status != kobo.ReadStatusUnread {
		dateLastRead = g.daysAgo(30)
	}

	_, err := g.db.Exec(`
		INSERT INTO content (
			ContentID, ContentType, MimeType, Title, Attribution, Description,
			Publisher, Language, ISBN, DateLastRead, ReadStatus, ___PercentRead,
			TimeSpentReading, ___UserID
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, contentID, kobo.ContentTypeBook, "application/x-kobo-epub+zip", sample.title, sample.author,
		sample.description, sample.publisher, "en", sample.isbn, dateLastRead, int(status), percent,
		int(percent*(1+g.rng.Float64()*2)), "fake-user-001")
	if err != nil {
		return "", fmt.Errorf("failed to insert book %q: %w", sample.title, err)
	}

	// Chapters share the book's row layout but carry another content type
	// and must never show up as books.
	_, err = g.db.Exec(`
		INSERT INTO content (ContentID, ContentType, MimeType, BookID, Title)
		VALUES (?, ?, ?, ?, ?)
	`, contentID+"#chapter1", 899, "application/xhtml+xml", contentID, "Chapter 1")
	if err != nil {
		return "", fmt.Errorf("failed to insert chapter for %q: %w", sample.title, err)
	}

	return contentID, nil
}

func (g *generator) insertEvents(contentID string, status kobo.ReadStatus, firstID int) (int, error) {
	var types []kobo.EventType
	switch status {
	case kobo.ReadStatusReading:
		types = []kobo.EventType{kobo.EventStartReadingBook, kobo.EventProgress25, kobo.EventLeaveContent}
	case kobo.ReadStatusFinished:
		types = []kobo.EventType{kobo.EventStartReadingBook, kobo.EventProgress25, kobo.EventProgress50,
			kobo.EventProgress75, kobo.EventFinishedReadingBook}
	}

	for i, eventType := range types {
		_, err := g.db.Exec(`
			INSERT INTO Event (Id, ContentID, Type, Count, LastOccurrence)
			VALUES (?, ?, ?, ?, ?)
		`, firstID+i, contentID, int(eventType), 1+g.rng.Intn(5), g.daysAgo(30))
		if err != nil {
			return 0, fmt.Errorf("failed to insert event: %w", err)
		}
	}

	return len(types), nil
}

func (g *generator) insertBookmarks(contentID string, bookIndex int) (int, error) {
	count := 1 + g.rng.Intn(3)
	for i := 0; i < count; i++ {
		text := sampleHighlights[(bookIndex+i)%len(sampleHighlights)]
		bookmarkType := kobo.BookmarkTypeHighlight
		var annotation any
		if i == 1 {
			bookmarkType = kobo.BookmarkTypeAnnotation
			annotation = "Worth rereading."
		}

		_, err := g.db.Exec(`
			INSERT INTO Bookmark (
				BookmarkID, VolumeID, ContentID, Text, Annotation, ChapterProgress,
				StartContainerPath, StartOffset, EndContainerPath, EndOffset,
				DateCreated, Hidden, Type
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'false', ?)
		`, g.newID(), contentID, contentID+"#chapter1", text, annotation, g.rng.Float64(),
			"span#kobo\\.1\\.1", 0, "span#kobo\\.1\\.1", len(text),
			g.daysAgo(60), string(bookmarkType))
		if err != nil {
			return 0, fmt.Errorf("failed to insert bookmark: %w", err)
		}
	}

	return count, nil
}

func (g *generator) insertWords(contentID string, bookIndex int) (int, error) {
	count := 1 + g.rng.Intn(2)
	inserted := 0
	for i := 0; i < count; i++ {
		word := sampleWords[(bookIndex*2+i)%len(sampleWords)]
		result, err := g.db.Exec(`
			INSERT OR IGNORE INTO WordList (Text, VolumeId, DictSuffix, DateCreated)
			VALUES (?, ?, ?, ?)
		`, word, contentID, "-en", g.daysAgo(60))
		if err != nil {
			return 0, fmt.Errorf("failed to insert word %q: %w", word, err)
		}
		if n, err := result.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	return inserted, nil
}
