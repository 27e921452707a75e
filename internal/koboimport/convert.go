// Package koboimport turns a Kobo library snapshot into the entities stored
// by the local highlights database.
package koboimport

import (
	"slices"
	"strings"

	"github.com/mrlokans/koboreader/internal/entities"
	"github.com/mrlokans/koboreader/internal/kobo"
	"github.com/mrlokans/koboreader/internal/utils"
)

const SourceName = "kobo"

var koboSource = entities.Source{
	Name:        SourceName,
	DisplayName: "Kobo",
}

type Result struct {
	Books []entities.Book
	Words []entities.Word
	// Skipped counts bookmarks that carried nothing worth importing:
	// dog-ears and entries with neither text nor annotation.
	Skipped int
}

func (r Result) HighlightCount() int {
	count := 0
	for _, book := range r.Books {
		count += len(book.Highlights)
	}
	return count
}

// Convert groups the snapshot's bookmarks by volume and joins them with the
// book rows. Only books with at least one highlight are returned; bookmarks
// whose volume is unknown get a book titled after the volume's file name.
func Convert(snapshot *kobo.LibrarySnapshot) Result {
	var result Result
	if snapshot == nil {
		return result
	}

	known := make(map[string]kobo.Book, len(snapshot.Books))
	for _, book := range snapshot.Books {
		known[book.ContentID] = book
	}

	bookMap := make(map[string]*entities.Book)
	var order []string

	for _, bm := range snapshot.Bookmarks {
		highlight, ok := convertBookmark(bm)
		if !ok {
			result.Skipped++
			continue
		}

		book, exists := bookMap[bm.VolumeID]
		if !exists {
			if kb, found := known[bm.VolumeID]; found {
				book = convertBook(kb)
			} else {
				book = &entities.Book{
					Title:      utils.TitleFromVolumeID(bm.VolumeID),
					ExternalID: bm.VolumeID,
					Source:     koboSource,
				}
			}
			bookMap[bm.VolumeID] = book
			order = append(order, bm.VolumeID)
		}
		book.Highlights = append(book.Highlights, highlight)
	}

	// Snapshot order first (most recently read), unknown volumes after.
	slices.SortStableFunc(order, func(a, b string) int {
		return rank(snapshot.Books, a) - rank(snapshot.Books, b)
	})

	result.Books = make([]entities.Book, 0, len(order))
	for _, volumeID := range order {
		book := bookMap[volumeID]
		slices.SortStableFunc(book.Highlights, func(a, b entities.Highlight) int {
			return a.HighlightedAt.Compare(b.HighlightedAt)
		})
		result.Books = append(result.Books, *book)
	}

	result.Words = make([]entities.Word, 0, len(snapshot.Vocabulary))
	for _, entry := range snapshot.Vocabulary {
		word := entities.Word{
			Word:       strings.TrimSpace(entry.Text),
			ExternalID: entry.VolumeID,
			Source:     koboSource,
		}
		if word.Word == "" {
			continue
		}
		if t, ok := kobo.ParseTime(entry.DateCreated); ok {
			word.LookedUpAt = t
		}
		if kb, found := known[entry.VolumeID]; found {
			word.SourceBookTitle = kb.Title
			word.SourceBookAuthor = kb.Attribution.OrElse("")
		}
		result.Words = append(result.Words, word)
	}

	return result
}

func rank(books []kobo.Book, volumeID string) int {
	idx := slices.IndexFunc(books, func(b kobo.Book) bool { return b.ContentID == volumeID })
	if idx < 0 {
		return len(books)
	}
	return idx
}

func convertBook(kb kobo.Book) *entities.Book {
	book := &entities.Book{
		Title:        kb.Title,
		Author:       kb.Attribution.OrElse(""),
		ISBN:         kb.ISBN.OrElse(""),
		Publisher:    kb.Publisher.OrElse(""),
		Language:     kb.Language.OrElse(""),
		ExternalID:   kb.ContentID,
		ReadingState: convertReadStatus(kb.ReadStatus),
		PercentRead:  kb.PercentRead,
		Source:       koboSource,
	}
	if kb.DateLastRead.Valid {
		if t, ok := kobo.ParseTime(kb.DateLastRead.Value); ok {
			book.LastReadAt = &t
		}
	}
	return book
}

func convertReadStatus(status kobo.ReadStatus) entities.ReadingState {
	switch status {
	case kobo.ReadStatusReading:
		return entities.ReadingStateReading
	case kobo.ReadStatusFinished:
		return entities.ReadingStateFinished
	default:
		return entities.ReadingStateUnread
	}
}

func convertBookmark(bm kobo.Bookmark) (entities.Highlight, bool) {
	if bm.BookmarkType == kobo.BookmarkTypeDogear {
		return entities.Highlight{}, false
	}

	text := strings.TrimSpace(bm.Text)
	note := strings.TrimSpace(bm.Annotation.OrElse(""))
	if text == "" && note == "" {
		return entities.Highlight{}, false
	}

	highlight := entities.Highlight{
		Text:         text,
		Note:         note,
		Chapter:      chapterName(bm.ContentID, bm.VolumeID),
		Percent:      bm.ChapterProgress,
		LocationType: entities.LocationTypePercent,
		Style:        entities.HighlightStyleHighlight,
		ExternalID:   bm.BookmarkID,
		Source:       koboSource,
	}
	if text == "" {
		highlight.Style = entities.HighlightStyleNoteOnly
	}
	if bm.StartContainerPath.Valid {
		highlight.LocationType = entities.LocationTypeCFI
		highlight.Location = bm.StartContainerPath.Value
	}

	if t, ok := kobo.ParseTime(bm.DateCreated); ok {
		highlight.HighlightedAt = t
	}

	return highlight, true
}

// chapterName extracts the chapter part of a bookmark's content ID, e.g.
// "OEBPS/ch03.xhtml" from "<volume>#(3)OEBPS/ch03.xhtml" or "<volume>!OEBPS!ch03.xhtml".
func chapterName(contentID, volumeID string) string {
	if contentID == "" || contentID == volumeID {
		return ""
	}
	rest := strings.TrimPrefix(contentID, volumeID)
	rest = strings.TrimLeft(rest, "#!/")
	if strings.HasPrefix(rest, "(") {
		if end := strings.Index(rest, ")"); end >= 0 {
			rest = rest[end+1:]
		}
	}
	return strings.ReplaceAll(rest, "!", "/")
}
