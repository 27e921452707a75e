package koboimport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/koboreader/internal/entities"
	"github.com/mrlokans/koboreader/internal/kobo"
	"github.com/mrlokans/koboreader/internal/kobo/kobofake"
)

const duneVolume = "file:///mnt/onboard/dune.epub"

func testSnapshot() *kobo.LibrarySnapshot {
	return &kobo.LibrarySnapshot{
		Books: []kobo.Book{
			{
				ContentID:    "file:///mnt/onboard/anathem.epub",
				Title:        "Anathem",
				ReadStatus:   kobo.ReadStatusUnread,
				MimeType:     "application/epub+zip",
				ContentType:  "6",
				Attribution:  kobo.Some("Neal Stephenson"),
				DateLastRead: kobo.Optional[string]{},
			},
			{
				ContentID:    duneVolume,
				Title:        "Dune",
				Attribution:  kobo.Some("Frank Herbert"),
				ISBN:         kobo.Some("9780441013593"),
				PercentRead:  42,
				ReadStatus:   kobo.ReadStatusReading,
				DateLastRead: kobo.Some("2024-03-09T21:15:02Z"),
			},
		},
		Bookmarks: []kobo.Bookmark{
			{
				BookmarkID:         "bm-2",
				VolumeID:           duneVolume,
				ContentID:          duneVolume + "#(3)OEBPS/ch03.xhtml",
				Text:               "The spice must flow.",
				ChapterProgress:    0.5,
				StartContainerPath: kobo.Some("span#kobo\\.12\\.1"),
				DateCreated:        "2024-03-09T20:00:00.000",
				BookmarkType:       kobo.BookmarkTypeHighlight,
			},
			{
				BookmarkID:   "bm-1",
				VolumeID:     duneVolume,
				ContentID:    duneVolume + "!OEBPS!ch01.xhtml",
				Text:         "  Fear is the mind-killer.  ",
				Annotation:   kobo.Some("litany"),
				DateCreated:  "2024-03-01T10:00:00.000",
				BookmarkType: kobo.BookmarkTypeAnnotation,
			},
			{
				BookmarkID:   "bm-3",
				VolumeID:     duneVolume,
				Annotation:   kobo.Some("remember this chapter"),
				DateCreated:  "2024-03-05T10:00:00.000",
				BookmarkType: kobo.BookmarkTypeAnnotation,
			},
			{
				BookmarkID:   "dogear",
				VolumeID:     duneVolume,
				DateCreated:  "2024-03-05T10:00:00.000",
				BookmarkType: kobo.BookmarkTypeDogear,
			},
			{
				BookmarkID:   "empty",
				VolumeID:     duneVolume,
				Text:         "   ",
				DateCreated:  "2024-03-05T10:00:00.000",
				BookmarkType: kobo.BookmarkTypeBookmark,
			},
			{
				BookmarkID:   "orphan",
				VolumeID:     "file:///mnt/onboard/removed.epub",
				Text:         "from a deleted book",
				DateCreated:  "not a date",
				BookmarkType: kobo.BookmarkTypeHighlight,
			},
		},
		Vocabulary: []kobo.VocabularyEntry{
			{Text: "sietch", VolumeID: duneVolume, DateCreated: "2024-03-02T08:00:00Z"},
			{Text: " ", VolumeID: duneVolume},
			{Text: "orphaned", VolumeID: "unknown"},
		},
	}
}

func TestConvert_GroupsBookmarksByVolume(t *testing.T) {
	result := Convert(testSnapshot())

	require.Len(t, result.Books, 2, "books without highlights are not imported")
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 4, result.HighlightCount())

	dune := result.Books[0]
	assert.Equal(t, "Dune", dune.Title)
	assert.Equal(t, "Frank Herbert", dune.Author)
	assert.Equal(t, "9780441013593", dune.ISBN)
	assert.Equal(t, duneVolume, dune.ExternalID)
	assert.Equal(t, entities.ReadingStateReading, dune.ReadingState)
	assert.Equal(t, 42.0, dune.PercentRead)
	assert.Equal(t, SourceName, dune.Source.Name)
	require.NotNil(t, dune.LastReadAt)
	assert.True(t, time.Date(2024, 3, 9, 21, 15, 2, 0, time.UTC).Equal(*dune.LastReadAt))

	require.Len(t, dune.Highlights, 3)
	assert.Equal(t, "bm-1", dune.Highlights[0].ExternalID, "highlights are chronological")
	assert.Equal(t, "bm-3", dune.Highlights[1].ExternalID)
	assert.Equal(t, "bm-2", dune.Highlights[2].ExternalID)

	orphan := result.Books[1]
	assert.Equal(t, "removed", orphan.Title)
	assert.Equal(t, "file:///mnt/onboard/removed.epub", orphan.ExternalID)
	require.Len(t, orphan.Highlights, 1)
	assert.True(t, orphan.Highlights[0].HighlightedAt.IsZero())
}

func TestConvert_HighlightFields(t *testing.T) {
	result := Convert(testSnapshot())
	byID := map[string]entities.Highlight{}
	for _, h := range result.Books[0].Highlights {
		byID[h.ExternalID] = h
	}

	annotated := byID["bm-1"]
	assert.Equal(t, "Fear is the mind-killer.", annotated.Text)
	assert.Equal(t, "litany", annotated.Note)
	assert.Equal(t, "OEBPS/ch01.xhtml", annotated.Chapter)
	assert.Equal(t, entities.LocationTypePercent, annotated.LocationType)
	assert.Equal(t, entities.HighlightStyleHighlight, annotated.Style)

	located := byID["bm-2"]
	assert.Equal(t, "OEBPS/ch03.xhtml", located.Chapter)
	assert.Equal(t, entities.LocationTypeCFI, located.LocationType)
	assert.Equal(t, "span#kobo\\.12\\.1", located.Location)
	assert.Equal(t, 0.5, located.Percent)

	noteOnly := byID["bm-3"]
	assert.Empty(t, noteOnly.Text)
	assert.Equal(t, entities.HighlightStyleNoteOnly, noteOnly.Style)
	assert.Empty(t, noteOnly.Chapter)
}

func TestConvert_Vocabulary(t *testing.T) {
	result := Convert(testSnapshot())

	require.Len(t, result.Words, 2)
	sietch := result.Words[0]
	assert.Equal(t, "sietch", sietch.Word)
	assert.Equal(t, duneVolume, sietch.ExternalID)
	assert.Equal(t, "Dune", sietch.SourceBookTitle)
	assert.Equal(t, "Frank Herbert", sietch.SourceBookAuthor)
	assert.False(t, sietch.LookedUpAt.IsZero())

	assert.Empty(t, result.Words[1].SourceBookTitle)
}

func TestConvert_Nil(t *testing.T) {
	result := Convert(nil)
	assert.Empty(t, result.Books)
	assert.Empty(t, result.Words)
}

func TestChapterName(t *testing.T) {
	tests := []struct {
		contentID string
		expected  string
	}{
		{duneVolume, ""},
		{"", ""},
		{duneVolume + "#(12)OEBPS/Text/ch12.xhtml", "OEBPS/Text/ch12.xhtml"},
		{duneVolume + "!OEBPS!ch01.xhtml", "OEBPS/ch01.xhtml"},
		{"other#chapter", "other#chapter"},
	}

	for _, tt := range tests {
		t.Run(tt.contentID, func(t *testing.T) {
			assert.Equal(t, tt.expected, chapterName(tt.contentID, duneVolume))
		})
	}
}

func TestConvert_FakeDevice(t *testing.T) {
	root := t.TempDir()
	summary, err := kobofake.Generate(root, kobofake.Options{Seed: 3})
	require.NoError(t, err)

	snapshot, err := kobo.GetLibrarySnapshot(context.Background(), root)
	require.NoError(t, err)

	result := Convert(snapshot)
	assert.Equal(t, summary.Bookmarks, result.HighlightCount()+result.Skipped)
	assert.Len(t, result.Words, summary.Words)
	for _, book := range result.Books {
		assert.NotEmpty(t, book.Highlights)
		assert.NotEmpty(t, book.Author, "fake bookmarks reference known books")
	}
}
