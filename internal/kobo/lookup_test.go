package kobo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/koboreader/internal/kobo"
)

func setupLookupDevice(t *testing.T) string {
	t.Helper()

	root, db := newDevice(t)
	_, err := db.Exec(`
		INSERT INTO content (ContentID, ContentType, MimeType, Title, ISBN, Attribution)
		VALUES
			('hp1', 6, 'application/epub+zip', 'Harry Potter and the Philosopher''s Stone', 'ISBN-A', 'J.K. Rowling'),
			('hp2', 6, 'application/epub+zip', 'Harry Potter and the Chamber of Secrets', 'ISBN-B', 'J.K. Rowling'),
			('pct', 6, 'application/epub+zip', '100% Pure', 'ISBN-C', NULL),
			('lower', 6, 'application/epub+zip', 'dirty harry', 'ISBN-A-2', NULL)
	`)
	require.NoError(t, err)

	return root
}

func TestFindBook_ByISBN(t *testing.T) {
	root := setupLookupDevice(t)

	book, err := kobo.FindBook(context.Background(), root, kobo.BookQuery{ISBN: "ISBN-A"})
	require.NoError(t, err)

	require.NotNil(t, book)
	assert.Equal(t, "hp1", book.ContentID)
	assert.Equal(t, kobo.Some("ISBN-A"), book.ISBN)
	assert.Equal(t, kobo.Some("J.K. Rowling"), book.Attribution)
}

func TestFindBook_ISBNIsExactMatch(t *testing.T) {
	root := setupLookupDevice(t)

	book, err := kobo.FindBook(context.Background(), root, kobo.BookQuery{ISBN: "ISBN"})
	require.NoError(t, err)
	assert.Nil(t, book)
}

func TestFindBook_ISBNTakesPrecedenceOverTitle(t *testing.T) {
	root := setupLookupDevice(t)

	book, err := kobo.FindBook(context.Background(), root, kobo.BookQuery{ISBN: "ISBN-C", Title: "Harry"})
	require.NoError(t, err)

	require.NotNil(t, book)
	assert.Equal(t, "pct", book.ContentID)
}

func TestFindBook_ByTitleSubstring(t *testing.T) {
	root := setupLookupDevice(t)

	book, err := kobo.FindBook(context.Background(), root, kobo.BookQuery{Title: "Harry"})
	require.NoError(t, err)

	require.NotNil(t, book)
	assert.Contains(t, book.Title, "Harry")
	assert.Equal(t, "hp1", book.ContentID)
}

func TestFindBook_TitleIsCaseSensitive(t *testing.T) {
	root := setupLookupDevice(t)

	book, err := kobo.FindBook(context.Background(), root, kobo.BookQuery{Title: "harry"})
	require.NoError(t, err)

	require.NotNil(t, book)
	assert.Equal(t, "lower", book.ContentID)

	book, err = kobo.FindBook(context.Background(), root, kobo.BookQuery{Title: "HARRY"})
	require.NoError(t, err)
	assert.Nil(t, book)
}

func TestFindBook_TitleIsNotAPattern(t *testing.T) {
	root := setupLookupDevice(t)

	book, err := kobo.FindBook(context.Background(), root, kobo.BookQuery{Title: "0% P"})
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, "pct", book.ContentID)

	book, err = kobo.FindBook(context.Background(), root, kobo.BookQuery{Title: "H%y"})
	require.NoError(t, err)
	assert.Nil(t, book)
}

func TestFindBook_CallerInputIsBound(t *testing.T) {
	root := setupLookupDevice(t)

	book, err := kobo.FindBook(context.Background(), root, kobo.BookQuery{ISBN: "x' OR '1'='1"})
	require.NoError(t, err)
	assert.Nil(t, book)

	book, err = kobo.FindBook(context.Background(), root, kobo.BookQuery{Title: "%' OR 1=1 --"})
	require.NoError(t, err)
	assert.Nil(t, book)
}

func TestFindBook_NoMatch(t *testing.T) {
	root := setupLookupDevice(t)

	book, err := kobo.FindBook(context.Background(), root, kobo.BookQuery{Title: "Dune"})
	require.NoError(t, err)
	assert.Nil(t, book)
}

func TestFindBook_RequiresISBNOrTitle(t *testing.T) {
	// The arguments are validated before the device is touched.
	book, err := kobo.FindBook(context.Background(), "/does/not/exist", kobo.BookQuery{})
	assert.ErrorIs(t, err, kobo.ErrInvalidLookupArgs)
	assert.Nil(t, book)
}
