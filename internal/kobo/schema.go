package kobo

// The KoboReader.sqlite layout is owned by the device firmware and is not
// documented. Everything below was reverse-engineered from the device and is
// the only place that knows about it.

const (
	koboDirName      = ".kobo"
	databaseFileName = "KoboReader.sqlite"
	versionFileName  = "version"
)

const (
	tableContent  = "content"
	tableEvent    = "Event"
	tableBookmark = "Bookmark"
	tableWordList = "WordList"
)

// Content-type codes used by the content table. Every chapter, image and
// shortcover of a book has its own row; only these two are books.
const (
	ContentTypeBook     = 6
	ContentTypeBookPart = 9
)

// hiddenFalse is how the firmware stores a visible bookmark. The column is
// text, not a boolean.
const hiddenFalse = "false"

const (
	MaxEvents          = 1000
	MaxVocabularyWords = 500
)

const bookColumns = `
	ContentID,
	ISBN,
	Title,
	Attribution,
	Description,
	Publisher,
	Language,
	___PercentRead,
	ReadStatus,
	TimeSpentReading,
	DateLastRead,
	MimeType,
	ContentType,
	___UserID`

var (
	booksQuery = `SELECT` + bookColumns + `
		FROM ` + tableContent + `
		WHERE ContentType IN (?, ?)
		ORDER BY DateLastRead IS NULL, DateLastRead DESC`

	eventsQuery = `SELECT
			Id,
			ContentID,
			Type,
			Count,
			LastOccurrence,
			ExtraData
		FROM ` + tableEvent + `
		ORDER BY LastOccurrence DESC
		LIMIT ?`

	bookmarksQuery = `SELECT
			BookmarkID,
			VolumeID,
			ContentID,
			Text,
			Annotation,
			ChapterProgress,
			StartContainerPath,
			StartOffset,
			EndContainerPath,
			EndOffset,
			DateCreated,
			DateModified,
			Type
		FROM ` + tableBookmark + `
		WHERE Hidden = ?
		ORDER BY DateCreated DESC`

	vocabularyQuery = `SELECT
			Text,
			VolumeID,
			DateCreated
		FROM ` + tableWordList + `
		ORDER BY DateCreated DESC
		LIMIT ?`

	countBooksQuery = `SELECT COUNT(*)
		FROM ` + tableContent + `
		WHERE ContentType IN (?, ?)`

	// instr is case-sensitive and treats % and _ literally, unlike LIKE.
	findBookByISBNQuery = `SELECT` + bookColumns + `
		FROM ` + tableContent + `
		WHERE ISBN = ?
		LIMIT 1`

	findBookByTitleQuery = `SELECT` + bookColumns + `
		FROM ` + tableContent + `
		WHERE instr(Title, ?) > 0
		LIMIT 1`
)
