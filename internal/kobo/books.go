package kobo

import (
	"context"
	"database/sql"
)

func queryBooks(ctx context.Context, q querier) (readResult[Book], error) {
	return readAll(ctx, q, tableContent, booksQuery, mapBook, ContentTypeBook, ContentTypeBookPart)
}

// mapBook maps a row selected with bookColumns. ContentID, Title, MimeType
// and ContentType are required; progress columns default to zero, also when
// they hold something that is not a number.
func mapBook(rows *sql.Rows) (Book, error) {
	var (
		contentID, title, mimeType, contentType             sql.Null[string]
		isbn, attribution, description, publisher, language lenient[string]
		dateLastRead, userID                                lenient[string]
		percentRead                                         lenient[float64]
		readStatus, timeSpentReading                        lenient[int64]
	)

	err := rows.Scan(
		&contentID,
		&isbn,
		&title,
		&attribution,
		&description,
		&publisher,
		&language,
		&percentRead,
		&readStatus,
		&timeSpentReading,
		&dateLastRead,
		&mimeType,
		&contentType,
		&userID,
	)
	if err != nil {
		return Book{}, err
	}

	switch {
	case !contentID.Valid:
		return Book{}, missing("ContentID")
	case !title.Valid:
		return Book{}, missing("Title")
	case !mimeType.Valid:
		return Book{}, missing("MimeType")
	case !contentType.Valid:
		return Book{}, missing("ContentType")
	}

	return Book{
		ContentID:        contentID.V,
		ISBN:             fromNull(isbn.Null),
		Title:            title.V,
		Attribution:      fromNull(attribution.Null),
		Description:      fromNull(description.Null),
		Publisher:        fromNull(publisher.Null),
		Language:         fromNull(language.Null),
		PercentRead:      clamp(percentRead.V, 0, 100),
		ReadStatus:       readStatusFromCode(readStatus.V),
		TimeSpentReading: int(timeSpentReading.V),
		DateLastRead:     fromNull(dateLastRead.Null),
		MimeType:         mimeType.V,
		ContentType:      contentType.V,
		UserID:           fromNull(userID.Null),
	}, nil
}

// readStatusFromCode maps the ReadStatus column. Codes the firmware may add
// later read as unread.
func readStatusFromCode(code int64) ReadStatus {
	switch status := ReadStatus(code); status {
	case ReadStatusReading, ReadStatusFinished:
		return status
	default:
		return ReadStatusUnread
	}
}
