package kobo

import (
	"context"
	"database/sql"
)

func queryBookmarks(ctx context.Context, q querier) (readResult[Bookmark], error) {
	return readAll(ctx, q, tableBookmark, bookmarksQuery, mapBookmark, hiddenFalse)
}

func mapBookmark(rows *sql.Rows) (Bookmark, error) {
	var (
		bookmarkID, volumeID, contentID, text, dateCreated, bookmarkType sql.Null[string]
		annotation, startPath, endPath, dateModified                     lenient[string]
		chapterProgress                                                  lenient[float64]
		startOffset, endOffset                                           lenient[int64]
	)

	err := rows.Scan(
		&bookmarkID,
		&volumeID,
		&contentID,
		&text,
		&annotation,
		&chapterProgress,
		&startPath,
		&startOffset,
		&endPath,
		&endOffset,
		&dateCreated,
		&dateModified,
		&bookmarkType,
	)
	if err != nil {
		return Bookmark{}, err
	}

	switch {
	case !bookmarkID.Valid:
		return Bookmark{}, missing("BookmarkID")
	case !volumeID.Valid:
		return Bookmark{}, missing("VolumeID")
	case !contentID.Valid:
		return Bookmark{}, missing("ContentID")
	case !text.Valid:
		return Bookmark{}, missing("Text")
	case !dateCreated.Valid:
		return Bookmark{}, missing("DateCreated")
	case !bookmarkType.Valid:
		return Bookmark{}, missing("Type")
	}

	return Bookmark{
		BookmarkID:         bookmarkID.V,
		VolumeID:           volumeID.V,
		ContentID:          contentID.V,
		Text:               text.V,
		Annotation:         fromNull(annotation.Null),
		ChapterProgress:    clamp(chapterProgress.V, 0, 1),
		StartContainerPath: fromNull(startPath.Null),
		StartOffset:        optionalInt(startOffset.Null),
		EndContainerPath:   fromNull(endPath.Null),
		EndOffset:          optionalInt(endOffset.Null),
		DateCreated:        dateCreated.V,
		DateModified:       fromNull(dateModified.Null),
		BookmarkType:       BookmarkType(bookmarkType.V),
	}, nil
}
