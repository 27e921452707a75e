package kobo

import (
	"context"
	"database/sql"
)

func queryVocabulary(ctx context.Context, q querier) (readResult[VocabularyEntry], error) {
	return readAll(ctx, q, tableWordList, vocabularyQuery, mapVocabularyEntry, MaxVocabularyWords)
}

func mapVocabularyEntry(rows *sql.Rows) (VocabularyEntry, error) {
	var text, volumeID, dateCreated sql.Null[string]
	if err := rows.Scan(&text, &volumeID, &dateCreated); err != nil {
		return VocabularyEntry{}, err
	}

	switch {
	case !text.Valid:
		return VocabularyEntry{}, missing("Text")
	case !volumeID.Valid:
		return VocabularyEntry{}, missing("VolumeID")
	case !dateCreated.Valid:
		return VocabularyEntry{}, missing("DateCreated")
	}

	return VocabularyEntry{
		Text:        text.V,
		VolumeID:    volumeID.V,
		DateCreated: dateCreated.V,
	}, nil
}
