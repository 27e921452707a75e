package kobo

import (
	"context"
	"database/sql"
)

func queryEvents(ctx context.Context, q querier) (readResult[ReadingEvent], error) {
	return readAll(ctx, q, tableEvent, eventsQuery, mapEvent, MaxEvents)
}

func mapEvent(rows *sql.Rows) (ReadingEvent, error) {
	var (
		id, eventType, eventCount sql.Null[int64]
		contentID, lastOccurrence sql.Null[string]
		extraData                 lenient[[]byte]
	)

	if err := rows.Scan(&id, &contentID, &eventType, &eventCount, &lastOccurrence, &extraData); err != nil {
		return ReadingEvent{}, err
	}

	switch {
	case !id.Valid:
		return ReadingEvent{}, missing("Id")
	case !contentID.Valid:
		return ReadingEvent{}, missing("ContentID")
	case !eventType.Valid:
		return ReadingEvent{}, missing("Type")
	case !eventCount.Valid:
		return ReadingEvent{}, missing("Count")
	case !lastOccurrence.Valid:
		return ReadingEvent{}, missing("LastOccurrence")
	}

	return ReadingEvent{
		ID:             int(id.V),
		ContentID:      contentID.V,
		EventType:      EventType(eventType.V),
		EventCount:     int(eventCount.V),
		LastOccurrence: lastOccurrence.V,
		ExtraData:      fromNull(extraData.Null),
	}, nil
}
