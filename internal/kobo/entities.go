package kobo

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Optional holds a value read from a nullable device column. Valid is false
// when the column was NULL, which is distinct from a present zero value.
type Optional[T any] struct {
	Value T
	Valid bool
}

// Some returns a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true}
}

// OrElse returns the value, or def when the column was NULL.
func (o Optional[T]) OrElse(def T) T {
	if !o.Valid {
		return def
	}
	return o.Value
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Optional[T]{}
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

func fromNull[T any](n sql.Null[T]) Optional[T] {
	return Optional[T]{Value: n.V, Valid: n.Valid}
}

type ReadStatus int

const (
	ReadStatusUnread   ReadStatus = 0
	ReadStatusReading  ReadStatus = 1
	ReadStatusFinished ReadStatus = 2
)

func (s ReadStatus) String() string {
	switch s {
	case ReadStatusUnread:
		return "unread"
	case ReadStatusReading:
		return "reading"
	case ReadStatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// EventType is the Event.Type code. Codes not listed here are kept as read.
type EventType int

const (
	EventStartReadingBook    EventType = 3
	EventFinishedReadingBook EventType = 5
	EventProgress25          EventType = 1011
	EventProgress50          EventType = 1013
	EventProgress75          EventType = 1014
	EventLeaveContent        EventType = 1021
)

func (t EventType) String() string {
	switch t {
	case EventStartReadingBook:
		return "start_reading_book"
	case EventFinishedReadingBook:
		return "finished_reading_book"
	case EventProgress25:
		return "progress_25"
	case EventProgress50:
		return "progress_50"
	case EventProgress75:
		return "progress_75"
	case EventLeaveContent:
		return "leave_content"
	default:
		return "unknown"
	}
}

type BookmarkType string

const (
	BookmarkTypeHighlight  BookmarkType = "highlight"
	BookmarkTypeAnnotation BookmarkType = "annotation"
	BookmarkTypeBookmark   BookmarkType = "bookmark"
	BookmarkTypeDogear     BookmarkType = "dogear"
)

// Book is a row of the content table with ContentType 6 or 9.
type Book struct {
	ContentID        string           `json:"content_id"`
	ISBN             Optional[string] `json:"isbn"`
	Title            string           `json:"title"`
	Attribution      Optional[string] `json:"attribution"` // author
	Description      Optional[string] `json:"description"`
	Publisher        Optional[string] `json:"publisher"`
	Language         Optional[string] `json:"language"`
	PercentRead      float64          `json:"percent_read"` // 0-100
	ReadStatus       ReadStatus       `json:"read_status"`
	TimeSpentReading int              `json:"time_spent_reading"` // minutes
	DateLastRead     Optional[string] `json:"date_last_read"`
	MimeType         string           `json:"mime_type"`
	ContentType      string           `json:"content_type"`
	UserID           Optional[string] `json:"user_id"`
}

type ReadingEvent struct {
	ID             int              `json:"id"`
	ContentID      string           `json:"content_id"`
	EventType      EventType        `json:"event_type"`
	EventCount     int              `json:"event_count"`
	LastOccurrence string           `json:"last_occurrence"`
	ExtraData      Optional[[]byte] `json:"extra_data"`
}

// Bookmark is a highlight, annotation, bookmark or dog-ear.
type Bookmark struct {
	BookmarkID         string           `json:"bookmark_id"`
	VolumeID           string           `json:"volume_id"`
	ContentID          string           `json:"content_id"`
	Text               string           `json:"text"`
	Annotation         Optional[string] `json:"annotation"`
	ChapterProgress    float64          `json:"chapter_progress"` // 0-1
	StartContainerPath Optional[string] `json:"start_container_path"`
	StartOffset        Optional[int]    `json:"start_offset"`
	EndContainerPath   Optional[string] `json:"end_container_path"`
	EndOffset          Optional[int]    `json:"end_offset"`
	DateCreated        string           `json:"date_created"`
	DateModified       Optional[string] `json:"date_modified"`
	BookmarkType       BookmarkType     `json:"bookmark_type"`
}

type VocabularyEntry struct {
	Text        string `json:"text"`
	VolumeID    string `json:"volume_id"`
	DateCreated string `json:"date_created"`
}

// timeLayouts covers the formats the firmware has written over the years.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
}

// ParseTime parses a device timestamp. Timestamps without a zone are UTC.
func ParseTime(value string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
