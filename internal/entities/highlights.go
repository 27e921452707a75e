package entities

import (
	"time"

	"gorm.io/gorm"
)

type LocationType string

const (
	LocationTypePercent  LocationType = "percent"
	LocationTypeCFI      LocationType = "cfi" // EPUB Canonical Fragment Identifier
	LocationTypePosition LocationType = "position"
	LocationTypeNone     LocationType = "none"
)

type HighlightStyle string

const (
	HighlightStyleHighlight HighlightStyle = "highlight"
	HighlightStyleNoteOnly  HighlightStyle = "note_only"
)

type ReadingState string

const (
	ReadingStateUnread   ReadingState = "unread"
	ReadingStateReading  ReadingState = "reading"
	ReadingStateFinished ReadingState = "finished"
)

type Source struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:50" json:"name"`   // e.g., "kobo"
	DisplayName string    `gorm:"size:100" json:"display_name"`      // e.g., "Kobo"
	CreatedAt   time.Time `json:"created_at"`
}

type Book struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Title        string         `gorm:"index;size:512" json:"title"`
	Author       string         `gorm:"index;size:256" json:"author"`
	ISBN         string         `gorm:"index;size:20" json:"isbn,omitempty"`
	Publisher    string         `gorm:"size:256" json:"publisher,omitempty"`
	Language     string         `gorm:"size:16" json:"language,omitempty"`
	ExternalID   string         `gorm:"index;size:512" json:"external_id,omitempty"` // Kobo VolumeID
	ReadingState ReadingState   `gorm:"size:20" json:"reading_state,omitempty"`
	PercentRead  float64        `json:"percent_read"` // 0-100
	LastReadAt   *time.Time     `json:"last_read_at,omitempty"`
	SourceID     uint           `gorm:"index" json:"source_id"`
	Source       Source         `gorm:"foreignKey:SourceID" json:"source,omitempty"`
	Highlights   []Highlight    `gorm:"foreignKey:BookID" json:"highlights,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type Highlight struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	BookID uint   `gorm:"index" json:"book_id"`
	Text   string `gorm:"type:text" json:"text"`
	Note   string `gorm:"type:text" json:"note,omitempty"`

	// Location information
	LocationType LocationType `gorm:"size:20;default:'percent'" json:"location_type"`
	Location     string       `gorm:"size:512" json:"location,omitempty"` // container path for CFI-like positions
	Percent      float64      `json:"percent,omitempty"`                  // 0.0-1.0 position within the chapter
	Chapter      string       `gorm:"size:512" json:"chapter,omitempty"`

	Style HighlightStyle `gorm:"size:20;default:'highlight'" json:"style,omitempty"`

	HighlightedAt time.Time `json:"highlighted_at,omitempty"` // When user made the highlight

	// Source tracking
	ExternalID string `gorm:"index;size:256" json:"external_id,omitempty"` // Kobo BookmarkID
	SourceID   uint   `gorm:"index" json:"source_id"`
	Source     Source `gorm:"foreignKey:SourceID" json:"source,omitempty"`

	Book Book `gorm:"foreignKey:BookID" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// Word is a dictionary lookup made while reading.
type Word struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Word             string    `gorm:"index;size:256" json:"word"`
	BookID           *uint     `gorm:"index" json:"book_id,omitempty"`
	SourceBookTitle  string    `gorm:"size:512" json:"source_book_title,omitempty"`
	SourceBookAuthor string    `gorm:"size:256" json:"source_book_author,omitempty"`
	ExternalID       string    `gorm:"index;size:512" json:"external_id,omitempty"` // Kobo VolumeID
	LookedUpAt       time.Time `json:"looked_up_at,omitempty"`
	SourceID         uint      `gorm:"index" json:"source_id"`
	Source           Source    `gorm:"foreignKey:SourceID" json:"source,omitempty"`
	Book             *Book     `gorm:"foreignKey:BookID" json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Source) TableName() string {
	return "sources"
}

func (Word) TableName() string {
	return "vocabulary_words"
}
