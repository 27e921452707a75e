package database

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/koboreader/internal/entities"
)

// SaveWord stores a looked-up word. A word already imported for the same
// book is only refreshed; the return value reports whether a row was created.
func (d *Database) SaveWord(word *entities.Word) (bool, error) {
	if word.SourceID == 0 {
		word.SourceID = d.resolveSourceID(word.Source)
	}
	source := word.Source
	word.Source = entities.Source{}
	defer func() { word.Source = source }()

	var existing entities.Word
	err := d.DB.Where("word = ? AND external_id = ?", word.Word, word.ExternalID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, d.DB.Omit("Book").Create(word).Error
	}
	if err != nil {
		return false, err
	}

	word.ID = existing.ID
	word.CreatedAt = existing.CreatedAt
	return false, d.DB.Omit("Book").Save(word).Error
}

// GetAllWords returns words, most recently looked up first.
func (d *Database) GetAllWords(limit int) ([]entities.Word, error) {
	var words []entities.Word
	query := d.DB.Preload("Book").Order("looked_up_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&words).Error
	return words, err
}
