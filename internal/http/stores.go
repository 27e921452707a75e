package http

import (
	"github.com/mrlokans/koboreader/internal/database"
	"github.com/mrlokans/koboreader/internal/entities"
)

// BookStore is the read side of the local highlights database.
type BookStore interface {
	GetAllBooks() ([]entities.Book, error)
	GetBookByTitleAndAuthor(title, author string) (*entities.Book, error)
	GetAllWords(limit int) ([]entities.Word, error)
	GetStats() (database.Stats, error)
}

var _ BookStore = (*database.Database)(nil)
