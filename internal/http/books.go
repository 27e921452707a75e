package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BooksController serves what has been imported into the local database.
type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{store: store}
}

func (controller *BooksController) GetAllBooks(c *gin.Context) {
	books, err := controller.store.GetAllBooks()
	if err != nil {
		respondInternalError(c, err, "get books")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (controller *BooksController) GetBookByTitleAndAuthor(c *gin.Context) {
	title := c.Query("title")
	author := c.Query("author")

	if title == "" || author == "" {
		respondBadRequest(c, "title and author query parameters are required")
		return
	}

	book, err := controller.store.GetBookByTitleAndAuthor(title, author)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}

	c.IndentedJSON(http.StatusOK, book)
}

func (controller *BooksController) GetWords(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	words, err := controller.store.GetAllWords(limit)
	if err != nil {
		respondInternalError(c, err, "get words")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"words": words, "count": len(words)})
}

func (controller *BooksController) GetStats(c *gin.Context) {
	stats, err := controller.store.GetStats()
	if err != nil {
		respondInternalError(c, err, "get stats")
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"total_books":      stats.Books,
		"total_highlights": stats.Highlights,
		"total_words":      stats.Words,
	})
}
