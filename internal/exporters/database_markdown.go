package exporters

import (
	"fmt"
	"log"

	"github.com/mrlokans/koboreader/internal/database"
	"github.com/mrlokans/koboreader/internal/entities"
)

// DatabaseMarkdownExporter saves books to the local store and, when an
// export directory is configured, mirrors them as markdown files.
type DatabaseMarkdownExporter struct {
	db               *database.Database
	markdownExporter *MarkdownExporter
}

func NewDatabaseMarkdownExporter(db *database.Database, exportDir string) *DatabaseMarkdownExporter {
	exporter := &DatabaseMarkdownExporter{db: db}
	if exportDir != "" {
		exporter.markdownExporter = NewMarkdownExporter(exportDir)
	}
	return exporter
}

func (exporter *DatabaseMarkdownExporter) Export(books []entities.Book) (ExportResult, error) {
	result := ExportResult{}

	saved := make([]entities.Book, 0, len(books))
	for i := range books {
		book := &books[i]
		err := exporter.db.SaveBook(book)
		if err != nil {
			log.Printf("Failed to save book '%s' by %s to database: %v", book.Title, book.Author, err)
			result.BooksFailed++
			result.HighlightsFailed += len(book.Highlights)
			continue
		}
		result.BooksProcessed++
		result.HighlightsProcessed += len(book.Highlights)
		saved = append(saved, *book)
	}

	if exporter.markdownExporter != nil {
		markdownResult, err := exporter.markdownExporter.Export(saved)
		if err != nil {
			return result, fmt.Errorf("failed to export to markdown: %w", err)
		}
		result.BooksFailed += markdownResult.BooksFailed
		result.HighlightsFailed += markdownResult.HighlightsFailed
	}

	log.Printf("Export completed: %d books processed, %d highlights processed, %d books failed, %d highlights failed",
		result.BooksProcessed, result.HighlightsProcessed, result.BooksFailed, result.HighlightsFailed)

	return result, nil
}

var _ BookExporter = (*DatabaseMarkdownExporter)(nil)
var _ BookExporter = (*MarkdownExporter)(nil)
