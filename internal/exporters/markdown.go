package exporters

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrlokans/koboreader/internal/entities"
	"github.com/mrlokans/koboreader/internal/utils"
)

type MarkdownExporter struct {
	ExportDir string
	Now       func() time.Time
	Result    ExportResult
}

func NewMarkdownExporter(exportDir string) *MarkdownExporter {
	return &MarkdownExporter{
		ExportDir: exportDir,
		Now:       time.Now,
	}
}

// FileName returns the markdown file name for a book.
func FileName(book entities.Book) string {
	return utils.SanitizeFilename(book.Title) + ".md"
}

func sourceFolder(book entities.Book) string {
	if book.Source.Name != "" {
		return book.Source.Name
	}
	return "unknown"
}

func (exporter *MarkdownExporter) exportBook(book entities.Book) (string, error) {
	sourceDir := filepath.Join(exporter.ExportDir, sourceFolder(book))
	if err := os.MkdirAll(sourceDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create source directory: %w", err)
	}

	outputPath := filepath.Join(sourceDir, FileName(book))
	content := GenerateMarkdown(&book, exporter.Now())
	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return outputPath, nil
}

func yamlQuote(value string) string {
	return "\"" + strings.ReplaceAll(value, "\"", "\\\"") + "\""
}

func GenerateMarkdown(book *entities.Book, createdAt time.Time) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "---\n")
	fmt.Fprintf(&builder, "content_source: %s\n", sourceFolder(*book))
	fmt.Fprintf(&builder, "content_type: book_highlights\n")
	fmt.Fprintf(&builder, "created_at: %s\n", createdAt.Format("2006-01-02"))
	fmt.Fprintf(&builder, "title: %s\n", yamlQuote(book.Title))
	fmt.Fprintf(&builder, "author: %s\n", yamlQuote(book.Author))
	if book.ISBN != "" {
		fmt.Fprintf(&builder, "isbn: %s\n", yamlQuote(book.ISBN))
	}
	if book.ReadingState != "" {
		fmt.Fprintf(&builder, "reading_state: %s\n", book.ReadingState)
		fmt.Fprintf(&builder, "percent_read: %.0f\n", book.PercentRead)
	}
	fmt.Fprintf(&builder, "tags: highlights, books\n")
	fmt.Fprintf(&builder, "---\n\n")
	fmt.Fprintf(&builder, "## Highlights\n\n")

	for _, highlight := range book.Highlights {
		heading := highlight.Chapter
		if !highlight.HighlightedAt.IsZero() {
			heading = strings.TrimSpace(highlight.HighlightedAt.Format("2006-01-02 15:04") + " " + heading)
		}
		if heading != "" {
			fmt.Fprintf(&builder, "### %s\n\n", heading)
		}
		if highlight.Text != "" {
			fmt.Fprintf(&builder, "> %s\n\n", strings.ReplaceAll(highlight.Text, "\n", "\n> "))
		}
		if highlight.Note != "" {
			fmt.Fprintf(&builder, "**Note:** %s\n\n", highlight.Note)
		}
	}

	return builder.String()
}

// Export writes one file per book. A book that fails to export is logged and
// counted; the remaining books are still written.
func (exporter *MarkdownExporter) Export(books []entities.Book) (ExportResult, error) {
	exporter.Result = ExportResult{}

	if exporter.ExportDir == "" {
		return ExportResult{}, fmt.Errorf("export directory is not set")
	}
	if err := os.MkdirAll(exporter.ExportDir, 0755); err != nil {
		return ExportResult{}, fmt.Errorf("failed to create export directory: %w", err)
	}

	for _, book := range books {
		path, err := exporter.exportBook(book)
		if err != nil {
			log.Printf("Failed to export book '%s': %v", book.Title, err)
			exporter.Result.BooksFailed++
			exporter.Result.HighlightsFailed += len(book.Highlights)
			continue
		}
		log.Printf("Exported book '%s' to %s", book.Title, path)
		exporter.Result.BooksProcessed++
		exporter.Result.HighlightsProcessed += len(book.Highlights)
	}

	return exporter.Result, nil
}
