package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/mrlokans/koboreader/internal/database"
	"github.com/mrlokans/koboreader/internal/exporters"
	"github.com/mrlokans/koboreader/internal/kobo"
	"github.com/mrlokans/koboreader/internal/koboimport"
)

// KoboImportCommand handles importing highlights and vocabulary from a Kobo
type KoboImportCommand struct {
	DevicePath       string
	DatabasePath     string
	OutputDir        string
	ImportVocabulary bool
	Verbose          bool
	DryRun           bool
}

func NewKoboImportCommand() *KoboImportCommand {
	return &KoboImportCommand{ImportVocabulary: true}
}

// Run executes the import command
func (cmd *KoboImportCommand) Run(ctx context.Context, out io.Writer) error {
	fmt.Fprintln(out, "📚 Kobo Import")
	fmt.Fprintln(out, "==============")

	if cmd.DryRun {
		fmt.Fprintln(out, "🔍 DRY RUN MODE - No changes will be made")
		fmt.Fprintln(out)
	}

	device, err := kobo.Probe(cmd.DevicePath)
	if err != nil {
		return fmt.Errorf("no Kobo found at %q: %w", cmd.DevicePath, err)
	}
	fmt.Fprintf(out, "📁 Kobo DB: %s\n", device.DatabasePath)

	fmt.Fprintln(out, "\n📖 Reading library from device...")
	snapshot, err := kobo.NewReader(device.Root).LibrarySnapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to read library: %w", err)
	}

	result := koboimport.Convert(snapshot)
	if !cmd.ImportVocabulary {
		result.Words = nil
	}

	if len(result.Books) == 0 && len(result.Words) == 0 {
		fmt.Fprintln(out, "ℹ️  No highlights or vocabulary found on the device")
		return nil
	}

	fmt.Fprintf(out, "📚 Found %d books with %d total highlights\n", len(result.Books), result.HighlightCount())
	if len(result.Words) > 0 {
		fmt.Fprintf(out, "🔤 Found %d vocabulary words\n", len(result.Words))
	}
	if result.Skipped > 0 {
		fmt.Fprintf(out, "ℹ️  Skipped %d bookmarks without text\n", result.Skipped)
	}

	if cmd.Verbose {
		fmt.Fprintln(out, "\n=== Books Found ===")
		for i, book := range result.Books {
			fmt.Fprintf(out, "%d. \"%s\" by %s (%d highlights)\n",
				i+1, book.Title, book.Author, len(book.Highlights))
		}
	}

	if cmd.DryRun {
		fmt.Fprintln(out, "\n✅ Dry run complete. Use without --dry-run to import.")
		return nil
	}

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	fmt.Fprintf(out, "\n💾 Saving to database: %s\n", absDBPath)

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	outputDir := cmd.OutputDir
	if outputDir != "" {
		if outputDir, err = filepath.Abs(outputDir); err != nil {
			return fmt.Errorf("failed to get absolute path for output: %w", err)
		}
		fmt.Fprintf(out, "📝 Exporting to markdown: %s\n", outputDir)
	}

	exportResult, err := exporters.NewDatabaseMarkdownExporter(db, outputDir).Export(result.Books)
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	newWords, wordErrors := cmd.saveWords(db, result)

	fmt.Fprintln(out, "\n=== Import Summary ===")
	fmt.Fprintf(out, "📚 Books saved: %d/%d\n", exportResult.BooksProcessed, len(result.Books))
	fmt.Fprintf(out, "📝 Highlights saved: %d\n", exportResult.HighlightsProcessed)
	if len(result.Words) > 0 {
		fmt.Fprintf(out, "🔤 New words: %d\n", newWords)
	}
	if exportResult.BooksFailed > 0 {
		fmt.Fprintf(out, "⚠️  %d books failed\n", exportResult.BooksFailed)
	}
	if len(wordErrors) > 0 {
		fmt.Fprintf(out, "\n⚠️  %d errors occurred:\n", len(wordErrors))
		for _, errMsg := range wordErrors {
			fmt.Fprintf(out, "  ❌ %s\n", errMsg)
		}
	}

	fmt.Fprintln(out, "\n✅ Import complete!")
	return nil
}

// saveWords links words to the books saved in this run and stores them.
func (cmd *KoboImportCommand) saveWords(db *database.Database, result koboimport.Result) (int, []string) {
	bookIDs := make(map[string]uint, len(result.Books))
	for _, book := range result.Books {
		if book.ID != 0 {
			bookIDs[book.ExternalID] = book.ID
		}
	}

	var created int
	var errs []string
	for i := range result.Words {
		word := &result.Words[i]
		if id, ok := bookIDs[word.ExternalID]; ok {
			word.BookID = &id
		}
		isNew, err := db.SaveWord(word)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Failed to save word \"%s\": %v", word.Word, err))
			continue
		}
		if isNew {
			created++
		}
	}
	return created, errs
}
