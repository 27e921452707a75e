package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/mrlokans/koboreader/internal/kobo"
)

// KoboFindCommand looks up one book on the device.
type KoboFindCommand struct {
	DevicePath string
	ISBN       string
	Title      string
}

func NewKoboFindCommand() *KoboFindCommand {
	return &KoboFindCommand{}
}

func (cmd *KoboFindCommand) Run(ctx context.Context, out io.Writer) error {
	book, err := kobo.FindBook(ctx, cmd.DevicePath, kobo.BookQuery{ISBN: cmd.ISBN, Title: cmd.Title})
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if book == nil {
		fmt.Fprintln(out, "ℹ️  Book not found")
		return nil
	}

	fmt.Fprintf(out, "📖 %s\n", book.Title)
	fmt.Fprintf(out, "   Author: %s\n", book.Attribution.OrElse("Unknown"))
	if book.ISBN.Valid {
		fmt.Fprintf(out, "   ISBN: %s\n", book.ISBN.Value)
	}
	if book.Publisher.Valid {
		fmt.Fprintf(out, "   Publisher: %s\n", book.Publisher.Value)
	}
	fmt.Fprintf(out, "   Status: %s (%.0f%%)\n", book.ReadStatus, book.PercentRead)
	fmt.Fprintf(out, "   Reading time: %s\n", kobo.FormatReadingTime(book.TimeSpentReading))
	if book.DateLastRead.Valid {
		fmt.Fprintf(out, "   Last read: %s\n", book.DateLastRead.Value)
	}
	fmt.Fprintf(out, "   Content ID: %s\n", book.ContentID)

	return nil
}
