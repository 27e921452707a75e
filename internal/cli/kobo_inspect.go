package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mrlokans/koboreader/internal/kobo"
)

// KoboInspectCommand prints a summary of the library stored on a device.
type KoboInspectCommand struct {
	DevicePath string
	JSON       bool
	Verbose    bool
}

func NewKoboInspectCommand() *KoboInspectCommand {
	return &KoboInspectCommand{}
}

func (cmd *KoboInspectCommand) Run(ctx context.Context, out io.Writer) error {
	notices := out
	if cmd.JSON {
		notices = io.Discard
	}
	device, err := resolveDevice(cmd.DevicePath, notices)
	if err != nil {
		return err
	}

	snapshot, err := kobo.NewReader(device.Root).LibrarySnapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to read library: %w", err)
	}

	if cmd.JSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(snapshot)
	}

	fmt.Fprintln(out, "📚 Kobo Library")
	fmt.Fprintln(out, "===============")
	fmt.Fprintf(out, "📁 Database: %s\n", device.DatabasePath)
	if device.SerialNumber != "" {
		fmt.Fprintf(out, "🔖 Serial: %s (firmware %s)\n", device.SerialNumber, device.FirmwareVersion)
	}
	if device.TotalSpace > 0 {
		fmt.Fprintf(out, "💾 Space: %s free of %s\n", formatBytes(device.FreeSpace), formatBytes(device.TotalSpace))
	}

	stats := snapshot.Stats()
	fmt.Fprintf(out, "\n📖 Books: %d (%d unread, %d reading, %d finished)\n",
		stats.BooksFound, stats.BooksUnread, stats.BooksReading, stats.BooksFinished)
	fmt.Fprintf(out, "🕒 Reading events: %d\n", stats.Events)
	fmt.Fprintf(out, "📝 Bookmarks: %d (%d with notes)\n", stats.Bookmarks, stats.Annotations)
	fmt.Fprintf(out, "🔤 Vocabulary: %d\n", stats.Vocabulary)
	if stats.DroppedRows > 0 {
		fmt.Fprintf(out, "⚠️  %d rows could not be read\n", stats.DroppedRows)
	}

	if cmd.Verbose && len(snapshot.Books) > 0 {
		fmt.Fprintln(out, "\n=== Books ===")
		for i, book := range snapshot.Books {
			fmt.Fprintf(out, "%d. \"%s\" by %s (%s, %.0f%%, %s read)\n",
				i+1, book.Title, book.Attribution.OrElse("Unknown"), book.ReadStatus, book.PercentRead,
				kobo.FormatReadingTime(book.TimeSpentReading))
		}
	}

	return nil
}

func formatBytes(n uint64) string {
	const gb = 1 << 30
	if n >= gb {
		return fmt.Sprintf("%.1f GB", float64(n)/gb)
	}
	return fmt.Sprintf("%d MB", n>>20)
}
