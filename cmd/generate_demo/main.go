// Command generate_demo creates a fake Kobo device tree with sample books,
// reading events, highlights and vocabulary.
// Usage: go run cmd/generate_demo/main.go [-device ./demo/kobo] [-seed 1]
package main

import (
	"flag"
	"log"

	"github.com/mrlokans/koboreader/internal/kobo/kobofake"
)

const defaultDemoDevicePath = "./demo/kobo"

func main() {
	devicePath := flag.String("device", defaultDemoDevicePath, "directory to create the fake device in")
	seed := flag.Int64("seed", 1, "random seed; the same seed produces the same device")
	books := flag.Int("books", 0, "number of books to generate (0 for all samples)")
	flag.Parse()

	log.Printf("Generating demo Kobo device at %s...", *devicePath)

	summary, err := kobofake.Generate(*devicePath, kobofake.Options{Seed: *seed, Books: *books})
	if err != nil {
		log.Fatalf("Failed to generate demo device: %v", err)
	}

	log.Printf("Wrote %s: %d books, %d events, %d bookmarks, %d words",
		summary.DatabasePath, summary.Books, summary.Events, summary.Bookmarks, summary.Words)
	log.Println("Demo device generated successfully!")
}
