package utils

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	multipleSpaces       = regexp.MustCompile(`\s+`)
)

// SanitizeFilename makes a book title usable as an Obsidian note name.
func SanitizeFilename(filename string) string {
	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	filename = multipleSpaces.ReplaceAllString(filename, " ")
	filename = strings.TrimSpace(filename)

	// Obsidian treats these as tags and links
	filename = strings.ReplaceAll(filename, "#", "")
	filename = strings.ReplaceAll(filename, "[", "(")
	filename = strings.ReplaceAll(filename, "]", ")")

	if len(filename) > 200 {
		filename = strings.TrimSpace(filename[:200])
	}

	if filename == "" {
		filename = "Untitled"
	}

	return filename
}

// KnownBookExtensions are the sideloaded formats the Kobo firmware indexes.
// Longer suffixes come first so ".kepub.epub" is stripped whole.
var KnownBookExtensions = []string{
	".kepub.epub",
	".epub",
	".pdf",
	".cbz",
	".cbr",
	".mobi",
	".txt",
	".html",
	".rtf",
}

// TitleFromVolumeID derives a readable title from a Kobo volume ID. Sideloaded
// books use a file URL ("file:///mnt/onboard/Books/Dune.kepub.epub"); store
// purchases use an opaque UUID, which is returned unchanged.
func TitleFromVolumeID(volumeID string) string {
	if !strings.HasPrefix(volumeID, "file://") {
		return volumeID
	}

	name := path.Base(strings.TrimPrefix(volumeID, "file://"))
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	lower := strings.ToLower(name)
	for _, ext := range KnownBookExtensions {
		if strings.HasSuffix(lower, ext) {
			name = name[:len(name)-len(ext)]
			break
		}
	}

	name = strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
	if name == "" {
		return volumeID
	}
	return name
}
