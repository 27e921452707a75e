package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "removes invalid characters",
			input:    `file<>:"/\|?*name`,
			expected: "filename",
		},
		{
			name:     "replaces newlines and tabs with spaces",
			input:    "file\nname\twith\rspaces",
			expected: "file name with spaces",
		},
		{
			name:     "collapses multiple spaces",
			input:    "file   name  with    spaces",
			expected: "file name with spaces",
		},
		{
			name:     "removes hashtags",
			input:    "#hashtag #title",
			expected: "hashtag title",
		},
		{
			name:     "replaces square brackets",
			input:    "title [subtitle]",
			expected: "title (subtitle)",
		},
		{
			name:     "returns Untitled for only special chars",
			input:    "<>:?*",
			expected: "Untitled",
		},
		{
			name:     "truncates long names",
			input:    strings.Repeat("a", 250),
			expected: strings.Repeat("a", 200),
		},
		{
			name:     "keeps unicode",
			input:    "Pamiętnik znaleziony w wannie",
			expected: "Pamiętnik znaleziony w wannie",
		},
		{
			name:     "series title",
			input:    `Dune: "Messiah" [Dune #2]`,
			expected: "Dune Messiah (Dune 2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestTitleFromVolumeID(t *testing.T) {
	tests := []struct {
		name     string
		volumeID string
		expected string
	}{
		{
			name:     "sideloaded kepub",
			volumeID: "file:///mnt/onboard/Books/Dune.kepub.epub",
			expected: "Dune",
		},
		{
			name:     "escaped file name",
			volumeID: "file:///mnt/onboard/The%20Hobbit.epub",
			expected: "The Hobbit",
		},
		{
			name:     "underscores and upper-case extension",
			volumeID: "file:///mnt/onboard/war_and_peace.PDF",
			expected: "war and peace",
		},
		{
			name:     "store purchase",
			volumeID: "a1b2c3d4-0000-4000-8000-000000000001",
			expected: "a1b2c3d4-0000-4000-8000-000000000001",
		},
		{
			name:     "bare extension",
			volumeID: "file:///mnt/onboard/.epub",
			expected: "file:///mnt/onboard/.epub",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TitleFromVolumeID(tt.volumeID))
		})
	}
}
