package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/koboreader/internal/entities"
)

func TestSaveWord(t *testing.T) {
	db := setupTestDB(t)
	lookedUp := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	word := &entities.Word{
		Word:       "sietch",
		ExternalID: "file:///mnt/onboard/dune.epub",
		LookedUpAt: lookedUp,
		Source:     entities.Source{Name: SourceKobo},
	}

	created, err := db.SaveWord(word)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, word.ID)
	assert.NotZero(t, word.SourceID)
	assert.Equal(t, SourceKobo, word.Source.Name)

	again := &entities.Word{
		Word:       "sietch",
		ExternalID: "file:///mnt/onboard/dune.epub",
		LookedUpAt: lookedUp.Add(time.Hour),
		Source:     entities.Source{Name: SourceKobo},
	}
	created, err = db.SaveWord(again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, word.ID, again.ID)

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Words)
}

func TestSaveWord_SameWordDifferentBooks(t *testing.T) {
	db := setupTestDB(t)

	for _, volume := range []string{"dune", "messiah"} {
		created, err := db.SaveWord(&entities.Word{Word: "kwisatz", ExternalID: volume})
		require.NoError(t, err)
		assert.True(t, created)
	}

	words, err := db.GetAllWords(0)
	require.NoError(t, err)
	assert.Len(t, words, 2)
}

func TestGetAllWords(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	book := koboBook()
	require.NoError(t, db.SaveBook(book))

	for i, w := range []string{"oldest", "middle", "newest"} {
		_, err := db.SaveWord(&entities.Word{
			Word:       w,
			ExternalID: book.ExternalID,
			BookID:     &book.ID,
			LookedUpAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	words, err := db.GetAllWords(0)
	require.NoError(t, err)
	require.Len(t, words, 3)
	assert.Equal(t, "newest", words[0].Word)
	require.NotNil(t, words[0].Book)
	assert.Equal(t, "Dune", words[0].Book.Title)

	limited, err := db.GetAllWords(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
