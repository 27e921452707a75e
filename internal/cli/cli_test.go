package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/koboreader/internal/config"
	"github.com/mrlokans/koboreader/internal/database"
	"github.com/mrlokans/koboreader/internal/kobo"
	"github.com/mrlokans/koboreader/internal/kobo/kobofake"
)

func TestMain(m *testing.M) {
	detectDevices = func() []kobo.DeviceInfo { return nil }
	os.Exit(m.Run())
}

func stubDetection(t *testing.T, devices ...kobo.DeviceInfo) {
	t.Helper()
	previous := detectDevices
	detectDevices = func() []kobo.DeviceInfo { return devices }
	t.Cleanup(func() { detectDevices = previous })
}

func fakeDevice(t *testing.T) (string, *kobofake.Summary) {
	t.Helper()
	root := t.TempDir()
	summary, err := kobofake.Generate(root, kobofake.Options{
		Seed: 11,
		Now:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return root, summary
}

func testConfig(t *testing.T, device string) *config.Config {
	return &config.Config{
		Kobo:     config.Kobo{DevicePath: device, ImportVocabulary: true},
		Database: config.Database{Path: filepath.Join(t.TempDir(), "highlights.db")},
	}
}

func execute(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand(cfg, "test")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestInspect(t *testing.T) {
	device, summary := fakeDevice(t)

	out, err := execute(t, testConfig(t, device), "inspect", "--verbose")
	require.NoError(t, err)

	assert.Contains(t, out, kobo.DatabasePath(device))
	assert.Contains(t, out, "🔖 Serial: N000000000000")
	assert.Contains(t, out, "=== Books ===")
	assert.Contains(t, out, "📖 Books: 7 (3 unread, 2 reading, 2 finished)")
	assert.Contains(t, out, "🔤 Vocabulary: ")
	assert.Contains(t, out, " read)")
	assert.NotZero(t, summary.Words)
}

func TestInspect_FallsBackToDetectedDevice(t *testing.T) {
	device, _ := fakeDevice(t)
	detected, err := kobo.Probe(device)
	require.NoError(t, err)
	stubDetection(t, *detected)

	missing := t.TempDir()
	out, err := execute(t, testConfig(t, missing), "inspect")
	require.NoError(t, err)
	assert.Contains(t, out, "No Kobo at "+missing+", using "+device)
	assert.Contains(t, out, "📖 Books: 7")

	out, err = execute(t, testConfig(t, missing), "inspect", "--json")
	require.NoError(t, err)
	var snapshot kobo.LibrarySnapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snapshot), "notices must not leak into JSON output")
}

func TestInspect_JSON(t *testing.T) {
	device, summary := fakeDevice(t)

	out, err := execute(t, testConfig(t, device), "inspect", "--json")
	require.NoError(t, err)

	var snapshot kobo.LibrarySnapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snapshot))
	assert.Len(t, snapshot.Books, summary.Books)
	assert.Len(t, snapshot.Bookmarks, summary.Bookmarks)
}

func TestInspect_DeviceFlagOverridesConfig(t *testing.T) {
	device, _ := fakeDevice(t)

	_, err := execute(t, testConfig(t, t.TempDir()), "inspect")
	assert.ErrorIs(t, err, kobo.ErrPathInvalid)

	_, err = execute(t, testConfig(t, t.TempDir()), "inspect", "--device", device)
	assert.NoError(t, err)
}

func TestFind(t *testing.T) {
	device, _ := fakeDevice(t)
	cfg := testConfig(t, device)

	out, err := execute(t, cfg, "find", "--title", "Dune")
	require.NoError(t, err)
	assert.Contains(t, out, "📖 Dune")
	assert.Contains(t, out, "Frank Herbert")
	assert.Contains(t, out, "Reading time: ")

	out, err = execute(t, cfg, "find", "--title", "dune")
	require.NoError(t, err)
	assert.Contains(t, out, "Book not found")

	_, err = execute(t, cfg, "find")
	assert.ErrorIs(t, err, kobo.ErrInvalidLookupArgs)
}

func TestImport_DryRun(t *testing.T) {
	device, _ := fakeDevice(t)
	cfg := testConfig(t, device)

	out, err := execute(t, cfg, "import", "--dry-run", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "DRY RUN MODE")
	assert.Contains(t, out, "=== Books Found ===")

	_, err = os.Stat(cfg.Database.Path)
	assert.True(t, os.IsNotExist(err), "dry run must not create the database")
}

func TestImport(t *testing.T) {
	device, summary := fakeDevice(t)
	cfg := testConfig(t, device)
	exportDir := filepath.Join(t.TempDir(), "vault")

	out, err := execute(t, cfg, "import", "--output", exportDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✅ Import complete!")

	// Importing the same device again must not duplicate anything.
	_, err = execute(t, cfg, "import")
	require.NoError(t, err)

	db, err := database.NewDatabase(cfg.Database.Path)
	require.NoError(t, err)
	defer db.Close()

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(summary.Bookmarks), stats.Highlights)
	assert.Equal(t, int64(summary.Words), stats.Words)
	assert.NotZero(t, stats.Books)

	words, err := db.GetAllWords(0)
	require.NoError(t, err)
	linked := 0
	for _, w := range words {
		if w.BookID != nil {
			linked++
		}
	}
	assert.NotZero(t, linked)

	entries, err := os.ReadDir(filepath.Join(exportDir, "kobo"))
	require.NoError(t, err)
	assert.Len(t, entries, int(stats.Books))
}

func TestImport_WithoutVocabulary(t *testing.T) {
	device, _ := fakeDevice(t)
	cfg := testConfig(t, device)
	cfg.Kobo.ImportVocabulary = false

	_, err := execute(t, cfg, "import")
	require.NoError(t, err)

	db, err := database.NewDatabase(cfg.Database.Path)
	require.NoError(t, err)
	defer db.Close()

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Zero(t, stats.Words)
}

// cancelOnOutput cancels once marker has been written.
type cancelOnOutput struct {
	bytes.Buffer
	marker string
	cancel context.CancelFunc
}

func (w *cancelOnOutput) Write(p []byte) (int, error) {
	n, err := w.Buffer.Write(p)
	if strings.Contains(w.Buffer.String(), w.marker) {
		w.cancel()
	}
	return n, err
}

func TestWatch_ImportsOnStartAndStopsOnCancel(t *testing.T) {
	device, summary := fakeDevice(t)
	cfg := testConfig(t, device)

	watch := NewKoboWatchCommand()
	watch.Schedule = "0 0 1 1 *"
	watch.Import.DevicePath = device
	watch.Import.DatabasePath = cfg.Database.Path

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &cancelOnOutput{marker: "Import complete", cancel: cancel}
	require.NoError(t, watch.Run(ctx, out))
	assert.Contains(t, out.String(), "Custom schedule: 0 0 1 1 *")
	assert.Contains(t, out.String(), "Stopped watching")

	db, err := database.NewDatabase(cfg.Database.Path)
	require.NoError(t, err)
	defer db.Close()

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(summary.Bookmarks), stats.Highlights)
}

func TestWatch_UsesDetectedDevice(t *testing.T) {
	device, summary := fakeDevice(t)
	detected, err := kobo.Probe(device)
	require.NoError(t, err)
	stubDetection(t, *detected)

	cfg := testConfig(t, t.TempDir())
	watch := NewKoboWatchCommand()
	watch.Schedule = "0 0 1 1 *"
	watch.Import.DevicePath = cfg.Kobo.DevicePath
	watch.Import.DatabasePath = cfg.Database.Path

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &cancelOnOutput{marker: "Import complete", cancel: cancel}
	require.NoError(t, watch.Run(ctx, out))

	db, err := database.NewDatabase(cfg.Database.Path)
	require.NoError(t, err)
	defer db.Close()

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(summary.Bookmarks), stats.Highlights)
}

func TestWatch_InvalidSchedule(t *testing.T) {
	device, _ := fakeDevice(t)

	_, err := execute(t, testConfig(t, device), "watch", "--schedule", "whenever")
	assert.Error(t, err)
}

func TestServe_StopsOnCancel(t *testing.T) {
	device, _ := fakeDevice(t)
	cfg := testConfig(t, device)

	serve := NewServeCommand()
	serve.Addr = "127.0.0.1:0"
	serve.DatabasePath = cfg.Database.Path
	serve.DevicePath = device

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, serve.Run(ctx))
	_, err := os.Stat(cfg.Database.Path)
	assert.NoError(t, err)
}
