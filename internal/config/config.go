package config

import (
	"fmt"
	"runtime"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Kobo
		Obsidian
		Database
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}

	Kobo struct {
		DevicePath       string // Mount point of the eReader
		ImportVocabulary bool   // Import WordList lookups along with highlights
		ImportSchedule   string // Cron format used by "kobo watch"
	}
	Obsidian struct {
		ExportDir string // Directory for markdown exports
	}
	Database struct {
		Path string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func (h HTTP) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// DefaultKoboMount returns where the eReader is mounted by default on goos.
func DefaultKoboMount(goos string) string {
	if goos == "darwin" {
		return DefaultKoboMountDarwin
	}
	return DefaultKoboMountLinux
}

// getObsidianExportDir returns the export directory, checking both new and legacy env vars
func getObsidianExportDir(v *viper.Viper) string {
	if dir := v.GetString("OBSIDIAN_EXPORT_DIR"); dir != "" {
		return dir
	}
	return v.GetString("OBSIDIAN_VAULT_DIR")
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("kobo_device_path", DefaultKoboMount(runtime.GOOS))
	v.SetDefault("kobo_import_vocabulary", true)
	v.SetDefault("kobo_import_schedule", "*/15 * * * *")
	v.SetDefault("obsidian_export_dir", "")
	v.SetDefault("database_path", DefaultDatabasePath)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Kobo: Kobo{
			DevicePath:       v.GetString("KOBO_DEVICE_PATH"),
			ImportVocabulary: v.GetBool("KOBO_IMPORT_VOCABULARY"),
			ImportSchedule:   v.GetString("KOBO_IMPORT_SCHEDULE"),
		},
		Obsidian: Obsidian{
			ExportDir: getObsidianExportDir(v),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
