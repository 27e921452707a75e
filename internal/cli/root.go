package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrlokans/koboreader/internal/config"
)

// NewRootCommand builds the kobo command tree. Flag defaults come from cfg.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "kobo",
		Short:         "Read highlights, reading progress and vocabulary from a Kobo eReader",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("device", cfg.Kobo.DevicePath, "Mount point of the Kobo eReader")

	root.AddCommand(
		newInspectCommand(),
		newFindCommand(),
		newImportCommand(cfg),
		newWatchCommand(cfg),
		newServeCommand(cfg, version),
	)

	return root
}

func devicePath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("device")
	return path
}

func newInspectCommand() *cobra.Command {
	inspect := NewKoboInspectCommand()
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show what is stored on the device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inspect.DevicePath = devicePath(cmd)
			return inspect.Run(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&inspect.JSON, "json", false, "Print the full library snapshot as JSON")
	cmd.Flags().BoolVar(&inspect.Verbose, "verbose", false, "List books and their progress")
	return cmd
}

func newFindCommand() *cobra.Command {
	find := NewKoboFindCommand()
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Look up a single book by ISBN or title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			find.DevicePath = devicePath(cmd)
			return find.Run(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&find.ISBN, "isbn", "", "Exact ISBN to look for")
	cmd.Flags().StringVar(&find.Title, "title", "", "Case-sensitive part of the title")
	return cmd
}

func newImportCommand(cfg *config.Config) *cobra.Command {
	imp := NewKoboImportCommand()
	imp.ImportVocabulary = cfg.Kobo.ImportVocabulary
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import highlights and vocabulary into the local database",
		Long: `Import highlights and vocabulary into the local database.

By default, highlights are only saved to the database. Use --output to also
export them as Obsidian-compatible markdown files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			imp.DevicePath = devicePath(cmd)
			return imp.Run(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&imp.DatabasePath, "db", cfg.Database.Path, "Path to the local database file for storing imported highlights")
	cmd.Flags().StringVar(&imp.OutputDir, "output", cfg.Obsidian.ExportDir, "Output directory for markdown files")
	cmd.Flags().BoolVar(&imp.Verbose, "verbose", false, "Enable verbose output")
	cmd.Flags().BoolVar(&imp.DryRun, "dry-run", false, "Show what would be imported without making changes")
	return cmd
}

func newWatchCommand(cfg *config.Config) *cobra.Command {
	watch := NewKoboWatchCommand()
	watch.Import.ImportVocabulary = cfg.Kobo.ImportVocabulary
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Import whenever the Kobo is mounted, on a cron schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			watch.Import.DevicePath = devicePath(cmd)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watch.Run(ctx, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&watch.Schedule, "schedule", cfg.Kobo.ImportSchedule, "Cron schedule (minute hour dom month dow)")
	cmd.Flags().StringVar(&watch.Import.DatabasePath, "db", cfg.Database.Path, "Path to the local database file for storing imported highlights")
	cmd.Flags().StringVar(&watch.Import.OutputDir, "output", cfg.Obsidian.ExportDir, "Output directory for markdown files")
	return cmd
}

func newServeCommand(cfg *config.Config, version string) *cobra.Command {
	serve := NewServeCommand()
	serve.Addr = cfg.HTTP.Addr()
	serve.ShutdownTimeout = time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	serve.Version = version
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local database and the mounted device as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			serve.DevicePath = devicePath(cmd)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&serve.Addr, "addr", serve.Addr, "Address to listen on")
	cmd.Flags().StringVar(&serve.DatabasePath, "db", cfg.Database.Path, "Path to the local database file")
	return cmd
}
