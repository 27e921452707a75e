package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mrlokans/koboreader/internal/database"
	http_controllers "github.com/mrlokans/koboreader/internal/http"
)

// ServeCommand runs the read-only JSON API.
type ServeCommand struct {
	Addr            string
	DatabasePath    string
	DevicePath      string
	Version         string
	ShutdownTimeout time.Duration
}

func NewServeCommand() *ServeCommand {
	return &ServeCommand{ShutdownTimeout: 2 * time.Second}
}

func (cmd *ServeCommand) Run(ctx context.Context) error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		DB:         db,
		DevicePath: cmd.DevicePath,
		Version:    cmd.Version,
	})

	return http_controllers.Serve(ctx, router, cmd.Addr, cmd.ShutdownTimeout)
}
