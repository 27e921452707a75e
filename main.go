package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mrlokans/koboreader/internal/cli"
	"github.com/mrlokans/koboreader/internal/config"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cfg := config.NewConfig()
	root := cli.NewRootCommand(cfg, fmt.Sprintf("%s (%s)", Version, Commit))

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
