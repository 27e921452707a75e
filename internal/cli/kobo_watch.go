package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/mrlokans/koboreader/internal/scheduler"
)

// KoboWatchCommand imports on a schedule until ctx is cancelled.
type KoboWatchCommand struct {
	Schedule string
	Import   *KoboImportCommand
}

func NewKoboWatchCommand() *KoboWatchCommand {
	return &KoboWatchCommand{Import: NewKoboImportCommand()}
}

func (cmd *KoboWatchCommand) Run(ctx context.Context, out io.Writer) error {
	s := scheduler.NewKoboImportScheduler(cmd.Import.DevicePath, cmd.Schedule,
		func(ctx context.Context, devicePath string) error {
			imp := *cmd.Import
			imp.DevicePath = devicePath
			return imp.Run(ctx, out)
		}).WithDeviceDetection(detectDevices)

	if err := s.Start(ctx); err != nil {
		return err
	}
	defer s.Stop()

	fmt.Fprintf(out, "👀 Watching %s (%s). Press Ctrl+C to stop.\n",
		cmd.Import.DevicePath, scheduler.DescribeSchedule(cmd.Schedule))

	// Import right away if the device is already mounted.
	if err := s.RunNow(ctx); err != nil {
		fmt.Fprintf(out, "❌ %v\n", err)
	}

	<-ctx.Done()
	fmt.Fprintln(out, "\n👋 Stopped watching")
	return nil
}
