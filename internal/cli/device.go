package cli

import (
	"fmt"
	"io"

	"github.com/mrlokans/koboreader/internal/kobo"
)

// detectDevices finds mounted Kobos. Tests replace it.
var detectDevices = kobo.DetectDevices

// resolveDevice probes path and, when no Kobo is mounted there, falls back to
// the first device found in the usual mount locations.
func resolveDevice(path string, out io.Writer) (*kobo.DeviceInfo, error) {
	device, err := kobo.Probe(path)
	if err == nil {
		return device, nil
	}

	detected := detectDevices()
	if len(detected) == 0 {
		return nil, fmt.Errorf("no Kobo found at %q: %w", path, err)
	}

	fmt.Fprintf(out, "🔌 No Kobo at %s, using %s\n", path, detected[0].Root)
	return &detected[0], nil
}
