package kobo

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

// DeviceInfo describes a mounted Kobo. Serial and firmware come from
// .kobo/version and are empty when that file is missing. Space is in bytes
// and zero where the platform cannot report it. BookCount is only set by
// GetDeviceInfo.
type DeviceInfo struct {
	Name            string `json:"name"`
	Root            string `json:"root"`
	DatabasePath    string `json:"database_path"`
	SerialNumber    string `json:"serial_number,omitempty"`
	FirmwareVersion string `json:"firmware_version,omitempty"`
	ModelID         string `json:"model_id,omitempty"`
	FreeSpace       uint64 `json:"free_space"`
	TotalSpace      uint64 `json:"total_space"`
	BookCount       int    `json:"book_count"`
}

// Probe checks that deviceRoot looks like a mounted Kobo: a .kobo directory
// holding KoboReader.sqlite. It does not open the database.
func Probe(deviceRoot string) (*DeviceInfo, error) {
	if strings.TrimSpace(deviceRoot) == "" {
		return nil, fmt.Errorf("%w: empty device root", ErrPathInvalid)
	}

	koboDir := filepath.Join(deviceRoot, koboDirName)
	info, err := os.Stat(koboDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrPathInvalid, deviceRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrPathInvalid, koboDir)
	}

	device := &DeviceInfo{
		Name:         filepath.Base(filepath.Clean(deviceRoot)),
		Root:         deviceRoot,
		DatabasePath: DatabasePath(deviceRoot),
	}
	if _, err := os.Stat(device.DatabasePath); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDatabaseOpen, device.DatabasePath, err)
	}

	if free, total, err := diskSpace(deviceRoot); err == nil {
		device.FreeSpace, device.TotalSpace = free, total
	}

	// version looks like:
	// N418xxxxxxxxx,4.1.15,4.38.21908,4.1.15,4.1.15,00000000-0000-0000-0000-000000000387
	data, err := os.ReadFile(filepath.Join(koboDir, versionFileName))
	if err != nil {
		return device, nil
	}
	fields := strings.Split(strings.TrimSpace(string(data)), ",")
	if len(fields) > 0 {
		device.SerialNumber = fields[0]
	}
	if len(fields) > 2 {
		device.FirmwareVersion = fields[2]
	}
	if len(fields) > 5 {
		device.ModelID = fields[5]
	}

	return device, nil
}

// GetDeviceInfo probes deviceRoot and counts the books in its library.
func GetDeviceInfo(ctx context.Context, deviceRoot string) (*DeviceInfo, error) {
	device, err := Probe(deviceRoot)
	if err != nil {
		return nil, err
	}

	err = withConnection(ctx, deviceRoot, func(db *sql.DB) error {
		if err := db.QueryRowContext(ctx, countBooksQuery, ContentTypeBook, ContentTypeBookPart).Scan(&device.BookCount); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrQuery, tableContent, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return device, nil
}

// DetectDevices looks for mounted Kobos in the places the OS mounts
// removable drives, e.g. /Volumes/* on macOS and /media/$USER/* on Linux.
func DetectDevices() []DeviceInfo {
	return DetectDevicesIn(MountRoots(runtime.GOOS, currentUser())...)
}

// DetectDevicesIn probes every directory directly below the given mount
// roots and returns the ones that look like a Kobo, ordered by path.
func DetectDevicesIn(mountRoots ...string) []DeviceInfo {
	var devices []DeviceInfo
	seen := make(map[string]bool)

	for _, mountRoot := range mountRoots {
		entries, err := os.ReadDir(mountRoot)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			candidate := filepath.Join(mountRoot, entry.Name())
			if seen[candidate] {
				continue
			}
			seen[candidate] = true

			device, err := Probe(candidate)
			if err != nil {
				continue
			}
			devices = append(devices, *device)
		}
	}

	slices.SortFunc(devices, func(a, b DeviceInfo) int {
		return strings.Compare(a.Root, b.Root)
	})
	if len(devices) > 0 {
		log.Printf("Kobo detection: found %d device(s)", len(devices))
	}
	return devices
}

// MountRoots lists the directories removable drives are mounted under.
func MountRoots(goos, username string) []string {
	if goos == "darwin" {
		return []string{"/Volumes"}
	}

	var roots []string
	if username != "" {
		roots = append(roots,
			filepath.Join("/media", username),
			filepath.Join("/run/media", username),
		)
	}
	return append(roots, "/media", "/mnt")
}

func currentUser() string {
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
