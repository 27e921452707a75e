//go:build !linux && !darwin

package kobo

import "errors"

func diskSpace(string) (uint64, uint64, error) {
	return 0, 0, errors.New("disk space is not available on this platform")
}
