//go:build !linux && !darwin && !freebsd && !windows

package capture

import "errors"

func freeDiskSpace(string) (uint64, error) {
	return 0, errors.ErrUnsupported
}
