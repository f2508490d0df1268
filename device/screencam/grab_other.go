//go:build !windows

package screencam

import "image"

func platformGrab(r image.Rectangle) (*image.RGBA, error) { return grabScreen(r) }
