// Package camera describes the hardware camera service the picker consumes:
// device discovery, device inputs, capture sessions and their outputs, and the
// typed notifications a running session emits.
//
// Implementations live elsewhere (device/screencam for a screen-backed camera,
// camera/cameratest for tests). Nothing in this package touches real hardware.
package camera

import (
	"errors"
	"image"
)

var (
	// ErrNoDevice is returned when no device matches a discovery request.
	ErrNoDevice = errors.New("camera: no matching device")
	// ErrMediaServicesReset reports that the media daemon restarted. A session
	// that was running may be started again.
	ErrMediaServicesReset = errors.New("camera: media services were reset")
)

// MediaType selects video or audio devices and authorizations.
type MediaType int

const (
	MediaVideo MediaType = iota
	MediaAudio
)

func (m MediaType) String() string {
	switch m {
	case MediaVideo:
		return "video"
	case MediaAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// Position is the physical side of the device a camera faces.
type Position int

const (
	PositionUnspecified Position = iota
	PositionBack
	PositionFront
)

func (p Position) String() string {
	switch p {
	case PositionBack:
		return "back"
	case PositionFront:
		return "front"
	default:
		return "unspecified"
	}
}

// Opposite returns the position a camera flip moves to.
func (p Position) Opposite() Position {
	switch p {
	case PositionBack:
		return PositionFront
	case PositionFront:
		return PositionBack
	default:
		return PositionBack
	}
}

// DeviceType classifies camera modules.
type DeviceType int

const (
	DeviceWideAngle DeviceType = iota
	DeviceDual
	DeviceTelephoto
	DeviceMicrophone
)

func (t DeviceType) String() string {
	switch t {
	case DeviceWideAngle:
		return "wide-angle"
	case DeviceDual:
		return "dual"
	case DeviceTelephoto:
		return "telephoto"
	case DeviceMicrophone:
		return "microphone"
	default:
		return "unknown"
	}
}

// AuthorizationStatus is the user's decision about device access.
type AuthorizationStatus int

const (
	AuthorizationNotDetermined AuthorizationStatus = iota
	AuthorizationRestricted
	AuthorizationDenied
	AuthorizationAuthorized
)

func (s AuthorizationStatus) String() string {
	switch s {
	case AuthorizationNotDetermined:
		return "not-determined"
	case AuthorizationRestricted:
		return "restricted"
	case AuthorizationDenied:
		return "denied"
	case AuthorizationAuthorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// Orientation of video connections and the preview.
type Orientation int

const (
	OrientationPortrait Orientation = iota
	OrientationPortraitUpsideDown
	OrientationLandscapeRight
	OrientationLandscapeLeft
)

func (o Orientation) String() string {
	switch o {
	case OrientationPortrait:
		return "portrait"
	case OrientationPortraitUpsideDown:
		return "portrait-upside-down"
	case OrientationLandscapeRight:
		return "landscape-right"
	case OrientationLandscapeLeft:
		return "landscape-left"
	default:
		return "unknown"
	}
}

// FlashMode for still captures.
type FlashMode int

const (
	FlashOff FlashMode = iota
	FlashOn
	FlashAuto
)

// SessionPreset is the quality preset applied to a session.
type SessionPreset string

const (
	PresetPhoto SessionPreset = "photo"
	PresetHigh  SessionPreset = "high"
)

// InterruptionReason explains why a running session was interrupted.
type InterruptionReason int

const (
	InterruptionUnknown InterruptionReason = iota
	InterruptionVideoDeviceNotAvailableInBackground
	InterruptionAudioDeviceInUseByAnotherClient
	InterruptionVideoDeviceInUseByAnotherClient
	InterruptionVideoDeviceNotAvailableWithMultipleForegroundApps
	InterruptionVideoDeviceNotAvailableDueToSystemPressure
)

func (r InterruptionReason) String() string {
	switch r {
	case InterruptionVideoDeviceNotAvailableInBackground:
		return "video-device-not-available-in-background"
	case InterruptionAudioDeviceInUseByAnotherClient:
		return "audio-device-in-use"
	case InterruptionVideoDeviceInUseByAnotherClient:
		return "video-device-in-use"
	case InterruptionVideoDeviceNotAvailableWithMultipleForegroundApps:
		return "video-device-not-available-multitasking"
	case InterruptionVideoDeviceNotAvailableDueToSystemPressure:
		return "system-pressure"
	default:
		return "unknown"
	}
}

// Dimensions is a pixel size.
type Dimensions struct {
	Width, Height int
}

// IsZero reports whether d is empty.
func (d Dimensions) IsZero() bool { return d.Width == 0 && d.Height == 0 }

// FrameSource is implemented by sessions that can hand out preview frames.
type FrameSource interface {
	LatestFrame() image.Image
}
