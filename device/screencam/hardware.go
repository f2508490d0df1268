// Package screencam is a camera.Hardware that films the screen.
//
// The "back" camera grabs the configured region (or the whole primary
// display), the "front" camera grabs the same region mirrored. Photos are
// JPEG encoded, movies and live photo clips are written as motion JPEG.
// There is no microphone, so sessions always run video-only.
package screencam

import (
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/vova616/screenshot"

	"github.com/soocke/assetpicker-go/domain/camera"
)

// GrabFunc captures r, or the whole primary display when r is empty.
type GrabFunc func(r image.Rectangle) (*image.RGBA, error)

// Options configures the screen camera.
type Options struct {
	Region image.Rectangle
	// FPS is the grab rate of a running session.
	FPS int
	// RecordingFPS is the frame rate of movies and live photo clips.
	RecordingFPS int
	// LiveClip is the length of a live photo companion movie.
	LiveClip time.Duration
	// MaxRecording stops recordings that run longer. Zero means no limit.
	MaxRecording time.Duration
	// JPEGQuality for photos and movie frames.
	JPEGQuality int
	// Access is the camera authorization; NotDetermined prompts once.
	Access        camera.AuthorizationStatus
	GrantOnPrompt bool
	// Grab overrides the screenshot backend.
	Grab GrabFunc
}

// DefaultOptions films the whole primary display.
func DefaultOptions() Options {
	return Options{
		FPS:           15,
		RecordingFPS:  10,
		LiveClip:      1500 * time.Millisecond,
		JPEGQuality:   85,
		Access:        camera.AuthorizationAuthorized,
		GrantOnPrompt: true,
	}
}

func (o *Options) normalize() {
	d := DefaultOptions()
	if o.FPS <= 0 {
		o.FPS = d.FPS
	}
	if o.RecordingFPS <= 0 {
		o.RecordingFPS = d.RecordingFPS
	}
	if o.LiveClip <= 0 {
		o.LiveClip = d.LiveClip
	}
	if o.JPEGQuality <= 0 || o.JPEGQuality > 100 {
		o.JPEGQuality = d.JPEGQuality
	}
	if o.Grab == nil {
		o.Grab = platformGrab
	}
}

func grabScreen(r image.Rectangle) (*image.RGBA, error) {
	if r.Empty() {
		return screenshot.CaptureScreen()
	}
	return screenshot.CaptureRect(r)
}

// Hardware is the screen camera service.
type Hardware struct {
	opts   Options
	logger *slog.Logger

	mu     sync.Mutex
	access camera.AuthorizationStatus
}

// New returns a screen camera. A nil logger discards output.
func New(opts Options, logger *slog.Logger) *Hardware {
	opts.normalize()
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hardware{opts: opts, logger: logger.With("component", "screencam"), access: opts.Access}
}

func (h *Hardware) AuthorizationStatus(media camera.MediaType) camera.AuthorizationStatus {
	if media == camera.MediaAudio {
		return camera.AuthorizationDenied
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.access
}

func (h *Hardware) RequestAccess(media camera.MediaType, done func(bool)) {
	if media == camera.MediaAudio {
		go done(false)
		return
	}
	h.mu.Lock()
	if h.access == camera.AuthorizationNotDetermined {
		if h.opts.GrantOnPrompt {
			h.access = camera.AuthorizationAuthorized
		} else {
			h.access = camera.AuthorizationDenied
		}
	}
	granted := h.access == camera.AuthorizationAuthorized
	h.mu.Unlock()
	go done(granted)
}

var (
	backScreen  = &Device{id: "screen-back", name: "Screen", pos: camera.PositionBack}
	frontScreen = &Device{id: "screen-front", name: "Screen (mirrored)", pos: camera.PositionFront, mirrored: true}
)

func (h *Hardware) DefaultDevice(t camera.DeviceType, media camera.MediaType, pos camera.Position) (camera.Device, error) {
	if media != camera.MediaVideo || t != camera.DeviceWideAngle {
		return nil, camera.ErrNoDevice
	}
	if pos == camera.PositionFront {
		return frontScreen, nil
	}
	return backScreen, nil
}

func (h *Hardware) Devices(media camera.MediaType) []camera.Device {
	if media != camera.MediaVideo {
		return nil
	}
	return []camera.Device{backScreen, frontScreen}
}

func (h *Hardware) NewDeviceInput(d camera.Device) (camera.DeviceInput, error) {
	dev, ok := d.(*Device)
	if !ok || dev == nil {
		return nil, camera.ErrNoDevice
	}
	return &Input{dev: dev}, nil
}

func (h *Hardware) NewSession() camera.Session { return newSession(h) }

func (h *Hardware) NewPhotoOutput() camera.PhotoOutput { return &PhotoOutput{hw: h} }

func (h *Hardware) NewMovieFileOutput() camera.MovieFileOutput { return &MovieOutput{hw: h} }

func (h *Hardware) NewVideoDataOutput() camera.VideoDataOutput { return &DataOutput{} }

// Device is one of the two screen cameras.
type Device struct {
	id, name string
	pos      camera.Position
	mirrored bool
}

func (d *Device) ID() string                { return d.id }
func (d *Device) Name() string              { return d.name }
func (d *Device) Type() camera.DeviceType   { return camera.DeviceWideAngle }
func (d *Device) Position() camera.Position { return d.pos }

// Input feeds a screen device into a session.
type Input struct{ dev *Device }

func (i *Input) Device() camera.Device { return i.dev }

// DataOutput accepts frames for analysis; frames are dropped.
type DataOutput struct {
	mu      sync.Mutex
	discard bool
}

func (o *DataOutput) OutputName() string { return "video-data" }

func (o *DataOutput) SetAlwaysDiscardsLateVideoFrames(b bool) {
	o.mu.Lock()
	o.discard = b
	o.mu.Unlock()
}

var (
	_ camera.Hardware        = (*Hardware)(nil)
	_ camera.VideoDataOutput = (*DataOutput)(nil)
)
