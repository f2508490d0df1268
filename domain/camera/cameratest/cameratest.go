// Package cameratest provides an in-memory camera.Hardware for tests.
//
// The fake is synchronous where the real hardware is synchronous (session
// configuration, start/stop) and calls capture delegates from fresh goroutines,
// like a device callback thread would.
package cameratest

import (
	"os"
	"sync"

	"github.com/soocke/assetpicker-go/domain/camera"
)

// Options shapes the fake hardware's capabilities and behaviour.
type Options struct {
	VideoAuthorization camera.AuthorizationStatus
	// GrantAccess is the answer RequestAccess gives.
	GrantAccess bool
	// AccessGate, when set, delays the RequestAccess answer until it is closed.
	AccessGate chan struct{}

	NoBackCamera  bool
	NoFrontCamera bool
	NoMicrophone  bool

	LivePhotoSupported     bool
	FlashModes             []camera.FlashMode
	EmbeddedThumbnail      bool
	StabilizationSupported bool

	RefusePhotoOutput     bool
	RefuseMovieOutput     bool
	RefuseVideoDataOutput bool
	RefuseAudioInput      bool
	RefuseFrontInput      bool

	FailStart bool

	PhotoData  []byte
	PhotoError error
	// LiveMovieGate, when set, parks a live capture between capture begin and
	// the end of the live movie until closed.
	LiveMovieGate chan struct{}

	// RecordingFinishError is reported when StopRecording is called.
	RecordingFinishError error
}

// DefaultOptions is an authorized device with both cameras, a microphone and
// still-only photo support.
func DefaultOptions() Options {
	return Options{
		VideoAuthorization: camera.AuthorizationAuthorized,
		GrantAccess:        true,
		FlashModes:         []camera.FlashMode{camera.FlashOff, camera.FlashOn, camera.FlashAuto},
		EmbeddedThumbnail:  true,
		PhotoData:          []byte("jpeg"),
	}
}

// Hardware is a fake camera.Hardware.
type Hardware struct {
	mu           sync.Mutex
	opts         Options
	accessCalls  int
	sessions     []*Session
	photoOutputs []*PhotoOutput
	movieOutputs []*MovieFileOutput
	dataOutputs  []*VideoDataOutput
}

// New returns fake hardware configured by opts.
func New(opts Options) *Hardware {
	return &Hardware{opts: opts}
}

// AccessRequests reports how many times RequestAccess was called.
func (h *Hardware) AccessRequests() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.accessCalls
}

// LastSession returns the most recently created session.
func (h *Hardware) LastSession() *Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.sessions) == 0 {
		return nil
	}
	return h.sessions[len(h.sessions)-1]
}

// LastPhotoOutput returns the most recently created photo output.
func (h *Hardware) LastPhotoOutput() *PhotoOutput {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.photoOutputs) == 0 {
		return nil
	}
	return h.photoOutputs[len(h.photoOutputs)-1]
}

// LastMovieOutput returns the most recently created movie output.
func (h *Hardware) LastMovieOutput() *MovieFileOutput {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.movieOutputs) == 0 {
		return nil
	}
	return h.movieOutputs[len(h.movieOutputs)-1]
}

// DataOutputs returns every video data output created so far.
func (h *Hardware) DataOutputs() []*VideoDataOutput {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*VideoDataOutput(nil), h.dataOutputs...)
}

func (h *Hardware) AuthorizationStatus(media camera.MediaType) camera.AuthorizationStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	if media == camera.MediaAudio {
		return camera.AuthorizationAuthorized
	}
	return h.opts.VideoAuthorization
}

func (h *Hardware) RequestAccess(media camera.MediaType, done func(bool)) {
	h.mu.Lock()
	h.accessCalls++
	gate := h.opts.AccessGate
	grant := h.opts.GrantAccess
	h.mu.Unlock()
	go func() {
		if gate != nil {
			<-gate
		}
		h.mu.Lock()
		if media == camera.MediaVideo {
			if grant {
				h.opts.VideoAuthorization = camera.AuthorizationAuthorized
			} else {
				h.opts.VideoAuthorization = camera.AuthorizationDenied
			}
		}
		h.mu.Unlock()
		done(grant)
	}()
}

func (h *Hardware) devices() []camera.Device {
	var out []camera.Device
	if !h.opts.NoBackCamera {
		out = append(out, &Device{id: "back-wide", name: "Back Camera", typ: camera.DeviceWideAngle, media: camera.MediaVideo, pos: camera.PositionBack})
	}
	if !h.opts.NoFrontCamera {
		out = append(out, &Device{id: "front-wide", name: "Front Camera", typ: camera.DeviceWideAngle, media: camera.MediaVideo, pos: camera.PositionFront})
	}
	if !h.opts.NoMicrophone {
		out = append(out, &Device{id: "mic", name: "Microphone", typ: camera.DeviceMicrophone, media: camera.MediaAudio})
	}
	return out
}

func (h *Hardware) DefaultDevice(t camera.DeviceType, media camera.MediaType, pos camera.Position) (camera.Device, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, d := range h.devices() {
		dev := d.(*Device)
		if dev.typ == t && dev.media == media && (pos == camera.PositionUnspecified || dev.pos == pos) {
			return dev, nil
		}
	}
	return nil, camera.ErrNoDevice
}

func (h *Hardware) Devices(media camera.MediaType) []camera.Device {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []camera.Device
	for _, d := range h.devices() {
		if d.(*Device).media == media {
			out = append(out, d)
		}
	}
	return out
}

func (h *Hardware) NewDeviceInput(d camera.Device) (camera.DeviceInput, error) {
	if d == nil {
		return nil, camera.ErrNoDevice
	}
	return &DeviceInput{dev: d}, nil
}

func (h *Hardware) NewSession() camera.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := &Session{hw: h, subs: make(map[int]func(camera.Event))}
	h.sessions = append(h.sessions, s)
	return s
}

func (h *Hardware) NewPhotoOutput() camera.PhotoOutput {
	h.mu.Lock()
	defer h.mu.Unlock()
	p := &PhotoOutput{hw: h}
	h.photoOutputs = append(h.photoOutputs, p)
	return p
}

func (h *Hardware) NewMovieFileOutput() camera.MovieFileOutput {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := &MovieFileOutput{hw: h}
	h.movieOutputs = append(h.movieOutputs, m)
	return m
}

func (h *Hardware) NewVideoDataOutput() camera.VideoDataOutput {
	h.mu.Lock()
	defer h.mu.Unlock()
	v := &VideoDataOutput{}
	h.dataOutputs = append(h.dataOutputs, v)
	return v
}

// SetFailStart makes later StartRunning calls leave the session stopped.
func (h *Hardware) SetFailStart(b bool) {
	h.mu.Lock()
	h.opts.FailStart = b
	h.mu.Unlock()
}

func (h *Hardware) options() Options {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.opts
}

// Device is a fake camera.Device.
type Device struct {
	id, name string
	typ      camera.DeviceType
	media    camera.MediaType
	pos      camera.Position
}

func (d *Device) ID() string                { return d.id }
func (d *Device) Name() string              { return d.name }
func (d *Device) Type() camera.DeviceType   { return d.typ }
func (d *Device) Position() camera.Position { return d.pos }

// DeviceInput is a fake camera.DeviceInput.
type DeviceInput struct{ dev camera.Device }

func (i *DeviceInput) Device() camera.Device { return i.dev }

// VideoDataOutput is a fake camera.VideoDataOutput.
type VideoDataOutput struct {
	mu      sync.Mutex
	discard bool
}

func (v *VideoDataOutput) OutputName() string { return "video-data" }

func (v *VideoDataOutput) SetAlwaysDiscardsLateVideoFrames(b bool) {
	v.mu.Lock()
	v.discard = b
	v.mu.Unlock()
}

// DiscardsLateFrames reports the configured flag.
func (v *VideoDataOutput) DiscardsLateFrames() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.discard
}

func writeMovie(path string) error {
	if path == "" {
		return nil
	}
	return os.WriteFile(path, []byte("movie"), 0o644)
}
