package cameratest

import (
	"sync"

	"github.com/soocke/assetpicker-go/domain/camera"
)

// PhotoOutput is a fake camera.PhotoOutput.
type PhotoOutput struct {
	hw *Hardware

	mu       sync.Mutex
	highRes  bool
	live     bool
	captures []camera.PhotoSettings
}

func (p *PhotoOutput) OutputName() string { return "photo" }

func (p *PhotoOutput) SetHighResolutionCaptureEnabled(b bool) {
	p.mu.Lock()
	p.highRes = b
	p.mu.Unlock()
}

func (p *PhotoOutput) IsHighResolutionCaptureEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.highRes
}

func (p *PhotoOutput) IsLivePhotoCaptureSupported() bool {
	return p.hw.options().LivePhotoSupported
}

// SetLivePhotoCaptureEnabled ignores requests the hardware cannot honour.
func (p *PhotoOutput) SetLivePhotoCaptureEnabled(b bool) {
	if b && !p.IsLivePhotoCaptureSupported() {
		return
	}
	p.mu.Lock()
	p.live = b
	p.mu.Unlock()
}

func (p *PhotoOutput) IsLivePhotoCaptureEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live
}

// ResetLivePhotoCapture models the OS clearing the flag when inputs change.
func (p *PhotoOutput) ResetLivePhotoCapture() {
	p.mu.Lock()
	p.live = false
	p.mu.Unlock()
}

func (p *PhotoOutput) SupportedFlashModes() []camera.FlashMode {
	return append([]camera.FlashMode(nil), p.hw.options().FlashModes...)
}

func (p *PhotoOutput) SupportsEmbeddedThumbnail() bool {
	return p.hw.options().EmbeddedThumbnail
}

// Captures returns the settings of every requested shot.
func (p *PhotoOutput) Captures() []camera.PhotoSettings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]camera.PhotoSettings(nil), p.captures...)
}

func (p *PhotoOutput) CapturePhoto(s camera.PhotoSettings, d camera.PhotoCaptureDelegate) {
	p.mu.Lock()
	p.captures = append(p.captures, s)
	live := s.LivePhotoMovieFile != "" && p.live
	p.mu.Unlock()
	opts := p.hw.options()

	resolved := camera.ResolvedPhotoSettings{
		ID:              s.ID,
		FlashEnabled:    s.FlashMode == camera.FlashOn,
		PhotoDimensions: camera.Dimensions{Width: 4032, Height: 3024},
	}
	if live {
		resolved.LivePhotoMovieDimensions = camera.Dimensions{Width: 1440, Height: 1080}
	}
	go func() {
		d.WillBeginCapture(resolved)
		d.WillCapturePhoto(resolved)
		d.DidFinishProcessingPhoto(opts.PhotoData, opts.PhotoError)
		if live {
			if opts.LiveMovieGate != nil {
				<-opts.LiveMovieGate
			}
			err := writeMovie(s.LivePhotoMovieFile)
			d.DidFinishRecordingLivePhotoMovie(s.LivePhotoMovieFile)
			d.DidFinishProcessingLivePhotoMovie(s.LivePhotoMovieFile, err)
		}
		d.DidFinishCapture(resolved, opts.PhotoError)
	}()
}

// MovieFileOutput is a fake camera.MovieFileOutput.
type MovieFileOutput struct {
	hw *Hardware

	mu            sync.Mutex
	recording     bool
	path          string
	delegate      camera.RecordingDelegate
	stabilization bool
	orientation   camera.Orientation
	starts        int
	stops         int
}

func (m *MovieFileOutput) OutputName() string { return "movie" }

func (m *MovieFileOutput) IsRecording() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recording
}

func (m *MovieFileOutput) SupportsVideoStabilization() bool {
	return m.hw.options().StabilizationSupported
}

func (m *MovieFileOutput) SetVideoStabilizationAuto(b bool) {
	m.mu.Lock()
	m.stabilization = b
	m.mu.Unlock()
}

// Stabilization reports whether auto stabilization was requested.
func (m *MovieFileOutput) Stabilization() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stabilization
}

func (m *MovieFileOutput) SetVideoOrientation(o camera.Orientation) {
	m.mu.Lock()
	m.orientation = o
	m.mu.Unlock()
}

// Orientation reports the last connection orientation.
func (m *MovieFileOutput) Orientation() camera.Orientation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orientation
}

func (m *MovieFileOutput) StartRecording(path string, d camera.RecordingDelegate) {
	m.mu.Lock()
	m.recording = true
	m.path = path
	m.delegate = d
	m.starts++
	m.mu.Unlock()
	_ = writeMovie(path)
	go d.DidStartRecording(path)
}

func (m *MovieFileOutput) StopRecording() {
	m.finish(m.hw.options().RecordingFinishError, true)
}

// Interrupt stops the recording as the system would, leaving a playable file.
func (m *MovieFileOutput) Interrupt(err error) {
	m.finish(&camera.RecordingError{Err: err, SuccessfullyFinished: true}, false)
}

// Fail stops the recording with an unrecoverable error.
func (m *MovieFileOutput) Fail(err error) {
	m.finish(&camera.RecordingError{Err: err}, false)
}

// SetRecording forces the recording flag without a delegate.
func (m *MovieFileOutput) SetRecording(b bool) {
	m.mu.Lock()
	m.recording = b
	m.mu.Unlock()
}

// Counts reports StartRecording and StopRecording calls.
func (m *MovieFileOutput) Counts() (starts, stops int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts, m.stops
}

func (m *MovieFileOutput) finish(err error, requested bool) {
	m.mu.Lock()
	if requested {
		m.stops++
	}
	if !m.recording || m.delegate == nil {
		m.recording = false
		m.mu.Unlock()
		return
	}
	m.recording = false
	d, path := m.delegate, m.path
	m.delegate = nil
	m.mu.Unlock()
	go d.DidFinishRecording(path, err)
}

var (
	_ camera.Hardware        = (*Hardware)(nil)
	_ camera.Session         = (*Session)(nil)
	_ camera.PhotoOutput     = (*PhotoOutput)(nil)
	_ camera.MovieFileOutput = (*MovieFileOutput)(nil)
	_ camera.VideoDataOutput = (*VideoDataOutput)(nil)
)
