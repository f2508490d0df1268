package screencam

import (
	"context"
	"errors"
	"image"
	"slices"
	"sync"

	"github.com/soocke/assetpicker-go/domain/camera"
)

var (
	errDetached = errors.New("screencam: output is not attached to a session")
	errNoFrame  = errors.New("screencam: no frame grabbed yet")
)

// PhotoOutput encodes the latest frame as JPEG. Live photos add a short
// motion JPEG clip recorded right after the still.
type PhotoOutput struct {
	hw *Hardware

	mu       sync.Mutex
	session  *Session
	highRes  bool
	live     bool
	inflight sync.WaitGroup
}

func (p *PhotoOutput) OutputName() string { return "photo" }

func (p *PhotoOutput) attach(s *Session) {
	p.mu.Lock()
	p.session = s
	p.mu.Unlock()
}

func (p *PhotoOutput) attached() *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session
}

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

func (p *PhotoOutput) IsLivePhotoCaptureSupported() bool { return true }

func (p *PhotoOutput) SetLivePhotoCaptureEnabled(b bool) {
	p.mu.Lock()
	p.live = b
	p.mu.Unlock()
}

func (p *PhotoOutput) IsLivePhotoCaptureEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live
}

func (p *PhotoOutput) SupportedFlashModes() []camera.FlashMode {
	return []camera.FlashMode{camera.FlashOff}
}

func (p *PhotoOutput) SupportsEmbeddedThumbnail() bool { return false }

// CapturePhoto runs the shot on its own goroutine and reports through d.
func (p *PhotoOutput) CapturePhoto(settings camera.PhotoSettings, d camera.PhotoCaptureDelegate) {
	s := p.attached()
	live := settings.LivePhotoMovieFile != "" && p.IsLivePhotoCaptureEnabled()
	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		p.capture(s, settings, live, d)
	}()
}

func (p *PhotoOutput) capture(s *Session, settings camera.PhotoSettings, live bool, d camera.PhotoCaptureDelegate) {
	resolved := camera.ResolvedPhotoSettings{
		ID:           settings.ID,
		FlashEnabled: slices.Contains(p.SupportedFlashModes(), settings.FlashMode) && settings.FlashMode != camera.FlashOff,
	}
	var frame *image.RGBA
	if s != nil {
		frame = s.latestRGBA()
	}
	if frame != nil {
		dims := camera.Dimensions{Width: frame.Bounds().Dx(), Height: frame.Bounds().Dy()}
		resolved.PhotoDimensions = dims
		if live {
			resolved.LivePhotoMovieDimensions = dims
		}
	}

	d.WillBeginCapture(resolved)
	d.WillCapturePhoto(resolved)

	var err error
	switch {
	case s == nil:
		err = errDetached
	case frame == nil:
		err = errNoFrame
	}
	if err != nil {
		d.DidFinishProcessingPhoto(nil, err)
		d.DidFinishCapture(resolved, err)
		return
	}

	data, err := encodeJPEG(frame, p.hw.opts.JPEGQuality)
	d.DidFinishProcessingPhoto(data, err)

	if !resolved.LivePhotoMovieDimensions.IsZero() {
		ctx, cancel := context.WithTimeout(context.Background(), p.hw.opts.LiveClip)
		_, clipErr := recordMovie(ctx, s, settings.LivePhotoMovieFile, p.hw.opts.RecordingFPS, p.hw.opts.JPEGQuality)
		cancel()
		d.DidFinishRecordingLivePhotoMovie(settings.LivePhotoMovieFile)
		d.DidFinishProcessingLivePhotoMovie(settings.LivePhotoMovieFile, clipErr)
	}
	d.DidFinishCapture(resolved, err)
}

// Wait blocks until every capture started so far has reported completion.
func (p *PhotoOutput) Wait() { p.inflight.Wait() }

var _ camera.PhotoOutput = (*PhotoOutput)(nil)
