package capture

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/soocke/assetpicker-go/domain/camera"
)

// Preset is the capture mode, fixed when the session is created.
type Preset int

const (
	PresetPhotos Preset = iota
	PresetLivePhotos
	PresetVideos
)

func (p Preset) String() string {
	switch p {
	case PresetPhotos:
		return "photos"
	case PresetLivePhotos:
		return "live_photos"
	case PresetVideos:
		return "videos"
	default:
		return "unknown"
	}
}

// ParsePreset accepts the names produced by Preset.String.
func ParsePreset(s string) (Preset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "photos", "photo", "":
		return PresetPhotos, nil
	case "live_photos", "livephotos", "live":
		return PresetLivePhotos, nil
	case "videos", "video":
		return PresetVideos, nil
	}
	return PresetPhotos, fmt.Errorf("capture: unknown preset %q", s)
}

// SetupResult is the outcome of authorization and configuration. It stays
// SetupPending until Prepare has configured the session.
type SetupResult int32

const (
	SetupPending SetupResult = iota
	SetupSuccess
	SetupNotAuthorized
	SetupConfigurationFailed
)

func (r SetupResult) String() string {
	switch r {
	case SetupPending:
		return "pending"
	case SetupSuccess:
		return "success"
	case SetupNotAuthorized:
		return "not-authorized"
	case SetupConfigurationFailed:
		return "configuration-failed"
	default:
		return "unknown"
	}
}

// LivePhotoMode selects whether a shot should include a live movie.
type LivePhotoMode int

const (
	LivePhotoOff LivePhotoMode = iota
	LivePhotoOn
)

func (m LivePhotoMode) String() string {
	if m == LivePhotoOn {
		return "on"
	}
	return "off"
}

// Outcome classifies how a recording ended.
type Outcome int

const (
	OutcomeFinished Outcome = iota
	OutcomeCancelled
	OutcomeInterrupted
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFinished:
		return "finished"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeInterrupted:
		return "interrupted"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PreviewSurface is the UI element showing the live camera feed. The UI owns
// it; the session only attaches itself and forwards orientation changes, always
// on the UI dispatcher.
type PreviewSurface interface {
	AttachSession(s camera.Session)
	SetVideoOrientation(o camera.Orientation)
}

// LibrarySaver persists captured media. Implementations check authorization
// before writing and call done exactly once.
type LibrarySaver interface {
	SavePhoto(data []byte, livePhotoMovie string, done func(error))
	SaveVideo(path string, done func(error))
}

// PhotoResult describes one finished shot.
type PhotoResult struct {
	Settings camera.PhotoSettings
	Resolved camera.ResolvedPhotoSettings
	Data     []byte
	// LivePhotoMovie is the companion movie path; empty for still photos. The
	// file is temporary and removed once any library save has settled.
	LivePhotoMovie string
}

// VideoResult describes one finished recording.
type VideoResult struct {
	Path    string
	Outcome Outcome
	Err     error
}

type future[T any] struct {
	once sync.Once
	done chan struct{}
	val  T
	err  error
}

func newFuture[T any]() *future[T] { return &future[T]{done: make(chan struct{})} }

func (f *future[T]) resolve(v T, err error) {
	f.once.Do(func() {
		f.val, f.err = v, err
		close(f.done)
	})
}

func (f *future[T]) wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// PhotoCapture is the caller's handle on one requested shot.
type PhotoCapture struct{ f *future[PhotoResult] }

// Done is closed when the shot has completed or failed.
func (c *PhotoCapture) Done() <-chan struct{} { return c.f.done }

// Wait blocks until the shot completes or ctx ends.
func (c *PhotoCapture) Wait(ctx context.Context) (PhotoResult, error) { return c.f.wait(ctx) }

// Recording is the caller's handle on one requested recording.
type Recording struct{ f *future[VideoResult] }

// Done is closed when the recording has ended or was refused.
func (r *Recording) Done() <-chan struct{} { return r.f.done }

// Wait blocks until the recording ends or ctx ends. A refused start returns
// the refusal reason as the error.
func (r *Recording) Wait(ctx context.Context) (VideoResult, error) { return r.f.wait(ctx) }
