package capture

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/soocke/assetpicker-go/domain/camera"
	"github.com/soocke/assetpicker-go/domain/camera/cameratest"
	"github.com/soocke/assetpicker-go/domain/queue"
)

type logBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *logBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *logBuffer) Contains(s string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Contains(l.b.String(), s)
}

// eventRecorder collects callbacks in the order the UI queue delivered them.
type eventRecorder struct {
	mu     sync.Mutex
	events []string
	errs   []error
}

func (r *eventRecorder) add(name string, err error) {
	r.mu.Lock()
	r.events = append(r.events, name)
	if err != nil {
		r.errs = append(r.errs, err)
	}
	r.mu.Unlock()
}

func (r *eventRecorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *eventRecorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

func (r *eventRecorder) Count(name string) int {
	n := 0
	for _, e := range r.Events() {
		if e == name {
			n++
		}
	}
	return n
}

func (r *eventRecorder) callbacks() Events {
	return Events{
		Session: SessionEvents{
			Resumed:               func() { r.add("resumed", nil) },
			Suspended:             func() { r.add("suspended", nil) },
			Failed:                func(err error) { r.add("failed", err) },
			ConfigurationFailed:   func(err error) { r.add("configuration-failed", err) },
			AuthorizationResolved: func(granted bool) { r.add(fmt.Sprintf("authorized:%v", granted), nil) },
			Interrupted:           func(camera.InterruptionReason) { r.add("interrupted", nil) },
			InterruptionEnded:     func() { r.add("interruption-ended", nil) },
			RuntimeError:          func(err error) { r.add("runtime-error", err) },
		},
		Photo: PhotoEvents{
			WillCapture:                 func(camera.PhotoSettings) { r.add("will-capture", nil) },
			Captured:                    func(PhotoResult) { r.add("captured", nil) },
			Failed:                      func(err error) { r.add("photo-failed", err) },
			LivePhotosInProgressChanged: func(n int) { r.add(fmt.Sprintf("live:%d", n), nil) },
		},
		Video: VideoEvents{
			ReadyForRecording: func() { r.add("ready", nil) },
			Started:           func(string) { r.add("started", nil) },
			Cancelled:         func() { r.add("cancelled", nil) },
			Finished:          func(string) { r.add("finished", nil) },
			Interrupted:       func(string, error) { r.add("recording-interrupted", nil) },
			Failed:            func(err error) { r.add("recording-failed", err) },
		},
	}
}

type savedMedia struct {
	path    string
	existed bool
}

type fakeLibrary struct {
	mu     sync.Mutex
	photos []savedMedia
	videos []savedMedia
	err    error
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (l *fakeLibrary) SavePhoto(_ []byte, movie string, done func(error)) {
	l.mu.Lock()
	l.photos = append(l.photos, savedMedia{path: movie, existed: movie != "" && fileExists(movie)})
	err := l.err
	l.mu.Unlock()
	done(err)
}

func (l *fakeLibrary) SaveVideo(path string, done func(error)) {
	l.mu.Lock()
	l.videos = append(l.videos, savedMedia{path: path, existed: fileExists(path)})
	err := l.err
	l.mu.Unlock()
	done(err)
}

func (l *fakeLibrary) Saved() (photos, videos []savedMedia) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]savedMedia(nil), l.photos...), append([]savedMedia(nil), l.videos...)
}

type fakePreview struct {
	mu          sync.Mutex
	session     camera.Session
	orientation camera.Orientation
	updates     int
}

func (p *fakePreview) AttachSession(s camera.Session) {
	p.mu.Lock()
	p.session = s
	p.mu.Unlock()
}

func (p *fakePreview) SetVideoOrientation(o camera.Orientation) {
	p.mu.Lock()
	p.orientation = o
	p.updates++
	p.mu.Unlock()
}

type harness struct {
	t       *testing.T
	hw      *cameratest.Hardware
	ui      *queue.Serial
	rec     *eventRecorder
	lib     *fakeLibrary
	logs    *logBuffer
	s       *Session
	panics  chan any
	tempDir string
}

func newHarness(t *testing.T, opts cameratest.Options, cfg Config, extra ...Option) *harness {
	t.Helper()
	h := &harness{
		t:      t,
		hw:     cameratest.New(opts),
		rec:    &eventRecorder{},
		lib:    &fakeLibrary{},
		logs:   &logBuffer{},
		panics: make(chan any, 4),
	}
	logger := slog.New(slog.NewJSONHandler(h.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	if cfg.TempDir == "" {
		cfg.TempDir = t.TempDir()
	}
	h.tempDir = cfg.TempDir
	h.ui = queue.NewSerial("ui", logger)
	sessOpts := append([]Option{
		WithLibrary(h.lib),
		WithPanicHandler(func(v any) { h.panics <- v }),
	}, extra...)
	h.s = NewSession(h.hw, h.ui, logger, cfg, h.rec.callbacks(), sessOpts...)
	t.Cleanup(func() {
		h.s.Close()
		h.ui.Close()
	})
	return h
}

// settle waits until everything already submitted to the capture queue and
// the UI callbacks it produced have run.
func (h *harness) settle() {
	h.t.Helper()
	h.s.queue.Sync(func() {})
	h.ui.Sync(func() {})
}

func (h *harness) prepareAndResume() {
	h.t.Helper()
	h.s.Prepare(camera.OrientationPortrait)
	h.s.Resume()
	h.settle()
	if !h.s.IsRunning() {
		h.t.Fatalf("session not running after resume; events %v", h.rec.Events())
	}
}

func waitFor(t *testing.T, what string, cond func() bool, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", what)
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}
