package screencam

import (
	"bufio"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/soocke/assetpicker-go/domain/camera"
)

var (
	errSessionStopped = errors.New("screencam: session stopped while recording")
	errMaxDuration    = errors.New("screencam: maximum recording duration reached")
)

// recordMovie writes frames from s to path as a motion JPEG stream until
// ctx is done. One goroutine samples frames at fps, another encodes them.
// It returns the number of frames written.
func recordMovie(ctx context.Context, s *Session, path string, fps, quality int) (int, error) {
	return recordMovieFor(ctx, s, path, fps, quality, 0)
}

func recordMovieFor(ctx context.Context, s *Session, path string, fps, quality int, limit time.Duration) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	frames := make(chan image.Image, 4)
	written := 0
	g, gctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		defer close(frames)
		tick := time.NewTicker(time.Second / time.Duration(fps))
		defer tick.Stop()
		start := time.Now()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-gctx.Done():
				return nil
			case <-tick.C:
			}
			if !s.IsRunning() {
				return errSessionStopped
			}
			if limit > 0 && time.Since(start) >= limit {
				return errMaxDuration
			}
			img := s.latestRGBA()
			if img == nil {
				continue
			}
			select {
			case frames <- img:
			case <-gctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		w := bufio.NewWriter(f)
		for img := range frames {
			if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality}); err != nil {
				return err
			}
			written++
		}
		return w.Flush()
	})

	err = g.Wait()
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return written, err
}

// MovieOutput records motion JPEG movies from the session it is attached to.
type MovieOutput struct {
	hw *Hardware

	mu          sync.Mutex
	session     *Session
	cancel      context.CancelFunc
	recording   bool
	stabilized  bool
	orientation camera.Orientation
}

func (m *MovieOutput) OutputName() string { return "movie-file" }

func (m *MovieOutput) attach(s *Session) {
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()
}

func (m *MovieOutput) IsRecording() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recording
}

func (m *MovieOutput) SupportsVideoStabilization() bool { return false }

func (m *MovieOutput) SetVideoStabilizationAuto(b bool) {
	m.mu.Lock()
	m.stabilized = b
	m.mu.Unlock()
}

func (m *MovieOutput) SetVideoOrientation(o camera.Orientation) {
	m.mu.Lock()
	m.orientation = o
	m.mu.Unlock()
}

// StartRecording begins writing to path. A second call while recording is
// ignored.
func (m *MovieOutput) StartRecording(path string, d camera.RecordingDelegate) {
	m.mu.Lock()
	if m.recording {
		m.mu.Unlock()
		return
	}
	s := m.session
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.recording = true
	m.mu.Unlock()

	go func() {
		defer cancel()
		if s == nil {
			m.finish()
			d.DidFinishRecording(path, &camera.RecordingError{Err: errDetached})
			return
		}
		d.DidStartRecording(path)
		n, err := recordMovieFor(ctx, s, path, m.hw.opts.RecordingFPS, m.hw.opts.JPEGQuality, m.hw.opts.MaxRecording)
		m.finish()
		if err != nil {
			stoppedEarly := errors.Is(err, errSessionStopped) || errors.Is(err, errMaxDuration)
			m.hw.logger.Warn("recording ended with error", "path", path, "frames", n, "error", err)
			err = &camera.RecordingError{Err: err, SuccessfullyFinished: stoppedEarly && n > 0}
		}
		d.DidFinishRecording(path, err)
	}()
}

func (m *MovieOutput) finish() {
	m.mu.Lock()
	m.recording = false
	m.cancel = nil
	m.mu.Unlock()
}

func (m *MovieOutput) StopRecording() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

var _ camera.MovieFileOutput = (*MovieOutput)(nil)
