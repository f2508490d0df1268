package screencam

import (
	"fmt"
	"image"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soocke/assetpicker-go/domain/camera"
)

const (
	statsLogInterval = 5 * time.Second
	// maxGrabFailures consecutive grab errors raise a RuntimeError.
	maxGrabFailures = 10
)

// Session grabs frames while running and hands the latest one to outputs
// and previews.
type Session struct {
	hw     *Hardware
	logger *slog.Logger

	mu          sync.Mutex
	configuring int
	preset      camera.SessionPreset
	inputs      []camera.DeviceInput
	outputs     []camera.Output
	subs        map[int]func(camera.Event)
	nextSub     int
	stop        chan struct{}
	done        chan struct{}

	running      atomic.Bool
	latest       atomic.Pointer[frameSnapshot]
	captures     atomic.Uint64
	skipped      atomic.Uint64
	captureNanos atomic.Uint64
	sequence     atomic.Uint64
}

func newSession(hw *Hardware) *Session {
	return &Session{hw: hw, logger: hw.logger, subs: make(map[int]func(camera.Event))}
}

func (s *Session) BeginConfiguration() {
	s.mu.Lock()
	s.configuring++
	s.mu.Unlock()
}

func (s *Session) CommitConfiguration() {
	s.mu.Lock()
	if s.configuring > 0 {
		s.configuring--
	}
	s.mu.Unlock()
}

func (s *Session) SetPreset(p camera.SessionPreset) {
	s.mu.Lock()
	s.preset = p
	s.mu.Unlock()
}

// CanAddInput accepts one screen input at a time.
func (s *Session) CanAddInput(in camera.DeviceInput) bool {
	if _, ok := in.(*Input); !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inputs) == 0
}

func (s *Session) AddInput(in camera.DeviceInput) {
	s.mu.Lock()
	s.inputs = append(s.inputs, in)
	s.mu.Unlock()
}

func (s *Session) RemoveInput(in camera.DeviceInput) {
	s.mu.Lock()
	s.inputs = slices.DeleteFunc(s.inputs, func(x camera.DeviceInput) bool { return x == in })
	s.mu.Unlock()
}

func (s *Session) Inputs() []camera.DeviceInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.inputs)
}

// CanAddOutput accepts outputs made by the same Hardware, one of each kind.
func (s *Session) CanAddOutput(out camera.Output) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.outputs {
		if o.OutputName() == out.OutputName() {
			return false
		}
	}
	switch o := out.(type) {
	case *PhotoOutput:
		return o.hw == s.hw
	case *MovieOutput:
		return o.hw == s.hw
	case *DataOutput:
		return true
	}
	return false
}

func (s *Session) AddOutput(out camera.Output) {
	s.mu.Lock()
	s.outputs = append(s.outputs, out)
	s.mu.Unlock()
	switch o := out.(type) {
	case *PhotoOutput:
		o.attach(s)
	case *MovieOutput:
		o.attach(s)
	}
}

func (s *Session) RemoveOutput(out camera.Output) {
	s.mu.Lock()
	s.outputs = slices.DeleteFunc(s.outputs, func(x camera.Output) bool { return x == out })
	s.mu.Unlock()
	switch o := out.(type) {
	case *PhotoOutput:
		o.attach(nil)
	case *MovieOutput:
		o.attach(nil)
	}
}

func (s *Session) Outputs() []camera.Output {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.outputs)
}

func (s *Session) device() *Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, in := range s.inputs {
		if i, ok := in.(*Input); ok {
			return i.dev
		}
	}
	return nil
}

// StartRunning starts the grab loop. A session without an input stays idle.
func (s *Session) StartRunning() {
	if s.device() == nil {
		s.logger.Warn("start ignored, no screen input")
		return
	}
	s.mu.Lock()
	if s.running.Load() {
		s.mu.Unlock()
		return
	}
	s.running.Store(true)
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stop, s.done
	s.mu.Unlock()

	go s.loop(stop, done)
	s.emit(camera.RunningChanged{Running: true})
}

// StopRunning stops the grab loop and waits for it to exit. Recordings in
// progress are interrupted.
func (s *Session) StopRunning() {
	s.mu.Lock()
	if !s.running.Load() {
		s.mu.Unlock()
		return
	}
	s.running.Store(false)
	stop, done := s.stop, s.done
	s.mu.Unlock()

	close(stop)
	<-done
	s.emit(camera.RunningChanged{Running: false})
}

func (s *Session) IsRunning() bool { return s.running.Load() }

func (s *Session) Subscribe(fn func(camera.Event)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Session) emit(ev camera.Event) {
	s.mu.Lock()
	subs := make([]func(camera.Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// LatestFrame returns the most recent frame, or nil before the first grab.
func (s *Session) LatestFrame() image.Image {
	if img := s.latestRGBA(); img != nil {
		return img
	}
	return nil
}

func (s *Session) latestRGBA() *image.RGBA {
	snap := s.latest.Load()
	if snap == nil {
		return nil
	}
	return snap.Image
}

func (s *Session) Stats() Stats {
	captures := s.captures.Load()
	total := s.captureNanos.Load()
	var avg time.Duration
	if captures > 0 && total > 0 {
		avg = time.Duration(total / captures)
	}
	st := Stats{Captures: captures, Skipped: s.skipped.Load(), AvgCapture: avg}
	if snap := s.latest.Load(); snap != nil {
		st.LastCapture = snap.CapturedAt
		st.LatestFrameAge = time.Since(snap.CapturedAt)
		st.Sequence = snap.Sequence
	}
	return st
}

func (s *Session) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	tick := time.NewTicker(time.Second / time.Duration(s.hw.opts.FPS))
	defer tick.Stop()
	logTicker := time.NewTicker(statsLogInterval)
	defer logTicker.Stop()

	failures := 0
	for {
		select {
		case <-stop:
			return
		case <-logTicker.C:
			s.logStats()
			continue
		case <-tick.C:
		}

		dev := s.device()
		if dev == nil {
			s.skipped.Add(1)
			continue
		}
		start := time.Now()
		img, err := s.hw.opts.Grab(s.hw.opts.Region)
		if err == nil && img == nil {
			err = errNoFrame
		}
		if err != nil {
			s.skipped.Add(1)
			failures++
			if failures == maxGrabFailures {
				s.logger.Error("screen grab keeps failing", "error", err)
				s.emit(camera.RuntimeError{Err: fmt.Errorf("screencam: grab: %w", err)})
			}
			continue
		}
		failures = 0
		if dev.mirrored {
			flipped := mirror(img)
			recycleFrame(img)
			img = flipped
		}

		s.captureNanos.Add(uint64(time.Since(start).Nanoseconds()))
		s.captures.Add(1)
		seq := s.sequence.Add(1)
		s.latest.Store(&frameSnapshot{Image: img, CapturedAt: time.Now(), Sequence: seq})
	}
}

func (s *Session) logStats() {
	st := s.Stats()
	if st.Captures == 0 && st.Skipped == 0 {
		return
	}
	s.logger.Debug("screen grab stats",
		"captures", st.Captures,
		"skipped", st.Skipped,
		"avg_capture", st.AvgCapture,
		"latest_age", st.LatestFrameAge,
		"sequence", st.Sequence,
	)
}

var (
	_ camera.Session     = (*Session)(nil)
	_ camera.FrameSource = (*Session)(nil)
)
