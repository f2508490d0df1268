package cameratest

import (
	"sync"

	"github.com/soocke/assetpicker-go/domain/camera"
)

// Session is a fake camera.Session that records how it was configured.
type Session struct {
	hw *Hardware

	mu            sync.Mutex
	configDepth   int
	begins        int
	commits       int
	outsideConfig int
	preset        camera.SessionPreset
	inputs        []camera.DeviceInput
	outputs       []camera.Output
	running       bool
	starts        int
	stops         int
	subs          map[int]func(camera.Event)
	nextSub       int
}

func (s *Session) BeginConfiguration() {
	s.mu.Lock()
	s.configDepth++
	s.begins++
	s.mu.Unlock()
}

func (s *Session) CommitConfiguration() {
	s.mu.Lock()
	if s.configDepth > 0 {
		s.configDepth--
	}
	s.commits++
	s.mu.Unlock()
}

func (s *Session) SetPreset(p camera.SessionPreset) {
	s.mu.Lock()
	s.checkConfigLocked()
	s.preset = p
	s.mu.Unlock()
}

func (s *Session) checkConfigLocked() {
	if s.configDepth == 0 {
		s.outsideConfig++
	}
}

func (s *Session) CanAddInput(in camera.DeviceInput) bool {
	opts := s.hw.options()
	if in == nil {
		return false
	}
	dev := in.Device()
	if dev.Type() == camera.DeviceMicrophone && opts.RefuseAudioInput {
		return false
	}
	if dev.Position() == camera.PositionFront && opts.RefuseFrontInput {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.inputs {
		if existing == in {
			return false
		}
	}
	return true
}

func (s *Session) AddInput(in camera.DeviceInput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkConfigLocked()
	s.inputs = append(s.inputs, in)
}

func (s *Session) RemoveInput(in camera.DeviceInput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkConfigLocked()
	for i, existing := range s.inputs {
		if existing == in {
			s.inputs = append(s.inputs[:i], s.inputs[i+1:]...)
			break
		}
	}
	// Changing the camera clears live photo capture, as on real devices.
	for _, out := range s.outputs {
		if p, ok := out.(*PhotoOutput); ok {
			p.ResetLivePhotoCapture()
		}
	}
}

func (s *Session) Inputs() []camera.DeviceInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]camera.DeviceInput(nil), s.inputs...)
}

func (s *Session) CanAddOutput(out camera.Output) bool {
	opts := s.hw.options()
	switch out.(type) {
	case *PhotoOutput:
		return !opts.RefusePhotoOutput
	case *MovieFileOutput:
		return !opts.RefuseMovieOutput
	case *VideoDataOutput:
		return !opts.RefuseVideoDataOutput
	}
	return true
}

func (s *Session) AddOutput(out camera.Output) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkConfigLocked()
	s.outputs = append(s.outputs, out)
}

func (s *Session) RemoveOutput(out camera.Output) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkConfigLocked()
	for i, existing := range s.outputs {
		if existing == out {
			s.outputs = append(s.outputs[:i], s.outputs[i+1:]...)
			return
		}
	}
}

func (s *Session) Outputs() []camera.Output {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]camera.Output(nil), s.outputs...)
}

func (s *Session) StartRunning() {
	if s.hw.options().FailStart {
		return
	}
	s.mu.Lock()
	s.starts++
	was := s.running
	s.running = true
	s.mu.Unlock()
	if !was {
		s.emit(camera.RunningChanged{Running: true})
	}
}

func (s *Session) StopRunning() {
	s.mu.Lock()
	s.stops++
	was := s.running
	s.running = false
	s.mu.Unlock()
	if was {
		s.emit(camera.RunningChanged{Running: false})
	}
}

func (s *Session) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

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

// Emit delivers e to subscribers. RunningChanged also updates the running flag,
// so tests can model the OS stopping or restarting the session.
func (s *Session) Emit(e camera.Event) {
	if rc, ok := e.(camera.RunningChanged); ok {
		s.mu.Lock()
		s.running = rc.Running
		s.mu.Unlock()
	}
	s.emit(e)
}

func (s *Session) emit(e camera.Event) {
	s.mu.Lock()
	subs := make([]func(camera.Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(e)
	}
}

// Subscribers reports the number of active subscriptions.
func (s *Session) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Starts reports how many times the session transitioned to running.
func (s *Session) Starts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts
}

// Transactions reports begin and commit counts.
func (s *Session) Transactions() (begins, commits int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begins, s.commits
}

// MutationsOutsideConfiguration counts mutations not bracketed by
// Begin/CommitConfiguration.
func (s *Session) MutationsOutsideConfiguration() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outsideConfig
}

// Preset returns the last applied preset.
func (s *Session) Preset() camera.SessionPreset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preset
}

// ActivePosition returns the position of the attached camera input.
func (s *Session) ActivePosition() camera.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, in := range s.inputs {
		if in.Device().Type() != camera.DeviceMicrophone {
			return in.Device().Position()
		}
	}
	return camera.PositionUnspecified
}

// HasMicrophone reports whether an audio input is attached.
func (s *Session) HasMicrophone() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, in := range s.inputs {
		if in.Device().Type() == camera.DeviceMicrophone {
			return true
		}
	}
	return false
}
