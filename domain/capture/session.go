// Package capture coordinates one hardware camera session: authorization,
// configuration, running state, interruptions and the photo and video captures
// in flight.
//
// Every mutation of the hardware session runs on one serial capture queue.
// Hardware callbacks hop onto that queue before touching state, and every
// outward callback is delivered on the UI dispatcher supplied by the caller.
package capture

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soocke/assetpicker-go/domain/camera"
	"github.com/soocke/assetpicker-go/domain/queue"
)

// Session is the capture coordinator. Create it with NewSession; it is
// usable from any goroutine.
type Session struct {
	hw      camera.Hardware
	ui      queue.Dispatcher
	logger  *slog.Logger
	cfg     Config
	events  Events
	library LibrarySaver
	onPanic queue.PanicHandler

	closeTimeout time.Duration

	queue   *queue.Serial
	session camera.Session
	inputs  *deviceInputManager
	photo   *photoSession
	video   *videoSession

	prepared  atomic.Bool
	setup     atomic.Int32
	running   atomic.Bool
	closeOnce sync.Once

	previewMu sync.Mutex
	preview   PreviewSurface

	// queue-owned
	unsubscribe  func()
	subGen       uint64
	wantsRunning bool
	backgrounded bool
	orientation  camera.Orientation
}

// NewSession builds a coordinator for cfg.Preset on hw. Callbacks in events are
// delivered on ui.
func NewSession(hw camera.Hardware, ui queue.Dispatcher, logger *slog.Logger, cfg Config, events Events, opts ...Option) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Session{
		hw:     hw,
		ui:     ui,
		logger: logger.With("component", "capture"),
		cfg:    cfg,
		events: events,

		closeTimeout: defaultCloseTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	var qopts []queue.Option
	if s.onPanic != nil {
		qopts = append(qopts, queue.WithPanicHandler(s.onPanic))
	}
	s.queue = queue.NewSerial("capture", s.logger, qopts...)
	s.session = hw.NewSession()
	s.inputs = newDeviceInputManager(hw, s.logger)
	s.photo = newPhotoSession(hw, s.logger.With("sub", "photo"), s.queue, ui, events.Photo, s.library, cfg.tempDir())
	if cfg.Preset == PresetVideos {
		s.video = newVideoSession(hw, s.logger.With("sub", "video"), s.queue, ui, events.Video, s.library, cfg.tempDir(), cfg.MinFreeDiskBytes)
	}
	return s
}

// Prepare resolves camera authorization and configures the session. It must be
// called once; later calls are ignored. Configuration never starts before an
// outstanding authorization prompt is answered.
func (s *Session) Prepare(orientation camera.Orientation) {
	if !s.prepared.CompareAndSwap(false, true) {
		s.logger.Warn("prepare ignored", "error", ErrAlreadyPrepared)
		return
	}
	switch status := s.hw.AuthorizationStatus(camera.MediaVideo); status {
	case camera.AuthorizationAuthorized:
	case camera.AuthorizationNotDetermined:
		s.queue.Suspend()
		s.hw.RequestAccess(camera.MediaVideo, func(granted bool) {
			if !granted {
				s.setup.Store(int32(SetupNotAuthorized))
			}
			s.logger.Info("camera authorization resolved", "granted", granted)
			s.ui.Async(func() { s.events.Session.authorizationResolved(granted) })
			s.queue.Resume()
		})
	default:
		s.logger.Warn("camera access not authorized", "status", status.String())
		s.setup.Store(int32(SetupNotAuthorized))
		s.ui.Async(func() { s.events.Session.authorizationResolved(false) })
	}
	s.queue.Async(s.configureSession)
	s.queue.Async(func() { s.updateVideoOrientation(orientation) })
}

func (s *Session) configureSession() {
	if s.SetupResult() != SetupPending {
		return
	}
	s.session.BeginConfiguration()
	tx := newConfigTx(s.session)
	err := s.configureOutputs(tx)
	if err != nil {
		tx.rollback()
		s.inputs.active = nil
		s.photo.reset()
		if s.video != nil {
			s.video.reset()
		}
	}
	s.session.CommitConfiguration()

	if err != nil {
		s.setup.Store(int32(SetupConfigurationFailed))
		s.logger.Error("session configuration failed", "preset", s.cfg.Preset.String(), "error", err)
		s.ui.Async(func() { s.events.Session.configurationFailed(err) })
		return
	}
	s.setup.Store(int32(SetupSuccess))
	s.logger.Info("session configured", "preset", s.cfg.Preset.String(), "position", s.inputs.position().String())
	if s.video != nil {
		s.ui.Async(s.events.Video.readyForRecording)
	}
}

func (s *Session) configureOutputs(tx *configTx) error {
	if s.cfg.Preset == PresetVideos {
		s.session.SetPreset(camera.PresetHigh)
	} else {
		s.session.SetPreset(camera.PresetPhoto)
	}
	if err := s.inputs.configure(tx); err != nil {
		return err
	}
	if err := s.photo.configure(tx, s.cfg.Preset, s.cfg.VideoDataOutput); err != nil {
		return err
	}
	if s.video != nil {
		if err := s.video.configure(tx); err != nil {
			return err
		}
	}
	return nil
}

// Resume starts the session. Running sessions are left alone. Failures are
// reported once per call through SessionEvents.Failed.
func (s *Session) Resume() {
	s.queue.Async(func() {
		if s.session.IsRunning() {
			s.logger.Warn("resume ignored, session already running")
			return
		}
		switch setup := s.SetupResult(); setup {
		case SetupSuccess:
			s.subscribe()
			s.session.StartRunning()
			if !s.session.IsRunning() {
				s.unsubscribeEvents()
				s.logger.Error("session did not start running")
				s.ui.Async(func() { s.events.Session.failed(ErrSessionNotStarted) })
				return
			}
			s.wantsRunning = true
			s.running.Store(true)
			s.logger.Info("session resumed")
			s.ui.Async(s.events.Session.resumed)
		case SetupPending:
			s.logger.Warn("resume refused", "setup", setup.String())
			s.ui.Async(func() { s.events.Session.failed(ErrNotPrepared) })
		case SetupNotAuthorized:
			s.logger.Warn("resume refused", "setup", setup.String())
			s.ui.Async(func() { s.events.Session.failed(ErrNotAuthorized) })
		default:
			s.logger.Warn("resume refused", "setup", setup.String())
			s.ui.Async(func() { s.events.Session.failed(ErrConfigurationFailed) })
		}
	})
}

// Suspend stops the session. Stopped sessions are left alone.
func (s *Session) Suspend() {
	s.queue.Async(s.suspend)
}

func (s *Session) suspend() {
	s.wantsRunning = false
	if !s.session.IsRunning() {
		s.unsubscribeEvents()
		if s.running.Swap(false) {
			s.ui.Async(s.events.Session.suspended)
			return
		}
		s.logger.Warn("suspend ignored, session not running")
		return
	}
	s.session.StopRunning()
	s.unsubscribeEvents()
	s.running.Store(false)
	s.logger.Info("session suspended")
	s.ui.Async(s.events.Session.suspended)
}

// ChangeCamera flips between the front and back camera. completion receives
// the swap error, if any, on the UI dispatcher.
func (s *Session) ChangeCamera(completion func(err error)) {
	s.queue.Async(func() {
		err := s.changeCamera()
		if err != nil {
			s.logger.Warn("change camera failed", "error", err)
		}
		if completion != nil {
			s.ui.Async(func() { completion(err) })
		}
	})
}

func (s *Session) changeCamera() error {
	switch s.SetupResult() {
	case SetupSuccess:
	case SetupPending:
		return ErrNotPrepared
	case SetupNotAuthorized:
		return ErrNotAuthorized
	default:
		return ErrConfigurationFailed
	}
	if s.video != nil && s.video.active != nil {
		return ErrRecordingInProgress
	}
	out := s.photo.output
	wantLive := s.cfg.Preset == PresetLivePhotos && out != nil && out.IsLivePhotoCaptureSupported()

	s.session.BeginConfiguration()
	err := s.inputs.swap(s.session)
	s.photo.restoreLivePhoto(wantLive)
	s.session.CommitConfiguration()
	return err
}

// UpdateVideoOrientation applies o to future captures and to the preview.
func (s *Session) UpdateVideoOrientation(o camera.Orientation) {
	s.queue.Async(func() { s.updateVideoOrientation(o) })
}

func (s *Session) updateVideoOrientation(o camera.Orientation) {
	s.orientation = o
	if s.video != nil {
		s.video.setOrientation(o)
	}
	s.ui.Async(func() {
		if p := s.Preview(); p != nil {
			p.SetVideoOrientation(o)
		}
	})
}

// SetPreview attaches the UI preview surface. The surface is called only on
// the UI dispatcher.
func (s *Session) SetPreview(p PreviewSurface) {
	s.previewMu.Lock()
	s.preview = p
	s.previewMu.Unlock()
	if p == nil {
		return
	}
	s.ui.Async(func() { p.AttachSession(s.session) })
}

// Preview returns the attached preview surface.
func (s *Session) Preview() PreviewSurface {
	s.previewMu.Lock()
	defer s.previewMu.Unlock()
	return s.preview
}

// CapturePhoto takes one shot. Live photo requests fall back to a still photo
// when the hardware cannot capture them.
func (s *Session) CapturePhoto(mode LivePhotoMode, save bool) *PhotoCapture {
	f := newFuture[PhotoResult]()
	s.queue.Async(func() { s.photo.capture(mode, save, s.orientation, f) })
	return &PhotoCapture{f: f}
}

// StartVideoRecording begins a recording unless one is already active.
func (s *Session) StartVideoRecording(save bool) *Recording {
	f := newFuture[VideoResult]()
	s.queue.Async(func() {
		if s.video == nil {
			s.logger.Warn("start recording ignored, preset has no video", "preset", s.cfg.Preset.String())
			f.resolve(VideoResult{}, ErrNoMovieOutput)
			return
		}
		s.video.start(save, s.orientation, f)
	})
	return &Recording{f: f}
}

// StopVideoRecording ends the active recording. With cancel set the file is
// discarded and the outcome is OutcomeCancelled.
func (s *Session) StopVideoRecording(cancel bool) {
	s.queue.Async(func() {
		if s.video == nil {
			s.logger.Warn("stop recording ignored, preset has no video")
			return
		}
		s.video.stop(cancel)
	})
}

// EnterBackground notes that the host went to the background.
func (s *Session) EnterBackground() {
	s.queue.Async(func() { s.backgrounded = true })
}

// EnterForeground restarts a session the system stopped while the host was in
// the background.
func (s *Session) EnterForeground() {
	s.queue.Async(func() {
		was := s.backgrounded
		s.backgrounded = false
		if !was || !s.wantsRunning || s.session.IsRunning() || s.SetupResult() != SetupSuccess {
			return
		}
		s.logger.Info("restarting session after foreground")
		if err := s.restart(); err != nil {
			s.ui.Async(func() { s.events.Session.runtimeError(err) })
		}
	})
}

// Close stops an active recording, waits a bounded time for captures in
// flight to report their outcome, then suspends the session, drops observers
// and stops the capture queue. Captures still running after the wait resolve
// with ErrSessionClosed and their temporary files are removed.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		// A parked queue has not configured anything yet.
		if !s.queue.Suspended() {
			var pending []<-chan struct{}
			s.queue.Sync(func() { pending = s.stopCaptures() })
			s.awaitCaptures(pending)
		}
		s.queue.Async(s.teardown)
		s.queue.Close()
	})
}

func (s *Session) stopCaptures() []<-chan struct{} {
	pending := s.photo.pending()
	if s.video != nil {
		if done := s.video.stopForClose(); done != nil {
			pending = append(pending, done)
		}
	}
	return pending
}

func (s *Session) awaitCaptures(pending []<-chan struct{}) {
	if len(pending) == 0 {
		return
	}
	timer := time.NewTimer(s.closeTimeout)
	defer timer.Stop()
	for _, done := range pending {
		select {
		case <-done:
		case <-timer.C:
			s.logger.Warn("captures still running at close", "timeout", s.closeTimeout)
			return
		}
	}
}

func (s *Session) teardown() {
	s.photo.abandon()
	if s.video != nil {
		s.video.abandon()
	}
	if s.session.IsRunning() {
		s.suspend()
		return
	}
	s.wantsRunning = false
	s.unsubscribeEvents()
}

// IsRunning reports the last published running state.
func (s *Session) IsRunning() bool { return s.running.Load() }

// IsRecording reports whether a recording is active.
func (s *Session) IsRecording() bool {
	return s.video != nil && s.video.recording.Load()
}

// InProgressLivePhotoCount is the number of live photos still being processed.
func (s *Session) InProgressLivePhotoCount() int { return int(s.photo.published.Load()) }

// SetupResult reports the authorization and configuration outcome.
func (s *Session) SetupResult() SetupResult { return SetupResult(s.setup.Load()) }

// Preset returns the capture mode the session was created with.
func (s *Session) Preset() Preset { return s.cfg.Preset }

// QueueDepth reports how many tasks wait on the capture queue.
func (s *Session) QueueDepth() int { return s.queue.Len() }

func (s *Session) subscribe() {
	if s.unsubscribe != nil {
		return
	}
	gen := s.subGen
	s.unsubscribe = s.session.Subscribe(func(e camera.Event) {
		s.queue.Async(func() { s.processEvent(gen, e) })
	})
}

func (s *Session) unsubscribeEvents() {
	if s.unsubscribe == nil {
		return
	}
	s.unsubscribe()
	s.unsubscribe = nil
	s.subGen++
}

func (s *Session) restart() error {
	s.session.StartRunning()
	if !s.session.IsRunning() {
		s.running.Store(false)
		s.logger.Error("session restart failed")
		return ErrSessionNotStarted
	}
	if !s.running.Swap(true) {
		s.ui.Async(s.events.Session.resumed)
	}
	return nil
}

// processEvent applies a hardware event delivered to subscription gen. Events
// queued before the subscription was dropped are stale and ignored.
func (s *Session) processEvent(gen uint64, e camera.Event) {
	if s.unsubscribe == nil || gen != s.subGen {
		return
	}
	switch ev := e.(type) {
	case camera.RunningChanged:
		was := s.running.Swap(ev.Running)
		if was == ev.Running {
			return
		}
		s.logger.Info("session running changed", "running", ev.Running)
		if ev.Running {
			s.ui.Async(s.events.Session.resumed)
		}
	case camera.Interrupted:
		s.logger.Warn("session interrupted", "reason", ev.Reason.String())
		s.ui.Async(func() { s.events.Session.interrupted(ev.Reason) })
	case camera.InterruptionEnded:
		s.logger.Info("session interruption ended")
		s.ui.Async(s.events.Session.interruptionEnded)
	case camera.RuntimeError:
		if errors.Is(ev.Err, camera.ErrMediaServicesReset) && s.wantsRunning {
			s.logger.Warn("media services reset, restarting session", "error", ev.Err)
			if err := s.restart(); err != nil {
				s.ui.Async(func() { s.events.Session.runtimeError(errors.Join(ev.Err, err)) })
			}
			return
		}
		s.logger.Error("session runtime error", "error", ev.Err)
		s.ui.Async(func() { s.events.Session.runtimeError(ev.Err) })
	}
}
