package presenter

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/soocke/assetpicker-go/domain/camera"
	"github.com/soocke/assetpicker-go/domain/capture"
	"github.com/soocke/assetpicker-go/ui/model"
)

// CameraSession narrows what the presenter needs from capture.Session.
type CameraSession interface {
	Resume()
	Suspend()
	ChangeCamera(completion func(err error))
	CapturePhoto(mode capture.LivePhotoMode, save bool) *capture.PhotoCapture
	StartVideoRecording(save bool) *capture.Recording
	StopVideoRecording(cancel bool)
	IsRunning() bool
	IsRecording() bool
	Preset() capture.Preset
}

// CameraView updates the camera cell controls.
type CameraView interface {
	SetRunning(bool)
	SetRecording(bool)
	SetRecordEnabled(bool)
	SetLiveBadge(n int)
	FlashShutter()
}

// StatusSink receives human readable status lines.
type StatusSink interface{ OnStatus(string) }

// PreviewResetter clears the preview when the camera stops.
type PreviewResetter interface{ Reset() }

// CameraOptions controls saving and live photo requests.
type CameraOptions struct {
	SavePhotos bool
	SaveVideos bool
	LiveMode   capture.LivePhotoMode
}

// CameraPresenter turns button presses into capture calls and capture
// callbacks into view updates. Every method runs on the UI dispatcher.
type CameraPresenter struct {
	session CameraSession
	model   *model.PickerModel
	view    CameraView
	status  StatusSink
	preview PreviewResetter
	opts    CameraOptions
	logger  *slog.Logger
}

func NewCameraPresenter(m *model.PickerModel, view CameraView, status StatusSink, preview PreviewResetter, opts CameraOptions, logger *slog.Logger) *CameraPresenter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CameraPresenter{model: m, view: view, status: status, preview: preview, opts: opts, logger: logger}
}

// Attach binds the session built from Events.
func (c *CameraPresenter) Attach(s CameraSession) {
	c.session = s
	if c.model != nil {
		c.model.SetCameraEnabled(s != nil)
	}
}

func (c *CameraPresenter) ready() bool {
	return c != nil && c.session != nil && c.view != nil
}

// Toggle resumes a stopped camera and suspends a running one.
func (c *CameraPresenter) Toggle() {
	if !c.ready() {
		return
	}
	if c.session.IsRunning() {
		c.session.Suspend()
		return
	}
	c.session.Resume()
}

// Shutter takes a photo with the configured live mode.
func (c *CameraPresenter) Shutter() {
	if !c.ready() || !c.session.IsRunning() {
		return
	}
	c.session.CapturePhoto(c.opts.LiveMode, c.opts.SavePhotos)
}

// ToggleRecording starts a recording or stops the current one.
func (c *CameraPresenter) ToggleRecording() {
	if !c.ready() || c.session.Preset() != capture.PresetVideos {
		return
	}
	if c.session.IsRecording() {
		c.session.StopVideoRecording(false)
		return
	}
	if !c.session.IsRunning() {
		return
	}
	c.session.StartVideoRecording(c.opts.SaveVideos)
}

// Cancel discards the recording in progress.
func (c *CameraPresenter) Cancel() {
	if !c.ready() || !c.session.IsRecording() {
		return
	}
	c.session.StopVideoRecording(true)
}

// Flip swaps front and back cameras. done runs on the UI dispatcher.
func (c *CameraPresenter) Flip(done func(error)) {
	if !c.ready() {
		return
	}
	c.session.ChangeCamera(func(err error) {
		if err != nil {
			c.say(fmt.Sprintf("Camera switch failed: %v", err))
		}
		if done != nil {
			done(err)
		}
	})
}

func (c *CameraPresenter) say(s string) {
	if c.status != nil {
		c.status.OnStatus(s)
	}
}

// Events returns the callbacks to construct the capture session with.
func (c *CameraPresenter) Events() capture.Events {
	return capture.Events{
		Session: capture.SessionEvents{
			Resumed:               c.onResumed,
			Suspended:             c.onSuspended,
			Failed:                c.onFailed,
			ConfigurationFailed:   func(err error) { c.say("Camera unavailable") },
			AuthorizationResolved: c.onAuthorization,
			Interrupted:           func(r camera.InterruptionReason) { c.say("Camera interrupted: " + r.String()) },
			InterruptionEnded:     func() { c.say("Camera interruption ended") },
			RuntimeError:          func(err error) { c.say(fmt.Sprintf("Camera error: %v", err)) },
		},
		Photo: capture.PhotoEvents{
			WillCapture:                 func(camera.PhotoSettings) { c.view.FlashShutter() },
			Captured:                    c.onCaptured,
			Failed:                      func(err error) { c.say(fmt.Sprintf("Photo failed: %v", err)) },
			LivePhotosInProgressChanged: func(n int) { c.view.SetLiveBadge(n) },
		},
		Video: capture.VideoEvents{
			ReadyForRecording: func() { c.view.SetRecordEnabled(true) },
			Started:           func(string) { c.view.SetRecording(true); c.say("Recording") },
			Cancelled:         func() { c.view.SetRecording(false); c.say("Recording cancelled") },
			Finished:          func(string) { c.view.SetRecording(false); c.say("Recording saved") },
			Interrupted: func(_ string, err error) {
				c.view.SetRecording(false)
				c.say(fmt.Sprintf("Recording stopped early: %v", err))
			},
			Failed: func(err error) {
				c.view.SetRecording(false)
				c.say(fmt.Sprintf("Recording failed: %v", err))
			},
		},
	}
}

func (c *CameraPresenter) onResumed() {
	c.view.SetRunning(true)
	c.say("Camera running")
}

func (c *CameraPresenter) onSuspended() {
	c.view.SetRunning(false)
	if c.preview != nil {
		c.preview.Reset()
	}
	c.say("Camera paused")
}

func (c *CameraPresenter) onFailed(err error) {
	c.view.SetRunning(false)
	switch {
	case errors.Is(err, capture.ErrNotAuthorized):
		c.say("Camera access denied")
	case errors.Is(err, capture.ErrSessionNotStarted):
		c.say("Camera did not start")
	case errors.Is(err, capture.ErrNotPrepared):
		c.say("Camera not ready")
	default:
		c.say("Camera unavailable")
	}
	c.logger.Warn("camera resume failed", "error", err)
}

func (c *CameraPresenter) onAuthorization(granted bool) {
	if !granted {
		c.say("Camera access denied")
	}
}

func (c *CameraPresenter) onCaptured(res capture.PhotoResult) {
	if res.LivePhotoMovie != "" {
		c.say("Live photo captured")
		return
	}
	c.say("Photo captured")
}
