package capture

import (
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/soocke/assetpicker-go/domain/camera"
	"github.com/soocke/assetpicker-go/domain/queue"
)

// videoSession owns the movie output and at most one active recording.
type videoSession struct {
	hw      camera.Hardware
	logger  *slog.Logger
	q       queue.Dispatcher
	ui      queue.Dispatcher
	events  VideoEvents
	library LibrarySaver
	tempDir string
	minFree uint64

	output    camera.MovieFileOutput
	active    *recording
	recording atomic.Bool
}

func newVideoSession(hw camera.Hardware, logger *slog.Logger, q, ui queue.Dispatcher, events VideoEvents, library LibrarySaver, tempDir string, minFree uint64) *videoSession {
	return &videoSession{
		hw:      hw,
		logger:  logger,
		q:       q,
		ui:      ui,
		events:  events,
		library: library,
		tempDir: tempDir,
		minFree: minFree,
	}
}

func (v *videoSession) configure(tx *configTx) error {
	out := v.hw.NewMovieFileOutput()
	if !tx.addOutput(out) {
		return &ConfigError{Step: "movie file output", Err: ErrCannotAddOutput}
	}
	if out.SupportsVideoStabilization() {
		out.SetVideoStabilizationAuto(true)
	}
	addAudioInput(v.hw, tx, v.logger)
	v.output = out
	return nil
}

func (v *videoSession) reset() { v.output = nil }

func (v *videoSession) setOrientation(o camera.Orientation) {
	if v.output != nil && !v.output.IsRecording() {
		v.output.SetVideoOrientation(o)
	}
}

func (v *videoSession) start(save bool, orientation camera.Orientation, f *future[VideoResult]) {
	if v.output == nil {
		v.logger.Warn("start recording ignored, no movie output")
		f.resolve(VideoResult{}, ErrNoMovieOutput)
		return
	}
	if v.active != nil || v.output.IsRecording() {
		v.logger.Warn("start recording ignored, already recording")
		f.resolve(VideoResult{}, ErrRecordingInProgress)
		return
	}
	if v.minFree > 0 {
		free, err := freeDiskSpace(v.tempDir)
		switch {
		case err != nil:
			v.logger.Debug("free disk space unavailable", "dir", v.tempDir, "error", err)
		case free < v.minFree:
			v.logger.Warn("not enough free space to record", "free", humanize.IBytes(free), "required", humanize.IBytes(v.minFree))
			f.resolve(VideoResult{}, ErrInsufficientStorage)
			v.ui.Async(func() { v.events.failed(ErrInsufficientStorage) })
			return
		}
	}

	path := filepath.Join(v.tempDir, "video-"+uuid.NewString()+".mov")
	v.output.SetVideoOrientation(orientation)
	r := &recording{session: v, path: path, save: save, future: f, finished: make(chan struct{})}
	v.active = r
	v.recording.Store(true)
	v.logger.Info("recording started", "path", path)
	v.output.StartRecording(path, r)
}

func (v *videoSession) stop(cancel bool) {
	if v.output == nil || !v.output.IsRecording() {
		v.logger.Warn("stop recording ignored, nothing is recording")
		return
	}
	if v.active == nil {
		panic(&InvariantError{Op: "stop recording", Detail: "output is recording but no recording is tracked"})
	}
	v.active.cancelled = cancel
	v.output.StopRecording()
}

// stopForClose stops the active recording and returns a channel closed once
// its outcome is known, or nil when nothing is recording.
func (v *videoSession) stopForClose() <-chan struct{} {
	r := v.active
	if r == nil {
		return nil
	}
	r.closing = true
	if v.output != nil && v.output.IsRecording() {
		v.logger.Info("stopping recording for close", "path", r.path)
		v.output.StopRecording()
	}
	return r.finished
}

// abandon fails a recording whose outcome never arrived with ErrSessionClosed.
func (v *videoSession) abandon() {
	if r := v.active; r != nil {
		v.logger.Warn("recording abandoned at close", "path", r.path)
		v.finish(r, ErrSessionClosed)
	}
}

func (v *videoSession) finish(r *recording, hwErr error) {
	if r.ended {
		return
	}
	r.ended = true
	if r.finished != nil {
		defer close(r.finished)
	}
	if v.active == r {
		v.active = nil
		v.recording.Store(false)
	}
	outcome, err := classifyRecording(r.cancelled, hwErr)
	if r.closing {
		outcome, err = classifyClosing(outcome, err)
	}
	res := VideoResult{Path: r.path, Outcome: outcome, Err: err}
	v.logger.Info("recording ended", "path", r.path, "outcome", outcome.String(), "error", err)

	switch outcome {
	case OutcomeCancelled:
		removeTemp(v.logger, r.path)
		res.Path = ""
		v.ui.Async(func() {
			v.events.cancelled()
			r.future.resolve(res, nil)
		})
	case OutcomeFailed:
		removeTemp(v.logger, r.path)
		res.Path = ""
		v.ui.Async(func() {
			v.events.failed(err)
			r.future.resolve(res, nil)
		})
	case OutcomeInterrupted:
		v.ui.Async(func() {
			v.events.interrupted(r.path, err)
			r.future.resolve(res, nil)
		})
	case OutcomeFinished:
		save := r.save && v.library != nil
		v.ui.Async(func() {
			v.events.finished(r.path)
			if !save {
				r.future.resolve(res, nil)
				return
			}
			v.library.SaveVideo(r.path, func(err error) {
				if err != nil {
					v.logger.Warn("saving video to library failed", "path", r.path, "error", err)
				}
				removeTemp(v.logger, r.path)
				r.future.resolve(res, nil)
			})
		})
	}
}
