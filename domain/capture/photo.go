package capture

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/soocke/assetpicker-go/domain/camera"
	"github.com/soocke/assetpicker-go/domain/queue"
)

// photoSession owns the photo output and the shots in flight. All fields except
// published are touched only on the capture queue; published is written on the
// UI dispatcher.
type photoSession struct {
	hw      camera.Hardware
	logger  *slog.Logger
	q       queue.Dispatcher
	ui      queue.Dispatcher
	events  PhotoEvents
	library LibrarySaver
	tempDir string

	output     camera.PhotoOutput
	dataOutput camera.VideoDataOutput
	inflight   map[int64]*photoCapture
	nextID     int64
	liveCount  int
	published  atomic.Int32
}

func newPhotoSession(hw camera.Hardware, logger *slog.Logger, q, ui queue.Dispatcher, events PhotoEvents, library LibrarySaver, tempDir string) *photoSession {
	return &photoSession{
		hw:       hw,
		logger:   logger,
		q:        q,
		ui:       ui,
		events:   events,
		library:  library,
		tempDir:  tempDir,
		inflight: make(map[int64]*photoCapture),
	}
}

func (p *photoSession) configure(tx *configTx, preset Preset, withDataOutput bool) error {
	out := p.hw.NewPhotoOutput()
	if !tx.addOutput(out) {
		return &ConfigError{Step: "photo output", Err: ErrCannotAddOutput}
	}
	out.SetHighResolutionCaptureEnabled(true)

	live := preset == PresetLivePhotos && out.IsLivePhotoCaptureSupported()
	out.SetLivePhotoCaptureEnabled(live)
	if preset == PresetLivePhotos && !live {
		p.logger.Info("live photos requested but not supported by hardware")
	}
	if live {
		addAudioInput(p.hw, tx, p.logger)
	}

	if withDataOutput {
		d := p.hw.NewVideoDataOutput()
		d.SetAlwaysDiscardsLateVideoFrames(true)
		if tx.addOutput(d) {
			p.dataOutput = d
		} else {
			p.logger.Warn("could not add video data output to the session")
		}
	}
	p.output = out
	return nil
}

func (p *photoSession) reset() {
	p.output = nil
	p.dataOutput = nil
}

// restoreLivePhoto re-applies the live photo flag the hardware clears when the
// camera input changes.
func (p *photoSession) restoreLivePhoto(want bool) {
	if p.output == nil {
		return
	}
	p.output.SetLivePhotoCaptureEnabled(want && p.output.IsLivePhotoCaptureSupported())
}

func (p *photoSession) capture(mode LivePhotoMode, save bool, orientation camera.Orientation, f *future[PhotoResult]) {
	if p.output == nil {
		p.logger.Warn("capture photo ignored, no photo output")
		f.resolve(PhotoResult{}, ErrPhotoOutputUnavailable)
		p.ui.Async(func() { p.events.failed(ErrPhotoOutputUnavailable) })
		return
	}

	p.nextID++
	settings := camera.PhotoSettings{
		ID:                p.nextID,
		FlashMode:         camera.FlashOff,
		HighResolution:    true,
		EmbeddedThumbnail: p.output.SupportsEmbeddedThumbnail(),
		VideoOrientation:  orientation,
	}
	if slices.Contains(p.output.SupportedFlashModes(), camera.FlashAuto) {
		settings.FlashMode = camera.FlashAuto
	}
	if mode == LivePhotoOn {
		if p.output.IsLivePhotoCaptureEnabled() {
			settings.LivePhotoMovieFile = filepath.Join(p.tempDir, "live-"+uuid.NewString()+".mov")
		} else {
			p.logger.Info("live photo capture not supported, capturing regular photo")
		}
	}

	pc := &photoCapture{session: p, settings: settings, save: save, future: f, finished: make(chan struct{})}
	p.inflight[settings.ID] = pc
	p.logger.Debug("capturing photo", "id", settings.ID, "live", settings.LivePhotoMovieFile != "")
	p.output.CapturePhoto(settings, pc)
}

// adjustLiveCount applies delta and publishes the new count on the UI queue.
// A change that would go below zero is dropped.
func (p *photoSession) adjustLiveCount(delta int) {
	n := p.liveCount + delta
	if n < 0 {
		p.logger.Error("live photo count would become negative, ignoring", "count", p.liveCount, "delta", delta)
		return
	}
	p.liveCount = n
	p.ui.Async(func() {
		p.published.Store(int32(n))
		p.events.livePhotosInProgressChanged(n)
	})
}

// pending returns a channel per shot in flight, closed when the shot ends.
func (p *photoSession) pending() []<-chan struct{} {
	var out []<-chan struct{}
	for _, pc := range p.inflight {
		out = append(out, pc.finished)
	}
	return out
}

// abandon fails every shot still in flight with ErrSessionClosed.
func (p *photoSession) abandon() {
	for _, pc := range p.inflight {
		p.logger.Warn("photo capture abandoned at close", "id", pc.settings.ID)
		p.finish(pc, ErrSessionClosed)
	}
}

func (p *photoSession) finish(pc *photoCapture, err error) {
	if pc.ended {
		return
	}
	pc.ended = true
	if pc.finished != nil {
		defer close(pc.finished)
	}
	delete(p.inflight, pc.settings.ID)
	if pc.liveCounted {
		pc.liveCounted = false
		p.adjustLiveCount(-1)
	}
	if err == nil {
		err = pc.err
	}
	if err == nil && len(pc.data) == 0 {
		err = ErrNoPhotoData
	}
	movie := pc.settings.LivePhotoMovieFile

	if err != nil {
		p.logger.Error("photo capture failed", "id", pc.settings.ID, "error", err)
		removeTemp(p.logger, movie)
		p.ui.Async(func() {
			p.events.failed(err)
			pc.future.resolve(PhotoResult{}, err)
		})
		return
	}

	res := PhotoResult{
		Settings:       pc.settings,
		Resolved:       pc.resolved,
		Data:           pc.data,
		LivePhotoMovie: pc.liveMovie,
	}
	save := pc.save && p.library != nil
	p.ui.Async(func() {
		p.events.captured(res)
		if !save {
			removeTemp(p.logger, movie)
			pc.future.resolve(res, nil)
			return
		}
		p.library.SavePhoto(res.Data, res.LivePhotoMovie, func(err error) {
			if err != nil {
				p.logger.Warn("saving photo to library failed", "id", res.Settings.ID, "error", err)
			}
			removeTemp(p.logger, movie)
			pc.future.resolve(res, nil)
		})
	})
}

// removeTemp deletes a temporary capture file. Missing files are fine.
func removeTemp(logger *slog.Logger, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("could not remove temporary file", "path", path, "error", err)
	}
}
