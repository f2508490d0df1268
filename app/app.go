// Package app wires the picker together and runs it on the Tk event loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/soocke/assetpicker-go/config"
	"github.com/soocke/assetpicker-go/debug"
	"github.com/soocke/assetpicker-go/domain/camera"
	"github.com/soocke/assetpicker-go/domain/capture"
	"github.com/soocke/assetpicker-go/ui/model"
	"github.com/soocke/assetpicker-go/ui/presenter"
	"github.com/soocke/assetpicker-go/ui/theme"
	"github.com/soocke/assetpicker-go/ui/view"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const tick = 50 * time.Millisecond

type app struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
	width   int
	height  int

	c         *AppContainer
	afterID   string
	stopWatch context.CancelFunc
	watchDone chan struct{}
	exiting   bool
}

func NewApp(title string, width, height int, cfg *config.Config, cfgPath string, logger *slog.Logger) *app {
	a := &app{cfg: cfg, cfgPath: cfgPath, logger: logger, width: width, height: height}
	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", width, height))
	return a
}

// Start builds the window, starts the capture session and the library
// watcher, then blocks in the Tk main loop.
func (a *app) Start() error {
	theme.InitStyles()
	c, err := BuildContainer(a.cfg, a.logger, a.cfgPath)
	if err != nil {
		return err
	}
	a.c = c
	c.RootView.Build(a.handlers(), a.cfg.CapturePreset() == capture.PresetVideos)
	c.Loop = presenter.NewLoop(c.UI, c.StatusPresenter, c.RecordingPresenter, c.PreviewPresenter, a.scheduleUpdate)

	if a.cfg.Debug {
		debug.StartGoroutineLogger(5*time.Second, a.logger, func() map[string]int {
			return map[string]int{"capture": c.Session.QueueDepth(), "ui": c.UI.Len(), "grid": c.Updates.Pending()}
		})
	}

	Bind(App, "<Unmap>", Command(c.Session.EnterBackground))
	Bind(App, "<Map>", Command(c.Session.EnterForeground))

	ctx, cancel := context.WithCancel(context.Background())
	a.stopWatch = cancel
	a.watchDone = make(chan struct{})
	go func() {
		defer close(a.watchDone)
		if err := c.Library.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("library watch stopped", "error", err)
		}
	}()

	c.UI.Async(c.LibraryPresenter.Start)
	c.Session.Prepare(camera.OrientationLandscapeRight)
	c.Session.Resume()

	a.scheduleUpdate()
	App.Wait()
	return nil
}

func (a *app) handlers() view.Handlers {
	c := a.c
	return view.Handlers{
		ToggleCamera: c.CameraPresenter.Toggle,
		Shutter:      c.CameraPresenter.Shutter,
		Record:       c.CameraPresenter.ToggleRecording,
		Cancel:       c.CameraPresenter.Cancel,
		Flip:         func() { c.CameraPresenter.Flip(nil) },
		ToggleAsset: func(item int) {
			if _, err := c.LibraryPresenter.Toggle(item); errors.Is(err, model.ErrSelectionLimit) {
				c.StatusPresenter.OnStatus(fmt.Sprintf("At most %d items can be selected", a.cfg.MaxSelection))
			}
		},
		LoadMore: func() { c.LibraryPresenter.LoadMore() },
		Exit:     a.exitHandler,
	}
}

func (a *app) scheduleUpdate() {
	if a.exiting {
		return
	}
	// TclAfter keeps the tick on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() { a.c.Loop.Tick() })
}

func (a *app) exitHandler() {
	if a.exiting {
		return
	}
	a.exiting = true
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	if c := a.c; c != nil {
		c.LibraryPresenter.Stop()
		c.Session.Close()
		if a.stopWatch != nil {
			a.stopWatch()
			<-a.watchDone
		}
		if n := c.UI.Drain(); n > 0 {
			a.logger.Debug("drained ui tasks on exit", "count", n)
		}
	}
	Destroy(App)
}
