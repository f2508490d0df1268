package app

import (
	"fmt"
	"log/slog"

	"github.com/soocke/assetpicker-go/config"
	"github.com/soocke/assetpicker-go/device/screencam"
	"github.com/soocke/assetpicker-go/domain/camera"
	"github.com/soocke/assetpicker-go/domain/capture"
	"github.com/soocke/assetpicker-go/domain/collection"
	"github.com/soocke/assetpicker-go/domain/library"
	"github.com/soocke/assetpicker-go/domain/queue"
	"github.com/soocke/assetpicker-go/ui/model"
	"github.com/soocke/assetpicker-go/ui/presenter"
	"github.com/soocke/assetpicker-go/ui/view"
)

// AppContainer assembles the library, the capture stack, models,
// presenters and the root view.
type AppContainer struct {
	Config  *config.Config
	Logger  *slog.Logger
	UI      *queue.Pump
	Camera  *screencam.Hardware
	Library *library.DirLibrary
	Saver   *library.Saver
	Session *capture.Session

	Picker    *model.PickerModel
	Recording *model.RecordingModel
	Grid      *view.AssetGrid
	Updates   *collection.UpdatesCoordinator
	RootView  *view.RootView

	// Presenters
	CameraPresenter    *presenter.CameraPresenter
	LibraryPresenter   *presenter.LibraryPresenter
	StatusPresenter    *presenter.StatusPresenter
	RecordingPresenter *presenter.RecordingPresenter
	PreviewPresenter   *presenter.PreviewPresenter
	Loop               *presenter.Loop
}

// BuildContainer constructs all components. Nothing runs until the app starts
// the session and the UI loop.
func BuildContainer(cfg *config.Config, logger *slog.Logger, cfgPath string) (*AppContainer, error) {
	c := &AppContainer{Config: cfg, Logger: logger}
	c.Picker = model.NewPickerModel(cfg.ActionItems, cfg.PageSize, cfg.MaxSelection)
	c.Recording = model.NewRecordingModel()

	var status *presenter.StatusPresenter
	c.UI = queue.NewPump(logger, func(v any) {
		status.OnStatus(fmt.Sprintf("Internal error: %v", v))
	})

	lib, err := library.OpenDir(cfg.LibraryDir, library.DirOptions{Access: cfg.Access(), GrantOnPrompt: true}, logger)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	c.Library = lib
	c.Saver = library.NewSaver(lib, logger)

	c.Camera = screencam.New(screencam.Options{
		FPS:           cfg.PreviewFPS,
		RecordingFPS:  cfg.RecordingFPS,
		Access:        camera.AuthorizationNotDetermined,
		GrantOnPrompt: true,
	}, logger)

	list := collection.NewMemoryList(c.Picker.SectionIndex(model.SectionAssets), c.Picker.VisibleAssets, logger)
	c.Grid = view.NewAssetGrid(list, c.Picker)
	c.Updates = collection.NewUpdatesCoordinator(c.UI, c.Grid, logger)
	c.RootView = view.NewRootView(cfg, cfgPath, c.Grid, logger)

	status = presenter.NewStatusPresenter(c.RootView)
	c.StatusPresenter = status
	c.PreviewPresenter = presenter.NewPreviewPresenter(c.RootView, cfg.PreviewFPS)
	c.CameraPresenter = presenter.NewCameraPresenter(c.Picker, c.RootView, status, c.PreviewPresenter, presenter.CameraOptions{
		SavePhotos: cfg.SavePhotos && (cfg.LiveMode() == capture.LivePhotoOff || cfg.SaveLivePhotos),
		SaveVideos: cfg.SaveVideos,
		LiveMode:   cfg.LiveMode(),
	}, logger)

	c.Session = capture.NewSession(c.Camera, c.UI, logger, cfg.CaptureConfig(), c.CameraPresenter.Events(),
		capture.WithLibrary(c.Saver),
		capture.WithPanicHandler(func(v any) {
			logger.Error("capture queue panicked", "value", v)
			c.UI.Async(func() { status.OnStatus(fmt.Sprintf("Camera stopped: %v", v)) })
		}),
	)
	c.Session.SetPreview(c.PreviewPresenter)
	c.CameraPresenter.Attach(c.Session)

	c.RecordingPresenter = presenter.NewRecordingPresenter(c.Recording, c.Session, c.RootView)
	c.LibraryPresenter = presenter.NewLibraryPresenter(c.Library, c.Updates, c.UI, c.Picker, logger)
	return c, nil
}
