package view

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/soocke/assetpicker-go/config"
	"github.com/soocke/assetpicker-go/domain/camera"
	"github.com/soocke/assetpicker-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RootView composes the picker window: camera cell and controls on the
// left, the asset grid on the right, settings below.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Grid        *AssetGrid
	Recording   RecordingStats
	ConfigPanel ConfigPanel
	Preview     CapturePreview

	// Widgets
	StatusLabel *TLabelWidget
	LiveBadge   *TLabelWidget
	runBtn      *ButtonWidget
	flipBtn     *ButtonWidget
	shutterBtn  *TButtonWidget
	recordBtn   *TButtonWidget
	cancelBtn   *ButtonWidget

	running bool
}

// Handlers are the user actions the root view forwards.
type Handlers struct {
	ToggleCamera func()
	Shutter      func()
	Record       func()
	Cancel       func()
	Flip         func()
	ToggleAsset  func(item int)
	LoadMore     func()
	Exit         func()
}

func NewRootView(cfg *config.Config, cfgPath string, grid *AssetGrid, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, Grid: grid, logger: logger}
}

// Build constructs the layout. showRecord adds the record and cancel buttons.
func (rv *RootView) Build(h Handlers, showRecord bool) {
	if rv == nil {
		return
	}
	camFrame := Frame()
	Grid(camFrame, Row(0), Column(0), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))
	rv.StatusLabel = TLabel(Txt("Starting"), Style(theme.StyleStatusLabel))
	Grid(rv.StatusLabel, In(camFrame), Row(0), Column(0), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	rv.LiveBadge = TLabel(Txt(""), Style(theme.StyleLiveBadge))
	Grid(rv.LiveBadge, In(camFrame), Row(0), Column(3), Sticky("e"), Padx("0.4m"))

	rv.Preview = NewCapturePreview(camFrame, 1, 4)

	btnFrame := Frame()
	Grid(btnFrame, In(camFrame), Row(3), Column(0), Columnspan(4), Sticky("we"))
	rv.runBtn = Button(Txt("Resume"), Command(h.ToggleCamera))
	Grid(rv.runBtn, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.flipBtn = Button(Txt("Flip"), Command(h.Flip))
	Grid(rv.flipBtn, In(btnFrame), Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.shutterBtn = TButton(Txt("Shutter"), Style(theme.StyleShutterButton), Command(h.Shutter))
	Grid(rv.shutterBtn, In(btnFrame), Row(0), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	if showRecord {
		rv.recordBtn = TButton(Txt("Record"), Style(theme.StyleRecordButton), Command(h.Record))
		Grid(rv.recordBtn, In(btnFrame), Row(1), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
		rv.cancelBtn = Button(Txt("Cancel"), Command(h.Cancel))
		Grid(rv.cancelBtn, In(btnFrame), Row(1), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
		rv.Recording = NewRecordingStats(btnFrame, 1, 2)
	}
	exitBtn := Button(Txt("Exit"), Command(h.Exit))
	Grid(exitBtn, In(btnFrame), Row(2), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))

	gridFrame := Frame()
	Grid(gridFrame, Row(0), Column(1), Sticky("nswe"), Padx("0.4m"), Pady("0.4m"))
	if rv.Grid != nil {
		rv.Grid.Build(gridFrame, 0, h.ToggleAsset, h.LoadMore)
	}

	cfgFrame := Frame()
	Grid(cfgFrame, Row(1), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger)
	rv.ConfigPanel.Build(cfgFrame, 0)

	rv.SetRunning(false)
	rv.SetRecording(false)
	rv.SetRecordEnabled(false)
}

func enabledState(enabled bool) Opt {
	if enabled {
		return State("normal")
	}
	return State("disabled")
}

// SetStatusLabel updates the status line.
func (rv *RootView) SetStatusLabel(text string) {
	if rv != nil && rv.StatusLabel != nil {
		rv.StatusLabel.Configure(Txt(text))
	}
}

// SetRunning flips the resume/pause button and gates the shutter.
func (rv *RootView) SetRunning(running bool) {
	if rv == nil || rv.runBtn == nil {
		return
	}
	rv.running = running
	if running {
		rv.runBtn.Configure(Txt("Pause"))
	} else {
		rv.runBtn.Configure(Txt("Resume"))
	}
	rv.shutterBtn.Configure(enabledState(running))
	rv.flipBtn.Configure(enabledState(running))
	if rv.Grid != nil {
		rv.Grid.Refresh()
	}
}

// SetRecording switches the record button between start and stop.
func (rv *RootView) SetRecording(recording bool) {
	if rv == nil || rv.recordBtn == nil {
		return
	}
	if recording {
		rv.recordBtn.Configure(Txt("Stop"))
	} else {
		rv.recordBtn.Configure(Txt("Record"))
	}
	rv.cancelBtn.Configure(enabledState(recording))
	rv.flipBtn.Configure(enabledState(rv.running && !recording))
	rv.SetConfigEditable(!recording)
}

func (rv *RootView) SetRecordEnabled(enabled bool) {
	if rv != nil && rv.recordBtn != nil {
		rv.recordBtn.Configure(enabledState(enabled))
	}
}

// SetLiveBadge shows how many live photos are still being processed.
func (rv *RootView) SetLiveBadge(n int) {
	if rv == nil || rv.LiveBadge == nil {
		return
	}
	if n <= 0 {
		rv.LiveBadge.Configure(Txt(""))
		return
	}
	rv.LiveBadge.Configure(Txt(fmt.Sprintf("LIVE %d", n)))
}

func (rv *RootView) FlashShutter() {
	if rv != nil && rv.Preview != nil {
		rv.Preview.Flash()
	}
}

// SetConfigEditable toggles config panel editability.
func (rv *RootView) SetConfigEditable(enabled bool) {
	if rv != nil && rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(enabled)
	}
}

// SetRecordingTime shows the clip and total recording durations.
func (rv *RootView) SetRecordingTime(current, total time.Duration) {
	if rv == nil || rv.Recording == nil {
		return
	}
	rv.Recording.SetCurrent(current)
	rv.Recording.SetTotal(total)
}

func (rv *RootView) UpdatePreview(img image.Image) {
	if rv != nil && rv.Preview != nil {
		rv.Preview.Update(img)
	}
}

func (rv *RootView) SetPreviewOrientation(o camera.Orientation) {
	if rv != nil && rv.Preview != nil {
		rv.Preview.SetOrientation(o)
	}
}

func (rv *RootView) ResetPreview() {
	if rv != nil && rv.Preview != nil {
		rv.Preview.Reset()
	}
}
