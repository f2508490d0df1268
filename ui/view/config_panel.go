package view

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/assetpicker-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel is the settings form. Changes are written to the config file
// and take effect on the next start.
type ConfigPanel interface {
	Build(parent *FrameWidget, startRow int) (endRow int)
	SetEditable(enabled bool)
	ApplyChanges()
}

type configPanel struct {
	cfg      *config.Config
	cfgPath  string
	logger   *slog.Logger
	applyBtn *ButtonWidget
	widgets  map[string]*TextWidget
}

func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(parent *FrameWidget, startRow int) (row int) {
	c := v.cfg
	row = startRow
	makeRow := func(id, label, value string) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, In(parent), Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(22))
		Grid(w, In(parent), Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeRow("preset", "Preset (photos/live_photos/videos)", c.Preset)
	makeRow("livePhotoMode", "Live Photo Mode (on/off)", c.LivePhotoMode)
	makeRow("savePhotos", "Save Photos", strconv.FormatBool(c.SavePhotos))
	makeRow("saveLivePhotos", "Save Live Photos", strconv.FormatBool(c.SaveLivePhotos))
	makeRow("saveVideos", "Save Videos", strconv.FormatBool(c.SaveVideos))
	makeRow("libraryDir", "Library Dir", c.LibraryDir)
	makeRow("libraryAccess", "Library Access", c.LibraryAccess)
	makeRow("minFreeDiskMB", "Min Free Disk MB", strconv.Itoa(c.MinFreeDiskMB))
	makeRow("pageSize", "Page Size", strconv.Itoa(c.PageSize))
	makeRow("maxSelection", "Max Selection (0 = any)", strconv.Itoa(c.MaxSelection))
	makeRow("previewFPS", "Preview FPS", strconv.Itoa(c.PreviewFPS))
	makeRow("recordingFPS", "Recording FPS", strconv.Itoa(c.RecordingFPS))
	v.applyBtn = Button(Txt("Apply Changes"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) value(id string) (string, bool) {
	w := v.widgets[id]
	if w == nil {
		return "", false
	}
	s := strings.TrimSpace(strings.Join(w.Get("1.0", END), ""))
	return s, s != ""
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	cfg := *v.cfg
	assignString := func(id string, dst *string) {
		if s, ok := v.value(id); ok {
			*dst = s
		}
	}
	assignInt := func(id string, dst *int) {
		if s, ok := v.value(id); ok {
			if i, err := strconv.Atoi(s); err == nil {
				*dst = i
			}
		}
	}
	assignBool := func(id string, dst *bool) {
		if s, ok := v.value(id); ok {
			if b, ok := parseBoolLoose(s); ok {
				*dst = b
			}
		}
	}
	assignString("preset", &cfg.Preset)
	assignString("livePhotoMode", &cfg.LivePhotoMode)
	assignBool("savePhotos", &cfg.SavePhotos)
	assignBool("saveLivePhotos", &cfg.SaveLivePhotos)
	assignBool("saveVideos", &cfg.SaveVideos)
	assignString("libraryDir", &cfg.LibraryDir)
	assignString("libraryAccess", &cfg.LibraryAccess)
	assignInt("minFreeDiskMB", &cfg.MinFreeDiskMB)
	assignInt("pageSize", &cfg.PageSize)
	assignInt("maxSelection", &cfg.MaxSelection)
	assignInt("previewFPS", &cfg.PreviewFPS)
	assignInt("recordingFPS", &cfg.RecordingFPS)
	if err := cfg.Validate(); err != nil {
		return
	}
	*v.cfg = cfg
	if err := v.cfg.Save(v.cfgPath); err != nil {
		v.logger.Error("config save failed", "error", err)
		return
	}
	v.logger.Info("config saved, restart to apply", "path", v.cfgPath)
}

func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
