package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/soocke/assetpicker-go/domain/capture"
	"github.com/soocke/assetpicker-go/domain/library"
)

// Config holds runtime configuration for the picker.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug"`

	// Capture
	Preset          string `json:"preset"` // photos, live_photos or videos
	SavePhotos      bool   `json:"save_photos"`
	SaveLivePhotos  bool   `json:"save_live_photos"`
	SaveVideos      bool   `json:"save_videos"`
	LivePhotoMode   string `json:"live_photo_mode"` // on or off
	VideoDataOutput bool   `json:"video_data_output"`
	TempDir         string `json:"temp_dir"`
	MinFreeDiskMB   int    `json:"min_free_disk_mb"`

	// Library
	LibraryDir    string `json:"library_dir"`
	LibraryAccess string `json:"library_access"` // authorized, denied, restricted or prompt

	// Grid
	ActionItems  []string `json:"action_items"`
	PageSize     int      `json:"page_size"`
	MaxSelection int      `json:"max_selection"`

	// Screen camera
	PreviewFPS   int `json:"preview_fps"`
	RecordingFPS int `json:"recording_fps"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:           false,
		Preset:          capture.PresetLivePhotos.String(),
		SavePhotos:      true,
		SaveLivePhotos:  true,
		SaveVideos:      true,
		LivePhotoMode:   "on",
		VideoDataOutput: false,
		MinFreeDiskMB:   200,
		LibraryDir:      defaultLibraryDir(),
		LibraryAccess:   "prompt",
		ActionItems:     []string{"Browse files", "Paste"},
		PageSize:        60,
		MaxSelection:    0,
		PreviewFPS:      10,
		RecordingFPS:    10,
	}
}

// defaultLibraryDir is a folder under the user's pictures directory.
func defaultLibraryDir() string {
	if pics := xdg.UserDirs.Pictures; pics != "" {
		return filepath.Join(pics, "assetpicker")
	}
	return filepath.Join(os.TempDir(), "assetpicker")
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if p, err := capture.ParsePreset(c.Preset); err != nil {
		c.Preset = capture.PresetLivePhotos.String()
	} else {
		c.Preset = p.String()
	}
	switch strings.ToLower(c.LivePhotoMode) {
	case "on", "off":
		c.LivePhotoMode = strings.ToLower(c.LivePhotoMode)
	default:
		c.LivePhotoMode = "on"
	}
	if _, err := library.ParseAuthorization(c.LibraryAccess); err != nil {
		c.LibraryAccess = "prompt"
	}
	if c.LibraryDir == "" {
		c.LibraryDir = defaultLibraryDir()
	}
	if c.MinFreeDiskMB < 0 {
		c.MinFreeDiskMB = 0
	}
	if c.PageSize <= 0 {
		c.PageSize = 60
	}
	if c.MaxSelection < 0 {
		c.MaxSelection = 0
	}
	if c.PreviewFPS <= 0 || c.PreviewFPS > 60 {
		c.PreviewFPS = 10
	}
	if c.RecordingFPS <= 0 || c.RecordingFPS > 60 {
		c.RecordingFPS = 10
	}
	return nil
}

// CapturePreset returns the parsed preset; call after Validate.
func (c *Config) CapturePreset() capture.Preset {
	p, _ := capture.ParsePreset(c.Preset)
	return p
}

// LiveMode returns the live photo request mode.
func (c *Config) LiveMode() capture.LivePhotoMode {
	if c.LivePhotoMode == "off" {
		return capture.LivePhotoOff
	}
	return capture.LivePhotoOn
}

// Access returns the parsed library authorization.
func (c *Config) Access() library.AuthorizationStatus {
	a, _ := library.ParseAuthorization(c.LibraryAccess)
	return a
}

// CaptureConfig maps the capture fields onto capture.Config.
func (c *Config) CaptureConfig() capture.Config {
	return capture.Config{
		Preset:           c.CapturePreset(),
		TempDir:          c.TempDir,
		MinFreeDiskBytes: uint64(c.MinFreeDiskMB) << 20,
		VideoDataOutput:  c.VideoDataOutput,
	}
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
