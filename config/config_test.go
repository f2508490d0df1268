package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/soocke/assetpicker-go/domain/capture"
	"github.com/soocke/assetpicker-go/domain/library"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CapturePreset() != capture.PresetLivePhotos || cfg.Access() != library.AuthorizationNotDetermined {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestValidate_Normalizes(t *testing.T) {
	c := &Config{Preset: "panorama", LivePhotoMode: "OFF", LibraryAccess: "maybe", MinFreeDiskMB: -5, PreviewFPS: 500}
	_ = c.Validate()
	if c.Preset != "live_photos" || c.LivePhotoMode != "off" || c.LibraryAccess != "prompt" {
		t.Fatalf("strings not normalized: %+v", c)
	}
	if c.MinFreeDiskMB != 0 || c.PreviewFPS != 10 || c.RecordingFPS != 10 || c.PageSize != 60 || c.LibraryDir == "" {
		t.Fatalf("numbers not clamped: %+v", c)
	}
	if c.LiveMode() != capture.LivePhotoOff {
		t.Fatalf("live mode = %v", c.LiveMode())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	c := DefaultConfig()
	c.Preset = "videos"
	c.MinFreeDiskMB = 3
	c.ActionItems = []string{"Browse"}
	if err := c.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cc := got.CaptureConfig()
	if cc.Preset != capture.PresetVideos || cc.MinFreeDiskBytes != 3<<20 || len(got.ActionItems) != 1 {
		t.Fatalf("round trip lost fields: %+v", got)
	}
}

func TestLoad_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err == nil {
		t.Fatalf("expected a decode error")
	}
	if cfg == nil || cfg.PageSize != 60 {
		t.Fatalf("defaults not returned on error: %+v", cfg)
	}
}
