package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/soocke/assetpicker-go/app"
	"github.com/soocke/assetpicker-go/config"
	"github.com/soocke/assetpicker-go/debug"
)

func main() {
	cfgPath := flag.String("config", "config.json", "path to the JSON config file")
	debugFlag := flag.Bool("debug", false, "log runtime and memory stats")
	flag.Parse()

	level := slog.LevelInfo
	cfg, err := config.Load(*cfgPath)
	if *debugFlag {
		cfg.Debug = true
	}
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)
	if err != nil {
		logger.Warn("config load failed, using defaults", "path", *cfgPath, "error", err)
	}

	if cfg.Debug {
		debug.StartMemLogger(5*time.Second, logger)
	}

	application := app.NewApp("Asset Picker", 980, 720, cfg, *cfgPath, logger)
	if err := application.Start(); err != nil {
		logger.Error("picker failed to start", "error", err)
		os.Exit(1)
	}
}
