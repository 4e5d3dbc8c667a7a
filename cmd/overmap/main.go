package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/overmap/overmap/internal/config"
	"github.com/overmap/overmap/internal/logging"
	"github.com/overmap/overmap/internal/otel"
	"github.com/overmap/overmap/internal/session"

	"github.com/spf13/viper"
)

// Version can be set at build time via ldflags.
var Version = "0.0.1"

var (
	logManager = logging.NewSlogManager()
	sessionCtx = session.NewContext()
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}

	// config is optional for the document commands
	if err := config.Load("."); err != nil {
		viper.SetDefault("logLevel", "info")
	}

	logsDir := setupLogging()

	otelProvider, err := setupMetrics(logsDir)
	if err != nil {
		return fmt.Errorf("setting up metrics: %w", err)
	}
	defer otelProvider.Shutdown(context.Background())

	switch strings.ToLower(args[0]) {
	case "validate":
		return cmdValidate(args[1:])
	case "export-geojson":
		return cmdExportGeoJSON(args[1:])
	case "store":
		return cmdStore(args[1:])
	case "load":
		return cmdLoad(args[1:])
	case "version":
		fmt.Println("overmap", Version)
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func usage() {
	fmt.Println(`overmap - marker document tooling

Usage:
  overmap validate <markers.json>
  overmap export-geojson <markers.json> <out.geojson>
  overmap store <mapID> <markers.json>
  overmap load <mapID> <out.json>
  overmap version`)
}

func setupLogging() string {
	var logFile *os.File
	logsDir := viper.GetString("logsDir")
	if logsDir != "" {
		if err := os.MkdirAll(logsDir, 0755); err == nil {
			path := logging.LogFilePath(logsDir, "overmap", time.Now())
			logFile, _ = os.Create(path)
		} else {
			logsDir = ""
		}
	}

	gelfWriter, err := logging.NewGraylogWriter()
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: graylog disabled:", err)
	}

	if logFile != nil {
		logManager.Setup(logFile, gelfWriter, viper.GetString("logLevel"), sessionCtx)
	} else {
		logManager.Setup(nil, gelfWriter, viper.GetString("logLevel"), sessionCtx)
	}
	return logsDir
}

// setupMetrics installs the global meter provider so the event registry
// and monitor counters get exported.
func setupMetrics(logsDir string) (*otel.Provider, error) {
	cfg := otel.Config{
		Enabled:     viper.GetBool("otel.enabled"),
		ServiceName: viper.GetString("otel.serviceName"),
		Interval:    time.Duration(viper.GetInt("otel.intervalSeconds")) * time.Second,
	}
	if cfg.Enabled {
		dir := logsDir
		if dir == "" {
			dir = "."
		}
		f, err := os.Create(dir + "/overmap.metrics.json")
		if err != nil {
			return nil, err
		}
		cfg.MetricWriter = f
	}
	return otel.New(cfg)
}
