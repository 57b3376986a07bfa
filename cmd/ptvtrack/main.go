// Command ptvtrack runs the particle-tracking-velocimetry pipeline
// end to end: it reads a plain-text run configuration, stereo-matches
// every camera's detections frame by frame, links the resulting 3D
// positions into trajectories, and writes both output streams.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/LdDl/ptv-go/internal/pipeline"
	"github.com/LdDl/ptv-go/internal/runconfig"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <configuration-file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	runID := uuid.New()
	logger := slog.With("run_id", runID)

	cfg, err := runconfig.Parse(flag.Arg(0))
	if err != nil {
		logger.Error("load configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("configuration loaded", "cameras", len(cfg.Cameras), "first", cfg.First, "last", cfg.Last)

	if err := pipeline.Run(cfg, logger); err != nil {
		logger.Error("pipeline run failed", "error", err)
		os.Exit(1)
	}
	logger.Info("run complete")
}
