package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/ritzau/floorplan-editor/pkg/config"
	"github.com/ritzau/floorplan-editor/pkg/logging"
	"github.com/ritzau/floorplan-editor/pkg/output"
	"github.com/ritzau/floorplan-editor/pkg/preset"
	"github.com/ritzau/floorplan-editor/pkg/store"
	"github.com/ritzau/floorplan-editor/pkg/watcher"
	"github.com/ritzau/floorplan-editor/pkg/web"
)

func main() {
	flags := pflag.NewFlagSet("floorplan", pflag.ExitOnError)
	flags.String("plan", "", "Path to a plan JSON file to load")
	flags.Bool("web", false, "Start the editor web server instead of printing a report")
	flags.Int("port", 8080, "Port for the web server (only used with --web)")
	flags.Bool("watch", false, "Reload and revalidate when the plan file changes (only used with --web)")
	fix := flags.Bool("fix", false, "Apply auto-fix corrections before validating")
	presetName := flags.String("preset", "", "Load a built-in preset instead of a plan file")
	flags.CountP("verbose", "v", "Increase log verbosity")
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.VerboseCnt > 0 {
		logging.SetLevel(slog.LevelDebug)
	}

	s := store.New(cfg.Thresholds)
	if err := loadInitialPlan(s, cfg.Plan, *presetName); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *fix {
		changed := s.AutoFix()
		fmt.Printf("Auto-fix changed %d element(s)\n", changed)
	}

	if cfg.WebMode {
		runWebServer(s, cfg)
		return
	}

	result := s.Validation()
	output.PrintValidationReport(cfg.Plan, result)
	if !result.CanExport {
		os.Exit(1)
	}
}

func loadInitialPlan(s *store.Store, planPath, presetName string) error {
	switch {
	case presetName != "":
		plan, err := preset.Get(presetName)
		if err != nil {
			return err
		}
		s.LoadPlan(plan)
	case planPath != "":
		plan, err := preset.LoadFile(planPath)
		if err != nil {
			return err
		}
		s.LoadPlan(plan)
	}
	return nil
}

func runWebServer(s *store.Store, cfg *config.Config) {
	server := web.NewServer(s)

	if cfg.Watch && cfg.Plan != "" {
		if err := startPlanWatcher(s, cfg.Plan); err != nil {
			logging.Warn("plan watching disabled", "error", err)
		}
	}

	if err := server.Start(cfg.Port); err != nil {
		logging.Fatal("failed to start server", "error", err)
	}
}

// startPlanWatcher reloads the plan whenever the file changes on disk.
// Rapid editor save sequences are debounced into a single reload.
func startPlanWatcher(s *store.Store, planPath string) error {
	pw, err := watcher.NewPlanWatcher(planPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := pw.Start(ctx); err != nil {
		return err
	}

	debouncer := watcher.NewDebouncer(pw.Events(), 250*time.Millisecond, 2*time.Second)
	debouncer.Start(ctx)

	go func() {
		for range debouncer.Output() {
			plan, err := preset.LoadFile(planPath)
			if err != nil {
				logging.Error("failed to reload plan", "path", planPath, "error", err)
				continue
			}
			s.LoadPlan(plan)
			logging.Info("plan reloaded", "path", planPath)
		}
	}()
	return nil
}
