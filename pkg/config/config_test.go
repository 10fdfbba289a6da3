package config

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestDefaultThresholds(t *testing.T) {
	th := DefaultThresholds()

	if th.MinRoomArea != 10000 {
		t.Errorf("Expected minimum room area 10000 cm², got %v", th.MinRoomArea)
	}
	if th.MinWallLength != 30 {
		t.Errorf("Expected minimum wall length 30 cm, got %v", th.MinWallLength)
	}
	if th.MinClearance != 20 {
		t.Errorf("Expected minimum clearance 20 cm, got %v", th.MinClearance)
	}
	if th.SnapRadius != 15 {
		t.Errorf("Expected snap radius 15 cm, got %v", th.SnapRadius)
	}
	if th.DoorWidth != 90 {
		t.Errorf("Expected default door width 90 cm, got %v", th.DoorWidth)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Port)
	}
	if cfg.WebMode {
		t.Error("Expected web mode off by default")
	}
	if cfg.Thresholds != DefaultThresholds() {
		t.Errorf("Expected default thresholds, got %+v", cfg.Thresholds)
	}
	// The nested keys must survive unmarshaling; all-zero thresholds
	// would silently disable snapping and every size check downstream
	if cfg.Thresholds.MinRoomArea == 0 || cfg.Thresholds.SnapRadius == 0 || cfg.Thresholds.DoorWidth == 0 {
		t.Errorf("Thresholds lost in unmarshaling: %+v", cfg.Thresholds)
	}
}

func TestLoadFlagOverrides(t *testing.T) {
	f := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.Int("port", 8080, "")
	f.Bool("web", false, "")
	if err := f.Parse([]string{"--port", "9090", "--web"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Expected flag to override port to 9090, got %d", cfg.Port)
	}
	if !cfg.WebMode {
		t.Error("Expected --web flag to enable web mode")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FLOORPLAN_PORT", "7070")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 7070 {
		t.Errorf("Expected env var to override port to 7070, got %d", cfg.Port)
	}
}
