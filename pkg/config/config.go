package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Thresholds holds the geometric limits applied during validation and
// auto-fix. All lengths are centimeters, areas cm².
type Thresholds struct {
	MinRoomArea   float64 `koanf:"min-room-area"`   // rooms below this are flagged too small
	MinWallLength float64 `koanf:"min-wall-length"` // walls below this are flagged too short
	MinClearance  float64 `koanf:"min-clearance"`   // opening edge to wall endpoint
	SnapRadius    float64 `koanf:"snap-radius"`     // vertex snap distance
	WallThickness float64 `koanf:"wall-thickness"`  // default for new walls
	DoorWidth     float64 `koanf:"door-width"`      // default for new doors
	WindowWidth   float64 `koanf:"window-width"`    // default for new windows
	WindowHeight  float64 `koanf:"window-height"`   // default for new windows
}

// DefaultThresholds returns the stock limits used when no configuration
// overrides them
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinRoomArea:   10000, // 1 m²
		MinWallLength: 30,
		MinClearance:  20,
		SnapRadius:    15,
		WallThickness: 10,
		DoorWidth:     90,
		WindowWidth:   120,
		WindowHeight:  100,
	}
}

// Config holds all configuration for the application
type Config struct {
	Plan       string     `koanf:"plan"` // plan file to load/validate
	WebMode    bool       `koanf:"web"`
	Port       int        `koanf:"port"`
	Watch      bool       `koanf:"watch"`
	Verbosity  string     `koanf:"verbosity"`
	VerboseCnt int        `koanf:"verbose"`
	Thresholds Thresholds `koanf:"thresholds"`
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	t := DefaultThresholds()
	defaults := map[string]interface{}{
		"plan":                       "",
		"web":                        false,
		"port":                       8080,
		"watch":                      false,
		"verbosity":                  "",
		"verbose":                    0,
		"thresholds.min-room-area":   t.MinRoomArea,
		"thresholds.min-wall-length": t.MinWallLength,
		"thresholds.min-clearance":   t.MinClearance,
		"thresholds.snap-radius":     t.SnapRadius,
		"thresholds.wall-thickness":  t.WallThickness,
		"thresholds.door-width":      t.DoorWidth,
		"thresholds.window-width":    t.WindowWidth,
		"thresholds.window-height":   t.WindowHeight,
	}
	// confmap unflattens the dotted keys so the nested Thresholds
	// struct unmarshals correctly
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config File (optional) - floorplan.toml
	// We ignore errors here as the file might not exist
	_ = k.Load(file.Provider("floorplan.toml"), toml.Parser())

	// 3. Environment Variables
	// Prefix: FLOORPLAN_ (e.g., FLOORPLAN_PORT=9090)
	if err := k.Load(env.Provider("FLOORPLAN_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, "FLOORPLAN_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
