// Package config loads simulation tuning from YAML with environment overrides.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/samdwyer/innkeeper/internal/world"
)

// Environment variables read by FromEnv.
const (
	EnvTuningFile   = "INNKEEPER_TUNING"
	EnvStartBalance = "INNKEEPER_START_BALANCE"
	EnvHotelName    = "INNKEEPER_HOTEL_NAME"
	EnvLogFile      = "INNKEEPER_LOG_FILE"
	EnvLogLevel     = "INNKEEPER_LOG_LEVEL"
)

//go:embed tuning.yaml
var defaultTuning []byte

//go:embed tuning.schema.json
var tuningSchema string

// Tuning holds every adjustable simulation constant.
type Tuning struct {
	HotelName   string            `yaml:"hotel_name" json:"hotel_name"`
	Map         MapTuning         `yaml:"map" json:"map"`
	TickRateHz  int               `yaml:"tick_rate_hz" json:"tick_rate_hz"`
	Economy     EconomyTuning     `yaml:"economy" json:"economy"`
	Agents      AgentTuning       `yaml:"agents" json:"agents"`
	Spawner     SpawnerTuning     `yaml:"spawner" json:"spawner"`
	Pathfinding PathfindingTuning `yaml:"pathfinding" json:"pathfinding"`
	Log         LogTuning         `yaml:"log" json:"log"`
}

type MapTuning struct {
	Floors   int `yaml:"floors" json:"floors"`
	Width    int `yaml:"width" json:"width"`
	Height   int `yaml:"height" json:"height"`
	TileSize int `yaml:"tile_size" json:"tile_size"` // World pixels per tile, for pointer translation
}

type EconomyTuning struct {
	StartingBalance int `yaml:"starting_balance" json:"starting_balance"`
	ZoneUnitCost    int `yaml:"zone_unit_cost" json:"zone_unit_cost"`
}

type AgentTuning struct {
	Speed           float64 `yaml:"speed" json:"speed"`                       // Tiles per second
	ArriveThreshold float64 `yaml:"arrive_threshold" json:"arrive_threshold"` // Tiles
}

type SpawnerTuning struct {
	IntervalMs  int   `yaml:"interval_ms" json:"interval_ms"`
	SpawnCell   []int `yaml:"spawn_cell" json:"spawn_cell"`
	Destination []int `yaml:"destination" json:"destination"`
}

type PathfindingTuning struct {
	IterationsPerStep int `yaml:"iterations_per_step" json:"iterations_per_step"`
}

type LogTuning struct {
	File  string `yaml:"file" json:"file"`
	Level string `yaml:"level" json:"level"`
}

// TickDuration returns the length of one simulation frame.
func (t Tuning) TickDuration() time.Duration {
	return time.Second / time.Duration(t.TickRateHz)
}

// Interval returns the time between spawn attempts.
func (s SpawnerTuning) Interval() time.Duration {
	return time.Duration(s.IntervalMs) * time.Millisecond
}

// SpawnCoord returns the cell new agents appear on.
func (s SpawnerTuning) SpawnCoord() world.Coord {
	return toCoord(s.SpawnCell)
}

// DestinationCoord returns the fallback destination for new agents.
func (s SpawnerTuning) DestinationCoord() world.Coord {
	return toCoord(s.Destination)
}

func toCoord(v []int) world.Coord {
	if len(v) != 2 {
		return world.Coord{}
	}
	return world.Coord{X: v[0], Y: v[1]}
}

// SlogLevel converts the configured level name to a slog.Level.
func (l LogTuning) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Default returns the embedded tuning.
func Default() (Tuning, error) {
	var t Tuning
	if err := yaml.Unmarshal(defaultTuning, &t); err != nil {
		return t, fmt.Errorf("embedded tuning.yaml: %w", err)
	}
	return t, nil
}

// Load reads the embedded tuning and overlays the file at path, if any.
// Keys missing from the file keep their default values.
func Load(path string) (Tuning, error) {
	t, err := Default()
	if err != nil {
		return t, err
	}
	if path == "" {
		return t, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("failed to read tuning file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("failed to parse tuning file %s: %w", path, err)
	}
	return t, nil
}

// FromEnv loads tuning using the process environment and validates it.
func FromEnv() (Tuning, error) {
	t, err := Load(os.Getenv(EnvTuningFile))
	if err != nil {
		return t, err
	}
	if err := ApplyEnv(&t, os.LookupEnv); err != nil {
		return t, err
	}
	if err := Validate(t); err != nil {
		return t, err
	}
	return t, nil
}

// ApplyEnv overrides tuning values from environment variables.
func ApplyEnv(t *Tuning, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvStartBalance); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvStartBalance, v, err)
		}
		t.Economy.StartingBalance = n
	}
	if v, ok := lookup(EnvHotelName); ok && v != "" {
		t.HotelName = v
	}
	if v, ok := lookup(EnvLogFile); ok {
		t.Log.File = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		t.Log.Level = v
	}
	return nil
}

// Validate checks the tuning against the embedded JSON Schema and checks
// that configured cells lie on the map.
func Validate(t Tuning) error {
	schema, err := jsonschema.CompileString("tuning.schema.json", tuningSchema)
	if err != nil {
		return fmt.Errorf("failed to compile tuning schema: %w", err)
	}

	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode tuning: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode tuning: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid tuning: %w", err)
	}

	for name, c := range map[string]world.Coord{
		"spawner.spawn_cell":  t.Spawner.SpawnCoord(),
		"spawner.destination": t.Spawner.DestinationCoord(),
	} {
		if c.X >= t.Map.Width || c.Y >= t.Map.Height {
			return fmt.Errorf("invalid tuning: %s (%d,%d) is outside the %dx%d map",
				name, c.X, c.Y, t.Map.Width, t.Map.Height)
		}
	}
	return nil
}
