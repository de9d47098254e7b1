package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/innkeeper/internal/world"
)

func TestDefaultTuning(t *testing.T) {
	tun, err := Default()
	require.NoError(t, err)
	require.NoError(t, Validate(tun))

	assert.Equal(t, 3, tun.Map.Floors)
	assert.Equal(t, 50000, tun.Economy.StartingBalance)
	assert.Equal(t, 100, tun.Economy.ZoneUnitCost)
	assert.Equal(t, 5*time.Second, tun.Spawner.Interval())
	assert.Equal(t, world.Coord{X: 0, Y: 0}, tun.Spawner.SpawnCoord())
	assert.Equal(t, time.Second/30, tun.TickDuration())
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("economy:\n  starting_balance: 75\n"), 0o644))

	tun, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 75, tun.Economy.StartingBalance)
	assert.Equal(t, 100, tun.Economy.ZoneUnitCost, "keys missing from the file keep defaults")
	assert.Equal(t, 25, tun.Map.Width)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("map: [unterminated"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvStartBalance: "1234",
		EnvHotelName:    "Overlook",
		EnvLogLevel:     "debug",
		EnvLogFile:      "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	tun, err := Default()
	require.NoError(t, err)
	require.NoError(t, ApplyEnv(&tun, lookup))

	assert.Equal(t, 1234, tun.Economy.StartingBalance)
	assert.Equal(t, "Overlook", tun.HotelName)
	assert.Equal(t, "debug", tun.Log.Level)
	assert.Equal(t, "", tun.Log.File, "an empty log file disables file logging")

	env[EnvStartBalance] = "lots"
	assert.Error(t, ApplyEnv(&tun, lookup))
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tuning)
	}{
		{"zero floors", func(t *Tuning) { t.Map.Floors = 0 }},
		{"negative balance", func(t *Tuning) { t.Economy.StartingBalance = -1 }},
		{"zero speed", func(t *Tuning) { t.Agents.Speed = 0 }},
		{"threshold too large", func(t *Tuning) { t.Agents.ArriveThreshold = 0.75 }},
		{"bad log level", func(t *Tuning) { t.Log.Level = "loud" }},
		{"short spawn cell", func(t *Tuning) { t.Spawner.SpawnCell = []int{1} }},
		{"destination off map", func(t *Tuning) { t.Spawner.Destination = []int{25, 0} }},
		{"zero tick rate", func(t *Tuning) { t.TickRateHz = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tun, err := Default()
			require.NoError(t, err)
			tt.mutate(&tun)
			assert.Error(t, Validate(tun))
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"error", "ERROR"},
		{"", "INFO"},
	}

	for _, tt := range tests {
		got := LogTuning{Level: tt.level}.SlogLevel().String()
		if got != tt.expected {
			t.Errorf("SlogLevel(%q) = %s, want %s", tt.level, got, tt.expected)
		}
	}
}
