package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// OutputState is the persisted gain state of one routed output device.
type OutputState struct {
	Name   string  `json:"name"`
	Volume float32 `json:"volume"`
	Muted  bool    `json:"muted"`
}

// MixerState is the mixer session restored at startup and saved on
// exit. The engine never reads or writes files; the CLI replays this
// record as ordinary AddOutput/SetVolume/SetMute commands.
type MixerState struct {
	InputVolume float32       `json:"input_volume"`
	InputMuted  bool          `json:"input_muted"`
	Outputs     []OutputState `json:"outputs"`
}

// DefaultState returns a fresh session: full input volume, no routes.
func DefaultState() MixerState {
	return MixerState{InputVolume: 1.0}
}

// DefaultStatePath places the session file under the user config dir.
func DefaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "audio-merge.json"
	}

	return filepath.Join(dir, "audio-merge", "state.json")
}

// LoadState reads the persisted mixer state. Any failure (missing
// file, unreadable, corrupt JSON) yields the default state rather than
// an error: a broken session file should never keep the mixer from
// starting.
func LoadState(path string) MixerState {
	content, err := os.ReadFile(path)
	if err != nil {
		return DefaultState()
	}

	var state MixerState
	if err := json.Unmarshal(content, &state); err != nil {
		return DefaultState()
	}

	return state
}

// SaveState writes the mixer state as indented JSON, creating parent
// directories as needed.
func SaveState(path string, state MixerState) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	content, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal mixer state: %w", err)
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write mixer state: %w", err)
	}

	return nil
}
