package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/felixalguzman/audio-merge/internal/config"
	"github.com/felixalguzman/audio-merge/internal/device"
	"github.com/felixalguzman/audio-merge/internal/engine"
	"github.com/felixalguzman/audio-merge/internal/logger"
	"github.com/felixalguzman/audio-merge/internal/tui"
	"github.com/felixalguzman/audio-merge/pkg/collections"
)

// CLI defines the audiomerge command structure.
type CLI struct {
	// Default mixer command (runs when no subcommand given)
	Mix MixCmd `cmd:"" default:"withargs" help:"Run the loopback mixer TUI"`

	// Subcommands
	Devices DevicesCmd `cmd:"" help:"List available output devices"`
}

// MixCmd captures system audio and mixes it to the selected outputs.
type MixCmd struct {
	State     string `flag:"" optional:"" help:"Mixer session file (default: user config dir)"`
	NoRestore bool   `flag:"" help:"Start with a fresh session instead of restoring the last one"`
}

// Run executes the mixer command.
func (c *MixCmd) Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.SetupLogger(cfg)

	statePath := c.State
	if statePath == "" {
		statePath = cfg.StatePath
	}
	if statePath == "" {
		statePath = config.DefaultStatePath()
	}

	state := config.DefaultState()
	if !c.NoRestore {
		state = config.LoadState(statePath)
	}

	eng := engine.New(engine.NewMalgoBackend(log), log)
	defer eng.Close()

	if err := startSession(eng, state); err != nil {
		return fmt.Errorf("failed to restore mixer session: %w", err)
	}

	devices, err := device.Outputs(context.Background())
	if err != nil {
		return fmt.Errorf("failed to enumerate output devices: %w", err)
	}

	slog.Info("mixer starting",
		"devices", len(devices),
		"default", device.DefaultName(context.Background()),
		"restored_outputs", len(state.Outputs))

	p := tea.NewProgram(tui.New(eng, devices, state))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("failed to run mixer TUI: %w", err)
	}

	if m, ok := final.(tui.Model); ok {
		if err := config.SaveState(statePath, m.State()); err != nil {
			log.Warn("failed to save mixer session", "error", err)
		}
	}

	return nil
}

// startSession brings the mixer up and replays the persisted session
// as ordinary commands; the engine itself has no file-format
// responsibility. Capture must start before any output is replayed so
// restored routes negotiate against the live capture rate instead of
// the fallback. Commands are serialized, so this ordering holds.
func startSession(mixer tui.Mixer, state config.MixerState) error {
	if err := mixer.StartCapture(); err != nil {
		return err
	}

	if err := mixer.SetInputVolume(state.InputVolume); err != nil {
		return err
	}
	if err := mixer.SetInputMute(state.InputMuted); err != nil {
		return err
	}

	for _, o := range state.Outputs {
		if err := mixer.AddOutput(o.Name); err != nil {
			return err
		}
		if err := mixer.SetVolume(o.Name, o.Volume); err != nil {
			return err
		}
		if err := mixer.SetMute(o.Name, o.Muted); err != nil {
			return err
		}
	}

	return nil
}

// DevicesCmd lists available output devices.
type DevicesCmd struct{}

// Run executes the devices command.
func (dcmd *DevicesCmd) Run() error {
	devices, err := device.Outputs(context.Background())
	if err != nil {
		return fmt.Errorf("failed to enumerate output devices: %w", err)
	}

	rows := collections.Apply(devices, func(d device.Info) string {
		marker := " "
		if d.IsDefault {
			marker = "*"
		}
		return fmt.Sprintf("%s [%d] %s", marker, d.Index, d.Name)
	})

	for _, row := range rows {
		fmt.Println(row) //nolint:forbidigo // CLI output
	}

	return nil
}

func main() {
	// Set up text-based logger for CLI output
	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
