// Package device exposes synchronous queries over the host's playback
// devices. These never involve the engine actor; they open a throwaway
// miniaudio context, enumerate and release it.
package device

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gen2brain/malgo"
)

// UnknownName is returned by DefaultName when the host cannot tell us
// which device is the default output.
const UnknownName = "Unknown"

// Info describes one playback device at enumeration time. The name is
// the only identity the host guarantees; the index is positional and
// only stable within a single enumeration.
type Info struct {
	Name      string
	Index     int
	IsDefault bool
}

// Outputs lists the currently available playback devices in host order.
func Outputs(ctx context.Context) ([]Info, error) {
	// An empty context is fine for just enumerating devices.
	devCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	defer uninitializeContext(devCtx)

	playbackDevices, err := devCtx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("failed to get playback devices: %w", err)
	}

	infos := make([]Info, len(playbackDevices))
	for i, d := range playbackDevices {
		infos[i] = Info{
			Name:      d.Name(),
			Index:     i,
			IsDefault: d.IsDefault != 0,
		}
	}

	return infos, nil
}

// DefaultName returns the name of the host's default playback device,
// or UnknownName when it cannot be determined.
func DefaultName(ctx context.Context) string {
	outputs, err := Outputs(ctx)
	if err != nil {
		slog.Warn("failed to enumerate playback devices", "error", err)
		return UnknownName
	}

	for _, o := range outputs {
		if o.IsDefault {
			return o.Name
		}
	}

	return UnknownName
}

func uninitializeContext(devCtx *malgo.AllocatedContext) {
	if devCtx == nil {
		return
	}

	if err := devCtx.Uninit(); err != nil {
		slog.Error("failed to uninitialize malgo context", "error", err)
	}
	devCtx.Free()
}
