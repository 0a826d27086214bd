package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/felixalguzman/audio-merge/internal/audio"
	"github.com/gen2brain/malgo"
)

// streamChannels is the channel layout used end to end. Capture and
// playback are both opened stereo; miniaudio converts device layouts
// that differ.
const streamChannels = 2

// MalgoBackend opens real hardware streams through malgo (miniaudio).
// Loopback capture of the default render device is available where the
// host backend supports it (WASAPI); elsewhere OpenCapture fails and
// the engine stays idle.
type MalgoBackend struct {
	log *slog.Logger
}

func NewMalgoBackend(log *slog.Logger) *MalgoBackend {
	if log == nil {
		log = slog.Default()
	}

	return &MalgoBackend{log: log}
}

// malgoStream pairs a device with the context it was allocated from so
// both are released together.
type malgoStream struct {
	mgCtx *malgo.AllocatedContext
	dev   *malgo.Device
	log   *slog.Logger
}

func (s *malgoStream) Start() error {
	return s.dev.Start()
}

func (s *malgoStream) Close() {
	if s.dev.IsStarted() {
		if err := s.dev.Stop(); err != nil {
			s.log.Warn("failed to stop malgo device", "error", err)
		}
	}
	s.dev.Uninit()
	uninitContext(s.mgCtx, s.log)
}

func (b *MalgoBackend) OpenCapture(cb CaptureFunc) (Stream, uint32, error) {
	mgCtx, err := b.initContext()
	if err != nil {
		return nil, 0, err
	}

	rate := b.defaultRenderRate(mgCtx)

	devCnf := malgo.DefaultDeviceConfig(malgo.Loopback)
	devCnf.Capture.Format = malgo.FormatF32
	devCnf.Capture.Channels = streamChannels
	devCnf.SampleRate = rate
	devCnf.Alsa.NoMMap = 1

	// Scratch buffer reused across callbacks; it only grows when the
	// driver delivers a larger block than seen before.
	var scratch []float32
	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			n := len(input) / 4
			if cap(scratch) < n {
				scratch = make([]float32, n)
			}
			audio.DecodeFloat32(scratch[:n], input)
			cb(scratch[:n])
		},
	}

	dev, err := malgo.InitDevice(mgCtx.Context, devCnf, callbacks)
	if err != nil {
		uninitContext(mgCtx, b.log)
		return nil, 0, fmt.Errorf("failed to initialize loopback device: %w", err)
	}

	return &malgoStream{mgCtx: mgCtx, dev: dev, log: b.log}, rate, nil
}

func (b *MalgoBackend) OpenOutput(name string, targetRate uint32, cb RenderFunc) (Stream, uint32, error) {
	mgCtx, err := b.initContext()
	if err != nil {
		return nil, 0, err
	}

	infos, err := mgCtx.Devices(malgo.Playback)
	if err != nil {
		uninitContext(mgCtx, b.log)
		return nil, 0, fmt.Errorf("failed to enumerate playback devices: %w", err)
	}

	var found *malgo.DeviceInfo
	for i := range infos {
		if infos[i].Name() == name {
			found = &infos[i]
			break
		}
	}
	if found == nil {
		uninitContext(mgCtx, b.log)
		return nil, 0, fmt.Errorf("output device %q not found", name)
	}

	rate, ok := NegotiateRate(rateRanges(*found), targetRate)
	if !ok {
		b.log.Warn("no supported rate matches capture rate, using device default",
			"device", name, "target", targetRate)
	}

	devCnf := malgo.DefaultDeviceConfig(malgo.Playback)
	devCnf.Playback.Format = malgo.FormatF32
	devCnf.Playback.Channels = streamChannels
	devCnf.Playback.DeviceID = found.ID.Pointer()
	devCnf.SampleRate = rate // 0 keeps the device default
	devCnf.Alsa.NoMMap = 1

	var scratch []float32
	callbacks := malgo.DeviceCallbacks{
		Data: func(output, _ []byte, _ uint32) {
			n := len(output) / 4
			if cap(scratch) < n {
				scratch = make([]float32, n)
			}
			cb(scratch[:n])
			audio.EncodeFloat32(output, scratch[:n])
		},
	}

	dev, err := malgo.InitDevice(mgCtx.Context, devCnf, callbacks)
	if err != nil {
		uninitContext(mgCtx, b.log)
		return nil, 0, fmt.Errorf("failed to initialize playback device %q: %w", name, err)
	}

	// On fallback the device picked its own rate; report what it
	// actually opened at, not the zero we requested.
	if rate == 0 {
		rate = dev.SampleRate()
	}

	return &malgoStream{mgCtx: mgCtx, dev: dev, log: b.log}, rate, nil
}

// defaultRenderRate resolves the native rate of the default render
// device so loopback capture runs at the device mix rate. Falls back
// to 48 kHz when enumeration gives nothing usable.
func (b *MalgoBackend) defaultRenderRate(mgCtx *malgo.AllocatedContext) uint32 {
	infos, err := mgCtx.Devices(malgo.Playback)
	if err != nil {
		b.log.Warn("failed to enumerate playback devices", "error", err)
		return fallbackRate
	}

	for _, info := range infos {
		if info.IsDefault == 0 {
			continue
		}
		for _, f := range info.Formats {
			if f.SampleRate != 0 {
				return f.SampleRate
			}
		}
	}

	return fallbackRate
}

// rateRanges maps a device's advertised data formats onto rate ranges.
// miniaudio reports discrete native rates (0 when unknown), so each
// format contributes a degenerate range.
func rateRanges(info malgo.DeviceInfo) []RateRange {
	ranges := make([]RateRange, 0, len(info.Formats))
	for _, f := range info.Formats {
		ranges = append(ranges, RateRange{Min: f.SampleRate, Max: f.SampleRate})
	}

	return ranges
}

// initContext allocates a miniaudio context with its log output routed
// into slog. Driver messages, including mid-stream faults, surface
// here; a degraded stream is left as-is until the user restarts it.
func (b *MalgoBackend) initContext() (*malgo.AllocatedContext, error) {
	mgCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(msg string) {
		b.log.Debug("miniaudio", "msg", strings.TrimSpace(msg))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	return mgCtx, nil
}

func uninitContext(mgCtx *malgo.AllocatedContext, log *slog.Logger) {
	if mgCtx == nil {
		return
	}

	if err := mgCtx.Uninit(); err != nil {
		log.Error("failed to uninitialize malgo context", "error", err)
	}
	mgCtx.Free()
}
