package engine

import (
	"log/slog"
	"slices"

	"github.com/felixalguzman/audio-merge/internal/audio"
)

// fallbackRate is the output negotiation target when no capture
// session is active to supply one.
const fallbackRate = 48000

// actor is the single owner of all stream lifecycle state. It runs on
// one goroutine and handles one command at a time, so structural
// changes never interleave. Hardware callbacks touch only the pieces
// built for concurrent access: the producer registry and gain cells.
type actor struct {
	backend Backend
	log     *slog.Logger

	capture   *captureSession
	routes    map[string]*outputRoute
	producers *registry
	input     *audio.Cell
}

func newActor(backend Backend, log *slog.Logger) *actor {
	return &actor{
		backend:   backend,
		log:       log,
		routes:    make(map[string]*outputRoute),
		producers: newRegistry(),
		input:     audio.NewCell(),
	}
}

// run drains the command channel until it is closed, then tears every
// stream down.
func (a *actor) run(commands <-chan command) {
	for cmd := range commands {
		a.handle(cmd)
	}
	a.shutdown()
}

func (a *actor) handle(cmd command) {
	switch c := cmd.(type) {
	case startCapture:
		a.startCapture()
	case stopCapture:
		a.stopCapture()
	case addOutput:
		a.addOutput(c.name)
	case removeOutput:
		a.removeOutput(c.name)
	case setVolume:
		a.setVolume(c.name, c.volume)
	case setMute:
		a.setMute(c.name, c.muted)
	case setInputVolume:
		a.input.SetVolume(c.volume)
		a.log.Debug("input volume set", "volume", c.volume)
	case setInputMute:
		a.input.SetMute(c.muted)
		a.log.Debug("input mute set", "muted", c.muted)
	}
}

func (a *actor) setVolume(name string, volume float32) {
	route, ok := a.routes[name]
	if !ok {
		a.log.Warn("set volume on unknown output", "device", name, "known", a.routeNames())
		return
	}

	route.cell.SetVolume(volume)
	a.log.Debug("volume set", "device", name, "volume", volume)
}

func (a *actor) setMute(name string, muted bool) {
	route, ok := a.routes[name]
	if !ok {
		a.log.Warn("set mute on unknown output", "device", name, "known", a.routeNames())
		return
	}

	route.cell.SetMute(muted)
	a.log.Debug("mute set", "device", name, "muted", muted)
}

func (a *actor) routeNames() []string {
	names := make([]string, 0, len(a.routes))
	for name := range a.routes {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

func (a *actor) shutdown() {
	a.stopCapture()
	for name := range a.routes {
		a.removeOutput(name)
	}
	a.log.Info("engine stopped")
}
