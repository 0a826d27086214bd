package engine

import "github.com/felixalguzman/audio-merge/internal/audio"

// transferCapacity is the per-route ring size in samples, sized to
// absorb callback scheduling jitter between capture and playback.
const transferCapacity = 16384

// outputRoute is one playback device fed from the capture fan-out. The
// ring's consumer end and the gain cell are captured by the stream
// callback; everything else belongs to the actor.
type outputRoute struct {
	name   string
	ring   *audio.Ring
	cell   *audio.Cell
	stream Stream
	rate   uint32
}

func (a *actor) addOutput(name string) {
	if _, ok := a.routes[name]; ok {
		a.log.Info("output already routed", "device", name)
		return
	}

	target := uint32(fallbackRate)
	if a.capture != nil {
		target = a.capture.rate
	}

	ring := audio.NewRing(transferCapacity)
	cell := audio.NewCell()

	stream, rate, err := a.backend.OpenOutput(name, target, renderFunc(ring, cell))
	if err != nil {
		a.log.Error("failed to open output stream", "device", name, "error", err)
		return
	}

	a.producers.add(name, ring)

	if err := stream.Start(); err != nil {
		stream.Close()
		a.producers.remove(name)
		a.log.Error("failed to start output stream", "device", name, "error", err)
		return
	}

	a.routes[name] = &outputRoute{
		name:   name,
		ring:   ring,
		cell:   cell,
		stream: stream,
		rate:   rate,
	}
	a.log.Info("output added", "device", name, "rate", rate)
}

// removeOutput tears a route down. The stream must close before the
// producer registration goes away so no in-flight callback can touch
// discarded state.
func (a *actor) removeOutput(name string) {
	route, ok := a.routes[name]
	if !ok {
		a.log.Info("output not routed", "device", name)
		return
	}

	route.stream.Close()
	a.producers.remove(name)
	delete(a.routes, name)
	a.log.Info("output removed", "device", name)
}

// renderFunc builds the playback data callback: read the route gain
// once, then pop one sample per slot, substituting silence on
// underrun. Starvation is expected (capture stopped, rate drift, a
// freshly added route) and is not an error. Runs on the driver's
// real-time thread; it must not block or allocate.
func renderFunc(ring *audio.Ring, cell *audio.Cell) RenderFunc {
	return func(out []float32) {
		gain := cell.Gain()
		for i := range out {
			s, _ := ring.Pop()
			out[i] = s * gain
		}
	}
}
