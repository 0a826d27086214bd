package engine

import "github.com/felixalguzman/audio-merge/internal/audio"

// captureSession owns the loopback stream and the sample rate it was
// opened at. At most one exists; while it lives, its rate is the
// target every newly added output negotiates against.
type captureSession struct {
	stream Stream
	rate   uint32
}

func (a *actor) startCapture() {
	if a.capture != nil {
		a.log.Info("capture already running")
		return
	}

	stream, rate, err := a.backend.OpenCapture(captureFunc(a.producers, a.input))
	if err != nil {
		a.log.Error("failed to open capture stream", "error", err)
		return
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		a.log.Error("failed to start capture stream", "error", err)
		return
	}

	a.capture = &captureSession{stream: stream, rate: rate}
	a.log.Info("capture started", "rate", rate)
}

func (a *actor) stopCapture() {
	if a.capture == nil {
		return
	}

	a.capture.stream.Close()
	a.capture = nil
	a.log.Info("capture stopped")
}

// captureFunc builds the capture data callback: read the input gain
// once, scale the block and fan it out to every registered transfer
// ring. Runs on the driver's real-time thread; it must not block or
// allocate.
func captureFunc(producers *registry, input *audio.Cell) CaptureFunc {
	return func(samples []float32) {
		producers.fanOut(samples, input.Gain())
	}
}
