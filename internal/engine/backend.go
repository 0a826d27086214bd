package engine

// CaptureFunc receives one block of captured samples, interleaved
// float32. The slice is reused between invocations; implementations
// must copy anything they keep.
type CaptureFunc func(samples []float32)

// RenderFunc fills one block of output samples, interleaved float32.
type RenderFunc func(out []float32)

// Stream is one hardware stream handle. Close stops the device and
// releases its resources; it is safe to call on a stream that was
// never started.
type Stream interface {
	Start() error
	Close()
}

// Backend abstracts the audio host. The production implementation is
// MalgoBackend; engine tests substitute a fake that drives callbacks
// synchronously.
type Backend interface {
	// OpenCapture prepares a loopback stream over the host's default
	// render device and returns it unstarted, along with the sample
	// rate the stream will deliver.
	OpenCapture(cb CaptureFunc) (Stream, uint32, error)

	// OpenOutput prepares a playback stream on the named device,
	// negotiated as close to targetRate as the device allows, and
	// returns it unstarted along with the rate the stream actually
	// opened at. When no advertised rate matches the target, the
	// device's own default configuration is used and reported.
	OpenOutput(name string, targetRate uint32, cb RenderFunc) (Stream, uint32, error)
}
