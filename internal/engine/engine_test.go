package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/felixalguzman/audio-merge/pkg/channels"
	"github.com/stretchr/testify/require"
)

// fakeStream records lifecycle transitions instead of touching hardware.
type fakeStream struct {
	mu       sync.Mutex
	started  bool
	closed   bool
	startErr error
}

func (s *fakeStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.startErr != nil {
		return s.startErr
	}
	s.started = true

	return nil
}

func (s *fakeStream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
}

func (s *fakeStream) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// fakeBackend hands out fakeStreams and keeps the callbacks so tests
// can drive capture and render blocks synchronously.
type fakeBackend struct {
	mu sync.Mutex

	captureRate uint32
	captureErr  error
	outputErr   error
	startErr    error

	// deviceRanges maps known device names to their advertised rates;
	// unknown names fail resolution like a real host would.
	deviceRanges map[string][]RateRange

	captureCB      CaptureFunc
	captureStreams []*fakeStream
	renders        map[string]RenderFunc
	rates          map[string]uint32
	outputStreams  map[string]*fakeStream
	opened         int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		captureRate:   48000,
		deviceRanges:  make(map[string][]RateRange),
		renders:       make(map[string]RenderFunc),
		rates:         make(map[string]uint32),
		outputStreams: make(map[string]*fakeStream),
	}
}

func (f *fakeBackend) OpenCapture(cb CaptureFunc) (Stream, uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.captureErr != nil {
		return nil, 0, f.captureErr
	}

	s := &fakeStream{startErr: f.startErr}
	f.captureCB = cb
	f.captureStreams = append(f.captureStreams, s)

	return s, f.captureRate, nil
}

func (f *fakeBackend) OpenOutput(name string, target uint32, cb RenderFunc) (Stream, uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.outputErr != nil {
		return nil, 0, f.outputErr
	}

	ranges, ok := f.deviceRanges[name]
	if !ok {
		return nil, 0, fmt.Errorf("output device %q not found", name)
	}

	rate, ok := NegotiateRate(ranges, target)
	if !ok && len(ranges) > 0 {
		// The fake's device default is its first advertised rate,
		// reported like a real backend reads it back after open.
		rate = ranges[0].Min
	}

	s := &fakeStream{startErr: f.startErr}
	f.renders[name] = cb
	f.rates[name] = rate
	f.outputStreams[name] = s
	f.opened++

	return s, rate, nil
}

func (f *fakeBackend) pushCapture(samples []float32) {
	f.mu.Lock()
	cb := f.captureCB
	f.mu.Unlock()

	cb(samples)
}

func (f *fakeBackend) render(name string, n int) []float32 {
	f.mu.Lock()
	cb := f.renders[name]
	f.mu.Unlock()

	out := make([]float32, n)
	cb(out)

	return out
}

func (f *fakeBackend) outputCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.outputStreams)
}

func testActor(backend Backend) *actor {
	return newActor(backend, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func addDevice(f *fakeBackend, name string, ranges ...RateRange) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deviceRanges[name] = ranges
}

func TestActor_AddRemoveOutput_NetEffect(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	addDevice(f, "Speakers", RateRange{Min: 44100, Max: 48000})
	a := testActor(f)

	a.handle(addOutput{name: "Speakers"})
	require.Len(t, a.routes, 1)
	require.Equal(t, 1, a.producers.size())

	a.handle(removeOutput{name: "Speakers"})
	require.Empty(t, a.routes)
	require.Equal(t, 0, a.producers.size())
	require.True(t, f.outputStreams["Speakers"].isClosed())
}

func TestActor_AddOutput_DuplicateIsNoop(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	addDevice(f, "Speakers", RateRange{Min: 44100, Max: 48000})
	a := testActor(f)

	a.handle(addOutput{name: "Speakers"})
	a.handle(addOutput{name: "Speakers"})

	require.Len(t, a.routes, 1)
	require.Equal(t, 1, a.producers.size())
	require.Equal(t, 1, f.opened)
}

func TestActor_AddOutput_UnknownDevice(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	a := testActor(f)

	a.handle(addOutput{name: "Ghost"})

	require.Empty(t, a.routes)
	require.Equal(t, 0, a.producers.size())
}

func TestActor_AddOutput_StartFailureRollsBack(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	f.startErr = errors.New("driver rejected stream")
	addDevice(f, "Speakers", RateRange{Min: 48000, Max: 48000})
	a := testActor(f)

	a.handle(addOutput{name: "Speakers"})

	require.Empty(t, a.routes)
	require.Equal(t, 0, a.producers.size())
	require.True(t, f.outputStreams["Speakers"].isClosed())
}

func TestActor_SetVolumeMute_UnknownDevice(t *testing.T) {
	t.Parallel()

	a := testActor(newFakeBackend())

	// Never added, or removed concurrently: both are quiet no-ops.
	require.NotPanics(t, func() {
		a.handle(setVolume{name: "Ghost", volume: 0.5})
		a.handle(setMute{name: "Ghost", muted: true})
	})
}

func TestActor_StartCapture_Twice(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	a := testActor(f)

	a.handle(startCapture{})
	a.handle(startCapture{})

	require.Len(t, f.captureStreams, 1)
	require.NotNil(t, a.capture)
}

func TestActor_StartCapture_OpenFailure(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	f.captureErr = errors.New("no default device")
	a := testActor(f)

	a.handle(startCapture{})

	require.Nil(t, a.capture)
}

func TestActor_StopCapture_KeepsRoutesAlive(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	addDevice(f, "Speakers", RateRange{Min: 48000, Max: 48000})
	a := testActor(f)

	a.handle(startCapture{})
	a.handle(addOutput{name: "Speakers"})
	a.handle(stopCapture{})

	require.Nil(t, a.capture)
	require.True(t, f.captureStreams[0].isClosed())
	require.Len(t, a.routes, 1)

	// With capture gone the route drains to silence.
	out := f.render("Speakers", 4)
	require.Equal(t, []float32{0, 0, 0, 0}, out)
}

func TestActor_FanOut(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	addDevice(f, "A", RateRange{Min: 48000, Max: 48000})
	addDevice(f, "B", RateRange{Min: 48000, Max: 48000})
	a := testActor(f)

	a.handle(startCapture{})
	a.handle(addOutput{name: "A"})
	a.handle(addOutput{name: "B"})

	f.pushCapture([]float32{0.1, 0.2, 0.3})

	require.Equal(t, []float32{0.1, 0.2, 0.3}, f.render("A", 3))
	require.Equal(t, []float32{0.1, 0.2, 0.3}, f.render("B", 3))

	// Removing one route does not affect delivery to the other.
	a.handle(removeOutput{name: "B"})
	f.pushCapture([]float32{0.4})

	require.Equal(t, []float32{0.4}, f.render("A", 1))
}

func TestActor_InputGainAppliedBeforeFanOut(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	addDevice(f, "A", RateRange{Min: 48000, Max: 48000})
	a := testActor(f)

	a.handle(startCapture{})
	a.handle(addOutput{name: "A"})
	a.handle(setInputVolume{volume: 0.5})

	f.pushCapture([]float32{1.0, -1.0})
	require.Equal(t, []float32{0.5, -0.5}, f.render("A", 2))

	// Input mute pushes zeros, it does not stop delivery.
	a.handle(setInputMute{muted: true})
	f.pushCapture([]float32{1.0})
	require.Equal(t, []float32{0}, f.render("A", 1))
}

func TestActor_MuteOverridesVolume(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	addDevice(f, "X", RateRange{Min: 48000, Max: 48000})
	a := testActor(f)

	a.handle(startCapture{})
	a.handle(addOutput{name: "X"})
	a.handle(setMute{name: "X", muted: true})
	a.handle(setVolume{name: "X", volume: 0.8})

	f.pushCapture([]float32{1.0, 1.0})
	require.Equal(t, []float32{0, 0}, f.render("X", 2))

	a.handle(setMute{name: "X", muted: false})
	f.pushCapture([]float32{0.5})
	require.InDelta(t, 0.5*0.8, f.render("X", 1)[0], 1e-6)
}

func TestActor_RateNegotiationScenario(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	f.captureRate = 48000
	addDevice(f, "Speakers", RateRange{Min: 44100, Max: 48000})
	addDevice(f, "OldDAC", RateRange{Min: 44100, Max: 44100})
	a := testActor(f)

	a.handle(startCapture{})

	a.handle(addOutput{name: "Speakers"})
	require.Equal(t, uint32(48000), a.routes["Speakers"].rate)

	// No containing range: falls back to the device default, still a
	// working route, and the route records the rate the device opened
	// at rather than the unmatched target.
	a.handle(addOutput{name: "OldDAC"})
	require.Equal(t, uint32(44100), a.routes["OldDAC"].rate)
	require.Len(t, a.routes, 2)
}

func TestActor_FallbackRateWithoutCapture(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	addDevice(f, "Speakers", RateRange{Min: 44100, Max: 96000})
	a := testActor(f)

	// Capture inactive: target is the 48 kHz fallback.
	a.handle(addOutput{name: "Speakers"})
	require.Equal(t, uint32(fallbackRate), a.routes["Speakers"].rate)
}

func TestActor_ShutdownClosesEverything(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	addDevice(f, "A", RateRange{Min: 48000, Max: 48000})
	a := testActor(f)

	a.handle(startCapture{})
	a.handle(addOutput{name: "A"})
	a.shutdown()

	require.Nil(t, a.capture)
	require.Empty(t, a.routes)
	require.True(t, f.captureStreams[0].isClosed())
	require.True(t, f.outputStreams["A"].isClosed())
}

func TestEngine_CommandsReachActor(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	addDevice(f, "Speakers", RateRange{Min: 44100, Max: 48000})

	e := New(f, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer e.Close()

	require.NoError(t, e.StartCapture())
	require.NoError(t, e.AddOutput("Speakers"))

	require.Eventually(t, func() bool {
		return f.outputCount() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestEngine_SendAfterClose(t *testing.T) {
	t.Parallel()

	e := New(newFakeBackend(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.Close()

	require.ErrorIs(t, e.StartCapture(), channels.ErrChannelClosed)
	require.ErrorIs(t, e.SetVolume("Speakers", 0.5), channels.ErrChannelClosed)

	// Close is idempotent.
	e.Close()
}
