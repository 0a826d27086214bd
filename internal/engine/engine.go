// Package engine implements the real-time loopback-and-mixing core:
// one capture stream monitoring the system's default output, fanned
// out through per-device transfer rings to any number of playback
// streams, each with its own volume and mute.
//
// All structural mutations are serialized through a single actor
// goroutine that exclusively owns every hardware stream. Gain changes
// bypass the actor's command path only in the sense that they land in
// per-route cells the hardware callbacks read directly; the writes
// themselves still travel as commands so they cannot race structural
// changes.
package engine

import (
	"log/slog"
	"sync"

	"github.com/felixalguzman/audio-merge/pkg/channels"
)

// commandBacklog bounds the command channel. Commands are tiny and the
// actor drains them quickly; the buffer only needs to absorb bursts
// such as a restored session replaying its output list.
const commandBacklog = 256

// Engine is the public handle to the mixing core. Every method is
// fire-and-forget: it enqueues a command for the actor and returns. The
// only error surfaced is a failed enqueue after Close; everything else
// is absorbed by the actor and observable through logs.
type Engine struct {
	commands chan command
	done     chan struct{}
	once     sync.Once
}

// New starts the engine actor on its own goroutine. The actor owns
// every hardware stream opened through backend and runs until Close.
func New(backend Backend, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}

	e := &Engine{
		commands: make(chan command, commandBacklog),
		done:     make(chan struct{}),
	}

	a := newActor(backend, log)
	go func() {
		defer close(e.done)
		a.run(e.commands)
	}()

	return e
}

// Close shuts the engine down: the command channel closes, the actor
// drains what is left, releases every hardware stream and exits. Close
// blocks until teardown completes and is safe to call more than once.
func (e *Engine) Close() {
	e.once.Do(func() {
		close(e.commands)
	})
	<-e.done
}

func (e *Engine) send(cmd command) error {
	return channels.Send(e.commands, cmd)
}

// StartCapture opens the default render device in loopback mode.
// No-op if capture is already running.
func (e *Engine) StartCapture() error {
	return e.send(startCapture{})
}

// StopCapture releases the capture stream. Output routes stay alive
// and fall back to silence once their transfer rings drain.
func (e *Engine) StopCapture() error {
	return e.send(stopCapture{})
}

// AddOutput routes captured audio to the named playback device.
// No-op if the device is already routed or cannot be resolved.
func (e *Engine) AddOutput(name string) error {
	return e.send(addOutput{name: name})
}

// RemoveOutput stops and discards the named route. No-op if absent.
func (e *Engine) RemoveOutput(name string) error {
	return e.send(removeOutput{name: name})
}

// SetVolume adjusts the named route's volume.
func (e *Engine) SetVolume(name string, volume float32) error {
	return e.send(setVolume{name: name, volume: volume})
}

// SetMute mutes or unmutes the named route.
func (e *Engine) SetMute(name string, muted bool) error {
	return e.send(setMute{name: name, muted: muted})
}

// SetInputVolume adjusts the capture-path volume applied before fan-out.
func (e *Engine) SetInputVolume(volume float32) error {
	return e.send(setInputVolume{volume: volume})
}

// SetInputMute mutes or unmutes the capture path.
func (e *Engine) SetInputMute(muted bool) error {
	return e.send(setInputMute{muted: muted})
}
