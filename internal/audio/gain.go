package audio

import "sync"

// Cell holds the volume and mute state for one signal path. The engine
// actor writes it, hardware callbacks read it once per block; the lock
// is held only for the scalar copy so neither side can stall the other.
type Cell struct {
	mu     sync.Mutex
	volume float32
	muted  bool
}

// NewCell returns a cell at full volume, unmuted.
func NewCell() *Cell {
	return &Cell{volume: 1.0}
}

// SetVolume replaces the volume. Values are not clamped; callers own
// the nominal [0, 1] range.
func (c *Cell) SetVolume(v float32) {
	c.mu.Lock()
	c.volume = v
	c.mu.Unlock()
}

// SetMute replaces the mute flag.
func (c *Cell) SetMute(muted bool) {
	c.mu.Lock()
	c.muted = muted
	c.mu.Unlock()
}

// Volume returns the current volume, ignoring mute.
func (c *Cell) Volume() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.volume
}

// Muted returns the current mute flag.
func (c *Cell) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.muted
}

// Gain returns the effective gain for the next block: 0 when muted,
// the volume otherwise. Mute always wins over volume.
func (c *Cell) Gain() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.muted {
		return 0
	}

	return c.volume
}
