package engine

import (
	"sync"

	"github.com/felixalguzman/audio-merge/internal/audio"
)

// registry holds the transfer-ring producer ends the capture callback
// fans out to. The actor mutates it on add/remove, the capture
// callback iterates it; the lock is scoped to exactly one of those
// operations at a time.
type registry struct {
	mu        sync.Mutex
	producers []producerEntry
}

type producerEntry struct {
	name string
	ring *audio.Ring
}

func newRegistry() *registry {
	return &registry{}
}

func (r *registry) add(name string, ring *audio.Ring) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.producers = append(r.producers, producerEntry{name: name, ring: ring})
}

func (r *registry) remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.producers[:0]
	for _, p := range r.producers {
		if p.name != name {
			kept = append(kept, p)
		}
	}
	r.producers = kept
}

// fanOut pushes every sample, scaled by gain, into each registered
// ring. A full ring drops its own excess; the other rings and the
// producer are unaffected.
func (r *registry) fanOut(samples []float32, gain float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.producers {
		for _, s := range samples {
			p.ring.Push(s * gain)
		}
	}
}

func (r *registry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.producers)
}
