package audio_test

import (
	"testing"

	"github.com/felixalguzman/audio-merge/internal/audio"
	"github.com/stretchr/testify/require"
)

func TestRing_PushPop(t *testing.T) {
	t.Parallel()

	r := audio.NewRing(8)

	require.True(t, r.Push(0.5))
	require.True(t, r.Push(-0.25))
	require.Equal(t, 2, r.Len())

	s, ok := r.Pop()
	require.True(t, ok)
	require.InDelta(t, 0.5, s, 0)

	s, ok = r.Pop()
	require.True(t, ok)
	require.InDelta(t, -0.25, s, 0)

	require.Equal(t, 0, r.Len())
}

func TestRing_EmptyYieldsSilence(t *testing.T) {
	t.Parallel()

	r := audio.NewRing(4)

	s, ok := r.Pop()
	require.False(t, ok)
	require.Zero(t, s)

	// A drained ring behaves the same as a fresh one.
	r.Push(1.0)
	r.Pop()

	s, ok = r.Pop()
	require.False(t, ok)
	require.Zero(t, s)
}

func TestRing_DropOnFull(t *testing.T) {
	t.Parallel()

	r := audio.NewRing(4)

	for i := 0; i < 4; i++ {
		require.True(t, r.Push(float32(i)))
	}

	// Fifth push is dropped, buffered samples are untouched.
	require.False(t, r.Push(99))
	require.Equal(t, 4, r.Len())

	for i := 0; i < 4; i++ {
		s, ok := r.Pop()
		require.True(t, ok)
		require.InDelta(t, float32(i), s, 0)
	}
}

func TestRing_Wraparound(t *testing.T) {
	t.Parallel()

	r := audio.NewRing(4)

	// Cycle more samples through than the capacity holds.
	for i := 0; i < 10; i++ {
		require.True(t, r.Push(float32(i)))
		s, ok := r.Pop()
		require.True(t, ok)
		require.InDelta(t, float32(i), s, 0)
	}
}

func TestRing_CapacityRoundsUp(t *testing.T) {
	t.Parallel()

	require.Equal(t, 8, audio.NewRing(5).Cap())
	require.Equal(t, 8, audio.NewRing(8).Cap())
	require.Equal(t, 1, audio.NewRing(0).Cap())
}
