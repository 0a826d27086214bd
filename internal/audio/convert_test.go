package audio_test

import (
	"testing"

	"github.com/felixalguzman/audio-merge/internal/audio"
	"github.com/stretchr/testify/require"
)

func TestFloat32Conversion(t *testing.T) {
	t.Parallel()

	src := []float32{0, 1.0, -1.0, 0.5}
	buf := make([]byte, len(src)*4)

	require.Equal(t, len(src), audio.EncodeFloat32(buf, src))

	dst := make([]float32, len(src))
	require.Equal(t, len(src), audio.DecodeFloat32(dst, buf))
	require.Equal(t, src, dst)
}

func TestDecodeFloat32_TruncatedInput(t *testing.T) {
	t.Parallel()

	// Two full samples plus a trailing partial one.
	buf := make([]byte, 11)
	dst := make([]float32, 4)

	require.Equal(t, 2, audio.DecodeFloat32(dst, buf))
}
