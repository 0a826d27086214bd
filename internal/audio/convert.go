package audio

import (
	"encoding/binary"
	"math"
)

// DecodeFloat32 converts F32LE (32-bit little-endian float) PCM bytes
// into dst and returns the number of samples written. dst must hold
// len(data)/4 samples; excess bytes are ignored.
func DecodeFloat32(dst []float32, data []byte) int {
	n := len(data) / 4
	if n > len(dst) {
		n = len(dst)
	}

	for i := 0; i < n; i++ {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}

	return n
}

// EncodeFloat32 writes samples into dst as F32LE PCM bytes and returns
// the number of samples written. dst must hold 4*len(src) bytes; excess
// samples are ignored.
func EncodeFloat32(dst []byte, src []float32) int {
	n := len(dst) / 4
	if n > len(src) {
		n = len(src)
	}

	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(src[i]))
	}

	return n
}
