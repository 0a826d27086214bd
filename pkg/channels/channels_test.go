package channels_test

import (
	"testing"

	"github.com/felixalguzman/audio-merge/pkg/channels"
	"github.com/stretchr/testify/assert"
)

func TestSend(t *testing.T) {
	t.Run("success - buffered channel with capacity", func(t *testing.T) {
		ch := make(chan int, 1)
		err := channels.Send(ch, 42)
		assert.NoError(t, err)
		assert.Equal(t, 42, <-ch) // Verify message was sent
	})

	t.Run("success - unbuffered with receiver", func(t *testing.T) {
		ch := make(chan int)
		done := make(chan struct{})
		go func() {
			defer close(done)
			assert.Equal(t, 42, <-ch)
		}()
		err := channels.Send(ch, 42)
		assert.NoError(t, err)
		<-done
	})

	t.Run("closed channel - empty", func(t *testing.T) {
		ch := make(chan int, 1)
		close(ch)
		err := channels.Send(ch, 42)
		assert.ErrorIs(t, err, channels.ErrChannelClosed)
	})

	t.Run("closed channel - with buffered data", func(t *testing.T) {
		ch := make(chan int, 2)
		ch <- 1 // Write data before closing
		close(ch)
		err := channels.Send(ch, 42)
		assert.ErrorIs(t, err, channels.ErrChannelClosed)
		// Verify original data still readable
		assert.Equal(t, 1, <-ch)
	})
}
