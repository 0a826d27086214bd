package channels

// Send sends a message, blocking until the channel accepts it.
// Returns ErrChannelClosed instead of panicking if the channel closes.
func Send[T any](ch chan<- T, msg T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrChannelClosed
		}
	}()

	ch <- msg
	return nil
}
