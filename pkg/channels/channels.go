package channels

import (
	"errors"
)

var ErrChannelClosed = errors.New("channel closed")
