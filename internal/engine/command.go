package engine

// Commands accepted by the engine actor. Every stream or gain mutation
// travels as one of these and is applied strictly in arrival order by
// the single actor goroutine.
type command interface{ isCommand() }

type startCapture struct{}

type stopCapture struct{}

type addOutput struct {
	name string
}

type removeOutput struct {
	name string
}

type setVolume struct {
	name   string
	volume float32
}

type setMute struct {
	name  string
	muted bool
}

type setInputVolume struct {
	volume float32
}

type setInputMute struct {
	muted bool
}

func (startCapture) isCommand()   {}
func (stopCapture) isCommand()    {}
func (addOutput) isCommand()      {}
func (removeOutput) isCommand()   {}
func (setVolume) isCommand()      {}
func (setMute) isCommand()        {}
func (setInputVolume) isCommand() {}
func (setInputMute) isCommand()   {}
