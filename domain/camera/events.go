package camera

// Event is a typed session notification. Use a type switch on the concrete
// values below.
type Event interface{ isEvent() }

// RunningChanged reports a change of the session's running state.
type RunningChanged struct{ Running bool }

// Interrupted reports that the session was interrupted.
type Interrupted struct{ Reason InterruptionReason }

// InterruptionEnded reports the end of an interruption. The session restarts
// on its own afterwards and emits RunningChanged.
type InterruptionEnded struct{}

// RuntimeError reports a hardware failure while running.
type RuntimeError struct{ Err error }

func (RunningChanged) isEvent()    {}
func (Interrupted) isEvent()       {}
func (InterruptionEnded) isEvent() {}
func (RuntimeError) isEvent()      {}
