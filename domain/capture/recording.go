package capture

import (
	"errors"

	"github.com/soocke/assetpicker-go/domain/camera"
)

// recording follows one movie recording from start to its classified outcome.
type recording struct {
	session  *videoSession
	path     string
	save     bool
	future   *future[VideoResult]
	finished chan struct{}

	// queue-owned
	cancelled bool
	closing   bool
	ended     bool
}

func (r *recording) DidStartRecording(path string) {
	r.session.ui.Async(func() { r.session.events.started(path) })
}

func (r *recording) DidFinishRecording(_ string, err error) {
	r.session.q.Async(func() { r.session.finish(r, err) })
}

// classifyClosing turns a recording the session stopped while closing into an
// interruption: the file is kept for the caller but not saved.
func classifyClosing(outcome Outcome, err error) (Outcome, error) {
	if outcome == OutcomeFinished {
		return OutcomeInterrupted, ErrSessionClosed
	}
	return outcome, err
}

// classifyRecording maps the cancel flag and hardware error to one outcome. A
// cancelled recording stays cancelled unless the hardware failed outright.
func classifyRecording(cancelled bool, err error) (Outcome, error) {
	var recErr *camera.RecordingError
	finishedOK := errors.As(err, &recErr) && recErr.SuccessfullyFinished
	switch {
	case cancelled && (err == nil || finishedOK):
		return OutcomeCancelled, nil
	case err == nil:
		return OutcomeFinished, nil
	case finishedOK:
		return OutcomeInterrupted, err
	default:
		return OutcomeFailed, err
	}
}
