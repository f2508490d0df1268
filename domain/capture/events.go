package capture

import "github.com/soocke/assetpicker-go/domain/camera"

// SessionEvents are session lifecycle callbacks. Every field is optional and
// always invoked on the UI dispatcher.
type SessionEvents struct {
	Resumed               func()
	Suspended             func()
	Failed                func(err error) // resume refused: ErrNotPrepared, ErrNotAuthorized, ErrConfigurationFailed, ErrSessionNotStarted
	ConfigurationFailed   func(err error)
	AuthorizationResolved func(granted bool)
	Interrupted           func(reason camera.InterruptionReason)
	InterruptionEnded     func()
	RuntimeError          func(err error)
}

// PhotoEvents are photo capture callbacks, invoked on the UI dispatcher.
type PhotoEvents struct {
	WillCapture                 func(settings camera.PhotoSettings)
	Captured                    func(res PhotoResult)
	Failed                      func(err error)
	LivePhotosInProgressChanged func(n int)
}

// VideoEvents are recording callbacks, invoked on the UI dispatcher.
type VideoEvents struct {
	ReadyForRecording func()
	Started           func(path string)
	Cancelled         func()
	Finished          func(path string)
	Interrupted       func(path string, err error)
	Failed            func(err error)
}

// Events groups the callbacks injected into a Session.
type Events struct {
	Session SessionEvents
	Photo   PhotoEvents
	Video   VideoEvents
}

func (e SessionEvents) resumed() {
	if e.Resumed != nil {
		e.Resumed()
	}
}

func (e SessionEvents) suspended() {
	if e.Suspended != nil {
		e.Suspended()
	}
}

func (e SessionEvents) failed(err error) {
	if e.Failed != nil {
		e.Failed(err)
	}
}

func (e SessionEvents) configurationFailed(err error) {
	if e.ConfigurationFailed != nil {
		e.ConfigurationFailed(err)
	}
}

func (e SessionEvents) authorizationResolved(granted bool) {
	if e.AuthorizationResolved != nil {
		e.AuthorizationResolved(granted)
	}
}

func (e SessionEvents) interrupted(r camera.InterruptionReason) {
	if e.Interrupted != nil {
		e.Interrupted(r)
	}
}

func (e SessionEvents) interruptionEnded() {
	if e.InterruptionEnded != nil {
		e.InterruptionEnded()
	}
}

func (e SessionEvents) runtimeError(err error) {
	if e.RuntimeError != nil {
		e.RuntimeError(err)
	}
}

func (e PhotoEvents) willCapture(s camera.PhotoSettings) {
	if e.WillCapture != nil {
		e.WillCapture(s)
	}
}

func (e PhotoEvents) captured(res PhotoResult) {
	if e.Captured != nil {
		e.Captured(res)
	}
}

func (e PhotoEvents) failed(err error) {
	if e.Failed != nil {
		e.Failed(err)
	}
}

func (e PhotoEvents) livePhotosInProgressChanged(n int) {
	if e.LivePhotosInProgressChanged != nil {
		e.LivePhotosInProgressChanged(n)
	}
}

func (e VideoEvents) readyForRecording() {
	if e.ReadyForRecording != nil {
		e.ReadyForRecording()
	}
}

func (e VideoEvents) started(path string) {
	if e.Started != nil {
		e.Started(path)
	}
}

func (e VideoEvents) cancelled() {
	if e.Cancelled != nil {
		e.Cancelled()
	}
}

func (e VideoEvents) finished(path string) {
	if e.Finished != nil {
		e.Finished(path)
	}
}

func (e VideoEvents) interrupted(path string, err error) {
	if e.Interrupted != nil {
		e.Interrupted(path, err)
	}
}

func (e VideoEvents) failed(err error) {
	if e.Failed != nil {
		e.Failed(err)
	}
}
