package capture

import (
	"errors"
	"fmt"
)

// Sentinel errors reported through the event callbacks and capture handles.
var (
	ErrNotAuthorized          = errors.New("capture: camera access not authorized")
	ErrConfigurationFailed    = errors.New("capture: session configuration failed")
	ErrSessionNotStarted      = errors.New("capture: session did not start running")
	ErrAlreadyPrepared        = errors.New("capture: session already prepared")
	ErrNotPrepared            = errors.New("capture: session not prepared")
	ErrSessionClosed          = errors.New("capture: session closed")
	ErrCannotAddInput         = errors.New("capture: cannot add input to session")
	ErrCannotAddOutput        = errors.New("capture: cannot add output to session")
	ErrNoActiveInput          = errors.New("capture: no active video input")
	ErrPhotoOutputUnavailable = errors.New("capture: photo output not configured")
	ErrNoMovieOutput          = errors.New("capture: movie output not configured")
	ErrRecordingInProgress    = errors.New("capture: a recording is already in progress")
	ErrNoPhotoData            = errors.New("capture: photo capture produced no data")
	ErrInsufficientStorage    = errors.New("capture: not enough free disk space to record")
)

// ConfigError records which configuration step failed. It matches
// ErrConfigurationFailed with errors.Is.
type ConfigError struct {
	Step string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("capture: configure %s: %v", e.Step, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Is(target error) bool { return target == ErrConfigurationFailed }

// InvariantError is the panic value raised when the coordinator finds its own
// bookkeeping inconsistent. It signals a bug, not an environmental condition.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("capture: invariant violated in %s: %s", e.Op, e.Detail)
}
