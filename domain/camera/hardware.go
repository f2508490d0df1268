package camera

import "fmt"

// Hardware is the environment-supplied camera service.
type Hardware interface {
	AuthorizationStatus(media MediaType) AuthorizationStatus
	// RequestAccess prompts for access; done may run on any goroutine.
	RequestAccess(media MediaType, done func(granted bool))

	// DefaultDevice returns the preferred device of type t at pos or ErrNoDevice.
	DefaultDevice(t DeviceType, media MediaType, pos Position) (Device, error)
	// Devices lists every device of the given media type.
	Devices(media MediaType) []Device
	NewDeviceInput(d Device) (DeviceInput, error)

	NewSession() Session
	NewPhotoOutput() PhotoOutput
	NewMovieFileOutput() MovieFileOutput
	NewVideoDataOutput() VideoDataOutput
}

// Device is a physical capture device.
type Device interface {
	ID() string
	Name() string
	Type() DeviceType
	Position() Position
}

// DeviceInput feeds a device into a session.
type DeviceInput interface {
	Device() Device
}

// Output is any sink attached to a session.
type Output interface {
	OutputName() string
}

// Session is a hardware capture session. Configuration calls must be bracketed
// by BeginConfiguration/CommitConfiguration and issued from one goroutine at a
// time; the capture coordinator guarantees this with its serial queue.
type Session interface {
	BeginConfiguration()
	CommitConfiguration()
	SetPreset(p SessionPreset)

	CanAddInput(in DeviceInput) bool
	AddInput(in DeviceInput)
	RemoveInput(in DeviceInput)
	Inputs() []DeviceInput

	CanAddOutput(out Output) bool
	AddOutput(out Output)
	RemoveOutput(out Output)
	Outputs() []Output

	StartRunning()
	StopRunning()
	IsRunning() bool

	// Subscribe registers fn for session events. Events may arrive on any
	// goroutine. The returned func removes the subscription.
	Subscribe(fn func(Event)) (unsubscribe func())
}

// PhotoSettings are the per-shot capture settings.
type PhotoSettings struct {
	ID                 int64
	FlashMode          FlashMode
	HighResolution     bool
	EmbeddedThumbnail  bool
	LivePhotoMovieFile string // empty for still-only captures
	VideoOrientation   Orientation
}

// ResolvedPhotoSettings are the settings the hardware actually applied.
type ResolvedPhotoSettings struct {
	ID                       int64
	FlashEnabled             bool
	PhotoDimensions          Dimensions
	LivePhotoMovieDimensions Dimensions
}

// PhotoOutput captures stills and live photos.
type PhotoOutput interface {
	Output
	SetHighResolutionCaptureEnabled(bool)
	IsHighResolutionCaptureEnabled() bool
	IsLivePhotoCaptureSupported() bool
	SetLivePhotoCaptureEnabled(bool)
	IsLivePhotoCaptureEnabled() bool
	SupportedFlashModes() []FlashMode
	SupportsEmbeddedThumbnail() bool
	CapturePhoto(s PhotoSettings, d PhotoCaptureDelegate)
}

// PhotoCaptureDelegate receives the lifecycle of one shot. Methods may be
// called on any goroutine, in the order they are declared.
type PhotoCaptureDelegate interface {
	WillBeginCapture(r ResolvedPhotoSettings)
	WillCapturePhoto(r ResolvedPhotoSettings)
	DidFinishProcessingPhoto(data []byte, err error)
	DidFinishRecordingLivePhotoMovie(path string)
	DidFinishProcessingLivePhotoMovie(path string, err error)
	DidFinishCapture(r ResolvedPhotoSettings, err error)
}

// MovieFileOutput records movies to disk.
type MovieFileOutput interface {
	Output
	IsRecording() bool
	SupportsVideoStabilization() bool
	SetVideoStabilizationAuto(bool)
	SetVideoOrientation(o Orientation)
	StartRecording(path string, d RecordingDelegate)
	StopRecording()
}

// RecordingDelegate receives the lifecycle of one recording.
type RecordingDelegate interface {
	DidStartRecording(path string)
	DidFinishRecording(path string, err error)
}

// RecordingError wraps a recording failure. SuccessfullyFinished is set when
// the hardware stopped on its own (disk full, interruption, max duration) but
// the file on disk is still a playable movie.
type RecordingError struct {
	Err                  error
	SuccessfullyFinished bool
}

func (e *RecordingError) Error() string {
	if e.SuccessfullyFinished {
		return fmt.Sprintf("camera: recording stopped early: %v", e.Err)
	}
	return fmt.Sprintf("camera: recording failed: %v", e.Err)
}

func (e *RecordingError) Unwrap() error { return e.Err }

// VideoDataOutput delivers raw frames; the picker only attaches it.
type VideoDataOutput interface {
	Output
	SetAlwaysDiscardsLateVideoFrames(bool)
}
