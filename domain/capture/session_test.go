package capture

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/soocke/assetpicker-go/domain/camera"
	"github.com/soocke/assetpicker-go/domain/camera/cameratest"
)

func TestSession_ResumeSuspendAreIdempotent(t *testing.T) {
	h := newHarness(t, cameratest.DefaultOptions(), Config{Preset: PresetPhotos})
	h.prepareAndResume()
	h.s.Resume()
	h.settle()

	hs := h.hw.LastSession()
	if hs.Starts() != 1 {
		t.Fatalf("expected one start, got %d", hs.Starts())
	}
	if hs.Subscribers() != 1 {
		t.Fatalf("expected one subscription, got %d", hs.Subscribers())
	}
	if n := h.rec.Count("resumed"); n != 1 {
		t.Fatalf("expected one resumed callback, got %d", n)
	}

	h.s.Suspend()
	h.s.Suspend()
	h.settle()
	if h.s.IsRunning() || hs.IsRunning() {
		t.Fatalf("session still running after suspend")
	}
	if hs.Subscribers() != 0 {
		t.Fatalf("observers left attached after suspend: %d", hs.Subscribers())
	}
	if n := h.rec.Count("suspended"); n != 1 {
		t.Fatalf("expected one suspended callback, got %d", n)
	}
	if !h.logs.Contains("suspend ignored, session not running") {
		t.Fatalf("expected warning for redundant suspend")
	}
}

func TestSession_ResumeWithoutHardwareStartLeavesNoObservers(t *testing.T) {
	opts := cameratest.DefaultOptions()
	opts.FailStart = true
	h := newHarness(t, opts, Config{Preset: PresetPhotos})
	h.s.Prepare(camera.OrientationPortrait)
	h.s.Resume()
	h.settle()

	if h.s.IsRunning() {
		t.Fatalf("session reported running")
	}
	if n := h.hw.LastSession().Subscribers(); n != 0 {
		t.Fatalf("observers attached to a stopped session: %d", n)
	}
	errs := h.rec.Errors()
	if len(errs) != 1 || !errors.Is(errs[0], ErrSessionNotStarted) {
		t.Fatalf("expected ErrSessionNotStarted, got %v", errs)
	}
}

func TestSession_DeniedAuthorizationReportsEveryResume(t *testing.T) {
	opts := cameratest.DefaultOptions()
	opts.VideoAuthorization = camera.AuthorizationNotDetermined
	opts.GrantAccess = false
	h := newHarness(t, opts, Config{Preset: PresetPhotos})

	h.s.Prepare(camera.OrientationPortrait)
	h.s.Resume()
	h.settle()
	h.s.Resume()
	h.settle()

	if h.s.SetupResult() != SetupNotAuthorized {
		t.Fatalf("expected not-authorized, got %v", h.s.SetupResult())
	}
	if got := h.rec.Count("failed"); got != 2 {
		t.Fatalf("expected one failure per resume, got %d (%v)", got, h.rec.Events())
	}
	for _, err := range h.rec.Errors() {
		if !errors.Is(err, ErrNotAuthorized) {
			t.Fatalf("unexpected error %v", err)
		}
	}
	if h.rec.Count("authorized:false") != 1 {
		t.Fatalf("authorization outcome not reported: %v", h.rec.Events())
	}
	hs := h.hw.LastSession()
	if hs.Starts() != 0 || hs.IsRunning() {
		t.Fatalf("hardware session must never run")
	}
	if begins, _ := hs.Transactions(); begins != 0 {
		t.Fatalf("configuration ran without authorization")
	}
}

func TestSession_DeniedStatusSkipsPrompt(t *testing.T) {
	opts := cameratest.DefaultOptions()
	opts.VideoAuthorization = camera.AuthorizationRestricted
	h := newHarness(t, opts, Config{Preset: PresetPhotos})
	h.s.Prepare(camera.OrientationPortrait)
	h.s.Resume()
	h.settle()

	if h.hw.AccessRequests() != 0 {
		t.Fatalf("restricted access must not prompt")
	}
	if h.s.SetupResult() != SetupNotAuthorized {
		t.Fatalf("expected not-authorized, got %v", h.s.SetupResult())
	}
}

func TestSession_ConfigurationWaitsForAuthorization(t *testing.T) {
	opts := cameratest.DefaultOptions()
	opts.VideoAuthorization = camera.AuthorizationNotDetermined
	opts.AccessGate = make(chan struct{})
	h := newHarness(t, opts, Config{Preset: PresetPhotos})

	h.s.Prepare(camera.OrientationPortrait)
	time.Sleep(30 * time.Millisecond)
	hs := h.hw.LastSession()
	if begins, _ := hs.Transactions(); begins != 0 {
		t.Fatalf("configuration started before authorization resolved")
	}
	if !h.s.queue.Suspended() {
		t.Fatalf("capture queue should be suspended while prompting")
	}

	close(opts.AccessGate)
	h.settle()
	if begins, commits := hs.Transactions(); begins != 1 || commits != 1 {
		t.Fatalf("expected one configuration transaction, got %d/%d", begins, commits)
	}
	if h.s.SetupResult() != SetupSuccess {
		t.Fatalf("expected success, got %v", h.s.SetupResult())
	}
	if h.rec.Count("authorized:true") != 1 {
		t.Fatalf("grant not reported: %v", h.rec.Events())
	}
}

func TestSession_PrepareTwiceIsIgnored(t *testing.T) {
	h := newHarness(t, cameratest.DefaultOptions(), Config{Preset: PresetPhotos})
	h.s.Prepare(camera.OrientationPortrait)
	h.s.Prepare(camera.OrientationPortrait)
	h.settle()
	if begins, _ := h.hw.LastSession().Transactions(); begins != 1 {
		t.Fatalf("expected a single configuration, got %d", begins)
	}
	if !h.logs.Contains("prepare ignored") {
		t.Fatalf("second prepare not logged")
	}
}

func TestSession_ConfigurationFailureFailsClosed(t *testing.T) {
	opts := cameratest.DefaultOptions()
	opts.RefuseMovieOutput = true
	h := newHarness(t, opts, Config{Preset: PresetVideos})
	h.s.Prepare(camera.OrientationPortrait)
	h.s.Resume()
	h.settle()

	hs := h.hw.LastSession()
	if len(hs.Inputs()) != 0 || len(hs.Outputs()) != 0 {
		t.Fatalf("partial configuration left behind: inputs=%d outputs=%d", len(hs.Inputs()), len(hs.Outputs()))
	}
	if begins, commits := hs.Transactions(); begins != 1 || commits != 1 {
		t.Fatalf("unbalanced transaction %d/%d", begins, commits)
	}
	if h.s.SetupResult() != SetupConfigurationFailed {
		t.Fatalf("expected configuration failure, got %v", h.s.SetupResult())
	}
	want := []string{"configuration-failed", "failed"}
	if got := h.rec.Events(); !slices.Equal(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for _, err := range h.rec.Errors() {
		if !errors.Is(err, ErrConfigurationFailed) {
			t.Fatalf("expected configuration failure, got %v", err)
		}
	}
	var cfgErr *ConfigError
	if !errors.As(h.rec.Errors()[0], &cfgErr) || cfgErr.Step != "movie file output" {
		t.Fatalf("expected movie output step, got %v", h.rec.Errors()[0])
	}
	if hs.Starts() != 0 {
		t.Fatalf("failed session started")
	}
}

func TestSession_PhotoOutputRefusedFailsConfiguration(t *testing.T) {
	opts := cameratest.DefaultOptions()
	opts.RefusePhotoOutput = true
	h := newHarness(t, opts, Config{Preset: PresetPhotos})
	h.s.Prepare(camera.OrientationPortrait)
	h.settle()

	if h.s.SetupResult() != SetupConfigurationFailed {
		t.Fatalf("expected configuration failure, got %v", h.s.SetupResult())
	}
	pc := h.s.CapturePhoto(LivePhotoOff, false)
	if _, err := pc.Wait(testContext(t)); !errors.Is(err, ErrPhotoOutputUnavailable) {
		t.Fatalf("expected ErrPhotoOutputUnavailable, got %v", err)
	}
}

func TestSession_SoftFailuresKeepConfiguration(t *testing.T) {
	opts := cameratest.DefaultOptions()
	opts.RefuseAudioInput = true
	opts.RefuseVideoDataOutput = true
	h := newHarness(t, opts, Config{Preset: PresetVideos, VideoDataOutput: true})
	h.prepareAndResume()

	hs := h.hw.LastSession()
	if hs.HasMicrophone() {
		t.Fatalf("microphone attached despite refusal")
	}
	if h.rec.Count("ready") != 1 {
		t.Fatalf("ready for recording not reported: %v", h.rec.Events())
	}
	if hs.Preset() != camera.PresetHigh {
		t.Fatalf("video preset not applied: %v", hs.Preset())
	}
}

func TestSession_ConfiguresVideoDataOutput(t *testing.T) {
	h := newHarness(t, cameratest.DefaultOptions(), Config{Preset: PresetPhotos, VideoDataOutput: true})
	h.prepareAndResume()

	outs := h.hw.DataOutputs()
	if len(outs) != 1 || !outs[0].DiscardsLateFrames() {
		t.Fatalf("expected one late-frame-discarding data output")
	}
	if !h.hw.LastPhotoOutput().IsHighResolutionCaptureEnabled() {
		t.Fatalf("high resolution capture not enabled")
	}
	if h.hw.LastSession().MutationsOutsideConfiguration() != 0 {
		t.Fatalf("session mutated outside a configuration transaction")
	}
}

func TestSession_ChangeCameraRestoresLivePhoto(t *testing.T) {
	cases := []struct {
		name      string
		supported bool
		preset    Preset
		want      bool
	}{
		{"live preset supported", true, PresetLivePhotos, true},
		{"photo preset supported", true, PresetPhotos, false},
		{"live preset unsupported", false, PresetLivePhotos, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := cameratest.DefaultOptions()
			opts.LivePhotoSupported = tc.supported
			h := newHarness(t, opts, Config{Preset: tc.preset})
			h.prepareAndResume()

			done := make(chan error, 1)
			h.s.ChangeCamera(func(err error) { done <- err })
			select {
			case err := <-done:
				if err != nil {
					t.Fatalf("change camera: %v", err)
				}
			case <-time.After(2 * time.Second):
				t.Fatalf("change camera completion not called")
			}

			hs := h.hw.LastSession()
			if hs.ActivePosition() != camera.PositionFront {
				t.Fatalf("expected front camera, got %v", hs.ActivePosition())
			}
			if got := h.hw.LastPhotoOutput().IsLivePhotoCaptureEnabled(); got != tc.want {
				t.Fatalf("live photo enabled = %v, want %v", got, tc.want)
			}
			if hs.MutationsOutsideConfiguration() != 0 {
				t.Fatalf("swap mutated the session outside a transaction")
			}
		})
	}
}

func TestSession_ChangeCameraFailureKeepsCurrentInput(t *testing.T) {
	opts := cameratest.DefaultOptions()
	opts.RefuseFrontInput = true
	h := newHarness(t, opts, Config{Preset: PresetPhotos})
	h.prepareAndResume()

	done := make(chan error, 1)
	h.s.ChangeCamera(func(err error) { done <- err })
	err := <-done
	if !errors.Is(err, ErrCannotAddInput) {
		t.Fatalf("expected ErrCannotAddInput, got %v", err)
	}
	if pos := h.hw.LastSession().ActivePosition(); pos != camera.PositionBack {
		t.Fatalf("expected back camera to remain, got %v", pos)
	}
}

func TestSession_UpdateVideoOrientationReachesPreview(t *testing.T) {
	h := newHarness(t, cameratest.DefaultOptions(), Config{Preset: PresetVideos})
	p := &fakePreview{}
	h.s.SetPreview(p)
	h.prepareAndResume()
	h.s.UpdateVideoOrientation(camera.OrientationLandscapeLeft)
	h.settle()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session != h.hw.LastSession() {
		t.Fatalf("preview not attached to the hardware session")
	}
	if p.orientation != camera.OrientationLandscapeLeft || p.updates != 2 {
		t.Fatalf("preview orientation = %v after %d updates", p.orientation, p.updates)
	}
	if got := h.hw.LastMovieOutput().Orientation(); got != camera.OrientationLandscapeLeft {
		t.Fatalf("movie orientation = %v", got)
	}
}

func TestSession_MediaServicesResetRestartsOnce(t *testing.T) {
	h := newHarness(t, cameratest.DefaultOptions(), Config{Preset: PresetPhotos})
	h.prepareAndResume()
	hs := h.hw.LastSession()

	hs.Emit(camera.RunningChanged{Running: false})
	hs.Emit(camera.RuntimeError{Err: camera.ErrMediaServicesReset})
	h.settle()
	h.settle()

	if hs.Starts() != 2 {
		t.Fatalf("expected one automatic restart, got %d starts", hs.Starts())
	}
	if !h.s.IsRunning() {
		t.Fatalf("session not running after restart")
	}
	if h.rec.Count("runtime-error") != 0 {
		t.Fatalf("reset must not surface as runtime error")
	}
	if h.rec.Count("resumed") != 2 {
		t.Fatalf("restart not reported: %v", h.rec.Events())
	}
}

func TestSession_OtherRuntimeErrorsSurface(t *testing.T) {
	h := newHarness(t, cameratest.DefaultOptions(), Config{Preset: PresetPhotos})
	h.prepareAndResume()
	hs := h.hw.LastSession()

	boom := errors.New("sensor overheated")
	hs.Emit(camera.RuntimeError{Err: boom})
	h.settle()
	h.settle()

	errs := h.rec.Errors()
	if len(errs) != 1 || !errors.Is(errs[0], boom) {
		t.Fatalf("expected runtime error callback, got %v", errs)
	}
	if hs.Starts() != 1 {
		t.Fatalf("non-recoverable error must not restart")
	}
}

func TestSession_ResetAfterSuspendDoesNotRestart(t *testing.T) {
	h := newHarness(t, cameratest.DefaultOptions(), Config{Preset: PresetPhotos})
	h.prepareAndResume()
	hs := h.hw.LastSession()
	h.s.Suspend()
	h.settle()

	hs.Emit(camera.RuntimeError{Err: camera.ErrMediaServicesReset})
	h.settle()
	if hs.Starts() != 1 {
		t.Fatalf("suspended session restarted")
	}
}

func TestSession_InterruptionEndReportsResume(t *testing.T) {
	h := newHarness(t, cameratest.DefaultOptions(), Config{Preset: PresetPhotos})
	h.prepareAndResume()
	hs := h.hw.LastSession()

	hs.Emit(camera.Interrupted{Reason: camera.InterruptionVideoDeviceInUseByAnotherClient})
	hs.Emit(camera.RunningChanged{Running: false})
	h.settle()
	h.settle()
	if h.s.IsRunning() {
		t.Fatalf("interrupted session reported running")
	}

	hs.Emit(camera.InterruptionEnded{})
	hs.Emit(camera.RunningChanged{Running: true})
	h.settle()
	h.settle()

	want := []string{"resumed", "interrupted", "interruption-ended", "resumed"}
	if got := h.rec.Events(); !slices.Equal(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	if !h.s.IsRunning() {
		t.Fatalf("auto-resume not published")
	}
}

func TestSession_EnterForegroundRestartsStoppedSession(t *testing.T) {
	h := newHarness(t, cameratest.DefaultOptions(), Config{Preset: PresetPhotos})
	h.prepareAndResume()
	hs := h.hw.LastSession()

	h.s.EnterBackground()
	hs.Emit(camera.RunningChanged{Running: false})
	h.settle()
	h.settle()
	h.s.EnterForeground()
	h.settle()
	h.settle()

	if hs.Starts() != 2 || !h.s.IsRunning() {
		t.Fatalf("session not restarted on foreground: starts=%d running=%v", hs.Starts(), h.s.IsRunning())
	}
}

func TestSession_CloseStopsEverything(t *testing.T) {
	h := newHarness(t, cameratest.DefaultOptions(), Config{Preset: PresetPhotos})
	h.prepareAndResume()
	hs := h.hw.LastSession()

	h.s.Close()
	h.s.Close()
	if hs.IsRunning() || hs.Subscribers() != 0 {
		t.Fatalf("close left the session running=%v subscribers=%d", hs.IsRunning(), hs.Subscribers())
	}
	h.s.Resume()
	if hs.Starts() != 1 {
		t.Fatalf("resume after close reached the hardware")
	}
}

func TestSession_SuspendResumeBackToBack(t *testing.T) {
	h := newHarness(t, cameratest.DefaultOptions(), Config{Preset: PresetPhotos})
	h.prepareAndResume()
	hs := h.hw.LastSession()

	h.s.Suspend()
	h.s.Resume()
	h.settle()
	h.settle()

	want := []string{"resumed", "suspended", "resumed"}
	if got := h.rec.Events(); !slices.Equal(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	if !h.s.IsRunning() || !hs.IsRunning() {
		t.Fatalf("running state split: published=%v hardware=%v", h.s.IsRunning(), hs.IsRunning())
	}
	if hs.Subscribers() != 1 {
		t.Fatalf("expected one subscription, got %d", hs.Subscribers())
	}
}

func TestSession_ResumeBeforePrepareFails(t *testing.T) {
	h := newHarness(t, cameratest.DefaultOptions(), Config{Preset: PresetPhotos})
	hs := h.hw.LastSession()

	if h.s.SetupResult() != SetupPending {
		t.Fatalf("expected pending setup, got %v", h.s.SetupResult())
	}
	h.s.Resume()
	var swapErr error
	h.s.ChangeCamera(func(err error) { swapErr = err })
	h.settle()

	if hs.Starts() != 0 || h.s.IsRunning() {
		t.Fatalf("unprepared session started")
	}
	errs := h.rec.Errors()
	if len(errs) != 1 || !errors.Is(errs[0], ErrNotPrepared) {
		t.Fatalf("expected ErrNotPrepared, got %v", errs)
	}
	if !errors.Is(swapErr, ErrNotPrepared) {
		t.Fatalf("camera change before prepare: %v", swapErr)
	}
}

func TestSession_FailedResetRestartSurfaces(t *testing.T) {
	h := newHarness(t, cameratest.DefaultOptions(), Config{Preset: PresetPhotos})
	h.prepareAndResume()
	hs := h.hw.LastSession()

	h.hw.SetFailStart(true)
	hs.Emit(camera.RunningChanged{Running: false})
	hs.Emit(camera.RuntimeError{Err: camera.ErrMediaServicesReset})
	h.settle()
	h.settle()

	errs := h.rec.Errors()
	if len(errs) != 1 || !errors.Is(errs[0], camera.ErrMediaServicesReset) || !errors.Is(errs[0], ErrSessionNotStarted) {
		t.Fatalf("expected runtime error for failed restart, got %v", errs)
	}
	if h.rec.Count("runtime-error") != 1 {
		t.Fatalf("failed restart not reported: %v", h.rec.Events())
	}
	if h.s.IsRunning() {
		t.Fatalf("stopped session reported running")
	}
}
