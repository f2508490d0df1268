package library

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/soocke/assetpicker-go/domain/capture"
)

var _ capture.LibrarySaver = (*Saver)(nil)

type fakeLibrary struct {
	mu       sync.Mutex
	status   AuthorizationStatus
	answer   AuthorizationStatus
	gate     chan struct{}
	prompts  int
	requests []CreateRequest
	err      error
}

func (f *fakeLibrary) AuthorizationStatus() AuthorizationStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeLibrary) RequestAuthorization(done func(AuthorizationStatus)) {
	f.mu.Lock()
	f.prompts++
	gate := f.gate
	f.mu.Unlock()
	go func() {
		if gate != nil {
			<-gate
		}
		f.mu.Lock()
		f.status = f.answer
		st := f.status
		f.mu.Unlock()
		done(st)
	}()
}

func (f *fakeLibrary) PerformChanges(req CreateRequest, done func(Asset, error)) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	err := f.err
	f.mu.Unlock()
	done(Asset{ID: "new"}, err)
}

func waitErr(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatalf("save never completed")
		return nil
	}
}

func TestSaver_PersistsWhenAuthorized(t *testing.T) {
	lib := &fakeLibrary{status: AuthorizationAuthorized}
	s := NewSaver(lib, discardLogger)

	done := make(chan error, 2)
	s.SavePhoto([]byte("jpeg"), "/tmp/live.mov", func(err error) { done <- err })
	s.SaveVideo("/tmp/clip.mov", func(err error) { done <- err })
	if err := waitErr(t, done); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := waitErr(t, done); err != nil {
		t.Fatalf("save: %v", err)
	}

	lib.mu.Lock()
	defer lib.mu.Unlock()
	if len(lib.requests) != 2 || lib.prompts != 0 {
		t.Fatalf("requests=%d prompts=%d", len(lib.requests), lib.prompts)
	}
}

func TestSaver_DeniedNeverWrites(t *testing.T) {
	lib := &fakeLibrary{status: AuthorizationDenied}
	s := NewSaver(lib, discardLogger)

	done := make(chan error, 1)
	s.SaveVideo("/tmp/clip.mov", func(err error) { done <- err })
	if err := waitErr(t, done); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if len(lib.requests) != 0 {
		t.Fatalf("denied library written to")
	}
}

func TestSaver_ConcurrentSavesSharePrompt(t *testing.T) {
	lib := &fakeLibrary{status: AuthorizationNotDetermined, answer: AuthorizationAuthorized, gate: make(chan struct{})}
	s := NewSaver(lib, discardLogger)

	done := make(chan error, 3)
	for i := 0; i < 3; i++ {
		s.SavePhoto([]byte("jpeg"), "", func(err error) { done <- err })
	}
	time.Sleep(50 * time.Millisecond)
	close(lib.gate)
	for i := 0; i < 3; i++ {
		if err := waitErr(t, done); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	lib.mu.Lock()
	defer lib.mu.Unlock()
	if lib.prompts != 1 {
		t.Fatalf("expected one prompt, got %d", lib.prompts)
	}
	if len(lib.requests) != 3 {
		t.Fatalf("expected 3 writes, got %d", len(lib.requests))
	}
}

func TestSaver_PropagatesWriteError(t *testing.T) {
	boom := errors.New("disk full")
	lib := &fakeLibrary{status: AuthorizationAuthorized, err: boom}
	s := NewSaver(lib, discardLogger)

	done := make(chan error, 1)
	s.SavePhoto([]byte("jpeg"), "", func(err error) { done <- err })
	if err := waitErr(t, done); !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
}
