package library

import (
	"log/slog"

	"golang.org/x/sync/singleflight"
)

// Saver persists captured media, asking for authorization first. Concurrent
// saves share one authorization prompt.
type Saver struct {
	lib    Library
	logger *slog.Logger
	auth   singleflight.Group
}

// NewSaver wraps lib.
func NewSaver(lib Library, logger *slog.Logger) *Saver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Saver{lib: lib, logger: logger.With("component", "library-saver")}
}

// SavePhoto stores image data, paired with livePhotoMovie when not empty.
// done runs once, on a background goroutine.
func (s *Saver) SavePhoto(data []byte, livePhotoMovie string, done func(error)) {
	s.save(CreateRequest{Photo: data, PairedMovie: livePhotoMovie}, done)
}

// SaveVideo stores the movie at path. done runs once, on a background goroutine.
func (s *Saver) SaveVideo(path string, done func(error)) {
	s.save(CreateRequest{Video: path}, done)
}

func (s *Saver) save(req CreateRequest, done func(error)) {
	go func() {
		if st := s.authorize(); st != AuthorizationAuthorized {
			s.logger.Warn("library save refused", "status", st.String())
			finish(done, ErrNotAuthorized)
			return
		}
		s.lib.PerformChanges(req, func(a Asset, err error) {
			if err != nil {
				s.logger.Error("library save failed", "error", err)
			} else {
				s.logger.Info("asset saved", "id", a.ID, "kind", a.Kind.String())
			}
			finish(done, err)
		})
	}()
}

func (s *Saver) authorize() AuthorizationStatus {
	if st := s.lib.AuthorizationStatus(); st != AuthorizationNotDetermined {
		return st
	}
	v, _, _ := s.auth.Do("authorize", func() (any, error) {
		ch := make(chan AuthorizationStatus, 1)
		s.lib.RequestAuthorization(func(st AuthorizationStatus) { ch <- st })
		return <-ch, nil
	})
	return v.(AuthorizationStatus)
}

func finish(done func(error), err error) {
	if done != nil {
		done(err)
	}
}
