// Package library is the photo library the picker reads from and saves to.
package library

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/soocke/assetpicker-go/domain/collection"
)

var (
	// ErrNotAuthorized is returned when the user has not granted library access.
	ErrNotAuthorized = errors.New("library: access not authorized")
	// ErrEmptyRequest is returned for a create request with nothing to store.
	ErrEmptyRequest = errors.New("library: create request has no resources")
)

// AuthorizationStatus is the user's decision about library access.
type AuthorizationStatus int

const (
	AuthorizationNotDetermined AuthorizationStatus = iota
	AuthorizationRestricted
	AuthorizationDenied
	AuthorizationAuthorized
)

func (s AuthorizationStatus) String() string {
	switch s {
	case AuthorizationNotDetermined:
		return "not-determined"
	case AuthorizationRestricted:
		return "restricted"
	case AuthorizationDenied:
		return "denied"
	case AuthorizationAuthorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// ParseAuthorization accepts the names produced by String plus "prompt" for
// not-determined.
func ParseAuthorization(s string) (AuthorizationStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "authorized", "":
		return AuthorizationAuthorized, nil
	case "prompt", "not-determined":
		return AuthorizationNotDetermined, nil
	case "denied":
		return AuthorizationDenied, nil
	case "restricted":
		return AuthorizationRestricted, nil
	}
	return AuthorizationDenied, fmt.Errorf("library: unknown authorization %q", s)
}

// Kind is the media type of an asset.
type Kind int

const (
	KindPhoto Kind = iota
	KindLivePhoto
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindPhoto:
		return "photo"
	case KindLivePhoto:
		return "live-photo"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// Asset is one library item.
type Asset struct {
	ID          string
	Kind        Kind
	Path        string
	PairedMovie string // live photos only
	Modified    time.Time
	Size        int64
}

// CreateRequest carries the resources of one new asset: image bytes with an
// optional paired movie, or a video file.
type CreateRequest struct {
	Photo       []byte
	PairedMovie string
	Video       string
}

// Library is the writable side of the photo library.
type Library interface {
	AuthorizationStatus() AuthorizationStatus
	// RequestAuthorization prompts the user; done may run on any goroutine.
	RequestAuthorization(done func(AuthorizationStatus))
	// PerformChanges creates one asset atomically; done may run on any goroutine.
	PerformChanges(req CreateRequest, done func(Asset, error))
}

// Change is one library content change.
type Change struct {
	Before []Asset
	After  []Asset
	Diff   collection.Diff
}

// Observable exposes the library contents and their changes.
type Observable interface {
	Assets() []Asset
	// Subscribe registers fn for content changes. The returned func removes it.
	Subscribe(fn func(Change)) (unsubscribe func())
}
