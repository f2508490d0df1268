package capture

import (
	"os"
	"time"

	"github.com/soocke/assetpicker-go/domain/queue"
)

// Config fixes the capture mode and where temporary media goes.
type Config struct {
	Preset Preset
	// TempDir receives recordings and live photo movies. Empty means os.TempDir().
	TempDir string
	// MinFreeDiskBytes refuses new recordings below this much free space. Zero
	// disables the check.
	MinFreeDiskBytes uint64
	// VideoDataOutput attaches an auxiliary frame output next to the photo output.
	VideoDataOutput bool
}

func (c Config) tempDir() string {
	if c.TempDir != "" {
		return c.TempDir
	}
	return os.TempDir()
}

// Option customizes a Session.
type Option func(*Session)

// WithLibrary saves captured media through l when a capture asks for it.
func WithLibrary(l LibrarySaver) Option {
	return func(s *Session) { s.library = l }
}

// WithPanicHandler receives panics raised on the capture queue, including
// *InvariantError values. Without one the panic terminates the process.
func WithPanicHandler(h queue.PanicHandler) Option {
	return func(s *Session) { s.onPanic = h }
}

const defaultCloseTimeout = 2 * time.Second

// WithCloseTimeout bounds how long Close waits for captures in flight.
func WithCloseTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.closeTimeout = d
		}
	}
}
