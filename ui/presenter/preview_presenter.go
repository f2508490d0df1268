package presenter

import (
	"image"
	"time"

	"github.com/soocke/assetpicker-go/domain/camera"
	"github.com/soocke/assetpicker-go/domain/capture"
)

// PreviewView renders preview frames.
type PreviewView interface {
	UpdatePreview(img image.Image)
	SetPreviewOrientation(o camera.Orientation)
	ResetPreview()
}

// PreviewPresenter is the capture.PreviewSurface of the camera cell. It
// pulls the latest frame from the attached session at most fps times a
// second.
type PreviewPresenter struct {
	view     PreviewView
	interval time.Duration

	src   camera.FrameSource
	last  image.Image
	shown time.Time
}

func NewPreviewPresenter(view PreviewView, fps int) *PreviewPresenter {
	if fps <= 0 {
		fps = 10
	}
	return &PreviewPresenter{view: view, interval: time.Second / time.Duration(fps)}
}

// AttachSession keeps s as the frame source when it can hand out frames.
func (p *PreviewPresenter) AttachSession(s camera.Session) {
	src, _ := s.(camera.FrameSource)
	p.src = src
	p.last = nil
}

func (p *PreviewPresenter) SetVideoOrientation(o camera.Orientation) {
	if p.view != nil {
		p.view.SetPreviewOrientation(o)
	}
}

// ProcessFrame shows a new frame if one arrived and the interval elapsed.
func (p *PreviewPresenter) ProcessFrame(now time.Time) {
	if p == nil || p.src == nil || p.view == nil {
		return
	}
	if now.Sub(p.shown) < p.interval {
		return
	}
	img := p.src.LatestFrame()
	if img == nil || img == p.last {
		return
	}
	p.last = img
	p.shown = now
	p.view.UpdatePreview(img)
}

// Reset clears the preview and forgets the last frame.
func (p *PreviewPresenter) Reset() {
	if p == nil {
		return
	}
	p.last = nil
	if p.view != nil {
		p.view.ResetPreview()
	}
}

var _ capture.PreviewSurface = (*PreviewPresenter)(nil)
