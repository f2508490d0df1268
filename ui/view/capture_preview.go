package view

import (
	"image"
	"time"

	"github.com/soocke/assetpicker-go/domain/camera"
	"github.com/soocke/assetpicker-go/ui/images"
	"github.com/soocke/assetpicker-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// CapturePreview is the camera cell: the live preview image plus an
// orientation caption.
type CapturePreview interface {
	Update(img image.Image)
	SetOrientation(o camera.Orientation)
	Flash()
	Reset()
}

type capturePreview struct {
	label     *LabelWidget
	caption   *TLabelWidget
	prevPhoto *Img // disposed before each replacement
	flashID   string
}

const (
	maxPreviewW = 400
	maxPreviewH = 225
)

// NewCapturePreview grids the preview into parent at row, spanning cols columns.
func NewCapturePreview(parent *FrameWidget, row, cols int) CapturePreview {
	photo := placeholder()
	v := &capturePreview{
		label:     Label(Image(photo), Borderwidth(1), Relief("sunken")),
		caption:   TLabel(Txt("portrait"), Style(theme.StyleMutedLabel)),
		prevPhoto: photo,
	}
	Grid(v.label, In(parent), Row(row), Column(0), Columnspan(cols), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	Grid(v.caption, In(parent), Row(row+1), Column(0), Columnspan(cols), Sticky("w"), Padx("0.4m"))
	return v
}

func placeholder() *Img {
	return NewPhoto(Data(images.EncodePNG(image.NewRGBA(image.Rect(0, 0, 200, 120)))))
}

func (v *capturePreview) Update(img image.Image) {
	if v.label == nil || img == nil {
		return
	}
	scaled := images.ScaleToFit(img, maxPreviewW, maxPreviewH)
	v.replace(NewPhoto(Data(images.EncodePNG(scaled))))
}

func (v *capturePreview) replace(photo *Img) {
	if v.prevPhoto != nil {
		v.prevPhoto.Delete()
	}
	v.prevPhoto = photo
	v.label.Configure(Image(photo))
}

func (v *capturePreview) SetOrientation(o camera.Orientation) {
	if v.caption != nil {
		v.caption.Configure(Txt(o.String()))
	}
}

// Flash blinks the preview border like a shutter.
func (v *capturePreview) Flash() {
	if v.label == nil {
		return
	}
	if v.flashID != "" {
		TclAfterCancel(v.flashID)
	}
	v.label.Configure(Background(theme.Current().Surface), Borderwidth(6))
	v.flashID = TclAfter(120*time.Millisecond, func() {
		v.flashID = ""
		v.label.Configure(Borderwidth(1))
	})
}

func (v *capturePreview) Reset() {
	if v.label != nil {
		v.replace(placeholder())
	}
}
