package presenter

import (
	"time"

	"github.com/soocke/assetpicker-go/ui/model"
)

// RecordingSource reports whether a recording is in progress.
type RecordingSource interface{ IsRecording() bool }

// RecordingView shows the recording timer.
type RecordingView interface {
	SetRecordingTime(current, total time.Duration)
}

// RecordingPresenter drives the recording timer from UI ticks.
type RecordingPresenter struct {
	rec  *model.RecordingModel
	src  RecordingSource
	view RecordingView
}

func NewRecordingPresenter(rec *model.RecordingModel, src RecordingSource, view RecordingView) *RecordingPresenter {
	return &RecordingPresenter{rec: rec, src: src, view: view}
}

// Tick advances the model and pushes the durations to the view.
func (p *RecordingPresenter) Tick(now time.Time) {
	if p == nil || p.rec == nil || p.src == nil || p.view == nil {
		return
	}
	p.rec.OnTick(p.src.IsRecording(), now)
	cur, total := p.rec.Values()
	p.view.SetRecordingTime(cur, total)
}
