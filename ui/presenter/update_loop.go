package presenter

import "time"

// Drainer runs queued UI tasks; queue.Pump implements it.
type Drainer interface{ Drain() int }

// Loop drives the UI once per tick: queued dispatcher tasks first, then the
// presenters that poll, then the scheduler callback. The zero value is
// usable (methods are nil-safe).
type Loop struct {
	UI        Drainer
	Status    *StatusPresenter
	Recording *RecordingPresenter
	Preview   *PreviewPresenter
	Schedule  func()
}

func NewLoop(ui Drainer, status *StatusPresenter, rec *RecordingPresenter, preview *PreviewPresenter, schedule func()) *Loop {
	return &Loop{UI: ui, Status: status, Recording: rec, Preview: preview, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	l.tick(time.Now())
	if l.Schedule != nil {
		l.Schedule()
	}
}

func (l *Loop) tick(now time.Time) {
	if l.UI != nil {
		l.UI.Drain()
	}
	l.Recording.Tick(now)
	l.Preview.ProcessFrame(now)
	l.Status.Tick(now)
}
