package presenter

import "time"

// StatusView sets the status label.
type StatusView interface{ SetStatusLabel(string) }

// StatusPresenter collects status lines from callbacks and shows the latest
// one on the next Tick.
type StatusPresenter struct {
	view    StatusView
	latest  string
	pending []string
}

func NewStatusPresenter(view StatusView) *StatusPresenter {
	return &StatusPresenter{view: view}
}

// OnStatus queues s for the next Tick.
func (p *StatusPresenter) OnStatus(s string) {
	if p == nil {
		return
	}
	p.pending = append(p.pending, s)
}

// Tick shows the most recent queued line if it differs from the one shown.
func (p *StatusPresenter) Tick(now time.Time) {
	if p == nil || p.view == nil || len(p.pending) == 0 {
		return
	}
	last := p.pending[len(p.pending)-1]
	p.pending = p.pending[:0]
	if last != p.latest {
		p.latest = last
		p.view.SetStatusLabel(last)
	}
}
