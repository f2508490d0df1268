package model

import (
	"time"
)

// RecordingModel tracks the length of the current recording and the total
// time recorded in this run. Presenters poll Values from the UI tick.
// The zero value is ready to use.
type RecordingModel struct {
	active   bool
	started  time.Time
	current  time.Duration
	finished time.Duration
	clips    int
}

// NewRecordingModel returns a ready-to-use RecordingModel.
func NewRecordingModel() *RecordingModel { return &RecordingModel{} }

// OnTick advances the model with the recorder state observed at now.
func (m *RecordingModel) OnTick(recording bool, now time.Time) {
	if m == nil {
		return
	}
	switch {
	case recording && !m.active:
		m.active = true
		m.started = now
		m.current = 0
	case recording:
		m.current = now.Sub(m.started)
	case m.active:
		m.current = now.Sub(m.started)
		m.finished += m.current
		m.clips++
		m.active = false
	}
}

// Values returns the current (or last) clip length and the total recorded,
// including the clip in progress.
func (m *RecordingModel) Values() (current, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	total = m.finished
	if m.active {
		total += m.current
	}
	return m.current, total
}

// Clips counts completed recordings.
func (m *RecordingModel) Clips() int {
	if m == nil {
		return 0
	}
	return m.clips
}

// Active reports whether a recording is in progress.
func (m *RecordingModel) Active() bool { return m != nil && m.active }
