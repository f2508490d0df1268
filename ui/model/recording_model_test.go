package model

import (
	"testing"
	"time"
)

func TestRecordingModel_Lifecycle(t *testing.T) {
	m := NewRecordingModel()
	base := time.Unix(0, 0)

	m.OnTick(true, base)
	m.OnTick(true, base.Add(5*time.Second))
	cur, total := m.Values()
	if cur != 5*time.Second || total != 5*time.Second || !m.Active() {
		t.Fatalf("recording: cur=%v total=%v", cur, total)
	}

	m.OnTick(false, base.Add(6*time.Second))
	cur, total = m.Values()
	if cur != 6*time.Second || total != 6*time.Second || m.Clips() != 1 || m.Active() {
		t.Fatalf("after stop: cur=%v total=%v clips=%d", cur, total, m.Clips())
	}

	m.OnTick(false, base.Add(9*time.Second))
	if c, tt := m.Values(); c != cur || tt != total {
		t.Fatalf("idle tick changed values: %v %v", c, tt)
	}

	m.OnTick(true, base.Add(10*time.Second))
	m.OnTick(true, base.Add(12*time.Second))
	cur, total = m.Values()
	if cur != 2*time.Second || total != 8*time.Second {
		t.Fatalf("second clip: cur=%v total=%v", cur, total)
	}
}

func TestRecordingModel_NilSafe(t *testing.T) {
	var m *RecordingModel
	m.OnTick(true, time.Now())
	if c, tt := m.Values(); c != 0 || tt != 0 || m.Clips() != 0 || m.Active() {
		t.Fatalf("nil model should report zero values")
	}
}
