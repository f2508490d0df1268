package view

import (
	"fmt"
	"time"

	"github.com/soocke/assetpicker-go/ui/theme"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// RecordingStats shows the running clip length and the total recorded time.
type RecordingStats interface {
	SetCurrent(d time.Duration)
	SetTotal(d time.Duration)
}

type recordingStats struct {
	currentLbl *TLabelWidget
	totalLbl   *TLabelWidget
	current    int
	total      int
}

// NewRecordingStats grids both labels into parent starting at (row, startCol).
func NewRecordingStats(parent *FrameWidget, row, startCol int) RecordingStats {
	s := &recordingStats{
		currentLbl: TLabel(Width(14), Style(theme.StyleMutedLabel)),
		totalLbl:   TLabel(Width(14), Style(theme.StyleMutedLabel)),
		current:    -1,
		total:      -1,
	}
	Grid(s.currentLbl, In(parent), Row(row), Column(startCol), Sticky("w"), Padx("0.2m"))
	Grid(s.totalLbl, In(parent), Row(row), Column(startCol+1), Sticky("w"), Padx("0.2m"))
	s.SetCurrent(0)
	s.SetTotal(0)
	return s
}

// SetCurrent shows the length of the clip being recorded.
func (s *recordingStats) SetCurrent(d time.Duration) {
	if s == nil || s.currentLbl == nil {
		return
	}
	if sec := int(d.Seconds()); sec != s.current {
		s.current = sec
		s.currentLbl.Configure(Txt("Clip: " + clock(sec)))
	}
}

// SetTotal shows the time recorded since start.
func (s *recordingStats) SetTotal(d time.Duration) {
	if s == nil || s.totalLbl == nil {
		return
	}
	if sec := int(d.Seconds()); sec != s.total {
		s.total = sec
		s.totalLbl.Configure(Txt("Total: " + clock(sec)))
	}
}

func clock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
