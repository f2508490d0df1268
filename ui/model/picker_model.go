package model

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/soocke/assetpicker-go/domain/library"
)

// ErrSelectionLimit is returned when selecting past the configured maximum.
var ErrSelectionLimit = errors.New("model: selection limit reached")

// Section is one block of the picker grid.
type Section int

const (
	SectionActions Section = iota
	SectionCamera
	SectionAssets
)

func (s Section) String() string {
	switch s {
	case SectionActions:
		return "actions"
	case SectionCamera:
		return "camera"
	case SectionAssets:
		return "assets"
	default:
		return "unknown"
	}
}

// PickerModel holds what the grid shows: action cells, the camera cell and a
// paginated window over the library assets, plus the ordered selection.
// Asset and selection state is mutated on the UI dispatcher only; the
// camera flag may be read from any goroutine.
type PickerModel struct {
	actions      []string
	pageSize     int
	maxSelection int

	mu       sync.Mutex
	assets   []library.Asset
	visible  int
	selected []string

	camera atomic.Bool
}

// NewPickerModel shows pageSize assets at a time. maxSelection <= 0 means
// unlimited.
func NewPickerModel(actions []string, pageSize, maxSelection int) *PickerModel {
	if pageSize <= 0 {
		pageSize = 60
	}
	return &PickerModel{actions: slices.Clone(actions), pageSize: pageSize, maxSelection: maxSelection, visible: pageSize}
}

// Sections lists the grid sections in display order. The action section is
// omitted when there are no actions, the camera section when the camera is
// disabled.
func (m *PickerModel) Sections() []Section {
	var out []Section
	if len(m.actions) > 0 {
		out = append(out, SectionActions)
	}
	if m.CameraEnabled() {
		out = append(out, SectionCamera)
	}
	return append(out, SectionAssets)
}

// SectionIndex returns the position of s in Sections, or -1.
func (m *PickerModel) SectionIndex(s Section) int {
	return slices.Index(m.Sections(), s)
}

func (m *PickerModel) Actions() []string { return slices.Clone(m.actions) }

func (m *PickerModel) CameraEnabled() bool { return m.camera.Load() }

func (m *PickerModel) SetCameraEnabled(b bool) { m.camera.Store(b) }

// SetAssets replaces the asset snapshot and drops selections whose asset
// disappeared.
func (m *PickerModel) SetAssets(as []library.Asset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets = slices.Clone(as)
	present := make(map[string]bool, len(as))
	for _, a := range as {
		present[a.ID] = true
	}
	m.selected = slices.DeleteFunc(m.selected, func(id string) bool { return !present[id] })
}

// VisibleAssets is the current page window.
func (m *PickerModel) VisibleAssets() []library.Asset {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.assets[:min(m.visible, len(m.assets))])
}

// TotalAssets counts every asset, visible or not.
func (m *PickerModel) TotalAssets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.assets)
}

// HasMore reports whether another page can be shown.
func (m *PickerModel) HasMore() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible < len(m.assets)
}

// PageSize is how many assets one page adds.
func (m *PickerModel) PageSize() int { return m.pageSize }

// Visible is the size of the page window.
func (m *PickerModel) Visible() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

// SetVisible sets how many assets the window shows.
func (m *PickerModel) SetVisible(n int) {
	m.mu.Lock()
	m.visible = max(n, m.pageSize)
	m.mu.Unlock()
}

// Toggle flips the selection of id and reports whether it is now selected.
func (m *PickerModel) Toggle(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := slices.Index(m.selected, id); i >= 0 {
		m.selected = slices.Delete(m.selected, i, i+1)
		return false, nil
	}
	if m.maxSelection > 0 && len(m.selected) >= m.maxSelection {
		return false, ErrSelectionLimit
	}
	m.selected = append(m.selected, id)
	return true, nil
}

// Selected returns the selected asset IDs in selection order.
func (m *PickerModel) Selected() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.selected)
}

// SelectionIndex returns the 1-based position of id in the selection, or 0.
func (m *PickerModel) SelectionIndex(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Index(m.selected, id) + 1
}
