package model

import (
	"errors"
	"slices"
	"testing"

	"github.com/soocke/assetpicker-go/domain/library"
)

func assetsNamed(ids ...string) []library.Asset {
	out := make([]library.Asset, len(ids))
	for i, id := range ids {
		out[i] = library.Asset{ID: id}
	}
	return out
}

func TestPickerModel_Sections(t *testing.T) {
	cases := []struct {
		name    string
		actions []string
		camera  bool
		want    []Section
	}{
		{"everything", []string{"Browse"}, true, []Section{SectionActions, SectionCamera, SectionAssets}},
		{"no actions", nil, true, []Section{SectionCamera, SectionAssets}},
		{"no camera", []string{"Browse"}, false, []Section{SectionActions, SectionAssets}},
		{"assets only", nil, false, []Section{SectionAssets}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewPickerModel(tc.actions, 10, 0)
			m.SetCameraEnabled(tc.camera)
			if got := m.Sections(); !slices.Equal(got, tc.want) {
				t.Fatalf("sections = %v, want %v", got, tc.want)
			}
			if m.SectionIndex(SectionAssets) != len(tc.want)-1 {
				t.Fatalf("assets section index = %d", m.SectionIndex(SectionAssets))
			}
		})
	}
}

func TestPickerModel_Pagination(t *testing.T) {
	m := NewPickerModel(nil, 2, 0)
	m.SetAssets(assetsNamed("a", "b", "c", "d", "e"))
	if got := len(m.VisibleAssets()); got != 2 || !m.HasMore() {
		t.Fatalf("first page: %d visible, more=%v", got, m.HasMore())
	}
	m.SetVisible(m.Visible() + m.PageSize())
	m.SetVisible(m.Visible() + m.PageSize())
	if got := len(m.VisibleAssets()); got != 5 || m.HasMore() {
		t.Fatalf("last page: %d visible, more=%v", got, m.HasMore())
	}
	m.SetVisible(0)
	if got := len(m.VisibleAssets()); got != 2 {
		t.Fatalf("visible count must not drop below one page, got %d", got)
	}
}

func TestPickerModel_SelectionOrderAndLimit(t *testing.T) {
	m := NewPickerModel(nil, 10, 2)
	m.SetAssets(assetsNamed("a", "b", "c"))

	if on, err := m.Toggle("b"); !on || err != nil {
		t.Fatalf("select b: %v %v", on, err)
	}
	m.Toggle("a")
	if _, err := m.Toggle("c"); !errors.Is(err, ErrSelectionLimit) {
		t.Fatalf("expected ErrSelectionLimit, got %v", err)
	}
	if got := m.Selected(); !slices.Equal(got, []string{"b", "a"}) {
		t.Fatalf("selected = %v", got)
	}
	if m.SelectionIndex("a") != 2 || m.SelectionIndex("c") != 0 {
		t.Fatalf("selection index a=%d c=%d", m.SelectionIndex("a"), m.SelectionIndex("c"))
	}
	if on, _ := m.Toggle("b"); on {
		t.Fatalf("second toggle should deselect")
	}

	m.SetAssets(assetsNamed("b", "c"))
	if got := m.Selected(); len(got) != 0 {
		t.Fatalf("removed asset still selected: %v", got)
	}
}
