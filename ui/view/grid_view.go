package view

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/soocke/assetpicker-go/domain/collection"
	"github.com/soocke/assetpicker-go/domain/library"
	"github.com/soocke/assetpicker-go/ui/images"
	"github.com/soocke/assetpicker-go/ui/model"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// AssetGrid is the picker grid. Batches go through an in-memory list, the
// same surface the coordinator is tested against, and the widgets are
// redrawn from that list after every reload or batch.
type AssetGrid struct {
	list  *collection.MemoryList[library.Asset]
	model *model.PickerModel

	text       *TextWidget
	picker     *TComboboxWidget
	more       *ButtonWidget
	thumb      *LabelWidget
	thumbPhoto *Img
}

const thumbSize = 160

// NewAssetGrid creates the grid for the asset section of m.
func NewAssetGrid(list *collection.MemoryList[library.Asset], m *model.PickerModel) *AssetGrid {
	return &AssetGrid{list: list, model: m}
}

// Build grids the widgets into parent. onToggle receives the item index of
// the asset picked in the combobox.
func (g *AssetGrid) Build(parent *FrameWidget, row int, onToggle func(item int), onLoadMore func()) (next int) {
	g.text = Text(Height(14), Width(48))
	Grid(g.text, In(parent), Row(row), Column(0), Columnspan(3), Sticky("nswe"), Padx("0.4m"), Pady("0.3m"))
	row++

	g.picker = TCombobox(Values([]string{"<none>"}), Width(36))
	Grid(g.picker, In(parent), Row(row), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Grid(Button(Txt("Select / Deselect"), Command(func() {
		if item, ok := g.pickedItem(); ok {
			onToggle(item)
		}
	})), In(parent), Row(row), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	g.more = Button(Txt("Load more"), Command(onLoadMore))
	Grid(g.more, In(parent), Row(row), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	row++

	g.thumb = Label(Txt("No asset picked"), Borderwidth(1), Relief("groove"))
	Grid(g.thumb, In(parent), Row(row), Column(0), Columnspan(3), Sticky("w"), Padx("0.4m"), Pady("0.3m"))
	row++
	Bind(g.picker, "<<ComboboxSelected>>", Command(g.showPicked))
	g.render()
	return row
}

func (g *AssetGrid) pickedItem() (int, bool) {
	if g.picker == nil {
		return 0, false
	}
	idx, err := strconv.Atoi(g.picker.Current(nil))
	if err != nil || idx < 0 || idx >= g.list.Len() {
		return 0, false
	}
	return idx, true
}

// showPicked previews the picked asset. Videos have no still to show.
func (g *AssetGrid) showPicked() {
	item, ok := g.pickedItem()
	if !ok {
		return
	}
	a := g.list.Items()[item]
	if a.Kind == library.KindVideo {
		g.setThumb(nil, "Video: "+filepath.Base(a.Path))
		return
	}
	img, err := images.Thumbnail(a.Path, thumbSize, thumbSize)
	if err != nil {
		g.setThumb(nil, "Preview unavailable")
		return
	}
	g.setThumb(NewPhoto(Data(images.EncodePNG(img))), "")
}

func (g *AssetGrid) setThumb(photo *Img, caption string) {
	if g.thumbPhoto != nil {
		g.thumbPhoto.Delete()
		g.thumbPhoto = nil
	}
	if photo == nil {
		g.thumb.Configure(Image(""), Txt(caption))
		return
	}
	g.thumbPhoto = photo
	g.thumb.Configure(Image(photo))
}

func (g *AssetGrid) ReloadData() {
	g.list.ReloadData()
	g.render()
}

func (g *AssetGrid) PerformBatchUpdates(updates func(), completion func(bool)) {
	g.list.PerformBatchUpdates(updates, completion)
	g.render()
}

func (g *AssetGrid) DeleteItems(paths []collection.IndexPath) { g.list.DeleteItems(paths) }
func (g *AssetGrid) InsertItems(paths []collection.IndexPath) { g.list.InsertItems(paths) }
func (g *AssetGrid) ReloadItems(paths []collection.IndexPath) { g.list.ReloadItems(paths) }
func (g *AssetGrid) MoveItem(from, to collection.IndexPath)   { g.list.MoveItem(from, to) }

// Refresh redraws without touching the list, e.g. after the camera cell
// changed.
func (g *AssetGrid) Refresh() { g.render() }

func (g *AssetGrid) render() {
	if g.text == nil {
		return
	}
	items := g.list.Items()
	g.text.Delete("1.0", END)
	g.text.Insert(END, strings.Join(g.lines(items), "\n"))

	names := make([]string, len(items))
	for i, a := range items {
		names[i] = fmt.Sprintf("%d %s", i, filepath.Base(a.Path))
	}
	if len(names) == 0 {
		names = []string{"<none>"}
	}
	g.picker.Configure(Values(names))
	state := "disabled"
	if g.model.HasMore() {
		state = "normal"
	}
	g.more.Configure(State(state))
}

func (g *AssetGrid) lines(items []library.Asset) []string {
	var out []string
	for _, s := range g.model.Sections() {
		switch s {
		case model.SectionActions:
			for _, a := range g.model.Actions() {
				out = append(out, "  > "+a)
			}
		case model.SectionCamera:
			out = append(out, "  [camera]")
		case model.SectionAssets:
			for _, a := range items {
				mark := "   "
				if n := g.model.SelectionIndex(a.ID); n > 0 {
					mark = fmt.Sprintf("(%d)", n)
				}
				out = append(out, fmt.Sprintf("%s %-10s %-28s %8s  %s", mark, a.Kind, filepath.Base(a.Path),
					humanize.Bytes(uint64(max(a.Size, 0))), humanize.Time(a.Modified)))
			}
		}
	}
	if rest := g.model.TotalAssets() - len(items); rest > 0 {
		out = append(out, fmt.Sprintf("  ... %d more", rest))
	}
	return out
}

var _ collection.ListSurface = (*AssetGrid)(nil)
