package tools

import (
	"github.com/Faultbox/isotile/internal/events"
	"github.com/Faultbox/isotile/pkg/tileset"
)

// Building places one building template. A ghost footprint follows the
// hovered cell; a press places the building when the footprint is valid.
type Building struct {
	m    Map
	tmpl tileset.Template

	ghostI, ghostJ int
	hasGhost       bool
}

// NewBuilding returns a placement tool for tmpl.
func NewBuilding(m Map, tmpl tileset.Template) *Building {
	return &Building{m: m, tmpl: tmpl}
}

// String returns the tool name.
func (b *Building) String() string { return "build " + b.tmpl.Key }

// Ghost returns the cell the ghost is anchored to.
func (b *Building) Ghost() (i, j int, ok bool) {
	return b.ghostI, b.ghostJ, b.hasGhost
}

// OnHover moves the ghost to (i, j).
func (b *Building) OnHover(i, j int) {
	b.ghostI, b.ghostJ, b.hasGhost = i, j, true
	b.preview()
}

// OnPress places the building at (i, j) when the footprint is valid.
func (b *Building) OnPress(i, j int) {
	if _, err := b.m.PlaceBuilding(b.tmpl, i, j); err != nil {
		b.m.NoOp(err.Error())
		return
	}
	b.m.Commit(events.CommitBuilding, b.tmpl.Width*b.tmpl.Height)
	b.OnHover(i, j)
}

// OnDrag does nothing; buildings are placed one press at a time.
func (b *Building) OnDrag(int, int) {}

// OnRelease does nothing.
func (b *Building) OnRelease() {}

// Detach removes the ghost.
func (b *Building) Detach() {
	b.hasGhost = false
	b.m.ClearPreview()
}

func (b *Building) preview() {
	mark := events.PreviewValid
	if !b.m.CanPlace(b.tmpl, b.ghostI, b.ghostJ) {
		mark = events.PreviewInvalid
	}
	cells := make([]events.PreviewCell, 0, b.tmpl.Width*b.tmpl.Height)
	for i := b.ghostI; i < b.ghostI+b.tmpl.Width; i++ {
		for j := b.ghostJ; j < b.ghostJ+b.tmpl.Height; j++ {
			if b.m.InBounds(i, j) {
				cells = append(cells, events.PreviewCell{I: i, J: j, Mark: mark})
			}
		}
	}
	b.m.SetPreview(cells)
}
