package tools

import (
	"fmt"

	"github.com/Faultbox/isotile/internal/events"
	"github.com/Faultbox/isotile/pkg/tileset"
)

// Painter fills the dragged rectangle with one tile.
type Painter struct {
	m    Map
	tile tileset.TileID
	g    gesture
}

// NewPainter returns a painter for tile.
func NewPainter(m Map, tile tileset.TileID) *Painter {
	return &Painter{m: m, tile: tile}
}

// String returns the tool name.
func (p *Painter) String() string {
	return fmt.Sprintf("paint %s", tileset.Describe(p.tile))
}

// Phase returns the gesture phase.
func (p *Painter) Phase() Phase { return p.g.phase }

// OnPress anchors the rectangle.
func (p *Painter) OnPress(i, j int) {
	p.g.press(i, j)
	p.preview()
}

// OnDrag stretches the rectangle to (i, j) and previews it.
func (p *Painter) OnDrag(i, j int) {
	if p.g.drag(i, j) {
		p.preview()
	}
}

// OnRelease paints the rectangle and fixes the autotiling of its border.
func (p *Painter) OnRelease() {
	if !p.g.release() {
		return
	}
	p.m.ClearPreview()

	r := p.g.rect()
	for i := r.MinI; i <= r.MaxI; i++ {
		for j := r.MinJ; j <= r.MaxJ; j++ {
			p.m.SetTileAt(i, j, p.tile)
		}
	}
	border := r.Dilate(1)
	p.m.PutSpecialTiles(border)
	p.m.Redraw(border)
	p.m.Commit(events.CommitTiles, area(r))
}

// Cancel drops the rectangle without painting.
func (p *Painter) Cancel() {
	p.g.reset()
	p.m.ClearPreview()
}

// Detach drops the preview when the tool is replaced.
func (p *Painter) Detach() {
	p.Cancel()
}

func (p *Painter) preview() {
	r := p.g.rect()
	cells := make([]events.PreviewCell, 0, area(r))
	for i := r.MinI; i <= r.MaxI; i++ {
		for j := r.MinJ; j <= r.MaxJ; j++ {
			if p.m.InBounds(i, j) {
				cells = append(cells, events.PreviewCell{I: i, J: j, Mark: events.PreviewValid})
			}
		}
	}
	p.m.SetPreview(cells)
}
