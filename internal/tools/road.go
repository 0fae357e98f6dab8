package tools

import (
	"github.com/Faultbox/isotile/internal/events"
	"github.com/Faultbox/isotile/pkg/iso"
)

// Road draws an L-shaped road from the pressed cell to the released one.
type Road struct {
	m Map
	g gesture
}

// NewRoad returns a road tool.
func NewRoad(m Map) *Road {
	return &Road{m: m}
}

// String returns the tool name.
func (r *Road) String() string { return "road" }

// Phase returns the gesture phase.
func (r *Road) Phase() Phase { return r.g.phase }

// OnPress anchors the path.
func (r *Road) OnPress(i, j int) {
	r.g.press(i, j)
	r.preview()
}

// OnDrag previews the path to (i, j), marking unbuildable cells.
func (r *Road) OnDrag(i, j int) {
	if r.g.drag(i, j) {
		r.preview()
	}
}

// OnRelease builds the road on every buildable cell of the path.
func (r *Road) OnRelease() {
	if !r.g.release() {
		return
	}
	r.m.ClearPreview()

	built := 0
	for _, c := range Path(r.g.start, r.g.end) {
		if r.m.CanBuildRoad(c.I, c.J) {
			r.m.SetRoadAt(c.I, c.J)
			built++
		}
	}
	if built == 0 {
		r.m.NoOp("no buildable cell on road path")
		return
	}

	around := r.g.rect().Dilate(1)
	r.m.PutSpecialTiles(around)
	r.m.Redraw(around)
	r.m.Commit(events.CommitRoad, built)
}

// Cancel drops the path without building.
func (r *Road) Cancel() {
	r.g.reset()
	r.m.ClearPreview()
}

// Detach drops the preview when the tool is replaced.
func (r *Road) Detach() {
	r.Cancel()
}

func (r *Road) preview() {
	path := Path(r.g.start, r.g.end)
	cells := make([]events.PreviewCell, 0, len(path))
	for _, c := range path {
		if !r.m.InBounds(c.I, c.J) {
			continue
		}
		mark := events.PreviewValid
		if !r.m.CanBuildRoad(c.I, c.J) {
			mark = events.PreviewInvalid
		}
		cells = append(cells, events.PreviewCell{I: c.I, J: c.J, Mark: mark})
	}
	r.m.SetPreview(cells)
}

// Path returns the cells from start to end: first along i, then along j.
func Path(start, end iso.Cell) []iso.Cell {
	di, dj := -1, -1
	if start.I < end.I {
		di = 1
	}
	if start.J < end.J {
		dj = 1
	}

	path := make([]iso.Cell, 0, abs(end.I-start.I)+abs(end.J-start.J)+1)
	i, j := start.I, start.J
	for ; i != end.I; i += di {
		path = append(path, iso.Cell{I: i, J: j})
	}
	for ; j != end.J; j += dj {
		path = append(path, iso.Cell{I: i, J: j})
	}
	return append(path, iso.Cell{I: i, J: j})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
