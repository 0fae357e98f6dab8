// Package tools implements the edit actions driven by the tile map: tile
// painting, elevation, roads and building placement.
package tools

import (
	"github.com/Faultbox/isotile/internal/events"
	"github.com/Faultbox/isotile/internal/world"
	"github.com/Faultbox/isotile/pkg/iso"
	"github.com/Faultbox/isotile/pkg/tileset"
)

// Map is the part of the tile map the tools mutate and query.
type Map interface {
	InBounds(i, j int) bool
	SetTileAt(i, j int, intent tileset.TileID)
	SetRoadAt(i, j int)
	PutSpecialTiles(r world.Rect)
	Redraw(r world.Rect)
	Raise(i, j int) (world.Rect, bool)
	Dig(i, j int) (world.Rect, bool)
	RefreshPointer()
	CanBuildRoad(i, j int) bool
	CanPlace(tmpl tileset.Template, i, j int) bool
	PlaceBuilding(tmpl tileset.Template, i, j int) (world.Building, error)
	SetPreview(cells []events.PreviewCell)
	ClearPreview()
	NoOp(reason string)
	Commit(kind events.CommitKind, cells int)
	Templates() *tileset.Templates
}

// Phase is the state of a press/drag/release gesture.
type Phase uint8

// Gesture phases.
const (
	Idle Phase = iota
	Pressed
	Dragging
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Pressed:
		return "pressed"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// gesture tracks the anchor and current cell of a drag. A press always
// starts a fresh anchor.
type gesture struct {
	phase      Phase
	start, end iso.Cell
}

func (g *gesture) press(i, j int) {
	g.phase = Pressed
	g.start = iso.Cell{I: i, J: j}
	g.end = g.start
}

// drag moves the current cell. It returns false outside a gesture.
func (g *gesture) drag(i, j int) bool {
	if g.phase == Idle {
		return false
	}
	g.phase = Dragging
	g.end = iso.Cell{I: i, J: j}
	return true
}

// release ends the gesture. It returns false when no gesture was running.
func (g *gesture) release() bool {
	if g.phase == Idle {
		return false
	}
	g.phase = Idle
	return true
}

func (g *gesture) reset() {
	g.phase = Idle
}

func (g *gesture) rect() world.Rect {
	return world.RectFrom(g.start.I, g.start.J, g.end.I, g.end.J)
}

func area(r world.Rect) int {
	if r.Empty() {
		return 0
	}
	return (r.MaxI - r.MinI + 1) * (r.MaxJ - r.MinJ + 1)
}
