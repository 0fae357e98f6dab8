package world

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/isotile/internal/events"
	"github.com/Faultbox/isotile/pkg/iso"
	"github.com/Faultbox/isotile/pkg/tileset"
)

// Action is an edit tool. The tile map calls OnPress when the left button
// goes down over a cell, OnDrag each time the pressed pointer enters another
// cell and OnRelease when the button goes up.
type Action interface {
	OnPress(i, j int)
	OnDrag(i, j int)
	OnRelease()
}

// Hoverer is implemented by actions following the hovered cell.
type Hoverer interface {
	OnHover(i, j int)
}

// Canceler is implemented by actions able to discard a gesture in progress.
type Canceler interface {
	Cancel()
}

// Detacher is implemented by actions holding overlays that must go away
// when the action is replaced.
type Detacher interface {
	Detach()
}

// Button is a pointer button.
type Button uint8

// Pointer buttons.
const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// SetTool replaces the active action. A drag in progress is abandoned: the
// old action receives nothing more and the new one waits for a press.
func (m *Tilemap) SetTool(a Action) {
	if m.action != nil {
		if d, ok := m.action.(Detacher); ok {
			d.Detach()
		}
	}
	m.action = a
	m.pressed = false

	name := actionName(a)
	m.log.Debug("tool selected", zap.String("tool", name))
	if m.bus != nil {
		m.bus.ToolSelected.Publish(events.ToolSelected{Name: name})
	}

	if h, ok := a.(Hoverer); ok && m.hasHovered {
		h.OnHover(m.hovered.I, m.hovered.J)
	}
}

// Tool returns the active action.
func (m *Tilemap) Tool() Action { return m.action }

func actionName(a Action) string {
	if a == nil {
		return "none"
	}
	if s, ok := a.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", a)
}

// Hovered returns the cell under the pointer.
func (m *Tilemap) Hovered() (iso.Cell, bool) {
	return m.hovered, m.hasHovered
}

// Dragging reports whether the left button is held over the map.
func (m *Tilemap) Dragging() bool { return m.pressed }

// PointerDown handles a button press at map pixel (x, y).
func (m *Tilemap) PointerDown(x, y int, b Button) {
	m.selectAt(x, y, false)
	if b != ButtonLeft || !m.hasHovered || m.action == nil {
		return
	}
	m.pressed = true
	m.action.OnPress(m.hovered.I, m.hovered.J)
}

// PointerMove handles pointer motion at map pixel (x, y).
func (m *Tilemap) PointerMove(x, y int) {
	if m.selectAt(x, y, false) && m.pressed && m.action != nil {
		m.action.OnDrag(m.hovered.I, m.hovered.J)
	}
}

// PointerUp handles a button release at map pixel (x, y).
func (m *Tilemap) PointerUp(x, y int, b Button) {
	if b != ButtonLeft {
		return
	}
	m.selectAt(x, y, false)
	if m.pressed && m.action != nil {
		m.pressed = false
		m.action.OnRelease()
	}
	m.pressed = false
}

// Cancel discards the gesture in progress without committing it.
func (m *Tilemap) Cancel() {
	if !m.pressed {
		return
	}
	m.pressed = false
	if c, ok := m.action.(Canceler); ok {
		c.Cancel()
	}
	m.ClearPreview()
}

// RefreshPointer recomputes the hovered cell at the last pointer position.
// The map geometry changes under a still pointer after elevation edits.
func (m *Tilemap) RefreshPointer() {
	if m.hasPointer {
		m.selectAt(m.pointerX, m.pointerY, true)
	}
}

// selectAt updates the hovered cell. It returns true when a cell got newly
// hovered (or re-hovered when force is set).
func (m *Tilemap) selectAt(x, y int, force bool) bool {
	m.pointerX, m.pointerY, m.hasPointer = x, y, true

	// Raised tiles reach above the box by up to MaxElevation layers.
	p := m.Projection()
	w, h := p.Bounds(m.cols)
	if x < 0 || y < -p.MaxElevation*p.TileThickness || x >= w || y >= h {
		m.clearHover(force)
		return false
	}

	c, ok := p.PixelToCellElevated(x, y, func(i, j int) int {
		return m.field.ElevationAt(i, j, m.cfg.Occlusion)
	})
	if !ok || !m.inBounds(c.I, c.J) {
		m.clearHover(force)
		return false
	}

	if !force && m.hasHovered && c == m.hovered {
		return false
	}
	m.hovered, m.hasHovered = c, true

	if m.bus != nil {
		id := m.tiles[m.index(c.I, c.J)]
		m.bus.TilePointed.Publish(events.TilePointed{Tile: &events.PointedTile{
			I:           c.I,
			J:           c.J,
			TileID:      id,
			Elevation:   m.field.ElevationAt(c.I, c.J, Min),
			Description: tileset.Describe(id),
		}})
	}
	if hv, ok := m.action.(Hoverer); ok {
		hv.OnHover(c.I, c.J)
	}
	return true
}

func (m *Tilemap) clearHover(force bool) {
	if !m.hasHovered && !force {
		return
	}
	m.hasHovered = false
	if m.bus != nil {
		m.bus.TilePointed.Publish(events.TilePointed{})
	}
}
