package tools

import "github.com/Faultbox/isotile/internal/events"

// Elevation raises (Sign > 0) or digs (Sign < 0) every cell the pressed
// pointer goes through. Each cell is committed immediately.
type Elevation struct {
	m    Map
	sign int
	g    gesture
}

// NewRaise returns a raising elevation tool.
func NewRaise(m Map) *Elevation {
	return &Elevation{m: m, sign: 1}
}

// NewDig returns a digging elevation tool.
func NewDig(m Map) *Elevation {
	return &Elevation{m: m, sign: -1}
}

// String returns the tool name.
func (e *Elevation) String() string {
	if e.sign > 0 {
		return "raise"
	}
	return "dig"
}

// Phase returns the gesture phase.
func (e *Elevation) Phase() Phase { return e.g.phase }

// OnPress applies the elevation change at (i, j).
func (e *Elevation) OnPress(i, j int) {
	e.g.press(i, j)
	e.apply(i, j)
}

// OnDrag applies the elevation change at (i, j).
func (e *Elevation) OnDrag(i, j int) {
	if e.g.drag(i, j) {
		e.apply(i, j)
	}
}

// OnRelease ends the gesture.
func (e *Elevation) OnRelease() {
	e.g.release()
}

func (e *Elevation) apply(i, j int) {
	var ok bool
	var cells int
	if e.sign > 0 {
		r, raised := e.m.Raise(i, j)
		ok, cells = raised, area(r)
	} else {
		r, dug := e.m.Dig(i, j)
		ok, cells = dug, area(r)
	}

	if !ok {
		if e.sign > 0 {
			e.m.NoOp("elevation ceiling reached")
		} else {
			e.m.NoOp("elevation floor reached")
		}
		return
	}
	e.m.Commit(events.CommitElevation, cells)

	// The geometry under the pointer changed; the hovered cell may differ.
	e.m.RefreshPointer()
}
