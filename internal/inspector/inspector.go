// Package inspector describes the hovered tile for display.
package inspector

import (
	"fmt"
	"strings"

	"github.com/Faultbox/isotile/internal/events"
)

// Inspector follows TilePointed and ToolSelected events.
type Inspector struct {
	tile    *events.PointedTile
	tool    string
	reason  string
	changed bool

	unsubscribe []func()
}

// New subscribes an inspector to bus.
func New(bus *events.Bus) *Inspector {
	in := &Inspector{tool: "none"}
	in.unsubscribe = []func(){
		bus.TilePointed.Subscribe(func(e events.TilePointed) {
			if e.Tile == nil {
				in.tile = nil
			} else {
				t := *e.Tile
				in.tile = &t
			}
			in.changed = true
		}),
		bus.ToolSelected.Subscribe(func(e events.ToolSelected) {
			in.tool = e.Name
			in.reason = ""
			in.changed = true
		}),
		bus.NoOp.Subscribe(func(e events.NoOp) {
			in.reason = e.Reason
			in.changed = true
		}),
		bus.Committed.Subscribe(func(events.Committed) {
			if in.reason != "" {
				in.reason = ""
				in.changed = true
			}
		}),
	}
	return in
}

// Close detaches the inspector from the bus.
func (in *Inspector) Close() {
	for _, fn := range in.unsubscribe {
		fn()
	}
	in.unsubscribe = nil
}

// Visible reports whether a tile is hovered.
func (in *Inspector) Visible() bool { return in.tile != nil }

// Tile returns the hovered tile.
func (in *Inspector) Tile() (events.PointedTile, bool) {
	if in.tile == nil {
		return events.PointedTile{}, false
	}
	return *in.tile, true
}

// Changed reports whether the text changed since the last call.
func (in *Inspector) Changed() bool {
	c := in.changed
	in.changed = false
	return c
}

// Lines returns the tile description, empty when nothing is hovered.
func (in *Inspector) Lines() []string {
	if in.tile == nil {
		return nil
	}
	t := in.tile
	return []string{
		fmt.Sprintf("Coords: i:%d; j:%d", t.I, t.J),
		fmt.Sprintf("Tile ID: %d (%s)", t.TileID, t.Description),
		fmt.Sprintf("Tile Elevation: %d", t.Elevation),
	}
}

// Title returns a one-line summary for a window title.
func (in *Inspector) Title(app string) string {
	parts := []string{app, in.tool}
	if t := in.tile; t != nil {
		parts = append(parts, fmt.Sprintf("(%d, %d) %s z=%d", t.I, t.J, t.Description, t.Elevation))
	}
	if in.reason != "" {
		parts = append(parts, in.reason)
	}
	return strings.Join(parts, " | ")
}
