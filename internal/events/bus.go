// Package events provides typed, synchronous message passing between the
// tile map and its collaborators (renderer, minimap, inspector, audio).
package events

import "github.com/Faultbox/isotile/pkg/tileset"

// Topic is a typed publish/subscribe channel. Handlers run synchronously, in
// subscription order, on the publisher's goroutine.
type Topic[T any] struct {
	handlers []subscriber[T]
	nextID   int
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it.
func (t *Topic[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	t.nextID++
	id := t.nextID
	t.handlers = append(t.handlers, subscriber[T]{id: id, fn: fn})
	return func() {
		for i, s := range t.handlers {
			if s.id == id {
				t.handlers = append(t.handlers[:i:i], t.handlers[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers v to every handler.
func (t *Topic[T]) Publish(v T) {
	// Handlers may unsubscribe while being called.
	handlers := t.handlers
	for _, s := range handlers {
		s.fn(v)
	}
}

// Len returns the number of handlers.
func (t *Topic[T]) Len() int {
	return len(t.handlers)
}

// TileChanged is published whenever a stored tile id changes.
type TileChanged struct {
	I, J   int
	TileID tileset.TileID
}

// PointedTile describes the hovered cell.
type PointedTile struct {
	I, J        int
	TileID      tileset.TileID
	Elevation   int
	Description string
}

// TilePointed is published when the hovered cell changes. Tile is nil when
// the pointer is over no cell.
type TilePointed struct {
	Tile *PointedTile
}

// ViewportMoved is published when the visible area of the map scrolls.
// X and Y are the map offset in pixels.
type ViewportMoved struct {
	X, Y int
}

// MinimapClicked asks the viewport to move to the given map offset.
type MinimapClicked struct {
	X, Y int
}

// ToolSelected is published after the active edit action changed.
type ToolSelected struct {
	Name string
}

// NoOp signals an edit that was rejected, such as digging below the floor.
type NoOp struct {
	Reason string
}

// PreviewMark tells how a preview cell should be highlighted.
type PreviewMark uint8

// Preview marks.
const (
	PreviewValid PreviewMark = iota
	PreviewInvalid
)

// PreviewCell is one cell of a non-committing preview overlay.
type PreviewCell struct {
	I, J int
	Mark PreviewMark
}

// PreviewChanged replaces the preview overlay. An empty Cells clears it.
type PreviewChanged struct {
	Cells []PreviewCell
}

// RegionRedraw asks for a redraw of the inclusive cell rectangle.
type RegionRedraw struct {
	MinI, MinJ, MaxI, MaxJ int
}

// CommitKind names the kind of a committed edit.
type CommitKind uint8

// Commit kinds.
const (
	CommitTiles CommitKind = iota
	CommitElevation
	CommitRoad
	CommitBuilding
)

// String returns the commit kind name.
func (k CommitKind) String() string {
	switch k {
	case CommitTiles:
		return "tiles"
	case CommitElevation:
		return "elevation"
	case CommitRoad:
		return "road"
	case CommitBuilding:
		return "building"
	default:
		return "unknown"
	}
}

// Committed is published after an edit action changed the map.
type Committed struct {
	Kind  CommitKind
	Cells int
}

// MapLoaded is published after a map replaced the tile map state.
type MapLoaded struct {
	Cols, Rows int
}

// BuildingPlaced is published when a building was put on the map.
type BuildingPlaced struct {
	ID   string
	Key  string
	I, J int
}

// Bus holds one topic per event type.
type Bus struct {
	TileChanged    Topic[TileChanged]
	TilePointed    Topic[TilePointed]
	ViewportMoved  Topic[ViewportMoved]
	MinimapClicked Topic[MinimapClicked]
	ToolSelected   Topic[ToolSelected]
	NoOp           Topic[NoOp]
	PreviewChanged Topic[PreviewChanged]
	RegionRedraw   Topic[RegionRedraw]
	Committed      Topic[Committed]
	MapLoaded      Topic[MapLoaded]
	BuildingPlaced Topic[BuildingPlaced]
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}
