// Package world holds the editable tile map: the tile grid, its elevation
// field, the placed buildings and the routing of pointer input to the active
// edit action.
package world

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/isotile/internal/events"
	"github.com/Faultbox/isotile/pkg/iso"
	"github.com/Faultbox/isotile/pkg/tileset"
)

// Load errors.
var (
	ErrDimensionMismatch = errors.New("map dimension mismatch")
	ErrInvalidTile       = errors.New("invalid tile id")
	ErrInvalidElevation  = errors.New("invalid elevation")
	ErrInvalidBuilding   = errors.New("invalid building")
	ErrNotBuildable      = errors.New("cannot build here")
)

// Config holds the tile geometry and picking settings.
type Config struct {
	TileWidth     int
	TileHeight    int
	TileThickness int

	// Occlusion is the aggregator used to match cells while picking.
	Occlusion Aggregator

	// Templates resolves building keys. DefaultRegistry is used when nil.
	Templates *tileset.Templates
}

// DefaultConfig returns the geometry of the bundled tileset.
func DefaultConfig() Config {
	return Config{
		TileWidth:     tileset.DefaultSheet.TileWidth,
		TileHeight:    tileset.DefaultSheet.TileHeight,
		TileThickness: tileset.DefaultSheet.TileThickness,
		Occlusion:     Min,
	}
}

// Tilemap owns the tile grid and elevation field. Every visible tile id is
// written through SetTileAt; edit actions only request mutations.
type Tilemap struct {
	cfg Config
	bus *events.Bus
	log *zap.Logger

	*state

	action  Action
	pressed bool

	hovered    iso.Cell
	hasHovered bool
	pointerX   int
	pointerY   int
	hasPointer bool

	preview []events.PreviewCell
}

// New creates an empty tile map. Call Load or LoadRecord before editing.
func New(cfg Config, bus *events.Bus, log *zap.Logger) *Tilemap {
	if cfg.Templates == nil {
		cfg.Templates = tileset.DefaultRegistry()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Tilemap{
		cfg:   cfg,
		bus:   bus,
		log:   log,
		state: emptyState(),
	}
}

// Bus returns the event bus the tile map publishes on.
func (m *Tilemap) Bus() *events.Bus { return m.bus }

// Templates returns the building template registry.
func (m *Tilemap) Templates() *tileset.Templates { return m.cfg.Templates }

// Projection returns the pixel projection for the current map size.
func (m *Tilemap) Projection() iso.Projection {
	return iso.Projection{
		TileWidth:     m.cfg.TileWidth,
		TileHeight:    m.cfg.TileHeight,
		TileThickness: m.cfg.TileThickness,
		Rows:          m.rows,
		MaxElevation:  MaxElevation,
	}
}

// PixelSize returns the size of the map bounding box in pixels.
func (m *Tilemap) PixelSize() (width, height int) {
	return m.Projection().Bounds(m.cols)
}

// Headroom returns how many pixels the highest raised tile sticks out above
// the top of the PixelSize box. A flat map has none.
func (m *Tilemap) Headroom() int {
	p := m.Projection()
	top := 0
	for vj := 0; vj <= m.rows; vj++ {
		for vi := 0; vi <= m.cols; vi++ {
			z := m.field.VertexAt(vi, vj)
			top = max(top, z*p.TileThickness-(vi+vj)*p.TileHeight/2)
		}
	}
	return top
}

// CellToPixel returns the sprite anchor of cell (i, j) at its elevation.
func (m *Tilemap) CellToPixel(i, j int) iso.Point {
	return m.Projection().CellToPixel(i, j, max(0, m.field.ElevationAt(i, j, Min)))
}

// Load replaces the map with the given tiles and elevation vertices. Input
// is validated before any state changes; on error the map is untouched.
func (m *Tilemap) Load(tiles []tileset.TileID, vertices []int, cols, rows int) error {
	st, err := newState(tiles, vertices, cols, rows)
	if err != nil {
		return err
	}
	m.replace(st)
	return nil
}

// replace installs a validated state, autotiles it and notifies listeners.
func (m *Tilemap) replace(st *state) {
	if m.action != nil {
		if d, ok := m.action.(Detacher); ok {
			d.Detach()
		}
	}
	m.state = st
	m.pressed = false
	m.hasHovered = false
	m.preview = nil

	// Full autotile pass without per-cell notifications; every cell is
	// announced below.
	m.autotile(Rect{0, 0, m.cols - 1, m.rows - 1}, false)

	m.log.Info("map loaded",
		zap.Int("cols", m.cols),
		zap.Int("rows", m.rows),
		zap.Int("buildings", len(m.buildings)))

	if m.bus == nil {
		return
	}
	m.bus.MapLoaded.Publish(events.MapLoaded{Cols: m.cols, Rows: m.rows})
	for j := 0; j < m.rows; j++ {
		for i := 0; i < m.cols; i++ {
			m.bus.TileChanged.Publish(events.TileChanged{I: i, J: j, TileID: m.tiles[m.index(i, j)]})
		}
	}
	for _, b := range m.buildings {
		m.bus.BuildingPlaced.Publish(events.BuildingPlaced{ID: b.ID, Key: b.Key, I: b.I, J: b.J})
	}
	m.bus.PreviewChanged.Publish(events.PreviewChanged{})
	m.Redraw(Rect{0, 0, m.cols - 1, m.rows - 1})
	m.RefreshPointer()
}

// Cols returns the number of columns.
func (m *Tilemap) Cols() int { return m.cols }

// Rows returns the number of rows.
func (m *Tilemap) Rows() int { return m.rows }

// Tiles returns a copy of the row-major tile grid.
func (m *Tilemap) Tiles() []tileset.TileID {
	out := make([]tileset.TileID, len(m.tiles))
	copy(out, m.tiles)
	return out
}

// Field returns the elevation field. Callers must not mutate it directly.
func (m *Tilemap) Field() *Field { return m.field }

// InBounds reports whether (i, j) is a cell of the map.
func (m *Tilemap) InBounds(i, j int) bool { return m.inBounds(i, j) }

// TileAt returns the tile id at (i, j), or -1 out of bounds.
func (m *Tilemap) TileAt(i, j int) tileset.TileID {
	if !m.inBounds(i, j) {
		return -1
	}
	return m.tiles[m.index(i, j)]
}

// ElevationAt returns the elevation of (i, j), or -1 out of bounds.
func (m *Tilemap) ElevationAt(i, j int, agg Aggregator) int {
	return m.field.ElevationAt(i, j, agg)
}

// SlopeAt returns the slope mask of (i, j).
func (m *Tilemap) SlopeAt(i, j int) tileset.Mask {
	return m.field.SlopeAt(i, j)
}

// IsRoadAt reports whether (i, j) holds a road.
func (m *Tilemap) IsRoadAt(i, j int) bool {
	return m.inBounds(i, j) && tileset.IsRoad(m.tiles[m.index(i, j)])
}

// IsWaterAt reports whether (i, j) holds water. Water continues past the map
// edges, so out of bounds cells count as water.
func (m *Tilemap) IsWaterAt(i, j int) bool {
	return !m.inBounds(i, j) || tileset.IsWater(m.tiles[m.index(i, j)])
}

// CanBuildAt reports whether (i, j) is constructible and free of buildings.
func (m *Tilemap) CanBuildAt(i, j int) bool {
	return m.canBuildAt(i, j)
}

// CanBuildRoad reports whether a road may be put on (i, j): the cell must be
// buildable and flat.
func (m *Tilemap) CanBuildRoad(i, j int) bool {
	return m.canBuildAt(i, j) && m.field.IsFlat(i, j)
}

// SetTileAt stores the elevation-adjusted variant of intent at (i, j) and
// publishes TileChanged when the stored id changes. Out of bounds writes are
// ignored. An intent outside the catalog panics.
func (m *Tilemap) SetTileAt(i, j int, intent tileset.TileID) {
	m.setTile(i, j, intent, true)
}

func (m *Tilemap) setTile(i, j int, intent tileset.TileID, notify bool) bool {
	if !tileset.Valid(intent) {
		panic(fmt.Sprintf("world: tile id %d out of catalog range", intent))
	}
	if !m.inBounds(i, j) {
		return false
	}
	id := tileset.Elevated(intent, m.field.SlopeAt(i, j))
	idx := m.index(i, j)
	if m.tiles[idx] == id {
		return false
	}
	m.tiles[idx] = id
	if notify && m.bus != nil {
		m.bus.TileChanged.Publish(events.TileChanged{I: i, J: j, TileID: id})
	}
	return true
}

// Raise raises cell (i, j), re-derives the tiles of every affected cell and
// asks for a redraw. ok is false when the cell is already at the top.
func (m *Tilemap) Raise(i, j int) (Rect, bool) {
	r, ok := m.field.Raise(i, j)
	if !ok {
		return Rect{}, false
	}
	m.afterElevation(r)
	return r, true
}

// Dig lowers cell (i, j). ok is false when the cell is already at the floor.
func (m *Tilemap) Dig(i, j int) (Rect, bool) {
	r, ok := m.field.Dig(i, j)
	if !ok {
		return Rect{}, false
	}
	m.afterElevation(r)
	return r, true
}

func (m *Tilemap) afterElevation(r Rect) {
	m.log.Debug("elevation changed",
		zap.Int("min_i", r.MinI), zap.Int("min_j", r.MinJ),
		zap.Int("max_i", r.MaxI), zap.Int("max_j", r.MaxJ))
	m.PutSpecialTiles(r)
	m.Redraw(r)
}

// Redraw asks collaborators to redraw the cells of r.
func (m *Tilemap) Redraw(r Rect) {
	r = r.Clamp(m.cols, m.rows)
	if r.Empty() || m.bus == nil {
		return
	}
	m.bus.RegionRedraw.Publish(events.RegionRedraw{MinI: r.MinI, MinJ: r.MinJ, MaxI: r.MaxI, MaxJ: r.MaxJ})
}

// SetPreview replaces the preview overlay.
func (m *Tilemap) SetPreview(cells []events.PreviewCell) {
	m.preview = cells
	if m.bus != nil {
		m.bus.PreviewChanged.Publish(events.PreviewChanged{Cells: cells})
	}
}

// ClearPreview removes the preview overlay.
func (m *Tilemap) ClearPreview() {
	if m.preview == nil {
		return
	}
	m.SetPreview(nil)
}

// Preview returns the current preview overlay.
func (m *Tilemap) Preview() []events.PreviewCell { return m.preview }

// NoOp signals a rejected edit.
func (m *Tilemap) NoOp(reason string) {
	m.log.Debug("edit rejected", zap.String("reason", reason))
	if m.bus != nil {
		m.bus.NoOp.Publish(events.NoOp{Reason: reason})
	}
}

// Commit announces a completed edit.
func (m *Tilemap) Commit(kind events.CommitKind, cells int) {
	if m.bus != nil {
		m.bus.Committed.Publish(events.Committed{Kind: kind, Cells: cells})
	}
}
