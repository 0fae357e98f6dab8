package world

import (
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/Faultbox/isotile/internal/events"
	"github.com/Faultbox/isotile/pkg/tileset"
)

// newTestMap returns a loaded map. tiles may be nil for an all-grass map.
func newTestMap(t *testing.T, cols, rows int, tiles []tileset.TileID) (*Tilemap, *events.Bus) {
	t.Helper()
	bus := events.NewBus()
	m := New(DefaultConfig(), bus, zaptest.NewLogger(t))
	if tiles == nil {
		tiles = make([]tileset.TileID, cols*rows)
	}
	if err := m.Load(tiles, make([]int, (cols+1)*(rows+1)), cols, rows); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return m, bus
}

// counter counts events published on a bus.
type counter struct {
	tiles    []events.TileChanged
	noops    []events.NoOp
	redraws  []events.RegionRedraw
	loaded   int
	pointed  []events.TilePointed
	tools    []string
	previews []events.PreviewChanged
	commits  []events.Committed
}

func listen(bus *events.Bus) *counter {
	c := &counter{}
	bus.TileChanged.Subscribe(func(e events.TileChanged) { c.tiles = append(c.tiles, e) })
	bus.NoOp.Subscribe(func(e events.NoOp) { c.noops = append(c.noops, e) })
	bus.RegionRedraw.Subscribe(func(e events.RegionRedraw) { c.redraws = append(c.redraws, e) })
	bus.MapLoaded.Subscribe(func(events.MapLoaded) { c.loaded++ })
	bus.TilePointed.Subscribe(func(e events.TilePointed) { c.pointed = append(c.pointed, e) })
	bus.ToolSelected.Subscribe(func(e events.ToolSelected) { c.tools = append(c.tools, e.Name) })
	bus.PreviewChanged.Subscribe(func(e events.PreviewChanged) { c.previews = append(c.previews, e) })
	bus.Committed.Subscribe(func(e events.Committed) { c.commits = append(c.commits, e) })
	return c
}

func TestLoadPublishesEveryCell(t *testing.T) {
	bus := events.NewBus()
	c := listen(bus)
	m := New(DefaultConfig(), bus, zaptest.NewLogger(t))

	if err := m.Load(make([]tileset.TileID, 6), make([]int, 12), 3, 2); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if c.loaded != 1 {
		t.Errorf("expected 1 MapLoaded, got %d", c.loaded)
	}
	if len(c.tiles) != 6 {
		t.Errorf("expected 6 TileChanged, got %d", len(c.tiles))
	}
	if m.Cols() != 3 || m.Rows() != 2 {
		t.Errorf("size = %dx%d, want 3x2", m.Cols(), m.Rows())
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name       string
		tiles      []tileset.TileID
		vertices   []int
		cols, rows int
		want       error
	}{
		{"tile count", make([]tileset.TileID, 3), make([]int, 9), 2, 2, ErrDimensionMismatch},
		{"vertex count", make([]tileset.TileID, 4), make([]int, 4), 2, 2, ErrDimensionMismatch},
		{"zero size", nil, nil, 0, 0, ErrDimensionMismatch},
		{"tile id", []tileset.TileID{0, 0, 0, 93}, make([]int, 9), 2, 2, ErrInvalidTile},
		{"negative id", []tileset.TileID{-1, 0, 0, 0}, make([]int, 9), 2, 2, ErrInvalidTile},
		{"cliff", make([]tileset.TileID, 4), []int{0, 0, 0, 0, 2, 0, 0, 0, 0}, 2, 2, ErrInvalidElevation},
		{"too high", make([]tileset.TileID, 1), []int{16, 16, 16, 16}, 1, 1, ErrInvalidElevation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, bus := newTestMap(t, 4, 4, nil)
			c := listen(bus)

			err := m.Load(tt.tiles, tt.vertices, tt.cols, tt.rows)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Load() error = %v, want %v", err, tt.want)
			}

			// Failed loads leave the map untouched
			if m.Cols() != 4 || m.Rows() != 4 {
				t.Errorf("size changed to %dx%d", m.Cols(), m.Rows())
			}
			if len(c.tiles) != 0 || c.loaded != 0 {
				t.Errorf("events published on failed load")
			}
		})
	}
}

func TestLoadAutotilesRoads(t *testing.T) {
	road := tileset.RoadBase
	m, _ := newTestMap(t, 3, 1, []tileset.TileID{road, road, road})

	want := []tileset.TileID{
		tileset.RoadNeighbors[0b0100],
		tileset.RoadNeighbors[0b0101],
		tileset.RoadNeighbors[0b0001],
	}
	for i, id := range want {
		if got := m.TileAt(i, 0); got != id {
			t.Errorf("TileAt(%d, 0) = %d, want %d", i, got, id)
		}
	}
}

func TestWaterContinuesPastEdges(t *testing.T) {
	m, _ := newTestMap(t, 1, 1, []tileset.TileID{tileset.WaterBase + 5})
	if got := m.TileAt(0, 0); got != tileset.WaterNeighbors[0b1111] {
		t.Errorf("lone water on 1x1 map = %d, want enclosed water", got)
	}

	tiles := make([]tileset.TileID, 9)
	tiles[4] = tileset.WaterBase
	m, _ = newTestMap(t, 3, 3, tiles)
	if got := m.TileAt(1, 1); got != tileset.WaterNeighbors[0b0000] {
		t.Errorf("pond = %d, want isolated water", got)
	}
	if !m.IsWaterAt(-1, 0) || !m.IsWaterAt(3, 3) {
		t.Error("out of bounds cells count as water")
	}
	if m.IsRoadAt(-1, 0) {
		t.Error("out of bounds cells are not roads")
	}
}

func TestSetTileAtOnlyNotifiesChanges(t *testing.T) {
	m, bus := newTestMap(t, 2, 2, nil)
	c := listen(bus)

	m.SetTileAt(0, 0, tileset.GrassBase)
	if len(c.tiles) != 0 {
		t.Errorf("expected no event for unchanged tile, got %d", len(c.tiles))
	}

	m.SetTileAt(0, 0, tileset.DirtBase)
	if len(c.tiles) != 1 || c.tiles[0] != (events.TileChanged{I: 0, J: 0, TileID: tileset.DirtBase}) {
		t.Errorf("unexpected events %+v", c.tiles)
	}

	m.SetTileAt(5, 5, tileset.DirtBase)
	if len(c.tiles) != 1 {
		t.Error("out of bounds write published an event")
	}
}

func TestSetTileAtPanicsOnInvalidIntent(t *testing.T) {
	m, _ := newTestMap(t, 2, 2, nil)
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	m.SetTileAt(0, 0, 200)
}

func TestTilemapRaise(t *testing.T) {
	m, bus := newTestMap(t, 3, 3, nil)
	c := listen(bus)

	r, ok := m.Raise(1, 1)
	if !ok {
		t.Fatal("Raise rejected")
	}
	if r != (Rect{0, 0, 2, 2}) {
		t.Errorf("rect = %+v", r)
	}

	if got := m.TileAt(1, 1); got != tileset.GrassBase {
		t.Errorf("center tile = %d, want flat grass", got)
	}
	if got := m.TileAt(0, 0); got != tileset.GrassBase+0b0010 {
		t.Errorf("corner tile = %d, want grass slope 0010", got)
	}

	// Every neighbor gets a slope variant; the center stays flat.
	if len(c.tiles) != 8 {
		t.Errorf("expected 8 TileChanged, got %d", len(c.tiles))
	}
	if len(c.redraws) != 1 {
		t.Errorf("expected 1 RegionRedraw, got %d", len(c.redraws))
	}
}

func TestTilemapDigAtFloor(t *testing.T) {
	m, bus := newTestMap(t, 3, 3, nil)
	c := listen(bus)
	before := m.Field().Vertices()

	if _, ok := m.Dig(1, 1); ok {
		t.Fatal("Dig at floor accepted")
	}
	if len(c.tiles) != 0 || len(c.redraws) != 0 {
		t.Errorf("events published on rejected dig")
	}
	for i, z := range m.Field().Vertices() {
		if z != before[i] {
			t.Fatalf("vertex %d changed", i)
		}
	}
}

func TestCursorAt(t *testing.T) {
	m, _ := newTestMap(t, 3, 3, nil)
	m.Raise(1, 1)

	if got := m.CursorAt(0, 0); got != tileset.CursorS {
		t.Errorf("CursorAt(0, 0) = %s, want S", got)
	}
	if got := m.CursorAt(1, 1); got != tileset.CursorFull {
		t.Errorf("CursorAt(1, 1) = %s, want FULL", got)
	}

	m.Raise(1, 1)
	if got := m.CursorAt(0, 0); got != tileset.CursorSS {
		t.Errorf("CursorAt(0, 0) = %s, want SS", got)
	}
}

func TestCanBuild(t *testing.T) {
	tiles := make([]tileset.TileID, 9)
	tiles[8] = tileset.WaterBase
	m, _ := newTestMap(t, 3, 3, tiles)
	m.Raise(0, 0)

	tests := []struct {
		i, j       int
		build      bool
		buildRoad  bool
		constraint string
	}{
		{0, 0, true, true, "raised flat"},
		{1, 0, true, false, "slope"},
		{2, 2, false, false, "water"},
		{-1, 0, false, false, "out of bounds"},
	}
	for _, tt := range tests {
		if got := m.CanBuildAt(tt.i, tt.j); got != tt.build {
			t.Errorf("%s: CanBuildAt = %v, want %v", tt.constraint, got, tt.build)
		}
		if got := m.CanBuildRoad(tt.i, tt.j); got != tt.buildRoad {
			t.Errorf("%s: CanBuildRoad = %v, want %v", tt.constraint, got, tt.buildRoad)
		}
	}
}

func TestOutOfBoundsQueries(t *testing.T) {
	m, _ := newTestMap(t, 2, 2, nil)

	if got := m.TileAt(2, 0); got != -1 {
		t.Errorf("TileAt(2, 0) = %d, want -1", got)
	}
	if got := m.ElevationAt(0, -1, Min); got != -1 {
		t.Errorf("ElevationAt(0, -1) = %d, want -1", got)
	}
}

func TestPreviewAndNoOp(t *testing.T) {
	m, bus := newTestMap(t, 2, 2, nil)
	c := listen(bus)

	m.SetPreview([]events.PreviewCell{{I: 0, J: 0}})
	m.ClearPreview()
	m.ClearPreview()
	m.NoOp("test")

	if len(c.previews) != 2 {
		t.Errorf("expected 2 PreviewChanged, got %d", len(c.previews))
	}
	if len(c.previews[1].Cells) != 0 {
		t.Error("expected the second preview to clear")
	}
	if len(c.noops) != 1 || c.noops[0].Reason != "test" {
		t.Errorf("unexpected noops %+v", c.noops)
	}
}
