package minimap

import (
	"image"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/Faultbox/isotile/internal/events"
	"github.com/Faultbox/isotile/internal/world"
	"github.com/Faultbox/isotile/pkg/tileset"
)

func loadGrass(t *testing.T, m *world.Tilemap, cols, rows int) {
	t.Helper()
	tiles := make([]tileset.TileID, cols*rows)
	if err := m.Load(tiles, make([]int, (cols+1)*(rows+1)), cols, rows); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func newTestMinimap(t *testing.T) (*world.Tilemap, *Minimap, *events.Bus) {
	t.Helper()
	bus := events.NewBus()
	m := world.New(world.DefaultConfig(), bus, zaptest.NewLogger(t))
	loadGrass(t, m, 4, 4)
	// 4x4 map is 128 pixels wide; a 64 pixel minimap halves everything.
	mm := New(m, bus, zaptest.NewLogger(t), 64, 32, 40, 20)
	t.Cleanup(mm.Close)
	return m, mm, bus
}

func TestRebuild(t *testing.T) {
	_, mm, _ := newTestMinimap(t)
	if got := mm.Image().Rect; got != image.Rect(0, 0, 4, 4) {
		t.Fatalf("image bounds = %v, want 4x4", got)
	}
	want := tileset.TileColor(tileset.GrassBase)
	if got := mm.Image().RGBAAt(3, 2); got != want {
		t.Fatalf("pixel = %v, want %v", got, want)
	}
	if mm.Ratio() != 0.5 {
		t.Fatalf("ratio = %g, want 0.5", mm.Ratio())
	}
}

func TestTileChangedRecolors(t *testing.T) {
	m, mm, _ := newTestMinimap(t)
	mm.Dirty()

	m.SetTileAt(1, 2, tileset.DirtBase)
	if got, want := mm.Image().RGBAAt(1, 2), tileset.TileColor(tileset.DirtBase); got != want {
		t.Fatalf("pixel = %v, want %v", got, want)
	}
	if !mm.Dirty() {
		t.Fatal("image not marked dirty")
	}
	if mm.Dirty() {
		t.Fatal("dirty flag not reset")
	}
}

func TestMapLoadedResizes(t *testing.T) {
	m, mm, _ := newTestMinimap(t)
	loadGrass(t, m, 6, 3)
	if got := mm.Image().Rect; got != image.Rect(0, 0, 6, 3) {
		t.Fatalf("image bounds = %v, want 6x3", got)
	}
	// (6+3)*16 pixels wide
	if mm.Ratio() != 64.0/144.0 {
		t.Fatalf("ratio = %g", mm.Ratio())
	}
}

func TestScreenViewFollowsViewport(t *testing.T) {
	_, mm, bus := newTestMinimap(t)
	if got := mm.ScreenView(); got != image.Rect(0, 0, 20, 10) {
		t.Fatalf("initial view = %v", got)
	}
	bus.ViewportMoved.Publish(events.ViewportMoved{X: 10, Y: 20})
	if got := mm.ScreenView(); got != image.Rect(5, 10, 25, 20) {
		t.Fatalf("view = %v, want (5,10)-(25,20)", got)
	}
}

func TestClickCentersView(t *testing.T) {
	_, mm, bus := newTestMinimap(t)
	var got []events.MinimapClicked
	bus.MinimapClicked.Subscribe(func(e events.MinimapClicked) { got = append(got, e) })

	mm.Click(30, 15)
	if len(got) != 1 || got[0] != (events.MinimapClicked{X: 40, Y: 20}) {
		t.Fatalf("published %v, want [{40 20}]", got)
	}
}

func TestPointerDrag(t *testing.T) {
	_, mm, bus := newTestMinimap(t)
	clicks := 0
	bus.MinimapClicked.Subscribe(func(events.MinimapClicked) { clicks++ })

	mm.PointerMove(10, 10)
	if clicks != 0 {
		t.Fatal("move without press published")
	}
	mm.PointerDown(10, 10)
	mm.PointerMove(12, 10)
	if !mm.Dragging() || clicks != 2 {
		t.Fatalf("dragging=%v clicks=%d, want true 2", mm.Dragging(), clicks)
	}
	mm.PointerUp()
	mm.PointerMove(14, 10)
	if mm.Dragging() || clicks != 2 {
		t.Fatalf("dragging=%v clicks=%d after release", mm.Dragging(), clicks)
	}
}

func TestClose(t *testing.T) {
	_, mm, bus := newTestMinimap(t)
	mm.Close()
	if n := bus.TileChanged.Len() + bus.MapLoaded.Len() + bus.ViewportMoved.Len(); n != 0 {
		t.Fatalf("%d handlers left after Close", n)
	}
}

func TestContains(t *testing.T) {
	_, mm, _ := newTestMinimap(t)
	tests := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},
		{63, 31, true},
		{64, 0, false},
		{0, 32, false},
		{-1, 5, false},
	}
	for _, tt := range tests {
		if got := mm.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
