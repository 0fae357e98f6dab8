package tileset

import (
	"strings"
	"testing"
)

func TestMaskString(t *testing.T) {
	tests := []struct {
		up, right, down, left bool
		want                  string
	}{
		{false, false, false, false, "0000"},
		{true, false, false, true, "1001"},
		{false, true, false, true, "0101"},
		{true, true, true, true, "1111"},
		{false, false, true, false, "0010"},
	}

	for _, tt := range tests {
		got := NeighborMask(tt.up, tt.right, tt.down, tt.left).String()
		if got != tt.want {
			t.Errorf("NeighborMask(%v, %v, %v, %v) = %s, want %s", tt.up, tt.right, tt.down, tt.left, got, tt.want)
		}
	}
}

func TestTablesComplete(t *testing.T) {
	roads := make(map[TileID]bool)
	waters := make(map[TileID]bool)

	for m := Mask(0); m < MaskCount; m++ {
		r := RoadNeighbors[m]
		if !IsRoad(r) {
			t.Errorf("RoadNeighbors[%s] = %d is not a road tile", m, r)
		}
		roads[r] = true

		w := WaterNeighbors[m]
		if !IsWater(w) {
			t.Errorf("WaterNeighbors[%s] = %d is not a water tile", m, w)
		}
		waters[w] = true

		if Slopes[m].Corners != m {
			t.Errorf("Slopes[%s].Corners = %s", m, Slopes[m].Corners)
		}
		if Cursors[m] > CursorSS {
			t.Errorf("Cursors[%s] = %d out of range", m, Cursors[m])
		}
	}

	if len(roads) != MaskCount {
		t.Errorf("road table has %d distinct tiles, want %d", len(roads), MaskCount)
	}
	if len(waters) != MaskCount {
		t.Errorf("water table has %d distinct tiles, want %d", len(waters), MaskCount)
	}
}

func TestKnownEntries(t *testing.T) {
	if got := RoadNeighbors[NeighborMask(false, true, false, true)]; got != 64 {
		t.Errorf("horizontal road = %d, want 64", got)
	}
	if got := RoadNeighbors[0]; got != 66 {
		t.Errorf("isolated road = %d, want 66", got)
	}
	if got := WaterNeighbors[0b1111]; got != 48 {
		t.Errorf("enclosed water = %d, want 48", got)
	}
	if got := WaterNeighbors[0b0001]; got != 63 {
		t.Errorf("water 0001 = %d, want 63", got)
	}
}

func TestConnectionsInvertsTables(t *testing.T) {
	for m := Mask(0); m < MaskCount; m++ {
		if got := Connections(RoadNeighbors[m]); got != m {
			t.Errorf("Connections(road %s) = %s", m, got)
		}
		if got := Connections(WaterNeighbors[m]); got != m {
			t.Errorf("Connections(water %s) = %s", m, got)
		}
	}
	if got := Connections(GrassBase + 5); got != 0 {
		t.Errorf("Connections(grass) = %s, want 0000", got)
	}
}

func TestClassification(t *testing.T) {
	tests := []struct {
		id            TileID
		road, water   bool
		constructible bool
		desc          string
	}{
		{0, false, false, true, "grass"},
		{15, false, false, true, "grass"},
		{16, false, false, true, "dirt"},
		{33, false, false, true, "sand"},
		{48, false, true, false, "water"},
		{63, false, true, false, "water"},
		{64, true, false, false, "road"},
		{79, true, false, false, "road"},
	}

	for _, tt := range tests {
		// Run twice: classification must be stable across calls.
		for range 2 {
			if got := IsRoad(tt.id); got != tt.road {
				t.Errorf("IsRoad(%d) = %v, want %v", tt.id, got, tt.road)
			}
			if got := IsWater(tt.id); got != tt.water {
				t.Errorf("IsWater(%d) = %v, want %v", tt.id, got, tt.water)
			}
			if got := IsConstructible(tt.id); got != tt.constructible {
				t.Errorf("IsConstructible(%d) = %v, want %v", tt.id, got, tt.constructible)
			}
			if got := Describe(tt.id); got != tt.desc {
				t.Errorf("Describe(%d) = %s, want %s", tt.id, got, tt.desc)
			}
		}
	}
}

func TestElevated(t *testing.T) {
	tests := []struct {
		intent TileID
		slope  Mask
		want   TileID
	}{
		{GrassBase, 0, GrassBase},
		{GrassBase, 0b0110, GrassBase + 6},
		{DirtBase + 3, 0b1000, DirtBase + 8},
		{SandBase + 9, 0, SandBase},
		{WaterBase, 0b0110, WaterBase},
		{RoadBase + 2, 0b1111, RoadBase + 2},
	}

	for _, tt := range tests {
		if got := Elevated(tt.intent, tt.slope); got != tt.want {
			t.Errorf("Elevated(%d, %s) = %d, want %d", tt.intent, tt.slope, got, tt.want)
		}
	}
}

func TestSlopeOf(t *testing.T) {
	if got := SlopeOf(GrassBase + 0b1001); got.Corners != 0b1001 || got.Shade != ShadeLight {
		t.Errorf("SlopeOf(grass 1001) = %+v", got)
	}
	if got := SlopeOf(WaterBase + 3); got.Corners != 0 || got.Shade != ShadeBase {
		t.Errorf("SlopeOf(water) = %+v, want flat", got)
	}
}

func TestCursors(t *testing.T) {
	tests := []struct {
		east, south, west, south2 bool
		want                      Cursor
	}{
		{false, false, false, false, CursorFull},
		{true, false, false, false, CursorE},
		{false, false, true, false, CursorW},
		{false, true, false, false, CursorS},
		{true, true, false, false, CursorES},
		{false, true, true, false, CursorSW},
		{true, false, true, false, CursorEW},
		{true, true, true, false, CursorEW},
		{false, true, false, true, CursorSS},
	}

	for _, tt := range tests {
		m := OcclusionMask(tt.east, tt.south, tt.west, tt.south2)
		if got := Cursors[m]; got != tt.want {
			t.Errorf("Cursors[%s] = %s, want %s", m, got, tt.want)
		}
	}
}

func TestOutOfRangePanics(t *testing.T) {
	for _, id := range []TileID{-1, TileCount, 93} {
		func() {
			defer func() {
				r := recover()
				if r == nil {
					t.Errorf("IsRoad(%d) did not panic", id)
					return
				}
				if msg, ok := r.(string); !ok || !strings.Contains(msg, "out of catalog range") {
					t.Errorf("IsRoad(%d) panic = %v", id, r)
				}
			}()
			IsRoad(id)
		}()
	}
}

func TestParseCategory(t *testing.T) {
	for c := Grass; c <= Road; c++ {
		got, err := ParseCategory(c.String())
		if err != nil || got != c {
			t.Errorf("ParseCategory(%s) = %v, %v", c, got, err)
		}
	}
	if _, err := ParseCategory("lava"); err == nil {
		t.Error("expected error for unknown category")
	}
}
