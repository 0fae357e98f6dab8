package world

import "github.com/Faultbox/isotile/pkg/tileset"

// SetRoadAt puts the road variant connecting with the neighboring roads.
func (m *Tilemap) SetRoadAt(i, j int) {
	m.setSmartTile(i, j, m.IsRoadAt, &tileset.RoadNeighbors, true)
}

// setSmartTile picks the tile of table matching which of the four
// neighbors satisfy is, tested clockwise from up.
func (m *Tilemap) setSmartTile(i, j int, is func(i, j int) bool, table *[tileset.MaskCount]tileset.TileID, notify bool) bool {
	mask := tileset.NeighborMask(
		is(i, j-1),
		is(i+1, j),
		is(i, j+1),
		is(i-1, j),
	)
	return m.setTile(i, j, table[mask], notify)
}

// PutSpecialTiles re-autotiles the cells of r: water and road cells get
// their connectivity variant, land cells their slope variant.
func (m *Tilemap) PutSpecialTiles(r Rect) {
	m.autotile(r, true)
}

func (m *Tilemap) autotile(r Rect, notify bool) int {
	r = r.Clamp(m.cols, m.rows)
	changed := 0
	for j := r.MinJ; j <= r.MaxJ; j++ {
		for i := r.MinI; i <= r.MaxI; i++ {
			id := m.tiles[m.index(i, j)]
			var ok bool
			switch {
			case tileset.IsWater(id):
				ok = m.setSmartTile(i, j, m.IsWaterAt, &tileset.WaterNeighbors, notify)
			case tileset.IsRoad(id):
				ok = m.setSmartTile(i, j, m.IsRoadAt, &tileset.RoadNeighbors, notify)
			default:
				ok = m.setTile(i, j, id, notify)
			}
			if ok {
				changed++
			}
		}
	}
	return changed
}

// CursorAt returns the cursor shape for cell (i, j). Higher neighbors drawn
// in front of the cell cut the cursor.
func (m *Tilemap) CursorAt(i, j int) tileset.Cursor {
	z := m.field.ElevationAt(i, j, Min)
	west := m.field.ElevationAt(i, j+1, Min)
	east := m.field.ElevationAt(i+1, j, Min)
	south := m.field.ElevationAt(i+1, j+1, Min)
	return tileset.Cursors[tileset.OcclusionMask(east > z, south > z, west > z, south > z+1)]
}
