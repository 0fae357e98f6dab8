// Package iso provides the isometric (diamond grid) projection between
// tile cells and screen pixels.
package iso

// Point is a position in the screen (pixel) coordinate system.
type Point struct {
	X, Y int
}

// Cell is a position in the tile grid.
type Cell struct {
	I, J int
}

// Projection maps grid cells to pixels for a diamond grid.
// TileWidth and TileHeight are the footprint of a flat tile and must be even.
// TileThickness is the vertical pixel offset of one elevation unit.
type Projection struct {
	TileWidth     int
	TileHeight    int
	TileThickness int
	Rows          int // number of rows in the map, used to center row 0
	MaxElevation  int // highest layer scanned by PixelToCellElevated
}

// CellToPixel returns the top-left anchor of the sprite box of cell (i, j)
// drawn at the given elevation.
func (p Projection) CellToPixel(i, j, elevation int) Point {
	hw := p.TileWidth / 2
	hh := p.TileHeight / 2
	return Point{
		X: (i-j)*hw + (p.Rows-1)*hw,
		Y: (i+j)*hh - elevation*p.TileThickness,
	}
}

// Center returns the center of the top face of cell (i, j).
func (p Projection) Center(i, j, elevation int) Point {
	a := p.CellToPixel(i, j, elevation)
	return Point{X: a.X + p.TileWidth/2, Y: a.Y + p.TileHeight/2}
}

// Top returns the top vertex of the diamond of cell (i, j).
func (p Projection) Top(i, j, elevation int) Point {
	a := p.CellToPixel(i, j, elevation)
	return Point{X: a.X + p.TileWidth/2, Y: a.Y}
}

// PixelToCell inverts the projection ignoring elevation. The returned cell
// may be out of the map bounds.
func (p Projection) PixelToCell(x, y int) Cell {
	x -= p.Rows * p.TileWidth / 2
	half := floorDiv(x, 2)
	return Cell{
		I: floorDiv(y+half, p.TileHeight),
		J: floorDiv(y-half, p.TileHeight),
	}
}

// PixelToCellElevated inverts the projection for a map with elevation.
//
// Tiles at elevation N can hide tiles at elevation N-1, so layers are scanned
// from MaxElevation down to 1, moving the pointer down by one tile thickness
// per layer, and a cell is accepted when its elevation equals the layer.
// elevationOf must return -1 for out of bounds cells.
//
// ok is false when the pointer is over the vertical face of a raised tile.
func (p Projection) PixelToCellElevated(x, y int, elevationOf func(i, j int) int) (Cell, bool) {
	for layer := p.MaxElevation; layer > 0; layer-- {
		c := p.PixelToCell(x, y+layer*p.TileThickness)
		if elevationOf(c.I, c.J) == layer {
			return c, true
		}
	}

	c := p.PixelToCell(x, y)
	if elevationOf(c.I, c.J) > 0 {
		return Cell{}, false
	}
	return c, true
}

// Bounds returns the pixel size of the bounding box of a cols x Rows map.
func (p Projection) Bounds(cols int) (width, height int) {
	return (cols + p.Rows) * p.TileWidth / 2, (cols + p.Rows) * p.TileHeight / 2
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
