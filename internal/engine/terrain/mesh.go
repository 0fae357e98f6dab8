package terrain

import (
	"image/color"

	"github.com/Faultbox/isotile/internal/events"
	"github.com/Faultbox/isotile/internal/world"
	"github.com/Faultbox/isotile/pkg/iso"
	"github.com/Faultbox/isotile/pkg/tileset"
)

// Source is the tile map as seen by the mesh builder.
type Source interface {
	Cols() int
	Rows() int
	TileAt(i, j int) tileset.TileID
	CursorAt(i, j int) tileset.Cursor
	Field() *world.Field
	Projection() iso.Projection
}

// Overlay colors.
var (
	ValidColor    = [4]float32{1, 1, 1, 0.35}
	InvalidColor  = [4]float32{1, 0.2, 0.2, 0.45}
	HoverColor    = [4]float32{1, 1, 0.6, 0.3}
	BuildingColor = [4]float32{0.42, 0.27, 0.16, 0.9}
)

// skirtShade darkens the map edge faces.
const skirtShade = 0.6

// BuildMesh builds the terrain mesh of src. Cell (i, j) owns the four
// vertices starting at CellVertex(cols, i, j), so a region can be rebuilt in
// place with UpdateRegion. The east and south map edges get a skirt one
// elevation unit deep.
func BuildMesh(src Source) *Mesh {
	cols, rows := src.Cols(), src.Rows()
	quads := cols*rows + cols + rows
	m := &Mesh{
		Vertices: make([]Vertex, 4*quads),
		Indices:  make([]uint32, 0, 6*quads),
	}
	for q := 0; q < quads; q++ {
		base := uint32(4 * q)
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	UpdateRegion(m, src, world.Rect{MaxI: cols - 1, MaxJ: rows - 1})
	m.Bounds = emptyBounds()
	for _, v := range m.Vertices {
		m.Bounds.extend(v.Position)
	}
	return m
}

// CellVertex returns the index of the first vertex of cell (i, j).
func CellVertex(cols, i, j int) int {
	return 4 * (j*cols + i)
}

// UpdateRegion rewrites the vertices of the cells in r, and of the skirts
// along them. It returns the span of vertices touched, [first, end).
func UpdateRegion(m *Mesh, src Source, r world.Rect) (first, end int) {
	cols, rows := src.Cols(), src.Rows()
	r = r.Clamp(cols, rows)
	if r.Empty() {
		return 0, 0
	}
	p := src.Projection()
	f := src.Field()

	for j := r.MinJ; j <= r.MaxJ; j++ {
		for i := r.MinI; i <= r.MaxI; i++ {
			c := rgba(tileset.TileColor(src.TileAt(i, j)))
			writeQuad(m.Vertices[CellVertex(cols, i, j):], cellCorners(p, f, i, j), c)
		}
	}
	first = CellVertex(cols, r.MinI, r.MinJ)
	end = CellVertex(cols, r.MaxI, r.MaxJ) + 4

	skirts := 4 * cols * rows
	if r.MaxI == cols-1 {
		for j := r.MinJ; j <= r.MaxJ; j++ {
			c := shade(rgba(tileset.TileColor(src.TileAt(cols-1, j))), skirtShade)
			writeQuad(m.Vertices[skirts+4*j:], edge(p, f, cols, j, cols, j+1), c)
		}
		end = skirts + 4*(r.MaxJ+1)
	}
	if r.MaxJ == rows-1 {
		for i := r.MinI; i <= r.MaxI; i++ {
			c := shade(rgba(tileset.TileColor(src.TileAt(i, rows-1))), skirtShade)
			writeQuad(m.Vertices[skirts+4*(rows+i):], edge(p, f, i+1, rows, i, rows), c)
		}
		end = skirts + 4*(rows+r.MaxI+1)
	}
	return first, end
}

// BuildOverlay builds the translucent quads drawn over the terrain: the
// footprints of buildings, then preview cells, then the hovered cell.
func BuildOverlay(src Source, buildings []world.Building, preview []events.PreviewCell, hovered *iso.Cell) *Mesh {
	m := &Mesh{Bounds: emptyBounds()}
	p := src.Projection()
	f := src.Field()
	cols, rows := src.Cols(), src.Rows()
	in := func(i, j int) bool { return i >= 0 && j >= 0 && i < cols && j < rows }

	for _, b := range buildings {
		for i := b.I; i < b.I+b.Width; i++ {
			for j := b.J; j < b.J+b.Height; j++ {
				if in(i, j) {
					m.addQuad(cellCorners(p, f, i, j), BuildingColor)
				}
			}
		}
	}
	for _, c := range preview {
		if !in(c.I, c.J) {
			continue
		}
		col := ValidColor
		if c.Mark == events.PreviewInvalid {
			col = InvalidColor
		}
		m.addQuad(cellCorners(p, f, c.I, c.J), col)
	}
	if hovered != nil && in(hovered.I, hovered.J) {
		shape := src.CursorAt(hovered.I, hovered.J)
		m.addQuad(cursorCorners(shape, cellCorners(p, f, hovered.I, hovered.J)), HoverColor)
	}
	return m
}

func (m *Mesh) addQuad(corners [4][2]float32, c [4]float32) {
	base := uint32(len(m.Vertices))
	for _, pos := range corners {
		m.Vertices = append(m.Vertices, Vertex{Position: pos, Color: c})
		m.Bounds.extend(pos)
	}
	m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
}

// cellCorners returns the N, E, S, W corners of cell (i, j).
func cellCorners(p iso.Projection, f *world.Field, i, j int) [4][2]float32 {
	return [4][2]float32{
		vertex(p, f, i, j),
		vertex(p, f, i+1, j),
		vertex(p, f, i+1, j+1),
		vertex(p, f, i, j+1),
	}
}

// cursorCorners pulls the corners hidden by the cursor shape toward the
// middle of the cell, so the hover highlight stops short of higher
// neighbors drawn in front of it.
func cursorCorners(c tileset.Cursor, q [4][2]float32) [4][2]float32 {
	const east, south, west = 1, 2, 3
	var mid [2]float32
	for _, pos := range q {
		mid[0] += pos[0] / 4
		mid[1] += pos[1] / 4
	}
	pull := func(k int, t float32) {
		q[k][0] += (mid[0] - q[k][0]) * t
		q[k][1] += (mid[1] - q[k][1]) * t
	}

	switch c {
	case tileset.CursorE:
		pull(east, 1)
	case tileset.CursorW:
		pull(west, 1)
	case tileset.CursorS:
		pull(south, 1)
	case tileset.CursorES:
		pull(east, 1)
		pull(south, 1)
	case tileset.CursorSW:
		pull(south, 1)
		pull(west, 1)
	case tileset.CursorEW:
		pull(east, 0.5)
		pull(west, 0.5)
	case tileset.CursorSS:
		pull(south, 1)
		pull(east, 0.5)
		pull(west, 0.5)
	}
	return q
}

// edge returns the face hanging from the vertex edge a-b down to one unit
// below the floor.
func edge(p iso.Projection, f *world.Field, ai, aj, bi, bj int) [4][2]float32 {
	return [4][2]float32{
		vertex(p, f, ai, aj),
		vertex(p, f, bi, bj),
		point(p.Top(bi, bj, -1)),
		point(p.Top(ai, aj, -1)),
	}
}

func vertex(p iso.Projection, f *world.Field, vi, vj int) [2]float32 {
	return point(p.Top(vi, vj, max(0, f.VertexAt(vi, vj))))
}

func point(pt iso.Point) [2]float32 {
	return [2]float32{float32(pt.X), float32(pt.Y)}
}

func writeQuad(dst []Vertex, corners [4][2]float32, c [4]float32) {
	for k, pos := range corners {
		dst[k] = Vertex{Position: pos, Color: c}
	}
}

func rgba(c color.RGBA) [4]float32 {
	return [4]float32{
		float32(c.R) / 255.0,
		float32(c.G) / 255.0,
		float32(c.B) / 255.0,
		float32(c.A) / 255.0,
	}
}

func shade(c [4]float32, k float32) [4]float32 {
	return [4]float32{c[0] * k, c[1] * k, c[2] * k, c[3]}
}
