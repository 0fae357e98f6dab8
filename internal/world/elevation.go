package world

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"

	"github.com/Faultbox/isotile/pkg/tileset"
)

// MaxElevation is the highest elevation of a vertex.
const MaxElevation = tileset.MaxElevation

// Aggregator reduces the four corners of a cell to a single elevation.
type Aggregator uint8

// Aggregators.
const (
	Min Aggregator = iota
	Max
)

// String returns the aggregator name.
func (a Aggregator) String() string {
	if a == Max {
		return "max"
	}
	return "min"
}

// ParseAggregator parses "min" or "max".
func ParseAggregator(s string) (Aggregator, error) {
	switch s {
	case "min", "":
		return Min, nil
	case "max":
		return Max, nil
	}
	return Min, fmt.Errorf("unknown elevation aggregator %q", s)
}

// Vertex is a corner position of the elevation field.
type Vertex struct {
	I, J int
}

// Rect is an inclusive rectangle of cells.
type Rect struct {
	MinI, MinJ, MaxI, MaxJ int
}

// RectFrom returns the normalized rectangle spanning two cells.
func RectFrom(ai, aj, bi, bj int) Rect {
	return Rect{
		MinI: min(ai, bi),
		MinJ: min(aj, bj),
		MaxI: max(ai, bi),
		MaxJ: max(aj, bj),
	}
}

// Dilate grows the rectangle by n cells on every side.
func (r Rect) Dilate(n int) Rect {
	return Rect{r.MinI - n, r.MinJ - n, r.MaxI + n, r.MaxJ + n}
}

// Clamp restricts the rectangle to a cols x rows grid.
func (r Rect) Clamp(cols, rows int) Rect {
	return Rect{
		MinI: max(r.MinI, 0),
		MinJ: max(r.MinJ, 0),
		MaxI: min(r.MaxI, cols-1),
		MaxJ: min(r.MaxJ, rows-1),
	}
}

// Empty reports whether the rectangle holds no cell.
func (r Rect) Empty() bool {
	return r.MinI > r.MaxI || r.MinJ > r.MaxJ
}

// Contains reports whether cell (i, j) is inside the rectangle.
func (r Rect) Contains(i, j int) bool {
	return i >= r.MinI && i <= r.MaxI && j >= r.MinJ && j <= r.MaxJ
}

// Field is the per-vertex elevation grid of a cols x rows map. It holds
// (cols+1) x (rows+1) vertices. Adjacent vertices never differ by more
// than one unit.
type Field struct {
	cols, rows int
	z          []int
}

// NewField returns a flat field at elevation 0.
func NewField(cols, rows int) *Field {
	return &Field{
		cols: cols,
		rows: rows,
		z:    make([]int, (cols+1)*(rows+1)),
	}
}

// FieldFrom builds a field from a row-major vertex slice. The slice is
// copied. The result is not validated, see Valid.
func FieldFrom(cols, rows int, vertices []int) (*Field, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: map size %dx%d", ErrDimensionMismatch, cols, rows)
	}
	if want := (cols + 1) * (rows + 1); len(vertices) != want {
		return nil, fmt.Errorf("%w: %d elevation vertices, want %d", ErrDimensionMismatch, len(vertices), want)
	}
	z := make([]int, len(vertices))
	copy(z, vertices)
	return &Field{cols: cols, rows: rows, z: z}, nil
}

// Cols returns the number of cell columns.
func (f *Field) Cols() int { return f.cols }

// Rows returns the number of cell rows.
func (f *Field) Rows() int { return f.rows }

// Vertices returns a copy of the row-major vertex grid.
func (f *Field) Vertices() []int {
	out := make([]int, len(f.z))
	copy(out, f.z)
	return out
}

func (f *Field) vertexIndex(vi, vj int) int {
	if vi < 0 || vj < 0 || vi > f.cols || vj > f.rows {
		return -1
	}
	return vj*(f.cols+1) + vi
}

// VertexAt returns the elevation of a vertex, or -1 out of bounds.
func (f *Field) VertexAt(vi, vj int) int {
	idx := f.vertexIndex(vi, vj)
	if idx < 0 {
		return -1
	}
	return f.z[idx]
}

func (f *Field) inBounds(i, j int) bool {
	return i >= 0 && j >= 0 && i < f.cols && j < f.rows
}

// cornerVertices lists the corners of cell (i, j) clockwise from the top:
// up (N), right (E), down (S), left (W).
func cornerVertices(i, j int) [4]Vertex {
	return [4]Vertex{
		{i, j},
		{i + 1, j},
		{i + 1, j + 1},
		{i, j + 1},
	}
}

// Corners returns the elevations of the corners of cell (i, j) clockwise
// from the top. All values are -1 out of bounds.
func (f *Field) Corners(i, j int) [4]int {
	if !f.inBounds(i, j) {
		return [4]int{-1, -1, -1, -1}
	}
	var out [4]int
	for k, v := range cornerVertices(i, j) {
		out[k] = f.VertexAt(v.I, v.J)
	}
	return out
}

// ElevationAt returns the elevation of cell (i, j) reduced with agg, or -1
// out of bounds.
func (f *Field) ElevationAt(i, j int, agg Aggregator) int {
	if !f.inBounds(i, j) {
		return -1
	}
	c := f.Corners(i, j)
	if agg == Max {
		return max(c[0], c[1], c[2], c[3])
	}
	return min(c[0], c[1], c[2], c[3])
}

// SlopeAt returns the mask of corners strictly above the lowest corner.
func (f *Field) SlopeAt(i, j int) tileset.Mask {
	if !f.inBounds(i, j) {
		return 0
	}
	c := f.Corners(i, j)
	low := min(c[0], c[1], c[2], c[3])
	return tileset.NeighborMask(c[0] > low, c[1] > low, c[2] > low, c[3] > low)
}

// IsFlat reports whether all corners of cell (i, j) share one elevation.
func (f *Field) IsFlat(i, j int) bool {
	return f.inBounds(i, j) && f.SlopeAt(i, j) == 0
}

// IsSteep reports whether the corners of cell (i, j) span more than one unit.
func (f *Field) IsSteep(i, j int) bool {
	return f.inBounds(i, j) && f.ElevationAt(i, j, Max)-f.ElevationAt(i, j, Min) > 1
}

// Raise lifts the low corners of cell (i, j) to one above its lowest corner,
// then raises surrounding vertices until no adjacent pair differs by more
// than one. It returns the cells whose corners changed. ok is false, and
// nothing changes, when the cell is out of bounds or already at the top.
func (f *Field) Raise(i, j int) (Rect, bool) {
	if !f.inBounds(i, j) {
		return Rect{}, false
	}
	low := f.ElevationAt(i, j, Min)
	if low >= MaxElevation {
		return Rect{}, false
	}
	return f.apply(i, j, low+1, 1), true
}

// Dig lowers the high corners of cell (i, j) to one below its highest
// corner, then lowers surrounding vertices until no adjacent pair differs by
// more than one. ok is false, and nothing changes, when the cell is out of
// bounds or already at the floor.
func (f *Field) Dig(i, j int) (Rect, bool) {
	if !f.inBounds(i, j) {
		return Rect{}, false
	}
	high := f.ElevationAt(i, j, Max)
	if high <= 0 {
		return Rect{}, false
	}
	return f.apply(i, j, high-1, -1), true
}

// apply moves the corners of (i, j) toward target and propagates with a
// worklist. Vertices only ever move in the direction of sign, and stay in
// [0, MaxElevation], so the loop terminates.
func (f *Field) apply(i, j, target, sign int) Rect {
	touched := mapset.New[Vertex]()
	work := queue.New[Vertex]()

	for _, v := range cornerVertices(i, j) {
		idx := f.vertexIndex(v.I, v.J)
		if sign > 0 && f.z[idx] < target || sign < 0 && f.z[idx] > target {
			f.z[idx] = target
			touched.Put(v)
			work.Enqueue(v)
		}
	}

	neighbors := [4]Vertex{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	for !work.Empty() {
		v := work.Dequeue()
		z := f.z[f.vertexIndex(v.I, v.J)]
		for _, d := range neighbors {
			n := Vertex{v.I + d.I, v.J + d.J}
			idx := f.vertexIndex(n.I, n.J)
			if idx < 0 {
				continue
			}
			switch {
			case sign > 0 && z-f.z[idx] > 1:
				f.z[idx] = z - 1
			case sign < 0 && f.z[idx]-z > 1:
				f.z[idx] = z + 1
			default:
				continue
			}
			touched.Put(n)
			work.Enqueue(n)
		}
	}

	return f.cellsAround(touched)
}

// cellsAround converts a set of vertices to the rectangle of cells having
// one of them as a corner.
func (f *Field) cellsAround(vertices mapset.Set[Vertex]) Rect {
	if vertices.Size() == 0 {
		return Rect{0, 0, -1, -1}
	}
	r := Rect{MinI: f.cols, MinJ: f.rows, MaxI: -1, MaxJ: -1}
	vertices.Each(func(v Vertex) {
		r.MinI = min(r.MinI, v.I-1)
		r.MinJ = min(r.MinJ, v.J-1)
		r.MaxI = max(r.MaxI, v.I)
		r.MaxJ = max(r.MaxJ, v.J)
	})
	return r.Clamp(f.cols, f.rows)
}

// Valid checks vertex ranges and the no-cliff rule.
func (f *Field) Valid() error {
	for vj := 0; vj <= f.rows; vj++ {
		for vi := 0; vi <= f.cols; vi++ {
			z := f.VertexAt(vi, vj)
			if z < 0 || z > MaxElevation {
				return fmt.Errorf("%w: vertex (%d, %d) at %d", ErrInvalidElevation, vi, vj, z)
			}
			if vi < f.cols {
				if d := f.VertexAt(vi+1, vj) - z; d > 1 || d < -1 {
					return fmt.Errorf("%w: cliff between (%d, %d) and (%d, %d)", ErrInvalidElevation, vi, vj, vi+1, vj)
				}
			}
			if vj < f.rows {
				if d := f.VertexAt(vi, vj+1) - z; d > 1 || d < -1 {
					return fmt.Errorf("%w: cliff between (%d, %d) and (%d, %d)", ErrInvalidElevation, vi, vj, vi, vj+1)
				}
			}
		}
	}
	return nil
}
