// Package terrain builds the colored diamond meshes the renderer draws.
package terrain

// Vertex is a mesh vertex in map pixel space.
type Vertex struct {
	Position [2]float32
	Color    [4]float32
}

// Mesh holds triangles ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Bounds holds the pixel bounding box of a mesh.
type Bounds struct {
	Min [2]float32
	Max [2]float32
}

// Empty reports whether the mesh has no triangles.
func (m *Mesh) Empty() bool {
	return m == nil || len(m.Indices) == 0
}

func emptyBounds() Bounds {
	return Bounds{
		Min: [2]float32{1e10, 1e10},
		Max: [2]float32{-1e10, -1e10},
	}
}

func (b *Bounds) extend(p [2]float32) {
	for k := 0; k < 2; k++ {
		if p[k] < b.Min[k] {
			b.Min[k] = p[k]
		}
		if p[k] > b.Max[k] {
			b.Max[k] = p[k]
		}
	}
}
