package world

import (
	"fmt"

	"github.com/Faultbox/isotile/pkg/tileset"
)

// state is the data replaced as a whole by a load.
type state struct {
	cols, rows int
	tiles      []tileset.TileID
	field      *Field

	// occupant holds, per cell, the index of the covering building plus one.
	occupant  []int
	buildings []Building
}

func emptyState() *state {
	return &state{field: NewField(0, 0)}
}

// newState validates load input and builds a state from copies of it.
func newState(tiles []tileset.TileID, vertices []int, cols, rows int) (*state, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: map size %dx%d", ErrDimensionMismatch, cols, rows)
	}
	if len(tiles) != cols*rows {
		return nil, fmt.Errorf("%w: %d tiles, want %d", ErrDimensionMismatch, len(tiles), cols*rows)
	}
	for idx, id := range tiles {
		if !tileset.Valid(id) {
			return nil, fmt.Errorf("%w: %d at (%d, %d)", ErrInvalidTile, id, idx%cols, idx/cols)
		}
	}

	field, err := FieldFrom(cols, rows, vertices)
	if err != nil {
		return nil, err
	}
	if err := field.Valid(); err != nil {
		return nil, err
	}

	st := &state{
		cols:     cols,
		rows:     rows,
		tiles:    make([]tileset.TileID, len(tiles)),
		field:    field,
		occupant: make([]int, len(tiles)),
	}
	copy(st.tiles, tiles)
	return st, nil
}

func (s *state) inBounds(i, j int) bool {
	return i >= 0 && j >= 0 && i < s.cols && j < s.rows
}

func (s *state) index(i, j int) int {
	return j*s.cols + i
}

func (s *state) canBuildAt(i, j int) bool {
	if !s.inBounds(i, j) {
		return false
	}
	idx := s.index(i, j)
	return tileset.IsConstructible(s.tiles[idx]) && s.occupant[idx] == 0
}

// canPlace checks that every cell of the footprint is buildable, flat and
// at one elevation.
func (s *state) canPlace(tmpl tileset.Template, si, sj int) bool {
	elevation := s.field.ElevationAt(si, sj, Min)
	for i := si; i < si+tmpl.Width; i++ {
		for j := sj; j < sj+tmpl.Height; j++ {
			if !s.canBuildAt(i, j) {
				return false
			}
			if !s.field.IsFlat(i, j) || s.field.ElevationAt(i, j, Min) != elevation {
				return false
			}
		}
	}
	return true
}

func (s *state) place(b Building) {
	s.buildings = append(s.buildings, b)
	n := len(s.buildings)
	for i := b.I; i < b.I+b.Width; i++ {
		for j := b.J; j < b.J+b.Height; j++ {
			s.occupant[s.index(i, j)] = n
		}
	}
}
