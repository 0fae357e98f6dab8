package tools

import (
	"fmt"

	"github.com/Faultbox/isotile/internal/world"
	"github.com/Faultbox/isotile/pkg/tileset"
)

var (
	_ world.Action   = (*Painter)(nil)
	_ world.Canceler = (*Painter)(nil)
	_ world.Action   = (*Elevation)(nil)
	_ world.Action   = (*Road)(nil)
	_ world.Canceler = (*Road)(nil)
	_ world.Action   = (*Building)(nil)
	_ world.Hoverer  = (*Building)(nil)
	_ world.Detacher = (*Building)(nil)
)

// Kind selects a tool in the palette.
type Kind uint8

// Tool kinds.
const (
	KindPaint Kind = iota
	KindRaise
	KindDig
	KindRoad
	KindBuilding
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPaint:
		return "paint"
	case KindRaise:
		return "raise"
	case KindDig:
		return "dig"
	case KindRoad:
		return "road"
	case KindBuilding:
		return "building"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind parses a kind name.
func ParseKind(s string) (Kind, error) {
	for k := KindPaint; k <= KindBuilding; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}

// Params holds the tool-specific parameters.
type Params struct {
	Tile     tileset.TileID // KindPaint
	Template string         // KindBuilding
}

// New creates a tool of the given kind.
func New(m Map, kind Kind, p Params) (world.Action, error) {
	switch kind {
	case KindPaint:
		if !tileset.Valid(p.Tile) {
			return nil, fmt.Errorf("paint: %w: %d", world.ErrInvalidTile, p.Tile)
		}
		return NewPainter(m, p.Tile), nil
	case KindRaise:
		return NewRaise(m), nil
	case KindDig:
		return NewDig(m), nil
	case KindRoad:
		return NewRoad(m), nil
	case KindBuilding:
		tmpl, err := m.Templates().Lookup(p.Template)
		if err != nil {
			return nil, err
		}
		return NewBuilding(m, tmpl), nil
	}
	return nil, fmt.Errorf("unknown tool kind %d", kind)
}
