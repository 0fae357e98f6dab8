// Package tileset is the catalog of tile identifiers used by the tile map.
//
// A tile id encodes either a land category with its slope variant, or a
// water/road tile with its connectivity variant. The catalog maps 4-bit
// neighbor masks to ids and classifies ids. It is pure: no textures, no I/O.
package tileset

import (
	"fmt"
	"strings"
)

// MaxElevation is the highest elevation of a vertex.
const MaxElevation = 15

// TileID identifies a tile variant in the catalog.
type TileID int

// Category bases. Land ids are base + slope mask.
const (
	GrassBase TileID = 0
	DirtBase  TileID = 16
	SandBase  TileID = 32
	WaterBase TileID = 48
	RoadBase  TileID = 64

	// TileCount is the number of ids in the catalog.
	TileCount = 80
)

// Category is the terrain kind of a tile.
type Category uint8

// Category constants.
const (
	Grass Category = iota
	Dirt
	Sand
	Water
	Road
)

// String returns the lowercase category name.
func (c Category) String() string {
	switch c {
	case Grass:
		return "grass"
	case Dirt:
		return "dirt"
	case Sand:
		return "sand"
	case Water:
		return "water"
	case Road:
		return "road"
	default:
		return fmt.Sprintf("category(%d)", uint8(c))
	}
}

// Base returns the first id of the category.
func (c Category) Base() TileID {
	return TileID(c) * MaskCount
}

// ParseCategory parses a category name as returned by String.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(s) {
	case "grass":
		return Grass, nil
	case "dirt":
		return Dirt, nil
	case "sand":
		return Sand, nil
	case "water":
		return Water, nil
	case "road":
		return Road, nil
	}
	return 0, fmt.Errorf("unknown tile category %q", s)
}

// Mask is a 4-bit pattern over the neighbors (or corners) of a cell, in the
// clockwise order up, right, down, left. Bit 3 is up and bit 0 is left.
type Mask uint8

// Mask bits.
const (
	MaskUp    Mask = 1 << 3
	MaskRight Mask = 1 << 2
	MaskDown  Mask = 1 << 1
	MaskLeft  Mask = 1 << 0

	// MaskCount is the number of distinct masks.
	MaskCount = 16
)

// NeighborMask builds a mask from the four clockwise flags.
// Every call site computing connectivity goes through this function so the
// bit order stays consistent.
func NeighborMask(up, right, down, left bool) Mask {
	var m Mask
	if up {
		m |= MaskUp
	}
	if right {
		m |= MaskRight
	}
	if down {
		m |= MaskDown
	}
	if left {
		m |= MaskLeft
	}
	return m
}

// Has reports whether all bits of b are set.
func (m Mask) Has(b Mask) bool {
	return m&b == b
}

// String returns the mask as four binary digits, up first ("1001").
func (m Mask) String() string {
	return fmt.Sprintf("%04b", uint8(m&0xF))
}

// RoadNeighbors maps a road connectivity mask to its road tile.
var RoadNeighbors = [MaskCount]TileID{
	0b0101: 64,
	0b1010: 65,
	0b0000: 66,
	0b1111: 67,
	0b0110: 68,
	0b1001: 69,
	0b0011: 70,
	0b1100: 71,
	0b0111: 72,
	0b1110: 73,
	0b1101: 74,
	0b1011: 75,
	0b0001: 76,
	0b1000: 77,
	0b0100: 78,
	0b0010: 79,
}

// WaterNeighbors maps a water connectivity mask to its water tile.
var WaterNeighbors = [MaskCount]TileID{
	0b1111: 48,
	0b0000: 49,
	0b0101: 50,
	0b1010: 51,
	0b1110: 52,
	0b0111: 53,
	0b1101: 54,
	0b1011: 55,
	0b1100: 56,
	0b0011: 57,
	0b0110: 58,
	0b1001: 59,
	0b0100: 60,
	0b0010: 61,
	0b1000: 62,
	0b0001: 63,
}

// Slope describes a land variant: which corners are above the lowest one
// and how the face is shaded.
type Slope struct {
	Corners Mask
	Shade   Shade
}

// Slopes maps the mask of raised corners to its slope. Faces descending
// toward +i catch the light.
var Slopes = [MaskCount]Slope{
	0b0000: {0b0000, ShadeBase},
	0b0001: {0b0001, ShadeLight},
	0b0010: {0b0010, ShadeDark},
	0b0011: {0b0011, ShadeBase},
	0b0100: {0b0100, ShadeDark},
	0b0101: {0b0101, ShadeBase},
	0b0110: {0b0110, ShadeDark},
	0b0111: {0b0111, ShadeDark},
	0b1000: {0b1000, ShadeLight},
	0b1001: {0b1001, ShadeLight},
	0b1010: {0b1010, ShadeBase},
	0b1011: {0b1011, ShadeLight},
	0b1100: {0b1100, ShadeBase},
	0b1101: {0b1101, ShadeLight},
	0b1110: {0b1110, ShadeDark},
	0b1111: {0b1111, ShadeBase},
}

// Cursor is the shape of the hover highlight. Shapes are cut so that the
// highlight never covers a higher neighbor drawn in front of the cell.
type Cursor uint8

// Cursor shapes.
const (
	CursorFull Cursor = iota
	CursorE
	CursorW
	CursorES
	CursorSW
	CursorS
	CursorEW
	CursorSS
)

// String returns the cursor shape name.
func (c Cursor) String() string {
	names := [...]string{"FULL", "E", "W", "ES", "SW", "S", "EW", "SS"}
	if int(c) < len(names) {
		return names[c]
	}
	return fmt.Sprintf("cursor(%d)", uint8(c))
}

// OcclusionMask builds the key of the Cursors table. east, south and west
// flag a higher neighbor on that side; southTwice flags a south neighbor at
// least two units higher.
func OcclusionMask(east, south, west, southTwice bool) Mask {
	return NeighborMask(southTwice, east, south, west)
}

// Cursors maps an occlusion mask to the cursor shape.
var Cursors = [MaskCount]Cursor{
	0b0000: CursorFull,
	0b0001: CursorW,
	0b0010: CursorS,
	0b0011: CursorSW,
	0b0100: CursorE,
	0b0101: CursorEW,
	0b0110: CursorES,
	0b0111: CursorEW,
	0b1000: CursorSS,
	0b1001: CursorSS,
	0b1010: CursorSS,
	0b1011: CursorSS,
	0b1100: CursorSS,
	0b1101: CursorSS,
	0b1110: CursorSS,
	0b1111: CursorSS,
}

// Reverse lookups for connectivity ids.
var (
	roadMasks  [MaskCount]Mask
	waterMasks [MaskCount]Mask
)

func init() {
	for m := Mask(0); m < MaskCount; m++ {
		roadMasks[RoadNeighbors[m]-RoadBase] = m
		waterMasks[WaterNeighbors[m]-WaterBase] = m
	}
}

// check panics when id is outside the catalog. Such an id means the grid and
// the catalog are out of sync.
func check(id TileID) {
	if id < 0 || id >= TileCount {
		panic(fmt.Sprintf("tileset: tile id %d out of catalog range", id))
	}
}

// Valid reports whether id belongs to the catalog.
func Valid(id TileID) bool {
	return id >= 0 && id < TileCount
}

// CategoryOf returns the category of id.
func CategoryOf(id TileID) Category {
	check(id)
	return Category(id / MaskCount)
}

// IsRoad reports whether id is one of the road connectivity tiles.
func IsRoad(id TileID) bool {
	check(id)
	return id >= RoadBase
}

// IsWater reports whether id is one of the water connectivity tiles.
func IsWater(id TileID) bool {
	check(id)
	return id >= WaterBase && id < RoadBase
}

// IsLand reports whether id is grass, dirt or sand.
func IsLand(id TileID) bool {
	check(id)
	return id < WaterBase
}

// IsConstructible reports whether roads or buildings may be put on id.
func IsConstructible(id TileID) bool {
	return !IsRoad(id) && !IsWater(id)
}

// SlopeOf returns the slope variant of a land tile. Water and road tiles
// are always flat.
func SlopeOf(id TileID) Slope {
	if !IsLand(id) {
		return Slopes[0]
	}
	return Slopes[id%MaskCount]
}

// Connections returns the connectivity mask of a road or water tile, and
// zero for land.
func Connections(id TileID) Mask {
	switch {
	case IsRoad(id):
		return roadMasks[id-RoadBase]
	case IsWater(id):
		return waterMasks[id-WaterBase]
	}
	return 0
}

// Describe returns a short human-readable name of id.
func Describe(id TileID) string {
	return CategoryOf(id).String()
}

// Elevated returns the tile stored for intent on a cell with the given
// slope. Land intents resolve to their category base plus the slope;
// water and road intents are returned unchanged.
func Elevated(intent TileID, slope Mask) TileID {
	if !IsLand(intent) {
		return intent
	}
	return CategoryOf(intent).Base() + TileID(slope&0xF)
}
