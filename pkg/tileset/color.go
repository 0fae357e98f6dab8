package tileset

import "image/color"

// Shade is the lighting variant of a tile face.
type Shade uint8

// Shade constants.
const (
	ShadeBase Shade = iota
	ShadeLight
	ShadeDark
)

// String returns the shade name.
func (s Shade) String() string {
	switch s {
	case ShadeLight:
		return "light"
	case ShadeDark:
		return "dark"
	default:
		return "base"
	}
}

// Base colors per category, as seen on the minimap.
var baseColors = [...]color.RGBA{
	Grass: {R: 0x5d, G: 0x9b, B: 0x3a, A: 0xff},
	Dirt:  {R: 0x8a, G: 0x62, B: 0x3c, A: 0xff},
	Sand:  {R: 0xdc, G: 0xc8, B: 0x82, A: 0xff},
	Water: {R: 0x3b, G: 0x74, B: 0xc6, A: 0xff},
	Road:  {R: 0x7c, G: 0x7c, B: 0x80, A: 0xff},
}

// Shade multipliers, in percent.
const (
	lightenPercent = 20
	darkenPercent  = 20
)

// Color returns the color of a category under a shade.
func Color(c Category, s Shade) color.RGBA {
	if int(c) >= len(baseColors) {
		return color.RGBA{A: 0xff}
	}
	base := baseColors[c]
	switch s {
	case ShadeLight:
		return lighten(base, lightenPercent)
	case ShadeDark:
		return darken(base, darkenPercent)
	default:
		return base
	}
}

// TileColor returns the minimap color of id.
func TileColor(id TileID) color.RGBA {
	return Color(CategoryOf(id), SlopeOf(id).Shade)
}

func darken(c color.RGBA, percent int) color.RGBA {
	scale := func(v uint8) uint8 {
		return uint8(int(v) * (100 - percent) / 100)
	}
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

// lighten scales each channel up and saturates at 255.
func lighten(c color.RGBA, percent int) color.RGBA {
	scale := func(v uint8) uint8 {
		return uint8(min(255, int(v)*(100+percent)/100))
	}
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}
