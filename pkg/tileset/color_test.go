package tileset

import (
	"image/color"
	"testing"
)

func TestColorShades(t *testing.T) {
	base := Color(Grass, ShadeBase)
	light := Color(Grass, ShadeLight)
	dark := Color(Grass, ShadeDark)

	if light.R < base.R || light.G < base.G || light.B < base.B {
		t.Errorf("light %v is not lighter than base %v", light, base)
	}
	if dark.R > base.R || dark.G > base.G || dark.B > base.B {
		t.Errorf("dark %v is not darker than base %v", dark, base)
	}
	if base.A != 0xff || light.A != 0xff || dark.A != 0xff {
		t.Error("expected opaque colors")
	}
}

func TestLightenSaturates(t *testing.T) {
	got := lighten(color.RGBA{R: 250, G: 100, B: 0, A: 255}, 20)
	want := color.RGBA{R: 255, G: 120, B: 0, A: 255}
	if got != want {
		t.Errorf("lighten = %v, want %v", got, want)
	}
}

func TestDarken(t *testing.T) {
	got := darken(color.RGBA{R: 100, G: 50, B: 5, A: 255}, 20)
	want := color.RGBA{R: 80, G: 40, B: 4, A: 255}
	if got != want {
		t.Errorf("darken = %v, want %v", got, want)
	}
}

func TestTileColorPure(t *testing.T) {
	for id := TileID(0); id < TileCount; id++ {
		a := TileColor(id)
		b := TileColor(id)
		if a != b {
			t.Errorf("TileColor(%d) not stable: %v != %v", id, a, b)
		}
	}

	if TileColor(WaterBase) != Color(Water, ShadeBase) {
		t.Error("water tiles use the base shade")
	}
	if TileColor(GrassBase+0b0100) != Color(Grass, ShadeDark) {
		t.Error("grass 0100 uses the dark shade")
	}
}
