package mapgen

import (
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/Faultbox/isotile/internal/events"
	"github.com/Faultbox/isotile/internal/world"
	"github.com/Faultbox/isotile/pkg/tileset"
)

func testConfig(seed int64) Config {
	cfg := DefaultConfig()
	cfg.Size = 40
	cfg.Scale = 8
	cfg.Seed = seed
	return cfg
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(testConfig(42))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(testConfig(42))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different maps")
	}
}

func TestNoiseDependsOnSeed(t *testing.T) {
	a := noise{cfg: testConfig(1)}
	b := noise{cfg: testConfig(2)}
	same := 0
	for i := 0; i < 50; i++ {
		if a.at(float64(i)*1.7, float64(i)*0.9) == b.at(float64(i)*1.7, float64(i)*0.9) {
			same++
		}
	}
	if same == 50 {
		t.Fatal("noise does not depend on the seed")
	}
}

func TestNoiseRange(t *testing.T) {
	g := noise{cfg: testConfig(7)}
	for x := 0; x < 60; x++ {
		for y := 0; y < 60; y++ {
			if n := g.at(float64(x)/3, float64(y)/5); n < 0 || n > 1 {
				t.Fatalf("noise at (%d, %d) = %g, outside [0, 1]", x, y, n)
			}
		}
	}
}

func TestGenerateInvariants(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 99} {
		rec, err := Generate(testConfig(seed))
		if err != nil {
			t.Fatalf("seed %d: Generate: %v", seed, err)
		}
		size := rec.Width
		if rec.Height != size || len(rec.Tiles) != size*size || len(rec.Elevations) != (size+1)*(size+1) {
			t.Fatalf("seed %d: bad dimensions", seed)
		}

		field, err := world.FieldFrom(size, size, rec.Elevations)
		if err != nil {
			t.Fatalf("seed %d: FieldFrom: %v", seed, err)
		}
		if err := field.Valid(); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}

		for j := 0; j < size; j++ {
			for i := 0; i < size; i++ {
				id := rec.Tiles[j*size+i]
				if !tileset.Valid(id) {
					t.Fatalf("seed %d: invalid tile %d at (%d, %d)", seed, id, i, j)
				}
				if tileset.IsWater(id) && field.ElevationAt(i, j, world.Max) != 0 {
					t.Errorf("seed %d: water at (%d, %d) is not flat at 0", seed, i, j)
				}
				if tileset.IsLand(id) && tileset.SlopeOf(id).Corners != field.SlopeAt(i, j) {
					t.Errorf("seed %d: tile %d at (%d, %d) does not match slope %s", seed, id, i, j, field.SlopeAt(i, j))
				}
			}
		}
	}
}

func TestGenerateLoads(t *testing.T) {
	rec, err := Generate(testConfig(5))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	m := world.New(world.DefaultConfig(), events.NewBus(), zaptest.NewLogger(t))
	if err := m.LoadRecord(rec); err != nil {
		t.Fatalf("LoadRecord: %v", err)
	}
	if m.Cols() != rec.Width || m.Rows() != rec.Height {
		t.Fatalf("loaded %dx%d, want %dx%d", m.Cols(), m.Rows(), rec.Width, rec.Height)
	}
}

func TestGenerateInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero size", func(c *Config) { c.Size = 0 }},
		{"zero scale", func(c *Config) { c.Scale = 0 }},
		{"no octaves", func(c *Config) { c.Octaves = 0 }},
		{"persistence above one", func(c *Config) { c.Persistence = 1.5 }},
		{"lacunarity below one", func(c *Config) { c.Lacunarity = 0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if _, err := Generate(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("got %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestRelax(t *testing.T) {
	z := []int{
		9, 9, 9,
		9, 0, 9,
		9, 9, 9,
	}
	relax(z, 3)
	want := []int{
		2, 1, 2,
		1, 0, 1,
		2, 1, 2,
	}
	if !reflect.DeepEqual(z, want) {
		t.Fatalf("relax = %v, want %v", z, want)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		v, want float64
	}{
		{0, 0},
		{0.35, 0},
		{1, 15},
		{0.675, 7.5},
		{2, 15},
	}
	for _, tt := range tests {
		if got := normalize(tt.v, 0.35, 1, 0, 15); got < tt.want-1e-9 || got > tt.want+1e-9 {
			t.Errorf("normalize(%g) = %g, want %g", tt.v, got, tt.want)
		}
	}
}
