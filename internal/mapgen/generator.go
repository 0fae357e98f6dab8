// Package mapgen generates random maps from seeded fractal value noise.
package mapgen

import (
	"errors"
	"fmt"
	"math"

	"github.com/zyedidia/generic/queue"

	"github.com/Faultbox/isotile/internal/world"
	"github.com/Faultbox/isotile/pkg/tileset"
)

// ErrInvalidConfig is returned for a config that cannot produce a map.
var ErrInvalidConfig = errors.New("mapgen: invalid config")

// Noise bands.
const (
	WaterLevel = 0.30
	SandLevel  = 0.35
)

// Config controls the generator.
type Config struct {
	Size        int     `yaml:"size"`
	Scale       float64 `yaml:"scale"`
	Seed        int64   `yaml:"seed"`
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	Lacunarity  float64 `yaml:"lacunarity"`
}

// DefaultConfig returns a 100x100 map config.
func DefaultConfig() Config {
	return Config{
		Size:        100,
		Scale:       80,
		Seed:        1,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2,
	}
}

// Validate checks the config.
func (c Config) Validate() error {
	switch {
	case c.Size <= 0:
		return fmt.Errorf("%w: size %d", ErrInvalidConfig, c.Size)
	case c.Scale <= 0:
		return fmt.Errorf("%w: scale %g", ErrInvalidConfig, c.Scale)
	case c.Octaves <= 0:
		return fmt.Errorf("%w: octaves %d", ErrInvalidConfig, c.Octaves)
	case c.Persistence <= 0 || c.Persistence > 1:
		return fmt.Errorf("%w: persistence %g", ErrInvalidConfig, c.Persistence)
	case c.Lacunarity < 1:
		return fmt.Errorf("%w: lacunarity %g", ErrInvalidConfig, c.Lacunarity)
	}
	return nil
}

// Generate builds a Size x Size map. Cells below WaterLevel are water, cells
// below SandLevel are sand and the rest is grass whose height follows the
// noise. The same config always yields the same record.
func Generate(cfg Config) (*world.Record, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	size := cfg.Size
	g := noise{cfg: cfg}

	cats := make([]tileset.Category, size*size)
	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			n := g.at(float64(i)+0.5, float64(j)+0.5)
			switch {
			case n < WaterLevel:
				cats[j*size+i] = tileset.Water
			case n < SandLevel:
				cats[j*size+i] = tileset.Sand
			default:
				cats[j*size+i] = tileset.Grass
			}
		}
	}

	stride := size + 1
	z := make([]int, stride*stride)
	for vj := 0; vj <= size; vj++ {
		for vi := 0; vi <= size; vi++ {
			n := g.at(float64(vi), float64(vj))
			z[vj*stride+vi] = int(math.Floor(normalize(n, SandLevel, 1, 0, world.MaxElevation)))
		}
	}
	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			if cats[j*size+i] != tileset.Water {
				continue
			}
			z[j*stride+i] = 0
			z[j*stride+i+1] = 0
			z[(j+1)*stride+i] = 0
			z[(j+1)*stride+i+1] = 0
		}
	}
	relax(z, stride)

	field, err := world.FieldFrom(size, size, z)
	if err != nil {
		return nil, err
	}
	tiles := make([]tileset.TileID, size*size)
	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			tiles[j*size+i] = tileset.Elevated(cats[j*size+i].Base(), field.SlopeAt(i, j))
		}
	}

	return &world.Record{
		Width:      size,
		Height:     size,
		Tiles:      tiles,
		Elevations: field.Vertices(),
	}, nil
}

// relax lowers vertices until no two neighbours differ by more than one.
// Vertices are never raised, so flattened water stays at zero.
func relax(z []int, stride int) {
	rows := len(z) / stride
	work := queue.New[int]()
	for idx := range z {
		work.Enqueue(idx)
	}
	for !work.Empty() {
		idx := work.Dequeue()
		vi, vj := idx%stride, idx/stride
		limit := z[idx] + 1
		for _, d := range [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
			ni, nj := vi+d[0], vj+d[1]
			if ni < 0 || nj < 0 || ni >= stride || nj >= rows {
				continue
			}
			n := nj*stride + ni
			if z[n] > limit {
				z[n] = limit
				work.Enqueue(n)
			}
		}
	}
}

type noise struct {
	cfg Config
}

// at returns fractal value noise in [0, 1].
func (g noise) at(x, y float64) float64 {
	frequency := 1 / g.cfg.Scale
	amplitude := 1.0
	sum, max := 0.0, 0.0
	for o := 0; o < g.cfg.Octaves; o++ {
		sum += g.value(x*frequency, y*frequency, o) * amplitude
		max += amplitude
		amplitude *= g.cfg.Persistence
		frequency *= g.cfg.Lacunarity
	}
	return clamp(sum/max, 0, 1)
}

func (g noise) value(x, y float64, octave int) float64 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	sx := smooth(x - float64(x0))
	sy := smooth(y - float64(y0))

	seed := int(g.cfg.Seed) + octave*7919
	top := lerp(random2D(x0, y0, seed), random2D(x0+1, y0, seed), sx)
	bottom := lerp(random2D(x0, y0+1, seed), random2D(x0+1, y0+1, seed), sx)
	return lerp(top, bottom, sy)
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// random2D returns a lattice value in [0, 1].
func random2D(x, y, seed int) float64 {
	return float64(hash3(x, y, seed)&0xFFFF) / 0xFFFF
}

func hash3(x, y, z int) uint32 {
	h := uint32(x*374761393 + y*668265263 + z*2147483647)
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalize maps v from [vmin, vmax] to [min, max], clamping first.
func normalize(v, vmin, vmax, min, max float64) float64 {
	v = clamp(v, vmin, vmax)
	return (v-vmin)/(vmax-vmin)*(max-min) + min
}
