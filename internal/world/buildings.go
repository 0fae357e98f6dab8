package world

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/isotile/internal/events"
	"github.com/Faultbox/isotile/pkg/tileset"
)

// Building is a placed building instance.
type Building struct {
	ID     string
	Key    string
	I, J   int
	Width  int
	Height int
}

// Buildings returns the placed buildings in placement order.
func (m *Tilemap) Buildings() []Building {
	out := make([]Building, len(m.buildings))
	copy(out, m.buildings)
	return out
}

// BuildingAt returns the building covering (i, j).
func (m *Tilemap) BuildingAt(i, j int) (Building, bool) {
	if !m.inBounds(i, j) {
		return Building{}, false
	}
	n := m.occupant[m.index(i, j)]
	if n == 0 {
		return Building{}, false
	}
	return m.buildings[n-1], true
}

// CanPlace reports whether tmpl fits with its origin at (i, j): every
// footprint cell is in bounds, buildable and at the same elevation.
func (m *Tilemap) CanPlace(tmpl tileset.Template, i, j int) bool {
	return m.canPlace(tmpl, i, j)
}

// PlaceBuilding puts a new instance of tmpl at (i, j).
func (m *Tilemap) PlaceBuilding(tmpl tileset.Template, i, j int) (Building, error) {
	if !m.canPlace(tmpl, i, j) {
		return Building{}, fmt.Errorf("%w: %s at (%d, %d)", ErrNotBuildable, tmpl.Key, i, j)
	}

	b := Building{
		ID:     uuid.NewString(),
		Key:    tmpl.Key,
		I:      i,
		J:      j,
		Width:  tmpl.Width,
		Height: tmpl.Height,
	}
	m.place(b)

	m.log.Debug("building placed",
		zap.String("id", b.ID),
		zap.String("key", b.Key),
		zap.Int("i", i), zap.Int("j", j))
	if m.bus != nil {
		m.bus.BuildingPlaced.Publish(events.BuildingPlaced{ID: b.ID, Key: b.Key, I: i, J: j})
	}
	m.Redraw(Rect{i, j, i + b.Width - 1, j + b.Height - 1})
	return b, nil
}
