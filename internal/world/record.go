package world

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Faultbox/isotile/pkg/tileset"
)

// Record is the persisted form of a map.
type Record struct {
	Width      int              `json:"width"`
	Height     int              `json:"height"`
	Tiles      []tileset.TileID `json:"tiles"`
	Elevations []int            `json:"elevations"`
	Buildings  []BuildingRecord `json:"buildings,omitempty"`
}

// BuildingRecord is the persisted form of a building.
type BuildingRecord struct {
	ID  string `json:"id"`
	Key string `json:"key"`
	I   int    `json:"i"`
	J   int    `json:"j"`
}

// Record snapshots the map.
func (m *Tilemap) Record() *Record {
	rec := &Record{
		Width:      m.cols,
		Height:     m.rows,
		Tiles:      m.Tiles(),
		Elevations: m.field.Vertices(),
	}
	for _, b := range m.buildings {
		rec.Buildings = append(rec.Buildings, BuildingRecord{ID: b.ID, Key: b.Key, I: b.I, J: b.J})
	}
	return rec
}

// LoadRecord replaces the map with rec. Tiles, elevations and buildings are
// all validated before the map changes.
func (m *Tilemap) LoadRecord(rec *Record) error {
	if rec == nil {
		return fmt.Errorf("%w: nil record", ErrDimensionMismatch)
	}
	st, err := newState(rec.Tiles, rec.Elevations, rec.Width, rec.Height)
	if err != nil {
		return err
	}

	for _, br := range rec.Buildings {
		tmpl, err := m.cfg.Templates.Lookup(br.Key)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidBuilding, err)
		}
		id := br.ID
		if id == "" {
			id = uuid.NewString()
		} else if _, err := uuid.Parse(id); err != nil {
			return fmt.Errorf("%w: id %q: %w", ErrInvalidBuilding, id, err)
		}
		if !st.canPlace(tmpl, br.I, br.J) {
			return fmt.Errorf("%w: %s at (%d, %d) overlaps or straddles a slope", ErrInvalidBuilding, br.Key, br.I, br.J)
		}
		st.place(Building{ID: id, Key: br.Key, I: br.I, J: br.J, Width: tmpl.Width, Height: tmpl.Height})
	}

	m.replace(st)
	return nil
}
