package world

import (
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/Faultbox/isotile/internal/events"
	"github.com/Faultbox/isotile/pkg/tileset"
)

func TestRecordRoundTrip(t *testing.T) {
	m, _ := newTestMap(t, 6, 5, nil)

	m.Raise(1, 1)
	m.Raise(1, 1)
	m.SetTileAt(4, 0, tileset.WaterBase)
	m.SetTileAt(5, 0, tileset.WaterBase)
	m.PutSpecialTiles(Rect{3, 0, 5, 1})
	for i := 0; i < 6; i++ {
		m.SetRoadAt(i, 4)
	}
	m.PutSpecialTiles(Rect{0, 3, 5, 4})
	if _, err := m.PlaceBuilding(template(t, m, "building_2x2b"), 4, 1); err != nil {
		t.Fatalf("PlaceBuilding failed: %v", err)
	}

	rec := m.Record()

	other := New(DefaultConfig(), events.NewBus(), zaptest.NewLogger(t))
	if err := other.LoadRecord(rec); err != nil {
		t.Fatalf("LoadRecord failed: %v", err)
	}

	if !reflect.DeepEqual(other.Tiles(), m.Tiles()) {
		t.Errorf("tiles differ:\n got %v\nwant %v", other.Tiles(), m.Tiles())
	}
	if !reflect.DeepEqual(other.Field().Vertices(), m.Field().Vertices()) {
		t.Error("elevations differ")
	}
	if !reflect.DeepEqual(other.Buildings(), m.Buildings()) {
		t.Errorf("buildings differ: %+v vs %+v", other.Buildings(), m.Buildings())
	}
	if other.CanBuildAt(4, 1) {
		t.Error("occupancy was not restored")
	}
}

func TestLoadRecordRejectsBadBuildings(t *testing.T) {
	valid := "3f2b8c1e-5d4a-4c6b-9e7f-1a2b3c4d5e6f"

	tests := []struct {
		name      string
		buildings []BuildingRecord
	}{
		{"unknown key", []BuildingRecord{{ID: valid, Key: "castle"}}},
		{"bad id", []BuildingRecord{{ID: "not-a-uuid", Key: "building_1x1a"}}},
		{"overlap", []BuildingRecord{
			{Key: "building_2x2a", I: 0, J: 0},
			{Key: "building_1x1a", I: 1, J: 1},
		}},
		{"outside", []BuildingRecord{{Key: "building_3x3", I: 2, J: 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestMap(t, 2, 2, nil)
			rec := &Record{
				Width:      4,
				Height:     4,
				Tiles:      make([]tileset.TileID, 16),
				Elevations: make([]int, 25),
				Buildings:  tt.buildings,
			}
			if err := m.LoadRecord(rec); !errors.Is(err, ErrInvalidBuilding) {
				t.Errorf("expected ErrInvalidBuilding, got %v", err)
			}
			if m.Cols() != 2 {
				t.Error("map changed on rejected record")
			}
		})
	}
}

func TestLoadRecordAssignsMissingIDs(t *testing.T) {
	m, _ := newTestMap(t, 2, 2, nil)
	rec := &Record{
		Width:      2,
		Height:     2,
		Tiles:      make([]tileset.TileID, 4),
		Elevations: make([]int, 9),
		Buildings:  []BuildingRecord{{Key: "building_1x1a", I: 1, J: 0}},
	}
	if err := m.LoadRecord(rec); err != nil {
		t.Fatalf("LoadRecord failed: %v", err)
	}
	if b := m.Buildings(); len(b) != 1 || b[0].ID == "" {
		t.Errorf("unexpected buildings %+v", b)
	}
}

func TestLoadRecordNil(t *testing.T) {
	m, _ := newTestMap(t, 2, 2, nil)
	if err := m.LoadRecord(nil); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}
