// Package editor wires the tile map, its tools and its views together.
package editor

import (
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/isotile/internal/engine/audio"
	"github.com/Faultbox/isotile/internal/engine/camera"
	"github.com/Faultbox/isotile/internal/events"
	"github.com/Faultbox/isotile/internal/inspector"
	"github.com/Faultbox/isotile/internal/mapgen"
	"github.com/Faultbox/isotile/internal/minimap"
	"github.com/Faultbox/isotile/internal/storage"
	"github.com/Faultbox/isotile/internal/tools"
	"github.com/Faultbox/isotile/internal/world"
)

// Config holds the editor settings.
type Config struct {
	Map       world.Config
	Generator mapgen.Config

	// Viewport size in pixels
	ViewWidth  int
	ViewHeight int

	// Minimap box on screen
	Minimap image.Rectangle
}

// DefaultConfig returns the editor defaults.
func DefaultConfig() Config {
	return Config{
		Map:        world.DefaultConfig(),
		Generator:  mapgen.DefaultConfig(),
		ViewWidth:  1280,
		ViewHeight: 720,
		Minimap:    image.Rect(16, 16, 16+200, 16+100),
	}
}

// Editor is the editing scene: one tile map with its store, views, camera
// and cue player. Screen input goes in; redraw requests come out.
type Editor struct {
	cfg   Config
	log   *zap.Logger
	bus   *events.Bus
	store storage.Store

	tilemap   *world.Tilemap
	minimap   *minimap.Minimap
	inspector *inspector.Inspector
	camera    *camera.PanCamera
	player    *audio.Player

	// Pointer routing
	onMinimap bool
	panning   bool

	// Pending redraw work
	rebuild bool
	region  world.Rect
	regions bool
	overlay bool

	unsubscribe []func()
}

// New builds an editor. player may be nil. The map stays empty until Open
// or NewMap.
func New(cfg Config, store storage.Store, player *audio.Player, log *zap.Logger) *Editor {
	if log == nil {
		log = zap.NewNop()
	}
	bus := events.NewBus()
	e := &Editor{
		cfg:     cfg,
		log:     log,
		bus:     bus,
		store:   store,
		player:  player,
		tilemap: world.New(cfg.Map, bus, log.Named("tilemap")),
		camera:  camera.NewPanCamera(cfg.ViewWidth, cfg.ViewHeight),
	}
	e.inspector = inspector.New(bus)
	e.minimap = minimap.New(e.tilemap, bus, log.Named("minimap"),
		cfg.Minimap.Dx(), cfg.Minimap.Dy(), cfg.ViewWidth, cfg.ViewHeight)

	e.unsubscribe = append(e.unsubscribe,
		bus.MapLoaded.Subscribe(e.onMapLoaded),
		bus.RegionRedraw.Subscribe(func(ev events.RegionRedraw) {
			e.addRegion(world.Rect{MinI: ev.MinI, MinJ: ev.MinJ, MaxI: ev.MaxI, MaxJ: ev.MaxJ})
			e.fitHeadroom()
		}),
		bus.TileChanged.Subscribe(func(ev events.TileChanged) {
			e.addRegion(world.Rect{MinI: ev.I, MinJ: ev.J, MaxI: ev.I, MaxJ: ev.J})
		}),
		bus.MinimapClicked.Subscribe(e.onMinimapClicked),
		bus.PreviewChanged.Subscribe(func(events.PreviewChanged) { e.overlay = true }),
		bus.TilePointed.Subscribe(func(events.TilePointed) { e.overlay = true }),
		bus.BuildingPlaced.Subscribe(func(events.BuildingPlaced) { e.overlay = true }),
	)
	if player != nil {
		e.unsubscribe = append(e.unsubscribe, player.Attach(bus))
	}
	return e
}

// Close detaches every view from the bus.
func (e *Editor) Close() {
	for _, fn := range e.unsubscribe {
		fn()
	}
	e.unsubscribe = nil
	e.minimap.Close()
	e.inspector.Close()
}

// Bus returns the editor event bus.
func (e *Editor) Bus() *events.Bus { return e.bus }

// Tilemap returns the edited map.
func (e *Editor) Tilemap() *world.Tilemap { return e.tilemap }

// Minimap returns the minimap model.
func (e *Editor) Minimap() *minimap.Minimap { return e.minimap }

// Inspector returns the hovered tile inspector.
func (e *Editor) Inspector() *inspector.Inspector { return e.inspector }

// Camera returns the view camera.
func (e *Editor) Camera() *camera.PanCamera { return e.camera }

// MinimapRect returns the minimap box on screen.
func (e *Editor) MinimapRect() image.Rectangle { return e.cfg.Minimap }

// Open loads the saved map. A missing, corrupt or invalid save is logged
// and replaced by a generated map.
func (e *Editor) Open() error {
	rec, err := e.store.Load()
	if err == nil {
		err = e.tilemap.LoadRecord(rec)
	}
	if err == nil {
		e.log.Info("map opened", zap.Int("cols", rec.Width), zap.Int("rows", rec.Height))
		return nil
	}

	if errors.Is(err, storage.ErrNoSavedMap) {
		e.log.Info("no saved map, generating one")
	} else {
		e.log.Warn("saved map unusable, generating one", zap.Error(err))
	}
	return e.generate(e.cfg.Generator)
}

// NewMap replaces the map with a generated one.
func (e *Editor) NewMap(seed int64) error {
	g := e.cfg.Generator
	g.Seed = seed
	return e.generate(g)
}

func (e *Editor) generate(g mapgen.Config) error {
	rec, err := mapgen.Generate(g)
	if err != nil {
		return fmt.Errorf("generate map: %w", err)
	}
	if err := e.tilemap.LoadRecord(rec); err != nil {
		return fmt.Errorf("load generated map: %w", err)
	}
	e.log.Info("map generated", zap.Int64("seed", g.Seed), zap.Int("size", g.Size))
	return nil
}

// Save writes the map to the store.
func (e *Editor) Save() error {
	if err := e.store.Save(e.tilemap.Record()); err != nil {
		return fmt.Errorf("save map: %w", err)
	}
	return nil
}

// SelectTool makes a tool of the given kind the active action.
func (e *Editor) SelectTool(kind tools.Kind, p tools.Params) error {
	a, err := tools.New(e.tilemap, kind, p)
	if err != nil {
		return err
	}
	e.tilemap.SetTool(a)
	return nil
}

// PointerDown routes a press at screen point (x, y): to the minimap when
// over it, to the camera for the middle button, and to the map otherwise.
// The right button cancels the gesture in progress.
func (e *Editor) PointerDown(x, y int, b world.Button) {
	if pt := image.Pt(x, y); pt.In(e.cfg.Minimap) && b == world.ButtonLeft {
		e.onMinimap = true
		local := pt.Sub(e.cfg.Minimap.Min)
		e.minimap.PointerDown(local.X, local.Y)
		return
	}
	switch b {
	case world.ButtonMiddle:
		e.panning = true
		e.camera.StartDrag(x, y)
	case world.ButtonRight:
		e.tilemap.Cancel()
	default:
		mx, my := e.camera.ScreenToMap(x, y)
		e.tilemap.PointerDown(mx, my, b)
	}
}

// PointerMove routes pointer motion at screen point (x, y).
func (e *Editor) PointerMove(x, y int) {
	if e.onMinimap {
		local := image.Pt(x, y).Sub(e.cfg.Minimap.Min)
		e.minimap.PointerMove(local.X, local.Y)
		return
	}
	if e.panning {
		if e.camera.HandleDrag(x, y) {
			e.viewportMoved()
		}
		return
	}
	mx, my := e.camera.ScreenToMap(x, y)
	e.tilemap.PointerMove(mx, my)
}

// PointerUp routes a release at screen point (x, y).
func (e *Editor) PointerUp(x, y int, b world.Button) {
	if e.onMinimap && b == world.ButtonLeft {
		e.onMinimap = false
		e.minimap.PointerUp()
		return
	}
	if e.panning && b == world.ButtonMiddle {
		e.panning = false
		e.camera.EndDrag()
		return
	}
	mx, my := e.camera.ScreenToMap(x, y)
	e.tilemap.PointerUp(mx, my, b)
}

// Cancel discards the gesture in progress.
func (e *Editor) Cancel() {
	e.tilemap.Cancel()
}

// Pan scrolls the view by whole keyboard steps.
func (e *Editor) Pan(right, down int) {
	if e.camera.HandleMovement(right, down) {
		e.viewportMoved()
	}
}

// Resize changes the viewport size.
func (e *Editor) Resize(width, height int) {
	e.cfg.ViewWidth, e.cfg.ViewHeight = width, height
	e.camera.Resize(width, height)
	e.minimap.Resize(e.cfg.Minimap.Dx(), e.cfg.Minimap.Dy(), width, height)
	e.viewportMoved()
}

func (e *Editor) viewportMoved() {
	e.bus.ViewportMoved.Publish(events.ViewportMoved{X: e.camera.X, Y: e.camera.Y})
	// The map moved under a still pointer.
	e.tilemap.RefreshPointer()
}

func (e *Editor) onMinimapClicked(ev events.MinimapClicked) {
	if e.camera.MoveTo(ev.X, ev.Y) {
		e.viewportMoved()
	}
}

// fitHeadroom lets the camera scroll up to the highest tile sticking out
// above the map box.
func (e *Editor) fitHeadroom() {
	if e.camera.SetTop(-e.tilemap.Headroom()) {
		e.bus.ViewportMoved.Publish(events.ViewportMoved{X: e.camera.X, Y: e.camera.Y})
	}
}

func (e *Editor) onMapLoaded(events.MapLoaded) {
	w, h := e.tilemap.PixelSize()
	e.camera.Top = -e.tilemap.Headroom()
	e.camera.SetMapSize(w, h)
	e.camera.CenterOn(w/2, h/2)
	e.rebuild = true
	e.regions = false
	e.overlay = true
	e.bus.ViewportMoved.Publish(events.ViewportMoved{X: e.camera.X, Y: e.camera.Y})
}

func (e *Editor) addRegion(r world.Rect) {
	// Buildings sit on the terrain.
	e.overlay = true
	if !e.regions {
		e.region, e.regions = r, true
		return
	}
	e.region = world.Rect{
		MinI: min(e.region.MinI, r.MinI),
		MinJ: min(e.region.MinJ, r.MinJ),
		MaxI: max(e.region.MaxI, r.MaxI),
		MaxJ: max(e.region.MaxJ, r.MaxJ),
	}
}

// Redraw is the pending terrain redraw work.
type Redraw struct {
	// Rebuild asks for the whole mesh.
	Rebuild bool
	// Region is the union of changed cells, when Partial is set.
	Region  world.Rect
	Partial bool
	// Overlay asks for the overlay mesh.
	Overlay bool
}

// TakeRedraw returns and clears the pending redraw work.
func (e *Editor) TakeRedraw() Redraw {
	r := Redraw{
		Rebuild: e.rebuild,
		Region:  e.region,
		Partial: e.regions && !e.rebuild,
		Overlay: e.overlay,
	}
	e.rebuild, e.regions, e.overlay = false, false, false
	e.region = world.Rect{}
	return r
}

// Title returns the window title.
func (e *Editor) Title(app string) string {
	return e.inspector.Title(app)
}
