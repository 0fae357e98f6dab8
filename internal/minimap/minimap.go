// Package minimap keeps a one-pixel-per-cell replica of the tile map.
package minimap

import (
	"image"
	"image/color"
	"math"

	"go.uber.org/zap"

	"github.com/Faultbox/isotile/internal/events"
	"github.com/Faultbox/isotile/pkg/tileset"
)

// Source is the tile map as seen by the minimap.
type Source interface {
	Cols() int
	Rows() int
	TileAt(i, j int) tileset.TileID
	PixelSize() (width, height int)
}

// Minimap is the replica image plus the rectangle of the visible viewport.
// Presentation (the 45 degree rotation and scaling to Width x Height) is left
// to the renderer.
type Minimap struct {
	src  Source
	bus  *events.Bus
	log  *zap.Logger
	img  *image.RGBA
	dirt bool

	width, height int
	viewW, viewH  int
	offX, offY    int
	ratio         float64
	pressed       bool

	unsubscribe []func()
}

// New builds the minimap of src displayed in a width x height box, for a
// viewport of viewW x viewH pixels.
func New(src Source, bus *events.Bus, log *zap.Logger, width, height, viewW, viewH int) *Minimap {
	if log == nil {
		log = zap.NewNop()
	}
	mm := &Minimap{
		src:    src,
		bus:    bus,
		log:    log,
		width:  width,
		height: height,
		viewW:  viewW,
		viewH:  viewH,
	}
	mm.Rebuild()

	mm.unsubscribe = append(mm.unsubscribe,
		bus.TileChanged.Subscribe(func(e events.TileChanged) {
			mm.writePixel(e.I, e.J, e.TileID)
		}),
		bus.MapLoaded.Subscribe(func(events.MapLoaded) {
			mm.Rebuild()
		}),
		bus.ViewportMoved.Subscribe(func(e events.ViewportMoved) {
			mm.offX, mm.offY = e.X, e.Y
		}),
	)
	return mm
}

// Close detaches the minimap from the bus.
func (mm *Minimap) Close() {
	for _, fn := range mm.unsubscribe {
		fn()
	}
	mm.unsubscribe = nil
}

// Image returns the replica, one pixel per cell.
func (mm *Minimap) Image() *image.RGBA { return mm.img }

// Dirty reports whether the image changed since the last call, and resets
// the flag.
func (mm *Minimap) Dirty() bool {
	d := mm.dirt
	mm.dirt = false
	return d
}

// Rebuild redraws the whole image from the source. The image is reallocated
// when the map size changed.
func (mm *Minimap) Rebuild() {
	cols, rows := mm.src.Cols(), mm.src.Rows()
	if mm.img == nil || mm.img.Rect.Dx() != cols || mm.img.Rect.Dy() != rows {
		mm.img = image.NewRGBA(image.Rect(0, 0, cols, rows))
	}
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			mm.writePixel(i, j, mm.src.TileAt(i, j))
		}
	}
	mm.resize()
	mm.log.Debug("minimap rebuilt", zap.Int("cols", cols), zap.Int("rows", rows))
}

// Resize changes the displayed box and the viewport size.
func (mm *Minimap) Resize(width, height, viewW, viewH int) {
	mm.width, mm.height = width, height
	mm.viewW, mm.viewH = viewW, viewH
	mm.resize()
}

func (mm *Minimap) resize() {
	mm.ratio = 0
	if w, _ := mm.src.PixelSize(); w > 0 {
		mm.ratio = float64(mm.width) / float64(w)
	}
}

func (mm *Minimap) writePixel(i, j int, id tileset.TileID) {
	if !(image.Point{X: i, Y: j}).In(mm.img.Rect) || !tileset.Valid(id) {
		return
	}
	c := tileset.TileColor(id)
	mm.img.SetRGBA(i, j, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
	mm.dirt = true
}

// Ratio returns minimap pixels per map pixel.
func (mm *Minimap) Ratio() float64 { return mm.ratio }

// ScreenView returns the viewport rectangle in minimap coordinates.
func (mm *Minimap) ScreenView() image.Rectangle {
	x := int(math.Round(float64(mm.offX) * mm.ratio))
	y := int(math.Round(float64(mm.offY) * mm.ratio))
	w := int(math.Round(float64(mm.viewW) * mm.ratio))
	h := int(math.Round(float64(mm.viewH) * mm.ratio))
	return image.Rect(x, y, x+w, y+h)
}

// Click centers the viewport on the minimap point (x, y). The matching map
// offset is published as MinimapClicked.
func (mm *Minimap) Click(x, y int) {
	if mm.ratio == 0 {
		return
	}
	view := mm.ScreenView()
	mx := float64(x) - float64(view.Dx())/2
	my := float64(y) - float64(view.Dy())/2
	mm.bus.MinimapClicked.Publish(events.MinimapClicked{
		X: int(math.Round(mx / mm.ratio)),
		Y: int(math.Round(my / mm.ratio)),
	})
}

// Contains reports whether (x, y) is inside the minimap box.
func (mm *Minimap) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < mm.width && y < mm.height
}

// PointerDown starts dragging the screen view.
func (mm *Minimap) PointerDown(x, y int) {
	mm.pressed = true
	mm.Click(x, y)
}

// PointerMove drags the screen view while pressed.
func (mm *Minimap) PointerMove(x, y int) {
	if mm.pressed {
		mm.Click(x, y)
	}
}

// PointerUp stops dragging.
func (mm *Minimap) PointerUp() {
	mm.pressed = false
}

// Dragging reports whether the screen view is being dragged.
func (mm *Minimap) Dragging() bool { return mm.pressed }
