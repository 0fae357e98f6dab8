// Package termview shows a tile map in a terminal, one cell per column,
// seen from above.
package termview

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/Faultbox/isotile/internal/world"
	"github.com/Faultbox/isotile/pkg/tileset"
)

// Source is the map being viewed.
type Source interface {
	Cols() int
	Rows() int
	TileAt(i, j int) tileset.TileID
	ElevationAt(i, j int, agg world.Aggregator) int
	BuildingAt(i, j int) (world.Building, bool)
}

var statusStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)

// Viewer draws a scrolling window over the map with a cursor and a status
// line on the last row.
type Viewer struct {
	screen tcell.Screen
	src    Source
	name   string

	// Cursor cell
	I, J int
	// Top-left cell of the window
	offI, offJ int
}

// New creates a viewer on an initialized screen.
func New(screen tcell.Screen, src Source, name string) *Viewer {
	return &Viewer{screen: screen, src: src, name: name}
}

// roadGlyphs draws a road by its connections, indexed by mask.
var roadGlyphs = [tileset.MaskCount]rune{
	'#', '─', '│', '┐', '─', '─', '┌', '┬',
	'│', '┘', '│', '┤', '└', '┴', '├', '┼',
}

// Glyph returns the rune shown for a cell: B for buildings, ~ for water,
// line drawing for roads and the highest corner elevation in hex on land.
func Glyph(src Source, i, j int) rune {
	if _, ok := src.BuildingAt(i, j); ok {
		return 'B'
	}
	id := src.TileAt(i, j)
	switch {
	case tileset.IsWater(id):
		return '~'
	case tileset.IsRoad(id):
		return roadGlyphs[tileset.Connections(id)]
	}
	z := src.ElevationAt(i, j, world.Max)
	if z <= 0 {
		return ' '
	}
	return rune(fmt.Sprintf("%x", z)[0])
}

// Draw renders the window and the status line.
func (v *Viewer) Draw() {
	v.screen.Clear()
	w, h := v.screen.Size()
	rows := h - 1
	for y := 0; y < rows; y++ {
		for x := 0; x < w; x++ {
			i, j := v.offI+x, v.offJ+y
			if i >= v.src.Cols() || j >= v.src.Rows() {
				continue
			}
			c := tileset.TileColor(v.src.TileAt(i, j))
			st := tcell.StyleDefault.
				Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))).
				Foreground(tcell.ColorBlack)
			if i == v.I && j == v.J {
				st = st.Reverse(true)
			}
			v.screen.SetContent(x, y, Glyph(v.src, i, j), nil, st)
		}
	}
	v.drawStatus(w, h-1)
	v.screen.Show()
}

// Status returns the status line text.
func (v *Viewer) Status() string {
	id := v.src.TileAt(v.I, v.J)
	s := fmt.Sprintf("%s %dx%d | (%d, %d) %s z=%d",
		v.name, v.src.Cols(), v.src.Rows(), v.I, v.J,
		tileset.Describe(id), v.src.ElevationAt(v.I, v.J, world.Min))
	if b, ok := v.src.BuildingAt(v.I, v.J); ok {
		s += " | " + b.Key
	}
	return s + " | arrows move, q quits"
}

func (v *Viewer) drawStatus(width, y int) {
	line := runewidth.FillRight(runewidth.Truncate(v.Status(), width, "…"), width)
	x := 0
	for _, r := range line {
		v.screen.SetContent(x, y, r, nil, statusStyle)
		x += runewidth.RuneWidth(r)
	}
}

// Move shifts the cursor, scrolling the window to keep it visible.
func (v *Viewer) Move(di, dj int) {
	v.I = min(max(v.I+di, 0), v.src.Cols()-1)
	v.J = min(max(v.J+dj, 0), v.src.Rows()-1)

	w, h := v.screen.Size()
	h-- // status line
	if v.I < v.offI {
		v.offI = v.I
	} else if w > 0 && v.I >= v.offI+w {
		v.offI = v.I - w + 1
	}
	if v.J < v.offJ {
		v.offJ = v.J
	} else if h > 0 && v.J >= v.offJ+h {
		v.offJ = v.J - h + 1
	}
}

// Offset returns the top-left cell of the window.
func (v *Viewer) Offset() (i, j int) { return v.offI, v.offJ }

// HandleKey applies a key press and reports whether the viewer should quit.
func (v *Viewer) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyLeft:
		v.Move(-1, 0)
	case tcell.KeyRight:
		v.Move(1, 0)
	case tcell.KeyUp:
		v.Move(0, -1)
	case tcell.KeyDown:
		v.Move(0, 1)
	case tcell.KeyPgDn:
		_, h := v.screen.Size()
		v.Move(0, max(h-1, 1))
	case tcell.KeyPgUp:
		_, h := v.screen.Size()
		v.Move(0, -max(h-1, 1))
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case 'h':
			v.Move(-1, 0)
		case 'l':
			v.Move(1, 0)
		case 'k':
			v.Move(0, -1)
		case 'j':
			v.Move(0, 1)
		}
	}
	return false
}

// Run draws and handles events until the user quits.
func (v *Viewer) Run() {
	v.Draw()
	for {
		switch ev := v.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			v.screen.Sync()
			v.Move(0, 0)
			v.Draw()
		case *tcell.EventKey:
			if v.HandleKey(ev) {
				return
			}
			v.Draw()
		}
	}
}
