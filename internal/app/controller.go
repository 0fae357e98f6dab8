package app

import (
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/isotile/internal/editor"
	"github.com/Faultbox/isotile/internal/engine/audio"
	"github.com/Faultbox/isotile/internal/engine/input"
	"github.com/Faultbox/isotile/internal/tools"
	"github.com/Faultbox/isotile/pkg/tileset"
)

// Command is an editor command bound to a key.
type Command uint8

// Commands.
const (
	CmdNone Command = iota
	CmdQuit
	CmdSave
	CmdNewMap
	CmdCancel
	CmdMute
	CmdPaintGrass
	CmdPaintDirt
	CmdPaintSand
	CmdPaintWater
	CmdRaise
	CmdDig
	CmdRoad
	CmdBuilding
	CmdPanLeft
	CmdPanRight
	CmdPanUp
	CmdPanDown
	CmdScreenshot
)

var plainKeys = map[sdl.Scancode]Command{
	sdl.SCANCODE_ESCAPE: CmdCancel,
	sdl.SCANCODE_1:      CmdPaintGrass,
	sdl.SCANCODE_2:      CmdPaintDirt,
	sdl.SCANCODE_3:      CmdPaintSand,
	sdl.SCANCODE_4:      CmdPaintWater,
	sdl.SCANCODE_R:      CmdRaise,
	sdl.SCANCODE_F:      CmdDig,
	sdl.SCANCODE_T:      CmdRoad,
	sdl.SCANCODE_B:      CmdBuilding,
	sdl.SCANCODE_M:      CmdMute,
	sdl.SCANCODE_LEFT:   CmdPanLeft,
	sdl.SCANCODE_RIGHT:  CmdPanRight,
	sdl.SCANCODE_UP:     CmdPanUp,
	sdl.SCANCODE_DOWN:   CmdPanDown,
	sdl.SCANCODE_A:      CmdPanLeft,
	sdl.SCANCODE_D:      CmdPanRight,
	sdl.SCANCODE_W:      CmdPanUp,
	sdl.SCANCODE_S:      CmdPanDown,
	sdl.SCANCODE_F12:    CmdScreenshot,
}

var ctrlKeys = map[sdl.Scancode]Command{
	sdl.SCANCODE_Q: CmdQuit,
	sdl.SCANCODE_S: CmdSave,
	sdl.SCANCODE_N: CmdNewMap,
}

// Lookup returns the command bound to a key press.
func Lookup(ev input.Event) Command {
	if ev.Type != input.EventKeyDown {
		return CmdNone
	}
	if ev.Ctrl {
		return ctrlKeys[ev.Key]
	}
	return plainKeys[ev.Key]
}

// Controller turns translated input into editor calls.
type Controller struct {
	ed     *editor.Editor
	player *audio.Player
	log    *zap.Logger

	seed     int64
	building int

	// OnScreenshot is called for CmdScreenshot.
	OnScreenshot func()
}

// NewController drives ed. player may be nil.
func NewController(ed *editor.Editor, player *audio.Player, seed int64, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{ed: ed, player: player, seed: seed, log: log, building: -1}
}

// Handle processes one event and reports whether the editor should quit.
func (c *Controller) Handle(ev input.Event) bool {
	switch ev.Type {
	case input.EventQuit:
		return true
	case input.EventWindowResize:
		c.ed.Resize(ev.Width, ev.Height)
	case input.EventMouseMove:
		c.ed.PointerMove(ev.MouseX, ev.MouseY)
	case input.EventMouseDown:
		c.ed.PointerDown(ev.MouseX, ev.MouseY, ev.Button)
	case input.EventMouseUp:
		c.ed.PointerUp(ev.MouseX, ev.MouseY, ev.Button)
	case input.EventWheel:
		c.ed.Pan(-ev.WheelX, -ev.WheelY)
	case input.EventKeyDown:
		return c.Run(Lookup(ev))
	}
	return false
}

// Run executes cmd and reports whether the editor should quit.
func (c *Controller) Run(cmd Command) bool {
	switch cmd {
	case CmdQuit:
		return true
	case CmdSave:
		if err := c.ed.Save(); err != nil {
			c.log.Error("save failed", zap.Error(err))
		} else {
			c.log.Info("map saved")
		}
	case CmdNewMap:
		c.seed++
		if err := c.ed.NewMap(c.seed); err != nil {
			c.log.Error("new map failed", zap.Error(err))
		}
	case CmdCancel:
		c.ed.Cancel()
	case CmdMute:
		if c.player != nil {
			c.player.SetMuted(!c.player.IsMuted())
		}
	case CmdPaintGrass:
		c.selectTool(tools.KindPaint, tools.Params{Tile: tileset.GrassBase})
	case CmdPaintDirt:
		c.selectTool(tools.KindPaint, tools.Params{Tile: tileset.DirtBase})
	case CmdPaintSand:
		c.selectTool(tools.KindPaint, tools.Params{Tile: tileset.SandBase})
	case CmdPaintWater:
		c.selectTool(tools.KindPaint, tools.Params{Tile: tileset.WaterBase})
	case CmdRaise:
		c.selectTool(tools.KindRaise, tools.Params{})
	case CmdDig:
		c.selectTool(tools.KindDig, tools.Params{})
	case CmdRoad:
		c.selectTool(tools.KindRoad, tools.Params{})
	case CmdBuilding:
		// Each press picks the next template.
		keys := c.ed.Tilemap().Templates().Keys()
		if len(keys) == 0 {
			return false
		}
		c.building = (c.building + 1) % len(keys)
		c.selectTool(tools.KindBuilding, tools.Params{Template: keys[c.building]})
	case CmdPanLeft:
		c.ed.Pan(-1, 0)
	case CmdPanRight:
		c.ed.Pan(1, 0)
	case CmdPanUp:
		c.ed.Pan(0, -1)
	case CmdPanDown:
		c.ed.Pan(0, 1)
	case CmdScreenshot:
		if c.OnScreenshot != nil {
			c.OnScreenshot()
		}
	}
	return false
}

func (c *Controller) selectTool(kind tools.Kind, p tools.Params) {
	if err := c.ed.SelectTool(kind, p); err != nil {
		c.log.Warn("tool not selected", zap.Stringer("kind", kind), zap.Error(err))
	}
}
