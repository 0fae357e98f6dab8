// Package app runs the editor in an SDL window with an OpenGL renderer.
package app

import (
	"fmt"
	"image"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/isotile/internal/config"
	"github.com/Faultbox/isotile/internal/editor"
	"github.com/Faultbox/isotile/internal/engine/audio"
	"github.com/Faultbox/isotile/internal/engine/input"
	"github.com/Faultbox/isotile/internal/engine/renderer"
	"github.com/Faultbox/isotile/internal/engine/screenshot"
	"github.com/Faultbox/isotile/internal/engine/terrain"
	"github.com/Faultbox/isotile/internal/engine/window"
	"github.com/Faultbox/isotile/internal/logger"
	"github.com/Faultbox/isotile/internal/storage"
	"github.com/Faultbox/isotile/pkg/iso"
)

// Title is the window title prefix.
const Title = "isotile"

// minimapMargin is the gap between the minimap and the window corner.
const minimapMargin = 16

// App is the editor application.
type App struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	player   *audio.Player

	editor     *editor.Editor
	controller *Controller
	mesh       *terrain.Mesh

	capture *screenshot.Capture
	shoot   bool
}

// EditorConfig derives the editor settings from cfg.
func EditorConfig(cfg *config.Config) (editor.Config, error) {
	wc, err := cfg.World()
	if err != nil {
		return editor.Config{}, err
	}
	size := cfg.Editor.MinimapSize
	return editor.Config{
		Map:        wc,
		Generator:  cfg.Generator,
		ViewWidth:  cfg.Graphics.Width,
		ViewHeight: cfg.Graphics.Height,
		Minimap:    image.Rect(minimapMargin, minimapMargin, minimapMargin+size, minimapMargin+size/2),
	}, nil
}

// New opens the window, the renderer and the audio device, then opens the
// saved map.
func New(cfg *config.Config) (*App, error) {
	log := logger.Named("app")
	log.Info("initializing editor",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("map_dir", cfg.MapDir()),
	)

	edCfg, err := EditorConfig(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, log: log, input: input.New()}

	a.player = newPlayer(cfg.Audio, logger.Named("audio"))

	// Window first: the renderer needs its OpenGL context.
	a.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	}, logger.Named("window"))
	if err != nil {
		a.player.Close()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	a.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	}, logger.Named("renderer"))
	if err != nil {
		a.window.Close()
		a.player.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	store := storage.NewFileStore(cfg.MapDir(), logger.Named("storage"))
	a.editor = editor.New(edCfg, store, a.player, logger.Named("editor"))
	a.controller = NewController(a.editor, a.player, cfg.Generator.Seed, logger.Named("controller"))
	a.capture = screenshot.New(filepath.Join(cfg.MapDir(), "screenshots"), Title)
	a.controller.OnScreenshot = func() { a.shoot = true }

	if err := a.editor.Open(); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open map: %w", err)
	}

	log.Info("editor initialized")
	return a, nil
}

// newPlayer opens the audio device. The editor runs silent when it fails.
func newPlayer(cfg config.AudioConfig, log *zap.Logger) *audio.Player {
	p := audio.New(log)
	p.SetMasterVolume(float64(cfg.MasterVolume))
	p.SetSFXVolume(float64(cfg.SFXVolume))
	p.SetMuted(cfg.Muted)
	if err := p.Init(); err != nil {
		log.Warn("audio unavailable", zap.Error(err))
		return p
	}
	for name, path := range cfg.Cues {
		c, err := audio.ParseCue(name)
		if err != nil {
			log.Warn("unknown cue", zap.String("cue", name))
			continue
		}
		if err := p.OverrideFile(c, path); err != nil {
			log.Warn("cue override failed", zap.String("cue", name), zap.Error(err))
		}
	}
	return p
}

// Run runs the main loop until the window closes or the user quits.
func (a *App) Run() error {
	var frameBudget time.Duration
	if a.cfg.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(a.cfg.Graphics.FPSLimit)
	}

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting editor loop")

	for {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		quit := a.input.Update()
		for _, ev := range a.input.Events() {
			if ev.Type == input.EventWindowResize {
				a.renderer.Resize(ev.Width, ev.Height)
			}
			if a.controller.Handle(ev) {
				quit = true
			}
		}
		if quit {
			return nil
		}

		a.sync()
		a.render()
		if a.shoot {
			a.shoot = false
			a.screenshot()
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", dt))
			frameCount = 0
			fpsTimer = time.Now()
		}
		if frameBudget > 0 {
			if rest := frameBudget - time.Since(now); rest > 0 {
				time.Sleep(rest)
			}
		}
	}
}

// sync uploads what changed on the map since the last frame.
func (a *App) sync() {
	tm := a.editor.Tilemap()
	rd := a.editor.TakeRedraw()

	switch {
	case rd.Rebuild || a.mesh == nil:
		a.mesh = terrain.BuildMesh(tm)
		a.renderer.UploadTerrain(a.mesh)
	case rd.Partial:
		first, end := terrain.UpdateRegion(a.mesh, tm, rd.Region)
		a.renderer.UpdateTerrain(a.mesh, first, end)
	}

	if rd.Overlay || rd.Rebuild {
		var hovered *iso.Cell
		if c, ok := tm.Hovered(); ok {
			hovered = &c
		}
		a.renderer.UploadOverlay(terrain.BuildOverlay(tm, tm.Buildings(), tm.Preview(), hovered))
	}

	if mm := a.editor.Minimap(); mm.Dirty() {
		a.renderer.UploadMinimap(mm.Image())
	}

	if in := a.editor.Inspector(); in.Changed() {
		a.window.SetTitle(a.editor.Title(Title))
		if in.Visible() {
			a.log.Debug("hovered tile", zap.Strings("tile", in.Lines()))
		}
	}
}

func (a *App) render() {
	cam := a.editor.Camera()
	a.renderer.Begin()
	a.renderer.DrawMap(cam.X, cam.Y)
	a.renderer.DrawMinimap(a.editor.MinimapRect())
}

// screenshot saves the frame just rendered.
func (a *App) screenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.capture.FromPixels(pixels, w, h)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases the editor, the renderer, the window and the audio device.
func (a *App) Close() {
	a.log.Info("closing editor")

	if a.editor != nil {
		a.editor.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
	if a.player != nil {
		a.player.Close()
	}
}
