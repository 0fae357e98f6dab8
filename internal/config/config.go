// Package config handles editor configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/isotile/internal/logger"
	"github.com/Faultbox/isotile/internal/mapgen"
	"github.com/Faultbox/isotile/internal/world"
	"github.com/Faultbox/isotile/pkg/tileset"
)

// Config holds all editor settings.
type Config struct {
	Graphics  GraphicsConfig `yaml:"graphics"`
	Audio     AudioConfig    `yaml:"audio"`
	Editor    EditorConfig   `yaml:"editor"`
	Generator mapgen.Config  `yaml:"generator"`
	Logging   LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// AudioConfig holds the cue player settings.
type AudioConfig struct {
	MasterVolume float32 `yaml:"master_volume"`
	SFXVolume    float32 `yaml:"sfx_volume"`
	Muted        bool    `yaml:"muted"`
	// Cues maps a cue name to a WAV file replacing its tone.
	Cues map[string]string `yaml:"cues"`
}

// EditorConfig holds the tile geometry and map settings.
type EditorConfig struct {
	TileWidth     int    `yaml:"tile_width"`
	TileHeight    int    `yaml:"tile_height"`
	TileThickness int    `yaml:"tile_thickness"`
	Occlusion     string `yaml:"occlusion"`
	// MapDir holds map.json. Empty means the config directory.
	MapDir string `yaml:"map_dir"`
	// Templates is an optional YAML file of building templates.
	Templates   string `yaml:"templates"`
	MinimapSize int    `yaml:"minimap_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Audio: AudioConfig{
			MasterVolume: 0.8,
			SFXVolume:    0.8,
			Muted:        false,
		},
		Editor: EditorConfig{
			TileWidth:     tileset.DefaultSheet.TileWidth,
			TileHeight:    tileset.DefaultSheet.TileHeight,
			TileThickness: tileset.DefaultSheet.TileThickness,
			Occlusion:     world.Min.String(),
			MinimapSize:   200,
		},
		Generator: mapgen.DefaultConfig(),
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// MapDir returns the directory holding the saved map.
func (c *Config) MapDir() string {
	if c.Editor.MapDir != "" {
		return c.Editor.MapDir
	}
	return ConfigDir()
}

// World returns the tile map settings. Building templates are read from
// Editor.Templates when set.
func (c *Config) World() (world.Config, error) {
	occ, err := world.ParseAggregator(c.Editor.Occlusion)
	if err != nil {
		return world.Config{}, fmt.Errorf("editor.occlusion: %w", err)
	}
	wc := world.Config{
		TileWidth:     c.Editor.TileWidth,
		TileHeight:    c.Editor.TileHeight,
		TileThickness: c.Editor.TileThickness,
		Occlusion:     occ,
	}
	if wc.TileWidth <= 0 || wc.TileHeight <= 0 || wc.TileThickness < 0 {
		return world.Config{}, fmt.Errorf("editor: invalid tile size %dx%d+%d",
			wc.TileWidth, wc.TileHeight, wc.TileThickness)
	}
	if c.Editor.Templates != "" {
		tmpls, err := tileset.LoadTemplates(c.Editor.Templates)
		if err != nil {
			return world.Config{}, fmt.Errorf("editor.templates: %w", err)
		}
		wc.Templates = tmpls
	}
	return wc, nil
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	if _, err := c.World(); err != nil {
		return err
	}
	if err := c.Generator.Validate(); err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}
