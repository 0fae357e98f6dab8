// maptool is a CLI utility for generating and inspecting saved maps.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/isotile/internal/config"
	"github.com/Faultbox/isotile/internal/engine/screenshot"
	"github.com/Faultbox/isotile/internal/events"
	"github.com/Faultbox/isotile/internal/logger"
	"github.com/Faultbox/isotile/internal/mapgen"
	"github.com/Faultbox/isotile/internal/minimap"
	"github.com/Faultbox/isotile/internal/storage"
	"github.com/Faultbox/isotile/internal/termview"
	"github.com/Faultbox/isotile/internal/world"
	"github.com/Faultbox/isotile/pkg/tileset"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	log, err := logger.New("warn", logger.FileConfig{}, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	command := args[0]
	args = args[1:]

	switch command {
	case "new":
		err = cmdNew(args, stdout, log)
	case "info":
		err = cmdInfo(args, stdout, log)
	case "validate", "check":
		err = cmdValidate(args, stdout, log)
	case "png":
		err = cmdPNG(args, stdout, log)
	case "view":
		err = cmdView(args)
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `maptool - isotile map utility

Usage:
  maptool <command> [options]

Commands:
  new [-seed N] [-size N] [-dir D]  Generate a map and save it to D/map.json
  info <map.json>                    Show map statistics
  validate <map.json>                Check that a map loads
  png [-o out.png] <map.json>        Write a top-down image, one pixel per cell
  view <map.json>                    Browse a map in the terminal

Examples:
  maptool new -seed 7 -size 64 -dir ./maps
  maptool info ./maps/map.json
  maptool view ./maps/map.json`)
}

var errUsage = errors.New("missing map file")

func cmdNew(args []string, stdout io.Writer, log *zap.Logger) error {
	gen := mapgen.DefaultConfig()
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	fs.Int64Var(&gen.Seed, "seed", gen.Seed, "Noise seed")
	fs.IntVar(&gen.Size, "size", gen.Size, "Map width and height in cells")
	dir := fs.String("dir", config.ConfigDir(), "Directory to save map.json in")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rec, err := mapgen.Generate(gen)
	if err != nil {
		return err
	}
	store := storage.NewFileStore(*dir, log.Named("storage"))
	if err := store.Save(rec); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Saved %dx%d map (seed %d) to %s\n", rec.Width, rec.Height, gen.Seed, store.Path())
	return nil
}

// open decodes the map file named by the first argument and loads it.
func open(args []string, log *zap.Logger) (*world.Tilemap, string, error) {
	if len(args) < 1 {
		return nil, "", errUsage
	}
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	rec, err := storage.Decode(data)
	if err != nil {
		return nil, "", err
	}
	m := world.New(world.DefaultConfig(), events.NewBus(), log.Named("tilemap"))
	if err := m.LoadRecord(rec); err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return m, path, nil
}

func cmdInfo(args []string, stdout io.Writer, log *zap.Logger) error {
	m, path, err := open(args, log)
	if err != nil {
		return err
	}

	var counts [tileset.Road + 1]int
	for _, id := range m.Tiles() {
		counts[tileset.CategoryOf(id)]++
	}
	vertices := m.Field().Vertices()
	zmin, zmax := vertices[0], vertices[0]
	for _, z := range vertices {
		zmin, zmax = min(zmin, z), max(zmax, z)
	}

	fmt.Fprintf(stdout, "Map:       %s\n", path)
	fmt.Fprintf(stdout, "Size:      %dx%d\n", m.Cols(), m.Rows())
	fmt.Fprintf(stdout, "Elevation: %d..%d\n", zmin, zmax)
	fmt.Fprintf(stdout, "Buildings: %d\n", len(m.Buildings()))
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Tiles by category:")
	total := m.Cols() * m.Rows()
	for c, n := range counts {
		fmt.Fprintf(stdout, "  %-6s %6d %5.1f%%\n", tileset.Category(c), n, 100*float64(n)/float64(total))
	}
	return nil
}

func cmdValidate(args []string, stdout io.Writer, log *zap.Logger) error {
	m, path, err := open(args, log)
	if err != nil {
		return err
	}
	if err := m.Field().Valid(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Fprintf(stdout, "%s: ok\n", path)
	return nil
}

func cmdPNG(args []string, stdout io.Writer, log *zap.Logger) error {
	fs := flag.NewFlagSet("png", flag.ContinueOnError)
	out := fs.String("o", "", "Output file (default: the map file with a .png extension)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	m, path, err := open(fs.Args(), log)
	if err != nil {
		return err
	}
	if *out == "" {
		*out = strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
	}

	mm := minimap.New(m, m.Bus(), log.Named("minimap"), m.Cols(), m.Rows(), 0, 0)
	defer mm.Close()
	if err := screenshot.WritePNG(*out, mm.Image()); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %dx%d image to %s\n", m.Cols(), m.Rows(), *out)
	return nil
}

func cmdView(args []string) error {
	// The screen owns the terminal; log nowhere.
	m, path, err := open(args, zap.NewNop())
	if err != nil {
		return err
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	termview.New(screen, m, filepath.Base(path)).Run()
	return nil
}
