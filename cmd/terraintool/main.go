// terraintool inspects terrain profiles and runs the scene headless.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/searth/internal/assets"
	"github.com/Faultbox/searth/internal/config"
	"github.com/Faultbox/searth/internal/engine/debug"
	"github.com/Faultbox/searth/internal/engine/terrain"
	"github.com/Faultbox/searth/internal/game/world"
	"github.com/Faultbox/searth/internal/logger"
	"github.com/Faultbox/searth/pkg/math"
)

const frame = float32(1) / 60

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "render":
		cmdRender(args)
	case "simulate", "sim":
		cmdSimulate(args)
	case "bomb":
		cmdBomb(args)
	case "compact":
		cmdCompact(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`terraintool - SEarth terrain utility

Usage:
  terraintool <command> [options]

Commands:
  info <profile>                  Show profile and tile layout
  render <profile> <out.png>      Render the terrain to a PNG or BMP
  simulate <profile>              Run the scene for a number of frames
  bomb <profile> <x> <y> <r>      Blast a crater and let it settle
  compact <profile>               Print the profile in run-length form

Scene options (all commands):
  -width, -height                 Playfield size (default 800x600)
  -max                            Largest texture side (default 512)
  -v                              Log to the console

Examples:
  terraintool info data/terrain/test.set
  terraintool render data/terrain/test.set ground.png
  terraintool simulate -frames 3000 -seed 42 -o after.png data/terrain/test.set
  terraintool bomb -o crater.png data/terrain/test.set 400 200 40`)
}

// scene holds the options shared by every command.
type scene struct {
	width, height, maxTexture *int
	verbose                   *bool
}

func sceneFlags(fs *flag.FlagSet) *scene {
	d := config.Default()
	return &scene{
		width:      fs.Int("width", d.Graphics.Width, "Playfield width"),
		height:     fs.Int("height", d.Graphics.Height, "Playfield height"),
		maxTexture: fs.Int("max", d.Terrain.MaxTextureSize, "Largest texture side"),
		verbose:    fs.Bool("v", false, "Log to the console"),
	}
}

func (s *scene) log() *zap.Logger {
	if !*s.verbose {
		return zap.NewNop()
	}
	log, err := logger.New("debug", logger.FileConfig{}, true)
	if err != nil {
		fail("Error creating logger: %v", err)
	}
	return log
}

func (s *scene) load(path string, log *zap.Logger) *terrain.Terrain {
	t, err := terrain.Load(path, *s.width, *s.height,
		terrain.WithMaxTextureSize(*s.maxTexture),
		terrain.WithLogger(log.Named("terrain")),
	)
	if err != nil {
		fail("Error: %v", err)
	}
	return t
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func writeImage(t *terrain.Terrain, path string) {
	img, err := t.Snapshot()
	if err != nil {
		fail("Error rendering terrain: %v", err)
	}
	if err := debug.Write(path, img); err != nil {
		fail("Error writing image: %v", err)
	}
	fmt.Printf("Wrote: %s\n", path)
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	s := sceneFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fail("Usage: terraintool info <profile>")
	}

	t := s.load(fs.Arg(0), s.log())
	defer t.Close()

	p := t.Grid().Profile()
	lo, hi := -1, -1
	for _, h := range p.Heights {
		if h < 0 {
			continue
		}
		if lo < 0 || h < lo {
			lo = h
		}
		hi = max(hi, h)
	}

	fmt.Printf("Profile: %s\n", fs.Arg(0))
	fmt.Printf("Grid:    %dx%d\n", t.Width(), t.Height())
	fmt.Printf("Columns: %d filled of %d\n", p.Filled(), p.Columns())
	if lo >= 0 {
		fmt.Printf("Heights: %d to %d\n", lo, hi)
	}
	fmt.Printf("Cells:   %d solid\n", t.Grid().Count())
	fmt.Println()
	fmt.Printf("Tiles (max %d, height %d):\n", *s.maxTexture, terrain.TileHeight(t.Height(), *s.maxTexture))
	x := 0
	for i, w := range terrain.PartitionWidths(t.Width(), *s.maxTexture) {
		fmt.Printf("  %2d  x=%-5d width %d\n", i, x, w)
		x += w
	}
}

func cmdRender(args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	s := sceneFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 2 {
		fail("Usage: terraintool render <profile> <out.png>")
	}

	t := s.load(fs.Arg(0), s.log())
	defer t.Close()
	writeImage(t, fs.Arg(1))
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	s := sceneFlags(fs)
	frames := fs.Int("frames", 1800, "Frames to simulate at 60 per second")
	seed := fs.Uint64("seed", 1, "Random seed for launches and dirt")
	data := fs.String("data", "", "Data directory holding the sprites")
	out := fs.String("o", "", "Write the final terrain to this PNG or BMP")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fail("Usage: terraintool simulate [options] <profile>")
	}

	log := s.log()
	t := s.load(fs.Arg(0), log)
	defer t.Close()

	d := config.Default()
	sprites := assets.NewManager(*data).Sprites(assets.SpritePaths{
		Tank:       d.Game.Tank,
		Projectile: d.Game.Projectile,
	}, log.Named("assets"))
	tank, shell, err := sprites.Masks(&terrain.MemoryImages{})
	if err != nil {
		fail("Error building masks: %v", err)
	}

	cfg := world.DefaultConfig()
	cfg.Seed = *seed
	w := world.New(t, tank, shell, cfg, log.Named("world"))

	before := t.Grid().Count()
	for i := range *frames {
		if impact, hit := w.Update(frame); hit {
			fmt.Printf("frame %5d  impact at (%.1f, %.1f) speed %.1f radius %d\n",
				i, impact.Position.X, impact.Position.Y, impact.Speed, impact.Radius)
		}
	}

	fmt.Println()
	fmt.Printf("Impacts: %d\n", w.Impacts())
	fmt.Printf("Cells:   %d -> %d\n", before, t.Grid().Count())
	fmt.Printf("Tank:    (%.1f, %.1f) landed=%v\n", w.Tank().Position.X, w.Tank().Position.Y, w.Tank().Landed)
	if *out != "" {
		writeImage(t, *out)
	}
}

func cmdBomb(args []string) {
	fs := flag.NewFlagSet("bomb", flag.ExitOnError)
	s := sceneFlags(fs)
	limit := fs.Int("frames", 6000, "Give up settling after this many frames")
	out := fs.String("o", "", "Write the settled terrain to this PNG or BMP")
	fs.Parse(args)

	if fs.NArg() < 4 {
		fail("Usage: terraintool bomb [options] <profile> <x> <y> <radius>")
	}
	var x, y float32
	var r int
	if _, err := fmt.Sscan(fs.Arg(1), &x); err != nil {
		fail("Bad x: %v", err)
	}
	if _, err := fmt.Sscan(fs.Arg(2), &y); err != nil {
		fail("Bad y: %v", err)
	}
	if _, err := fmt.Sscan(fs.Arg(3), &r); err != nil {
		fail("Bad radius: %v", err)
	}

	t := s.load(fs.Arg(0), s.log())
	defer t.Close()

	before := t.Grid().Count()
	t.Deform(math.Vec3{X: x, Y: y}, r)
	blasted := t.Grid().Count()
	d := t.LastDeform()

	frames := 0
	for frames < *limit && t.Slide(frame) {
		frames++
	}

	fmt.Printf("Crater:  (%.1f, %.1f) radius %d\n", d.Center.X, d.Center.Y, d.Radius)
	fmt.Printf("Cleared: %d cells\n", before-blasted)
	if frames >= *limit {
		fmt.Printf("Settle:  still moving after %d frames\n", frames)
	} else {
		fmt.Printf("Settle:  %d frames (%.2fs)\n", frames, float32(frames)*frame)
	}
	if *out != "" {
		writeImage(t, *out)
	}
}

func cmdCompact(args []string) {
	fs := flag.NewFlagSet("compact", flag.ExitOnError)
	s := sceneFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fail("Usage: terraintool compact <profile>")
	}

	t := s.load(fs.Arg(0), s.log())
	defer t.Close()
	fmt.Println(t.Grid().Profile().String())
}
