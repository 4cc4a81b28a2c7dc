// Copyright © 2019 mg
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// corecade is a headless frame-runner: it loads ROM chip files for one
// machine, steps it a fixed number of frames, and optionally writes the
// final frame to a PNG and NVRAM to a file. It does not open a window or
// play audio.
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"sort"

	"gopkg.in/urfave/cli.v2"

	"github.com/master-g/corecade/corelog"
	"github.com/master-g/corecade/machine"
	"github.com/master-g/corecade/machine/dkong"
	"github.com/master-g/corecade/machine/pacman"
	"github.com/master-g/corecade/romimage"
)

type stdLogger struct{ l *log.Logger }

func (s stdLogger) Log(msg string) { s.l.Println(msg) }

func main() {
	app := &cli.App{
		Name:    "corecade",
		Usage:   "run a machine headlessly for a fixed number of frames",
		Version: "v0.0.1",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "machine",
				Aliases: []string{"m"},
				Usage:   "machine to run (pacman, dkong)",
				Value:   "pacman",
			},
			&cli.StringFlag{
				Name:    "roms",
				Aliases: []string{"r"},
				Usage:   "directory containing the machine's ROM chip files, named exactly as declared",
			},
			&cli.IntFlag{
				Name:    "frames",
				Aliases: []string{"f"},
				Usage:   "number of frames to run",
				Value:   60,
			},
			&cli.StringFlag{
				Name:  "nvram-in",
				Usage: "NVRAM file to load before running, if any",
			},
			&cli.StringFlag{
				Name:  "nvram-out",
				Usage: "path to write NVRAM after running, if any",
			},
			&cli.StringFlag{
				Name:  "snapshot",
				Usage: "path to write the final frame as a PNG, if any",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "enable corelog tracing to stderr",
			},
		},
		Action: run,
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Bool("trace") {
		corelog.SetLogger(stdLogger{l: log.New(os.Stderr, "corecade: ", log.LstdFlags)})
		corelog.SetEnable(true)
	}

	romDir := c.String("roms")
	if romDir == "" {
		return cli.Exit("--roms is required", 86)
	}

	m, err := loadMachine(c.String("machine"), romDir)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if p := c.String("nvram-in"); p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			return cli.Exit(fmt.Errorf("reading nvram: %w", err).Error(), 1)
		}
		m.LoadNVRAM(data)
	}

	frames := c.Int("frames")
	for i := 0; i < frames; i++ {
		m.RunFrame()
	}

	if p := c.String("nvram-out"); p != "" {
		if data := m.SaveNVRAM(); data != nil {
			if err := os.WriteFile(p, data, 0644); err != nil {
				return cli.Exit(fmt.Errorf("writing nvram: %w", err).Error(), 1)
			}
		}
	}

	if p := c.String("snapshot"); p != "" {
		if err := writeSnapshot(m, p); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}

	fmt.Printf("ran %d frames at %.2f Hz\n", frames, m.FrameRateHz())
	return nil
}

func writeSnapshot(m machine.Machine, path string) error {
	w, h := m.DisplaySize()
	buf := make([]byte, w*h*3)
	m.RenderFrame(buf)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := (y*w + x) * 3
			img.Set(x, y, color.RGBA{R: buf[off], G: buf[off+1], B: buf[off+2], A: 255})
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("opening snapshot file: %w", err)
	}
	defer f.Close()
	return png.Encode(f, img)
}

// chipFiles reads every Chip in regions from dir, keyed by Chip.Name,
// the shape romimage.Assemble expects.
func chipFiles(dir string, regions ...romimage.Region) (map[string][]byte, error) {
	data := make(map[string][]byte)
	for _, region := range regions {
		for _, chip := range region.Chips {
			if _, ok := data[chip.Name]; ok {
				continue
			}
			b, err := os.ReadFile(dir + "/" + chip.Name)
			if err != nil {
				return nil, fmt.Errorf("reading chip %q: %w", chip.Name, err)
			}
			data[chip.Name] = b
		}
	}
	return data, nil
}

func loadMachine(name, romDir string) (machine.Machine, error) {
	switch name {
	case "pacman":
		return loadPacman(romDir)
	case "dkong":
		return loadDonkeyKong(romDir)
	default:
		return nil, fmt.Errorf("unknown machine %q (want pacman or dkong)", name)
	}
}

func loadPacman(romDir string) (machine.Machine, error) {
	files, err := chipFiles(romDir, pacman.ProgramROM, pacman.GfxROM, pacman.ColorProms, pacman.SoundProm)
	if err != nil {
		return nil, err
	}
	prog, err := romimage.Assemble(pacman.ProgramROM, files)
	if err != nil {
		return nil, fmt.Errorf("assembling program rom: %w", err)
	}
	gfx, err := romimage.Assemble(pacman.GfxROM, files)
	if err != nil {
		return nil, fmt.Errorf("assembling gfx rom: %w", err)
	}
	colors, err := romimage.Assemble(pacman.ColorProms, files)
	if err != nil {
		return nil, fmt.Errorf("assembling color proms: %w", err)
	}
	sound, err := romimage.Assemble(pacman.SoundProm, files)
	if err != nil {
		return nil, fmt.Errorf("assembling sound prom: %w", err)
	}

	p := pacman.New()
	p.LoadROMs(prog, gfx, colors[:0x20], colors[0x20:], sound)
	p.Reset()
	return p, nil
}

func loadDonkeyKong(romDir string) (machine.Machine, error) {
	files, err := chipFiles(romDir,
		dkong.ProgramROM, dkong.SoundROM, dkong.TuneROM,
		dkong.TileROM, dkong.SpriteROM, dkong.PaletteProms)
	if err != nil {
		return nil, err
	}

	assemble := func(region romimage.Region) ([]byte, error) {
		return romimage.Assemble(region, files)
	}

	prog, err := assemble(dkong.ProgramROM)
	if err != nil {
		return nil, fmt.Errorf("assembling program rom: %w", err)
	}
	sound, err := assemble(dkong.SoundROM)
	if err != nil {
		return nil, fmt.Errorf("assembling sound rom: %w", err)
	}
	tune, err := assemble(dkong.TuneROM)
	if err != nil {
		return nil, fmt.Errorf("assembling tune rom: %w", err)
	}
	tile, err := assemble(dkong.TileROM)
	if err != nil {
		return nil, fmt.Errorf("assembling tile rom: %w", err)
	}
	sprite, err := assemble(dkong.SpriteROM)
	if err != nil {
		return nil, fmt.Errorf("assembling sprite rom: %w", err)
	}
	palettes, err := assemble(dkong.PaletteProms)
	if err != nil {
		return nil, fmt.Errorf("assembling palette proms: %w", err)
	}

	d := dkong.New()
	d.LoadROMs(prog, sound, tune, tile, sprite, palettes)
	d.Reset()
	return d, nil
}
