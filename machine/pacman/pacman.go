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

// Package pacman wires a Z80 and a three-voice wavetable sound
// generator into the Namco/Midway Pac-Man bus map: 16KB program ROM,
// tile/color RAM, a 74LS259 control latch, sprite coordinate RAM, and
// the IM 2 interrupt vector latch feeding the VBlank IRQ.
package pacman

import (
	"github.com/master-g/corecade/bus"
	"github.com/master-g/corecade/corelog"
	"github.com/master-g/corecade/cpu/z80"
	"github.com/master-g/corecade/machine"
	"github.com/master-g/corecade/romimage"
)

// Timing: 18.432 MHz master clock / 6 = 3.072 MHz CPU clock. 192 CPU
// cycles per scanline, 264 scanlines per frame, 224 of them visible.
const (
	cyclesPerScanline = 192
	visibleLines      = 224
	totalLines        = 264
	cyclesPerFrame    = totalLines * cyclesPerScanline
	cpuClockHz        = 3_072_000
	outputSampleRate  = 44100

	nativeWidth  = 288
	nativeHeight = 224
	screenWidth  = 224
	screenHeight = 288
)

// Logical input button IDs, exposed through Machine.InputMap/SetInput.
const (
	InputP1Up = iota
	InputP1Left
	InputP1Right
	InputP1Down
	InputCoin
	InputP1Start
	InputP2Start
	InputP2Up
	InputP2Left
	InputP2Right
	InputP2Down
)

var inputMap = []machine.InputButton{
	{ID: InputP1Up, Name: "P1 Up"},
	{ID: InputP1Left, Name: "P1 Left"},
	{ID: InputP1Right, Name: "P1 Right"},
	{ID: InputP1Down, Name: "P1 Down"},
	{ID: InputCoin, Name: "Coin"},
	{ID: InputP1Start, Name: "P1 Start"},
	{ID: InputP2Start, Name: "P2 Start"},
	{ID: InputP2Up, Name: "P2 Up"},
	{ID: InputP2Left, Name: "P2 Left"},
	{ID: InputP2Right, Name: "P2 Right"},
	{ID: InputP2Down, Name: "P2 Down"},
}

// ProgramROM, GfxROM, ColorProms and SoundProm declare the chip layout
// a loader assembles with romimage.Assemble before calling LoadROMs.
var (
	ProgramROM = romimage.Region{
		TotalSize: 0x4000,
		Chips: []romimage.Chip{
			{Name: "pacman.6e", Size: 0x1000, Offset: 0x0000, CRC32: []uint32{0xc1e6ab10}},
			{Name: "pacman.6f", Size: 0x1000, Offset: 0x1000, CRC32: []uint32{0x1a6fb2d4}},
			{Name: "pacman.6h", Size: 0x1000, Offset: 0x2000, CRC32: []uint32{0xbcdd1beb}},
			{Name: "pacman.6j", Size: 0x1000, Offset: 0x3000, CRC32: []uint32{0x817d94e3}},
		},
	}
	GfxROM = romimage.Region{
		TotalSize: 0x2000,
		Chips: []romimage.Chip{
			{Name: "pacman.5e", Size: 0x1000, Offset: 0x0000, CRC32: []uint32{0x0c944964}},
			{Name: "pacman.5f", Size: 0x1000, Offset: 0x1000, CRC32: []uint32{0x958fedf9}},
		},
	}
	ColorProms = romimage.Region{
		TotalSize: 0x0120,
		Chips: []romimage.Chip{
			{Name: "82s123.7f", Size: 0x0020, Offset: 0x0000, CRC32: []uint32{0x2fc650bd}},
			{Name: "82s126.4a", Size: 0x0100, Offset: 0x0020, CRC32: []uint32{0x3eb3a8e4}},
		},
	}
	SoundProm = romimage.Region{
		TotalSize: 0x0100,
		Chips: []romimage.Chip{
			{Name: "82s126.1m", Size: 0x0100, Offset: 0x0000, CRC32: []uint32{0xa9cc86bf}},
		},
	}
)

// PacMan is the Namco/Midway Pac-Man arcade system: one Z80 CPU, no
// DMA hardware, rotated 288x224 native framebuffer.
type PacMan struct {
	cpu *z80.CPU

	rom          [0x4000]uint8
	videoRAM     [0x400]uint8
	colorRAM     [0x400]uint8
	ram          [0x400]uint8
	spriteCoords [0x10]uint8

	gfxROM       [0x2000]uint8
	paletteProm  [32]uint8
	colorLutProm [256]uint8
	paletteRGB   [32][3]uint8

	scanlineBuffer [nativeWidth * nativeHeight * 3]uint8

	in0, in1, dipSwitches uint8

	ctrlLatch machine.Latch8 // bit0 irq-enable, bit1 sound-enable, bit3 flip-screen

	interruptVector uint8
	vblankIRQ       bool

	sound namcoSound

	audioClock machine.BresenhamAccumulator
	sampleAcc  int32
	sampleN    int32
	audioBuf   []int16

	clock           uint64
	watchdogCounter uint32
}

// New constructs a Pac-Man system with the CPU and latches reset; call
// LoadROMs before RunFrame.
func New() *PacMan {
	p := &PacMan{
		cpu:        z80.New(),
		audioClock: *machine.NewBresenhamAccumulator(outputSampleRate, cpuClockHz),
	}
	p.in0 = 0xFF
	p.in1 = 0xFF
	p.dipSwitches = 0xC9 // 1 coin/1 credit, 3 lives, 10000 bonus, normal
	return p
}

// LoadROMs installs assembled ROM/PROM images (see romimage.Assemble)
// and derives the palette from the palette PROM.
func (p *PacMan) LoadROMs(program, gfx, paletteProm, colorLutProm, soundProm []byte) {
	copy(p.rom[:], program)
	copy(p.gfxROM[:], gfx)
	copy(p.paletteProm[:], paletteProm)
	copy(p.colorLutProm[:], colorLutProm)
	copy(p.sound.waveformRom[:], soundProm)
	p.buildPalette()
}

// buildPalette decodes the 32-entry RGB palette from the palette PROM
// using the standard 1K/470/220ohm (R,G) and 470/220ohm (B) resistor
// ladder weighting used across Midway/Namco boards of this era.
func (p *PacMan) buildPalette() {
	for i := 0; i < 32; i++ {
		e := p.paletteProm[i]
		r := combine3(e&1, (e>>1)&1, (e>>2)&1)
		g := combine3((e>>3)&1, (e>>4)&1, (e>>5)&1)
		b := combine2((e>>6)&1, (e>>7)&1)
		p.paletteRGB[i] = [3]uint8{r, g, b}
	}
}

func combine3(b0, b1, b2 uint8) uint8 {
	const w0, w1, w2 = 1.0 / 1000.0, 1.0 / 470.0, 1.0 / 220.0
	total := w0 + w1 + w2
	v := (float64(b0)*w0 + float64(b1)*w1 + float64(b2)*w2) / total
	return uint8(v*255.0 + 0.5)
}

func combine2(b0, b1 uint8) uint8 {
	const w0, w1 = 1.0 / 470.0, 1.0 / 220.0
	total := w0 + w1
	v := (float64(b0)*w0 + float64(b1)*w1) / total
	return uint8(v*255.0 + 0.5)
}

// decodeTilePixel returns a 2-bit pixel value from the tile GFX ROM.
// 8x8 tiles, 2bpp, planeoffset{0,4}, MSB-first within each byte.
func (p *PacMan) decodeTilePixel(tileCode uint16, px, py uint8) uint8 {
	base := int(tileCode) * 16
	byteOff, bit := 8, px
	if px >= 4 {
		byteOff, bit = 0, px-4
	}
	addr := base + byteOff + int(py)
	if addr >= len(p.gfxROM) {
		return 0
	}
	b := p.gfxROM[addr]
	hi := (b >> (7 - bit)) & 1
	lo := (b >> (3 - bit)) & 1
	return lo | hi<<1
}

// decodeSpritePixel returns a 2-bit pixel value from the sprite half of
// the GFX ROM (offset 0x1000). 16x16 sprites, 64 bytes each.
func (p *PacMan) decodeSpritePixel(code uint16, px, py uint8) uint8 {
	base := 0x1000 + int(code)*64
	var xOff int
	var bit uint8
	switch {
	case px <= 3:
		xOff, bit = 8, px
	case px <= 7:
		xOff, bit = 16, px-4
	case px <= 11:
		xOff, bit = 24, px-8
	default:
		xOff, bit = 0, px-12
	}
	yOff := int(py)
	if py >= 8 {
		yOff = 32 + int(py) - 8
	}
	addr := base + xOff + yOff
	if addr >= len(p.gfxROM) {
		return 0
	}
	b := p.gfxROM[addr]
	hi := (b >> (7 - bit)) & 1
	lo := (b >> (3 - bit)) & 1
	return lo | hi<<1
}

func (p *PacMan) resolveColor(attribute, pixelValue uint8) [3]uint8 {
	idx := int(attribute&0x1F)*4 + int(pixelValue)
	paletteIdx := 0
	if idx < 256 {
		paletteIdx = int(p.colorLutProm[idx] & 0x0F)
	}
	return p.paletteRGB[paletteIdx]
}

func (p *PacMan) spriteTransMask(attribute uint8) uint8 {
	base := int(attribute&0x1F) * 4
	var mask uint8
	for pv := uint8(0); pv < 4; pv++ {
		if p.colorLutProm[base+int(pv)]&0x0F == 0 {
			mask |= 1 << pv
		}
	}
	return mask
}

// tilemapOffset maps a (col,row) tile coordinate to a VRAM offset using
// Pac-Man's non-linear tilemap address scheme.
func tilemapOffset(col, row int) int {
	r := row + 2
	c := col - 2
	if c&0x20 != 0 {
		return r + (c&0x1F)<<5
	}
	return c + r<<5
}

func (p *PacMan) renderScanline(scanline int) {
	rowOffset := scanline * nativeWidth * 3
	bg := p.resolveColor(0, 0)
	for x := 0; x < nativeWidth; x++ {
		off := rowOffset + x*3
		p.scanlineBuffer[off] = bg[0]
		p.scanlineBuffer[off+1] = bg[1]
		p.scanlineBuffer[off+2] = bg[2]
	}

	tileRow := scanline / 8
	py := uint8(scanline % 8)
	for tileCol := 0; tileCol < 36; tileCol++ {
		offset := tilemapOffset(tileCol, tileRow)
		var tileCode uint16
		var attribute uint8
		if offset < 0x400 {
			tileCode = uint16(p.videoRAM[offset])
			attribute = p.colorRAM[offset]
		}
		screenX := tileCol * 8
		for px := uint8(0); px < 8; px++ {
			nx := screenX + int(px)
			pv := p.decodeTilePixel(tileCode, px, py)
			c := p.resolveColor(attribute, pv)
			off := rowOffset + nx*3
			p.scanlineBuffer[off] = c[0]
			p.scanlineBuffer[off+1] = c[1]
			p.scanlineBuffer[off+2] = c[2]
		}
	}

	const clipXMin, clipXMax = 16, 272
	y := scanline
	for pass := 0; pass < 2; pass++ {
		start, end, yOffset := 7, 3, 0
		if pass == 1 {
			start, end, yOffset = 2, 0, 1
		}
		for offs := start; ; offs-- {
			attrBase := 0x3F0 + offs*2
			coordBase := offs * 2

			b0 := p.ram[attrBase]
			b1 := p.ram[attrBase+1]

			code := uint16(b0 >> 2)
			xFlip := b0&1 != 0
			yFlip := b0&2 != 0
			attribute := b1 & 0x1F

			sx := 272 - int(p.spriteCoords[coordBase+1])
			sy := int(p.spriteCoords[coordBase]) - 31 + yOffset

			if y >= sy && y < sy+16 {
				transMask := p.spriteTransMask(attribute)
				spy := uint8(y - sy)
				srcPy := spy
				if yFlip {
					srcPy = 15 - spy
				}

				drawRow := func(baseX int) {
					for px := uint8(0); px < 16; px++ {
						drawX := baseX + int(px)
						if drawX < clipXMin || drawX >= clipXMax {
							continue
						}
						srcPx := px
						if xFlip {
							srcPx = 15 - px
						}
						pv := p.decodeSpritePixel(code, srcPx, srcPy)
						if transMask>>pv&1 != 0 {
							continue
						}
						c := p.resolveColor(attribute, pv)
						off := rowOffset + drawX*3
						p.scanlineBuffer[off] = c[0]
						p.scanlineBuffer[off+1] = c[1]
						p.scanlineBuffer[off+2] = c[2]
					}
				}
				drawRow(sx)
				sxWrap := sx - 256
				if sxWrap+16 > clipXMin && sxWrap < clipXMax {
					drawRow(sxWrap)
				}
			}

			if offs == end {
				break
			}
		}
	}
}

// Tick advances the machine by exactly one Z80 bus cycle.
func (p *PacMan) Tick() {
	frameCycle := p.clock % cyclesPerFrame

	if frameCycle%cyclesPerScanline == 0 {
		scanline := frameCycle / cyclesPerScanline
		if scanline < visibleLines {
			p.renderScanline(int(scanline))
		}
	}

	if frameCycle == visibleLines*cyclesPerScanline {
		p.vblankIRQ = true
	}

	p.sound.tick()
	if p.audioClock.Step() {
		n := p.sampleN
		if n > 0 {
			p.audioBuf = append(p.audioBuf, int16(p.sampleAcc/n))
		} else {
			p.audioBuf = append(p.audioBuf, 0)
		}
		p.sampleAcc = 0
		p.sampleN = 0
	}
	p.sampleAcc += int32(p.sound.sample())
	p.sampleN++

	p.cpu.TickWithBus(p, bus.Cpu(0))

	p.clock++
	p.watchdogCounter++
}

// --- bus.Bus ---

func (p *PacMan) Read(master bus.Master, addr uint16) uint8 {
	addr &= 0x7FFF
	switch {
	case addr < 0x4000:
		return p.rom[addr]
	case addr < 0x4400:
		return p.videoRAM[addr-0x4000]
	case addr < 0x4800:
		return p.colorRAM[addr-0x4400]
	case addr < 0x4C00:
		corelog.Logf("pacman: read from unmapped bus float region at 0x%04X", addr)
		return 0xBF // bus float
	case addr < 0x5000:
		return p.ram[addr-0x4C00]
	case addr <= 0x503F:
		return p.in0
	case addr <= 0x507F:
		return p.in1
	case addr <= 0x50BF:
		return p.dipSwitches
	case addr <= 0x50FF:
		return 0xFF
	default:
		corelog.Logf("pacman: read from unmapped address 0x%04X", addr)
		return 0xFF
	}
}

func (p *PacMan) Write(master bus.Master, addr uint16, data uint8) {
	addr &= 0x7FFF
	switch {
	case addr < 0x4000:
		// ROM: ignored
	case addr < 0x4400:
		p.videoRAM[addr-0x4000] = data
	case addr < 0x4800:
		p.colorRAM[addr-0x4400] = data
	case addr >= 0x4C00 && addr < 0x5000:
		p.ram[addr-0x4C00] = data
	case addr >= 0x5000 && addr <= 0x5007:
		bit := int(addr & 7)
		p.ctrlLatch.Write(bit, data)
		switch bit {
		case 0:
			if !p.ctrlLatch.Get(0) {
				p.vblankIRQ = false
			}
		}
	case addr >= 0x5040 && addr <= 0x505F:
		p.sound.writeRegister(uint8(addr-0x5040), data)
	case addr >= 0x5060 && addr <= 0x506F:
		p.spriteCoords[addr-0x5060] = data
	case addr >= 0x50C0 && addr <= 0x50FF:
		p.watchdogCounter = 0
	}
}

func (p *PacMan) IORead(master bus.Master, addr uint16) uint8 { return 0xFF }

func (p *PacMan) IOWrite(master bus.Master, addr uint16, data uint8) {
	if addr&0xFF == 0x00 {
		p.interruptVector = data
	}
}

func (p *PacMan) IsHaltedFor(master bus.Master) bool { return false }

func (p *PacMan) CheckInterrupts(target bus.Master) bus.InterruptState {
	return bus.InterruptState{
		IRQ:       p.vblankIRQ && p.ctrlLatch.Get(0),
		IRQVector: p.interruptVector,
	}
}

// --- machine.Machine ---

func (p *PacMan) DisplaySize() (int, int) { return screenWidth, screenHeight }

func (p *PacMan) RunFrame() {
	for i := 0; i < cyclesPerFrame; i++ {
		p.Tick()
	}
}

// RenderFrame rotates the native 288x224 scanline buffer 90 degrees
// clockwise into the 224x288 output buffer.
func (p *PacMan) RenderFrame(buf []byte) {
	const outW = screenWidth
	for oy := 0; oy < screenHeight; oy++ {
		for ox := 0; ox < outW; ox++ {
			nx := oy
			ny := 223 - ox
			src := (ny*nativeWidth + nx) * 3
			dst := (oy*outW + ox) * 3
			buf[dst] = p.scanlineBuffer[src]
			buf[dst+1] = p.scanlineBuffer[src+1]
			buf[dst+2] = p.scanlineBuffer[src+2]
		}
	}
}

func setBitActiveLow(reg *uint8, bit int, pressed bool) {
	if pressed {
		*reg &^= 1 << uint(bit)
	} else {
		*reg |= 1 << uint(bit)
	}
}

func (p *PacMan) SetInput(id int, pressed bool) {
	switch id {
	case InputP1Up:
		setBitActiveLow(&p.in0, 0, pressed)
	case InputP1Left:
		setBitActiveLow(&p.in0, 1, pressed)
	case InputP1Right:
		setBitActiveLow(&p.in0, 2, pressed)
	case InputP1Down:
		setBitActiveLow(&p.in0, 3, pressed)
	case InputCoin:
		setBitActiveLow(&p.in0, 5, pressed)
	case InputP2Up:
		setBitActiveLow(&p.in1, 0, pressed)
	case InputP2Left:
		setBitActiveLow(&p.in1, 1, pressed)
	case InputP2Right:
		setBitActiveLow(&p.in1, 2, pressed)
	case InputP2Down:
		setBitActiveLow(&p.in1, 3, pressed)
	case InputP1Start:
		setBitActiveLow(&p.in1, 5, pressed)
	case InputP2Start:
		setBitActiveLow(&p.in1, 6, pressed)
	}
}

func (p *PacMan) InputMap() []machine.InputButton { return inputMap }

func (p *PacMan) Reset() {
	p.cpu.Reset()
	p.cpu.PC = 0x0000
	p.ctrlLatch.Reset()
	p.interruptVector = 0
	p.vblankIRQ = false
	p.clock = 0
	p.watchdogCounter = 0
	p.in0 = 0xFF
	p.in1 = 0xFF
	p.videoRAM = [0x400]uint8{}
	p.colorRAM = [0x400]uint8{}
	p.ram = [0x400]uint8{}
	p.spriteCoords = [0x10]uint8{}
	p.scanlineBuffer = [nativeWidth * nativeHeight * 3]uint8{}
	p.sound = namcoSound{waveformRom: p.sound.waveformRom}
	p.audioClock.Reset()
	p.sampleAcc = 0
	p.sampleN = 0
	p.audioBuf = p.audioBuf[:0]
	// ROM, GFX, PROMs, palette are retained.
}

func (p *PacMan) SaveNVRAM() []byte { return nil }

func (p *PacMan) LoadNVRAM(data []byte) {}

func (p *PacMan) FillAudio(out []int16) int {
	n := len(out)
	if n > len(p.audioBuf) {
		n = len(p.audioBuf)
	}
	copy(out[:n], p.audioBuf[:n])
	p.audioBuf = p.audioBuf[n:]
	return n
}

func (p *PacMan) AudioSampleRate() int { return outputSampleRate }

func (p *PacMan) FrameRateHz() float64 { return float64(cpuClockHz) / float64(cyclesPerFrame) }
