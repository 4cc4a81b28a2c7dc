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

// Package dkong wires a Z80 main CPU and an I8035 sound CPU into the
// Nintendo Donkey Kong bus map: ROM/RAM/sprite-RAM/VRAM, an 8257 DMA
// controller used for the sprite-RAM refresh copy, a 74LS259 sound
// control latch, and the sound CPU's paged tune-ROM access through P2.
package dkong

import (
	"github.com/master-g/corecade/bus"
	"github.com/master-g/corecade/corelog"
	"github.com/master-g/corecade/cpu/i8035"
	"github.com/master-g/corecade/cpu/z80"
	"github.com/master-g/corecade/dma/i8257"
	"github.com/master-g/corecade/machine"
	"github.com/master-g/corecade/romimage"
)

// Timing: 61.44 MHz master clock / 20 = 3.072 MHz main CPU clock.
// Sound CPU: 6 MHz / 15 = 400 kHz machine cycles, driven off the main
// clock by a 25/192 Bresenham ratio (400000/3072000 reduced).
const (
	cyclesPerScanline = 192
	visibleLines      = 240
	totalLines        = 264
	cyclesPerFrame    = totalLines * cyclesPerScanline
	cpuClockHz        = 3_072_000
	outputSampleRate  = 44100

	soundTickNum = 25
	soundTickDen = 192

	nativeWidth  = 256
	nativeHeight = 240
	vblankEnd    = 16
	screenWidth  = nativeHeight - vblankEnd // 224
	screenHeight = nativeWidth              // 256
)

// Logical input button IDs (active-high on real hardware).
const (
	InputP1Right = iota
	InputP1Left
	InputP1Up
	InputP1Down
	InputP1Jump
	InputP1Start
	InputP2Start
	InputCoin
	InputP2Right
	InputP2Left
	InputP2Up
	InputP2Down
	InputP2Jump
)

var inputMap = []machine.InputButton{
	{ID: InputP1Right, Name: "P1 Right"},
	{ID: InputP1Left, Name: "P1 Left"},
	{ID: InputP1Up, Name: "P1 Up"},
	{ID: InputP1Down, Name: "P1 Down"},
	{ID: InputP1Jump, Name: "P1 Jump"},
	{ID: InputP1Start, Name: "P1 Start"},
	{ID: InputP2Start, Name: "P2 Start"},
	{ID: InputCoin, Name: "Coin"},
	{ID: InputP2Right, Name: "P2 Right"},
	{ID: InputP2Left, Name: "P2 Left"},
	{ID: InputP2Up, Name: "P2 Up"},
	{ID: InputP2Down, Name: "P2 Down"},
	{ID: InputP2Jump, Name: "P2 Jump"},
}

// ProgramROM, SoundROM, TuneROM, TileROM, SpriteROM and PaletteProms
// declare the chip layout a loader assembles before calling LoadROMs.
var (
	ProgramROM = romimage.Region{
		TotalSize: 0x4000,
		Chips: []romimage.Chip{
			{Name: "c_5et_g.bin", Size: 0x1000, Offset: 0x0000, CRC32: []uint32{0xba70b88b}},
			{Name: "c_5ct_g.bin", Size: 0x1000, Offset: 0x1000, CRC32: []uint32{0x5ec461ec}},
			{Name: "c_5bt_g.bin", Size: 0x1000, Offset: 0x2000, CRC32: []uint32{0x1c97d324}},
			{Name: "c_5at_g.bin", Size: 0x1000, Offset: 0x3000, CRC32: []uint32{0xb9005ac0}},
		},
	}
	SoundROM = romimage.Region{
		TotalSize: 0x0800,
		Chips:     []romimage.Chip{{Name: "s_3i_b.bin", Size: 0x0800, Offset: 0x0000, CRC32: []uint32{0x45a4ed06}}},
	}
	TuneROM = romimage.Region{
		TotalSize: 0x0800,
		Chips:     []romimage.Chip{{Name: "s_3j_b.bin", Size: 0x0800, Offset: 0x0000, CRC32: []uint32{0x4743fe92}}},
	}
	TileROM = romimage.Region{
		TotalSize: 0x1000,
		Chips: []romimage.Chip{
			{Name: "v_5h_b.bin", Size: 0x0800, Offset: 0x0000, CRC32: []uint32{0x12c8c95d}},
			{Name: "v_3pt.bin", Size: 0x0800, Offset: 0x0800, CRC32: []uint32{0x15e9c5e9}},
		},
	}
	SpriteROM = romimage.Region{
		TotalSize: 0x2000,
		Chips: []romimage.Chip{
			{Name: "l_4m_b.bin", Size: 0x0800, Offset: 0x0000, CRC32: []uint32{0x59f8054d}},
			{Name: "l_4n_b.bin", Size: 0x0800, Offset: 0x0800, CRC32: []uint32{0x672e4714}},
			{Name: "l_4r_b.bin", Size: 0x0800, Offset: 0x1000, CRC32: []uint32{0xfeaa59ee}},
			{Name: "l_4s_b.bin", Size: 0x0800, Offset: 0x1800, CRC32: []uint32{0x20f2ef7e}},
		},
	}
	PaletteProms = romimage.Region{
		TotalSize: 0x0300,
		Chips: []romimage.Chip{
			{Name: "c-2k.bpr", Size: 0x0100, Offset: 0x0000, CRC32: []uint32{0xe273ede5}},
			{Name: "c-2j.bpr", Size: 0x0100, Offset: 0x0100, CRC32: []uint32{0xd6412358}},
			{Name: "v-5e.bpr", Size: 0x0100, Offset: 0x0200, CRC32: []uint32{0xb869b8f5}},
		},
	}
)

// DonkeyKong is the Nintendo Donkey Kong arcade system: a Z80 main CPU,
// an I8035 sound CPU, an 8257 DMA controller used for sprite-RAM
// refresh, and a discrete+DAC audio mix.
type DonkeyKong struct {
	cpu      *z80.CPU
	soundCPU *i8035.CPU

	rom       [0x4000]uint8
	ram       [0x0C00]uint8
	spriteRAM [0x0400]uint8
	videoRAM  [0x0400]uint8

	soundROM [0x1000]uint8
	tuneROM  [0x0800]uint8

	tileROM   [0x1000]uint8
	spriteROM [0x2000]uint8

	paletteProm [0x0200]uint8
	colorProm   [0x0100]uint8
	paletteRGB  [256][3]uint8

	scanlineBuffer [nativeWidth * nativeHeight * 3]uint8

	in0, in1, in2, dsw0 uint8

	soundLatch  uint8
	soundCtrl   machine.Latch8 // bits 0-2 forwarded to discrete, full byte read back
	flipScreen  bool
	spriteBank  bool
	nmiMask     bool
	paletteBank uint8

	dma *i8257.Controller

	soundIRQPending bool
	vblankNMI       bool

	dac      dkongDac
	discrete dkongDiscrete

	soundPhaseAccum int
	audioClock      machine.BresenhamAccumulator
	sampleAcc       int32
	sampleN         int32
	audioBuf        []int16

	clock uint64
}

// New constructs a Donkey Kong system with both CPUs reset; call
// LoadROMs before RunFrame.
func New() *DonkeyKong {
	d := &DonkeyKong{
		cpu:        z80.New(),
		soundCPU:   i8035.New(),
		dma:        i8257.New(),
		audioClock: *machine.NewBresenhamAccumulator(outputSampleRate, cpuClockHz),
	}
	d.dsw0 = 0x80 // upright cabinet, 3 lives, 7000 bonus, 1 coin/1 play
	return d
}

// LoadROMs installs assembled ROM/PROM images; the sound ROM is
// mirrored into the upper half of its 4KB program space exactly as the
// 3i socket is wired on real hardware.
func (d *DonkeyKong) LoadROMs(program, sound, tune, tile, sprite, palettes []byte) {
	copy(d.rom[:], program)
	copy(d.soundROM[:0x800], sound)
	copy(d.soundROM[0x800:], sound)
	copy(d.tuneROM[:], tune)
	copy(d.tileROM[:], tile)
	copy(d.spriteROM[:], sprite)
	copy(d.paletteProm[:], palettes[:0x200])
	copy(d.colorProm[:], palettes[0x200:0x300])
	d.buildPalette()
}

// buildPalette decodes the 256-entry RGB palette from the open-collector
// (inverted) palette PROMs using the Darlington (R/G) and emitter-
// follower (B) resistor networks on the TKG-04 board.
func (d *DonkeyKong) buildPalette() {
	for i := 0; i < 256; i++ {
		c2k := ^d.paletteProm[i]
		c2j := ^d.paletteProm[0x100+i]

		if i&0x03 == 0 {
			d.paletteRGB[i] = [3]uint8{0, 0, 0}
			continue
		}

		r := darlington3((c2j>>1)&1, (c2j>>2)&1, (c2j>>3)&1)
		g := darlington3((c2k>>2)&1, (c2k>>3)&1, c2j&1)
		b := emitter2(c2k&1, (c2k>>1)&1)
		d.paletteRGB[i] = [3]uint8{r, g, b}
	}
}

func darlington3(b0, b1, b2 uint8) uint8 {
	const w0, w1, w2 = 1.0 / 1000.0, 1.0 / 470.0, 1.0 / 220.0
	const wPull = 1.0 / 470.0
	active := float64(b0)*w0 + float64(b1)*w1 + float64(b2)*w2
	total := active + wPull
	return uint8(active / total * 255.0 + 0.5)
}

func emitter2(b0, b1 uint8) uint8 {
	const w0, w1 = 1.0 / 470.0, 1.0 / 220.0
	const wPull = 1.0 / 680.0
	active := float64(b0)*w0 + float64(b1)*w1
	total := active + wPull
	return uint8(active / total * 255.0 + 0.5)
}

func (d *DonkeyKong) decodeTilePixel(tileCode uint16, px, py uint8) uint8 {
	off := int(tileCode)*8 + int(py)
	p0 := d.tileROM[off]
	p1 := d.tileROM[0x800+off]
	mask := uint8(0x80) >> px
	var v uint8
	if p0&mask != 0 {
		v |= 1
	}
	if p1&mask != 0 {
		v |= 2
	}
	return v
}

func (d *DonkeyKong) decodeSpritePixel(code uint16, px, py uint8) uint8 {
	base := int(code)*16 + int(py)
	var p0Addr, p1Addr int
	if px < 8 {
		p0Addr, p1Addr = base, 0x1000+base
	} else {
		p0Addr, p1Addr = 0x0800+base, 0x1800+base
	}
	mask := uint8(0x80) >> (px & 7)
	var v uint8
	if d.spriteROM[p0Addr]&mask != 0 {
		v |= 1
	}
	if d.spriteROM[p1Addr]&mask != 0 {
		v |= 2
	}
	return v
}

func (d *DonkeyKong) resolveColor(color, pixelValue uint8) [3]uint8 {
	idx := (int(color)&0x3F)*4 + int(pixelValue&0x03)
	return d.paletteRGB[idx&0xFF]
}

func (d *DonkeyKong) renderScanline(scanline int) {
	rowOffset := scanline * nativeWidth * 3

	tileRow := scanline / 8
	py := uint8(scanline % 8)
	for tileCol := 0; tileCol < 32; tileCol++ {
		vramOff := tileRow*32 + tileCol
		tileCode := uint16(d.videoRAM[vramOff])
		attribute := (d.colorProm[tileCol+32*(tileRow/4)] & 0x0F) + 0x10*d.paletteBank

		for px := uint8(0); px < 8; px++ {
			screenX := tileCol*8 + int(px)
			pv := d.decodeTilePixel(tileCode, px, py)
			c := d.resolveColor(attribute, pv)
			off := rowOffset + screenX*3
			d.scanlineBuffer[off] = c[0]
			d.scanlineBuffer[off+1] = c[1]
			d.scanlineBuffer[off+2] = c[2]
		}
	}

	spriteBase := 0
	if d.spriteBank {
		spriteBase = 0x200
	}
	for offs := spriteBase; offs < spriteBase+0x200; offs += 4 {
		yByte := d.spriteRAM[offs]
		codeByte := d.spriteRAM[offs+1]
		attrByte := d.spriteRAM[offs+2]
		xByte := d.spriteRAM[offs+3]

		test := yByte + 0xF9 + uint8(scanline)
		if test&0xF0 != 0xF0 {
			continue
		}
		rowInSprite := test & 0x0F

		code := uint16(codeByte&0x7F) | (uint16(attrByte&0x40) << 1)
		flipY := codeByte&0x80 != 0
		flipX := attrByte&0x80 != 0
		colorAttr := (attrByte & 0x0F) + 0x10*d.paletteBank

		srcPy := rowInSprite
		if flipY {
			srcPy = 15 - rowInSprite
		}

		spriteX := int(xByte) + 0xF8

		drawRow := func(baseX int) {
			for px := 0; px < 16; px++ {
				drawX := (baseX + px) & 0xFF
				if drawX >= nativeWidth {
					continue
				}
				srcPx := uint8(px)
				if flipX {
					srcPx = 15 - uint8(px)
				}
				pv := d.decodeSpritePixel(code, srcPx, srcPy)
				if pv == 0 {
					continue
				}
				c := d.resolveColor(colorAttr, pv)
				off := rowOffset + drawX*3
				d.scanlineBuffer[off] = c[0]
				d.scanlineBuffer[off+1] = c[1]
				d.scanlineBuffer[off+2] = c[2]
			}
		}
		drawRow(spriteX)
		if spriteX >= 240 {
			for px := 0; px < 16; px++ {
				drawX := spriteX + px - 256
				if drawX < 0 || drawX >= nativeWidth {
					continue
				}
				srcPx := uint8(px)
				if flipX {
					srcPx = 15 - uint8(px)
				}
				pv := d.decodeSpritePixel(code, srcPx, srcPy)
				if pv == 0 {
					continue
				}
				c := d.resolveColor(colorAttr, pv)
				off := rowOffset + drawX*3
				d.scanlineBuffer[off] = c[0]
				d.scanlineBuffer[off+1] = c[1]
				d.scanlineBuffer[off+2] = c[2]
			}
		}
	}
}

// Tick advances the main Z80 by one bus cycle, the sound I8035 by its
// Bresenham-scheduled share, and accumulates one audio sample.
func (d *DonkeyKong) Tick() {
	frameCycle := d.clock % cyclesPerFrame

	if frameCycle%cyclesPerScanline == 0 {
		scanline := frameCycle / cyclesPerScanline
		if scanline < visibleLines {
			d.renderScanline(int(scanline))
		}
	}

	if frameCycle == visibleLines*cyclesPerScanline {
		d.vblankNMI = true
	}
	if frameCycle == 0 && d.clock > 0 {
		d.vblankNMI = false
	}

	d.cpu.TickWithBus(d, bus.Cpu(0))

	d.soundPhaseAccum += soundTickNum
	if d.soundPhaseAccum >= soundTickDen {
		d.soundPhaseAccum -= soundTickDen
		d.soundCPU.SignalExternalIRQ(d.CheckInterrupts(bus.Cpu(1)).IRQ)
		d.soundCPU.TickWithBus(d, bus.Cpu(1))
	}

	d.sampleAcc += int32(d.dac.sample())
	d.sampleN++
	if d.audioClock.Step() {
		var dacSample int32
		if d.sampleN > 0 {
			dacSample = d.sampleAcc / d.sampleN
		}
		mixed := dacSample + int32(d.discrete.sample())
		if mixed > 32767 {
			mixed = 32767
		}
		if mixed < -32768 {
			mixed = -32768
		}
		d.audioBuf = append(d.audioBuf, int16(mixed))
		d.sampleAcc = 0
		d.sampleN = 0
	}

	d.clock++
}

// --- bus.Bus ---

func (d *DonkeyKong) Read(master bus.Master, addr uint16) uint8 {
	if master.Kind == bus.KindCPU && master.Index == 1 {
		return d.soundROM[addr&0x0FFF]
	}
	switch {
	case addr < 0x4000:
		return d.rom[addr]
	case addr >= 0x6000 && addr < 0x6C00:
		return d.ram[addr-0x6000]
	case addr >= 0x7000 && addr < 0x7400:
		return d.spriteRAM[addr-0x7000]
	case addr >= 0x7400 && addr < 0x7800:
		return d.videoRAM[addr-0x7400]
	case addr >= 0x7800 && addr <= 0x7808:
		return d.dma.Read(uint8(addr - 0x7800))
	case addr == 0x7C00:
		return d.in0
	case addr == 0x7C80:
		return d.in1
	case addr == 0x7D00:
		soundStatus := uint8(0x40)
		if d.soundCPU.P2&0x10 != 0 {
			soundStatus = 0x00
		}
		return (d.in2 &^ 0x40) | soundStatus
	case addr == 0x7D80:
		return d.dsw0
	default:
		corelog.Logf("dkong: read from unmapped address 0x%04X", addr)
		return 0x00
	}
}

func (d *DonkeyKong) Write(master bus.Master, addr uint16, data uint8) {
	if master.Kind == bus.KindCPU && master.Index == 1 {
		return // sound CPU's program memory is ROM
	}
	switch {
	case addr >= 0x6000 && addr < 0x6C00:
		d.ram[addr-0x6000] = data
	case addr >= 0x7000 && addr < 0x7400:
		d.spriteRAM[addr-0x7000] = data
	case addr >= 0x7400 && addr < 0x7800:
		d.videoRAM[addr-0x7400] = data
	case addr >= 0x7800 && addr <= 0x7808:
		d.dma.Write(uint8(addr-0x7800), data)
	case addr == 0x7C00:
		d.soundLatch = data
	case addr >= 0x7D00 && addr <= 0x7D07:
		bit := int(addr & 0x07)
		d.soundCtrl.Write(bit, data)
		if bit < 3 {
			d.discrete.writeLatch(bit, data&1 != 0)
		}
	case addr == 0x7D80:
		d.soundIRQPending = data != 0
	case addr == 0x7D82:
		d.flipScreen = data&1 != 0
	case addr == 0x7D83:
		d.spriteBank = data&1 != 0
	case addr == 0x7D84:
		d.nmiMask = data&1 != 0
		if !d.nmiMask {
			d.vblankNMI = false
		}
	case addr == 0x7D85:
		d.triggerSpriteDma()
	case addr == 0x7D86:
		if data&1 != 0 {
			d.paletteBank |= 0x01
		} else {
			d.paletteBank &^= 0x01
		}
	case addr == 0x7D87:
		if data&1 != 0 {
			d.paletteBank |= 0x02
		} else {
			d.paletteBank &^= 0x02
		}
	default:
		corelog.Logf("dkong: write 0x%02X to unmapped address 0x%04X", data, addr)
	}
}

// triggerSpriteDma copies the 8257 channel 0's programmed span directly
// from ROM/work RAM into sprite RAM, matching the original's immediate
// (non-cycle-metered) handling of this particular DMA trigger.
func (d *DonkeyKong) triggerSpriteDma() {
	srcAddr := d.dma.ChannelAddress(0)
	count := (d.dma.ChannelCount(0) & 0x3FFF) + 1
	if int(count) > len(d.spriteRAM) {
		count = uint16(len(d.spriteRAM))
	}
	for i := uint16(0); i < count; i++ {
		addr := srcAddr + i
		var b uint8
		switch {
		case addr < 0x4000:
			b = d.rom[addr]
		case addr >= 0x6000 && addr < 0x6C00:
			b = d.ram[addr-0x6000]
		}
		d.spriteRAM[i] = b
	}
}

func (d *DonkeyKong) IORead(master bus.Master, addr uint16) uint8 {
	if master.Kind != bus.KindCPU || master.Index != 1 {
		return 0xFF
	}
	switch {
	case addr <= 0x100:
		if d.soundCPU.P2&0x40 != 0 {
			return (d.soundLatch & 0x0F) ^ 0x0F
		}
		bank := int(d.soundCPU.P2 & 0x07)
		offset := int(addr & 0xFF)
		romAddr := bank*256 + offset
		if romAddr < len(d.tuneROM) {
			return d.tuneROM[romAddr]
		}
		return 0xFF
	case addr == i8035.PortP1:
		return d.soundCPU.P1
	case addr == i8035.PortP2:
		val := d.soundCPU.P2
		val &^= 0x20
		if d.soundCtrl.Get(3) {
			val |= 0x20
		}
		return val ^ 0x20
	case addr == i8035.PortT0:
		if d.soundCtrl.Get(5) {
			return 0
		}
		return 1
	case addr == i8035.PortT1:
		if d.soundCtrl.Get(4) {
			return 0
		}
		return 1
	default:
		return 0xFF
	}
}

func (d *DonkeyKong) IOWrite(master bus.Master, addr uint16, data uint8) {
	if master.Kind != bus.KindCPU || master.Index != 1 {
		return
	}
	switch addr {
	case i8035.PortP1:
		d.dac.write(data)
	}
}

func (d *DonkeyKong) IsHaltedFor(master bus.Master) bool { return false }

func (d *DonkeyKong) CheckInterrupts(target bus.Master) bus.InterruptState {
	if target.Kind == bus.KindCPU && target.Index == 1 {
		return bus.InterruptState{IRQ: d.soundIRQPending}
	}
	return bus.InterruptState{NMI: d.vblankNMI && d.nmiMask}
}

// --- machine.Machine ---

func (d *DonkeyKong) DisplaySize() (int, int) { return screenWidth, screenHeight }

func (d *DonkeyKong) RunFrame() {
	for i := 0; i < cyclesPerFrame; i++ {
		d.Tick()
	}
}

// RenderFrame rotates the native 256x240 scanline buffer 90 degrees
// clockwise and clips the 16-line VBLANK band into the
// 224x256 output buffer.
func (d *DonkeyKong) RenderFrame(buf []byte) {
	const outW = screenWidth
	for oy := 0; oy < screenHeight; oy++ {
		for ox := 0; ox < outW; ox++ {
			nx := oy
			ny := nativeHeight - 1 - ox
			src := (ny*nativeWidth + nx) * 3
			dst := (oy*outW + ox) * 3
			buf[dst] = d.scanlineBuffer[src]
			buf[dst+1] = d.scanlineBuffer[src+1]
			buf[dst+2] = d.scanlineBuffer[src+2]
		}
	}
}

func setBitActiveHigh(reg *uint8, bit int, pressed bool) {
	if pressed {
		*reg |= 1 << uint(bit)
	} else {
		*reg &^= 1 << uint(bit)
	}
}

func (d *DonkeyKong) SetInput(id int, pressed bool) {
	switch id {
	case InputP1Right:
		setBitActiveHigh(&d.in0, 0, pressed)
	case InputP1Left:
		setBitActiveHigh(&d.in0, 1, pressed)
	case InputP1Up:
		setBitActiveHigh(&d.in0, 2, pressed)
	case InputP1Down:
		setBitActiveHigh(&d.in0, 3, pressed)
	case InputP1Jump:
		setBitActiveHigh(&d.in0, 4, pressed)
	case InputP2Right:
		setBitActiveHigh(&d.in1, 0, pressed)
	case InputP2Left:
		setBitActiveHigh(&d.in1, 1, pressed)
	case InputP2Up:
		setBitActiveHigh(&d.in1, 2, pressed)
	case InputP2Down:
		setBitActiveHigh(&d.in1, 3, pressed)
	case InputP2Jump:
		setBitActiveHigh(&d.in1, 4, pressed)
	case InputP1Start:
		setBitActiveHigh(&d.in2, 2, pressed)
	case InputP2Start:
		setBitActiveHigh(&d.in2, 3, pressed)
	case InputCoin:
		setBitActiveHigh(&d.in2, 7, pressed)
	}
}

func (d *DonkeyKong) InputMap() []machine.InputButton { return inputMap }

func (d *DonkeyKong) Reset() {
	d.cpu.Reset()
	d.cpu.PC = 0x0000
	d.soundCPU.Reset(d, bus.Cpu(1))

	d.nmiMask = false
	d.vblankNMI = false
	d.soundIRQPending = false
	d.soundLatch = 0
	d.soundCtrl.Reset()
	d.flipScreen = false
	d.spriteBank = false
	d.paletteBank = 0
	d.dma = i8257.New()

	d.clock = 0
	d.soundPhaseAccum = 0
	d.sampleAcc = 0
	d.sampleN = 0
	d.audioBuf = d.audioBuf[:0]
	d.audioClock.Reset()
	d.dac = dkongDac{}
	d.discrete = dkongDiscrete{}

	d.in0 = 0
	d.in1 = 0
	d.in2 = 0

	d.videoRAM = [0x0400]uint8{}
	d.ram = [0x0C00]uint8{}
	d.spriteRAM = [0x0400]uint8{}
	d.scanlineBuffer = [nativeWidth * nativeHeight * 3]uint8{}
}

func (d *DonkeyKong) SaveNVRAM() []byte { return nil }

func (d *DonkeyKong) LoadNVRAM(data []byte) {}

func (d *DonkeyKong) FillAudio(out []int16) int {
	n := len(out)
	if n > len(d.audioBuf) {
		n = len(d.audioBuf)
	}
	copy(out[:n], d.audioBuf[:n])
	d.audioBuf = d.audioBuf[n:]
	return n
}

func (d *DonkeyKong) AudioSampleRate() int { return outputSampleRate }

func (d *DonkeyKong) FrameRateHz() float64 { return float64(cpuClockHz) / float64(cyclesPerFrame) }
