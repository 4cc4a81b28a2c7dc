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

// Package blitter implements the Williams Special Chip (SC1/SC2) block
// copy/fill engine used on second-generation Williams boards (Joust,
// Robotron 2084, Bubbles, Sinistar). It shares the system bus with the
// CPU, which is halted for the duration of a blit.
package blitter

import "github.com/master-g/corecade/bus"

// Control byte bit positions, written to register offset 0.
const (
	CtrlSrcStride256   uint8 = 0x01
	CtrlDstStride256   uint8 = 0x02
	CtrlSlow           uint8 = 0x04
	CtrlForegroundOnly uint8 = 0x08
	CtrlSolid          uint8 = 0x10
	CtrlShift          uint8 = 0x20
	CtrlNoOdd          uint8 = 0x40
	CtrlNoEven         uint8 = 0x80
)

// Blitter is the 8-register write-only blit engine. Registers retain
// their values across blits; writing offset 0 triggers a transfer using
// whatever the other seven registers currently hold.
type Blitter struct {
	control     uint8
	solidColor  uint8
	srcAddr     uint16
	dstAddr     uint16
	width       uint8
	height      uint8

	sizeXor uint8 // 4 on SC1 (the XOR-4 width/height bug), 0 on SC2

	active   bool
	x        uint16
	w        uint16
	h        uint16
	rowsDone uint16
	sstart   uint16
	dstart   uint16
	curSrc   uint16
	curDst   uint16
	sxadv    uint16
	dxadv    uint16
	shiftReg uint8
}

// SC1 returns a blitter with the VL2001's XOR-4 width/height bug.
func SC1() *Blitter { return &Blitter{sizeXor: 4} }

// SC2 returns a VL2001A blitter with the XOR-4 bug fixed.
func SC2() *Blitter { return &Blitter{sizeXor: 0} }

// IsActive reports whether a blit is in progress; the owning machine
// should hold the CPU off the bus for as long as this is true.
func (bl *Blitter) IsActive() bool { return bl.active }

// WriteRegister writes one of the 8 write-only registers at offsets
// 0-7. Writing offset 0 (control) both sets the control byte and
// triggers the blit.
func (bl *Blitter) WriteRegister(offset uint8, data uint8) {
	switch offset {
	case 0:
		bl.control = data
		bl.startBlit()
	case 1:
		bl.solidColor = data
	case 2:
		bl.srcAddr = (bl.srcAddr & 0x00FF) | uint16(data)<<8
	case 3:
		bl.srcAddr = (bl.srcAddr & 0xFF00) | uint16(data)
	case 4:
		bl.dstAddr = (bl.dstAddr & 0x00FF) | uint16(data)<<8
	case 5:
		bl.dstAddr = (bl.dstAddr & 0xFF00) | uint16(data)
	case 6:
		bl.width = data
	case 7:
		bl.height = data
	}
}

// startBlit latches the effective width/height (after size_xor and the
// zero-clamp to one) and the per-column stride advances, then arms the
// transfer.
func (bl *Blitter) startBlit() {
	w := uint16(bl.width ^ bl.sizeXor)
	h := uint16(bl.height ^ bl.sizeXor)
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}

	sxadv := uint16(1)
	if bl.control&CtrlSrcStride256 != 0 {
		sxadv = 256
	}
	dxadv := uint16(1)
	if bl.control&CtrlDstStride256 != 0 {
		dxadv = 256
	}

	bl.active = true
	bl.w = w
	bl.h = h
	bl.x = 0
	bl.rowsDone = 0
	bl.sstart = bl.srcAddr
	bl.dstart = bl.dstAddr
	bl.curSrc = bl.srcAddr
	bl.curDst = bl.dstAddr
	bl.sxadv = sxadv
	bl.dxadv = dxadv
	bl.shiftReg = 0
}

// DoDmaCycle transfers one byte through the system bus, applying shift,
// solid-fill and per-nibble transparency/suppression per the control
// byte. Returns the clock cycles consumed by the transfer (1 fast, 2
// slow) and false if no blit is active.
func (bl *Blitter) DoDmaCycle(b bus.Bus) (uint8, bool) {
	if !bl.active {
		return 0, false
	}

	cycles := uint8(1)
	if bl.control&CtrlSlow != 0 {
		cycles = 2
	}

	rawSrc := b.Read(bus.Dma, bl.curSrc)

	srcByte := rawSrc
	if bl.control&CtrlShift != 0 {
		combined := uint16(bl.shiftReg)<<8 | uint16(rawSrc)
		bl.shiftReg = rawSrc
		srcByte = uint8((combined >> 4) & 0xFF)
	}

	fgOnly := bl.control&CtrlForegroundOnly != 0
	noEven := bl.control&CtrlNoEven != 0
	noOdd := bl.control&CtrlNoOdd != 0

	dstByte := b.Read(bus.DmaVram, bl.curDst)
	keepMask := uint8(0xFF)

	if fgOnly && srcByte&0xF0 == 0 {
		if noEven {
			keepMask &= 0x0F
		}
	} else if !noEven {
		keepMask &= 0x0F
	}

	if fgOnly && srcByte&0x0F == 0 {
		if noOdd {
			keepMask &= 0xF0
		}
	} else if !noOdd {
		keepMask &= 0xF0
	}

	effectiveSrc := srcByte
	if bl.control&CtrlSolid != 0 {
		effectiveSrc = bl.solidColor
	}

	result := (dstByte & keepMask) | (effectiveSrc &^ keepMask)
	b.Write(bus.Dma, bl.curDst, result)

	bl.curSrc += bl.sxadv
	bl.curDst += bl.dxadv

	bl.x++
	if bl.x >= bl.w {
		bl.x = 0
		bl.rowsDone++

		if bl.rowsDone >= bl.h {
			bl.active = false
			return cycles, true
		}

		if bl.control&CtrlDstStride256 != 0 {
			bl.dstart = (bl.dstart & 0xFF00) | ((bl.dstart + 1) & 0x00FF)
		} else {
			bl.dstart += bl.w
		}
		if bl.control&CtrlSrcStride256 != 0 {
			bl.sstart = (bl.sstart & 0xFF00) | ((bl.sstart + 1) & 0x00FF)
		} else {
			bl.sstart += bl.w
		}
		bl.curSrc = bl.sstart
		bl.curDst = bl.dstart
	}

	return cycles, true
}
