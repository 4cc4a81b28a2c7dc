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

// Package i8257 implements the Intel 8257 programmable DMA controller:
// four independent address/count channel pairs sharing one LSB/MSB
// flip-flop, used by Donkey Kong's sprite DMA.
package i8257

import "github.com/master-g/corecade/bus"

// Mode register bit masks.
const (
	ModeChannelEnableMask uint8 = 0x0F
	ModeRotatingPriority  uint8 = 0x10
	ModeTCStop            uint8 = 0x20
	ModeAutoLoad          uint8 = 0x40
)

// Transfer mode encoded in count register bits 15:14.
const (
	XferVerify uint16 = 0b00
	XferWrite  uint16 = 0b01
	XferRead   uint16 = 0b10
)

// Direction describes which way a DMA byte moved on a given cycle.
type Direction uint8

const (
	DirVerify Direction = iota
	DirWrite
	DirRead
)

// Transfer reports the outcome of one DoDmaCycle call.
type Transfer struct {
	Channel   int
	Data      uint8
	Direction Direction
	TC        bool
}

type channel struct {
	address     uint16
	count       uint16 // bits 15:14 mode, bits 13:0 byte count
	baseAddress uint16
	baseCount   uint16
}

// Controller is the 8257 register file plus DREQ/priority state. It
// has no clock of its own: a machine calls DoDmaCycle once per DMA bus
// cycle it grants, typically while the CPU is held off the bus by
// Bus.IsHaltedFor.
type Controller struct {
	channels     [4]channel
	flipFlop     bool // false = LSB, true = MSB
	mode         uint8
	tcFlags      uint8
	updateFlag   bool
	dreq         [4]bool
	lastServiced int
}

func New() *Controller { return &Controller{} }

// Read serves offsets 0-8 on the controller's own 9-port I/O window;
// a machine's IORead decodes its DMA base address down to this.
func (c *Controller) Read(offset uint8) uint8 {
	switch {
	case offset <= 7:
		ch := offset / 2
		isCount := offset&1 != 0
		var reg uint16
		if isCount {
			reg = c.channels[ch].count
		} else {
			reg = c.channels[ch].address
		}
		var b uint8
		if c.flipFlop {
			b = uint8(reg >> 8)
		} else {
			b = uint8(reg)
		}
		c.flipFlop = !c.flipFlop
		return b
	case offset == 8:
		status := c.tcFlags & 0x0F
		if c.updateFlag {
			status |= 0x10
		}
		return status
	}
	return 0xFF
}

// Write serves offsets 0-8. Writing the mode register (offset 8)
// resets the flip-flop and clears the TC/update flags.
func (c *Controller) Write(offset, data uint8) {
	switch {
	case offset <= 7:
		ch := offset / 2
		isCount := offset&1 != 0
		reg := &c.channels[ch].address
		if isCount {
			reg = &c.channels[ch].count
		}
		if c.flipFlop {
			*reg = (*reg & 0x00FF) | uint16(data)<<8
		} else {
			*reg = (*reg & 0xFF00) | uint16(data)
		}
		c.flipFlop = !c.flipFlop
		c.channels[ch].baseAddress = c.channels[ch].address
		c.channels[ch].baseCount = c.channels[ch].count
	case offset == 8:
		c.mode = data
		c.flipFlop = false
		c.tcFlags = 0
		c.updateFlag = false
	}
}

func (c *Controller) ChannelAddress(ch int) uint16 { return c.channels[ch].address }
func (c *Controller) ChannelCount(ch int) uint16   { return c.channels[ch].count }

// SetDREQ lets a peripheral (the sprite-DMA trigger latch, the
// blitter's go line) assert its DMA request.
func (c *Controller) SetDREQ(ch int, active bool) {
	if ch >= 0 && ch < 4 {
		c.dreq[ch] = active
	}
}

// HRQ reports whether any enabled channel currently wants the bus; a
// machine halts its CPU for as long as this is true.
func (c *Controller) HRQ() bool {
	enable := c.mode & ModeChannelEnableMask
	for ch := 0; ch < 4; ch++ {
		if c.dreq[ch] && enable&(1<<uint(ch)) != 0 {
			return true
		}
	}
	return false
}

// DoDmaCycle performs one transfer on the highest-priority requesting
// channel. dackData supplies the byte for Write-direction transfers
// (peripheral to memory); it is ignored otherwise. Returns false if no
// enabled channel currently has an active DREQ.
func (c *Controller) DoDmaCycle(b bus.Bus, dackData uint8) (Transfer, bool) {
	ch, ok := c.selectChannel()
	if !ok {
		return Transfer{}, false
	}
	ctl := &c.channels[ch]
	modeBits := ctl.count >> 14

	var data uint8
	var dir Direction
	switch modeBits {
	case XferRead:
		data = b.Read(bus.Dma, ctl.address)
		dir = DirRead
	case XferWrite:
		b.Write(bus.Dma, ctl.address, dackData)
		data = dackData
		dir = DirWrite
	default: // Verify, and illegal (0b11) treated as Verify
		dir = DirVerify
	}

	ctl.address++

	count := ctl.count & 0x3FFF
	tc := count == 0
	if tc {
		c.tcFlags |= 1 << uint(ch)
		c.handleTerminalCount(ch)
	} else {
		ctl.count = (ctl.count & 0xC000) | (count - 1)
	}

	if c.mode&ModeRotatingPriority != 0 {
		c.lastServiced = ch
	}

	return Transfer{Channel: ch, Data: data, Direction: dir, TC: tc}, true
}

func (c *Controller) selectChannel() (int, bool) {
	enable := c.mode & ModeChannelEnableMask
	if c.mode&ModeRotatingPriority != 0 {
		for i := 1; i <= 4; i++ {
			ch := (c.lastServiced + i) % 4
			if c.dreq[ch] && enable&(1<<uint(ch)) != 0 {
				return ch, true
			}
		}
		return 0, false
	}
	for ch := 0; ch < 4; ch++ {
		if c.dreq[ch] && enable&(1<<uint(ch)) != 0 {
			return ch, true
		}
	}
	return 0, false
}

// handleTerminalCount applies TC Stop and, for channel 2 with
// auto-load enabled, reloads it from channel 3's latched base
// registers (the classic 8257 Ch3-feeds-Ch2 idiom).
func (c *Controller) handleTerminalCount(ch int) {
	if c.mode&ModeTCStop != 0 {
		c.mode &^= 1 << uint(ch)
	}
	if ch == 2 && c.mode&ModeAutoLoad != 0 {
		c.channels[2].address = c.channels[3].baseAddress
		c.channels[2].count = c.channels[3].baseCount
		c.updateFlag = true
		if c.mode&ModeTCStop != 0 {
			c.mode |= 1 << 2
		}
	}
}
