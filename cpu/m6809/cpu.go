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

// Package m6809 implements a cycle-stepped Motorola 6809 core: page 2/3
// prefix dispatch, the 9-mode indexed postbyte resolver, and the
// full/fast interrupt stack layouts are all modeled here.
package m6809

import "github.com/master-g/corecade/bus"

// CcFlag bits of the condition code register.
const (
	CcC uint8 = 1 << 0 // Carry
	CcV uint8 = 1 << 1 // Overflow
	CcZ uint8 = 1 << 2 // Zero
	CcN uint8 = 1 << 3 // Negative
	CcI uint8 = 1 << 4 // IRQ mask
	CcH uint8 = 1 << 5 // Half carry
	CcF uint8 = 1 << 6 // FIRQ mask
	CcE uint8 = 1 << 7 // Entire (full state pushed)
)

type execKind uint8

const (
	stateFetch execKind = iota
	stateExecute
	stateExecutePage2
	stateExecutePage3
	stateHalted
)

type execState struct {
	kind   execKind
	opcode uint8
	cycle  int
}

// CPU is the 6809 register file plus execution micro-state.
type CPU struct {
	A, B   uint8
	DP     uint8
	X, Y   uint16
	U, S   uint16
	PC     uint16
	CC     uint8

	state      execState
	savedState execState // parked state while TSC holds the bus
	halted     bool

	postbyte uint8
	tempAddr uint16
	tempLo   uint16
}

func New() *CPU { return &CPU{} }

// Reset vectors through 0xFFFE and masks IRQ/FIRQ, matching real
// power-on/reset behavior.
func (c *CPU) Reset(b bus.Bus, master bus.Master) {
	c.A, c.B, c.DP = 0, 0, 0
	c.X, c.Y, c.U = 0, 0, 0
	c.CC = CcI | CcF
	lo := uint16(b.Read(master, 0xFFFE))
	hi := uint16(b.Read(master, 0xFFFF))
	c.PC = hi<<8 | lo
	c.S = 0
	c.state = execState{kind: stateFetch}
}

func (c *CPU) toFetch()         { c.state = execState{kind: stateFetch} }
func (c *CPU) toExecute(cy int) { c.state.kind = stateExecute; c.state.cycle = cy }

func (c *CPU) setFlag(mask uint8, set bool) {
	if set {
		c.CC |= mask
	} else {
		c.CC &^= mask
	}
}

func (c *CPU) d() uint16     { return uint16(c.A)<<8 | uint16(c.B) }
func (c *CPU) setD(v uint16) { c.A = uint8(v >> 8); c.B = uint8(v) }

// State exposes ExecState for tests/debugger.
func (c *CPU) State() (fetch bool, opcode uint8, cycle int) {
	return c.state.kind == stateFetch, c.state.opcode, c.state.cycle
}

// TickWithBus advances the CPU by one step. A Fetch tick reads the
// opcode (a 0x10/0x11 prefix takes one more tick for the page-2/3
// opcode) or enters an interrupt, pushing the whole frame in that
// tick. Indexed addressing resolves its postbyte over several ticks;
// apart from those steps, an instruction body runs with all of its
// operand, memory and stack accesses in a single Execute tick.
func (c *CPU) TickWithBus(b bus.Bus, master bus.Master) bool {
	if b.IsHaltedFor(master) {
		if c.state.kind != stateHalted {
			c.savedState = c.state
			c.state = execState{kind: stateHalted}
		}
		return false
	}
	if c.state.kind == stateHalted {
		c.state = c.savedState
	}

	switch c.state.kind {
	case stateFetch:
		ints := b.CheckInterrupts(master)
		if ints.NMI {
			c.enterInterrupt(b, master, 0xFFFC, true, false)
			return false
		}
		if ints.FIRQ && c.CC&CcF == 0 {
			c.enterInterrupt(b, master, 0xFFF6, false, true)
			return false
		}
		if ints.IRQ && c.CC&CcI == 0 {
			c.enterInterrupt(b, master, 0xFFF8, true, false)
			return false
		}
		op := b.Read(master, c.PC)
		c.PC++
		c.state = execState{kind: stateExecute, opcode: op, cycle: 0}
		return false
	case stateExecute:
		if c.state.opcode == 0x10 {
			if c.state.cycle == 0 {
				op2 := b.Read(master, c.PC)
				c.PC++
				c.state = execState{kind: stateExecutePage2, opcode: op2, cycle: 0}
			}
			return false
		}
		if c.state.opcode == 0x11 {
			if c.state.cycle == 0 {
				op2 := b.Read(master, c.PC)
				c.PC++
				c.state = execState{kind: stateExecutePage3, opcode: op2, cycle: 0}
			}
			return false
		}
		h := mainOpcodes[c.state.opcode]
		if h == nil {
			c.toFetch()
			return true
		}
		h(c, b, master, c.state.cycle)
		return c.state.kind == stateFetch
	case stateExecutePage2:
		h := page2Opcodes[c.state.opcode]
		if h == nil {
			c.toFetch()
			return true
		}
		h(c, b, master, c.state.cycle)
		return c.state.kind == stateFetch
	case stateExecutePage3:
		h := page3Opcodes[c.state.opcode]
		if h == nil {
			c.toFetch()
			return true
		}
		h(c, b, master, c.state.cycle)
		return c.state.kind == stateFetch
	}
	return true
}

// enterInterrupt pushes CPU state and vectors through the given
// address. full pushes all 12 bytes (NMI/IRQ); firq pushes only PC+CC
// with E cleared.
func (c *CPU) enterInterrupt(b bus.Bus, m bus.Master, vector uint16, full bool, firq bool) {
	if firq {
		c.setFlag(CcE, false)
		c.push8(b, m, uint8(c.PC))
		c.push8(b, m, uint8(c.PC>>8))
		c.push8(b, m, c.CC)
	} else {
		c.setFlag(CcE, true)
		c.push8(b, m, uint8(c.PC))
		c.push8(b, m, uint8(c.PC>>8))
		c.push8(b, m, uint8(c.U))
		c.push8(b, m, uint8(c.U>>8))
		c.push8(b, m, uint8(c.Y))
		c.push8(b, m, uint8(c.Y>>8))
		c.push8(b, m, uint8(c.X))
		c.push8(b, m, uint8(c.X>>8))
		c.push8(b, m, c.DP)
		c.push8(b, m, c.B)
		c.push8(b, m, c.A)
		c.push8(b, m, c.CC)
	}
	// Every entry (NMI, FIRQ, IRQ) sets both I and F, so FIRQ masks
	// FIRQ itself as well as IRQ.
	c.setFlag(CcI, true)
	c.setFlag(CcF, true)
	lo := uint16(b.Read(m, vector))
	hi := uint16(b.Read(m, vector+1))
	c.PC = hi<<8 | lo
	c.toFetch()
}

func (c *CPU) push8(b bus.Bus, m bus.Master, v uint8) {
	c.S--
	b.Write(m, c.S, v)
}

func (c *CPU) pull8(b bus.Bus, m bus.Master) uint8 {
	v := b.Read(m, c.S)
	c.S++
	return v
}

func (c *CPU) pushU8(b bus.Bus, m bus.Master, v uint8) {
	c.U--
	b.Write(m, c.U, v)
}

func (c *CPU) pullU8(b bus.Bus, m bus.Master) uint8 {
	v := b.Read(m, c.U)
	c.U++
	return v
}
