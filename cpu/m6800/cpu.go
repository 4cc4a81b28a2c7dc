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

// Package m6800 implements a cycle-stepped Motorola 6800 core. It is
// the 6809's simpler ancestor: one index register, no DP/Y/U, and a
// handful of quirks the 6809 later fixed (CPX sets only N/Z/V, DAA
// never clears C).
package m6800

import "github.com/master-g/corecade/bus"

// CcFlag bits.
const (
	CcC uint8 = 1 << 0
	CcV uint8 = 1 << 1
	CcZ uint8 = 1 << 2
	CcN uint8 = 1 << 3
	CcI uint8 = 1 << 4
	CcH uint8 = 1 << 5
)

type execKind uint8

const (
	stateFetch execKind = iota
	stateExecute
	stateHalted
	stateWaitForInterrupt
)

type execState struct {
	kind   execKind
	opcode uint8
	cycle  int
}

// CPU is the 6800 register file plus execution micro-state.
type CPU struct {
	A, B uint8
	X    uint16
	SP   uint16
	PC   uint16
	CC   uint8

	state      execState
	savedState execState
	nmiPrev    bool

	tempAddr uint16
	tempData uint8
}

func New() *CPU { return &CPU{} }

func (c *CPU) Reset(b bus.Bus, master bus.Master) {
	c.A, c.B, c.X, c.SP = 0, 0, 0, 0
	c.CC = CcI
	lo := uint16(b.Read(master, 0xFFFE))
	hi := uint16(b.Read(master, 0xFFFF))
	c.PC = hi<<8 | lo
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

func (c *CPU) State() (fetch bool, opcode uint8, cycle int) {
	return c.state.kind == stateFetch, c.state.opcode, c.state.cycle
}

// TickWithBus advances the CPU by one step: a Fetch tick reads the
// opcode, and the Execute tick after it runs the whole instruction
// body, with all of its operand, memory and stack accesses, in that
// one call.
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
	case stateWaitForInterrupt:
		ints := b.CheckInterrupts(master)
		if ints.NMI {
			c.enterInterrupt(b, master, 0xFFFC)
			return false
		}
		if ints.IRQ && c.CC&CcI == 0 {
			c.enterInterrupt(b, master, 0xFFF8)
			return false
		}
		return true
	case stateFetch:
		ints := b.CheckInterrupts(master)
		nmiEdge := ints.NMI && !c.nmiPrev
		c.nmiPrev = ints.NMI
		if nmiEdge {
			c.enterInterrupt(b, master, 0xFFFC)
			return false
		}
		if ints.IRQ && c.CC&CcI == 0 {
			c.enterInterrupt(b, master, 0xFFF8)
			return false
		}
		op := b.Read(master, c.PC)
		c.PC++
		c.state = execState{kind: stateExecute, opcode: op, cycle: 0}
		return false
	case stateExecute:
		h := mainOpcodes[c.state.opcode]
		if h == nil {
			c.toFetch()
			return true
		}
		h(c, b, master, c.state.cycle)
		return c.state.kind == stateFetch
	}
	return true
}

// enterInterrupt pushes the full 7-byte state (PC,X,A,B,CC) and
// vectors through the given address.
func (c *CPU) enterInterrupt(b bus.Bus, m bus.Master, vector uint16) {
	c.push8(b, m, uint8(c.PC))
	c.push8(b, m, uint8(c.PC>>8))
	c.push8(b, m, uint8(c.X))
	c.push8(b, m, uint8(c.X>>8))
	c.push8(b, m, c.A)
	c.push8(b, m, c.B)
	c.push8(b, m, c.CC)
	c.setFlag(CcI, true)
	lo := uint16(b.Read(m, vector))
	hi := uint16(b.Read(m, vector+1))
	c.PC = hi<<8 | lo
	c.toFetch()
}

func (c *CPU) push8(b bus.Bus, m bus.Master, v uint8) {
	b.Write(m, c.SP, v)
	c.SP--
}

func (c *CPU) pull8(b bus.Bus, m bus.Master) uint8 {
	c.SP++
	return b.Read(m, c.SP)
}
