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

// Package z80 implements a cycle-stepped Zilog Z80 core: undocumented
// X/Y flags, MEMPTR (WZ), the SCF/CCF Q quirk, and CB/ED/DD/FD prefix
// dispatch are all modeled.
package z80

import (
	"github.com/master-g/corecade/bus"
	"github.com/master-g/corecade/corelog"
)

// Flag bits of F.
const (
	FlagC uint8 = 1 << 0
	FlagN uint8 = 1 << 1
	FlagPV uint8 = 1 << 2
	FlagX uint8 = 1 << 3 // undocumented, mirrors bit 3 of the result
	FlagH uint8 = 1 << 4
	FlagY uint8 = 1 << 5 // undocumented, mirrors bit 5 of the result
	FlagZ uint8 = 1 << 6
	FlagS uint8 = 1 << 7
)

type execKind uint8

const (
	stateFetch execKind = iota
	stateExecute
	statePrefixCB
	statePrefixED
	stateExecuteCB
	stateExecuteED
	statePrefixIndexCB // DD CB d / FD CB d, waiting for the opcode after displacement
	stateExecuteIndexCB
)

type execState struct {
	kind   execKind
	opcode uint8
	cycle  int
}

// CPU is the Z80 register file plus execution micro-state.
type CPU struct {
	A, F             uint8
	B, C, D, E, H, L uint8
	A2, F2           uint8
	B2, C2, D2, E2, H2, L2 uint8
	IX, IY           uint16
	I, R             uint8
	SP, PC           uint16
	IFF1, IFF2       bool
	IM               uint8
	WZ               uint16 // MEMPTR

	q, prevQ uint8 // F value written by this/previous instruction, for SCF/CCF X/Y

	halted bool

	state execState

	// prefixActive is true from the DD/FD byte until the wrapped
	// instruction completes; it selects indexOpcodes over mainOpcodes
	// for opcodes that touch HL/(HL), and is ignored (falls through to
	// mainOpcodes) for everything else. The prefix byte is read in the
	// same tick as the byte after it, so a prefix adds no tick of its own.
	prefixActive bool
	usingIY      bool
	tempAddr     uint16
	tempData     uint8
	tCount       int // T-states counted by addT since Reset/ResetTStates, for tests
	displacement int8
}

func New() *CPU { return &CPU{} }

// Reset matches power-on: PC=0, IFF1=IFF2=false, IM=0, SP=0xFFFF (the
// SP reset value is undefined on real hardware; 0xFFFF is the common
// convention MAME and most emulators use).
func (c *CPU) Reset() {
	*c = CPU{SP: 0xFFFF}
}

func (c *CPU) toFetch() {
	c.state = execState{kind: stateFetch}
	c.prefixActive = false
	c.usingIY = false
	// Q latches whatever this instruction committed to F; an
	// instruction that never touches flags leaves q at zero, which is
	// what SCF/CCF's prevQ==0 check is looking for.
	c.prevQ = c.q
	c.q = 0
}
func (c *CPU) toExecute(cy int)  { c.state.kind = stateExecute; c.state.cycle = cy }

// State exposes ExecState for tests/debugger.
func (c *CPU) State() (fetch bool, opcode uint8, cycle int) {
	return c.state.kind == stateFetch, c.state.opcode, c.state.cycle
}

func (c *CPU) setSZXY(v uint8) {
	if v == 0 {
		c.F |= FlagZ
	} else {
		c.F &^= FlagZ
	}
	if v&0x80 != 0 {
		c.F |= FlagS
	} else {
		c.F &^= FlagS
	}
	c.F = (c.F &^ (FlagX | FlagY)) | (v & (FlagX | FlagY))
}

func parity(v uint8) bool {
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	return v&1 == 0
}

// TickWithBus advances the CPU by one step. A Fetch tick reads the
// opcode (after DD/FD, also the bytes that follow it) or enters an
// interrupt; a CB/ED prefix takes one more tick for its second opcode
// byte; an Execute tick runs the instruction body with all of its
// operand, memory and stack accesses, except that (HL) writes and
// block-instruction repeats take one further Execute tick.
func (c *CPU) TickWithBus(b bus.Bus, master bus.Master) bool {
	if b.IsHaltedFor(master) {
		return false
	}

	switch c.state.kind {
	case stateFetch:
		if c.halted {
			// HALT keeps refreshing R and doing nothing else until an
			// interrupt or reset.
			c.r7inc()
			ints := b.CheckInterrupts(master)
			if ints.NMI || (ints.IRQ && c.IFF1) {
				c.halted = false
			}
			return true
		}
		ints := b.CheckInterrupts(master)
		if ints.NMI {
			c.enterNMI(b, master)
			return false
		}
		if ints.IRQ && c.IFF1 {
			c.enterIRQ(b, master, ints.IRQVector)
			return false
		}
		op := b.Read(master, c.PC)
		c.PC++
		c.r7inc()
		switch op {
		case 0xCB:
			c.state = execState{kind: statePrefixCB}
		case 0xED:
			c.state = execState{kind: statePrefixED}
		case 0xDD:
			c.usingIY = false
			c.prefixActive = true
			c.dispatchIndexPrefix(b, master)
		case 0xFD:
			c.usingIY = true
			c.prefixActive = true
			c.dispatchIndexPrefix(b, master)
		default:
			c.state = execState{kind: stateExecute, opcode: op, cycle: 0}
		}
		return false
	case stateExecute:
		var h handlerFn
		if c.prefixActive {
			h = indexOpcodes[c.state.opcode]
			if h == nil {
				// Prefix followed by an opcode that does not touch
				// HL/IX/IY: the prefix has no effect; it was read in
				// the same Fetch tick as this opcode and adds no tick.
				h = mainOpcodes[c.state.opcode]
			}
		} else {
			h = mainOpcodes[c.state.opcode]
		}
		if h == nil {
			corelog.Logf("z80: unhandled opcode 0x%02X at PC=0x%04X, treated as NOP", c.state.opcode, c.PC-1)
			c.toFetch()
			return true
		}
		h(c, b, master, c.state.cycle)
		return c.state.kind == stateFetch
	case statePrefixCB:
		op := b.Read(master, c.PC)
		c.PC++
		c.r7inc()
		c.state = execState{kind: stateExecuteCB, opcode: op, cycle: 0}
		return false
	case stateExecuteCB:
		h := cbOpcodes[c.state.opcode]
		if h == nil {
			corelog.Logf("z80: unhandled CB opcode 0x%02X at PC=0x%04X, treated as NOP", c.state.opcode, c.PC-1)
			c.toFetch()
			return true
		}
		h(c, b, master, c.state.cycle)
		return c.state.kind == stateFetch
	case statePrefixED:
		op := b.Read(master, c.PC)
		c.PC++
		c.r7inc()
		c.state = execState{kind: stateExecuteED, opcode: op, cycle: 0}
		return false
	case stateExecuteED:
		h := edOpcodes[c.state.opcode]
		if h == nil {
			corelog.Logf("z80: unhandled ED opcode 0x%02X at PC=0x%04X, treated as NOP", c.state.opcode, c.PC-1)
			c.toFetch()
			return true
		}
		h(c, b, master, c.state.cycle)
		return c.state.kind == stateFetch
	case stateExecuteIndexCB:
		h := indexCBOpcodes[c.state.opcode]
		if h == nil {
			corelog.Logf("z80: unhandled indexed CB opcode 0x%02X at PC=0x%04X, treated as NOP", c.state.opcode, c.PC-1)
			c.toFetch()
			return true
		}
		h(c, b, master, c.state.cycle)
		return c.state.kind == stateFetch
	}
	return true
}

// dispatchIndexPrefix is invoked immediately after consuming a DD/FD
// byte: it reads the following byte in the same tick and queues it for
// Execute with prefixActive set, so TickWithBus runs its indexOpcodes
// handler (IX/IY in place of HL) where there is one and the unmodified
// mainOpcodes handler otherwise. For DD CB / FD CB it also reads the
// displacement and the final opcode byte and goes to indexCBOpcodes.
func (c *CPU) dispatchIndexPrefix(b bus.Bus, master bus.Master) {
	op := b.Read(master, c.PC)
	c.PC++
	c.r7inc()
	if op == 0xCB {
		// DD CB d op / FD CB d op: displacement byte, then opcode byte,
		// both already fetched before the operation executes.
		d := int8(b.Read(master, c.PC))
		c.PC++
		c.displacement = d
		op2 := b.Read(master, c.PC)
		c.PC++
		c.state = execState{kind: stateExecuteIndexCB, opcode: op2, cycle: 0}
		return
	}
	c.state = execState{kind: stateExecute, opcode: op, cycle: 0}
}

func (c *CPU) r7inc() {
	c.R = (c.R & 0x80) | ((c.R + 1) & 0x7F)
}

func (c *CPU) indexReg() *uint16 {
	if c.usingIY {
		return &c.IY
	}
	return &c.IX
}

func (c *CPU) push16(b bus.Bus, m bus.Master, v uint16) {
	c.SP--
	b.Write(m, c.SP, uint8(v>>8))
	c.SP--
	b.Write(m, c.SP, uint8(v))
}

func (c *CPU) pop16(b bus.Bus, m bus.Master) uint16 {
	lo := uint16(b.Read(m, c.SP))
	c.SP++
	hi := uint16(b.Read(m, c.SP))
	c.SP++
	return hi<<8 | lo
}

func (c *CPU) enterNMI(b bus.Bus, m bus.Master) {
	c.halted = false
	c.IFF2 = c.IFF1
	c.IFF1 = false
	c.push16(b, m, c.PC)
	c.PC = 0x0066
	c.toFetch()
}

func (c *CPU) enterIRQ(b bus.Bus, m bus.Master, vector uint8) {
	c.halted = false
	c.IFF1, c.IFF2 = false, false
	switch c.IM {
	case 0:
		// IM 0: the interrupting device places an instruction on the
		// bus; this core treats it as a single-byte RST whose target is
		// bits 3-5 of the supplied vector byte, the common arcade-hardware
		// shortcut (most IM0 boards wire an RST opcode).
		c.push16(b, m, c.PC)
		c.PC = uint16(vector & 0x38)
	case 1:
		c.push16(b, m, c.PC)
		c.PC = 0x0038
	case 2:
		addr := uint16(c.I)<<8 | uint16(vector)
		lo := uint16(b.Read(m, addr))
		hi := uint16(b.Read(m, addr+1))
		c.push16(b, m, c.PC)
		c.PC = hi<<8 | lo
	}
	c.toFetch()
}

func (c *CPU) bc() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) de() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) hl() uint16 { return uint16(c.H)<<8 | uint16(c.L) }
func (c *CPU) setBC(v uint16) { c.B = uint8(v >> 8); c.C = uint8(v) }
func (c *CPU) setDE(v uint16) { c.D = uint8(v >> 8); c.E = uint8(v) }
func (c *CPU) setHL(v uint16) { c.H = uint8(v >> 8); c.L = uint8(v) }
